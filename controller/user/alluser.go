package user

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamboard/controller"
)

// GetAllUser is the directory used by assignee and member pickers.
func GetAllUser(c *gin.Context, deps *controller.Deps) {
	users, err := deps.Store.Users.List(c)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"id":      u.ID,
			"email":   u.Email,
			"name":    u.Name,
			"profile": u.Profile,
		})
	}
	c.JSON(http.StatusOK, out)
}
