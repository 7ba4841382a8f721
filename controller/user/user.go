package user

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"teamboard/controller"
	"teamboard/dto"
	"teamboard/middleware"
	"teamboard/repository"
	"teamboard/services"
)

func UserController(router *gin.Engine, deps *controller.Deps) {
	routes := router.Group("/user", deps.Auth()...)
	{
		routes.GET("", func(c *gin.Context) {
			GetAllUser(c, deps)
		})
		routes.GET("/me", func(c *gin.Context) {
			Profile(c)
		})
		routes.PUT("/me", func(c *gin.Context) {
			UpdateProfile(c, deps)
		})
	}
}

func Profile(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

func UpdateProfile(c *gin.Context, deps *controller.Deps) {
	user := middleware.CurrentUser(c)
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}

	fields := make(map[string]interface{})
	if req.Name != nil {
		fields[repository.ColumnName] = strings.TrimSpace(*req.Name)
	}
	if req.Profile != nil {
		fields[repository.ColumnProfile] = *req.Profile
	}
	if len(req.Settings) > 0 {
		fields[repository.ColumnSettings] = datatypes.JSON(req.Settings)
	}
	if req.Password != nil {
		hashed, err := services.HashPassword(*req.Password)
		if err != nil {
			controller.RespondError(c, err)
			return
		}
		fields[repository.ColumnHashedPassword] = hashed
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := deps.Store.Users.Update(c, user.ID, fields); err != nil {
		controller.RespondError(c, err)
		return
	}
	updated, err := deps.Store.Users.Get(c, user.ID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": updated})
}
