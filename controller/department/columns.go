package department

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamboard/controller"
	"teamboard/dto"
	"teamboard/middleware"
)

// SetColumns replaces the department's columns. Tasks sitting in a removed
// column are moved to the first active column of the new set.
func SetColumns(c *gin.Context, deps *controller.Deps) {
	var req dto.SetColumnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}

	moved, err := deps.Tasks.ReplaceColumns(c, middleware.CurrentUser(c), c.Param("id"), req.Columns)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	dept, err := deps.Store.Departments.Get(c, c.Param("id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"department": dept, "moved_tasks": moved})
}
