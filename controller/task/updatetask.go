package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamboard/controller"
	"teamboard/dto"
	"teamboard/middleware"
	"teamboard/services"
)

// UpdateTask applies the fields the caller's role allows and reports the
// ones it dropped under "ignored".
func UpdateTask(c *gin.Context, deps *controller.Deps) {
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}

	task, ignored, err := deps.Tasks.Update(c, middleware.CurrentUser(c), c.Param("id"), req.ToFields())
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	if ignored == nil {
		ignored = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"task": task, "ignored": ignored})
}

func MoveTask(c *gin.Context, deps *controller.Deps) {
	var req dto.MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}

	task, err := deps.Tasks.Move(c, middleware.CurrentUser(c), c.Param("id"), services.MoveInput{
		Status:       req.Status,
		Order:        req.Order,
		DepartmentID: req.DepartmentID,
	})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}
