package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamboard/controller"
	"teamboard/dto"
	"teamboard/middleware"
	"teamboard/repository"
)

// Assign adds one assignee; the new assignee is push-notified by the update.
func Assign(c *gin.Context, deps *controller.Deps) {
	var req dto.DepartmentUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}
	user := middleware.CurrentUser(c)
	task, err := deps.Tasks.Get(c, user, c.Param("id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	if task.IsAssignee(req.UserID) {
		c.JSON(http.StatusOK, task)
		return
	}
	setAssignees(c, deps, task.ID, append(append([]string{}, task.Assignees...), req.UserID))
}

func Unassign(c *gin.Context, deps *controller.Deps) {
	user := middleware.CurrentUser(c)
	task, err := deps.Tasks.Get(c, user, c.Param("id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	userID := c.Param("userId")
	assignees := make([]string, 0, len(task.Assignees))
	for _, a := range task.Assignees {
		if a != userID {
			assignees = append(assignees, a)
		}
	}
	setAssignees(c, deps, task.ID, assignees)
}

func setAssignees(c *gin.Context, deps *controller.Deps, taskID string, assignees []string) {
	updated, _, err := deps.Tasks.Update(c, middleware.CurrentUser(c), taskID, map[string]interface{}{
		repository.FieldAssignees: assignees,
	})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
