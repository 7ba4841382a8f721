package task

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"teamboard/controller"
	"teamboard/dto"
	"teamboard/middleware"
	"teamboard/model"
	"teamboard/repository"
)

func AddSubtask(c *gin.Context, deps *controller.Deps) {
	var req dto.SubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subtask title is required"})
		return
	}
	editSubtasks(c, deps, http.StatusCreated, func(subtasks []model.Subtask) ([]model.Subtask, bool) {
		return append(subtasks, model.Subtask{ID: uuid.NewString(), Title: title, Completed: req.Completed}), true
	})
}

// UpdateSubtask renames or checks off one subtask.
func UpdateSubtask(c *gin.Context, deps *controller.Deps) {
	var req dto.SubtaskUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}
	id := c.Param("subtaskId")
	editSubtasks(c, deps, http.StatusOK, func(subtasks []model.Subtask) ([]model.Subtask, bool) {
		for i := range subtasks {
			if subtasks[i].ID != id {
				continue
			}
			if req.Title != nil {
				subtasks[i].Title = strings.TrimSpace(*req.Title)
			}
			if req.Completed != nil {
				subtasks[i].Completed = *req.Completed
			}
			return subtasks, true
		}
		return nil, false
	})
}

func DeleteSubtask(c *gin.Context, deps *controller.Deps) {
	id := c.Param("subtaskId")
	editSubtasks(c, deps, http.StatusOK, func(subtasks []model.Subtask) ([]model.Subtask, bool) {
		for i := range subtasks {
			if subtasks[i].ID == id {
				return append(subtasks[:i], subtasks[i+1:]...), true
			}
		}
		return nil, false
	})
}

// editSubtasks rewrites the task's subtask list through the regular update
// path, so assignees may edit subtasks and members may not.
func editSubtasks(c *gin.Context, deps *controller.Deps, status int, edit func([]model.Subtask) ([]model.Subtask, bool)) {
	user := middleware.CurrentUser(c)
	task, err := deps.Tasks.Get(c, user, c.Param("id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	subtasks := append([]model.Subtask{}, task.Subtasks...)
	subtasks, found := edit(subtasks)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subtask not found"})
		return
	}

	updated, _, err := deps.Tasks.Update(c, user, task.ID, map[string]interface{}{
		repository.FieldSubtasks: subtasks,
	})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(status, updated)
}
