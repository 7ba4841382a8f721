package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamboard/controller"
	"teamboard/middleware"
	"teamboard/repository"
)

func TaskController(router *gin.Engine, deps *controller.Deps) {
	router.GET("/department/:id/tasks", append(deps.Auth(), func(c *gin.Context) {
		ListTasks(c, deps)
	})...)

	routes := router.Group("/task", deps.Auth()...)
	{
		routes.POST("", func(c *gin.Context) {
			CreateTask(c, deps)
		})
		routes.GET("/:id", func(c *gin.Context) {
			GetTask(c, deps)
		})
		routes.PUT("/:id", func(c *gin.Context) {
			UpdateTask(c, deps)
		})
		routes.PUT("/:id/move", func(c *gin.Context) {
			MoveTask(c, deps)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			ArchiveTask(c, deps)
		})
		routes.POST("/:id/restore", func(c *gin.Context) {
			RestoreTask(c, deps)
		})
		routes.DELETE("/:id/purge", func(c *gin.Context) {
			PurgeTask(c, deps)
		})

		routes.POST("/:id/comments", func(c *gin.Context) {
			AddComment(c, deps)
		})
		routes.DELETE("/:id/comments/:commentId", func(c *gin.Context) {
			DeleteComment(c, deps)
		})
		routes.POST("/:id/attachments", func(c *gin.Context) {
			AddAttachment(c, deps)
		})
		routes.DELETE("/:id/attachments/:attachmentId", func(c *gin.Context) {
			DeleteAttachment(c, deps)
		})
		routes.POST("/:id/subtasks", func(c *gin.Context) {
			AddSubtask(c, deps)
		})
		routes.PUT("/:id/subtasks/:subtaskId", func(c *gin.Context) {
			UpdateSubtask(c, deps)
		})
		routes.DELETE("/:id/subtasks/:subtaskId", func(c *gin.Context) {
			DeleteSubtask(c, deps)
		})
		routes.POST("/:id/assignees", func(c *gin.Context) {
			Assign(c, deps)
		})
		routes.DELETE("/:id/assignees/:userId", func(c *gin.Context) {
			Unassign(c, deps)
		})
	}
}

// ListTasks returns a department's tasks in board order. Query parameters
// status, assignee, priority and label narrow the list; archived=true lists
// the archive instead.
func ListTasks(c *gin.Context, deps *controller.Deps) {
	filter := repository.TaskFilter{
		Status:   c.Query("status"),
		Assignee: c.Query("assignee"),
		Priority: c.Query("priority"),
		Label:    c.Query("label"),
		Archived: c.Query("archived") == "true",
	}
	tasks, err := deps.Tasks.List(c, middleware.CurrentUser(c), c.Param("id"), filter)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func GetTask(c *gin.Context, deps *controller.Deps) {
	task, err := deps.Tasks.Get(c, middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}
