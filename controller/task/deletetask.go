package task

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamboard/controller"
	"teamboard/middleware"
)

// ArchiveTask is the soft delete; PurgeTask removes an archived task for good.
func ArchiveTask(c *gin.Context, deps *controller.Deps) {
	if err := deps.Tasks.Archive(c, middleware.CurrentUser(c), c.Param("id")); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task archived successfully"})
}

func RestoreTask(c *gin.Context, deps *controller.Deps) {
	task, err := deps.Tasks.Restore(c, middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func PurgeTask(c *gin.Context, deps *controller.Deps) {
	if err := deps.Tasks.Purge(c, middleware.CurrentUser(c), c.Param("id")); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
