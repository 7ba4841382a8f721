package recurrence

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamboard/controller"
	"teamboard/middleware"
	"teamboard/services"
)

func RecurrenceController(router *gin.Engine, deps *controller.Deps) {
	router.POST("/recurrence/process", append(deps.Auth(), func(c *gin.Context) {
		ProcessRecurrence(c, deps)
	})...)
}

// ProcessRecurrence runs the generator on demand. Open to superusers and to
// anyone who administers at least one department.
func ProcessRecurrence(c *gin.Context, deps *controller.Deps) {
	user := middleware.CurrentUser(c)
	if !user.IsSuperuser {
		depts, err := services.VisibleDepartments(c, deps.Store, user)
		if err != nil {
			controller.RespondError(c, err)
			return
		}
		if !services.AdministersAny(depts, user.ID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
	}

	result, err := deps.Recurrence.ProcessRecurringTasks(c)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
