package department

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"teamboard/controller"
	"teamboard/repository"
)

// DeleteDepartment removes the department together with every task in it.
func DeleteDepartment(c *gin.Context, deps *controller.Deps) {
	dept, err := deps.Store.Departments.Get(c, c.Param("id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}

	live, err := deps.Store.Tasks.ListByDepartment(c, dept.ID, repository.TaskFilter{})
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	archived, err := deps.Store.Tasks.ListByDepartment(c, dept.ID, repository.TaskFilter{Archived: true})
	if err != nil {
		controller.RespondError(c, err)
		return
	}

	now := time.Now().UTC()
	for _, t := range live {
		if err := deps.Store.Tasks.Archive(c, t.ID, now); err != nil {
			controller.RespondError(c, err)
			return
		}
	}
	deleted := 0
	for _, t := range append(live, archived...) {
		if err := deps.Store.Tasks.Delete(c, t.ID); err != nil {
			log.Printf("delete department %s: task %s: %v", dept.ID, t.ID, err)
			continue
		}
		deleted++
	}

	if err := deps.Store.Departments.Delete(c, dept.ID); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       "Department deleted successfully",
		"deleted_tasks": deleted,
	})
}
