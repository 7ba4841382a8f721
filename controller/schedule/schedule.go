package schedule

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"teamboard/controller"
	"teamboard/dto"
	"teamboard/middleware"
	"teamboard/model"
	"teamboard/services"
)

func ScheduleController(router *gin.Engine, deps *controller.Deps) {
	routes := router.Group("/schedule", deps.Auth()...)
	{
		routes.GET("", func(c *gin.Context) {
			GetSchedule(c, deps)
		})
		routes.PUT("", func(c *gin.Context) {
			PutSchedule(c, deps)
		})
		routes.GET("/admin", func(c *gin.Context) {
			GetScheduleAdmin(c, deps)
		})
		routes.PUT("/admin", middleware.SuperuserMiddleware(), func(c *gin.Context) {
			SetScheduleAdmin(c, deps)
		})
	}
}

func GetSchedule(c *gin.Context, deps *controller.Deps) {
	grid, err := deps.Store.Schedule.Get(c)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grid)
}

// PutSchedule replaces the whole grid. Only the superuser and the delegated
// schedule admin may edit it.
func PutSchedule(c *gin.Context, deps *controller.Deps) {
	user := middleware.CurrentUser(c)
	settings, err := deps.Store.Settings.Get(c)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	if !services.CanEditSchedule(user, settings) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the schedule admin can edit the schedule"})
		return
	}

	var req dto.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}
	grid := &model.ScheduleGrid{
		Phases:    req.Phases,
		Cells:     req.Cells,
		UpdatedBy: user.ID,
		UpdatedAt: time.Now().UTC(),
	}
	if grid.Cells == nil {
		grid.Cells = map[string]map[string]string{}
	}
	if err := validateGrid(c, deps, grid); err != nil {
		controller.RespondError(c, err)
		return
	}

	if err := deps.Store.Schedule.Put(c, grid); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grid)
}

// validateGrid requires unique phases, cells keyed by a listed phase and by
// an existing department.
func validateGrid(c *gin.Context, deps *controller.Deps, grid *model.ScheduleGrid) error {
	phases := make(map[string]bool, len(grid.Phases))
	for i, p := range grid.Phases {
		p = strings.TrimSpace(p)
		if p == "" || phases[p] {
			return fmt.Errorf("%w: phases must be unique and non-empty", services.ErrValidation)
		}
		grid.Phases[i] = p
		phases[p] = true
	}

	depts, err := deps.Store.Departments.List(c)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(depts))
	for _, d := range depts {
		known[d.ID] = true
	}
	for phase, row := range grid.Cells {
		if !phases[phase] {
			return fmt.Errorf("%w: unknown phase %q", services.ErrValidation, phase)
		}
		for deptID := range row {
			if !known[deptID] {
				return fmt.Errorf("%w: unknown department %q", services.ErrValidation, deptID)
			}
		}
	}
	return nil
}

func GetScheduleAdmin(c *gin.Context, deps *controller.Deps) {
	settings, err := deps.Store.Settings.Get(c)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id":  settings.ScheduleAdminID,
		"can_edit": services.CanEditSchedule(middleware.CurrentUser(c), settings),
	})
}

// SetScheduleAdmin delegates schedule editing to one user; an empty user id
// clears the delegation.
func SetScheduleAdmin(c *gin.Context, deps *controller.Deps) {
	var req dto.ScheduleAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}
	if req.UserID != "" {
		if _, err := deps.Store.Users.Get(c, req.UserID); err != nil {
			controller.RespondError(c, err)
			return
		}
	}
	if err := deps.Store.Settings.SetScheduleAdmin(c, req.UserID); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Schedule admin updated", "user_id": req.UserID})
}
