package template

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"teamboard/controller"
	"teamboard/dto"
	"teamboard/middleware"
	"teamboard/model"
	"teamboard/services"
)

func TemplateController(router *gin.Engine, deps *controller.Deps) {
	routes := router.Group("/template", deps.Auth()...)
	{
		routes.GET("", func(c *gin.Context) {
			ListTemplates(c, deps)
		})
		routes.POST("", func(c *gin.Context) {
			CreateTemplate(c, deps)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteTemplate(c, deps)
		})
		routes.POST("/:id/apply/:departmentId", func(c *gin.Context) {
			ApplyTemplate(c, deps)
		})
	}
}

func ListTemplates(c *gin.Context, deps *controller.Deps) {
	templates, err := deps.Store.Templates.List(c)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

// CreateTemplate is open to global admins and to anyone administering a department.
func CreateTemplate(c *gin.Context, deps *controller.Deps) {
	user := middleware.CurrentUser(c)
	if !services.CanManageUsers(user) {
		depts, err := deps.Store.Departments.ListForUser(c, user.ID)
		if err != nil {
			controller.RespondError(c, err)
			return
		}
		if !services.AdministersAny(depts, user.ID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
	}

	var req dto.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}
	tpl := &model.Template{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Columns:     req.Columns,
		SampleTasks: req.SampleTasks,
		CreatedBy:   user.ID,
		CreatedAt:   time.Now().UTC(),
	}
	if tpl.SampleTasks == nil {
		tpl.SampleTasks = []model.TemplateTask{}
	}
	if err := services.ValidateTemplate(tpl); err != nil {
		controller.RespondError(c, err)
		return
	}
	if err := deps.Store.Templates.Create(c, tpl); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tpl)
}

func DeleteTemplate(c *gin.Context, deps *controller.Deps) {
	user := middleware.CurrentUser(c)
	tpl, err := deps.Store.Templates.Get(c, c.Param("id"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	if tpl.CreatedBy != user.ID && !user.IsSuperuser {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}
	if err := deps.Store.Templates.Delete(c, tpl.ID); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template deleted successfully"})
}

func ApplyTemplate(c *gin.Context, deps *controller.Deps) {
	created, err := deps.Tasks.ApplyTemplate(c, middleware.CurrentUser(c), c.Param("id"), c.Param("departmentId"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	dept, err := deps.Store.Departments.Get(c, c.Param("departmentId"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"department": dept, "created_tasks": created})
}
