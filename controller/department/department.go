package department

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"teamboard/controller"
	"teamboard/dto"
	"teamboard/middleware"
	"teamboard/model"
	"teamboard/services"
)

func DepartmentController(router *gin.Engine, deps *controller.Deps) {
	routes := router.Group("/department", deps.Auth()...)
	{
		routes.GET("", func(c *gin.Context) {
			ListDepartments(c, deps)
		})
		routes.POST("", func(c *gin.Context) {
			CreateDepartment(c, deps)
		})
		routes.GET("/:id", func(c *gin.Context) {
			GetDepartment(c, deps)
		})
		routes.PUT("/:id", func(c *gin.Context) {
			RenameDepartment(c, deps)
		})
		routes.DELETE("/:id", middleware.SuperuserMiddleware(), func(c *gin.Context) {
			DeleteDepartment(c, deps)
		})
		routes.PUT("/:id/columns", func(c *gin.Context) {
			SetColumns(c, deps)
		})
		routes.POST("/:id/admins", func(c *gin.Context) {
			AddUser(c, deps, roleAdmin)
		})
		routes.DELETE("/:id/admins/:userId", func(c *gin.Context) {
			RemoveUser(c, deps, roleAdmin)
		})
		routes.POST("/:id/members", func(c *gin.Context) {
			AddUser(c, deps, roleMember)
		})
		routes.DELETE("/:id/members/:userId", func(c *gin.Context) {
			RemoveUser(c, deps, roleMember)
		})
	}
}

func ListDepartments(c *gin.Context, deps *controller.Deps) {
	depts, err := services.VisibleDepartments(c, deps.Store, middleware.CurrentUser(c))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, depts)
}

func GetDepartment(c *gin.Context, deps *controller.Deps) {
	dept, ok := loadDepartment(c, deps, false)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dept)
}

func RenameDepartment(c *gin.Context, deps *controller.Deps) {
	var req dto.RenameDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Department name is required"})
		return
	}
	dept, ok := loadDepartment(c, deps, true)
	if !ok {
		return
	}
	if err := deps.Store.Departments.Rename(c, dept.ID, name); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Department updated successfully", "id": dept.ID, "name": name})
}

// loadDepartment fetches :id and checks the caller may read it, or manage it
// when manage is set. It answers the request itself on failure.
func loadDepartment(c *gin.Context, deps *controller.Deps, manage bool) (*model.Department, bool) {
	dept, err := deps.Store.Departments.Get(c, c.Param("id"))
	if err != nil {
		controller.RespondError(c, err)
		return nil, false
	}
	capability := services.Authorize(middleware.CurrentUser(c), dept, nil)
	if !capability.CanRead() || (manage && !capability.CanManage()) {
		controller.RespondError(c, services.ErrForbidden)
		return nil, false
	}
	return dept, true
}
