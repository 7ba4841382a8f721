package department

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

// CreateDepartment is open to global admins and superusers; the creator
// becomes the department's first admin.
func CreateDepartment(c *gin.Context, deps *controller.Deps) {
	user := middleware.CurrentUser(c)
	if !services.CanManageUsers(user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}
	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Department name is required"})
		return
	}

	columns := req.Columns
	if len(columns) == 0 {
		columns = model.DefaultColumns()
	}
	if err := services.ValidateColumns(columns); err != nil {
		controller.RespondError(c, err)
		return
	}

	now := time.Now().UTC()
	dept := &model.Department{
		ID:        uuid.NewString(),
		Name:      name,
		Admins:    []string{user.ID},
		Members:   []string{},
		Columns:   columns,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := deps.Store.Departments.Create(c, dept); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dept)
}
