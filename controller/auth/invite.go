package auth

import (
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

const defaultInviteTTL = 7 * 24 * time.Hour

func InviteController(router *gin.Engine, deps *controller.Deps) {
	router.POST("/invite", append(deps.Auth(), func(c *gin.Context) {
		CreateInvite(c, deps)
	})...)
}

// CreateInvite is open to global admins, and to department admins for their
// own department.
func CreateInvite(c *gin.Context, deps *controller.Deps) {
	user := middleware.CurrentUser(c)
	var req dto.CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}

	if req.DepartmentID != "" {
		dept, err := deps.Store.Departments.Get(c, req.DepartmentID)
		if err != nil {
			controller.RespondError(c, err)
			return
		}
		if !services.CanManageUsers(user) && !services.Authorize(user, dept, nil).CanManage() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
	} else if !services.CanManageUsers(user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	token, err := services.GenerateSecureToken(32)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	role := req.Role
	if role == "" {
		role = model.InviteRoleMember
	}
	ttl := defaultInviteTTL
	if req.ExpiresIn > 0 {
		ttl = time.Duration(req.ExpiresIn) * time.Hour
	}
	now := time.Now().UTC()
	invite := &model.Invite{
		Token:        token,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		DepartmentID: req.DepartmentID,
		Role:         role,
		CreatedBy:    user.ID,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}
	if err := deps.Store.Invites.Create(c, invite); err != nil {
		controller.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Invite created successfully",
		"invite":  invite,
	})
}
