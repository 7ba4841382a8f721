package auth

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"teamboard/controller"
	"teamboard/dto"
	"teamboard/model"
	"teamboard/repository"
	"teamboard/services"
)

func AuthController(router *gin.Engine, deps *controller.Deps) {
	routes := router.Group("/auth")
	{
		routes.POST("/signin", func(c *gin.Context) {
			Signin(c, deps)
		})
		routes.POST("/signup", func(c *gin.Context) {
			Signup(c, deps)
		})
		routes.GET("/invite/:token", func(c *gin.Context) {
			PreviewInvite(c, deps)
		})
	}
}

func Signin(c *gin.Context, deps *controller.Deps) {
	var req dto.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}

	user, err := deps.Store.Users.GetByEmail(c, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		controller.RespondError(c, err)
		return
	}
	if !services.CheckPassword(user.HashedPassword, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	respondWithToken(c, deps, http.StatusOK, user)
}

// Signup creates an account from an invite. The invite's email must match.
// The account is written first and removed again if the invite turns out to
// be taken.
func Signup(c *gin.Context, deps *controller.Deps) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}

	invite, err := deps.Store.Invites.Get(c, req.InviteToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invite token"})
			return
		}
		controller.RespondError(c, err)
		return
	}
	now := time.Now().UTC()
	if msg := inviteProblem(invite, now); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.EqualFold(strings.TrimSpace(invite.Email), email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email does not match the invite"})
		return
	}

	if _, err := deps.Store.Users.GetByEmail(c, email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		controller.RespondError(c, err)
		return
	}

	hashed, err := services.HashPassword(req.Password)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	user := &model.User{
		ID:             uuid.NewString(),
		Email:          email,
		HashedPassword: hashed,
		Name:           strings.TrimSpace(req.Name),
	}
	if err := deps.Store.Users.Create(c, user); err != nil {
		controller.RespondError(c, err)
		return
	}

	if err := deps.Store.Invites.MarkUsed(c, invite.Token, now); err != nil {
		if derr := deps.Store.Users.Delete(c, user.ID); derr != nil {
			log.Printf("signup: remove user %s: %v", user.ID, derr)
		}
		if errors.Is(err, repository.ErrConflict) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invite has already been used"})
			return
		}
		controller.RespondError(c, err)
		return
	}

	if invite.DepartmentID != "" {
		join := deps.Store.Departments.AddMember
		if invite.Role == model.InviteRoleAdmin {
			join = deps.Store.Departments.AddAdmin
		}
		if err := join(c, invite.DepartmentID, user.ID); err != nil {
			log.Printf("signup: join department %s: %v", invite.DepartmentID, err)
		}
	}

	respondWithToken(c, deps, http.StatusCreated, user)
}

func PreviewInvite(c *gin.Context, deps *controller.Deps) {
	invite, err := deps.Store.Invites.Get(c, c.Param("token"))
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	if msg := inviteProblem(invite, time.Now().UTC()); msg != "" {
		c.JSON(http.StatusGone, gin.H{"error": msg})
		return
	}

	response := gin.H{
		"email":      invite.Email,
		"role":       invite.Role,
		"expires_at": invite.ExpiresAt,
	}
	if invite.DepartmentID != "" {
		response["department_id"] = invite.DepartmentID
		if dept, err := deps.Store.Departments.Get(c, invite.DepartmentID); err == nil {
			response["department_name"] = dept.Name
		}
	}
	c.JSON(http.StatusOK, response)
}

func inviteProblem(invite *model.Invite, now time.Time) string {
	switch {
	case invite.UsedAt != nil:
		return "Invite has already been used"
	case now.After(invite.ExpiresAt):
		return "Invite has expired"
	}
	return ""
}

func respondWithToken(c *gin.Context, deps *controller.Deps, status int, user *model.User) {
	token, expiresAt, err := deps.Tokens.CreateAccessToken(user.ID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(status, gin.H{
		"message":    "Login successful",
		"token":      token,
		"expires_at": expiresAt,
		"user":       user,
	})
}
