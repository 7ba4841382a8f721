package admin

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"teamboard/controller"
	"teamboard/dto"
	"teamboard/middleware"
	"teamboard/repository"
)

func AdminController(router *gin.Engine, deps *controller.Deps) {
	routes := router.Group("/admin", append(deps.Auth(), middleware.AdminMiddleware())...)
	{
		routes.GET("/users", func(c *gin.Context) {
			ListUsers(c, deps)
		})
		routes.PUT("/users/:id", func(c *gin.Context) {
			UpdateUser(c, deps)
		})
		routes.DELETE("/users/:id", func(c *gin.Context) {
			DeleteUser(c, deps)
		})
	}
}

func ListUsers(c *gin.Context, deps *controller.Deps) {
	users, err := deps.Store.Users.List(c)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUser changes a user's name and flags. Only a superuser may grant or
// revoke the superuser flag.
func UpdateUser(c *gin.Context, deps *controller.Deps) {
	caller := middleware.CurrentUser(c)
	userID := c.Param("id")
	var req dto.AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}

	fields := make(map[string]interface{})
	if req.Name != nil {
		fields[repository.ColumnName] = strings.TrimSpace(*req.Name)
	}
	if req.IsAdmin != nil {
		fields[repository.ColumnIsAdmin] = *req.IsAdmin
	}
	if req.IsSuperuser != nil {
		if !caller.IsSuperuser {
			c.JSON(http.StatusForbidden, gin.H{"error": "Only a superuser can change the superuser flag"})
			return
		}
		if userID == caller.ID && !*req.IsSuperuser {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot revoke your own superuser flag"})
			return
		}
		fields[repository.ColumnIsSuperuser] = *req.IsSuperuser
	}
	if len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	if err := deps.Store.Users.Update(c, userID, fields); err != nil {
		controller.RespondError(c, err)
		return
	}
	user, err := deps.Store.Users.Get(c, userID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "user": user})
}

// DeleteUser removes the account and its department memberships.
func DeleteUser(c *gin.Context, deps *controller.Deps) {
	caller := middleware.CurrentUser(c)
	userID := c.Param("id")
	if userID == caller.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
		return
	}
	target, err := deps.Store.Users.Get(c, userID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	if target.IsSuperuser && !caller.IsSuperuser {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	if err := deps.Store.Users.Delete(c, userID); err != nil {
		controller.RespondError(c, err)
		return
	}

	depts, err := deps.Store.Departments.ListForUser(c, userID)
	if err != nil {
		log.Printf("delete user %s: list departments: %v", userID, err)
	}
	for _, d := range depts {
		if err := deps.Store.Departments.RemoveAdmin(c, d.ID, userID); err != nil {
			log.Printf("delete user %s: department %s: %v", userID, d.ID, err)
		}
		if err := deps.Store.Departments.RemoveMember(c, d.ID, userID); err != nil {
			log.Printf("delete user %s: department %s: %v", userID, d.ID, err)
		}
	}
	if err := deps.Store.Subscriptions.DeleteAll(c, userID); err != nil {
		log.Printf("delete user %s: subscriptions: %v", userID, err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
