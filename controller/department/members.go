package department

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"teamboard/controller"
	"teamboard/dto"
)

type membership int

const (
	roleMember membership = iota
	roleAdmin
)

// AddUser adds an admin or a member. Adding someone already present is a no-op.
func AddUser(c *gin.Context, deps *controller.Deps, role membership) {
	var req dto.DepartmentUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controller.BindError(c, err)
		return
	}
	dept, ok := loadDepartment(c, deps, true)
	if !ok {
		return
	}
	if _, err := deps.Store.Users.Get(c, req.UserID); err != nil {
		controller.RespondError(c, err)
		return
	}

	add := deps.Store.Departments.AddMember
	if role == roleAdmin {
		add = deps.Store.Departments.AddAdmin
	}
	if err := add(c, dept.ID, req.UserID); err != nil {
		controller.RespondError(c, err)
		return
	}
	respondWithDepartment(c, deps, dept.ID)
}

// RemoveUser removes an admin or a member. The last admin cannot be removed.
func RemoveUser(c *gin.Context, deps *controller.Deps, role membership) {
	dept, ok := loadDepartment(c, deps, true)
	if !ok {
		return
	}
	userID := c.Param("userId")

	remove := deps.Store.Departments.RemoveMember
	if role == roleAdmin {
		if dept.IsAdmin(userID) && len(dept.Admins) == 1 {
			c.JSON(http.StatusConflict, gin.H{"error": "A department needs at least one admin"})
			return
		}
		remove = deps.Store.Departments.RemoveAdmin
	}
	if err := remove(c, dept.ID, userID); err != nil {
		controller.RespondError(c, err)
		return
	}
	respondWithDepartment(c, deps, dept.ID)
}

func respondWithDepartment(c *gin.Context, deps *controller.Deps, id string) {
	dept, err := deps.Store.Departments.Get(c, id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dept)
}
