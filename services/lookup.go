package services

import (
	"context"
	"fmt"

	"teamboard/model"
	"teamboard/repository"
)

// GetTaskData loads a task together with the department it belongs to.
func GetTaskData(ctx context.Context, store *repository.Store, taskID string) (*model.Task, *model.Department, error) {
	task, err := store.Tasks.Get(ctx, taskID)
	if err != nil {
		return nil, nil, fmt.Errorf("task %s: %w", taskID, err)
	}
	dept, err := store.Departments.Get(ctx, task.DepartmentID)
	if err != nil {
		return nil, nil, fmt.Errorf("department %s: %w", task.DepartmentID, err)
	}
	return task, dept, nil
}

// VisibleDepartments lists every department for superusers, otherwise the
// ones the user administers or belongs to.
func VisibleDepartments(ctx context.Context, store *repository.Store, user *model.User) ([]model.Department, error) {
	if user.IsSuperuser {
		return store.Departments.List(ctx)
	}
	return store.Departments.ListForUser(ctx, user.ID)
}

// AdministersAny reports whether userID is an admin of one of depts.
func AdministersAny(depts []model.Department, userID string) bool {
	for i := range depts {
		if depts[i].IsAdmin(userID) {
			return true
		}
	}
	return false
}
