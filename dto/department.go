package dto

import "teamboard/model"

type CreateDepartmentRequest struct {
	Name    string         `json:"name" binding:"required"`
	Columns []model.Column `json:"columns" binding:"omitempty,dive"`
}

type RenameDepartmentRequest struct {
	Name string `json:"name" binding:"required"`
}

type DepartmentUserRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type SetColumnsRequest struct {
	Columns []model.Column `json:"columns" binding:"required,min=1,dive"`
}
