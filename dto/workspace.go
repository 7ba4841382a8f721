package dto

import "teamboard/model"

type ScheduleRequest struct {
	Phases []string                     `json:"phases" binding:"required,dive,required"`
	Cells  map[string]map[string]string `json:"cells"`
}

type ScheduleAdminRequest struct {
	UserID string `json:"user_id"`
}

type TemplateRequest struct {
	Name        string               `json:"name" binding:"required"`
	Columns     []model.Column       `json:"columns" binding:"required,min=1,dive"`
	SampleTasks []model.TemplateTask `json:"sample_tasks" binding:"omitempty,dive"`
}

type SubscribeRequest struct {
	Token string `json:"token" binding:"required"`
}

type SendNotificationRequest struct {
	Title        string   `json:"title" binding:"required"`
	Body         string   `json:"body" binding:"required"`
	Link         string   `json:"link"`
	UserIDs      []string `json:"user_ids"`
	DepartmentID string   `json:"department_id"`
}
