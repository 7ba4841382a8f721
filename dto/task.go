package dto

import (
	"time"

	"github.com/google/uuid"

	"teamboard/model"
	"teamboard/repository"
)

type LabelRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color" binding:"required,labelcolor"`
}

type SubtaskRequest struct {
	ID        string `json:"id"`
	Title     string `json:"title" binding:"required"`
	Completed bool   `json:"completed"`
}

type RecurrenceRequest struct {
	Type    string     `json:"type" binding:"required,oneof=none daily weekly biweekly monthly"`
	EndDate *time.Time `json:"end_date"`
}

type CreateTaskRequest struct {
	DepartmentID string             `json:"department_id" binding:"required"`
	Title        string             `json:"title" binding:"required"`
	Description  string             `json:"description"`
	Status       string             `json:"status"`
	Priority     string             `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Assignees    []string           `json:"assignees"`
	DueDate      *time.Time         `json:"due_date"`
	Labels       []LabelRequest     `json:"labels" binding:"omitempty,dive"`
	Subtasks     []SubtaskRequest   `json:"subtasks" binding:"omitempty,dive"`
	TimeEstimate *float64           `json:"time_estimate" binding:"omitempty,min=0"`
	BlockedBy    []string           `json:"blocked_by"`
	Recurrence   *RecurrenceRequest `json:"recurrence"`
}

func (r CreateTaskRequest) ToTask() *model.Task {
	return &model.Task{
		DepartmentID: r.DepartmentID,
		Title:        r.Title,
		Description:  r.Description,
		Status:       r.Status,
		Priority:     r.Priority,
		Assignees:    nonNil(r.Assignees),
		DueDate:      r.DueDate,
		Labels:       toLabels(r.Labels),
		Subtasks:     toSubtasks(r.Subtasks),
		TimeEstimate: r.TimeEstimate,
		BlockedBy:    nonNil(r.BlockedBy),
		Recurrence:   r.Recurrence.toModel(),
	}
}

// UpdateTaskRequest is a partial update: nil fields are left untouched.
// ClearDueDate removes the due date.
type UpdateTaskRequest struct {
	Title        *string            `json:"title" binding:"omitempty,min=1"`
	Description  *string            `json:"description"`
	Status       *string            `json:"status" binding:"omitempty,min=1"`
	Priority     *string            `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Assignees    *[]string          `json:"assignees"`
	DueDate      *time.Time         `json:"due_date"`
	ClearDueDate bool               `json:"clear_due_date"`
	Labels       *[]LabelRequest    `json:"labels" binding:"omitempty,dive"`
	Subtasks     *[]SubtaskRequest  `json:"subtasks" binding:"omitempty,dive"`
	TimeEstimate *float64           `json:"time_estimate" binding:"omitempty,min=0"`
	LoggedHours  *float64           `json:"logged_hours" binding:"omitempty,min=0"`
	BlockedBy    *[]string          `json:"blocked_by"`
	Recurrence   *RecurrenceRequest `json:"recurrence"`
}

// ToFields maps the set fields to their document field paths.
func (r UpdateTaskRequest) ToFields() map[string]interface{} {
	fields := make(map[string]interface{})
	if r.Title != nil {
		fields[repository.FieldTitle] = *r.Title
	}
	if r.Description != nil {
		fields[repository.FieldDescription] = *r.Description
	}
	if r.Status != nil {
		fields[repository.FieldStatus] = *r.Status
	}
	if r.Priority != nil {
		fields[repository.FieldPriority] = *r.Priority
	}
	if r.Assignees != nil {
		fields[repository.FieldAssignees] = nonNil(*r.Assignees)
	}
	if r.ClearDueDate {
		fields[repository.FieldDueDate] = nil
	} else if r.DueDate != nil {
		fields[repository.FieldDueDate] = r.DueDate
	}
	if r.Labels != nil {
		fields[repository.FieldLabels] = toLabels(*r.Labels)
	}
	if r.Subtasks != nil {
		fields[repository.FieldSubtasks] = toSubtasks(*r.Subtasks)
	}
	if r.TimeEstimate != nil {
		fields[repository.FieldTimeEstimate] = r.TimeEstimate
	}
	if r.LoggedHours != nil {
		fields[repository.FieldLoggedHours] = r.LoggedHours
	}
	if r.BlockedBy != nil {
		fields[repository.FieldBlockedBy] = nonNil(*r.BlockedBy)
	}
	if r.Recurrence != nil {
		fields[repository.FieldRecurrence] = r.Recurrence.toModel()
	}
	return fields
}

// MoveTaskRequest is a drag-and-drop; order is the target index in the column.
type MoveTaskRequest struct {
	Status       *string `json:"status" binding:"omitempty,min=1"`
	Order        *int    `json:"order" binding:"omitempty,min=0"`
	DepartmentID *string `json:"department_id" binding:"omitempty,min=1"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type AttachmentRequest struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required,url"`
	Type string `json:"type"`
	Size int64  `json:"size" binding:"omitempty,min=0"`
}

type SubtaskUpdateRequest struct {
	Title     *string `json:"title" binding:"omitempty,min=1"`
	Completed *bool   `json:"completed"`
}

func (r *RecurrenceRequest) toModel() *model.Recurrence {
	if r == nil {
		return nil
	}
	return &model.Recurrence{Type: r.Type, EndDate: r.EndDate}
}

func toLabels(in []LabelRequest) []model.Label {
	out := make([]model.Label, 0, len(in))
	for _, l := range in {
		out = append(out, model.Label{Name: l.Name, Color: l.Color})
	}
	return out
}

func toSubtasks(in []SubtaskRequest) []model.Subtask {
	out := make([]model.Subtask, 0, len(in))
	for _, s := range in {
		id := s.ID
		if id == "" {
			id = uuid.NewString()
		}
		out = append(out, model.Subtask{ID: id, Title: s.Title, Completed: s.Completed})
	}
	return out
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
