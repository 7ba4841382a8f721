package model

import "time"

const (
	InviteRoleMember = "member"
	InviteRoleAdmin  = "admin"
)

// Invite lets a new user sign up into a department.
type Invite struct {
	Token        string     `firestore:"token" json:"token"`
	Email        string     `firestore:"email" json:"email"`
	DepartmentID string     `firestore:"departmentId" json:"department_id,omitempty"`
	Role         string     `firestore:"role" json:"role"`
	CreatedBy    string     `firestore:"createdBy" json:"created_by"`
	CreatedAt    time.Time  `firestore:"createdAt" json:"created_at"`
	ExpiresAt    time.Time  `firestore:"expiresAt" json:"expires_at"`
	UsedAt       *time.Time `firestore:"usedAt" json:"used_at,omitempty"`
}

// ScheduleGrid is the Sunday schedule: one cell per phase and department.
type ScheduleGrid struct {
	Phases    []string                     `firestore:"phases" json:"phases"`
	Cells     map[string]map[string]string `firestore:"cells" json:"cells"`
	UpdatedBy string                       `firestore:"updatedBy" json:"updated_by,omitempty"`
	UpdatedAt time.Time                    `firestore:"updatedAt" json:"updated_at"`
}

// Settings is the single global configuration record.
type Settings struct {
	ScheduleAdminID string    `firestore:"scheduleAdminId" json:"schedule_admin_id"`
	UpdatedAt       time.Time `firestore:"updatedAt" json:"updated_at"`
}

type TemplateTask struct {
	Title       string `firestore:"title" json:"title" binding:"required"`
	Description string `firestore:"description" json:"description"`
	Status      string `firestore:"status" json:"status"`
	Priority    string `firestore:"priority" json:"priority" binding:"omitempty,oneof=low medium high urgent"`
}

type Template struct {
	ID          string         `firestore:"id" json:"id"`
	Name        string         `firestore:"name" json:"name"`
	Columns     []Column       `firestore:"columns" json:"columns"`
	SampleTasks []TemplateTask `firestore:"sampleTasks" json:"sample_tasks"`
	CreatedBy   string         `firestore:"createdBy" json:"created_by"`
	CreatedAt   time.Time      `firestore:"createdAt" json:"created_at"`
}

// PushSubscription holds the FCM registration tokens of one user.
type PushSubscription struct {
	UserID    string    `firestore:"userId" json:"user_id"`
	Tokens    []string  `firestore:"tokens" json:"tokens"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updated_at"`
}
