package model

import (
	"time"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// StatusDone is the terminal column; recurring tasks spawn once they land here.
const StatusDone = "done"

type Task struct {
	ID             string       `firestore:"id" json:"id"`
	DepartmentID   string       `firestore:"departmentId" json:"department_id"`
	Title          string       `firestore:"title" json:"title"`
	Description    string       `firestore:"description" json:"description"`
	Status         string       `firestore:"status" json:"status"`
	Priority       string       `firestore:"priority" json:"priority"`
	Assignees      []string     `firestore:"assignees" json:"assignees"`
	CreatedBy      string       `firestore:"createdBy" json:"created_by"`
	DueDate        *time.Time   `firestore:"dueDate" json:"due_date,omitempty"`
	Labels         []Label      `firestore:"labels" json:"labels"`
	Subtasks       []Subtask    `firestore:"subtasks" json:"subtasks"`
	Attachments    []Attachment `firestore:"attachments" json:"attachments"`
	Comments       []Comment    `firestore:"comments" json:"comments"`
	Activity       []Activity   `firestore:"activity" json:"activity"`
	TimeEstimate   *float64     `firestore:"timeEstimate" json:"time_estimate,omitempty"`
	LoggedHours    *float64     `firestore:"loggedHours" json:"logged_hours,omitempty"`
	BlockedBy      []string     `firestore:"blockedBy" json:"blocked_by"`
	Recurrence     *Recurrence  `firestore:"recurrence" json:"recurrence,omitempty"`
	SpawnedFrom    string       `firestore:"spawnedFrom" json:"spawned_from,omitempty"`
	Order          int          `firestore:"order" json:"order"`
	CompletedAt    *time.Time   `firestore:"completedAt" json:"completed_at,omitempty"`
	CreatedAt      time.Time    `firestore:"createdAt" json:"created_at"`
	UpdatedAt      time.Time    `firestore:"updatedAt" json:"updated_at"`
	Archived       bool         `firestore:"archived" json:"archived"`
	ArchivedAt     *time.Time   `firestore:"archivedAt" json:"archived_at,omitempty"`
	PreviousStatus string       `firestore:"previousStatus" json:"previous_status,omitempty"`
}

// IsAssignee reports whether userID is one of the task's assignees.
func (t *Task) IsAssignee(userID string) bool {
	for _, a := range t.Assignees {
		if a == userID {
			return true
		}
	}
	return false
}

type Label struct {
	Name  string `firestore:"name" json:"name"`
	Color string `firestore:"color" json:"color"`
}

var LabelColors = []string{"gray", "red", "orange", "yellow", "green", "blue", "purple", "pink"}

type Subtask struct {
	ID        string `firestore:"id" json:"id"`
	Title     string `firestore:"title" json:"title"`
	Completed bool   `firestore:"completed" json:"completed"`
}

type Attachment struct {
	ID         string    `firestore:"id" json:"id"`
	Name       string    `firestore:"name" json:"name"`
	URL        string    `firestore:"url" json:"url"`
	Type       string    `firestore:"type" json:"type"`
	Size       int64     `firestore:"size" json:"size"`
	UploadedBy string    `firestore:"uploadedBy" json:"uploaded_by"`
	UploadedAt time.Time `firestore:"uploadedAt" json:"uploaded_at"`
}

type Comment struct {
	ID        string    `firestore:"id" json:"id"`
	AuthorID  string    `firestore:"authorId" json:"author_id"`
	Text      string    `firestore:"text" json:"text"`
	CreatedAt time.Time `firestore:"createdAt" json:"created_at"`
}

type Activity struct {
	ActorID string    `firestore:"actorId" json:"actor_id"`
	Action  string    `firestore:"action" json:"action"`
	Detail  string    `firestore:"detail" json:"detail"`
	At      time.Time `firestore:"at" json:"at"`
}
