// Package repository defines the persistence boundary. Board data lives in a
// document store, user accounts in a relational database.
package repository

import (
	"context"
	"errors"
	"time"

	"teamboard/model"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Store bundles every repository the handlers need.
type Store struct {
	Tasks         TaskRepository
	Departments   DepartmentRepository
	Users         UserRepository
	Invites       InviteRepository
	Settings      SettingsRepository
	Schedule      ScheduleRepository
	Templates     TemplateRepository
	Subscriptions SubscriptionRepository
}

// TaskFilter narrows ListByDepartment. Zero values match everything except
// archived tasks, which are only returned when Archived is set.
type TaskFilter struct {
	Status   string
	Assignee string
	Priority string
	Label    string
	Archived bool
}

func (f TaskFilter) Match(t *model.Task) bool {
	if t.Archived != f.Archived {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Assignee != "" && !t.IsAssignee(f.Assignee) {
		return false
	}
	if f.Label != "" {
		found := false
		for _, l := range t.Labels {
			if l.Name == f.Label {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// TaskRepository stores task documents. Update writes only the named fields,
// keyed by their document field path.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	Get(ctx context.Context, id string) (*model.Task, error)
	ListByDepartment(ctx context.Context, departmentID string, filter TaskFilter) ([]model.Task, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	UpdateOrders(ctx context.Context, orders map[string]int) error
	AppendActivity(ctx context.Context, id string, entries ...model.Activity) error
	AddComment(ctx context.Context, id string, comment model.Comment) error
	RemoveComment(ctx context.Context, id string, comment model.Comment) error
	AddAttachment(ctx context.Context, id string, attachment model.Attachment) error
	RemoveAttachment(ctx context.Context, id string, attachment model.Attachment) error
	Archive(ctx context.Context, id string, at time.Time) error
	Restore(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	// ListRecurringDone returns unarchived done tasks with an active recurrence rule.
	ListRecurringDone(ctx context.Context) ([]model.Task, error)
	// ClaimRecurrence stamps recurrence.lastGenerated = at, but only while the
	// stored value is still older than the task's completion. ErrConflict otherwise.
	ClaimRecurrence(ctx context.Context, id string, at time.Time) error
}

type DepartmentRepository interface {
	Create(ctx context.Context, dept *model.Department) error
	Get(ctx context.Context, id string) (*model.Department, error)
	List(ctx context.Context) ([]model.Department, error)
	ListForUser(ctx context.Context, userID string) ([]model.Department, error)
	Rename(ctx context.Context, id, name string) error
	SetColumns(ctx context.Context, id string, columns []model.Column) error
	AddAdmin(ctx context.Context, id, userID string) error
	RemoveAdmin(ctx context.Context, id, userID string) error
	AddMember(ctx context.Context, id, userID string) error
	RemoveMember(ctx context.Context, id, userID string) error
	Delete(ctx context.Context, id string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type InviteRepository interface {
	Create(ctx context.Context, invite *model.Invite) error
	Get(ctx context.Context, token string) (*model.Invite, error)
	// MarkUsed fails with ErrConflict when the invite was already used.
	MarkUsed(ctx context.Context, token string, at time.Time) error
}

// SettingsRepository is the only accessor for the global settings record.
type SettingsRepository interface {
	Get(ctx context.Context) (*model.Settings, error)
	SetScheduleAdmin(ctx context.Context, userID string) error
}

type ScheduleRepository interface {
	Get(ctx context.Context) (*model.ScheduleGrid, error)
	Put(ctx context.Context, grid *model.ScheduleGrid) error
}

type TemplateRepository interface {
	Create(ctx context.Context, tpl *model.Template) error
	Get(ctx context.Context, id string) (*model.Template, error)
	List(ctx context.Context) ([]model.Template, error)
	Delete(ctx context.Context, id string) error
}

type SubscriptionRepository interface {
	AddToken(ctx context.Context, userID, token string) error
	RemoveToken(ctx context.Context, userID, token string) error
	DeleteAll(ctx context.Context, userID string) error
	Tokens(ctx context.Context, userIDs []string) ([]string, error)
}
