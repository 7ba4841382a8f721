// Package memory is an in-process implementation of the repositories, used
// for local development (STORE_DRIVER=memory) and tests.
package memory

import (
	"sync"

	"teamboard/model"
	"teamboard/repository"
)

type Store struct {
	mu            sync.RWMutex
	tasks         map[string]*model.Task
	departments   map[string]*model.Department
	users         map[string]*model.User
	invites       map[string]*model.Invite
	settings      model.Settings
	schedule      *model.ScheduleGrid
	templates     map[string]*model.Template
	subscriptions map[string][]string
}

func New() *Store {
	return &Store{
		tasks:         make(map[string]*model.Task),
		departments:   make(map[string]*model.Department),
		users:         make(map[string]*model.User),
		invites:       make(map[string]*model.Invite),
		templates:     make(map[string]*model.Template),
		subscriptions: make(map[string][]string),
	}
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() *repository.Store {
	return &repository.Store{
		Tasks:         taskRepo{s},
		Departments:   departmentRepo{s},
		Users:         userRepo{s},
		Invites:       inviteRepo{s},
		Settings:      settingsRepo{s},
		Schedule:      scheduleRepo{s},
		Templates:     templateRepo{s},
		Subscriptions: subscriptionRepo{s},
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneTask(t *model.Task) *model.Task {
	c := *t
	c.Assignees = cloneStrings(t.Assignees)
	c.BlockedBy = cloneStrings(t.BlockedBy)
	c.Labels = append([]model.Label(nil), t.Labels...)
	c.Subtasks = append([]model.Subtask(nil), t.Subtasks...)
	c.Attachments = append([]model.Attachment(nil), t.Attachments...)
	c.Comments = append([]model.Comment(nil), t.Comments...)
	c.Activity = append([]model.Activity(nil), t.Activity...)
	if t.Recurrence != nil {
		r := *t.Recurrence
		c.Recurrence = &r
	}
	return &c
}

func cloneDepartment(d *model.Department) *model.Department {
	c := *d
	c.Admins = cloneStrings(d.Admins)
	c.Members = cloneStrings(d.Members)
	c.Columns = append([]model.Column(nil), d.Columns...)
	return &c
}

func addUnique(list []string, v string) []string {
	for _, item := range list {
		if item == v {
			return list
		}
	}
	return append(list, v)
}

func removeValue(list []string, v string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}
