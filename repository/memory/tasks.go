package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"teamboard/model"
	"teamboard/repository"
)

type taskRepo struct{ s *Store }

func (r taskRepo) Create(_ context.Context, task *model.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[task.ID]; ok {
		return repository.ErrConflict
	}
	r.s.tasks[task.ID] = cloneTask(task)
	return nil
}

func (r taskRepo) Get(_ context.Context, id string) (*model.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneTask(t), nil
}

func (r taskRepo) ListByDepartment(_ context.Context, departmentID string, filter repository.TaskFilter) ([]model.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.Task
	for _, t := range r.s.tasks {
		if t.DepartmentID == departmentID && filter.Match(t) {
			out = append(out, *cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r taskRepo) Update(_ context.Context, id string, fields map[string]interface{}) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return repository.ErrNotFound
	}
	next := cloneTask(t)
	for path, value := range fields {
		if err := applyTaskField(next, path, value); err != nil {
			return err
		}
	}
	r.s.tasks[id] = next
	return nil
}

func (r taskRepo) UpdateOrders(_ context.Context, orders map[string]int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id := range orders {
		if _, ok := r.s.tasks[id]; !ok {
			return repository.ErrNotFound
		}
	}
	for id, order := range orders {
		r.s.tasks[id].Order = order
	}
	return nil
}

func (r taskRepo) AppendActivity(_ context.Context, id string, entries ...model.Activity) error {
	return r.mutate(id, func(t *model.Task) {
		t.Activity = append(t.Activity, entries...)
	})
}

func (r taskRepo) AddComment(_ context.Context, id string, comment model.Comment) error {
	return r.mutate(id, func(t *model.Task) {
		for _, c := range t.Comments {
			if c.ID == comment.ID {
				return
			}
		}
		t.Comments = append(t.Comments, comment)
	})
}

func (r taskRepo) RemoveComment(_ context.Context, id string, comment model.Comment) error {
	return r.mutate(id, func(t *model.Task) {
		kept := t.Comments[:0]
		for _, c := range t.Comments {
			if c.ID != comment.ID {
				kept = append(kept, c)
			}
		}
		t.Comments = kept
	})
}

func (r taskRepo) AddAttachment(_ context.Context, id string, attachment model.Attachment) error {
	return r.mutate(id, func(t *model.Task) {
		for _, a := range t.Attachments {
			if a.ID == attachment.ID {
				return
			}
		}
		t.Attachments = append(t.Attachments, attachment)
	})
}

func (r taskRepo) RemoveAttachment(_ context.Context, id string, attachment model.Attachment) error {
	return r.mutate(id, func(t *model.Task) {
		kept := t.Attachments[:0]
		for _, a := range t.Attachments {
			if a.ID != attachment.ID {
				kept = append(kept, a)
			}
		}
		t.Attachments = kept
	})
}

func (r taskRepo) Archive(_ context.Context, id string, at time.Time) error {
	return r.mutate(id, func(t *model.Task) {
		if t.Archived {
			return
		}
		t.PreviousStatus = t.Status
		t.Archived = true
		t.ArchivedAt = &at
		t.UpdatedAt = at
	})
}

func (r taskRepo) Restore(_ context.Context, id string) error {
	return r.mutate(id, func(t *model.Task) {
		if !t.Archived {
			return
		}
		if t.PreviousStatus != "" {
			t.Status = t.PreviousStatus
		}
		t.Archived = false
		t.ArchivedAt = nil
		t.PreviousStatus = ""
		t.UpdatedAt = time.Now().UTC()
	})
}

func (r taskRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return repository.ErrNotFound
	}
	if !t.Archived {
		return repository.ErrConflict
	}
	delete(r.s.tasks, id)
	return nil
}

func (r taskRepo) ListRecurringDone(_ context.Context) ([]model.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []model.Task
	for _, t := range r.s.tasks {
		if t.Status == model.StatusDone && !t.Archived && t.Recurrence.Active() {
			out = append(out, *cloneTask(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r taskRepo) ClaimRecurrence(_ context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return repository.ErrNotFound
	}
	if !t.Recurrence.Active() {
		return repository.ErrConflict
	}
	last := t.Recurrence.LastGenerated
	if last != nil && (t.CompletedAt == nil || !last.Before(*t.CompletedAt)) {
		return repository.ErrConflict
	}
	next := cloneTask(t)
	next.Recurrence.LastGenerated = &at
	r.s.tasks[id] = next
	return nil
}

func (r taskRepo) mutate(id string, fn func(t *model.Task)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return repository.ErrNotFound
	}
	next := cloneTask(t)
	fn(next)
	r.s.tasks[id] = next
	return nil
}

func applyTaskField(t *model.Task, path string, value interface{}) error {
	if value == nil {
		switch path {
		case repository.FieldDueDate:
			t.DueDate = nil
		case repository.FieldCompletedAt:
			t.CompletedAt = nil
		case repository.FieldArchivedAt:
			t.ArchivedAt = nil
		case repository.FieldRecurrence:
			t.Recurrence = nil
		case repository.FieldTimeEstimate:
			t.TimeEstimate = nil
		case repository.FieldLoggedHours:
			t.LoggedHours = nil
		default:
			return fmt.Errorf("task field %q cannot be null", path)
		}
		return nil
	}
	var ok bool
	switch path {
	case repository.FieldDepartmentID:
		t.DepartmentID, ok = value.(string)
	case repository.FieldTitle:
		t.Title, ok = value.(string)
	case repository.FieldDescription:
		t.Description, ok = value.(string)
	case repository.FieldStatus:
		t.Status, ok = value.(string)
	case repository.FieldPriority:
		t.Priority, ok = value.(string)
	case repository.FieldPreviousStatus:
		t.PreviousStatus, ok = value.(string)
	case repository.FieldAssignees:
		t.Assignees, ok = value.([]string)
	case repository.FieldBlockedBy:
		t.BlockedBy, ok = value.([]string)
	case repository.FieldLabels:
		t.Labels, ok = value.([]model.Label)
	case repository.FieldSubtasks:
		t.Subtasks, ok = value.([]model.Subtask)
	case repository.FieldOrder:
		t.Order, ok = value.(int)
	case repository.FieldArchived:
		t.Archived, ok = value.(bool)
	case repository.FieldRecurrence:
		t.Recurrence, ok = value.(*model.Recurrence)
	case repository.FieldTimeEstimate:
		t.TimeEstimate, ok = value.(*float64)
	case repository.FieldLoggedHours:
		t.LoggedHours, ok = value.(*float64)
	case repository.FieldDueDate:
		t.DueDate, ok = value.(*time.Time)
	case repository.FieldCompletedAt:
		t.CompletedAt, ok = value.(*time.Time)
	case repository.FieldArchivedAt:
		t.ArchivedAt, ok = value.(*time.Time)
	case repository.FieldUpdatedAt:
		t.UpdatedAt, ok = value.(time.Time)
	default:
		return fmt.Errorf("unknown task field %q", path)
	}
	if !ok {
		return fmt.Errorf("invalid value %T for task field %q", value, path)
	}
	return nil
}
