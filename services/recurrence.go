package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"teamboard/model"
	"teamboard/repository"
)

// ComputeNextDueDate adds one recurrence period to t. Unknown patterns
// return t unchanged.
func ComputeNextDueDate(t time.Time, pattern string) time.Time {
	switch pattern {
	case model.RecurrenceDaily:
		return t.AddDate(0, 0, 1)
	case model.RecurrenceWeekly:
		return t.AddDate(0, 0, 7)
	case model.RecurrenceBiweekly:
		return t.AddDate(0, 0, 14)
	case model.RecurrenceMonthly:
		return t.AddDate(0, 1, 0)
	}
	return t
}

// RecurrenceResult summarises one generator run.
type RecurrenceResult struct {
	Message     string   `json:"message"`
	CurrentTime string   `json:"current_time"`
	TotalCount  int      `json:"total_count"`
	Generated   int      `json:"generated"`
	Skipped     int      `json:"skipped"`
	ErrorCount  int      `json:"error_count"`
	Created     []string `json:"created"`
}

// RecurrenceGenerator spawns the next instance of completed recurring tasks.
type RecurrenceGenerator struct {
	store    *repository.Store
	notifier *Notifier
	now      func() time.Time
	mu       sync.Mutex
}

func NewRecurrenceGenerator(store *repository.Store, notifier *Notifier) *RecurrenceGenerator {
	return &RecurrenceGenerator{store: store, notifier: notifier, now: func() time.Time { return time.Now().UTC() }}
}

var errNotDue = errors.New("not due")

// ProcessRecurringTasks scans done recurring tasks and generates at most one
// instance per completion cycle.
func (g *RecurrenceGenerator) ProcessRecurringTasks(ctx context.Context) (*RecurrenceResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	tasks, err := g.store.Tasks.ListRecurringDone(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch completed recurring tasks: %w", err)
	}

	result := &RecurrenceResult{
		Message:     "No recurring tasks to process",
		CurrentTime: now.Format(time.RFC3339),
		TotalCount:  len(tasks),
		Created:     []string{},
	}
	if len(tasks) == 0 {
		return result, nil
	}
	log.Printf("recurrence: found %d completed recurring tasks", len(tasks))

	for i := range tasks {
		created, err := g.generate(ctx, &tasks[i], now)
		switch {
		case errors.Is(err, errNotDue) || errors.Is(err, repository.ErrConflict):
			result.Skipped++
		case err != nil:
			log.Printf("recurrence: task %s: %v", tasks[i].ID, err)
			result.ErrorCount++
		default:
			result.Generated++
			result.Created = append(result.Created, created.ID)
		}
	}
	result.Message = "Recurring tasks processed successfully"
	return result, nil
}

// nextInstanceDate decides whether origin should spawn now and returns the
// due date of the new instance.
func nextInstanceDate(origin *model.Task, now time.Time) (time.Time, error) {
	rule := origin.Recurrence
	if !rule.Active() || origin.Status != model.StatusDone || origin.Archived {
		return time.Time{}, errNotDue
	}
	if rule.LastGenerated != nil && (origin.CompletedAt == nil || !rule.LastGenerated.Before(*origin.CompletedAt)) {
		return time.Time{}, errNotDue
	}

	base := now
	switch {
	case origin.DueDate != nil:
		base = *origin.DueDate
	case origin.CompletedAt != nil:
		base = *origin.CompletedAt
	}
	if rule.EndDate != nil && rule.EndDate.Before(base) {
		return time.Time{}, errNotDue
	}

	next := ComputeNextDueDate(base, rule.Type)
	if next.Equal(base) {
		return time.Time{}, errNotDue
	}
	if rule.EndDate != nil && next.After(*rule.EndDate) {
		return time.Time{}, errNotDue
	}
	return next, nil
}

func (g *RecurrenceGenerator) generate(ctx context.Context, origin *model.Task, now time.Time) (*model.Task, error) {
	due, err := nextInstanceDate(origin, now)
	if err != nil {
		return nil, err
	}
	dept, err := g.store.Departments.Get(ctx, origin.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("department %s: %w", origin.DepartmentID, err)
	}
	status := dept.FirstActiveColumn()
	column, err := g.store.Tasks.ListByDepartment(ctx, dept.ID, repository.TaskFilter{Status: status})
	if err != nil {
		return nil, err
	}

	// Claim the completion cycle before creating anything so that a second
	// run, here or in another process, cannot spawn the same instance.
	if err := g.store.Tasks.ClaimRecurrence(ctx, origin.ID, now); err != nil {
		return nil, err
	}

	instance := cloneForRecurrence(origin, due, status, NextOrder(column, status), now)
	if err := g.store.Tasks.Create(ctx, instance); err != nil {
		return nil, fmt.Errorf("create instance of %s: %w", origin.ID, err)
	}
	if err := g.store.Tasks.AppendActivity(ctx, origin.ID,
		newActivity("", "recurrence_generated", instance.ID, now)); err != nil {
		log.Printf("activity: task %s: %v", origin.ID, err)
	}

	g.notifier.Notify(instance.Assignees, Message{
		Title: "Recurring task scheduled",
		Body:  fmt.Sprintf("%s is due %s", instance.Title, due.Format("2006-01-02")),
		Link:  "/tasks/" + instance.ID,
		Data:  map[string]string{"taskId": instance.ID, "departmentId": instance.DepartmentID},
	})
	return instance, nil
}

func cloneForRecurrence(origin *model.Task, due time.Time, status string, order int, now time.Time) *model.Task {
	subtasks := make([]model.Subtask, len(origin.Subtasks))
	for i, st := range origin.Subtasks {
		subtasks[i] = model.Subtask{ID: uuid.NewString(), Title: st.Title}
	}
	var rule *model.Recurrence
	if origin.Recurrence != nil {
		rule = &model.Recurrence{Type: origin.Recurrence.Type, EndDate: origin.Recurrence.EndDate}
	}
	return &model.Task{
		ID:           uuid.NewString(),
		DepartmentID: origin.DepartmentID,
		Title:        origin.Title,
		Description:  origin.Description,
		Status:       status,
		Priority:     origin.Priority,
		Assignees:    append([]string(nil), origin.Assignees...),
		CreatedBy:    origin.CreatedBy,
		DueDate:      &due,
		Labels:       append([]model.Label(nil), origin.Labels...),
		Subtasks:     subtasks,
		TimeEstimate: origin.TimeEstimate,
		BlockedBy:    []string{},
		Recurrence:   rule,
		SpawnedFrom:  origin.ID,
		Order:        order,
		CreatedAt:    now,
		UpdatedAt:    now,
		Activity:     []model.Activity{newActivity("", "created", "recurrence of "+origin.ID, now)},
	}
}
