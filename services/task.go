package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"teamboard/model"
	"teamboard/repository"
)

// TaskService applies task operations after the access check.
type TaskService struct {
	store    *repository.Store
	notifier *Notifier
	now      func() time.Time
}

func NewTaskService(store *repository.Store, notifier *Notifier) *TaskService {
	return &TaskService{store: store, notifier: notifier, now: func() time.Time { return time.Now().UTC() }}
}

// MoveInput is a drag-and-drop: any of the fields may be nil.
type MoveInput struct {
	Status       *string
	Order        *int
	DepartmentID *string
}

func newActivity(actor, action, detail string, at time.Time) model.Activity {
	return model.Activity{ActorID: actor, Action: action, Detail: detail, At: at}
}

func (s *TaskService) Get(ctx context.Context, user *model.User, taskID string) (*model.Task, error) {
	task, dept, err := GetTaskData(ctx, s.store, taskID)
	if err != nil {
		return nil, err
	}
	if !Authorize(user, dept, task).CanRead() {
		return nil, ErrForbidden
	}
	return task, nil
}

// List returns the department's tasks in board order.
func (s *TaskService) List(ctx context.Context, user *model.User, departmentID string, filter repository.TaskFilter) ([]model.Task, error) {
	dept, err := s.store.Departments.Get(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	if !Authorize(user, dept, nil).CanRead() {
		return nil, ErrForbidden
	}
	tasks, err := s.store.Tasks.ListByDepartment(ctx, departmentID, filter)
	if err != nil {
		return nil, err
	}
	columnIndex := make(map[string]int, len(dept.Columns))
	for i, col := range dept.Columns {
		columnIndex[col.ID] = i
	}
	SortTasks(tasks)
	sort.SliceStable(tasks, func(i, j int) bool {
		return columnRank(columnIndex, tasks[i].Status) < columnRank(columnIndex, tasks[j].Status)
	})
	return tasks, nil
}

func columnRank(index map[string]int, status string) int {
	if i, ok := index[status]; ok {
		return i
	}
	return len(index)
}

// Create stores a new task in task.DepartmentID. Status defaults to the first
// active column and the task is appended to the end of its column.
func (s *TaskService) Create(ctx context.Context, user *model.User, task *model.Task) (*model.Task, error) {
	dept, err := s.store.Departments.Get(ctx, task.DepartmentID)
	if err != nil {
		return nil, err
	}
	if !Authorize(user, dept, nil).CanManage() {
		return nil, ErrForbidden
	}
	if task.Status == "" {
		task.Status = dept.FirstActiveColumn()
	}
	if !dept.HasColumn(task.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, task.Status)
	}
	if err := validateAssignees(dept, task.Assignees); err != nil {
		return nil, err
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if !task.Recurrence.Active() {
		task.Recurrence = nil
	}

	column, err := s.store.Tasks.ListByDepartment(ctx, dept.ID, repository.TaskFilter{Status: task.Status})
	if err != nil {
		return nil, err
	}
	now := s.now()
	task.ID = uuid.NewString()
	task.CreatedBy = user.ID
	task.Order = NextOrder(column, task.Status)
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.Status == model.StatusDone {
		task.CompletedAt = &now
	}
	task.Activity = []model.Activity{newActivity(user.ID, "created", task.Title, now)}

	if err := s.store.Tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	s.notifyUsers(exclude(task.Assignees, user.ID), model.Task{ID: task.ID, DepartmentID: task.DepartmentID},
		"New task assigned", task.Title)
	return task, nil
}

// Update writes the requested fields the caller's role allows; the rest are
// dropped and returned. A request where nothing is allowed is forbidden.
func (s *TaskService) Update(ctx context.Context, user *model.User, taskID string, fields map[string]interface{}) (*model.Task, []string, error) {
	if len(fields) == 0 {
		return nil, nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	task, dept, err := GetTaskData(ctx, s.store, taskID)
	if err != nil {
		return nil, nil, err
	}
	capability := Authorize(user, dept, task)
	if !capability.CanMutateTask() {
		return nil, nil, ErrForbidden
	}
	if task.Archived {
		return nil, nil, fmt.Errorf("%w: task is archived", ErrConflict)
	}
	allowed, ignored := capability.Filter(fields)
	delete(allowed, repository.FieldOrder)
	delete(allowed, repository.FieldDepartmentID)
	if len(allowed) == 0 {
		return nil, ignored, ErrForbidden
	}

	now := s.now()
	if status, ok := allowed[repository.FieldStatus].(string); ok {
		if !dept.HasColumn(status) {
			return nil, nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
		}
		if status == task.Status {
			delete(allowed, repository.FieldStatus)
		} else {
			column, err := s.store.Tasks.ListByDepartment(ctx, dept.ID, repository.TaskFilter{Status: status})
			if err != nil {
				return nil, nil, err
			}
			allowed[repository.FieldOrder] = NextOrder(column, status)
			completionFields(allowed, task.Status, status, now)
		}
	}

	var added []string
	if assignees, ok := allowed[repository.FieldAssignees].([]string); ok {
		if err := validateAssignees(dept, assignees); err != nil {
			return nil, nil, err
		}
		for _, a := range assignees {
			if !task.IsAssignee(a) && a != user.ID {
				added = append(added, a)
			}
		}
	}
	if rec, ok := allowed[repository.FieldRecurrence].(*model.Recurrence); ok {
		switch {
		case !rec.Active():
			allowed[repository.FieldRecurrence] = nil
		case task.Recurrence.Active() && rec.LastGenerated == nil:
			// keep the claim on the current cycle across rule edits
			rec.LastGenerated = task.Recurrence.LastGenerated
		}
	}
	if len(allowed) == 0 {
		return task, ignored, nil
	}

	allowed[repository.FieldUpdatedAt] = now
	if err := s.store.Tasks.Update(ctx, task.ID, allowed); err != nil {
		return nil, nil, err
	}
	if err := s.store.Tasks.AppendActivity(ctx, task.ID,
		newActivity(user.ID, "updated", changedFields(allowed), now)); err != nil {
		log.Printf("activity: task %s: %v", task.ID, err)
	}

	updated, err := s.store.Tasks.Get(ctx, task.ID)
	if err != nil {
		return nil, nil, err
	}
	s.notifyUsers(added, *updated, "New task assigned", updated.Title)
	if _, ok := allowed[repository.FieldStatus]; ok {
		s.notifyUsers(exclude(updated.Assignees, user.ID), *updated, "Task moved",
			fmt.Sprintf("%s is now in %s", updated.Title, updated.Status))
	}
	return updated, ignored, nil
}

// Move changes status, position and department. Fields the caller may not
// touch are ignored; if none of the requested fields is allowed the move is forbidden.
func (s *TaskService) Move(ctx context.Context, user *model.User, taskID string, in MoveInput) (*model.Task, error) {
	if in.Status == nil && in.Order == nil && in.DepartmentID == nil {
		return nil, fmt.Errorf("%w: nothing to move", ErrValidation)
	}
	task, dept, err := GetTaskData(ctx, s.store, taskID)
	if err != nil {
		return nil, err
	}
	capability := Authorize(user, dept, task)
	if !capability.CanMutateTask() {
		return nil, ErrForbidden
	}
	if task.Archived {
		return nil, fmt.Errorf("%w: task is archived", ErrConflict)
	}
	if in.Status != nil && !capability.CanWrite(repository.FieldStatus) {
		in.Status = nil
	}
	if in.Order != nil && !capability.CanWrite(repository.FieldOrder) {
		in.Order = nil
	}
	if in.DepartmentID != nil && !capability.CanWrite(repository.FieldDepartmentID) {
		in.DepartmentID = nil
	}
	if in.Status == nil && in.Order == nil && in.DepartmentID == nil {
		return nil, ErrForbidden
	}

	target := dept
	if in.DepartmentID != nil && *in.DepartmentID != task.DepartmentID {
		target, err = s.store.Departments.Get(ctx, *in.DepartmentID)
		if err != nil {
			return nil, err
		}
		if !Authorize(user, target, nil).CanManage() {
			return nil, ErrForbidden
		}
	}

	status := task.Status
	if in.Status != nil {
		if !target.HasColumn(*in.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *in.Status)
		}
		status = *in.Status
	} else if !target.HasColumn(status) {
		status = target.FirstActiveColumn()
	}

	column, err := s.store.Tasks.ListByDepartment(ctx, target.ID, repository.TaskFilter{Status: status})
	if err != nil {
		return nil, err
	}
	index := len(column)
	if in.Order != nil {
		index = *in.Order
	} else if status == task.Status && target.ID == task.DepartmentID {
		index = positionOf(column, task.ID)
	}
	orders := PlaceInColumn(column, *task, index)

	now := s.now()
	fields := map[string]interface{}{
		repository.FieldOrder:     orders[task.ID],
		repository.FieldUpdatedAt: now,
	}
	delete(orders, task.ID)
	if target.ID != task.DepartmentID {
		fields[repository.FieldDepartmentID] = target.ID
	}
	if status != task.Status {
		fields[repository.FieldStatus] = status
		completionFields(fields, task.Status, status, now)
	}

	if err := s.store.Tasks.Update(ctx, task.ID, fields); err != nil {
		return nil, err
	}
	if err := s.store.Tasks.UpdateOrders(ctx, orders); err != nil {
		return nil, err
	}

	detail := fmt.Sprintf("%s -> %s", task.Status, status)
	if target.ID != task.DepartmentID {
		detail = fmt.Sprintf("%s (%s -> %s)", detail, task.DepartmentID, target.ID)
	}
	if err := s.store.Tasks.AppendActivity(ctx, task.ID, newActivity(user.ID, "moved", detail, now)); err != nil {
		log.Printf("activity: task %s: %v", task.ID, err)
	}

	updated, err := s.store.Tasks.Get(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	if status != task.Status {
		s.notifyUsers(exclude(updated.Assignees, user.ID), *updated, "Task moved",
			fmt.Sprintf("%s is now in %s", updated.Title, status))
	}
	return updated, nil
}

func (s *TaskService) Archive(ctx context.Context, user *model.User, taskID string) error {
	task, dept, err := GetTaskData(ctx, s.store, taskID)
	if err != nil {
		return err
	}
	if !Authorize(user, dept, task).CanManage() {
		return ErrForbidden
	}
	now := s.now()
	if err := s.store.Tasks.Archive(ctx, task.ID, now); err != nil {
		return err
	}
	return s.store.Tasks.AppendActivity(ctx, task.ID, newActivity(user.ID, "archived", task.Status, now))
}

func (s *TaskService) Restore(ctx context.Context, user *model.User, taskID string) (*model.Task, error) {
	task, dept, err := GetTaskData(ctx, s.store, taskID)
	if err != nil {
		return nil, err
	}
	if !Authorize(user, dept, task).CanManage() {
		return nil, ErrForbidden
	}
	if !task.Archived {
		return nil, fmt.Errorf("%w: task is not archived", ErrConflict)
	}
	status := task.PreviousStatus
	if status == "" {
		status = task.Status
	}
	now := s.now()
	if err := s.store.Tasks.Restore(ctx, task.ID); err != nil {
		return nil, err
	}
	if !dept.HasColumn(status) {
		// the column was removed while the task sat in the archive
		target := dept.FirstActiveColumn()
		column, err := s.store.Tasks.ListByDepartment(ctx, dept.ID, repository.TaskFilter{Status: target})
		if err != nil {
			return nil, err
		}
		fields := map[string]interface{}{
			repository.FieldStatus:    target,
			repository.FieldOrder:     NextOrder(column, target),
			repository.FieldUpdatedAt: now,
		}
		completionFields(fields, status, target, now)
		if err := s.store.Tasks.Update(ctx, task.ID, fields); err != nil {
			return nil, err
		}
		status = target
	}
	if err := s.store.Tasks.AppendActivity(ctx, task.ID,
		newActivity(user.ID, "restored", status, now)); err != nil {
		log.Printf("activity: task %s: %v", task.ID, err)
	}
	return s.store.Tasks.Get(ctx, task.ID)
}

// Purge permanently deletes an archived task.
func (s *TaskService) Purge(ctx context.Context, user *model.User, taskID string) error {
	task, dept, err := GetTaskData(ctx, s.store, taskID)
	if err != nil {
		return err
	}
	if !Authorize(user, dept, task).CanManage() {
		return ErrForbidden
	}
	if !task.Archived {
		return fmt.Errorf("%w: only archived tasks can be deleted", ErrConflict)
	}
	return s.store.Tasks.Delete(ctx, task.ID)
}

func (s *TaskService) AddComment(ctx context.Context, user *model.User, taskID, text string) (*model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", ErrValidation)
	}
	task, dept, err := GetTaskData(ctx, s.store, taskID)
	if err != nil {
		return nil, err
	}
	if !Authorize(user, dept, task).CanComment() {
		return nil, ErrForbidden
	}
	comment := model.Comment{ID: uuid.NewString(), AuthorID: user.ID, Text: text, CreatedAt: s.now()}
	if err := s.store.Tasks.AddComment(ctx, task.ID, comment); err != nil {
		return nil, err
	}
	if err := s.store.Tasks.AppendActivity(ctx, task.ID,
		newActivity(user.ID, "commented", "", comment.CreatedAt)); err != nil {
		log.Printf("activity: task %s: %v", task.ID, err)
	}
	recipients := exclude(append(append([]string{}, task.Assignees...), task.CreatedBy), user.ID)
	s.notifyUsers(recipients, *task, "New comment on "+task.Title, truncate(text, 120))
	return &comment, nil
}

// DeleteComment is allowed to the comment's author and superusers.
func (s *TaskService) DeleteComment(ctx context.Context, user *model.User, taskID, commentID string) error {
	task, err := s.store.Tasks.Get(ctx, taskID)
	if err != nil {
		return err
	}
	for _, c := range task.Comments {
		if c.ID != commentID {
			continue
		}
		if c.AuthorID != user.ID && !user.IsSuperuser {
			return ErrForbidden
		}
		return s.store.Tasks.RemoveComment(ctx, task.ID, c)
	}
	return fmt.Errorf("comment %s: %w", commentID, ErrNotFound)
}

func (s *TaskService) AddAttachment(ctx context.Context, user *model.User, taskID string, attachment model.Attachment) (*model.Attachment, error) {
	task, dept, err := GetTaskData(ctx, s.store, taskID)
	if err != nil {
		return nil, err
	}
	if !Authorize(user, dept, task).CanComment() {
		return nil, ErrForbidden
	}
	attachment.ID = uuid.NewString()
	attachment.UploadedBy = user.ID
	attachment.UploadedAt = s.now()
	if err := s.store.Tasks.AddAttachment(ctx, task.ID, attachment); err != nil {
		return nil, err
	}
	if err := s.store.Tasks.AppendActivity(ctx, task.ID,
		newActivity(user.ID, "attached", attachment.Name, attachment.UploadedAt)); err != nil {
		log.Printf("activity: task %s: %v", task.ID, err)
	}
	return &attachment, nil
}

// DeleteAttachment is allowed to the uploader, department admins and superusers.
func (s *TaskService) DeleteAttachment(ctx context.Context, user *model.User, taskID, attachmentID string) error {
	task, dept, err := GetTaskData(ctx, s.store, taskID)
	if err != nil {
		return err
	}
	for _, a := range task.Attachments {
		if a.ID != attachmentID {
			continue
		}
		if a.UploadedBy != user.ID && !Authorize(user, dept, task).CanManage() {
			return ErrForbidden
		}
		return s.store.Tasks.RemoveAttachment(ctx, task.ID, a)
	}
	return fmt.Errorf("attachment %s: %w", attachmentID, ErrNotFound)
}

// completionFields stamps or clears completedAt on transitions into or out of done.
func completionFields(fields map[string]interface{}, from, to string, now time.Time) {
	switch {
	case to == model.StatusDone && from != model.StatusDone:
		fields[repository.FieldCompletedAt] = &now
	case from == model.StatusDone && to != model.StatusDone:
		fields[repository.FieldCompletedAt] = nil
	}
}

func validateAssignees(dept *model.Department, assignees []string) error {
	for _, a := range assignees {
		if !dept.IsAdmin(a) && !dept.IsMember(a) {
			return fmt.Errorf("%w: assignee %s is not in department %s", ErrValidation, a, dept.Name)
		}
	}
	return nil
}

func positionOf(column []model.Task, id string) int {
	sorted := append([]model.Task(nil), column...)
	SortTasks(sorted)
	pos := 0
	for _, t := range sorted {
		if t.ID == id {
			return pos
		}
		pos++
	}
	return len(sorted)
}

func changedFields(fields map[string]interface{}) string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		if k != repository.FieldUpdatedAt {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func exclude(ids []string, skip string) []string {
	out := make([]string, 0, len(ids))
	seen := map[string]bool{skip: true}
	for _, id := range ids {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func (s *TaskService) notifyUsers(userIDs []string, task model.Task, title, body string) {
	s.notifier.Notify(userIDs, Message{
		Title: title,
		Body:  body,
		Link:  "/tasks/" + task.ID,
		Data:  map[string]string{"taskId": task.ID, "departmentId": task.DepartmentID},
	})
}
