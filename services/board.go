package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"teamboard/model"
	"teamboard/repository"
)

// ReplaceColumns swaps the department's column set. Live tasks in a removed
// column are moved to the first active column of the new set; the number
// moved is returned.
func (s *TaskService) ReplaceColumns(ctx context.Context, user *model.User, departmentID string, columns []model.Column) (int, error) {
	if err := ValidateColumns(columns); err != nil {
		return 0, err
	}
	dept, err := s.store.Departments.Get(ctx, departmentID)
	if err != nil {
		return 0, err
	}
	if !Authorize(user, dept, nil).CanManage() {
		return 0, ErrForbidden
	}

	removed := RemovedColumns(dept.Columns, columns)
	if err := s.store.Departments.SetColumns(ctx, dept.ID, columns); err != nil {
		return 0, err
	}
	if len(removed) == 0 {
		return 0, nil
	}

	target := (&model.Department{Columns: columns}).FirstActiveColumn()
	moved := 0
	var failed []error
	for _, status := range removed {
		tasks, err := s.store.Tasks.ListByDepartment(ctx, dept.ID, repository.TaskFilter{Status: status})
		if err != nil {
			return moved, fmt.Errorf("list column %s: %w", status, err)
		}
		SortTasks(tasks)
		for _, t := range tasks {
			if _, err := s.Move(ctx, user, t.ID, MoveInput{Status: &target}); err != nil {
				log.Printf("columns: move task %s to %s: %v", t.ID, target, err)
				failed = append(failed, fmt.Errorf("move task %s: %w", t.ID, err))
				continue
			}
			moved++
		}
	}
	if len(failed) > 0 {
		return moved, fmt.Errorf("%d of %d tasks left in removed columns: %w", len(failed), moved+len(failed), errors.Join(failed...))
	}
	return moved, nil
}

// ApplyTemplate replaces the department's columns with the template's and
// creates its sample tasks.
func (s *TaskService) ApplyTemplate(ctx context.Context, user *model.User, templateID, departmentID string) ([]model.Task, error) {
	tpl, err := s.store.Templates.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}
	columns := append([]model.Column(nil), tpl.Columns...)
	if _, err := s.ReplaceColumns(ctx, user, departmentID, columns); err != nil {
		return nil, err
	}

	created := make([]model.Task, 0, len(tpl.SampleTasks))
	for _, sample := range tpl.SampleTasks {
		task, err := s.Create(ctx, user, &model.Task{
			DepartmentID: departmentID,
			Title:        sample.Title,
			Description:  sample.Description,
			Status:       sample.Status,
			Priority:     sample.Priority,
			Assignees:    []string{},
			Labels:       []model.Label{},
			Subtasks:     []model.Subtask{},
			BlockedBy:    []string{},
		})
		if err != nil {
			return created, fmt.Errorf("sample task %q: %w", sample.Title, err)
		}
		created = append(created, *task)
	}
	return created, nil
}

// ValidateTemplate checks the template's columns, and that every sample task
// lands in one of them.
func ValidateTemplate(tpl *model.Template) error {
	if err := ValidateColumns(tpl.Columns); err != nil {
		return err
	}
	dept := model.Department{Columns: tpl.Columns}
	for _, sample := range tpl.SampleTasks {
		if sample.Status != "" && !dept.HasColumn(sample.Status) {
			return fmt.Errorf("%w: sample task %q uses unknown column %q", ErrValidation, sample.Title, sample.Status)
		}
	}
	return nil
}
