package services

import (
	"sort"

	"teamboard/model"
)

// SortTasks orders tasks within a column by order, then creation time, then id,
// so that colliding order values always resolve the same way.
func SortTasks(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// NextOrder returns the order for a task appended to the end of column.
func NextOrder(tasks []model.Task, column string) int {
	next := 0
	for _, t := range tasks {
		if t.Status == column && t.Order >= next {
			next = t.Order + 1
		}
	}
	return next
}

// PlaceInColumn moves task to index within column (the other tasks of that
// column, in any order) and renumbers the column densely from zero. Only the
// orders that changed are returned, the moved task always included.
func PlaceInColumn(column []model.Task, task model.Task, index int) map[string]int {
	others := make([]model.Task, 0, len(column))
	for _, t := range column {
		if t.ID != task.ID {
			others = append(others, t)
		}
	}
	SortTasks(others)

	if index < 0 {
		index = 0
	}
	if index > len(others) {
		index = len(others)
	}

	ordered := make([]model.Task, 0, len(others)+1)
	ordered = append(ordered, others[:index]...)
	ordered = append(ordered, task)
	ordered = append(ordered, others[index:]...)

	changed := make(map[string]int)
	for i, t := range ordered {
		if t.ID == task.ID || t.Order != i {
			changed[t.ID] = i
		}
	}
	return changed
}
