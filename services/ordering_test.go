package services

import (
	"testing"
	"time"

	"teamboard/model"
)

func TestSortTasksBreaksTiesDeterministically(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: "c", Order: 1, CreatedAt: t0},
		{ID: "b", Order: 1, CreatedAt: t0},
		{ID: "a", Order: 1, CreatedAt: t0.Add(time.Minute)},
		{ID: "z", Order: 0, CreatedAt: t0.Add(time.Hour)},
	}
	SortTasks(tasks)
	want := []string{"z", "b", "c", "a"}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, tasks[i].ID)
		}
	}
}

func TestPlaceInColumnRenumbersDensely(t *testing.T) {
	column := []model.Task{
		{ID: "a", Order: 0},
		{ID: "b", Order: 0},
		{ID: "c", Order: 7},
	}
	moved := model.Task{ID: "m", Order: 3}

	orders := PlaceInColumn(column, moved, 1)

	if orders["m"] != 1 {
		t.Fatalf("expected moved task at 1, got %d", orders["m"])
	}
	if _, ok := orders["a"]; ok {
		t.Fatalf("a keeps order 0 and must not be rewritten")
	}
	if orders["b"] != 2 || orders["c"] != 3 {
		t.Fatalf("expected b=2 c=3, got %v", orders)
	}
}

func TestPlaceInColumnClampsIndex(t *testing.T) {
	column := []model.Task{{ID: "a", Order: 0}, {ID: "self", Order: 1}}
	if got := PlaceInColumn(column, model.Task{ID: "self", Order: 1}, 99); got["self"] != 1 {
		t.Fatalf("expected clamp to end, got %v", got)
	}
	if got := PlaceInColumn(column, model.Task{ID: "self", Order: 1}, -3); got["self"] != 0 || got["a"] != 1 {
		t.Fatalf("expected clamp to start, got %v", got)
	}
}

func TestNextOrder(t *testing.T) {
	tasks := []model.Task{
		{ID: "a", Status: "todo", Order: 2},
		{ID: "b", Status: "done", Order: 9},
	}
	if got := NextOrder(tasks, "todo"); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := NextOrder(tasks, "review"); got != 0 {
		t.Fatalf("expected 0 for an empty column, got %d", got)
	}
}
