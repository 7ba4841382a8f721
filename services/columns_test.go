package services

import (
	"errors"
	"testing"

	"teamboard/model"
)

func TestValidateColumns(t *testing.T) {
	cols := []model.Column{{ID: " todo ", Title: ""}, {ID: "done", Title: "Done"}}
	if err := ValidateColumns(cols); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cols[0].ID != "todo" || cols[0].Title != "todo" {
		t.Fatalf("expected trimmed id and defaulted title, got %+v", cols[0])
	}

	for name, bad := range map[string][]model.Column{
		"empty":     {},
		"blank id":  {{ID: " ", Title: "x"}},
		"duplicate": {{ID: "a", Title: "A"}, {ID: "a", Title: "B"}},
	} {
		if err := ValidateColumns(bad); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestRemovedColumns(t *testing.T) {
	got := RemovedColumns(model.DefaultColumns(), []model.Column{{ID: model.ColumnTodo}, {ID: model.StatusDone}})
	want := []string{model.ColumnBacklog, model.ColumnInProgress, model.ColumnReview}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
