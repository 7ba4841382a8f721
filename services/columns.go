package services

import (
	"fmt"
	"strings"

	"teamboard/model"
)

// ValidateColumns checks that a column set is non-empty with unique,
// non-empty ids, trimming ids and titles in place.
func ValidateColumns(columns []model.Column) error {
	if len(columns) == 0 {
		return fmt.Errorf("%w: at least one column is required", ErrValidation)
	}
	seen := make(map[string]bool, len(columns))
	for i := range columns {
		columns[i].ID = strings.TrimSpace(columns[i].ID)
		columns[i].Title = strings.TrimSpace(columns[i].Title)
		id := columns[i].ID
		if id == "" {
			return fmt.Errorf("%w: column id must not be empty", ErrValidation)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate column id %q", ErrValidation, id)
		}
		seen[id] = true
		if columns[i].Title == "" {
			columns[i].Title = id
		}
	}
	return nil
}

// RemovedColumns lists the ids in before that are absent from after.
func RemovedColumns(before, after []model.Column) []string {
	keep := make(map[string]bool, len(after))
	for _, c := range after {
		keep[c.ID] = true
	}
	var removed []string
	for _, c := range before {
		if !keep[c.ID] {
			removed = append(removed, c.ID)
		}
	}
	return removed
}
