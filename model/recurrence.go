package model

import "time"

// Recurring patterns
const (
	RecurrenceNone     = "none"
	RecurrenceDaily    = "daily"
	RecurrenceWeekly   = "weekly"
	RecurrenceBiweekly = "biweekly"
	RecurrenceMonthly  = "monthly"
)

type Recurrence struct {
	Type          string     `firestore:"type" json:"type"`
	EndDate       *time.Time `firestore:"endDate" json:"end_date,omitempty"`
	LastGenerated *time.Time `firestore:"lastGenerated" json:"last_generated,omitempty"`
}

// Active reports whether the rule actually recurs.
func (r *Recurrence) Active() bool {
	return r != nil && r.Type != "" && r.Type != RecurrenceNone
}

func ValidRecurrenceType(pattern string) bool {
	switch pattern {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceBiweekly, RecurrenceMonthly:
		return true
	}
	return false
}
