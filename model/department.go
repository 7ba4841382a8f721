package model

import "time"

const (
	ColumnBacklog    = "backlog"
	ColumnTodo       = "todo"
	ColumnInProgress = "in_progress"
	ColumnReview     = "review"
)

type Column struct {
	ID    string `firestore:"id" json:"id" binding:"required"`
	Title string `firestore:"title" json:"title" binding:"required"`
	Color string `firestore:"color" json:"color,omitempty"`
}

type Department struct {
	ID        string    `firestore:"id" json:"id"`
	Name      string    `firestore:"name" json:"name"`
	Admins    []string  `firestore:"admins" json:"admins"`
	Members   []string  `firestore:"members" json:"members"`
	Columns   []Column  `firestore:"columns" json:"columns"`
	CreatedAt time.Time `firestore:"createdAt" json:"created_at"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updated_at"`
}

// DefaultColumns is the column set every new department starts with.
func DefaultColumns() []Column {
	return []Column{
		{ID: ColumnBacklog, Title: "Backlog"},
		{ID: ColumnTodo, Title: "To Do"},
		{ID: ColumnInProgress, Title: "In Progress"},
		{ID: ColumnReview, Title: "Review"},
		{ID: StatusDone, Title: "Done"},
	}
}

func (d *Department) IsAdmin(userID string) bool {
	return contains(d.Admins, userID)
}

func (d *Department) IsMember(userID string) bool {
	return contains(d.Members, userID)
}

func (d *Department) HasColumn(id string) bool {
	for _, col := range d.Columns {
		if col.ID == id {
			return true
		}
	}
	return false
}

// FirstActiveColumn is where new work lands: the first column that is neither
// backlog nor done, then the first column, then todo.
func (d *Department) FirstActiveColumn() string {
	for _, col := range d.Columns {
		if col.ID != ColumnBacklog && col.ID != StatusDone {
			return col.ID
		}
	}
	if len(d.Columns) > 0 {
		return d.Columns[0].ID
	}
	return ColumnTodo
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
