package repository

// Task document field paths accepted by TaskRepository.Update.
const (
	FieldDepartmentID   = "departmentId"
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldStatus         = "status"
	FieldPriority       = "priority"
	FieldAssignees      = "assignees"
	FieldDueDate        = "dueDate"
	FieldLabels         = "labels"
	FieldSubtasks       = "subtasks"
	FieldTimeEstimate   = "timeEstimate"
	FieldLoggedHours    = "loggedHours"
	FieldBlockedBy      = "blockedBy"
	FieldRecurrence     = "recurrence"
	FieldOrder          = "order"
	FieldCompletedAt    = "completedAt"
	FieldUpdatedAt      = "updatedAt"
	FieldArchived       = "archived"
	FieldArchivedAt     = "archivedAt"
	FieldPreviousStatus = "previousStatus"
)

// User columns accepted by UserRepository.Update.
const (
	ColumnName           = "name"
	ColumnHashedPassword = "hashed_password"
	ColumnProfile        = "profile"
	ColumnSettings       = "settings"
	ColumnIsAdmin        = "is_admin"
	ColumnIsSuperuser    = "is_superuser"
)
