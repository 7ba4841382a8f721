package services

import (
	"teamboard/model"
	"teamboard/repository"
)

type Role int

const (
	RoleNone Role = iota
	RoleMember
	RoleAssignee
	RoleDepartmentAdmin
	RoleSuperuser
)

func (r Role) String() string {
	switch r {
	case RoleMember:
		return "member"
	case RoleAssignee:
		return "assignee"
	case RoleDepartmentAdmin:
		return "department_admin"
	case RoleSuperuser:
		return "superuser"
	}
	return "none"
}

// Task fields an admin may write.
var adminTaskFields = []string{
	repository.FieldTitle,
	repository.FieldDescription,
	repository.FieldStatus,
	repository.FieldPriority,
	repository.FieldAssignees,
	repository.FieldDueDate,
	repository.FieldLabels,
	repository.FieldSubtasks,
	repository.FieldTimeEstimate,
	repository.FieldLoggedHours,
	repository.FieldBlockedBy,
	repository.FieldRecurrence,
	repository.FieldOrder,
	repository.FieldDepartmentID,
}

// Task fields an assignee may write on their own task.
var assigneeTaskFields = []string{
	repository.FieldStatus,
	repository.FieldOrder,
	repository.FieldSubtasks,
	repository.FieldLoggedHours,
}

// Capability is what a caller may do within one department, and on one task
// when a task was given to Authorize.
type Capability struct {
	Role   Role
	fields map[string]bool
}

// Authorize derives the caller's role. task may be nil for department-level checks.
func Authorize(user *model.User, dept *model.Department, task *model.Task) Capability {
	switch {
	case user == nil:
		return Capability{Role: RoleNone}
	case user.IsSuperuser:
		return newCapability(RoleSuperuser, adminTaskFields)
	case dept != nil && dept.IsAdmin(user.ID):
		return newCapability(RoleDepartmentAdmin, adminTaskFields)
	case task != nil && task.IsAssignee(user.ID):
		return newCapability(RoleAssignee, assigneeTaskFields)
	case dept != nil && dept.IsMember(user.ID):
		return newCapability(RoleMember, nil)
	}
	return Capability{Role: RoleNone}
}

func newCapability(role Role, fields []string) Capability {
	c := Capability{Role: role, fields: make(map[string]bool, len(fields))}
	for _, f := range fields {
		c.fields[f] = true
	}
	return c
}

func (c Capability) CanRead() bool { return c.Role != RoleNone }

func (c Capability) CanComment() bool { return c.Role != RoleNone }

// CanManage covers task create/archive/restore/purge and department
// columns, membership and templates.
func (c Capability) CanManage() bool {
	return c.Role == RoleDepartmentAdmin || c.Role == RoleSuperuser
}

func (c Capability) CanWrite(field string) bool { return c.fields[field] }

// CanMutateTask reports whether any task field is writable.
func (c Capability) CanMutateTask() bool { return len(c.fields) > 0 }

// Filter splits the requested fields into those the caller may write and
// those that are silently dropped.
func (c Capability) Filter(fields map[string]interface{}) (allowed map[string]interface{}, ignored []string) {
	allowed = make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if c.fields[k] {
			allowed[k] = v
		} else {
			ignored = append(ignored, k)
		}
	}
	return allowed, ignored
}

// CanEditSchedule reports whether user may change the Sunday schedule: the
// superuser, or the single delegated schedule admin.
func CanEditSchedule(user *model.User, settings *model.Settings) bool {
	if user == nil {
		return false
	}
	if user.IsSuperuser {
		return true
	}
	return settings != nil && settings.ScheduleAdminID != "" && settings.ScheduleAdminID == user.ID
}

// CanManageUsers covers invites, account flags and department creation.
func CanManageUsers(user *model.User) bool {
	return user != nil && (user.IsSuperuser || user.IsAdmin)
}
