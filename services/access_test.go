package services

import (
	"testing"

	"teamboard/model"
	"teamboard/repository"
)

func TestAuthorizeRoles(t *testing.T) {
	dept := &model.Department{ID: "d", Admins: []string{"admin"}, Members: []string{"member", "worker"}}
	task := &model.Task{ID: "t", DepartmentID: "d", Assignees: []string{"worker"}}

	cases := []struct {
		name string
		user *model.User
		want Role
	}{
		{"superuser", &model.User{ID: "root", IsSuperuser: true}, RoleSuperuser},
		{"department admin", &model.User{ID: "admin"}, RoleDepartmentAdmin},
		{"assignee", &model.User{ID: "worker"}, RoleAssignee},
		{"member", &model.User{ID: "member"}, RoleMember},
		{"stranger", &model.User{ID: "nobody"}, RoleNone},
		{"global admin flag alone", &model.User{ID: "boss", IsAdmin: true}, RoleNone},
		{"anonymous", nil, RoleNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Authorize(tc.user, dept, task).Role; got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestAssigneeFieldSet(t *testing.T) {
	dept := &model.Department{ID: "d"}
	task := &model.Task{ID: "t", Assignees: []string{"worker"}}
	capability := Authorize(&model.User{ID: "worker"}, dept, task)

	allowed, ignored := capability.Filter(map[string]interface{}{
		repository.FieldTitle:       "renamed",
		repository.FieldStatus:      "review",
		repository.FieldLoggedHours: 2.5,
	})
	if _, ok := allowed[repository.FieldTitle]; ok {
		t.Fatalf("assignee must not be able to change the title")
	}
	if allowed[repository.FieldStatus] != "review" {
		t.Fatalf("expected status to be allowed, got %+v", allowed)
	}
	if _, ok := allowed[repository.FieldLoggedHours]; !ok {
		t.Fatalf("expected logged hours to be allowed")
	}
	if len(ignored) != 1 || ignored[0] != repository.FieldTitle {
		t.Fatalf("expected title to be reported as ignored, got %v", ignored)
	}
	if capability.CanManage() || capability.CanWrite(repository.FieldDepartmentID) {
		t.Fatalf("assignee must not manage the department or move the task out of it")
	}
}

func TestMemberCannotMutate(t *testing.T) {
	dept := &model.Department{ID: "d", Members: []string{"member"}}
	capability := Authorize(&model.User{ID: "member"}, dept, &model.Task{ID: "t"})
	if capability.CanMutateTask() {
		t.Fatalf("a member who is not assigned must not mutate tasks")
	}
	if !capability.CanRead() || !capability.CanComment() {
		t.Fatalf("a member can read and comment")
	}
}

func TestCanEditSchedule(t *testing.T) {
	settings := &model.Settings{ScheduleAdminID: "planner"}
	if !CanEditSchedule(&model.User{ID: "planner"}, settings) {
		t.Fatalf("delegated schedule admin must be able to edit")
	}
	if !CanEditSchedule(&model.User{ID: "root", IsSuperuser: true}, settings) {
		t.Fatalf("superuser must be able to edit")
	}
	if CanEditSchedule(&model.User{ID: "someone", IsAdmin: true}, settings) {
		t.Fatalf("other users must not edit the schedule")
	}
	if CanEditSchedule(&model.User{ID: ""}, &model.Settings{}) {
		t.Fatalf("an empty delegation must not match an empty user id")
	}
}
