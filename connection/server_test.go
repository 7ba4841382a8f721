package connection

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"teamboard/config"
	"teamboard/model"
	"teamboard/repository"
	"teamboard/repository/memory"
	"teamboard/services"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	store  *repository.Store
	tokens *services.TokenManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memory.New().Repositories()
	tokens := services.NewTokenManager("test-secret", time.Hour)
	deps := NewDeps(store, tokens, services.NoopSender{})
	t.Cleanup(deps.Notifier.Wait)
	return &testServer{t: t, router: NewRouter(config.Config{}, deps), store: store, tokens: tokens}
}

// user stores an account and returns a bearer token for it.
func (s *testServer) user(id string, mutate func(*model.User)) string {
	s.t.Helper()
	hashed, err := services.HashPassword("password123")
	if err != nil {
		s.t.Fatalf("hash: %v", err)
	}
	u := &model.User{ID: id, Email: id + "@example.com", Name: id, HashedPassword: hashed}
	if mutate != nil {
		mutate(u)
	}
	if err := s.store.Users.Create(context.Background(), u); err != nil {
		s.t.Fatalf("create user %s: %v", id, err)
	}
	token, _, err := s.tokens.CreateAccessToken(id)
	if err != nil {
		s.t.Fatalf("token: %v", err)
	}
	return token
}

func (s *testServer) department(id string, admins, members []string) {
	s.t.Helper()
	dept := &model.Department{ID: id, Name: id, Admins: admins, Members: members, Columns: model.DefaultColumns()}
	if err := s.store.Departments.Create(context.Background(), dept); err != nil {
		s.t.Fatalf("create department: %v", err)
	}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			s.t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

func TestRequiresBearerToken(t *testing.T) {
	s := newTestServer(t)
	expectStatus(t, s.do(http.MethodGet, "/user/me", "", nil), http.StatusUnauthorized)
	expectStatus(t, s.do(http.MethodGet, "/user/me", "not-a-token", nil), http.StatusUnauthorized)

	other := services.NewTokenManager("another-secret", time.Hour)
	forged, _, _ := other.CreateAccessToken("ghost")
	expectStatus(t, s.do(http.MethodGet, "/user/me", forged, nil), http.StatusUnauthorized)

	// valid signature for an account that does not exist
	orphan, _, _ := s.tokens.CreateAccessToken("ghost")
	expectStatus(t, s.do(http.MethodGet, "/user/me", orphan, nil), http.StatusUnauthorized)
}

func TestSigninWithBootstrappedSuperuser(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	if err := BootstrapSuperuser(ctx, s.store.Users, "Root@Example.com", "changeme123"); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if err := BootstrapSuperuser(ctx, s.store.Users, "root@example.com", ""); err != nil {
		t.Fatalf("second bootstrap must be a no-op: %v", err)
	}

	expectStatus(t, s.do(http.MethodPost, "/auth/signin", "", gin.H{"email": "root@example.com", "password": "wrong"}),
		http.StatusUnauthorized)

	w := s.do(http.MethodPost, "/auth/signin", "", gin.H{"email": "root@example.com", "password": "changeme123"})
	expectStatus(t, w, http.StatusOK)
	var resp struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	decode(t, w, &resp)
	if resp.Token == "" || !resp.User.IsSuperuser {
		t.Fatalf("expected a token for a superuser, got %+v", resp)
	}

	me := s.do(http.MethodGet, "/user/me", resp.Token, nil)
	expectStatus(t, me, http.StatusOK)
	var profile map[string]interface{}
	decode(t, me, &profile)
	if _, leaked := profile["hashed_password"]; leaked {
		t.Fatalf("password hash must not be serialised")
	}
}

func TestSignupWithInvite(t *testing.T) {
	s := newTestServer(t)
	admin := s.user("lead", nil)
	s.department("ops", []string{"lead"}, nil)

	w := s.do(http.MethodPost, "/invite", admin, gin.H{"email": "New@Example.com", "department_id": "ops"})
	expectStatus(t, w, http.StatusCreated)
	var created struct {
		Invite model.Invite `json:"invite"`
	}
	decode(t, w, &created)

	expectStatus(t, s.do(http.MethodGet, "/auth/invite/"+created.Invite.Token, "", nil), http.StatusOK)

	signup := gin.H{"invite_token": created.Invite.Token, "email": "someone@example.com", "password": "password123", "name": "New"}
	expectStatus(t, s.do(http.MethodPost, "/auth/signup", "", signup), http.StatusBadRequest)

	signup["email"] = "new@example.com"
	w = s.do(http.MethodPost, "/auth/signup", "", signup)
	expectStatus(t, w, http.StatusCreated)
	var resp struct {
		User model.User `json:"user"`
	}
	decode(t, w, &resp)

	dept, _ := s.store.Departments.Get(context.Background(), "ops")
	if !dept.IsMember(resp.User.ID) {
		t.Fatalf("expected the new user to join ops, got %+v", dept)
	}

	signup["email"] = "new@example.com"
	expectStatus(t, s.do(http.MethodPost, "/auth/signup", "", signup), http.StatusBadRequest)
	expectStatus(t, s.do(http.MethodGet, "/auth/invite/"+created.Invite.Token, "", nil), http.StatusGone)
}

func TestSignupRejectsExpiredInvite(t *testing.T) {
	s := newTestServer(t)
	past := time.Now().Add(-time.Hour)
	if err := s.store.Invites.Create(context.Background(), &model.Invite{
		Token: "old", Email: "late@example.com", Role: model.InviteRoleMember, ExpiresAt: past,
	}); err != nil {
		t.Fatalf("create invite: %v", err)
	}
	w := s.do(http.MethodPost, "/auth/signup", "", gin.H{
		"invite_token": "old", "email": "late@example.com", "password": "password123", "name": "Late",
	})
	expectStatus(t, w, http.StatusBadRequest)
}

type failingUsers struct {
	repository.UserRepository
}

func (failingUsers) Create(context.Context, *model.User) error {
	return errors.New("write failed")
}

func TestSignupStoresLowercaseEmail(t *testing.T) {
	s := newTestServer(t)
	if err := s.store.Invites.Create(context.Background(), &model.Invite{
		Token: "tok", Email: "mixed@example.com", Role: model.InviteRoleMember, ExpiresAt: time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("create invite: %v", err)
	}
	w := s.do(http.MethodPost, "/auth/signup", "", gin.H{
		"invite_token": "tok", "email": "Mixed@Example.COM", "password": "password123", "name": "Mixed",
	})
	expectStatus(t, w, http.StatusCreated)
	var resp struct {
		User model.User `json:"user"`
	}
	decode(t, w, &resp)
	stored, err := s.store.Users.Get(context.Background(), resp.User.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if stored.Email != "mixed@example.com" {
		t.Fatalf("expected a lower-case email, got %q", stored.Email)
	}
}

func TestSignupKeepsInviteWhenAccountWriteFails(t *testing.T) {
	s := newTestServer(t)
	if err := s.store.Invites.Create(context.Background(), &model.Invite{
		Token: "tok", Email: "new@example.com", Role: model.InviteRoleMember, ExpiresAt: time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("create invite: %v", err)
	}
	users := s.store.Users
	s.store.Users = failingUsers{users}

	signup := gin.H{"invite_token": "tok", "email": "new@example.com", "password": "password123", "name": "New"}
	expectStatus(t, s.do(http.MethodPost, "/auth/signup", "", signup), http.StatusInternalServerError)
	expectStatus(t, s.do(http.MethodGet, "/auth/invite/tok", "", nil), http.StatusOK)

	s.store.Users = users
	expectStatus(t, s.do(http.MethodPost, "/auth/signup", "", signup), http.StatusCreated)
}

func TestInviteRequiresAdminRights(t *testing.T) {
	s := newTestServer(t)
	member := s.user("member", nil)
	s.department("ops", []string{"lead"}, []string{"member"})

	expectStatus(t, s.do(http.MethodPost, "/invite", member, gin.H{"email": "x@example.com"}), http.StatusForbidden)
	expectStatus(t, s.do(http.MethodPost, "/invite", member, gin.H{"email": "x@example.com", "department_id": "ops"}),
		http.StatusForbidden)
}

func createTask(t *testing.T, s *testServer, token string, body gin.H) model.Task {
	t.Helper()
	w := s.do(http.MethodPost, "/task", token, body)
	expectStatus(t, w, http.StatusCreated)
	var task model.Task
	decode(t, w, &task)
	return task
}

func TestAssigneeUpdateIgnoresTitle(t *testing.T) {
	s := newTestServer(t)
	lead := s.user("lead", nil)
	worker := s.user("worker", nil)
	member := s.user("member", nil)
	s.department("ops", []string{"lead"}, []string{"worker", "member"})

	task := createTask(t, s, lead, gin.H{
		"department_id": "ops",
		"title":         "Fix pump",
		"assignees":     []string{"worker"},
		"labels":        []gin.H{{"name": "plant", "color": "green"}},
	})
	if task.Status != model.ColumnTodo {
		t.Fatalf("expected default status todo, got %q", task.Status)
	}

	w := s.do(http.MethodPut, "/task/"+task.ID, worker, gin.H{"title": "Renamed", "status": "in_progress"})
	expectStatus(t, w, http.StatusOK)
	var resp struct {
		Task    model.Task `json:"task"`
		Ignored []string   `json:"ignored"`
	}
	decode(t, w, &resp)
	if resp.Task.Title != "Fix pump" || resp.Task.Status != model.ColumnInProgress {
		t.Fatalf("expected title kept and status moved, got %q/%q", resp.Task.Title, resp.Task.Status)
	}
	if len(resp.Ignored) != 1 || resp.Ignored[0] != "title" {
		t.Fatalf("expected title reported as ignored, got %v", resp.Ignored)
	}

	expectStatus(t, s.do(http.MethodPut, "/task/"+task.ID, member, gin.H{"status": "done"}), http.StatusForbidden)
	stored, _ := s.store.Tasks.Get(context.Background(), task.ID)
	if stored.Status != model.ColumnInProgress {
		t.Fatalf("forbidden update must not change the task, got %q", stored.Status)
	}

	// members can still comment
	expectStatus(t, s.do(http.MethodPost, "/task/"+task.ID+"/comments", member, gin.H{"text": "on it?"}), http.StatusCreated)
}

func TestCreateTaskValidatesInput(t *testing.T) {
	s := newTestServer(t)
	lead := s.user("lead", nil)
	s.department("ops", []string{"lead"}, nil)

	expectStatus(t, s.do(http.MethodPost, "/task", lead, gin.H{"department_id": "ops"}), http.StatusBadRequest)
	expectStatus(t, s.do(http.MethodPost, "/task", lead, gin.H{
		"department_id": "ops", "title": "x", "labels": []gin.H{{"name": "l", "color": "chartreuse"}},
	}), http.StatusBadRequest)
	expectStatus(t, s.do(http.MethodPost, "/task", lead, gin.H{
		"department_id": "ops", "title": "x", "priority": "whenever",
	}), http.StatusBadRequest)
	expectStatus(t, s.do(http.MethodPost, "/task", lead, gin.H{"department_id": "nope", "title": "x"}), http.StatusNotFound)
}

func TestMoveArchiveRestore(t *testing.T) {
	s := newTestServer(t)
	lead := s.user("lead", nil)
	s.department("ops", []string{"lead"}, nil)

	a := createTask(t, s, lead, gin.H{"department_id": "ops", "title": "a"})
	b := createTask(t, s, lead, gin.H{"department_id": "ops", "title": "b"})

	expectStatus(t, s.do(http.MethodPut, "/task/"+b.ID+"/move", lead, gin.H{"status": "limbo"}), http.StatusBadRequest)

	w := s.do(http.MethodPut, "/task/"+b.ID+"/move", lead, gin.H{"order": 0})
	expectStatus(t, w, http.StatusOK)

	w = s.do(http.MethodGet, "/department/ops/tasks?status=todo", lead, nil)
	expectStatus(t, w, http.StatusOK)
	var tasks []model.Task
	decode(t, w, &tasks)
	if len(tasks) != 2 || tasks[0].ID != b.ID || tasks[1].ID != a.ID {
		t.Fatalf("expected b before a, got %+v", tasks)
	}

	expectStatus(t, s.do(http.MethodDelete, "/task/"+a.ID+"/purge", lead, nil), http.StatusConflict)
	expectStatus(t, s.do(http.MethodDelete, "/task/"+a.ID, lead, nil), http.StatusOK)

	w = s.do(http.MethodGet, "/department/ops/tasks?archived=true", lead, nil)
	decode(t, w, &tasks)
	if len(tasks) != 1 || tasks[0].ID != a.ID {
		t.Fatalf("expected a in the archive, got %+v", tasks)
	}
	expectStatus(t, s.do(http.MethodPut, "/task/"+a.ID+"/move", lead, gin.H{"status": model.StatusDone}), http.StatusConflict)

	w = s.do(http.MethodPost, "/task/"+a.ID+"/restore", lead, nil)
	expectStatus(t, w, http.StatusOK)
	var restored model.Task
	decode(t, w, &restored)
	if restored.Archived || restored.Status != model.ColumnTodo {
		t.Fatalf("expected a restored to todo, got %+v", restored)
	}
}

func TestSubtasksAndAssignees(t *testing.T) {
	s := newTestServer(t)
	lead := s.user("lead", nil)
	worker := s.user("worker", nil)
	s.department("ops", []string{"lead"}, []string{"worker"})
	task := createTask(t, s, lead, gin.H{"department_id": "ops", "title": "Audit"})

	expectStatus(t, s.do(http.MethodPost, "/task/"+task.ID+"/subtasks", worker, gin.H{"title": "step"}), http.StatusForbidden)

	expectStatus(t, s.do(http.MethodPost, "/task/"+task.ID+"/assignees", lead, gin.H{"user_id": "worker"}), http.StatusOK)

	w := s.do(http.MethodPost, "/task/"+task.ID+"/subtasks", worker, gin.H{"title": "step"})
	expectStatus(t, w, http.StatusCreated)
	var updated model.Task
	decode(t, w, &updated)
	if len(updated.Subtasks) != 1 {
		t.Fatalf("expected one subtask, got %+v", updated.Subtasks)
	}

	w = s.do(http.MethodPut, "/task/"+task.ID+"/subtasks/"+updated.Subtasks[0].ID, worker, gin.H{"completed": true})
	expectStatus(t, w, http.StatusOK)
	decode(t, w, &updated)
	if !updated.Subtasks[0].Completed {
		t.Fatalf("expected the subtask to be completed")
	}
	expectStatus(t, s.do(http.MethodDelete, "/task/"+task.ID+"/subtasks/missing", worker, nil), http.StatusNotFound)

	expectStatus(t, s.do(http.MethodDelete, "/task/"+task.ID+"/assignees/worker", worker, nil), http.StatusForbidden)
}

func TestSetColumnsMovesOrphanedTasks(t *testing.T) {
	s := newTestServer(t)
	lead := s.user("lead", nil)
	s.department("ops", []string{"lead"}, nil)
	task := createTask(t, s, lead, gin.H{"department_id": "ops", "title": "x", "status": "review"})

	expectStatus(t, s.do(http.MethodPut, "/department/ops/columns", lead, gin.H{
		"columns": []gin.H{{"id": "a", "title": "A"}, {"id": "a", "title": "B"}},
	}), http.StatusBadRequest)

	w := s.do(http.MethodPut, "/department/ops/columns", lead, gin.H{
		"columns": []gin.H{{"id": "todo", "title": "To Do"}, {"id": "done", "title": "Done"}},
	})
	expectStatus(t, w, http.StatusOK)

	stored, _ := s.store.Tasks.Get(context.Background(), task.ID)
	if stored.Status != model.ColumnTodo {
		t.Fatalf("expected the task to move to todo, got %q", stored.Status)
	}
}

func TestScheduleEditing(t *testing.T) {
	s := newTestServer(t)
	root := s.user("root", func(u *model.User) { u.IsSuperuser = true })
	planner := s.user("planner", nil)
	s.department("ops", []string{"root"}, nil)

	grid := gin.H{"phases": []string{"Morning", "Evening"}, "cells": gin.H{"Morning": gin.H{"ops": "Setup"}}}
	expectStatus(t, s.do(http.MethodPut, "/schedule", planner, grid), http.StatusForbidden)
	expectStatus(t, s.do(http.MethodPut, "/schedule/admin", planner, gin.H{"user_id": "planner"}), http.StatusForbidden)

	expectStatus(t, s.do(http.MethodPut, "/schedule/admin", root, gin.H{"user_id": "planner"}), http.StatusOK)
	expectStatus(t, s.do(http.MethodPut, "/schedule", planner, grid), http.StatusOK)

	bad := gin.H{"phases": []string{"Morning"}, "cells": gin.H{"Morning": gin.H{"nowhere": "x"}}}
	expectStatus(t, s.do(http.MethodPut, "/schedule", planner, bad), http.StatusBadRequest)

	w := s.do(http.MethodGet, "/schedule", planner, nil)
	expectStatus(t, w, http.StatusOK)
	var stored model.ScheduleGrid
	decode(t, w, &stored)
	if stored.Cells["Morning"]["ops"] != "Setup" || stored.UpdatedBy != "planner" {
		t.Fatalf("unexpected grid %+v", stored)
	}

	expectStatus(t, s.do(http.MethodPut, "/schedule/admin", root, gin.H{"user_id": ""}), http.StatusOK)
	expectStatus(t, s.do(http.MethodPut, "/schedule", planner, grid), http.StatusForbidden)
}

func TestTemplateApply(t *testing.T) {
	s := newTestServer(t)
	lead := s.user("lead", nil)
	s.department("ops", []string{"lead"}, nil)

	expectStatus(t, s.do(http.MethodPost, "/template", lead, gin.H{
		"name":         "Broken",
		"columns":      []gin.H{{"id": "todo", "title": "To Do"}},
		"sample_tasks": []gin.H{{"title": "x", "status": "elsewhere"}},
	}), http.StatusBadRequest)

	w := s.do(http.MethodPost, "/template", lead, gin.H{
		"name":         "Sprint",
		"columns":      []gin.H{{"id": "todo", "title": "To Do"}, {"id": "doing", "title": "Doing"}, {"id": "done", "title": "Done"}},
		"sample_tasks": []gin.H{{"title": "Plan", "status": "todo"}, {"title": "Retro"}},
	})
	expectStatus(t, w, http.StatusCreated)
	var tpl model.Template
	decode(t, w, &tpl)

	w = s.do(http.MethodPost, "/template/"+tpl.ID+"/apply/ops", lead, nil)
	expectStatus(t, w, http.StatusOK)
	var resp struct {
		Department   model.Department `json:"department"`
		CreatedTasks []model.Task     `json:"created_tasks"`
	}
	decode(t, w, &resp)
	if len(resp.Department.Columns) != 3 || len(resp.CreatedTasks) != 2 {
		t.Fatalf("unexpected apply result %+v", resp)
	}

	outsider := s.user("outsider", nil)
	expectStatus(t, s.do(http.MethodDelete, "/template/"+tpl.ID, outsider, nil), http.StatusForbidden)
	expectStatus(t, s.do(http.MethodDelete, "/template/"+tpl.ID, lead, nil), http.StatusOK)
}

func TestRecurrenceEndpoint(t *testing.T) {
	s := newTestServer(t)
	lead := s.user("lead", nil)
	member := s.user("member", nil)
	s.department("ops", []string{"lead"}, []string{"member"})

	expectStatus(t, s.do(http.MethodPost, "/recurrence/process", member, nil), http.StatusForbidden)

	w := s.do(http.MethodPost, "/recurrence/process", lead, nil)
	expectStatus(t, w, http.StatusOK)
	var result services.RecurrenceResult
	decode(t, w, &result)
	if result.Generated != 0 {
		t.Fatalf("expected nothing to generate, got %+v", result)
	}
}

func TestNotificationSend(t *testing.T) {
	s := newTestServer(t)
	lead := s.user("lead", nil)
	member := s.user("member", nil)
	s.department("ops", []string{"lead"}, []string{"member"})

	expectStatus(t, s.do(http.MethodPost, "/notification/subscribe", member, gin.H{"token": "device-1"}), http.StatusOK)

	msg := gin.H{"title": "Heads up", "body": "Meeting at 10", "department_id": "ops"}
	expectStatus(t, s.do(http.MethodPost, "/notification/send", member, msg), http.StatusForbidden)

	w := s.do(http.MethodPost, "/notification/send", lead, msg)
	expectStatus(t, w, http.StatusAccepted)
	var resp struct {
		Recipients int `json:"recipients"`
	}
	decode(t, w, &resp)
	if resp.Recipients != 2 {
		t.Fatalf("expected two recipients, got %d", resp.Recipients)
	}

	expectStatus(t, s.do(http.MethodPost, "/notification/send", lead, gin.H{"title": "t", "body": "b", "user_ids": []string{"member"}}),
		http.StatusForbidden)
}

func TestDepartmentMembership(t *testing.T) {
	s := newTestServer(t)
	root := s.user("root", func(u *model.User) { u.IsAdmin = true })
	s.user("worker", nil)

	w := s.do(http.MethodPost, "/department", root, gin.H{"name": "Kitchen"})
	expectStatus(t, w, http.StatusCreated)
	var dept model.Department
	decode(t, w, &dept)
	if !dept.IsAdmin("root") || len(dept.Columns) != 5 {
		t.Fatalf("expected creator as admin with default columns, got %+v", dept)
	}

	expectStatus(t, s.do(http.MethodPost, "/department/"+dept.ID+"/members", root, gin.H{"user_id": "nobody"}), http.StatusNotFound)
	expectStatus(t, s.do(http.MethodPost, "/department/"+dept.ID+"/members", root, gin.H{"user_id": "worker"}), http.StatusOK)
	expectStatus(t, s.do(http.MethodPost, "/department/"+dept.ID+"/members", root, gin.H{"user_id": "worker"}), http.StatusOK)
	expectStatus(t, s.do(http.MethodDelete, "/department/"+dept.ID+"/admins/root", root, nil), http.StatusConflict)

	stored, _ := s.store.Departments.Get(context.Background(), dept.ID)
	if len(stored.Members) != 1 {
		t.Fatalf("adding a member twice must be idempotent, got %v", stored.Members)
	}
}

func TestAdminUserManagement(t *testing.T) {
	s := newTestServer(t)
	root := s.user("root", func(u *model.User) { u.IsSuperuser = true })
	admin := s.user("admin", func(u *model.User) { u.IsAdmin = true })
	plain := s.user("plain", nil)
	s.department("ops", []string{"admin"}, []string{"plain"})
	s.store.Subscriptions.AddToken(context.Background(), "plain", "device")

	expectStatus(t, s.do(http.MethodGet, "/admin/users", plain, nil), http.StatusForbidden)
	expectStatus(t, s.do(http.MethodPut, "/admin/users/plain", admin, gin.H{"is_superuser": true}), http.StatusForbidden)
	expectStatus(t, s.do(http.MethodPut, "/admin/users/root", root, gin.H{"is_superuser": false}), http.StatusBadRequest)
	expectStatus(t, s.do(http.MethodDelete, "/admin/users/root", admin, nil), http.StatusForbidden)

	w := s.do(http.MethodPut, "/admin/users/plain", admin, gin.H{"is_admin": true})
	expectStatus(t, w, http.StatusOK)

	expectStatus(t, s.do(http.MethodDelete, "/admin/users/plain", root, nil), http.StatusOK)
	expectStatus(t, s.do(http.MethodGet, "/user/me", plain, nil), http.StatusUnauthorized)

	dept, _ := s.store.Departments.Get(context.Background(), "ops")
	if dept.IsMember("plain") {
		t.Fatalf("deleted user must leave their departments")
	}
	tokens, _ := s.store.Subscriptions.Tokens(context.Background(), []string{"plain"})
	if len(tokens) != 0 {
		t.Fatalf("deleted user must lose their push subscriptions, got %v", tokens)
	}
}

func TestDeleteDepartmentRemovesTasks(t *testing.T) {
	s := newTestServer(t)
	root := s.user("root", func(u *model.User) { u.IsSuperuser = true })
	lead := s.user("lead", nil)
	s.department("ops", []string{"lead"}, nil)
	live := createTask(t, s, lead, gin.H{"department_id": "ops", "title": "live"})
	old := createTask(t, s, lead, gin.H{"department_id": "ops", "title": "old"})
	expectStatus(t, s.do(http.MethodDelete, "/task/"+old.ID, lead, nil), http.StatusOK)

	expectStatus(t, s.do(http.MethodDelete, "/department/ops", lead, nil), http.StatusForbidden)

	w := s.do(http.MethodDelete, "/department/ops", root, nil)
	expectStatus(t, w, http.StatusOK)
	var resp struct {
		DeletedTasks int `json:"deleted_tasks"`
	}
	decode(t, w, &resp)
	if resp.DeletedTasks != 2 {
		t.Fatalf("expected both tasks deleted, got %d", resp.DeletedTasks)
	}
	expectStatus(t, s.do(http.MethodGet, "/task/"+live.ID, root, nil), http.StatusNotFound)
}
