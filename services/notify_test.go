package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"teamboard/repository/memory"
)

type recordingSender struct {
	mu     sync.Mutex
	tokens [][]string
	msgs   []Message
	err    error
}

func (s *recordingSender) Send(_ context.Context, tokens []string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens = append(s.tokens, append([]string(nil), tokens...))
	s.msgs = append(s.msgs, msg)
	return s.err
}

func TestNotifierResolvesTokens(t *testing.T) {
	store := memory.New().Repositories()
	ctx := context.Background()
	store.Subscriptions.AddToken(ctx, "a", "phone")
	store.Subscriptions.AddToken(ctx, "a", "laptop")
	store.Subscriptions.AddToken(ctx, "b", "tablet")

	sender := &recordingSender{}
	n := NewNotifier(store.Subscriptions, sender)
	n.Notify([]string{"a", "b", "nobody"}, Message{Title: "hello"})
	n.Wait()

	if len(sender.msgs) != 1 || sender.msgs[0].Title != "hello" {
		t.Fatalf("expected one send, got %+v", sender.msgs)
	}
	got := sender.tokens[0]
	sort.Strings(got)
	want := []string{"laptop", "phone", "tablet"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestNotifierSkipsUsersWithoutDevices(t *testing.T) {
	store := memory.New().Repositories()
	sender := &recordingSender{}
	n := NewNotifier(store.Subscriptions, sender)

	n.Notify(nil, Message{Title: "nobody"})
	n.Notify([]string{"ghost"}, Message{Title: "ghost"})
	n.Wait()

	if len(sender.msgs) != 0 {
		t.Fatalf("expected no sends, got %+v", sender.msgs)
	}
}

func TestNotifierSwallowsSendErrors(t *testing.T) {
	store := memory.New().Repositories()
	store.Subscriptions.AddToken(context.Background(), "a", "phone")
	sender := &recordingSender{err: errors.New("fcm down")}
	n := NewNotifier(store.Subscriptions, sender)

	n.Notify([]string{"a"}, Message{Title: "first"})
	n.Notify([]string{"a"}, Message{Title: "second"})
	n.Wait()

	if len(sender.msgs) != 2 {
		t.Fatalf("expected both sends attempted, got %d", len(sender.msgs))
	}
}

func TestNilNotifierIsSafe(t *testing.T) {
	var n *Notifier
	n.Notify([]string{"a"}, Message{Title: "x"})
	n.Wait()
}

func TestTaskChangesNotifyAssignees(t *testing.T) {
	store, svc := newTaskFixture(t)
	ctx := context.Background()
	store.Subscriptions.AddToken(ctx, "worker", "worker-phone")
	store.Subscriptions.AddToken(ctx, "lead", "lead-phone")
	sender := &recordingSender{}
	svc.notifier = NewNotifier(store.Subscriptions, sender)

	task := createTask(t, svc, "Fix pump", "", "worker")
	svc.notifier.Wait()
	if len(sender.tokens) != 1 || sender.tokens[0][0] != "worker-phone" {
		t.Fatalf("expected the assignee to be notified on create, got %v", sender.tokens)
	}

	// the actor is never notified of their own change
	if _, _, err := svc.Update(ctx, worker, task.ID, map[string]interface{}{"status": "in_progress"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	svc.notifier.Wait()
	if len(sender.tokens) != 1 {
		t.Fatalf("expected no push for the worker's own move, got %v", sender.tokens)
	}
}
