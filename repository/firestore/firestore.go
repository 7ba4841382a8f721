// Package firestore stores board documents in Cloud Firestore.
package firestore

import (
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"teamboard/repository"
)

const (
	tasksCollection         = "Tasks"
	departmentsCollection   = "Departments"
	invitesCollection       = "Invites"
	settingsCollection      = "Settings"
	scheduleCollection      = "Schedule"
	templatesCollection     = "Templates"
	subscriptionsCollection = "PushSubscriptions"

	settingsDoc = "global"
	scheduleDoc = "sunday"
)

type Store struct {
	client *firestore.Client
}

func New(client *firestore.Client) *Store {
	return &Store{client: client}
}

// Repositories wires the Firestore repositories together with the relational
// user repository.
func (s *Store) Repositories(users repository.UserRepository) *repository.Store {
	return &repository.Store{
		Tasks:         taskRepo{s.client},
		Departments:   departmentRepo{s.client},
		Users:         users,
		Invites:       inviteRepo{s.client},
		Settings:      settingsRepo{s.client},
		Schedule:      scheduleRepo{s.client},
		Templates:     templateRepo{s.client},
		Subscriptions: subscriptionRepo{s.client},
	}
}

// translate maps Firestore status codes onto repository errors.
func translate(err error) error {
	if err == nil || errors.Is(err, repository.ErrConflict) || errors.Is(err, repository.ErrNotFound) {
		return err
	}
	switch status.Code(err) {
	case codes.NotFound:
		return repository.ErrNotFound
	case codes.AlreadyExists, codes.Aborted, codes.FailedPrecondition:
		return fmt.Errorf("%w: %v", repository.ErrConflict, err)
	}
	return err
}

// collect drains a document iterator into typed values.
func collect[T any](iter *firestore.DocumentIterator) ([]T, error) {
	defer iter.Stop()
	out := []T{}
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", doc.Ref.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func toInterfaces[T any](in []T) []interface{} {
	out := make([]interface{}, len(in))
	for i := range in {
		out[i] = in[i]
	}
	return out
}
