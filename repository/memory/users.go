package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"

	"teamboard/model"
	"teamboard/repository"
)

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; ok {
		return repository.ErrConflict
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repository.ErrConflict
		}
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	c := *user
	r.s.users[user.ID] = &c
	return nil
}

func (r userRepo) Get(_ context.Context, id string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userRepo) List(_ context.Context) ([]model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r userRepo) Update(_ context.Context, id string, fields map[string]interface{}) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	next := *u
	for column, value := range fields {
		var valid bool
		switch column {
		case repository.ColumnName:
			next.Name, valid = value.(string)
		case repository.ColumnHashedPassword:
			next.HashedPassword, valid = value.(string)
		case repository.ColumnProfile:
			next.Profile, valid = value.(string)
		case repository.ColumnSettings:
			next.Settings, valid = value.(datatypes.JSON)
		case repository.ColumnIsAdmin:
			next.IsAdmin, valid = value.(bool)
		case repository.ColumnIsSuperuser:
			next.IsSuperuser, valid = value.(bool)
		default:
			return fmt.Errorf("unknown user column %q", column)
		}
		if !valid {
			return fmt.Errorf("invalid value %T for user column %q", value, column)
		}
	}
	next.UpdatedAt = time.Now().UTC()
	r.s.users[id] = &next
	return nil
}

func (r userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}
