package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"teamboard/model"
	"teamboard/repository"
)

type departmentRepo struct{ s *Store }

func (r departmentRepo) Create(_ context.Context, dept *model.Department) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.departments[dept.ID]; ok {
		return repository.ErrConflict
	}
	r.s.departments[dept.ID] = cloneDepartment(dept)
	return nil
}

func (r departmentRepo) Get(_ context.Context, id string) (*model.Department, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	d, ok := r.s.departments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneDepartment(d), nil
}

func (r departmentRepo) List(_ context.Context) ([]model.Department, error) {
	return r.list(func(*model.Department) bool { return true }), nil
}

func (r departmentRepo) ListForUser(_ context.Context, userID string) ([]model.Department, error) {
	return r.list(func(d *model.Department) bool {
		return d.IsAdmin(userID) || d.IsMember(userID)
	}), nil
}

func (r departmentRepo) list(keep func(*model.Department) bool) []model.Department {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []model.Department{}
	for _, d := range r.s.departments {
		if keep(d) {
			out = append(out, *cloneDepartment(d))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func (r departmentRepo) Rename(_ context.Context, id, name string) error {
	return r.mutate(id, func(d *model.Department) { d.Name = name })
}

func (r departmentRepo) SetColumns(_ context.Context, id string, columns []model.Column) error {
	return r.mutate(id, func(d *model.Department) {
		d.Columns = append([]model.Column(nil), columns...)
	})
}

func (r departmentRepo) AddAdmin(_ context.Context, id, userID string) error {
	return r.mutate(id, func(d *model.Department) { d.Admins = addUnique(d.Admins, userID) })
}

func (r departmentRepo) RemoveAdmin(_ context.Context, id, userID string) error {
	return r.mutate(id, func(d *model.Department) { d.Admins = removeValue(d.Admins, userID) })
}

func (r departmentRepo) AddMember(_ context.Context, id, userID string) error {
	return r.mutate(id, func(d *model.Department) { d.Members = addUnique(d.Members, userID) })
}

func (r departmentRepo) RemoveMember(_ context.Context, id, userID string) error {
	return r.mutate(id, func(d *model.Department) { d.Members = removeValue(d.Members, userID) })
}

func (r departmentRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.departments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.departments, id)
	return nil
}

func (r departmentRepo) mutate(id string, fn func(d *model.Department)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.departments[id]
	if !ok {
		return repository.ErrNotFound
	}
	next := cloneDepartment(d)
	fn(next)
	next.UpdatedAt = time.Now().UTC()
	r.s.departments[id] = next
	return nil
}
