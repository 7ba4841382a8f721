package firestore

import (
	"context"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"

	"teamboard/model"
)

type departmentRepo struct {
	client *firestore.Client
}

func (r departmentRepo) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(departmentsCollection).Doc(id)
}

func (r departmentRepo) Create(ctx context.Context, dept *model.Department) error {
	_, err := r.doc(dept.ID).Create(ctx, dept)
	return translate(err)
}

func (r departmentRepo) Get(ctx context.Context, id string) (*model.Department, error) {
	snap, err := r.doc(id).Get(ctx)
	if err != nil {
		return nil, translate(err)
	}
	var dept model.Department
	if err := snap.DataTo(&dept); err != nil {
		return nil, err
	}
	return &dept, nil
}

func (r departmentRepo) List(ctx context.Context) ([]model.Department, error) {
	depts, err := collect[model.Department](r.client.Collection(departmentsCollection).Documents(ctx))
	if err != nil {
		return nil, err
	}
	sortDepartments(depts)
	return depts, nil
}

// ListForUser merges the departments the user administers with those they are a member of.
func (r departmentRepo) ListForUser(ctx context.Context, userID string) ([]model.Department, error) {
	seen := map[string]bool{}
	out := []model.Department{}
	for _, field := range []string{"admins", "members"} {
		iter := r.client.Collection(departmentsCollection).Where(field, "array-contains", userID).Documents(ctx)
		depts, err := collect[model.Department](iter)
		if err != nil {
			return nil, err
		}
		for _, d := range depts {
			if !seen[d.ID] {
				seen[d.ID] = true
				out = append(out, d)
			}
		}
	}
	sortDepartments(out)
	return out, nil
}

func (r departmentRepo) Rename(ctx context.Context, id, name string) error {
	return r.update(ctx, id, firestore.Update{Path: "name", Value: name})
}

func (r departmentRepo) SetColumns(ctx context.Context, id string, columns []model.Column) error {
	return r.update(ctx, id, firestore.Update{Path: "columns", Value: columns})
}

func (r departmentRepo) AddAdmin(ctx context.Context, id, userID string) error {
	return r.update(ctx, id, firestore.Update{Path: "admins", Value: firestore.ArrayUnion(userID)})
}

func (r departmentRepo) RemoveAdmin(ctx context.Context, id, userID string) error {
	return r.update(ctx, id, firestore.Update{Path: "admins", Value: firestore.ArrayRemove(userID)})
}

func (r departmentRepo) AddMember(ctx context.Context, id, userID string) error {
	return r.update(ctx, id, firestore.Update{Path: "members", Value: firestore.ArrayUnion(userID)})
}

func (r departmentRepo) RemoveMember(ctx context.Context, id, userID string) error {
	return r.update(ctx, id, firestore.Update{Path: "members", Value: firestore.ArrayRemove(userID)})
}

func (r departmentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.doc(id).Delete(ctx, firestore.Exists)
	return translate(err)
}

func (r departmentRepo) update(ctx context.Context, id string, u firestore.Update) error {
	_, err := r.doc(id).Update(ctx, []firestore.Update{
		u,
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	return translate(err)
}

func sortDepartments(depts []model.Department) {
	sort.Slice(depts, func(i, j int) bool {
		return strings.ToLower(depts[i].Name) < strings.ToLower(depts[j].Name)
	})
}
