package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"

	"teamboard/model"
	"teamboard/repository"
)

type taskRepo struct {
	client *firestore.Client
}

func (r taskRepo) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(tasksCollection).Doc(id)
}

func (r taskRepo) Create(ctx context.Context, task *model.Task) error {
	_, err := r.doc(task.ID).Create(ctx, task)
	return translate(err)
}

func (r taskRepo) Get(ctx context.Context, id string) (*model.Task, error) {
	snap, err := r.doc(id).Get(ctx)
	if err != nil {
		return nil, translate(err)
	}
	var task model.Task
	if err := snap.DataTo(&task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r taskRepo) ListByDepartment(ctx context.Context, departmentID string, filter repository.TaskFilter) ([]model.Task, error) {
	iter := r.client.Collection(tasksCollection).
		Where(repository.FieldDepartmentID, "==", departmentID).
		Where(repository.FieldArchived, "==", filter.Archived).
		Documents(ctx)
	tasks, err := collect[model.Task](iter)
	if err != nil {
		return nil, err
	}
	out := tasks[:0]
	for i := range tasks {
		if filter.Match(&tasks[i]) {
			out = append(out, tasks[i])
		}
	}
	return out, nil
}

func (r taskRepo) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	sort.Slice(updates, func(i, j int) bool { return updates[i].Path < updates[j].Path })
	_, err := r.doc(id).Update(ctx, updates)
	return translate(err)
}

func (r taskRepo) UpdateOrders(ctx context.Context, orders map[string]int) error {
	if len(orders) == 0 {
		return nil
	}
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for id, order := range orders {
			if err := tx.Update(r.doc(id), []firestore.Update{
				{Path: repository.FieldOrder, Value: order},
			}); err != nil {
				return err
			}
		}
		return nil
	})
	return translate(err)
}

func (r taskRepo) AppendActivity(ctx context.Context, id string, entries ...model.Activity) error {
	if len(entries) == 0 {
		return nil
	}
	_, err := r.doc(id).Update(ctx, []firestore.Update{
		{Path: "activity", Value: firestore.ArrayUnion(toInterfaces(entries)...)},
	})
	return translate(err)
}

func (r taskRepo) AddComment(ctx context.Context, id string, comment model.Comment) error {
	return r.arrayOp(ctx, id, "comments", firestore.ArrayUnion(comment))
}

func (r taskRepo) RemoveComment(ctx context.Context, id string, comment model.Comment) error {
	return r.arrayOp(ctx, id, "comments", firestore.ArrayRemove(comment))
}

func (r taskRepo) AddAttachment(ctx context.Context, id string, attachment model.Attachment) error {
	return r.arrayOp(ctx, id, "attachments", firestore.ArrayUnion(attachment))
}

func (r taskRepo) RemoveAttachment(ctx context.Context, id string, attachment model.Attachment) error {
	return r.arrayOp(ctx, id, "attachments", firestore.ArrayRemove(attachment))
}

func (r taskRepo) arrayOp(ctx context.Context, id, path string, value interface{}) error {
	_, err := r.doc(id).Update(ctx, []firestore.Update{
		{Path: path, Value: value},
		{Path: repository.FieldUpdatedAt, Value: time.Now().UTC()},
	})
	return translate(err)
}

func (r taskRepo) Archive(ctx context.Context, id string, at time.Time) error {
	ref := r.doc(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		task, err := getInTx(tx, ref)
		if err != nil {
			return err
		}
		if task.Archived {
			return nil
		}
		return tx.Update(ref, []firestore.Update{
			{Path: repository.FieldPreviousStatus, Value: task.Status},
			{Path: repository.FieldArchived, Value: true},
			{Path: repository.FieldArchivedAt, Value: at},
			{Path: repository.FieldUpdatedAt, Value: at},
		})
	})
	return translate(err)
}

func (r taskRepo) Restore(ctx context.Context, id string) error {
	ref := r.doc(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		task, err := getInTx(tx, ref)
		if err != nil {
			return err
		}
		if !task.Archived {
			return nil
		}
		updates := []firestore.Update{
			{Path: repository.FieldArchived, Value: false},
			{Path: repository.FieldArchivedAt, Value: nil},
			{Path: repository.FieldPreviousStatus, Value: ""},
			{Path: repository.FieldUpdatedAt, Value: time.Now().UTC()},
		}
		if task.PreviousStatus != "" {
			updates = append(updates, firestore.Update{Path: repository.FieldStatus, Value: task.PreviousStatus})
		}
		return tx.Update(ref, updates)
	})
	return translate(err)
}

func (r taskRepo) Delete(ctx context.Context, id string) error {
	ref := r.doc(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		task, err := getInTx(tx, ref)
		if err != nil {
			return err
		}
		if !task.Archived {
			return repository.ErrConflict
		}
		return tx.Delete(ref)
	})
	return translate(err)
}

func (r taskRepo) ListRecurringDone(ctx context.Context) ([]model.Task, error) {
	iter := r.client.Collection(tasksCollection).
		Where(repository.FieldStatus, "==", model.StatusDone).
		Where(repository.FieldArchived, "==", false).
		Documents(ctx)
	tasks, err := collect[model.Task](iter)
	if err != nil {
		return nil, err
	}
	out := tasks[:0]
	for _, t := range tasks {
		if t.Recurrence.Active() {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r taskRepo) ClaimRecurrence(ctx context.Context, id string, at time.Time) error {
	ref := r.doc(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		task, err := getInTx(tx, ref)
		if err != nil {
			return err
		}
		if !task.Recurrence.Active() {
			return repository.ErrConflict
		}
		last := task.Recurrence.LastGenerated
		if last != nil && (task.CompletedAt == nil || !last.Before(*task.CompletedAt)) {
			return repository.ErrConflict
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "recurrence.lastGenerated", Value: at},
		})
	})
	return translate(err)
}

func getInTx(tx *firestore.Transaction, ref *firestore.DocumentRef) (*model.Task, error) {
	snap, err := tx.Get(ref)
	if err != nil {
		return nil, err
	}
	var task model.Task
	if err := snap.DataTo(&task); err != nil {
		return nil, err
	}
	return &task, nil
}
