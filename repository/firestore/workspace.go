package firestore

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"

	"teamboard/model"
	"teamboard/repository"
)

type inviteRepo struct {
	client *firestore.Client
}

func (r inviteRepo) Create(ctx context.Context, invite *model.Invite) error {
	_, err := r.client.Collection(invitesCollection).Doc(invite.Token).Create(ctx, invite)
	return translate(err)
}

func (r inviteRepo) Get(ctx context.Context, token string) (*model.Invite, error) {
	snap, err := r.client.Collection(invitesCollection).Doc(token).Get(ctx)
	if err != nil {
		return nil, translate(err)
	}
	var invite model.Invite
	if err := snap.DataTo(&invite); err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r inviteRepo) MarkUsed(ctx context.Context, token string, at time.Time) error {
	ref := r.client.Collection(invitesCollection).Doc(token)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var invite model.Invite
		if err := snap.DataTo(&invite); err != nil {
			return err
		}
		if invite.UsedAt != nil {
			return repository.ErrConflict
		}
		return tx.Update(ref, []firestore.Update{{Path: "usedAt", Value: at}})
	})
	return translate(err)
}

type settingsRepo struct {
	client *firestore.Client
}

func (r settingsRepo) Get(ctx context.Context) (*model.Settings, error) {
	snap, err := r.client.Collection(settingsCollection).Doc(settingsDoc).Get(ctx)
	if err != nil {
		if errors.Is(translate(err), repository.ErrNotFound) {
			return &model.Settings{}, nil
		}
		return nil, err
	}
	var settings model.Settings
	if err := snap.DataTo(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r settingsRepo) SetScheduleAdmin(ctx context.Context, userID string) error {
	_, err := r.client.Collection(settingsCollection).Doc(settingsDoc).Set(ctx, map[string]interface{}{
		"scheduleAdminId": userID,
		"updatedAt":       time.Now().UTC(),
	}, firestore.MergeAll)
	return translate(err)
}

type scheduleRepo struct {
	client *firestore.Client
}

func (r scheduleRepo) Get(ctx context.Context) (*model.ScheduleGrid, error) {
	snap, err := r.client.Collection(scheduleCollection).Doc(scheduleDoc).Get(ctx)
	if err != nil {
		if errors.Is(translate(err), repository.ErrNotFound) {
			return &model.ScheduleGrid{Phases: []string{}, Cells: map[string]map[string]string{}}, nil
		}
		return nil, err
	}
	var grid model.ScheduleGrid
	if err := snap.DataTo(&grid); err != nil {
		return nil, err
	}
	return &grid, nil
}

func (r scheduleRepo) Put(ctx context.Context, grid *model.ScheduleGrid) error {
	_, err := r.client.Collection(scheduleCollection).Doc(scheduleDoc).Set(ctx, grid)
	return translate(err)
}

type templateRepo struct {
	client *firestore.Client
}

func (r templateRepo) Create(ctx context.Context, tpl *model.Template) error {
	_, err := r.client.Collection(templatesCollection).Doc(tpl.ID).Create(ctx, tpl)
	return translate(err)
}

func (r templateRepo) Get(ctx context.Context, id string) (*model.Template, error) {
	snap, err := r.client.Collection(templatesCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, translate(err)
	}
	var tpl model.Template
	if err := snap.DataTo(&tpl); err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r templateRepo) List(ctx context.Context) ([]model.Template, error) {
	return collect[model.Template](r.client.Collection(templatesCollection).OrderBy("name", firestore.Asc).Documents(ctx))
}

func (r templateRepo) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(templatesCollection).Doc(id).Delete(ctx, firestore.Exists)
	return translate(err)
}

type subscriptionRepo struct {
	client *firestore.Client
}

func (r subscriptionRepo) AddToken(ctx context.Context, userID, token string) error {
	_, err := r.client.Collection(subscriptionsCollection).Doc(userID).Set(ctx, map[string]interface{}{
		"userId":    userID,
		"tokens":    firestore.ArrayUnion(token),
		"updatedAt": time.Now().UTC(),
	}, firestore.MergeAll)
	return translate(err)
}

func (r subscriptionRepo) RemoveToken(ctx context.Context, userID, token string) error {
	_, err := r.client.Collection(subscriptionsCollection).Doc(userID).Update(ctx, []firestore.Update{
		{Path: "tokens", Value: firestore.ArrayRemove(token)},
		{Path: "updatedAt", Value: time.Now().UTC()},
	})
	if err = translate(err); errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}

func (r subscriptionRepo) DeleteAll(ctx context.Context, userID string) error {
	_, err := r.client.Collection(subscriptionsCollection).Doc(userID).Delete(ctx)
	return translate(err)
}

func (r subscriptionRepo) Tokens(ctx context.Context, userIDs []string) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	refs := make([]*firestore.DocumentRef, len(userIDs))
	for i, id := range userIDs {
		refs[i] = r.client.Collection(subscriptionsCollection).Doc(id)
	}
	snaps, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, err
	}
	var tokens []string
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		var sub model.PushSubscription
		if err := snap.DataTo(&sub); err != nil {
			return nil, err
		}
		tokens = append(tokens, sub.Tokens...)
	}
	return tokens, nil
}
