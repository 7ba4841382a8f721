package memory

import (
	"context"
	"sort"
	"time"

	"teamboard/model"
	"teamboard/repository"
)

type inviteRepo struct{ s *Store }

func (r inviteRepo) Create(_ context.Context, invite *model.Invite) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invites[invite.Token]; ok {
		return repository.ErrConflict
	}
	c := *invite
	r.s.invites[invite.Token] = &c
	return nil
}

func (r inviteRepo) Get(_ context.Context, token string) (*model.Invite, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inv, ok := r.s.invites[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *inv
	return &c, nil
}

func (r inviteRepo) MarkUsed(_ context.Context, token string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.invites[token]
	if !ok {
		return repository.ErrNotFound
	}
	if inv.UsedAt != nil {
		return repository.ErrConflict
	}
	inv.UsedAt = &at
	return nil
}

type settingsRepo struct{ s *Store }

func (r settingsRepo) Get(_ context.Context) (*model.Settings, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c := r.s.settings
	return &c, nil
}

func (r settingsRepo) SetScheduleAdmin(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.settings.ScheduleAdminID = userID
	r.s.settings.UpdatedAt = time.Now().UTC()
	return nil
}

type scheduleRepo struct{ s *Store }

func (r scheduleRepo) Get(_ context.Context) (*model.ScheduleGrid, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if r.s.schedule == nil {
		return &model.ScheduleGrid{Phases: []string{}, Cells: map[string]map[string]string{}}, nil
	}
	return cloneGrid(r.s.schedule), nil
}

func (r scheduleRepo) Put(_ context.Context, grid *model.ScheduleGrid) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.schedule = cloneGrid(grid)
	return nil
}

func cloneGrid(g *model.ScheduleGrid) *model.ScheduleGrid {
	c := *g
	c.Phases = cloneStrings(g.Phases)
	c.Cells = make(map[string]map[string]string, len(g.Cells))
	for phase, row := range g.Cells {
		cp := make(map[string]string, len(row))
		for dept, v := range row {
			cp[dept] = v
		}
		c.Cells[phase] = cp
	}
	return &c
}

type templateRepo struct{ s *Store }

func (r templateRepo) Create(_ context.Context, tpl *model.Template) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.templates[tpl.ID]; ok {
		return repository.ErrConflict
	}
	c := *tpl
	r.s.templates[tpl.ID] = &c
	return nil
}

func (r templateRepo) Get(_ context.Context, id string) (*model.Template, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	tpl, ok := r.s.templates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *tpl
	return &c, nil
}

func (r templateRepo) List(_ context.Context) ([]model.Template, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []model.Template{}
	for _, tpl := range r.s.templates {
		out = append(out, *tpl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r templateRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.templates[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.templates, id)
	return nil
}

type subscriptionRepo struct{ s *Store }

func (r subscriptionRepo) AddToken(_ context.Context, userID, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.subscriptions[userID] = addUnique(r.s.subscriptions[userID], token)
	return nil
}

func (r subscriptionRepo) RemoveToken(_ context.Context, userID, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.subscriptions[userID] = removeValue(r.s.subscriptions[userID], token)
	return nil
}

func (r subscriptionRepo) DeleteAll(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.subscriptions, userID)
	return nil
}

func (r subscriptionRepo) Tokens(_ context.Context, userIDs []string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []string
	for _, id := range userIDs {
		out = append(out, r.s.subscriptions[id]...)
	}
	return out, nil
}
