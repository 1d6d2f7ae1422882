package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"animal-rescue-ops/internal/domain/fosters"
)

type fostersRepo struct {
	s *Store
}

func (r *fostersRepo) Create(ctx context.Context, p fosters.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("profile id required")
	}
	if _, exists := r.s.profiles[p.ID]; exists {
		return errors.New("profile already exists")
	}
	// Unicidad por (org, user)
	for _, existing := range r.s.profiles {
		if existing.OrgID == p.OrgID && existing.UserID == p.UserID {
			return fosters.ErrAlreadyExists
		}
	}
	r.s.profiles[p.ID] = p
	return nil
}

func (r *fostersRepo) Update(ctx context.Context, p fosters.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, exists := r.s.profiles[p.ID]
	if !exists || current.OrgID != p.OrgID {
		return fosters.ErrNotFound
	}
	r.s.profiles[p.ID] = p
	return nil
}

func (r *fostersRepo) GetByID(ctx context.Context, orgID, id string) (fosters.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.profiles[id]
	if !ok || p.OrgID != orgID {
		return fosters.Profile{}, fosters.ErrNotFound
	}
	return p, nil
}

func (r *fostersRepo) GetByUser(ctx context.Context, orgID, userID string) (fosters.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.profiles {
		if p.OrgID == orgID && p.UserID == userID {
			return p, nil
		}
	}
	return fosters.Profile{}, fosters.ErrNotFound
}

func (r *fostersRepo) List(ctx context.Context, orgID string, f fosters.ListFilter) ([]fosters.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]fosters.Profile, 0)
	for _, p := range r.s.profiles {
		if p.OrgID != orgID {
			continue
		}
		if f.AvailableOnly && (!p.IsAvailable || !p.HasFreeSlot()) {
			continue
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}
