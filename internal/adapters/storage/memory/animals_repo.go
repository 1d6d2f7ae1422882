package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"animal-rescue-ops/internal/domain/animals"
)

type animalsRepo struct {
	s *Store
}

func (r *animalsRepo) Create(ctx context.Context, a animals.Animal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if strings.TrimSpace(a.ID) == "" {
		return errors.New("animal id required")
	}
	if _, exists := r.s.animals[a.ID]; exists {
		return errors.New("animal already exists")
	}
	r.s.animals[a.ID] = a
	return nil
}

func (r *animalsRepo) GetByID(ctx context.Context, orgID, id string) (animals.Animal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.animals[id]
	if !ok || a.OrgID != orgID {
		// cross-tenant == inexistente
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, nil
}

func (r *animalsRepo) List(ctx context.Context, orgID string, f animals.ListFilter) ([]animals.Animal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]animals.Animal, 0)
	for _, a := range r.s.animals {
		if a.OrgID != orgID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		out = append(out, a)
	}

	// Orden estable por created_at asc (consistencia en dev y tests)
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}
