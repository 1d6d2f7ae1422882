package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"animal-rescue-ops/internal/domain/placements"
)

type placementsLedger struct {
	s *Store
}

// CreateActive ejecuta chequeos y efectos bajo el mutex del store, que es
// lo que hace indivisible el check-then-act frente a callers concurrentes.
func (l *placementsLedger) CreateActive(ctx context.Context, in placements.CreateParams) (placements.Placement, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	a, ok := l.s.animals[in.AnimalID]
	if !ok || a.OrgID != in.OrgID {
		return placements.Placement{}, placements.ErrNotFound
	}

	p, ok := l.s.profiles[in.ProfileID]
	if !ok || p.OrgID != in.OrgID {
		return placements.Placement{}, placements.ErrNotFound
	}

	hasActive := false
	for _, existing := range l.s.placements {
		if existing.AnimalID == in.AnimalID && existing.IsActive() {
			hasActive = true
			break
		}
	}

	if err := placements.ValidateCreate(a, p, hasActive); err != nil {
		return placements.Placement{}, err
	}

	pl := placements.Placement{
		ID:              in.ID,
		OrgID:           in.OrgID,
		AnimalID:        in.AnimalID,
		ProfileID:       in.ProfileID,
		StartDate:       in.StartDate,
		ExpectedEndDate: in.ExpectedEndDate,
		Outcome:         placements.OutcomeActive,
		Notes:           in.Notes,
		AgreementSigned: in.AgreementSigned,
		CreatedAt:       in.StartDate,
		UpdatedAt:       in.StartDate,
	}
	if in.AgreementSigned {
		d := in.StartDate
		pl.AgreementSignedDate = &d
	}

	placements.ApplyCreate(pl, &a, &p)

	l.s.placements[pl.ID] = pl
	l.s.animals[a.ID] = a
	l.s.profiles[p.ID] = p

	return pl, nil
}

// Complete aplica la transición terminal y todos sus efectos bajo el mismo
// lock: o queda todo escrito o nada.
func (l *placementsLedger) Complete(ctx context.Context, in placements.CompleteParams) (placements.Placement, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	pl, ok := l.s.placements[in.PlacementID]
	if !ok || pl.OrgID != in.OrgID {
		return placements.Placement{}, placements.ErrNotFound
	}

	a, ok := l.s.animals[pl.AnimalID]
	if !ok {
		return placements.Placement{}, placements.ErrNotFound
	}
	p, ok := l.s.profiles[pl.ProfileID]
	if !ok {
		return placements.Placement{}, placements.ErrNotFound
	}

	now := time.Now()
	if err := placements.ApplyComplete(&pl, &a, &p, in.Outcome, in.EndDate, now); err != nil {
		return placements.Placement{}, err
	}

	pl.ReturnReason = in.ReturnReason
	pl.SuccessNotes = in.SuccessNotes

	l.s.placements[pl.ID] = pl
	l.s.animals[a.ID] = a
	l.s.profiles[p.ID] = p

	return pl, nil
}

func (l *placementsLedger) GetByID(ctx context.Context, orgID, id string) (placements.Placement, error) {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()

	pl, ok := l.s.placements[id]
	if !ok || pl.OrgID != orgID {
		return placements.Placement{}, placements.ErrNotFound
	}
	return pl, nil
}

func (l *placementsLedger) List(ctx context.Context, orgID string, f placements.ListFilter) ([]placements.Placement, error) {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()

	out := make([]placements.Placement, 0)
	for _, pl := range l.s.placements {
		if pl.OrgID != orgID {
			continue
		}
		if f.ActiveOnly && !pl.IsActive() {
			continue
		}
		if f.Outcome != "" && pl.Outcome != f.Outcome {
			continue
		}
		if f.ProfileID != "" && pl.ProfileID != f.ProfileID {
			continue
		}
		if f.AnimalID != "" && pl.AnimalID != f.AnimalID {
			continue
		}
		if f.StartDateFrom != nil && pl.StartDate.Before(*f.StartDateFrom) {
			continue
		}
		if f.StartDateTo != nil && pl.StartDate.After(*f.StartDateTo) {
			continue
		}
		out = append(out, pl)
	}

	// Más recientes primero, como el listado del dashboard
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

func (l *placementsLedger) AddNote(ctx context.Context, n placements.Note) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	if strings.TrimSpace(n.ID) == "" {
		return errors.New("note id required")
	}
	pl, ok := l.s.placements[n.PlacementID]
	if !ok || pl.OrgID != n.OrgID {
		return placements.ErrNotFound
	}

	l.s.notes[n.PlacementID] = append(l.s.notes[n.PlacementID], n)
	return nil
}

func (l *placementsLedger) ListNotes(ctx context.Context, orgID, placementID string) ([]placements.Note, error) {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()

	pl, ok := l.s.placements[placementID]
	if !ok || pl.OrgID != orgID {
		return nil, placements.ErrNotFound
	}

	src := l.s.notes[placementID]
	out := make([]placements.Note, len(src))
	copy(out, src)

	// Más recientes primero (append-only, así que basta invertir)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}
