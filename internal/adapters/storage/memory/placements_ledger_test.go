package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"animal-rescue-ops/internal/domain/animals"
	"animal-rescue-ops/internal/domain/fosters"
	"animal-rescue-ops/internal/domain/placements"
)

func seedAnimal(t *testing.T, s *Store, orgID, id string) {
	t.Helper()
	err := s.Animals().Create(context.Background(), animals.Animal{
		ID:      id,
		OrgID:   orgID,
		Name:    "Luna",
		Species: "cat",
		Status:  animals.StatusNeedsFoster,
	})
	if err != nil {
		t.Fatalf("seed animal: %v", err)
	}
}

func seedProfile(t *testing.T, s *Store, orgID, id string, maxCap int) {
	t.Helper()
	err := s.Fosters().Create(context.Background(), fosters.Profile{
		ID:          id,
		UserID:      "user-" + id,
		OrgID:       orgID,
		MaxCapacity: maxCap,
		IsAvailable: true,
	})
	if err != nil {
		t.Fatalf("seed profile: %v", err)
	}
}

func createParams(orgID, animalID, profileID string) placements.CreateParams {
	return placements.CreateParams{
		ID:        fmt.Sprintf("pl-%s-%s", animalID, profileID),
		OrgID:     orgID,
		AnimalID:  animalID,
		ProfileID: profileID,
		StartDate: time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestLedger_CreateThenComplete_RoundTrip(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	seedAnimal(t, s, "org-1", "animal-1")
	seedProfile(t, s, "org-1", "profile-1", 1)

	pl, err := s.Placements().CreateActive(ctx, createParams("org-1", "animal-1", "profile-1"))
	if err != nil {
		t.Fatalf("CreateActive error: %v", err)
	}

	a, _ := s.Animals().GetByID(ctx, "org-1", "animal-1")
	if a.Status != animals.StatusInFoster {
		t.Fatalf("expected animal in_foster, got %s", a.Status)
	}
	p, _ := s.Fosters().GetByID(ctx, "org-1", "profile-1")
	if p.CurrentCapacity != 1 || p.TotalPlacements != 1 {
		t.Fatalf("expected capacity=1 total=1, got %d/%d", p.CurrentCapacity, p.TotalPlacements)
	}

	// Con el cupo lleno, otro animal no entra
	seedAnimal(t, s, "org-1", "animal-2")
	_, err = s.Placements().CreateActive(ctx, createParams("org-1", "animal-2", "profile-1"))
	if !errors.Is(err, placements.ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}

	// Completar libera el cupo y devuelve el animal al pool
	_, err = s.Placements().Complete(ctx, placements.CompleteParams{
		OrgID:       "org-1",
		PlacementID: pl.ID,
		Outcome:     placements.OutcomeReturned,
		EndDate:     pl.StartDate.AddDate(0, 0, 7),
	})
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}

	a, _ = s.Animals().GetByID(ctx, "org-1", "animal-1")
	if a.Status != animals.StatusNeedsFoster {
		t.Fatalf("expected animal needs_foster after return, got %s", a.Status)
	}
	if a.FosterUserID != nil {
		t.Fatalf("expected caretaker cleared")
	}
	p, _ = s.Fosters().GetByID(ctx, "org-1", "profile-1")
	if p.CurrentCapacity != 0 {
		t.Fatalf("expected capacity back to 0, got %d", p.CurrentCapacity)
	}

	// Ahora sí entra el segundo
	if _, err := s.Placements().CreateActive(ctx, createParams("org-1", "animal-2", "profile-1")); err != nil {
		t.Fatalf("expected create after release, got %v", err)
	}
}

func TestLedger_DuplicateActivePlacement(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	seedAnimal(t, s, "org-1", "animal-1")
	seedProfile(t, s, "org-1", "profile-1", 5)
	seedProfile(t, s, "org-1", "profile-2", 5)

	if _, err := s.Placements().CreateActive(ctx, createParams("org-1", "animal-1", "profile-1")); err != nil {
		t.Fatalf("CreateActive error: %v", err)
	}

	_, err := s.Placements().CreateActive(ctx, createParams("org-1", "animal-1", "profile-2"))
	if !errors.Is(err, placements.ErrAlreadyPlaced) {
		t.Fatalf("expected ErrAlreadyPlaced, got %v", err)
	}
}

func TestLedger_ConcurrentCreates_SingleWinner(t *testing.T) {
	// N requests concurrentes contra un perfil con max_capacity=1:
	// exactamente una gana, el resto falla con conflicto de capacidad.
	s := NewStore()
	ctx := context.Background()

	const n = 16
	seedProfile(t, s, "org-1", "profile-1", 1)
	for i := 0; i < n; i++ {
		seedAnimal(t, s, "org-1", fmt.Sprintf("animal-%d", i))
	}

	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			animalID := fmt.Sprintf("animal-%d", i)
			_, err := s.Placements().CreateActive(ctx, createParams("org-1", animalID, "profile-1"))
			errs[i] = err
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		if !errors.Is(err, placements.ErrCapacityExceeded) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if created != 1 {
		t.Fatalf("expected exactly 1 successful create, got %d", created)
	}

	p, _ := s.Fosters().GetByID(ctx, "org-1", "profile-1")
	if p.CurrentCapacity != 1 {
		t.Fatalf("expected capacity 1 after race, got %d", p.CurrentCapacity)
	}
}

func TestLedger_CrossOrgHidden(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	seedAnimal(t, s, "org-1", "animal-1")
	seedProfile(t, s, "org-1", "profile-1", 1)

	pl, err := s.Placements().CreateActive(ctx, createParams("org-1", "animal-1", "profile-1"))
	if err != nil {
		t.Fatalf("CreateActive error: %v", err)
	}

	if _, err := s.Placements().GetByID(ctx, "org-2", pl.ID); !errors.Is(err, placements.ErrNotFound) {
		t.Fatalf("expected ErrNotFound cross-org get, got %v", err)
	}

	_, err = s.Placements().Complete(ctx, placements.CompleteParams{
		OrgID:       "org-2",
		PlacementID: pl.ID,
		Outcome:     placements.OutcomeAdopted,
		EndDate:     pl.StartDate,
	})
	if !errors.Is(err, placements.ErrNotFound) {
		t.Fatalf("expected ErrNotFound cross-org complete, got %v", err)
	}

	// El animal de otra org tampoco se puede colocar
	seedProfile(t, s, "org-2", "profile-2", 1)
	_, err = s.Placements().CreateActive(ctx, createParams("org-2", "animal-1", "profile-2"))
	if !errors.Is(err, placements.ErrNotFound) {
		t.Fatalf("expected ErrNotFound placing foreign animal, got %v", err)
	}
}

func TestLedger_Notes_AppendOnlyRecentFirst(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	seedAnimal(t, s, "org-1", "animal-1")
	seedProfile(t, s, "org-1", "profile-1", 1)

	pl, err := s.Placements().CreateActive(ctx, createParams("org-1", "animal-1", "profile-1"))
	if err != nil {
		t.Fatalf("CreateActive error: %v", err)
	}

	base := time.Date(2026, 6, 2, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := s.Placements().AddNote(ctx, placements.Note{
			ID:           fmt.Sprintf("note-%d", i),
			OrgID:        "org-1",
			PlacementID:  pl.ID,
			AuthorUserID: "user-1",
			Category:     "progress",
			Body:         fmt.Sprintf("update %d", i),
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("AddNote #%d error: %v", i, err)
		}
	}

	notes, err := s.Placements().ListNotes(ctx, "org-1", pl.ID)
	if err != nil {
		t.Fatalf("ListNotes error: %v", err)
	}
	if len(notes) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(notes))
	}
	if notes[0].ID != "note-2" || notes[2].ID != "note-0" {
		t.Fatalf("expected recent-first order, got %s..%s", notes[0].ID, notes[2].ID)
	}
}

func TestLedger_ListFilters(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	seedAnimal(t, s, "org-1", "animal-1")
	seedAnimal(t, s, "org-1", "animal-2")
	seedProfile(t, s, "org-1", "profile-1", 2)

	pl1, err := s.Placements().CreateActive(ctx, createParams("org-1", "animal-1", "profile-1"))
	if err != nil {
		t.Fatalf("CreateActive #1 error: %v", err)
	}
	if _, err := s.Placements().CreateActive(ctx, createParams("org-1", "animal-2", "profile-1")); err != nil {
		t.Fatalf("CreateActive #2 error: %v", err)
	}

	if _, err := s.Placements().Complete(ctx, placements.CompleteParams{
		OrgID:       "org-1",
		PlacementID: pl1.ID,
		Outcome:     placements.OutcomeAdopted,
		EndDate:     pl1.StartDate.AddDate(0, 0, 3),
	}); err != nil {
		t.Fatalf("Complete error: %v", err)
	}

	active, err := s.Placements().List(ctx, "org-1", placements.ListFilter{ActiveOnly: true})
	if err != nil {
		t.Fatalf("List active error: %v", err)
	}
	if len(active) != 1 || active[0].AnimalID != "animal-2" {
		t.Fatalf("expected 1 active placement for animal-2, got %#v", active)
	}

	adopted, err := s.Placements().List(ctx, "org-1", placements.ListFilter{Outcome: placements.OutcomeAdopted})
	if err != nil {
		t.Fatalf("List adopted error: %v", err)
	}
	if len(adopted) != 1 || adopted[0].ID != pl1.ID {
		t.Fatalf("expected adopted placement, got %#v", adopted)
	}

	byAnimal, err := s.Placements().List(ctx, "org-1", placements.ListFilter{AnimalID: "animal-1"})
	if err != nil {
		t.Fatalf("List by animal error: %v", err)
	}
	if len(byAnimal) != 1 {
		t.Fatalf("expected 1 placement for animal-1, got %d", len(byAnimal))
	}
}
