package matching

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"animal-rescue-ops/internal/domain/animals"
	"animal-rescue-ops/internal/domain/fosters"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

type testAnimalsRepo struct {
	items []animals.Animal
}

func (r *testAnimalsRepo) Create(ctx context.Context, a animals.Animal) error {
	r.items = append(r.items, a)
	return nil
}

func (r *testAnimalsRepo) GetByID(ctx context.Context, orgID, id string) (animals.Animal, error) {
	for _, a := range r.items {
		if a.ID == id && a.OrgID == orgID {
			return a, nil
		}
	}
	return animals.Animal{}, animals.ErrNotFound
}

func (r *testAnimalsRepo) List(ctx context.Context, orgID string, f animals.ListFilter) ([]animals.Animal, error) {
	out := make([]animals.Animal, 0)
	for _, a := range r.items {
		if a.OrgID != orgID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

type testFostersRepo struct {
	items []fosters.Profile
}

func (r *testFostersRepo) Create(ctx context.Context, p fosters.Profile) error {
	r.items = append(r.items, p)
	return nil
}

func (r *testFostersRepo) Update(ctx context.Context, p fosters.Profile) error { return nil }

func (r *testFostersRepo) GetByID(ctx context.Context, orgID, id string) (fosters.Profile, error) {
	for _, p := range r.items {
		if p.ID == id && p.OrgID == orgID {
			return p, nil
		}
	}
	return fosters.Profile{}, fosters.ErrNotFound
}

func (r *testFostersRepo) GetByUser(ctx context.Context, orgID, userID string) (fosters.Profile, error) {
	return fosters.Profile{}, fosters.ErrNotFound
}

func (r *testFostersRepo) List(ctx context.Context, orgID string, f fosters.ListFilter) ([]fosters.Profile, error) {
	out := make([]fosters.Profile, 0)
	for _, p := range r.items {
		if p.OrgID != orgID {
			continue
		}
		if f.AvailableOnly && (!p.IsAvailable || !p.HasFreeSlot()) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func TestSuggest_SingleAnimal_SortedDescending(t *testing.T) {
	ar := &testAnimalsRepo{}
	fr := &testFostersRepo{}
	svc := NewService(ar, fr)

	_ = ar.Create(context.Background(), animals.Animal{
		ID: "animal-1", OrgID: "org-1", Species: "cat", Status: animals.StatusNeedsFoster,
	})

	// Cuatro perfiles con puntajes crecientes
	levels := []fosters.ExperienceLevel{
		fosters.ExperienceNone,
		fosters.ExperienceBeginner,
		fosters.ExperienceIntermediate,
		fosters.ExperienceAdvanced,
	}
	for i, lvl := range levels {
		_ = fr.Create(context.Background(), fosters.Profile{
			ID:              fmt.Sprintf("profile-%d", i),
			OrgID:           "org-1",
			ExperienceLevel: lvl,
			MaxCapacity:     1,
			IsAvailable:     true,
		})
	}

	matches, err := svc.Suggest(context.Background(), "org-1", "animal-1")
	if err != nil {
		t.Fatalf("Suggest error: %v", err)
	}

	// Para un animal puntual se devuelven todos los positivos (4), sin tope
	if len(matches) != 4 {
		t.Fatalf("expected 4 matches, got %d", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Fatalf("expected descending order, got %d then %d", matches[i-1].Score, matches[i].Score)
		}
	}
	if matches[0].Profile.ExperienceLevel != fosters.ExperienceAdvanced {
		t.Fatalf("expected advanced profile first, got %s", matches[0].Profile.ExperienceLevel)
	}
}

func TestSuggest_WholeOrg_TopThreePerAnimal(t *testing.T) {
	ar := &testAnimalsRepo{}
	fr := &testFostersRepo{}
	svc := NewService(ar, fr)

	_ = ar.Create(context.Background(), animals.Animal{
		ID: "animal-1", OrgID: "org-1", Species: "cat", Status: animals.StatusNeedsFoster,
	})
	// Animal ya colocado: no entra en el barrido
	_ = ar.Create(context.Background(), animals.Animal{
		ID: "animal-2", OrgID: "org-1", Species: "dog", Status: animals.StatusInFoster,
	})

	for i := 0; i < 5; i++ {
		_ = fr.Create(context.Background(), fosters.Profile{
			ID:          fmt.Sprintf("profile-%d", i),
			OrgID:       "org-1",
			MaxCapacity: 1,
			IsAvailable: true,
		})
	}

	matches, err := svc.Suggest(context.Background(), "org-1", "")
	if err != nil {
		t.Fatalf("Suggest error: %v", err)
	}

	// 5 candidatos positivos pero tope de 3 por animal; animal-2 no aparece
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches (top cap), got %d", len(matches))
	}
	for _, m := range matches {
		if m.Animal.ID != "animal-1" {
			t.Fatalf("expected only animal-1 in sweep, got %s", m.Animal.ID)
		}
	}
}

func TestSuggest_ExcludesNonPositiveAndIneligible(t *testing.T) {
	ar := &testAnimalsRepo{}
	fr := &testFostersRepo{}
	svc := NewService(ar, fr)

	_ = ar.Create(context.Background(), animals.Animal{
		ID:                  "animal-1",
		OrgID:               "org-1",
		Species:             "cat",
		DescriptionInternal: "aggressive with other cats, needs medication",
		Status:              animals.StatusNeedsFoster,
	})

	// Doble penalización (médica + conductual) sin señales a favor salvo
	// el cupo: 20 - 20 - 20 < 0 => excluido.
	_ = fr.Create(context.Background(), fosters.Profile{
		ID:              "profile-negative",
		OrgID:           "org-1",
		MaxCapacity:     2,
		CurrentCapacity: 1,
		IsAvailable:     true,
	})
	_ = fr.Create(context.Background(), fosters.Profile{
		ID:                  "profile-ok",
		OrgID:               "org-1",
		MaxCapacity:         1,
		IsAvailable:         true,
		CanHandleMedical:    true,
		CanHandleBehavioral: true,
	})
	// No disponible: fuera del pool aunque puntuaría alto
	_ = fr.Create(context.Background(), fosters.Profile{
		ID:                  "profile-off",
		OrgID:               "org-1",
		MaxCapacity:         1,
		IsAvailable:         false,
		CanHandleMedical:    true,
		CanHandleBehavioral: true,
	})

	matches, err := svc.Suggest(context.Background(), "org-1", "animal-1")
	if err != nil {
		t.Fatalf("Suggest error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Profile.ID != "profile-ok" {
		t.Fatalf("expected profile-ok, got %s", matches[0].Profile.ID)
	}
}

func TestSuggest_AnimalNotEligible(t *testing.T) {
	ar := &testAnimalsRepo{}
	fr := &testFostersRepo{}
	svc := NewService(ar, fr)

	_ = ar.Create(context.Background(), animals.Animal{
		ID: "animal-1", OrgID: "org-1", Species: "cat", Status: animals.StatusAdopted,
	})

	_, err := svc.Suggest(context.Background(), "org-1", "animal-1")
	if !errors.Is(err, ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible, got %v", err)
	}

	_, err = svc.Suggest(context.Background(), "org-1", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
