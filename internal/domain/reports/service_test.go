package reports_test

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"animal-rescue-ops/internal/adapters/storage/memory"
	"animal-rescue-ops/internal/domain/animals"
	"animal-rescue-ops/internal/domain/fosters"
	"animal-rescue-ops/internal/domain/placements"
	"animal-rescue-ops/internal/domain/reports"
)

func floatPtr(v float64) *float64 { return &v }

func TestCoordinatorStats_Aggregates(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	svc := reports.NewService(s.Animals(), s.Fosters(), s.Placements())

	// Perfiles: dos disponibles (cupo libre 2+1), uno desactivado y uno
	// lleno; dos con promedio de duración (20 y 40 => media 30).
	seed := []fosters.Profile{
		{ID: "p1", UserID: "u1", OrgID: "org-1", MaxCapacity: 3, CurrentCapacity: 1, IsAvailable: true, AvgDurationDays: floatPtr(20)},
		{ID: "p2", UserID: "u2", OrgID: "org-1", MaxCapacity: 1, IsAvailable: true, AvgDurationDays: floatPtr(40)},
		{ID: "p3", UserID: "u3", OrgID: "org-1", MaxCapacity: 2, IsAvailable: false},
		{ID: "p4", UserID: "u4", OrgID: "org-1", MaxCapacity: 1, CurrentCapacity: 1, IsAvailable: true},
	}
	for _, p := range seed {
		if err := s.Fosters().Create(ctx, p); err != nil {
			t.Fatalf("seed profile %s: %v", p.ID, err)
		}
	}

	// Animales: dos esperando foster, uno colocado, uno adoptado
	animalSeed := []animals.Animal{
		{ID: "a1", OrgID: "org-1", Status: animals.StatusIntake},
		{ID: "a2", OrgID: "org-1", Status: animals.StatusNeedsFoster},
		{ID: "a3", OrgID: "org-1", Status: animals.StatusInFoster},
		{ID: "a4", OrgID: "org-1", Status: animals.StatusAdopted},
	}
	for _, a := range animalSeed {
		if err := s.Animals().Create(ctx, a); err != nil {
			t.Fatalf("seed animal %s: %v", a.ID, err)
		}
	}

	// Otra org: no debe contar
	_ = s.Fosters().Create(ctx, fosters.Profile{ID: "px", UserID: "ux", OrgID: "org-2", MaxCapacity: 5, IsAvailable: true})
	_ = s.Animals().Create(ctx, animals.Animal{ID: "ax", OrgID: "org-2", Status: animals.StatusNeedsFoster})

	stats, err := svc.CoordinatorStats(ctx, "org-1")
	if err != nil {
		t.Fatalf("CoordinatorStats error: %v", err)
	}

	if stats.TotalFosters != 4 {
		t.Fatalf("expected 4 fosters, got %d", stats.TotalFosters)
	}
	if stats.AvailableFosters != 3 {
		t.Fatalf("expected 3 available fosters, got %d", stats.AvailableFosters)
	}
	if stats.AvailableCapacity != 3 {
		t.Fatalf("expected available capacity 3, got %d", stats.AvailableCapacity)
	}
	if stats.AnimalsNeedingFoster != 2 {
		t.Fatalf("expected 2 animals needing foster, got %d", stats.AnimalsNeedingFoster)
	}
	if stats.AnimalsInFoster != 1 {
		t.Fatalf("expected 1 animal in foster, got %d", stats.AnimalsInFoster)
	}
	if stats.AvgPlacementDurationDays == nil || math.Abs(*stats.AvgPlacementDurationDays-30) > 1e-9 {
		t.Fatalf("expected avg duration 30, got %v", stats.AvgPlacementDurationDays)
	}
}

func TestCoordinatorStats_RecentPlacementsCapped(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	svc := reports.NewService(s.Animals(), s.Fosters(), s.Placements())

	if err := s.Fosters().Create(ctx, fosters.Profile{
		ID: "p1", UserID: "u1", OrgID: "org-1", MaxCapacity: 20, IsAvailable: true,
	}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	base := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		animalID := fmt.Sprintf("a%d", i)
		if err := s.Animals().Create(ctx, animals.Animal{
			ID: animalID, OrgID: "org-1", Status: animals.StatusNeedsFoster,
		}); err != nil {
			t.Fatalf("seed animal: %v", err)
		}
		_, err := s.Placements().CreateActive(ctx, placements.CreateParams{
			ID:        fmt.Sprintf("pl%d", i),
			OrgID:     "org-1",
			AnimalID:  animalID,
			ProfileID: "p1",
			StartDate: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("create placement #%d: %v", i, err)
		}
	}

	stats, err := svc.CoordinatorStats(ctx, "org-1")
	if err != nil {
		t.Fatalf("CoordinatorStats error: %v", err)
	}

	if len(stats.RecentPlacements) != 10 {
		t.Fatalf("expected 10 recent placements, got %d", len(stats.RecentPlacements))
	}
	// El más nuevo primero
	if stats.RecentPlacements[0].ID != "pl11" {
		t.Fatalf("expected pl11 first, got %s", stats.RecentPlacements[0].ID)
	}
}
