package reports

import (
	"context"
	"errors"
	"sort"
	"strings"

	"animal-rescue-ops/internal/domain/animals"
	"animal-rescue-ops/internal/domain/fosters"
	"animal-rescue-ops/internal/domain/placements"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// recentPlacementsLimit acota la cola de "últimos movimientos" del dashboard.
const recentPlacementsLimit = 10

// CoordinatorStats son los agregados read-only del dashboard del
// coordinator. Se calculan sumando/filtrando las entidades; los campos de
// base los garantiza el ledger, no esta consulta.
type CoordinatorStats struct {
	TotalFosters         int
	AvailableFosters     int
	AnimalsNeedingFoster int
	AnimalsInFoster      int

	// Promedio de los AvgDurationDays de los perfiles que ya tienen valor.
	AvgPlacementDurationDays *float64

	// Cupo libre total entre perfiles disponibles.
	AvailableCapacity int

	RecentPlacements []placements.Placement
}

type Service struct {
	animals    animals.Repository
	fosters    fosters.Repository
	placements placements.Ledger
}

func NewService(animalsRepo animals.Repository, fostersRepo fosters.Repository, ledger placements.Ledger) *Service {
	return &Service{
		animals:    animalsRepo,
		fosters:    fostersRepo,
		placements: ledger,
	}
}

func (s *Service) CoordinatorStats(ctx context.Context, orgID string) (CoordinatorStats, error) {
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return CoordinatorStats{}, ErrInvalidInput
	}

	var out CoordinatorStats

	profiles, err := s.fosters.List(ctx, orgID, fosters.ListFilter{})
	if err != nil {
		return CoordinatorStats{}, err
	}

	out.TotalFosters = len(profiles)

	var durSum float64
	var durCount int
	for _, p := range profiles {
		if p.IsAvailable {
			out.AvailableFosters++
			if free := p.MaxCapacity - p.CurrentCapacity; free > 0 {
				out.AvailableCapacity += free
			}
		}
		if p.AvgDurationDays != nil {
			durSum += *p.AvgDurationDays
			durCount++
		}
	}
	if durCount > 0 {
		avg := durSum / float64(durCount)
		out.AvgPlacementDurationDays = &avg
	}

	all, err := s.animals.List(ctx, orgID, animals.ListFilter{})
	if err != nil {
		return CoordinatorStats{}, err
	}
	for _, a := range all {
		switch {
		case a.NeedsPlacement():
			out.AnimalsNeedingFoster++
		case a.Status == animals.StatusInFoster:
			out.AnimalsInFoster++
		}
	}

	recent, err := s.placements.List(ctx, orgID, placements.ListFilter{})
	if err != nil {
		return CoordinatorStats{}, err
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > recentPlacementsLimit {
		recent = recent[:recentPlacementsLimit]
	}
	out.RecentPlacements = recent

	return out, nil
}
