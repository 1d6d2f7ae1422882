package reports

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"animal-rescue-ops/internal/middleware"
	"animal-rescue-ops/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/foster/dashboard/stats", coordinatorStatsHandler(svc))
}

type recentPlacementResponse struct {
	ID            string     `json:"id"`
	AnimalID      string     `json:"animal_id"`
	ProfileID     string     `json:"foster_profile_id"`
	StartDate     time.Time  `json:"start_date"`
	ActualEndDate *time.Time `json:"actual_end_date,omitempty"`
	Outcome       string     `json:"outcome"`
	CreatedAt     time.Time  `json:"created_at"`
}

type coordinatorStatsResponse struct {
	TotalFosters             int                       `json:"total_active_fosters"`
	AvailableFosters         int                       `json:"total_available_fosters"`
	AnimalsNeedingFoster     int                       `json:"animals_needing_foster"`
	AnimalsInFoster          int                       `json:"animals_in_foster"`
	AvgPlacementDurationDays *float64                  `json:"avg_placement_duration_days"`
	AvailableFosterCapacity  int                       `json:"available_foster_capacity"`
	RecentPlacements         []recentPlacementResponse `json:"recent_placements"`
}

func coordinatorStatsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.OrgID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !claims.HasAnyRole(auth.RoleAdmin, auth.RolePetCoordinator) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		stats, err := svc.CoordinatorStats(r.Context(), claims.OrgID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		recent := make([]recentPlacementResponse, 0, len(stats.RecentPlacements))
		for _, p := range stats.RecentPlacements {
			recent = append(recent, recentPlacementResponse{
				ID:            p.ID,
				AnimalID:      p.AnimalID,
				ProfileID:     p.ProfileID,
				StartDate:     p.StartDate,
				ActualEndDate: p.ActualEndDate,
				Outcome:       string(p.Outcome),
				CreatedAt:     p.CreatedAt,
			})
		}

		writeJSON(w, http.StatusOK, coordinatorStatsResponse{
			TotalFosters:             stats.TotalFosters,
			AvailableFosters:         stats.AvailableFosters,
			AnimalsNeedingFoster:     stats.AnimalsNeedingFoster,
			AnimalsInFoster:          stats.AnimalsInFoster,
			AvgPlacementDurationDays: stats.AvgPlacementDurationDays,
			AvailableFosterCapacity:  stats.AvailableCapacity,
			RecentPlacements:         recent,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
