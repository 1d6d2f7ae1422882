package matching

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"animal-rescue-ops/internal/middleware"
	"animal-rescue-ops/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/foster/matches", suggestMatchesHandler(svc))
}

type matchResponse struct {
	AnimalID      string `json:"animal_id"`
	AnimalName    string `json:"animal_name"`
	AnimalSpecies string `json:"animal_species"`
	AnimalStatus  string `json:"animal_status"`

	ProfileID    string `json:"foster_profile_id"`
	FosterUserID string `json:"foster_user_id"`
	FosterName   string `json:"foster_name"`
	FosterEmail  string `json:"foster_email"`

	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`

	CurrentLoad int `json:"current_foster_load"`
	MaxCapacity int `json:"max_capacity"`
}

func suggestMatchesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.OrgID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if !claims.HasAnyRole(auth.RoleAdmin, auth.RolePetCoordinator, auth.RoleScreener) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		matches, err := svc.Suggest(r.Context(), claims.OrgID, r.URL.Query().Get("animal_id"))
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				http.Error(w, "animal not found", http.StatusNotFound)
			case errors.Is(err, ErrNotEligible):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		out := make([]matchResponse, 0, len(matches))
		for _, m := range matches {
			out = append(out, matchResponse{
				AnimalID:      m.Animal.ID,
				AnimalName:    m.Animal.Name,
				AnimalSpecies: m.Animal.Species,
				AnimalStatus:  string(m.Animal.Status),
				ProfileID:     m.Profile.ID,
				FosterUserID:  m.Profile.UserID,
				FosterName:    m.Profile.ContactName,
				FosterEmail:   m.Profile.ContactEmail,
				Score:         m.Score,
				Reasons:       m.Reasons,
				CurrentLoad:   m.Profile.CurrentCapacity,
				MaxCapacity:   m.Profile.MaxCapacity,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
