package fosters

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"animal-rescue-ops/internal/middleware"
	"animal-rescue-ops/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/foster/profiles", func(fr chi.Router) {
		fr.Post("/", createProfileHandler(svc))
		fr.Get("/", listProfilesHandler(svc))
		fr.Get("/me", getMyProfileHandler(svc))
		fr.Patch("/me", updateMyProfileHandler(svc))
		fr.Get("/{profileID}", getProfileHandler(svc))

		// Campos administrativos (background check, referencias, rating)
		fr.Patch("/{profileID}/admin", adminUpdateProfileHandler(svc))
	})
}

type createProfileRequest struct {
	ContactName         string `json:"contact_name"`
	ContactEmail        string `json:"contact_email"`
	ExperienceLevel     string `json:"experience_level"`
	PreferredSpecies    string `json:"preferred_species"`
	PreferredAges       string `json:"preferred_ages"`
	MaxCapacity         int    `json:"max_capacity"`
	CanHandleMedical    bool   `json:"can_handle_medical"`
	CanHandleBehavioral bool   `json:"can_handle_behavioral"`
	IsAvailable         *bool  `json:"is_available"`
}

type updateProfileRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	ContactName         *string `json:"contact_name"`
	ContactEmail        *string `json:"contact_email"`
	ExperienceLevel     *string `json:"experience_level"`
	PreferredSpecies    *string `json:"preferred_species"`
	PreferredAges       *string `json:"preferred_ages"`
	MaxCapacity         *int    `json:"max_capacity"`
	CanHandleMedical    *bool   `json:"can_handle_medical"`
	CanHandleBehavioral *bool   `json:"can_handle_behavioral"`
	IsAvailable         *bool   `json:"is_available"`
}

type adminUpdateProfileRequest struct {
	BackgroundCheckStatus *string  `json:"background_check_status"`
	BackgroundCheckDate   *string  `json:"background_check_date"` // YYYY-MM-DD
	InsuranceVerified     *bool    `json:"insurance_verified"`
	ReferencesChecked     *bool    `json:"references_checked"`
	NotesInternal         *string  `json:"notes_internal"`
	Rating                *float64 `json:"rating"`
}

type profileResponse struct {
	ID                    string     `json:"id"`
	UserID                string     `json:"user_id"`
	OrgID                 string     `json:"org_id"`
	ContactName           string     `json:"contact_name"`
	ContactEmail          string     `json:"contact_email"`
	ExperienceLevel       string     `json:"experience_level"`
	PreferredSpecies      string     `json:"preferred_species"`
	PreferredAges         string     `json:"preferred_ages"`
	MaxCapacity           int        `json:"max_capacity"`
	CurrentCapacity       int        `json:"current_capacity"`
	CanHandleMedical      bool       `json:"can_handle_medical"`
	CanHandleBehavioral   bool       `json:"can_handle_behavioral"`
	IsAvailable           bool       `json:"is_available"`
	TotalPlacements       int        `json:"total_placements"`
	SuccessfulAdoptions   int        `json:"successful_adoptions"`
	AvgDurationDays       *float64   `json:"avg_duration_days"`
	Rating                *float64   `json:"rating"`
	BackgroundCheckStatus string     `json:"background_check_status,omitempty"`
	BackgroundCheckDate   *time.Time `json:"background_check_date,omitempty"`
	InsuranceVerified     bool       `json:"insurance_verified"`
	ReferencesChecked     bool       `json:"references_checked"`
	NotesInternal         string     `json:"notes_internal,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func createProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		var req createProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), claims.OrgID, claims.UserID, CreateInput{
			ContactName:         req.ContactName,
			ContactEmail:        req.ContactEmail,
			ExperienceLevel:     req.ExperienceLevel,
			PreferredSpecies:    req.PreferredSpecies,
			PreferredAges:       req.PreferredAges,
			MaxCapacity:         req.MaxCapacity,
			CanHandleMedical:    req.CanHandleMedical,
			CanHandleBehavioral: req.CanHandleBehavioral,
			IsAvailable:         req.IsAvailable,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrAlreadyExists):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, toProfileResponse(p))
	}
}

func listProfilesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		f := ListFilter{
			AvailableOnly: r.URL.Query().Get("available_only") == "true",
		}

		items, err := svc.List(r.Context(), claims.OrgID, f)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]profileResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toProfileResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getMyProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		p, err := svc.GetMine(r.Context(), claims.OrgID, claims.UserID)
		if err != nil {
			http.Error(w, "foster profile not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func getProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		p, err := svc.GetByID(r.Context(), claims.OrgID, chi.URLParam(r, "profileID"))
		if err != nil {
			http.Error(w, "foster profile not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func updateMyProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateProfileRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.UpdateMine(r.Context(), claims.OrgID, claims.UserID, UpdateInput{
			ContactName:         req.ContactName,
			ContactEmail:        req.ContactEmail,
			ExperienceLevel:     req.ExperienceLevel,
			PreferredSpecies:    req.PreferredSpecies,
			PreferredAges:       req.PreferredAges,
			MaxCapacity:         req.MaxCapacity,
			CanHandleMedical:    req.CanHandleMedical,
			CanHandleBehavioral: req.CanHandleBehavioral,
			IsAvailable:         req.IsAvailable,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "foster profile not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func adminUpdateProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}
		if !claims.HasAnyRole(auth.RoleAdmin, auth.RolePetCoordinator) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		var req adminUpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := AdminUpdateInput{
			BackgroundCheckStatus: req.BackgroundCheckStatus,
			InsuranceVerified:     req.InsuranceVerified,
			ReferencesChecked:     req.ReferencesChecked,
			NotesInternal:         req.NotesInternal,
			Rating:                req.Rating,
		}
		if req.BackgroundCheckDate != nil {
			t, err := time.Parse("2006-01-02", *req.BackgroundCheckDate)
			if err != nil {
				http.Error(w, "background_check_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.BackgroundCheckDate = &t
		}

		p, err := svc.AdminUpdate(r.Context(), claims.OrgID, chi.URLParam(r, "profileID"), in)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "foster profile not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toProfileResponse(p))
	}
}

func requireClaims(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok || strings.TrimSpace(claims.UserID) == "" || strings.TrimSpace(claims.OrgID) == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return auth.Claims{}, false
	}
	return claims, true
}

func toProfileResponse(p Profile) profileResponse {
	return profileResponse{
		ID:                    p.ID,
		UserID:                p.UserID,
		OrgID:                 p.OrgID,
		ContactName:           p.ContactName,
		ContactEmail:          p.ContactEmail,
		ExperienceLevel:       string(p.ExperienceLevel),
		PreferredSpecies:      p.PreferredSpecies,
		PreferredAges:         p.PreferredAges,
		MaxCapacity:           p.MaxCapacity,
		CurrentCapacity:       p.CurrentCapacity,
		CanHandleMedical:      p.CanHandleMedical,
		CanHandleBehavioral:   p.CanHandleBehavioral,
		IsAvailable:           p.IsAvailable,
		TotalPlacements:       p.TotalPlacements,
		SuccessfulAdoptions:   p.SuccessfulAdoptions,
		AvgDurationDays:       p.AvgDurationDays,
		Rating:                p.Rating,
		BackgroundCheckStatus: p.BackgroundCheckStatus,
		BackgroundCheckDate:   p.BackgroundCheckDate,
		InsuranceVerified:     p.InsuranceVerified,
		ReferencesChecked:     p.ReferencesChecked,
		NotesInternal:         p.NotesInternal,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
