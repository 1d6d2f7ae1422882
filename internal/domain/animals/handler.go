package animals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"animal-rescue-ops/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/animals", func(ar chi.Router) {
		ar.Post("/", createAnimalHandler(svc))
		ar.Get("/", listAnimalsHandler(svc))
		ar.Get("/{animalID}", getAnimalHandler(svc))
	})
}

type createAnimalRequest struct {
	Name                string `json:"name"`
	Species             string `json:"species"`
	Breed               string `json:"breed"`
	Sex                 string `json:"sex"`
	DescriptionPublic   string `json:"description_public"`
	DescriptionInternal string `json:"description_internal"`
	PhotoURL            string `json:"photo_url"`
}

type animalResponse struct {
	ID                  string    `json:"id"`
	OrgID               string    `json:"org_id"`
	Name                string    `json:"name"`
	Species             string    `json:"species"`
	Breed               string    `json:"breed"`
	Sex                 string    `json:"sex"`
	Status              string    `json:"status"`
	DescriptionPublic   string    `json:"description_public"`
	DescriptionInternal string    `json:"description_internal,omitempty"`
	PhotoURL            string    `json:"photo_url,omitempty"`
	FosterUserID        *string   `json:"foster_user_id,omitempty"`
	AdopterUserID       *string   `json:"adopter_user_id,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func createAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.OrgID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createAnimalRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), claims.OrgID, CreateInput{
			Name:                req.Name,
			Species:             req.Species,
			Breed:               req.Breed,
			Sex:                 req.Sex,
			DescriptionPublic:   req.DescriptionPublic,
			DescriptionInternal: req.DescriptionInternal,
			PhotoURL:            req.PhotoURL,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toAnimalResponse(a))
	}
}

func listAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.OrgID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		f := ListFilter{}
		if st := strings.TrimSpace(r.URL.Query().Get("status")); st != "" {
			f.Status = Status(st)
		}

		items, err := svc.List(r.Context(), claims.OrgID, f)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]animalResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toAnimalResponse(a))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.OrgID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		a, err := svc.GetByID(r.Context(), claims.OrgID, chi.URLParam(r, "animalID"))
		if err != nil {
			// cross-tenant se reporta igual que inexistente
			http.Error(w, "animal not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

func toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		ID:                  a.ID,
		OrgID:               a.OrgID,
		Name:                a.Name,
		Species:             a.Species,
		Breed:               a.Breed,
		Sex:                 a.Sex,
		Status:              string(a.Status),
		DescriptionPublic:   a.DescriptionPublic,
		DescriptionInternal: a.DescriptionInternal,
		PhotoURL:            a.PhotoURL,
		FosterUserID:        a.FosterUserID,
		AdopterUserID:       a.AdopterUserID,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

// writeJSON está duplicado a propósito en los handlers de cada módulo,
// igual que en el resto de servicios: extraer un helper compartido recién
// vale la pena cuando la firma deja de ser trivial.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
