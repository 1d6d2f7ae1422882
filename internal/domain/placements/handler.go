package placements

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
	r.Route("/foster/placements", func(pr chi.Router) {
		pr.Post("/", createPlacementHandler(svc))
		pr.Get("/", listPlacementsHandler(svc))
		pr.Get("/{placementID}", getPlacementHandler(svc))
		pr.Post("/{placementID}/complete", completePlacementHandler(svc))

		pr.Post("/{placementID}/notes", addNoteHandler(svc))
		pr.Get("/{placementID}/notes", listNotesHandler(svc))
	})
}

type createPlacementRequest struct {
	AnimalID        string `json:"animal_id"`
	ProfileID       string `json:"foster_profile_id"`
	ExpectedEndDate string `json:"expected_end_date"` // YYYY-MM-DD opcional
	Notes           string `json:"notes"`
	AgreementSigned bool   `json:"agreement_signed"`
}

type completePlacementRequest struct {
	Outcome      string `json:"outcome"`
	EndDate      string `json:"end_date"` // YYYY-MM-DD opcional, default hoy
	ReturnReason string `json:"return_reason"`
	SuccessNotes string `json:"success_notes"`
}

type placementResponse struct {
	ID              string     `json:"id"`
	OrgID           string     `json:"org_id"`
	AnimalID        string     `json:"animal_id"`
	ProfileID       string     `json:"foster_profile_id"`
	StartDate       time.Time  `json:"start_date"`
	ExpectedEndDate *time.Time `json:"expected_end_date,omitempty"`
	ActualEndDate   *time.Time `json:"actual_end_date,omitempty"`
	Outcome         string     `json:"outcome"`
	Notes           string     `json:"notes,omitempty"`
	ReturnReason    string     `json:"return_reason,omitempty"`
	SuccessNotes    string     `json:"success_notes,omitempty"`
	AgreementSigned bool       `json:"agreement_signed"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type noteRequest struct {
	Category string `json:"category"`
	Body     string `json:"body"`
}

type noteResponse struct {
	ID           string    `json:"id"`
	PlacementID  string    `json:"placement_id"`
	AuthorUserID string    `json:"author_user_id"`
	Category     string    `json:"category"`
	Body         string    `json:"body"`
	CreatedAt    time.Time `json:"created_at"`
}

func createPlacementHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireCoordinator(w, r)
		if !ok {
			return
		}

		var req createPlacementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var expected *time.Time
		if strings.TrimSpace(req.ExpectedEndDate) != "" {
			t, err := time.Parse("2006-01-02", req.ExpectedEndDate)
			if err != nil {
				http.Error(w, "expected_end_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			expected = &t
		}

		p, err := svc.Create(r.Context(), claims.OrgID, CreateInput{
			AnimalID:        req.AnimalID,
			ProfileID:       req.ProfileID,
			ExpectedEndDate: expected,
			Notes:           req.Notes,
			AgreementSigned: req.AgreementSigned,
		})
		if err != nil {
			writePlacementError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPlacementResponse(p))
	}
}

func completePlacementHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireCoordinator(w, r)
		if !ok {
			return
		}

		var req completePlacementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := CompleteInput{
			Outcome:      req.Outcome,
			ReturnReason: req.ReturnReason,
			SuccessNotes: req.SuccessNotes,
		}
		if strings.TrimSpace(req.EndDate) != "" {
			t, err := time.Parse("2006-01-02", req.EndDate)
			if err != nil {
				http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			in.EndDate = &t
		}

		p, err := svc.Complete(r.Context(), claims.OrgID, chi.URLParam(r, "placementID"), in)
		if err != nil {
			writePlacementError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPlacementResponse(p))
	}
}

func listPlacementsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		q := r.URL.Query()
		f := ListFilter{
			ActiveOnly: q.Get("active_only") == "true",
			ProfileID:  strings.TrimSpace(q.Get("foster_profile_id")),
			AnimalID:   strings.TrimSpace(q.Get("animal_id")),
		}
		if o := strings.TrimSpace(q.Get("outcome")); o != "" {
			f.Outcome = Outcome(o)
		}
		if v := strings.TrimSpace(q.Get("start_date_from")); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				http.Error(w, "start_date_from must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			f.StartDateFrom = &t
		}
		if v := strings.TrimSpace(q.Get("start_date_to")); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				http.Error(w, "start_date_to must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			f.StartDateTo = &t
		}

		items, err := svc.List(r.Context(), claims.OrgID, f)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]placementResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPlacementResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func getPlacementHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		p, err := svc.GetByID(r.Context(), claims.OrgID, chi.URLParam(r, "placementID"))
		if err != nil {
			http.Error(w, "placement not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toPlacementResponse(p))
	}
}

func addNoteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		var req noteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		n, err := svc.AddNote(r.Context(), claims.OrgID, chi.URLParam(r, "placementID"), claims.UserID, NoteInput{
			Category: req.Category,
			Body:     req.Body,
		})
		if err != nil {
			writePlacementError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toNoteResponse(n))
	}
}

func listNotesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := requireClaims(w, r)
		if !ok {
			return
		}

		notes, err := svc.ListNotes(r.Context(), claims.OrgID, chi.URLParam(r, "placementID"))
		if err != nil {
			writePlacementError(w, err)
			return
		}

		out := make([]noteResponse, 0, len(notes))
		for _, n := range notes {
			out = append(out, toNoteResponse(n))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// writePlacementError mapea la taxonomía de errores a HTTP:
// not-found => 404, conflictos del ledger => 409, input => 400.
func writePlacementError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, ErrAlreadyPlaced),
		errors.Is(err, ErrCapacityExceeded),
		errors.Is(err, ErrUnavailable),
		errors.Is(err, ErrAlreadyTerminal):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
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

// requireCoordinator: crear/completar placements mueve capacidad y estado
// de animales; queda restringido a coordinator/admin.
func requireCoordinator(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, ok := requireClaims(w, r)
	if !ok {
		return auth.Claims{}, false
	}
	if !claims.HasAnyRole(auth.RoleAdmin, auth.RolePetCoordinator) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return auth.Claims{}, false
	}
	return claims, true
}

func toPlacementResponse(p Placement) placementResponse {
	return placementResponse{
		ID:              p.ID,
		OrgID:           p.OrgID,
		AnimalID:        p.AnimalID,
		ProfileID:       p.ProfileID,
		StartDate:       p.StartDate,
		ExpectedEndDate: p.ExpectedEndDate,
		ActualEndDate:   p.ActualEndDate,
		Outcome:         string(p.Outcome),
		Notes:           p.Notes,
		ReturnReason:    p.ReturnReason,
		SuccessNotes:    p.SuccessNotes,
		AgreementSigned: p.AgreementSigned,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func toNoteResponse(n Note) noteResponse {
	return noteResponse{
		ID:           n.ID,
		PlacementID:  n.PlacementID,
		AuthorUserID: n.AuthorUserID,
		Category:     n.Category,
		Body:         n.Body,
		CreatedAt:    n.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
