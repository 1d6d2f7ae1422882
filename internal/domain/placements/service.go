package placements

import (
	"context"
	"errors"
	"strings"
	"time"

	"animal-rescue-ops/internal/platform/logger"
	"animal-rescue-ops/internal/ports/notify"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	// Conflictos del ledger / máquina de estados.
	ErrAlreadyPlaced    = errors.New("animal already has an active placement")
	ErrCapacityExceeded = errors.New("foster is at maximum capacity")
	ErrUnavailable      = errors.New("foster is not currently available")
	ErrAlreadyTerminal  = errors.New("placement is already completed")
)

type Service struct {
	ledger   Ledger
	notifier notify.Notifier
	log      logger.Logger
	now      func() time.Time
}

func NewService(ledger Ledger, notifier notify.Notifier, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		ledger:   ledger,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

type CreateInput struct {
	AnimalID        string
	ProfileID       string
	ExpectedEndDate *time.Time
	Notes           string
	AgreementSigned bool
}

// Create arma el placement y delega los chequeos atómicos al ledger.
// Ningún error se reintenta acá: el caller decide con otros inputs.
func (s *Service) Create(ctx context.Context, orgID string, in CreateInput) (Placement, error) {
	orgID = strings.TrimSpace(orgID)
	animalID := strings.TrimSpace(in.AnimalID)
	profileID := strings.TrimSpace(in.ProfileID)
	if orgID == "" || animalID == "" || profileID == "" {
		return Placement{}, ErrInvalidInput
	}

	now := s.now()
	if in.ExpectedEndDate != nil && in.ExpectedEndDate.Before(now) {
		return Placement{}, ErrInvalidInput
	}

	p, err := s.ledger.CreateActive(ctx, CreateParams{
		ID:              uuid.NewString(),
		OrgID:           orgID,
		AnimalID:        animalID,
		ProfileID:       profileID,
		StartDate:       now,
		ExpectedEndDate: in.ExpectedEndDate,
		Notes:           strings.TrimSpace(in.Notes),
		AgreementSigned: in.AgreementSigned,
	})
	if err != nil {
		return Placement{}, err
	}

	s.log.Info("placement created", map[string]any{
		"placement_id": p.ID,
		"org_id":       p.OrgID,
		"animal_id":    p.AnimalID,
		"profile_id":   p.ProfileID,
	})
	s.emit(ctx, p, false)

	return p, nil
}

type CompleteInput struct {
	Outcome string
	// EndDate opcional; default now. No puede ser futura ni anterior al inicio.
	EndDate      *time.Time
	ReturnReason string
	SuccessNotes string
}

// Complete lleva un placement activo a un outcome terminal.
func (s *Service) Complete(ctx context.Context, orgID, placementID string, in CompleteInput) (Placement, error) {
	orgID = strings.TrimSpace(orgID)
	placementID = strings.TrimSpace(placementID)
	if orgID == "" || placementID == "" {
		return Placement{}, ErrInvalidInput
	}

	outcome := Outcome(strings.TrimSpace(in.Outcome))
	if !TerminalOutcome(outcome) {
		return Placement{}, ErrInvalidInput
	}

	now := s.now()
	endDate := now
	if in.EndDate != nil {
		if in.EndDate.After(now) {
			return Placement{}, ErrInvalidInput
		}
		endDate = *in.EndDate
	}

	p, err := s.ledger.Complete(ctx, CompleteParams{
		OrgID:        orgID,
		PlacementID:  placementID,
		Outcome:      outcome,
		EndDate:      endDate,
		ReturnReason: strings.TrimSpace(in.ReturnReason),
		SuccessNotes: strings.TrimSpace(in.SuccessNotes),
	})
	if err != nil {
		return Placement{}, err
	}

	s.log.Info("placement completed", map[string]any{
		"placement_id": p.ID,
		"org_id":       p.OrgID,
		"animal_id":    p.AnimalID,
		"profile_id":   p.ProfileID,
		"outcome":      string(p.Outcome),
	})
	s.emit(ctx, p, true)

	return p, nil
}

func (s *Service) GetByID(ctx context.Context, orgID, id string) (Placement, error) {
	if strings.TrimSpace(orgID) == "" || strings.TrimSpace(id) == "" {
		return Placement{}, ErrInvalidInput
	}
	return s.ledger.GetByID(ctx, orgID, id)
}

func (s *Service) List(ctx context.Context, orgID string, f ListFilter) ([]Placement, error) {
	if strings.TrimSpace(orgID) == "" {
		return nil, ErrInvalidInput
	}
	return s.ledger.List(ctx, orgID, f)
}

type NoteInput struct {
	Category string
	Body     string
}

// AddNote agrega una nota de seguimiento (append-only).
func (s *Service) AddNote(ctx context.Context, orgID, placementID, authorUserID string, in NoteInput) (Note, error) {
	orgID = strings.TrimSpace(orgID)
	placementID = strings.TrimSpace(placementID)
	authorUserID = strings.TrimSpace(authorUserID)
	if orgID == "" || placementID == "" || authorUserID == "" {
		return Note{}, ErrInvalidInput
	}
	body := strings.TrimSpace(in.Body)
	if body == "" {
		return Note{}, ErrInvalidInput
	}

	// La nota cuelga de un placement de la org del caller.
	if _, err := s.ledger.GetByID(ctx, orgID, placementID); err != nil {
		return Note{}, err
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = "progress"
	}

	n := Note{
		ID:           uuid.NewString(),
		OrgID:        orgID,
		PlacementID:  placementID,
		AuthorUserID: authorUserID,
		Category:     category,
		Body:         body,
		CreatedAt:    s.now(),
	}

	if err := s.ledger.AddNote(ctx, n); err != nil {
		return Note{}, err
	}
	return n, nil
}

func (s *Service) ListNotes(ctx context.Context, orgID, placementID string) ([]Note, error) {
	orgID = strings.TrimSpace(orgID)
	placementID = strings.TrimSpace(placementID)
	if orgID == "" || placementID == "" {
		return nil, ErrInvalidInput
	}
	if _, err := s.ledger.GetByID(ctx, orgID, placementID); err != nil {
		return nil, err
	}
	return s.ledger.ListNotes(ctx, orgID, placementID)
}

// emit manda la señal fire-and-forget. Nunca afecta la respuesta al caller.
func (s *Service) emit(ctx context.Context, p Placement, completed bool) {
	if s.notifier == nil {
		return
	}

	ev := notify.PlacementEvent{
		PlacementID: p.ID,
		OrgID:       p.OrgID,
		AnimalID:    p.AnimalID,
		ProfileID:   p.ProfileID,
		Outcome:     string(p.Outcome),
		OccurredAt:  s.now(),
		EndDate:     p.ActualEndDate,
	}

	if completed {
		_ = s.notifier.PlacementCompleted(ctx, ev)
		return
	}
	_ = s.notifier.PlacementCreated(ctx, ev)
}
