package placements

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"animal-rescue-ops/internal/ports/notify"
)

// -------------------------
// Test ledger (in-memory)
// -------------------------

type testLedger struct {
	byID  map[string]Placement
	notes map[string][]Note
}

func newTestLedger() *testLedger {
	return &testLedger{
		byID:  map[string]Placement{},
		notes: map[string][]Note{},
	}
}

func (l *testLedger) CreateActive(ctx context.Context, in CreateParams) (Placement, error) {
	pl := Placement{
		ID:              in.ID,
		OrgID:           in.OrgID,
		AnimalID:        in.AnimalID,
		ProfileID:       in.ProfileID,
		StartDate:       in.StartDate,
		ExpectedEndDate: in.ExpectedEndDate,
		Outcome:         OutcomeActive,
		Notes:           in.Notes,
		AgreementSigned: in.AgreementSigned,
		CreatedAt:       in.StartDate,
		UpdatedAt:       in.StartDate,
	}
	l.byID[pl.ID] = pl
	return pl, nil
}

func (l *testLedger) Complete(ctx context.Context, in CompleteParams) (Placement, error) {
	pl, ok := l.byID[in.PlacementID]
	if !ok || pl.OrgID != in.OrgID {
		return Placement{}, ErrNotFound
	}
	if !pl.IsActive() {
		return Placement{}, ErrAlreadyTerminal
	}
	pl.Outcome = in.Outcome
	pl.ActualEndDate = &in.EndDate
	pl.ReturnReason = in.ReturnReason
	pl.SuccessNotes = in.SuccessNotes
	l.byID[pl.ID] = pl
	return pl, nil
}

func (l *testLedger) GetByID(ctx context.Context, orgID, id string) (Placement, error) {
	pl, ok := l.byID[id]
	if !ok || pl.OrgID != orgID {
		return Placement{}, ErrNotFound
	}
	return pl, nil
}

func (l *testLedger) List(ctx context.Context, orgID string, f ListFilter) ([]Placement, error) {
	out := make([]Placement, 0)
	for _, pl := range l.byID {
		if pl.OrgID == orgID {
			out = append(out, pl)
		}
	}
	return out, nil
}

func (l *testLedger) AddNote(ctx context.Context, n Note) error {
	l.notes[n.PlacementID] = append(l.notes[n.PlacementID], n)
	return nil
}

func (l *testLedger) ListNotes(ctx context.Context, orgID, placementID string) ([]Note, error) {
	return l.notes[placementID], nil
}

// testNotifier registra los eventos emitidos.
type testNotifier struct {
	mu        sync.Mutex
	created   []notify.PlacementEvent
	completed []notify.PlacementEvent
}

func (n *testNotifier) PlacementCreated(ctx context.Context, ev notify.PlacementEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, ev)
	return nil
}

func (n *testNotifier) PlacementCompleted(ctx context.Context, ev notify.PlacementEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed = append(n.completed, ev)
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_EmitsEvent(t *testing.T) {
	ledger := newTestLedger()
	notifier := &testNotifier{}
	svc := NewService(ledger, notifier, nil)

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	pl, err := svc.Create(context.Background(), "org-1", CreateInput{
		AnimalID:  "animal-1",
		ProfileID: "profile-1",
		Notes:     "feed twice a day",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if pl.Outcome != OutcomeActive {
		t.Fatalf("expected active, got %s", pl.Outcome)
	}
	if !pl.StartDate.Equal(now) {
		t.Fatalf("expected start date now")
	}
	if len(notifier.created) != 1 {
		t.Fatalf("expected 1 created event, got %d", len(notifier.created))
	}
	if notifier.created[0].PlacementID != pl.ID {
		t.Fatalf("expected event for placement %s", pl.ID)
	}
}

func TestService_Create_RejectsPastExpectedEnd(t *testing.T) {
	svc := NewService(newTestLedger(), nil, nil)

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	past := now.AddDate(0, 0, -1)
	_, err := svc.Create(context.Background(), "org-1", CreateInput{
		AnimalID:        "animal-1",
		ProfileID:       "profile-1",
		ExpectedEndDate: &past,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Create_RequiresIDs(t *testing.T) {
	svc := NewService(newTestLedger(), nil, nil)

	_, err := svc.Create(context.Background(), "org-1", CreateInput{ProfileID: "profile-1"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without animal, got %v", err)
	}

	_, err = svc.Create(context.Background(), "", CreateInput{
		AnimalID:  "animal-1",
		ProfileID: "profile-1",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without org, got %v", err)
	}
}

func TestService_Complete_Validations(t *testing.T) {
	ledger := newTestLedger()
	notifier := &testNotifier{}
	svc := NewService(ledger, notifier, nil)

	now := time.Date(2026, 5, 10, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	pl, err := svc.Create(context.Background(), "org-1", CreateInput{
		AnimalID:  "animal-1",
		ProfileID: "profile-1",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// Outcome no terminal
	_, err = svc.Complete(context.Background(), "org-1", pl.ID, CompleteInput{Outcome: "active"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for non-terminal outcome, got %v", err)
	}

	// EndDate futura
	future := now.AddDate(0, 0, 1)
	_, err = svc.Complete(context.Background(), "org-1", pl.ID, CompleteInput{
		Outcome: "adopted",
		EndDate: &future,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for future end date, got %v", err)
	}

	// Happy path: default end date = now
	done, err := svc.Complete(context.Background(), "org-1", pl.ID, CompleteInput{
		Outcome:      "adopted",
		SuccessNotes: "great match",
	})
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if done.ActualEndDate == nil || !done.ActualEndDate.Equal(now) {
		t.Fatalf("expected end date defaulted to now")
	}
	if done.SuccessNotes != "great match" {
		t.Fatalf("expected success notes persisted")
	}
	if len(notifier.completed) != 1 {
		t.Fatalf("expected 1 completed event, got %d", len(notifier.completed))
	}

	// Doble complete
	_, err = svc.Complete(context.Background(), "org-1", pl.ID, CompleteInput{Outcome: "returned"})
	if !errors.Is(err, ErrAlreadyTerminal) {
		t.Fatalf("expected ErrAlreadyTerminal, got %v", err)
	}
}

func TestService_AddNote_DefaultsAndValidation(t *testing.T) {
	ledger := newTestLedger()
	svc := NewService(ledger, nil, nil)

	pl, err := svc.Create(context.Background(), "org-1", CreateInput{
		AnimalID:  "animal-1",
		ProfileID: "profile-1",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	n, err := svc.AddNote(context.Background(), "org-1", pl.ID, "user-1", NoteInput{
		Body: "settling in well",
	})
	if err != nil {
		t.Fatalf("AddNote error: %v", err)
	}
	if n.Category != "progress" {
		t.Fatalf("expected default category progress, got %s", n.Category)
	}
	if n.AuthorUserID != "user-1" {
		t.Fatalf("expected author set")
	}

	// Sin body => 400
	_, err = svc.AddNote(context.Background(), "org-1", pl.ID, "user-1", NoteInput{Body: "   "})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty body, got %v", err)
	}

	// Placement de otra org => not found
	_, err = svc.AddNote(context.Background(), "org-2", pl.ID, "user-1", NoteInput{Body: "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound cross-org, got %v", err)
	}
}
