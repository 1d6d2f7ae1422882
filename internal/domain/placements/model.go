package placements

import "time"

// Outcome define el ciclo de vida de un placement:
// active (inicial) -> adopted | returned | transferred (terminales).
// @Enum active, adopted, returned, transferred
type Outcome string

const (
	OutcomeActive      Outcome = "active"
	OutcomeAdopted     Outcome = "adopted"
	OutcomeReturned    Outcome = "returned"
	OutcomeTransferred Outcome = "transferred"
)

// TerminalOutcome responde si o es uno de los tres valores terminales.
func TerminalOutcome(o Outcome) bool {
	switch o {
	case OutcomeAdopted, OutcomeReturned, OutcomeTransferred:
		return true
	default:
		return false
	}
}

// Placement es la asignación de un animal a un perfil de foster por un
// intervalo de tiempo. Nunca se borra: es el registro de auditoría del
// que derivan Animal.Status y Profile.CurrentCapacity.
//
// Invariantes:
//   - a lo sumo un placement activo por animal
//   - ActualEndDate == nil sii Outcome == active
type Placement struct {
	ID        string
	OrgID     string
	AnimalID  string
	ProfileID string

	StartDate       time.Time
	ExpectedEndDate *time.Time
	ActualEndDate   *time.Time

	Outcome Outcome

	// Instrucciones para el foster al crear; razón/resumen al cerrar.
	Notes        string
	ReturnReason string
	SuccessNotes string

	AgreementSigned     bool
	AgreementSignedDate *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive responde si el placement sigue en curso.
func (p Placement) IsActive() bool {
	return p.Outcome == OutcomeActive
}

// DurationDays es la duración en días enteros, floor en 0.
// Para placements activos usa now como corte.
func (p Placement) DurationDays(now time.Time) int {
	end := now
	if p.ActualEndDate != nil {
		end = *p.ActualEndDate
	}
	d := int(end.Sub(p.StartDate).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// Note es una nota de seguimiento append-only sobre un placement.
// No se edita ni se borra después de creada.
type Note struct {
	ID           string
	OrgID        string
	PlacementID  string
	AuthorUserID string

	// Category: progress, behavioral, health, other.
	Category string
	Body     string

	CreatedAt time.Time
}
