package placements

import (
	"context"
	"time"
)

// CreateParams lleva todo lo necesario para CreateActive.
// El service arma ID/fechas; el adapter solo verifica y persiste.
type CreateParams struct {
	ID        string
	OrgID     string
	AnimalID  string
	ProfileID string

	StartDate       time.Time
	ExpectedEndDate *time.Time
	Notes           string

	AgreementSigned bool
}

// CompleteParams lleva la transición a estado terminal.
type CompleteParams struct {
	OrgID       string
	PlacementID string

	Outcome Outcome
	// EndDate ya validada por el service contra now; el adapter la valida
	// contra StartDate del placement (no puede terminar antes de empezar).
	EndDate time.Time

	ReturnReason string
	SuccessNotes string
}

// ListFilter filtra el listado de placements de una org.
type ListFilter struct {
	ActiveOnly bool
	Outcome    Outcome
	ProfileID  string
	AnimalID   string

	StartDateFrom *time.Time
	StartDateTo   *time.Time
}

// Ledger es el dueño de los invariantes de capacidad y de placement único
// activo por animal. Cada método de escritura ejecuta chequeos y efectos
// como una unidad atómica frente a callers concurrentes: el adapter de
// Postgres lo hace con una transacción y FOR UPDATE por fila, el de memoria
// con un mutex a nivel store. Chequear y después escribir en dos llamadas
// separadas rompe el contrato.
//
// Los chequeos y efectos en sí son los de effects.go, compartidos por ambos
// adapters para que el estado derivado no pueda divergir por backend.
type Ledger interface {
	// CreateActive crea un placement activo aplicando las precondiciones:
	// animal de la org sin placement activo, perfil de la org disponible y
	// con cupo. Efectos: animal in_foster + caretaker, capacidad e
	// histórico del perfil incrementados.
	// Errores: ErrNotFound, ErrAlreadyPlaced, ErrCapacityExceeded,
	// ErrUnavailable.
	CreateActive(ctx context.Context, in CreateParams) (Placement, error)

	// Complete lleva un placement activo a un outcome terminal y aplica
	// los efectos de cierre (capacidad, métricas, estado del animal).
	// Errores: ErrNotFound, ErrAlreadyTerminal, ErrInvalidInput.
	Complete(ctx context.Context, in CompleteParams) (Placement, error)

	GetByID(ctx context.Context, orgID, id string) (Placement, error)
	List(ctx context.Context, orgID string, f ListFilter) ([]Placement, error)

	AddNote(ctx context.Context, n Note) error
	ListNotes(ctx context.Context, orgID, placementID string) ([]Note, error)
}
