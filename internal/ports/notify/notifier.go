package notify

import (
	"context"
	"time"
)

// PlacementEvent es el payload mínimo que se emite cuando un placement
// se crea o se completa. Entrega best-effort: el motor no espera respuesta.
type PlacementEvent struct {
	PlacementID string     `json:"placement_id"`
	OrgID       string     `json:"org_id"`
	AnimalID    string     `json:"animal_id"`
	ProfileID   string     `json:"foster_profile_id"`
	Outcome     string     `json:"outcome"`
	OccurredAt  time.Time  `json:"occurred_at"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// Notifier emite señales fire-and-forget sobre el ciclo de vida de placements.
// El formato/entrega final es responsabilidad del adapter; los errores se
// loguean y nunca se propagan al caller.
type Notifier interface {
	PlacementCreated(ctx context.Context, ev PlacementEvent) error
	PlacementCompleted(ctx context.Context, ev PlacementEvent) error
}
