package animals

import "time"

// Status define el estado de colocación de un animal.
// @Enum intake, needs_foster, in_foster, available, pending, adopted, medical_hold
type Status string

const (
	StatusIntake      Status = "intake"
	StatusNeedsFoster Status = "needs_foster"
	StatusInFoster    Status = "in_foster"
	StatusAvailable   Status = "available"
	StatusPending     Status = "pending"
	StatusAdopted     Status = "adopted"
	StatusMedicalHold Status = "medical_hold"
)

// Animal representa un animal del refugio, siempre dentro de una org.
// Status y FosterUserID son estado derivado: los mantiene el ledger de
// placements junto con cada transición, nunca un update suelto.
type Animal struct {
	ID    string
	OrgID string

	Name    string
	Species string
	Breed   string
	Sex     string

	Status Status

	// DescriptionPublic es lo que se muestra en el portal;
	// DescriptionInternal alimenta el matcher (flags médicos/conductuales).
	DescriptionPublic   string
	DescriptionInternal string
	PhotoURL            string

	// FosterUserID apunta al caretaker actual. nil salvo en in_foster.
	FosterUserID  *string
	AdopterUserID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NeedsPlacement responde si el animal es candidato a foster.
func (a Animal) NeedsPlacement() bool {
	return a.Status == StatusIntake || a.Status == StatusNeedsFoster
}
