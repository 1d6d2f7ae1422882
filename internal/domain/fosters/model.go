package fosters

import (
	"strings"
	"time"
)

// ExperienceLevel define la experiencia declarada del caretaker.
// @Enum none, beginner, intermediate, advanced
type ExperienceLevel string

const (
	ExperienceNone         ExperienceLevel = "none"
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// Profile es el perfil de foster de una persona: único por (org, user).
// Nunca se borra; se desactiva con IsAvailable=false.
//
// CurrentCapacity, TotalPlacements, SuccessfulAdoptions y AvgDurationDays
// son estado derivado del historial de placements: solo los muta el ledger.
type Profile struct {
	ID     string
	UserID string
	OrgID  string

	// Contacto desnormalizado para listados y matches.
	ContactName  string
	ContactEmail string

	ExperienceLevel  ExperienceLevel
	PreferredSpecies string // lista coma-separada, p.ej. "cat,dog"
	PreferredAges    string // p.ej. "puppy,adult"

	MaxCapacity     int
	CurrentCapacity int

	CanHandleMedical    bool
	CanHandleBehavioral bool

	IsAvailable bool

	// Métricas de performance.
	TotalPlacements     int
	SuccessfulAdoptions int
	AvgDurationDays     *float64 // nil hasta el primer placement terminal
	Rating              *float64 // 0-5, lo setea un coordinator

	// Campos administrativos (solo coordinator/admin).
	BackgroundCheckStatus string // pending, approved, denied
	BackgroundCheckDate   *time.Time
	InsuranceVerified     bool
	ReferencesChecked     bool
	NotesInternal         string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasFreeSlot responde si el perfil puede recibir un animal más.
func (p Profile) HasFreeSlot() bool {
	return p.CurrentCapacity < p.MaxCapacity
}

// PrefersSpecies responde si la especie figura en las preferencias.
// Matching case-insensitive sobre la lista coma-separada.
func (p Profile) PrefersSpecies(species string) bool {
	species = strings.ToLower(strings.TrimSpace(species))
	if species == "" {
		return false
	}
	for _, raw := range strings.Split(p.PreferredSpecies, ",") {
		if strings.ToLower(strings.TrimSpace(raw)) == species {
			return true
		}
	}
	return false
}

func ValidExperienceLevel(l ExperienceLevel) bool {
	switch l {
	case ExperienceNone, ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		return true
	default:
		return false
	}
}
