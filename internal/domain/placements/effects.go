package placements

import (
	"time"

	"animal-rescue-ops/internal/domain/animals"
	"animal-rescue-ops/internal/domain/fosters"
)

// Este archivo concentra los chequeos y efectos de las dos transiciones del
// ledger. Los adapters (memoria y Postgres) cargan las filas bajo lock,
// llaman acá y persisten lo que salga: así el estado derivado
// (Animal.Status, Profile.CurrentCapacity, métricas) se calcula una sola
// vez, junto a la mutación del placement, y no puede divergir por backend.

// ValidateCreate aplica las precondiciones de CreateActive.
// hasActive = ya existe un placement activo para el animal.
func ValidateCreate(a animals.Animal, p fosters.Profile, hasActive bool) error {
	if hasActive {
		return ErrAlreadyPlaced
	}
	if !p.IsAvailable {
		return ErrUnavailable
	}
	if !p.HasFreeSlot() {
		return ErrCapacityExceeded
	}
	return nil
}

// ApplyCreate aplica los efectos de un placement nuevo sobre las copias
// cargadas. El caller persiste las tres entidades en la misma unidad.
func ApplyCreate(pl Placement, a *animals.Animal, p *fosters.Profile) {
	a.Status = animals.StatusInFoster
	uid := p.UserID
	a.FosterUserID = &uid
	a.UpdatedAt = pl.CreatedAt

	p.CurrentCapacity++
	p.TotalPlacements++
	p.UpdatedAt = pl.CreatedAt
}

// ApplyComplete lleva el placement a outcome terminal y aplica los efectos
// de cierre. Muta pl, a y p en memoria; el caller persiste los tres.
//
// Pasos (espejo del contrato de la máquina de estados):
//  1. outcome + actual_end_date (>= start_date)
//  2. capacidad del perfil -1, floor 0 (red de seguridad, no reemplaza el lock)
//  3. adopted => adopción exitosa + animal adopted; returned/transferred =>
//     animal needs_foster; en ambos casos se limpia el caretaker
//  4. agregador de estadísticas con la duración en días
func ApplyComplete(pl *Placement, a *animals.Animal, p *fosters.Profile, outcome Outcome, endDate, now time.Time) error {
	if !pl.IsActive() {
		return ErrAlreadyTerminal
	}
	if !TerminalOutcome(outcome) {
		return ErrInvalidInput
	}
	if endDate.Before(pl.StartDate) {
		return ErrInvalidInput
	}

	pl.Outcome = outcome
	pl.ActualEndDate = &endDate
	pl.UpdatedAt = now

	if p.CurrentCapacity > 0 {
		p.CurrentCapacity--
	}

	switch outcome {
	case OutcomeAdopted:
		p.SuccessfulAdoptions++
		a.Status = animals.StatusAdopted
	case OutcomeReturned, OutcomeTransferred:
		a.Status = animals.StatusNeedsFoster
	}
	a.FosterUserID = nil
	a.UpdatedAt = now

	fosters.RecordCompletion(p, pl.DurationDays(now))
	p.UpdatedAt = now

	return nil
}
