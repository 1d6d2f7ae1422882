package memory

import (
	"sync"

	"animal-rescue-ops/internal/domain/animals"
	"animal-rescue-ops/internal/domain/fosters"
	"animal-rescue-ops/internal/domain/placements"
)

// Store guarda las tres entidades bajo un solo mutex. A diferencia de un
// mutex por repo, acá el ledger necesita que "chequear capacidad + crear
// placement + actualizar animal y perfil" sea indivisible, y las tres
// entidades se tocan en la misma operación.
//
// Solo para dev/tests; el backend real es Postgres.
type Store struct {
	mu sync.RWMutex

	animals    map[string]animals.Animal
	profiles   map[string]fosters.Profile
	placements map[string]placements.Placement
	notes      map[string][]placements.Note // por placementID, orden de llegada
}

func NewStore() *Store {
	return &Store{
		animals:    make(map[string]animals.Animal),
		profiles:   make(map[string]fosters.Profile),
		placements: make(map[string]placements.Placement),
		notes:      make(map[string][]placements.Note),
	}
}

// Animals devuelve la vista repo de animales sobre este store.
func (s *Store) Animals() animals.Repository {
	return &animalsRepo{s: s}
}

// Fosters devuelve la vista repo de perfiles sobre este store.
func (s *Store) Fosters() fosters.Repository {
	return &fostersRepo{s: s}
}

// Placements devuelve el ledger sobre este store.
func (s *Store) Placements() placements.Ledger {
	return &placementsLedger{s: s}
}
