package matching

import (
	"context"
	"errors"
	"sort"
	"strings"

	"animal-rescue-ops/internal/domain/animals"
	"animal-rescue-ops/internal/domain/fosters"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrNotEligible  = errors.New("animal does not need placement")
)

// topMatchesPerAnimal limita la salida cuando se puntúa la org entera.
// Para un animal puntual se devuelven todos los candidatos positivos.
const topMatchesPerAnimal = 3

// Match es una sugerencia animal-perfil con puntaje y razones.
type Match struct {
	Animal  animals.Animal
	Profile fosters.Profile
	Score   int
	Reasons []string
}

// Service es el scorer: solo lee, nunca muta. La foto de perfiles puede
// quedar vieja respecto de un placement posterior; el ledger re-valida
// capacidad al crear, así que acá no hace falta lock.
type Service struct {
	animals animals.Repository
	fosters fosters.Repository
}

func NewService(animalsRepo animals.Repository, fostersRepo fosters.Repository) *Service {
	return &Service{
		animals: animalsRepo,
		fosters: fostersRepo,
	}
}

// Suggest arma la lista ordenada de matches.
// animalID vacío => todos los animales de la org que necesitan foster.
func (s *Service) Suggest(ctx context.Context, orgID, animalID string) ([]Match, error) {
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return nil, ErrInvalidInput
	}
	animalID = strings.TrimSpace(animalID)

	var pool []animals.Animal
	limit := topMatchesPerAnimal

	if animalID != "" {
		a, err := s.animals.GetByID(ctx, orgID, animalID)
		if err != nil {
			return nil, ErrNotFound
		}
		if !a.NeedsPlacement() {
			return nil, ErrNotEligible
		}
		pool = []animals.Animal{a}
		limit = 0 // sin tope para un animal puntual
	} else {
		all, err := s.animals.List(ctx, orgID, animals.ListFilter{})
		if err != nil {
			return nil, err
		}
		for _, a := range all {
			if a.NeedsPlacement() {
				pool = append(pool, a)
			}
		}
	}

	// Pool elegible: disponibles y con cupo.
	profiles, err := s.fosters.List(ctx, orgID, fosters.ListFilter{AvailableOnly: true})
	if err != nil {
		return nil, err
	}

	out := make([]Match, 0)

	for _, a := range pool {
		candidates := make([]Match, 0, len(profiles))
		for _, p := range profiles {
			score, reasons := Score(a, p)
			candidates = append(candidates, Match{
				Animal:  a,
				Profile: p,
				Score:   score,
				Reasons: reasons,
			})
		}

		// Descendente por puntaje; empates conservan el orden de entrada.
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].Score > candidates[j].Score
		})

		kept := 0
		for _, c := range candidates {
			if c.Score <= 0 {
				break
			}
			out = append(out, c)
			kept++
			if limit > 0 && kept >= limit {
				break
			}
		}
	}

	return out, nil
}
