package animals

import "context"

// ListFilter filtra el listado por org. Status vacío => todos.
type ListFilter struct {
	Status Status
}

type Repository interface {
	Create(ctx context.Context, a Animal) error
	GetByID(ctx context.Context, orgID, id string) (Animal, error)
	List(ctx context.Context, orgID string, f ListFilter) ([]Animal, error)
}
