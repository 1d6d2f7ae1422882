package fosters

import "context"

// ListFilter filtra el listado de perfiles de una org.
// AvailableOnly = disponible Y con cupo libre (pool elegible del matcher).
type ListFilter struct {
	AvailableOnly bool
}

type Repository interface {
	Create(ctx context.Context, p Profile) error
	Update(ctx context.Context, p Profile) error
	GetByID(ctx context.Context, orgID, id string) (Profile, error)
	GetByUser(ctx context.Context, orgID, userID string) (Profile, error)
	List(ctx context.Context, orgID string, f ListFilter) ([]Profile, error)
}
