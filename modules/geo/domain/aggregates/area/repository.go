package area

import (
	"context"

	"github.com/google/uuid"
)

type FindParams struct {
	Search string
	Limit  int
	Offset int
}

type Repository interface {
	// GetAll returns the full snapshot used to build the Tree index.
	GetAll(ctx context.Context) ([]Area, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]Area, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Area, error)
	Create(ctx context.Context, a Area) (Area, error)
	// Update persists the area, enforcing the optimistic version check
	// and the authoritative cycle constraint.
	Update(ctx context.Context, a Area) (Area, error)
}
