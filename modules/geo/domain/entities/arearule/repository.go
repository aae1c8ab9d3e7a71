package arearule

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetByUser(ctx context.Context, userID uuid.UUID) ([]Rule, error)
	// Create persists the rule; a second rule for the same (user, area)
	// pair fails with ErrDuplicate.
	Create(ctx context.Context, r Rule) (Rule, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
