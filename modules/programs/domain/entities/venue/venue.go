package venue

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/atlas/pkg/serrors"
)

var ErrNotFound = serrors.NewError("PROGRAMS_VENUE_NOT_FOUND", "venue not found", "Programs.Errors.VenueNotFound")

// Venue is a physical location activities take place at, anchored to a
// geographic area for scope filtering.
type Venue struct {
	tenantID  uuid.UUID
	id        uuid.UUID
	name      string
	address   string
	areaID    uuid.UUID
	createdAt time.Time
}

func New(tenantID uuid.UUID, name, address string, areaID uuid.UUID) Venue {
	return Venue{
		tenantID: tenantID,
		name:     name,
		address:  address,
		areaID:   areaID,
	}
}

func Hydrate(tenantID, id uuid.UUID, name, address string, areaID uuid.UUID, createdAt time.Time) Venue {
	return Venue{
		tenantID:  tenantID,
		id:        id,
		name:      name,
		address:   address,
		areaID:    areaID,
		createdAt: createdAt,
	}
}

func (v Venue) TenantID() uuid.UUID  { return v.tenantID }
func (v Venue) ID() uuid.UUID        { return v.id }
func (v Venue) Name() string         { return v.name }
func (v Venue) Address() string      { return v.address }
func (v Venue) AreaID() uuid.UUID    { return v.areaID }
func (v Venue) CreatedAt() time.Time { return v.createdAt }

type FindParams struct {
	Search string
	// AreaIDs restricts results to venues anchored in any of the given
	// areas; nil means unscoped.
	AreaIDs []uuid.UUID
	Limit   int
	Offset  int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Venue, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Venue, error)
	Create(ctx context.Context, v Venue) (Venue, error)
}
