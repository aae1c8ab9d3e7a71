package activity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/atlas/pkg/serrors"
)

var ErrNotFound = serrors.NewError("PROGRAMS_ACTIVITY_NOT_FOUND", "activity not found", "Programs.Errors.ActivityNotFound")

// Activity is a scheduled program session. It is anchored to a
// geographic area directly; the optional venue gives it a concrete
// location.
type Activity struct {
	tenantID  uuid.UUID
	id        uuid.UUID
	title     string
	venueID   uuid.UUID
	areaID    uuid.UUID
	startsAt  time.Time
	createdAt time.Time
	updatedAt time.Time
}

func New(tenantID uuid.UUID, title string, venueID, areaID uuid.UUID, startsAt time.Time) Activity {
	return Activity{
		tenantID: tenantID,
		title:    title,
		venueID:  venueID,
		areaID:   areaID,
		startsAt: startsAt,
	}
}

func Hydrate(
	tenantID uuid.UUID,
	id uuid.UUID,
	title string,
	venueID uuid.UUID,
	areaID uuid.UUID,
	startsAt time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) Activity {
	return Activity{
		tenantID:  tenantID,
		id:        id,
		title:     title,
		venueID:   venueID,
		areaID:    areaID,
		startsAt:  startsAt,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (a Activity) TenantID() uuid.UUID  { return a.tenantID }
func (a Activity) ID() uuid.UUID        { return a.id }
func (a Activity) Title() string        { return a.title }
func (a Activity) VenueID() uuid.UUID   { return a.venueID }
func (a Activity) AreaID() uuid.UUID    { return a.areaID }
func (a Activity) StartsAt() time.Time  { return a.startsAt }
func (a Activity) CreatedAt() time.Time { return a.createdAt }
func (a Activity) UpdatedAt() time.Time { return a.updatedAt }

type FindParams struct {
	Search  string
	AreaIDs []uuid.UUID
	Limit   int
	Offset  int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Activity, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Activity, error)
	Create(ctx context.Context, a Activity) (Activity, error)
}
