package participant

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/atlas/pkg/serrors"
)

var ErrNotFound = serrors.NewError("PROGRAMS_PARTICIPANT_NOT_FOUND", "participant not found", "Programs.Errors.ParticipantNotFound")

// Participant is a person enrolled in activities, anchored to the
// geographic area they belong to.
type Participant struct {
	tenantID  uuid.UUID
	id        uuid.UUID
	fullName  string
	email     string
	areaID    uuid.UUID
	createdAt time.Time
}

func New(tenantID uuid.UUID, fullName, email string, areaID uuid.UUID) Participant {
	return Participant{
		tenantID: tenantID,
		fullName: fullName,
		email:    email,
		areaID:   areaID,
	}
}

func Hydrate(tenantID, id uuid.UUID, fullName, email string, areaID uuid.UUID, createdAt time.Time) Participant {
	return Participant{
		tenantID:  tenantID,
		id:        id,
		fullName:  fullName,
		email:     email,
		areaID:    areaID,
		createdAt: createdAt,
	}
}

func (p Participant) TenantID() uuid.UUID  { return p.tenantID }
func (p Participant) ID() uuid.UUID        { return p.id }
func (p Participant) FullName() string     { return p.fullName }
func (p Participant) Email() string        { return p.email }
func (p Participant) AreaID() uuid.UUID    { return p.areaID }
func (p Participant) CreatedAt() time.Time { return p.createdAt }

type FindParams struct {
	Search  string
	AreaIDs []uuid.UUID
	Limit   int
	Offset  int
}

type Repository interface {
	GetPaginated(ctx context.Context, params *FindParams) ([]Participant, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (Participant, error)
	Create(ctx context.Context, p Participant) (Participant, error)
}
