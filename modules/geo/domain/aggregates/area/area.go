package area

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind is the level of a geographic area in the hierarchy.
type Kind string

const (
	KindNeighbourhood Kind = "neighbourhood"
	KindCommunity     Kind = "community"
	KindCity          Kind = "city"
	KindCluster       Kind = "cluster"
	KindCounty        Kind = "county"
	KindProvince      Kind = "province"
	KindState         Kind = "state"
	KindCountry       Kind = "country"
	KindCustom        Kind = "custom"
	// KindWorld is virtual: it is never persisted and stands for the
	// unscoped ("global") selection.
	KindWorld Kind = "world"
)

func (k Kind) Valid() bool {
	switch k {
	case KindNeighbourhood, KindCommunity, KindCity, KindCluster,
		KindCounty, KindProvince, KindState, KindCountry, KindCustom:
		return true
	}
	return false
}

// Area is a node of the geographic hierarchy. ParentID of uuid.Nil
// marks a root. Version is the optimistic-concurrency counter bumped on
// every update.
type Area struct {
	tenantID  uuid.UUID
	id        uuid.UUID
	name      string
	kind      Kind
	parentID  uuid.UUID
	version   int64
	createdAt time.Time
	updatedAt time.Time
}

func New(tenantID uuid.UUID, name string, kind Kind, parentID uuid.UUID) Area {
	return Area{
		tenantID: tenantID,
		name:     strings.TrimSpace(name),
		kind:     kind,
		parentID: parentID,
		version:  1,
	}
}

func Hydrate(
	tenantID uuid.UUID,
	id uuid.UUID,
	name string,
	kind Kind,
	parentID uuid.UUID,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) Area {
	return Area{
		tenantID:  tenantID,
		id:        id,
		name:      strings.TrimSpace(name),
		kind:      kind,
		parentID:  parentID,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (a Area) TenantID() uuid.UUID  { return a.tenantID }
func (a Area) ID() uuid.UUID        { return a.id }
func (a Area) Name() string         { return a.name }
func (a Area) Kind() Kind           { return a.kind }
func (a Area) ParentID() uuid.UUID  { return a.parentID }
func (a Area) Version() int64       { return a.version }
func (a Area) CreatedAt() time.Time { return a.createdAt }
func (a Area) UpdatedAt() time.Time { return a.updatedAt }
func (a Area) IsRoot() bool         { return a.parentID == uuid.Nil }
func (a Area) IsZero() bool         { return a.id == uuid.Nil && a.name == "" }

// WithName returns a renamed copy.
func (a Area) WithName(name string) Area {
	a.name = strings.TrimSpace(name)
	return a
}

// WithParent returns a re-parented copy. Callers must run
// Tree.WouldCreateCycle before persisting the result.
func (a Area) WithParent(parentID uuid.UUID) Area {
	a.parentID = parentID
	return a
}

// NextVersion bumps the optimistic-concurrency counter; called once per
// persisted update.
func (a Area) NextVersion() Area {
	a.version++
	return a
}
