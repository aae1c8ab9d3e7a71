package arearule

import (
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/atlas/pkg/serrors"
)

// Type is the effect of an area rule. Deny is absolute: a deny on an
// area blocks that area and its whole subtree regardless of any allow
// below it.
type Type string

const (
	TypeAllow Type = "ALLOW"
	TypeDeny  Type = "DENY"
)

func (t Type) Valid() bool {
	return t == TypeAllow || t == TypeDeny
}

var (
	// ErrDuplicate maps the (user, area) uniqueness constraint: at most
	// one rule per pair.
	ErrDuplicate = serrors.NewError("GEO_RULE_EXISTS", "an authorization rule for this user and area already exists", "Geo.Errors.RuleExists")

	ErrNotFound = serrors.NewError("GEO_RULE_NOT_FOUND", "authorization rule not found", "Geo.Errors.RuleNotFound")
)

// Rule grants or blocks one user's access to one area subtree.
type Rule struct {
	tenantID  uuid.UUID
	id        uuid.UUID
	userID    uuid.UUID
	areaID    uuid.UUID
	ruleType  Type
	createdAt time.Time
}

func New(tenantID, userID, areaID uuid.UUID, ruleType Type) Rule {
	return Rule{
		tenantID: tenantID,
		userID:   userID,
		areaID:   areaID,
		ruleType: ruleType,
	}
}

func Hydrate(tenantID, id, userID, areaID uuid.UUID, ruleType Type, createdAt time.Time) Rule {
	return Rule{
		tenantID:  tenantID,
		id:        id,
		userID:    userID,
		areaID:    areaID,
		ruleType:  ruleType,
		createdAt: createdAt,
	}
}

func (r Rule) TenantID() uuid.UUID  { return r.tenantID }
func (r Rule) ID() uuid.UUID        { return r.id }
func (r Rule) UserID() uuid.UUID    { return r.userID }
func (r Rule) AreaID() uuid.UUID    { return r.areaID }
func (r Rule) Type() Type           { return r.ruleType }
func (r Rule) CreatedAt() time.Time { return r.createdAt }
func (r Rule) IsAllow() bool        { return r.ruleType == TypeAllow }
func (r Rule) IsDeny() bool         { return r.ruleType == TypeDeny }
