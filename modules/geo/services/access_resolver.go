package services

import (
	"github.com/google/uuid"

	"github.com/iota-uz/atlas/modules/geo/domain/aggregates/area"
	"github.com/iota-uz/atlas/modules/geo/domain/entities/arearule"
)

// AccessResolver evaluates per-user ALLOW/DENY area rules against the
// area tree.
//
// Precedence law: DENY is absolute. A node is authorized iff an ALLOW
// rule exists on the node or any ancestor AND no DENY rule exists on
// the node or any ancestor. A DENY farther up the path blocks access
// even when a more specific ALLOW sits closer to the node.
type AccessResolver struct{}

func NewAccessResolver() *AccessResolver {
	return &AccessResolver{}
}

// IsAuthorized reports whether the rules grant access to areaID.
// Unknown areas are never authorized.
func (r *AccessResolver) IsAuthorized(rules []arearule.Rule, tree *area.Tree, areaID uuid.UUID) bool {
	if _, ok := tree.Get(areaID); !ok {
		return false
	}

	byArea := rulesByArea(rules)

	allowed := false
	onPath := func(id uuid.UUID) bool {
		rule, ok := byArea[id]
		if !ok {
			return false
		}
		if rule.IsDeny() {
			return true
		}
		allowed = true
		return false
	}

	if onPath(areaID) {
		return false
	}
	for _, ancestor := range tree.AncestorsOf(areaID) {
		if onPath(ancestor.ID()) {
			return false
		}
	}
	return allowed
}

// NearestAuthorizedAncestor walks upward from areaID's parent and
// returns the first authorized ancestor. The second value is false when
// no ancestor is authorized; callers then fall back to global scope.
func (r *AccessResolver) NearestAuthorizedAncestor(rules []arearule.Rule, tree *area.Tree, areaID uuid.UUID) (uuid.UUID, bool) {
	for _, ancestor := range tree.AncestorsOf(areaID) {
		if r.IsAuthorized(rules, tree, ancestor.ID()) {
			return ancestor.ID(), true
		}
	}
	return uuid.Nil, false
}

func rulesByArea(rules []arearule.Rule) map[uuid.UUID]arearule.Rule {
	byArea := make(map[uuid.UUID]arearule.Rule, len(rules))
	for _, rule := range rules {
		existing, ok := byArea[rule.AreaID()]
		// The store enforces one rule per (user, area); if a stray
		// duplicate slips through, DENY wins.
		if ok && existing.IsDeny() {
			continue
		}
		byArea[rule.AreaID()] = rule
	}
	return byArea
}
