package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/atlas/modules/geo/domain/aggregates/area"
	"github.com/iota-uz/atlas/modules/geo/domain/entities/arearule"
	"github.com/iota-uz/atlas/modules/geo/services"
)

var (
	testTenant = uuid.MustParse("00000000-0000-0000-0000-0000000000aa")
	testUser   = uuid.MustParse("00000000-0000-0000-0000-0000000000bb")

	countryID   = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	provinceID  = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	cityID      = uuid.MustParse("00000000-0000-0000-0000-000000000003")
	communityID = uuid.MustParse("00000000-0000-0000-0000-000000000004")
	siblingID   = uuid.MustParse("00000000-0000-0000-0000-000000000005")
)

func hydrateArea(id uuid.UUID, name string, kind area.Kind, parentID uuid.UUID) area.Area {
	return area.Hydrate(testTenant, id, name, kind, parentID, 1, time.Now(), time.Now())
}

// country → province → city → {community, sibling}
func testTree() *area.Tree {
	return area.NewTree([]area.Area{
		hydrateArea(countryID, "Country", area.KindCountry, uuid.Nil),
		hydrateArea(provinceID, "Province", area.KindProvince, countryID),
		hydrateArea(cityID, "City", area.KindCity, provinceID),
		hydrateArea(communityID, "Community", area.KindCommunity, cityID),
		hydrateArea(siblingID, "Sibling", area.KindCommunity, cityID),
	})
}

func allow(areaID uuid.UUID) arearule.Rule {
	return arearule.New(testTenant, testUser, areaID, arearule.TypeAllow)
}

func deny(areaID uuid.UUID) arearule.Rule {
	return arearule.New(testTenant, testUser, areaID, arearule.TypeDeny)
}

func TestIsAuthorized_AllowInheritsToDescendants(t *testing.T) {
	resolver := services.NewAccessResolver()
	tree := testTree()
	rules := []arearule.Rule{allow(provinceID)}

	require.True(t, resolver.IsAuthorized(rules, tree, provinceID))
	require.True(t, resolver.IsAuthorized(rules, tree, cityID))
	require.True(t, resolver.IsAuthorized(rules, tree, communityID))
	require.False(t, resolver.IsAuthorized(rules, tree, countryID), "allow must not propagate upward")
}

func TestIsAuthorized_NoRulesMeansNoAccess(t *testing.T) {
	resolver := services.NewAccessResolver()
	require.False(t, resolver.IsAuthorized(nil, testTree(), communityID))
}

func TestIsAuthorized_DenyOnNodeBeatsInheritedAllow(t *testing.T) {
	resolver := services.NewAccessResolver()
	tree := testTree()
	rules := []arearule.Rule{allow(cityID), deny(communityID)}

	require.False(t, resolver.IsAuthorized(rules, tree, communityID))
	require.True(t, resolver.IsAuthorized(rules, tree, siblingID), "deny is scoped to its subtree")
}

func TestIsAuthorized_DistantDenyBeatsNearerAllow(t *testing.T) {
	resolver := services.NewAccessResolver()
	tree := testTree()
	// DENY at country, ALLOW at city: the city allow is nearer to the
	// community, but the deny is absolute.
	rules := []arearule.Rule{deny(countryID), allow(cityID)}

	require.False(t, resolver.IsAuthorized(rules, tree, communityID))
	require.False(t, resolver.IsAuthorized(rules, tree, cityID))
}

func TestIsAuthorized_DenyBlocksWholeSubtree(t *testing.T) {
	resolver := services.NewAccessResolver()
	tree := testTree()
	rules := []arearule.Rule{allow(countryID), deny(provinceID)}

	require.True(t, resolver.IsAuthorized(rules, tree, countryID))
	require.False(t, resolver.IsAuthorized(rules, tree, provinceID))
	require.False(t, resolver.IsAuthorized(rules, tree, cityID))
	require.False(t, resolver.IsAuthorized(rules, tree, communityID))
}

func TestIsAuthorized_UnknownArea(t *testing.T) {
	resolver := services.NewAccessResolver()
	rules := []arearule.Rule{allow(countryID)}
	require.False(t, resolver.IsAuthorized(rules, testTree(), uuid.New()))
}

func TestNearestAuthorizedAncestor_SkipsUnauthorized(t *testing.T) {
	resolver := services.NewAccessResolver()
	tree := testTree()
	// Community's ancestors: city, province, country. Only country is allowed.
	rules := []arearule.Rule{allow(countryID), deny(provinceID)}

	id, ok := resolver.NearestAuthorizedAncestor(rules, tree, communityID)
	require.True(t, ok)
	require.Equal(t, countryID, id)
	require.True(t, resolver.IsAuthorized(rules, tree, id), "returned ancestor must itself be authorized")
}

func TestNearestAuthorizedAncestor_ExcludesNodeItself(t *testing.T) {
	resolver := services.NewAccessResolver()
	tree := testTree()
	rules := []arearule.Rule{allow(communityID)}

	_, ok := resolver.NearestAuthorizedAncestor(rules, tree, communityID)
	require.False(t, ok, "an allow on the node itself does not authorize any ancestor")
}

func TestNearestAuthorizedAncestor_NoneAuthorized(t *testing.T) {
	resolver := services.NewAccessResolver()
	tree := testTree()

	_, ok := resolver.NearestAuthorizedAncestor(nil, tree, communityID)
	require.False(t, ok)
}
