package area_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/atlas/modules/geo/domain/aggregates/area"
)

var testTenant = uuid.MustParse("00000000-0000-0000-0000-0000000000aa")

func makeArea(id string, name string, kind area.Kind, parent string) area.Area {
	parentID := uuid.Nil
	if parent != "" {
		parentID = uuid.MustParse(parent)
	}
	return area.Hydrate(
		testTenant,
		uuid.MustParse(id),
		name,
		kind,
		parentID,
		1,
		time.Now(),
		time.Now(),
	)
}

const (
	countryID   = "00000000-0000-0000-0000-000000000001"
	provinceID  = "00000000-0000-0000-0000-000000000002"
	cityID      = "00000000-0000-0000-0000-000000000003"
	communityID = "00000000-0000-0000-0000-000000000004"
	siblingID   = "00000000-0000-0000-0000-000000000005"
)

func chainTree() *area.Tree {
	return area.NewTree([]area.Area{
		makeArea(countryID, "Country", area.KindCountry, ""),
		makeArea(provinceID, "Province", area.KindProvince, countryID),
		makeArea(cityID, "City", area.KindCity, provinceID),
		makeArea(communityID, "Community", area.KindCommunity, cityID),
		makeArea(siblingID, "Other Community", area.KindCommunity, cityID),
	})
}

func TestTree_AncestorsOf_NearestFirst(t *testing.T) {
	tree := chainTree()

	path := tree.AncestorsOf(uuid.MustParse(communityID))
	require.Len(t, path, 3)
	require.Equal(t, uuid.MustParse(cityID), path[0].ID())
	require.Equal(t, uuid.MustParse(provinceID), path[1].ID())
	require.Equal(t, uuid.MustParse(countryID), path[2].ID())
}

func TestTree_AncestorsOf_DepthMatchesPathLength(t *testing.T) {
	tree := chainTree()

	require.Equal(t, 0, tree.DepthOf(uuid.MustParse(countryID)))
	require.Equal(t, 1, tree.DepthOf(uuid.MustParse(provinceID)))
	require.Equal(t, 3, tree.DepthOf(uuid.MustParse(communityID)))
}

func TestTree_AncestorsOf_UnknownNode(t *testing.T) {
	tree := chainTree()
	require.Nil(t, tree.AncestorsOf(uuid.New()))
}

func TestTree_DescendantsOf(t *testing.T) {
	tree := chainTree()

	descendants := tree.DescendantsOf(uuid.MustParse(provinceID))
	require.Len(t, descendants, 3)
	require.Contains(t, descendants, uuid.MustParse(cityID))
	require.Contains(t, descendants, uuid.MustParse(communityID))
	require.Contains(t, descendants, uuid.MustParse(siblingID))

	require.Empty(t, tree.DescendantsOf(uuid.MustParse(communityID)))
}

func TestTree_TreatsMissingParentAsRoot(t *testing.T) {
	orphan := makeArea(communityID, "Orphan", area.KindCommunity, "00000000-0000-0000-0000-000000000099")
	tree := area.NewTree([]area.Area{orphan})

	require.Equal(t, 1, tree.Len())
	require.Equal(t, []uuid.UUID{orphan.ID()}, tree.Roots())
	require.Empty(t, tree.AncestorsOf(orphan.ID()))
}

func TestTree_WouldCreateCycle(t *testing.T) {
	tree := chainTree()
	province := uuid.MustParse(provinceID)

	require.True(t, tree.WouldCreateCycle(province, province), "self-parent")
	require.True(t, tree.WouldCreateCycle(province, uuid.MustParse(communityID)), "parent into own subtree")
	require.False(t, tree.WouldCreateCycle(province, uuid.MustParse(countryID)))
	require.False(t, tree.WouldCreateCycle(province, uuid.Nil), "detaching to root is always safe")
}

func TestTree_AncestorsOf_TerminatesOnCorruptSnapshot(t *testing.T) {
	// a→b→a parent cycle in raw data must not hang the walk.
	a := makeArea(countryID, "A", area.KindCustom, provinceID)
	b := makeArea(provinceID, "B", area.KindCustom, countryID)
	tree := area.NewTree([]area.Area{a, b})

	path := tree.AncestorsOf(a.ID())
	require.NotNil(t, path)
	require.LessOrEqual(t, len(path), 2)
}

func TestTree_RootsAndChildrenOrdering(t *testing.T) {
	tree := chainTree()

	children := tree.ChildrenOf(uuid.MustParse(cityID))
	require.Len(t, children, 2)
	// Name-ordered: "Community" before "Other Community".
	require.Equal(t, uuid.MustParse(communityID), children[0])
	require.Equal(t, uuid.MustParse(siblingID), children[1])
}
