package mappers_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/iota-uz/atlas/modules/geo/domain/aggregates/area"
	"github.com/iota-uz/atlas/modules/geo/presentation/mappers"
	"github.com/iota-uz/atlas/pkg/scope"
)

func TestAreaToViewModel(t *testing.T) {
	tenantID := uuid.New()
	parentID := uuid.New()
	id := uuid.New()
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	a := area.Hydrate(tenantID, id, "Riverside", area.KindCity, parentID, 3, created, created)
	vm := mappers.AreaToViewModel(a)

	assert.Equal(t, id.String(), vm.ID)
	assert.Equal(t, "Riverside", vm.Name)
	assert.Equal(t, "city", vm.Kind)
	assert.Equal(t, parentID.String(), vm.ParentID)
	assert.Equal(t, int64(3), vm.Version)
	assert.Equal(t, "2026-03-01T10:00:00Z", vm.CreatedAt)
}

func TestAreaToViewModel_RootHasNoParent(t *testing.T) {
	a := area.Hydrate(uuid.New(), uuid.New(), "Country", area.KindCountry, uuid.Nil, 1, time.Now(), time.Now())
	vm := mappers.AreaToViewModel(a)
	assert.Empty(t, vm.ParentID)
}

func TestScopeStateToViewModel(t *testing.T) {
	global := mappers.ScopeStateToViewModel(scope.State{})
	assert.True(t, global.Global)
	assert.Nil(t, global.SelectedArea)

	selected := area.Hydrate(uuid.New(), uuid.New(), "City", area.KindCity, uuid.Nil, 1, time.Now(), time.Now())
	scoped := mappers.ScopeStateToViewModel(scope.State{
		SelectedAreaID: selected.ID(),
		SelectedArea:   selected,
	})
	assert.False(t, scoped.Global)
	assert.Equal(t, "City", scoped.SelectedArea.Name)
}
