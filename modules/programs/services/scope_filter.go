package services

import (
	"context"

	"github.com/google/uuid"

	geoservices "github.com/iota-uz/atlas/modules/geo/services"
	"github.com/iota-uz/atlas/pkg/scope"
)

// scopeAreaIDs expands the current scope into the id set list queries
// filter on: the selected area plus its descendant closure. A nil
// result means global, i.e. no filter at all.
func scopeAreaIDs(ctx context.Context, areas *geoservices.AreaService, st scope.State) ([]uuid.UUID, error) {
	if st.IsGlobal() {
		return nil, nil
	}
	tree, err := areas.Tree(ctx)
	if err != nil {
		return nil, err
	}
	descendants := tree.DescendantsOf(st.SelectedAreaID)
	ids := make([]uuid.UUID, 0, len(descendants)+1)
	ids = append(ids, st.SelectedAreaID)
	for id := range descendants {
		ids = append(ids, id)
	}
	return ids, nil
}
