package mappers

import (
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/atlas/modules/geo/domain/aggregates/area"
	"github.com/iota-uz/atlas/modules/geo/domain/entities/arearule"
	"github.com/iota-uz/atlas/modules/geo/presentation/viewmodels"
	"github.com/iota-uz/atlas/pkg/scope"
)

func AreaToViewModel(a area.Area) viewmodels.Area {
	parentID := ""
	if a.ParentID() != uuid.Nil {
		parentID = a.ParentID().String()
	}
	return viewmodels.Area{
		ID:        a.ID().String(),
		Name:      a.Name(),
		Kind:      string(a.Kind()),
		ParentID:  parentID,
		Version:   a.Version(),
		CreatedAt: a.CreatedAt().UTC().Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt().UTC().Format(time.RFC3339),
	}
}

func AreasToViewModels(areas []area.Area) []viewmodels.Area {
	out := make([]viewmodels.Area, 0, len(areas))
	for _, a := range areas {
		out = append(out, AreaToViewModel(a))
	}
	return out
}

func SearchResultToViewModel(r scope.SearchResult) viewmodels.AreaWithPath {
	return viewmodels.AreaWithPath{
		Area:      AreaToViewModel(r.Area),
		Ancestors: AreasToViewModels(r.Ancestors),
	}
}

func RuleToViewModel(r arearule.Rule) viewmodels.AuthorizationRule {
	return viewmodels.AuthorizationRule{
		ID:               r.ID().String(),
		UserID:           r.UserID().String(),
		GeographicAreaID: r.AreaID().String(),
		RuleType:         string(r.Type()),
		CreatedAt:        r.CreatedAt().UTC().Format(time.RFC3339),
	}
}

func ScopeStateToViewModel(s scope.State) viewmodels.ScopeState {
	vm := viewmodels.ScopeState{Global: s.IsGlobal()}
	if !s.IsGlobal() {
		selected := AreaToViewModel(s.SelectedArea)
		vm.SelectedArea = &selected
	}
	return vm
}

func BreadcrumbToViewModel(item scope.BreadcrumbItem) viewmodels.BreadcrumbItem {
	return viewmodels.BreadcrumbItem{
		AreaID:     item.AreaID.String(),
		Label:      item.Label,
		Authorized: item.Authorized,
	}
}
