package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	geoservices "github.com/iota-uz/atlas/modules/geo/services"
	"github.com/iota-uz/atlas/modules/programs/domain/aggregates/activity"
	"github.com/iota-uz/atlas/modules/programs/domain/entities/venue"
	"github.com/iota-uz/atlas/pkg/eventbus"
	"github.com/iota-uz/atlas/pkg/scope"
)

type ActivityService struct {
	repo        activity.Repository
	venues      venue.Repository
	areas       *geoservices.AreaService
	coordinator *scope.Coordinator

	mu         sync.Mutex
	scopedIDs  []uuid.UUID
	cacheValid bool
}

func NewActivityService(
	repo activity.Repository,
	venues venue.Repository,
	areas *geoservices.AreaService,
	coordinator *scope.Coordinator,
	publisher eventbus.EventBus,
) *ActivityService {
	s := &ActivityService{repo: repo, venues: venues, areas: areas, coordinator: coordinator}
	publisher.Subscribe(func(e *scope.ScopeChangedEvent) { s.invalidateScope() })
	publisher.Subscribe(func(e *geoservices.AreaCreatedEvent) { s.invalidateScope() })
	publisher.Subscribe(func(e *geoservices.AreaUpdatedEvent) { s.invalidateScope() })
	return s
}

func (s *ActivityService) invalidateScope() {
	s.mu.Lock()
	s.scopedIDs = nil
	s.cacheValid = false
	s.mu.Unlock()
}

func (s *ActivityService) scopedAreaIDs(ctx context.Context) ([]uuid.UUID, error) {
	s.mu.Lock()
	if s.cacheValid {
		ids := s.scopedIDs
		s.mu.Unlock()
		return ids, nil
	}
	s.mu.Unlock()

	ids, err := scopeAreaIDs(ctx, s.areas, s.coordinator.State())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.scopedIDs = ids
	s.cacheValid = true
	s.mu.Unlock()
	return ids, nil
}

func (s *ActivityService) List(ctx context.Context, params *activity.FindParams) ([]activity.Activity, int64, error) {
	if params == nil {
		params = &activity.FindParams{}
	}
	if params.AreaIDs == nil {
		ids, err := s.scopedAreaIDs(ctx)
		if err != nil {
			return nil, 0, err
		}
		params.AreaIDs = ids
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *ActivityService) GetByID(ctx context.Context, id uuid.UUID) (activity.Activity, error) {
	return s.repo.GetByID(ctx, id)
}

// Create persists an activity; the anchor area must exist and, when a
// venue is given, so must the venue.
func (s *ActivityService) Create(ctx context.Context, tenantID uuid.UUID, dto *activity.CreateDTO) (activity.Activity, error) {
	if _, err := s.areas.GetByID(ctx, dto.AreaID()); err != nil {
		return activity.Activity{}, err
	}
	if dto.Venue() != uuid.Nil {
		if _, err := s.venues.GetByID(ctx, dto.Venue()); err != nil {
			return activity.Activity{}, err
		}
	}
	return s.repo.Create(ctx, activity.New(tenantID, dto.Title, dto.Venue(), dto.AreaID(), dto.Start()))
}
