package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	geoservices "github.com/iota-uz/atlas/modules/geo/services"
	"github.com/iota-uz/atlas/modules/programs/domain/entities/venue"
	"github.com/iota-uz/atlas/pkg/eventbus"
	"github.com/iota-uz/atlas/pkg/scope"
)

type VenueService struct {
	repo        venue.Repository
	areas       *geoservices.AreaService
	coordinator *scope.Coordinator

	mu         sync.Mutex
	scopedIDs  []uuid.UUID
	cacheValid bool
}

func NewVenueService(
	repo venue.Repository,
	areas *geoservices.AreaService,
	coordinator *scope.Coordinator,
	publisher eventbus.EventBus,
) *VenueService {
	s := &VenueService{repo: repo, areas: areas, coordinator: coordinator}
	// The descendant closure is stable between scope transitions and
	// tree edits, so it is computed once per scope and dropped on either.
	publisher.Subscribe(func(e *scope.ScopeChangedEvent) { s.invalidateScope() })
	publisher.Subscribe(func(e *geoservices.AreaCreatedEvent) { s.invalidateScope() })
	publisher.Subscribe(func(e *geoservices.AreaUpdatedEvent) { s.invalidateScope() })
	return s
}

func (s *VenueService) invalidateScope() {
	s.mu.Lock()
	s.scopedIDs = nil
	s.cacheValid = false
	s.mu.Unlock()
}

func (s *VenueService) scopedAreaIDs(ctx context.Context) ([]uuid.UUID, error) {
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

// List returns venues constrained to the current scope; under global
// scope no area filter is applied.
func (s *VenueService) List(ctx context.Context, params *venue.FindParams) ([]venue.Venue, int64, error) {
	if params == nil {
		params = &venue.FindParams{}
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

// Options serves picker candidates. Pickers are not scope aware, so the
// search runs unscoped.
func (s *VenueService) Options(ctx context.Context, search string, limit int) ([]venue.Venue, error) {
	venues, _, err := s.repo.GetPaginated(ctx, &venue.FindParams{Search: search, Limit: limit})
	return venues, err
}

func (s *VenueService) GetByID(ctx context.Context, id uuid.UUID) (venue.Venue, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *VenueService) Create(ctx context.Context, tenantID uuid.UUID, dto *venue.CreateDTO) (venue.Venue, error) {
	if _, err := s.areas.GetByID(ctx, dto.AreaID()); err != nil {
		return venue.Venue{}, err
	}
	return s.repo.Create(ctx, venue.New(tenantID, dto.Name, dto.Address, dto.AreaID()))
}
