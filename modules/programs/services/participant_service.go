package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	geoservices "github.com/iota-uz/atlas/modules/geo/services"
	"github.com/iota-uz/atlas/modules/programs/domain/entities/participant"
	"github.com/iota-uz/atlas/pkg/eventbus"
	"github.com/iota-uz/atlas/pkg/scope"
)

type ParticipantService struct {
	repo        participant.Repository
	areas       *geoservices.AreaService
	coordinator *scope.Coordinator

	mu         sync.Mutex
	scopedIDs  []uuid.UUID
	cacheValid bool
}

func NewParticipantService(
	repo participant.Repository,
	areas *geoservices.AreaService,
	coordinator *scope.Coordinator,
	publisher eventbus.EventBus,
) *ParticipantService {
	s := &ParticipantService{repo: repo, areas: areas, coordinator: coordinator}
	publisher.Subscribe(func(e *scope.ScopeChangedEvent) { s.invalidateScope() })
	publisher.Subscribe(func(e *geoservices.AreaCreatedEvent) { s.invalidateScope() })
	publisher.Subscribe(func(e *geoservices.AreaUpdatedEvent) { s.invalidateScope() })
	return s
}

func (s *ParticipantService) invalidateScope() {
	s.mu.Lock()
	s.scopedIDs = nil
	s.cacheValid = false
	s.mu.Unlock()
}

func (s *ParticipantService) scopedAreaIDs(ctx context.Context) ([]uuid.UUID, error) {
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

func (s *ParticipantService) List(ctx context.Context, params *participant.FindParams) ([]participant.Participant, int64, error) {
	if params == nil {
		params = &participant.FindParams{}
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

func (s *ParticipantService) Options(ctx context.Context, search string, limit int) ([]participant.Participant, error) {
	participants, _, err := s.repo.GetPaginated(ctx, &participant.FindParams{Search: search, Limit: limit})
	return participants, err
}

func (s *ParticipantService) GetByID(ctx context.Context, id uuid.UUID) (participant.Participant, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ParticipantService) Create(ctx context.Context, tenantID uuid.UUID, dto *participant.CreateDTO) (participant.Participant, error) {
	if _, err := s.areas.GetByID(ctx, dto.AreaID()); err != nil {
		return participant.Participant{}, err
	}
	return s.repo.Create(ctx, participant.New(tenantID, dto.FullName, dto.Email, dto.AreaID()))
}
