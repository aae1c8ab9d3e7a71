package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/iota-uz/atlas/modules/geo/domain/aggregates/area"
	"github.com/iota-uz/atlas/pkg/eventbus"
)

// AreaCreatedEvent and AreaUpdatedEvent invalidate every consumer
// holding a denormalized copy of a node (scope state, breadcrumbs).
type AreaCreatedEvent struct {
	Area area.Area
}

type AreaUpdatedEvent struct {
	Area area.Area
}

type AreaService struct {
	repo      area.Repository
	publisher eventbus.EventBus

	mu   sync.RWMutex
	tree *area.Tree
}

func NewAreaService(repo area.Repository, publisher eventbus.EventBus) *AreaService {
	return &AreaService{repo: repo, publisher: publisher}
}

// Tree returns the cached forest index, rebuilding it from a fresh
// snapshot on first use and after every write.
func (s *AreaService) Tree(ctx context.Context) (*area.Tree, error) {
	s.mu.RLock()
	tree := s.tree
	s.mu.RUnlock()
	if tree != nil {
		return tree, nil
	}

	areas, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tree == nil {
		s.tree = area.NewTree(areas)
	}
	return s.tree, nil
}

func (s *AreaService) invalidateTree() {
	s.mu.Lock()
	s.tree = nil
	s.mu.Unlock()
}

func (s *AreaService) GetByID(ctx context.Context, id uuid.UUID) (area.Area, error) {
	return s.repo.GetByID(ctx, id)
}

// GetPaginated searches areas; when a search term is present the SQL
// page is re-ranked by fuzzy match quality so the best matches lead.
func (s *AreaService) GetPaginated(ctx context.Context, params *area.FindParams) ([]area.Area, int64, error) {
	if params == nil {
		params = &area.FindParams{}
	}
	params.Search = strings.TrimSpace(params.Search)

	areas, total, err := s.repo.GetPaginated(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	if params.Search != "" {
		areas = rankAreas(params.Search, areas)
	}
	return areas, total, nil
}

// AncestorsOf returns the ancestry path for id, closest parent first.
func (s *AreaService) AncestorsOf(ctx context.Context, id uuid.UUID) ([]area.Area, error) {
	tree, err := s.Tree(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := tree.Get(id); !ok {
		return nil, area.ErrNotFound
	}
	return tree.AncestorsOf(id), nil
}

func (s *AreaService) Create(ctx context.Context, tenantID uuid.UUID, dto *area.CreateDTO) (area.Area, error) {
	parentID, err := dto.Parent()
	if err != nil {
		return area.Area{}, err
	}
	entity := area.New(tenantID, dto.Name, area.Kind(dto.Kind), parentID)
	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return area.Area{}, err
	}
	s.invalidateTree()
	s.publisher.Publish(&AreaCreatedEvent{Area: created})
	return created, nil
}

// Update re-parents/renames an area. The cycle guard runs against the
// current snapshot before the write is submitted; the repository's
// authoritative check still applies and reports the same error when a
// concurrent edit invalidates the guard's answer.
func (s *AreaService) Update(ctx context.Context, id uuid.UUID, dto *area.UpdateDTO) (area.Area, error) {
	parentID, err := dto.Parent()
	if err != nil {
		return area.Area{}, err
	}

	tree, err := s.Tree(ctx)
	if err != nil {
		return area.Area{}, err
	}
	if tree.WouldCreateCycle(id, parentID) {
		return area.Area{}, area.ErrCycleRejected
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return area.Area{}, err
	}
	if existing.Version() != dto.Version {
		return area.Area{}, area.ErrVersionConflict
	}

	updated, err := s.repo.Update(ctx, existing.WithName(dto.Name).WithParent(parentID).NextVersion())
	if err != nil {
		return area.Area{}, err
	}
	s.invalidateTree()
	s.publisher.Publish(&AreaUpdatedEvent{Area: updated})
	return updated, nil
}

func rankAreas(q string, areas []area.Area) []area.Area {
	names := make([]string, len(areas))
	for i, a := range areas {
		names[i] = a.Name()
	}
	ranks := fuzzy.RankFindNormalizedFold(q, names)
	sort.Sort(ranks)

	ranked := make([]area.Area, 0, len(areas))
	seen := make(map[int]struct{}, len(ranks))
	for _, rank := range ranks {
		ranked = append(ranked, areas[rank.OriginalIndex])
		seen[rank.OriginalIndex] = struct{}{}
	}
	// Server-side matches that the fuzzy ranker rejects (e.g. matched on
	// an ancestor name) keep their original order after the ranked ones.
	for i, a := range areas {
		if _, ok := seen[i]; !ok {
			ranked = append(ranked, a)
		}
	}
	return ranked
}
