package scope_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/atlas/modules/geo/domain/aggregates/area"
	"github.com/iota-uz/atlas/modules/geo/domain/entities/arearule"
	"github.com/iota-uz/atlas/modules/geo/services"
	"github.com/iota-uz/atlas/pkg/eventbus"
	"github.com/iota-uz/atlas/pkg/logging"
	"github.com/iota-uz/atlas/pkg/scope"
)

var (
	testTenant = uuid.MustParse("00000000-0000-0000-0000-0000000000aa")
	testUser   = uuid.MustParse("00000000-0000-0000-0000-0000000000bb")

	countryID   = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	provinceID  = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	cityID      = uuid.MustParse("00000000-0000-0000-0000-000000000003")
	communityID = uuid.MustParse("00000000-0000-0000-0000-000000000004")
)

// memoryAreaRepository is an in-memory area.Repository for unit tests.
type memoryAreaRepository struct {
	mu    sync.Mutex
	areas []area.Area

	// blockSearch, when non-nil, is received from before GetPaginated
	// returns; searchStarted is signalled when a query begins.
	blockSearch   chan struct{}
	searchStarted chan struct{}

	// searchErr, when non-nil, fails the next GetPaginated call.
	searchErr error
}

func (r *memoryAreaRepository) GetAll(ctx context.Context) ([]area.Area, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]area.Area, len(r.areas))
	copy(out, r.areas)
	return out, nil
}

func (r *memoryAreaRepository) GetPaginated(ctx context.Context, params *area.FindParams) ([]area.Area, int64, error) {
	r.mu.Lock()
	started := r.searchStarted
	block := r.blockSearch
	r.searchStarted = nil
	r.blockSearch = nil
	r.mu.Unlock()

	if started != nil {
		close(started)
	}
	if block != nil {
		<-block
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.searchErr != nil {
		err := r.searchErr
		r.searchErr = nil
		return nil, 0, err
	}
	var out []area.Area
	for _, a := range r.areas {
		if params.Search == "" || containsFold(a.Name(), params.Search) {
			out = append(out, a)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memoryAreaRepository) GetByID(ctx context.Context, id uuid.UUID) (area.Area, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.areas {
		if a.ID() == id {
			return a, nil
		}
	}
	return area.Area{}, area.ErrNotFound
}

func (r *memoryAreaRepository) Create(ctx context.Context, a area.Area) (area.Area, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	created := area.Hydrate(a.TenantID(), uuid.New(), a.Name(), a.Kind(), a.ParentID(), 1, time.Now(), time.Now())
	r.areas = append(r.areas, created)
	return created, nil
}

func (r *memoryAreaRepository) Update(ctx context.Context, a area.Area) (area.Area, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.areas {
		if existing.ID() == a.ID() {
			r.areas[i] = a
			return a, nil
		}
	}
	return area.Area{}, area.ErrNotFound
}

// memoryRuleRepository is an in-memory arearule.Repository.
type memoryRuleRepository struct {
	mu    sync.Mutex
	rules []arearule.Rule
}

func (r *memoryRuleRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]arearule.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []arearule.Rule
	for _, rule := range r.rules {
		if rule.UserID() == userID {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (r *memoryRuleRepository) Create(ctx context.Context, rule arearule.Rule) (arearule.Rule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rules {
		if existing.UserID() == rule.UserID() && existing.AreaID() == rule.AreaID() {
			return arearule.Rule{}, arearule.ErrDuplicate
		}
	}
	created := arearule.Hydrate(rule.TenantID(), uuid.New(), rule.UserID(), rule.AreaID(), rule.Type(), time.Now())
	r.rules = append(r.rules, created)
	return created, nil
}

func (r *memoryRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, rule := range r.rules {
		if rule.ID() == id {
			r.rules = append(r.rules[:i], r.rules[i+1:]...)
			return nil
		}
	}
	return arearule.ErrNotFound
}

func containsFold(haystack, needle string) bool {
	h, n := []rune(haystack), []rune(needle)
	for i := 0; i+len(n) <= len(h); i++ {
		match := true
		for j := range n {
			hr, nr := h[i+j], n[j]
			if hr != nr && lower(hr) != lower(nr) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func lower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

func hydrateArea(id uuid.UUID, name string, kind area.Kind, parentID uuid.UUID) area.Area {
	return area.Hydrate(testTenant, id, name, kind, parentID, 1, time.Now(), time.Now())
}

type fixture struct {
	areaRepo    *memoryAreaRepository
	ruleRepo    *memoryRuleRepository
	areas       *services.AreaService
	rules       *services.RuleService
	resolver    *services.AccessResolver
	publisher   eventbus.EventBus
	coordinator *scope.Coordinator
}

// country → province → city → community
func newFixture(rules ...arearule.Rule) *fixture {
	areaRepo := &memoryAreaRepository{areas: []area.Area{
		hydrateArea(countryID, "Country", area.KindCountry, uuid.Nil),
		hydrateArea(provinceID, "Province", area.KindProvince, countryID),
		hydrateArea(cityID, "City", area.KindCity, provinceID),
		hydrateArea(communityID, "Community", area.KindCommunity, cityID),
	}}
	ruleRepo := &memoryRuleRepository{rules: rules}
	publisher := eventbus.NewEventPublisher(logging.ConsoleLogger(logrus.PanicLevel))
	areaService := services.NewAreaService(areaRepo, publisher)
	ruleService := services.NewRuleService(ruleRepo, areaService)
	resolver := services.NewAccessResolver()
	return &fixture{
		areaRepo:    areaRepo,
		ruleRepo:    ruleRepo,
		areas:       areaService,
		rules:       ruleService,
		resolver:    resolver,
		publisher:   publisher,
		coordinator: scope.NewCoordinator(areaService, ruleService, resolver, publisher),
	}
}

func allowRule(areaID uuid.UUID) arearule.Rule {
	return arearule.Hydrate(testTenant, uuid.New(), testUser, areaID, arearule.TypeAllow, time.Now())
}

func denyRule(areaID uuid.UUID) arearule.Rule {
	return arearule.Hydrate(testTenant, uuid.New(), testUser, areaID, arearule.TypeDeny, time.Now())
}
