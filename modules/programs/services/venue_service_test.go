package services_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/atlas/modules/geo/domain/aggregates/area"
	"github.com/iota-uz/atlas/modules/geo/domain/entities/arearule"
	geoservices "github.com/iota-uz/atlas/modules/geo/services"
	"github.com/iota-uz/atlas/modules/programs/domain/entities/venue"
	"github.com/iota-uz/atlas/modules/programs/services"
	"github.com/iota-uz/atlas/pkg/eventbus"
	"github.com/iota-uz/atlas/pkg/logging"
	"github.com/iota-uz/atlas/pkg/scope"
)

var (
	testTenant = uuid.MustParse("00000000-0000-0000-0000-0000000000aa")
	testUser   = uuid.MustParse("00000000-0000-0000-0000-0000000000bb")

	countryID  = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	provinceID = uuid.MustParse("00000000-0000-0000-0000-000000000002")
	cityID     = uuid.MustParse("00000000-0000-0000-0000-000000000003")
)

type memoryAreaRepository struct {
	mu    sync.Mutex
	areas []area.Area
}

func (r *memoryAreaRepository) GetAll(ctx context.Context) ([]area.Area, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]area.Area, len(r.areas))
	copy(out, r.areas)
	return out, nil
}

func (r *memoryAreaRepository) GetPaginated(ctx context.Context, params *area.FindParams) ([]area.Area, int64, error) {
	all, _ := r.GetAll(ctx)
	return all, int64(len(all)), nil
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

type memoryRuleRepository struct {
	rules []arearule.Rule
}

func (r *memoryRuleRepository) GetByUser(ctx context.Context, userID uuid.UUID) ([]arearule.Rule, error) {
	return r.rules, nil
}

func (r *memoryRuleRepository) Create(ctx context.Context, rule arearule.Rule) (arearule.Rule, error) {
	r.rules = append(r.rules, rule)
	return rule, nil
}

func (r *memoryRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

// memoryVenueRepository records the area filter it was queried with.
type memoryVenueRepository struct {
	mu          sync.Mutex
	venues      []venue.Venue
	lastAreaIDs []uuid.UUID
	calls       int
}

func (r *memoryVenueRepository) GetPaginated(ctx context.Context, params *venue.FindParams) ([]venue.Venue, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastAreaIDs = params.AreaIDs
	r.calls++

	var out []venue.Venue
	for _, v := range r.venues {
		if params.Search != "" && !strings.Contains(strings.ToLower(v.Name()), strings.ToLower(params.Search)) {
			continue
		}
		if params.AreaIDs != nil && !containsID(params.AreaIDs, v.AreaID()) {
			continue
		}
		out = append(out, v)
	}
	return out, int64(len(out)), nil
}

func (r *memoryVenueRepository) GetByID(ctx context.Context, id uuid.UUID) (venue.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.venues {
		if v.ID() == id {
			return v, nil
		}
	}
	return venue.Venue{}, venue.ErrNotFound
}

func (r *memoryVenueRepository) Create(ctx context.Context, v venue.Venue) (venue.Venue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	created := venue.Hydrate(v.TenantID(), uuid.New(), v.Name(), v.Address(), v.AreaID(), time.Now())
	r.venues = append(r.venues, created)
	return created, nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func hydrateArea(id uuid.UUID, name string, kind area.Kind, parentID uuid.UUID) area.Area {
	return area.Hydrate(testTenant, id, name, kind, parentID, 1, time.Now(), time.Now())
}

func hydrateVenue(name string, areaID uuid.UUID) venue.Venue {
	return venue.Hydrate(testTenant, uuid.New(), name, "", areaID, time.Now())
}

type fixture struct {
	venueRepo   *memoryVenueRepository
	coordinator *scope.Coordinator
	venues      *services.VenueService
}

// country → province → city; one venue anchored at each level.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	areaRepo := &memoryAreaRepository{areas: []area.Area{
		hydrateArea(countryID, "Country", area.KindCountry, uuid.Nil),
		hydrateArea(provinceID, "Province", area.KindProvince, countryID),
		hydrateArea(cityID, "City", area.KindCity, provinceID),
	}}
	ruleRepo := &memoryRuleRepository{rules: []arearule.Rule{
		arearule.Hydrate(testTenant, uuid.New(), testUser, countryID, arearule.TypeAllow, time.Now()),
	}}
	venueRepo := &memoryVenueRepository{venues: []venue.Venue{
		hydrateVenue("National Arena", countryID),
		hydrateVenue("Province Hall", provinceID),
		hydrateVenue("City Gym", cityID),
	}}

	publisher := eventbus.NewEventPublisher(logging.ConsoleLogger(logrus.PanicLevel))
	areaService := geoservices.NewAreaService(areaRepo, publisher)
	ruleService := geoservices.NewRuleService(ruleRepo, areaService)
	coordinator := scope.NewCoordinator(areaService, ruleService, geoservices.NewAccessResolver(), publisher)

	return &fixture{
		venueRepo:   venueRepo,
		coordinator: coordinator,
		venues:      services.NewVenueService(venueRepo, areaService, coordinator, publisher),
	}
}

func TestVenueService_List_GlobalScopeIsUnfiltered(t *testing.T) {
	f := newFixture(t)

	venues, total, err := f.venues.List(context.Background(), nil)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, venues, 3)
	require.Nil(t, f.venueRepo.lastAreaIDs, "global scope must omit the area filter entirely")
}

func TestVenueService_List_ScopeExpandsToDescendants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.coordinator.SetScope(ctx, testUser, provinceID))

	venues, _, err := f.venues.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, venues, 2, "province scope covers the province and the city below it")
	require.ElementsMatch(t,
		[]uuid.UUID{provinceID, cityID},
		[]uuid.UUID{venues[0].AreaID(), venues[1].AreaID()},
	)
	require.ElementsMatch(t, []uuid.UUID{provinceID, cityID}, f.venueRepo.lastAreaIDs)
}

func TestVenueService_List_ScopeChangeInvalidatesClosureCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.coordinator.SetScope(ctx, testUser, provinceID))
	_, _, err := f.venues.List(ctx, nil)
	require.NoError(t, err)
	require.ElementsMatch(t, []uuid.UUID{provinceID, cityID}, f.venueRepo.lastAreaIDs)

	require.NoError(t, f.coordinator.SetScope(ctx, testUser, cityID))
	_, _, err = f.venues.List(ctx, nil)
	require.NoError(t, err)
	require.ElementsMatch(t, []uuid.UUID{cityID}, f.venueRepo.lastAreaIDs, "stale closure must not survive a scope change")

	f.coordinator.ClearScope(ctx)
	_, _, err = f.venues.List(ctx, nil)
	require.NoError(t, err)
	require.Nil(t, f.venueRepo.lastAreaIDs)
}

func TestVenueService_Options_IgnoreScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.coordinator.SetScope(ctx, testUser, cityID))

	options, err := f.venues.Options(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, options, 3, "pickers are not scope aware")
}

func TestVenueService_Create_RequiresExistingArea(t *testing.T) {
	f := newFixture(t)

	_, err := f.venues.Create(context.Background(), testTenant, &venue.CreateDTO{
		Name:             "Ghost Venue",
		GeographicAreaID: uuid.New().String(),
	})
	require.ErrorIs(t, err, area.ErrNotFound)
}
