package scope

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/iota-uz/atlas/modules/geo/domain/aggregates/area"
	"github.com/iota-uz/atlas/modules/geo/services"
	"github.com/iota-uz/atlas/pkg/eventbus"
	"github.com/iota-uz/atlas/pkg/metrics"
	"github.com/iota-uz/atlas/pkg/serrors"
)

// ErrUnauthorizedScope rejects a scope target the user's rules do not
// reach. It is an expected outcome (clicking an unauthorized breadcrumb),
// so callers degrade to global scope instead of surfacing an error page.
var ErrUnauthorizedScope = serrors.NewError("GEO_SCOPE_UNAUTHORIZED", "user is not authorized for the requested scope", "Geo.Errors.UnauthorizedScope")

// State is the session-wide geographic scope every list view keys its
// queries on. A Nil SelectedAreaID means global (unfiltered).
type State struct {
	SelectedAreaID uuid.UUID
	SelectedArea   area.Area
}

func (s State) IsGlobal() bool {
	return s.SelectedAreaID == uuid.Nil
}

// QueryAreaID returns the id consumers pass to scoped list queries;
// Nil means "omit the filter".
func (s State) QueryAreaID() uuid.UUID {
	return s.SelectedAreaID
}

// ScopeChangedEvent is published on the application event bus after
// every successful transition.
type ScopeChangedEvent struct {
	Previous State
	Current  State
}

// Listener is invoked synchronously after each successful transition.
type Listener func(State)

// Coordinator owns the single mutable scope state. Views read it; only
// SetScope and ClearScope write it, and both validate through the
// access resolver first.
type Coordinator struct {
	areas     *services.AreaService
	rules     *services.RuleService
	resolver  *services.AccessResolver
	publisher eventbus.EventBus

	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
}

func NewCoordinator(
	areas *services.AreaService,
	rules *services.RuleService,
	resolver *services.AccessResolver,
	publisher eventbus.EventBus,
) *Coordinator {
	c := &Coordinator{
		areas:     areas,
		rules:     rules,
		resolver:  resolver,
		publisher: publisher,
		listeners: make(map[int]Listener),
	}
	// Keep the denormalized selection fresh when the underlying node is
	// edited.
	publisher.Subscribe(func(e *services.AreaUpdatedEvent) {
		c.refreshSelected(e.Area)
	})
	return c
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers a listener and returns its unsubscribe func.
func (c *Coordinator) Subscribe(l Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// SetScope validates areaID against the user's rules and, when
// authorized, atomically replaces the selection. On ErrUnauthorizedScope
// the state is left untouched; breadcrumb callers clear to global.
func (c *Coordinator) SetScope(ctx context.Context, userID, areaID uuid.UUID) error {
	authorized, err := c.rules.IsAuthorized(ctx, c.resolver, userID, areaID)
	if err != nil {
		return err
	}
	if !authorized {
		metrics.ScopeDenied.Inc()
		return ErrUnauthorizedScope
	}

	selected, err := c.areas.GetByID(ctx, areaID)
	if err != nil {
		return err
	}

	c.transition(State{SelectedAreaID: areaID, SelectedArea: selected}, "scoped")
	return nil
}

// ClearScope always succeeds and resets to global.
func (c *Coordinator) ClearScope(ctx context.Context) {
	c.transition(State{}, "global")
}

// SetScopeOrClear is the breadcrumb-click behavior: an unauthorized
// target safely degrades to global scope instead of failing.
func (c *Coordinator) SetScopeOrClear(ctx context.Context, userID, areaID uuid.UUID) (State, error) {
	err := c.SetScope(ctx, userID, areaID)
	if serrors.BaseError(err, ErrUnauthorizedScope.Code) {
		c.ClearScope(ctx)
		return c.State(), nil
	}
	if err != nil {
		return c.State(), err
	}
	return c.State(), nil
}

func (c *Coordinator) transition(next State, label string) {
	c.mu.Lock()
	previous := c.state
	c.state = next
	listeners := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.mu.Unlock()

	metrics.ScopeChanges.WithLabelValues(label).Inc()
	for _, l := range listeners {
		l(next)
	}
	c.publisher.Publish(&ScopeChangedEvent{Previous: previous, Current: next})
}

func (c *Coordinator) refreshSelected(updated area.Area) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.SelectedAreaID == updated.ID() {
		c.state.SelectedArea = updated
	}
}

// BreadcrumbItem is one segment of the scope breadcrumb. Unauthorized
// ancestors are still rendered for orientation; clicking one goes
// through SetScopeOrClear and lands on global scope.
type BreadcrumbItem struct {
	AreaID     uuid.UUID
	Label      string
	Authorized bool
}

// Breadcrumbs returns the path for areaID ordered most-distant first,
// ending with the node itself.
func (c *Coordinator) Breadcrumbs(ctx context.Context, userID, areaID uuid.UUID) ([]BreadcrumbItem, error) {
	tree, err := c.areas.Tree(ctx)
	if err != nil {
		return nil, err
	}
	node, ok := tree.Get(areaID)
	if !ok {
		return nil, area.ErrNotFound
	}
	rules, err := c.rules.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ancestors := tree.AncestorsOf(areaID)
	items := make([]BreadcrumbItem, 0, len(ancestors)+1)
	for i := len(ancestors) - 1; i >= 0; i-- {
		items = append(items, BreadcrumbItem{
			AreaID:     ancestors[i].ID(),
			Label:      ancestors[i].Name(),
			Authorized: c.resolver.IsAuthorized(rules, tree, ancestors[i].ID()),
		})
	}
	items = append(items, BreadcrumbItem{
		AreaID:     node.ID(),
		Label:      node.Name(),
		Authorized: c.resolver.IsAuthorized(rules, tree, node.ID()),
	})
	return items, nil
}
