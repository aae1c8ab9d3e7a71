package scope

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/atlas/modules/geo/domain/aggregates/area"
	"github.com/iota-uz/atlas/modules/geo/services"
	"github.com/iota-uz/atlas/pkg/metrics"
)

// SearchResult pairs a matched area with its ancestry path
// (closest parent first) for display.
type SearchResult struct {
	Area      area.Area
	Ancestors []area.Area
}

// SearchProvider is the debounced, last-request-wins area search behind
// the scope selector and area pickers. Each issued request carries a
// monotonically increasing sequence number; a completion whose sequence
// is older than the newest issued one is discarded so a fast typist
// never sees a flash of stale options.
type SearchProvider struct {
	areas    *services.AreaService
	log      *logrus.Logger
	debounce time.Duration
	pageSize int

	mu       sync.Mutex
	seq      uint64
	applied  uint64
	timer    *time.Timer
	results  []SearchResult
	loading  bool
	lastErr  error
	discards uint64
}

func NewSearchProvider(areas *services.AreaService, log *logrus.Logger, debounce time.Duration, pageSize int) *SearchProvider {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &SearchProvider{
		areas:    areas,
		log:      log,
		debounce: debounce,
		pageSize: pageSize,
	}
}

// Search schedules a search for text. Calls within the debounce window
// reset the timer instead of issuing redundant requests. A non-positive
// debounce runs the request inline, which tests rely on for
// deterministic ordering.
func (p *SearchProvider) Search(ctx context.Context, text string) {
	if p.debounce <= 0 {
		p.SearchNow(ctx, text)
		return
	}

	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.loading = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.timer = time.AfterFunc(p.debounce, func() {
		p.run(ctx, seq, text)
	})
	p.mu.Unlock()
}

// SearchNow bypasses the debounce window and runs the request inline.
// The HTTP surface uses it: by the time a request arrives the client
// already debounced the keystrokes.
func (p *SearchProvider) SearchNow(ctx context.Context, text string) {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.loading = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mu.Unlock()

	p.run(ctx, seq, text)
}

func (p *SearchProvider) run(ctx context.Context, seq uint64, text string) {
	areas, _, err := p.areas.GetPaginated(ctx, &area.FindParams{
		Search: text,
		Limit:  p.pageSize,
	})

	var results []SearchResult
	if err == nil {
		results = make([]SearchResult, 0, len(areas))
		for _, a := range areas {
			ancestors, aerr := p.areas.AncestorsOf(ctx, a.ID())
			if aerr != nil {
				// A hit can vanish between the page query and the
				// snapshot read; show it without its path.
				ancestors = nil
			}
			results = append(results, SearchResult{Area: a, Ancestors: ancestors})
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if seq < p.seq {
		// A newer search was issued while this one was in flight.
		p.discards++
		metrics.StaleSearchDiscards.Inc()
		if p.log != nil {
			p.log.WithFields(logrus.Fields{
				"stale_seq":  seq,
				"newest_seq": p.seq,
				"query":      text,
			}).Debug("scope: discarded stale search response")
		}
		return
	}

	p.applied = seq
	p.loading = false
	if err != nil {
		// Keep the previous valid options visible on failure.
		p.lastErr = err
		return
	}
	p.lastErr = nil
	p.results = results
}

// Results returns the current candidate list; each completed search
// replaces it wholesale.
func (p *SearchProvider) Results() []SearchResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]SearchResult, len(p.results))
	copy(out, p.results)
	return out
}

// Loading reports whether a request is outstanding.
func (p *SearchProvider) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Empty reports a completed search with no matches.
func (p *SearchProvider) Empty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.loading && p.lastErr == nil && len(p.results) == 0
}

// Err returns the failure of the most recent completed search, if any.
func (p *SearchProvider) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// Discards counts stale responses dropped by the last-request-wins
// guarantee; exposed for tests and dashboards.
func (p *SearchProvider) Discards() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.discards
}
