package scope_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/atlas/pkg/logging"
	"github.com/iota-uz/atlas/pkg/scope"
)

func newSearchProvider(f *fixture, debounce time.Duration) *scope.SearchProvider {
	return scope.NewSearchProvider(f.areas, logging.ConsoleLogger(logrus.PanicLevel), debounce, 10)
}

func TestSearchProvider_InlineSearch(t *testing.T) {
	f := newFixture()
	p := newSearchProvider(f, 0)

	p.Search(context.Background(), "City")

	require.False(t, p.Loading())
	require.NoError(t, p.Err())

	results := p.Results()
	require.Len(t, results, 1)
	require.Equal(t, "City", results[0].Area.Name())

	// Ancestry path rides along for display, closest parent first.
	require.Len(t, results[0].Ancestors, 2)
	require.Equal(t, provinceID, results[0].Ancestors[0].ID())
	require.Equal(t, countryID, results[0].Ancestors[1].ID())
}

func TestSearchProvider_EmptyState(t *testing.T) {
	f := newFixture()
	p := newSearchProvider(f, 0)

	p.Search(context.Background(), "nowhere")

	require.True(t, p.Empty())
	require.Empty(t, p.Results())
}

func TestSearchProvider_StaleResponseDiscarded(t *testing.T) {
	f := newFixture()
	p := newSearchProvider(f, 0)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	f.areaRepo.mu.Lock()
	f.areaRepo.searchStarted = started
	f.areaRepo.blockSearch = release
	f.areaRepo.mu.Unlock()

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		p.Search(ctx, "Country")
	}()
	<-started

	// The second request is issued while the first is still in flight and
	// completes first.
	p.Search(ctx, "Community")
	require.Equal(t, uint64(0), p.Discards())

	close(release)
	<-firstDone

	results := p.Results()
	require.Len(t, results, 1)
	require.Equal(t, "Community", results[0].Area.Name(), "late response must not overwrite the newer one")
	require.Equal(t, uint64(1), p.Discards())
	require.False(t, p.Loading())
}

func TestSearchProvider_ErrorKeepsPreviousResults(t *testing.T) {
	f := newFixture()
	p := newSearchProvider(f, 0)
	ctx := context.Background()

	p.Search(ctx, "Province")
	require.Len(t, p.Results(), 1)

	f.areaRepo.mu.Lock()
	f.areaRepo.searchErr = errors.New("connection reset")
	f.areaRepo.mu.Unlock()

	p.Search(ctx, "Country")
	require.Error(t, p.Err())
	require.False(t, p.Empty(), "a failed search is not an empty result")

	results := p.Results()
	require.Len(t, results, 1)
	require.Equal(t, "Province", results[0].Area.Name(), "previous options stay visible on failure")
}

func TestSearchProvider_DebounceCoalescesBursts(t *testing.T) {
	f := newFixture()
	p := newSearchProvider(f, 20*time.Millisecond)
	ctx := context.Background()

	// A burst of keystrokes within the window issues a single request for
	// the final text.
	p.Search(ctx, "C")
	p.Search(ctx, "Ci")
	p.Search(ctx, "Cit")
	p.Search(ctx, "City")

	require.Eventually(t, func() bool {
		return !p.Loading()
	}, time.Second, 5*time.Millisecond)

	results := p.Results()
	require.Len(t, results, 1)
	require.Equal(t, "City", results[0].Area.Name())
	require.Equal(t, uint64(0), p.Discards(), "cancelled timers never issue requests, nothing to discard")
}
