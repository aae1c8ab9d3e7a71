package ensure_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/atlas/pkg/ensure"
	"github.com/iota-uz/atlas/pkg/logging"
)

type option struct {
	ID    uuid.UUID
	Label string
}

var (
	selectedID = uuid.MustParse("00000000-0000-0000-0000-000000000042")

	serverResults = []option{
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000010"), Label: "John"},
		{ID: uuid.MustParse("00000000-0000-0000-0000-000000000011"), Label: "Joan"},
	}
)

func newCache() *ensure.Cache[option] {
	return ensure.NewCache(func(o option) uuid.UUID { return o.ID }, logging.ConsoleLogger(logrus.PanicLevel))
}

// countingFetcher resolves jane and records how many times it was asked.
type countingFetcher struct {
	calls int
	err   error
}

func (f *countingFetcher) fetch(ctx context.Context, id uuid.UUID) (option, error) {
	f.calls++
	if f.err != nil {
		return option{}, f.err
	}
	return option{ID: id, Label: "Jane Doe"}, nil
}

func TestCache_NoSelectionPassesThrough(t *testing.T) {
	c := newCache()
	fetcher := &countingFetcher{}

	out := c.Ensure(context.Background(), "picker-1", uuid.Nil, serverResults, fetcher.fetch)

	require.Equal(t, serverResults, out)
	require.Zero(t, fetcher.calls)
	require.Equal(t, ensure.StateNotNeeded, c.State("picker-1"))
}

func TestCache_SelectionPresentInResults(t *testing.T) {
	c := newCache()
	fetcher := &countingFetcher{}

	out := c.Ensure(context.Background(), "picker-1", serverResults[1].ID, serverResults, fetcher.fetch)

	require.Equal(t, serverResults, out)
	require.Zero(t, fetcher.calls, "nothing to fetch when the selection is already listed")
	require.Equal(t, ensure.StateResolved, c.State("picker-1"), "a listed selection is resolved from the results")
}

func TestCache_FetchesAndPrependsMissingSelection(t *testing.T) {
	c := newCache()
	fetcher := &countingFetcher{}

	out := c.Ensure(context.Background(), "picker-1", selectedID, serverResults, fetcher.fetch)

	require.Len(t, out, 3)
	require.Equal(t, "Jane Doe", out[0].Label, "fetched selection leads the list")
	require.Equal(t, serverResults, out[1:])
	require.Equal(t, 1, fetcher.calls)
	require.Equal(t, ensure.StateResolved, c.State("picker-1"))
}

func TestCache_ResolvedEntitySurvivesFilterChanges(t *testing.T) {
	c := newCache()
	fetcher := &countingFetcher{}
	ctx := context.Background()

	c.Ensure(ctx, "picker-1", selectedID, serverResults, fetcher.fetch)

	// A new search excludes the selection; the cached entity is reused
	// without another fetch.
	narrowed := []option{serverResults[0]}
	out := c.Ensure(ctx, "picker-1", selectedID, narrowed, fetcher.fetch)

	require.Len(t, out, 2)
	require.Equal(t, "Jane Doe", out[0].Label)
	require.Equal(t, 1, fetcher.calls, "one fetch per (picker, selection)")
}

func TestCache_NoDuplicateWhenServerCatchesUp(t *testing.T) {
	c := newCache()
	fetcher := &countingFetcher{}
	ctx := context.Background()

	c.Ensure(ctx, "picker-1", selectedID, serverResults, fetcher.fetch)

	// Searching "Jane" now returns the selection from the server too.
	withSelection := append([]option{{ID: selectedID, Label: "Jane Doe"}}, serverResults...)
	out := c.Ensure(ctx, "picker-1", selectedID, withSelection, fetcher.fetch)

	require.Equal(t, withSelection, out, "selection must not appear twice")
}

func TestCache_ContainingSearchDoesNotResetFetchAttempt(t *testing.T) {
	c := newCache()
	fetcher := &countingFetcher{}
	ctx := context.Background()

	// Excluding search: the selection is fetched once.
	c.Ensure(ctx, "picker-1", selectedID, serverResults, fetcher.fetch)
	require.Equal(t, 1, fetcher.calls)

	// A broader search lists the selection itself.
	withSelection := append([]option{{ID: selectedID, Label: "Jane Doe"}}, serverResults...)
	c.Ensure(ctx, "picker-1", selectedID, withSelection, fetcher.fetch)
	require.Equal(t, ensure.StateResolved, c.State("picker-1"))

	// Narrowing again must reuse the cached entity, not refetch: the
	// attempt flag follows the selection, never the search text.
	out := c.Ensure(ctx, "picker-1", selectedID, serverResults, fetcher.fetch)

	require.Equal(t, 1, fetcher.calls, "search text changes never reset the fetch attempt")
	require.Equal(t, selectedID, out[0].ID)
	require.Equal(t, serverResults, out[1:])
}

func TestCache_ListedSelectionResolvesWithoutFetching(t *testing.T) {
	c := newCache()
	fetcher := &countingFetcher{}
	ctx := context.Background()

	// The very first search already contains the selection; no fetch
	// ever runs, but the entity is still cached for later exclusion.
	withSelection := append([]option{{ID: selectedID, Label: "From Server"}}, serverResults...)
	c.Ensure(ctx, "picker-1", selectedID, withSelection, fetcher.fetch)

	out := c.Ensure(ctx, "picker-1", selectedID, serverResults, fetcher.fetch)

	require.Zero(t, fetcher.calls, "server-listed selection never needs a fetch")
	require.Equal(t, "From Server", out[0].Label)
}

func TestCache_SelectionChangeResetsAttempt(t *testing.T) {
	c := newCache()
	fetcher := &countingFetcher{}
	ctx := context.Background()

	c.Ensure(ctx, "picker-1", selectedID, serverResults, fetcher.fetch)
	require.Equal(t, 1, fetcher.calls)

	other := uuid.MustParse("00000000-0000-0000-0000-000000000043")
	out := c.Ensure(ctx, "picker-1", other, serverResults, fetcher.fetch)

	require.Equal(t, 2, fetcher.calls, "new selection triggers exactly one new fetch")
	require.Equal(t, other, out[0].ID)
}

func TestCache_FailureIsRecordedAndNotRetried(t *testing.T) {
	c := newCache()
	fetcher := &countingFetcher{err: fmt.Errorf("upstream timeout")}
	ctx := context.Background()

	out := c.Ensure(ctx, "picker-1", selectedID, serverResults, fetcher.fetch)
	require.Equal(t, serverResults, out, "failed fetch falls back to server results")
	require.Equal(t, ensure.StateFailed, c.State("picker-1"))
	require.True(t, errors.Is(c.Err("picker-1"), ensure.ErrFetchFailed))

	// Same selection again: no automatic retry.
	out = c.Ensure(ctx, "picker-1", selectedID, serverResults, fetcher.fetch)
	require.Equal(t, serverResults, out)
	require.Equal(t, 1, fetcher.calls)

	// A different selection clears the failure and fetches again.
	fetcher.err = nil
	other := uuid.MustParse("00000000-0000-0000-0000-000000000044")
	c.Ensure(ctx, "picker-1", other, serverResults, fetcher.fetch)
	require.Equal(t, 2, fetcher.calls)
	require.Equal(t, ensure.StateResolved, c.State("picker-1"))
}

func TestCache_PickersAreIsolated(t *testing.T) {
	c := newCache()
	first := &countingFetcher{}
	second := &countingFetcher{}
	ctx := context.Background()

	c.Ensure(ctx, "picker-1", selectedID, serverResults, first.fetch)
	c.Ensure(ctx, "picker-2", selectedID, serverResults, second.fetch)

	require.Equal(t, 1, first.calls)
	require.Equal(t, 1, second.calls, "entries are per picker instance")
}

func TestCache_StaleFetchDiscardedWhenSelectionChanges(t *testing.T) {
	c := newCache()
	ctx := context.Background()
	other := uuid.MustParse("00000000-0000-0000-0000-000000000045")

	// The fetch for the original selection resolves only after the
	// selection has already moved on; its result must not be applied.
	slowFetch := func(ctx context.Context, id uuid.UUID) (option, error) {
		c.Ensure(ctx, "picker-1", other, serverResults, func(ctx context.Context, id uuid.UUID) (option, error) {
			return option{ID: id, Label: "Newer"}, nil
		})
		return option{ID: id, Label: "Stale"}, nil
	}

	out := c.Ensure(ctx, "picker-1", selectedID, serverResults, slowFetch)
	require.Equal(t, serverResults, out, "stale fetch result is discarded")

	final := c.Ensure(ctx, "picker-1", other, serverResults, func(ctx context.Context, id uuid.UUID) (option, error) {
		t.Fatal("resolved entry must not refetch")
		return option{}, nil
	})
	require.Equal(t, "Newer", final[0].Label)
}
