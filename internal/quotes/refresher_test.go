package quotes

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trogers1052/wheel-tracker/internal/models"
)

// fakeFetcher serves canned quotes and records call behavior
type fakeFetcher struct {
	mu      sync.Mutex
	quotes  map[string]models.Quote
	fail    map[string]bool
	calls   map[string]int
	active  atomic.Int32
	maxSeen atomic.Int32
	block   chan struct{}
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		quotes: make(map[string]models.Quote),
		fail:   make(map[string]bool),
		calls:  make(map[string]int),
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, symbol string) (models.Quote, error) {
	cur := f.active.Add(1)
	for {
		seen := f.maxSeen.Load()
		if cur <= seen || f.maxSeen.CompareAndSwap(seen, cur) {
			break
		}
	}
	defer f.active.Add(-1)

	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	f.calls[symbol]++
	failed := f.fail[symbol]
	quote := f.quotes[symbol]
	f.mu.Unlock()

	if failed {
		return models.Quote{}, errors.New("provider said no")
	}
	return quote, nil
}

func TestRefresherPartialFailure(t *testing.T) {
	cache := NewCache()
	// a stale quote that must survive its symbol failing this run
	cache.Upsert("NIO", models.Quote{Symbol: "NIO", Price: 4.2})

	fetcher := newFakeFetcher()
	fetcher.quotes["SOFI"] = models.Quote{Symbol: "SOFI", Price: 8.9}
	fetcher.quotes["VALE"] = models.Quote{Symbol: "VALE", Price: 11.3}
	fetcher.fail["NIO"] = true
	fetcher.fail["INTC"] = true
	fetcher.fail["AMD"] = true

	r := NewRefresher(fetcher, cache, 5, zerolog.Nop())
	err := r.Refresh(context.Background(), []string{"SOFI", "NIO", "VALE", "INTC", "AMD"})
	require.NoError(t, err)

	sofi, ok := cache.Get("SOFI")
	require.True(t, ok)
	assert.Equal(t, 8.9, sofi.Price)

	_, ok = cache.Get("VALE")
	assert.True(t, ok)

	// failed symbols: absent stays absent, stale stays stale
	_, ok = cache.Get("INTC")
	assert.False(t, ok)
	nio, ok := cache.Get("NIO")
	require.True(t, ok)
	assert.Equal(t, 4.2, nio.Price)

	assert.False(t, cache.LastRefreshed().IsZero())
}

func TestRefresherAllSymbolsFail(t *testing.T) {
	cache := NewCache()
	cache.Upsert("SOFI", models.Quote{Symbol: "SOFI", Price: 8.5})

	fetcher := newFakeFetcher()
	fetcher.fail["SOFI"] = true
	fetcher.fail["NIO"] = true

	r := NewRefresher(fetcher, cache, 5, zerolog.Nop())
	err := r.Refresh(context.Background(), []string{"SOFI", "NIO"})
	require.ErrorIs(t, err, ErrRefreshUnavailable)

	// prior cache intact, no completion recorded
	stale, ok := cache.Get("SOFI")
	require.True(t, ok)
	assert.Equal(t, 8.5, stale.Price)
	assert.True(t, cache.LastRefreshed().IsZero())
}

func TestRefresherDeduplicatesSymbols(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.quotes["SOFI"] = models.Quote{Symbol: "SOFI", Price: 8.9}

	r := NewRefresher(fetcher, NewCache(), 5, zerolog.Nop())
	err := r.Refresh(context.Background(), []string{"SOFI", "SOFI", "", "SOFI"})
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls["SOFI"])
}

func TestRefresherEmptyUniverse(t *testing.T) {
	fetcher := newFakeFetcher()
	r := NewRefresher(fetcher, NewCache(), 5, zerolog.Nop())
	require.NoError(t, r.Refresh(context.Background(), nil))
	assert.Empty(t, fetcher.calls)
}

func TestRefresherBoundsConcurrency(t *testing.T) {
	fetcher := newFakeFetcher()
	for _, s := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		fetcher.quotes[s] = models.Quote{Symbol: s, Price: 1}
	}

	r := NewRefresher(fetcher, NewCache(), 2, zerolog.Nop())
	err := r.Refresh(context.Background(), []string{"A", "B", "C", "D", "E", "F", "G"})
	require.NoError(t, err)

	assert.LessOrEqual(t, fetcher.maxSeen.Load(), int32(2),
		"requests within a batch run concurrently but batches are sequential")
}

func TestUniverse(t *testing.T) {
	universe := Universe([]string{"SOFI", "ZZZZ"})

	seen := make(map[string]bool)
	for _, s := range universe {
		assert.False(t, seen[s], "duplicate symbol %s", s)
		seen[s] = true
	}

	// position tickers, tier tickers and index symbols are all present
	assert.True(t, seen["ZZZZ"])
	assert.True(t, seen["NVDA"])
	assert.True(t, seen["SPY"])
	assert.True(t, seen["VIX"])
}

func TestRefresherDropsOverlappingTriggers(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.quotes["SOFI"] = models.Quote{Symbol: "SOFI", Price: 8.9}
	fetcher.block = make(chan struct{})

	cache := NewCache()
	r := NewRefresher(fetcher, cache, 5, zerolog.Nop())

	done := make(chan error, 1)
	go func() {
		done <- r.Refresh(context.Background(), []string{"SOFI"})
	}()

	// wait for the first run to be in flight
	for !r.inFlight.Load() {
		time.Sleep(time.Millisecond)
	}

	err := r.Refresh(context.Background(), []string{"SOFI"})
	require.ErrorIs(t, err, ErrRefreshInProgress)

	close(fetcher.block)
	require.NoError(t, <-done)

	// the dropped trigger caused no second fetch
	assert.Equal(t, 1, fetcher.calls["SOFI"])
}
