package quotes

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/trogers1052/wheel-tracker/internal/config"
	"github.com/trogers1052/wheel-tracker/internal/models"
)

// ErrRefreshUnavailable reports a run in which every symbol failed.
// Transient and retryable; previously cached quotes stay intact.
var ErrRefreshUnavailable = errors.New("quote provider unreachable or rate-limiting")

// ErrRefreshInProgress reports a trigger that arrived while a run was
// active. Triggers are dropped, not queued.
var ErrRefreshInProgress = errors.New("refresh already in progress")

// Fetcher retrieves the latest quote for one display symbol
type Fetcher interface {
	Fetch(ctx context.Context, symbol string) (models.Quote, error)
}

// Refresher fetches quotes for a symbol universe in rate-limited
// batches and merges the results into the cache.
type Refresher struct {
	fetcher   Fetcher
	cache     *Cache
	log       zerolog.Logger
	batchSize int
	inFlight  atomic.Bool
}

// NewRefresher creates a refresher writing into cache
func NewRefresher(fetcher Fetcher, cache *Cache, batchSize int, log zerolog.Logger) *Refresher {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Refresher{
		fetcher:   fetcher,
		cache:     cache,
		log:       log.With().Str("component", "refresher").Logger(),
		batchSize: batchSize,
	}
}

// Refresh fetches every symbol in the universe. Symbols are deduplicated
// and partitioned into fixed-size batches; requests within a batch run
// concurrently while batches themselves are sequential, bounding peak
// outbound concurrency to the batch size. A failed symbol is logged,
// skipped, and leaves its previously cached quote untouched. Only one
// run may be active at a time; overlapping triggers return
// ErrRefreshInProgress.
func (r *Refresher) Refresh(ctx context.Context, symbols []string) error {
	if !r.inFlight.CompareAndSwap(false, true) {
		return ErrRefreshInProgress
	}
	defer r.inFlight.Store(false)

	universe := dedupe(symbols)
	if len(universe) == 0 {
		return nil
	}

	start := time.Now()
	results := make(map[string]models.Quote, len(universe))
	var mu sync.Mutex

	for i := 0; i < len(universe); i += r.batchSize {
		batch := universe[i:min(i+r.batchSize, len(universe))]

		var wg sync.WaitGroup
		for _, symbol := range batch {
			wg.Add(1)
			go func(symbol string) {
				defer wg.Done()
				quote, err := r.fetcher.Fetch(ctx, symbol)
				if err != nil {
					r.log.Warn().Err(err).Str("symbol", symbol).Msg("quote fetch failed")
					return
				}
				mu.Lock()
				results[symbol] = quote
				mu.Unlock()
			}(symbol)
		}
		wg.Wait()
	}

	if len(results) == 0 {
		return ErrRefreshUnavailable
	}

	for symbol, quote := range results {
		r.cache.Upsert(symbol, quote)
	}
	r.cache.SetLastRefreshed(time.Now())

	r.log.Info().
		Int("requested", len(universe)).
		Int("fetched", len(results)).
		Dur("elapsed", time.Since(start)).
		Msg("quote refresh complete")
	return nil
}

// Universe composes the refresh symbol set: every ticker referenced by
// a position, every ticker in the tier configuration, and the fixed
// index symbols.
func Universe(positionTickers []string) []string {
	var all []string
	all = append(all, positionTickers...)
	all = append(all, config.TierTickers()...)
	all = append(all, config.IndexSymbols...)
	return dedupe(all)
}

func dedupe(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	var out []string
	for _, s := range symbols {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
