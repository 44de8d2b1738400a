package quotes

import (
	"sync"
	"time"

	"github.com/trogers1052/wheel-tracker/internal/models"
)

// HistoryLimit caps the rolling close-price window per symbol
const HistoryLimit = 20

// Cache holds the latest quote and a rolling price history per symbol.
// The refresh pipeline is its only writer.
type Cache struct {
	mu            sync.RWMutex
	quotes        map[string]models.Quote
	history       map[string][]float64
	lastRefreshed time.Time
}

// NewCache creates an empty quote cache
func NewCache() *Cache {
	return &Cache{
		quotes:  make(map[string]models.Quote),
		history: make(map[string][]float64),
	}
}

// Upsert overwrites the latest quote for a symbol wholesale and merges
// its price history. A quote carrying its own close series replaces the
// window (truncated to the last HistoryLimit points); otherwise the
// latest price is appended and the oldest points are evicted.
func (c *Cache) Upsert(symbol string, q models.Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.quotes[symbol] = q

	switch {
	case len(q.Closes) > 0:
		c.history[symbol] = tail(q.Closes, HistoryLimit)
	case q.Price != 0:
		c.history[symbol] = tail(append(c.history[symbol], q.Price), HistoryLimit)
	}
}

// Get returns the latest quote for a symbol, if any
func (c *Cache) Get(symbol string) (models.Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.quotes[symbol]
	return q, ok
}

// History returns the rolling close window for a symbol, oldest first
func (c *Cache) History(symbol string) []float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h := c.history[symbol]
	out := make([]float64, len(h))
	copy(out, h)
	return out
}

// HasTrend reports whether the symbol has enough history to render a
// trend line. Fewer than two points is not a trend.
func (c *Cache) HasTrend(symbol string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.history[symbol]) >= 2
}

// Snapshot returns a copy of every cached quote keyed by symbol
func (c *Cache) Snapshot() map[string]models.Quote {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]models.Quote, len(c.quotes))
	for sym, q := range c.quotes {
		out[sym] = q
	}
	return out
}

// SetLastRefreshed records the completion time of a refresh run
func (c *Cache) SetLastRefreshed(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastRefreshed = t
}

// LastRefreshed returns the completion time of the most recent
// successful refresh run, zero if none has completed.
func (c *Cache) LastRefreshed() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastRefreshed
}

func tail(vals []float64, n int) []float64 {
	if len(vals) > n {
		vals = vals[len(vals)-n:]
	}
	out := make([]float64, len(vals))
	copy(out, vals)
	return out
}
