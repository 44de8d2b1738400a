package positions

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/trogers1052/wheel-tracker/internal/models"
)

// Repository persists the full position snapshot as a single blob.
// Persistence is best-effort: the store never fails a mutation because
// a save failed.
type Repository interface {
	Load(ctx context.Context) ([]models.Position, error)
	Save(ctx context.Context, positions []models.Position) error
}

// Store owns the canonical set of positions. It is the single writer;
// all reads hand out copies.
type Store struct {
	mu        sync.Mutex
	repo      Repository
	log       zerolog.Logger
	positions []models.Position
	now       func() time.Time
}

// NewStore creates an empty store backed by repo. Call Load before use.
func NewStore(repo Repository, log zerolog.Logger) *Store {
	return &Store{
		repo: repo,
		log:  log.With().Str("component", "positions").Logger(),
		now:  time.Now,
	}
}

// Load reads the persisted snapshot once at startup. An absent or
// unreadable snapshot falls back to the built-in seed portfolio. DTE is
// recomputed for every loaded position.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loaded, err := s.repo.Load(ctx)
	switch {
	case err == nil:
		s.positions = loaded
	case errors.Is(err, ErrNoSnapshot):
		s.log.Info().Msg("no stored snapshot, seeding default positions")
		s.positions = SeedPositions()
	default:
		s.log.Warn().Err(err).Msg("snapshot unreadable, seeding default positions")
		s.positions = SeedPositions()
	}

	now := s.now()
	for i := range s.positions {
		s.positions[i].DTE = s.positions[i].DaysToExpiry(now)
	}
}

// OpenRequest carries the caller-supplied fields for a new position
type OpenRequest struct {
	Ticker    string          `json:"ticker"`
	Kind      models.Kind     `json:"type"`
	Strike    decimal.Decimal `json:"strike"`
	Premium   decimal.Decimal `json:"premium"`
	Contracts int             `json:"contracts"`
	Expiry    string          `json:"expiry"`
	Delta     float64         `json:"delta"`
	IV        float64         `json:"iv"`
}

// Open validates the request and creates a new position. The id is
// assigned here, DTE is computed from the expiry, and the status
// follows the contract kind.
func (s *Store) Open(ctx context.Context, req OpenRequest) (models.Position, error) {
	ticker := strings.ToUpper(strings.TrimSpace(req.Ticker))
	if ticker == "" {
		return models.Position{}, &ValidationError{Field: "ticker", Reason: "is required"}
	}
	if !req.Kind.Valid() {
		return models.Position{}, &ValidationError{Field: "type", Reason: "must be a cash-secured put or covered call"}
	}
	if !req.Strike.IsPositive() {
		return models.Position{}, &ValidationError{Field: "strike", Reason: "must be positive"}
	}
	if !req.Premium.IsPositive() {
		return models.Position{}, &ValidationError{Field: "premium", Reason: "must be positive"}
	}
	if req.Contracts < 1 {
		return models.Position{}, &ValidationError{Field: "contracts", Reason: "must be at least 1"}
	}
	if req.IV < 0 {
		return models.Position{}, &ValidationError{Field: "iv", Reason: "must not be negative"}
	}

	expiry, err := time.Parse("2006-01-02", req.Expiry)
	if err != nil {
		return models.Position{}, &ValidationError{Field: "expiry", Reason: "must be a valid date (YYYY-MM-DD)"}
	}

	now := s.now()
	if !expiry.After(now) {
		return models.Position{}, &ValidationError{Field: "expiry", Reason: "must be in the future"}
	}

	status := models.StatusActivePut
	if req.Kind == models.KindCoveredCall {
		status = models.StatusActiveCall
	}

	pos := models.Position{
		ID:        uuid.NewString(),
		Ticker:    ticker,
		Kind:      req.Kind,
		Strike:    req.Strike,
		Premium:   req.Premium,
		Contracts: req.Contracts,
		Expiry:    expiry,
		Status:    status,
		OpenDate:  now,
		Delta:     req.Delta,
		IV:        req.IV,
	}
	pos.DTE = pos.DaysToExpiry(now)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions = append(s.positions, pos)
	s.persist(ctx)
	return pos, nil
}

// UpdateStatus replaces the status of an existing position, leaving
// every other field untouched.
func (s *Store) UpdateStatus(ctx context.Context, id string, status models.Status) (models.Position, error) {
	if !status.Valid() {
		return models.Position{}, &ValidationError{Field: "status", Reason: "is not a known status"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.positions {
		if s.positions[i].ID == id {
			s.positions[i].Status = status
			s.persist(ctx)
			return s.positions[i], nil
		}
	}
	return models.Position{}, &NotFoundError{ID: id}
}

// Replace overwrites every field of an existing position except its id
func (s *Store) Replace(ctx context.Context, id string, pos models.Position) (models.Position, error) {
	if !pos.Kind.Valid() {
		return models.Position{}, &ValidationError{Field: "type", Reason: "is not a known contract kind"}
	}
	if !pos.Status.Valid() {
		return models.Position{}, &ValidationError{Field: "status", Reason: "is not a known status"}
	}
	if !pos.Strike.IsPositive() {
		return models.Position{}, &ValidationError{Field: "strike", Reason: "must be positive"}
	}
	if !pos.Premium.IsPositive() {
		return models.Position{}, &ValidationError{Field: "premium", Reason: "must be positive"}
	}
	if pos.Contracts < 1 {
		return models.Position{}, &ValidationError{Field: "contracts", Reason: "must be at least 1"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.positions {
		if s.positions[i].ID == id {
			pos.ID = id
			pos.Ticker = strings.ToUpper(strings.TrimSpace(pos.Ticker))
			pos.DTE = pos.DaysToExpiry(s.now())
			s.positions[i] = pos
			s.persist(ctx)
			return pos, nil
		}
	}
	return models.Position{}, &NotFoundError{ID: id}
}

// Delete removes a position. The quote cache is untouched.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.positions {
		if s.positions[i].ID == id {
			s.positions = append(s.positions[:i], s.positions[i+1:]...)
			s.persist(ctx)
			return nil
		}
	}
	return &NotFoundError{ID: id}
}

// RecomputeDTE refreshes the cached days-to-expiry of every position
// from its stored expiry. No other field is altered; calling it twice
// with the same instant is a no-op the second time.
func (s *Store) RecomputeDTE(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.positions {
		s.positions[i].DTE = s.positions[i].DaysToExpiry(now)
	}
}

// List returns a snapshot of all positions in insertion order
func (s *Store) List() []models.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Position, len(s.positions))
	copy(out, s.positions)
	return out
}

// Tickers returns the distinct set of tickers referenced by any position
func (s *Store) Tickers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, p := range s.positions {
		if !seen[p.Ticker] {
			seen[p.Ticker] = true
			out = append(out, p.Ticker)
		}
	}
	return out
}

// persist writes the current snapshot. Failures are logged and
// swallowed: the in-memory mutation has already taken effect.
// Callers must hold s.mu.
func (s *Store) persist(ctx context.Context) {
	snapshot := make([]models.Position, len(s.positions))
	copy(snapshot, s.positions)
	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist position snapshot")
	}
}
