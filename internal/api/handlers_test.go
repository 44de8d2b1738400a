package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trogers1052/wheel-tracker/internal/models"
	"github.com/trogers1052/wheel-tracker/internal/positions"
	"github.com/trogers1052/wheel-tracker/internal/quotes"
)

type stubRepo struct{}

func (stubRepo) Load(ctx context.Context) ([]models.Position, error) {
	return nil, positions.ErrNoSnapshot
}

func (stubRepo) Save(ctx context.Context, ps []models.Position) error {
	return nil
}

// ctxSensitiveFetcher fails any fetch whose context has been cancelled
type ctxSensitiveFetcher struct{}

func (ctxSensitiveFetcher) Fetch(ctx context.Context, symbol string) (models.Quote, error) {
	if err := ctx.Err(); err != nil {
		return models.Quote{}, err
	}
	return models.Quote{Symbol: symbol, Price: 1}, nil
}

func TestRefreshSurvivesClientDisconnect(t *testing.T) {
	store := positions.NewStore(stubRepo{}, zerolog.Nop())
	cache := quotes.NewCache()
	refresher := quotes.NewRefresher(ctxSensitiveFetcher{}, cache, 5, zerolog.Nop())
	handler := NewHandler(store, cache, refresher, nil, zerolog.Nop())

	// the client is gone before the run starts
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/refresh", nil).WithContext(ctx)
	rr := httptest.NewRecorder()

	handler.Refresh(rr, req)

	require.Equal(t, http.StatusOK, rr.Code, "body: %s", rr.Body.String())
	_, ok := cache.Get("SPY")
	assert.True(t, ok, "the run completed despite the dead request context")
	assert.False(t, cache.LastRefreshed().IsZero())
}
