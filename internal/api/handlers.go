package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/trogers1052/wheel-tracker/internal/analytics"
	"github.com/trogers1052/wheel-tracker/internal/kafka"
	"github.com/trogers1052/wheel-tracker/internal/models"
	"github.com/trogers1052/wheel-tracker/internal/positions"
	"github.com/trogers1052/wheel-tracker/internal/quotes"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	store     *positions.Store
	cache     *quotes.Cache
	refresher *quotes.Refresher
	producer  *kafka.Producer
	log       zerolog.Logger
}

// NewHandler creates a new Handler. producer may be nil when event
// publishing is disabled.
func NewHandler(store *positions.Store, cache *quotes.Cache, refresher *quotes.Refresher, producer *kafka.Producer, log zerolog.Logger) *Handler {
	return &Handler{
		store:     store,
		cache:     cache,
		refresher: refresher,
		producer:  producer,
		log:       log.With().Str("component", "api").Logger(),
	}
}

// ListPositions handles GET /positions with optional sort/dir/status
// query parameters.
func (h *Handler) ListPositions(w http.ResponseWriter, r *http.Request) {
	ps := h.store.List()

	switch r.URL.Query().Get("status") {
	case "open":
		ps = positions.FilterOpen(ps)
	case "closed":
		ps = positions.FilterTerminal(ps)
	}

	if col := r.URL.Query().Get("sort"); col != "" {
		positions.Sort(ps, col, r.URL.Query().Get("dir") == "desc")
	}

	respondJSON(w, http.StatusOK, ps)
}

// OpenPosition handles POST /positions
func (h *Handler) OpenPosition(w http.ResponseWriter, r *http.Request) {
	var req positions.OpenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	pos, err := h.store.Open(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishPositionOpened(r.Context(), &pos); err != nil {
			h.log.Warn().Err(err).Str("id", pos.ID).Msg("failed to publish position opened event")
		}
	}

	respondJSON(w, http.StatusCreated, pos)
}

// UpdateStatus handles PATCH /positions/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Status models.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	pos, err := h.store.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		respondError(w, err)
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishPositionUpdated(r.Context(), &pos); err != nil {
			h.log.Warn().Err(err).Str("id", pos.ID).Msg("failed to publish position updated event")
		}
	}

	respondJSON(w, http.StatusOK, pos)
}

// ReplacePosition handles PUT /positions/{id}
func (h *Handler) ReplacePosition(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var pos models.Position
	if err := json.NewDecoder(r.Body).Decode(&pos); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	replaced, err := h.store.Replace(r.Context(), id, pos)
	if err != nil {
		respondError(w, err)
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishPositionUpdated(r.Context(), &replaced); err != nil {
			h.log.Warn().Err(err).Str("id", replaced.ID).Msg("failed to publish position updated event")
		}
	}

	respondJSON(w, http.StatusOK, replaced)
}

// DeletePosition handles DELETE /positions/{id}
func (h *Handler) DeletePosition(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.store.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	if h.producer != nil {
		if err := h.producer.PublishPositionDeleted(r.Context(), id); err != nil {
			h.log.Warn().Err(err).Str("id", id).Msg("failed to publish position deleted event")
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetQuotes handles GET /quotes
func (h *Handler) GetQuotes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"quotes":         h.cache.Snapshot(),
		"last_refreshed": nullableTime(h.cache.LastRefreshed()),
	})
}

// GetQuote handles GET /quotes/{symbol}
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	quote, ok := h.cache.Get(symbol)
	if !ok {
		http.Error(w, "no quote for symbol", http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"quote":   quote,
		"history": h.cache.History(symbol),
	})
}

// Refresh handles POST /refresh, the manual refresh trigger
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	universe := quotes.Universe(h.store.Tickers())

	// a started run completes every batch even if the triggering
	// client disconnects
	err := h.refresher.Refresh(context.WithoutCancel(r.Context()), universe)
	switch {
	case errors.Is(err, quotes.ErrRefreshInProgress):
		// overlapping triggers are dropped, not queued
		respondJSON(w, http.StatusConflict, map[string]string{"status": "refresh already running"})
	case errors.Is(err, quotes.ErrRefreshUnavailable):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case err != nil:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	default:
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"status":         "refreshed",
			"last_refreshed": nullableTime(h.cache.LastRefreshed()),
		})
	}
}

// GetSummary handles GET /analytics/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, analytics.Summarize(h.store.List()))
}

// GetSectorAllocation handles GET /analytics/sectors
func (h *Handler) GetSectorAllocation(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, analytics.SectorAllocation(h.store.List()))
}

// GetTierBreakdown handles GET /analytics/tiers
func (h *Handler) GetTierBreakdown(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, analytics.TierBreakdown(h.store.List()))
}

// GetTickerPerformance handles GET /analytics/tickers
func (h *Handler) GetTickerPerformance(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, analytics.TickerPerformance(h.store.List()))
}

// GetValuations handles GET /valuations: the P/L of every position
// against the current quote cache.
func (h *Handler) GetValuations(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		PositionID string               `json:"position_id"`
		Valuation  *analytics.Valuation `json:"valuation,omitempty"`
	}

	ps := h.store.List()
	out := make([]entry, 0, len(ps))
	for _, p := range ps {
		e := entry{PositionID: p.ID}
		var quote *models.Quote
		if q, ok := h.cache.Get(p.Ticker); ok {
			quote = &q
		}
		if v, ok := analytics.Value(p, quote); ok {
			e.Valuation = &v
		}
		out = append(out, e)
	}
	respondJSON(w, http.StatusOK, out)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func respondError(w http.ResponseWriter, err error) {
	var validation *positions.ValidationError
	var notFound *positions.NotFoundError
	switch {
	case errors.As(err, &validation):
		http.Error(w, validation.Error(), http.StatusBadRequest)
	case errors.As(err, &notFound):
		http.Error(w, notFound.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
