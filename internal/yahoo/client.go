package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/trogers1052/wheel-tracker/internal/config"
	"github.com/trogers1052/wheel-tracker/internal/models"
)

// Client fetches quotes from the Yahoo Finance v8 chart API. The API is
// per-symbol; batching and failure isolation live in the refresh
// pipeline, not here.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a chart API client with a bounded per-request
// timeout so one stalled symbol cannot stall its batch indefinitely.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("component", "yahoo").Logger(),
	}
}

// chartResponse mirrors the subset of the v8 chart payload we read.
// Optional fields are pointers so absence is distinguishable from zero.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
	} `json:"chart"`
}

type chartResult struct {
	Meta       chartMeta `json:"meta"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

type chartMeta struct {
	RegularMarketPrice   *float64 `json:"regularMarketPrice"`
	ChartPreviousClose   *float64 `json:"chartPreviousClose"`
	PreviousClose        *float64 `json:"previousClose"`
	RegularMarketDayHigh *float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow  *float64 `json:"regularMarketDayLow"`
	RegularMarketVolume  *float64 `json:"regularMarketVolume"`
}

type chartQuote struct {
	Close []*float64 `json:"close"`
}

// Fetch retrieves the latest quote for one display symbol, translating
// it to the provider wire symbol where an alias exists.
func (c *Client) Fetch(ctx context.Context, symbol string) (models.Quote, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1mo", c.baseURL, config.WireSymbol(symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Quote{}, fmt.Errorf("failed to build request for %s: %w", symbol, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return models.Quote{}, fmt.Errorf("failed to fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Quote{}, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, symbol)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.Quote{}, fmt.Errorf("failed to decode payload for %s: %w", symbol, err)
	}

	if len(payload.Chart.Result) == 0 {
		return models.Quote{}, fmt.Errorf("empty chart result for %s", symbol)
	}
	result := payload.Chart.Result[0]
	meta := result.Meta

	if meta.RegularMarketPrice == nil {
		return models.Quote{}, fmt.Errorf("missing market price for %s", symbol)
	}
	price := *meta.RegularMarketPrice

	prevClose := 0.0
	if meta.ChartPreviousClose != nil {
		prevClose = *meta.ChartPreviousClose
	} else if meta.PreviousClose != nil {
		prevClose = *meta.PreviousClose
	}

	change := price - prevClose
	changePct := 0.0
	if prevClose != 0 {
		changePct = change / prevClose * 100
	}

	quote := models.Quote{
		Symbol:    symbol,
		Price:     price,
		Change:    round2(change),
		ChangePct: round2(changePct),
		Closes:    recentCloses(result.Indicators.Quote, HistoryPoints),
		FetchedAt: time.Now(),
	}
	if meta.RegularMarketDayHigh != nil {
		quote.DayHigh = *meta.RegularMarketDayHigh
	}
	if meta.RegularMarketDayLow != nil {
		quote.DayLow = *meta.RegularMarketDayLow
	}
	if meta.RegularMarketVolume != nil && *meta.RegularMarketVolume > 0 {
		quote.Volume = fmt.Sprintf("%.1fM", *meta.RegularMarketVolume/1e6)
	}

	c.log.Debug().Str("symbol", symbol).Float64("price", price).Msg("fetched quote")
	return quote, nil
}

// HistoryPoints is the number of trailing daily closes extracted per fetch
const HistoryPoints = 20

func recentCloses(quoteSeries []chartQuote, limit int) []float64 {
	if len(quoteSeries) == 0 {
		return nil
	}
	var closes []float64
	for _, v := range quoteSeries[0].Close {
		if v != nil {
			closes = append(closes, *v)
		}
	}
	if len(closes) > limit {
		closes = closes[len(closes)-limit:]
	}
	return closes
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
