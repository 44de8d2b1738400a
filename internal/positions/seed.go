package positions

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/trogers1052/wheel-tracker/internal/models"
)

// SeedPositions returns the built-in example portfolio used when no
// snapshot exists or the stored one cannot be read. DTE values are
// placeholders; the store recomputes them on load.
func SeedPositions() []models.Position {
	return []models.Position{
		seed("SOFI", models.KindCashSecuredPut, "8.5", "0.32", 3, "2026-03-06", models.StatusActivePut, "2026-01-28", 0.20, 52.3),
		seed("NIO", models.KindCashSecuredPut, "4.5", "0.18", 5, "2026-03-13", models.StatusActivePut, "2026-01-26", 0.18, 68.1),
		seed("VALE", models.KindCoveredCall, "11.0", "0.25", 2, "2026-02-27", models.StatusActiveCall, "2026-01-25", 0.22, 35.7),
		seed("INTC", models.KindCashSecuredPut, "20.0", "0.55", 1, "2026-03-20", models.StatusActivePut, "2026-01-27", 0.19, 44.8),
		seed("SOFI", models.KindCashSecuredPut, "9.0", "0.28", 3, "2026-01-23", models.StatusClosedProfit, "2026-01-02", 0.21, 49.1),
		seed("NIO", models.KindCoveredCall, "5.0", "0.15", 5, "2026-01-16", models.StatusClosedProfit, "2025-12-18", 0.23, 71.2),
	}
}

func seed(ticker string, kind models.Kind, strike, premium string, contracts int, expiry string, status models.Status, opened string, delta, iv float64) models.Position {
	exp, _ := time.Parse("2006-01-02", expiry)
	open, _ := time.Parse("2006-01-02", opened)
	return models.Position{
		ID:        uuid.NewString(),
		Ticker:    ticker,
		Kind:      kind,
		Strike:    decimal.RequireFromString(strike),
		Premium:   decimal.RequireFromString(premium),
		Contracts: contracts,
		Expiry:    exp,
		Status:    status,
		OpenDate:  open,
		Delta:     delta,
		IV:        iv,
	}
}
