package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/trogers1052/wheel-tracker/internal/models"
)

// Valuation is the profit/loss figure for a single position
type Valuation struct {
	Amount decimal.Decimal `json:"amount"`
	// Realized marks a closed position's locked-in premium, as opposed
	// to an open position's mark-to-market figure.
	Realized bool `json:"realized"`
}

var shares = decimal.NewFromInt(100)

// Value computes the P/L of a position against its current quote.
// quote may be nil when no fetch has succeeded for the ticker; open
// positions are then indeterminate (ok=false) rather than zero.
//
// Open covered calls report the full collected premium regardless of
// spot: assignment risk is handled by a status change, not priced
// continuously. This is a deliberate simplification, kept because
// changing it would change every downstream figure.
//
// Open cash-secured puts have two pricing regimes split at the strike:
// above it the put expires worthless and the premium is kept; at or
// below it the intrinsic loss on the secured shares applies, offset by
// the premium, going negative once spot falls through the
// strike-minus-premium cushion.
func Value(p models.Position, quote *models.Quote) (Valuation, bool) {
	if p.Status.Terminal() {
		return Valuation{Amount: p.TotalPremium(), Realized: true}, true
	}
	if !p.Status.Open() {
		return Valuation{}, false
	}
	if quote == nil || quote.Price == 0 {
		return Valuation{}, false
	}

	if p.Kind == models.KindCoveredCall {
		return Valuation{Amount: p.TotalPremium()}, true
	}

	market := decimal.NewFromFloat(quote.Price)
	contracts := decimal.NewFromInt(int64(p.Contracts))

	if market.GreaterThan(p.Strike) {
		return Valuation{Amount: p.TotalPremium()}, true
	}

	cushion := p.Strike.Sub(p.Premium)
	if market.LessThan(cushion) {
		amount := market.Sub(p.Strike).Add(p.Premium).Mul(shares).Mul(contracts)
		return Valuation{Amount: amount}, true
	}

	amount := p.Strike.Sub(market).Add(p.Premium).Mul(shares).Mul(contracts)
	return Valuation{Amount: amount}, true
}
