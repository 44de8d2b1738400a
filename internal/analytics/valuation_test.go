package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trogers1052/wheel-tracker/internal/models"
)

func csp(strike, premium string, contracts int, status models.Status) models.Position {
	return models.Position{
		ID: "p", Ticker: "X", Kind: models.KindCashSecuredPut,
		Strike:    decimal.RequireFromString(strike),
		Premium:   decimal.RequireFromString(premium),
		Contracts: contracts, Status: status,
	}
}

func quoteAt(price float64) *models.Quote {
	return &models.Quote{Symbol: "X", Price: price}
}

func TestValueCashSecuredPut(t *testing.T) {
	pos := csp("10", "0.5", 1, models.StatusActivePut)

	cases := []struct {
		name  string
		price float64
		want  string
	}{
		{"above strike keeps the full premium", 12, "50"},
		{"between cushion and strike nets intrinsic against premium", 9.7, "80"},
		{"exactly at the strike", 10, "50"},
		{"exactly at the cushion", 9.5, "100"},
		{"below the cushion goes negative", 9.3, "-20"},
		{"well below the cushion", 9, "-50"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, ok := Value(pos, quoteAt(tc.price))
			require.True(t, ok)
			assert.True(t, v.Amount.Equal(decimal.RequireFromString(tc.want)),
				"got %s, want %s", v.Amount, tc.want)
			assert.False(t, v.Realized)
		})
	}

	t.Run("scales with contract count", func(t *testing.T) {
		v, ok := Value(csp("10", "0.5", 3, models.StatusActivePut), quoteAt(9))
		require.True(t, ok)
		assert.True(t, v.Amount.Equal(decimal.NewFromInt(-150)), "got %s", v.Amount)
	})
}

func TestValueCoveredCall(t *testing.T) {
	pos := models.Position{
		Ticker: "X", Kind: models.KindCoveredCall,
		Strike:    decimal.NewFromInt(20),
		Premium:   decimal.RequireFromString("0.75"),
		Contracts: 2, Status: models.StatusActiveCall,
	}

	// the premium is locked in regardless of where spot trades
	for _, price := range []float64{15, 20, 25} {
		v, ok := Value(pos, quoteAt(price))
		require.True(t, ok)
		assert.True(t, v.Amount.Equal(decimal.NewFromInt(150)))
		assert.False(t, v.Realized)
	}
}

func TestValueTerminalStatuses(t *testing.T) {
	for _, status := range []models.Status{
		models.StatusClosedProfit, models.StatusClosedLoss, models.StatusRolled,
	} {
		t.Run(string(status), func(t *testing.T) {
			v, ok := Value(csp("10", "0.5", 2, status), nil)
			require.True(t, ok, "closed positions do not need a quote")
			assert.True(t, v.Amount.Equal(decimal.NewFromInt(100)))
			assert.True(t, v.Realized)
		})
	}
}

func TestValueIndeterminate(t *testing.T) {
	t.Run("open position without a quote", func(t *testing.T) {
		_, ok := Value(csp("10", "0.5", 1, models.StatusActivePut), nil)
		assert.False(t, ok)
	})

	t.Run("open position with a zero price", func(t *testing.T) {
		_, ok := Value(csp("10", "0.5", 1, models.StatusActivePut), quoteAt(0))
		assert.False(t, ok)
	})

	t.Run("assigned position has no options P/L", func(t *testing.T) {
		_, ok := Value(csp("10", "0.5", 1, models.StatusAssigned), quoteAt(11))
		assert.False(t, ok)
	})
}
