package analytics

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/trogers1052/wheel-tracker/internal/config"
	"github.com/trogers1052/wheel-tracker/internal/models"
)

// Summary holds portfolio-level aggregates. Every field is zero-valued
// for an empty position set; AnnualizedROI is nil when no capital is
// at risk.
type Summary struct {
	TotalPremium  decimal.Decimal `json:"total_premium"`
	ActivePremium decimal.Decimal `json:"active_premium"`
	CapitalAtRisk decimal.Decimal `json:"capital_at_risk"`
	AvgDelta      float64         `json:"avg_delta"`
	AvgDTE        int             `json:"avg_dte"`
	WinRate       float64         `json:"win_rate"`
	Wins          int             `json:"wins"`
	Losses        int             `json:"losses"`
	OpenCount     int             `json:"open_count"`
	ClosedCount   int             `json:"closed_count"`
	TotalCount    int             `json:"total_count"`
	AnnualizedROI *float64        `json:"annualized_roi,omitempty"`
}

// Summarize computes portfolio aggregates from a position snapshot.
// Pure function: no engine state is read or written.
func Summarize(ps []models.Position) Summary {
	s := Summary{
		TotalPremium:  decimal.Zero,
		ActivePremium: decimal.Zero,
		CapitalAtRisk: decimal.Zero,
		TotalCount:    len(ps),
	}

	deltaSum := 0.0
	dteSum := 0
	for _, p := range ps {
		s.TotalPremium = s.TotalPremium.Add(p.TotalPremium())
		switch {
		case p.Status.Open():
			s.OpenCount++
			s.ActivePremium = s.ActivePremium.Add(p.TotalPremium())
			s.CapitalAtRisk = s.CapitalAtRisk.Add(p.CapitalAtRisk())
			deltaSum += p.Delta
			// expired-but-unclosed positions must not drag the mean negative
			if p.DTE > 0 {
				dteSum += p.DTE
			}
		case p.Status.Terminal():
			s.ClosedCount++
			switch p.Status {
			case models.StatusClosedProfit:
				s.Wins++
			case models.StatusClosedLoss:
				s.Losses++
			}
		}
	}

	if s.OpenCount > 0 {
		s.AvgDelta = deltaSum / float64(s.OpenCount)
		s.AvgDTE = int(math.Round(float64(dteSum) / float64(s.OpenCount)))
	}
	if s.ClosedCount > 0 {
		s.WinRate = float64(s.Wins) / float64(s.ClosedCount) * 100
	}
	if s.CapitalAtRisk.IsPositive() {
		roi := s.TotalPremium.InexactFloat64() / s.CapitalAtRisk.InexactFloat64() *
			(365 / math.Max(float64(s.AvgDTE), 1)) * 100
		s.AnnualizedROI = &roi
	}

	return s
}

// SectorSlice is one sector's share of open capital
type SectorSlice struct {
	Sector  string          `json:"sector"`
	Capital decimal.Decimal `json:"capital"`
	Pct     float64         `json:"pct"`
}

// SectorAllocation groups open positions by sector, summing reserved
// capital per sector and expressing it as a percentage of the total.
// Unmapped tickers fall into the "Other" bucket. Sorted by capital,
// largest first.
func SectorAllocation(ps []models.Position) []SectorSlice {
	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, p := range ps {
		if !p.Status.Open() {
			continue
		}
		sector := config.SectorFor(p.Ticker)
		if _, ok := totals[sector]; !ok {
			order = append(order, sector)
		}
		totals[sector] = totals[sector].Add(p.CapitalAtRisk())
	}

	total := decimal.Zero
	for _, v := range totals {
		total = total.Add(v)
	}

	slices := make([]SectorSlice, 0, len(order))
	for _, sector := range order {
		capital := totals[sector]
		pct := 0.0
		if total.IsPositive() {
			pct = capital.Div(total).InexactFloat64() * 100
		}
		slices = append(slices, SectorSlice{Sector: sector, Capital: capital, Pct: pct})
	}
	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Capital.GreaterThan(slices[j].Capital)
	})
	return slices
}

// TierStat summarizes open positions belonging to one capital tier
type TierStat struct {
	Key     string          `json:"key"`
	Label   string          `json:"label"`
	Count   int             `json:"count"`
	Capital decimal.Decimal `json:"capital"`
	Premium decimal.Decimal `json:"premium"`
	Pct     float64         `json:"pct"`
}

// TierBreakdown sums open capital and premium per configured tier.
// Percentages are relative to total capital at risk.
func TierBreakdown(ps []models.Position) []TierStat {
	open := make([]models.Position, 0, len(ps))
	totalCapital := decimal.Zero
	for _, p := range ps {
		if p.Status.Open() {
			open = append(open, p)
			totalCapital = totalCapital.Add(p.CapitalAtRisk())
		}
	}

	stats := make([]TierStat, 0, len(config.Tiers()))
	for _, tier := range config.Tiers() {
		members := make(map[string]bool, len(tier.Tickers))
		for _, t := range tier.Tickers {
			members[t] = true
		}

		stat := TierStat{Key: tier.Key, Label: tier.Label, Capital: decimal.Zero, Premium: decimal.Zero}
		for _, p := range open {
			if !members[p.Ticker] {
				continue
			}
			stat.Count++
			stat.Capital = stat.Capital.Add(p.CapitalAtRisk())
			stat.Premium = stat.Premium.Add(p.TotalPremium())
		}
		if totalCapital.IsPositive() {
			stat.Pct = stat.Capital.Div(totalCapital).InexactFloat64() * 100
		}
		stats = append(stats, stat)
	}
	return stats
}

// TickerStats aggregates every position ever opened on one ticker
type TickerStats struct {
	Ticker  string          `json:"ticker"`
	Premium decimal.Decimal `json:"premium"`
	Trades  int             `json:"trades"`
	Open    int             `json:"open"`
	Wins    int             `json:"wins"`
}

// TickerPerformance aggregates per-ticker totals over all positions,
// in first-appearance order.
func TickerPerformance(ps []models.Position) []TickerStats {
	index := make(map[string]int)
	var stats []TickerStats
	for _, p := range ps {
		i, ok := index[p.Ticker]
		if !ok {
			i = len(stats)
			index[p.Ticker] = i
			stats = append(stats, TickerStats{Ticker: p.Ticker, Premium: decimal.Zero})
		}
		stats[i].Trades++
		stats[i].Premium = stats[i].Premium.Add(p.TotalPremium())
		if p.Status.Open() {
			stats[i].Open++
		}
		if p.Status == models.StatusClosedProfit {
			stats[i].Wins++
		}
	}
	return stats
}
