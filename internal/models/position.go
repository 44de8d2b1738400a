package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies the option contract type of a position
type Kind string

const (
	KindCashSecuredPut Kind = "Cash-Secured Put"
	KindCoveredCall    Kind = "Covered Call"
)

// Valid reports whether k is a known contract kind
func (k Kind) Valid() bool {
	return k == KindCashSecuredPut || k == KindCoveredCall
}

// Status classifies a position's lifecycle state. Statuses are set
// externally; the engine only relies on the open/terminal partition.
type Status string

const (
	StatusActivePut    Status = "Active Put"
	StatusActiveCall   Status = "Active Call"
	StatusAssigned     Status = "Assigned"
	StatusClosedProfit Status = "Closed - Profit"
	StatusClosedLoss   Status = "Closed - Loss"
	StatusRolled       Status = "Rolled"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusActivePut, StatusActiveCall, StatusAssigned,
		StatusClosedProfit, StatusClosedLoss, StatusRolled:
		return true
	}
	return false
}

// Open reports whether the position still commits capital.
// Assigned positions are neither open nor terminal.
func (s Status) Open() bool {
	return s == StatusActivePut || s == StatusActiveCall
}

// Terminal reports whether the position has released its capital
func (s Status) Terminal() bool {
	return s == StatusClosedProfit || s == StatusClosedLoss || s == StatusRolled
}

// Position represents a single short-option contract lot
type Position struct {
	ID        string          `json:"id"`
	Ticker    string          `json:"ticker"`
	Kind      Kind            `json:"type"`
	Strike    decimal.Decimal `json:"strike"`
	Premium   decimal.Decimal `json:"premium"`
	Contracts int             `json:"contracts"`
	DTE       int             `json:"dte"`
	Expiry    time.Time       `json:"expiry"`
	Status    Status          `json:"status"`
	OpenDate  time.Time       `json:"open_date"`
	Delta     float64         `json:"delta"`
	IV        float64         `json:"iv"`
}

var contractMultiplier = decimal.NewFromInt(100)

// TotalPremium returns the collected premium across all contracts
// (premium per share x 100 shares x contract count).
func (p *Position) TotalPremium() decimal.Decimal {
	return p.Premium.Mul(contractMultiplier).Mul(decimal.NewFromInt(int64(p.Contracts)))
}

// CapitalAtRisk returns the notional capital reserved by the position
// (strike x 100 shares x contract count).
func (p *Position) CapitalAtRisk() decimal.Decimal {
	return p.Strike.Mul(contractMultiplier).Mul(decimal.NewFromInt(int64(p.Contracts)))
}

// DaysToExpiry computes DTE as the ceiling of the time remaining until
// expiry, in whole days. Expired contracts yield negative values.
func (p *Position) DaysToExpiry(now time.Time) int {
	remaining := p.Expiry.Sub(now)
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		days++
	}
	return days
}
