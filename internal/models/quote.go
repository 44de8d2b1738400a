package models

import "time"

// Quote represents the latest known market snapshot for one ticker.
// Monetary fields are float64 because they are display data, never
// inputs to ledger arithmetic.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Change    float64   `json:"change"`
	ChangePct float64   `json:"change_pct"`
	DayHigh   float64   `json:"day_high,omitempty"`
	DayLow    float64   `json:"day_low,omitempty"`
	Volume    string    `json:"volume,omitempty"`
	Closes    []float64 `json:"closes,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}
