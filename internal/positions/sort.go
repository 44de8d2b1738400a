package positions

import (
	"sort"
	"strings"

	"github.com/trogers1052/wheel-tracker/internal/models"
)

// Sortable column names accepted by Sort and Sorter
const (
	ColTicker    = "ticker"
	ColType      = "type"
	ColStrike    = "strike"
	ColPremium   = "premium"
	ColContracts = "contracts"
	ColDTE       = "dte"
	ColStatus    = "status"
	ColDelta     = "delta"
	ColIV        = "iv"
)

// Sort orders a position snapshot by one column, in place and stably.
// String columns compare lexicographically, numeric columns
// numerically. Unknown columns leave the order unchanged.
func Sort(ps []models.Position, column string, desc bool) {
	less, ok := lessFunc(column)
	if !ok {
		return
	}
	sort.SliceStable(ps, func(i, j int) bool {
		if desc {
			return less(&ps[j], &ps[i])
		}
		return less(&ps[i], &ps[j])
	})
}

func lessFunc(column string) (func(a, b *models.Position) bool, bool) {
	switch column {
	case ColTicker:
		return func(a, b *models.Position) bool { return strings.Compare(a.Ticker, b.Ticker) < 0 }, true
	case ColType:
		return func(a, b *models.Position) bool { return strings.Compare(string(a.Kind), string(b.Kind)) < 0 }, true
	case ColStatus:
		return func(a, b *models.Position) bool { return strings.Compare(string(a.Status), string(b.Status)) < 0 }, true
	case ColStrike:
		return func(a, b *models.Position) bool { return a.Strike.LessThan(b.Strike) }, true
	case ColPremium:
		return func(a, b *models.Position) bool { return a.Premium.LessThan(b.Premium) }, true
	case ColContracts:
		return func(a, b *models.Position) bool { return a.Contracts < b.Contracts }, true
	case ColDTE:
		return func(a, b *models.Position) bool { return a.DTE < b.DTE }, true
	case ColDelta:
		return func(a, b *models.Position) bool { return a.Delta < b.Delta }, true
	case ColIV:
		return func(a, b *models.Position) bool { return a.IV < b.IV }, true
	}
	return nil, false
}

// Sorter tracks the active sort column and direction for a consumer.
// Toggling the active column flips direction; selecting a new column
// resets to ascending.
type Sorter struct {
	Column string
	Desc   bool
}

// Toggle updates the sorter state for a column selection
func (s *Sorter) Toggle(column string) {
	if s.Column == column {
		s.Desc = !s.Desc
		return
	}
	s.Column = column
	s.Desc = false
}

// Sort applies the sorter's current state to a snapshot
func (s *Sorter) Sort(ps []models.Position) {
	Sort(ps, s.Column, s.Desc)
}

// FilterOpen returns only positions that still commit capital
func FilterOpen(ps []models.Position) []models.Position {
	var out []models.Position
	for _, p := range ps {
		if p.Status.Open() {
			out = append(out, p)
		}
	}
	return out
}

// FilterTerminal returns only closed or rolled positions
func FilterTerminal(ps []models.Position) []models.Position {
	var out []models.Position
	for _, p := range ps {
		if p.Status.Terminal() {
			out = append(out, p)
		}
	}
	return out
}
