package config

// Static classification tables for the trading universe. These are
// configuration, not engine state: the ledger and analytics read them
// through the lookup helpers and never mutate them.

// SectorOther is the fallback bucket for tickers without a mapping
const SectorOther = "Other"

var sectorMap = map[string]string{
	"NIO": "Consumer Cyclical", "VALE": "Basic Materials", "INTC": "Technology",
	"SOFI": "Financial Services", "AMD": "Technology", "COIN": "Financial Services",
	"PLTR": "Technology", "NVDA": "Technology", "F": "Consumer Cyclical",
	"AAL": "Industrials", "NVTS": "Technology", "AAPL": "Technology",
	"MSFT": "Technology", "TSLA": "Consumer Cyclical", "BAC": "Financial Services",
	"T": "Communication", "SNAP": "Communication", "HOOD": "Financial Services",
	"LCID": "Consumer Cyclical", "RIVN": "Consumer Cyclical", "MARA": "Financial Services",
	"RIOT": "Financial Services", "CLF": "Basic Materials", "CCL": "Consumer Cyclical",
	"PLUG": "Industrials", "SIRI": "Communication", "WBD": "Communication",
	"GRAB": "Technology", "DNA": "Healthcare", "OPEN": "Real Estate",
	"SKLZ": "Technology", "RIG": "Energy", "ET": "Energy", "KMI": "Energy",
	"MRO": "Energy", "HAL": "Energy", "SLB": "Energy", "OXY": "Energy",
	"DVN": "Energy", "FANG": "Energy", "PBR": "Energy",
}

// SectorFor returns the sector label for a ticker, or SectorOther when
// the ticker has no mapping.
func SectorFor(ticker string) string {
	if sector, ok := sectorMap[ticker]; ok {
		return sector
	}
	return SectorOther
}

// Tier groups tickers into a capital tier
type Tier struct {
	Key     string
	Label   string
	Tickers []string
}

var tiers = []Tier{
	{Key: "core", Label: "Core", Tickers: []string{"NIO", "VALE", "INTC", "SOFI"}},
	{Key: "mid", Label: "Mid-Tier", Tickers: []string{"AMD", "COIN", "SNAP", "HOOD", "F"}},
	{Key: "premium", Label: "Premium", Tickers: []string{"PLTR", "NVDA", "AAPL", "MSFT", "TSLA"}},
}

// Tiers returns the configured capital tiers in display order
func Tiers() []Tier {
	return tiers
}

// TierFor returns the tier a ticker belongs to, or a neutral "Other"
// tier when it belongs to none.
func TierFor(ticker string) Tier {
	for _, t := range tiers {
		for _, s := range t.Tickers {
			if s == ticker {
				return t
			}
		}
	}
	return Tier{Key: "other", Label: "Other"}
}

// TierTickers returns every ticker named in the tier configuration
func TierTickers() []string {
	var out []string
	for _, t := range tiers {
		out = append(out, t.Tickers...)
	}
	return out
}

// IndexSymbols are always included in the quote refresh universe
var IndexSymbols = []string{"SPY", "QQQ", "IWM", "VIX"}

// wireAliases maps display symbols to provider wire symbols
var wireAliases = map[string]string{
	"VIX": "^VIX",
}

// WireSymbol returns the provider-specific symbol for a display ticker
func WireSymbol(ticker string) string {
	if alias, ok := wireAliases[ticker]; ok {
		return alias
	}
	return ticker
}
