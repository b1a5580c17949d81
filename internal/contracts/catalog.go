package contracts

// TickerPair maps a closed-end fund ticker to its NAV index ticker
// SSOT: catalog row shape shared between the loader, the runner and the API
type TickerPair struct {
	Fund     string `json:"fund"`
	NAV      string `json:"nav"`
	FundType string `json:"fund_type"`
}

// IsValid reports whether the pair carries both ticker symbols.
// Rows failing this check are dropped at catalog load time.
func (p TickerPair) IsValid() bool {
	return p.Fund != "" && p.NAV != ""
}
