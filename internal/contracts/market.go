package contracts

import "time"

// PriceBar represents one daily bar of a historical price series
type PriceBar struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// FundMetadata holds point-in-time provider metadata for a fund.
// Every field is optional: absent provider keys decode to nil and
// propagate as nulls through the report.
type FundMetadata struct {
	LongName          *string  `json:"long_name,omitempty"`
	SharesOutstanding *float64 `json:"shares_outstanding,omitempty"`
	TotalDebt         *float64 `json:"total_debt,omitempty"`
}

// DisplayName returns the fund's descriptive name, falling back to the
// raw ticker symbol when the provider has none.
func (m FundMetadata) DisplayName(ticker string) string {
	if m.LongName != nil && *m.LongName != "" {
		return *m.LongName
	}
	return ticker
}
