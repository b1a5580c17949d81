package contracts

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportRow is one fund's line in the discount report.
// Nullable numerics are pointers: nil means the provider had no data
// for that field on the valuation date.
type ReportRow struct {
	FundName           string           `json:"fund_name"`
	FundType           string           `json:"fund_type"`
	Date               string           `json:"date"` // YYYY-MM-DD valuation date
	FundTicker         string           `json:"fund_ticker"`
	FundClose          *float64         `json:"fund_close"`
	NAVTicker          string           `json:"nav_ticker"`
	NAVClose           *float64         `json:"nav_close"`
	Discount           *decimal.Decimal `json:"discount"`
	SharesOutstandingM *decimal.Decimal `json:"shares_outstanding_m"`
	TotalDebtM         *decimal.Decimal `json:"total_debt_m"`
}

// Report is the full result of one valuation run
type Report struct {
	Date        string      `json:"date"` // valuation date, YYYY-MM-DD
	Rows        []ReportRow `json:"rows"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// FileName returns the spreadsheet file name for this report's valuation date
func (r Report) FileName() string {
	return "Closed_End_Fund_Data_" + r.Date + ".xlsx"
}
