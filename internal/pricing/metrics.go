package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lukasmc/cefnav/internal/contracts"
)

// million is the divisor for the shares-outstanding and total-debt columns
var million = decimal.NewFromInt(1_000_000)

// ComputeRow combines one ticker pair's close prices and metadata into a
// report row. Missing inputs propagate as nil fields; nothing here errors.
func ComputeRow(pair contracts.TickerPair, target time.Time, meta contracts.FundMetadata, fundClose, navClose *float64) contracts.ReportRow {
	return contracts.ReportRow{
		FundName:           meta.DisplayName(pair.Fund),
		FundType:           pair.FundType,
		Date:               target.Format(DateLayout),
		FundTicker:         pair.Fund,
		FundClose:          fundClose,
		NAVTicker:          pair.NAV,
		NAVClose:           navClose,
		Discount:           discount(fundClose, navClose),
		SharesOutstandingM: toMillions(meta.SharesOutstanding),
		TotalDebtM:         toMillions(meta.TotalDebt),
	}
}

// discount is fundClose / navClose, defined only when both prices are
// present and non-zero. A value below 1.0 means the fund trades below
// its NAV.
func discount(fundClose, navClose *float64) *decimal.Decimal {
	if fundClose == nil || navClose == nil || *fundClose == 0 || *navClose == 0 {
		return nil
	}

	d := decimal.NewFromFloat(*fundClose).Div(decimal.NewFromFloat(*navClose))
	return &d
}

// toMillions converts a raw value to millions rounded to 2 decimal
// places; nil and zero inputs yield nil.
func toMillions(v *float64) *decimal.Decimal {
	if v == nil || *v == 0 {
		return nil
	}

	m := decimal.NewFromFloat(*v).Div(million).Round(2)
	return &m
}
