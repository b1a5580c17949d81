package pricing

import (
	"time"

	"github.com/lukasmc/cefnav/internal/contracts"
)

// DateLayout is the calendar-date string form used for series matching
const DateLayout = "2006-01-02"

// windowDays is the slack on each side of the target date when fetching
// a series, so weekends and holidays adjacent to the target do not
// produce an empty fetch range.
const windowDays = 2

// Window returns the [from, to] fetch range for a target valuation date
func Window(target time.Time) (from, to time.Time) {
	return target.AddDate(0, 0, -windowDays), target.AddDate(0, 0, windowDays)
}

// LookupClose returns the closing price whose normalized calendar date
// exactly equals the target date. The window only widens the fetch; no
// nearest-trading-day fallback is applied, so a holiday target with no
// bar on that exact date is missing. An empty series is missing too.
func LookupClose(series []contracts.PriceBar, target time.Time) (float64, bool) {
	targetStr := target.Format(DateLayout)

	for _, bar := range series {
		if bar.Date.UTC().Format(DateLayout) == targetStr {
			return bar.Close, true
		}
	}

	return 0, false
}
