package pricing

import (
	"testing"
	"time"

	"github.com/lukasmc/cefnav/internal/contracts"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWindow(t *testing.T) {
	target := day(2024, 7, 3)
	from, to := Window(target)

	if !from.Equal(day(2024, 7, 1)) {
		t.Errorf("Window() from = %v, want 2024-07-01", from)
	}
	if !to.Equal(day(2024, 7, 5)) {
		t.Errorf("Window() to = %v, want 2024-07-05", to)
	}
}

func TestLookupClose(t *testing.T) {
	// Bars carry intraday timestamps the way providers return them;
	// matching is on the normalized calendar date
	series := []contracts.PriceBar{
		{Date: time.Date(2024, 7, 2, 13, 30, 0, 0, time.UTC), Close: 18.80},
		{Date: time.Date(2024, 7, 3, 13, 30, 0, 0, time.UTC), Close: 18.92},
		{Date: time.Date(2024, 7, 5, 13, 30, 0, 0, time.UTC), Close: 19.01},
	}

	tests := []struct {
		name      string
		series    []contracts.PriceBar
		target    time.Time
		wantPrice float64
		wantOK    bool
	}{
		{
			name:      "exact date match",
			series:    series,
			target:    day(2024, 7, 3),
			wantPrice: 18.92,
			wantOK:    true,
		},
		{
			name:   "market holiday inside the window is missing, not the adjacent day",
			series: series,
			target: day(2024, 7, 4), // July 4th: no bar, neighbors present
			wantOK: false,
		},
		{
			name:   "empty series",
			series: nil,
			target: day(2024, 7, 3),
			wantOK: false,
		},
		{
			name:   "target outside series range",
			series: series,
			target: day(2024, 7, 10),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := LookupClose(tt.series, tt.target)
			if ok != tt.wantOK {
				t.Fatalf("LookupClose() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.wantPrice {
				t.Errorf("LookupClose() = %v, want %v", got, tt.wantPrice)
			}
		})
	}
}
