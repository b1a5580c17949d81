package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukasmc/cefnav/internal/contracts"
)

func ptr(v float64) *float64 {
	return &v
}

func TestComputeRowDiscount(t *testing.T) {
	pair := contracts.TickerPair{Fund: "CEF1", NAV: "NAVIDX", FundType: "Taxable Bond"}
	target := time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC)

	row := ComputeRow(pair, target, contracts.FundMetadata{}, ptr(9.50), ptr(10.00))

	require.NotNil(t, row.Discount)
	assert.True(t, row.Discount.Equal(decimal.RequireFromString("0.95")),
		"discount = %s, want 0.95", row.Discount)

	assert.Equal(t, "CEF1", row.FundTicker)
	assert.Equal(t, "NAVIDX", row.NAVTicker)
	assert.Equal(t, "Taxable Bond", row.FundType)
	assert.Equal(t, "2024-07-03", row.Date)
	// No metadata: name falls back to the raw ticker
	assert.Equal(t, "CEF1", row.FundName)
}

func TestComputeRowDiscountNullPropagation(t *testing.T) {
	pair := contracts.TickerPair{Fund: "CEF1", NAV: "NAVIDX"}
	target := time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		fundClose *float64
		navClose  *float64
	}{
		{"missing fund close", nil, ptr(10.00)},
		{"missing nav close", ptr(9.50), nil},
		{"both missing", nil, nil},
		{"zero nav close", ptr(9.50), ptr(0)},
		{"zero fund close", ptr(0), ptr(10.00)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := ComputeRow(pair, target, contracts.FundMetadata{}, tt.fundClose, tt.navClose)
			assert.Nil(t, row.Discount)
		})
	}
}

func TestComputeRowMillions(t *testing.T) {
	pair := contracts.TickerPair{Fund: "PDI", NAV: "XPDIX"}
	target := time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC)

	name := "PIMCO Dynamic Income Fund"
	meta := contracts.FundMetadata{
		LongName:          &name,
		SharesOutstanding: ptr(281_454_321),
		TotalDebt:         ptr(1_250_000_000),
	}

	row := ComputeRow(pair, target, meta, ptr(18.92), ptr(17.50))

	assert.Equal(t, "PIMCO Dynamic Income Fund", row.FundName)

	require.NotNil(t, row.SharesOutstandingM)
	assert.True(t, row.SharesOutstandingM.Equal(decimal.RequireFromString("281.45")),
		"shares(M) = %s, want 281.45", row.SharesOutstandingM)

	require.NotNil(t, row.TotalDebtM)
	assert.True(t, row.TotalDebtM.Equal(decimal.RequireFromString("1250")),
		"debt(M) = %s, want 1250", row.TotalDebtM)
}

func TestComputeRowMillionsNullPropagation(t *testing.T) {
	pair := contracts.TickerPair{Fund: "PDI", NAV: "XPDIX"}
	target := time.Date(2024, 7, 3, 0, 0, 0, 0, time.UTC)

	row := ComputeRow(pair, target, contracts.FundMetadata{}, ptr(18.92), ptr(17.50))

	assert.Nil(t, row.SharesOutstandingM)
	assert.Nil(t, row.TotalDebtM)
}

func TestToMillionsRounding(t *testing.T) {
	tests := []struct {
		name  string
		input *float64
		want  string // "" means nil
	}{
		{"exact", ptr(2_000_000), "2"},
		{"rounded half up", ptr(1_235_000), "1.24"},
		{"rounded down", ptr(1_234_000), "1.23"},
		{"small value", ptr(4_900), "0"},
		{"nil", nil, ""},
		{"zero", ptr(0), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toMillions(tt.input)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"toMillions(%v) = %s, want %s", tt.input, got, tt.want)
		})
	}
}
