package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/lukasmc/cefnav/internal/contracts"
)

// summaryModules are the quoteSummary modules backing the report's
// metadata columns: display name, shares outstanding, total debt.
const summaryModules = "price,defaultKeyStatistics,financialData"

// Summary fetches point-in-time metadata for a symbol.
// Missing modules or keys yield nil fields, never an error.
func (c *Client) Summary(ctx context.Context, symbol string) (contracts.FundMetadata, error) {
	fullURL := fmt.Sprintf(
		"%s/v10/finance/quoteSummary/%s?modules=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(summaryModules),
	)

	body, notFound, err := c.fetchJSON(ctx, fullURL)
	if err != nil {
		return contracts.FundMetadata{}, fmt.Errorf("summary request failed: %w", err)
	}
	if notFound {
		c.logger.WithField("symbol", symbol).Debug("Summary symbol not found")
		return contracts.FundMetadata{}, nil
	}

	meta, err := parseSummaryResponse(body)
	if err != nil {
		return contracts.FundMetadata{}, fmt.Errorf("parse summary response failed: %w", err)
	}

	return meta, nil
}

// parseSummaryResponse extracts the metadata fields from the quoteSummary JSON
func parseSummaryResponse(body []byte) (contracts.FundMetadata, error) {
	var resp summaryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return contracts.FundMetadata{}, fmt.Errorf("decode JSON failed: %w", err)
	}

	var meta contracts.FundMetadata

	if len(resp.QuoteSummary.Result) == 0 {
		return meta, nil
	}

	result := resp.QuoteSummary.Result[0]

	if result.Price != nil && result.Price.LongName != "" {
		name := result.Price.LongName
		meta.LongName = &name
	}

	if result.DefaultKeyStatistics != nil && result.DefaultKeyStatistics.SharesOutstanding != nil {
		meta.SharesOutstanding = result.DefaultKeyStatistics.SharesOutstanding.Raw
	}

	if result.FinancialData != nil && result.FinancialData.TotalDebt != nil {
		meta.TotalDebt = result.FinancialData.TotalDebt.Raw
	}

	return meta, nil
}
