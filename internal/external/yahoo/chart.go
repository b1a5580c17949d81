package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/lukasmc/cefnav/internal/contracts"
)

// Chart fetches the daily price series for a symbol over [from, to].
// An unknown or delisted symbol yields an empty series, not an error.
func (c *Client) Chart(ctx context.Context, symbol string, from, to time.Time) ([]contracts.PriceBar, error) {
	fullURL := fmt.Sprintf(
		"%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d",
		c.baseURL, url.PathEscape(symbol), from.Unix(), to.Unix(),
	)

	body, notFound, err := c.fetchJSON(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("chart request failed: %w", err)
	}
	if notFound {
		c.logger.WithField("symbol", symbol).Debug("Chart symbol not found")
		return nil, nil
	}

	bars, err := parseChartResponse(body)
	if err != nil {
		return nil, fmt.Errorf("parse chart response failed: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(bars),
	}).Debug("Fetched price series")
	return bars, nil
}

// parseChartResponse decodes the chart JSON into daily bars.
// Bars with a null close (halted sessions) are skipped.
func parseChartResponse(body []byte) ([]contracts.PriceBar, error) {
	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode JSON failed: %w", err)
	}

	if resp.Chart.Error != nil {
		// Provider-side error payloads count as an empty series
		return nil, nil
	}

	if len(resp.Chart.Result) == 0 {
		return nil, nil
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}

	closes := result.Indicators.Quote[0].Close
	var bars []contracts.PriceBar
	for i, ts := range result.Timestamps {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		bars = append(bars, contracts.PriceBar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}

	return bars, nil
}
