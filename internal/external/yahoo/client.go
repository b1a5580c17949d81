package yahoo

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/lukasmc/cefnav/pkg/config"
	"github.com/lukasmc/cefnav/pkg/httputil"
	"github.com/lukasmc/cefnav/pkg/logger"
)

// Client handles communication with the Yahoo Finance JSON API
// SSOT: Yahoo Finance calls happen in this client only
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	userAgent  string
}

// NewClient creates a new Yahoo Finance client.
// Provider calls are single-shot: a failed fetch is reported once and the
// affected row fields stay null, so the client runs with retry disabled.
func NewClient(httpClient *httputil.Client, log *logger.Logger, cfg config.YahooConfig) *Client {
	return &Client{
		httpClient: httpClient.DisableRetry(),
		logger:     log,
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
	}
}

// fetchJSON fetches a Yahoo Finance endpoint and returns the raw body.
// A 404 means the symbol is unknown or delisted; callers translate that
// into an empty result, not an error.
func (c *Client) fetchJSON(ctx context.Context, url string) ([]byte, bool, error) {
	resp, err := c.httpClient.GetWithHeaders(ctx, url, map[string]string{
		"User-Agent": c.userAgent,
	})
	if err != nil {
		return nil, false, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, true, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, false, nil
}
