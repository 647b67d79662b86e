// Package yahoo is the reference snapshot producer, fetching quote,
// history, earnings calendar and income statement data from Yahoo Finance.
package yahoo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wonny/yfparity/internal/snapshot"
	"github.com/wonny/yfparity/pkg/config"
	"github.com/wonny/yfparity/pkg/httputil"
	"github.com/wonny/yfparity/pkg/logger"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

// Client handles communication with Yahoo Finance.
// All Yahoo Finance calls go through this client.
type Client struct {
	httpClient    *httputil.Client
	logger        *logger.Logger
	quoteURL      string
	chartURL      string
	calendarURL   string
	timeseriesURL string
}

// NewClient creates a new Yahoo Finance client. The rate limiter keeps
// parallel symbol workers from hammering Yahoo.
func NewClient(cfg config.YahooConfig, log *logger.Logger) *Client {
	httpClient := httputil.New(log, cfg.Timeout).
		WithRateLimit(cfg.RequestsPerSec).
		WithUserAgent(defaultUserAgent)

	return &Client{
		httpClient:    httpClient,
		logger:        log,
		quoteURL:      strings.TrimRight(cfg.QuoteBaseURL, "/"),
		chartURL:      strings.TrimRight(cfg.ChartBaseURL, "/"),
		calendarURL:   strings.TrimRight(cfg.CalendarBaseURL, "/"),
		timeseriesURL: strings.TrimRight(cfg.TimeseriesBaseURL, "/"),
	}
}

// Snapshot fetches all four field groups for one symbol. A failed
// operation clears ok and appends an error entry; the remaining
// operations still populate.
func (c *Client) Snapshot(ctx context.Context, req snapshot.Request) *snapshot.Snapshot {
	snap := &snapshot.Snapshot{
		OK:     true,
		Symbol: strings.ToUpper(strings.TrimSpace(req.Symbol)),
	}

	fail := func(operation string, err error) {
		snap.OK = false
		snap.Errors = append(snap.Errors, snapshot.OperationError{
			Operation: operation,
			Error:     err.Error(),
		})
		c.logger.WithError(err).WithFields(map[string]interface{}{
			"symbol":    req.Symbol,
			"operation": operation,
		}).Warn("Yahoo fetch failed")
	}

	if quote, err := c.Quote(ctx, req.Symbol); err != nil {
		fail("quote", err)
	} else {
		snap.Quote = quote
	}

	if history, err := c.History(ctx, req); err != nil {
		fail("history", err)
	} else {
		snap.History = history
	}

	if earnings, err := c.EarningsDates(ctx, req.Symbol, req.EarningsLimit); err != nil {
		fail("earnings-dates", err)
	} else {
		snap.EarningsDates = earnings
	}

	if income, err := c.IncomeStatement(ctx, req.Symbol, req.IncomeFreq, req.IncomeLimit); err != nil {
		fail("income-stmt", err)
	} else {
		snap.IncomeStmt = income
	}

	return snap
}

// fetchBody GETs a URL and returns its body bytes.
func (c *Client) fetchBody(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}
