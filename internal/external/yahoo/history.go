package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/wonny/yfparity/internal/normalize"
	"github.com/wonny/yfparity/internal/snapshot"
)

// chartResponse mirrors the v8/finance/chart envelope: one timestamp
// column plus parallel value columns.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  interface{}   `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []snapshot.Number `json:"open"`
			High   []snapshot.Number `json:"high"`
			Low    []snapshot.Number `json:"low"`
			Close  []snapshot.Number `json:"close"`
			Volume []snapshot.Number `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []snapshot.Number `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// History fetches price bars for the requested period and interval. The
// columnar chart payload is pivoted into rows; the trailing HistoryLimit
// bars are kept.
func (c *Client) History(ctx context.Context, req snapshot.Request) (snapshot.History, error) {
	history := snapshot.History{Period: req.Period, Interval: req.Interval}

	params := url.Values{}
	params.Set("range", req.Period)
	params.Set("interval", req.Interval)
	params.Set("events", "div,split")
	fullURL := fmt.Sprintf("%s/%s?%s", c.chartURL, url.PathEscape(req.Symbol), params.Encode())

	body, err := c.fetchBody(ctx, fullURL)
	if err != nil {
		return history, err
	}

	var resp chartResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return history, fmt.Errorf("parse chart response: %w", err)
	}
	if len(resp.Chart.Result) == 0 {
		return history, fmt.Errorf("no chart result for %s", req.Symbol)
	}

	result := resp.Chart.Result[0]
	var quote struct {
		Open   []snapshot.Number `json:"open"`
		High   []snapshot.Number `json:"high"`
		Low    []snapshot.Number `json:"low"`
		Close  []snapshot.Number `json:"close"`
		Volume []snapshot.Number `json:"volume"`
	}
	if len(result.Indicators.Quote) > 0 {
		quote = result.Indicators.Quote[0]
	}
	var adjClose []snapshot.Number
	if len(result.Indicators.AdjClose) > 0 {
		adjClose = result.Indicators.AdjClose[0].AdjClose
	}

	intraday := req.Intraday()
	bars := make([]snapshot.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		date := normalize.Date(ts, intraday)
		if date == "" {
			continue
		}
		bars = append(bars, snapshot.Bar{
			Date:          date,
			Open:          column(quote.Open, i),
			High:          column(quote.High, i),
			Low:           column(quote.Low, i),
			Close:         column(quote.Close, i),
			AdjustedClose: column(adjClose, i),
			Volume:        column(quote.Volume, i),
		})
	}

	if req.HistoryLimit > 0 && len(bars) > req.HistoryLimit {
		bars = bars[len(bars)-req.HistoryLimit:]
	}

	history.Bars = bars
	history.BarCount = len(bars)
	return history, nil
}

// column reads one cell of a parallel value column; short columns read as
// absent.
func column(values []snapshot.Number, i int) snapshot.Number {
	if i < 0 || i >= len(values) {
		return snapshot.Number{}
	}
	return values[i]
}
