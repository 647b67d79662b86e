package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/wonny/yfparity/internal/normalize"
	"github.com/wonny/yfparity/internal/snapshot"
)

// Concepts requested from the fundamentals timeseries, in resolution
// priority order. Yahoo labels the same figure differently across quote
// types, so several aliases are fetched and the first one carrying a
// value for a given year wins.
var (
	revenueConcepts = []string{
		"total revenue",
		"revenue",
		"operating revenue",
		"total operating revenue",
	}
	netIncomeConcepts = []string{
		"net income",
		"net income common stockholders",
		"net income continuing operations",
	}
	timeseriesTypes = []string{
		"TotalRevenue",
		"OperatingRevenue",
		"NetIncome",
		"NetIncomeCommonStockholders",
		"NetIncomeContinuingOperations",
	}
)

type timeseriesResponse struct {
	Timeseries struct {
		Result []map[string]json.RawMessage `json:"result"`
		Error  interface{}                  `json:"error"`
	} `json:"timeseries"`
}

type timeseriesEntry struct {
	AsOfDate      string `json:"asOfDate"`
	ReportedValue struct {
		Raw snapshot.Number `json:"raw"`
	} `json:"reportedValue"`
}

// IncomeStatement fetches annual or quarterly income figures and merges
// them into one row per fiscal year, most recent first.
func (c *Client) IncomeStatement(ctx context.Context, symbol, freq string, limit int) (snapshot.IncomeTable, error) {
	table := snapshot.IncomeTable{Frequency: freq}

	prefix := "annual"
	if freq == "quarterly" {
		prefix = "quarterly"
	}
	types := make([]string, len(timeseriesTypes))
	for i, t := range timeseriesTypes {
		types[i] = prefix + t
	}

	now := time.Now().UTC()
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("type", strings.Join(types, ","))
	params.Set("period1", strconv.FormatInt(now.AddDate(-(limit+2), 0, 0).Unix(), 10))
	params.Set("period2", strconv.FormatInt(now.Unix(), 10))
	fullURL := fmt.Sprintf("%s/%s?%s", c.timeseriesURL, url.PathEscape(symbol), params.Encode())

	body, err := c.fetchBody(ctx, fullURL)
	if err != nil {
		return table, err
	}

	var resp timeseriesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return table, fmt.Errorf("parse timeseries response: %w", err)
	}

	// concept label -> year -> value
	series := map[string]map[string]snapshot.Number{}
	for _, result := range resp.Timeseries.Result {
		for key, raw := range result {
			if !strings.HasPrefix(key, prefix) {
				continue
			}
			label := conceptLabel(strings.TrimPrefix(key, prefix))
			var entries []*timeseriesEntry
			if err := json.Unmarshal(raw, &entries); err != nil {
				continue
			}
			for _, entry := range entries {
				if entry == nil {
					continue
				}
				year := normalize.Year(entry.AsOfDate)
				if year == "" || entry.ReportedValue.Raw.Absent() {
					continue
				}
				if series[label] == nil {
					series[label] = map[string]snapshot.Number{}
				}
				series[label][year] = entry.ReportedValue.Raw
			}
		}
	}

	labels := make([]string, 0, len(series))
	for label := range series {
		labels = append(labels, label)
	}

	years := map[string]bool{}
	for _, byYear := range series {
		for year := range byYear {
			years[year] = true
		}
	}

	rows := make([]snapshot.IncomeRow, 0, len(years))
	for year := range years {
		rows = append(rows, snapshot.IncomeRow{
			Year:         year,
			TotalRevenue: resolveConcept(series, labels, revenueConcepts, year),
			NetIncome:    resolveConcept(series, labels, netIncomeConcepts, year),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Year > rows[j].Year })
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	table.Rows = rows
	table.RowCount = len(rows)
	return table, nil
}

// resolveConcept walks the priority list and returns the first value
// present for the year.
func resolveConcept(series map[string]map[string]snapshot.Number, labels, priority []string, year string) snapshot.Number {
	for _, want := range priority {
		label, ok := normalize.FindPreferredKey(labels, []string{want})
		if !ok {
			continue
		}
		if value, present := series[label][year]; present && !value.Absent() {
			return value
		}
	}
	return snapshot.Number{}
}

// conceptLabel lowers a CamelCase series name into the space-separated
// form the concept priority lists use ("TotalRevenue" -> "total revenue").
func conceptLabel(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteRune(' ')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
