package yahoo

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/yfparity/internal/normalize"
	"github.com/wonny/yfparity/internal/snapshot"
)

// EarningsDates scrapes the earnings calendar HTML table for a symbol.
// More rows than the limit are requested because the calendar repeats
// dates across sessions; rows are deduped by normalized date (first seen
// wins), sorted most-recent-first, then trimmed.
func (c *Client) EarningsDates(ctx context.Context, symbol string, limit int) (snapshot.EarningsTable, error) {
	table := snapshot.EarningsTable{}

	size := limit * 4
	if size < 12 {
		size = 12
	}
	if size > 100 {
		size = 100
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("offset", "0")
	params.Set("size", strconv.Itoa(size))
	fullURL := fmt.Sprintf("%s?%s", c.calendarURL, params.Encode())

	body, err := c.fetchBody(ctx, fullURL)
	if err != nil {
		return table, err
	}

	rows, err := parseEarningsHTML(body)
	if err != nil {
		return table, err
	}

	seen := make(map[string]bool, len(rows))
	deduped := make([]snapshot.EarningsRow, 0, len(rows))
	for _, row := range rows {
		if row.Date == "" || seen[row.Date] {
			continue
		}
		seen[row.Date] = true
		deduped = append(deduped, row)
	}
	sort.Slice(deduped, func(i, j int) bool {
		return deduped[i].Date > deduped[j].Date
	})
	if limit > 0 && len(deduped) > limit {
		deduped = deduped[:limit]
	}

	table.Rows = deduped
	table.RowCount = len(deduped)
	return table, nil
}

// parseEarningsHTML extracts earnings rows from the calendar page. Column
// positions are resolved from the header row so layout reshuffles do not
// silently misread cells.
func parseEarningsHTML(body []byte) ([]snapshot.EarningsRow, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse earnings HTML: %w", err)
	}

	cols := map[string]int{}
	doc.Find("table thead th").Each(func(i int, th *goquery.Selection) {
		header := strings.ToLower(strings.TrimSpace(th.Text()))
		switch {
		case strings.Contains(header, "earnings date"):
			cols["date"] = i
		case strings.Contains(header, "eps estimate"):
			cols["estimate"] = i
		case strings.Contains(header, "reported eps"):
			cols["actual"] = i
		case strings.Contains(header, "surprise"):
			cols["surprise"] = i
		}
	})
	if _, ok := cols["date"]; !ok {
		return nil, fmt.Errorf("earnings table header not found")
	}

	var rows []snapshot.EarningsRow
	doc.Find("table tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td").Map(func(_ int, td *goquery.Selection) string {
			return strings.TrimSpace(td.Text())
		})
		date := normalize.Date(cell(cells, cols["date"]), false)
		if date == "" {
			return
		}
		rows = append(rows, snapshot.EarningsRow{
			Date:            date,
			EPSEstimate:     numericCell(cells, cols, "estimate"),
			EPSActual:       numericCell(cells, cols, "actual"),
			SurprisePercent: numericCell(cells, cols, "surprise"),
		})
	})
	return rows, nil
}

func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

func numericCell(cells []string, cols map[string]int, name string) snapshot.Number {
	i, ok := cols[name]
	if !ok {
		return snapshot.Number{}
	}
	text := strings.TrimPrefix(cell(cells, i), "+")
	return snapshot.NumberFrom(text)
}
