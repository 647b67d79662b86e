package snapshot

import (
	"sort"
	"strings"

	"github.com/wonny/yfparity/internal/normalize"
)

// Normalized returns a copy of the snapshot with canonical row keys:
// history bars keyed by date, earnings rows by day-granularity date,
// income rows by 4-digit year. Rows whose key cannot be normalized are
// dropped. Duplicate keys keep the first-seen occurrence, before any sort
// is applied; input ordering therefore decides which duplicate survives.
func (s *Snapshot) Normalized(intraday bool) *Snapshot {
	if s == nil {
		return &Snapshot{}
	}

	out := *s
	out.History = normalizeHistory(s.History, intraday)
	out.EarningsDates = normalizeEarnings(s.EarningsDates)
	out.IncomeStmt = normalizeIncome(s.IncomeStmt)
	return &out
}

func normalizeHistory(h History, intraday bool) History {
	out := h
	out.Bars = nil

	seen := make(map[string]bool, len(h.Bars))
	for _, bar := range h.Bars {
		// Intraday keys carry time-of-day; producers emit them canonical
		// already, so only day-granularity keys are re-normalized.
		key := strings.TrimSpace(bar.Date)
		if !intraday {
			key = normalize.Date(bar.Date, false)
		}
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		bar.Date = key
		out.Bars = append(out.Bars, bar)
	}

	sort.Slice(out.Bars, func(i, j int) bool {
		return out.Bars[i].Date < out.Bars[j].Date
	})
	out.BarCount = len(out.Bars)
	return out
}

func normalizeEarnings(t EarningsTable) EarningsTable {
	out := t
	out.Rows = nil

	seen := make(map[string]bool, len(t.Rows))
	for _, row := range t.Rows {
		key := normalize.Date(row.Date, false)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		row.Date = key
		out.Rows = append(out.Rows, row)
	}

	// Most recent first, the order earnings calendars present.
	sort.Slice(out.Rows, func(i, j int) bool {
		return out.Rows[i].Date > out.Rows[j].Date
	})
	out.RowCount = len(out.Rows)
	return out
}

func normalizeIncome(t IncomeTable) IncomeTable {
	out := t
	out.Rows = nil

	seen := make(map[string]bool, len(t.Rows))
	for _, row := range t.Rows {
		key := normalize.Year(row.Year)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		row.Year = key
		out.Rows = append(out.Rows, row)
	}

	sort.Slice(out.Rows, func(i, j int) bool {
		return out.Rows[i].Year > out.Rows[j].Year
	})
	out.RowCount = len(out.Rows)
	return out
}
