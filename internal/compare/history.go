package compare

import (
	"fmt"
	"sort"

	"github.com/wonny/yfparity/internal/snapshot"
)

const (
	historyPassDiff    = 0.03
	historyWarnDiff    = 0.10
	historyBarDeltaMax = 2
)

// History compares price history by aligning bars on their date keys and
// averaging the relative difference of close prices over the overlap.
func History(candidate, reference snapshot.History) Result {
	candBars := candidate.Bars
	refBars := reference.Bars

	if len(candBars) == 0 && len(refBars) == 0 {
		return Result{
			Status:  StatusSkip,
			Summary: "No history bars from either side",
			Metrics: map[string]float64{"overlap": 0},
		}
	}
	if len(candBars) == 0 || len(refBars) == 0 {
		return Result{
			Status:  StatusFail,
			Summary: "History only returned on one side",
			Metrics: map[string]float64{
				"candidate_count": float64(len(candBars)),
				"reference_count": float64(len(refBars)),
			},
			Issues: []string{
				fmt.Sprintf("candidate_count=%d reference_count=%d", len(candBars), len(refBars)),
			},
		}
	}

	candByDate := barsByDate(candBars)
	refByDate := barsByDate(refBars)
	overlap := intersectKeys(candByDate, refByDate, false)

	if len(overlap) == 0 {
		return Result{
			Status:  StatusFail,
			Summary: "No overlapping history dates",
			Metrics: map[string]float64{
				"candidate_count": float64(len(candBars)),
				"reference_count": float64(len(refBars)),
				"overlap":         0,
			},
		}
	}

	var diffs []float64
	for _, date := range overlap {
		c, cOK := candByDate[date].Close.Get()
		r, rOK := refByDate[date].Close.Get()
		if !cOK || !rOK {
			continue
		}
		diffs = append(diffs, relDiff(c, r))
	}

	avgDiff := mean(diffs)
	countDelta := len(candBars) - len(refBars)
	if countDelta < 0 {
		countDelta = -countDelta
	}

	var status Status
	switch {
	case avgDiff <= historyPassDiff && countDelta <= historyBarDeltaMax:
		status = StatusPass
	case avgDiff <= historyWarnDiff:
		status = StatusWarn
	default:
		status = StatusFail
	}

	var issues []string
	if countDelta > historyBarDeltaMax {
		issues = append(issues, fmt.Sprintf("bar count delta=%d", countDelta))
	}
	if avgDiff > historyPassDiff {
		issues = append(issues, fmt.Sprintf("avg close rel diff=%.4f", avgDiff))
	}

	return Result{
		Status:  status,
		Summary: fmt.Sprintf("overlap=%d avg_close_rel_diff=%.4f", len(overlap), avgDiff),
		Metrics: map[string]float64{
			"candidate_count":    float64(len(candBars)),
			"reference_count":    float64(len(refBars)),
			"overlap":            float64(len(overlap)),
			"avg_close_rel_diff": avgDiff,
		},
		Issues: issues,
	}
}

func barsByDate(bars []snapshot.Bar) map[string]snapshot.Bar {
	byDate := make(map[string]snapshot.Bar, len(bars))
	for _, bar := range bars {
		if bar.Date == "" {
			continue
		}
		if _, exists := byDate[bar.Date]; exists {
			continue
		}
		byDate[bar.Date] = bar
	}
	return byDate
}

// intersectKeys returns the keys present in both maps, sorted ascending,
// or descending when desc is set.
func intersectKeys[V any](a, b map[string]V, desc bool) []string {
	var keys []string
	for key := range a {
		if _, ok := b[key]; ok {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if desc {
			return keys[i] > keys[j]
		}
		return keys[i] < keys[j]
	})
	return keys
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
