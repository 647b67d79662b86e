package compare

import (
	"fmt"

	"github.com/wonny/yfparity/internal/snapshot"
)

const (
	earningsPassDiff   = 0.10
	earningsWarnDiff   = 0.25
	earningsMinOverlap = 2
)

// Earnings compares earnings calendars by aligning rows on their date keys
// and averaging the relative difference jointly over EPS estimate and EPS
// actual. No overlap is only a warn: earnings calendars frequently diverge
// between sources by design.
func Earnings(candidate, reference snapshot.EarningsTable) Result {
	candRows := candidate.Rows
	refRows := reference.Rows

	if len(candRows) == 0 && len(refRows) == 0 {
		return Result{
			Status:  StatusSkip,
			Summary: "No earnings rows from either side",
			Metrics: map[string]float64{"overlap": 0},
		}
	}
	if len(candRows) == 0 || len(refRows) == 0 {
		return Result{
			Status:  StatusFail,
			Summary: "Earnings rows present on only one side",
			Metrics: map[string]float64{
				"candidate_count": float64(len(candRows)),
				"reference_count": float64(len(refRows)),
			},
		}
	}

	candByDate := earningsByDate(candRows)
	refByDate := earningsByDate(refRows)
	overlap := intersectKeys(candByDate, refByDate, false)

	if len(overlap) == 0 {
		return Result{
			Status:  StatusWarn,
			Summary: "No overlapping earnings dates",
			Metrics: map[string]float64{"overlap": 0},
		}
	}

	var diffs []float64
	for _, date := range overlap {
		candRow := candByDate[date]
		refRow := refByDate[date]
		for _, pair := range [][2]snapshot.Number{
			{candRow.EPSEstimate, refRow.EPSEstimate},
			{candRow.EPSActual, refRow.EPSActual},
		} {
			c, cOK := pair[0].Get()
			r, rOK := pair[1].Get()
			if !cOK || !rOK {
				continue
			}
			diffs = append(diffs, relDiff(c, r))
		}
	}

	avgDiff := mean(diffs)

	var status Status
	switch {
	case len(overlap) >= earningsMinOverlap && avgDiff <= earningsPassDiff:
		status = StatusPass
	case avgDiff <= earningsWarnDiff:
		status = StatusWarn
	default:
		status = StatusFail
	}

	var issues []string
	if len(overlap) < earningsMinOverlap {
		issues = append(issues, "low overlap (<2 dates)")
	}
	if avgDiff > earningsPassDiff {
		issues = append(issues, fmt.Sprintf("avg EPS rel diff=%.4f", avgDiff))
	}

	return Result{
		Status:  status,
		Summary: fmt.Sprintf("overlap=%d avg_eps_rel_diff=%.4f", len(overlap), avgDiff),
		Metrics: map[string]float64{
			"candidate_count":  float64(len(candRows)),
			"reference_count":  float64(len(refRows)),
			"overlap":          float64(len(overlap)),
			"avg_eps_rel_diff": avgDiff,
		},
		Issues: issues,
	}
}

func earningsByDate(rows []snapshot.EarningsRow) map[string]snapshot.EarningsRow {
	byDate := make(map[string]snapshot.EarningsRow, len(rows))
	for _, row := range rows {
		if row.Date == "" {
			continue
		}
		if _, exists := byDate[row.Date]; exists {
			continue
		}
		byDate[row.Date] = row
	}
	return byDate
}
