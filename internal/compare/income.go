package compare

import (
	"fmt"

	"github.com/wonny/yfparity/internal/snapshot"
)

const (
	incomePassDiff   = 0.15
	incomeWarnDiff   = 0.35
	incomeMinOverlap = 2
)

// Income compares income statements by aligning rows on their year keys
// and averaging the relative difference jointly over total revenue and net
// income. Statement figures drift more between sources than quotes do, so
// the budgets are looser.
func Income(candidate, reference snapshot.IncomeTable) Result {
	candRows := candidate.Rows
	refRows := reference.Rows

	if len(candRows) == 0 && len(refRows) == 0 {
		return Result{
			Status:  StatusSkip,
			Summary: "No income rows from either side",
			Metrics: map[string]float64{"overlap": 0},
		}
	}
	if len(candRows) == 0 || len(refRows) == 0 {
		return Result{
			Status:  StatusFail,
			Summary: "Income rows present on only one side",
			Metrics: map[string]float64{
				"candidate_count": float64(len(candRows)),
				"reference_count": float64(len(refRows)),
			},
		}
	}

	candByYear := incomeByYear(candRows)
	refByYear := incomeByYear(refRows)
	// Most recent years first for presentation.
	overlap := intersectKeys(candByYear, refByYear, true)

	if len(overlap) == 0 {
		return Result{
			Status:  StatusWarn,
			Summary: "No overlapping income years",
			Metrics: map[string]float64{"overlap": 0},
		}
	}

	var diffs []float64
	for _, year := range overlap {
		candRow := candByYear[year]
		refRow := refByYear[year]
		for _, pair := range [][2]snapshot.Number{
			{candRow.TotalRevenue, refRow.TotalRevenue},
			{candRow.NetIncome, refRow.NetIncome},
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
	case len(overlap) >= incomeMinOverlap && avgDiff <= incomePassDiff:
		status = StatusPass
	case avgDiff <= incomeWarnDiff:
		status = StatusWarn
	default:
		status = StatusFail
	}

	var issues []string
	if len(overlap) < incomeMinOverlap {
		issues = append(issues, "low overlap (<2 years)")
	}
	if avgDiff > incomePassDiff {
		issues = append(issues, fmt.Sprintf("avg statement rel diff=%.4f", avgDiff))
	}

	return Result{
		Status:  status,
		Summary: fmt.Sprintf("overlap=%d avg_stmt_rel_diff=%.4f", len(overlap), avgDiff),
		Metrics: map[string]float64{
			"candidate_count":   float64(len(candRows)),
			"reference_count":   float64(len(refRows)),
			"overlap":           float64(len(overlap)),
			"avg_stmt_rel_diff": avgDiff,
		},
		Issues: issues,
	}
}

func incomeByYear(rows []snapshot.IncomeRow) map[string]snapshot.IncomeRow {
	byYear := make(map[string]snapshot.IncomeRow, len(rows))
	for _, row := range rows {
		if row.Year == "" {
			continue
		}
		if _, exists := byYear[row.Year]; exists {
			continue
		}
		byYear[row.Year] = row
	}
	return byYear
}
