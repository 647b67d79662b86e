package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/yfparity/internal/snapshot"
)

func TestComparisonsWorst(t *testing.T) {
	tests := []struct {
		name string
		c    Comparisons
		want Status
	}{
		{
			name: "all pass",
			c: Comparisons{
				Quote:    Result{Status: StatusPass},
				History:  Result{Status: StatusPass},
				Earnings: Result{Status: StatusPass},
				Income:   Result{Status: StatusPass},
			},
			want: StatusPass,
		},
		{
			name: "warn dominates pass",
			c: Comparisons{
				Quote:   Result{Status: StatusWarn},
				History: Result{Status: StatusPass},
			},
			want: StatusWarn,
		},
		{
			name: "fail dominates warn",
			c: Comparisons{
				Quote:   Result{Status: StatusWarn},
				Income:  Result{Status: StatusFail},
				History: Result{Status: StatusPass},
			},
			want: StatusFail,
		},
		{
			name: "skip dominates fail",
			c: Comparisons{
				Quote:    Result{Status: StatusFail},
				Earnings: Result{Status: StatusSkip},
			},
			want: StatusSkip,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.Worst())
		})
	}
}

func TestSymbolNilSnapshots(t *testing.T) {
	c := Symbol(nil, nil)

	// Empty against empty: quote passes vacuously, the tables all skip.
	assert.Equal(t, StatusPass, c.Quote.Status)
	assert.Equal(t, StatusSkip, c.History.Status)
	assert.Equal(t, StatusSkip, c.Earnings.Status)
	assert.Equal(t, StatusSkip, c.Income.Status)
	assert.Equal(t, StatusSkip, c.Worst())
}

func TestSymbolMissingSectionDrivesOverall(t *testing.T) {
	bars := []snapshot.Bar{
		{Date: "2024-11-01", Close: snapshot.NumberOf(100)},
		{Date: "2024-11-04", Close: snapshot.NumberOf(101)},
	}
	quote := &snapshot.Quote{
		Symbol:   "AAPL",
		Currency: "USD",
		Price:    snapshot.NumberOf(225.0),
	}
	earnings := snapshot.EarningsTable{Rows: []snapshot.EarningsRow{
		{Date: "2024-11-01", EPSEstimate: snapshot.NumberOf(1.50), EPSActual: snapshot.NumberOf(1.55)},
		{Date: "2024-08-01", EPSEstimate: snapshot.NumberOf(1.40), EPSActual: snapshot.NumberOf(1.42)},
	}}

	candidate := &snapshot.Snapshot{
		OK:            true,
		Symbol:        "AAPL",
		Quote:         quote,
		History:       snapshot.History{BarCount: 2, Bars: bars},
		EarningsDates: earnings,
		// income missing entirely
	}
	reference := &snapshot.Snapshot{
		OK:            true,
		Symbol:        "AAPL",
		Quote:         quote,
		History:       snapshot.History{BarCount: 2, Bars: bars},
		EarningsDates: earnings,
		IncomeStmt: snapshot.IncomeTable{RowCount: 4, Rows: []snapshot.IncomeRow{
			incomeRow("2024", 391e9, 93.7e9),
			incomeRow("2023", 383e9, 97.0e9),
			incomeRow("2022", 394e9, 99.8e9),
			incomeRow("2021", 366e9, 94.7e9),
		}},
	}

	c := Symbol(candidate, reference)

	require.Equal(t, StatusPass, c.Quote.Status)
	require.Equal(t, StatusPass, c.History.Status)
	require.Equal(t, StatusPass, c.Earnings.Status)
	assert.Equal(t, StatusFail, c.Income.Status)
	assert.Equal(t, StatusFail, c.Worst())
}
