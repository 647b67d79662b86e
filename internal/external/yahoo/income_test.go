package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const timeseriesPayload = `{
  "timeseries": {
    "result": [
      {
        "meta": {"symbol": ["AAPL"], "type": ["annualTotalRevenue"]},
        "annualTotalRevenue": [
          {"asOfDate": "2023-09-30", "reportedValue": {"raw": 383285000000, "fmt": "383.29B"}},
          {"asOfDate": "2024-09-30", "reportedValue": {"raw": 391035000000, "fmt": "391.04B"}},
          null
        ]
      },
      {
        "meta": {"symbol": ["AAPL"], "type": ["annualNetIncome"]},
        "annualNetIncome": [
          {"asOfDate": "2023-09-30", "reportedValue": {"raw": 96995000000, "fmt": "97.00B"}},
          {"asOfDate": "2024-09-30", "reportedValue": {"raw": 93736000000, "fmt": "93.74B"}}
        ]
      },
      {
        "meta": {"symbol": ["AAPL"], "type": ["annualOperatingRevenue"]},
        "annualOperatingRevenue": [
          {"asOfDate": "2022-09-30", "reportedValue": {"raw": 394328000000, "fmt": "394.33B"}}
        ]
      }
    ],
    "error": null
  }
}`

func TestIncomeStatementMergesConcepts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		types := r.URL.Query().Get("type")
		assert.True(t, strings.HasPrefix(types, "annual"))
		assert.Contains(t, types, "annualTotalRevenue")
		assert.Contains(t, types, "annualNetIncome")
		w.Write([]byte(timeseriesPayload))
	}))
	defer srv.Close()

	table, err := testClient(srv).IncomeStatement(context.Background(), "AAPL", "yearly", 4)
	require.NoError(t, err)

	assert.Equal(t, "yearly", table.Frequency)
	require.Equal(t, 3, table.RowCount)

	// Most recent first
	assert.Equal(t, "2024", table.Rows[0].Year)
	assert.Equal(t, "2023", table.Rows[1].Year)
	assert.Equal(t, "2022", table.Rows[2].Year)

	revenue, ok := table.Rows[0].TotalRevenue.Get()
	require.True(t, ok)
	assert.Equal(t, 391035000000.0, revenue)

	netIncome, ok := table.Rows[0].NetIncome.Get()
	require.True(t, ok)
	assert.Equal(t, 93736000000.0, netIncome)

	// 2022 has only operating revenue; the alias fills totalRevenue and
	// net income stays absent
	opRevenue, ok := table.Rows[2].TotalRevenue.Get()
	require.True(t, ok)
	assert.Equal(t, 394328000000.0, opRevenue)
	assert.True(t, table.Rows[2].NetIncome.Absent())
}

func TestIncomeStatementTrimsToLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(timeseriesPayload))
	}))
	defer srv.Close()

	table, err := testClient(srv).IncomeStatement(context.Background(), "AAPL", "yearly", 2)
	require.NoError(t, err)

	require.Equal(t, 2, table.RowCount)
	assert.Equal(t, "2024", table.Rows[0].Year)
	assert.Equal(t, "2023", table.Rows[1].Year)
}

func TestIncomeStatementQuarterlyPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("type"), "quarterlyTotalRevenue")
		w.Write([]byte(`{"timeseries":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	table, err := testClient(srv).IncomeStatement(context.Background(), "AAPL", "quarterly", 4)
	require.NoError(t, err)
	assert.Equal(t, "quarterly", table.Frequency)
	assert.Zero(t, table.RowCount)
}

func TestConceptLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"TotalRevenue", "total revenue"},
		{"NetIncome", "net income"},
		{"NetIncomeCommonStockholders", "net income common stockholders"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, conceptLabel(tt.in))
	}
}
