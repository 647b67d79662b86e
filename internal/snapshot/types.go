// Package snapshot defines the record types both snapshot producers emit
// for one symbol, plus the lenient decoding and boundary normalization
// that turn an arbitrary payload into canonical comparable tables.
package snapshot

import (
	"encoding/json"
	"strconv"

	"github.com/wonny/yfparity/internal/normalize"
)

// Snapshot is the full set of data fetched for one symbol from one source.
// Never mutated after construction.
type Snapshot struct {
	OK            bool             `json:"ok"`
	Symbol        string           `json:"symbol"`
	Quote         *Quote           `json:"quote"`
	History       History          `json:"history"`
	EarningsDates EarningsTable    `json:"earnings_dates"`
	IncomeStmt    IncomeTable      `json:"income_stmt"`
	Errors        []OperationError `json:"errors"`
}

// OperationError records one failed sub-fetch. The snapshot's remaining
// operations still carry data where available.
type OperationError struct {
	Operation string `json:"operation"`
	Error     string `json:"error"`
}

// Quote holds the top-of-book fields for one symbol. Every field is
// optional.
type Quote struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Currency      string `json:"currency"`
	Exchange      string `json:"exchange"`
	QuoteType     string `json:"quoteType"`
	Price         Number `json:"regularMarketPrice"`
	Change        Number `json:"regularMarketChange"`
	ChangePercent Number `json:"regularMarketChangePercent"`
	Volume        Number `json:"regularMarketVolume"`
	MarketCap     Number `json:"marketCap"`
	TrailingPE    Number `json:"trailingPE"`
	ForwardPE     Number `json:"forwardPE"`
}

// History is an ordered sequence of price bars.
type History struct {
	Period   string `json:"period"`
	Interval string `json:"interval"`
	BarCount int    `json:"barCount"`
	Bars     []Bar  `json:"bars"`
}

// Bar is one history row, keyed by its date (day, or day+time for
// intraday intervals).
type Bar struct {
	Date          string `json:"date"`
	Open          Number `json:"open"`
	High          Number `json:"high"`
	Low           Number `json:"low"`
	Close         Number `json:"close"`
	AdjustedClose Number `json:"adjustedClose"`
	Volume        Number `json:"volume"`
}

// EarningsTable is an ordered sequence of earnings rows, keyed by date.
type EarningsTable struct {
	RowCount int           `json:"rowCount"`
	Rows     []EarningsRow `json:"rows"`
}

// EarningsRow is one earnings event.
type EarningsRow struct {
	Date            string `json:"date"`
	EPSEstimate     Number `json:"epsEstimate"`
	EPSActual       Number `json:"epsActual"`
	SurprisePercent Number `json:"surprisePercent"`
}

// IncomeTable is an ordered sequence of income-statement rows, keyed by
// 4-digit year.
type IncomeTable struct {
	Frequency string      `json:"frequency"`
	RowCount  int         `json:"rowCount"`
	Rows      []IncomeRow `json:"rows"`
}

// IncomeRow is one fiscal period of the income statement.
type IncomeRow struct {
	Year         string `json:"year"`
	TotalRevenue Number `json:"totalRevenue"`
	NetIncome    Number `json:"netIncome"`
}

// Request carries the parameters a producer needs to build one snapshot.
type Request struct {
	Symbol        string
	Period        string
	Interval      string
	HistoryLimit  int
	EarningsLimit int
	IncomeLimit   int
	IncomeFreq    string // yearly | quarterly
}

// Intraday reports whether the requested interval carries time-of-day
// resolution, which decides the history date key format.
func (r Request) Intraday() bool {
	return intradayInterval(r.Interval)
}

// Number is an optional numeric field tolerant of the representations
// producers emit: JSON numbers, numeric strings, or null. NaN and
// infinities decode as absent. Decoding never fails; anything that cannot
// be read as a finite number is simply absent.
type Number struct {
	value   float64
	present bool
}

// NumberOf wraps a known value.
func NumberOf(v float64) Number {
	if norm := normalize.ToFloat(v); norm != nil {
		return Number{value: *norm, present: true}
	}
	return Number{}
}

// NumberFrom wraps an arbitrary scalar through the normalizer.
func NumberFrom(v interface{}) Number {
	if norm := normalize.ToFloat(v); norm != nil {
		return Number{value: *norm, present: true}
	}
	return Number{}
}

// Get returns the value and whether it is present.
func (n Number) Get() (float64, bool) {
	return n.value, n.present
}

// Absent reports whether the value is missing.
func (n Number) Absent() bool {
	return !n.present
}

// MarshalJSON encodes the value, or null when absent.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.present {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.value, 'g', -1, 64)), nil
}

// UnmarshalJSON never errors: malformed values decode as absent.
func (n *Number) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		*n = Number{}
		return nil
	}
	*n = NumberFrom(raw)
	return nil
}
