// Package report renders the outcome of a parity run as JSON and
// Markdown artifacts.
package report

import (
	"time"

	"github.com/wonny/yfparity/internal/compare"
	"github.com/wonny/yfparity/internal/snapshot"
)

// RunConfig is the configuration block echoed into every report so a
// reader can reproduce the run.
type RunConfig struct {
	Symbols       []string `json:"symbols"`
	Period        string   `json:"period"`
	Interval      string   `json:"interval"`
	HistoryLimit  int      `json:"history_limit"`
	EarningsLimit int      `json:"earnings_limit"`
	IncomeLimit   int      `json:"income_limit"`
	IncomeFreq    string   `json:"income_freq"`
	CandidateBin  string   `json:"candidate_bin"`
}

// SymbolReport is the outcome for one symbol.
type SymbolReport struct {
	Symbol          string                    `json:"symbol"`
	Status          compare.Status            `json:"status"`
	CandidateOK     bool                      `json:"candidate_ok"`
	CandidateErrors []snapshot.OperationError `json:"candidate_errors"`
	Comparisons     compare.Comparisons       `json:"comparisons"`
}

// Report is the full run outcome.
type Report struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Config      RunConfig       `json:"config"`
	Summary     compare.Summary `json:"summary"`
	Symbols     []SymbolReport  `json:"symbols"`
}
