// Package parity orchestrates a comparison run: fetch both snapshots per
// symbol, normalize, run the four comparators and aggregate into a report.
package parity

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/wonny/yfparity/internal/compare"
	"github.com/wonny/yfparity/internal/report"
	"github.com/wonny/yfparity/internal/snapshot"
	"github.com/wonny/yfparity/pkg/logger"
)

// Source produces one snapshot per symbol. A source never returns an
// error: fetch failures surface as not-ok snapshots with error entries so
// one symbol cannot abort the run.
type Source interface {
	Snapshot(ctx context.Context, req snapshot.Request) *snapshot.Snapshot
}

// Runner drives one parity run across a symbol list.
type Runner struct {
	candidate Source
	reference Source
	workers   int
	logger    *logger.Logger
}

// NewRunner creates a Runner comparing candidate output against the
// reference source with the given worker parallelism.
func NewRunner(candidate, reference Source, workers int, log *logger.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		candidate: candidate,
		reference: reference,
		workers:   workers,
		logger:    log.WithField("module", "parity"),
	}
}

type symbolJob struct {
	index  int
	symbol string
}

type symbolOutcome struct {
	index  int
	report report.SymbolReport
}

// Run executes the comparison for every configured symbol. Symbols are
// processed by a bounded worker pool; the report lists them in input
// order.
func (r *Runner) Run(ctx context.Context, cfg report.RunConfig) *report.Report {
	startedAt := time.Now().UTC()

	r.logger.WithFields(map[string]interface{}{
		"symbols": len(cfg.Symbols),
		"workers": r.workers,
	}).Info("Starting parity run")

	outcomes := make([]report.SymbolReport, len(cfg.Symbols))
	jobCh := make(chan symbolJob, len(cfg.Symbols))
	resultCh := make(chan symbolOutcome, len(cfg.Symbols))

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, cfg, jobCh, resultCh)
		}()
	}

	for i, symbol := range cfg.Symbols {
		jobCh <- symbolJob{index: i, symbol: symbol}
	}
	close(jobCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	for outcome := range resultCh {
		outcomes[outcome.index] = outcome.report
	}

	statuses := make([]compare.Status, len(outcomes))
	for i, outcome := range outcomes {
		statuses[i] = outcome.Status
	}
	summary := compare.Summarize(statuses)

	r.logger.WithFields(map[string]interface{}{
		"pass":  summary.Pass,
		"warn":  summary.Warn,
		"fail":  summary.Fail,
		"skip":  summary.Skip,
		"score": summary.Score,
	}).Info("Parity run completed")

	return &report.Report{
		GeneratedAt: startedAt,
		Config:      cfg,
		Summary:     summary,
		Symbols:     outcomes,
	}
}

func (r *Runner) worker(ctx context.Context, cfg report.RunConfig, jobCh <-chan symbolJob, resultCh chan<- symbolOutcome) {
	for job := range jobCh {
		select {
		case <-ctx.Done():
			resultCh <- symbolOutcome{
				index:  job.index,
				report: canceledReport(job.symbol, ctx.Err()),
			}
			continue
		default:
		}

		resultCh <- symbolOutcome{
			index:  job.index,
			report: r.compareSymbol(ctx, cfg, job.symbol),
		}
	}
}

func (r *Runner) compareSymbol(ctx context.Context, cfg report.RunConfig, symbol string) report.SymbolReport {
	req := snapshot.Request{
		Symbol:        symbol,
		Period:        cfg.Period,
		Interval:      cfg.Interval,
		HistoryLimit:  cfg.HistoryLimit,
		EarningsLimit: cfg.EarningsLimit,
		IncomeLimit:   cfg.IncomeLimit,
		IncomeFreq:    cfg.IncomeFreq,
	}
	intraday := req.Intraday()

	candidate := r.candidate.Snapshot(ctx, req).Normalized(intraday)
	reference := r.reference.Snapshot(ctx, req).Normalized(intraday)

	comparisons := compare.Symbol(candidate, reference)
	status := comparisons.Worst()

	r.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"status": status.String(),
	}).Info("Symbol compared")

	return report.SymbolReport{
		Symbol:          strings.ToUpper(strings.TrimSpace(symbol)),
		Status:          status,
		CandidateOK:     candidate.OK,
		CandidateErrors: candidate.Errors,
		Comparisons:     comparisons,
	}
}

// canceledReport marks a symbol the run never got to compare.
func canceledReport(symbol string, err error) report.SymbolReport {
	candidate := snapshot.Empty(symbol, "snapshot", "run_canceled: "+err.Error())
	reference := snapshot.Empty(symbol, "snapshot", "run_canceled: "+err.Error())
	comparisons := compare.Symbol(candidate, reference)

	return report.SymbolReport{
		Symbol:          candidate.Symbol,
		Status:          comparisons.Worst(),
		CandidateOK:     false,
		CandidateErrors: candidate.Errors,
		Comparisons:     comparisons,
	}
}
