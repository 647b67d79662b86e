package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/yfparity/internal/candidate"
	"github.com/wonny/yfparity/internal/external/yahoo"
	"github.com/wonny/yfparity/internal/parity"
	"github.com/wonny/yfparity/internal/report"
	"github.com/wonny/yfparity/pkg/config"
	"github.com/wonny/yfparity/pkg/logger"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full parity comparison and write reports",
	Long: `Fetches a candidate snapshot and a Yahoo Finance snapshot for every
symbol, compares quote, history, earnings and income statement data, and
writes JSON and Markdown reports.

Exit code is 1 when any symbol fails, 0 otherwise.

Example:
  go run ./cmd/parity run --symbols AAPL,MSFT,NVDA
  go run ./cmd/parity run --period 3mo --interval 1d --candidate-bin ./yfsnapshot
  go run ./cmd/parity run --income-freq quarterly --workers 4`,
	RunE: runParity,
}

var (
	runSymbols       string
	runPeriod        string
	runInterval      string
	runHistoryLimit  int
	runEarningsLimit int
	runIncomeLimit   int
	runIncomeFreq    string
	runCandidateBin  string
	runTimeout       time.Duration
	runWorkers       int
	runOutputJSON    string
	runOutputMD      string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runSymbols, "symbols", "", "comma-separated symbols (default from config)")
	runCmd.Flags().StringVar(&runPeriod, "period", "1mo", "history period (1mo, 3mo, 1y, ...)")
	runCmd.Flags().StringVar(&runInterval, "interval", "1d", "history interval (1d, 1h, 5m, ...)")
	runCmd.Flags().IntVar(&runHistoryLimit, "history-limit", 30, "history bars to compare")
	runCmd.Flags().IntVar(&runEarningsLimit, "earnings-limit", 4, "earnings rows to compare")
	runCmd.Flags().IntVar(&runIncomeLimit, "income-limit", 4, "income statement rows to compare")
	runCmd.Flags().StringVar(&runIncomeFreq, "income-freq", "yearly", "income frequency (yearly|quarterly)")
	runCmd.Flags().StringVar(&runCandidateBin, "candidate-bin", "", "candidate snapshot binary (default from config)")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 120*time.Second, "per-symbol candidate timeout")
	runCmd.Flags().IntVar(&runWorkers, "workers", 3, "parallel symbol workers")
	runCmd.Flags().StringVar(&runOutputJSON, "output-json", "", "JSON report path (default from config)")
	runCmd.Flags().StringVar(&runOutputMD, "output-md", "", "Markdown report path (default from config)")
}

func runParity(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyRunFlags(cmd, cfg)

	if len(cfg.Run.Symbols) == 0 {
		return fmt.Errorf("no symbols to compare: pass --symbols or set PARITY_SYMBOLS")
	}
	if cfg.Run.IncomeFreq != "yearly" && cfg.Run.IncomeFreq != "quarterly" {
		return fmt.Errorf("--income-freq must be yearly or quarterly")
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	candidateSource := candidate.NewRunner(cfg.Candidate.Bin, cfg.Candidate.Args, cfg.Candidate.Timeout, log)
	referenceSource := yahoo.NewClient(cfg.Yahoo, log)

	runner := parity.NewRunner(candidateSource, referenceSource, cfg.Run.Workers, log)
	rep := runner.Run(cmd.Context(), report.RunConfig{
		Symbols:       cfg.Run.Symbols,
		Period:        cfg.Run.Period,
		Interval:      cfg.Run.Interval,
		HistoryLimit:  cfg.Run.HistoryLimit,
		EarningsLimit: cfg.Run.EarningsLimit,
		IncomeLimit:   cfg.Run.IncomeLimit,
		IncomeFreq:    cfg.Run.IncomeFreq,
		CandidateBin:  cfg.Candidate.Bin,
	})

	if err := report.WriteJSON(cfg.Output.JSONPath, rep); err != nil {
		return err
	}
	if err := report.WriteMarkdown(cfg.Output.MDPath, rep); err != nil {
		return err
	}

	fmt.Printf("pass=%d warn=%d fail=%d skip=%d score=%.1f\n",
		rep.Summary.Pass, rep.Summary.Warn, rep.Summary.Fail, rep.Summary.Skip, rep.Summary.Score)
	fmt.Printf("reports: %s, %s\n", cfg.Output.JSONPath, cfg.Output.MDPath)

	if rep.Summary.Fail > 0 {
		return &ExitError{Code: 1}
	}
	return nil
}

// applyRunFlags overrides config with the flags the caller actually set.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("symbols") {
		cfg.Run.Symbols = splitSymbols(runSymbols)
	}
	if flags.Changed("period") {
		cfg.Run.Period = runPeriod
	}
	if flags.Changed("interval") {
		cfg.Run.Interval = runInterval
	}
	if flags.Changed("history-limit") && runHistoryLimit >= 1 {
		cfg.Run.HistoryLimit = runHistoryLimit
	}
	if flags.Changed("earnings-limit") && runEarningsLimit >= 1 {
		cfg.Run.EarningsLimit = runEarningsLimit
	}
	if flags.Changed("income-limit") && runIncomeLimit >= 1 {
		cfg.Run.IncomeLimit = runIncomeLimit
	}
	if flags.Changed("income-freq") {
		cfg.Run.IncomeFreq = runIncomeFreq
	}
	if flags.Changed("candidate-bin") {
		cfg.Candidate.Bin = runCandidateBin
	}
	if flags.Changed("timeout") {
		cfg.Candidate.Timeout = runTimeout
		if cfg.Candidate.Timeout < 20*time.Second {
			cfg.Candidate.Timeout = 20 * time.Second
		}
	}
	if flags.Changed("workers") && runWorkers >= 1 {
		cfg.Run.Workers = runWorkers
	}
	if flags.Changed("output-json") {
		cfg.Output.JSONPath = runOutputJSON
	}
	if flags.Changed("output-md") {
		cfg.Output.MDPath = runOutputMD
	}
}

func splitSymbols(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
