package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/yfparity/internal/candidate"
	"github.com/wonny/yfparity/internal/external/yahoo"
	"github.com/wonny/yfparity/internal/snapshot"
	"github.com/wonny/yfparity/pkg/config"
	"github.com/wonny/yfparity/pkg/logger"
)

// snapshotCmd represents the snapshot command, a debugging aid that
// fetches one side for one symbol and prints the snapshot JSON.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch a single snapshot and print it as JSON",
	Long: `Fetches one snapshot from either the Yahoo Finance reference or the
candidate producer and prints it to stdout, useful for inspecting what a
comparison actually sees.

Example:
  go run ./cmd/parity snapshot --symbol AAPL --source yahoo
  go run ./cmd/parity snapshot --symbol AAPL --source candidate --candidate-bin ./yfsnapshot`,
	RunE: runSnapshot,
}

var (
	snapshotSymbol       string
	snapshotSource       string
	snapshotPeriod       string
	snapshotInterval     string
	snapshotHistoryLimit int
	snapshotEarningsLim  int
	snapshotIncomeLimit  int
	snapshotIncomeFreq   string
	snapshotCandidateBin string
)

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringVar(&snapshotSymbol, "symbol", "", "symbol to fetch (required)")
	snapshotCmd.Flags().StringVar(&snapshotSource, "source", "yahoo", "snapshot source (yahoo|candidate)")
	snapshotCmd.Flags().StringVar(&snapshotPeriod, "period", "1mo", "history period")
	snapshotCmd.Flags().StringVar(&snapshotInterval, "interval", "1d", "history interval")
	snapshotCmd.Flags().IntVar(&snapshotHistoryLimit, "history-limit", 30, "history bars to fetch")
	snapshotCmd.Flags().IntVar(&snapshotEarningsLim, "earnings-limit", 4, "earnings rows to fetch")
	snapshotCmd.Flags().IntVar(&snapshotIncomeLimit, "income-limit", 4, "income statement rows to fetch")
	snapshotCmd.Flags().StringVar(&snapshotIncomeFreq, "income-freq", "yearly", "income frequency (yearly|quarterly)")
	snapshotCmd.Flags().StringVar(&snapshotCandidateBin, "candidate-bin", "", "candidate snapshot binary (default from config)")

	snapshotCmd.MarkFlagRequired("symbol")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("candidate-bin") {
		cfg.Candidate.Bin = snapshotCandidateBin
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	req := snapshot.Request{
		Symbol:        snapshotSymbol,
		Period:        snapshotPeriod,
		Interval:      snapshotInterval,
		HistoryLimit:  snapshotHistoryLimit,
		EarningsLimit: snapshotEarningsLim,
		IncomeLimit:   snapshotIncomeLimit,
		IncomeFreq:    snapshotIncomeFreq,
	}

	var snap *snapshot.Snapshot
	switch snapshotSource {
	case "yahoo":
		snap = yahoo.NewClient(cfg.Yahoo, log).Snapshot(cmd.Context(), req)
	case "candidate":
		snap = candidate.NewRunner(cfg.Candidate.Bin, cfg.Candidate.Args, cfg.Candidate.Timeout, log).
			Snapshot(cmd.Context(), req)
	default:
		return fmt.Errorf("--source must be yahoo or candidate, got %q", snapshotSource)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
