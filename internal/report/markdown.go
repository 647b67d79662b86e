package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wonny/yfparity/internal/compare"
)

// RenderMarkdown renders the report in the reviewer-facing layout:
// header, config and summary lines, a per-symbol status table, then a
// details section with issue bullets.
func RenderMarkdown(r *Report) string {
	var b strings.Builder

	b.WriteString("# Snapshot Parity Report\n\n")
	fmt.Fprintf(&b, "- Generated: `%s`\n", r.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"))
	fmt.Fprintf(&b,
		"- Config: period=`%s` interval=`%s` history_limit=%d earnings_limit=%d income_limit=%d income_freq=`%s`\n",
		r.Config.Period, r.Config.Interval, r.Config.HistoryLimit,
		r.Config.EarningsLimit, r.Config.IncomeLimit, r.Config.IncomeFreq,
	)
	fmt.Fprintf(&b,
		"- Summary: pass=%d warn=%d fail=%d skip=%d score=%.1f\n",
		r.Summary.Pass, r.Summary.Warn, r.Summary.Fail, r.Summary.Skip, r.Summary.Score,
	)

	b.WriteString("\n## Symbol Status\n\n")
	b.WriteString("| Symbol | Status | Quote | History | Earnings | Income |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|\n")
	for _, sym := range r.Symbols {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			sym.Symbol, sym.Status,
			sym.Comparisons.Quote.Status,
			sym.Comparisons.History.Status,
			sym.Comparisons.Earnings.Status,
			sym.Comparisons.Income.Status,
		)
	}

	b.WriteString("\n## Details\n\n")
	for _, sym := range r.Symbols {
		fmt.Fprintf(&b, "### %s (`%s`)\n", sym.Symbol, sym.Status)
		if len(sym.CandidateErrors) > 0 {
			b.WriteString("- Candidate errors:\n")
			for _, opErr := range sym.CandidateErrors {
				fmt.Fprintf(&b, "  - `%s: %s`\n", opErr.Operation, opErr.Error)
			}
		}
		writeComparison(&b, "quote", sym.Comparisons.Quote)
		writeComparison(&b, "history", sym.Comparisons.History)
		writeComparison(&b, "earnings_dates", sym.Comparisons.Earnings)
		writeComparison(&b, "income_stmt", sym.Comparisons.Income)
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeComparison(b *strings.Builder, name string, result compare.Result) {
	fmt.Fprintf(b, "- `%s`: **%s** - %s\n", name, result.Status, result.Summary)
	for _, issue := range result.Issues {
		fmt.Fprintf(b, "  - %s\n", issue)
	}
}

// WriteMarkdown renders the report and writes it, creating parent
// directories as needed.
func WriteMarkdown(path string, r *Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(RenderMarkdown(r)), 0o644); err != nil {
		return fmt.Errorf("write Markdown report: %w", err)
	}
	return nil
}
