// Package candidate invokes the candidate snapshot producer as an external
// process and turns its stdout into a Snapshot. The producer is treated as
// untrusted: timeouts, bad exits and unparseable output all degrade to a
// not-ok snapshot with a diagnostic error entry, never an aborted run.
package candidate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/yfparity/internal/snapshot"
	"github.com/wonny/yfparity/pkg/logger"
)

const outputTailLimit = 400

// Runner executes the candidate binary once per symbol.
type Runner struct {
	bin     string
	args    []string
	timeout time.Duration
	log     *logger.Logger
}

// NewRunner creates a Runner for the given candidate binary. args are
// inserted before the snapshot subcommand, for producers invoked through
// a wrapper command.
func NewRunner(bin string, args []string, timeout time.Duration, log *logger.Logger) *Runner {
	return &Runner{
		bin:     bin,
		args:    args,
		timeout: timeout,
		log:     log,
	}
}

// Snapshot runs `<bin> [args...] snapshot --symbol ...` and parses the last
// JSON object line of its stdout. The invocation is never retried.
func (r *Runner) Snapshot(ctx context.Context, req snapshot.Request) *snapshot.Snapshot {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	argv := append(append([]string{}, r.args...),
		"snapshot",
		"--symbol", req.Symbol,
		"--period", req.Period,
		"--interval", req.Interval,
		"--history-limit", strconv.Itoa(req.HistoryLimit),
		"--earnings-limit", strconv.Itoa(req.EarningsLimit),
		"--income-limit", strconv.Itoa(req.IncomeLimit),
		"--freq", req.IncomeFreq,
	)

	cmd := exec.CommandContext(runCtx, r.bin, argv...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log := r.log.WithField("symbol", req.Symbol)
	log.Debugf("candidate: %s %s", r.bin, strings.Join(argv, " "))

	runErr := cmd.Run()

	if runCtx.Err() == context.DeadlineExceeded {
		log.Warnf("candidate timed out after %s", r.timeout)
		return snapshot.Empty(req.Symbol, "snapshot", "candidate_snapshot_timeout")
	}

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			// The process never ran (binary missing, permission denied).
			log.WithError(runErr).Error("candidate failed to start")
			return snapshot.Empty(req.Symbol, "snapshot",
				fmt.Sprintf("candidate_exec_failed: %v", runErr))
		}
	}

	snap, err := decodeOutput(stdout.Bytes())
	if err != nil {
		log.WithError(err).
			WithField("stdout", tail(stdout.String())).
			WithField("stderr", tail(stderr.String())).
			Error("candidate output is not valid JSON")
		return snapshot.Empty(req.Symbol, "snapshot", "candidate_snapshot_invalid_json")
	}

	// A non-zero exit with a payload still claiming ok is a lie worth
	// recording; a payload already marked not-ok carries its own errors.
	if exitCode != 0 && snap.OK {
		snap.OK = false
		snap.Errors = append(snap.Errors, snapshot.OperationError{
			Operation: "snapshot",
			Error:     fmt.Sprintf("candidate_exit_%d", exitCode),
		})
	}
	if snap.Symbol == "" {
		snap.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	}
	return snap
}

// decodeOutput scans stdout bottom-up for the last line shaped like a
// JSON object that decodes, tolerating log noise around the payload. When
// no line parses, the whole output gets a best-effort parse.
func decodeOutput(out []byte) (*snapshot.Snapshot, error) {
	lines := bytes.Split(out, []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		line := bytes.TrimSpace(lines[i])
		if len(line) < 2 || line[0] != '{' || line[len(line)-1] != '}' {
			continue
		}
		if snap, err := snapshot.Decode(line); err == nil {
			return snap, nil
		}
	}
	return snapshot.Decode(bytes.TrimSpace(out))
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= outputTailLimit {
		return s
	}
	return "..." + s[len(s)-outputTailLimit:]
}
