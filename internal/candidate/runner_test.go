package candidate

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/yfparity/internal/snapshot"
	"github.com/wonny/yfparity/pkg/config"
	"github.com/wonny/yfparity/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "json"})
}

// writeScript drops an executable shell script into a temp dir and returns
// its path. Tests exercising the runner need a real child process.
func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-script fixtures require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "candidate.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func testRequest() snapshot.Request {
	return snapshot.Request{
		Symbol:        "AAPL",
		Period:        "1mo",
		Interval:      "1d",
		HistoryLimit:  30,
		EarningsLimit: 4,
		IncomeLimit:   4,
		IncomeFreq:    "yearly",
	}
}

func TestSnapshotParsesLastJSONLine(t *testing.T) {
	bin := writeScript(t, `
echo "starting up"
echo "fetching AAPL..."
echo '{"ok":true,"symbol":"aapl","quote":{"symbol":"AAPL","regularMarketPrice":225.5}}'
`)
	r := NewRunner(bin, nil, 10*time.Second, testLogger())

	snap := r.Snapshot(context.Background(), testRequest())

	require.True(t, snap.OK)
	assert.Equal(t, "AAPL", snap.Symbol)
	require.NotNil(t, snap.Quote)
	price, ok := snap.Quote.Price.Get()
	require.True(t, ok)
	assert.Equal(t, 225.5, price)
	assert.Empty(t, snap.Errors)
}

func TestSnapshotPassesRequestFlags(t *testing.T) {
	out := filepath.Join(t.TempDir(), "args.txt")
	bin := writeScript(t, `
echo "$@" > `+out+`
echo '{"ok":true,"symbol":"AAPL"}'
`)
	r := NewRunner(bin, nil, 10*time.Second, testLogger())

	snap := r.Snapshot(context.Background(), testRequest())
	require.True(t, snap.OK)

	args, err := os.ReadFile(out)
	require.NoError(t, err)
	got := string(args)
	assert.Contains(t, got, "snapshot")
	assert.Contains(t, got, "--symbol AAPL")
	assert.Contains(t, got, "--period 1mo")
	assert.Contains(t, got, "--interval 1d")
	assert.Contains(t, got, "--history-limit 30")
	assert.Contains(t, got, "--freq yearly")
}

func TestSnapshotSkipsUnparseableBraceLines(t *testing.T) {
	bin := writeScript(t, `
echo '{"ok":true,"symbol":"AAPL"}'
echo '{elapsed: 1.2s}'
`)
	r := NewRunner(bin, nil, 10*time.Second, testLogger())

	snap := r.Snapshot(context.Background(), testRequest())

	// The trailing brace-shaped log line does not parse; the scan keeps
	// walking up to the real payload.
	assert.True(t, snap.OK)
	assert.Equal(t, "AAPL", snap.Symbol)
}

func TestSnapshotTimeout(t *testing.T) {
	bin := writeScript(t, `
sleep 5
echo '{"ok":true,"symbol":"AAPL"}'
`)
	r := NewRunner(bin, nil, 200*time.Millisecond, testLogger())

	snap := r.Snapshot(context.Background(), testRequest())

	assert.False(t, snap.OK)
	require.Len(t, snap.Errors, 1)
	assert.Equal(t, "snapshot", snap.Errors[0].Operation)
	assert.Equal(t, "candidate_snapshot_timeout", snap.Errors[0].Error)
}

func TestSnapshotInvalidJSON(t *testing.T) {
	bin := writeScript(t, `echo "not json at all"`)
	r := NewRunner(bin, nil, 10*time.Second, testLogger())

	snap := r.Snapshot(context.Background(), testRequest())

	assert.False(t, snap.OK)
	require.Len(t, snap.Errors, 1)
	assert.Equal(t, "candidate_snapshot_invalid_json", snap.Errors[0].Error)
}

func TestSnapshotNonZeroExitForcesNotOK(t *testing.T) {
	bin := writeScript(t, `
echo '{"ok":true,"symbol":"AAPL"}'
exit 3
`)
	r := NewRunner(bin, nil, 10*time.Second, testLogger())

	snap := r.Snapshot(context.Background(), testRequest())

	assert.False(t, snap.OK)
	require.Len(t, snap.Errors, 1)
	assert.Equal(t, "candidate_exit_3", snap.Errors[0].Error)
}

func TestSnapshotMissingBinary(t *testing.T) {
	r := NewRunner("/nonexistent/candidate-bin", nil, time.Second, testLogger())

	snap := r.Snapshot(context.Background(), testRequest())

	assert.False(t, snap.OK)
	require.Len(t, snap.Errors, 1)
	assert.Contains(t, snap.Errors[0].Error, "candidate_exec_failed")
}
