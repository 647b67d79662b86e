// Package compare implements the field-group comparators and the status
// aggregation that turn two snapshots of the same symbol into per-field
// verdicts and a run-level score.
package compare

import (
	"encoding/json"
	"fmt"
	"math"
)

// Status is the verdict of one comparison.
//
// The rank order is pass < warn < fail < skip: skip ranks WORST, so a
// symbol with missing data surfaces as skip even when every populated
// field passes. Aggregation takes a maximum over these ranks; changing the
// order changes observable behavior.
type Status int

const (
	StatusPass Status = iota
	StatusWarn
	StatusFail
	StatusSkip
)

// String returns the wire form of the status.
func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	case StatusSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the status as its wire string.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes the wire string form.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw {
	case "pass":
		*s = StatusPass
	case "warn":
		*s = StatusWarn
	case "fail":
		*s = StatusFail
	case "skip":
		*s = StatusSkip
	default:
		return fmt.Errorf("unknown status %q", raw)
	}
	return nil
}

// WorstStatus returns the maximum status per the lattice rank. An empty
// input yields pass.
func WorstStatus(statuses []Status) Status {
	worst := StatusPass
	for _, status := range statuses {
		if status > worst {
			worst = status
		}
	}
	return worst
}

// Result is the verdict for one (symbol, field group) pair. Immutable
// once produced.
type Result struct {
	Status  Status             `json:"status"`
	Summary string             `json:"summary"`
	Metrics map[string]float64 `json:"metrics"`
	Issues  []string           `json:"issues"`
}

// Summary aggregates per-symbol verdicts into run-level counts and a
// score. Skipped symbols are excluded from both sides of the ratio.
type Summary struct {
	Total int     `json:"total"`
	Pass  int     `json:"pass"`
	Warn  int     `json:"warn"`
	Fail  int     `json:"fail"`
	Skip  int     `json:"skip"`
	Score float64 `json:"score"`
}

// Summarize counts per-symbol statuses and computes the score:
// (pass + 0.5*warn) / (total - skip) * 100, floored at 0, and 100.0 when
// nothing was scored at all.
func Summarize(statuses []Status) Summary {
	s := Summary{Total: len(statuses)}
	for _, status := range statuses {
		switch status {
		case StatusPass:
			s.Pass++
		case StatusWarn:
			s.Warn++
		case StatusFail:
			s.Fail++
		case StatusSkip:
			s.Skip++
		}
	}

	scoredTotal := s.Total - s.Skip
	if scoredTotal <= 0 {
		s.Score = 100.0
		return s
	}

	s.Score = math.Max(0, (float64(s.Pass)+0.5*float64(s.Warn))/float64(scoredTotal)*100.0)
	return s
}

// relDiffEpsilon keeps near-zero reference values from blowing up the
// relative difference.
const relDiffEpsilon = 1e-9

// relDiff is the reference-anchored relative difference
// |candidate-reference| / max(|reference|, epsilon). Deliberately not
// symmetric: the denominator uses the reference value only.
func relDiff(candidate, reference float64) float64 {
	denom := math.Max(math.Abs(reference), relDiffEpsilon)
	return math.Abs(candidate-reference) / denom
}

// nearlyEqual reports whether two values agree within a relative tolerance
// of the larger magnitude or an absolute floor, whichever is looser.
func nearlyEqual(a, b, relTol, absTol float64) bool {
	diff := math.Abs(a - b)
	return diff <= relTol*math.Max(math.Abs(a), math.Abs(b)) || diff <= absTol
}
