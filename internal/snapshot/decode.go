package snapshot

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Decode parses a raw producer payload. The top level must be a JSON
// object; within it, each field group decodes independently so that one
// malformed section degrades to an empty record instead of discarding the
// rest of the snapshot.
func Decode(data []byte) (*Snapshot, error) {
	var raw struct {
		OK            bool            `json:"ok"`
		Symbol        string          `json:"symbol"`
		Quote         json.RawMessage `json:"quote"`
		History       json.RawMessage `json:"history"`
		EarningsDates json.RawMessage `json:"earnings_dates"`
		IncomeStmt    json.RawMessage `json:"income_stmt"`
		Errors        json.RawMessage `json:"errors"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode snapshot payload: %w", err)
	}

	s := &Snapshot{
		OK:     raw.OK,
		Symbol: strings.ToUpper(strings.TrimSpace(raw.Symbol)),
	}

	// Best-effort per section: a non-record-shaped section stays empty.
	if len(raw.Quote) > 0 {
		var quote Quote
		if err := json.Unmarshal(raw.Quote, &quote); err == nil && string(raw.Quote) != "null" {
			s.Quote = &quote
		}
	}
	if len(raw.History) > 0 {
		_ = json.Unmarshal(raw.History, &s.History)
	}
	if len(raw.EarningsDates) > 0 {
		_ = json.Unmarshal(raw.EarningsDates, &s.EarningsDates)
	}
	if len(raw.IncomeStmt) > 0 {
		_ = json.Unmarshal(raw.IncomeStmt, &s.IncomeStmt)
	}
	if len(raw.Errors) > 0 {
		_ = json.Unmarshal(raw.Errors, &s.Errors)
	}

	return s, nil
}

// Empty returns a not-ok snapshot carrying a single diagnostic error, used
// when a producer's output cannot be used at all.
func Empty(symbol, operation, errText string) *Snapshot {
	return &Snapshot{
		OK:     false,
		Symbol: strings.ToUpper(strings.TrimSpace(symbol)),
		Errors: []OperationError{{Operation: operation, Error: errText}},
	}
}

func intradayInterval(interval string) bool {
	lowered := strings.ToLower(interval)
	return strings.Contains(lowered, "m") || strings.Contains(lowered, "h")
}
