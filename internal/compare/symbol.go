package compare

import "github.com/wonny/yfparity/internal/snapshot"

// Comparisons holds one result per field group, under the snapshot schema
// keys.
type Comparisons struct {
	Quote    Result `json:"quote"`
	History  Result `json:"history"`
	Earnings Result `json:"earnings_dates"`
	Income   Result `json:"income_stmt"`
}

// Worst returns the per-symbol status: the worst of the four field
// statuses per the lattice rank.
func (c Comparisons) Worst() Status {
	return WorstStatus([]Status{
		c.Quote.Status,
		c.History.Status,
		c.Earnings.Status,
		c.Income.Status,
	})
}

// Symbol runs all four field-group comparators over a pair of normalized
// snapshots. Nil snapshots are treated as empty.
func Symbol(candidate, reference *snapshot.Snapshot) Comparisons {
	if candidate == nil {
		candidate = &snapshot.Snapshot{}
	}
	if reference == nil {
		reference = &snapshot.Snapshot{}
	}

	return Comparisons{
		Quote:    Quote(candidate.Quote, reference.Quote),
		History:  History(candidate.History, reference.History),
		Earnings: Earnings(candidate.EarningsDates, reference.EarningsDates),
		Income:   Income(candidate.IncomeStmt, reference.IncomeStmt),
	}
}
