package compare

import (
	"fmt"
	"strconv"

	"github.com/wonny/yfparity/internal/normalize"
	"github.com/wonny/yfparity/internal/snapshot"
)

// absTolerance is the absolute floor under which numeric quote fields are
// always considered equal, regardless of relative tolerance.
const absTolerance = 1e-6

// identityFields must match exactly on both sides when both are present;
// a mismatch is a fail-level difference.
var identityFields = []string{"symbol", "currency", "quoteType"}

// numericQuoteField pairs a quote field with its relative-tolerance
// budget. Volatile fields (intraday change, volume) get looser budgets
// than price.
type numericQuoteField struct {
	name      string
	tolerance float64
}

var numericQuoteFields = []numericQuoteField{
	{"regularMarketPrice", 0.03},
	{"regularMarketChangePercent", 0.30},
	{"regularMarketVolume", 0.35},
	{"marketCap", 0.15},
	{"trailingPE", 0.25},
	{"forwardPE", 0.25},
}

// Quote compares the candidate quote against the reference quote. Identity
// mismatches fail; name and numeric differences only warn, since those
// legitimately drift between sources. Quote never yields skip.
func Quote(candidate, reference *snapshot.Quote) Result {
	if candidate == nil {
		candidate = &snapshot.Quote{}
	}
	if reference == nil {
		reference = &snapshot.Quote{}
	}

	var issues []string
	warns := 0
	fails := 0

	for _, field := range identityFields {
		c := normalize.Text(textField(candidate, field))
		r := normalize.Text(textField(reference, field))
		if c != "" && r != "" && c != r {
			fails++
			issues = append(issues, fmt.Sprintf("%s: candidate=%s reference=%s",
				field, textField(candidate, field), textField(reference, field)))
		}
	}

	nameC := normalize.Text(candidate.Name)
	nameR := normalize.Text(reference.Name)
	if nameC != "" && nameR != "" && nameC != nameR {
		warns++
		issues = append(issues, fmt.Sprintf("name differs: candidate=%s reference=%s",
			candidate.Name, reference.Name))
	}

	for _, field := range numericQuoteFields {
		c, cOK := numberField(candidate, field.name).Get()
		r, rOK := numberField(reference, field.name).Get()

		if !cOK && !rOK {
			continue
		}
		if !cOK || !rOK {
			warns++
			issues = append(issues, fmt.Sprintf("%s: missing side candidate=%s reference=%s",
				field.name, formatOpt(c, cOK), formatOpt(r, rOK)))
			continue
		}
		if !nearlyEqual(c, r, field.tolerance, absTolerance) {
			warns++
			issues = append(issues, fmt.Sprintf("%s: candidate=%.6g reference=%.6g", field.name, c, r))
		}
	}

	status := StatusPass
	if fails > 0 {
		status = StatusFail
	} else if warns > 0 {
		status = StatusWarn
	}

	return Result{
		Status:  status,
		Summary: fmt.Sprintf("%d fail-level, %d warn-level differences", fails, warns),
		Metrics: map[string]float64{
			"fail_diffs": float64(fails),
			"warn_diffs": float64(warns),
		},
		Issues: issues,
	}
}

func textField(q *snapshot.Quote, name string) string {
	switch name {
	case "symbol":
		return q.Symbol
	case "currency":
		return q.Currency
	case "quoteType":
		return q.QuoteType
	default:
		return ""
	}
}

func numberField(q *snapshot.Quote, name string) snapshot.Number {
	switch name {
	case "regularMarketPrice":
		return q.Price
	case "regularMarketChangePercent":
		return q.ChangePercent
	case "regularMarketVolume":
		return q.Volume
	case "marketCap":
		return q.MarketCap
	case "trailingPE":
		return q.TrailingPE
	case "forwardPE":
		return q.ForwardPE
	default:
		return snapshot.Number{}
	}
}

func formatOpt(v float64, ok bool) string {
	if !ok {
		return "none"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}
