package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/yfparity/internal/snapshot"
)

func TestQuotePassWithinTolerance(t *testing.T) {
	candidate := &snapshot.Quote{
		Symbol:     "AAPL",
		Currency:   "USD",
		TrailingPE: snapshot.NumberOf(31.0),
	}
	reference := &snapshot.Quote{
		Symbol:     "AAPL",
		Currency:   "USD",
		TrailingPE: snapshot.NumberOf(30.0),
	}

	result := Quote(candidate, reference)

	// trailingPE budget is 25%; a ~3% gap is comfortably inside it
	assert.Equal(t, StatusPass, result.Status)
	assert.Empty(t, result.Issues)
	assert.Equal(t, 0.0, result.Metrics["fail_diffs"])
	assert.Equal(t, 0.0, result.Metrics["warn_diffs"])
}

func TestQuoteIdentityMismatchFails(t *testing.T) {
	candidate := &snapshot.Quote{Symbol: "AAPL", Currency: "USD"}
	reference := &snapshot.Quote{Symbol: "AAPL", Currency: "EUR"}

	result := Quote(candidate, reference)

	assert.Equal(t, StatusFail, result.Status)
	assert.Equal(t, 1.0, result.Metrics["fail_diffs"])
	assert.Contains(t, result.Issues[0], "currency")
}

func TestQuoteIdentityIgnoredWhenOneSideEmpty(t *testing.T) {
	candidate := &snapshot.Quote{Symbol: "AAPL", Currency: ""}
	reference := &snapshot.Quote{Symbol: "AAPL", Currency: "USD"}

	result := Quote(candidate, reference)

	assert.Equal(t, StatusPass, result.Status)
}

func TestQuoteNameDifferenceOnlyWarns(t *testing.T) {
	candidate := &snapshot.Quote{Symbol: "AAPL", Name: "Apple Inc."}
	reference := &snapshot.Quote{Symbol: "AAPL", Name: "Apple, Inc. (AAPL)"}

	result := Quote(candidate, reference)

	assert.Equal(t, StatusWarn, result.Status)
	assert.Equal(t, 0.0, result.Metrics["fail_diffs"])
	assert.Equal(t, 1.0, result.Metrics["warn_diffs"])
}

func TestQuoteMissingSideWarnsNotFails(t *testing.T) {
	candidate := &snapshot.Quote{Symbol: "AAPL"}
	reference := &snapshot.Quote{
		Symbol: "AAPL",
		Price:  snapshot.NumberOf(191.24),
	}

	result := Quote(candidate, reference)

	assert.Equal(t, StatusWarn, result.Status)
	assert.Contains(t, result.Issues[0], "missing side")
}

func TestQuoteOutsideToleranceWarnsNotFails(t *testing.T) {
	candidate := &snapshot.Quote{
		Symbol: "AAPL",
		Price:  snapshot.NumberOf(200.0),
	}
	reference := &snapshot.Quote{
		Symbol: "AAPL",
		Price:  snapshot.NumberOf(191.24), // >3% apart
	}

	result := Quote(candidate, reference)

	assert.Equal(t, StatusWarn, result.Status)
	assert.Contains(t, result.Issues[0], "regularMarketPrice")
}

func TestQuoteCaseInsensitiveIdentity(t *testing.T) {
	candidate := &snapshot.Quote{Symbol: "aapl", QuoteType: "equity"}
	reference := &snapshot.Quote{Symbol: "AAPL", QuoteType: "EQUITY"}

	result := Quote(candidate, reference)

	assert.Equal(t, StatusPass, result.Status)
}

func TestQuoteNilSidesNeverSkip(t *testing.T) {
	result := Quote(nil, nil)

	// Quote never yields skip: two empty quotes simply pass
	assert.Equal(t, StatusPass, result.Status)
}
