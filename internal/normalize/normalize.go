// Package normalize coerces the heterogeneous scalar values that snapshot
// producers emit (numbers, numeric strings, epoch values, free-form dates)
// into canonical comparable forms. All normalization happens here, at the
// snapshot boundary, so comparators only ever see canonical values.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Epoch values whose magnitude exceeds this are milliseconds, not seconds.
const epochMillisCutoff = 9_999_999_999

// Epoch values at or below this magnitude are not date-like at all.
const epochMinMagnitude = 1_000_000

// ToFloat converts a numeric-like value to a float. NaN and infinities are
// treated as absent, as is anything that fails conversion.
func ToFloat(value interface{}) *float64 {
	var num float64

	switch v := value.(type) {
	case nil:
		return nil
	case float64:
		num = v
	case float32:
		num = float64(v)
	case int:
		num = float64(v)
	case int64:
		num = float64(v)
	case bool:
		if v {
			num = 1
		}
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil
		}
		num = parsed
	case *float64:
		if v == nil {
			return nil
		}
		num = *v
	default:
		return nil
	}

	if math.IsNaN(num) || math.IsInf(num, 0) {
		return nil
	}
	return &num
}

// ToInt is ToFloat truncated toward zero.
func ToInt(value interface{}) *int64 {
	num := ToFloat(value)
	if num == nil {
		return nil
	}
	truncated := int64(math.Trunc(*num))
	return &truncated
}

// Text trims and lower-cases a value's string form. Absent input yields an
// empty string; two texts are comparable only when both are non-empty.
func Text(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case float64:
		return strings.ToLower(strconv.FormatFloat(v, 'g', -1, 64))
	default:
		return ""
	}
}

// Date converts a date-like value into a canonical date string:
// YYYY-MM-DD, or YYYY-MM-DDTHH:MM:SSZ when includeTime is set. Returns an
// empty string when the value is not date-like.
//
// Epoch inputs are disambiguated by magnitude: above 9,999,999,999 they are
// milliseconds; below 1,000,000 they are rejected as not date-like. Text
// inputs that already start with a YYYY-MM-DD shape are taken verbatim
// (date portion only); anything else goes through layout parsing.
func Date(value interface{}, includeTime bool) string {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		return formatTime(v, includeTime)
	case float64:
		return epochDate(v, includeTime)
	case int:
		return epochDate(float64(v), includeTime)
	case int64:
		return epochDate(float64(v), includeTime)
	case string:
		return textDate(v)
	default:
		return ""
	}
}

func formatTime(t time.Time, includeTime bool) string {
	if includeTime {
		return t.UTC().Format("2006-01-02T15:04:05Z")
	}
	return t.UTC().Format("2006-01-02")
}

func epochDate(raw float64, includeTime bool) string {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return ""
	}
	seconds := raw
	if math.Abs(seconds) > epochMillisCutoff {
		seconds /= 1000
	}
	if math.Abs(seconds) <= epochMinMagnitude {
		return ""
	}
	return formatTime(time.Unix(int64(seconds), 0), includeTime)
}

// dateLayouts covers the forms providers actually emit, most specific
// first. Calendar pages use the "Jan 2, 2026, 4 PM EST" family.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006 at 3:04 PM MST",
	"January 2, 2006 at 3 PM MST",
	"January 2, 2006 at 3:04 PM",
	"January 2, 2006 at 3 PM",
	"Jan 2, 2006, 3:04 PM MST",
	"Jan 2, 2006, 3 PM MST",
	"Jan 2, 2006, 3:04 PM",
	"Jan 2, 2006, 3 PM",
	"January 2, 2006",
	"Jan 2, 2006",
}

func textDate(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	// Fast path: the value already leads with a YYYY-MM-DD shape.
	if len(text) >= 10 && text[4] == '-' && text[7] == '-' {
		return text[:10]
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return formatTime(parsed, false)
		}
	}
	return ""
}

// Year converts a year-like value into a 4-digit year string, or an empty
// string. Date-like inputs take the year of the normalized date; bare text
// is accepted only when its leading 4 digits fall within [1900, 2100].
func Year(value interface{}) string {
	if date := Date(value, false); len(date) >= 4 {
		return date[:4]
	}

	text := ""
	switch v := value.(type) {
	case string:
		text = strings.TrimSpace(v)
	default:
		return ""
	}

	if len(text) >= 4 {
		if year, err := strconv.Atoi(text[:4]); err == nil && year >= 1900 && year <= 2100 {
			return strconv.Itoa(year)
		}
	}
	return ""
}

// FindPreferredKey resolves which of the given keys corresponds to a
// requested concept: candidates are tried in priority order and matched
// case-insensitively against the keys. Resolve once per table, not per
// cell.
func FindPreferredKey(keys []string, candidates []string) (string, bool) {
	index := make(map[string]string, len(keys))
	for _, key := range keys {
		lower := strings.ToLower(strings.TrimSpace(key))
		if _, exists := index[lower]; !exists {
			index[lower] = key
		}
	}

	for _, candidate := range candidates {
		if key, ok := index[strings.ToLower(candidate)]; ok {
			return key, true
		}
	}
	return "", false
}
