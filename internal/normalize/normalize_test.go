package normalize

import (
	"math"
	"testing"
	"time"
)

func TestToFloat(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  *float64
	}{
		{"nil", nil, nil},
		{"float", 3.14, ptr(3.14)},
		{"int", 42, ptr(42)},
		{"numeric string", "72300", ptr(72300)},
		{"padded string", "  3.5 ", ptr(3.5)},
		{"scientific string", "1.5e9", ptr(1.5e9)},
		{"non-numeric string", "n/a", nil},
		{"empty string", "", nil},
		{"nan", math.NaN(), nil},
		{"inf", math.Inf(1), nil},
		{"inf string", "inf", nil},
		{"negative inf string", "-Infinity", nil},
		{"bool true", true, ptr(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToFloat(tt.value)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ToFloat(%v) = %v, want %v", tt.value, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("ToFloat(%v) = %v, want %v", tt.value, *got, *tt.want)
			}
		})
	}
}

func TestToInt(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  *int64
	}{
		{"truncates toward zero", 3.9, iptr(3)},
		{"negative truncates toward zero", -3.9, iptr(-3)},
		{"string", "12000000", iptr(12000000)},
		{"non-numeric", "many", nil},
		{"nan", math.NaN(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToInt(tt.value)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ToInt(%v) = %v, want %v", tt.value, got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("ToInt(%v) = %d, want %d", tt.value, *got, *tt.want)
			}
		})
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"nil", nil, ""},
		{"trims and lowercases", "  Apple Inc. ", "apple inc."},
		{"already normal", "usd", "usd"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.value); got != tt.want {
				t.Errorf("Text(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		name        string
		value       interface{}
		includeTime bool
		want        string
	}{
		{"nil", nil, false, ""},
		{"iso prefix verbatim", "2024-01-05T00:00:00Z", false, "2024-01-05"},
		{"iso date", "2024-01-05", false, "2024-01-05"},
		{"iso with noise after prefix", "2024-01-05 00:00:00-05:00", false, "2024-01-05"},
		{"epoch seconds", float64(1704412800), false, "2024-01-05"},
		{"epoch milliseconds", float64(1704412800000), false, "2024-01-05"},
		{"epoch too small", float64(12345), false, ""},
		{"calendar page style", "Jan 30, 2025, 4 PM EST", false, "2025-01-30"},
		{"long month", "January 30, 2025 at 4 PM EST", false, "2025-01-30"},
		{"free text garbage", "soon", false, ""},
		{
			"time object with time",
			time.Date(2024, 1, 5, 14, 30, 0, 0, time.UTC),
			true,
			"2024-01-05T14:30:00Z",
		},
		{
			"time object date only",
			time.Date(2024, 1, 5, 14, 30, 0, 0, time.UTC),
			false,
			"2024-01-05",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Date(tt.value, tt.includeTime); got != tt.want {
				t.Errorf("Date(%v, %v) = %q, want %q", tt.value, tt.includeTime, got, tt.want)
			}
		})
	}
}

func TestDateConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)
	value := time.Date(2024, 1, 6, 2, 0, 0, 0, loc) // 2024-01-05T17:00:00Z

	if got := Date(value, true); got != "2024-01-05T17:00:00Z" {
		t.Errorf("Date() = %q, want UTC-converted timestamp", got)
	}
	if got := Date(value, false); got != "2024-01-05" {
		t.Errorf("Date() = %q, want UTC-converted date", got)
	}
}

func TestYear(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"nil", nil, ""},
		{"iso date", "2023-09-30", "2023"},
		{"epoch", float64(1704412800), "2024"},
		{"bare year", "2024", "2024"},
		{"year with suffix", "2024FY", "2024"},
		{"out of range", "1850", ""},
		{"future out of range", "2200", ""},
		{"not a year", "FY24", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Year(tt.value); got != tt.want {
				t.Errorf("Year(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestFindPreferredKey(t *testing.T) {
	keys := []string{"Operating Revenue", "Total Revenue", "Net Income"}

	tests := []struct {
		name       string
		candidates []string
		want       string
		wantOK     bool
	}{
		{
			name:       "priority order wins over key order",
			candidates: []string{"total revenue", "operating revenue"},
			want:       "Total Revenue",
			wantOK:     true,
		},
		{
			name:       "falls through to later candidate",
			candidates: []string{"revenue", "operating revenue"},
			want:       "Operating Revenue",
			wantOK:     true,
		},
		{
			name:       "case-insensitive",
			candidates: []string{"NET INCOME"},
			want:       "Net Income",
			wantOK:     true,
		},
		{
			name:       "no match",
			candidates: []string{"gross profit"},
			want:       "",
			wantOK:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindPreferredKey(keys, tt.candidates)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("FindPreferredKey() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func ptr(v float64) *float64 { return &v }
func iptr(v int64) *int64    { return &v }
