package http

import (
	"net/url"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/pipeline"
)

func TestParseQueryDefaults(t *testing.T) {
	q := parseQuery(url.Values{})

	if q.Filters.Type != "all" || q.Filters.Category != "all" {
		t.Errorf("expected type/category defaults 'all', got %q/%q", q.Filters.Type, q.Filters.Category)
	}
	if q.Sort.Key != pipeline.ByDate || q.Sort.Order != pipeline.Desc {
		t.Errorf("expected date desc default sort, got %s %s", q.Sort.Key, q.Sort.Order)
	}
	if q.Page != 1 || q.Size != 10 {
		t.Errorf("expected page 1 size 10, got %d/%d", q.Page, q.Size)
	}
	if q.Filters.Min != nil || q.Filters.Max != nil {
		t.Error("expected no amount bounds by default")
	}
}

func TestParseQueryMonthMode(t *testing.T) {
	q := parseQuery(url.Values{
		"dateMode": {"month"},
		"month":    {"3"},
		"year":     {"2024"},
	})
	if q.Filters.DateMode != pipeline.ByMonth {
		t.Fatalf("expected month mode, got %q", q.Filters.DateMode)
	}
	if q.Filters.Month != 3 || q.Filters.Year != 2024 {
		t.Errorf("expected March 2024, got %d/%d", q.Filters.Month, q.Filters.Year)
	}
}

func TestParseQueryMonthModeDefaultsToNow(t *testing.T) {
	q := parseQuery(url.Values{"dateMode": {"month"}})
	now := time.Now()
	if q.Filters.Month != int(now.Month()) || q.Filters.Year != now.Year() {
		t.Errorf("expected current month/year, got %d/%d", q.Filters.Month, q.Filters.Year)
	}
}

func TestParseQueryRangeMode(t *testing.T) {
	q := parseQuery(url.Values{
		"dateMode": {"range"},
		"from":     {"2024-01-01"},
		"to":       {"2024-01-31"},
	})
	if q.Filters.DateMode != pipeline.ByRange {
		t.Fatalf("expected range mode, got %q", q.Filters.DateMode)
	}
	if q.Filters.From == nil || q.Filters.To == nil {
		t.Fatal("expected both bounds parsed")
	}
	if q.Filters.From.Day() != 1 || q.Filters.To.Day() != 31 {
		t.Errorf("unexpected bounds %v..%v", q.Filters.From, q.Filters.To)
	}
}

func TestParseQueryAmountBounds(t *testing.T) {
	q := parseQuery(url.Values{"min": {"10,50"}, "max": {"99.99"}})
	if q.Filters.Min == nil || !q.Filters.Min.Equal(core.MoneyFromFloat(10.50)) {
		t.Errorf("expected min 10.50, got %v", q.Filters.Min)
	}
	if q.Filters.Max == nil || !q.Filters.Max.Equal(core.MoneyFromFloat(99.99)) {
		t.Errorf("expected max 99.99, got %v", q.Filters.Max)
	}

	q = parseQuery(url.Values{"min": {"abc"}})
	if q.Filters.Min != nil {
		t.Error("expected non-numeric min ignored")
	}
}

func TestParseQuerySortAndOrder(t *testing.T) {
	q := parseQuery(url.Values{"sort": {"amount"}, "order": {"asc"}})
	if q.Sort.Key != pipeline.ByAmount || q.Sort.Order != pipeline.Asc {
		t.Errorf("expected amount asc, got %s %s", q.Sort.Key, q.Sort.Order)
	}

	q = parseQuery(url.Values{"sort": {"bogus"}})
	if q.Sort.Key != pipeline.ByDate {
		t.Errorf("expected unknown sort key to fall back to date, got %s", q.Sort.Key)
	}
}

func TestParseQueryPageSizeBounds(t *testing.T) {
	tests := []struct {
		size string
		want int
	}{
		{"5", 5},
		{"100", 100},
		{"4", 10},
		{"101", 10},
		{"notanumber", 10},
	}
	for _, tt := range tests {
		q := parseQuery(url.Values{"size": {tt.size}})
		if q.Size != tt.want {
			t.Errorf("size %q: expected %d, got %d", tt.size, tt.want, q.Size)
		}
	}
}

func TestCurrentPeriod(t *testing.T) {
	month, year := currentPeriod(url.Values{"month": {"7"}, "year": {"2023"}})
	if month != 7 || year != 2023 {
		t.Errorf("expected 7/2023, got %d/%d", month, year)
	}

	now := time.Now()
	month, year = currentPeriod(url.Values{"month": {"13"}, "year": {"2023"}})
	if month != int(now.Month()) || year != now.Year() {
		t.Errorf("expected fallback to current period, got %d/%d", month, year)
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  hello  ", "hello"},
		{"strips control characters", "he\x00llo\x1b", "hello"},
		{"keeps newlines and tabs", "a\tb\nc", "a\tb\nc"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeInput(tt.input); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPercentOf(t *testing.T) {
	percentOf := templateFuncs()["percentOf"].(func(part, whole core.Money) int)

	tests := []struct {
		part  int64
		whole int64
		want  int
	}{
		{50, 200, 25},
		{200, 200, 100},
		{300, 200, 100},
		{0, 200, 0},
		{50, 0, 0},
	}
	for _, tt := range tests {
		got := percentOf(core.MoneyFromInt(tt.part), core.MoneyFromInt(tt.whole))
		if got != tt.want {
			t.Errorf("percentOf(%d, %d): expected %d, got %d", tt.part, tt.whole, tt.want, got)
		}
	}
}
