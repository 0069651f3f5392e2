// Package pipeline computes derived views over an in-memory transaction
// list: filtering, sorting, pagination and aggregation. Every function is
// pure: no I/O, no mutation of the input slice, identical inputs produce
// identical outputs, and empty input yields empty output rather than an
// error.
package pipeline

import (
	"sort"
	"strings"
	"time"

	"fintrack/internal/core"
)

const (
	ByMonth DateMode = "month"
	ByRange DateMode = "range"
)

const (
	ByDate        SortKey = "date"
	ByDescription SortKey = "description"
	ByCategory    SortKey = "category"
	ByAmount      SortKey = "amount"
)

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

type (
	DateMode string

	SortKey string

	Order string

	// Filters is the full parameter set of the transaction views. The
	// zero value ("all", no bounds) matches every transaction.
	Filters struct {
		Search   string
		Type     string // "all", "income" or "expense"
		Category string // "all" or an exact category name
		Min      *core.Money
		Max      *core.Money
		DateMode DateMode
		Month    int
		Year     int
		From     *time.Time
		To       *time.Time
	}

	Sort struct {
		Key   SortKey
		Order Order
	}
)

// Filter returns the transactions matching every predicate, in input order.
func Filter(txns []core.Transaction, f Filters) []core.Transaction {
	// Normalize the amount bounds once: the filter behaves identically
	// whether the user entered min>max or min<max.
	min, max := f.Min, f.Max
	if min != nil && max != nil && min.Cmp(*max) > 0 {
		min, max = max, min
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	wantCategory := core.NormalizeCategory(f.Category)

	out := make([]core.Transaction, 0, len(txns))
	for _, t := range txns {
		if search != "" {
			desc := strings.ToLower(t.Description)
			cat := strings.ToLower(t.Category)
			if !strings.Contains(desc, search) && !strings.Contains(cat, search) {
				continue
			}
		}
		if f.Type != "" && f.Type != "all" && string(t.Type) != f.Type {
			continue
		}
		if f.Category != "" && f.Category != "all" && core.NormalizeCategory(t.Category) != wantCategory {
			continue
		}
		amount := t.Amount.Abs()
		if min != nil && amount.Cmp(min.Abs()) < 0 {
			continue
		}
		if max != nil && amount.Cmp(max.Abs()) > 0 {
			continue
		}
		if !matchDate(t.Date, f) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchDate(d time.Time, f Filters) bool {
	switch f.DateMode {
	case ByMonth:
		if f.Month == 0 && f.Year == 0 {
			return true
		}
		y, m, _ := d.Date()
		return int(m) == f.Month && y == f.Year
	case ByRange:
		day := truncateToDay(d)
		if f.From != nil && day.Before(truncateToDay(*f.From)) {
			return false
		}
		if f.To != nil && day.After(truncateToDay(*f.To)) {
			return false
		}
		return true
	default:
		return true
	}
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SortBy returns a sorted copy. The sort is stable: ties preserve the
// relative order of the input.
func SortBy(txns []core.Transaction, s Sort) []core.Transaction {
	out := make([]core.Transaction, len(txns))
	copy(out, txns)
	sign := 1
	if s.Order == Desc {
		sign = -1
	}
	sort.SliceStable(out, func(i, j int) bool {
		return compare(out[i], out[j], s.Key)*sign < 0
	})
	return out
}

func compare(a, b core.Transaction, key SortKey) int {
	switch key {
	case ByDescription:
		return strings.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description))
	case ByCategory:
		return strings.Compare(strings.ToLower(a.Category), strings.ToLower(b.Category))
	case ByAmount:
		return a.Amount.Abs().Cmp(b.Amount.Abs())
	default: // date
		am, bm := a.Date.UnixMilli(), b.Date.UnixMilli()
		switch {
		case am < bm:
			return -1
		case am > bm:
			return 1
		}
		return 0
	}
}

// Aggregate computes the dashboard summary and the expense breakdown over a
// (typically filtered) set. The breakdown groups expenses by normalized
// category, keeps the first-seen display name, and is ordered descending by
// total with ties in first-seen order.
func Aggregate(txns []core.Transaction) (core.Summary, core.Breakdown) {
	var sum core.Summary
	totals := make(map[string]core.Money)
	names := make(map[string]string)
	var keys []string

	for _, t := range txns {
		switch t.Type {
		case core.Income:
			sum.Income = sum.Income.Add(t.Amount)
		case core.Expense:
			sum.Expense = sum.Expense.Add(t.Amount)
			key := core.NormalizeCategory(t.Category)
			if _, seen := totals[key]; !seen {
				keys = append(keys, key)
				names[key] = strings.TrimSpace(t.Category)
			}
			totals[key] = totals[key].Add(t.Amount)
		}
	}
	sum.Savings = sum.Income.Sub(sum.Expense)

	breakdown := make(core.Breakdown, 0, len(keys))
	for _, key := range keys {
		breakdown = append(breakdown, core.CategoryTotal{Category: names[key], Total: totals[key]})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Total.Cmp(breakdown[j].Total) > 0
	})
	return sum, breakdown
}

// UniqueCategories lists the distinct categories present, sorted, for the
// category filter dropdown. Duplicate spellings collapse onto the first-seen
// display name.
func UniqueCategories(txns []core.Transaction) []string {
	seen := make(map[string]string)
	for _, t := range txns {
		key := core.NormalizeCategory(t.Category)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; !ok {
			seen[key] = strings.TrimSpace(t.Category)
		}
	}
	out := make([]string, 0, len(seen))
	for _, name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
