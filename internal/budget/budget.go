// Package budget builds full budget documents for upsert and joins limits
// against spending totals for display.
package budget

import (
	"fmt"
	"sort"
	"strings"

	"fintrack/internal/core"
)

// MergeLimit folds one category limit into the budget document for a period
// and returns the full document ready for upsert. existing may be nil when
// no budget exists for the period yet. The category map is copied, never
// mutated in place, and the total is recomputed from the merged map so it
// can never drift from the per-category limits.
func MergeLimit(existing *core.BudgetDocument, month, year int, category string, limit core.Money) (core.BudgetDocument, error) {
	if err := core.ValidatePeriod(month, year); err != nil {
		return core.BudgetDocument{}, err
	}
	key := core.NormalizeCategory(category)
	if key == "" {
		return core.BudgetDocument{}, core.ErrEmptyCategory
	}
	if !limit.IsPositive() {
		return core.BudgetDocument{}, fmt.Errorf("%w: limit must be positive", core.ErrInvalidAmount)
	}

	merged := make(map[string]core.Money)
	doc := core.BudgetDocument{Month: month, Year: year}
	if existing != nil {
		doc.ID = existing.ID
		for k, v := range existing.CategoryBudgets {
			merged[core.NormalizeCategory(k)] = v
		}
	}
	merged[key] = limit

	var total core.Money
	for _, v := range merged {
		total = total.Add(v)
	}
	doc.CategoryBudgets = merged
	doc.TotalBudget = total
	return doc, nil
}

// RemoveLimit drops a category from the document and recomputes the total.
// Removing the last category yields a document with an empty map and a zero
// total, which the backend stores as-is.
func RemoveLimit(existing *core.BudgetDocument, month, year int, category string) (core.BudgetDocument, error) {
	if err := core.ValidatePeriod(month, year); err != nil {
		return core.BudgetDocument{}, err
	}
	key := core.NormalizeCategory(category)

	merged := make(map[string]core.Money)
	doc := core.BudgetDocument{Month: month, Year: year}
	if existing != nil {
		doc.ID = existing.ID
		for k, v := range existing.CategoryBudgets {
			nk := core.NormalizeCategory(k)
			if nk == key {
				continue
			}
			merged[nk] = v
		}
	}

	var total core.Money
	for _, v := range merged {
		total = total.Add(v)
	}
	doc.CategoryBudgets = merged
	doc.TotalBudget = total
	return doc, nil
}

// JoinLines pairs each budgeted category with its spending total. Categories
// are matched on their normalized form, a budgeted category with no spending
// shows zero spent, and spending in an unbudgeted category is ignored. Each
// line keeps a first-seen display name rather than the normalized key, so
// the page shows what the user typed. Lines come back ordered by limit
// descending, then name, so render order is stable across refreshes.
func JoinLines(doc *core.BudgetDocument, breakdown core.Breakdown) []core.BudgetLine {
	if doc == nil || len(doc.CategoryBudgets) == 0 {
		return nil
	}

	spent := make(map[string]core.Money, len(breakdown))
	names := make(map[string]string, len(breakdown))
	for _, row := range breakdown {
		key := core.NormalizeCategory(row.Category)
		if _, seen := names[key]; !seen {
			names[key] = strings.TrimSpace(row.Category)
		}
		spent[key] = spent[key].Add(row.Total)
	}

	lines := make([]core.BudgetLine, 0, len(doc.CategoryBudgets))
	for category, limit := range doc.CategoryBudgets {
		key := core.NormalizeCategory(category)
		name := names[key]
		if name == "" {
			name = strings.TrimSpace(category)
		}
		lines = append(lines, core.BudgetLine{
			Category: name,
			Limit:    limit,
			Spent:    spent[key],
		})
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if c := lines[i].Limit.Cmp(lines[j].Limit); c != 0 {
			return c > 0
		}
		return lines[i].Category < lines[j].Category
	})
	return lines
}
