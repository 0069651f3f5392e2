package budget

import (
	"errors"
	"testing"

	"fintrack/internal/core"
)

func money(v int64) core.Money { return core.MoneyFromInt(v) }

func TestMergeLimitIntoExisting(t *testing.T) {
	existing := &core.BudgetDocument{
		ID:              "b1",
		Month:           1,
		Year:            2024,
		TotalBudget:     money(1000),
		CategoryBudgets: map[string]core.Money{"travel": money(1000)},
	}

	doc, err := MergeLimit(existing, 1, 2024, "Food", money(500))
	if err != nil {
		t.Fatalf("MergeLimit: %v", err)
	}
	if doc.ID != "b1" {
		t.Errorf("ID = %q", doc.ID)
	}
	if len(doc.CategoryBudgets) != 2 {
		t.Fatalf("categories = %v", doc.CategoryBudgets)
	}
	if got := doc.CategoryBudgets["travel"]; !got.Equal(money(1000)) {
		t.Errorf("travel = %s", got)
	}
	if got := doc.CategoryBudgets["food"]; !got.Equal(money(500)) {
		t.Errorf("food = %s", got)
	}
	if !doc.TotalBudget.Equal(money(1500)) {
		t.Errorf("total = %s, want 1500", doc.TotalBudget)
	}

	// The input document is untouched.
	if len(existing.CategoryBudgets) != 1 {
		t.Errorf("existing mutated: %v", existing.CategoryBudgets)
	}
}

func TestMergeLimitNoExisting(t *testing.T) {
	doc, err := MergeLimit(nil, 3, 2024, "Rent", money(900))
	if err != nil {
		t.Fatalf("MergeLimit: %v", err)
	}
	if doc.Month != 3 || doc.Year != 2024 {
		t.Errorf("period = %d/%d", doc.Month, doc.Year)
	}
	if !doc.TotalBudget.Equal(money(900)) {
		t.Errorf("total = %s", doc.TotalBudget)
	}
}

func TestMergeLimitOverwritesSameCategory(t *testing.T) {
	existing := &core.BudgetDocument{
		Month: 1, Year: 2024,
		CategoryBudgets: map[string]core.Money{"food": money(300)},
	}
	doc, err := MergeLimit(existing, 1, 2024, "  FOOD ", money(450))
	if err != nil {
		t.Fatalf("MergeLimit: %v", err)
	}
	if len(doc.CategoryBudgets) != 1 {
		t.Fatalf("categories = %v", doc.CategoryBudgets)
	}
	if !doc.TotalBudget.Equal(money(450)) {
		t.Errorf("total = %s", doc.TotalBudget)
	}
}

func TestMergeLimitValidation(t *testing.T) {
	tests := []struct {
		name     string
		month    int
		year     int
		category string
		limit    core.Money
		wantErr  error
	}{
		{"bad month", 13, 2024, "food", money(100), core.ErrInvalidMonth},
		{"bad year", 1, 1999, "food", money(100), core.ErrInvalidYear},
		{"empty category", 1, 2024, "   ", money(100), core.ErrEmptyCategory},
		{"zero limit", 1, 2024, "food", money(0), core.ErrInvalidAmount},
		{"negative limit", 1, 2024, "food", money(-5), core.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MergeLimit(nil, tt.month, tt.year, tt.category, tt.limit)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRemoveLimit(t *testing.T) {
	existing := &core.BudgetDocument{
		Month: 1, Year: 2024,
		CategoryBudgets: map[string]core.Money{"food": money(500), "travel": money(1000)},
	}
	doc, err := RemoveLimit(existing, 1, 2024, "Food")
	if err != nil {
		t.Fatalf("RemoveLimit: %v", err)
	}
	if len(doc.CategoryBudgets) != 1 {
		t.Fatalf("categories = %v", doc.CategoryBudgets)
	}
	if !doc.TotalBudget.Equal(money(1000)) {
		t.Errorf("total = %s", doc.TotalBudget)
	}

	doc, err = RemoveLimit(&doc, 1, 2024, "travel")
	if err != nil {
		t.Fatalf("RemoveLimit: %v", err)
	}
	if len(doc.CategoryBudgets) != 0 || !doc.TotalBudget.IsZero() {
		t.Errorf("doc after removing last = %+v", doc)
	}
}

func TestJoinLines(t *testing.T) {
	doc := &core.BudgetDocument{
		Month: 1, Year: 2024,
		CategoryBudgets: map[string]core.Money{"food": money(500), "travel": money(1000)},
	}
	breakdown := core.Breakdown{
		{Category: "  Food ", Total: money(320)},
		{Category: "Entertainment", Total: money(80)},
	}

	lines := JoinLines(doc, breakdown)
	if len(lines) != 2 {
		t.Fatalf("lines = %+v", lines)
	}
	// Ordered by limit descending.
	if lines[0].Category != "travel" || !lines[0].Spent.IsZero() {
		t.Errorf("lines[0] = %+v, want travel with zero spent", lines[0])
	}
	if lines[1].Category != "Food" || !lines[1].Spent.Equal(money(320)) {
		t.Errorf("lines[1] = %+v", lines[1])
	}
}

func TestJoinLinesKeepsDisplayNames(t *testing.T) {
	doc := &core.BudgetDocument{
		Month: 1, Year: 2024,
		CategoryBudgets: map[string]core.Money{"food": money(500), "Travel": money(200)},
	}
	breakdown := core.Breakdown{
		{Category: "Food", Total: money(100)},
	}

	lines := JoinLines(doc, breakdown)
	if len(lines) != 2 {
		t.Fatalf("lines = %+v", lines)
	}
	// Matched lines show the spelling seen in the spending data, not the
	// lowercased join key.
	if lines[0].Category != "Food" {
		t.Errorf("lines[0].Category = %q, want Food", lines[0].Category)
	}
	// Unmatched lines fall back to the document's own spelling.
	if lines[1].Category != "Travel" {
		t.Errorf("lines[1].Category = %q, want Travel", lines[1].Category)
	}
}

func TestJoinLinesNilBudget(t *testing.T) {
	if lines := JoinLines(nil, core.Breakdown{{Category: "food", Total: money(10)}}); lines != nil {
		t.Errorf("lines = %+v, want nil", lines)
	}
}
