package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TxnType = "income"
	Expense TxnType = "expense"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

type (
	TxnType string

	Frequency string

	// Transaction is a single income or expense entry fetched from the
	// backend. Immutable once created; the backend owns deletion.
	Transaction struct {
		ID          string
		Type        TxnType
		Amount      Money
		Category    string
		Description string
		Date        time.Time
		IsRecurring bool
		Frequency   Frequency
	}

	// BudgetDocument holds the full per-period budget. The backend upserts
	// it wholesale: saving one category limit resubmits the entire map.
	BudgetDocument struct {
		ID              string
		Month           int
		Year            int
		TotalBudget     Money
		CategoryBudgets map[string]Money
	}

	// BudgetLine is the per-category view model: the limit from the budget
	// document joined with the spent total from the category breakdown.
	// Spent is never stored; it is derived at render time.
	BudgetLine struct {
		Category string
		Limit    Money
		Spent    Money
	}

	// SavingsGoal tracks progress toward a target amount. CurrentAmount is
	// mutated only through contribute and withdraw operations.
	SavingsGoal struct {
		ID            string
		Name          string
		TargetAmount  Money
		CurrentAmount Money
		TargetDate    *time.Time
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrEmptyCategory = errors.New("empty category")
	ErrInvalidFreq   = errors.New("invalid recurrence frequency")
	ErrInvalidMonth  = errors.New("invalid month")
	ErrInvalidYear   = errors.New("invalid year")
	ErrEmptyName     = errors.New("empty name")
)

// NormalizeCategory produces the join key used wherever two independently
// fetched collections are matched by category name. Categories are free-text;
// mismatched casing or stray whitespace would otherwise break the join
// silently.
func NormalizeCategory(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (t TxnType) Valid() bool {
	return t == Income || t == Expense
}

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if t.IsRecurring && !t.Frequency.Valid() {
		return ErrInvalidFreq
	}
	return nil
}

// ValidatePeriod checks a month/year pair used to scope backend queries.
func ValidatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return ErrInvalidMonth
	}
	if year < 2000 || year > 2100 {
		return ErrInvalidYear
	}
	return nil
}

func (g SavingsGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if !g.TargetAmount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// Completed reports whether the goal has reached its target. Contributions
// may push CurrentAmount past TargetAmount; that is over-completion, not an
// error.
func (g SavingsGoal) Completed() bool {
	return g.CurrentAmount.Cmp(g.TargetAmount) >= 0
}

// Progress returns the completion ratio in percent, capped at 100.
func (g SavingsGoal) Progress() int {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	p := int(g.CurrentAmount.Div(g.TargetAmount).Mul(MoneyFromInt(100)).Float64())
	if p > 100 {
		p = 100
	}
	if p < 0 {
		p = 0
	}
	return p
}
