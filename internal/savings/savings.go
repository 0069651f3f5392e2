// Package savings holds the client-side rules for savings goal mutations.
// The backend enforces its own invariants; these checks exist so obviously
// bad requests never leave the process.
package savings

import (
	"errors"
	"fmt"

	"fintrack/internal/core"
)

// ErrInsufficientFunds is returned when a withdrawal exceeds the goal's
// current balance.
var ErrInsufficientFunds = errors.New("withdrawal exceeds current amount")

// ValidateContribute checks a contribution amount.
func ValidateContribute(amount core.Money) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: contribution must be positive", core.ErrInvalidAmount)
	}
	return nil
}

// ValidateWithdraw checks a withdrawal against the goal's balance. The check
// runs before any network call so an over-withdrawal is rejected locally.
func ValidateWithdraw(goal core.SavingsGoal, amount core.Money) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: withdrawal must be positive", core.ErrInvalidAmount)
	}
	if amount.Cmp(goal.CurrentAmount) > 0 {
		return fmt.Errorf("%w: have %s, requested %s", ErrInsufficientFunds, goal.CurrentAmount, amount)
	}
	return nil
}

// DeleteWarning returns the confirmation text shown before deleting a goal.
// A goal with a balance gets a stronger warning since the funds tracked
// against it disappear with the goal.
func DeleteWarning(goal core.SavingsGoal) string {
	if goal.CurrentAmount.IsPositive() {
		return fmt.Sprintf("Delete %q? Its balance of %s will be lost.", goal.Name, goal.CurrentAmount)
	}
	return fmt.Sprintf("Delete %q?", goal.Name)
}
