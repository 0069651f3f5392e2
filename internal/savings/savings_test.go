package savings

import (
	"errors"
	"strings"
	"testing"

	"fintrack/internal/core"
)

func goal(current int64) core.SavingsGoal {
	return core.SavingsGoal{
		ID:            "g1",
		Name:          "Vacation",
		TargetAmount:  core.MoneyFromInt(2000),
		CurrentAmount: core.MoneyFromInt(current),
	}
}

func TestValidateContribute(t *testing.T) {
	if err := ValidateContribute(core.MoneyFromInt(50)); err != nil {
		t.Errorf("positive contribution rejected: %v", err)
	}
	if err := ValidateContribute(core.MoneyFromInt(0)); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("zero contribution: err = %v", err)
	}
	if err := ValidateContribute(core.MoneyFromInt(-10)); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("negative contribution: err = %v", err)
	}
}

func TestValidateWithdraw(t *testing.T) {
	tests := []struct {
		name    string
		current int64
		amount  int64
		wantErr error
	}{
		{"within balance", 500, 200, nil},
		{"exact balance", 500, 500, nil},
		{"over balance", 500, 501, ErrInsufficientFunds},
		{"zero", 500, 0, core.ErrInvalidAmount},
		{"negative", 500, -10, core.ErrInvalidAmount},
		{"empty goal", 0, 1, ErrInsufficientFunds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWithdraw(goal(tt.current), core.MoneyFromInt(tt.amount))
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("err = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDeleteWarning(t *testing.T) {
	if msg := DeleteWarning(goal(0)); strings.Contains(msg, "balance") {
		t.Errorf("empty goal warning mentions balance: %q", msg)
	}
	msg := DeleteWarning(goal(750))
	if !strings.Contains(msg, "750.00") {
		t.Errorf("warning = %q, want balance mentioned", msg)
	}
}
