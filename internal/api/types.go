package api

import (
	"sort"
	"time"

	"fintrack/internal/core"
)

// Wire representations of the backend's JSON documents.
type (
	txnDoc struct {
		ID          string     `json:"_id,omitempty"`
		Type        string     `json:"type"`
		Amount      core.Money `json:"amount"`
		Category    string     `json:"category"`
		Description string     `json:"description"`
		Date        time.Time  `json:"date"`
		IsRecurring bool       `json:"isRecurring,omitempty"`
		Frequency   string     `json:"frequency,omitempty"`
	}

	budgetDoc struct {
		ID              string                `json:"_id,omitempty"`
		Month           int                   `json:"month"`
		Year            int                   `json:"year"`
		TotalBudget     core.Money            `json:"totalBudget"`
		CategoryBudgets map[string]core.Money `json:"categoryBudgets"`
	}

	goalDoc struct {
		ID            string     `json:"_id,omitempty"`
		Name          string     `json:"name"`
		TargetAmount  core.Money `json:"targetAmount"`
		CurrentAmount core.Money `json:"currentAmount"`
		TargetDate    *time.Time `json:"targetDate,omitempty"`
	}

	credentials struct {
		Name     string `json:"name,omitempty"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	tokenResponse struct {
		Token string `json:"token"`
	}

	insightsResponse struct {
		Insights []string `json:"insights"`
	}

	amountRequest struct {
		Amount core.Money `json:"amount"`
	}

	statementBatch struct {
		Transactions []txnDoc `json:"transactions"`
	}
)

func (d txnDoc) toCore() core.Transaction {
	return core.Transaction{
		ID:          d.ID,
		Type:        core.TxnType(d.Type),
		Amount:      d.Amount,
		Category:    d.Category,
		Description: d.Description,
		Date:        d.Date,
		IsRecurring: d.IsRecurring,
		Frequency:   core.Frequency(d.Frequency),
	}
}

func txnToDoc(t core.Transaction) txnDoc {
	d := txnDoc{
		ID:          t.ID,
		Type:        string(t.Type),
		Amount:      t.Amount,
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date,
		IsRecurring: t.IsRecurring,
	}
	if t.IsRecurring {
		d.Frequency = string(t.Frequency)
	}
	return d
}

func (d budgetDoc) toCore() core.BudgetDocument {
	return core.BudgetDocument{
		ID:              d.ID,
		Month:           d.Month,
		Year:            d.Year,
		TotalBudget:     d.TotalBudget,
		CategoryBudgets: d.CategoryBudgets,
	}
}

func (d goalDoc) toCore() core.SavingsGoal {
	return core.SavingsGoal{
		ID:            d.ID,
		Name:          d.Name,
		TargetAmount:  d.TargetAmount,
		CurrentAmount: d.CurrentAmount,
		TargetDate:    d.TargetDate,
	}
}

// breakdownFromWire re-sorts rows descending by total; the charts assume
// that order and the backend contract does not promise it.
func breakdownFromWire(rows []core.CategoryTotal) core.Breakdown {
	out := make(core.Breakdown, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.Cmp(out[j].Total) > 0
	})
	return out
}
