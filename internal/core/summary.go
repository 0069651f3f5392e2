package core

// Summary aggregates a period: savings is always income minus expense.
// Summaries are derived, never persisted by the client.
type Summary struct {
	Income  Money `json:"income"`
	Expense Money `json:"expense"`
	Savings Money `json:"savings"`
}

// CategoryTotal is one row of an expense breakdown for a period.
type CategoryTotal struct {
	Category string `json:"_id"`
	Total    Money  `json:"total"`
}

// Breakdown lists category totals, ordered descending by total.
type Breakdown []CategoryTotal
