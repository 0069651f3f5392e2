package amqp

import (
	"encoding/json"
	"time"
)

// Refresh reasons carried on the message so the worker can log why a period
// was re-warmed.
const (
	ReasonTransactionCreated = "transaction_created"
	ReasonStatementImported  = "statement_imported"
	ReasonBudgetChanged      = "budget_changed"
)

// RefreshMessage asks the insights worker to re-warm cached analytics for
// one month. It carries only the period and reason; the worker fetches the
// data itself.
type RefreshMessage struct {
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRefreshMessage creates a refresh message for a period.
func NewRefreshMessage(month, year int, reason string) *RefreshMessage {
	return &RefreshMessage{
		Month:     month,
		Year:      year,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *RefreshMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RefreshMessageFromJSON creates a message from JSON bytes.
func RefreshMessageFromJSON(data []byte) (*RefreshMessage, error) {
	var msg RefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
