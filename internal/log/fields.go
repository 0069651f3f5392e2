package log

// Common field names for structured logging.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldClientIP  = "client_ip"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldOperation = "operation"
	FieldMonth     = "month"
	FieldYear      = "year"
	FieldCategory  = "category"
	FieldGoalID    = "goal_id"
	FieldTxnCount  = "txn_count"
	FieldGen       = "generation"
)

// Components defines standard component names.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentAPI       = "api_client"
	ComponentAI        = "ai_client"
	ComponentSession   = "session"
	ComponentBudget    = "budget"
	ComponentSavings   = "savings"
	ComponentStatement = "statement"
	ComponentExport    = "export"
	ComponentCache     = "cache"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
)
