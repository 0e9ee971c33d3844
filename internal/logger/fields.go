package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Tracing fields, propagated through the call chain via context.
const (
	FieldRequestID   = "request_id"
	FieldComponent   = "component"
	FieldQuoteID     = "quote_id"
	FieldTheme       = "theme"
	FieldAudience    = "target_audience"
	FieldContainerID = "container_id"
	FieldBatchID     = "batch_id"
)

// Metric fields, attached per entry for aggregation.
const (
	FieldDurationMs = "duration_ms"
	FieldCount      = "count"
	FieldSize       = "size"
	FieldStatus     = "status"
	FieldAttempt    = "attempt"
)
