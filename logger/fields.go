package logger

// Standard field names for consistent structured logging across Betty.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldLoadID  = "load_id"
	FieldArchive = "archive"

	// Components
	FieldComponent = "component"

	// Entities
	FieldHandle   = "handle"
	FieldEntityID = "entity_id"
	FieldKind     = "kind"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts
	FieldCount      = "count"
	FieldTotalCount = "total_count"
)
