package eventstream

import "time"

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeExchangeCompleted is emitted after a chat exchange is answered
	// and its response log is persisted.
	EventTypeExchangeCompleted = "iris.exchange.completed"
)

// ExchangeEvent is a transport-neutral event payload for a completed chat
// exchange.
type ExchangeEvent struct {
	SchemaVersion int       `json:"schema_version"`
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	EmittedAt     time.Time `json:"emitted_at"`
	SessionID     string    `json:"session_id"`
	Query         string    `json:"query"`
	Stage         string    `json:"stage"`
	Grounded      bool      `json:"grounded"`
	SourceCount   int       `json:"source_count"`

	// DurationMillis is whole milliseconds; time.Duration would marshal as
	// nanoseconds under this tag.
	DurationMillis int64 `json:"duration_ms"`
}
