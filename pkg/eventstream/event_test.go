package eventstream

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestExchangeEventDurationInMilliseconds(t *testing.T) {
	event := ExchangeEvent{
		SchemaVersion:  SchemaVersionV1,
		EventType:      EventTypeExchangeCompleted,
		DurationMillis: (1500 * time.Millisecond).Milliseconds(),
	}

	raw, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"duration_ms":1500}`) {
		t.Fatalf("expected duration_ms in milliseconds, got %s", raw)
	}
}
