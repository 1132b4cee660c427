// Package eventstream defines transport-neutral events emitted by the
// conversation pipeline and the publisher contract for delivering them.
package eventstream

import "context"

// Publisher publishes exchange events to an event stream backend.
type Publisher interface {
	PublishExchange(ctx context.Context, event *ExchangeEvent) error
	Close() error
}
