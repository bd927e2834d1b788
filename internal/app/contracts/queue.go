package contracts

import "context"

// ResultEventPublisher enqueues result-ready events for asynchronous
// ingestion; the webhook endpoint never runs ingestion inline.
type ResultEventPublisher interface {
	PublishResultEvent(ctx context.Context, orderID string) error
}
