package tasks

import (
	"context"
)

// Publisher pushes request envelopes towards the external worker. Publish
// must not block on the worker.
type Publisher interface {
	Publish(ctx context.Context, req RequestEnvelope) error
	Close() error
}

// ResultSource exposes the stream of result envelopes coming back from the
// worker. Delivery may be duplicated or out of order; correctness rests on
// the reconciler's per-task idempotence.
type ResultSource interface {
	Results() <-chan ResultEnvelope
	Close() error
}
