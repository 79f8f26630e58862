package tasks

import (
	"context"
	"errors"
	"sync"
)

const channelQueueCapacity = 256

// ChannelQueue is an in-memory queue used in dev and tests. It implements
// both ends of the contract: Publish feeds Requests, PushResult feeds
// Results.
type ChannelQueue struct {
	requests chan RequestEnvelope
	results  chan ResultEnvelope

	mu     sync.Mutex
	closed bool
}

var _ Publisher = (*ChannelQueue)(nil)
var _ ResultSource = (*ChannelQueue)(nil)

func NewChannelQueue() *ChannelQueue {
	return &ChannelQueue{
		requests: make(chan RequestEnvelope, channelQueueCapacity),
		results:  make(chan ResultEnvelope, channelQueueCapacity),
	}
}

func (q *ChannelQueue) Publish(ctx context.Context, req RequestEnvelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return errors.New("queue is closed")
	}
	select {
	case q.requests <- req:
		return nil
	default:
		return errors.New("request queue is full")
	}
}

// Requests exposes the request stream to an in-process worker stub.
func (q *ChannelQueue) Requests() <-chan RequestEnvelope {
	return q.requests
}

// PushResult injects a result envelope as the external worker would.
func (q *ChannelQueue) PushResult(res ResultEnvelope) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return errors.New("queue is closed")
	}
	select {
	case q.results <- res:
		return nil
	default:
		return errors.New("result queue is full")
	}
}

func (q *ChannelQueue) Results() <-chan ResultEnvelope {
	return q.results
}

func (q *ChannelQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.results)
	return nil
}
