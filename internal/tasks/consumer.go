package tasks

import (
	"context"

	"go.uber.org/zap"
)

// ReconcileFunc applies one result envelope to the task record. It must be
// idempotent per task.
type ReconcileFunc func(ctx context.Context, res ResultEnvelope) error

// Consumer drains a ResultSource and reconciles every message. Reconciliation
// failures are logged and dropped so one bad message never blocks the loop.
type Consumer struct {
	source    ResultSource
	reconcile ReconcileFunc
}

func NewConsumer(source ResultSource, reconcile ReconcileFunc) *Consumer {
	return &Consumer{source: source, reconcile: reconcile}
}

func (c *Consumer) Run(ctx context.Context) {
	logger := zap.S().Named("task_consumer")
	logger.Info("task result consumer started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("task result consumer stopped")
			return
		case res, ok := <-c.source.Results():
			if !ok {
				logger.Info("result channel closed, consumer stopped")
				return
			}
			if err := c.reconcile(ctx, res); err != nil {
				logger.Errorw("failed to reconcile task result", "error", err, "task_id", res.MessageID)
			}
		}
	}
}
