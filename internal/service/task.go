package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/acadflow/syllabus-planner/internal/store"
	"github.com/acadflow/syllabus-planner/internal/store/model"
	"github.com/acadflow/syllabus-planner/internal/tasks"
	"github.com/acadflow/syllabus-planner/pkg/metrics"
)

// TaskService is the gateway to the external analysis worker. Dispatch
// persists a QUEUED record and publishes the request without blocking on the
// worker; Reconcile applies result messages idempotently.
type TaskService struct {
	store     store.Store
	publisher tasks.Publisher
}

func NewTaskService(store store.Store, publisher tasks.Publisher) *TaskService {
	return &TaskService{store: store, publisher: publisher}
}

func (s *TaskService) Dispatch(ctx context.Context, action string, payload any, requesterID string, priority int) (*model.TaskStatus, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, NewErrBadRequest(fmt.Sprintf("invalid task payload: %s", err))
	}

	taskID := uuid.New()
	task, err := s.store.TaskStatus().Create(ctx, model.TaskStatus{
		ID:          taskID,
		Action:      action,
		Status:      model.TaskStatusQueued,
		Progress:    0,
		SubmittedBy: requesterID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.publisher.Publish(ctx, tasks.RequestEnvelope{
		MessageID: taskID,
		Action:    action,
		Priority:  priority,
		Timestamp: time.Now(),
		UserID:    requesterID,
		Payload:   data,
	}); err != nil {
		// the record exists but the request never left; flip it to ERROR so
		// pollers are not stuck on QUEUED forever
		msg := fmt.Sprintf("failed to enqueue task: %s", err)
		if _, rerr := s.store.TaskStatus().Reconcile(ctx, taskID, model.TaskStatusError, 0, nil, &msg); rerr != nil {
			zap.S().Named("task_service").Errorf("failed to mark task %s as errored: %s", taskID, rerr)
		}
		return nil, err
	}

	return task, nil
}

func (s *TaskService) Reconcile(ctx context.Context, res tasks.ResultEnvelope) error {
	switch res.Status {
	case model.TaskStatusQueued, model.TaskStatusProcessing, model.TaskStatusSuccess, model.TaskStatusError:
	default:
		metrics.IncreaseTaskReconcilesTotalMetric("malformed")
		return NewErrBadRequest(fmt.Sprintf("unknown task status %q", res.Status))
	}

	existing, err := s.store.TaskStatus().Get(ctx, res.MessageID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			metrics.IncreaseTaskReconcilesTotalMetric("unknown_task")
			return NewErrTaskNotFound(res.MessageID)
		}
		return err
	}

	// terminal records are immutable; redelivered or late messages are a no-op
	if existing.IsTerminal() {
		metrics.IncreaseTaskReconcilesTotalMetric("duplicate")
		zap.S().Named("task_service").Debugf("task %s already terminal, dropping result message", res.MessageID)
		return nil
	}

	updated, err := s.store.TaskStatus().Reconcile(ctx, res.MessageID, res.Status, res.Progress, res.Result, res.ErrorMessage)
	if err != nil {
		return err
	}
	if !updated {
		// lost against a concurrent reconcile that made the row terminal
		metrics.IncreaseTaskReconcilesTotalMetric("duplicate")
		return nil
	}

	metrics.IncreaseTaskReconcilesTotalMetric("applied")
	return nil
}

func (s *TaskService) Status(ctx context.Context, taskID uuid.UUID) (*model.TaskStatus, error) {
	task, err := s.store.TaskStatus().Get(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrTaskNotFound(taskID)
		}
		return nil, err
	}
	return task, nil
}
