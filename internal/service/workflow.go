package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/thoas/go-funk"
	"go.uber.org/zap"

	"github.com/acadflow/syllabus-planner/internal/events"
	"github.com/acadflow/syllabus-planner/internal/store"
	"github.com/acadflow/syllabus-planner/internal/store/model"
	"github.com/acadflow/syllabus-planner/pkg/metrics"
)

// WorkflowService sequences the ordered approval chain of a syllabus version.
// Step transitions, the matching approval-history entry and the document
// status flip share one transaction; event emission is best-effort and never
// rolls any of it back.
type WorkflowService struct {
	store       store.Store
	eventWriter *events.EventProducer
}

func NewWorkflowService(store store.Store, eventWriter *events.EventProducer) *WorkflowService {
	return &WorkflowService{store: store, eventWriter: eventWriter}
}

func (s *WorkflowService) InitializeWorkflow(ctx context.Context, syllabusID uuid.UUID, roleChain []string) (model.WorkflowStepList, error) {
	if len(roleChain) == 0 {
		return nil, NewErrBadRequest("role chain must not be empty")
	}
	if len(funk.UniqString(roleChain)) != len(roleChain) {
		return nil, NewErrBadRequest("role chain must not contain duplicate roles")
	}

	ctx, err := s.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}

	syllabus, err := s.store.Syllabus().Get(ctx, syllabusID)
	if err != nil {
		_, _ = store.Rollback(ctx)
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrSyllabusNotFound(syllabusID)
		}
		return nil, err
	}

	hasOpen, err := s.store.WorkflowStep().HasOpenSteps(ctx, syllabusID)
	if err != nil {
		_, _ = store.Rollback(ctx)
		return nil, err
	}
	if hasOpen || syllabus.Status == model.SyllabusStatusInReview {
		_, _ = store.Rollback(ctx)
		return nil, NewErrAlreadyInReview(syllabusID)
	}

	steps := make([]model.WorkflowStep, 0, len(roleChain))
	for i, role := range roleChain {
		status := model.StepStatusPending
		if i == 0 {
			status = model.StepStatusActive
		}
		steps = append(steps, model.WorkflowStep{
			SyllabusVersionID: syllabusID,
			StepOrder:         i + 1,
			RequiredRole:      role,
			Status:            status,
		})
	}

	created, err := s.store.WorkflowStep().CreateChain(ctx, steps)
	if err != nil {
		_, _ = store.Rollback(ctx)
		if errors.Is(err, store.ErrDuplicateKey) {
			// lost against a concurrent initializer whose open chain already
			// holds the step orders
			return nil, NewErrAlreadyInReview(syllabusID)
		}
		return nil, err
	}

	if _, err := s.store.Syllabus().UpdateStatus(ctx, syllabusID, model.SyllabusStatusInReview); err != nil {
		_, _ = store.Rollback(ctx)
		return nil, err
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	s.writeAuditEvent(ctx, events.AuditEvent{
		Action:            "workflow_initialized",
		SyllabusVersionID: syllabusID.String(),
		UserID:            "",
		Detail:            "approval chain created",
	})

	return created, nil
}

func (s *WorkflowService) Decide(ctx context.Context, syllabusID uuid.UUID, actingUserID, actingRole, decision string, comment *string) (*model.WorkflowStep, error) {
	if decision != model.DecisionApprove && decision != model.DecisionReject {
		return nil, NewErrBadRequest("decision must be APPROVE or REJECT")
	}

	ctx, err := s.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}

	syllabus, err := s.store.Syllabus().Get(ctx, syllabusID)
	if err != nil {
		_, _ = store.Rollback(ctx)
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrSyllabusNotFound(syllabusID)
		}
		return nil, err
	}

	active, err := s.store.WorkflowStep().GetActive(ctx, syllabusID)
	if err != nil {
		_, _ = store.Rollback(ctx)
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrNoActiveStep(syllabusID)
		}
		return nil, err
	}

	if active.RequiredRole != actingRole {
		_, _ = store.Rollback(ctx)
		return nil, NewErrRoleMismatch(active.RequiredRole, actingRole)
	}

	now := time.Now()
	stepStatus := model.StepStatusApproved
	if decision == model.DecisionReject {
		stepStatus = model.StepStatusRejected
	}

	// the guarded update loses against a concurrent decision on the same
	// step, which surfaces here as ErrRecordNotFound
	resolved, err := s.store.WorkflowStep().Resolve(ctx, active.ID, stepStatus, actingUserID, comment, now)
	if err != nil {
		_, _ = store.Rollback(ctx)
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrAlreadyResolved(active.StepOrder)
		}
		return nil, err
	}

	stepOrder := active.StepOrder
	if _, err := s.store.ApprovalHistory().Append(ctx, model.ApprovalHistoryEntry{
		SyllabusVersionID: syllabusID,
		UserID:            actingUserID,
		StepOrder:         &stepOrder,
		Role:              actingRole,
		Decision:          decision,
		Comment:           comment,
	}); err != nil {
		_, _ = store.Rollback(ctx)
		return nil, err
	}

	documentStatus := syllabus.Status
	switch decision {
	case model.DecisionApprove:
		next, err := s.store.WorkflowStep().NextPending(ctx, syllabusID, active.StepOrder)
		switch {
		case err == nil:
			if _, err := s.store.WorkflowStep().Activate(ctx, next.ID); err != nil {
				_, _ = store.Rollback(ctx)
				return nil, err
			}
		case errors.Is(err, store.ErrRecordNotFound):
			// terminal approval
			documentStatus = model.SyllabusStatusPublished
			if _, err := s.store.Syllabus().UpdateStatus(ctx, syllabusID, documentStatus); err != nil {
				_, _ = store.Rollback(ctx)
				return nil, err
			}
		default:
			_, _ = store.Rollback(ctx)
			return nil, err
		}
	case model.DecisionReject:
		if _, err := s.store.WorkflowStep().CancelPendingAfter(ctx, syllabusID, active.StepOrder, now); err != nil {
			_, _ = store.Rollback(ctx)
			return nil, err
		}
		documentStatus = model.SyllabusStatusRejected
		if _, err := s.store.Syllabus().UpdateStatus(ctx, syllabusID, documentStatus); err != nil {
			_, _ = store.Rollback(ctx)
			return nil, err
		}
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.IncreaseWorkflowDecisionsTotalMetric(decision, actingRole)

	s.writeWorkflowEvent(ctx, events.WorkflowDecisionEvent{
		SyllabusVersionID: syllabusID.String(),
		StepOrder:         active.StepOrder,
		Role:              actingRole,
		UserID:            actingUserID,
		Decision:          decision,
		DocumentStatus:    documentStatus,
	})

	return resolved, nil
}

func (s *WorkflowService) GetActiveStep(ctx context.Context, syllabusID uuid.UUID) (*model.WorkflowStep, error) {
	step, err := s.store.WorkflowStep().GetActive(ctx, syllabusID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrNoActiveStep(syllabusID)
		}
		return nil, err
	}
	return step, nil
}

func (s *WorkflowService) ListSteps(ctx context.Context, syllabusID uuid.UUID) (model.WorkflowStepList, error) {
	return s.store.WorkflowStep().ListBySyllabus(ctx, syllabusID)
}

func (s *WorkflowService) writeWorkflowEvent(ctx context.Context, event events.WorkflowDecisionEvent) {
	if s.eventWriter == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		zap.S().Named("workflow_service").Warnf("failed to marshal workflow event: %s", err)
		return
	}
	if err := s.eventWriter.Write(ctx, events.WorkflowMessageKind, bytes.NewReader(data)); err != nil {
		zap.S().Named("workflow_service").Warnf("failed to write workflow event: %s", err)
	}
}

func (s *WorkflowService) writeAuditEvent(ctx context.Context, event events.AuditEvent) {
	if s.eventWriter == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		zap.S().Named("workflow_service").Warnf("failed to marshal audit event: %s", err)
		return
	}
	if err := s.eventWriter.Write(ctx, events.AuditMessageKind, bytes.NewReader(data)); err != nil {
		zap.S().Named("workflow_service").Warnf("failed to write audit event: %s", err)
	}
}
