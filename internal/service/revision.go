package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/acadflow/syllabus-planner/internal/auth"
	"github.com/acadflow/syllabus-planner/internal/events"
	"github.com/acadflow/syllabus-planner/internal/store"
	"github.com/acadflow/syllabus-planner/internal/store/model"
	"github.com/acadflow/syllabus-planner/pkg/metrics"
)

// RevisionService drives the post-publication correction cycle:
// INITIATED -> ASSIGNED -> IN_PROGRESS -> SUBMITTED -> APPROVED -> REPUBLISHED,
// with SUBMITTED looping back to IN_PROGRESS on reviewer rejection. The
// document stays PUBLISHED for the whole cycle.
type RevisionService struct {
	store       store.Store
	eventWriter *events.EventProducer
}

func NewRevisionService(store store.Store, eventWriter *events.EventProducer) *RevisionService {
	return &RevisionService{store: store, eventWriter: eventWriter}
}

type RevisionStartForm struct {
	SyllabusVersionID uuid.UUID
	FeedbackIDs       []uuid.UUID
	Description       string
	InitiatorID       string
	AssignedLecturer  *string
}

func (s *RevisionService) Start(ctx context.Context, form RevisionStartForm) (*model.RevisionSession, error) {
	ctx, err := s.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}

	syllabus, err := s.store.Syllabus().Get(ctx, form.SyllabusVersionID)
	if err != nil {
		_, _ = store.Rollback(ctx)
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrSyllabusNotFound(form.SyllabusVersionID)
		}
		return nil, err
	}

	if syllabus.Status != model.SyllabusStatusPublished {
		_, _ = store.Rollback(ctx)
		return nil, NewErrDocumentNotPublished(form.SyllabusVersionID, syllabus.Status)
	}

	if _, err := s.store.RevisionSession().GetActiveForSyllabus(ctx, form.SyllabusVersionID); err == nil {
		_, _ = store.Rollback(ctx)
		return nil, NewErrRevisionAlreadyActive(form.SyllabusVersionID)
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		_, _ = store.Rollback(ctx)
		return nil, err
	}

	lecturer := syllabus.OwnerLecturer
	if form.AssignedLecturer != nil && *form.AssignedLecturer != "" {
		lecturer = *form.AssignedLecturer
	}

	// a new session starts INITIATED and resolves to ASSIGNED immediately
	// by binding the lecturer
	now := time.Now()
	session := model.RevisionSession{
		SyllabusVersionID: form.SyllabusVersionID,
		Status:            model.RevisionStatusAssigned,
		Description:       form.Description,
		InitiatedBy:       form.InitiatorID,
		AssignedLecturer:  lecturer,
		AssignedAt:        &now,
	}
	if len(form.FeedbackIDs) > 0 {
		session.FeedbackIDs = model.MakeJSONField(form.FeedbackIDs)
	}

	created, err := s.store.RevisionSession().Create(ctx, session)
	if err != nil {
		_, _ = store.Rollback(ctx)
		// a concurrent Start for the same document lost against the
		// unique active-session index
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, NewErrRevisionAlreadyActive(form.SyllabusVersionID)
		}
		return nil, err
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.IncreaseRevisionTransitionsTotalMetric(model.RevisionStatusAssigned)
	s.writeRevisionEvent(ctx, created, form.InitiatorID)

	return created, nil
}

func (s *RevisionService) Submit(ctx context.Context, sessionID uuid.UUID, lecturerID, summary string) (*model.RevisionSession, error) {
	ctx, err := s.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}

	session, err := s.store.RevisionSession().Get(ctx, sessionID)
	if err != nil {
		_, _ = store.Rollback(ctx)
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrRevisionSessionNotFound(sessionID)
		}
		return nil, err
	}

	if session.AssignedLecturer != lecturerID {
		_, _ = store.Rollback(ctx)
		return nil, NewErrNotAssignee(sessionID, lecturerID)
	}

	if session.Status != model.RevisionStatusAssigned && session.Status != model.RevisionStatusInProgress {
		_, _ = store.Rollback(ctx)
		return nil, NewErrInvalidState("submit", session.Status)
	}

	now := time.Now()
	session.Status = model.RevisionStatusSubmitted
	session.SubmittedAt = &now

	updated, err := s.store.RevisionSession().Update(ctx, session)
	if err != nil {
		_, _ = store.Rollback(ctx)
		return nil, err
	}

	if err := s.store.RevisionSession().AddSubmission(ctx, model.RevisionSubmission{
		RevisionSessionID: sessionID,
		LecturerID:        lecturerID,
		Summary:           summary,
		SubmittedAt:       now,
	}); err != nil {
		_, _ = store.Rollback(ctx)
		return nil, err
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.IncreaseRevisionTransitionsTotalMetric(model.RevisionStatusSubmitted)
	s.writeRevisionEvent(ctx, updated, lecturerID)

	return updated, nil
}

func (s *RevisionService) Review(ctx context.Context, sessionID uuid.UUID, reviewerID, reviewerRole, decision string, comment *string) (*model.RevisionSession, error) {
	if decision != model.ReviewDecisionApproved && decision != model.ReviewDecisionRejected {
		return nil, NewErrBadRequest("decision must be APPROVED or REJECTED")
	}
	if reviewerRole != auth.RoleHOD {
		return nil, NewErrRoleMismatch(auth.RoleHOD, reviewerRole)
	}

	ctx, err := s.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}

	session, err := s.store.RevisionSession().Get(ctx, sessionID)
	if err != nil {
		_, _ = store.Rollback(ctx)
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrRevisionSessionNotFound(sessionID)
		}
		return nil, err
	}

	if session.Status != model.RevisionStatusSubmitted {
		_, _ = store.Rollback(ctx)
		return nil, NewErrInvalidState("review", session.Status)
	}

	now := time.Now()
	session.ReviewedAt = &now
	session.ReviewerDecision = &decision
	session.ReviewerComment = comment

	if decision == model.ReviewDecisionApproved {
		session.Status = model.RevisionStatusApproved
	} else {
		// rejection loops the session back so the lecturer can rework it;
		// the loop is unbounded
		session.Status = model.RevisionStatusInProgress
	}

	updated, err := s.store.RevisionSession().Update(ctx, session)
	if err != nil {
		_, _ = store.Rollback(ctx)
		return nil, err
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.IncreaseRevisionTransitionsTotalMetric(updated.Status)
	s.writeRevisionEvent(ctx, updated, reviewerID)

	return updated, nil
}

func (s *RevisionService) Republish(ctx context.Context, sessionID uuid.UUID, adminID, adminRole string) (*model.RevisionSession, error) {
	if adminRole != auth.RoleAdmin {
		return nil, NewErrRoleMismatch(auth.RoleAdmin, adminRole)
	}

	ctx, err := s.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}

	session, err := s.store.RevisionSession().Get(ctx, sessionID)
	if err != nil {
		_, _ = store.Rollback(ctx)
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrRevisionSessionNotFound(sessionID)
		}
		return nil, err
	}

	if session.Status != model.RevisionStatusApproved {
		_, _ = store.Rollback(ctx)
		return nil, NewErrInvalidState("republish", session.Status)
	}

	now := time.Now()
	session.Status = model.RevisionStatusRepublished
	session.RepublishedAt = &now
	// release the single-active-session lock for this document
	session.ActiveGuard = nil

	updated, err := s.store.RevisionSession().Update(ctx, session)
	if err != nil {
		_, _ = store.Rollback(ctx)
		return nil, err
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.IncreaseRevisionTransitionsTotalMetric(model.RevisionStatusRepublished)
	s.writeRevisionEvent(ctx, updated, adminID)

	return updated, nil
}

func (s *RevisionService) ActiveSessionFor(ctx context.Context, syllabusID uuid.UUID) (*model.RevisionSession, error) {
	session, err := s.store.RevisionSession().GetActiveForSyllabus(ctx, syllabusID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrRevisionSessionNotFound(syllabusID)
		}
		return nil, err
	}
	return session, nil
}

func (s *RevisionService) SessionAwaitingRepublish(ctx context.Context, syllabusID uuid.UUID) (*model.RevisionSession, error) {
	session, err := s.store.RevisionSession().GetActiveForSyllabus(ctx, syllabusID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrRevisionSessionNotFound(syllabusID)
		}
		return nil, err
	}
	if session.Status != model.RevisionStatusApproved {
		return nil, NewErrRevisionSessionNotFound(syllabusID)
	}
	return session, nil
}

// ListPendingReview returns sessions awaiting the reviewing role.
func (s *RevisionService) ListPendingReview(ctx context.Context) (model.RevisionSessionList, error) {
	return s.store.RevisionSession().ListByStatus(ctx, model.RevisionStatusSubmitted)
}

// ListPendingRepublish returns approved sessions awaiting republication.
func (s *RevisionService) ListPendingRepublish(ctx context.Context) (model.RevisionSessionList, error) {
	return s.store.RevisionSession().ListByStatus(ctx, model.RevisionStatusApproved)
}

func (s *RevisionService) ListForSyllabus(ctx context.Context, syllabusID uuid.UUID, completed bool) (model.RevisionSessionList, error) {
	return s.store.RevisionSession().ListBySyllabus(ctx, syllabusID, completed)
}

func (s *RevisionService) writeRevisionEvent(ctx context.Context, session *model.RevisionSession, actorID string) {
	if s.eventWriter == nil {
		return
	}
	data, err := json.Marshal(events.RevisionEvent{
		SessionID:         session.ID.String(),
		SyllabusVersionID: session.SyllabusVersionID.String(),
		Status:            session.Status,
		ActorID:           actorID,
	})
	if err != nil {
		zap.S().Named("revision_service").Warnf("failed to marshal revision event: %s", err)
		return
	}
	if err := s.eventWriter.Write(ctx, events.RevisionMessageKind, bytes.NewReader(data)); err != nil {
		zap.S().Named("revision_service").Warnf("failed to write revision event: %s", err)
	}
}
