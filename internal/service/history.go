package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/acadflow/syllabus-planner/internal/store"
	"github.com/acadflow/syllabus-planner/internal/store/model"
)

// HistoryService exposes the approval-history ledger. The gated write path
// lives in WorkflowService.Decide; Append here is the ungated direct-write
// variant used for record keeping only, it never touches the step chain.
// Entries written as part of one bulk action share a caller-supplied batch id.
type HistoryService struct {
	store store.Store
}

func NewHistoryService(store store.Store) *HistoryService {
	return &HistoryService{store: store}
}

func (s *HistoryService) Append(ctx context.Context, syllabusID uuid.UUID, userID, role, decision string, comment *string, batchID *uuid.UUID) (*model.ApprovalHistoryEntry, error) {
	if decision != model.DecisionApprove && decision != model.DecisionReject {
		return nil, NewErrBadRequest("action must be APPROVE or REJECT")
	}

	if _, err := s.store.Syllabus().Get(ctx, syllabusID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrSyllabusNotFound(syllabusID)
		}
		return nil, err
	}

	entry, err := s.store.ApprovalHistory().Append(ctx, model.ApprovalHistoryEntry{
		SyllabusVersionID: syllabusID,
		UserID:            userID,
		Role:              role,
		Decision:          decision,
		Comment:           comment,
		BatchID:           batchID,
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *HistoryService) ListForSyllabus(ctx context.Context, syllabusID uuid.UUID) (model.ApprovalHistoryList, error) {
	return s.store.ApprovalHistory().ListBySyllabus(ctx, syllabusID)
}
