package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/acadflow/syllabus-planner/internal/store/model"
)

// WorkflowStep persists the ordered approval chain of a syllabus version.
type WorkflowStep interface {
	CreateChain(ctx context.Context, steps []model.WorkflowStep) ([]model.WorkflowStep, error)
	GetActive(ctx context.Context, syllabusVersionID uuid.UUID) (*model.WorkflowStep, error)
	ListBySyllabus(ctx context.Context, syllabusVersionID uuid.UUID) (model.WorkflowStepList, error)
	HasOpenSteps(ctx context.Context, syllabusVersionID uuid.UUID) (bool, error)
	// Resolve moves a step out of ACTIVE. The update is guarded by the
	// current status so a concurrent caller that lost the race observes
	// zero affected rows and gets ErrRecordNotFound.
	Resolve(ctx context.Context, stepID uint, status string, approver string, comment *string, completedAt time.Time) (*model.WorkflowStep, error)
	Activate(ctx context.Context, stepID uint) (*model.WorkflowStep, error)
	NextPending(ctx context.Context, syllabusVersionID uuid.UUID, afterOrder int) (*model.WorkflowStep, error)
	CancelPendingAfter(ctx context.Context, syllabusVersionID uuid.UUID, afterOrder int, completedAt time.Time) (int64, error)
	InitialMigration() error
}

type WorkflowStepStore struct {
	db *gorm.DB
}

// Make sure we conform to WorkflowStep interface
var _ WorkflowStep = (*WorkflowStepStore)(nil)

func NewWorkflowStepStore(db *gorm.DB) WorkflowStep {
	return &WorkflowStepStore{db: db}
}

func (s *WorkflowStepStore) InitialMigration() error {
	if err := s.db.AutoMigrate(&model.WorkflowStep{}); err != nil {
		return err
	}

	// Step order is unique only among open steps. Resolved chains stay in the
	// table forever, and a document that was rejected or published may enter
	// review again with a fresh chain reusing the same orders.
	return s.db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS workflow_steps_open_version_order " +
			"ON workflow_steps (syllabus_version_id, step_order) " +
			"WHERE status IN ('PENDING', 'ACTIVE')",
	).Error
}

func (s *WorkflowStepStore) CreateChain(ctx context.Context, steps []model.WorkflowStep) ([]model.WorkflowStep, error) {
	if len(steps) == 0 {
		return nil, errors.New("empty step chain")
	}
	result := s.getDB(ctx).Create(&steps)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("creating workflow steps: %w", result.Error)
	}
	return steps, nil
}

func (s *WorkflowStepStore) GetActive(ctx context.Context, syllabusVersionID uuid.UUID) (*model.WorkflowStep, error) {
	var step model.WorkflowStep
	result := s.getDB(ctx).
		Where("syllabus_version_id = ? AND status = ?", syllabusVersionID, model.StepStatusActive).
		First(&step)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying active step: %w", result.Error)
	}
	return &step, nil
}

func (s *WorkflowStepStore) ListBySyllabus(ctx context.Context, syllabusVersionID uuid.UUID) (model.WorkflowStepList, error) {
	var steps model.WorkflowStepList
	result := s.getDB(ctx).
		Where("syllabus_version_id = ?", syllabusVersionID).
		Order("step_order").
		Find(&steps)
	if result.Error != nil {
		return nil, fmt.Errorf("querying workflow steps: %w", result.Error)
	}
	return steps, nil
}

func (s *WorkflowStepStore) HasOpenSteps(ctx context.Context, syllabusVersionID uuid.UUID) (bool, error) {
	var count int64
	result := s.getDB(ctx).Model(&model.WorkflowStep{}).
		Where("syllabus_version_id = ? AND status IN ?", syllabusVersionID,
			[]string{model.StepStatusPending, model.StepStatusActive}).
		Count(&count)
	if result.Error != nil {
		return false, fmt.Errorf("counting open steps: %w", result.Error)
	}
	return count > 0, nil
}

func (s *WorkflowStepStore) Resolve(ctx context.Context, stepID uint, status string, approver string, comment *string, completedAt time.Time) (*model.WorkflowStep, error) {
	updates := map[string]any{
		"status":            status,
		"assigned_approver": approver,
		"completed_at":      completedAt,
	}
	if comment != nil {
		updates["comment"] = *comment
	}

	result := s.getDB(ctx).Model(&model.WorkflowStep{}).
		Where("id = ? AND status = ?", stepID, model.StepStatusActive).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("resolving workflow step: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}

	var step model.WorkflowStep
	if err := s.getDB(ctx).First(&step, stepID).Error; err != nil {
		return nil, fmt.Errorf("reloading workflow step: %w", err)
	}
	return &step, nil
}

func (s *WorkflowStepStore) Activate(ctx context.Context, stepID uint) (*model.WorkflowStep, error) {
	result := s.getDB(ctx).Model(&model.WorkflowStep{}).
		Where("id = ? AND status = ?", stepID, model.StepStatusPending).
		Update("status", model.StepStatusActive)
	if result.Error != nil {
		return nil, fmt.Errorf("activating workflow step: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}

	var step model.WorkflowStep
	if err := s.getDB(ctx).First(&step, stepID).Error; err != nil {
		return nil, fmt.Errorf("reloading workflow step: %w", err)
	}
	return &step, nil
}

func (s *WorkflowStepStore) NextPending(ctx context.Context, syllabusVersionID uuid.UUID, afterOrder int) (*model.WorkflowStep, error) {
	var step model.WorkflowStep
	result := s.getDB(ctx).
		Where("syllabus_version_id = ? AND status = ? AND step_order > ?",
			syllabusVersionID, model.StepStatusPending, afterOrder).
		Order("step_order").
		First(&step)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying next pending step: %w", result.Error)
	}
	return &step, nil
}

func (s *WorkflowStepStore) CancelPendingAfter(ctx context.Context, syllabusVersionID uuid.UUID, afterOrder int, completedAt time.Time) (int64, error) {
	result := s.getDB(ctx).Model(&model.WorkflowStep{}).
		Where("syllabus_version_id = ? AND status = ? AND step_order > ?",
			syllabusVersionID, model.StepStatusPending, afterOrder).
		Updates(map[string]any{
			"status":       model.StepStatusCancelled,
			"completed_at": completedAt,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("cancelling pending steps: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *WorkflowStepStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
