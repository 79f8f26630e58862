package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/acadflow/syllabus-planner/internal/store/model"
)

// TaskStatus persists the pollable record of async analysis tasks.
type TaskStatus interface {
	Create(ctx context.Context, task model.TaskStatus) (*model.TaskStatus, error)
	Get(ctx context.Context, id uuid.UUID) (*model.TaskStatus, error)
	// Reconcile overwrites the record from a result message. Terminal rows
	// are protected in SQL: the update is a no-op once status is SUCCESS or
	// ERROR, so duplicated or late deliveries cannot regress the record.
	Reconcile(ctx context.Context, id uuid.UUID, status string, progress int, result []byte, errorMessage *string) (bool, error)
	InitialMigration() error
}

type TaskStatusStore struct {
	db *gorm.DB
}

// Make sure we conform to TaskStatus interface
var _ TaskStatus = (*TaskStatusStore)(nil)

func NewTaskStatusStore(db *gorm.DB) TaskStatus {
	return &TaskStatusStore{db: db}
}

func (s *TaskStatusStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.TaskStatus{})
}

func (s *TaskStatusStore) Create(ctx context.Context, task model.TaskStatus) (*model.TaskStatus, error) {
	result := s.getDB(ctx).Create(&task)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("creating task status: %w", result.Error)
	}
	return &task, nil
}

func (s *TaskStatusStore) Get(ctx context.Context, id uuid.UUID) (*model.TaskStatus, error) {
	var task model.TaskStatus
	result := s.getDB(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying task status: %w", result.Error)
	}
	return &task, nil
}

func (s *TaskStatusStore) Reconcile(ctx context.Context, id uuid.UUID, status string, progress int, result []byte, errorMessage *string) (bool, error) {
	updates := map[string]any{
		"status":        status,
		"progress":      progress,
		"result":        result,
		"error_message": errorMessage,
	}

	res := s.getDB(ctx).Model(&model.TaskStatus{}).
		Where("id = ? AND status NOT IN ?", id,
			[]string{model.TaskStatusSuccess, model.TaskStatusError}).
		Updates(updates)
	if res.Error != nil {
		return false, fmt.Errorf("reconciling task status: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *TaskStatusStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
