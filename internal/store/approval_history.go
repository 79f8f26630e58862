package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/acadflow/syllabus-planner/internal/store/model"
)

// ApprovalHistory is the append-only ledger of decisions. Entries are never
// updated or deleted.
type ApprovalHistory interface {
	Append(ctx context.Context, entry model.ApprovalHistoryEntry) (*model.ApprovalHistoryEntry, error)
	ListBySyllabus(ctx context.Context, syllabusVersionID uuid.UUID) (model.ApprovalHistoryList, error)
	InitialMigration() error
}

type ApprovalHistoryStore struct {
	db *gorm.DB
}

// Make sure we conform to ApprovalHistory interface
var _ ApprovalHistory = (*ApprovalHistoryStore)(nil)

func NewApprovalHistoryStore(db *gorm.DB) ApprovalHistory {
	return &ApprovalHistoryStore{db: db}
}

func (s *ApprovalHistoryStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.ApprovalHistoryEntry{})
}

func (s *ApprovalHistoryStore) Append(ctx context.Context, entry model.ApprovalHistoryEntry) (*model.ApprovalHistoryEntry, error) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	result := s.getDB(ctx).Create(&entry)
	if result.Error != nil {
		return nil, fmt.Errorf("appending approval history entry: %w", result.Error)
	}
	return &entry, nil
}

func (s *ApprovalHistoryStore) ListBySyllabus(ctx context.Context, syllabusVersionID uuid.UUID) (model.ApprovalHistoryList, error) {
	var entries model.ApprovalHistoryList
	result := s.getDB(ctx).
		Where("syllabus_version_id = ?", syllabusVersionID).
		Order("created_at DESC").
		Find(&entries)
	if result.Error != nil {
		return nil, fmt.Errorf("querying approval history: %w", result.Error)
	}
	return entries, nil
}

func (s *ApprovalHistoryStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
