package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/acadflow/syllabus-planner/internal/store/model"
)

// Syllabus is the registry of syllabus-version records. The lifecycle engine
// mutates the status column only through UpdateStatus.
type Syllabus interface {
	List(ctx context.Context, filter *SyllabusQueryFilter) (model.SyllabusVersionList, error)
	Create(ctx context.Context, syllabus model.SyllabusVersion) (*model.SyllabusVersion, error)
	Get(ctx context.Context, id uuid.UUID) (*model.SyllabusVersion, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.SyllabusVersion, error)
	InitialMigration() error
}

type SyllabusStore struct {
	db *gorm.DB
}

// Make sure we conform to Syllabus interface
var _ Syllabus = (*SyllabusStore)(nil)

func NewSyllabusStore(db *gorm.DB) Syllabus {
	return &SyllabusStore{db: db}
}

func (s *SyllabusStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.SyllabusVersion{})
}

func (s *SyllabusStore) List(ctx context.Context, filter *SyllabusQueryFilter) (model.SyllabusVersionList, error) {
	var syllabi model.SyllabusVersionList

	tx := s.getDB(ctx).Model(&model.SyllabusVersion{}).Order("created_at DESC")
	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	if err := tx.Find(&syllabi).Error; err != nil {
		return nil, err
	}
	return syllabi, nil
}

func (s *SyllabusStore) Create(ctx context.Context, syllabus model.SyllabusVersion) (*model.SyllabusVersion, error) {
	result := s.getDB(ctx).Clauses(clause.Returning{}).Create(&syllabus)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("creating syllabus version: %w", result.Error)
	}
	return &syllabus, nil
}

func (s *SyllabusStore) Get(ctx context.Context, id uuid.UUID) (*model.SyllabusVersion, error) {
	syllabus := model.SyllabusVersion{ID: id}
	result := s.getDB(ctx).First(&syllabus)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying syllabus version: %w", result.Error)
	}
	return &syllabus, nil
}

func (s *SyllabusStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*model.SyllabusVersion, error) {
	syllabus := model.SyllabusVersion{ID: id}
	result := s.getDB(ctx).Model(&syllabus).Clauses(clause.Returning{}).Update("status", status)
	if result.Error != nil {
		return nil, fmt.Errorf("updating syllabus status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return &syllabus, nil
}

func (s *SyllabusStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
