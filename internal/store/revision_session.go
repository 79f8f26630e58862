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

// RevisionSession persists the post-publication correction cycle. The unique
// index on (syllabus_version_id, active_guard) keeps at most one non-terminal
// session per document; Create surfaces a second concurrent attempt as
// ErrDuplicateKey.
type RevisionSession interface {
	Create(ctx context.Context, session model.RevisionSession) (*model.RevisionSession, error)
	Get(ctx context.Context, id uuid.UUID) (*model.RevisionSession, error)
	Update(ctx context.Context, session *model.RevisionSession) (*model.RevisionSession, error)
	GetActiveForSyllabus(ctx context.Context, syllabusVersionID uuid.UUID) (*model.RevisionSession, error)
	ListByStatus(ctx context.Context, status string) (model.RevisionSessionList, error)
	ListBySyllabus(ctx context.Context, syllabusVersionID uuid.UUID, terminal bool) (model.RevisionSessionList, error)
	AddSubmission(ctx context.Context, submission model.RevisionSubmission) error
	InitialMigration() error
}

type RevisionSessionStore struct {
	db *gorm.DB
}

// Make sure we conform to RevisionSession interface
var _ RevisionSession = (*RevisionSessionStore)(nil)

func NewRevisionSessionStore(db *gorm.DB) RevisionSession {
	return &RevisionSessionStore{db: db}
}

func (s *RevisionSessionStore) InitialMigration() error {
	if err := s.db.AutoMigrate(&model.RevisionSession{}); err != nil {
		return err
	}
	return s.db.AutoMigrate(&model.RevisionSubmission{})
}

func (s *RevisionSessionStore) Create(ctx context.Context, session model.RevisionSession) (*model.RevisionSession, error) {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	guard := model.ActiveGuardValue
	session.ActiveGuard = &guard

	result := s.getDB(ctx).Clauses(clause.Returning{}).Create(&session)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, fmt.Errorf("creating revision session: %w", result.Error)
	}
	return &session, nil
}

func (s *RevisionSessionStore) Get(ctx context.Context, id uuid.UUID) (*model.RevisionSession, error) {
	var session model.RevisionSession
	result := s.getDB(ctx).Preload("Submissions").First(&session, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying revision session: %w", result.Error)
	}
	return &session, nil
}

func (s *RevisionSessionStore) Update(ctx context.Context, session *model.RevisionSession) (*model.RevisionSession, error) {
	// Save with Select("*") also persists NULLed columns such as the
	// released active_guard.
	result := s.getDB(ctx).Model(session).Select("*").Omit("created_at", "Submissions").Updates(session)
	if result.Error != nil {
		return nil, fmt.Errorf("updating revision session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return session, nil
}

func (s *RevisionSessionStore) GetActiveForSyllabus(ctx context.Context, syllabusVersionID uuid.UUID) (*model.RevisionSession, error) {
	var session model.RevisionSession
	result := s.getDB(ctx).Preload("Submissions").
		Where("syllabus_version_id = ? AND status <> ?", syllabusVersionID, model.RevisionStatusRepublished).
		First(&session)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("querying active revision session: %w", result.Error)
	}
	return &session, nil
}

func (s *RevisionSessionStore) ListByStatus(ctx context.Context, status string) (model.RevisionSessionList, error) {
	var sessions model.RevisionSessionList
	result := s.getDB(ctx).Preload("Submissions").
		Where("status = ?", status).
		Order("created_at").
		Find(&sessions)
	if result.Error != nil {
		return nil, fmt.Errorf("querying revision sessions: %w", result.Error)
	}
	return sessions, nil
}

func (s *RevisionSessionStore) ListBySyllabus(ctx context.Context, syllabusVersionID uuid.UUID, terminal bool) (model.RevisionSessionList, error) {
	tx := s.getDB(ctx).Preload("Submissions").Where("syllabus_version_id = ?", syllabusVersionID)
	if terminal {
		tx = tx.Where("status = ?", model.RevisionStatusRepublished)
	} else {
		tx = tx.Where("status <> ?", model.RevisionStatusRepublished)
	}

	var sessions model.RevisionSessionList
	result := tx.Order("created_at DESC").Find(&sessions)
	if result.Error != nil {
		return nil, fmt.Errorf("querying revision sessions: %w", result.Error)
	}
	return sessions, nil
}

func (s *RevisionSessionStore) AddSubmission(ctx context.Context, submission model.RevisionSubmission) error {
	if err := s.getDB(ctx).Create(&submission).Error; err != nil {
		return fmt.Errorf("recording revision submission: %w", err)
	}
	return nil
}

func (s *RevisionSessionStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db
}
