package store

import (
	"context"

	"gorm.io/gorm"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Syllabus() Syllabus
	WorkflowStep() WorkflowStep
	ApprovalHistory() ApprovalHistory
	RevisionSession() RevisionSession
	TaskStatus() TaskStatus
	InitialMigration() error
	Ping(ctx context.Context) error
	Close() error
}

type DataStore struct {
	db              *gorm.DB
	syllabus        Syllabus
	workflowStep    WorkflowStep
	approvalHistory ApprovalHistory
	revisionSession RevisionSession
	taskStatus      TaskStatus
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:              db,
		syllabus:        NewSyllabusStore(db),
		workflowStep:    NewWorkflowStepStore(db),
		approvalHistory: NewApprovalHistoryStore(db),
		revisionSession: NewRevisionSessionStore(db),
		taskStatus:      NewTaskStatusStore(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Syllabus() Syllabus {
	return s.syllabus
}

func (s *DataStore) WorkflowStep() WorkflowStep {
	return s.workflowStep
}

func (s *DataStore) ApprovalHistory() ApprovalHistory {
	return s.approvalHistory
}

func (s *DataStore) RevisionSession() RevisionSession {
	return s.revisionSession
}

func (s *DataStore) TaskStatus() TaskStatus {
	return s.taskStatus
}

func (s *DataStore) InitialMigration() error {
	for _, m := range []interface{ InitialMigration() error }{
		s.syllabus,
		s.workflowStep,
		s.approvalHistory,
		s.revisionSession,
		s.taskStatus,
	} {
		if err := m.InitialMigration(); err != nil {
			return err
		}
	}
	return nil
}

func (s *DataStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
