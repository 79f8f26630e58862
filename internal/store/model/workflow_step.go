package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Statuses of a workflow step.
const (
	StepStatusPending   string = "PENDING"
	StepStatusActive    string = "ACTIVE"
	StepStatusApproved  string = "APPROVED"
	StepStatusRejected  string = "REJECTED"
	StepStatusCancelled string = "CANCELLED"
)

// Decisions an approver can take on a step.
const (
	DecisionApprove string = "APPROVE"
	DecisionReject  string = "REJECT"
)

// WorkflowStep is one role-gated checkpoint in the ordered approval chain of
// a syllabus version. Steps are never deleted, only cancelled, so a document
// can carry several fully resolved chains from earlier review rounds.
// Uniqueness of (syllabus_version_id, step_order) is enforced only across
// open steps, by a partial index created in the store's migration.
type WorkflowStep struct {
	ID                uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt         time.Time `gorm:"not null;default:now()"`
	SyllabusVersionID uuid.UUID `gorm:"not null;index:workflow_steps_version_idx"`
	StepOrder         int       `gorm:"not null"`
	RequiredRole      string    `gorm:"not null;type:VARCHAR(100)"`
	AssignedApprover  *string   `gorm:"type:VARCHAR(255)"`
	Status            string    `gorm:"not null;type:VARCHAR(32)"`
	Comment           *string
	CompletedAt       *time.Time
}

type WorkflowStepList []WorkflowStep

func (s WorkflowStep) String() string {
	val, _ := json.Marshal(s)
	return string(val)
}
