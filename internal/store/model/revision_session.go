package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Statuses of a revision session.
const (
	RevisionStatusInitiated   string = "INITIATED"
	RevisionStatusAssigned    string = "ASSIGNED"
	RevisionStatusInProgress  string = "IN_PROGRESS"
	RevisionStatusSubmitted   string = "SUBMITTED"
	RevisionStatusApproved    string = "APPROVED"
	RevisionStatusRejected    string = "REJECTED"
	RevisionStatusRepublished string = "REPUBLISHED"
)

// Reviewer decisions on a submitted revision.
const (
	ReviewDecisionApproved string = "APPROVED"
	ReviewDecisionRejected string = "REJECTED"
)

// ActiveGuardValue is stored in active_guard while a session is non-terminal.
// The column is set to NULL when the session reaches REPUBLISHED, so the
// composite unique index (syllabus_version_id, active_guard) admits at most
// one live session per document while terminal sessions accumulate freely.
const ActiveGuardValue string = "active"

type RevisionSession struct {
	ID                uuid.UUID `gorm:"primaryKey;"`
	CreatedAt         time.Time `gorm:"not null;default:now()"`
	UpdatedAt         time.Time
	SyllabusVersionID uuid.UUID `gorm:"not null;uniqueIndex:revision_sessions_active_version;index:revision_sessions_version_idx"`
	ActiveGuard       *string   `gorm:"uniqueIndex:revision_sessions_active_version;type:VARCHAR(10)"`
	Status            string    `gorm:"not null;type:VARCHAR(32)"`
	Description       string
	InitiatedBy       string                  `gorm:"not null;type:VARCHAR(255)"`
	AssignedLecturer  string                  `gorm:"not null;type:VARCHAR(255)"`
	FeedbackIDs       *JSONField[[]uuid.UUID] `gorm:"type:jsonb"`
	ReviewerDecision  *string                 `gorm:"type:VARCHAR(32)"`
	ReviewerComment   *string
	AssignedAt        *time.Time
	SubmittedAt       *time.Time
	ReviewedAt        *time.Time
	RepublishedAt     *time.Time

	Submissions []RevisionSubmission `gorm:"foreignKey:RevisionSessionID;references:ID;constraint:OnDelete:CASCADE;"`
}

// RevisionSubmission records one SUBMITTED transition, so a session that
// loops through reviewer rejections keeps a timestamped trace of every
// submission.
type RevisionSubmission struct {
	ID                uint      `gorm:"primaryKey;autoIncrement"`
	RevisionSessionID uuid.UUID `gorm:"not null;index:revision_submissions_session_idx"`
	LecturerID        string    `gorm:"not null;type:VARCHAR(255)"`
	Summary           string
	SubmittedAt       time.Time `gorm:"not null;default:now()"`
}

type RevisionSessionList []RevisionSession

func (s RevisionSession) String() string {
	val, _ := json.Marshal(s)
	return string(val)
}
