// Package v1alpha1 contains the wire types of the syllabus-planner REST API.
package v1alpha1

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Syllabus lifecycle statuses.
const (
	SyllabusStatusDraft     string = "DRAFT"
	SyllabusStatusInReview  string = "IN_REVIEW"
	SyllabusStatusPublished string = "PUBLISHED"
	SyllabusStatusRejected  string = "REJECTED"
)

// Workflow step statuses.
const (
	StepStatusPending   string = "PENDING"
	StepStatusActive    string = "ACTIVE"
	StepStatusApproved  string = "APPROVED"
	StepStatusRejected  string = "REJECTED"
	StepStatusCancelled string = "CANCELLED"
)

// Decisions on a workflow step or an approval-history entry.
const (
	DecisionApprove string = "APPROVE"
	DecisionReject  string = "REJECT"
)

// Revision session statuses.
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

// Async task states.
const (
	TaskStatusQueued     string = "QUEUED"
	TaskStatusProcessing string = "PROCESSING"
	TaskStatusSuccess    string = "SUCCESS"
	TaskStatusError      string = "ERROR"
)

type Error struct {
	Message   string  `json:"message"`
	RequestId *string `json:"request_id,omitempty"`
}

type SyllabusCreate struct {
	Code          string `json:"code" validate:"required,syllabus_code"`
	Title         string `json:"title" validate:"required,min=1,max=255"`
	Version       int    `json:"version,omitempty"`
	OwnerLecturer string `json:"ownerLecturer,omitempty"`
}

type Syllabus struct {
	Id            uuid.UUID `json:"id"`
	Code          string    `json:"code"`
	Title         string    `json:"title"`
	Version       int       `json:"version"`
	OwnerLecturer string    `json:"ownerLecturer"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type SyllabusList []Syllabus

type WorkflowCreate struct {
	RoleChain []string `json:"roleChain" validate:"required,min=1,dive,approver_role"`
}

type WorkflowDecision struct {
	Decision string  `json:"decision" validate:"required,decision"`
	Comment  *string `json:"comment,omitempty"`
}

type WorkflowStep struct {
	Id                uint       `json:"id"`
	SyllabusVersionId uuid.UUID  `json:"syllabusVersionId"`
	StepOrder         int        `json:"stepOrder"`
	RequiredRole      string     `json:"requiredRole"`
	AssignedApprover  *string    `json:"assignedApprover,omitempty"`
	Status            string     `json:"status"`
	Comment           *string    `json:"comment,omitempty"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
}

type WorkflowStepList []WorkflowStep

type ApprovalHistoryCreate struct {
	SyllabusVersionId uuid.UUID  `json:"syllabusVersionId" validate:"required"`
	Action            string     `json:"action" validate:"required,decision"`
	Comment           *string    `json:"comment,omitempty"`
	BatchId           *uuid.UUID `json:"batchId,omitempty"`
}

type ApprovalHistoryEntry struct {
	Id                uuid.UUID  `json:"id"`
	SyllabusVersionId uuid.UUID  `json:"syllabusVersionId"`
	UserId            string     `json:"userId"`
	StepOrder         *int       `json:"stepOrder,omitempty"`
	Role              string     `json:"role"`
	Decision          string     `json:"decision"`
	Comment           *string    `json:"comment,omitempty"`
	BatchId           *uuid.UUID `json:"batchId,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

type ApprovalHistoryList []ApprovalHistoryEntry

type RevisionStart struct {
	SyllabusVersionId  uuid.UUID   `json:"syllabusVersionId" validate:"required"`
	FeedbackIds        []uuid.UUID `json:"feedbackIds,omitempty"`
	Description        string      `json:"description" validate:"max=2000"`
	AssignedLecturerId *string     `json:"assignedLecturerId,omitempty"`
}

type RevisionSubmit struct {
	RevisionSessionId uuid.UUID `json:"revisionSessionId" validate:"required"`
	Summary           string    `json:"summary" validate:"required,max=2000"`
}

type RevisionReview struct {
	RevisionSessionId uuid.UUID `json:"revisionSessionId" validate:"required"`
	Decision          string    `json:"decision" validate:"required,review_decision"`
	Comment           *string   `json:"comment,omitempty"`
}

type RevisionSubmission struct {
	LecturerId  string    `json:"lecturerId"`
	Summary     string    `json:"summary"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type RevisionSession struct {
	Id                uuid.UUID            `json:"id"`
	SyllabusVersionId uuid.UUID            `json:"syllabusVersionId"`
	Status            string               `json:"status"`
	Description       string               `json:"description,omitempty"`
	InitiatedBy       string               `json:"initiatedBy"`
	AssignedLecturer  string               `json:"assignedLecturer"`
	FeedbackIds       []uuid.UUID          `json:"feedbackIds,omitempty"`
	ReviewerDecision  *string              `json:"reviewerDecision,omitempty"`
	ReviewerComment   *string              `json:"reviewerComment,omitempty"`
	Submissions       []RevisionSubmission `json:"submissions,omitempty"`
	CreatedAt         time.Time            `json:"createdAt"`
	AssignedAt        *time.Time           `json:"assignedAt,omitempty"`
	SubmittedAt       *time.Time           `json:"submittedAt,omitempty"`
	ReviewedAt        *time.Time           `json:"reviewedAt,omitempty"`
	RepublishedAt     *time.Time           `json:"republishedAt,omitempty"`
}

type RevisionSessionList []RevisionSession

type CompareSyllabiRequest struct {
	LeftSyllabusId  uuid.UUID `json:"leftSyllabusId" validate:"required"`
	RightSyllabusId uuid.UUID `json:"rightSyllabusId" validate:"required"`
}

// TaskAccepted is the 202 body returned by the async analysis endpoints.
type TaskAccepted struct {
	TaskId  uuid.UUID `json:"task_id"`
	Status  string    `json:"status"`
	PollUrl string    `json:"poll_url"`
}

type TaskStatus struct {
	TaskId       uuid.UUID       `json:"task_id"`
	Action       string          `json:"action"`
	Status       string          `json:"status"`
	Progress     int             `json:"progress"`
	Result       json.RawMessage `json:"result,omitempty"`
	ErrorMessage *string         `json:"error_message,omitempty"`
	SubmittedBy  string          `json:"submitted_by"`
	CreatedAt    time.Time       `json:"created_at"`
}
