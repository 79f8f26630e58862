package service

import (
	"fmt"

	"github.com/google/uuid"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id uuid.UUID, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrSyllabusNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "syllabus version")
}

func NewErrRevisionSessionNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "revision session")
}

func NewErrTaskNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "task")
}

// ErrNoActiveStep is returned when a decision arrives for a document whose
// workflow is already fully resolved or cancelled.
type ErrNoActiveStep struct {
	error
}

func NewErrNoActiveStep(syllabusID uuid.UUID) *ErrNoActiveStep {
	return &ErrNoActiveStep{fmt.Errorf("no active workflow step for syllabus version %s", syllabusID)}
}

type ErrAlreadyInReview struct {
	error
}

func NewErrAlreadyInReview(syllabusID uuid.UUID) *ErrAlreadyInReview {
	return &ErrAlreadyInReview{fmt.Errorf("syllabus version %s already has an approval workflow in progress", syllabusID)}
}

type ErrRoleMismatch struct {
	error
}

func NewErrRoleMismatch(requiredRole, actingRole string) *ErrRoleMismatch {
	return &ErrRoleMismatch{fmt.Errorf("step requires role %s but actor holds role %s", requiredRole, actingRole)}
}

// ErrAlreadyResolved protects against double-submission: the step left ACTIVE
// between the caller's read and its write.
type ErrAlreadyResolved struct {
	error
}

func NewErrAlreadyResolved(stepOrder int) *ErrAlreadyResolved {
	return &ErrAlreadyResolved{fmt.Errorf("workflow step %d is already resolved", stepOrder)}
}

type ErrInvalidState struct {
	error
}

func NewErrInvalidState(operation, status string) *ErrInvalidState {
	return &ErrInvalidState{fmt.Errorf("%s is not allowed while the session is %s", operation, status)}
}

type ErrNotAssignee struct {
	error
}

func NewErrNotAssignee(sessionID uuid.UUID, lecturerID string) *ErrNotAssignee {
	return &ErrNotAssignee{fmt.Errorf("lecturer %s is not assigned to revision session %s", lecturerID, sessionID)}
}

type ErrDocumentNotPublished struct {
	error
}

func NewErrDocumentNotPublished(syllabusID uuid.UUID, status string) *ErrDocumentNotPublished {
	return &ErrDocumentNotPublished{fmt.Errorf("syllabus version %s is %s, revisions require a published document", syllabusID, status)}
}

type ErrRevisionAlreadyActive struct {
	error
}

func NewErrRevisionAlreadyActive(syllabusID uuid.UUID) *ErrRevisionAlreadyActive {
	return &ErrRevisionAlreadyActive{fmt.Errorf("syllabus version %s already has an active revision session", syllabusID)}
}

type ErrSyllabusVersionExists struct {
	error
}

func NewErrSyllabusVersionExists(code string, version int) *ErrSyllabusVersionExists {
	return &ErrSyllabusVersionExists{fmt.Errorf("syllabus %s version %d already exists", code, version)}
}

type ErrBadRequest struct {
	error
}

func NewErrBadRequest(message string) *ErrBadRequest {
	return &ErrBadRequest{fmt.Errorf("bad request: %s", message)}
}
