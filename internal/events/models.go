package events

// WorkflowDecisionEvent is emitted after a step decision committed.
type WorkflowDecisionEvent struct {
	SyllabusVersionID string `json:"syllabus_version_id"`
	StepOrder         int    `json:"step_order"`
	Role              string `json:"role"`
	UserID            string `json:"user_id"`
	Decision          string `json:"decision"`
	DocumentStatus    string `json:"document_status"`
}

// RevisionEvent is emitted after a revision session transition committed.
type RevisionEvent struct {
	SessionID         string `json:"session_id"`
	SyllabusVersionID string `json:"syllabus_version_id"`
	Status            string `json:"status"`
	ActorID           string `json:"actor_id"`
}

// AuditEvent carries a generic audit-trail record.
type AuditEvent struct {
	Action            string `json:"action"`
	SyllabusVersionID string `json:"syllabus_version_id,omitempty"`
	UserID            string `json:"user_id"`
	Detail            string `json:"detail,omitempty"`
}
