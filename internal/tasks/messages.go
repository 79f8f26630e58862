// Package tasks carries the message-channel contract of the async analysis
// subsystem. The planner publishes request envelopes for an external worker
// and consumes result envelopes on a dedicated result channel; the two paths
// are fully decoupled.
package tasks

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Actions the external worker understands.
const (
	ActionCheckCLOPLO string = "check_clo_plo"
	ActionCompare     string = "compare_syllabi"
	ActionSummarize   string = "summarize_syllabus"
)

// Task priorities. Higher values are picked up first by the worker.
const (
	PriorityLow    int = 0
	PriorityNormal int = 5
	PriorityHigh   int = 9
)

// RequestEnvelope is published to the request topic. The worker reconciles
// its result by message_id, which doubles as the task identifier.
type RequestEnvelope struct {
	MessageID uuid.UUID       `json:"message_id"`
	Action    string          `json:"action"`
	Priority  int             `json:"priority"`
	Timestamp time.Time       `json:"timestamp"`
	UserID    string          `json:"user_id"`
	Payload   json.RawMessage `json:"payload"`
}

// ResultEnvelope is consumed from the result topic. Result is present only on
// SUCCESS, ErrorMessage only on ERROR.
type ResultEnvelope struct {
	MessageID        uuid.UUID       `json:"message_id"`
	Action           string          `json:"action"`
	Status           string          `json:"status"`
	Progress         int             `json:"progress"`
	Result           json.RawMessage `json:"result,omitempty"`
	ErrorMessage     *string         `json:"error_message,omitempty"`
	ProcessingTimeMs int64           `json:"processing_time_ms"`
}
