package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// States of an async analysis task.
const (
	TaskStatusQueued     string = "QUEUED"
	TaskStatusProcessing string = "PROCESSING"
	TaskStatusSuccess    string = "SUCCESS"
	TaskStatusError      string = "ERROR"
)

// TaskStatus is the pollable record of one async analysis task. It is created
// on dispatch and mutated only by result reconciliation.
type TaskStatus struct {
	ID           uuid.UUID `gorm:"primaryKey;"`
	CreatedAt    time.Time `gorm:"not null;default:now()"`
	UpdatedAt    time.Time
	Action       string `gorm:"not null;type:VARCHAR(100)"`
	Status       string `gorm:"not null;type:VARCHAR(32)"`
	Progress     int    `gorm:"not null;default:0"`
	Result       []byte `gorm:"type:jsonb"`
	ErrorMessage *string
	SubmittedBy  string `gorm:"not null;type:VARCHAR(255)"`
}

// IsTerminal reports whether the task reached a final state.
func (t TaskStatus) IsTerminal() bool {
	return t.Status == TaskStatusSuccess || t.Status == TaskStatusError
}

func (t TaskStatus) String() string {
	val, _ := json.Marshal(t)
	return string(val)
}
