package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ApprovalHistoryEntry is an immutable record of one decision. Rows are only
// ever inserted, in the same transaction as the step transition that caused
// them.
type ApprovalHistoryEntry struct {
	ID                uuid.UUID `gorm:"primaryKey;"`
	CreatedAt         time.Time `gorm:"not null;default:now();index:approval_history_created_idx"`
	SyllabusVersionID uuid.UUID `gorm:"not null;index:approval_history_version_idx"`
	UserID            string    `gorm:"not null;type:VARCHAR(255)"`
	StepOrder         *int
	Role              string `gorm:"not null;type:VARCHAR(100)"`
	Decision          string `gorm:"not null;type:VARCHAR(32)"`
	Comment           *string
	BatchID           *uuid.UUID `gorm:"index:approval_history_batch_idx"`
}

type ApprovalHistoryList []ApprovalHistoryEntry

func (e ApprovalHistoryEntry) String() string {
	val, _ := json.Marshal(e)
	return string(val)
}
