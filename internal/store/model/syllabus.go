package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Lifecycle statuses of a syllabus version.
const (
	SyllabusStatusDraft     string = "DRAFT"
	SyllabusStatusInReview  string = "IN_REVIEW"
	SyllabusStatusPublished string = "PUBLISHED"
	SyllabusStatusRejected  string = "REJECTED"
)

type SyllabusVersion struct {
	ID            uuid.UUID `gorm:"primaryKey;"`
	CreatedAt     time.Time `gorm:"not null;default:now()"`
	UpdatedAt     time.Time
	Code          string `gorm:"uniqueIndex:syllabus_versions_code_version;not null;type:VARCHAR(100)"`
	Version       int    `gorm:"uniqueIndex:syllabus_versions_code_version;not null;default:1"`
	Title         string `gorm:"not null"`
	OwnerLecturer string `gorm:"not null;type:VARCHAR(255)"`
	OrgID         string `gorm:"index:syllabus_versions_org_id_idx;type:VARCHAR(255)"`
	Status        string `gorm:"not null;type:VARCHAR(32);default:'DRAFT'"`

	Steps    []WorkflowStep    `gorm:"foreignKey:SyllabusVersionID;references:ID;constraint:OnDelete:CASCADE;"`
	Sessions []RevisionSession `gorm:"foreignKey:SyllabusVersionID;references:ID;constraint:OnDelete:CASCADE;"`
}

type SyllabusVersionList []SyllabusVersion

func (s SyllabusVersion) String() string {
	val, _ := json.Marshal(s)
	return string(val)
}
