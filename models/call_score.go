package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Analysis lifecycle statuses for a call score.
const (
	EvaluationStatusPending    = "pending"
	EvaluationStatusInProgress = "in_progress"
	EvaluationStatusCompleted  = "completed"
	EvaluationStatusFailed     = "failed"
)

// CallScore is the overall analysis result for a call. Rows are written
// by the external analysis pipeline; this service only reads them.
type CallScore struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CallID          string         `gorm:"type:uuid;not null;uniqueIndex" json:"call_id"`
	TotalScore      float64        `gorm:"not null" json:"total_score"`
	CriticalFails   int            `json:"critical_fails"`
	AISummary       string         `gorm:"type:text" json:"ai_summary"`
	Recommendations datatypes.JSON `json:"recommendations"` // JSON list of strings
	Status          string         `gorm:"default:pending" json:"status"`

	// Relationships
	Call Call `gorm:"foreignKey:CallID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (s *CallScore) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for CallScore model
func (CallScore) TableName() string {
	return "call_scores"
}
