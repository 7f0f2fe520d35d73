package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Call processing pipeline statuses.
const (
	CallStatusPending      = "pending"
	CallStatusTranscribing = "transcribing"
	CallStatusAnalyzing    = "analyzing"
	CallStatusCompleted    = "completed"
	CallStatusFailed       = "failed"
)

type Call struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CompanyID   string            `gorm:"type:uuid;not null;index" json:"company_id"`
	AgentID     *string           `gorm:"type:uuid;index" json:"agent_id"` // Nullable until the agent is identified
	PhoneNumber string            `json:"phone_number"`
	AudioURL    string            `json:"audio_url"`
	StorageKey  string            `json:"storage_key"`
	Duration    *int              `json:"duration"` // Seconds; nil when unknown
	Status      string            `gorm:"not null;default:pending;index" json:"status"`
	CallDate    time.Time         `gorm:"not null" json:"call_date"`
	Transcript  string            `gorm:"type:text" json:"transcript"`
	Metadata    datatypes.JSONMap `json:"metadata"`

	// Relationships
	Company     Company          `gorm:"foreignKey:CompanyID" json:"-"`
	Agent       *Profile         `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
	Score       *CallScore       `gorm:"foreignKey:CallID" json:"score,omitempty"`
	Evaluations []CallEvaluation `gorm:"foreignKey:CallID" json:"evaluations,omitempty"`
	Tags        []CallTag        `gorm:"foreignKey:CallID" json:"tags,omitempty"`
}

// BeforeCreate hook to generate UUID and stamp the call date
func (c *Call) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CallDate.IsZero() {
		c.CallDate = time.Now()
	}
	return nil
}

// TableName specifies the table name for Call model
func (Call) TableName() string {
	return "calls"
}

// FormatDuration renders seconds as "m:ss". Unknown durations render
// as the placeholder shown in call listings.
func FormatDuration(seconds *int) string {
	if seconds == nil || *seconds == 0 {
		return "Неизвестно"
	}
	return fmt.Sprintf("%d:%02d", *seconds/60, *seconds%60)
}

// ScoreBadgeVariant maps an overall score to the badge style used in
// listings: 80 and above is fine, 60 and above needs attention, below
// that is a problem call.
func ScoreBadgeVariant(score float64) string {
	switch {
	case score >= 80:
		return "default"
	case score >= 60:
		return "secondary"
	default:
		return "destructive"
	}
}
