package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CallEvaluation is the per-rule breakdown of a call's analysis.
// Written by the external pipeline, read-only here.
type CallEvaluation struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CallID      string         `gorm:"type:uuid;not null;index" json:"call_id"`
	RuleID      string         `gorm:"type:uuid;not null;index" json:"rule_id"`
	Score       float64        `gorm:"not null" json:"score"`
	AIReasoning string         `gorm:"type:text" json:"ai_reasoning"`
	Comments    string         `gorm:"type:text" json:"comments"`
	Examples    datatypes.JSON `json:"examples"` // JSON list of transcript snippets

	// Relationships
	Call Call           `gorm:"foreignKey:CallID" json:"-"`
	Rule EvaluationRule `gorm:"foreignKey:RuleID" json:"rule,omitempty"`
}

// BeforeCreate hook to generate UUID
func (e *CallEvaluation) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for CallEvaluation model
func (CallEvaluation) TableName() string {
	return "call_evaluations"
}
