package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CallTag struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	CallID     string   `gorm:"type:uuid;not null;index" json:"call_id"`
	Tag        string   `gorm:"not null" json:"tag"`
	Confidence *float64 `json:"confidence"`

	// Relationships
	Call Call `gorm:"foreignKey:CallID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (t *CallTag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for CallTag model
func (CallTag) TableName() string {
	return "call_tags"
}
