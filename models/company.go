package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Company struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string            `gorm:"not null" json:"name"`
	Description string            `gorm:"type:text" json:"description"`
	Settings    datatypes.JSONMap `json:"settings"`

	// Relationships
	Profiles []Profile `gorm:"foreignKey:CompanyID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (c *Company) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for Company model
func (Company) TableName() string {
	return "companies"
}

// DefaultAISettings returns the baseline AI configuration for a new company.
func DefaultAISettings() map[string]interface{} {
	return map[string]interface{}{
		"model":                "gpt-4o-mini",
		"temperature":          0.7,
		"max_tokens":           1000,
		"system_prompt":        "",
		"evaluation_enabled":   true,
		"auto_scoring":         true,
		"confidence_threshold": 0.8,
	}
}

// DefaultGeneralSettings returns the baseline general configuration for a new company.
func DefaultGeneralSettings() map[string]interface{} {
	return map[string]interface{}{
		"timezone":              "Europe/Moscow",
		"language":              "ru",
		"currency":              "RUB",
		"business_hours_start":  "09:00",
		"business_hours_end":    "18:00",
		"notifications_enabled": true,
		"email_reports":         true,
	}
}
