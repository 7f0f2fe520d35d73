package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Rule categories for automated call evaluation.
const (
	RuleTypeScriptCompliance     = "script_compliance"
	RuleTypeCommunicationQuality = "communication_quality"
	RuleTypeInformationAccuracy  = "information_accuracy"
	RuleTypeBusinessProcedures   = "business_procedures"
	RuleTypeEmotionalAnalysis    = "emotional_analysis"
)

// ValidRuleTypes lists every accepted rule type.
var ValidRuleTypes = []string{
	RuleTypeScriptCompliance,
	RuleTypeCommunicationQuality,
	RuleTypeInformationAccuracy,
	RuleTypeBusinessProcedures,
	RuleTypeEmotionalAnalysis,
}

// IsValidRuleType reports whether t is a known rule type.
func IsValidRuleType(t string) bool {
	for _, v := range ValidRuleTypes {
		if v == t {
			return true
		}
	}
	return false
}

type EvaluationRule struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CompanyID   string         `gorm:"type:uuid;not null;index" json:"company_id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	RuleType    string         `gorm:"not null" json:"rule_type"`
	Weight      int            `gorm:"not null;default:5" json:"weight"` // 1 to 10
	IsCritical  bool           `gorm:"not null;default:false" json:"is_critical"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	Criteria    datatypes.JSON `json:"criteria"`

	// Relationships
	Company Company `gorm:"foreignKey:CompanyID" json:"-"`
}

// BeforeCreate hook to generate UUID
func (r *EvaluationRule) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for EvaluationRule model
func (EvaluationRule) TableName() string {
	return "evaluation_rules"
}
