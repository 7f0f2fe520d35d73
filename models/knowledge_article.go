package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// KnowledgeCategories lists the fixed article categories, in display order.
var KnowledgeCategories = []string{
	"Скрипты",
	"Процедуры",
	"FAQ",
	"Продукты",
	"Политики",
	"Обучение",
}

// IsValidKnowledgeCategory reports whether c is a known category.
func IsValidKnowledgeCategory(c string) bool {
	for _, v := range KnowledgeCategories {
		if v == c {
			return true
		}
	}
	return false
}

type KnowledgeArticle struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CompanyID string         `gorm:"type:uuid;not null;index" json:"company_id"`
	Title     string         `gorm:"not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	Category  string         `gorm:"not null" json:"category"`
	Tags      datatypes.JSON `json:"tags"` // JSON array of strings
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	AuthorID  *string        `gorm:"type:uuid" json:"author_id"`

	// Relationships
	Company Company  `gorm:"foreignKey:CompanyID" json:"-"`
	Author  *Profile `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// BeforeCreate hook to generate UUID
func (a *KnowledgeArticle) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for KnowledgeArticle model
func (KnowledgeArticle) TableName() string {
	return "knowledge_base"
}

// TagList decodes the stored tags into a slice. A malformed or empty
// value decodes to an empty slice.
func (a *KnowledgeArticle) TagList() []string {
	if len(a.Tags) == 0 {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal(a.Tags, &tags); err != nil {
		return []string{}
	}
	return tags
}

// SetTags encodes the slice into the stored JSON column.
func (a *KnowledgeArticle) SetTags(tags []string) error {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	a.Tags = datatypes.JSON(data)
	return nil
}
