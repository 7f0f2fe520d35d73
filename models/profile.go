package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles, ordered from widest to narrowest access.
const (
	RolePlatformAdmin = "platform_admin"
	RoleClientAdmin   = "client_admin"
	RoleSupervisor    = "supervisor"
	RoleAgent         = "agent"
)

type Profile struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	FirstName   string     `gorm:"not null" json:"first_name"`
	LastName    string     `gorm:"not null" json:"last_name"`
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Phone       string     `json:"phone"`
	Password    string     `gorm:"not null" json:"-"`
	CompanyID   *string    `gorm:"type:uuid;index" json:"company_id"` // Nullable - platform admins have no company
	Role        string     `gorm:"not null;default:agent" json:"role"`
	TeamName    string     `json:"team_name"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`

	FailedLoginAttempts int        `gorm:"not null;default:0" json:"-"`
	LockoutUntil        *time.Time `json:"-"`

	// Relationships
	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// BeforeCreate hook to generate UUID
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// HasCompany checks if the profile has a company assigned
func (p *Profile) HasCompany() bool {
	return p.CompanyID != nil && *p.CompanyID != ""
}

// FullName returns first and last name joined, or the email when both are empty.
func (p *Profile) FullName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.Email
	}
	return name
}

// TableName specifies the table name for Profile model
func (Profile) TableName() string {
	return "profiles"
}
