package services

import (
	"fmt"
	"time"

	"call_quality_app_go/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// setupTables maps the table names the setup wizard may create to
// their models. Migration requests for any other name are rejected, so
// the wizard can never run arbitrary DDL.
var setupTables = map[string]interface{}{
	"companies":        &models.Company{},
	"profiles":         &models.Profile{},
	"sessions":         &models.Session{},
	"calls":            &models.Call{},
	"call_scores":      &models.CallScore{},
	"call_evaluations": &models.CallEvaluation{},
	"call_tags":        &models.CallTag{},
	"evaluation_rules": &models.EvaluationRule{},
	"knowledge_base":   &models.KnowledgeArticle{},
}

// SetupTableNames lists the tables the wizard manages, in creation order.
var SetupTableNames = []string{
	"companies",
	"profiles",
	"sessions",
	"calls",
	"call_scores",
	"call_evaluations",
	"call_tags",
	"evaluation_rules",
	"knowledge_base",
}

// TableStatus reports whether one managed table exists.
type TableStatus struct {
	Name   string `json:"name"`
	Exists bool   `json:"exists"`
}

// TestDatabaseConnection verifies the database answers queries.
func TestDatabaseConnection(db *gorm.DB) error {
	var one int
	if err := db.Raw("SELECT 1").Scan(&one).Error; err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}
	return nil
}

// GetTableStatuses reports which managed tables already exist.
func GetTableStatuses(db *gorm.DB) []TableStatus {
	statuses := make([]TableStatus, 0, len(SetupTableNames))
	for _, name := range SetupTableNames {
		statuses = append(statuses, TableStatus{
			Name:   name,
			Exists: db.Migrator().HasTable(name),
		})
	}
	return statuses
}

// EnsureTables migrates the requested tables. Unknown table names are
// rejected before anything runs.
func EnsureTables(db *gorm.DB, names []string) error {
	targets := make([]interface{}, 0, len(names))
	for _, name := range names {
		model, ok := setupTables[name]
		if !ok {
			return fmt.Errorf("unknown table: %s", name)
		}
		targets = append(targets, model)
	}

	if err := db.AutoMigrate(targets...); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// IsSetupComplete reports whether initial setup has finished. Setup is
// done once a platform admin account exists.
func IsSetupComplete(db *gorm.DB) bool {
	if !db.Migrator().HasTable("profiles") {
		return false
	}
	var count int64
	db.Model(&models.Profile{}).Where("role = ?", models.RolePlatformAdmin).Count(&count)
	return count > 0
}

// AdminSetupInput describes the first admin account and its company.
type AdminSetupInput struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	CompanyName string // Optional; admins may run without a company
}

// CreateAdminAccount creates the initial platform admin, optionally
// together with the first company.
func CreateAdminAccount(db *gorm.DB, input AdminSetupInput) (*models.Profile, error) {
	if input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("email and password are required")
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	var admin *models.Profile
	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		tx.Model(&models.Profile{}).Where("email = ?", input.Email).Count(&count)
		if count > 0 {
			return fmt.Errorf("a user with this email already exists")
		}

		admin = &models.Profile{
			Email:     input.Email,
			Password:  hash,
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Role:      models.RolePlatformAdmin,
			IsActive:  true,
		}

		if input.CompanyName != "" {
			company := &models.Company{
				Name: input.CompanyName,
				Settings: datatypes.JSONMap{
					"ai":      models.DefaultAISettings(),
					"general": models.DefaultGeneralSettings(),
				},
			}
			if err := tx.Create(company).Error; err != nil {
				return fmt.Errorf("failed to create company: %w", err)
			}
			admin.CompanyID = &company.ID
		}

		if err := tx.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return admin, nil
}

// SaveAIProviderSettings stores the verified provider configuration in
// the company settings. The API key is deliberately not persisted.
func SaveAIProviderSettings(db *gorm.DB, companyID, provider, endpoint, model string) error {
	var company models.Company
	if err := db.First(&company, "id = ?", companyID).Error; err != nil {
		return fmt.Errorf("company not found: %w", err)
	}

	company.Settings = ApplySettingsUpdate(company.Settings, map[string]interface{}{
		"ai_provider":   provider,
		"ai_endpoint":   endpoint,
		"ai_model":      model,
		"ai_configured": true,
	})

	if err := db.Model(&company).Update("settings", company.Settings).Error; err != nil {
		return fmt.Errorf("failed to save provider settings: %w", err)
	}
	return nil
}

// MarkSetupComplete stamps the company settings with the completion marker.
func MarkSetupComplete(db *gorm.DB, companyID string) error {
	var company models.Company
	if err := db.First(&company, "id = ?", companyID).Error; err != nil {
		return fmt.Errorf("company not found: %w", err)
	}

	if company.Settings == nil {
		company.Settings = datatypes.JSONMap{}
	}
	company.Settings["setup_completed"] = true
	company.Settings["setup_date"] = time.Now().Format(time.RFC3339)

	if err := db.Model(&company).Update("settings", company.Settings).Error; err != nil {
		return fmt.Errorf("failed to mark setup complete: %w", err)
	}
	return nil
}
