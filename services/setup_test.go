package services

import (
	"testing"

	"call_quality_app_go/models"

	"github.com/stretchr/testify/assert"
)

func TestEnsureTables(t *testing.T) {
	testDB := setupServiceDB(t)

	t.Run("known tables migrate", func(t *testing.T) {
		err := EnsureTables(testDB, []string{"companies", "calls"})
		assert.NoError(t, err)
		assert.True(t, testDB.Migrator().HasTable("companies"))
		assert.True(t, testDB.Migrator().HasTable("calls"))
	})

	t.Run("unknown table names are rejected", func(t *testing.T) {
		err := EnsureTables(testDB, []string{"companies; DROP TABLE profiles"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown table")
	})
}

func TestGetTableStatuses(t *testing.T) {
	testDB := setupServiceDB(t)

	statuses := GetTableStatuses(testDB)
	assert.Len(t, statuses, len(SetupTableNames))
	for _, status := range statuses {
		assert.True(t, status.Exists, "table %s should exist after migration", status.Name)
	}
}

func TestCreateAdminAccount(t *testing.T) {
	testDB := setupServiceDB(t)

	t.Run("creates admin with company and defaults", func(t *testing.T) {
		admin, err := CreateAdminAccount(testDB, AdminSetupInput{
			Email:       "admin@example.com",
			Password:    "supersecret",
			FirstName:   "Админ",
			CompanyName: "ООО Ромашка",
		})
		assert.NoError(t, err)
		assert.Equal(t, models.RolePlatformAdmin, admin.Role)
		assert.NotNil(t, admin.CompanyID)

		var company models.Company
		assert.NoError(t, testDB.First(&company, "id = ?", *admin.CompanyID).Error)
		assert.Equal(t, "ООО Ромашка", company.Name)
		assert.Contains(t, company.Settings, "ai")
		assert.Contains(t, company.Settings, "general")

		assert.True(t, IsSetupComplete(testDB))
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		_, err := CreateAdminAccount(testDB, AdminSetupInput{
			Email:    "admin@example.com",
			Password: "supersecret",
		})
		assert.Error(t, err)
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		_, err := CreateAdminAccount(testDB, AdminSetupInput{
			Email:    "second@example.com",
			Password: "short",
		})
		assert.Error(t, err)
	})
}

func TestMarkSetupComplete(t *testing.T) {
	testDB := setupServiceDB(t)
	company := createCallTestCompany(t, testDB)

	assert.NoError(t, MarkSetupComplete(testDB, company.ID))

	var reloaded models.Company
	assert.NoError(t, testDB.First(&reloaded, "id = ?", company.ID).Error)
	assert.Equal(t, true, reloaded.Settings["setup_completed"])
	assert.NotEmpty(t, reloaded.Settings["setup_date"])

	t.Run("unknown company errors", func(t *testing.T) {
		assert.Error(t, MarkSetupComplete(testDB, "nope"))
	})
}

func TestSaveAIProviderSettings(t *testing.T) {
	testDB := setupServiceDB(t)
	company := createCallTestCompany(t, testDB)

	assert.NoError(t, SaveAIProviderSettings(testDB, company.ID, "openai", "https://api.openai.com/v1", "gpt-4o-mini"))

	var reloaded models.Company
	assert.NoError(t, testDB.First(&reloaded, "id = ?", company.ID).Error)
	assert.Equal(t, "openai", reloaded.Settings["ai_provider"])
	assert.Equal(t, "gpt-4o-mini", reloaded.Settings["ai_model"])
	assert.Equal(t, true, reloaded.Settings["ai_configured"])

	t.Run("unknown company errors", func(t *testing.T) {
		assert.Error(t, SaveAIProviderSettings(testDB, "nope", "openai", "", ""))
	})
}
