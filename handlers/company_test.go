package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"call_quality_app_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestGetCompanyHandler(t *testing.T) {
	testDB := setupTestDB(t)

	// Company stored with only a partial AI section
	company := &models.Company{
		Name: "ООО Ромашка",
		Settings: datatypes.JSONMap{
			"ai": map[string]interface{}{"model": "gpt-4o"},
		},
	}
	assert.NoError(t, testDB.Create(company).Error)
	admin := createTestUser(t, testDB, "admin@example.com", models.RoleClientAdmin, &company.ID)

	_, c, rec := setupEcho(http.MethodGet, "/api/company", nil)
	asUser(c, admin, company)

	err := GetCompanyHandler(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Name     string                 `json:"name"`
		Settings map[string]interface{} `json:"settings"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "ООО Ромашка", payload.Name)

	ai := payload.Settings["ai"].(map[string]interface{})
	// Stored value wins, defaults fill the gaps
	assert.Equal(t, "gpt-4o", ai["model"])
	assert.Equal(t, 0.7, ai["temperature"])

	general := payload.Settings["general"].(map[string]interface{})
	assert.Equal(t, "Europe/Moscow", general["timezone"])
}

func TestUpdateCompanyHandler(t *testing.T) {
	testDB := setupTestDB(t)
	company := createTestCompany(t, testDB, "ООО Ромашка")
	admin := createTestUser(t, testDB, "admin2@example.com", models.RoleClientAdmin, &company.ID)

	t.Run("partial settings update keeps other values", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{
			"name": "ООО Ромашка Плюс",
			"settings": map[string]interface{}{
				"general": map[string]interface{}{"timezone": "Asia/Yekaterinburg"},
			},
		})

		_, c, rec := setupEcho(http.MethodPut, "/api/company", bytes.NewReader(body))
		c.Request().Header.Set("Content-Type", "application/json")
		asUser(c, admin, company)

		err := UpdateCompanyHandler(c)
		assert.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)

		var reloaded models.Company
		assert.NoError(t, testDB.First(&reloaded, "id = ?", company.ID).Error)
		assert.Equal(t, "ООО Ромашка Плюс", reloaded.Name)

		general := reloaded.Settings["general"].(map[string]interface{})
		assert.Equal(t, "Asia/Yekaterinburg", general["timezone"])
		assert.Equal(t, "ru", general["language"])
	})

	t.Run("description can be set and cleared", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{"description": "Контакт-центр сети магазинов"})

		_, c, _ := setupEcho(http.MethodPut, "/api/company", bytes.NewReader(body))
		c.Request().Header.Set("Content-Type", "application/json")
		asUser(c, admin, company)

		assert.NoError(t, UpdateCompanyHandler(c))

		var reloaded models.Company
		assert.NoError(t, testDB.First(&reloaded, "id = ?", company.ID).Error)
		assert.Equal(t, "Контакт-центр сети магазинов", reloaded.Description)
	})

	t.Run("blank name is ignored", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{"name": "  "})

		_, c, _ := setupEcho(http.MethodPut, "/api/company", bytes.NewReader(body))
		c.Request().Header.Set("Content-Type", "application/json")
		asUser(c, admin, company)

		assert.NoError(t, UpdateCompanyHandler(c))

		var reloaded models.Company
		assert.NoError(t, testDB.First(&reloaded, "id = ?", company.ID).Error)
		assert.Equal(t, "ООО Ромашка Плюс", reloaded.Name)
	})
}
