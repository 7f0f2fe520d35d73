package handlers

import (
	"io"
	"net/http/httptest"
	"testing"

	"call_quality_app_go/config"
	"call_quality_app_go/db"
	"call_quality_app_go/middleware"
	"call_quality_app_go/models"
	"call_quality_app_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.Exec("PRAGMA journal_mode=WAL;").Error
	assert.NoError(t, err)

	// Initialize Storage for tests if not already set
	if services.Storage == nil {
		services.Storage = services.NewLocalStorage("tmp/test_uploads")
	}

	err = testDB.AutoMigrate(
		&models.Company{},
		&models.Profile{},
		&models.Session{},
		&models.Call{},
		&models.CallScore{},
		&models.CallEvaluation{},
		&models.CallTag{},
		&models.EvaluationRule{},
		&models.KnowledgeArticle{},
	)
	assert.NoError(t, err)

	// Set global DB
	db.DB = testDB

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment: "test",
	})

	return e, c, rec
}

// createTestCompany inserts a company with default settings
func createTestCompany(t *testing.T, testDB *gorm.DB, name string) *models.Company {
	company := &models.Company{
		Name: name,
		Settings: datatypes.JSONMap{
			"ai":      models.DefaultAISettings(),
			"general": models.DefaultGeneralSettings(),
		},
	}
	err := testDB.Create(company).Error
	assert.NoError(t, err)
	return company
}

// createTestUser inserts an active profile with the given role
func createTestUser(t *testing.T, testDB *gorm.DB, email, role string, companyID *string) *models.Profile {
	hash, err := services.HashPassword("password123")
	assert.NoError(t, err)

	user := &models.Profile{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  hash,
		Role:      role,
		CompanyID: companyID,
		IsActive:  true,
	}
	err = testDB.Create(user).Error
	assert.NoError(t, err)
	return user
}

// asUser attaches an authenticated user to the echo context the same
// way RequireAuth does
func asUser(c echo.Context, user *models.Profile, company *models.Company) {
	c.Set(middleware.ContextKeyUser, user)
	c.Set(middleware.ContextKeyCompany, company)
}

func stringToPtr(s string) *string {
	return &s
}

func intToPtr(i int) *int {
	return &i
}
