package handlers

import (
	"net/http"

	"call_quality_app_go/config"
	"call_quality_app_go/db"
	"call_quality_app_go/middleware"
	"call_quality_app_go/models"
	"call_quality_app_go/services"

	"github.com/labstack/echo/v4"
)

// RequireSetupIncomplete blocks mutating setup endpoints once the
// initial admin exists. The wizard runs exactly once.
func RequireSetupIncomplete(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if services.IsSetupComplete(db.DB) {
			return echo.NewHTTPError(http.StatusForbidden, "Setup has already been completed")
		}
		return next(c)
	}
}

// SetupStatusHandler reports setup progress
func SetupStatusHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"complete": services.IsSetupComplete(db.DB),
		"tables":   services.GetTableStatuses(db.DB),
	})
}

// SetupDBTestHandler verifies database connectivity
func SetupDBTestHandler(c echo.Context) error {
	if err := services.TestDatabaseConnection(db.DB); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type setupTablesRequest struct {
	Tables []string `json:"tables"`
}

// SetupTablesHandler creates the application tables. Only the known
// schema tables can be requested; nothing else will run.
func SetupTablesHandler(c echo.Context) error {
	var req setupTablesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	tables := req.Tables
	if len(tables) == 0 {
		tables = services.SetupTableNames
	}

	if err := services.EnsureTables(db.DB, tables); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
		"tables": services.GetTableStatuses(db.DB),
	})
}

type setupAdminRequest struct {
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
	FirstName   string `json:"first_name" form:"first_name"`
	LastName    string `json:"last_name" form:"last_name"`
	CompanyName string `json:"company_name" form:"company_name"`
}

// SetupAdminHandler creates the initial platform admin account,
// optionally with the first company
func SetupAdminHandler(c echo.Context) error {
	var req setupAdminRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	admin, err := services.CreateAdminAccount(db.DB, services.AdminSetupInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, admin)
}

type setupAITestRequest struct {
	Provider  string `json:"provider" form:"provider"`
	Endpoint  string `json:"endpoint" form:"endpoint"`
	APIKey    string `json:"api_key" form:"api_key"`
	Model     string `json:"model" form:"model"`
	CompanyID string `json:"company_id" form:"company_id"`
}

// SetupAITestHandler checks that the AI endpoint answers. Request
// values override the server configuration; on success the provider
// settings are saved to the company when one is given. Saving requires
// a signed-in platform admin. The API key itself is never stored.
func SetupAITestHandler(c echo.Context) error {
	cfg := c.Get("config").(*config.Config)

	var req setupAITestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	if req.CompanyID != "" {
		user := middleware.GetCurrentUser(c)
		if user == nil || user.Role != models.RolePlatformAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "Saving AI provider settings requires a platform admin")
		}
	}

	probeCfg := *cfg
	if req.Provider != "" {
		probeCfg.AIProvider = req.Provider
	}
	if req.Endpoint != "" {
		probeCfg.AIEndpoint = req.Endpoint
	}
	if req.APIKey != "" {
		probeCfg.AIAPIKey = req.APIKey
	}
	if req.Model != "" {
		probeCfg.AIModel = req.Model
	}

	result := services.ProbeAIEndpoint(c.Request().Context(), &probeCfg)
	if !result.Reachable {
		return c.JSON(http.StatusBadGateway, result)
	}

	if req.CompanyID != "" {
		if err := services.SaveAIProviderSettings(db.DB, req.CompanyID, probeCfg.AIProvider, probeCfg.AIEndpoint, probeCfg.AIModel); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	return c.JSON(http.StatusOK, result)
}

type setupCompleteRequest struct {
	CompanyID string `json:"company_id" form:"company_id"`
}

// SetupCompleteHandler stamps the company as fully set up
func SetupCompleteHandler(c echo.Context) error {
	var req setupCompleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}
	if req.CompanyID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "company_id is required")
	}

	if err := services.MarkSetupComplete(db.DB, req.CompanyID); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "complete"})
}
