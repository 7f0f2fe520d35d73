package handlers

import (
	"net/http"
	"strings"

	"call_quality_app_go/db"
	"call_quality_app_go/middleware"
	"call_quality_app_go/models"
	"call_quality_app_go/services"

	"github.com/labstack/echo/v4"
)

type companyUpdateRequest struct {
	Name        string                 `json:"name"`
	Description *string                `json:"description"`
	Settings    map[string]interface{} `json:"settings"`
}

// GetCompanyHandler returns the company profile with settings merged
// over defaults
func GetCompanyHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil || user.CompanyID == nil {
		return echo.NewHTTPError(http.StatusForbidden, "No company assigned")
	}

	var company models.Company
	if err := db.DB.First(&company, "id = ?", *user.CompanyID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Company not found")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":          company.ID,
		"name":        company.Name,
		"description": company.Description,
		"created_at":  company.CreatedAt,
		"updated_at":  company.UpdatedAt,
		"settings":    services.CompanySettingsWithDefaults(company.Settings),
	})
}

// UpdateCompanyHandler edits the company name and settings. Settings
// sections merge key by key, so partial updates keep other values.
func UpdateCompanyHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil || user.CompanyID == nil {
		return echo.NewHTTPError(http.StatusForbidden, "No company assigned")
	}

	var company models.Company
	if err := db.DB.First(&company, "id = ?", *user.CompanyID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Company not found")
	}

	var req companyUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		company.Name = name
	}
	if req.Description != nil {
		company.Description = *req.Description
	}
	if req.Settings != nil {
		company.Settings = services.ApplySettingsUpdate(company.Settings, req.Settings)
	}

	if err := db.DB.Save(&company).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update company")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":          company.ID,
		"name":        company.Name,
		"description": company.Description,
		"created_at":  company.CreatedAt,
		"updated_at":  company.UpdatedAt,
		"settings":    services.CompanySettingsWithDefaults(company.Settings),
	})
}
