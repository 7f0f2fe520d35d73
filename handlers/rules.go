package handlers

import (
	"encoding/json"
	"net/http"

	"call_quality_app_go/db"
	"call_quality_app_go/middleware"
	"call_quality_app_go/models"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

type ruleRequest struct {
	Name        string          `json:"name" form:"name"`
	Description string          `json:"description" form:"description"`
	RuleType    string          `json:"rule_type" form:"rule_type"`
	Weight      *int            `json:"weight" form:"weight"`
	IsCritical  *bool           `json:"is_critical" form:"is_critical"`
	IsActive    *bool           `json:"is_active" form:"is_active"`
	Criteria    json.RawMessage `json:"criteria"`
}

func (r *ruleRequest) validate() error {
	if r.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}
	if !models.IsValidRuleType(r.RuleType) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid rule type")
	}
	if r.Weight != nil && (*r.Weight < 1 || *r.Weight > 10) {
		return echo.NewHTTPError(http.StatusBadRequest, "Weight must be between 1 and 10")
	}
	return nil
}

// ListRulesHandler returns the company's evaluation rules
func ListRulesHandler(c echo.Context) error {
	var rules []models.EvaluationRule
	err := middleware.GetCompanyScopedQuery(c, db.DB).
		Order("weight DESC, created_at ASC").
		Find(&rules).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load rules")
	}

	return c.JSON(http.StatusOK, rules)
}

// CreateRuleHandler adds an evaluation rule
func CreateRuleHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil || user.CompanyID == nil {
		return echo.NewHTTPError(http.StatusForbidden, "No company assigned")
	}

	var req ruleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}
	if err := req.validate(); err != nil {
		return err
	}

	rule := models.EvaluationRule{
		CompanyID:   *user.CompanyID,
		Name:        req.Name,
		Description: req.Description,
		RuleType:    req.RuleType,
		Weight:      5,
		IsActive:    true,
	}
	if req.Weight != nil {
		rule.Weight = *req.Weight
	}
	if req.IsCritical != nil {
		rule.IsCritical = *req.IsCritical
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if len(req.Criteria) > 0 {
		rule.Criteria = datatypes.JSON(req.Criteria)
	}

	if err := db.DB.Create(&rule).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create rule")
	}

	return c.JSON(http.StatusCreated, rule)
}

// UpdateRuleHandler edits an existing rule in place
func UpdateRuleHandler(c echo.Context) error {
	id := c.Param("id")

	var rule models.EvaluationRule
	err := middleware.GetCompanyScopedQuery(c, db.DB).First(&rule, "id = ?", id).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Rule not found")
	}

	var req ruleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}
	if err := req.validate(); err != nil {
		return err
	}

	rule.Name = req.Name
	rule.Description = req.Description
	rule.RuleType = req.RuleType
	if req.Weight != nil {
		rule.Weight = *req.Weight
	}
	if req.IsCritical != nil {
		rule.IsCritical = *req.IsCritical
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if len(req.Criteria) > 0 {
		rule.Criteria = datatypes.JSON(req.Criteria)
	}

	if err := db.DB.Save(&rule).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update rule")
	}

	return c.JSON(http.StatusOK, rule)
}

// DeleteRuleHandler removes a rule
func DeleteRuleHandler(c echo.Context) error {
	id := c.Param("id")

	var rule models.EvaluationRule
	err := middleware.GetCompanyScopedQuery(c, db.DB).First(&rule, "id = ?", id).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Rule not found")
	}

	if err := db.DB.Delete(&rule).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete rule")
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
