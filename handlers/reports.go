package handlers

import (
	"fmt"
	"net/http"
	"time"

	"call_quality_app_go/db"
	"call_quality_app_go/middleware"
	"call_quality_app_go/services"

	"github.com/labstack/echo/v4"
)

// ReportSummaryHandler returns company-wide call quality aggregates
func ReportSummaryHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil || user.CompanyID == nil {
		return echo.NewHTTPError(http.StatusForbidden, "No company assigned")
	}

	summary, err := services.GetReportSummary(db.DB, *user.CompanyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build report")
	}

	return c.JSON(http.StatusOK, summary)
}

// ReportAgentsHandler returns per-agent call quality aggregates
func ReportAgentsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil || user.CompanyID == nil {
		return echo.NewHTTPError(http.StatusForbidden, "No company assigned")
	}

	agents, err := services.GetAgentReports(db.DB, *user.CompanyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build report")
	}

	return c.JSON(http.StatusOK, agents)
}

// ReportRulesHandler returns per-rule evaluation aggregates
func ReportRulesHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil || user.CompanyID == nil {
		return echo.NewHTTPError(http.StatusForbidden, "No company assigned")
	}

	rules, err := services.GetRuleReports(db.DB, *user.CompanyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build report")
	}

	return c.JSON(http.StatusOK, rules)
}

// ExportReportHandler streams the company report as an Excel workbook
func ExportReportHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil || user.CompanyID == nil {
		return echo.NewHTTPError(http.StatusForbidden, "No company assigned")
	}

	summary, err := services.GetReportSummary(db.DB, *user.CompanyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build report")
	}
	agents, err := services.GetAgentReports(db.DB, *user.CompanyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build report")
	}
	rules, err := services.GetRuleReports(db.DB, *user.CompanyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build report")
	}

	workbook, err := services.ExportReportXLSX(summary, agents, rules)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to export report")
	}

	filename := fmt.Sprintf("call-quality-report-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)

	if err := workbook.Write(c.Response().Writer); err != nil {
		return err
	}
	return nil
}
