package handlers

import (
	"net/http"
	"strconv"

	"call_quality_app_go/db"
	"call_quality_app_go/middleware"
	"call_quality_app_go/services"

	"github.com/labstack/echo/v4"
)

// DashboardStatsHandler returns company-wide call statistics
func DashboardStatsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil || user.CompanyID == nil {
		return echo.NewHTTPError(http.StatusForbidden, "No company assigned")
	}

	summary, err := services.GetReportSummary(db.DB, *user.CompanyID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load statistics")
	}

	return c.JSON(http.StatusOK, summary)
}

// DashboardTimelineHandler returns per-day call counts for the
// trailing window (?days=7, capped at 90)
func DashboardTimelineHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil || user.CompanyID == nil {
		return echo.NewHTTPError(http.StatusForbidden, "No company assigned")
	}

	days := 7
	if raw := c.QueryParam("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid days parameter")
		}
		days = parsed
	}
	if days > 90 {
		days = 90
	}

	timeline, err := services.GetCallTimeline(db.DB, *user.CompanyID, days)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load timeline")
	}

	return c.JSON(http.StatusOK, timeline)
}
