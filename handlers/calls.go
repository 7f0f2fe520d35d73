package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"call_quality_app_go/db"
	"call_quality_app_go/middleware"
	"call_quality_app_go/models"
	"call_quality_app_go/services"

	"github.com/labstack/echo/v4"
)

// callListItem is the listing projection of a call
type callListItem struct {
	models.Call
	DurationLabel string   `json:"duration_label"`
	Score         *float64 `json:"total_score"`
	ScoreVariant  string   `json:"score_variant,omitempty"`
}

// ListCallsHandler returns the company's calls, newest first.
// Optional filters: ?status=, ?agent_id=, ?q= (phone number substring).
func ListCallsHandler(c echo.Context) error {
	query := middleware.GetCompanyScopedQuery(c, db.DB).Model(&models.Call{})

	if status := c.QueryParam("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if agentID := c.QueryParam("agent_id"); agentID != "" {
		query = query.Where("agent_id = ?", agentID)
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		query = query.Where("phone_number LIKE ?", "%"+q+"%")
	}

	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}
	offset := 0
	if raw := c.QueryParam("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count calls")
	}

	var calls []models.Call
	err := query.Preload("Score").Preload("Agent").Preload("Tags").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&calls).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load calls")
	}

	items := make([]callListItem, 0, len(calls))
	for _, call := range calls {
		item := callListItem{
			Call:          call,
			DurationLabel: models.FormatDuration(call.Duration),
		}
		if call.Score != nil {
			item.Score = &call.Score.TotalScore
			item.ScoreVariant = models.ScoreBadgeVariant(call.Score.TotalScore)
		}
		items = append(items, item)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"calls": items,
		"total": total,
	})
}

// GetCallHandler returns one call with its score, evaluations, and tags
func GetCallHandler(c echo.Context) error {
	id := c.Param("id")

	var call models.Call
	err := middleware.GetCompanyScopedQuery(c, db.DB).
		Preload("Score").
		Preload("Agent").
		Preload("Tags").
		Preload("Evaluations.Rule").
		First(&call, "id = ?", id).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Call not found")
	}

	return c.JSON(http.StatusOK, call)
}

// GetCallAudioHandler hands out the call recording. Stored recordings
// resolve to a signed URL; URL-referenced calls redirect to the source.
func GetCallAudioHandler(c echo.Context) error {
	id := c.Param("id")

	var call models.Call
	err := middleware.GetCompanyScopedQuery(c, db.DB).First(&call, "id = ?", id).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Call not found")
	}

	if call.StorageKey != "" {
		url, err := services.Storage.GetSignedURL(c.Request().Context(), call.StorageKey, 15*time.Minute)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve recording")
		}
		return c.JSON(http.StatusOK, map[string]string{"url": url})
	}

	if call.AudioURL != "" {
		return c.JSON(http.StatusOK, map[string]string{"url": call.AudioURL})
	}

	return echo.NewHTTPError(http.StatusNotFound, "Call has no recording")
}

// DeleteCallHandler removes a call together with its scores,
// evaluations, tags, and stored recording
func DeleteCallHandler(c echo.Context) error {
	id := c.Param("id")

	var call models.Call
	err := middleware.GetCompanyScopedQuery(c, db.DB).First(&call, "id = ?", id).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Call not found")
	}

	if err := services.DeleteCall(c.Request().Context(), db.DB, &call); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete call")
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
