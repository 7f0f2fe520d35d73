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

type manualCallRequest struct {
	PhoneNumber string `json:"phone_number" form:"phone_number"`
	AgentID     string `json:"agent_id" form:"agent_id"`
	AgentName   string `json:"agent_name" form:"agent_name"`
	Duration    string `json:"duration" form:"duration"`
	Transcript  string `json:"transcript" form:"transcript"`
	Notes       string `json:"notes" form:"notes"`
}

type urlCallEntry struct {
	URL         string `json:"url"`
	PhoneNumber string `json:"phone_number"`
	AgentID     string `json:"agent_id"`
	AgentName   string `json:"agent_name"`
}

type urlCallsRequest struct {
	// Either a newline-separated URL block or per-URL entries
	URLs    string         `json:"urls" form:"urls"`
	Entries []urlCallEntry `json:"entries"`
}

// CreateManualCallHandler records a call entered by hand
func CreateManualCallHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil || user.CompanyID == nil {
		return echo.NewHTTPError(http.StatusForbidden, "No company assigned")
	}

	var req manualCallRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	if req.Transcript == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Transcript is required")
	}

	if req.AgentID != "" && !agentBelongsToCompany(c, req.AgentID) {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown agent")
	}

	call, err := services.CreateManualCall(db.DB, *user.CompanyID, services.ManualCallInput{
		PhoneNumber: req.PhoneNumber,
		AgentID:     req.AgentID,
		AgentName:   req.AgentName,
		Duration:    req.Duration,
		Transcript:  req.Transcript,
		Notes:       req.Notes,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create call")
	}

	return c.JSON(http.StatusCreated, call)
}

// CreateCallsFromURLsHandler registers pending calls for recordings
// referenced by URL. A plain URL block and annotated entries are both
// accepted.
func CreateCallsFromURLsHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil || user.CompanyID == nil {
		return echo.NewHTTPError(http.StatusForbidden, "No company assigned")
	}

	var req urlCallsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	inputs := make([]services.URLCallInput, 0, len(req.Entries))
	for _, entry := range req.Entries {
		if entry.URL == "" {
			continue
		}
		if entry.AgentID != "" && !agentBelongsToCompany(c, entry.AgentID) {
			return echo.NewHTTPError(http.StatusBadRequest, "Unknown agent")
		}
		inputs = append(inputs, services.URLCallInput{
			URL:         entry.URL,
			PhoneNumber: entry.PhoneNumber,
			AgentID:     entry.AgentID,
			AgentName:   entry.AgentName,
		})
	}
	for _, url := range services.SplitAudioURLs(req.URLs) {
		inputs = append(inputs, services.URLCallInput{URL: url})
	}

	if len(inputs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No URLs provided")
	}

	created, err := services.CreateCallsFromURLs(db.DB, *user.CompanyID, inputs)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":   err.Error(),
			"created": created,
		})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"created": created,
	})
}

// UploadCallFilesHandler stores uploaded recordings and registers
// pending calls. Files are processed concurrently; per-file outcomes
// come back in input order.
func UploadCallFilesHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil || user.CompanyID == nil {
		return echo.NewHTTPError(http.StatusForbidden, "No company assigned")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid multipart form")
	}

	files := form.File["files"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No files provided")
	}

	cfg := c.Get("config").(*config.Config)
	outcomes := services.UploadCallFiles(c.Request().Context(), db.DB, *user.CompanyID, files, cfg.MaxAudioSizeMB)

	status := http.StatusCreated
	allFailed := true
	for _, outcome := range outcomes {
		if outcome.Error == "" {
			allFailed = false
			break
		}
	}
	if allFailed {
		status = http.StatusBadRequest
	}

	return c.JSON(status, map[string]interface{}{
		"results": outcomes,
	})
}

// agentBelongsToCompany checks that the agent id refers to a profile
// in the caller's company
func agentBelongsToCompany(c echo.Context, agentID string) bool {
	var count int64
	middleware.GetCompanyScopedQuery(c, db.DB).
		Model(&models.Profile{}).
		Where("id = ?", agentID).
		Count(&count)
	return count > 0
}
