package handlers

import (
	"net/http"
	"strings"
	"time"

	"call_quality_app_go/config"
	"call_quality_app_go/db"
	"call_quality_app_go/middleware"
	"call_quality_app_go/models"
	"call_quality_app_go/services"

	"github.com/labstack/echo/v4"
)

// Package level variable to hold the dummy hash
var globalDummyHash = "$2a$10$X7.G.t8./.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t.t" // Fallback

func init() {
	// Generate a real dummy hash at startup to ensure consistent timing
	hash, _ := services.HashPassword("dummy_password_for_timing_mitigation")
	if hash != "" {
		globalDummyHash = hash
	}
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginHandler authenticates a user and sets the session cookie
func LoginHandler(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	password := req.Password

	if email == "" || password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	var user models.Profile
	err := db.DB.Preload("Company").Where("email = ?", email).First(&user).Error
	if err != nil {
		// Timing attack mitigation: always run a bcrypt comparison
		services.CheckPassword(password, globalDummyHash)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	if user.LockoutUntil != nil && time.Now().Before(*user.LockoutUntil) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Account is locked. Try again later.")
	}

	if !services.CheckPassword(password, user.Password) {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= 5 {
			lockoutTime := time.Now().Add(15 * time.Minute)
			user.LockoutUntil = &lockoutTime
			user.FailedLoginAttempts = 0
			services.LogSecurityEvent("ACCOUNT_LOCKED", user.ID, "too many failed login attempts")
		}
		db.DB.Save(&user)
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	// Reset failed attempts on success
	if user.FailedLoginAttempts > 0 || user.LockoutUntil != nil {
		user.FailedLoginAttempts = 0
		user.LockoutUntil = nil
		db.DB.Save(&user)
	}

	if !user.IsActive {
		return echo.NewHTTPError(http.StatusForbidden, "Your account has been deactivated")
	}

	ipAddress := c.RealIP()
	userAgent := c.Request().UserAgent()

	companyID := ""
	if user.CompanyID != nil {
		companyID = *user.CompanyID
	}
	session, err := services.CreateSession(db.DB, user.ID, companyID, ipAddress, userAgent)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create session")
	}

	cfg := c.Get("config").(*config.Config)
	isProduction := cfg.Environment == "production"

	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		MaxAge:   int(services.DefaultSessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	}
	c.SetCookie(cookie)

	now := time.Now()
	user.LastLoginAt = &now
	db.DB.Save(&user)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user": user,
	})
}

// LogoutHandler deletes the session and clears the cookie
func LogoutHandler(c echo.Context) error {
	cookie, err := c.Cookie(middleware.SessionCookieName)
	if err == nil {
		services.DeleteSession(db.DB, cookie.Value)
	}

	middleware.ClearSessionCookie(c)

	return c.JSON(http.StatusOK, map[string]string{"status": "logged_out"})
}

// GetCurrentUserHandler returns the authenticated user with company info
func GetCurrentUserHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	company := middleware.GetCurrentCompany(c)

	if user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}

	user.Company = company
	return c.JSON(http.StatusOK, user)
}
