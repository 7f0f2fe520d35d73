package handlers

import (
	"net/http"
	"strings"

	"call_quality_app_go/config"
	"call_quality_app_go/db"
	"call_quality_app_go/middleware"
	"call_quality_app_go/models"
	"call_quality_app_go/services"

	"github.com/labstack/echo/v4"
)

// Roles assignable through the employees endpoints. Platform admins
// are created through setup, never here.
var assignableRoles = []string{models.RoleClientAdmin, models.RoleSupervisor, models.RoleAgent}

func isAssignableRole(role string) bool {
	for _, r := range assignableRoles {
		if r == role {
			return true
		}
	}
	return false
}

type employeeRequest struct {
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
	Email     string `json:"email" form:"email"`
	Phone     string `json:"phone" form:"phone"`
	Password  string `json:"password" form:"password"`
	Role      string `json:"role" form:"role"`
	TeamName  string `json:"team_name" form:"team_name"`
}

// ListEmployeesHandler returns the company's employees.
// Optional filters: ?role=, ?team=, ?q= (name or email substring).
func ListEmployeesHandler(c echo.Context) error {
	query := middleware.GetCompanyScopedQuery(c, db.DB).Model(&models.Profile{})

	if role := c.QueryParam("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if team := c.QueryParam("team"); team != "" {
		query = query.Where("team_name = ?", team)
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}

	var employees []models.Profile
	if err := query.Order("created_at ASC").Find(&employees).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load employees")
	}

	stats := map[string]int64{"total": int64(len(employees))}
	for _, e := range employees {
		if e.IsActive {
			stats["active"]++
		}
		stats[e.Role]++
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"employees": employees,
		"stats":     stats,
	})
}

// CreateEmployeeHandler adds an employee to the company and sends a
// welcome email
func CreateEmployeeHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	company := middleware.GetCurrentCompany(c)
	if user == nil || user.CompanyID == nil {
		return echo.NewHTTPError(http.StatusForbidden, "No company assigned")
	}

	var req employeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.FirstName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "First name and email are required")
	}
	if len(req.Password) < 8 {
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 8 characters")
	}
	if !isAssignableRole(req.Role) {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid role")
	}

	var count int64
	db.DB.Model(&models.Profile{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		return echo.NewHTTPError(http.StatusConflict, "A user with this email already exists")
	}

	hash, err := services.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create employee")
	}

	employee := models.Profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  hash,
		Role:      req.Role,
		TeamName:  req.TeamName,
		CompanyID: user.CompanyID,
		IsActive:  true,
	}

	if err := db.DB.Create(&employee).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create employee")
	}

	cfg := c.Get("config").(*config.Config)
	companyName := ""
	if company != nil {
		companyName = company.Name
	}
	services.SendEmailAsync(cfg, services.BuildWelcomeEmail(employee.Email, employee.FullName(), companyName))

	return c.JSON(http.StatusCreated, employee)
}

// GetEmployeeHandler returns one employee
func GetEmployeeHandler(c echo.Context) error {
	id := c.Param("id")

	var employee models.Profile
	err := middleware.GetCompanyScopedQuery(c, db.DB).First(&employee, "id = ?", id).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Employee not found")
	}

	return c.JSON(http.StatusOK, employee)
}

// UpdateEmployeeHandler edits an employee's profile
func UpdateEmployeeHandler(c echo.Context) error {
	id := c.Param("id")

	if !middleware.CanModifyProfile(c, id) {
		return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
	}

	var employee models.Profile
	err := middleware.GetCompanyScopedQuery(c, db.DB).First(&employee, "id = ?", id).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Employee not found")
	}

	var req employeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}

	if req.FirstName != "" {
		employee.FirstName = req.FirstName
	}
	if req.LastName != "" {
		employee.LastName = req.LastName
	}
	if req.Phone != "" {
		employee.Phone = req.Phone
	}
	if req.TeamName != "" {
		employee.TeamName = req.TeamName
	}
	if req.Role != "" {
		if !isAssignableRole(req.Role) {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid role")
		}
		// Only admins may change roles
		current := middleware.GetCurrentUser(c)
		if current.Role != models.RoleClientAdmin && current.Role != models.RolePlatformAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
		employee.Role = req.Role
	}
	if req.Password != "" {
		if len(req.Password) < 8 {
			return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 8 characters")
		}
		hash, err := services.HashPassword(req.Password)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update employee")
		}
		employee.Password = hash
		// Force re-login everywhere after a password change
		services.DeleteAllUserSessions(db.DB, employee.ID)
	}

	if err := db.DB.Save(&employee).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update employee")
	}

	return c.JSON(http.StatusOK, employee)
}

// ToggleEmployeeActiveHandler flips an employee's active flag.
// Deactivation also revokes their sessions.
func ToggleEmployeeActiveHandler(c echo.Context) error {
	id := c.Param("id")

	current := middleware.GetCurrentUser(c)
	if current != nil && current.ID == id {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot deactivate your own account")
	}

	var employee models.Profile
	err := middleware.GetCompanyScopedQuery(c, db.DB).First(&employee, "id = ?", id).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Employee not found")
	}

	employee.IsActive = !employee.IsActive
	if err := db.DB.Model(&employee).Update("is_active", employee.IsActive).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update employee")
	}

	if !employee.IsActive {
		services.DeleteAllUserSessions(db.DB, employee.ID)
	}

	return c.JSON(http.StatusOK, employee)
}

// DeleteEmployeeHandler removes an employee
func DeleteEmployeeHandler(c echo.Context) error {
	id := c.Param("id")

	current := middleware.GetCurrentUser(c)
	if current != nil && current.ID == id {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot delete your own account")
	}

	var employee models.Profile
	err := middleware.GetCompanyScopedQuery(c, db.DB).First(&employee, "id = ?", id).Error
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Employee not found")
	}

	services.DeleteAllUserSessions(db.DB, employee.ID)

	if err := db.DB.Delete(&employee).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete employee")
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
