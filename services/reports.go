package services

import (
	"fmt"
	"time"

	"call_quality_app_go/models"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ReportSummary aggregates a company's call volume and quality.
type ReportSummary struct {
	TotalCalls      int64    `json:"total_calls"`
	CompletedCalls  int64    `json:"completed_calls"`
	PendingCalls    int64    `json:"pending_calls"`
	FailedCalls     int64    `json:"failed_calls"`
	EvaluatedCalls  int64    `json:"evaluated_calls"`
	ActiveAgents    int64    `json:"active_agents"`
	CriticalFails   int64    `json:"critical_fails"`
	AverageScore    *float64 `json:"average_score"`    // Nil when no call has a score yet
	AverageDuration *float64 `json:"average_duration"` // Seconds; nil when unknown
}

// TimelinePoint is one day of call volume and quality.
type TimelinePoint struct {
	Date         string   `json:"date"` // YYYY-MM-DD
	Calls        int64    `json:"calls"`
	AverageScore *float64 `json:"average_score"`
}

// AgentReport aggregates quality per agent.
type AgentReport struct {
	AgentID       string   `json:"agent_id"`
	AgentName     string   `json:"agent_name"`
	TeamName      string   `json:"team_name"`
	TotalCalls    int64    `json:"total_calls"`
	ScoredCalls   int64    `json:"scored_calls"`
	CriticalFails int64    `json:"critical_fails"`
	AverageScore  *float64 `json:"average_score"`
}

// RuleReport aggregates evaluation outcomes per rule.
type RuleReport struct {
	RuleID       string   `json:"rule_id"`
	RuleName     string   `json:"rule_name"`
	RuleType     string   `json:"rule_type"`
	Weight       int      `json:"weight"`
	IsCritical   bool     `json:"is_critical"`
	Evaluations  int64    `json:"evaluations"`
	AverageScore *float64 `json:"average_score"`
}

// GetReportSummary computes company-wide call statistics.
func GetReportSummary(db *gorm.DB, companyID string) (*ReportSummary, error) {
	summary := &ReportSummary{}

	calls := db.Model(&models.Call{}).Where("company_id = ?", companyID)
	if err := calls.Count(&summary.TotalCalls).Error; err != nil {
		return nil, fmt.Errorf("failed to count calls: %w", err)
	}
	db.Model(&models.Call{}).Where("company_id = ? AND status = ?", companyID, models.CallStatusCompleted).Count(&summary.CompletedCalls)
	db.Model(&models.Call{}).Where("company_id = ? AND status IN ?", companyID,
		[]string{models.CallStatusPending, models.CallStatusTranscribing, models.CallStatusAnalyzing}).Count(&summary.PendingCalls)
	db.Model(&models.Call{}).Where("company_id = ? AND status = ?", companyID, models.CallStatusFailed).Count(&summary.FailedCalls)

	db.Model(&models.CallScore{}).
		Joins("JOIN calls ON calls.id = call_scores.call_id").
		Where("calls.company_id = ?", companyID).
		Count(&summary.EvaluatedCalls)

	db.Model(&models.Profile{}).
		Where("company_id = ? AND role = ? AND is_active = ?", companyID, models.RoleAgent, true).
		Count(&summary.ActiveAgents)

	db.Model(&models.CallScore{}).
		Joins("JOIN calls ON calls.id = call_scores.call_id").
		Where("calls.company_id = ?", companyID).
		Select("COALESCE(SUM(call_scores.critical_fails), 0)").
		Scan(&summary.CriticalFails)

	var avgScore *float64
	db.Model(&models.CallScore{}).
		Joins("JOIN calls ON calls.id = call_scores.call_id").
		Where("calls.company_id = ?", companyID).
		Select("AVG(call_scores.total_score)").
		Scan(&avgScore)
	summary.AverageScore = avgScore

	var avgDuration *float64
	db.Model(&models.Call{}).
		Where("company_id = ? AND duration IS NOT NULL AND duration > 0", companyID).
		Select("AVG(duration)").
		Scan(&avgDuration)
	summary.AverageDuration = avgDuration

	return summary, nil
}

// GetCallTimeline returns per-day call counts and average scores for
// the trailing window, including days with no calls.
func GetCallTimeline(db *gorm.DB, companyID string, days int) ([]TimelinePoint, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -(days - 1)).Truncate(24 * time.Hour)

	type row struct {
		Day          string
		Calls        int64
		AverageScore *float64
	}
	var rows []row
	err := db.Model(&models.Call{}).
		Select("DATE(calls.created_at) AS day, COUNT(calls.id) AS calls, AVG(call_scores.total_score) AS average_score").
		Joins("LEFT JOIN call_scores ON call_scores.call_id = calls.id").
		Where("calls.company_id = ? AND calls.created_at >= ?", companyID, since).
		Group("DATE(calls.created_at)").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to build timeline: %w", err)
	}

	byDay := make(map[string]row, len(rows))
	for _, r := range rows {
		byDay[r.Day] = r
	}

	points := make([]TimelinePoint, 0, days)
	for i := 0; i < days; i++ {
		day := since.AddDate(0, 0, i).Format("2006-01-02")
		point := TimelinePoint{Date: day}
		if r, ok := byDay[day]; ok {
			point.Calls = r.Calls
			point.AverageScore = r.AverageScore
		}
		points = append(points, point)
	}

	return points, nil
}

// GetAgentReports aggregates call quality per agent. Calls without an
// assigned agent are grouped under a single unassigned row.
func GetAgentReports(db *gorm.DB, companyID string) ([]AgentReport, error) {
	type row struct {
		AgentID       *string
		FirstName     *string
		LastName      *string
		TeamName      *string
		TotalCalls    int64
		ScoredCalls   int64
		CriticalFails int64
		AverageScore  *float64
	}
	var rows []row
	err := db.Model(&models.Call{}).
		Select(`calls.agent_id AS agent_id,
			profiles.first_name AS first_name,
			profiles.last_name AS last_name,
			profiles.team_name AS team_name,
			COUNT(calls.id) AS total_calls,
			COUNT(call_scores.id) AS scored_calls,
			COALESCE(SUM(call_scores.critical_fails), 0) AS critical_fails,
			AVG(call_scores.total_score) AS average_score`).
		Joins("LEFT JOIN profiles ON profiles.id = calls.agent_id").
		Joins("LEFT JOIN call_scores ON call_scores.call_id = calls.id").
		Where("calls.company_id = ?", companyID).
		Group("calls.agent_id").
		Order("total_calls DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to build agent reports: %w", err)
	}

	reports := make([]AgentReport, 0, len(rows))
	for _, r := range rows {
		report := AgentReport{
			AgentName:     "Не назначен",
			TotalCalls:    r.TotalCalls,
			ScoredCalls:   r.ScoredCalls,
			CriticalFails: r.CriticalFails,
			AverageScore:  r.AverageScore,
		}
		if r.AgentID != nil {
			report.AgentID = *r.AgentID
			name := ""
			if r.FirstName != nil {
				name = *r.FirstName
			}
			if r.LastName != nil && *r.LastName != "" {
				if name != "" {
					name += " "
				}
				name += *r.LastName
			}
			if name != "" {
				report.AgentName = name
			}
			if r.TeamName != nil {
				report.TeamName = *r.TeamName
			}
		}
		reports = append(reports, report)
	}

	return reports, nil
}

// GetRuleReports aggregates evaluation outcomes per rule.
func GetRuleReports(db *gorm.DB, companyID string) ([]RuleReport, error) {
	type row struct {
		RuleID       string
		RuleName     string
		RuleType     string
		Weight       int
		IsCritical   bool
		Evaluations  int64
		AverageScore *float64
	}
	var rows []row
	err := db.Model(&models.EvaluationRule{}).
		Select(`evaluation_rules.id AS rule_id,
			evaluation_rules.name AS rule_name,
			evaluation_rules.rule_type AS rule_type,
			evaluation_rules.weight AS weight,
			evaluation_rules.is_critical AS is_critical,
			COUNT(call_evaluations.id) AS evaluations,
			AVG(call_evaluations.score) AS average_score`).
		Joins("LEFT JOIN call_evaluations ON call_evaluations.rule_id = evaluation_rules.id").
		Where("evaluation_rules.company_id = ? AND evaluation_rules.deleted_at IS NULL", companyID).
		Group("evaluation_rules.id").
		Order("evaluation_rules.weight DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to build rule reports: %w", err)
	}

	reports := make([]RuleReport, 0, len(rows))
	for _, r := range rows {
		reports = append(reports, RuleReport{
			RuleID:       r.RuleID,
			RuleName:     r.RuleName,
			RuleType:     r.RuleType,
			Weight:       r.Weight,
			IsCritical:   r.IsCritical,
			Evaluations:  r.Evaluations,
			AverageScore: r.AverageScore,
		})
	}

	return reports, nil
}

// ExportReportXLSX builds an Excel workbook with summary, agent, and
// rule sheets for download.
func ExportReportXLSX(summary *ReportSummary, agents []AgentReport, rules []RuleReport) (*excelize.File, error) {
	f := excelize.NewFile()

	const summarySheet = "Сводка"
	f.SetSheetName("Sheet1", summarySheet)

	summaryRows := [][]interface{}{
		{"Показатель", "Значение"},
		{"Всего звонков", summary.TotalCalls},
		{"Завершено", summary.CompletedCalls},
		{"В обработке", summary.PendingCalls},
		{"С ошибкой", summary.FailedCalls},
		{"Оценено", summary.EvaluatedCalls},
		{"Активных агентов", summary.ActiveAgents},
		{"Критичные ошибки", summary.CriticalFails},
	}
	if summary.AverageScore != nil {
		summaryRows = append(summaryRows, []interface{}{"Средний балл", fmt.Sprintf("%.1f", *summary.AverageScore)})
	} else {
		summaryRows = append(summaryRows, []interface{}{"Средний балл", "—"})
	}
	for i, row := range summaryRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write summary sheet: %w", err)
		}
	}

	const agentSheet = "Агенты"
	if _, err := f.NewSheet(agentSheet); err != nil {
		return nil, err
	}
	agentHeader := []interface{}{"Агент", "Команда", "Звонков", "Оценено", "Критичные ошибки", "Средний балл"}
	if err := f.SetSheetRow(agentSheet, "A1", &agentHeader); err != nil {
		return nil, err
	}
	for i, a := range agents {
		score := ""
		if a.AverageScore != nil {
			score = fmt.Sprintf("%.1f", *a.AverageScore)
		}
		row := []interface{}{a.AgentName, a.TeamName, a.TotalCalls, a.ScoredCalls, a.CriticalFails, score}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(agentSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write agent sheet: %w", err)
		}
	}

	const ruleSheet = "Правила"
	if _, err := f.NewSheet(ruleSheet); err != nil {
		return nil, err
	}
	ruleHeader := []interface{}{"Правило", "Тип", "Вес", "Оценок", "Средний балл"}
	if err := f.SetSheetRow(ruleSheet, "A1", &ruleHeader); err != nil {
		return nil, err
	}
	for i, r := range rules {
		score := ""
		if r.AverageScore != nil {
			score = fmt.Sprintf("%.1f", *r.AverageScore)
		}
		row := []interface{}{r.RuleName, r.RuleType, r.Weight, r.Evaluations, score}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(ruleSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write rule sheet: %w", err)
		}
	}

	return f, nil
}
