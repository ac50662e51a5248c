package dto

import "github.com/evergreen-hs/hallpass-api/internal/models"

// StudentSummaryView formats one summary row for display, durations rendered
// the way the legacy dashboard did ("4m 32s").
type StudentSummaryView struct {
	StudentID   int64  `json:"student_id"`
	StudentName string `json:"student_name"`
	TotalPasses int    `json:"total_passes"`
	TotalTime   string `json:"total_time"`
	AvgTime     string `json:"avg_time"`
	LongPasses  int    `json:"passes_over_threshold"`
}

// WeeklyReportView is one line of the weekly report payload.
type WeeklyReportView struct {
	StudentID      int64                 `json:"student_id"`
	StudentName    string                `json:"student_name"`
	WeeklyReport   string                `json:"weekly_report"`
	DayMinutes     models.WeekdayMinutes `json:"day_minutes"`
	LongPasses     int                   `json:"passes_over_5_min"`
	VeryLongPasses int                   `json:"passes_over_10_min"`
}

// ExportReportRequest selects the export format.
type ExportReportRequest struct {
	Format string `json:"format" binding:"required,oneof=csv pdf"`
}

// ExportReportResponse hands back a signed, expiring download link.
type ExportReportResponse struct {
	FileName    string `json:"file_name"`
	DownloadURL string `json:"download_url"`
	ExpiresAt   string `json:"expires_at"`
}
