package models

// StudentSummary aggregates the completed pass events for one student.
type StudentSummary struct {
	StudentID      int64  `json:"student_id"`
	StudentName    string `json:"student_name"`
	TotalPasses    int    `json:"total_passes"`
	TotalSeconds   int    `json:"total_seconds"`
	AverageSeconds int    `json:"average_seconds"`
	LongPasses     int    `json:"long_passes"`
}

// WeekdayMinutes maps weekday names (Monday through Friday) to total pass
// minutes spent out of class on that day.
type WeekdayMinutes map[string]int

// WeeklyReportRow is one line of the admin weekly report.
type WeeklyReportRow struct {
	StudentID      int64          `json:"student_id"`
	StudentName    string         `json:"student_name"`
	DayMinutes     WeekdayMinutes `json:"day_minutes"`
	LongPasses     int            `json:"long_passes"`
	VeryLongPasses int            `json:"very_long_passes"`
}

// SchoolWeekdays lists weekday names in report column order.
var SchoolWeekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
