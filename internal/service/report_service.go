package service

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/evergreen-hs/hallpass-api/internal/dto"
	"github.com/evergreen-hs/hallpass-api/internal/models"
	appErrors "github.com/evergreen-hs/hallpass-api/pkg/errors"
	"github.com/evergreen-hs/hallpass-api/pkg/export"
	"github.com/evergreen-hs/hallpass-api/pkg/storage"
)

type eventSource interface {
	EventsByStudent() map[int64][]models.PassEvent
}

// ReportConfig carries the thresholds and export plumbing settings.
type ReportConfig struct {
	LongThreshold     time.Duration
	VeryLongThreshold time.Duration
	DownloadPath      string
}

// ReportService computes the read-side aggregations over the completed pass
// event log: per-student summaries, weekday breakdowns, and the exported
// weekly report files.
type ReportService struct {
	events eventSource
	roster rosterReader
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	store  *storage.LocalStorage
	signer *storage.SignedURLSigner
	logger *zap.Logger
	config ReportConfig
}

// NewReportService constructs a ReportService.
func NewReportService(events eventSource, roster rosterReader, store *storage.LocalStorage, signer *storage.SignedURLSigner, logger *zap.Logger, cfg ReportConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.LongThreshold <= 0 {
		cfg.LongThreshold = 5 * time.Minute
	}
	if cfg.VeryLongThreshold <= 0 {
		cfg.VeryLongThreshold = 10 * time.Minute
	}
	if cfg.DownloadPath == "" {
		cfg.DownloadPath = "/api/v1/admin/reports/download"
	}
	return &ReportService{
		events: events,
		roster: roster,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		store:  store,
		signer: signer,
		logger: logger,
		config: cfg,
	}
}

// SummaryByStudent aggregates every student with at least one completed
// pass, in ascending student id order.
func (s *ReportService) SummaryByStudent() []dto.StudentSummaryView {
	log := s.events.EventsByStudent()
	longCutoff := int(s.config.LongThreshold.Seconds())

	ids := sortedStudentIDs(log)
	summaries := make([]dto.StudentSummaryView, 0, len(ids))
	for _, id := range ids {
		records := log[id]
		if len(records) == 0 {
			continue
		}
		total := 0
		long := 0
		for _, r := range records {
			total += r.TotalSeconds
			if r.TotalSeconds > longCutoff {
				long++
			}
		}
		summaries = append(summaries, dto.StudentSummaryView{
			StudentID:   id,
			StudentName: s.studentName(id),
			TotalPasses: len(records),
			TotalTime:   formatSeconds(total),
			AvgTime:     formatSeconds(total / len(records)),
			LongPasses:  long,
		})
	}
	return summaries
}

// WeeklyByDay totals one student's pass minutes per school weekday.
func (s *ReportService) WeeklyByDay(raw string) (models.WeekdayMinutes, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidIDFormat, "Invalid ID format.")
	}
	if _, err := s.roster.Lookup(id); err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnknownStudent, "Student ID not found.")
	}

	return weekdayMinutes(s.events.EventsByStudent()[id]), nil
}

// WeeklyReport builds the per-student weekly rows shown on the admin report
// page and exported to CSV/PDF.
func (s *ReportService) WeeklyReport() []dto.WeeklyReportView {
	log := s.events.EventsByStudent()
	longCutoff := int(s.config.LongThreshold.Seconds())
	veryLongCutoff := int(s.config.VeryLongThreshold.Seconds())

	ids := sortedStudentIDs(log)
	rows := make([]dto.WeeklyReportView, 0, len(ids))
	for _, id := range ids {
		records := log[id]
		if len(records) == 0 {
			continue
		}
		long := 0
		veryLong := 0
		for _, r := range records {
			if r.TotalSeconds > longCutoff {
				long++
			}
			if r.TotalSeconds > veryLongCutoff {
				veryLong++
			}
		}
		minutes := weekdayMinutes(records)
		rows = append(rows, dto.WeeklyReportView{
			StudentID:      id,
			StudentName:    s.studentName(id),
			WeeklyReport:   weeklyLine(minutes),
			DayMinutes:     minutes,
			LongPasses:     long,
			VeryLongPasses: veryLong,
		})
	}
	return rows
}

// ExportWeeklyReport renders the weekly report in the requested format,
// stores the file, and returns a signed expiring download link.
func (s *ReportService) ExportWeeklyReport(format string) (*dto.ExportReportResponse, error) {
	dataset := export.Dataset{
		Title:   "Weekly Hall Pass Report",
		Headers: []string{"Student Name", "Student ID", "Weekly Report", "Passes Over 5 Min", "Passes Over 10 Min"},
	}
	for _, row := range s.WeeklyReport() {
		dataset.Rows = append(dataset.Rows, []string{
			row.StudentName,
			strconv.FormatInt(row.StudentID, 10),
			row.WeeklyReport,
			strconv.Itoa(row.LongPasses),
			strconv.Itoa(row.VeryLongPasses),
		})
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case "csv":
		data, err = s.csv.Render(dataset)
	case "pdf":
		data, err = s.pdf.Render(dataset)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	fileName := fmt.Sprintf("weekly_report_%s.%s", time.Now().Format("20060102_150405"), format)
	if _, err := s.store.Save(fileName, data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report")
	}

	token, expiresAt, err := s.signer.Generate(fileName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}

	s.logger.Info("weekly report exported", zap.String("file", fileName), zap.String("format", format))
	return &dto.ExportReportResponse{
		FileName:    fileName,
		DownloadURL: fmt.Sprintf("%s?token=%s", s.config.DownloadPath, token),
		ExpiresAt:   expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// OpenExport validates a download token and opens the referenced file.
func (s *ReportService) OpenExport(token string) (*os.File, string, error) {
	relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download link")
	}
	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "report file not found")
	}

	contentType := "application/octet-stream"
	switch filepath.Ext(relPath) {
	case ".csv":
		contentType = "text/csv"
	case ".pdf":
		contentType = "application/pdf"
	}
	return file, contentType, nil
}

func (s *ReportService) studentName(id int64) string {
	if student, err := s.roster.Lookup(id); err == nil {
		return student.Name
	}
	return "Unknown"
}

func weekdayMinutes(records []models.PassEvent) models.WeekdayMinutes {
	daySeconds := make(map[string]int, len(models.SchoolWeekdays))
	for _, day := range models.SchoolWeekdays {
		daySeconds[day] = 0
	}
	for _, r := range records {
		if _, ok := daySeconds[r.DayOfWeek]; ok {
			daySeconds[r.DayOfWeek] += r.TotalSeconds
		}
	}
	minutes := make(models.WeekdayMinutes, len(daySeconds))
	for day, seconds := range daySeconds {
		minutes[day] = seconds / 60
	}
	return minutes
}

// weeklyLine renders the compact "M:3 T:0 W:5 T:1 F:0" report column.
func weeklyLine(minutes models.WeekdayMinutes) string {
	parts := make([]string, 0, len(models.SchoolWeekdays))
	for _, day := range models.SchoolWeekdays {
		parts = append(parts, fmt.Sprintf("%c:%d", day[0], minutes[day]))
	}
	return strings.Join(parts, " ")
}

func formatSeconds(total int) string {
	return fmt.Sprintf("%dm %ds", total/60, total%60)
}

func sortedStudentIDs(log map[int64][]models.PassEvent) []int64 {
	ids := make([]int64, 0, len(log))
	for id := range log {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
