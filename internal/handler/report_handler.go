package handler

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/evergreen-hs/hallpass-api/internal/dto"
	"github.com/evergreen-hs/hallpass-api/internal/models"
	appErrors "github.com/evergreen-hs/hallpass-api/pkg/errors"
	"github.com/evergreen-hs/hallpass-api/pkg/response"
)

type reportService interface {
	SummaryByStudent() []dto.StudentSummaryView
	WeeklyByDay(raw string) (models.WeekdayMinutes, error)
	WeeklyReport() []dto.WeeklyReportView
	ExportWeeklyReport(format string) (*dto.ExportReportResponse, error)
	OpenExport(token string) (*os.File, string, error)
}

// ReportHandler exposes the admin reporting endpoints.
type ReportHandler struct {
	service reportService
}

// NewReportHandler builds the handler.
func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Summary godoc
// @Summary Per-student pass summary
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.SummaryByStudent())
}

// Weekly godoc
// @Summary Weekly report rows for every student
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/reports/weekly [get]
func (h *ReportHandler) Weekly(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.WeeklyReport())
}

// WeeklyByStudent godoc
// @Summary Per-weekday pass minutes for one student
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student id"
// @Success 200 {object} response.Envelope
// @Router /admin/reports/weekly/{studentId} [get]
func (h *ReportHandler) WeeklyByStudent(c *gin.Context) {
	minutes, err := h.service.WeeklyByDay(c.Param("studentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, minutes)
}

// Export godoc
// @Summary Export the weekly report
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ExportReportRequest true "Export format (csv or pdf)"
// @Success 201 {object} response.Envelope
// @Router /admin/reports/export [post]
func (h *ReportHandler) Export(c *gin.Context) {
	var req dto.ExportReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}
	result, err := h.service.ExportWeeklyReport(req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Download godoc
// @Summary Download an exported report
// @Tags Reports
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} file
// @Router /admin/reports/download [get]
func (h *ReportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token required"))
		return
	}
	file, contentType, err := h.service.OpenExport(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat report file"))
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+info.Name())
	c.DataFromReader(http.StatusOK, info.Size(), contentType, file, nil)
}
