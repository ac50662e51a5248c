package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/evergreen-hs/hallpass-api/internal/dto"
	"github.com/evergreen-hs/hallpass-api/internal/models"
	appErrors "github.com/evergreen-hs/hallpass-api/pkg/errors"
	"github.com/evergreen-hs/hallpass-api/pkg/response"
)

type passRegistry interface {
	Submit(raw string) dto.PassOutcome
	Slots() []dto.SlotView
}

type periodSource interface {
	CurrentPeriod(at time.Time) (models.Period, bool)
}

// PassHandler exposes the student-facing kiosk endpoints.
type PassHandler struct {
	registry passRegistry
	schedule periodSource
}

// NewPassHandler builds the handler.
func NewPassHandler(registry passRegistry, schedule periodSource) *PassHandler {
	return &PassHandler{registry: registry, schedule: schedule}
}

// Check godoc
// @Summary Check a pass out or in
// @Tags Passes
// @Accept json
// @Produce json
// @Param payload body dto.CheckRequest true "Student id as typed at the kiosk"
// @Success 200 {object} response.Envelope
// @Router /passes/check [post]
func (h *PassHandler) Check(c *gin.Context) {
	var req dto.CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid check payload"))
		return
	}
	outcome := h.registry.Submit(req.StudentID)
	response.JSON(c, http.StatusOK, outcome)
}

// Slots godoc
// @Summary Current pass slot states
// @Tags Passes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /passes [get]
func (h *PassHandler) Slots(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.registry.Slots())
}

// CurrentPeriod godoc
// @Summary Currently active class period
// @Tags Passes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /periods/current [get]
func (h *PassHandler) CurrentPeriod(c *gin.Context) {
	view := dto.CurrentPeriodView{}
	if period, ok := h.schedule.CurrentPeriod(time.Now()); ok {
		view.Active = true
		view.Period = period.String()
	}
	response.JSON(c, http.StatusOK, view)
}
