package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evergreen-hs/hallpass-api/internal/dto"
	"github.com/evergreen-hs/hallpass-api/internal/models"
	appErrors "github.com/evergreen-hs/hallpass-api/pkg/errors"
	"github.com/evergreen-hs/hallpass-api/pkg/response"
)

type adminRegistry interface {
	ActivePasses() []dto.ActivePassView
	AdminForceRelease(slotID string) error
	AdminClaim(raw string) (*dto.SlotView, error)
	AttachNote(raw, note string) (string, error)
	AuditTrail() []models.AuditEntry
}

// AdminHandler exposes the privileged override endpoints. All routes are
// behind the admin session middleware.
type AdminHandler struct {
	registry adminRegistry
}

// NewAdminHandler builds the handler.
func NewAdminHandler(registry adminRegistry) *AdminHandler {
	return &AdminHandler{registry: registry}
}

// ActivePasses godoc
// @Summary Passes currently out
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/passes [get]
func (h *AdminHandler) ActivePasses(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.registry.ActivePasses())
}

// ForceRelease godoc
// @Summary Manually check a pass back in
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param slotId path string true "Pass slot id"
// @Success 200 {object} response.Envelope
// @Router /admin/passes/{slotId}/checkin [post]
func (h *AdminHandler) ForceRelease(c *gin.Context) {
	slotID := c.Param("slotId")
	if err := h.registry.AdminForceRelease(slotID); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Pass " + slotID + " manually checked in."})
}

// ClaimAdminSlot godoc
// @Summary Assign the admin-only pass to a student
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.AdminClaimRequest true "Student id"
// @Success 201 {object} response.Envelope
// @Router /admin/passes/admin-slot [post]
func (h *AdminHandler) ClaimAdminSlot(c *gin.Context) {
	var req dto.AdminClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid admin claim payload"))
		return
	}
	view, err := h.registry.AdminClaim(req.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// AttachNote godoc
// @Summary Attach a note to a student's active pass
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentId path string true "Student id"
// @Param payload body dto.AttachNoteRequest true "Note text"
// @Success 200 {object} response.Envelope
// @Router /admin/passes/notes/{studentId} [put]
func (h *AdminHandler) AttachNote(c *gin.Context) {
	var req dto.AttachNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid note payload"))
		return
	}
	slotID, err := h.registry.AttachNote(c.Param("studentId"), req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Note saved to active Pass " + slotID + "."})
}

// AuditTrail godoc
// @Summary Rejected request audit trail
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/audit [get]
func (h *AdminHandler) AuditTrail(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.registry.AuditTrail())
}
