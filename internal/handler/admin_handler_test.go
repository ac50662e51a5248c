package handler

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evergreen-hs/hallpass-api/internal/dto"
	"github.com/evergreen-hs/hallpass-api/internal/models"
	appErrors "github.com/evergreen-hs/hallpass-api/pkg/errors"
)

type stubAdminRegistry struct {
	active     []dto.ActivePassView
	audit      []models.AuditEntry
	claimView  *dto.SlotView
	claimErr   error
	releaseErr error
	noteSlot   string
	noteErr    error

	released []string
	noted    map[string]string
}

func (s *stubAdminRegistry) ActivePasses() []dto.ActivePassView { return s.active }

func (s *stubAdminRegistry) AdminForceRelease(slotID string) error {
	s.released = append(s.released, slotID)
	return s.releaseErr
}

func (s *stubAdminRegistry) AdminClaim(_ string) (*dto.SlotView, error) {
	return s.claimView, s.claimErr
}

func (s *stubAdminRegistry) AttachNote(raw, note string) (string, error) {
	if s.noted == nil {
		s.noted = map[string]string{}
	}
	s.noted[raw] = note
	return s.noteSlot, s.noteErr
}

func (s *stubAdminRegistry) AuditTrail() []models.AuditEntry { return s.audit }

func buildAdminRouter(registry *stubAdminRegistry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAdminHandler(registry)

	router := gin.New()
	router.GET("/admin/passes", h.ActivePasses)
	router.POST("/admin/passes/:slotId/checkin", h.ForceRelease)
	router.POST("/admin/passes/admin-slot", h.ClaimAdminSlot)
	router.PUT("/admin/passes/notes/:studentId", h.AttachNote)
	router.GET("/admin/audit", h.AuditTrail)
	return router
}

func TestAdminActivePasses(t *testing.T) {
	router := buildAdminRouter(&stubAdminRegistry{active: []dto.ActivePassView{
		{SlotID: "1", StudentID: 111, StudentName: "Alice Johnson", ClaimedAt: "08:40:00"},
	}})

	req, _ := http.NewRequest(http.MethodGet, "/admin/passes", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"pass_id":"1"`)
	assert.Contains(t, resp.Body.String(), `"student_name":"Alice Johnson"`)
	assert.Contains(t, resp.Body.String(), `"time_out":"08:40:00"`)
}

func TestAdminForceRelease(t *testing.T) {
	registry := &stubAdminRegistry{}
	router := buildAdminRouter(registry)

	req, _ := http.NewRequest(http.MethodPost, "/admin/passes/1/checkin", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []string{"1"}, registry.released)
	assert.Contains(t, resp.Body.String(), "Pass 1 manually checked in.")
}

func TestAdminForceReleaseConflict(t *testing.T) {
	registry := &stubAdminRegistry{releaseErr: appErrors.ErrSlotNotInUse}
	router := buildAdminRouter(registry)

	req, _ := http.NewRequest(http.MethodPost, "/admin/passes/2/checkin", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), `"code":"SLOT_NOT_IN_USE"`)
}

func TestAdminClaimSlot(t *testing.T) {
	registry := &stubAdminRegistry{claimView: &dto.SlotView{SlotID: "3", Status: string(models.SlotInUse), AdminOnly: true}}
	router := buildAdminRouter(registry)

	req, _ := http.NewRequest(http.MethodPost, "/admin/passes/admin-slot", bytes.NewBufferString(`{"student_id":"444"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)

	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Contains(t, resp.Body.String(), `"slot_id":"3"`)
}

func TestAdminClaimSlotInUse(t *testing.T) {
	registry := &stubAdminRegistry{claimErr: appErrors.ErrAdminSlotInUse}
	router := buildAdminRouter(registry)

	req, _ := http.NewRequest(http.MethodPost, "/admin/passes/admin-slot", bytes.NewBufferString(`{"student_id":"444"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)

	require.Equal(t, http.StatusConflict, resp.Code)
}

func TestAdminAttachNote(t *testing.T) {
	registry := &stubAdminRegistry{noteSlot: "1"}
	router := buildAdminRouter(registry)

	req, _ := http.NewRequest(http.MethodPut, "/admin/passes/notes/111", bytes.NewBufferString(`{"note":"nurse visit"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "nurse visit", registry.noted["111"])
	assert.Contains(t, resp.Body.String(), "Note saved to active Pass 1.")
}

func TestAdminAttachNoteNoActivePass(t *testing.T) {
	registry := &stubAdminRegistry{noteErr: appErrors.ErrNoActiveSlot}
	router := buildAdminRouter(registry)

	req, _ := http.NewRequest(http.MethodPut, "/admin/passes/notes/111", bytes.NewBufferString(`{"note":"late"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := performRequest(router, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestAdminAuditTrail(t *testing.T) {
	router := buildAdminRouter(&stubAdminRegistry{audit: []models.AuditEntry{
		{Time: "2026-03-02 08:40:00", StudentID: "999999", Reason: models.AuditReasonUnknownStudent},
	}})

	req, _ := http.NewRequest(http.MethodGet, "/admin/audit", nil)
	resp := performRequest(router, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"reason":"Invalid ID number"`)
}
