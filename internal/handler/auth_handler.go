package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evergreen-hs/hallpass-api/internal/dto"
	appErrors "github.com/evergreen-hs/hallpass-api/pkg/errors"
	"github.com/evergreen-hs/hallpass-api/pkg/response"
)

type authService interface {
	Login(req dto.LoginRequest) (*dto.LoginResponse, error)
	ChangePassword(req dto.ChangePasswordRequest) error
}

// AuthHandler exposes the admin session endpoints.
type AuthHandler struct {
	service authService
}

// NewAuthHandler builds the handler.
func NewAuthHandler(service authService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login godoc
// @Summary Admin login
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body dto.LoginRequest true "Admin password"
// @Success 200 {object} response.Envelope
// @Router /admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	result, err := h.service.Login(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// ChangePassword godoc
// @Summary Change the admin password
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ChangePasswordRequest true "Password rotation payload"
// @Success 200 {object} response.Envelope
// @Router /admin/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid password payload"))
		return
	}
	if err := h.service.ChangePassword(req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Password changed successfully!"})
}
