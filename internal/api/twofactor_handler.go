package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/legal-portal-api/internal/config"
	"github.com/legal-portal-api/internal/service"
	"github.com/legal-portal-api/internal/validation"
)

// TwoFactorHandler handles TOTP enrollment and management
type TwoFactorHandler struct {
	handlerBase
	twoFactor service.TwoFactorService
	validator *validation.Validator
}

// NewTwoFactorHandler creates a 2FA handler
func NewTwoFactorHandler(services *service.Services, cfg *config.Config, validator *validation.Validator, log zerolog.Logger) *TwoFactorHandler {
	return &TwoFactorHandler{
		handlerBase: handlerBase{cfg: cfg, log: log.With().Str("handler", "2fa").Logger()},
		twoFactor:   services.TwoFactor,
		validator:   validator,
	}
}

type twoFactorCodeRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// Enable handles POST /v1/2fa/enable: stages a new secret and returns the
// provisioning QR code
func (h *TwoFactorHandler) Enable(c *gin.Context) {
	setup, err := h.twoFactor.GenerateSecret(c.Request.Context(), currentUser(c), requestMeta(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, setup)
}

// Confirm handles POST /v1/2fa/confirm: verifies the first code and returns
// the recovery codes, shown exactly once
func (h *TwoFactorHandler) Confirm(c *gin.Context) {
	var req twoFactorCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}
	if errs := h.validator.Struct(req); errs != nil {
		respondValidationErrors(c, errs)
		return
	}

	codes, err := h.twoFactor.ConfirmSetup(c.Request.Context(), currentUser(c), req.Code, requestMeta(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"recovery_codes": codes})
}

// Disable handles DELETE /v1/2fa/disable
func (h *TwoFactorHandler) Disable(c *gin.Context) {
	var req twoFactorCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}
	if errs := h.validator.Struct(req); errs != nil {
		respondValidationErrors(c, errs)
		return
	}

	if err := h.twoFactor.Disable(c.Request.Context(), currentUser(c), req.Code, requestMeta(c)); err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondMessage(c, "two-factor auth disabled")
}

// RegenerateRecoveryCodes handles POST /v1/2fa/recovery-codes
func (h *TwoFactorHandler) RegenerateRecoveryCodes(c *gin.Context) {
	var req twoFactorCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}
	if errs := h.validator.Struct(req); errs != nil {
		respondValidationErrors(c, errs)
		return
	}

	codes, err := h.twoFactor.RegenerateRecoveryCodes(c.Request.Context(), currentUser(c), req.Code, requestMeta(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"recovery_codes": codes})
}

// Status handles GET /v1/2fa/status
func (h *TwoFactorHandler) Status(c *gin.Context) {
	respondOK(c, h.twoFactor.Status(currentUser(c)))
}
