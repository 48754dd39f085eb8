package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/legal-portal-api/internal/config"
	"github.com/legal-portal-api/internal/service"
	"github.com/legal-portal-api/internal/validation"
)

// handlerBase carries the dependencies every handler needs
type handlerBase struct {
	cfg *config.Config
	log zerolog.Logger
}

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	handlerBase
	auth      service.AuthService
	validator *validation.Validator
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(services *service.Services, cfg *config.Config, validator *validation.Validator, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		handlerBase: handlerBase{cfg: cfg, log: log.With().Str("handler", "auth").Logger()},
		auth:        services.Auth,
		validator:   validator,
	}
}

type registerRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	PreferredLocale string `json:"preferred_locale" validate:"omitempty,locale"`
}

type loginRequest struct {
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required"`
	TwoFactorCode string `json:"two_factor_code" validate:"omitempty,len=6,numeric"`
	RecoveryCode  string `json:"recovery_code" validate:"omitempty,min=8,max=16"`
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}
	if errs := h.validator.Struct(req); errs != nil {
		respondValidationErrors(c, errs)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Email:           req.Email,
		Name:            req.Name,
		Password:        req.Password,
		PreferredLocale: req.PreferredLocale,
	}, requestMeta(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondCreated(c, gin.H{"user": user})
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}
	if errs := h.validator.Struct(req); errs != nil {
		respondValidationErrors(c, errs)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:         req.Email,
		Password:      req.Password,
		TwoFactorCode: req.TwoFactorCode,
		RecoveryCode:  req.RecoveryCode,
	}, requestMeta(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	if result.RequiresTwoFactor {
		respondOK(c, gin.H{"requires_2fa": true})
		return
	}

	respondOK(c, gin.H{
		"user":  result.User,
		"token": result.Token,
	})
}

// Logout handles POST /v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, CodeUnauthenticated, "authentication required")
		return
	}

	if err := h.auth.Logout(c.Request.Context(), user, requestMeta(c)); err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondMessage(c, "logged out")
}

// Me handles GET /v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		respondError(c, http.StatusUnauthorized, CodeUnauthenticated, "authentication required")
		return
	}
	respondOK(c, gin.H{"user": user})
}
