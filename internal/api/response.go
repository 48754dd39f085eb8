package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/legal-portal-api/internal/service"
	"github.com/legal-portal-api/internal/validation"
)

// Error codes exposed in the response envelope
const (
	CodeValidationError     = "VALIDATION_ERROR"
	CodeUnauthenticated     = "UNAUTHENTICATED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeTooManyAttempts     = "TOO_MANY_ATTEMPTS"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeAccountDeactivated  = "ACCOUNT_DEACTIVATED"
	CodeDuplicate           = "DUPLICATE"
	CodeInvalidParent       = "INVALID_PARENT"
	CodeInvalidCode         = "INVALID_CODE"
	CodeTwoFactorMandatory  = "2FA_MANDATORY"
	CodeTwoFactorNotStaged  = "2FA_NOT_STAGED"
	CodeTwoFactorNotEnabled = "2FA_NOT_ENABLED"
	CodeServerError         = "SERVER_ERROR"
)

// envelope is the uniform response shape
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Code    string      `json:"code,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, envelope{Success: true, Message: message})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, envelope{Success: false, Code: code, Message: message})
	c.Abort()
}

func respondValidationErrors(c *gin.Context, errs []validation.ValidationError) {
	c.JSON(http.StatusUnprocessableEntity, envelope{
		Success: false,
		Code:    CodeValidationError,
		Message: "validation failed",
		Errors:  errs,
	})
	c.Abort()
}

func respondBindError(c *gin.Context) {
	respondError(c, http.StatusBadRequest, CodeValidationError, "malformed request body")
}

// respondServiceError maps service sentinel errors to HTTP responses.
// Unexpected errors become a 500, detailed only in development.
func (h *handlerBase) respondServiceError(c *gin.Context, err error) {
	var throttled *service.ThrottledError
	if errors.As(err, &throttled) {
		c.Header("Retry-After", strconv.Itoa(throttled.RetryAfterSeconds))
		c.JSON(http.StatusTooManyRequests, envelope{
			Success: false,
			Code:    CodeTooManyAttempts,
			Message: "too many login attempts",
			Data:    gin.H{"retry_after": throttled.RetryAfterSeconds},
		})
		c.Abort()
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, CodeInvalidCredentials, "invalid email or password")
	case errors.Is(err, service.ErrAccountDeactivated):
		respondError(c, http.StatusForbidden, CodeAccountDeactivated, "account is deactivated")
	case errors.Is(err, service.ErrEmailTaken):
		respondError(c, http.StatusBadRequest, CodeDuplicate, "email already in use")
	case errors.Is(err, service.ErrNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, "resource not found")
	case errors.Is(err, service.ErrForbidden):
		respondError(c, http.StatusForbidden, CodeForbidden, "insufficient privileges")
	case errors.Is(err, service.ErrInvalidParent):
		respondError(c, http.StatusBadRequest, CodeInvalidParent, "parent comment is invalid")
	case errors.Is(err, service.ErrInvalidCode):
		respondError(c, http.StatusBadRequest, CodeInvalidCode, "invalid two-factor code")
	case errors.Is(err, service.ErrTwoFactorMandatory):
		respondError(c, http.StatusForbidden, CodeTwoFactorMandatory, "two-factor auth is mandatory for this role")
	case errors.Is(err, service.ErrTwoFactorNotStaged):
		respondError(c, http.StatusBadRequest, CodeTwoFactorNotStaged, "no two-factor setup in progress")
	case errors.Is(err, service.ErrTwoFactorNotEnabled):
		respondError(c, http.StatusBadRequest, CodeTwoFactorNotEnabled, "two-factor auth is not enabled")
	case errors.Is(err, service.ErrInvalidLocale):
		respondValidationErrors(c, []validation.ValidationError{{Field: "locale", Message: "unsupported locale"}})
	case errors.Is(err, service.ErrNoTranslations):
		respondValidationErrors(c, []validation.ValidationError{{Field: "translations", Message: "at least one translation is required"}})
	default:
		h.respondInternalError(c, err)
	}
}

// respondInternalError logs the error and hides details in production
func (h *handlerBase) respondInternalError(c *gin.Context, err error) {
	h.log.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("unhandled error")

	resp := envelope{Success: false, Code: CodeServerError, Message: "internal server error"}
	if h.cfg.IsDevelopment() {
		resp.Errors = gin.H{"error": err.Error()}
	}
	c.JSON(http.StatusInternalServerError, resp)
	c.Abort()
}
