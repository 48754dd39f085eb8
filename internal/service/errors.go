package service

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to response codes at the API boundary
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountDeactivated  = errors.New("account is deactivated")
	ErrEmailTaken          = errors.New("email already in use")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidParent       = errors.New("parent comment is invalid")
	ErrInvalidCode         = errors.New("invalid two-factor code")
	ErrTwoFactorRequired   = errors.New("two-factor code required")
	ErrTwoFactorMandatory  = errors.New("two-factor auth is mandatory for this role")
	ErrTwoFactorNotStaged  = errors.New("no two-factor secret staged")
	ErrTwoFactorNotEnabled = errors.New("two-factor auth is not enabled")
	ErrInvalidLocale       = errors.New("unsupported locale")
	ErrNoTranslations      = errors.New("at least one translation is required")
)

// ThrottledError reports a login lockout with its remaining duration.
type ThrottledError struct {
	RetryAfterSeconds int
}

func (e *ThrottledError) Error() string {
	return fmt.Sprintf("too many attempts, retry after %d seconds", e.RetryAfterSeconds)
}
