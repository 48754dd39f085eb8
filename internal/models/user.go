package models

import (
	"time"
)

// Role names stored on the users table
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

// ValidRoles defines allowed user roles
var ValidRoles = map[string]bool{
	RoleAdmin:     true,
	RoleModerator: true,
	RoleUser:      true,
}

// Capability is a coarse permission checked by services instead of
// comparing role names at every call site.
type Capability string

const (
	// CapModerate covers comment moderation, content publishing and the
	// article translation workflow.
	CapModerate Capability = "moderate"
	// CapAdmin covers destructive admin operations and analytics.
	CapAdmin Capability = "admin"
)

var roleCapabilities = map[string]map[Capability]bool{
	RoleAdmin:     {CapModerate: true, CapAdmin: true},
	RoleModerator: {CapModerate: true},
	RoleUser:      {},
}

// User represents a portal account
type User struct {
	ID                   string     `json:"id" db:"id"`
	Email                string     `json:"email" db:"email"`
	Name                 string     `json:"name" db:"name"`
	PasswordHash         string     `json:"-" db:"password_hash"`
	Role                 string     `json:"role" db:"role"`
	PreferredLocale      string     `json:"preferred_locale" db:"preferred_locale"`
	Active               bool       `json:"active" db:"active"`
	TwoFactorSecret      *string    `json:"-" db:"two_factor_secret"`
	RecoveryCodes        *string    `json:"-" db:"two_factor_recovery_codes"`
	TwoFactorConfirmedAt *time.Time `json:"-" db:"two_factor_confirmed_at"`
	CreatedAt            time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at" db:"updated_at"`
}

// HasCapability reports whether the user's role grants the capability.
func (u *User) HasCapability(c Capability) bool {
	caps, ok := roleCapabilities[u.Role]
	if !ok {
		return false
	}
	return caps[c]
}

// IsStaff reports whether the user can moderate content.
func (u *User) IsStaff() bool {
	return u.HasCapability(CapModerate)
}

// TwoFactorEnabled reports whether 2FA setup has been confirmed.
func (u *User) TwoFactorEnabled() bool {
	return u.TwoFactorSecret != nil && u.TwoFactorConfirmedAt != nil
}
