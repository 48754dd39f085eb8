package models

import (
	"encoding/json"
	"time"
)

// Activity log actions
const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionLogin   = "login"
	ActionLogout  = "logout"
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionEnable  = "enable_2fa"
	ActionDisable = "disable_2fa"
)

// ActivityLog is an append-only audit record. The application never
// mutates or deletes rows after insert.
type ActivityLog struct {
	ID          string          `json:"id" db:"id"`
	UserID      *string         `json:"user_id,omitempty" db:"user_id"`
	Action      string          `json:"action" db:"action"`
	ModelType   string          `json:"model_type" db:"model_type"`
	ModelID     string          `json:"model_id" db:"model_id"`
	OldValues   json.RawMessage `json:"old_values,omitempty" db:"old_values"`
	NewValues   json.RawMessage `json:"new_values,omitempty" db:"new_values"`
	IPAddress   string          `json:"ip_address" db:"ip_address"`
	UserAgent   string          `json:"user_agent" db:"user_agent"`
	Description string          `json:"description" db:"description"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
