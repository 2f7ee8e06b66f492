package models

import (
	"encoding/json"
	"time"
)

// Audit outcomes.
const (
	AuditAllowed = "ALLOWED"
	AuditDenied  = "DENIED"
	AuditFailed  = "FAILED"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID          string          `db:"id" json:"id"`
	PrincipalID *string         `db:"principal_id" json:"principal_id,omitempty"`
	Role        Role            `db:"role" json:"role"`
	Action      string          `db:"action" json:"action"`
	Resource    string          `db:"resource" json:"resource"`
	ResourceID  *string         `db:"resource_id" json:"resource_id,omitempty"`
	Outcome     string          `db:"outcome" json:"outcome"`
	Details     json.RawMessage `db:"details" json:"details,omitempty"`
	IPAddress   string          `db:"ip_address" json:"ip_address"`
	UserAgent   string          `db:"user_agent" json:"user_agent"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// AuditFilter narrows audit queries.
type AuditFilter struct {
	PrincipalID string
	Outcome     string
	Limit       int
}
