package models

import "time"

// Audit actions recorded for admin-gated mutations.
const (
	AuditActionRoleGrant     = "ROLE_GRANT"
	AuditActionUserDelete    = "USER_DELETE"
	AuditActionClassStatus   = "CLASS_STATUS"
	AuditActionClassFeedback = "CLASS_FEEDBACK"
)

// AuditLog records who did what to which resource.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	ActorEmail *string   `db:"actor_email" json:"actor_email,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
