package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog is one administrative action. Rows are append-only: there is no
// update or delete path anywhere in this package.
type AuditLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Action     string         `gorm:"type:varchar(64);not null" json:"action"`
	TargetType string         `gorm:"type:varchar(64);not null;index:idx_audit_target" json:"target_type"`
	TargetID   string         `gorm:"type:text;index:idx_audit_target" json:"target_id"`
	Details    datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"`
	IP         string         `gorm:"type:text" json:"ip"`
	UserAgent  string         `gorm:"type:text" json:"user_agent"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}
