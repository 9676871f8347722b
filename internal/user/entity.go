package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email        string    `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Username     string    `gorm:"type:text;not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	FirstName    string    `gorm:"type:text" json:"first_name"`
	LastName     string    `gorm:"type:text" json:"last_name"`
	Role         Role      `gorm:"type:varchar(16);not null;default:'PARTICIPANT'" json:"role"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	IsVerified   bool      `gorm:"not null;default:false" json:"is_verified"`

	OTPHash        *string    `gorm:"type:text" json:"-"`
	OTPExpiresAt   *time.Time `json:"-"`
	ResetTokenHash *string    `gorm:"type:text;index" json:"-"`
	ResetExpiresAt *time.Time `json:"-"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// RefreshToken is one persisted refresh-token issuance. Rows are single-use:
// deleted on rotation or logout, rejected after ExpiresAt.
type RefreshToken struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string    `gorm:"type:text;not null;uniqueIndex" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
