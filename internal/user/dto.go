package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iqnite-app/iqnite-api/internal/apperror"
)

type RegisterDTO struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role,omitempty"`
}

func (d *RegisterDTO) Validate() error {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	d.Username = strings.TrimSpace(d.Username)

	if !strings.Contains(d.Email, "@") {
		return fmt.Errorf("%w: invalid email", apperror.ErrValidation)
	}
	if len(d.Username) < 3 {
		return fmt.Errorf("%w: username must be at least 3 characters", apperror.ErrValidation)
	}
	if len(d.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", apperror.ErrValidation)
	}
	if d.Role == "" {
		d.Role = RoleParticipant
	}
	// admins are provisioned out of band, never self-registered
	if !d.Role.IsValid() || d.Role == RoleAdmin {
		return fmt.Errorf("%w: invalid role", apperror.ErrValidation)
	}
	return nil
}

type LoginDTO struct {
	UsernameOrEmail string `json:"username_or_email"`
	Password        string `json:"password"`
}

func (d *LoginDTO) Validate() error {
	if strings.TrimSpace(d.UsernameOrEmail) == "" || d.Password == "" {
		return fmt.Errorf("%w: credentials required", apperror.ErrValidation)
	}
	return nil
}

type VerifyOTPDTO struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (d *VerifyOTPDTO) Validate() error {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	if d.Email == "" || len(d.OTP) != 6 {
		return fmt.Errorf("%w: email and 6-digit code required", apperror.ErrValidation)
	}
	return nil
}

type EmailDTO struct {
	Email string `json:"email"`
}

func (d *EmailDTO) Validate() error {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	if !strings.Contains(d.Email, "@") {
		return fmt.Errorf("%w: invalid email", apperror.ErrValidation)
	}
	return nil
}

type RefreshDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d *RefreshDTO) Validate() error {
	if d.RefreshToken == "" {
		return fmt.Errorf("%w: refresh_token required", apperror.ErrValidation)
	}
	return nil
}

type ResetPasswordDTO struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (d *ResetPasswordDTO) Validate() error {
	if d.Token == "" {
		return fmt.Errorf("%w: token required", apperror.ErrValidation)
	}
	if len(d.NewPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", apperror.ErrValidation)
	}
	return nil
}

type GoogleLoginDTO struct {
	Code string `json:"code"`
}

func (d *GoogleLoginDTO) Validate() error {
	if d.Code == "" {
		return fmt.Errorf("%w: code required", apperror.ErrValidation)
	}
	return nil
}

type SetActiveDTO struct {
	IsActive *bool `json:"is_active"`
}

func (d *SetActiveDTO) Validate() error {
	if d.IsActive == nil {
		return fmt.Errorf("%w: is_active required", apperror.ErrValidation)
	}
	return nil
}

type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Role        Role       `json:"role"`
	IsActive    bool       `json:"is_active"`
	IsVerified  bool       `json:"is_verified"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	User   *UserResponse `json:"user"`
	Tokens *TokenPair    `json:"tokens"`
}
