package user

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/iqnite-app/iqnite-api/internal/apperror"
	"github.com/iqnite-app/iqnite-api/internal/auth"
	"github.com/iqnite-app/iqnite-api/internal/config"
	"github.com/iqnite-app/iqnite-api/internal/mailer"
)

type TokenTTL struct {
	Access  time.Duration
	Refresh time.Duration
	OTP     time.Duration
	Reset   time.Duration
}

type UserService interface {
	Register(ctx context.Context, dto RegisterDTO) (*UserResponse, error)
	VerifyOTP(ctx context.Context, email, otp string) (*AuthResponse, error)
	ResendOTP(ctx context.Context, email string) error
	Login(ctx context.Context, usernameOrEmail, password string) (*AuthResponse, error)
	RefreshTokens(ctx context.Context, token string) (*TokenPair, error)
	Logout(ctx context.Context, userID, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	GoogleLogin(ctx context.Context, code string) (*AuthResponse, error)
	Me(ctx context.Context, userID string) (*UserResponse, error)
	ListUsers(ctx context.Context, limit, page int) ([]*UserResponse, error)
	SetUserActive(ctx context.Context, id string, active bool) (*UserResponse, error)
}

type userService struct {
	repo   UserRepository
	mail   mailer.Mailer
	google *oauth2.Config
	ttl    TokenTTL
}

func NewService(repo UserRepository, mail mailer.Mailer, google *oauth2.Config, ttl TokenTTL) UserService {
	return &userService{
		repo:   repo,
		mail:   mail,
		google: google,
		ttl:    ttl,
	}
}

func (s *userService) Register(ctx context.Context, dto RegisterDTO) (*UserResponse, error) {
	log := config.WithContext(ctx)

	if existing, err := s.repo.FindByEmail(dto.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", apperror.ErrConflict)
	}
	if existing, err := s.repo.FindByUsername(dto.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("%w: username already taken", apperror.ErrConflict)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:        dto.Email,
		Username:     dto.Username,
		PasswordHash: string(passwordHash),
		FirstName:    dto.FirstName,
		LastName:     dto.LastName,
		Role:         dto.Role,
		IsActive:     true,
		IsVerified:   false,
	}

	otp, err := s.assignOTP(u)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email or username already taken", apperror.ErrConflict)
		}
		return nil, err
	}

	log.WithField("user_id", u.ID.String()).Info("User registered, sending verification code")

	if err := s.mail.SendOTP(u.Email, otp); err != nil {
		log.WithError(err).Error("Failed to deliver verification mail")
		return nil, fmt.Errorf("%w: could not deliver verification mail", apperror.ErrUnavailable)
	}

	return toResponse(u), nil
}

func (s *userService) VerifyOTP(ctx context.Context, email, otp string) (*AuthResponse, error) {
	log := config.WithContext(ctx)

	u, err := s.repo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	switch {
	case u == nil:
		return nil, fmt.Errorf("%w: unknown email", apperror.ErrValidation)
	case u.IsVerified:
		return nil, fmt.Errorf("%w: account already verified", apperror.ErrValidation)
	case u.OTPHash == nil || u.OTPExpiresAt == nil:
		return nil, fmt.Errorf("%w: no verification code pending", apperror.ErrValidation)
	case time.Now().After(*u.OTPExpiresAt):
		return nil, fmt.Errorf("%w: verification code expired", apperror.ErrValidation)
	}

	if bcrypt.CompareHashAndPassword([]byte(*u.OTPHash), []byte(otp)) != nil {
		return nil, fmt.Errorf("%w: wrong verification code", apperror.ErrValidation)
	}

	u.IsVerified = true
	u.OTPHash = nil
	u.OTPExpiresAt = nil
	if err := s.repo.Update(u); err != nil {
		return nil, err
	}

	if err := s.mail.SendWelcome(u.Email, u.FirstName); err != nil {
		log.WithError(err).Warn("Failed to deliver welcome mail")
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		return nil, err
	}

	log.WithField("user_id", u.ID.String()).Info("Account verified")
	return &AuthResponse{User: toResponse(u), Tokens: tokens}, nil
}

func (s *userService) ResendOTP(ctx context.Context, email string) error {
	u, err := s.repo.FindByEmail(email)
	if err != nil {
		return err
	}
	if u == nil {
		return fmt.Errorf("%w: unknown email", apperror.ErrValidation)
	}
	if u.IsVerified {
		return fmt.Errorf("%w: account already verified", apperror.ErrValidation)
	}

	otp, err := s.assignOTP(u)
	if err != nil {
		return err
	}
	if err := s.repo.Update(u); err != nil {
		return err
	}

	if err := s.mail.SendOTP(u.Email, otp); err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to deliver verification mail")
		return fmt.Errorf("%w: could not deliver verification mail", apperror.ErrUnavailable)
	}
	return nil
}

func (s *userService) Login(ctx context.Context, usernameOrEmail, password string) (*AuthResponse, error) {
	log := config.WithContext(ctx)

	u, err := s.findByIdentifier(usernameOrEmail)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperror.ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperror.ErrUnauthorized)
	}
	if !u.IsActive {
		return nil, fmt.Errorf("%w: account disabled", apperror.ErrUnauthorized)
	}
	if !u.IsVerified {
		return nil, fmt.Errorf("%w: account not verified", apperror.ErrUnauthorized)
	}

	now := time.Now()
	u.LastLoginAt = &now
	if err := s.repo.Update(u); err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		return nil, err
	}

	log.WithField("user_id", u.ID.String()).Info("User logged in")
	return &AuthResponse{User: toResponse(u), Tokens: tokens}, nil
}

func (s *userService) RefreshTokens(ctx context.Context, token string) (*TokenPair, error) {
	if _, err := auth.ValidateJWT(token); err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", apperror.ErrUnauthorized)
	}

	stored, err := s.repo.FindRefreshToken(token)
	if err != nil {
		return nil, err
	}
	if stored == nil || time.Now().After(stored.ExpiresAt) {
		return nil, fmt.Errorf("%w: refresh token expired or revoked", apperror.ErrUnauthorized)
	}

	u, err := s.repo.FindByID(stored.UserID.String())
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive {
		return nil, fmt.Errorf("%w: account unavailable", apperror.ErrUnauthorized)
	}

	// rotation: the presented token is consumed before a new pair is issued
	if err := s.repo.DeleteRefreshToken(token); err != nil {
		return nil, err
	}

	return s.issueTokens(u)
}

func (s *userService) Logout(ctx context.Context, userID, token string) error {
	stored, err := s.repo.FindRefreshToken(token)
	if err != nil {
		return err
	}
	if stored == nil || stored.UserID.String() != userID {
		return nil
	}
	return s.repo.DeleteRefreshToken(token)
}

func (s *userService) ForgotPassword(ctx context.Context, email string) error {
	log := config.WithContext(ctx)

	u, err := s.repo.FindByEmail(email)
	if err != nil {
		return err
	}
	// the response never discloses whether the account exists
	if u == nil {
		return nil
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return err
	}
	token := hex.EncodeToString(raw)

	hash := hashToken(token)
	expires := time.Now().Add(s.ttl.Reset)
	u.ResetTokenHash = &hash
	u.ResetExpiresAt = &expires
	if err := s.repo.Update(u); err != nil {
		return err
	}

	if err := s.mail.SendPasswordReset(u.Email, token); err != nil {
		log.WithError(err).Error("Failed to deliver password reset mail")
	}
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, token, newPassword string) error {
	u, err := s.repo.FindByResetTokenHash(hashToken(token))
	if err != nil {
		return err
	}
	if u == nil || u.ResetExpiresAt == nil || time.Now().After(*u.ResetExpiresAt) {
		return fmt.Errorf("%w: invalid or expired reset token", apperror.ErrUnauthorized)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(passwordHash)
	u.ResetTokenHash = nil
	u.ResetExpiresAt = nil
	if err := s.repo.Update(u); err != nil {
		return err
	}

	// a password change invalidates every open refresh token
	return s.repo.DeleteRefreshTokensByUser(u.ID)
}

func (s *userService) GoogleLogin(ctx context.Context, code string) (*AuthResponse, error) {
	log := config.WithContext(ctx)

	if s.google == nil || s.google.ClientID == "" {
		return nil, fmt.Errorf("%w: google sign-in not configured", apperror.ErrUnavailable)
	}

	tok, err := s.google.Exchange(ctx, code)
	if err != nil {
		log.WithError(err).Warn("Google code exchange failed")
		return nil, fmt.Errorf("%w: google sign-in rejected", apperror.ErrUnauthorized)
	}

	resp, err := s.google.Client(ctx, tok).Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("%w: could not fetch google profile", apperror.ErrUnavailable)
	}
	defer resp.Body.Close()

	var info struct {
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.Email == "" {
		return nil, fmt.Errorf("%w: could not fetch google profile", apperror.ErrUnavailable)
	}

	email := strings.ToLower(info.Email)
	u, err := s.repo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		u, err = s.createGoogleUser(email, info.GivenName, info.FamilyName)
		if err != nil {
			return nil, err
		}
		log.WithField("user_id", u.ID.String()).Info("User provisioned via google sign-in")
	}
	if !u.IsActive {
		return nil, fmt.Errorf("%w: account disabled", apperror.ErrUnauthorized)
	}

	now := time.Now()
	u.LastLoginAt = &now
	if err := s.repo.Update(u); err != nil {
		return nil, err
	}

	tokens, err := s.issueTokens(u)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: toResponse(u), Tokens: tokens}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (*UserResponse, error) {
	u, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %s", apperror.ErrNotFound, userID)
	}
	return toResponse(u), nil
}

func (s *userService) ListUsers(ctx context.Context, limit, page int) ([]*UserResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}

	users, err := s.repo.List(limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, toResponse(u))
	}
	return responses, nil
}

func (s *userService) SetUserActive(ctx context.Context, id string, active bool) (*UserResponse, error) {
	u, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %s", apperror.ErrNotFound, id)
	}

	u.IsActive = active
	if err := s.repo.Update(u); err != nil {
		return nil, err
	}
	if !active {
		if err := s.repo.DeleteRefreshTokensByUser(u.ID); err != nil {
			return nil, err
		}
	}
	return toResponse(u), nil
}

// assignOTP puts a fresh code on the user (replacing any earlier one) and
// returns the plaintext for delivery. Only the bcrypt hash is stored.
func (s *userService) assignOTP(u *User) (string, error) {
	otp, err := generateOTP()
	if err != nil {
		return "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(otp), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	h := string(hash)
	expires := time.Now().Add(s.ttl.OTP)
	u.OTPHash = &h
	u.OTPExpiresAt = &expires
	return otp, nil
}

func (s *userService) issueTokens(u *User) (*TokenPair, error) {
	access, err := auth.GenerateJWT(u.ID.String(), u.Email, string(u.Role), s.ttl.Access)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.GenerateJWT(u.ID.String(), u.Email, string(u.Role), s.ttl.Refresh)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateRefreshToken(&RefreshToken{
		UserID:    u.ID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(s.ttl.Refresh),
	}); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *userService) findByIdentifier(identifier string) (*User, error) {
	identifier = strings.TrimSpace(identifier)
	if strings.Contains(identifier, "@") {
		return s.repo.FindByEmail(strings.ToLower(identifier))
	}
	return s.repo.FindByUsername(identifier)
}

func (s *userService) createGoogleUser(email, firstName, lastName string) (*User, error) {
	// google accounts arrive pre-verified; the local password is unusable
	random := make([]byte, 32)
	if _, err := rand.Read(random); err != nil {
		return nil, err
	}
	passwordHash, err := bcrypt.GenerateFromPassword(random, bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:        email,
		Username:     googleUsername(email),
		PasswordHash: string(passwordHash),
		FirstName:    firstName,
		LastName:     lastName,
		Role:         RoleParticipant,
		IsActive:     true,
		IsVerified:   true,
	}
	if err := s.repo.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

func googleUsername(email string) string {
	local := strings.SplitN(email, "@", 2)[0]
	suffix, _ := rand.Int(rand.Reader, big.NewInt(10000))
	return fmt.Sprintf("%s%04d", local, suffix.Int64())
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func toResponse(u *User) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		IsActive:    u.IsActive,
		IsVerified:  u.IsVerified,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}
