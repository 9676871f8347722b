package user

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/iqnite-app/iqnite-api/internal/apperror"
	"github.com/iqnite-app/iqnite-api/internal/auth"
)

type fakeUserRepo struct {
	users  map[string]User
	tokens map[string]RefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  make(map[string]User),
		tokens: make(map[string]RefreshToken),
	}
}

func (r *fakeUserRepo) Create(u *User) error {
	u.ID = uuid.New()
	r.users[u.ID.String()] = *u
	return nil
}

func (r *fakeUserRepo) FindByID(id string) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) findOne(match func(*User) bool) (*User, error) {
	for _, u := range r.users {
		if match(&u) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*User, error) {
	return r.findOne(func(u *User) bool { return u.Email == email })
}

func (r *fakeUserRepo) FindByUsername(username string) (*User, error) {
	return r.findOne(func(u *User) bool { return u.Username == username })
}

func (r *fakeUserRepo) FindByResetTokenHash(hash string) (*User, error) {
	return r.findOne(func(u *User) bool {
		return u.ResetTokenHash != nil && *u.ResetTokenHash == hash
	})
}

func (r *fakeUserRepo) Update(u *User) error {
	r.users[u.ID.String()] = *u
	return nil
}

func (r *fakeUserRepo) List(limit, offset int) ([]*User, error) {
	var out []*User
	for _, u := range r.users {
		u := u
		out = append(out, &u)
	}
	return out, nil
}

func (r *fakeUserRepo) CreateRefreshToken(t *RefreshToken) error {
	r.tokens[t.Token] = *t
	return nil
}

func (r *fakeUserRepo) FindRefreshToken(token string) (*RefreshToken, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *fakeUserRepo) DeleteRefreshToken(token string) error {
	delete(r.tokens, token)
	return nil
}

func (r *fakeUserRepo) DeleteRefreshTokensByUser(userID uuid.UUID) error {
	for token, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, token)
		}
	}
	return nil
}

type fakeMailer struct {
	otps        map[string]string
	resetTokens map[string]string
	welcomes    int
}

func (m *fakeMailer) SendOTP(to, code string) error {
	if m.otps == nil {
		m.otps = make(map[string]string)
	}
	m.otps[to] = code
	return nil
}

func (m *fakeMailer) SendWelcome(to, name string) error {
	m.welcomes++
	return nil
}

func (m *fakeMailer) SendPasswordReset(to, token string) error {
	if m.resetTokens == nil {
		m.resetTokens = make(map[string]string)
	}
	m.resetTokens[to] = token
	return nil
}

func newTestService(t *testing.T) (*fakeUserRepo, *fakeMailer, UserService) {
	t.Setenv("JWT_SECRET", "unit-test-secret")
	auth.Init()

	repo := newFakeUserRepo()
	mail := &fakeMailer{}
	service := NewService(repo, mail, nil, TokenTTL{
		Access:  15 * time.Minute,
		Refresh: 720 * time.Hour,
		OTP:     10 * time.Minute,
		Reset:   time.Hour,
	})
	return repo, mail, service
}

func registerDTO() RegisterDTO {
	return RegisterDTO{
		Email:     "ada@example.com",
		Username:  "ada",
		Password:  "correct horse battery",
		FirstName: "Ada",
		Role:      RoleOrganizer,
	}
}

// register and verify in one step; most flows start from a verified account
func verifiedUser(t *testing.T, mail *fakeMailer, service UserService) *AuthResponse {
	t.Helper()
	ctx := context.Background()

	if _, err := service.Register(ctx, registerDTO()); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	resp, err := service.VerifyOTP(ctx, "ada@example.com", mail.otps["ada@example.com"])
	if err != nil {
		t.Fatalf("VerifyOTP failed: %v", err)
	}
	return resp
}

func TestRegister(t *testing.T) {
	t.Run("StoresHashedPasswordOnly", func(t *testing.T) {
		repo, mail, service := newTestService(t)

		resp, err := service.Register(context.Background(), registerDTO())
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if resp.IsVerified {
			t.Error("New accounts must start unverified")
		}

		stored, _ := repo.FindByEmail("ada@example.com")
		if stored == nil {
			t.Fatal("Expected the user to be persisted")
		}
		if stored.PasswordHash == "correct horse battery" {
			t.Error("Password must not be stored in plaintext")
		}
		if bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse battery")) != nil {
			t.Error("Stored hash must verify against the original password")
		}

		raw, err := json.Marshal(resp)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if strings.Contains(strings.ToLower(string(raw)), "password") {
			t.Errorf("Response must not carry password material: %s", raw)
		}

		if mail.otps["ada@example.com"] == "" {
			t.Error("Expected a verification code to be mailed")
		}
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, _, service := newTestService(t)

		if _, err := service.Register(context.Background(), registerDTO()); err != nil {
			t.Fatalf("First register failed: %v", err)
		}
		dto := registerDTO()
		dto.Username = "someone-else"
		if _, err := service.Register(context.Background(), dto); !errors.Is(err, apperror.ErrConflict) {
			t.Fatalf("Expected ErrConflict for duplicate email, got %v", err)
		}
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		_, _, service := newTestService(t)

		if _, err := service.Register(context.Background(), registerDTO()); err != nil {
			t.Fatalf("First register failed: %v", err)
		}
		dto := registerDTO()
		dto.Email = "other@example.com"
		if _, err := service.Register(context.Background(), dto); !errors.Is(err, apperror.ErrConflict) {
			t.Fatalf("Expected ErrConflict for duplicate username, got %v", err)
		}
	})
}

func TestRegisterDTOValidate(t *testing.T) {
	dto := registerDTO()
	dto.Role = ""
	if err := dto.Validate(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if dto.Role != RoleParticipant {
		t.Errorf("Expected the role to default to PARTICIPANT, got %s", dto.Role)
	}

	admin := registerDTO()
	admin.Role = RoleAdmin
	if err := admin.Validate(); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Expected ErrValidation for self-registered admin, got %v", err)
	}
}

func TestVerifyOTP(t *testing.T) {
	ctx := context.Background()

	t.Run("WrongCode", func(t *testing.T) {
		_, _, service := newTestService(t)
		if _, err := service.Register(ctx, registerDTO()); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if _, err := service.VerifyOTP(ctx, "ada@example.com", "000000"); !errors.Is(err, apperror.ErrValidation) {
			t.Fatalf("Expected ErrValidation for a wrong code, got %v", err)
		}
	})

	t.Run("CorrectCode", func(t *testing.T) {
		repo, mail, service := newTestService(t)
		resp := verifiedUser(t, mail, service)

		if !resp.User.IsVerified {
			t.Error("Expected the account to be verified")
		}
		if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
			t.Error("Expected a token pair after verification")
		}
		if mail.welcomes != 1 {
			t.Errorf("Expected one welcome mail, got %d", mail.welcomes)
		}

		stored, _ := repo.FindByEmail("ada@example.com")
		if stored.OTPHash != nil || stored.OTPExpiresAt != nil {
			t.Error("Expected the code to be cleared after verification")
		}

		// a consumed code cannot verify again
		if _, err := service.VerifyOTP(ctx, "ada@example.com", mail.otps["ada@example.com"]); !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("Expected ErrValidation on re-verification, got %v", err)
		}
	})

	t.Run("ExpiredCode", func(t *testing.T) {
		repo, mail, service := newTestService(t)
		if _, err := service.Register(ctx, registerDTO()); err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		stored, _ := repo.FindByEmail("ada@example.com")
		past := time.Now().Add(-time.Minute)
		stored.OTPExpiresAt = &past
		repo.Update(stored)

		if _, err := service.VerifyOTP(ctx, "ada@example.com", mail.otps["ada@example.com"]); !errors.Is(err, apperror.ErrValidation) {
			t.Fatalf("Expected ErrValidation for an expired code, got %v", err)
		}
	})

	t.Run("ResendReplacesCode", func(t *testing.T) {
		_, mail, service := newTestService(t)
		if _, err := service.Register(ctx, registerDTO()); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		first := mail.otps["ada@example.com"]

		if err := service.ResendOTP(ctx, "ada@example.com"); err != nil {
			t.Fatalf("ResendOTP failed: %v", err)
		}
		second := mail.otps["ada@example.com"]

		if first != second {
			if _, err := service.VerifyOTP(ctx, "ada@example.com", first); !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Expected the first code to be invalidated, got %v", err)
			}
		}
		if _, err := service.VerifyOTP(ctx, "ada@example.com", second); err != nil {
			t.Errorf("Expected the latest code to verify, got %v", err)
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("UnverifiedAccount", func(t *testing.T) {
		_, _, service := newTestService(t)
		if _, err := service.Register(ctx, registerDTO()); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if _, err := service.Login(ctx, "ada", "correct horse battery"); !errors.Is(err, apperror.ErrUnauthorized) {
			t.Fatalf("Expected ErrUnauthorized before verification, got %v", err)
		}
	})

	t.Run("ByUsernameAndEmail", func(t *testing.T) {
		_, mail, service := newTestService(t)
		verifiedUser(t, mail, service)

		if _, err := service.Login(ctx, "ada", "correct horse battery"); err != nil {
			t.Errorf("Login by username failed: %v", err)
		}
		resp, err := service.Login(ctx, "ada@example.com", "correct horse battery")
		if err != nil {
			t.Fatalf("Login by email failed: %v", err)
		}
		if resp.User.LastLoginAt == nil {
			t.Error("Expected the login timestamp to be recorded")
		}

		claims, err := auth.ValidateJWT(resp.Tokens.AccessToken)
		if err != nil {
			t.Fatalf("Access token must validate: %v", err)
		}
		if claims.UserID != resp.User.ID.String() {
			t.Errorf("Expected subject %s, got %s", resp.User.ID, claims.UserID)
		}
		if claims.Email != "ada@example.com" || claims.Role != string(RoleOrganizer) {
			t.Errorf("Unexpected claims: email=%s role=%s", claims.Email, claims.Role)
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, mail, service := newTestService(t)
		verifiedUser(t, mail, service)

		if _, err := service.Login(ctx, "ada", "not the password"); !errors.Is(err, apperror.ErrUnauthorized) {
			t.Fatalf("Expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("UnknownIdentifier", func(t *testing.T) {
		_, _, service := newTestService(t)
		if _, err := service.Login(ctx, "nobody", "whatever"); !errors.Is(err, apperror.ErrUnauthorized) {
			t.Fatalf("Expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("DeactivatedAccount", func(t *testing.T) {
		_, mail, service := newTestService(t)
		resp := verifiedUser(t, mail, service)

		if _, err := service.SetUserActive(ctx, resp.User.ID.String(), false); err != nil {
			t.Fatalf("SetUserActive failed: %v", err)
		}
		if _, err := service.Login(ctx, "ada", "correct horse battery"); !errors.Is(err, apperror.ErrUnauthorized) {
			t.Fatalf("Expected ErrUnauthorized for a disabled account, got %v", err)
		}
	})
}

func TestRefreshRotation(t *testing.T) {
	ctx := context.Background()
	repo, mail, service := newTestService(t)
	first := verifiedUser(t, mail, service)

	second, err := service.RefreshTokens(ctx, first.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if second.RefreshToken == first.Tokens.RefreshToken {
		t.Fatal("Rotation must mint a new refresh token")
	}

	// the consumed token is gone for good
	if _, err := service.RefreshTokens(ctx, first.Tokens.RefreshToken); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("Expected ErrUnauthorized on token reuse, got %v", err)
	}

	if _, err := service.RefreshTokens(ctx, second.RefreshToken); err != nil {
		t.Fatalf("The freshly minted token must refresh: %v", err)
	}

	if _, err := service.RefreshTokens(ctx, "not-a-jwt"); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Fatalf("Expected ErrUnauthorized for a malformed token, got %v", err)
	}

	if _, ok := repo.tokens[first.Tokens.RefreshToken]; ok {
		t.Error("Expected the consumed token row to be deleted")
	}
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	repo, mail, service := newTestService(t)
	resp := verifiedUser(t, mail, service)

	if err := service.Logout(ctx, resp.User.ID.String(), resp.Tokens.RefreshToken); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, ok := repo.tokens[resp.Tokens.RefreshToken]; ok {
		t.Error("Expected the refresh token to be revoked")
	}
	if _, err := service.RefreshTokens(ctx, resp.Tokens.RefreshToken); !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("Expected ErrUnauthorized after logout, got %v", err)
	}
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("UnknownEmailIsSilent", func(t *testing.T) {
		_, mail, service := newTestService(t)
		if err := service.ForgotPassword(ctx, "ghost@example.com"); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(mail.resetTokens) != 0 {
			t.Error("No mail may be sent for an unknown address")
		}
	})

	t.Run("FullFlow", func(t *testing.T) {
		repo, mail, service := newTestService(t)
		resp := verifiedUser(t, mail, service)

		if err := service.ForgotPassword(ctx, "ada@example.com"); err != nil {
			t.Fatalf("ForgotPassword failed: %v", err)
		}
		token := mail.resetTokens["ada@example.com"]
		if token == "" {
			t.Fatal("Expected a reset token to be mailed")
		}

		stored, _ := repo.FindByEmail("ada@example.com")
		if stored.ResetTokenHash == nil || *stored.ResetTokenHash == token {
			t.Error("Only a hash of the reset token may be stored")
		}

		if err := service.ResetPassword(ctx, token, "a brand new password"); err != nil {
			t.Fatalf("ResetPassword failed: %v", err)
		}

		if _, err := service.Login(ctx, "ada", "correct horse battery"); !errors.Is(err, apperror.ErrUnauthorized) {
			t.Errorf("Expected the old password to be rejected, got %v", err)
		}
		if _, err := service.Login(ctx, "ada", "a brand new password"); err != nil {
			t.Errorf("Expected the new password to work, got %v", err)
		}

		// the change revokes every open refresh token
		if _, err := service.RefreshTokens(ctx, resp.Tokens.RefreshToken); !errors.Is(err, apperror.ErrUnauthorized) {
			t.Errorf("Expected ErrUnauthorized after the password change, got %v", err)
		}

		// the token is single-use
		if err := service.ResetPassword(ctx, token, "yet another password"); !errors.Is(err, apperror.ErrUnauthorized) {
			t.Errorf("Expected ErrUnauthorized on token reuse, got %v", err)
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		repo, mail, service := newTestService(t)
		verifiedUser(t, mail, service)

		if err := service.ForgotPassword(ctx, "ada@example.com"); err != nil {
			t.Fatalf("ForgotPassword failed: %v", err)
		}
		stored, _ := repo.FindByEmail("ada@example.com")
		past := time.Now().Add(-time.Minute)
		stored.ResetExpiresAt = &past
		repo.Update(stored)

		token := mail.resetTokens["ada@example.com"]
		if err := service.ResetPassword(ctx, token, "too late anyway"); !errors.Is(err, apperror.ErrUnauthorized) {
			t.Fatalf("Expected ErrUnauthorized for an expired token, got %v", err)
		}
	})
}

func TestSetUserActive(t *testing.T) {
	ctx := context.Background()
	repo, mail, service := newTestService(t)
	resp := verifiedUser(t, mail, service)

	deactivated, err := service.SetUserActive(ctx, resp.User.ID.String(), false)
	if err != nil {
		t.Fatalf("SetUserActive failed: %v", err)
	}
	if deactivated.IsActive {
		t.Error("Expected the account to be inactive")
	}
	if len(repo.tokens) != 0 {
		t.Error("Deactivation must revoke open refresh tokens")
	}

	reactivated, err := service.SetUserActive(ctx, resp.User.ID.String(), true)
	if err != nil {
		t.Fatalf("SetUserActive failed: %v", err)
	}
	if !reactivated.IsActive {
		t.Error("Expected the account to be active again")
	}
}
