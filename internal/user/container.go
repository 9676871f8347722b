package user

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/iqnite-app/iqnite-api/internal/audit"
	"github.com/iqnite-app/iqnite-api/internal/config"
	"github.com/iqnite-app/iqnite-api/internal/mailer"
)

type UserContainer struct {
	Handler *Handler
	Service UserService
	Repo    UserRepository
}

func NewUserContainer(db *gorm.DB, mail mailer.Mailer, auditService audit.Service) *UserContainer {
	repo := NewRepository(db)

	googleOAuth := &oauth2.Config{
		ClientID:     config.C.GoogleClientID,
		ClientSecret: config.C.GoogleClientSecret,
		RedirectURL:  config.C.GoogleRedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}

	service := NewService(repo, mail, googleOAuth, TokenTTL{
		Access:  config.C.AccessTokenTTL,
		Refresh: config.C.RefreshTokenTTL,
		OTP:     config.C.OTPTTL,
		Reset:   config.C.ResetTokenTTL,
	})
	handler := NewHandler(service, auditService)

	return &UserContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
