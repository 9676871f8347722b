package container

import (
	"context"
	"log"

	"github.com/iqnite-app/iqnite-api/internal/audit"
	"github.com/iqnite-app/iqnite-api/internal/auth"
	"github.com/iqnite-app/iqnite-api/internal/blobstore"
	"github.com/iqnite-app/iqnite-api/internal/config"
	"github.com/iqnite-app/iqnite-api/internal/mailer"
	"github.com/iqnite-app/iqnite-api/internal/question"
	"github.com/iqnite-app/iqnite-api/internal/quiz"
	"github.com/iqnite-app/iqnite-api/internal/session"
	"github.com/iqnite-app/iqnite-api/internal/user"
)

type Container struct {
	UserContainer     *user.UserContainer
	QuizContainer     *quiz.QuizContainer
	QuestionContainer *question.QuestionContainer
	SessionContainer  *session.SessionContainer
	AuditContainer    *audit.AuditContainer
}

func New() *Container {
	config.Init()
	config.InitLogger()
	auth.Init()

	if err := config.Connect(context.Background(), config.C.DatabaseDSN); err != nil {
		log.Fatalf("failed to connect to DB: %v", err)
	}
	if err := migrate(); err != nil {
		log.Fatalf("failed to migrate DB: %v", err)
	}

	images := blobstore.NewRedisStore(blobstore.MustConnect(
		config.C.RedisAddr,
		config.C.RedisPassword,
		config.C.RedisDB,
	))
	mail := mailer.NewSMTP(
		config.C.SMTPHost,
		config.C.SMTPPort,
		config.C.SMTPUser,
		config.C.SMTPPassword,
		config.C.MailFrom,
	)

	auditContainer := audit.NewAuditContainer(config.DB)
	userContainer := user.NewUserContainer(config.DB, mail, auditContainer.Service)

	questionRepo := question.NewRepository(config.DB)
	quizContainer := quiz.NewQuizContainer(config.DB, questionRepo, auditContainer.Service)
	questionContainer := question.NewQuestionContainer(
		questionRepo,
		quizContainer.Service,
		images,
		auditContainer.Service,
	)
	sessionContainer := session.NewSessionContainer(config.DB, quizContainer.Repo, questionRepo)

	return &Container{
		UserContainer:     userContainer,
		QuizContainer:     quizContainer,
		QuestionContainer: questionContainer,
		SessionContainer:  sessionContainer,
		AuditContainer:    auditContainer,
	}
}

func migrate() error {
	return config.DB.AutoMigrate(
		&user.User{},
		&user.RefreshToken{},
		&quiz.Quiz{},
		&question.Question{},
		&session.QuizSession{},
		&session.AnsweredQuestion{},
		&audit.AuditLog{},
	)
}
