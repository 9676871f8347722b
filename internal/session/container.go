package session

import (
	"gorm.io/gorm"

	"github.com/iqnite-app/iqnite-api/internal/question"
	"github.com/iqnite-app/iqnite-api/internal/quiz"
)

type SessionContainer struct {
	Handler *Handler
	Service SessionService
	Repo    SessionRepository
}

func NewSessionContainer(
	db *gorm.DB,
	quizRepo quiz.QuizRepository,
	questionRepo question.QuestionRepository,
) *SessionContainer {
	repo := NewRepository(db)
	service := NewService(repo, quizRepo, questionRepo)
	handler := NewHandler(service)

	return &SessionContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
