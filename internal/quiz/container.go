package quiz

import (
	"gorm.io/gorm"

	"github.com/iqnite-app/iqnite-api/internal/audit"
)

type QuizContainer struct {
	Handler *Handler
	Service QuizService
	Repo    QuizRepository
}

func NewQuizContainer(db *gorm.DB, questions QuestionStore, auditService audit.Service) *QuizContainer {
	repo := NewRepository(db)
	service := NewService(repo, questions)
	handler := NewHandler(service, auditService)

	return &QuizContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
