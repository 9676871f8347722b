package question

import (
	"github.com/iqnite-app/iqnite-api/internal/audit"
	"github.com/iqnite-app/iqnite-api/internal/blobstore"
	"github.com/iqnite-app/iqnite-api/internal/quiz"
)

type QuestionContainer struct {
	Handler *Handler
	Service QuestionService
	Repo    QuestionRepository
}

func NewQuestionContainer(
	repo QuestionRepository,
	quizService quiz.QuizService,
	images blobstore.Store,
	auditService audit.Service,
) *QuestionContainer {
	service := NewService(repo, quizService, images)
	handler := NewHandler(service, auditService)

	return &QuestionContainer{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
