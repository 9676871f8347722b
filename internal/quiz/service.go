package quiz

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/iqnite-app/iqnite-api/internal/apperror"
	"github.com/iqnite-app/iqnite-api/internal/config"
	"github.com/iqnite-app/iqnite-api/internal/user"
)

// QuestionStore is satisfied by the question repository; it lets Publish
// check for an empty quiz and Delete cascade without a package cycle.
type QuestionStore interface {
	CountByQuiz(quizID string) (int64, error)
	DeleteByQuiz(quizID string) error
}

type QuizService interface {
	Create(ctx context.Context, ownerID uuid.UUID, dto CreateQuizDTO) (*Quiz, error)
	Get(ctx context.Context, id string) (*Quiz, error)
	ListMine(ctx context.Context, ownerID uuid.UUID) ([]*Quiz, error)
	Update(ctx context.Context, id string, caller Caller, dto UpdateQuizDTO) (*Quiz, error)
	Delete(ctx context.Context, id string, caller Caller) error
	Publish(ctx context.Context, id string, caller Caller) (*Quiz, error)

	// Authorize loads a quiz and enforces ownership for mutating callers.
	Authorize(id string, caller Caller) (*Quiz, error)
}

// Caller identifies the authenticated requester for ownership checks.
type Caller struct {
	UserID uuid.UUID
	Role   user.Role
}

func (c Caller) owns(q *Quiz) bool {
	return q.OwnerID == c.UserID || c.Role == user.RoleAdmin
}

type quizService struct {
	repo      QuizRepository
	questions QuestionStore
}

func NewService(repo QuizRepository, questions QuestionStore) QuizService {
	return &quizService{repo: repo, questions: questions}
}

func (s *quizService) Create(ctx context.Context, ownerID uuid.UUID, dto CreateQuizDTO) (*Quiz, error) {
	log := config.WithContext(ctx)

	q := &Quiz{
		OwnerID:         ownerID,
		Title:           dto.Title,
		Description:     dto.Description,
		Status:          StatusDraft,
		PassingScore:    dto.PassingScore,
		DurationMinutes: dto.DurationMinutes,
		ShowAnswers:     dto.ShowAnswers,
		AllowReview:     true,
	}
	if dto.AllowReview != nil {
		q.AllowReview = *dto.AllowReview
	}

	if err := s.repo.Create(q); err != nil {
		return nil, err
	}

	log.WithField("quiz_id", q.ID.String()).Info("Quiz created")
	return q, nil
}

func (s *quizService) Get(ctx context.Context, id string) (*Quiz, error) {
	q, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("%w: quiz %s", apperror.ErrNotFound, id)
	}
	return q, nil
}

func (s *quizService) ListMine(ctx context.Context, ownerID uuid.UUID) ([]*Quiz, error) {
	return s.repo.FindByOwner(ownerID.String())
}

func (s *quizService) Update(ctx context.Context, id string, caller Caller, dto UpdateQuizDTO) (*Quiz, error) {
	q, err := s.Authorize(id, caller)
	if err != nil {
		return nil, err
	}

	if dto.Title != nil {
		q.Title = *dto.Title
	}
	if dto.Description != nil {
		q.Description = *dto.Description
	}
	if dto.PassingScore != nil {
		q.PassingScore = *dto.PassingScore
	}
	if dto.DurationMinutes != nil {
		q.DurationMinutes = *dto.DurationMinutes
	}
	if dto.ShowAnswers != nil {
		q.ShowAnswers = *dto.ShowAnswers
	}
	if dto.AllowReview != nil {
		q.AllowReview = *dto.AllowReview
	}

	if err := s.repo.Update(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *quizService) Delete(ctx context.Context, id string, caller Caller) error {
	log := config.WithContext(ctx)

	if _, err := s.Authorize(id, caller); err != nil {
		return err
	}
	if err := s.questions.DeleteByQuiz(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	log.WithField("quiz_id", id).Info("Quiz deleted")
	return nil
}

func (s *quizService) Publish(ctx context.Context, id string, caller Caller) (*Quiz, error) {
	q, err := s.Authorize(id, caller)
	if err != nil {
		return nil, err
	}

	count, err := s.questions.CountByQuiz(id)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: cannot publish a quiz without questions", apperror.ErrValidation)
	}

	q.Status = StatusPublished
	if err := s.repo.Update(q); err != nil {
		return nil, err
	}

	config.WithContext(ctx).WithField("quiz_id", id).Info("Quiz published")
	return q, nil
}

func (s *quizService) Authorize(id string, caller Caller) (*Quiz, error) {
	q, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("%w: quiz %s", apperror.ErrNotFound, id)
	}
	if !caller.owns(q) {
		return nil, fmt.Errorf("%w: quiz belongs to another organizer", apperror.ErrForbidden)
	}
	return q, nil
}
