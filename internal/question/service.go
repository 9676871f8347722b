package question

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/iqnite-app/iqnite-api/internal/apperror"
	"github.com/iqnite-app/iqnite-api/internal/blobstore"
	"github.com/iqnite-app/iqnite-api/internal/config"
	"github.com/iqnite-app/iqnite-api/internal/quiz"
)

type QuestionService interface {
	Create(ctx context.Context, caller quiz.Caller, dto CreateQuestionDTO) (*Question, error)
	BulkCreate(ctx context.Context, caller quiz.Caller, dto BulkCreateDTO) ([]*Question, error)
	Get(ctx context.Context, caller quiz.Caller, id string) (*Question, error)
	ListByQuiz(ctx context.Context, caller quiz.Caller, quizID string) ([]*Question, error)
	Update(ctx context.Context, caller quiz.Caller, id string, dto UpdateQuestionDTO) (*Question, error)
	Remove(ctx context.Context, caller quiz.Caller, id string) error

	UploadImage(ctx context.Context, caller quiz.Caller, id string, data string) (*Question, error)
	GetImage(ctx context.Context, id string) (string, error)
	DeleteImage(ctx context.Context, caller quiz.Caller, id string) error
}

// QuizAuthorizer is the slice of the quiz service questions need: load the
// parent quiz and enforce ownership.
type QuizAuthorizer interface {
	Authorize(id string, caller quiz.Caller) (*quiz.Quiz, error)
}

type questionService struct {
	repo    QuestionRepository
	quizzes QuizAuthorizer
	images  blobstore.Store
}

func NewService(repo QuestionRepository, quizzes QuizAuthorizer, images blobstore.Store) QuestionService {
	return &questionService{
		repo:    repo,
		quizzes: quizzes,
		images:  images,
	}
}

func (s *questionService) Create(ctx context.Context, caller quiz.Caller, dto CreateQuestionDTO) (*Question, error) {
	if _, err := s.quizzes.Authorize(dto.QuizID, caller); err != nil {
		return nil, err
	}

	orderIndex := 0
	if dto.OrderIndex != nil {
		orderIndex = *dto.OrderIndex
	} else {
		count, err := s.repo.CountByQuiz(dto.QuizID)
		if err != nil {
			return nil, err
		}
		orderIndex = int(count)
	}

	q, err := build(dto, uuid.MustParse(dto.QuizID), orderIndex)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(q); err != nil {
		return nil, err
	}

	config.WithContext(ctx).WithField("question_id", q.ID.String()).Info("Question created")
	return q, nil
}

func (s *questionService) BulkCreate(ctx context.Context, caller quiz.Caller, dto BulkCreateDTO) ([]*Question, error) {
	log := config.WithContext(ctx)

	if _, err := s.quizzes.Authorize(dto.QuizID, caller); err != nil {
		return nil, err
	}

	quizID := uuid.MustParse(dto.QuizID)
	questions := make([]*Question, 0, len(dto.Questions))
	for i, item := range dto.Questions {
		// positions without an explicit order follow the array
		orderIndex := i
		if item.OrderIndex != nil {
			orderIndex = *item.OrderIndex
		}
		q, err := build(item, quizID, orderIndex)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	if err := s.repo.CreateBatch(questions); err != nil {
		log.WithError(err).Error("Bulk question insert failed")
		return nil, err
	}

	log.WithField("quiz_id", dto.QuizID).Infof("Created %d questions", len(questions))
	return questions, nil
}

func (s *questionService) Get(ctx context.Context, caller quiz.Caller, id string) (*Question, error) {
	q, err := s.find(id)
	if err != nil {
		return nil, err
	}
	// the stored row carries the answer key, so reads are owner-only
	if _, err := s.quizzes.Authorize(q.QuizID.String(), caller); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *questionService) ListByQuiz(ctx context.Context, caller quiz.Caller, quizID string) ([]*Question, error) {
	if _, err := s.quizzes.Authorize(quizID, caller); err != nil {
		return nil, err
	}
	return s.repo.FindByQuiz(quizID)
}

func (s *questionService) Update(ctx context.Context, caller quiz.Caller, id string, dto UpdateQuestionDTO) (*Question, error) {
	q, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.quizzes.Authorize(q.QuizID.String(), caller); err != nil {
		return nil, err
	}

	if dto.Type != nil {
		q.Type = *dto.Type
	}
	if dto.Text != nil {
		q.Text = *dto.Text
	}
	if dto.Options != nil {
		options, err := encodeOptions(dto.Options)
		if err != nil {
			return nil, err
		}
		q.Options = options
	}
	if dto.CorrectAnswer != nil {
		q.CorrectAnswer = *dto.CorrectAnswer
	}
	if dto.Explanation != nil {
		q.Explanation = *dto.Explanation
	}
	if dto.Points != nil {
		q.Points = *dto.Points
	}
	if dto.OrderIndex != nil {
		q.OrderIndex = *dto.OrderIndex
	}

	if err := s.repo.Update(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *questionService) Remove(ctx context.Context, caller quiz.Caller, id string) error {
	log := config.WithContext(ctx)

	q, err := s.find(id)
	if err != nil {
		return err
	}
	if _, err := s.quizzes.Authorize(q.QuizID.String(), caller); err != nil {
		return err
	}

	if q.ImageID != nil {
		if err := s.images.Delete(ctx, *q.ImageID); err != nil {
			log.WithError(err).Warn("Orphaned image blob left behind")
		}
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	log.WithField("question_id", id).Info("Question removed")
	return nil
}

func (s *questionService) UploadImage(ctx context.Context, caller quiz.Caller, id string, data string) (*Question, error) {
	q, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.quizzes.Authorize(q.QuizID.String(), caller); err != nil {
		return nil, err
	}

	imageID := uuid.New().String()
	if q.ImageID != nil {
		imageID = *q.ImageID
	}
	if err := s.images.Put(ctx, imageID, data); err != nil {
		return nil, err
	}

	q.ImageID = &imageID
	if err := s.repo.Update(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *questionService) GetImage(ctx context.Context, id string) (string, error) {
	q, err := s.find(id)
	if err != nil {
		return "", err
	}
	if q.ImageID == nil {
		return "", fmt.Errorf("%w: question has no image", apperror.ErrNotFound)
	}
	return s.images.Get(ctx, *q.ImageID)
}

func (s *questionService) DeleteImage(ctx context.Context, caller quiz.Caller, id string) error {
	q, err := s.find(id)
	if err != nil {
		return err
	}
	if _, err := s.quizzes.Authorize(q.QuizID.String(), caller); err != nil {
		return err
	}
	if q.ImageID == nil {
		return fmt.Errorf("%w: question has no image", apperror.ErrNotFound)
	}

	if err := s.images.Delete(ctx, *q.ImageID); err != nil {
		return err
	}
	q.ImageID = nil
	return s.repo.Update(q)
}

func (s *questionService) find(id string) (*Question, error) {
	q, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("%w: question %s", apperror.ErrNotFound, id)
	}
	return q, nil
}

func build(dto CreateQuestionDTO, quizID uuid.UUID, orderIndex int) (*Question, error) {
	options, err := encodeOptions(dto.Options)
	if err != nil {
		return nil, err
	}

	points := dto.Points
	if points == 0 {
		points = 1
	}

	return &Question{
		QuizID:        quizID,
		Type:          dto.Type,
		Text:          dto.Text,
		Options:       options,
		CorrectAnswer: dto.CorrectAnswer,
		Explanation:   dto.Explanation,
		Points:        points,
		OrderIndex:    orderIndex,
	}, nil
}
