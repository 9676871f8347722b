package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/iqnite-app/iqnite-api/internal/apperror"
	"github.com/iqnite-app/iqnite-api/internal/config"
	"github.com/iqnite-app/iqnite-api/internal/question"
	"github.com/iqnite-app/iqnite-api/internal/quiz"
)

type SessionService interface {
	Start(ctx context.Context, participantID uuid.UUID, quizID string) (*StartResponse, error)
	SubmitAnswer(ctx context.Context, participantID uuid.UUID, sessionID string, dto SubmitAnswerDTO) (*SubmitResponse, error)
	Complete(ctx context.Context, participantID uuid.UUID, sessionID string) (*CompleteResponse, error)
	Get(ctx context.Context, participantID uuid.UUID, sessionID string) (*StartResponse, error)
	MyResults(ctx context.Context, participantID uuid.UUID) ([]ResultItem, error)
}

// QuizFinder and QuestionSource are the slices of the quiz and question
// repositories that sessions read from.
type QuizFinder interface {
	FindByID(id string) (*quiz.Quiz, error)
}

type QuestionSource interface {
	FindByID(id string) (*question.Question, error)
	FindByQuiz(quizID string) ([]*question.Question, error)
	CountByQuiz(quizID string) (int64, error)
}

type sessionService struct {
	repo      SessionRepository
	quizzes   QuizFinder
	questions QuestionSource
}

func NewService(repo SessionRepository, quizzes QuizFinder, questions QuestionSource) SessionService {
	return &sessionService{
		repo:      repo,
		quizzes:   quizzes,
		questions: questions,
	}
}

func (s *sessionService) Start(ctx context.Context, participantID uuid.UUID, quizID string) (*StartResponse, error) {
	log := config.WithContext(ctx)

	qz, err := s.quizzes.FindByID(quizID)
	if err != nil {
		return nil, err
	}
	if qz == nil || qz.Status != quiz.StatusPublished {
		return nil, fmt.Errorf("%w: quiz %s", apperror.ErrNotFound, quizID)
	}

	questions, err := s.questions.FindByQuiz(quizID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: quiz has no questions", apperror.ErrNotFound)
	}

	existing, err := s.repo.FindInProgress(participantID.String(), quizID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		answered, err := s.repo.ListAnswers(existing.ID.String())
		if err != nil {
			return nil, err
		}
		log.WithField("session_id", existing.ID.String()).Info("Resuming quiz session")
		return &StartResponse{
			Session:   existing,
			Quiz:      summarize(qz, len(questions)),
			Questions: orderedViews(questions, existing.QuestionOrder),
			Answered:  answered,
			Resumed:   true,
		}, nil
	}

	totalPoints := 0
	for _, q := range questions {
		totalPoints += q.Points
	}

	order, err := shuffledOrder(questions)
	if err != nil {
		return nil, err
	}

	sess := &QuizSession{
		QuizID:        qz.ID,
		ParticipantID: participantID,
		Status:        StatusInProgress,
		Score:         0,
		TotalPoints:   totalPoints,
		QuestionOrder: order,
	}
	if err := s.repo.Create(sess); err != nil {
		return nil, err
	}

	log.WithField("session_id", sess.ID.String()).Info("Quiz session started")
	return &StartResponse{
		Session:   sess,
		Quiz:      summarize(qz, len(questions)),
		Questions: orderedViews(questions, order),
	}, nil
}

func (s *sessionService) SubmitAnswer(ctx context.Context, participantID uuid.UUID, sessionID string, dto SubmitAnswerDTO) (*SubmitResponse, error) {
	sess, err := s.authorize(sessionID, participantID)
	if err != nil {
		return nil, err
	}
	if sess.Status != StatusInProgress {
		return nil, fmt.Errorf("%w: session is not in progress", apperror.ErrConflict)
	}

	q, err := s.questions.FindByID(dto.QuestionID)
	if err != nil {
		return nil, err
	}
	if q == nil || q.QuizID != sess.QuizID {
		return nil, fmt.Errorf("%w: question %s", apperror.ErrNotFound, dto.QuestionID)
	}

	answered, err := s.repo.ListAnswers(sessionID)
	if err != nil {
		return nil, err
	}
	for _, a := range answered {
		if a.QuestionID == q.ID {
			return nil, fmt.Errorf("%w: question already answered", apperror.ErrConflict)
		}
	}

	correct := question.CheckAnswer(q, dto.Answer)
	points := 0
	if correct {
		points = q.Points
	}

	ans := &AnsweredQuestion{
		SessionID:    sess.ID,
		QuestionID:   q.ID,
		Answer:       dto.Answer,
		IsCorrect:    correct,
		PointsEarned: points,
	}
	if err := s.repo.RecordAnswer(ans); err != nil {
		// two racing submissions: the storage constraint wins
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: question already answered", apperror.ErrConflict)
		}
		return nil, err
	}

	response := &SubmitResponse{
		QuestionID:   q.ID,
		Correct:      correct,
		PointsEarned: points,
		Score:        sess.Score + points,
	}

	qz, err := s.quizzes.FindByID(sess.QuizID.String())
	if err != nil {
		return nil, err
	}
	total, err := s.questions.CountByQuiz(sess.QuizID.String())
	if err != nil {
		return nil, err
	}

	lastQuestion := int64(len(answered))+1 >= total
	if qz != nil && (qz.ShowAnswers || lastQuestion) {
		response.CorrectAnswer = &q.CorrectAnswer
		if q.Explanation != "" {
			response.Explanation = &q.Explanation
		}
	}

	return response, nil
}

func (s *sessionService) Complete(ctx context.Context, participantID uuid.UUID, sessionID string) (*CompleteResponse, error) {
	log := config.WithContext(ctx)

	sess, err := s.authorize(sessionID, participantID)
	if err != nil {
		return nil, err
	}
	if sess.Status == StatusCompleted {
		return nil, fmt.Errorf("%w: session already completed", apperror.ErrConflict)
	}

	qz, err := s.quizzes.FindByID(sess.QuizID.String())
	if err != nil {
		return nil, err
	}
	if qz == nil {
		return nil, fmt.Errorf("%w: quiz %s", apperror.ErrNotFound, sess.QuizID)
	}

	now := time.Now()
	sess.Status = StatusCompleted
	sess.CompletedAt = &now
	sess.TimeSpentSeconds = int(now.Sub(sess.StartedAt).Seconds())
	if sess.TotalPoints > 0 {
		sess.Percentage = float64(sess.Score) / float64(sess.TotalPoints) * 100
	}
	sess.Passed = sess.Percentage >= qz.PassingScore

	if err := s.repo.Update(sess); err != nil {
		return nil, err
	}

	response := &CompleteResponse{Session: sess}
	if qz.AllowReview {
		review, err := s.buildReview(sessionID)
		if err != nil {
			return nil, err
		}
		response.Review = review
	}

	log.WithField("session_id", sessionID).
		WithField("passed", sess.Passed).
		Info("Quiz session completed")
	return response, nil
}

func (s *sessionService) Get(ctx context.Context, participantID uuid.UUID, sessionID string) (*StartResponse, error) {
	sess, err := s.authorize(sessionID, participantID)
	if err != nil {
		return nil, err
	}

	qz, err := s.quizzes.FindByID(sess.QuizID.String())
	if err != nil {
		return nil, err
	}
	if qz == nil {
		return nil, fmt.Errorf("%w: quiz %s", apperror.ErrNotFound, sess.QuizID)
	}

	questions, err := s.questions.FindByQuiz(sess.QuizID.String())
	if err != nil {
		return nil, err
	}
	answered, err := s.repo.ListAnswers(sessionID)
	if err != nil {
		return nil, err
	}

	return &StartResponse{
		Session:   sess,
		Quiz:      summarize(qz, len(questions)),
		Questions: orderedViews(questions, sess.QuestionOrder),
		Answered:  answered,
		Resumed:   sess.Status == StatusInProgress,
	}, nil
}

func (s *sessionService) MyResults(ctx context.Context, participantID uuid.UUID) ([]ResultItem, error) {
	sessions, err := s.repo.FindCompletedByParticipant(participantID.String())
	if err != nil {
		return nil, err
	}

	results := make([]ResultItem, 0, len(sessions))
	for _, sess := range sessions {
		title := ""
		if qz, err := s.quizzes.FindByID(sess.QuizID.String()); err == nil && qz != nil {
			title = qz.Title
		}
		results = append(results, ResultItem{
			SessionID:   sess.ID,
			QuizID:      sess.QuizID,
			QuizTitle:   title,
			Score:       sess.Score,
			TotalPoints: sess.TotalPoints,
			Percentage:  sess.Percentage,
			Passed:      sess.Passed,
			StartedAt:   sess.StartedAt,
			CompletedAt: sess.CompletedAt,
		})
	}
	return results, nil
}

func (s *sessionService) authorize(sessionID string, participantID uuid.UUID) (*QuizSession, error) {
	sess, err := s.repo.FindByID(sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("%w: session %s", apperror.ErrNotFound, sessionID)
	}
	if sess.ParticipantID != participantID {
		return nil, fmt.Errorf("%w: session belongs to another participant", apperror.ErrForbidden)
	}
	return sess, nil
}

func (s *sessionService) buildReview(sessionID string) ([]ReviewItem, error) {
	answers, err := s.repo.ListAnswers(sessionID)
	if err != nil {
		return nil, err
	}

	review := make([]ReviewItem, 0, len(answers))
	for _, a := range answers {
		q, err := s.questions.FindByID(a.QuestionID.String())
		if err != nil {
			return nil, err
		}
		if q == nil {
			continue
		}
		review = append(review, ReviewItem{
			QuestionID:    a.QuestionID,
			Text:          q.Text,
			Answer:        a.Answer,
			Correct:       a.IsCorrect,
			PointsEarned:  a.PointsEarned,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}
	return review, nil
}

func summarize(qz *quiz.Quiz, questionCount int) QuizSummary {
	return QuizSummary{
		ID:              qz.ID,
		Title:           qz.Title,
		Description:     qz.Description,
		PassingScore:    qz.PassingScore,
		DurationMinutes: qz.DurationMinutes,
		QuestionCount:   questionCount,
	}
}

func shuffledOrder(questions []*question.Question) ([]byte, error) {
	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.ID.String()
	}
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return json.Marshal(ids)
}

// orderedViews redacts the answer key and replays the stored presentation
// order; questions missing from the stored order (added after start) are
// appended in their authoring order.
func orderedViews(questions []*question.Question, order []byte) []QuestionView {
	byID := make(map[string]*question.Question, len(questions))
	for _, q := range questions {
		byID[q.ID.String()] = q
	}

	var ids []string
	_ = json.Unmarshal(order, &ids)

	views := make([]QuestionView, 0, len(questions))
	seen := make(map[string]bool, len(questions))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			views = append(views, view(q))
			seen[id] = true
		}
	}
	for _, q := range questions {
		if !seen[q.ID.String()] {
			views = append(views, view(q))
		}
	}
	return views
}

func view(q *question.Question) QuestionView {
	return QuestionView{
		ID:      q.ID,
		Type:    string(q.Type),
		Text:    q.Text,
		Options: q.Options,
		Points:  q.Points,
		ImageID: q.ImageID,
	}
}
