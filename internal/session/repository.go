package session

import (
	"errors"

	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(s *QuizSession) error
	FindByID(id string) (*QuizSession, error)
	FindInProgress(participantID, quizID string) (*QuizSession, error)
	FindCompletedByParticipant(participantID string) ([]*QuizSession, error)
	Update(s *QuizSession) error

	ListAnswers(sessionID string) ([]*AnsweredQuestion, error)
	// RecordAnswer inserts the answer row and bumps the session score in one
	// transaction; a duplicate (session, question) pair fails the whole call.
	RecordAnswer(ans *AnsweredQuestion) error
}

type sessionRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(s *QuizSession) error {
	return r.db.Create(s).Error
}

func (r *sessionRepository) FindByID(id string) (*QuizSession, error) {
	var s QuizSession
	if err := r.db.First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) FindInProgress(participantID, quizID string) (*QuizSession, error) {
	var s QuizSession
	err := r.db.First(&s,
		"participant_id = ? AND quiz_id = ? AND status = ?",
		participantID, quizID, StatusInProgress,
	).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) FindCompletedByParticipant(participantID string) ([]*QuizSession, error) {
	var sessions []*QuizSession
	if err := r.db.
		Where("participant_id = ? AND status = ?", participantID, StatusCompleted).
		Order("completed_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) Update(s *QuizSession) error {
	return r.db.Save(s).Error
}

func (r *sessionRepository) ListAnswers(sessionID string) ([]*AnsweredQuestion, error) {
	var answers []*AnsweredQuestion
	if err := r.db.
		Where("session_id = ?", sessionID).
		Order("answered_at ASC").
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *sessionRepository) RecordAnswer(ans *AnsweredQuestion) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ans).Error; err != nil {
			return err
		}
		return tx.Model(&QuizSession{}).
			Where("id = ?", ans.SessionID).
			Update("score", gorm.Expr("score + ?", ans.PointsEarned)).Error
	})
}
