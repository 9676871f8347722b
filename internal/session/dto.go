package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/iqnite-app/iqnite-api/internal/apperror"
)

type StartDTO struct {
	QuizID string `json:"quiz_id"`
}

func (d *StartDTO) Validate() error {
	if _, err := uuid.Parse(d.QuizID); err != nil {
		return fmt.Errorf("%w: valid quiz_id required", apperror.ErrValidation)
	}
	return nil
}

type SubmitAnswerDTO struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

func (d *SubmitAnswerDTO) Validate() error {
	if _, err := uuid.Parse(d.QuestionID); err != nil {
		return fmt.Errorf("%w: valid question_id required", apperror.ErrValidation)
	}
	if d.Answer == "" {
		return fmt.Errorf("%w: answer required", apperror.ErrValidation)
	}
	return nil
}

// QuestionView is the participant-facing projection of a question: the
// correct answer and explanation are stripped before it leaves the service.
type QuestionView struct {
	ID      uuid.UUID      `json:"id"`
	Type    string         `json:"type"`
	Text    string         `json:"text"`
	Options datatypes.JSON `json:"options,omitempty"`
	Points  int            `json:"points"`
	ImageID *string        `json:"image_id,omitempty"`
}

type QuizSummary struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	PassingScore    float64   `json:"passing_score"`
	DurationMinutes int       `json:"duration_minutes"`
	QuestionCount   int       `json:"question_count"`
}

type StartResponse struct {
	Session   *QuizSession        `json:"session"`
	Quiz      QuizSummary         `json:"quiz"`
	Questions []QuestionView      `json:"questions"`
	Answered  []*AnsweredQuestion `json:"answered,omitempty"`
	Resumed   bool                `json:"resumed"`
}

type SubmitResponse struct {
	QuestionID    uuid.UUID `json:"question_id"`
	Correct       bool      `json:"correct"`
	PointsEarned  int       `json:"points_earned"`
	Score         int       `json:"score"`
	CorrectAnswer *string   `json:"correct_answer,omitempty"`
	Explanation   *string   `json:"explanation,omitempty"`
}

type ReviewItem struct {
	QuestionID    uuid.UUID `json:"question_id"`
	Text          string    `json:"text"`
	Answer        string    `json:"answer"`
	Correct       bool      `json:"correct"`
	PointsEarned  int       `json:"points_earned"`
	CorrectAnswer string    `json:"correct_answer"`
	Explanation   string    `json:"explanation,omitempty"`
}

type CompleteResponse struct {
	Session *QuizSession `json:"session"`
	Review  []ReviewItem `json:"review,omitempty"`
}

type ResultItem struct {
	SessionID   uuid.UUID  `json:"session_id"`
	QuizID      uuid.UUID  `json:"quiz_id"`
	QuizTitle   string     `json:"quiz_title"`
	Score       int        `json:"score"`
	TotalPoints int        `json:"total_points"`
	Percentage  float64    `json:"percentage"`
	Passed      bool       `json:"passed"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}
