package question

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/iqnite-app/iqnite-api/internal/apperror"
)

type CreateQuestionDTO struct {
	QuizID        string       `json:"quiz_id"`
	Type          QuestionType `json:"type"`
	Text          string       `json:"text"`
	Options       []string     `json:"options"`
	CorrectAnswer string       `json:"correct_answer"`
	Explanation   string       `json:"explanation"`
	Points        int          `json:"points"`
	OrderIndex    *int         `json:"order_index"`
}

func (d *CreateQuestionDTO) Validate() error {
	if _, err := uuid.Parse(d.QuizID); err != nil {
		return fmt.Errorf("%w: valid quiz_id required", apperror.ErrValidation)
	}
	return validatePayload(d.Type, d.Text, d.Options, d.CorrectAnswer, d.Points)
}

type BulkCreateDTO struct {
	QuizID    string              `json:"quiz_id"`
	Questions []CreateQuestionDTO `json:"questions"`
}

func (d *BulkCreateDTO) Validate() error {
	if _, err := uuid.Parse(d.QuizID); err != nil {
		return fmt.Errorf("%w: valid quiz_id required", apperror.ErrValidation)
	}
	if len(d.Questions) == 0 {
		return fmt.Errorf("%w: at least one question required", apperror.ErrValidation)
	}
	for i := range d.Questions {
		q := &d.Questions[i]
		if err := validatePayload(q.Type, q.Text, q.Options, q.CorrectAnswer, q.Points); err != nil {
			return fmt.Errorf("%w (question %d)", err, i)
		}
	}
	return nil
}

type UpdateQuestionDTO struct {
	Type          *QuestionType `json:"type"`
	Text          *string       `json:"text"`
	Options       []string      `json:"options"`
	CorrectAnswer *string       `json:"correct_answer"`
	Explanation   *string       `json:"explanation"`
	Points        *int          `json:"points"`
	OrderIndex    *int          `json:"order_index"`
}

func (d *UpdateQuestionDTO) Validate() error {
	if d.Type != nil && !d.Type.IsValid() {
		return fmt.Errorf("%w: invalid question type", apperror.ErrValidation)
	}
	if d.Text != nil && strings.TrimSpace(*d.Text) == "" {
		return fmt.Errorf("%w: text must not be empty", apperror.ErrValidation)
	}
	if d.Points != nil && *d.Points <= 0 {
		return fmt.Errorf("%w: points must be positive", apperror.ErrValidation)
	}
	return nil
}

type UploadImageDTO struct {
	Data string `json:"data"`
}

func (d *UploadImageDTO) Validate() error {
	if d.Data == "" {
		return fmt.Errorf("%w: data required", apperror.ErrValidation)
	}
	return nil
}

func validatePayload(t QuestionType, text string, options []string, correct string, points int) error {
	if !t.IsValid() {
		return fmt.Errorf("%w: invalid question type", apperror.ErrValidation)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: text required", apperror.ErrValidation)
	}
	if correct == "" {
		return fmt.Errorf("%w: correct_answer required", apperror.ErrValidation)
	}
	if points < 0 {
		return fmt.Errorf("%w: points must not be negative", apperror.ErrValidation)
	}
	if (t == TypeSingleChoice || t == TypeMultipleChoice) && len(options) < 2 {
		return fmt.Errorf("%w: choice questions need at least two options", apperror.ErrValidation)
	}
	return nil
}

func encodeOptions(options []string) (datatypes.JSON, error) {
	if options == nil {
		return nil, nil
	}
	raw, err := json.Marshal(options)
	if err != nil {
		return nil, err
	}
	return raw, nil
}
