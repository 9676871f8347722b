package quiz

import (
	"fmt"
	"strings"

	"github.com/iqnite-app/iqnite-api/internal/apperror"
)

type CreateQuizDTO struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	PassingScore    float64 `json:"passing_score"`
	DurationMinutes int     `json:"duration_minutes"`
	ShowAnswers     bool    `json:"show_answers"`
	AllowReview     *bool   `json:"allow_review"`
}

func (d *CreateQuizDTO) Validate() error {
	d.Title = strings.TrimSpace(d.Title)
	if d.Title == "" {
		return fmt.Errorf("%w: title required", apperror.ErrValidation)
	}
	if d.PassingScore < 0 || d.PassingScore > 100 {
		return fmt.Errorf("%w: passing_score must be between 0 and 100", apperror.ErrValidation)
	}
	if d.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration_minutes must not be negative", apperror.ErrValidation)
	}
	return nil
}

type UpdateQuizDTO struct {
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	PassingScore    *float64 `json:"passing_score"`
	DurationMinutes *int     `json:"duration_minutes"`
	ShowAnswers     *bool    `json:"show_answers"`
	AllowReview     *bool    `json:"allow_review"`
}

func (d *UpdateQuizDTO) Validate() error {
	if d.Title != nil && strings.TrimSpace(*d.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", apperror.ErrValidation)
	}
	if d.PassingScore != nil && (*d.PassingScore < 0 || *d.PassingScore > 100) {
		return fmt.Errorf("%w: passing_score must be between 0 and 100", apperror.ErrValidation)
	}
	if d.DurationMinutes != nil && *d.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration_minutes must not be negative", apperror.ErrValidation)
	}
	return nil
}
