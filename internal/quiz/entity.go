package quiz

import (
	"time"

	"github.com/google/uuid"
)

type Quiz struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title           string     `gorm:"type:text;not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description,omitempty"`
	Status          QuizStatus `gorm:"type:varchar(16);not null;default:'DRAFT'" json:"status"`
	PassingScore    float64    `gorm:"not null;default:0" json:"passing_score"`
	DurationMinutes int        `gorm:"not null;default:0" json:"duration_minutes"`

	// ShowAnswers reveals the correct answer on every submission;
	// AllowReview gates the per-question review after completion.
	ShowAnswers bool `gorm:"not null;default:false" json:"show_answers"`
	AllowReview bool `gorm:"not null;default:true" json:"allow_review"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
