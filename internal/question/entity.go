package question

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Question struct {
	ID            uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuizID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Type          QuestionType   `gorm:"type:varchar(24);not null" json:"type"`
	Text          string         `gorm:"type:text;not null" json:"text"`
	Options       datatypes.JSON `gorm:"type:jsonb" json:"options,omitempty"`
	CorrectAnswer string         `gorm:"type:text;not null" json:"correct_answer"`
	Explanation   string         `gorm:"type:text" json:"explanation,omitempty"`
	Points        int            `gorm:"not null;default:1" json:"points"`
	OrderIndex    int            `gorm:"not null;default:0" json:"order_index"`
	ImageID       *string        `gorm:"type:text" json:"image_id,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}
