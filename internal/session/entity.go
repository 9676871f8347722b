package session

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuizSession struct {
	ID            uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuizID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"quiz_id"`
	ParticipantID uuid.UUID     `gorm:"type:uuid;not null;index" json:"participant_id"`
	Status        SessionStatus `gorm:"type:varchar(16);not null" json:"status"`
	Score         int           `gorm:"not null;default:0" json:"score"`
	TotalPoints   int           `gorm:"not null;default:0" json:"total_points"`

	// QuestionOrder freezes the shuffled presentation order at start time, so
	// refetching an in-progress session always replays the same order.
	QuestionOrder datatypes.JSON `gorm:"type:jsonb" json:"question_order"`

	StartedAt        time.Time  `gorm:"autoCreateTime" json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	TimeSpentSeconds int        `gorm:"not null;default:0" json:"time_spent_seconds"`
	Percentage       float64    `gorm:"not null;default:0" json:"percentage"`
	Passed           bool       `gorm:"not null;default:false" json:"passed"`
}

// AnsweredQuestion is immutable once written. The composite unique index is
// the storage-level backstop against double submission races.
type AnsweredQuestion struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SessionID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_session_question" json:"session_id"`
	QuestionID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_session_question" json:"question_id"`
	Answer       string    `gorm:"type:text;not null" json:"answer"`
	IsCorrect    bool      `gorm:"not null" json:"is_correct"`
	PointsEarned int       `gorm:"not null;default:0" json:"points_earned"`
	AnsweredAt   time.Time `gorm:"autoCreateTime" json:"answered_at"`
}
