package question

import (
	"errors"

	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(q *Question) error
	// CreateBatch inserts all questions in one transaction.
	CreateBatch(questions []*Question) error
	FindByID(id string) (*Question, error)
	FindByQuiz(quizID string) ([]*Question, error)
	CountByQuiz(quizID string) (int64, error)
	Update(q *Question) error
	Delete(id string) error
	DeleteByQuiz(quizID string) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(q *Question) error {
	return r.db.Create(q).Error
}

func (r *questionRepository) CreateBatch(questions []*Question) error {
	if len(questions) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&questions).Error
	})
}

func (r *questionRepository) FindByID(id string) (*Question, error) {
	var q Question
	if err := r.db.First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

func (r *questionRepository) FindByQuiz(quizID string) ([]*Question, error) {
	var questions []*Question
	if err := r.db.
		Where("quiz_id = ?", quizID).
		Order("order_index ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepository) CountByQuiz(quizID string) (int64, error) {
	var count int64
	if err := r.db.Model(&Question{}).Where("quiz_id = ?", quizID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *questionRepository) Update(q *Question) error {
	return r.db.Save(q).Error
}

func (r *questionRepository) Delete(id string) error {
	return r.db.Delete(&Question{}, "id = ?", id).Error
}

func (r *questionRepository) DeleteByQuiz(quizID string) error {
	return r.db.Delete(&Question{}, "quiz_id = ?", quizID).Error
}
