package quiz

import (
	"errors"

	"gorm.io/gorm"
)

type QuizRepository interface {
	Create(q *Quiz) error
	FindByID(id string) (*Quiz, error)
	FindByOwner(ownerID string) ([]*Quiz, error)
	Update(q *Quiz) error
	Delete(id string) error
}

type quizRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) Create(q *Quiz) error {
	return r.db.Create(q).Error
}

func (r *quizRepository) FindByID(id string) (*Quiz, error) {
	var quiz Quiz
	if err := r.db.First(&quiz, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &quiz, nil
}

func (r *quizRepository) FindByOwner(ownerID string) ([]*Quiz, error) {
	var quizzes []*Quiz
	if err := r.db.
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&quizzes).Error; err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *quizRepository) Update(q *Quiz) error {
	return r.db.Save(q).Error
}

func (r *quizRepository) Delete(id string) error {
	return r.db.Delete(&Quiz{}, "id = ?", id).Error
}
