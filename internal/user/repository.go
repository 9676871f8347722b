package user

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(u *User) error
	FindByID(id string) (*User, error)
	FindByEmail(email string) (*User, error)
	FindByUsername(username string) (*User, error)
	FindByResetTokenHash(hash string) (*User, error)
	Update(u *User) error
	List(limit, offset int) ([]*User, error)

	CreateRefreshToken(t *RefreshToken) error
	FindRefreshToken(token string) (*RefreshToken, error)
	DeleteRefreshToken(token string) error
	DeleteRefreshTokensByUser(userID uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(u *User) error {
	return r.db.Create(u).Error
}

func (r *userRepository) FindByID(id string) (*User, error) {
	return r.findOne("id = ?", id)
}

func (r *userRepository) FindByEmail(email string) (*User, error) {
	return r.findOne("email = ?", email)
}

func (r *userRepository) FindByUsername(username string) (*User, error) {
	return r.findOne("username = ?", username)
}

func (r *userRepository) FindByResetTokenHash(hash string) (*User, error) {
	return r.findOne("reset_token_hash = ?", hash)
}

func (r *userRepository) findOne(query string, arg interface{}) (*User, error) {
	var u User
	if err := r.db.First(&u, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Update(u *User) error {
	return r.db.Save(u).Error
}

func (r *userRepository) List(limit, offset int) ([]*User, error) {
	var users []*User
	if err := r.db.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) CreateRefreshToken(t *RefreshToken) error {
	return r.db.Create(t).Error
}

func (r *userRepository) FindRefreshToken(token string) (*RefreshToken, error) {
	var rt RefreshToken
	if err := r.db.First(&rt, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rt, nil
}

func (r *userRepository) DeleteRefreshToken(token string) error {
	return r.db.Delete(&RefreshToken{}, "token = ?", token).Error
}

func (r *userRepository) DeleteRefreshTokensByUser(userID uuid.UUID) error {
	return r.db.Delete(&RefreshToken{}, "user_id = ?", userID).Error
}
