package audit

import (
	"gorm.io/gorm"
)

type Repository interface {
	Create(entry *AuditLog) error
	ListRecent(limit, offset int) ([]*AuditLog, error)
	ListByUser(userID string, limit, offset int) ([]*AuditLog, error)
	ListByTarget(targetType, targetID string, limit, offset int) ([]*AuditLog, error)
	Count() (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(entry *AuditLog) error {
	return r.db.Create(entry).Error
}

func (r *repository) ListRecent(limit, offset int) ([]*AuditLog, error) {
	return r.list(r.db, limit, offset)
}

func (r *repository) ListByUser(userID string, limit, offset int) ([]*AuditLog, error) {
	return r.list(r.db.Where("user_id = ?", userID), limit, offset)
}

func (r *repository) ListByTarget(targetType, targetID string, limit, offset int) ([]*AuditLog, error) {
	return r.list(r.db.Where("target_type = ? AND target_id = ?", targetType, targetID), limit, offset)
}

func (r *repository) list(tx *gorm.DB, limit, offset int) ([]*AuditLog, error) {
	var logs []*AuditLog
	if err := tx.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *repository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&AuditLog{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
