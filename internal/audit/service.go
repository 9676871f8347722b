package audit

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/iqnite-app/iqnite-api/internal/config"
)

type Entry struct {
	UserID     uuid.UUID
	Action     string
	TargetType string
	TargetID   string
	Details    map[string]interface{}
	IP         string
	UserAgent  string
}

type Page struct {
	Logs  []*AuditLog `json:"logs"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

type Service interface {
	Log(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit, page int) (*Page, error)
	ByUser(ctx context.Context, userID string, limit, page int) ([]*AuditLog, error)
	ByTarget(ctx context.Context, targetType, targetID string, limit, page int) ([]*AuditLog, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Log(ctx context.Context, e Entry) error {
	var details datatypes.JSON
	if e.Details != nil {
		raw, err := json.Marshal(e.Details)
		if err != nil {
			return err
		}
		details = raw
	}

	entry := &AuditLog{
		UserID:     e.UserID,
		Action:     e.Action,
		TargetType: e.TargetType,
		TargetID:   e.TargetID,
		Details:    details,
		IP:         e.IP,
		UserAgent:  e.UserAgent,
	}
	if err := s.repo.Create(entry); err != nil {
		config.WithContext(ctx).WithError(err).Error("Failed to append audit log")
		return err
	}
	return nil
}

func (s *service) Recent(ctx context.Context, limit, page int) (*Page, error) {
	limit, page = clamp(limit, page)

	logs, err := s.repo.ListRecent(limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Count()
	if err != nil {
		return nil, err
	}

	return &Page{Logs: logs, Total: total, Page: page, Limit: limit}, nil
}

func (s *service) ByUser(ctx context.Context, userID string, limit, page int) ([]*AuditLog, error) {
	limit, page = clamp(limit, page)
	return s.repo.ListByUser(userID, limit, (page-1)*limit)
}

func (s *service) ByTarget(ctx context.Context, targetType, targetID string, limit, page int) ([]*AuditLog, error) {
	limit, page = clamp(limit, page)
	return s.repo.ListByTarget(targetType, targetID, limit, (page-1)*limit)
}

func clamp(limit, page int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if page < 1 {
		page = 1
	}
	return limit, page
}
