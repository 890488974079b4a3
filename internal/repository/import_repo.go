package repository

import (
	"context"
	"time"

	"github.com/naskek/FlowStock-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ImportRepository interface {
	CreateError(ctx context.Context, e *model.ImportError) error
	FindErrorByID(ctx context.Context, id uuid.UUID) (*model.ImportError, error)
	ListErrors(ctx context.Context, status string) ([]model.ImportError, error)
	MarkApplied(ctx context.Context, id uuid.UUID) error
}

type importRepo struct{ db *gorm.DB }

func NewImportRepository(db *gorm.DB) ImportRepository { return &importRepo{db: db} }

func (r *importRepo) CreateError(ctx context.Context, e *model.ImportError) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *importRepo) FindErrorByID(ctx context.Context, id uuid.UUID) (*model.ImportError, error) {
	var e model.ImportError
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *importRepo) ListErrors(ctx context.Context, status string) ([]model.ImportError, error) {
	q := r.db.WithContext(ctx).Model(&model.ImportError{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var errs []model.ImportError
	err := q.Order("created_at DESC").Find(&errs).Error
	return errs, err
}

func (r *importRepo) MarkApplied(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&model.ImportError{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     model.ImportErrorApplied,
			"applied_at": now,
		}).Error
}
