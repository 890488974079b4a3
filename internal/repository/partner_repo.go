package repository

import (
	"context"

	"github.com/naskek/FlowStock-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PartnerRepository interface {
	Create(ctx context.Context, p *model.Partner) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Partner, error)
	List(ctx context.Context, includeInactive bool) ([]model.Partner, error)
	Update(ctx context.Context, p *model.Partner) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type partnerRepo struct{ db *gorm.DB }

func NewPartnerRepository(db *gorm.DB) PartnerRepository { return &partnerRepo{db: db} }

func (r *partnerRepo) Create(ctx context.Context, p *model.Partner) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *partnerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Partner, error) {
	var p model.Partner
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *partnerRepo) List(ctx context.Context, includeInactive bool) ([]model.Partner, error) {
	q := r.db.WithContext(ctx)
	if !includeInactive {
		q = q.Where("is_active = true")
	}
	var partners []model.Partner
	err := q.Order("name ASC").Find(&partners).Error
	return partners, err
}

func (r *partnerRepo) Update(ctx context.Context, p *model.Partner) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *partnerRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Partner{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
