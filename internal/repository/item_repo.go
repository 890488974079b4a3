package repository

import (
	"context"

	"github.com/naskek/FlowStock-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ItemFilter narrows item listings.
type ItemFilter struct {
	Name    string
	Barcode string
	Page    int
	Limit   int
}

type ItemRepository interface {
	Create(ctx context.Context, i *model.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]model.Item, int64, error)
	Update(ctx context.Context, i *model.Item) error

	CreatePackaging(ctx context.Context, p *model.Packaging) error
	FindPackagingByID(ctx context.Context, id uuid.UUID) (*model.Packaging, error)
	FindPackaging(ctx context.Context, itemID uuid.UUID, code string) (*model.Packaging, error)
	ListPackagings(ctx context.Context, itemID uuid.UUID, activeOnly bool) ([]model.Packaging, error)
	DeactivatePackaging(ctx context.Context, id uuid.UUID) error

	DB() *gorm.DB
}

type itemRepo struct{ db *gorm.DB }

func NewItemRepository(db *gorm.DB) ItemRepository { return &itemRepo{db: db} }

func (r *itemRepo) DB() *gorm.DB { return r.db }

func (r *itemRepo) Create(ctx context.Context, i *model.Item) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *itemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var i model.Item
	err := r.db.WithContext(ctx).First(&i, "id = ?", id).Error
	return &i, err
}

func (r *itemRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Item, error) {
	var i model.Item
	err := r.db.WithContext(ctx).Where("barcode = ?", barcode).First(&i).Error
	return &i, err
}

func (r *itemRepo) List(ctx context.Context, filter ItemFilter) ([]model.Item, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Item{})
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Barcode != "" {
		q = q.Where("barcode = ?", filter.Barcode)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 50
	}

	var items []model.Item
	err := q.Order("name ASC").Offset((page - 1) * limit).Limit(limit).Find(&items).Error
	return items, total, err
}

func (r *itemRepo) Update(ctx context.Context, i *model.Item) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *itemRepo) CreatePackaging(ctx context.Context, p *model.Packaging) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *itemRepo) FindPackagingByID(ctx context.Context, id uuid.UUID) (*model.Packaging, error) {
	var p model.Packaging
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *itemRepo) FindPackaging(ctx context.Context, itemID uuid.UUID, code string) (*model.Packaging, error) {
	var p model.Packaging
	err := r.db.WithContext(ctx).
		Where("item_id = ? AND code = ?", itemID, code).
		First(&p).Error
	return &p, err
}

func (r *itemRepo) ListPackagings(ctx context.Context, itemID uuid.UUID, activeOnly bool) ([]model.Packaging, error) {
	q := r.db.WithContext(ctx).Where("item_id = ?", itemID)
	if activeOnly {
		q = q.Where("is_active = true")
	}
	var packs []model.Packaging
	err := q.Order("sort_order ASC, code ASC").Find(&packs).Error
	return packs, err
}

func (r *itemRepo) DeactivatePackaging(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Packaging{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}
