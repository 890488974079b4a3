package repository

import (
	"context"
	"time"

	"github.com/naskek/FlowStock-sub000/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HuFilter narrows handling-unit listings.
type HuFilter struct {
	Status string
	Page   int
	Limit  int
}

type HandlingUnitRepository interface {
	// NextRangeTx locks the counter row, reserves count consecutive sequence
	// numbers and returns the first. Must run inside the same transaction
	// that inserts the reserved codes.
	NextRangeTx(tx *gorm.DB, count int) (int64, error)

	CreateBatchTx(tx *gorm.DB, hus []model.HandlingUnit) error
	FindByCode(ctx context.Context, code string) (*model.HandlingUnit, error)
	FindByCodeTx(tx *gorm.DB, code string) (*model.HandlingUnit, error)
	UpdateStatusTx(tx *gorm.DB, code, status string, note *string, closedAt *time.Time) error
	// MarkActiveTx promotes OPEN containers to ACTIVE once a posting lands on them.
	MarkActiveTx(tx *gorm.DB, codes []string) error
	List(ctx context.Context, filter HuFilter) ([]model.HandlingUnit, int64, error)

	DB() *gorm.DB
}

type huRepo struct{ db *gorm.DB }

func NewHandlingUnitRepository(db *gorm.DB) HandlingUnitRepository { return &huRepo{db: db} }

func (r *huRepo) DB() *gorm.DB { return r.db }

func (r *huRepo) NextRangeTx(tx *gorm.DB, count int) (int64, error) {
	var seq model.HuSequence
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&seq, "id = ?", 1).Error; err != nil {
		return 0, err
	}
	first := seq.NextVal
	if err := tx.Model(&model.HuSequence{}).
		Where("id = ?", 1).
		Update("next_val", first+int64(count)).Error; err != nil {
		return 0, err
	}
	return first, nil
}

func (r *huRepo) CreateBatchTx(tx *gorm.DB, hus []model.HandlingUnit) error {
	return tx.Create(&hus).Error
}

func (r *huRepo) FindByCode(ctx context.Context, code string) (*model.HandlingUnit, error) {
	return r.FindByCodeTx(r.db.WithContext(ctx), code)
}

func (r *huRepo) FindByCodeTx(tx *gorm.DB, code string) (*model.HandlingUnit, error) {
	var hu model.HandlingUnit
	err := tx.First(&hu, "code = ?", code).Error
	return &hu, err
}

func (r *huRepo) UpdateStatusTx(tx *gorm.DB, code, status string, note *string, closedAt *time.Time) error {
	updates := map[string]interface{}{"status": status}
	if note != nil {
		updates["note"] = note
	}
	if closedAt != nil {
		updates["closed_at"] = closedAt
	}
	return tx.Model(&model.HandlingUnit{}).Where("code = ?", code).Updates(updates).Error
}

func (r *huRepo) MarkActiveTx(tx *gorm.DB, codes []string) error {
	if len(codes) == 0 {
		return nil
	}
	return tx.Model(&model.HandlingUnit{}).
		Where("code IN ? AND status = ?", codes, model.HuStatusOpen).
		Update("status", model.HuStatusActive).Error
}

func (r *huRepo) List(ctx context.Context, filter HuFilter) ([]model.HandlingUnit, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.HandlingUnit{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
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
		limit = 100
	}

	var hus []model.HandlingUnit
	err := q.Order("code ASC").Offset((page - 1) * limit).Limit(limit).Find(&hus).Error
	return hus, total, err
}
