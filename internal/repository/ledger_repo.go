package repository

import (
	"context"

	"github.com/naskek/FlowStock-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// HuContentRow is one line of a container's derived composition.
type HuContentRow struct {
	ItemID       uuid.UUID       `json:"item_id"`
	ItemName     string          `json:"item_name"`
	LocationID   uuid.UUID       `json:"location_id"`
	LocationCode string          `json:"location_code"`
	Qty          decimal.Decimal `json:"qty"`
}

// LedgerRepository is the append-only posting store. There are no update or
// delete methods on purpose: history is immutable and every quantity the
// engine reports is an aggregation over it.
type LedgerRepository interface {
	// CreateBatchTx writes all postings of one doc close. Callers must pass
	// the transaction the close runs in so the batch is all-or-nothing.
	CreateBatchTx(tx *gorm.DB, postings []model.LedgerPosting) error

	Quantity(ctx context.Context, itemID, locationID uuid.UUID, huCode *string) (decimal.Decimal, error)
	QuantityTx(tx *gorm.DB, itemID, locationID uuid.UUID, huCode *string) (decimal.Decimal, error)

	// ItemOnHandTx sums the item across all locations and containers.
	ItemOnHandTx(tx *gorm.DB, itemID uuid.UUID) (decimal.Decimal, error)
	OnHandByItem(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error)
	OnHandByItemTx(tx *gorm.DB) (map[uuid.UUID]decimal.Decimal, error)

	TotalsByHu(ctx context.Context) (map[string]decimal.Decimal, error)
	RowsForHu(ctx context.Context, huCode string) ([]HuContentRow, error)
	HuTotalTx(tx *gorm.DB, huCode string) (decimal.Decimal, error)

	// ItemStockByLocation lists the (location, container) buckets holding
	// the item, largest first. Used to choose pick locations.
	ItemStockByLocation(ctx context.Context, itemID uuid.UUID) ([]ItemLocationRow, error)

	// LocationHasStock reports whether any (item, container) tuple at the
	// location still sums to a non-zero quantity.
	LocationHasStock(ctx context.Context, locationID uuid.UUID, epsilon decimal.Decimal) (bool, error)

	ListByDoc(ctx context.Context, docID uuid.UUID) ([]model.LedgerPosting, error)

	DB() *gorm.DB
}

type ledgerRepo struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) LedgerRepository { return &ledgerRepo{db: db} }

func (r *ledgerRepo) DB() *gorm.DB { return r.db }

func (r *ledgerRepo) CreateBatchTx(tx *gorm.DB, postings []model.LedgerPosting) error {
	return tx.Create(&postings).Error
}

// huWhere matches hu_code including the NULL loose-stock bucket.
const huWhere = "item_id = ? AND location_id = ? AND hu_code IS NOT DISTINCT FROM ?"

func (r *ledgerRepo) Quantity(ctx context.Context, itemID, locationID uuid.UUID, huCode *string) (decimal.Decimal, error) {
	return r.QuantityTx(r.db.WithContext(ctx), itemID, locationID, huCode)
}

func (r *ledgerRepo) QuantityTx(tx *gorm.DB, itemID, locationID uuid.UUID, huCode *string) (decimal.Decimal, error) {
	var qty decimal.Decimal
	err := tx.Model(&model.LedgerPosting{}).
		Select("COALESCE(SUM(qty_delta), 0)").
		Where(huWhere, itemID, locationID, huCode).
		Scan(&qty).Error
	return qty, err
}

func (r *ledgerRepo) ItemOnHandTx(tx *gorm.DB, itemID uuid.UUID) (decimal.Decimal, error) {
	var qty decimal.Decimal
	err := tx.Model(&model.LedgerPosting{}).
		Select("COALESCE(SUM(qty_delta), 0)").
		Where("item_id = ?", itemID).
		Scan(&qty).Error
	return qty, err
}

type itemTotalRow struct {
	ItemID uuid.UUID
	Total  decimal.Decimal
}

func (r *ledgerRepo) OnHandByItem(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error) {
	return r.OnHandByItemTx(r.db.WithContext(ctx))
}

func (r *ledgerRepo) OnHandByItemTx(tx *gorm.DB) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []itemTotalRow
	err := tx.Model(&model.LedgerPosting{}).
		Select("item_id, SUM(qty_delta) AS total").
		Group("item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	totals := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		totals[row.ItemID] = row.Total
	}
	return totals, nil
}

type huTotalRow struct {
	HuCode string
	Total  decimal.Decimal
}

func (r *ledgerRepo) TotalsByHu(ctx context.Context) (map[string]decimal.Decimal, error) {
	var rows []huTotalRow
	err := r.db.WithContext(ctx).Model(&model.LedgerPosting{}).
		Select("hu_code, SUM(qty_delta) AS total").
		Where("hu_code IS NOT NULL").
		Group("hu_code").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	totals := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		totals[row.HuCode] = row.Total
	}
	return totals, nil
}

func (r *ledgerRepo) RowsForHu(ctx context.Context, huCode string) ([]HuContentRow, error) {
	rows := []HuContentRow{}
	err := r.db.WithContext(ctx).
		Table("ledger_postings lp").
		Select("lp.item_id, i.name AS item_name, lp.location_id, l.code AS location_code, SUM(lp.qty_delta) AS qty").
		Joins("JOIN items i ON i.id = lp.item_id").
		Joins("JOIN locations l ON l.id = lp.location_id").
		Where("lp.hu_code = ?", huCode).
		Group("lp.item_id, i.name, lp.location_id, l.code").
		Having("SUM(lp.qty_delta) <> 0").
		Order("i.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *ledgerRepo) HuTotalTx(tx *gorm.DB, huCode string) (decimal.Decimal, error) {
	var qty decimal.Decimal
	err := tx.Model(&model.LedgerPosting{}).
		Select("COALESCE(SUM(qty_delta), 0)").
		Where("hu_code = ?", huCode).
		Scan(&qty).Error
	return qty, err
}

// ItemLocationRow is one stock bucket of an item.
type ItemLocationRow struct {
	LocationID uuid.UUID
	HuCode     *string
	Qty        decimal.Decimal
}

func (r *ledgerRepo) ItemStockByLocation(ctx context.Context, itemID uuid.UUID) ([]ItemLocationRow, error) {
	var rows []ItemLocationRow
	err := r.db.WithContext(ctx).Model(&model.LedgerPosting{}).
		Select("location_id, hu_code, SUM(qty_delta) AS qty").
		Where("item_id = ?", itemID).
		Group("location_id, hu_code").
		Having("SUM(qty_delta) > 0").
		Order("qty DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *ledgerRepo) LocationHasStock(ctx context.Context, locationID uuid.UUID, epsilon decimal.Decimal) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("ledger_postings").
		Select("1").
		Where("location_id = ?", locationID).
		Group("item_id, hu_code").
		Having("ABS(SUM(qty_delta)) > ?", epsilon).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

func (r *ledgerRepo) ListByDoc(ctx context.Context, docID uuid.UUID) ([]model.LedgerPosting, error) {
	var postings []model.LedgerPosting
	err := r.db.WithContext(ctx).
		Where("doc_id = ?", docID).
		Order("posted_at ASC").
		Find(&postings).Error
	return postings, err
}
