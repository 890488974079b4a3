package repository

import (
	"context"
	"time"

	"github.com/naskek/FlowStock-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DocFilter narrows doc listings.
type DocFilter struct {
	Type    string
	Status  string
	OrderID *uuid.UUID
	Page    int
	Limit   int
}

type DocRepository interface {
	Create(ctx context.Context, d *model.Doc) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Doc, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Doc, error)
	List(ctx context.Context, filter DocFilter) ([]model.Doc, int64, error)

	// NextDocNumber draws from a Postgres sequence so docRefs stay unique
	// under concurrent creation.
	NextDocNumber(ctx context.Context) (int64, error)

	CreateLine(ctx context.Context, l *model.DocLine) error
	FindLine(ctx context.Context, lineID uuid.UUID) (*model.DocLine, error)
	UpdateLineQty(ctx context.Context, lineID uuid.UUID, qtyBase decimal.Decimal, qtyInput *decimal.Decimal, uomCode *string) error
	DeleteLine(ctx context.Context, lineID uuid.UUID) error
	DeleteLinesByDoc(ctx context.Context, docID uuid.UUID) error

	SetRecountRequested(ctx context.Context, id uuid.UUID, requested bool) error
	SetPartialShipment(ctx context.Context, id uuid.UUID, enabled bool) error
	SetOrder(ctx context.Context, id uuid.UUID, orderID *uuid.UUID) error
	SetPartner(ctx context.Context, id uuid.UUID, partnerID *uuid.UUID) error
	CloseTx(tx *gorm.DB, id uuid.UUID, closedAt time.Time) error

	// OpenOutboundCommittedTx sums, per item, quantities on lines of draft
	// outbound docs other than excludeDocID: stock already promised to
	// in-flight shipments.
	OpenOutboundCommittedTx(tx *gorm.DB, excludeDocID *uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)

	// OpenOutboundCommittedForItemTx is the single-item form, used where only
	// one item's commitment is asked for.
	OpenOutboundCommittedForItemTx(tx *gorm.DB, itemID uuid.UUID) (decimal.Decimal, error)

	// ShippedByDocsTx sums, per item, quantities shipped against an order by
	// closed outbound docs referencing it.
	ShippedByDocsTx(tx *gorm.DB, orderID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)

	DB() *gorm.DB
}

type docRepo struct{ db *gorm.DB }

func NewDocRepository(db *gorm.DB) DocRepository { return &docRepo{db: db} }

func (r *docRepo) DB() *gorm.DB { return r.db }

func (r *docRepo) Create(ctx context.Context, d *model.Doc) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *docRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Doc, error) {
	return r.FindByIDTx(r.db.WithContext(ctx), id)
}

func (r *docRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Doc, error) {
	var d model.Doc
	err := tx.Preload("Lines", func(q *gorm.DB) *gorm.DB {
		return q.Order("doc_lines.created_at ASC")
	}).First(&d, "id = ?", id).Error
	return &d, err
}

func (r *docRepo) List(ctx context.Context, filter DocFilter) ([]model.Doc, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Doc{})
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.OrderID != nil {
		q = q.Where("order_id = ?", *filter.OrderID)
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

	var docs []model.Doc
	err := q.Preload("Lines").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&docs).Error
	return docs, total, err
}

func (r *docRepo) NextDocNumber(ctx context.Context) (int64, error) {
	var num int64
	err := r.db.WithContext(ctx).Raw("SELECT nextval('docs_docref_seq')").Scan(&num).Error
	return num, err
}

func (r *docRepo) CreateLine(ctx context.Context, l *model.DocLine) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *docRepo) FindLine(ctx context.Context, lineID uuid.UUID) (*model.DocLine, error) {
	var l model.DocLine
	err := r.db.WithContext(ctx).First(&l, "id = ?", lineID).Error
	return &l, err
}

func (r *docRepo) UpdateLineQty(ctx context.Context, lineID uuid.UUID, qtyBase decimal.Decimal, qtyInput *decimal.Decimal, uomCode *string) error {
	return r.db.WithContext(ctx).Model(&model.DocLine{}).
		Where("id = ?", lineID).
		Updates(map[string]interface{}{
			"qty_base":  qtyBase,
			"qty_input": qtyInput,
			"uom_code":  uomCode,
		}).Error
}

func (r *docRepo) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.DocLine{}, "id = ?", lineID).Error
}

func (r *docRepo) DeleteLinesByDoc(ctx context.Context, docID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.DocLine{}, "doc_id = ?", docID).Error
}

func (r *docRepo) SetRecountRequested(ctx context.Context, id uuid.UUID, requested bool) error {
	return r.db.WithContext(ctx).Model(&model.Doc{}).
		Where("id = ?", id).
		Update("is_recount_requested", requested).Error
}

func (r *docRepo) SetPartialShipment(ctx context.Context, id uuid.UUID, enabled bool) error {
	return r.db.WithContext(ctx).Model(&model.Doc{}).
		Where("id = ?", id).
		Update("partial_shipment", enabled).Error
}

func (r *docRepo) SetOrder(ctx context.Context, id uuid.UUID, orderID *uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Doc{}).
		Where("id = ?", id).
		Update("order_id", orderID).Error
}

func (r *docRepo) SetPartner(ctx context.Context, id uuid.UUID, partnerID *uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Doc{}).
		Where("id = ?", id).
		Update("partner_id", partnerID).Error
}

func (r *docRepo) CloseTx(tx *gorm.DB, id uuid.UUID, closedAt time.Time) error {
	return tx.Model(&model.Doc{}).
		Where("id = ? AND status = ?", id, model.DocStatusDraft).
		Updates(map[string]interface{}{
			"status":    model.DocStatusClosed,
			"closed_at": closedAt,
		}).Error
}

func (r *docRepo) OpenOutboundCommittedTx(tx *gorm.DB, excludeDocID *uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	q := tx.Table("doc_lines dl").
		Select("dl.item_id, SUM(dl.qty_base) AS total").
		Joins("JOIN docs d ON d.id = dl.doc_id").
		Where("d.type = ? AND d.status = ?", model.DocTypeOutbound, model.DocStatusDraft)
	if excludeDocID != nil {
		q = q.Where("d.id <> ?", *excludeDocID)
	}

	var rows []itemTotalRow
	if err := q.Group("dl.item_id").Scan(&rows).Error; err != nil {
		return nil, err
	}
	totals := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		totals[row.ItemID] = row.Total
	}
	return totals, nil
}

func (r *docRepo) OpenOutboundCommittedForItemTx(tx *gorm.DB, itemID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.Table("doc_lines dl").
		Select("COALESCE(SUM(dl.qty_base), 0)").
		Joins("JOIN docs d ON d.id = dl.doc_id").
		Where("d.type = ? AND d.status = ? AND dl.item_id = ?",
			model.DocTypeOutbound, model.DocStatusDraft, itemID).
		Scan(&total).Error
	return total, err
}

func (r *docRepo) ShippedByDocsTx(tx *gorm.DB, orderID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []itemTotalRow
	err := tx.Table("doc_lines dl").
		Select("dl.item_id, SUM(dl.qty_base) AS total").
		Joins("JOIN docs d ON d.id = dl.doc_id").
		Where("d.type = ? AND d.status = ? AND d.order_id = ?",
			model.DocTypeOutbound, model.DocStatusClosed, orderID).
		Group("dl.item_id").
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
