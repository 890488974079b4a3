package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/naskek/FlowStock-sub000/internal/dto"
	"github.com/naskek/FlowStock-sub000/internal/model"
	"github.com/naskek/FlowStock-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderService manages customer orders and the allocation of their lines
// onto outbound documents. Allocation is availability-aware: stock already
// committed to other draft outbound docs is not promised twice.
type OrderService interface {
	Create(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
	List(ctx context.Context, filter repository.OrderFilter) (*dto.OrderListResponse, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error

	// ItemAvailability is total on-hand minus quantities committed to draft
	// outbound docs. It may be negative when drafts overcommit.
	ItemAvailability(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error)

	// Fulfillment reconciles the order's shipped counters against what the
	// closed outbound docs referencing it actually shipped.
	Fulfillment(ctx context.Context, orderID uuid.UUID) (*dto.OrderFulfillmentResponse, error)

	// ApplyToDoc replaces the doc's lines with a fresh allocation of the
	// order's open quantities and binds the doc to the order. Zero lines
	// added is a valid outcome: a full backorder.
	ApplyToDoc(ctx context.Context, docID, orderID uuid.UUID) (*dto.ApplyOrderResponse, error)

	SetPartialShipment(ctx context.Context, docID uuid.UUID, enabled bool) error
	ClearDocOrder(ctx context.Context, docID uuid.UUID) error
}

type orderService struct {
	orders     repository.OrderRepository
	docs       repository.DocRepository
	items      repository.ItemRepository
	partners   repository.PartnerRepository
	ledgerRepo repository.LedgerRepository
	epsilon    decimal.Decimal
}

func NewOrderService(
	orders repository.OrderRepository,
	docs repository.DocRepository,
	items repository.ItemRepository,
	partners repository.PartnerRepository,
	ledgerRepo repository.LedgerRepository,
	epsilon decimal.Decimal,
) OrderService {
	return &orderService{
		orders:     orders,
		docs:       docs,
		items:      items,
		partners:   partners,
		ledgerRepo: ledgerRepo,
		epsilon:    epsilon,
	}
}

// ── CRUD ─────────────────────────────────────────────────────────────────────

func (s *orderService) Create(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	partnerID, err := uuid.Parse(req.PartnerID)
	if err != nil {
		return nil, fmt.Errorf("invalid partner_id: %w", err)
	}
	if _, err := s.partners.FindByID(ctx, partnerID); err != nil {
		return nil, fmt.Errorf("partner %s not found", partnerID)
	}

	o := &model.Order{
		OrderRef:  req.OrderRef,
		PartnerID: partnerID,
		DueDate:   req.DueDate,
		Status:    model.OrderStatusAccepted,
		Comment:   req.Comment,
	}
	seen := make(map[uuid.UUID]bool, len(req.Lines))
	for _, lr := range req.Lines {
		itemID, err := uuid.Parse(lr.ItemID)
		if err != nil {
			return nil, fmt.Errorf("invalid item_id: %w", err)
		}
		if seen[itemID] {
			return nil, fmt.Errorf("item %s appears on more than one line", itemID)
		}
		seen[itemID] = true
		if _, err := s.items.FindByID(ctx, itemID); err != nil {
			return nil, fmt.Errorf("item %s not found", itemID)
		}
		if !lr.Qty.IsPositive() {
			return nil, errors.New("ordered quantity must be positive")
		}
		o.Lines = append(o.Lines, model.OrderLine{
			ItemID:     itemID,
			QtyOrdered: lr.Qty,
			QtyShipped: decimal.Zero,
		})
	}

	if err := s.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	return orderToResponse(o), nil
}

func (s *orderService) Get(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return orderToResponse(o), nil
}

func (s *orderService) List(ctx context.Context, filter repository.OrderFilter) (*dto.OrderListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *orderToResponse(&orders[i]))
	}
	return &dto.OrderListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// SetStatus moves an order between accepted and in_progress. Shipped is an
// engine-only transition, produced by closing outbound docs.
func (s *orderService) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	if status == model.OrderStatusShipped {
		return ErrShippedDirect
	}
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if o.Status == model.OrderStatusShipped {
		return errors.New("order is already shipped")
	}
	return s.orders.UpdateStatus(ctx, id, status)
}

// ── Allocation ───────────────────────────────────────────────────────────────

func (s *orderService) ItemAvailability(ctx context.Context, itemID uuid.UUID) (decimal.Decimal, error) {
	db := s.docs.DB()
	if db != nil {
		db = db.WithContext(ctx)
	}
	onHand, err := s.ledgerRepo.ItemOnHandTx(db, itemID)
	if err != nil {
		return decimal.Zero, err
	}
	committed, err := s.docs.OpenOutboundCommittedForItemTx(db, itemID)
	if err != nil {
		return decimal.Zero, err
	}
	return onHand.Sub(committed), nil
}

func (s *orderService) Fulfillment(ctx context.Context, orderID uuid.UUID) (*dto.OrderFulfillmentResponse, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	db := s.docs.DB()
	if db != nil {
		db = db.WithContext(ctx)
	}
	byDocs, err := s.docs.ShippedByDocsTx(db, o.ID)
	if err != nil {
		return nil, err
	}
	resp := &dto.OrderFulfillmentResponse{OrderID: o.ID.String(), Status: o.Status}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, dto.OrderFulfillmentRow{
			ItemID:       l.ItemID.String(),
			QtyOrdered:   l.QtyOrdered,
			QtyShipped:   l.QtyShipped,
			QtyByDocs:    byDocs[l.ItemID],
			QtyRemaining: l.QtyOrdered.Sub(l.QtyShipped),
		})
	}
	return resp, nil
}

func (s *orderService) ApplyToDoc(ctx context.Context, docID, orderID uuid.UUID) (*dto.ApplyOrderResponse, error) {
	d, err := s.docs.FindByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if d.Type != model.DocTypeOutbound {
		return nil, errors.New("orders apply to outbound documents only")
	}
	if d.Status != model.DocStatusDraft {
		return nil, ErrNotDraft
	}
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == model.OrderStatusShipped {
		return nil, errors.New("order is already shipped")
	}

	added, err := s.allocateLines(ctx, d, o)
	if err != nil {
		return nil, err
	}
	return &dto.ApplyOrderResponse{LinesAdded: added}, nil
}

// allocateLines replaces the doc's lines with an allocation of the order's
// open quantities, capped by current availability, and binds doc to order.
// Re-applying is how callers refresh a stale allocation.
func (s *orderService) allocateLines(ctx context.Context, d *model.Doc, o *model.Order) (int, error) {
	db := s.docs.DB()
	if db != nil {
		db = db.WithContext(ctx)
	}
	onHand, err := s.ledgerRepo.OnHandByItemTx(db)
	if err != nil {
		return 0, err
	}
	// Exclude this doc: its existing lines are being replaced.
	committed, err := s.docs.OpenOutboundCommittedTx(db, &d.ID)
	if err != nil {
		return 0, err
	}

	if err := s.docs.DeleteLinesByDoc(ctx, d.ID); err != nil {
		return 0, err
	}

	added := 0
	for _, ol := range o.Lines {
		remaining := ol.QtyOrdered.Sub(ol.QtyShipped)
		if remaining.LessThanOrEqual(s.epsilon) {
			continue
		}
		avail := onHand[ol.ItemID].Sub(committed[ol.ItemID])
		if avail.IsNegative() {
			avail = decimal.Zero
		}
		alloc := decimal.Min(remaining, avail)
		if alloc.LessThanOrEqual(s.epsilon) {
			// Backorder: allocate nothing now, the line is picked up on the
			// next apply once stock arrives.
			continue
		}

		loc, hu, err := s.pickSource(ctx, ol.ItemID)
		if err != nil {
			return 0, err
		}
		if loc == nil {
			continue
		}
		line := &model.DocLine{
			DocID:          d.ID,
			ItemID:         ol.ItemID,
			QtyBase:        alloc,
			FromLocationID: loc,
			FromHu:         hu,
		}
		if err := s.docs.CreateLine(ctx, line); err != nil {
			return 0, err
		}
		added++
	}

	if err := s.docs.SetOrder(ctx, d.ID, &o.ID); err != nil {
		return 0, err
	}
	pid := o.PartnerID
	if err := s.docs.SetPartner(ctx, d.ID, &pid); err != nil {
		return 0, err
	}
	return added, nil
}

// pickSource chooses the stock bucket to pick from: the (location, container)
// holding the most of the item.
func (s *orderService) pickSource(ctx context.Context, itemID uuid.UUID) (*uuid.UUID, *string, error) {
	rows, err := s.ledgerRepo.ItemStockByLocation(ctx, itemID)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}
	loc := rows[0].LocationID
	return &loc, rows[0].HuCode, nil
}

// SetPartialShipment toggles quantity edits on an order-bound doc. Turning
// it off discards manual edits by re-allocating from the order.
func (s *orderService) SetPartialShipment(ctx context.Context, docID uuid.UUID, enabled bool) error {
	d, err := s.docs.FindByID(ctx, docID)
	if err != nil {
		return err
	}
	if d.Status != model.DocStatusDraft {
		return ErrNotDraft
	}
	if d.Type != model.DocTypeOutbound || d.OrderID == nil {
		return errors.New("partial shipment applies to order-bound outbound documents")
	}
	if err := s.docs.SetPartialShipment(ctx, docID, enabled); err != nil {
		return err
	}
	if !enabled {
		o, err := s.orders.FindByID(ctx, *d.OrderID)
		if err != nil {
			return err
		}
		if _, err := s.allocateLines(ctx, d, o); err != nil {
			return err
		}
	}
	return nil
}

// ClearDocOrder unbinds a draft doc from its order and removes the
// order-derived lines. Already-posted ledger entries are untouched.
func (s *orderService) ClearDocOrder(ctx context.Context, docID uuid.UUID) error {
	d, err := s.docs.FindByID(ctx, docID)
	if err != nil {
		return err
	}
	if d.Status != model.DocStatusDraft {
		return ErrNotDraft
	}
	if d.OrderID == nil {
		return nil
	}
	if err := s.docs.DeleteLinesByDoc(ctx, docID); err != nil {
		return err
	}
	if err := s.docs.SetPartialShipment(ctx, docID, false); err != nil {
		return err
	}
	return s.docs.SetOrder(ctx, docID, nil)
}

// ── Response mapping ─────────────────────────────────────────────────────────

func orderToResponse(o *model.Order) *dto.OrderResponse {
	lines := make([]dto.OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, dto.OrderLineResponse{
			ID:         l.ID.String(),
			ItemID:     l.ItemID.String(),
			QtyOrdered: l.QtyOrdered,
			QtyShipped: l.QtyShipped,
		})
	}
	resp := &dto.OrderResponse{
		ID:        o.ID.String(),
		OrderRef:  o.OrderRef,
		PartnerID: o.PartnerID.String(),
		DueDate:   o.DueDate.Format("2006-01-02"),
		Status:    o.Status,
		Comment:   o.Comment,
		Lines:     lines,
	}
	if o.ShippedAt != nil {
		t := o.ShippedAt.Format(time.RFC3339)
		resp.ShippedAt = &t
	}
	return resp
}
