package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/naskek/FlowStock-sub000/internal/dto"
	"github.com/naskek/FlowStock-sub000/internal/model"
	"github.com/naskek/FlowStock-sub000/internal/repository"
	"github.com/naskek/FlowStock-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DocService owns the Draft→Closed document state machine. Closing a doc is
// the only event that writes ledger postings, and it runs the two-phase
// "confirm negative stock" protocol: phase one surfaces warnings without
// committing, phase two (allowNegative=true) commits or fails atomically.
type DocService interface {
	Create(ctx context.Context, req dto.CreateDocRequest) (*dto.DocResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.DocResponse, error)
	List(ctx context.Context, filter repository.DocFilter) (*dto.DocListResponse, error)

	AddLine(ctx context.Context, docID uuid.UUID, req dto.AddLineRequest) (*dto.DocLineResponse, error)
	UpdateLineQty(ctx context.Context, docID, lineID uuid.UUID, req dto.UpdateLineQtyRequest) error
	DeleteLine(ctx context.Context, docID, lineID uuid.UUID) error

	MarkForRecount(ctx context.Context, docID uuid.UUID) error
	TryClose(ctx context.Context, docID uuid.UUID, allowNegative bool) (*CloseResult, error)
}

type docService struct {
	docs       repository.DocRepository
	items      repository.ItemRepository
	locations  repository.LocationRepository
	hus        repository.HandlingUnitRepository
	orders     repository.OrderRepository
	partners   repository.PartnerRepository
	ledgerRepo repository.LedgerRepository
	ledger     LedgerService
	dispatcher *worker.Dispatcher
	epsilon    decimal.Decimal
	txRetries  int
}

func NewDocService(
	docs repository.DocRepository,
	items repository.ItemRepository,
	locations repository.LocationRepository,
	hus repository.HandlingUnitRepository,
	orders repository.OrderRepository,
	partners repository.PartnerRepository,
	ledgerRepo repository.LedgerRepository,
	ledger LedgerService,
	dispatcher *worker.Dispatcher,
	epsilon decimal.Decimal,
	txRetries int,
) DocService {
	return &docService{
		docs:       docs,
		items:      items,
		locations:  locations,
		hus:        hus,
		orders:     orders,
		partners:   partners,
		ledgerRepo: ledgerRepo,
		ledger:     ledger,
		dispatcher: dispatcher,
		epsilon:    epsilon,
		txRetries:  txRetries,
	}
}

// ── Create / read ────────────────────────────────────────────────────────────

func (s *docService) Create(ctx context.Context, req dto.CreateDocRequest) (*dto.DocResponse, error) {
	d := &model.Doc{
		Type:   req.Type,
		Status: model.DocStatusDraft,
	}

	if req.PartnerID != nil {
		pid, err := uuid.Parse(*req.PartnerID)
		if err != nil {
			return nil, fmt.Errorf("invalid partner_id: %w", err)
		}
		if _, err := s.partners.FindByID(ctx, pid); err != nil {
			return nil, fmt.Errorf("partner %s not found", pid)
		}
		d.PartnerID = &pid
	}
	if req.OrderID != nil {
		if req.Type != model.DocTypeOutbound {
			return nil, errors.New("only outbound documents can be bound to an order")
		}
		oid, err := uuid.Parse(*req.OrderID)
		if err != nil {
			return nil, fmt.Errorf("invalid order_id: %w", err)
		}
		if _, err := s.orders.FindByID(ctx, oid); err != nil {
			return nil, fmt.Errorf("order %s not found", oid)
		}
		d.OrderID = &oid
	}
	if req.ShippingRef != nil {
		hu, err := s.hus.FindByCode(ctx, *req.ShippingRef)
		if err != nil {
			return nil, fmt.Errorf("shipping container %s not found", *req.ShippingRef)
		}
		if hu.Status == model.HuStatusClosed || hu.Status == model.HuStatusVoid {
			return nil, fmt.Errorf("%w: %s", ErrHuTerminal, hu.Code)
		}
		d.ShippingRef = req.ShippingRef
	}

	num, err := s.docs.NextDocNumber(ctx)
	if err != nil {
		return nil, err
	}
	d.DocRef = fmt.Sprintf("DOC-%06d", num)

	if err := s.docs.Create(ctx, d); err != nil {
		return nil, err
	}
	return docToResponse(d), nil
}

func (s *docService) Get(ctx context.Context, id uuid.UUID) (*dto.DocResponse, error) {
	d, err := s.docs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return docToResponse(d), nil
}

func (s *docService) List(ctx context.Context, filter repository.DocFilter) (*dto.DocListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	docs, total, err := s.docs.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DocResponse, 0, len(docs))
	for i := range docs {
		items = append(items, *docToResponse(&docs[i]))
	}
	return &dto.DocListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// ── Line editing ─────────────────────────────────────────────────────────────

// editableDoc loads the doc and rejects edits on closed, recount-locked, or
// order-derived documents.
func (s *docService) editableDoc(ctx context.Context, docID uuid.UUID, qtyEditOnly bool) (*model.Doc, error) {
	d, err := s.docs.FindByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if d.Status != model.DocStatusDraft {
		return nil, ErrNotDraft
	}
	if d.IsRecountRequested {
		return nil, ErrRecountRequested
	}
	if d.Type == model.DocTypeOutbound && d.OrderID != nil {
		// Order-bound lines are server-derived; partial-shipment mode only
		// unlocks quantity edits, never adding or removing lines.
		if !qtyEditOnly || !d.PartialShipment {
			return nil, ErrOrderBoundLines
		}
	}
	return d, nil
}

func (s *docService) AddLine(ctx context.Context, docID uuid.UUID, req dto.AddLineRequest) (*dto.DocLineResponse, error) {
	d, err := s.editableDoc(ctx, docID, false)
	if err != nil {
		return nil, err
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, fmt.Errorf("invalid item_id: %w", err)
	}
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("item %s not found", req.ItemID)
	}

	qtyBase, qtyInput, uomCode, err := s.resolveQty(ctx, item, req.Qty, req.UomCode)
	if err != nil {
		return nil, err
	}
	if d.Type == model.DocTypeInventory {
		if qtyBase.IsNegative() {
			return nil, errors.New("counted quantity cannot be negative")
		}
	} else if !qtyBase.IsPositive() {
		return nil, errors.New("quantity must be positive")
	}

	line := &model.DocLine{
		DocID:    d.ID,
		ItemID:   item.ID,
		QtyBase:  qtyBase,
		QtyInput: qtyInput,
		UomCode:  uomCode,
	}
	if err := s.resolveLineTargets(ctx, d.Type, line, req); err != nil {
		return nil, err
	}

	if err := s.docs.CreateLine(ctx, line); err != nil {
		return nil, err
	}
	resp := lineToResponse(line)
	return &resp, nil
}

// resolveQty turns a display quantity into the base-unit pair stored on the
// line. UomCode equal to the item's base unit (or absent) means no
// conversion; anything else must name an active packaging of the item.
func (s *docService) resolveQty(ctx context.Context, item *model.Item, qty decimal.Decimal, uomCode *string) (decimal.Decimal, *decimal.Decimal, *string, error) {
	if uomCode == nil || *uomCode == item.BaseUom {
		return qty, nil, nil, nil
	}
	p, err := s.items.FindPackaging(ctx, item.ID, *uomCode)
	if err != nil {
		return decimal.Zero, nil, nil, fmt.Errorf("packaging %s not found for item %s", *uomCode, item.Name)
	}
	if !p.IsActive {
		return decimal.Zero, nil, nil, fmt.Errorf("packaging %s is no longer active", p.Code)
	}
	input := qty
	return ToBase(qty, p), &input, uomCode, nil
}

// resolveLineTargets validates and sets the from/to fields the doc type
// requires. The same rules run again at close time; this is the fail-fast
// pass for interactive callers.
func (s *docService) resolveLineTargets(ctx context.Context, docType string, line *model.DocLine, req dto.AddLineRequest) error {
	parseLoc := func(raw *string) (*uuid.UUID, error) {
		if raw == nil {
			return nil, nil
		}
		id, err := uuid.Parse(*raw)
		if err != nil {
			return nil, fmt.Errorf("invalid location id: %w", err)
		}
		if _, err := s.locations.FindByID(ctx, id); err != nil {
			return nil, fmt.Errorf("location %s not found", id)
		}
		return &id, nil
	}
	checkHu := func(code *string) error {
		if code == nil {
			return nil
		}
		hu, err := s.hus.FindByCode(ctx, *code)
		if err != nil {
			return fmt.Errorf("handling unit %s not found", *code)
		}
		if hu.Status == model.HuStatusClosed || hu.Status == model.HuStatusVoid {
			return fmt.Errorf("%w: %s", ErrHuTerminal, hu.Code)
		}
		return nil
	}

	var err error
	if line.FromLocationID, err = parseLoc(req.FromLocationID); err != nil {
		return err
	}
	if line.ToLocationID, err = parseLoc(req.ToLocationID); err != nil {
		return err
	}
	if err := checkHu(req.FromHu); err != nil {
		return err
	}
	if err := checkHu(req.ToHu); err != nil {
		return err
	}
	line.FromHu = req.FromHu
	line.ToHu = req.ToHu

	return lineShapeError(docType, line)
}

func (s *docService) UpdateLineQty(ctx context.Context, docID, lineID uuid.UUID, req dto.UpdateLineQtyRequest) error {
	d, err := s.editableDoc(ctx, docID, true)
	if err != nil {
		return err
	}
	line, err := s.docs.FindLine(ctx, lineID)
	if err != nil {
		return err
	}
	if line.DocID != d.ID {
		return errors.New("line does not belong to the document")
	}

	item, err := s.items.FindByID(ctx, line.ItemID)
	if err != nil {
		return err
	}
	qtyBase, qtyInput, uomCode, err := s.resolveQty(ctx, item, req.Qty, req.UomCode)
	if err != nil {
		return err
	}
	if d.Type == model.DocTypeInventory {
		if qtyBase.IsNegative() {
			return errors.New("counted quantity cannot be negative")
		}
	} else if !qtyBase.IsPositive() {
		return errors.New("quantity must be positive")
	}

	// Partial-shipment edits stay within (0, remaining] of the order line.
	if d.Type == model.DocTypeOutbound && d.OrderID != nil {
		order, err := s.orders.FindByID(ctx, *d.OrderID)
		if err != nil {
			return err
		}
		remaining := decimal.Zero
		for _, ol := range order.Lines {
			if ol.ItemID == line.ItemID {
				remaining = ol.QtyOrdered.Sub(ol.QtyShipped)
				break
			}
		}
		if qtyBase.GreaterThan(remaining) {
			return fmt.Errorf("quantity %s exceeds remaining order quantity %s", qtyBase, remaining)
		}
	}

	return s.docs.UpdateLineQty(ctx, lineID, qtyBase, qtyInput, uomCode)
}

func (s *docService) DeleteLine(ctx context.Context, docID, lineID uuid.UUID) error {
	d, err := s.editableDoc(ctx, docID, false)
	if err != nil {
		return err
	}
	line, err := s.docs.FindLine(ctx, lineID)
	if err != nil {
		return err
	}
	if line.DocID != d.ID {
		return errors.New("line does not belong to the document")
	}
	return s.docs.DeleteLine(ctx, lineID)
}

func (s *docService) MarkForRecount(ctx context.Context, docID uuid.UUID) error {
	d, err := s.docs.FindByID(ctx, docID)
	if err != nil {
		return err
	}
	if d.Type != model.DocTypeInventory {
		return errors.New("recount applies to inventory documents only")
	}
	if d.Status != model.DocStatusDraft {
		return ErrNotDraft
	}
	return s.docs.SetRecountRequested(ctx, docID, true)
}

// ── TryClose ─────────────────────────────────────────────────────────────────
// Validation, negative-stock analysis, posting, and order settlement run in
// one serializable transaction, so the quantities validated are the
// quantities posted against.

// errCloseBlocked aborts the close transaction without committing when the
// result carries errors or unconfirmed warnings.
var errCloseBlocked = errors.New("close blocked")

func (s *docService) TryClose(ctx context.Context, docID uuid.UUID, allowNegative bool) (*CloseResult, error) {
	var result *CloseResult
	var shipped *model.Order

	err := runSerializableTx(ctx, s.docs.DB(), s.txRetries, func(tx *gorm.DB) error {
		result, shipped = nil, nil
		res, so, err := s.tryCloseTx(tx, docID, allowNegative)
		if err != nil {
			return err
		}
		result = res
		shipped = so
		if !res.Success {
			return errCloseBlocked
		}
		return nil
	})
	if errors.Is(err, errCloseBlocked) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	if shipped != nil {
		s.notifyShipped(ctx, shipped)
	}
	return result, nil
}

func (s *docService) tryCloseTx(tx *gorm.DB, docID uuid.UUID, allowNegative bool) (*CloseResult, *model.Order, error) {
	res := &CloseResult{}

	d, err := s.docs.FindByIDTx(tx, docID)
	if err != nil {
		return nil, nil, err
	}

	if d.Status == model.DocStatusClosed {
		res.addError(IssueState, "document is already closed")
		return res, nil, nil
	}
	if d.IsRecountRequested {
		res.addError(IssueState, "recount requested: close is blocked until the recount is received")
	}
	if len(d.Lines) == 0 {
		res.addError(IssueValidation, "document has no lines")
	}
	s.headerIssues(d, res)
	if res.blocked() {
		return res, nil, nil
	}

	deltas, err := s.collectDeltas(tx, d, res)
	if err != nil {
		return nil, nil, err
	}
	if err := s.huIssues(tx, deltas, res); err != nil {
		return nil, nil, err
	}
	if res.blocked() {
		return res, nil, nil
	}

	if err := s.negativeStockIssues(tx, d, deltas, res); err != nil {
		return nil, nil, err
	}
	if res.blocked() {
		return res, nil, nil
	}
	if len(res.Warnings) > 0 && !allowNegative {
		// Phase one: nothing is posted, the caller decides.
		return res, nil, nil
	}

	now := time.Now()
	if err := s.ledger.PostTx(tx, deltas, d.ID, now); err != nil {
		return nil, nil, err
	}
	if err := s.docs.CloseTx(tx, d.ID, now); err != nil {
		return nil, nil, err
	}

	var shipped *model.Order
	if d.Type == model.DocTypeOutbound && d.OrderID != nil {
		if shipped, err = s.settleOrderTx(tx, d, now); err != nil {
			return nil, nil, err
		}
	}

	res.Success = true
	return res, shipped, nil
}

// headerIssues checks header completeness for the doc's type.
func (s *docService) headerIssues(d *model.Doc, res *CloseResult) {
	switch d.Type {
	case model.DocTypeInbound, model.DocTypeOutbound:
		if d.PartnerID == nil {
			res.addError(IssueValidation, fmt.Sprintf("%s document requires a partner", d.Type))
		}
	}
}

// lineShapeError enforces the location/container cardinality the doc type
// dictates on a single line.
func lineShapeError(docType string, l *model.DocLine) error {
	switch docType {
	case model.DocTypeInbound:
		if l.ToLocationID == nil {
			return errors.New("inbound line requires a to-location")
		}
	case model.DocTypeOutbound, model.DocTypeWriteOff:
		if l.FromLocationID == nil {
			return fmt.Errorf("%s line requires a from-location", docType)
		}
	case model.DocTypeMove:
		if l.FromLocationID == nil || l.ToLocationID == nil {
			return errors.New("move line requires both from- and to-location")
		}
		if *l.FromLocationID == *l.ToLocationID {
			// Same-location moves are only meaningful as in-place repacks
			// between containers.
			if l.FromHu == nil || l.ToHu == nil {
				return errors.New("move between identical locations requires both containers (in-place repack)")
			}
			if *l.FromHu == *l.ToHu {
				return errors.New("move line would be a no-op: same location and container")
			}
		}
	case model.DocTypeInventory:
		if l.ToLocationID == nil {
			return errors.New("inventory line requires the counted location")
		}
	}
	return nil
}

// collectDeltas computes the signed postings every line would emit. For
// inventory docs the posted value is countedQty − currentLedgerQty: the
// delta, not the absolute count.
func (s *docService) collectDeltas(tx *gorm.DB, d *model.Doc, res *CloseResult) ([]PostingDelta, error) {
	var deltas []PostingDelta
	for i := range d.Lines {
		l := &d.Lines[i]
		if err := lineShapeError(d.Type, l); err != nil {
			res.addError(IssueValidation, fmt.Sprintf("line %d: %v", i+1, err))
			continue
		}

		switch d.Type {
		case model.DocTypeInbound:
			deltas = append(deltas, PostingDelta{
				ItemID: l.ItemID, LocationID: *l.ToLocationID, HuCode: l.ToHu, QtyDelta: l.QtyBase,
			})
		case model.DocTypeOutbound, model.DocTypeWriteOff:
			deltas = append(deltas, PostingDelta{
				ItemID: l.ItemID, LocationID: *l.FromLocationID, HuCode: l.FromHu, QtyDelta: l.QtyBase.Neg(),
			})
		case model.DocTypeMove:
			deltas = append(deltas,
				PostingDelta{ItemID: l.ItemID, LocationID: *l.FromLocationID, HuCode: l.FromHu, QtyDelta: l.QtyBase.Neg()},
				PostingDelta{ItemID: l.ItemID, LocationID: *l.ToLocationID, HuCode: l.ToHu, QtyDelta: l.QtyBase},
			)
		case model.DocTypeInventory:
			current, err := s.ledgerRepo.QuantityTx(tx, l.ItemID, *l.ToLocationID, l.ToHu)
			if err != nil {
				return nil, err
			}
			diff := l.QtyBase.Sub(current)
			if diff.IsZero() {
				continue
			}
			deltas = append(deltas, PostingDelta{
				ItemID: l.ItemID, LocationID: *l.ToLocationID, HuCode: l.ToHu, QtyDelta: diff,
			})
		}
	}
	return deltas, nil
}

// huIssues rejects deltas aimed at unknown or terminal containers.
func (s *docService) huIssues(tx *gorm.DB, deltas []PostingDelta, res *CloseResult) error {
	for _, code := range distinctHuCodes(deltas) {
		hu, err := s.hus.FindByCodeTx(tx, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				res.addError(IssueValidation, fmt.Sprintf("handling unit %s not found", code))
				continue
			}
			return err
		}
		if hu.Status == model.HuStatusClosed || hu.Status == model.HuStatusVoid {
			res.addError(IssueValidation, fmt.Sprintf("handling unit %s is %s", code, hu.Status))
		}
	}
	return nil
}

type stockKey struct {
	item uuid.UUID
	loc  uuid.UUID
	hu   string
}

// negativeStockIssues computes resulting quantities for every tuple the doc
// debits. Order-bound outbound docs are checked against item-wide
// availability and block hard; everything else warns and is closeable with
// allowNegative.
func (s *docService) negativeStockIssues(tx *gorm.DB, d *model.Doc, deltas []PostingDelta, res *CloseResult) error {
	if d.Type == model.DocTypeOutbound && d.OrderID != nil {
		// Order fulfillment must never promise stock that does not exist
		// anywhere: oversell relative to total on-hand is a hard error.
		perItem := make(map[uuid.UUID]decimal.Decimal)
		for _, delta := range deltas {
			perItem[delta.ItemID] = perItem[delta.ItemID].Add(delta.QtyDelta)
		}
		for itemID, net := range perItem {
			if !net.IsNegative() {
				continue
			}
			onHand, err := s.ledgerRepo.ItemOnHandTx(tx, itemID)
			if err != nil {
				return err
			}
			if onHand.Add(net).LessThan(s.epsilon.Neg()) {
				res.addError(IssueStockConflict, fmt.Sprintf(
					"item %s: shipment of %s exceeds total on-hand %s", itemID, net.Neg(), onHand))
			}
		}
		return nil
	}

	grouped := make(map[stockKey]decimal.Decimal)
	for _, delta := range deltas {
		key := stockKey{item: delta.ItemID, loc: delta.LocationID}
		if delta.HuCode != nil {
			key.hu = *delta.HuCode
		}
		grouped[key] = grouped[key].Add(delta.QtyDelta)
	}
	for key, net := range grouped {
		if !net.IsNegative() {
			continue
		}
		var huCode *string
		if key.hu != "" {
			code := key.hu
			huCode = &code
		}
		current, err := s.ledgerRepo.QuantityTx(tx, key.item, key.loc, huCode)
		if err != nil {
			return err
		}
		if current.Add(net).LessThan(s.epsilon.Neg()) {
			target := key.loc.String()
			if huCode != nil {
				target += "/" + *huCode
			}
			res.addWarning(IssueStockConflict, fmt.Sprintf(
				"item %s at %s: quantity would drop to %s", key.item, target, current.Add(net)))
		}
	}
	return nil
}

// settleOrderTx books the shipped quantities onto the order and flips its
// status: Shipped when every line is covered, InProgress otherwise.
func (s *docService) settleOrderTx(tx *gorm.DB, d *model.Doc, now time.Time) (*model.Order, error) {
	perItem := make(map[uuid.UUID]decimal.Decimal)
	for i := range d.Lines {
		l := &d.Lines[i]
		perItem[l.ItemID] = perItem[l.ItemID].Add(l.QtyBase)
	}
	for itemID, qty := range perItem {
		if err := s.orders.AddShippedTx(tx, *d.OrderID, itemID, qty); err != nil {
			return nil, err
		}
	}

	order, err := s.orders.FindByIDTx(tx, *d.OrderID)
	if err != nil {
		return nil, err
	}
	covered := true
	for _, ol := range order.Lines {
		if ol.QtyOrdered.Sub(ol.QtyShipped).GreaterThan(s.epsilon) {
			covered = false
			break
		}
	}
	if covered {
		if err := s.orders.UpdateStatusTx(tx, order.ID, model.OrderStatusShipped, &now); err != nil {
			return nil, err
		}
		order.Status = model.OrderStatusShipped
		order.ShippedAt = &now
		return order, nil
	}
	if order.Status == model.OrderStatusAccepted {
		if err := s.orders.UpdateStatusTx(tx, order.ID, model.OrderStatusInProgress, nil); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// notifyShipped enqueues a best-effort shipped notification for the order's
// partner. A missing dispatcher or partner email is not an error.
func (s *docService) notifyShipped(ctx context.Context, order *model.Order) {
	if s.dispatcher == nil {
		return
	}
	partner, err := s.partners.FindByID(ctx, order.PartnerID)
	if err != nil || partner.Email == nil {
		return
	}
	_ = s.dispatcher.EnqueueNotify(ctx, worker.NotifyPayload{
		ToEmail:  *partner.Email,
		OrderRef: order.OrderRef,
	})
}

// ── Response mapping ─────────────────────────────────────────────────────────

func docToResponse(d *model.Doc) *dto.DocResponse {
	lines := make([]dto.DocLineResponse, 0, len(d.Lines))
	for i := range d.Lines {
		lines = append(lines, lineToResponse(&d.Lines[i]))
	}
	resp := &dto.DocResponse{
		ID:                 d.ID.String(),
		DocRef:             d.DocRef,
		Type:               d.Type,
		Status:             d.Status,
		ShippingRef:        d.ShippingRef,
		IsRecountRequested: d.IsRecountRequested,
		PartialShipment:    d.PartialShipment,
		CreatedAt:          d.CreatedAt.Format(time.RFC3339),
		Lines:              lines,
	}
	if d.PartnerID != nil {
		pid := d.PartnerID.String()
		resp.PartnerID = &pid
	}
	if d.OrderID != nil {
		oid := d.OrderID.String()
		resp.OrderID = &oid
	}
	if d.ClosedAt != nil {
		closed := d.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &closed
	}
	return resp
}

func lineToResponse(l *model.DocLine) dto.DocLineResponse {
	resp := dto.DocLineResponse{
		ID:       l.ID.String(),
		ItemID:   l.ItemID.String(),
		QtyBase:  l.QtyBase,
		QtyInput: l.QtyInput,
		UomCode:  l.UomCode,
		FromHu:   l.FromHu,
		ToHu:     l.ToHu,
	}
	if l.FromLocationID != nil {
		id := l.FromLocationID.String()
		resp.FromLocationID = &id
	}
	if l.ToLocationID != nil {
		id := l.ToLocationID.String()
		resp.ToLocationID = &id
	}
	return resp
}
