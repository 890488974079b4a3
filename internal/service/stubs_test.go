package service

import (
	"context"
	"sort"
	"time"

	"github.com/naskek/FlowStock-sub000/internal/model"
	"github.com/naskek/FlowStock-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository stubs. Every DB() returns nil, which routes runTx and
// runSerializableTx through the direct fn(nil) path.

var (
	_ repository.DocRepository          = (*stubDocRepo)(nil)
	_ repository.ItemRepository         = (*stubItemRepo)(nil)
	_ repository.LocationRepository     = (*stubLocationRepo)(nil)
	_ repository.PartnerRepository      = (*stubPartnerRepo)(nil)
	_ repository.HandlingUnitRepository = (*stubHuRepo)(nil)
	_ repository.OrderRepository        = (*stubOrderRepo)(nil)
	_ repository.LedgerRepository       = (*stubLedgerRepo)(nil)
	_ repository.ImportRepository       = (*stubImportRepo)(nil)
)

func sameHu(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ── Ledger ───────────────────────────────────────────────────────────────────

type stubLedgerRepo struct {
	postings []model.LedgerPosting
}

func (r *stubLedgerRepo) DB() *gorm.DB { return nil }

func (r *stubLedgerRepo) CreateBatchTx(_ *gorm.DB, batch []model.LedgerPosting) error {
	r.postings = append(r.postings, batch...)
	return nil
}

func (r *stubLedgerRepo) Quantity(_ context.Context, itemID, locationID uuid.UUID, huCode *string) (decimal.Decimal, error) {
	return r.QuantityTx(nil, itemID, locationID, huCode)
}

func (r *stubLedgerRepo) QuantityTx(_ *gorm.DB, itemID, locationID uuid.UUID, huCode *string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.postings {
		if p.ItemID == itemID && p.LocationID == locationID && sameHu(p.HuCode, huCode) {
			sum = sum.Add(p.QtyDelta)
		}
	}
	return sum, nil
}

func (r *stubLedgerRepo) ItemOnHandTx(_ *gorm.DB, itemID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.postings {
		if p.ItemID == itemID {
			sum = sum.Add(p.QtyDelta)
		}
	}
	return sum, nil
}

func (r *stubLedgerRepo) OnHandByItem(_ context.Context) (map[uuid.UUID]decimal.Decimal, error) {
	return r.OnHandByItemTx(nil)
}

func (r *stubLedgerRepo) OnHandByItemTx(_ *gorm.DB) (map[uuid.UUID]decimal.Decimal, error) {
	totals := make(map[uuid.UUID]decimal.Decimal)
	for _, p := range r.postings {
		totals[p.ItemID] = totals[p.ItemID].Add(p.QtyDelta)
	}
	return totals, nil
}

func (r *stubLedgerRepo) TotalsByHu(_ context.Context) (map[string]decimal.Decimal, error) {
	totals := make(map[string]decimal.Decimal)
	for _, p := range r.postings {
		if p.HuCode != nil {
			totals[*p.HuCode] = totals[*p.HuCode].Add(p.QtyDelta)
		}
	}
	return totals, nil
}

func (r *stubLedgerRepo) RowsForHu(_ context.Context, huCode string) ([]repository.HuContentRow, error) {
	type key struct {
		item uuid.UUID
		loc  uuid.UUID
	}
	grouped := make(map[key]decimal.Decimal)
	for _, p := range r.postings {
		if p.HuCode != nil && *p.HuCode == huCode {
			k := key{item: p.ItemID, loc: p.LocationID}
			grouped[k] = grouped[k].Add(p.QtyDelta)
		}
	}
	var rows []repository.HuContentRow
	for k, qty := range grouped {
		if qty.IsZero() {
			continue
		}
		rows = append(rows, repository.HuContentRow{ItemID: k.item, LocationID: k.loc, Qty: qty})
	}
	return rows, nil
}

func (r *stubLedgerRepo) HuTotalTx(_ *gorm.DB, huCode string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.postings {
		if p.HuCode != nil && *p.HuCode == huCode {
			sum = sum.Add(p.QtyDelta)
		}
	}
	return sum, nil
}

func (r *stubLedgerRepo) ItemStockByLocation(_ context.Context, itemID uuid.UUID) ([]repository.ItemLocationRow, error) {
	type key struct {
		loc uuid.UUID
		hu  string
	}
	grouped := make(map[key]decimal.Decimal)
	hus := make(map[key]*string)
	for _, p := range r.postings {
		if p.ItemID != itemID {
			continue
		}
		k := key{loc: p.LocationID}
		if p.HuCode != nil {
			k.hu = *p.HuCode
		}
		grouped[k] = grouped[k].Add(p.QtyDelta)
		hus[k] = p.HuCode
	}
	var rows []repository.ItemLocationRow
	for k, qty := range grouped {
		if !qty.IsPositive() {
			continue
		}
		rows = append(rows, repository.ItemLocationRow{LocationID: k.loc, HuCode: hus[k], Qty: qty})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Qty.GreaterThan(rows[j].Qty) })
	return rows, nil
}

func (r *stubLedgerRepo) LocationHasStock(_ context.Context, locationID uuid.UUID, epsilon decimal.Decimal) (bool, error) {
	type key struct {
		item uuid.UUID
		hu   string
	}
	grouped := make(map[key]decimal.Decimal)
	for _, p := range r.postings {
		if p.LocationID != locationID {
			continue
		}
		k := key{item: p.ItemID}
		if p.HuCode != nil {
			k.hu = *p.HuCode
		}
		grouped[k] = grouped[k].Add(p.QtyDelta)
	}
	for _, qty := range grouped {
		if qty.Abs().GreaterThan(epsilon) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubLedgerRepo) ListByDoc(_ context.Context, docID uuid.UUID) ([]model.LedgerPosting, error) {
	var out []model.LedgerPosting
	for _, p := range r.postings {
		if p.DocID == docID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ── Docs ─────────────────────────────────────────────────────────────────────

type stubDocRepo struct {
	docs  map[uuid.UUID]*model.Doc
	lines []*model.DocLine
	seq   int64
}

func newStubDocRepo() *stubDocRepo {
	return &stubDocRepo{docs: make(map[uuid.UUID]*model.Doc)}
}

func (r *stubDocRepo) DB() *gorm.DB { return nil }

func (r *stubDocRepo) Create(_ context.Context, d *model.Doc) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	r.docs[d.ID] = d
	return nil
}

func (r *stubDocRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Doc, error) {
	return r.FindByIDTx(nil, id)
}

func (r *stubDocRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Doc, error) {
	d, ok := r.docs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	d.Lines = d.Lines[:0]
	for _, l := range r.lines {
		if l.DocID == id {
			d.Lines = append(d.Lines, *l)
		}
	}
	return d, nil
}

func (r *stubDocRepo) List(_ context.Context, filter repository.DocFilter) ([]model.Doc, int64, error) {
	var out []model.Doc
	for _, d := range r.docs {
		if filter.Type != "" && d.Type != filter.Type {
			continue
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		if filter.OrderID != nil && (d.OrderID == nil || *d.OrderID != *filter.OrderID) {
			continue
		}
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (r *stubDocRepo) NextDocNumber(_ context.Context) (int64, error) {
	r.seq++
	return r.seq, nil
}

func (r *stubDocRepo) CreateLine(_ context.Context, l *model.DocLine) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = time.Now()
	r.lines = append(r.lines, l)
	return nil
}

func (r *stubDocRepo) FindLine(_ context.Context, lineID uuid.UUID) (*model.DocLine, error) {
	for _, l := range r.lines {
		if l.ID == lineID {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubDocRepo) UpdateLineQty(_ context.Context, lineID uuid.UUID, qtyBase decimal.Decimal, qtyInput *decimal.Decimal, uomCode *string) error {
	for _, l := range r.lines {
		if l.ID == lineID {
			l.QtyBase = qtyBase
			l.QtyInput = qtyInput
			l.UomCode = uomCode
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubDocRepo) DeleteLine(_ context.Context, lineID uuid.UUID) error {
	kept := r.lines[:0]
	for _, l := range r.lines {
		if l.ID != lineID {
			kept = append(kept, l)
		}
	}
	r.lines = kept
	return nil
}

func (r *stubDocRepo) DeleteLinesByDoc(_ context.Context, docID uuid.UUID) error {
	kept := r.lines[:0]
	for _, l := range r.lines {
		if l.DocID != docID {
			kept = append(kept, l)
		}
	}
	r.lines = kept
	return nil
}

func (r *stubDocRepo) SetRecountRequested(_ context.Context, id uuid.UUID, requested bool) error {
	d, ok := r.docs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	d.IsRecountRequested = requested
	return nil
}

func (r *stubDocRepo) SetPartialShipment(_ context.Context, id uuid.UUID, enabled bool) error {
	d, ok := r.docs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	d.PartialShipment = enabled
	return nil
}

func (r *stubDocRepo) SetOrder(_ context.Context, id uuid.UUID, orderID *uuid.UUID) error {
	d, ok := r.docs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	d.OrderID = orderID
	return nil
}

func (r *stubDocRepo) SetPartner(_ context.Context, id uuid.UUID, partnerID *uuid.UUID) error {
	d, ok := r.docs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	d.PartnerID = partnerID
	return nil
}

func (r *stubDocRepo) CloseTx(_ *gorm.DB, id uuid.UUID, closedAt time.Time) error {
	d, ok := r.docs[id]
	if !ok || d.Status != model.DocStatusDraft {
		return gorm.ErrRecordNotFound
	}
	d.Status = model.DocStatusClosed
	d.ClosedAt = &closedAt
	return nil
}

func (r *stubDocRepo) OpenOutboundCommittedTx(_ *gorm.DB, excludeDocID *uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	committed := make(map[uuid.UUID]decimal.Decimal)
	for _, d := range r.docs {
		if d.Type != model.DocTypeOutbound || d.Status != model.DocStatusDraft {
			continue
		}
		if excludeDocID != nil && d.ID == *excludeDocID {
			continue
		}
		for _, l := range r.lines {
			if l.DocID == d.ID {
				committed[l.ItemID] = committed[l.ItemID].Add(l.QtyBase)
			}
		}
	}
	return committed, nil
}

func (r *stubDocRepo) OpenOutboundCommittedForItemTx(tx *gorm.DB, itemID uuid.UUID) (decimal.Decimal, error) {
	committed, err := r.OpenOutboundCommittedTx(tx, nil)
	if err != nil {
		return decimal.Zero, err
	}
	return committed[itemID], nil
}

func (r *stubDocRepo) ShippedByDocsTx(_ *gorm.DB, orderID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	shipped := make(map[uuid.UUID]decimal.Decimal)
	for _, d := range r.docs {
		if d.Type != model.DocTypeOutbound || d.Status != model.DocStatusClosed {
			continue
		}
		if d.OrderID == nil || *d.OrderID != orderID {
			continue
		}
		for _, l := range r.lines {
			if l.DocID == d.ID {
				shipped[l.ItemID] = shipped[l.ItemID].Add(l.QtyBase)
			}
		}
	}
	return shipped, nil
}

// ── Catalog ──────────────────────────────────────────────────────────────────

type stubItemRepo struct {
	items map[uuid.UUID]*model.Item
	packs []*model.Packaging
}

func newStubItemRepo() *stubItemRepo {
	return &stubItemRepo{items: make(map[uuid.UUID]*model.Item)}
}

func (r *stubItemRepo) DB() *gorm.DB { return nil }

func (r *stubItemRepo) Create(_ context.Context, i *model.Item) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	r.items[i.ID] = i
	return nil
}

func (r *stubItemRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Item, error) {
	i, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return i, nil
}

func (r *stubItemRepo) FindByBarcode(_ context.Context, barcode string) (*model.Item, error) {
	for _, i := range r.items {
		if i.Barcode != nil && *i.Barcode == barcode {
			return i, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubItemRepo) List(_ context.Context, _ repository.ItemFilter) ([]model.Item, int64, error) {
	var out []model.Item
	for _, i := range r.items {
		out = append(out, *i)
	}
	return out, int64(len(out)), nil
}

func (r *stubItemRepo) Update(_ context.Context, i *model.Item) error {
	r.items[i.ID] = i
	return nil
}

func (r *stubItemRepo) CreatePackaging(_ context.Context, p *model.Packaging) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.packs = append(r.packs, p)
	return nil
}

func (r *stubItemRepo) FindPackagingByID(_ context.Context, id uuid.UUID) (*model.Packaging, error) {
	for _, p := range r.packs {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubItemRepo) FindPackaging(_ context.Context, itemID uuid.UUID, code string) (*model.Packaging, error) {
	for _, p := range r.packs {
		if p.ItemID == itemID && p.Code == code {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubItemRepo) ListPackagings(_ context.Context, itemID uuid.UUID, activeOnly bool) ([]model.Packaging, error) {
	var out []model.Packaging
	for _, p := range r.packs {
		if p.ItemID != itemID {
			continue
		}
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubItemRepo) DeactivatePackaging(_ context.Context, id uuid.UUID) error {
	for _, p := range r.packs {
		if p.ID == id {
			p.IsActive = false
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type stubLocationRepo struct {
	locs map[uuid.UUID]*model.Location
}

func newStubLocationRepo() *stubLocationRepo {
	return &stubLocationRepo{locs: make(map[uuid.UUID]*model.Location)}
}

func (r *stubLocationRepo) DB() *gorm.DB { return nil }

func (r *stubLocationRepo) Create(_ context.Context, l *model.Location) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.locs[l.ID] = l
	return nil
}

func (r *stubLocationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Location, error) {
	l, ok := r.locs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (r *stubLocationRepo) FindByCode(_ context.Context, code string) (*model.Location, error) {
	for _, l := range r.locs {
		if l.Code == code {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubLocationRepo) List(_ context.Context) ([]model.Location, error) {
	var out []model.Location
	for _, l := range r.locs {
		out = append(out, *l)
	}
	return out, nil
}

func (r *stubLocationRepo) Update(_ context.Context, l *model.Location) error {
	r.locs[l.ID] = l
	return nil
}

func (r *stubLocationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.locs, id)
	return nil
}

type stubPartnerRepo struct {
	partners map[uuid.UUID]*model.Partner
}

func newStubPartnerRepo() *stubPartnerRepo {
	return &stubPartnerRepo{partners: make(map[uuid.UUID]*model.Partner)}
}

func (r *stubPartnerRepo) Create(_ context.Context, p *model.Partner) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.partners[p.ID] = p
	return nil
}

func (r *stubPartnerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Partner, error) {
	p, ok := r.partners[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPartnerRepo) List(_ context.Context, includeInactive bool) ([]model.Partner, error) {
	var out []model.Partner
	for _, p := range r.partners {
		if !includeInactive && !p.IsActive {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubPartnerRepo) Update(_ context.Context, p *model.Partner) error {
	r.partners[p.ID] = p
	return nil
}

func (r *stubPartnerRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	p, ok := r.partners[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.IsActive = false
	return nil
}

// ── Handling units ───────────────────────────────────────────────────────────

type stubHuRepo struct {
	hus     map[string]*model.HandlingUnit
	next    int64
	findErr error // when set, FindByCodeTx fails with it
}

func newStubHuRepo() *stubHuRepo {
	return &stubHuRepo{hus: make(map[string]*model.HandlingUnit), next: 1}
}

func (r *stubHuRepo) DB() *gorm.DB { return nil }

func (r *stubHuRepo) NextRangeTx(_ *gorm.DB, count int) (int64, error) {
	first := r.next
	r.next += int64(count)
	return first, nil
}

func (r *stubHuRepo) CreateBatchTx(_ *gorm.DB, hus []model.HandlingUnit) error {
	for i := range hus {
		hu := hus[i]
		r.hus[hu.Code] = &hu
	}
	return nil
}

func (r *stubHuRepo) FindByCode(_ context.Context, code string) (*model.HandlingUnit, error) {
	return r.FindByCodeTx(nil, code)
}

func (r *stubHuRepo) FindByCodeTx(_ *gorm.DB, code string) (*model.HandlingUnit, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	hu, ok := r.hus[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return hu, nil
}

func (r *stubHuRepo) UpdateStatusTx(_ *gorm.DB, code, status string, note *string, closedAt *time.Time) error {
	hu, ok := r.hus[code]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	hu.Status = status
	hu.Note = note
	hu.ClosedAt = closedAt
	return nil
}

func (r *stubHuRepo) MarkActiveTx(_ *gorm.DB, codes []string) error {
	for _, code := range codes {
		if hu, ok := r.hus[code]; ok && hu.Status == model.HuStatusOpen {
			hu.Status = model.HuStatusActive
		}
	}
	return nil
}

func (r *stubHuRepo) List(_ context.Context, filter repository.HuFilter) ([]model.HandlingUnit, int64, error) {
	var out []model.HandlingUnit
	for _, hu := range r.hus {
		if filter.Status != "" && hu.Status != filter.Status {
			continue
		}
		out = append(out, *hu)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, int64(len(out)), nil
}

// ── Orders ───────────────────────────────────────────────────────────────────

type stubOrderRepo struct {
	orders map[uuid.UUID]*model.Order
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*model.Order)}
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

func (r *stubOrderRepo) Create(_ context.Context, o *model.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Lines {
		if o.Lines[i].ID == uuid.Nil {
			o.Lines[i].ID = uuid.New()
		}
		o.Lines[i].OrderID = o.ID
	}
	r.orders[o.ID] = o
	return nil
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	return r.FindByIDTx(nil, id)
}

func (r *stubOrderRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubOrderRepo) List(_ context.Context, filter repository.OrderFilter) ([]model.Order, int64, error) {
	var out []model.Order
	for _, o := range r.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.PartnerID != nil && o.PartnerID != *filter.PartnerID {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	o, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	return nil
}

func (r *stubOrderRepo) UpdateStatusTx(_ *gorm.DB, id uuid.UUID, status string, shippedAt *time.Time) error {
	o, ok := r.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	o.Status = status
	if shippedAt != nil {
		o.ShippedAt = shippedAt
	}
	return nil
}

func (r *stubOrderRepo) AddShippedTx(_ *gorm.DB, orderID, itemID uuid.UUID, qty decimal.Decimal) error {
	o, ok := r.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range o.Lines {
		if o.Lines[i].ItemID == itemID {
			o.Lines[i].QtyShipped = o.Lines[i].QtyShipped.Add(qty)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Imports ──────────────────────────────────────────────────────────────────

type stubImportRepo struct {
	rows []*model.ImportError
}

func (r *stubImportRepo) CreateError(_ context.Context, e *model.ImportError) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()
	r.rows = append(r.rows, e)
	return nil
}

func (r *stubImportRepo) FindErrorByID(_ context.Context, id uuid.UUID) (*model.ImportError, error) {
	for _, e := range r.rows {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubImportRepo) ListErrors(_ context.Context, status string) ([]model.ImportError, error) {
	var out []model.ImportError
	for _, e := range r.rows {
		if status != "" && e.Status != status {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r *stubImportRepo) MarkApplied(_ context.Context, id uuid.UUID) error {
	for _, e := range r.rows {
		if e.ID == id {
			now := time.Now()
			e.Status = model.ImportErrorApplied
			e.AppliedAt = &now
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ── Environment ──────────────────────────────────────────────────────────────

// testEnv wires the full stub set once so individual tests only seed what
// they need.
type testEnv struct {
	docs     *stubDocRepo
	items    *stubItemRepo
	locs     *stubLocationRepo
	partners *stubPartnerRepo
	hus      *stubHuRepo
	orders   *stubOrderRepo
	ledger   *stubLedgerRepo
	imports  *stubImportRepo
	epsilon  decimal.Decimal
}

func newTestEnv() *testEnv {
	return &testEnv{
		docs:     newStubDocRepo(),
		items:    newStubItemRepo(),
		locs:     newStubLocationRepo(),
		partners: newStubPartnerRepo(),
		hus:      newStubHuRepo(),
		orders:   newStubOrderRepo(),
		ledger:   &stubLedgerRepo{},
		imports:  &stubImportRepo{},
		epsilon:  decimal.RequireFromString("0.0001"),
	}
}

func (e *testEnv) ledgerSvc() LedgerService {
	return NewLedgerService(e.ledger, e.hus)
}

func (e *testEnv) docSvc() DocService {
	return NewDocService(e.docs, e.items, e.locs, e.hus, e.orders, e.partners, e.ledger, e.ledgerSvc(), nil, e.epsilon, 3)
}

func (e *testEnv) orderSvc() OrderService {
	return NewOrderService(e.orders, e.docs, e.items, e.partners, e.ledger, e.epsilon)
}

func (e *testEnv) huSvc() HuService {
	return NewHuService(e.hus, e.ledger, "/tmp", 3)
}

func (e *testEnv) importSvc() ImportService {
	return NewImportService(e.docs, e.items, e.locs, e.hus, e.imports, nil)
}

func (e *testEnv) seedItem(name, baseUom string, barcode *string) *model.Item {
	i := &model.Item{ID: uuid.New(), Name: name, BaseUom: baseUom, Barcode: barcode}
	e.items.items[i.ID] = i
	return i
}

func (e *testEnv) seedPackaging(itemID uuid.UUID, code string, factor decimal.Decimal) *model.Packaging {
	p := &model.Packaging{ID: uuid.New(), ItemID: itemID, Code: code, Name: code, FactorToBase: factor, IsActive: true}
	e.items.packs = append(e.items.packs, p)
	return p
}

func (e *testEnv) seedLocation(code string) *model.Location {
	l := &model.Location{ID: uuid.New(), Code: code, Name: code}
	e.locs.locs[l.ID] = l
	return l
}

func (e *testEnv) seedPartner(name string) *model.Partner {
	p := &model.Partner{ID: uuid.New(), Name: name, IsActive: true}
	e.partners.partners[p.ID] = p
	return p
}

func (e *testEnv) seedHu(code, status string) *model.HandlingUnit {
	hu := &model.HandlingUnit{Code: code, Status: status, CreatedBy: "tester", CreatedAt: time.Now()}
	e.hus.hus[code] = hu
	return hu
}

func (e *testEnv) seedOrder(partnerID uuid.UUID, lines ...model.OrderLine) *model.Order {
	o := &model.Order{
		ID:        uuid.New(),
		OrderRef:  "ORD-" + uuid.NewString()[:8],
		PartnerID: partnerID,
		DueDate:   time.Now().AddDate(0, 0, 7),
		Status:    model.OrderStatusAccepted,
		Lines:     lines,
	}
	for i := range o.Lines {
		o.Lines[i].ID = uuid.New()
		o.Lines[i].OrderID = o.ID
	}
	e.orders.orders[o.ID] = o
	return o
}

func (e *testEnv) seedDoc(docType string) *model.Doc {
	d := &model.Doc{
		ID:        uuid.New(),
		DocRef:    "DOC-" + uuid.NewString()[:8],
		Type:      docType,
		Status:    model.DocStatusDraft,
		CreatedAt: time.Now(),
	}
	e.docs.docs[d.ID] = d
	return d
}

func (e *testEnv) seedLine(d *model.Doc, l model.DocLine) *model.DocLine {
	l.ID = uuid.New()
	l.DocID = d.ID
	line := l
	e.docs.lines = append(e.docs.lines, &line)
	return &line
}

// seedStock writes a ledger posting directly, bypassing doc close.
func (e *testEnv) seedStock(itemID, locationID uuid.UUID, huCode *string, qty decimal.Decimal) {
	e.ledger.postings = append(e.ledger.postings, model.LedgerPosting{
		ID:         uuid.New(),
		ItemID:     itemID,
		LocationID: locationID,
		HuCode:     huCode,
		QtyDelta:   qty,
		DocID:      uuid.New(),
		PostedAt:   time.Now(),
	})
}

func strPtr(s string) *string { return &s }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
