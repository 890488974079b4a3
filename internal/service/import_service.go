package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/naskek/FlowStock-sub000/internal/dto"
	"github.com/naskek/FlowStock-sub000/internal/model"
	"github.com/naskek/FlowStock-sub000/internal/repository"
	"github.com/naskek/FlowStock-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ImportService turns device scan batches into doc lines. Records are
// deduplicated by scan_id, so re-sending a batch after a flaky upload adds
// nothing twice. Records that cannot be resolved land in import_errors with
// their raw payload for later correction and re-apply.
type ImportService interface {
	// Import applies the records synchronously and reports the outcome.
	Import(ctx context.Context, docID uuid.UUID, records []dto.ImportRecord) (*dto.ImportReport, error)

	// EnqueueImport hands the batch to the worker pool.
	EnqueueImport(ctx context.Context, req dto.ImportRequest) error

	ListErrors(ctx context.Context, status string) ([]dto.ImportErrorResponse, error)
	ReapplyError(ctx context.Context, errorID uuid.UUID) (*dto.ReapplyResponse, error)
}

type importService struct {
	docs       repository.DocRepository
	items      repository.ItemRepository
	locations  repository.LocationRepository
	hus        repository.HandlingUnitRepository
	imports    repository.ImportRepository
	dispatcher *worker.Dispatcher
}

func NewImportService(
	docs repository.DocRepository,
	items repository.ItemRepository,
	locations repository.LocationRepository,
	hus repository.HandlingUnitRepository,
	imports repository.ImportRepository,
	dispatcher *worker.Dispatcher,
) ImportService {
	return &importService{
		docs:       docs,
		items:      items,
		locations:  locations,
		hus:        hus,
		imports:    imports,
		dispatcher: dispatcher,
	}
}

func (s *importService) EnqueueImport(ctx context.Context, req dto.ImportRequest) error {
	if s.dispatcher == nil {
		return errors.New("async import requires a job queue")
	}
	docID, err := uuid.Parse(req.DocID)
	if err != nil {
		return fmt.Errorf("invalid doc_id: %w", err)
	}
	if _, err := s.docs.FindByID(ctx, docID); err != nil {
		return err
	}
	return s.dispatcher.EnqueueScanImport(ctx, req)
}

func (s *importService) Import(ctx context.Context, docID uuid.UUID, records []dto.ImportRecord) (*dto.ImportReport, error) {
	d, err := s.docs.FindByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if d.Status != model.DocStatusDraft {
		return nil, ErrNotDraft
	}
	if d.Type == model.DocTypeOutbound && d.OrderID != nil {
		return nil, ErrOrderBoundLines
	}

	seen := make(map[string]bool)
	for i := range d.Lines {
		if d.Lines[i].ScanID != nil {
			seen[*d.Lines[i].ScanID] = true
		}
	}

	report := &dto.ImportReport{}
	for _, rec := range records {
		if seen[rec.ScanID] {
			report.Duplicates++
			continue
		}
		seen[rec.ScanID] = true

		if err := s.applyRecord(ctx, d, rec); err != nil {
			resp, rerr := s.recordError(ctx, d.ID, rec, err)
			if rerr != nil {
				return nil, rerr
			}
			report.Errors = append(report.Errors, *resp)
			continue
		}
		report.Imported++
	}

	// An inventory doc locked for recount unlocks once the new count lands.
	if d.Type == model.DocTypeInventory && d.IsRecountRequested && report.Imported > 0 {
		if err := s.docs.SetRecountRequested(ctx, d.ID, false); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// applyRecord resolves one scan record into a doc line. Any resolution
// failure is returned as the error-row reason.
func (s *importService) applyRecord(ctx context.Context, d *model.Doc, rec dto.ImportRecord) error {
	item, err := s.items.FindByBarcode(ctx, rec.Barcode)
	if err != nil {
		return fmt.Errorf("barcode %s not found", rec.Barcode)
	}

	qtyBase := rec.Qty
	var qtyInput *decimal.Decimal
	var uomCode *string
	if rec.UomCode != nil && *rec.UomCode != item.BaseUom {
		p, err := s.items.FindPackaging(ctx, item.ID, *rec.UomCode)
		if err != nil {
			return fmt.Errorf("packaging %s not found for item %s", *rec.UomCode, item.Name)
		}
		if !p.IsActive {
			return fmt.Errorf("packaging %s is no longer active", p.Code)
		}
		input := rec.Qty
		qtyBase = ToBase(rec.Qty, p)
		qtyInput = &input
		uomCode = rec.UomCode
	}
	if d.Type == model.DocTypeInventory {
		if qtyBase.IsNegative() {
			return errors.New("counted quantity cannot be negative")
		}
	} else if !qtyBase.IsPositive() {
		return errors.New("quantity must be positive")
	}

	scanID := rec.ScanID
	line := &model.DocLine{
		DocID:    d.ID,
		ItemID:   item.ID,
		QtyBase:  qtyBase,
		QtyInput: qtyInput,
		UomCode:  uomCode,
		ScanID:   &scanID,
	}

	resolveLoc := func(code string) (*uuid.UUID, error) {
		if code == "" {
			return nil, nil
		}
		loc, err := s.locations.FindByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("location %s not found", code)
		}
		return &loc.ID, nil
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

	if line.FromLocationID, err = resolveLoc(rec.FromLocation); err != nil {
		return err
	}
	if line.ToLocationID, err = resolveLoc(rec.ToLocation); err != nil {
		return err
	}
	if err := checkHu(rec.FromHu); err != nil {
		return err
	}
	if err := checkHu(rec.ToHu); err != nil {
		return err
	}
	line.FromHu = rec.FromHu
	line.ToHu = rec.ToHu

	if err := lineShapeError(d.Type, line); err != nil {
		return err
	}
	return s.docs.CreateLine(ctx, line)
}

func (s *importService) recordError(ctx context.Context, docID uuid.UUID, rec dto.ImportRecord, cause error) (*dto.ImportErrorResponse, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	row := &model.ImportError{
		DocID:   &docID,
		Payload: string(payload),
		Reason:  cause.Error(),
		Status:  model.ImportErrorPending,
	}
	if err := s.imports.CreateError(ctx, row); err != nil {
		return nil, err
	}
	resp := importErrorToResponse(row)
	return &resp, nil
}

func (s *importService) ListErrors(ctx context.Context, status string) ([]dto.ImportErrorResponse, error) {
	rows, err := s.imports.ListErrors(ctx, status)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ImportErrorResponse, 0, len(rows))
	for i := range rows {
		out = append(out, importErrorToResponse(&rows[i]))
	}
	return out, nil
}

// ReapplyError re-runs a corrected error row through the same resolution
// path. Applied=false with a nil error means the record still does not
// resolve; the row stays pending.
func (s *importService) ReapplyError(ctx context.Context, errorID uuid.UUID) (*dto.ReapplyResponse, error) {
	row, err := s.imports.FindErrorByID(ctx, errorID)
	if err != nil {
		return nil, err
	}
	if row.Status != model.ImportErrorPending {
		return nil, fmt.Errorf("import error %s is already %s", errorID, row.Status)
	}
	if row.DocID == nil {
		return nil, errors.New("import error has no target document")
	}

	var rec dto.ImportRecord
	if err := json.Unmarshal([]byte(row.Payload), &rec); err != nil {
		return nil, fmt.Errorf("stored payload is not a scan record: %w", err)
	}

	d, err := s.docs.FindByID(ctx, *row.DocID)
	if err != nil {
		return nil, err
	}
	if d.Status != model.DocStatusDraft {
		return nil, ErrNotDraft
	}

	for i := range d.Lines {
		if d.Lines[i].ScanID != nil && *d.Lines[i].ScanID == rec.ScanID {
			// Already landed in a previous batch: just settle the row.
			if err := s.imports.MarkApplied(ctx, errorID); err != nil {
				return nil, err
			}
			return &dto.ReapplyResponse{Applied: true}, nil
		}
	}

	if err := s.applyRecord(ctx, d, rec); err != nil {
		return &dto.ReapplyResponse{Applied: false}, nil
	}
	if err := s.imports.MarkApplied(ctx, errorID); err != nil {
		return nil, err
	}
	return &dto.ReapplyResponse{Applied: true}, nil
}

func importErrorToResponse(e *model.ImportError) dto.ImportErrorResponse {
	resp := dto.ImportErrorResponse{
		ID:        e.ID.String(),
		Reason:    e.Reason,
		Status:    e.Status,
		CreatedAt: e.CreatedAt.Format(time.RFC3339),
	}
	if e.DocID != nil {
		id := e.DocID.String()
		resp.DocID = &id
	}
	return resp
}
