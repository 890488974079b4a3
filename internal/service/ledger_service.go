package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/naskek/FlowStock-sub000/internal/model"
	"github.com/naskek/FlowStock-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PostingDelta is one signed quantity change a doc close wants to record.
type PostingDelta struct {
	ItemID     uuid.UUID
	LocationID uuid.UUID
	HuCode     *string
	QtyDelta   decimal.Decimal
}

// LedgerService writes and projects the append-only stock ledger. Writes
// happen only through Post/PostTx; every read aggregates postings at call
// time so the projection can never diverge from history.
type LedgerService interface {
	// Post writes the batch atomically: every delta or none.
	Post(ctx context.Context, deltas []PostingDelta, docID uuid.UUID) error
	// PostTx is Post inside a caller-owned transaction (doc close).
	PostTx(tx *gorm.DB, deltas []PostingDelta, docID uuid.UUID, postedAt time.Time) error

	Quantity(ctx context.Context, itemID, locationID uuid.UUID, huCode *string) (decimal.Decimal, error)
	OnHandByItem(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error)
	ItemStockByLocation(ctx context.Context, itemID uuid.UUID) ([]repository.ItemLocationRow, error)
	TotalsByHu(ctx context.Context) (map[string]decimal.Decimal, error)
	LedgerRowsForHu(ctx context.Context, huCode string) ([]repository.HuContentRow, error)
	PostingsForDoc(ctx context.Context, docID uuid.UUID) ([]model.LedgerPosting, error)
}

type ledgerService struct {
	ledger repository.LedgerRepository
	hus    repository.HandlingUnitRepository
}

func NewLedgerService(ledger repository.LedgerRepository, hus repository.HandlingUnitRepository) LedgerService {
	return &ledgerService{ledger: ledger, hus: hus}
}

func (s *ledgerService) Post(ctx context.Context, deltas []PostingDelta, docID uuid.UUID) error {
	return runTx(ctx, s.ledger.DB(), func(tx *gorm.DB) error {
		return s.PostTx(tx, deltas, docID, time.Now())
	})
}

func (s *ledgerService) PostTx(tx *gorm.DB, deltas []PostingDelta, docID uuid.UUID, postedAt time.Time) error {
	if len(deltas) == 0 {
		return nil
	}

	// A terminal container invalidates the whole batch — postings against
	// closed or void handling units are a validation error, not a warning.
	codes := distinctHuCodes(deltas)
	for _, code := range codes {
		hu, err := s.hus.FindByCodeTx(tx, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("unknown handling unit %s", code)
			}
			return err
		}
		if hu.Status == model.HuStatusClosed || hu.Status == model.HuStatusVoid {
			return fmt.Errorf("%w: %s", ErrHuTerminal, code)
		}
	}

	postings := make([]model.LedgerPosting, 0, len(deltas))
	for _, d := range deltas {
		postings = append(postings, model.LedgerPosting{
			ItemID:     d.ItemID,
			LocationID: d.LocationID,
			HuCode:     d.HuCode,
			QtyDelta:   d.QtyDelta,
			DocID:      docID,
			PostedAt:   postedAt,
		})
	}
	if err := s.ledger.CreateBatchTx(tx, postings); err != nil {
		return err
	}
	return s.hus.MarkActiveTx(tx, codes)
}

func (s *ledgerService) Quantity(ctx context.Context, itemID, locationID uuid.UUID, huCode *string) (decimal.Decimal, error) {
	return s.ledger.Quantity(ctx, itemID, locationID, huCode)
}

func (s *ledgerService) OnHandByItem(ctx context.Context) (map[uuid.UUID]decimal.Decimal, error) {
	return s.ledger.OnHandByItem(ctx)
}

func (s *ledgerService) ItemStockByLocation(ctx context.Context, itemID uuid.UUID) ([]repository.ItemLocationRow, error) {
	return s.ledger.ItemStockByLocation(ctx, itemID)
}

func (s *ledgerService) TotalsByHu(ctx context.Context) (map[string]decimal.Decimal, error) {
	return s.ledger.TotalsByHu(ctx)
}

func (s *ledgerService) LedgerRowsForHu(ctx context.Context, huCode string) ([]repository.HuContentRow, error) {
	return s.ledger.RowsForHu(ctx, huCode)
}

func (s *ledgerService) PostingsForDoc(ctx context.Context, docID uuid.UUID) ([]model.LedgerPosting, error) {
	return s.ledger.ListByDoc(ctx, docID)
}

func distinctHuCodes(deltas []PostingDelta) []string {
	seen := make(map[string]struct{})
	var codes []string
	for _, d := range deltas {
		if d.HuCode == nil {
			continue
		}
		if _, ok := seen[*d.HuCode]; ok {
			continue
		}
		seen[*d.HuCode] = struct{}{}
		codes = append(codes, *d.HuCode)
	}
	return codes
}
