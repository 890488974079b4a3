package service

import (
	"context"
	"fmt"
	"time"

	"github.com/naskek/FlowStock-sub000/internal/dto"
	"github.com/naskek/FlowStock-sub000/internal/infra"
	"github.com/naskek/FlowStock-sub000/internal/model"
	"github.com/naskek/FlowStock-sub000/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// HuService manages handling-unit registration and lifecycle. Codes come
// from a persisted counter locked inside the generating transaction, so a
// batch of N yields N consecutive, never-reused codes even under concurrent
// callers.
type HuService interface {
	Generate(ctx context.Context, count int, createdBy string) ([]dto.HuResponse, error)
	Get(ctx context.Context, code string) (*dto.HuResponse, error)
	List(ctx context.Context, filter repository.HuFilter) (*dto.HuListResponse, error)

	// Composition is the derived content view: SUM of postings per
	// (item, location) carrying the code, zero rows filtered out.
	Composition(ctx context.Context, code string) ([]repository.HuContentRow, error)
	Totals(ctx context.Context) (map[string]decimal.Decimal, error)

	// Close empties-checks and closes the container. Void marks a lost or
	// damaged container; both are terminal.
	Close(ctx context.Context, code string, note *string) error
	Void(ctx context.Context, code string, note *string) error

	// LabelSheet renders a printable PDF of label cards for the codes and
	// returns the file path.
	LabelSheet(ctx context.Context, codes []string) (string, error)
}

type huService struct {
	hus         repository.HandlingUnitRepository
	ledgerRepo  repository.LedgerRepository
	storagePath string
	txRetries   int
}

func NewHuService(
	hus repository.HandlingUnitRepository,
	ledgerRepo repository.LedgerRepository,
	storagePath string,
	txRetries int,
) HuService {
	return &huService{hus: hus, ledgerRepo: ledgerRepo, storagePath: storagePath, txRetries: txRetries}
}

func (s *huService) Generate(ctx context.Context, count int, createdBy string) ([]dto.HuResponse, error) {
	if count < 1 {
		return nil, fmt.Errorf("count must be at least 1")
	}

	var created []model.HandlingUnit
	err := runSerializableTx(ctx, s.hus.DB(), s.txRetries, func(tx *gorm.DB) error {
		first, err := s.hus.NextRangeTx(tx, count)
		if err != nil {
			return err
		}
		created = make([]model.HandlingUnit, count)
		for i := 0; i < count; i++ {
			created[i] = model.HandlingUnit{
				Code:      fmt.Sprintf("HU-%06d", first+int64(i)),
				Status:    model.HuStatusOpen,
				CreatedBy: createdBy,
			}
		}
		return s.hus.CreateBatchTx(tx, created)
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.HuResponse, 0, len(created))
	for i := range created {
		out = append(out, huToResponse(&created[i]))
	}
	return out, nil
}

func (s *huService) Get(ctx context.Context, code string) (*dto.HuResponse, error) {
	hu, err := s.hus.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := huToResponse(hu)
	return &resp, nil
}

func (s *huService) List(ctx context.Context, filter repository.HuFilter) (*dto.HuListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	hus, total, err := s.hus.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.HuResponse, 0, len(hus))
	for i := range hus {
		items = append(items, huToResponse(&hus[i]))
	}
	return &dto.HuListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *huService) Composition(ctx context.Context, code string) ([]repository.HuContentRow, error) {
	if _, err := s.hus.FindByCode(ctx, code); err != nil {
		return nil, err
	}
	return s.ledgerRepo.RowsForHu(ctx, code)
}

func (s *huService) Totals(ctx context.Context) (map[string]decimal.Decimal, error) {
	return s.ledgerRepo.TotalsByHu(ctx)
}

func (s *huService) Close(ctx context.Context, code string, note *string) error {
	return s.terminate(ctx, code, model.HuStatusClosed, note)
}

func (s *huService) Void(ctx context.Context, code string, note *string) error {
	return s.terminate(ctx, code, model.HuStatusVoid, note)
}

// terminate moves a container to a terminal status. The emptiness check and
// the status flip share one transaction so a concurrent posting cannot slip
// in between them.
func (s *huService) terminate(ctx context.Context, code, status string, note *string) error {
	return runSerializableTx(ctx, s.hus.DB(), s.txRetries, func(tx *gorm.DB) error {
		hu, err := s.hus.FindByCodeTx(tx, code)
		if err != nil {
			return err
		}
		if hu.Status == model.HuStatusClosed || hu.Status == model.HuStatusVoid {
			return fmt.Errorf("%w: %s", ErrHuTerminal, hu.Code)
		}
		total, err := s.ledgerRepo.HuTotalTx(tx, code)
		if err != nil {
			return err
		}
		if !total.IsZero() {
			return fmt.Errorf("%w: %s holds %s", ErrHuNotEmpty, code, total)
		}
		now := time.Now()
		return s.hus.UpdateStatusTx(tx, code, status, note, &now)
	})
}

func (s *huService) LabelSheet(ctx context.Context, codes []string) (string, error) {
	for _, code := range codes {
		if _, err := s.hus.FindByCode(ctx, code); err != nil {
			return "", fmt.Errorf("handling unit %s not found", code)
		}
	}
	return infra.GenerateLabelSheetPDF(codes, s.storagePath)
}

func huToResponse(hu *model.HandlingUnit) dto.HuResponse {
	resp := dto.HuResponse{
		Code:      hu.Code,
		Status:    hu.Status,
		CreatedBy: hu.CreatedBy,
		Note:      hu.Note,
		CreatedAt: hu.CreatedAt.Format(time.RFC3339),
	}
	if hu.ClosedAt != nil {
		t := hu.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}
