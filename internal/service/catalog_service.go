package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/naskek/FlowStock-sub000/internal/dto"
	"github.com/naskek/FlowStock-sub000/internal/model"
	"github.com/naskek/FlowStock-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogService owns the master data: items with their packagings,
// locations, partners.
type CatalogService interface {
	CreateItem(ctx context.Context, req dto.CreateItemRequest) (*dto.ItemResponse, error)
	GetItem(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error)
	ListItems(ctx context.Context, filter repository.ItemFilter) (*dto.ItemListResponse, error)
	UpdateItem(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error)

	CreatePackaging(ctx context.Context, itemID uuid.UUID, req dto.CreatePackagingRequest) (*dto.PackagingResponse, error)
	ListPackagings(ctx context.Context, itemID uuid.UUID, activeOnly bool) ([]dto.PackagingResponse, error)
	DeactivatePackaging(ctx context.Context, id uuid.UUID) error

	CreateLocation(ctx context.Context, req dto.CreateLocationRequest) (*dto.LocationResponse, error)
	ListLocations(ctx context.Context) ([]dto.LocationResponse, error)
	DeleteLocation(ctx context.Context, id uuid.UUID) error

	CreatePartner(ctx context.Context, req dto.CreatePartnerRequest) (*dto.PartnerResponse, error)
	ListPartners(ctx context.Context, includeInactive bool) ([]dto.PartnerResponse, error)
	UpdatePartner(ctx context.Context, id uuid.UUID, req dto.CreatePartnerRequest) (*dto.PartnerResponse, error)
	DeactivatePartner(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	items      repository.ItemRepository
	locations  repository.LocationRepository
	partners   repository.PartnerRepository
	ledgerRepo repository.LedgerRepository
	epsilon    decimal.Decimal
}

func NewCatalogService(
	items repository.ItemRepository,
	locations repository.LocationRepository,
	partners repository.PartnerRepository,
	ledgerRepo repository.LedgerRepository,
	epsilon decimal.Decimal,
) CatalogService {
	return &catalogService{
		items:      items,
		locations:  locations,
		partners:   partners,
		ledgerRepo: ledgerRepo,
		epsilon:    epsilon,
	}
}

// ── Items ────────────────────────────────────────────────────────────────────

func (s *catalogService) CreateItem(ctx context.Context, req dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if req.Barcode != nil {
		if _, err := s.items.FindByBarcode(ctx, *req.Barcode); err == nil {
			return nil, fmt.Errorf("barcode %s is already assigned", *req.Barcode)
		}
	}
	i := &model.Item{
		Name:    req.Name,
		BaseUom: req.BaseUom,
		Barcode: req.Barcode,
	}
	if err := s.items.Create(ctx, i); err != nil {
		return nil, err
	}
	return itemToResponse(i), nil
}

func (s *catalogService) GetItem(ctx context.Context, id uuid.UUID) (*dto.ItemResponse, error) {
	i, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return itemToResponse(i), nil
}

func (s *catalogService) ListItems(ctx context.Context, filter repository.ItemFilter) (*dto.ItemListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	items, total, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, *itemToResponse(&items[i]))
	}
	return &dto.ItemListResponse{Data: out, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *catalogService) UpdateItem(ctx context.Context, id uuid.UUID, req dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	i, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Barcode != nil && (i.Barcode == nil || *i.Barcode != *req.Barcode) {
		if _, err := s.items.FindByBarcode(ctx, *req.Barcode); err == nil {
			return nil, fmt.Errorf("barcode %s is already assigned", *req.Barcode)
		}
	}
	i.Name = req.Name
	i.Barcode = req.Barcode
	if req.DefaultPackagingID != nil {
		pid, err := uuid.Parse(*req.DefaultPackagingID)
		if err != nil {
			return nil, fmt.Errorf("invalid default_packaging_id: %w", err)
		}
		p, err := s.items.FindPackagingByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("packaging %s not found", pid)
		}
		if p.ItemID != i.ID {
			return nil, errors.New("default packaging must belong to the item")
		}
		if !p.IsActive {
			return nil, fmt.Errorf("packaging %s is no longer active", p.Code)
		}
		i.DefaultPackagingID = &pid
	} else {
		i.DefaultPackagingID = nil
	}
	if err := s.items.Update(ctx, i); err != nil {
		return nil, err
	}
	return itemToResponse(i), nil
}

// ── Packagings ───────────────────────────────────────────────────────────────

func (s *catalogService) CreatePackaging(ctx context.Context, itemID uuid.UUID, req dto.CreatePackagingRequest) (*dto.PackagingResponse, error) {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("item %s not found", itemID)
	}
	if !req.FactorToBase.IsPositive() {
		return nil, errors.New("factor_to_base must be positive")
	}
	if req.Code == item.BaseUom {
		return nil, errors.New("packaging code collides with the item's base unit")
	}
	if _, err := s.items.FindPackaging(ctx, itemID, req.Code); err == nil {
		return nil, fmt.Errorf("packaging %s already exists on the item", req.Code)
	}
	p := &model.Packaging{
		ItemID:       itemID,
		Code:         req.Code,
		Name:         req.Name,
		FactorToBase: req.FactorToBase,
		SortOrder:    req.SortOrder,
		IsActive:     true,
	}
	if err := s.items.CreatePackaging(ctx, p); err != nil {
		return nil, err
	}
	resp := packagingToResponse(p)
	return &resp, nil
}

func (s *catalogService) ListPackagings(ctx context.Context, itemID uuid.UUID, activeOnly bool) ([]dto.PackagingResponse, error) {
	packs, err := s.items.ListPackagings(ctx, itemID, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PackagingResponse, 0, len(packs))
	for i := range packs {
		out = append(out, packagingToResponse(&packs[i]))
	}
	return out, nil
}

// DeactivatePackaging retires a packaging from new input. Existing doc lines
// keep their stored base quantities; factors are never edited in place.
func (s *catalogService) DeactivatePackaging(ctx context.Context, id uuid.UUID) error {
	p, err := s.items.FindPackagingByID(ctx, id)
	if err != nil {
		return err
	}
	item, err := s.items.FindByID(ctx, p.ItemID)
	if err != nil {
		return err
	}
	if item.DefaultPackagingID != nil && *item.DefaultPackagingID == p.ID {
		item.DefaultPackagingID = nil
		if err := s.items.Update(ctx, item); err != nil {
			return err
		}
	}
	return s.items.DeactivatePackaging(ctx, id)
}

// ── Locations ────────────────────────────────────────────────────────────────

func (s *catalogService) CreateLocation(ctx context.Context, req dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	l := &model.Location{Code: req.Code, Name: req.Name}
	if err := s.locations.Create(ctx, l); err != nil {
		return nil, err
	}
	resp := locationToResponse(l)
	return &resp, nil
}

func (s *catalogService) ListLocations(ctx context.Context) ([]dto.LocationResponse, error) {
	locations, err := s.locations.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, 0, len(locations))
	for i := range locations {
		out = append(out, locationToResponse(&locations[i]))
	}
	return out, nil
}

func (s *catalogService) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	if _, err := s.locations.FindByID(ctx, id); err != nil {
		return err
	}
	hasStock, err := s.ledgerRepo.LocationHasStock(ctx, id, s.epsilon)
	if err != nil {
		return err
	}
	if hasStock {
		return ErrLocationInUse
	}
	return s.locations.Delete(ctx, id)
}

// ── Partners ─────────────────────────────────────────────────────────────────

func (s *catalogService) CreatePartner(ctx context.Context, req dto.CreatePartnerRequest) (*dto.PartnerResponse, error) {
	p := &model.Partner{
		Name:     req.Name,
		TaxID:    req.TaxID,
		Email:    req.Email,
		IsActive: true,
	}
	if err := s.partners.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := partnerToResponse(p)
	return &resp, nil
}

func (s *catalogService) ListPartners(ctx context.Context, includeInactive bool) ([]dto.PartnerResponse, error) {
	partners, err := s.partners.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PartnerResponse, 0, len(partners))
	for i := range partners {
		out = append(out, partnerToResponse(&partners[i]))
	}
	return out, nil
}

func (s *catalogService) UpdatePartner(ctx context.Context, id uuid.UUID, req dto.CreatePartnerRequest) (*dto.PartnerResponse, error) {
	p, err := s.partners.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = req.Name
	p.TaxID = req.TaxID
	p.Email = req.Email
	if err := s.partners.Update(ctx, p); err != nil {
		return nil, err
	}
	resp := partnerToResponse(p)
	return &resp, nil
}

func (s *catalogService) DeactivatePartner(ctx context.Context, id uuid.UUID) error {
	if _, err := s.partners.FindByID(ctx, id); err != nil {
		return err
	}
	return s.partners.Deactivate(ctx, id)
}

// ── Response mapping ─────────────────────────────────────────────────────────

func itemToResponse(i *model.Item) *dto.ItemResponse {
	resp := &dto.ItemResponse{
		ID:      i.ID.String(),
		Name:    i.Name,
		BaseUom: i.BaseUom,
		Barcode: i.Barcode,
	}
	if i.DefaultPackagingID != nil {
		id := i.DefaultPackagingID.String()
		resp.DefaultPackagingID = &id
	}
	return resp
}

func packagingToResponse(p *model.Packaging) dto.PackagingResponse {
	return dto.PackagingResponse{
		ID:           p.ID.String(),
		ItemID:       p.ItemID.String(),
		Code:         p.Code,
		Name:         p.Name,
		FactorToBase: p.FactorToBase,
		SortOrder:    p.SortOrder,
		IsActive:     p.IsActive,
	}
}

func locationToResponse(l *model.Location) dto.LocationResponse {
	return dto.LocationResponse{ID: l.ID.String(), Code: l.Code, Name: l.Name}
}

func partnerToResponse(p *model.Partner) dto.PartnerResponse {
	return dto.PartnerResponse{
		ID:       p.ID.String(),
		Name:     p.Name,
		TaxID:    p.TaxID,
		Email:    p.Email,
		IsActive: p.IsActive,
	}
}
