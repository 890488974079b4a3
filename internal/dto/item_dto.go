package dto

import "github.com/shopspring/decimal"

type CreateItemRequest struct {
	Name    string  `json:"name" validate:"required"`
	BaseUom string  `json:"base_uom" validate:"required"`
	Barcode *string `json:"barcode"`
}

type UpdateItemRequest struct {
	Name               string  `json:"name" validate:"required"`
	Barcode            *string `json:"barcode"`
	DefaultPackagingID *string `json:"default_packaging_id" validate:"omitempty,uuid"`
}

type CreatePackagingRequest struct {
	Code         string          `json:"code" validate:"required"`
	Name         string          `json:"name" validate:"required"`
	FactorToBase decimal.Decimal `json:"factor_to_base" validate:"required"`
	SortOrder    int             `json:"sort_order"`
}

type PackagingResponse struct {
	ID           string          `json:"id"`
	ItemID       string          `json:"item_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	FactorToBase decimal.Decimal `json:"factor_to_base"`
	SortOrder    int             `json:"sort_order"`
	IsActive     bool            `json:"is_active"`
}

type ItemResponse struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	BaseUom            string  `json:"base_uom"`
	Barcode            *string `json:"barcode,omitempty"`
	DefaultPackagingID *string `json:"default_packaging_id,omitempty"`
}

type ItemListResponse struct {
	Data  []ItemResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type CreateLocationRequest struct {
	Code string `json:"code" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type LocationResponse struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

type CreatePartnerRequest struct {
	Name  string  `json:"name" validate:"required"`
	TaxID *string `json:"tax_id"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type PartnerResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	TaxID    *string `json:"tax_id,omitempty"`
	Email    *string `json:"email,omitempty"`
	IsActive bool    `json:"is_active"`
}
