package dto

import (
	"github.com/shopspring/decimal"
)

type CreateDocRequest struct {
	Type        string  `json:"type" validate:"required,oneof=inbound outbound move writeoff inventory"`
	PartnerID   *string `json:"partner_id" validate:"omitempty,uuid"`
	OrderID     *string `json:"order_id" validate:"omitempty,uuid"`
	ShippingRef *string `json:"shipping_ref"`
}

type AddLineRequest struct {
	ItemID string `json:"item_id" validate:"required,uuid"`
	// Qty is the counted quantity for inventory docs, the moved quantity
	// otherwise. Interpreted in UomCode when given, base unit when not.
	Qty            decimal.Decimal `json:"qty" validate:"required"`
	UomCode        *string         `json:"uom_code"`
	FromLocationID *string         `json:"from_location_id" validate:"omitempty,uuid"`
	ToLocationID   *string          `json:"to_location_id" validate:"omitempty,uuid"`
	FromHu         *string          `json:"from_hu"`
	ToHu           *string          `json:"to_hu"`
}

type UpdateLineQtyRequest struct {
	Qty     decimal.Decimal `json:"qty" validate:"required"`
	UomCode *string         `json:"uom_code"`
}

type CloseDocRequest struct {
	AllowNegative bool `json:"allow_negative"`
}

type DocLineResponse struct {
	ID             string           `json:"id"`
	ItemID         string           `json:"item_id"`
	QtyBase        decimal.Decimal  `json:"qty_base"`
	QtyInput       *decimal.Decimal `json:"qty_input,omitempty"`
	UomCode        *string          `json:"uom_code,omitempty"`
	FromLocationID *string          `json:"from_location_id,omitempty"`
	ToLocationID   *string          `json:"to_location_id,omitempty"`
	FromHu         *string          `json:"from_hu,omitempty"`
	ToHu           *string          `json:"to_hu,omitempty"`
}

type DocResponse struct {
	ID                 string            `json:"id"`
	DocRef             string            `json:"doc_ref"`
	Type               string            `json:"type"`
	Status             string            `json:"status"`
	PartnerID          *string           `json:"partner_id,omitempty"`
	OrderID            *string           `json:"order_id,omitempty"`
	ShippingRef        *string           `json:"shipping_ref,omitempty"`
	IsRecountRequested bool              `json:"is_recount_requested"`
	PartialShipment    bool              `json:"partial_shipment"`
	CreatedAt          string            `json:"created_at"`
	ClosedAt           *string           `json:"closed_at,omitempty"`
	Lines              []DocLineResponse `json:"lines"`
}

type DocListResponse struct {
	Data  []DocResponse `json:"data"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

type CloseDocResponse struct {
	Success  bool           `json:"success"`
	Errors   []IssueDTO     `json:"errors"`
	Warnings []IssueDTO     `json:"warnings"`
}

type IssueDTO struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
