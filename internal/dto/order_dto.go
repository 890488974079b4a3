package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderLineRequest struct {
	ItemID string          `json:"item_id" validate:"required,uuid"`
	Qty    decimal.Decimal `json:"qty" validate:"required"`
}

type CreateOrderRequest struct {
	OrderRef  string             `json:"order_ref" validate:"required"`
	PartnerID string             `json:"partner_id" validate:"required,uuid"`
	DueDate   time.Time          `json:"due_date" validate:"required"`
	Comment   string             `json:"comment"`
	Lines     []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// UpdateOrderStatusRequest accepts accepted/in_progress only: shipped is
// reached exclusively through closing outbound docs.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted in_progress shipped"`
}

type ApplyOrderRequest struct {
	OrderID string `json:"order_id" validate:"required,uuid"`
}

type PartialShipmentRequest struct {
	Enabled bool `json:"enabled"`
}

type OrderLineResponse struct {
	ID         string          `json:"id"`
	ItemID     string          `json:"item_id"`
	QtyOrdered decimal.Decimal `json:"qty_ordered"`
	QtyShipped decimal.Decimal `json:"qty_shipped"`
}

type OrderResponse struct {
	ID        string              `json:"id"`
	OrderRef  string              `json:"order_ref"`
	PartnerID string              `json:"partner_id"`
	DueDate   string              `json:"due_date"`
	Status    string              `json:"status"`
	Comment   string              `json:"comment,omitempty"`
	ShippedAt *string             `json:"shipped_at,omitempty"`
	Lines     []OrderLineResponse `json:"lines"`
}

// OrderFulfillmentRow reconciles one order line against the quantities the
// closed outbound docs actually shipped.
type OrderFulfillmentRow struct {
	ItemID       string          `json:"item_id"`
	QtyOrdered   decimal.Decimal `json:"qty_ordered"`
	QtyShipped   decimal.Decimal `json:"qty_shipped"`
	QtyByDocs    decimal.Decimal `json:"qty_by_docs"`
	QtyRemaining decimal.Decimal `json:"qty_remaining"`
}

type OrderFulfillmentResponse struct {
	OrderID string                `json:"order_id"`
	Status  string                `json:"status"`
	Lines   []OrderFulfillmentRow `json:"lines"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type ApplyOrderResponse struct {
	LinesAdded int `json:"lines_added"`
}
