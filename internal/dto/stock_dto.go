package dto

import "github.com/shopspring/decimal"

type QuantityResponse struct {
	ItemID     string          `json:"item_id"`
	LocationID string          `json:"location_id"`
	HuCode     *string         `json:"hu_code,omitempty"`
	Qty        decimal.Decimal `json:"qty"`
}

type AvailabilityRow struct {
	ItemID    string          `json:"item_id"`
	Available decimal.Decimal `json:"available"`
}

type AvailabilityResponse struct {
	Data []AvailabilityRow `json:"data"`
}
