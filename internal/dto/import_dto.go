package dto

import "github.com/shopspring/decimal"

// ImportRecord is one line-delimited device scan event.
type ImportRecord struct {
	ScanID       string          `json:"scan_id" validate:"required"`
	Barcode      string          `json:"barcode" validate:"required"`
	Qty          decimal.Decimal `json:"qty" validate:"required"`
	UomCode      *string         `json:"uom_code"`
	FromLocation string          `json:"from_location"`
	ToLocation   string          `json:"to_location"`
	FromHu       *string         `json:"from_hu"`
	ToHu         *string         `json:"to_hu"`
}

type ImportRequest struct {
	DocID   string         `json:"doc_id" validate:"required,uuid"`
	Records []ImportRecord `json:"records" validate:"required,min=1,dive"`
}

type ImportErrorResponse struct {
	ID        string `json:"id"`
	DocID     *string `json:"doc_id,omitempty"`
	Reason    string `json:"reason"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

type ImportReport struct {
	Imported   int                   `json:"imported"`
	Duplicates int                   `json:"duplicates"`
	Errors     []ImportErrorResponse `json:"errors"`
}

type ReapplyResponse struct {
	Applied bool `json:"applied"`
}
