package dto

import "github.com/shopspring/decimal"

type GenerateHuRequest struct {
	Count int `json:"count" validate:"required,min=1,max=500"`
}

type CloseHuRequest struct {
	Note *string `json:"note"`
}

type HuResponse struct {
	Code      string  `json:"code"`
	Status    string  `json:"status"`
	CreatedBy string  `json:"created_by"`
	Note      *string `json:"note,omitempty"`
	CreatedAt string  `json:"created_at"`
	ClosedAt  *string `json:"closed_at,omitempty"`
}

type HuListResponse struct {
	Data  []HuResponse `json:"data"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

type HuTotalsResponse struct {
	Totals map[string]decimal.Decimal `json:"totals"`
}
