package service

import (
	"github.com/naskek/FlowStock-sub000/internal/model"

	"github.com/shopspring/decimal"
)

// ToBase resolves a display quantity to the item's base unit:
// qtyBase = qtyInput × factorToBase. A nil packaging or a non-positive
// factor means the quantity is already expressed in the base unit.
func ToBase(qtyInput decimal.Decimal, p *model.Packaging) decimal.Decimal {
	if p == nil || !p.FactorToBase.IsPositive() {
		return qtyInput
	}
	return qtyInput.Mul(p.FactorToBase)
}

// ToInput re-derives the display quantity from the authoritative base
// quantity. Same fallback as ToBase: without a usable factor the base
// quantity is the display quantity.
func ToInput(qtyBase decimal.Decimal, p *model.Packaging) decimal.Decimal {
	if p == nil || !p.FactorToBase.IsPositive() {
		return qtyBase
	}
	return qtyBase.Div(p.FactorToBase)
}
