package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a stock-keeping unit. BaseUom is fixed at creation: every ledger
// posting and every availability figure for the item is expressed in it.
type Item struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name               string    `gorm:"index;not null"`
	BaseUom            string    `gorm:"not null"`
	Barcode            *string   `gorm:"uniqueIndex"`
	DefaultPackagingID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Packaging is an alternate unit for an item (box of 12, pallet of 480).
// Deactivated packagings stay referenceable by historical doc lines but are
// excluded from new selection.
type Packaging struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemID       uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_packaging_item_code,priority:1"`
	Code         string          `gorm:"not null;uniqueIndex:idx_packaging_item_code,priority:2"`
	Name         string          `gorm:"not null"`
	FactorToBase decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	SortOrder    int             `gorm:"not null;default:0"`
	IsActive     bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time

	Item *Item `gorm:"foreignKey:ItemID"`
}
