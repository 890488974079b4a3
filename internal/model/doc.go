package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Doc types. The type dictates which line fields must be populated and the
// sign of the ledger deltas emitted on close.
const (
	DocTypeInbound   = "inbound"
	DocTypeOutbound  = "outbound"
	DocTypeMove      = "move"
	DocTypeWriteOff  = "writeoff"
	DocTypeInventory = "inventory"
)

// Doc statuses. Closed is terminal; closing is the only event that writes
// ledger postings.
const (
	DocStatusDraft  = "draft"
	DocStatusClosed = "closed"
)

// Doc is a warehouse document: a draft container for lines that becomes an
// immutable ledger fact when closed.
type Doc struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocRef string    `gorm:"uniqueIndex;not null"`
	Type   string    `gorm:"not null;index"`
	Status string    `gorm:"not null;index;default:'draft'"`

	PartnerID   *uuid.UUID `gorm:"type:uuid;index"`
	OrderID     *uuid.UUID `gorm:"type:uuid;index"`
	ShippingRef *string    // container code handed to the carrier

	// IsRecountRequested hands an inventory doc back to the data-collection
	// device: while set, line edits and closing are blocked.
	IsRecountRequested bool `gorm:"not null;default:false"`

	// PartialShipment allows operator-edited line quantities on an
	// order-bound outbound doc instead of the full allocation.
	PartialShipment bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	ClosedAt  *time.Time

	Lines   []DocLine `gorm:"foreignKey:DocID;constraint:OnDelete:CASCADE"`
	Partner *Partner  `gorm:"foreignKey:PartnerID"`
}

func (Doc) TableName() string { return "docs" }

// DocLine holds the authoritative quantity in the item's base unit.
// QtyInput/UomCode are a display pair, re-derivable from QtyBase and the
// packaging factor — never used in ledger arithmetic.
type DocLine struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocID  uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemID uuid.UUID `gorm:"type:uuid;not null;index"`

	QtyBase  decimal.Decimal  `gorm:"type:decimal(14,4);not null"`
	QtyInput *decimal.Decimal `gorm:"type:decimal(14,4)"`
	UomCode  *string

	FromLocationID *uuid.UUID `gorm:"type:uuid"`
	ToLocationID   *uuid.UUID `gorm:"type:uuid"`
	FromHu         *string
	ToHu           *string

	// ScanID deduplicates device-import records; null for manual lines.
	ScanID *string `gorm:"uniqueIndex"`

	CreatedAt time.Time

	Item *Item `gorm:"foreignKey:ItemID"`
}

func (DocLine) TableName() string { return "doc_lines" }
