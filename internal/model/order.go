package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses. Shipped is reached only by the engine, as a side effect of
// closing an outbound doc that covers every line — never set by a caller.
const (
	OrderStatusAccepted   = "accepted"
	OrderStatusInProgress = "in_progress"
	OrderStatusShipped    = "shipped"
)

// Order is a customer order fulfilled from stock via outbound docs.
type Order struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderRef  string    `gorm:"uniqueIndex;not null"`
	PartnerID uuid.UUID `gorm:"type:uuid;not null;index"`
	DueDate   time.Time `gorm:"not null"`
	Status    string    `gorm:"not null;index;default:'accepted'"`
	Comment   string
	ShippedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	Lines   []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Partner *Partner    `gorm:"foreignKey:PartnerID"`
}

// OrderLine tracks fulfillment per item. QtyShipped only ever grows, and
// only as outbound docs referencing the order close.
type OrderLine struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	QtyOrdered decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	QtyShipped decimal.Decimal `gorm:"type:decimal(14,4);not null;default:0"`

	Item *Item `gorm:"foreignKey:ItemID"`
}
