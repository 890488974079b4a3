package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerPosting is an immutable signed quantity change against
// (item, location, container), written only when a doc closes. Rows are
// never updated or deleted; every on-hand figure is a sum over them.
type LedgerPosting struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ItemID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_ledger_tuple,priority:1"`
	LocationID uuid.UUID       `gorm:"type:uuid;not null;index:idx_ledger_tuple,priority:2"`
	HuCode     *string         `gorm:"index:idx_ledger_tuple,priority:3;index"`
	QtyDelta   decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	DocID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	PostedAt   time.Time       `gorm:"not null"`
}

func (LedgerPosting) TableName() string { return "ledger_postings" }
