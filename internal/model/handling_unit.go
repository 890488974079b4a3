package model

import (
	"time"
)

// Handling-unit statuses. Closed and Void are terminal: the ledger rejects
// new postings against them.
const (
	HuStatusOpen   = "open"
	HuStatusActive = "active"
	HuStatusClosed = "closed"
	HuStatusVoid   = "void"
)

// HandlingUnit is a physical container (pallet, tote) identified by a
// HU-{sequence} code. Its contents are never stored: they are a derived
// view over ledger postings carrying the code.
type HandlingUnit struct {
	Code      string `gorm:"primaryKey"`
	Status    string `gorm:"not null;index"`
	CreatedBy string `gorm:"not null"`
	Note      *string
	CreatedAt time.Time
	ClosedAt  *time.Time
}

// TableName overrides GORM's default pluralization (handling_units, not handling_unit).
func (HandlingUnit) TableName() string { return "handling_units" }

// HuSequence is the single persisted counter backing HU code generation.
// Exactly one row exists (ID=1); it is read and advanced FOR UPDATE inside
// the same transaction that reserves the codes, so concurrent Generate
// calls can never hand out overlapping sequence numbers.
type HuSequence struct {
	ID      int   `gorm:"primaryKey"`
	NextVal int64 `gorm:"not null"`
}

func (HuSequence) TableName() string { return "hu_sequence" }
