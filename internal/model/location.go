package model

import (
	"time"

	"github.com/google/uuid"
)

// Location is a storage place (zone, rack, dock). Pure dimension: no
// lifecycle beyond create/rename/delete, and delete is blocked while the
// ledger still shows stock at the location.
type Location struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code      string    `gorm:"uniqueIndex;not null"`
	Name      string    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Partner is a counterparty for inbound and outbound documents and orders.
type Partner struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"index;not null"`
	TaxID     *string
	Email     *string
	IsActive  bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
