package model

import (
	"time"

	"github.com/google/uuid"
)

// Import-error statuses.
const (
	ImportErrorPending = "pending"
	ImportErrorApplied = "applied"
)

// ImportError is a scan record the import pipeline could not turn into a doc
// line (unresolved barcode, validation failure). The raw payload is kept so a
// reconciliation workflow can correct and re-apply it.
type ImportError struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocID     *uuid.UUID `gorm:"type:uuid;index"`
	Payload   string     `gorm:"type:jsonb;not null"`
	Reason    string     `gorm:"not null"`
	Status    string     `gorm:"not null;index;default:'pending'"`
	CreatedAt time.Time
	AppliedAt *time.Time
}

func (ImportError) TableName() string { return "import_errors" }
