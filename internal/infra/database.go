package infra

import (
	"fmt"

	"github.com/naskek/FlowStock-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (sequences, counter seed rows).
func NewDatabase(dsn string, huSeqStart int64) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db, huSeqStart); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates the schema. Safe to re-run: AutoMigrate is
// additive and every SQL patch is guarded.
func RunMigrations(db *gorm.DB, huSeqStart int64) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Item{},
		&model.Packaging{},
		&model.Location{},
		&model.Partner{},
		&model.HandlingUnit{},
		&model.HuSequence{},
		&model.Doc{},
		&model.DocLine{},
		&model.LedgerPosting{},
		&model.Order{},
		&model.OrderLine{},
		&model.ImportError{},
		&model.User{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	return applySchemaPatches(db, huSeqStart)
}

// applySchemaPatches runs idempotent DDL/DML that AutoMigrate cannot handle:
// the docRef sequence and the single handling-unit counter row.
func applySchemaPatches(db *gorm.DB, huSeqStart int64) error {
	patches := []struct{ descr, sql string }{
		{"docref sequence",
			`CREATE SEQUENCE IF NOT EXISTS docs_docref_seq START WITH 1`},
		{"hu counter seed row", fmt.Sprintf(`
INSERT INTO hu_sequence (id, next_val)
VALUES (1, %d)
ON CONFLICT (id) DO NOTHING`, huSeqStart)},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
