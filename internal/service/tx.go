package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// runSerializableTx executes fn inside a SERIALIZABLE transaction, retrying
// transparently up to maxRetries times on serialization failures before
// surfacing ErrTxConflict. Postings and counter advances must never be
// partially applied, so fn is re-run from scratch on every attempt.
func runSerializableTx(ctx context.Context, db *gorm.DB, maxRetries int, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	var err error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err = db.WithContext(ctx).Transaction(fn, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err == nil || !isSerializationFailure(err) {
			return err
		}
		log.Warn().
			Int("attempt", attempt+1).
			Err(err).
			Msg("serialization conflict, retrying transaction")
		time.Sleep(time.Duration(attempt+1) * 10 * time.Millisecond)
	}
	return fmt.Errorf("%w: %v", ErrTxConflict, err)
}

// isSerializationFailure detects Postgres serialization (40001) and deadlock
// (40P01) aborts, both of which are safe to retry.
func isSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 40001") || strings.Contains(msg, "SQLSTATE 40P01")
}
