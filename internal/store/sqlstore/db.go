// Package sqlstore implements store.Store over per-entity sqlite tables.
// Reads and single-record writes touch only the rows involved instead of a
// whole collection snapshot.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/matheus3301/wpplocal/internal/bus"
	"github.com/matheus3301/wpplocal/internal/sqlite"
	"github.com/matheus3301/wpplocal/internal/store"
	"go.uber.org/zap"
)

// DB is the indexed record store. Rows carry an insertion sequence; collection
// reads are ordered by it and ids are not unique.
type DB struct {
	db     *sqlite.DB
	bus    *bus.Bus
	logger *zap.Logger
	now    func() time.Time
}

var _ store.Store = (*DB)(nil)

// New wraps an already migrated database. b and logger may be nil.
func New(db *sqlite.DB, b *bus.Bus, logger *zap.Logger) *DB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DB{db: db, bus: b, logger: logger, now: time.Now}
}

// SetClock replaces the clock used for demo data timestamps.
func (db *DB) SetClock(now func() time.Time) {
	db.now = now
}

// withTx runs fn in a transaction, committing when it returns nil.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// written logs and publishes a completed write.
func (db *DB) written(kind, op string, count int) {
	db.logger.Debug("records written", zap.String("op", op), zap.Int("records", count))
	db.bus.Emit(kind, count)
}

// failed logs a write failure and returns err unchanged.
func (db *DB) failed(op string, err error) error {
	db.logger.Error("write failed", zap.String("op", op), zap.Error(err))
	return err
}

func (db *DB) InitializeDemoData(ctx context.Context) error {
	seeded, err := store.Seed(ctx, db, db.now())
	if err != nil {
		return err
	}
	if seeded {
		db.logger.Info("demo data initialized")
	}
	return nil
}

func millis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
