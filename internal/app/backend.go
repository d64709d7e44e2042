// Package app assembles the record store and the terminal client.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/matheus3301/wpplocal/internal/bus"
	"github.com/matheus3301/wpplocal/internal/config"
	"github.com/matheus3301/wpplocal/internal/kv"
	"github.com/matheus3301/wpplocal/internal/profile"
	"github.com/matheus3301/wpplocal/internal/sqlite"
	"github.com/matheus3301/wpplocal/internal/store"
	"github.com/matheus3301/wpplocal/internal/store/sqlstore"
	"go.uber.org/zap"
)

// Backend is an opened record store together with the connections it owns.
type Backend struct {
	Store store.Store
	// KV is the key-value storage behind a snapshot layout; nil when indexed.
	KV     kv.Storage
	Layout string
	Driver string

	closers []func() error
}

// Close releases the underlying connections.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		errs = append(errs, b.closers[i]())
	}
	b.closers = nil
	return errors.Join(errs...)
}

// OpenStore opens the record store for a profile as configured by cfg.
// b and logger may be nil.
func OpenStore(ctx context.Context, cfg *config.Config, profileName string, b *bus.Bus, logger *zap.Logger) (*Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	be := &Backend{Layout: cfg.Store.Layout, Driver: cfg.Store.Driver}

	switch cfg.Store.Driver {
	case config.DriverMemory:
		be.KV = kv.NewMemory()
		be.Store = store.NewLocal(be.KV, b, logger)

	case config.DriverSQLite:
		if err := profile.EnsureDir(profileName); err != nil {
			return nil, fmt.Errorf("create profile dir: %w", err)
		}
		dbPath := profile.AppDBPath(profileName)
		db, result, err := sqlite.OpenMigrated(dbPath)
		if err != nil {
			return nil, err
		}
		if result.Changed {
			logger.Info("migrations applied", zap.Uint("version", result.Version))
		} else {
			logger.Info("migrations up to date", zap.Uint("version", result.Version))
		}
		be.closers = append(be.closers, db.Close)
		if cfg.Store.Layout == config.LayoutIndexed {
			be.Store = sqlstore.New(db, b, logger)
		} else {
			be.KV = kv.NewSQLite(db)
			be.Store = store.NewLocal(be.KV, b, logger)
		}
		logger.Info("store opened", zap.String("path", dbPath), zap.String("layout", cfg.Store.Layout))

	case config.DriverRedis:
		rdb, err := kv.DialRedis(ctx, kv.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		be.closers = append(be.closers, rdb.Close)
		prefix := cfg.Redis.KeyPrefix
		if prefix == "" {
			prefix = kv.DefaultRedisPrefix(profileName)
		}
		be.KV = kv.NewRedis(rdb, prefix)
		be.Store = store.NewLocal(be.KV, b, logger)
		logger.Info("store opened", zap.String("redis", cfg.Redis.Addr), zap.String("prefix", prefix))
	}
	return be, nil
}
