package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/claude/tonalmcp/internal/config"
)

// Open returns the store selected by cfg.Driver. The none driver yields a nil
// store; callers treat that as history being disabled.
func Open(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (RevisionStore, error) {
	switch cfg.Driver {
	case config.DriverNone:
		log.Info("revision history disabled")
		return nil, nil
	case config.DriverSQLite:
		s, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		log.Info("revision history", "driver", cfg.Driver, "path", cfg.Path)
		return s, nil
	case config.DriverPostgres:
		dsn := cfg.Database.DSN()
		if err := RunMigrations(dsn); err != nil {
			return nil, err
		}
		log.Info("migrations applied")
		s, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		log.Info("revision history", "driver", cfg.Driver, "host", cfg.Database.Host, "database", cfg.Database.Name)
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
