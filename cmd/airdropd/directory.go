package main

import (
	"fmt"
	"log/slog"

	"nftdrop/config"
	"nftdrop/core/ownership"
	"nftdrop/native/airdrop"
	"nftdrop/observability/logging"
)

// openDirectory builds the ownership directory selected in cfg. The returned
// function releases it.
func openDirectory(cfg config.Ownership, logger *slog.Logger) (airdrop.OwnershipDirectory, func(), error) {
	switch cfg.Driver {
	case config.DriverStatic:
		dir, err := ownership.LoadStaticFile(cfg.Fixture)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("ownership directory loaded", slog.String("driver", cfg.Driver), slog.String("fixture", cfg.Fixture))
		return dir, func() {}, nil
	case config.DriverSQLite, config.DriverPostgres:
		dir, err := ownership.OpenSQL(cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("ownership directory connected", slog.String("driver", cfg.Driver), slog.String("dsn", logging.RedactDSN(cfg.DSN)))
		return dir, func() {
			if err := dir.Close(); err != nil {
				logger.Warn("close ownership directory", slog.Any("error", err))
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("ownership: unsupported driver %q", cfg.Driver)
	}
}
