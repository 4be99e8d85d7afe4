package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vncsmyrnk/pollcontract/internal/adapters/repository/badger"
	"github.com/vncsmyrnk/pollcontract/internal/adapters/repository/memory"
	"github.com/vncsmyrnk/pollcontract/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/pollcontract/internal/config"
	"github.com/vncsmyrnk/pollcontract/internal/core/ports"
)

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.StateStore, error) {
	switch cfg.Store {
	case config.StoreBadger:
		return badger.New(badger.WithDataDir(cfg.BadgerPath), badger.WithLogger(logger))
	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.DSN())
		if err != nil {
			return nil, err
		}
		return postgres.NewStore(db), nil
	case config.StoreMemory:
		return memory.NewStore(), nil
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}

func configFrom(ctx context.Context) (*config.Config, error) {
	cfg := config.FromContext(ctx)
	if cfg == nil {
		return nil, fmt.Errorf("no config found in context")
	}
	return cfg, nil
}
