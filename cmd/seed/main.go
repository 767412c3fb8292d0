package main

import (
	"context"
	"time"

	"bizboost/api/internal/config"
	"bizboost/api/internal/database"
	"bizboost/api/internal/log"
	"bizboost/api/internal/repository"
	"bizboost/api/internal/seed"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer dbPool.Close()

	if err := seed.Run(ctx, repository.NewBusinessRepository(dbPool), logger); err != nil {
		logger.Fatal().Err(err).Msg("seed failed")
	}
}
