package main

import (
	"context"

	log "github.com/sirupsen/logrus"

	"photoprint/internal/config"
	"photoprint/internal/db"
	"photoprint/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logger := log.WithField("component", "seed")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, int32(cfg.DBMaxConns))
	if err != nil {
		logger.WithError(err).Fatal("connect db")
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool); err != nil {
		logger.WithError(err).Fatal("seed apply")
	}
	logger.Info("seed applied")
}
