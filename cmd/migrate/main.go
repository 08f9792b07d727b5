package main

import (
	"context"
	"flag"

	log "github.com/sirupsen/logrus"

	"photoprint/internal/config"
	"photoprint/internal/db"
	"photoprint/internal/migrate"
)

func main() {
	down := flag.Bool("down", false, "revert the most recent migration instead of applying")
	flag.Parse()

	cfg := config.FromEnv()
	logger := log.WithField("component", "migrate")

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString, int32(cfg.DBMaxConns))
	if err != nil {
		logger.WithError(err).Fatal("connect db")
	}
	defer pool.Close()

	if *down {
		if err := migrate.Rollback(ctx, pool); err != nil {
			logger.WithError(err).Fatal("revert migration")
		}
		logger.Info("migration reverted")
		return
	}

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.WithError(err).Fatal("apply migrations")
	}
	logger.Info("migrations applied")
}
