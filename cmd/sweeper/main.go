package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	log "github.com/sirupsen/logrus"

	"photoprint/internal/blob"
	"photoprint/internal/config"
	"photoprint/internal/db"
	cartrepo "photoprint/internal/repository/cart"
	photorepo "photoprint/internal/repository/photo"
	printsizerepo "photoprint/internal/repository/printsize"
	cartsvc "photoprint/internal/service/cart"
	photosvc "photoprint/internal/service/photo"
	pricingsvc "photoprint/internal/service/pricing"
)

// The sweeper binary runs the two background maintenance loops: purging
// photos whose retention window has passed, and expiring idle carts. It is
// deployed as a single replica so each sweep runs once per interval.
func main() {
	cfg := config.FromEnv()
	log.SetFormatter(&log.JSONFormatter{})
	logger := log.WithField("component", "sweeper")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbpool, err := db.Connect(ctx, cfg.DBConnString, int32(cfg.DBMaxConns))
	if err != nil {
		logger.WithError(err).Fatal("connect to db")
	}
	defer dbpool.Close()

	var blobs blob.Store
	if cfg.GCSBucket != "" {
		gcs, err := blob.NewGCS(ctx, cfg.GCSBucket)
		if err != nil {
			logger.WithError(err).Fatal("init gcs blob store")
		}
		blobs = gcs
	} else {
		logger.Warn("GCS_BUCKET not set, using in-memory blob store")
		blobs = blob.NewMemory()
	}

	photoRepo := photorepo.NewPostgres(dbpool)
	cartRepo := cartrepo.NewPostgres(dbpool)
	sizeRepo := printsizerepo.NewPostgres(dbpool)

	photoService := photosvc.New(photoRepo, blobs)
	cartService := cartsvc.New(cartRepo, photoRepo, pricingsvc.New(sizeRepo), cfg.EstimateTaxBps)

	sweeper := photosvc.NewSweeper(photoService,
		photosvc.WithInterval(cfg.PurgeInterval),
		photosvc.WithBatchSize(cfg.PurgeBatchSize),
	)
	expiry := cartsvc.NewExpiryWorker(cartService,
		cartsvc.WithSweepInterval(cfg.CartSweepInterval),
		cartsvc.WithMaxAge(cfg.CartMaxAge),
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		sweeper.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		expiry.Run(ctx)
	}()

	logger.Info("sweeper started")

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stopCh
	logger.WithField("signal", sig.String()).Info("shutting down")

	cancel()
	wg.Wait()
	logger.Info("sweeper stopped")
}
