package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"photoprint/internal/blob"
	"photoprint/internal/config"
	"photoprint/internal/db"
	"photoprint/internal/httpserver"
	cartrepo "photoprint/internal/repository/cart"
	orderrepo "photoprint/internal/repository/order"
	photorepo "photoprint/internal/repository/photo"
	printsizerepo "photoprint/internal/repository/printsize"
	seqrepo "photoprint/internal/repository/sequence"
	cartsvc "photoprint/internal/service/cart"
	catalogsvc "photoprint/internal/service/catalog"
	ordersvc "photoprint/internal/service/order"
	"photoprint/internal/service/payment"
	photosvc "photoprint/internal/service/photo"
	pricingsvc "photoprint/internal/service/pricing"
	seqsvc "photoprint/internal/service/sequence"
	"photoprint/internal/service/tax"
)

func main() {
	cfg := config.FromEnv()
	log.SetFormatter(&log.JSONFormatter{})
	logger := log.WithField("component", "api")

	ctx := context.Background()
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

	var cipher *payment.Cipher
	if cfg.CardKeyBase64 != "" {
		cipher, err = payment.NewCipher(cfg.CardKeyBase64)
		if err != nil {
			logger.WithError(err).Fatal("init card cipher")
		}
	} else {
		logger.Warn("CARD_KEY_BASE64 not set, credit card payments disabled")
	}

	photoRepo := photorepo.NewPostgres(dbpool)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool)
	sizeRepo := printsizerepo.NewPostgres(dbpool)
	seqRepo := seqrepo.NewPostgres(dbpool)

	pricing := pricingsvc.New(sizeRepo)
	photoService := photosvc.New(photoRepo, blobs)
	cartService := cartsvc.New(cartRepo, photoRepo, pricing, cfg.EstimateTaxBps)
	catalogService := catalogsvc.New(sizeRepo)
	numbers := seqsvc.NewGenerator(seqRepo)
	orderService := ordersvc.New(
		orderRepo,
		cartRepo,
		photoRepo,
		numbers,
		tax.NewStatic(tax.DefaultRates()),
		cipher,
		payment.NewLogProcessor(),
		payment.NewBranches(cfg.Branches),
		time.Duration(cfg.RetentionDays)*24*time.Hour,
	)

	srv := httpserver.New(cfg.HTTPAddr, dbpool, httpserver.Deps{
		CartSvc:    cartService,
		OrderSvc:   orderService,
		PhotoSvc:   photoService,
		CatalogSvc: catalogService,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.WithField("signal", sig.String()).Info("shutting down")
	case err := <-serverErr:
		logger.WithError(err).Error("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	} else {
		logger.Info("server stopped")
	}
}
