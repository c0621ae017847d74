package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/VictorPortugues07/Xis-Clique/internal/cart"
	"github.com/VictorPortugues07/Xis-Clique/internal/catalog"
	"github.com/VictorPortugues07/Xis-Clique/internal/db"
	"github.com/VictorPortugues07/Xis-Clique/internal/events"
	"github.com/VictorPortugues07/Xis-Clique/internal/httpapi"
	"github.com/VictorPortugues07/Xis-Clique/internal/snapshot"
)

func main() {
	port := getEnv("PORT", "8080")

	logger := log.New(os.Stdout, "[storefront] ", log.LstdFlags|log.Lshortfile)

	dsn := db.GetDSN()
	if err := db.RunMigrations(dsn, logger); err != nil {
		logger.Fatalf("run migrations: %v", err)
	}

	database := db.MustOpen(dsn)
	defer database.Close()

	seedProducts, seedCategories, err := catalog.LoadSeed()
	if err != nil {
		logger.Fatalf("load seed catalog: %v", err)
	}

	var catalogSource catalog.Source
	switch getEnv("CATALOG_SOURCE", "embedded") {
	case "postgres":
		repo := catalog.NewRepository(database)
		if err := repo.Seed(context.Background(), seedProducts, seedCategories); err != nil {
			logger.Fatalf("seed catalog: %v", err)
		}
		catalogSource = repo
	default:
		catalogSource = catalog.NewMemorySource(seedProducts, seedCategories)
	}

	rabbitConn := events.MustDialRabbit()
	defer rabbitConn.Close()

	sequenceRepo := events.NewSequenceRepository(database)
	orderPublisher, err := events.NewRabbitOrderEventsPublisher(rabbitConn, sequenceRepo)
	if err != nil {
		logger.Fatalf("failed to create order publisher: %v", err)
	}

	deliveryFee := cart.DefaultDeliveryFee
	if v := os.Getenv("DELIVERY_FEE"); v != "" {
		fee, err := decimal.NewFromString(v)
		if err != nil || fee.IsNegative() {
			logger.Fatalf("invalid DELIVERY_FEE %q", v)
		}
		deliveryFee = fee
	}

	checkoutDelay := 2 * time.Second
	if v := os.Getenv("CHECKOUT_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			logger.Fatalf("invalid CHECKOUT_DELAY %q", v)
		}
		checkoutDelay = d
	}

	snapshotStore := snapshot.NewPostgresStore(database)
	sessions := httpapi.NewSessionCarts(snapshotStore, catalogSource, deliveryFee, logger)

	catalogHandler := httpapi.NewCatalogHandler(catalogSource, logger)
	cartHandler := httpapi.NewCartHandler(sessions, catalogSource, orderPublisher, checkoutDelay, logger)
	mux := httpapi.NewRouter(catalogHandler, cartHandler)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Printf("storefront listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Printf("shutdown signal received")
	case err := <-errCh:
		logger.Fatalf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown error: %v", err)
	}
	if err := orderPublisher.Close(); err != nil {
		logger.Printf("publisher close error: %v", err)
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
