package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"giftshop/internal/config"
	"giftshop/internal/db"
	"giftshop/internal/gemini"
	"giftshop/internal/httpserver"
	orderrepo "giftshop/internal/repository/order"
	productrepo "giftshop/internal/repository/product"
	suggestionrepo "giftshop/internal/repository/suggestion"
	catalogsvc "giftshop/internal/service/catalog"
	checkoutsvc "giftshop/internal/service/checkout"
	suggestsvc "giftshop/internal/service/suggest"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	suggestionRepo := suggestionrepo.NewPostgres(dbpool, logger)

	catalogService := catalogsvc.New(productRepo)
	checkoutService := checkoutsvc.New(productRepo, orderRepo, cfg.TaxRatePercent, logger)

	var suggestService *suggestsvc.Service
	if cfg.GeminiAPIKey != "" {
		gen := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL, cfg.GeminiTimeout, logger)
		suggestService = suggestsvc.New(productRepo, suggestionRepo, gen, cfg.GeminiTimeout, logger)
	} else {
		logger.Printf("GEMINI_API_KEY not set, recommendations use the catalog sampler only")
		suggestService = suggestsvc.New(productRepo, suggestionRepo, nil, cfg.GeminiTimeout, logger)
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Catalog:  catalogService,
		Suggest:  suggestService,
		Checkout: checkoutService,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
