package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/amoree/storefront/internal/auth"
	"github.com/amoree/storefront/internal/board"
	"github.com/amoree/storefront/internal/cart"
	"github.com/amoree/storefront/internal/catalog"
	"github.com/amoree/storefront/internal/checkout"
	"github.com/amoree/storefront/internal/config"
	"github.com/amoree/storefront/internal/db"
	"github.com/amoree/storefront/internal/httpapi"
	"github.com/amoree/storefront/internal/order"
	"github.com/amoree/storefront/internal/schedule"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("failed to open database pool", zap.Error(err))
	}
	defer pool.Close()

	catalogRepo := catalog.NewPostgresRepository(pool)
	orderRepo := order.NewPostgresRepository(pool)
	carts := cart.NewStore(cfg.CartStep)

	rules := schedule.Rules{
		OpenHour:   cfg.DeliveryOpenHour,
		CloseHour:  cfg.DeliveryCloseHour,
		Step:       cfg.DeliverySlotStep,
		PrepMargin: cfg.PrepMargin,
	}

	composer := checkout.NewComposer(orderRepo, catalogRepo, checkout.Config{
		StoreWhatsApp:         cfg.StoreWhatsApp,
		CustomerPhonePrefix:   cfg.CustomerPhonePrefix,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		ShippingFee:           cfg.ShippingFee,
		SlotRules:             rules,
	}, logger)

	boardSvc := board.NewService(orderRepo, cfg.CustomerPhonePrefix, cfg.OrderBoardLimit, logger)

	router := httpapi.NewRouter(httpapi.Deps{
		Catalog:          catalogRepo,
		Carts:            carts,
		Composer:         composer,
		Board:            boardSvc,
		Verifier:         auth.NewVerifier(cfg.AuthJWTSecret),
		Policy:           auth.NewPolicy(cfg.AdminEmails),
		SlotRules:        rules,
		RequestTimeout:   cfg.RequestTimeout,
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		Logger:           logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("storefront listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
