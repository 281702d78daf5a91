package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"parcel-delivery-backend/internal/client"
	"parcel-delivery-backend/internal/config"
	"parcel-delivery-backend/internal/repository"
	"parcel-delivery-backend/internal/server"
	"parcel-delivery-backend/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	db := client.InitDBClient(cfg.DatabaseURL)
	checkoutClient := client.NewCheckoutClient(&cfg.Checkout)
	verifier := client.NewJWTVerifier(&cfg.Auth)

	parcelRepo := repository.NewParcelRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	riderRepo := repository.NewRiderRepository(db)
	userRepo := repository.NewUserRepository(db)

	paymentService := service.NewPaymentService(
		db, checkoutClient,
		parcelRepo,
		paymentRepo,
		logger,
		cfg.Payment.ExchangeRate,
		cfg.Payment.SettlementCurrency,
	)
	parcelService := service.NewParcelService(parcelRepo, riderRepo)
	riderService := service.NewRiderService(riderRepo)
	userService := service.NewUserService(userRepo)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(
		verifier,
		paymentService,
		parcelService,
		riderService,
		userService,
		logger,
	)

	logger.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("signal received, starting graceful shutdown")

	if err := srv.Shutdown(); err != nil {
		logger.Fatal("HTTP server shutdown error", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	var logger *zap.Logger
	var err error
	if cfg.Log.Format == "console" || cfg.Environment.Name == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatal("init logger:", err)
	}
	return logger
}
