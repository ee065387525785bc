package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"market-be/internal/address"
	"market-be/internal/cart"
	"market-be/internal/config"
	"market-be/internal/db"
	"market-be/internal/httpapi"
	"market-be/internal/inventory"
	"market-be/internal/logger"
	"market-be/internal/order"
	"market-be/internal/payment"
	"market-be/internal/product"
	"market-be/internal/user"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()
	log := logger.L()

	database := db.InitDB(cfg)
	defer database.Close()

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	ledger := inventory.NewRepository(database)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productRepo, ledger)

	addressRepo := address.NewRepository(database)
	addressSvc := address.NewService(addressRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, cartRepo, addressRepo)

	paymentRepo := payment.NewRepository(database)
	paymentSvc := payment.NewService(paymentRepo, payment.NewStaticProcessor(cfg.PaymentApprove))

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	api := httpapi.NewServer(userSvc, productSvc, cartSvc, orderSvc, paymentSvc, addressSvc)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           api.Engine(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}
