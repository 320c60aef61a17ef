package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"shoestore-backend/internal/client"
	"shoestore-backend/internal/config"
	"shoestore-backend/internal/repository"
	"shoestore-backend/internal/server"
	"shoestore-backend/internal/service"
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

	if cfg.Shiprocket.WebhookSecret == "" {
		log.Println("WARNING: SHIPROCKET_WEBHOOK_SECRET is not set, courier webhooks are accepted unauthenticated")
	}

	db := client.InitMysqlClient(cfg.DatabaseURL)
	razorpayClient := client.NewRazorpayClient(&cfg.Razorpay)
	shiprocketClient := client.NewShiprocketClient(&cfg.Shiprocket)

	orderRepo := repository.NewOrderRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	shipmentService := service.NewShipmentService(
		shiprocketClient, orderRepo,
		cfg.Shiprocket.PickupLocation,
		cfg.Shiprocket.PickupPincode,
	)
	paymentService := service.NewPaymentService(
		razorpayClient, cfg.Razorpay.KeySecret,
		orderRepo, shipmentService,
	)
	webhookService := service.NewWebhookService(orderRepo, webhookEventRepo)
	orderService := service.NewOrderService(orderRepo, shiprocketClient, cfg.ReturnWindowDays)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(cfg, paymentService, orderService, shipmentService, webhookService, webhookEventRepo)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	// Sweep bookings that never got attempted (e.g. crash between order
	// creation and the Shiprocket push).
	stopSweep := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.BookingRetryInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stopSweep:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
				if booked, err := shipmentService.BookPending(ctx); err != nil {
					log.Println("pending booking sweep:", err)
				} else if booked > 0 {
					log.Printf("pending booking sweep: booked %d order(s)", booked)
				}
				cancel()
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")
	close(stopSweep)

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
