package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/skdm/shopkart/internal/config"
	"github.com/skdm/shopkart/internal/events"
	"github.com/skdm/shopkart/internal/handlers"
	"github.com/skdm/shopkart/internal/httpserver"
	"github.com/skdm/shopkart/internal/invoice"
	"github.com/skdm/shopkart/internal/logging"
	"github.com/skdm/shopkart/internal/mail"
	loggingmw "github.com/skdm/shopkart/internal/middleware/logging"
	"github.com/skdm/shopkart/internal/payment"
	"github.com/skdm/shopkart/internal/repository"
	"github.com/skdm/shopkart/internal/service"
	"github.com/skdm/shopkart/internal/shipment"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	config.MustNonEmpty(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := repository.Open(ctx, cfg.PgDSN())
	cancel()
	if err != nil {
		log.Fatalf("db init: %v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	var producer *events.Producer
	if brokers := cfg.KafkaBrokersSlice(); len(brokers) > 0 {
		producer = events.NewProducer(brokers, cfg.KafkaTopic)
	}

	checkout := service.NewCheckoutService(
		repository.NewOrderRepo(db),
		payment.NewClient(cfg.PhonePeBaseURL, cfg.PhonePeClientID, cfg.PhonePeClientSecret),
		shipment.NewClient(cfg.ShiprocketBaseURL, cfg.ShiprocketEmail, cfg.ShiprocketPassword),
		&invoice.Generator{Dir: cfg.InvoiceDir, StoreName: "SHOPKART"},
		&mail.Mailer{Host: cfg.SMTPHost, Port: cfg.SMTPPort, User: cfg.SMTPUser, Pass: cfg.SMTPPass, From: cfg.FromEmail},
		eventsOrNil(producer),
		cfg.PhonePeRedirectURL,
		cfg.PickupLocation,
		cfg.AdminEmail,
	)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		OrderHandler:    &handlers.OrderHandler{Svc: checkout, PublicBaseURL: cfg.PublicBaseURL},
		ActivityHandler: &handlers.ActivityHandler{Svc: service.NewActivityService(repository.NewActivityRepo(db))},
		JWTSecret:       []byte(cfg.JWTSecret),
		InvoiceDir:      cfg.InvoiceDir,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("server starting", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	logger.Info("shutdown complete")
}

// eventsOrNil keeps the service's EventPublisher interface nil when Kafka is
// not configured; a typed nil pointer would defeat the nil check.
func eventsOrNil(p *events.Producer) service.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}
