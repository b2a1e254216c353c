package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/rathinadev/gocommerce/internal/order/client"
	"github.com/rathinadev/gocommerce/internal/order/repository"
	"github.com/rathinadev/gocommerce/internal/order/service"
	transportHttp "github.com/rathinadev/gocommerce/internal/order/transport/http"
	"github.com/rathinadev/gocommerce/pkg/config"
	"github.com/rathinadev/gocommerce/pkg/db"
	"github.com/rathinadev/gocommerce/pkg/kafka"
	"github.com/rathinadev/gocommerce/pkg/mylogger"
	"github.com/rathinadev/gocommerce/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not found: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	tp, err := utils.InitTracer(ctx, "order-service")
	if err != nil {
		log.Fatalf("failed to init tracer: %v", err)
	}

	logger, err := config.NewLogger(config.LoggerConfig{Level: "Info", Env: cfg.Env})
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	pool, err := db.NewPostgresDB(cfg.Postgres.URL)
	if err != nil {
		log.Fatalf("failed to create pool: %v", err)
	}

	producer, err := kafka.NewProducer(cfg.Kafka.Brokers)
	if err != nil {
		log.Fatalf("failed to create kafka producer: %v", err)
	}

	inventoryClient := client.NewInventoryClient(
		cfg.Services.InventoryURL,
		cfg.Services.UpstreamTimeout,
		logger,
	)

	orderRepo := repository.NewOrderRepository(pool, logger)
	orderService := service.NewOrderService(orderRepo, inventoryClient, producer, logger)
	orderHandler := transportHttp.NewOrderHandler(orderService, logger)

	app := fiber.New()
	app.Use(otelfiber.Middleware())
	transportHttp.RegisterRoutes(app, orderHandler)

	go func() {
		log.Println("Order HTTP service listening on " + cfg.HTTP.Port)
		if err := app.Listen(cfg.HTTP.Port); err != nil {
			log.Fatalf("Error listening on HTTP port %v: %v\n", cfg.HTTP.Port, err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mylogger.Info(shutdownCtx, logger, "Shutting down order service")

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		mylogger.Warn(shutdownCtx, logger, "Failed to stop HTTP app", zap.Error(err))
	}

	if err := producer.Close(); err != nil {
		mylogger.Warn(shutdownCtx, logger, "Failed to close kafka producer", zap.Error(err))
	}

	if err := tp.Shutdown(shutdownCtx); err != nil {
		mylogger.Warn(shutdownCtx, logger, "Failed to shut down telemetry", zap.Error(err))
	}

	pool.Close()
}
