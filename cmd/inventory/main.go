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
	"github.com/rathinadev/gocommerce/internal/inventory/repository"
	"github.com/rathinadev/gocommerce/internal/inventory/service"
	transportHttp "github.com/rathinadev/gocommerce/internal/inventory/transport/http"
	"github.com/rathinadev/gocommerce/internal/inventory/transport/kafka"
	"github.com/rathinadev/gocommerce/pkg/config"
	"github.com/rathinadev/gocommerce/pkg/db"
	"github.com/rathinadev/gocommerce/pkg/mylogger"
	"github.com/rathinadev/gocommerce/pkg/utils"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf(".env not found: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.MustLoad()

	tp, err := utils.InitTracer(ctx, "inventory-service")
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

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})

	productRepo := repository.NewProductRepository(pool, logger)
	inventoryService := service.NewInventoryService(productRepo, logger)
	cachedService := service.NewCachedInventoryService(inventoryService, redisClient)

	productHandler := transportHttp.NewProductHandler(cachedService, logger)

	app := fiber.New()
	app.Use(otelfiber.Middleware())
	transportHttp.RegisterRoutes(app, productHandler)

	go func() {
		log.Println("Inventory HTTP service listening on " + cfg.HTTP.Port)
		if err := app.Listen(cfg.HTTP.Port); err != nil {
			log.Fatalf("Error listening on HTTP port %v: %v\n", cfg.HTTP.Port, err)
		}
	}()

	// The reconciler owns the main goroutine; it returns once ctx is
	// cancelled, after finishing and acknowledging the in-flight message.
	consumer := kafka.NewConsumer(cachedService, logger)
	consumer.Start(ctx, cfg.Kafka.Brokers)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mylogger.Info(shutdownCtx, logger, "Shutting down inventory service")

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		mylogger.Warn(shutdownCtx, logger, "Failed to stop HTTP app", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		mylogger.Warn(shutdownCtx, logger, "Failed to close redis client", zap.Error(err))
	}

	if err := tp.Shutdown(shutdownCtx); err != nil {
		mylogger.Warn(shutdownCtx, logger, "Failed to shut down telemetry", zap.Error(err))
	}

	pool.Close()
}
