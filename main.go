// main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"marina-ops/cmd"
	"marina-ops/internal/data/repository"
	"marina-ops/internal/wire"
	"marina-ops/pkg/database"
	"marina-ops/pkg/lock"
	"marina-ops/pkg/messaging"
	"marina-ops/pkg/observability"
	"marina-ops/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	shutdownTracing, err := observability.SetupOTel(ctx, config.App.Name, config.OTel.Endpoint)
	if err != nil {
		logger.Fatal("Failed to set up tracing", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	mongoClient, auditDB, err := database.InitMongo(ctx, config.Mongo)
	if err != nil {
		logger.Fatal("Failed to connect to audit store", zap.Error(err))
	}
	defer mongoClient.Disconnect(context.Background())

	redisClient, err := database.InitRedis(ctx, config.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	var publisher messaging.Publisher = messaging.NoopPublisher{}
	if config.Rabbit.URL != "" {
		rabbit, err := messaging.NewRabbitPublisher(config.Rabbit.URL, config.Rabbit.Exchange)
		if err != nil {
			logger.Fatal("Failed to connect to rabbitmq", zap.Error(err))
		}
		publisher = rabbit
	} else {
		logger.Warn("RABBIT_URL not set, queued operation notifications are disabled")
	}
	defer publisher.Close()

	// Initialize all repositories
	repos := repository.NewRepository(db, auditDB, logger)
	locker := lock.NewRedisLocker(redisClient, config.Booking.BerthLockTTL)

	// Wire all dependencies
	app := wire.Wiring(repos, locker, publisher, config, logger)

	// Start server
	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}
