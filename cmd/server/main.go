package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/smart-inventory/internal/alert"
	alertdomain "github.com/tair/smart-inventory/internal/alert/domain"
	alertengine "github.com/tair/smart-inventory/internal/alert/engine"
	"github.com/tair/smart-inventory/internal/category"
	catdomain "github.com/tair/smart-inventory/internal/category/domain"
	"github.com/tair/smart-inventory/internal/item"
	itemdelivery "github.com/tair/smart-inventory/internal/item/delivery/http"
	itemdomain "github.com/tair/smart-inventory/internal/item/domain"
	"github.com/tair/smart-inventory/internal/order"
	orderdomain "github.com/tair/smart-inventory/internal/order/domain"
	"github.com/tair/smart-inventory/internal/transaction"
	txdomain "github.com/tair/smart-inventory/internal/transaction/domain"
	"github.com/tair/smart-inventory/internal/user"
	userdomain "github.com/tair/smart-inventory/internal/user/domain"
	"github.com/tair/smart-inventory/kafka"
	"github.com/tair/smart-inventory/pkg/database"
	"github.com/tair/smart-inventory/pkg/logger"
	"github.com/tair/smart-inventory/pkg/tracing"
)

func main() {
	// .env is optional, real deployments use environment variables
	_ = godotenv.Load()

	serviceName := getEnv("OTEL_SERVICE_NAME", "inventory-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logLevel := getEnv("LOG_LEVEL", "info")
	logger.Init(serviceName, logLevel, isDevelopment)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting inventory service")

	// Tracing
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize tracer")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(ctx, tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to shut down tracer")
		}
	}()

	// Database
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "inventorydb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	sqlDB, err := database.NewPostgresConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer sqlDB.Close()

	db, err := database.NewGormConnection(sqlDB)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to open gorm connection")
	}

	if err := db.AutoMigrate(
		&catdomain.Category{},
		&itemdomain.Item{},
		&txdomain.Transaction{},
		&alertdomain.Alert{},
		&orderdomain.Order{},
		&orderdomain.OrderLine{},
		&userdomain.User{},
	); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Redis response cache, optional
	redisClient := newRedisClient()
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Kafka events, optional; a nil publisher drops events
	publisher := newPublisher()
	defer publisher.Close()

	// Wire up verticals
	eng, err := alert.InitializeEngine(db, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize alert engine")
	}

	itemHandler, err := item.InitializeHandler(db, eng, redisClient)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize item handler")
	}
	categoryHandler, err := category.InitializeHandler(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize category handler")
	}
	transactionHandler, err := transaction.InitializeHandler(db, eng, publisher, redisClient)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize transaction handler")
	}
	alertHandler, err := alert.InitializeHandler(db, eng)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize alert handler")
	}
	orderHandler, err := order.InitializeHandler(db, eng, publisher, redisClient)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize order handler")
	}
	userHandler, err := user.InitializeHandler(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize user handler")
	}

	// Router
	router := mux.NewRouter()
	itemHandler.RegisterRoutes(router)
	categoryHandler.RegisterRoutes(router)
	transactionHandler.RegisterRoutes(router)
	alertHandler.RegisterRoutes(router)
	orderHandler.RegisterRoutes(router)
	userHandler.RegisterRoutes(router)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := sqlDB.Ping(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"success":false,"error":"Database unavailable"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"Inventory service is healthy"}`))
	}).Methods("GET")

	router.Handle("/metrics", promhttp.Handler())
	itemdelivery.RegisterSwaggerDocs(router, httpSwagger.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := otelhttp.NewHandler(c.Handler(router), "inventory-http")

	// Periodic alert sweep
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	startAlertSweep(sweepCtx, eng)

	httpPort := getEnv("HTTP_PORT", "8080")
	srv := &http.Server{
		Addr:         ":" + httpPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Logger.Info().
			Str("port", httpPort).
			Str("metrics_endpoint", "/metrics").
			Msg("HTTP server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	}
}

// newRedisClient connects to Redis if REDIS_ADDR is set. The service
// degrades to uncached responses when Redis is absent or unreachable.
func newRedisClient() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		logger.Logger.Info().Msg("REDIS_ADDR not set, response cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Logger.Warn().Err(err).Str("addr", addr).Msg("Redis unreachable, response cache disabled")
		client.Close()
		return nil
	}

	logger.Logger.Info().Str("addr", addr).Msg("Redis response cache enabled")
	return client
}

// newPublisher connects to Kafka if KAFKA_BROKERS is set. Event
// publication is best effort and never blocks stock mutations.
func newPublisher() *kafka.Publisher {
	brokersEnv := os.Getenv("KAFKA_BROKERS")
	if brokersEnv == "" {
		logger.Logger.Info().Msg("KAFKA_BROKERS not set, event publication disabled")
		return nil
	}

	publisher, err := kafka.NewPublisher(strings.Split(brokersEnv, ","))
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Kafka unreachable, event publication disabled")
		return nil
	}
	return publisher
}

// startAlertSweep runs the engine sweep on an interval. Set
// ALERT_SWEEP_INTERVAL to 0 to disable it.
func startAlertSweep(ctx context.Context, eng *alertengine.Engine) {
	intervalEnv := getEnv("ALERT_SWEEP_INTERVAL", "5m")
	interval, err := time.ParseDuration(intervalEnv)
	if err != nil {
		logger.Logger.Warn().Str("value", intervalEnv).Msg("Invalid ALERT_SWEEP_INTERVAL, using 5m")
		interval = 5 * time.Minute
	}
	if interval <= 0 {
		logger.Logger.Info().Msg("Alert sweep disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				raised, err := eng.Sweep(ctx)
				if err != nil {
					logger.Error(ctx).Err(err).Msg("Alert sweep failed")
					continue
				}
				if raised > 0 {
					logger.Info(ctx).Int("raised", raised).Msg("Alert sweep raised new alerts")
				}
			}
		}
	}()

	logger.Logger.Info().Dur("interval", interval).Msg("Alert sweep scheduled")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
