package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/Fangsangik/shopping/internal/api"
	"github.com/Fangsangik/shopping/internal/bucket"
	"github.com/Fangsangik/shopping/internal/cache"
	"github.com/Fangsangik/shopping/internal/inventory"
	"github.com/Fangsangik/shopping/internal/item"
	"github.com/Fangsangik/shopping/internal/notify"
	"github.com/Fangsangik/shopping/internal/order"
	"github.com/Fangsangik/shopping/internal/payment"
	"github.com/Fangsangik/shopping/internal/promotion"
	"github.com/Fangsangik/shopping/internal/repository"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	HTTPPort        string
	PostgresHost    string
	PostgresPort    int
	PostgresUser    string
	PostgresPass    string
	PostgresDB      string
	MigrationsPath  string
	RedisAddr       string
	KafkaBrokers    []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	pgPort, err := strconv.Atoi(getEnv("POSTGRES_PORT", "5432"))
	if err != nil {
		log.Fatalf("invalid POSTGRES_PORT: %v", err)
	}
	var brokers []string
	if raw := getEnv("KAFKA_BROKERS", ""); raw != "" {
		brokers = strings.Split(raw, ",")
	}
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		PostgresHost:    getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:    pgPort,
		PostgresUser:    getEnv("POSTGRES_USER", "postgres"),
		PostgresPass:    getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:      getEnv("POSTGRES_DB", "shopping"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "migrations"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		KafkaBrokers:    brokers,
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	creds := &repository.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPass,
		DBName:            cfg.PostgresDB,
		MigrationsDirPath: cfg.MigrationsPath,
	}
	repo, err := repository.NewPostgresRepository(creds)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer repo.Close()
	if err := repo.RunMigrations(creds); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	var itemCache cache.ItemCache = cache.Noop{}
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		itemCache = cache.NewRedisCache(redisClient)
	}

	var notifier notify.Notifier = notify.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaNotifier := notify.NewKafkaNotifier(cfg.KafkaBrokers...)
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
	}

	ledger := inventory.NewLedger(repo, notifier)
	gateway := payment.NewBreakerGateway(payment.RandomGateway{})
	payments := payment.NewCoordinator(repo, gateway)
	orders := order.NewService(repo, ledger, payments)
	promotions := promotion.NewEngine(repo, itemCache)
	items := item.NewService(repo, itemCache)
	buckets := bucket.NewService(repo)

	router := api.NewRouter(api.Services{
		Repo:       repo,
		Items:      items,
		Orders:     orders,
		Payments:   payments,
		Promotions: promotions,
		Buckets:    buckets,
		Ledger:     ledger,
	}, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	log.Println("server stopped")
}
