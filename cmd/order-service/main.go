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

	"github.com/durgasankar/BookStore-BackEndApi/internal/cache"
	h "github.com/durgasankar/BookStore-BackEndApi/internal/http"
	"github.com/durgasankar/BookStore-BackEndApi/internal/identity"
	"github.com/durgasankar/BookStore-BackEndApi/internal/notifier"
	"github.com/durgasankar/BookStore-BackEndApi/internal/publisher"
	"github.com/durgasankar/BookStore-BackEndApi/internal/repository"
	"github.com/durgasankar/BookStore-BackEndApi/internal/service"
	"github.com/durgasankar/BookStore-BackEndApi/internal/token"
	"github.com/redis/go-redis/v9"
)

type Config struct {
	HTTPPort        string
	IdentityAPIURL  string
	TokenSecret     string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8081"),
		IdentityAPIURL:  getEnv("IDENTITY_API_URL", "http://localhost:8092"),
		TokenSecret:     getEnv("TOKEN_SECRET", "bookstore-secret"),
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
	ctx := context.Background()

	// Postgres holds the catalog, invoices and quantity rows.
	pgPort, err := strconv.Atoi(getEnv("POSTGRES_PORT", "5432"))
	if err != nil {
		log.Fatalf("invalid POSTGRES_PORT: %v", err)
	}
	cred := &repository.Credentials{
		Host:              getEnv("POSTGRES_HOST", "localhost"),
		Port:              pgPort,
		User:              getEnv("POSTGRES_USER", "postgres"),
		Password:          getEnv("POSTGRES_PASSWORD", "postgres"),
		DBName:            getEnv("POSTGRES_DB", "bookstore"),
		MigrationsDirPath: getEnv("MIGRATIONS_PATH", "internal/repository/migrations/postgres"),
	}
	repo, err := repository.NewPostgresRepository(cred)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer repo.Close()
	if err := repo.RunMigrations(cred.MigrationsDirPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("Connected to postgres at %s:%d", cred.Host, cred.Port)

	// MongoDB holds the pending cart lines.
	mongoDB, err := repository.ConnectMongoDB(ctx,
		getEnv("MONGO_URI", "mongodb://localhost:27017"),
		getEnv("MONGO_DB_NAME", "bookstore"))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	cartStore := repository.NewMongoCartStore(mongoDB)
	log.Printf("Connected to MongoDB")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	cartCache := cache.NewRedisCache(redisClient)

	parser := token.NewParser([]byte(cfg.TokenSecret))
	identityClient := identity.NewClient(cfg.IdentityAPIURL, 5*time.Second)
	verifier := identity.NewVerifier(identityClient, parser)

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		log.Fatalf("invalid SMTP_PORT: %v", err)
	}
	mail, err := notifier.NewMailNotifier(notifier.SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "orders@bookstore.local"),
	})
	if err != nil {
		log.Fatalf("Failed to build mail notifier: %v", err)
	}

	var brokers []string
	if raw := getEnv("KAFKA_BROKERS", ""); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}
	events := publisher.NewKafkaPublisher(brokers...)
	defer events.Close()

	svc := service.NewOrderService(
		service.Stores{Books: repo, Cart: cartStore, Invoices: repo, Quantities: repo},
		cartCache, verifier, parser, mail, events,
	)
	handler := h.NewOrderHandler(svc, cfg.RequestTimeout)
	router := h.NewRouter(handler)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Order service starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
