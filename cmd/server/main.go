package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "locadora-erp-backend/internal/api/grpc"
	httpapi "locadora-erp-backend/internal/api/http"
	"locadora-erp-backend/internal/cart"
	"locadora-erp-backend/internal/config"
	"locadora-erp-backend/internal/enrichment"
	"locadora-erp-backend/internal/logger"
	"locadora-erp-backend/internal/repository/postgres"
	"locadora-erp-backend/internal/security"
	"locadora-erp-backend/internal/service"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

const healthCheckInterval = 15 * time.Second

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Locadora ERP backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "http_address", cfg.GetServerAddress(), "grpc_address", cfg.GetGRPCAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db, postgres.WithRetry(cfg.Database.MaxTxAttempts, cfg.RetryBackoff()))

	// Cart store
	carts, closeCarts := newCartStore(cfg)
	defer closeCarts()

	// Company registry
	var lookup service.CompanyLookup
	if cfg.Enrichment.BaseURL != "" {
		lookup = enrichment.NewBrasilAPI(cfg.Enrichment.BaseURL, time.Duration(cfg.Enrichment.TimeoutSeconds)*time.Second)
		logger.Info("CNPJ enrichment enabled", "base_url", cfg.Enrichment.BaseURL)
	}

	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	// Initialize Services
	availabilitySvc := service.NewAvailabilityService(store.Products, store.Allocations)
	services := httpapi.Services{
		Availability: availabilitySvc,
		Quotes:       service.NewQuoteService(carts, store.Products, store.Clients, store.Quotes, availabilitySvc, store),
		Orders:       service.NewOrderService(store.Orders, store.Clients, store),
		Payments:     service.NewPaymentService(store.Payments, store.Orders, store.Clients, emailSvc, store, cfg.Billing.DefaultDueDays),
		Clients:      service.NewClientService(store.Clients, lookup),
		Products:     service.NewProductService(store.Products, store.Categories),
		Permissions:  service.NewPermissionService(store.RBAC, store),
		Dashboard:    service.NewDashboardService(store.Dashboard),
	}

	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           httpapi.NewRouter(services, tokenManager, cfg.RequestTimeout()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve HTTP: %v", err)
		}
	}()

	// Set up gRPC server
	healthCtx, stopHealth := context.WithCancel(context.Background())
	defer stopHealth()
	var grpcServer *api.Server
	if addr := cfg.GetGRPCAddress(); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", addr)
			log.Fatalf("Failed to listen: %v", err)
		}
		grpcServer = api.NewServer(tokenManager, db)
		go grpcServer.WatchHealth(healthCtx, healthCheckInterval)
		go func() {
			logger.Info("gRPC server listening", "address", addr)
			if err := grpcServer.Serve(lis); err != nil {
				logger.Error("Failed to serve gRPC", "error", err)
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
	stopHealth()
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	logger.Info("Server stopped. Goodbye!")
}

func newCartStore(cfg *config.Config) (cart.Store, func()) {
	if cfg.Cart.Store != "redis" {
		logger.Info("Using in-memory cart store", "ttl", cfg.CartTTL())
		return cart.NewMemoryStore(cfg.CartTTL()), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to ping redis", "error", err, "addr", cfg.Redis.Addr)
		log.Fatalf("Failed to ping redis: %v", err)
	}
	logger.Info("Using redis cart store", "addr", cfg.Redis.Addr, "ttl", cfg.CartTTL())
	return cart.NewRedisStore(rdb, cfg.CartTTL()), func() { _ = rdb.Close() }
}
