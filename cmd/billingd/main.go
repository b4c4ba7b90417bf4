// Package main runs the billing API server: companies, invoices, industries
// and the links between them, served as REST over JSON.
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	app "github.com/bizledger/billingd/internal/app"
	"github.com/bizledger/billingd/internal/app/httpapi"
	"github.com/bizledger/billingd/internal/app/storage/postgres"
	"github.com/bizledger/billingd/internal/middleware"
	"github.com/bizledger/billingd/internal/platform/migrations"
	"github.com/bizledger/billingd/pkg/logger"
)

type config struct {
	addr         string
	databaseURL  string
	logLevel     string
	logFormat    string
	rateLimitRPS int
}

func loadConfig() config {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config{
		addr:         ":8080",
		logLevel:     "info",
		logFormat:    "json",
		rateLimitRPS: 50,
	}
	if v := os.Getenv("BILLINGD_ADDR"); v != "" {
		cfg.addr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.databaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.logLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.logFormat = v
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.rateLimitRPS = n
		}
	}
	return cfg
}

func main() {
	cfg := loadConfig()

	log := logger.New(logger.LoggingConfig{
		Level:  cfg.logLevel,
		Format: cfg.logFormat,
		Output: "stdout",
	}).WithField("component", "billingd")

	var stores app.Stores
	if cfg.databaseURL != "" {
		db, err := openDatabase(cfg.databaseURL)
		if err != nil {
			log.WithError(err).Error("connect to postgres")
			os.Exit(1)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := migrations.Apply(ctx, db); err != nil {
			cancel()
			log.WithError(err).Error("apply migrations")
			os.Exit(1)
		}
		cancel()

		store := postgres.New(db)
		stores = app.Stores{Companies: store, Invoices: store, Industries: store}
		log.Info("using postgres storage")
	} else {
		log.Warn("DATABASE_URL not set; using in-memory storage")
	}

	application := app.New(stores, log)

	router := httpapi.NewHandler(application, log)
	router.Use(middleware.Logging(log))
	router.Use(middleware.Metrics())

	limiter := middleware.NewRateLimiter(cfg.rateLimitRPS, cfg.rateLimitRPS*2, log)
	cors := middleware.NewCORS([]string{"*"})
	handler := cors.Handler(limiter.Handler(router))

	server := &http.Server{
		Addr:         cfg.addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("listening on %s", cfg.addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.WithError(err).Error("server error")
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("server shutdown")
	}

	log.Info("stopped")
}

func openDatabase(url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
