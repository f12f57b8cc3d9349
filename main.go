package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travelbooking/internal/cache"
	intconfig "travelbooking/internal/config"
	intdb "travelbooking/internal/db"
	router "travelbooking/internal/http"
	"travelbooking/internal/http/handlers"
	"travelbooking/internal/logger"
	"travelbooking/internal/metrics"
	"travelbooking/internal/scheduler"
	"travelbooking/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	zl := logger.New(env.LogFile)
	logger.SetGlobal(zl)
	defer zl.Sync()
	log := logger.L()

	if err := env.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db := intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
	if err := intdb.EnsureSchema(schemaCtx, db); err != nil {
		cancelSchema()
		log.Error("schema setup failed", "error", err)
		os.Exit(1)
	}
	cancelSchema()

	rdb, err := cache.NewRedisClient(env.RedisURL)
	if err != nil {
		log.Error("invalid REDIS_URL, search cache disabled", "error", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}
	searchCache := &cache.Cache{Client: rdb, TTL: env.SearchCacheTTL, Prefix: "travelbooking:"}

	m := metrics.New(env.MetricsNamespace, nil)

	api := handlers.API{
		Auth:     services.AuthService{DB: db, JWTSecret: []byte(env.JWTSecret), TokenTTL: env.JWTTTL},
		Catalog:  services.CatalogService{DB: db, Cache: searchCache, Metrics: m},
		Bookings: services.BookingService{DB: db, Metrics: m},
		Payments: services.PaymentService{DB: db, Metrics: m, Outcome: services.RandomOutcome{SuccessRate: env.PaymentSuccessRate}},
		Receipts: services.ReceiptService{DB: db},
		Partners: services.PartnerService{DB: db},
		Reports:  services.ReportsService{DB: db},
	}

	if err := handlers.RegisterValidators(); err != nil {
		log.Error("register validators failed", "error", err)
		os.Exit(1)
	}

	jobs, err := scheduler.New()
	if err != nil {
		log.Error("create scheduler failed", "error", err)
		os.Exit(1)
	}
	if _, err := jobs.AddCompletionJob(services.CompletionService{DB: db, Metrics: m}, env.CompletionInterval, time.Minute); err != nil {
		log.Error("schedule completion job failed", "error", err)
		os.Exit(1)
	}
	jobs.Start()

	r := router.NewRouter(env, api, m)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server listening", "addr", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := jobs.Shutdown(); err != nil {
		log.Warn("scheduler shutdown failed", "error", err)
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", "error", err)
		return
	}

	log.Info("server stopped")
}
