package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"licensing-core/api/handler"
	"licensing-core/api/router"
	"licensing-core/job"
	"licensing-core/service"
	"licensing-core/storage/cache"
	"licensing-core/storage/postgres"
	"licensing-core/vars"
)

func main() {
	log := slog.Default()

	// 1. Database
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		vars.PGHOST, vars.PGUSER, vars.PGPWD, vars.PGDB, vars.PGPORT)
	db, err := postgres.InitDB(dsn)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}

	// 2. Repos (catalog cache is optional)
	cacheTTL, err := time.ParseDuration(vars.CATALOGCACHETTL)
	if err != nil {
		log.Error("invalid CATALOG_CACHE_TTL", "value", vars.CATALOGCACHETTL, "error", err)
		os.Exit(1)
	}
	catalogCache := cache.New(vars.REDISADDR, cacheTTL)
	contractRepo := postgres.NewContractRepo(db)
	catalogRepo := postgres.NewCatalogRepo(db, catalogCache)

	// 3. Services
	resolver := service.NewDiscountResolver(catalogRepo)
	pricing := service.NewPricingService(resolver)
	contractSvc := service.NewContractService(contractRepo, catalogRepo, pricing, log)

	// 4. Expiry sweeper
	interval, err := time.ParseDuration(vars.SWEEPINTERVAL)
	if err != nil {
		log.Error("invalid SWEEP_INTERVAL", "value", vars.SWEEPINTERVAL, "error", err)
		os.Exit(1)
	}
	sweeper := job.NewSweeper(contractRepo, interval, log)
	if err := sweeper.Start(); err != nil {
		log.Error("sweeper start failed", "error", err)
		os.Exit(1)
	}

	// 5. Web server
	r := gin.Default()
	router.RegisterRoutes(r, handler.NewContractHandler(contractSvc))
	srv := &http.Server{Addr: ":" + vars.PORT, Handler: r}

	go func() {
		log.Info("server running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// 6. Shutdown: stop the sweeper first so no tick is abandoned
	// mid-batch, then drain the server.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	log.Info("shutting down")

	sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
}
