package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/weiwei-tsao/country-stats/apps/api/internal/business/countries"
	"github.com/weiwei-tsao/country-stats/apps/api/internal/platform/config"
	apirouter "github.com/weiwei-tsao/country-stats/apps/api/internal/platform/http"
	"github.com/weiwei-tsao/country-stats/apps/api/internal/platform/logger"
	"github.com/weiwei-tsao/country-stats/apps/api/internal/platform/telemetry"
	"github.com/weiwei-tsao/country-stats/apps/api/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer appLog.Sync()

	gin.SetMode(cfg.GinMode)

	shutdownTracing, err := telemetry.Init(ctx, cfg.Otel, appLog)
	if err != nil {
		appLog.Fatal("telemetry init", "error", err)
	}

	reports, closeStore, storeDesc, err := store.Open(ctx, cfg)
	if err != nil {
		appLog.Fatal("report store init", "store", cfg.ReportStore, "error", err)
	}
	defer closeStore()
	appLog.Info("report store ready", "store", storeDesc)

	fetcher := countries.NewHTTPFetcher(nil, cfg.CountriesTimeout)
	source := countries.NewRESTSource(fetcher, cfg.CountriesBaseURL)
	svc := countries.NewService(source, reports, appLog, cfg.SearchWorkers)

	router := apirouter.NewRouter(svc, appLog, cfg.AllowedOrigins)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("server error", "error", err)
		}
	}()
	appLog.Info("server listening", "port", cfg.Port, "countries_base_url", cfg.CountriesBaseURL)

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	svc.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Error("server shutdown error", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		appLog.Warn("tracer shutdown error", "error", err)
	}
	appLog.Info("server exited")
}
