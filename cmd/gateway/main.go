package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/admincheck123/payos-payout/internal/adapters/fallback"
	"github.com/admincheck123/payos-payout/internal/adapters/handler"
	"github.com/admincheck123/payos-payout/internal/adapters/handler/middleware"
	"github.com/admincheck123/payos-payout/internal/adapters/payos"
	"github.com/admincheck123/payos-payout/internal/adapters/vietqr"
	"github.com/admincheck123/payos-payout/internal/api"
	"github.com/admincheck123/payos-payout/internal/config"
	"github.com/admincheck123/payos-payout/internal/core/service"
	"github.com/admincheck123/payos-payout/internal/integrity"
	"github.com/admincheck123/payos-payout/internal/metrics"
	"github.com/admincheck123/payos-payout/internal/telemetry"
	"github.com/admincheck123/payos-payout/internal/worker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	_ "go.uber.org/automaxprocs"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting payout gateway",
		"env", cfg.Primary.Env,
		"port", cfg.Server.Port,
		"payos_base_url", cfg.PayOS.BaseURL,
		"log_level", cfg.Logger.Level,
		"trace_exporter", cfg.Tracing.Exporter,
	)

	tp, err := telemetry.NewTracerProvider(cfg.Tracing, os.Stdout)
	if err != nil {
		logger.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	doc, err := api.Load(context.Background())
	if err != nil {
		logger.Error("failed to load API description", "error", err)
		os.Exit(1)
	}

	payosClient := payos.NewClient(cfg.PayOS, cfg.Directory.ProbeTimeout, m, logger)
	vietqrClient := vietqr.NewClient(cfg.Listing, m)
	snapshot := fallback.NewFileSnapshot(cfg.Directory.FallbackPath)

	gatewayService := service.NewGatewayService(payosClient, integrity.NewUUIDIssuer(), cfg.PayOS.ChecksumKey, logger)
	directory := service.NewDirectoryResolver(payosClient, snapshot, cfg.Directory.CacheTTL, logger,
		service.WithDirectoryMetrics(m),
	)
	listing := service.NewBankListingService(vietqrClient, nil, cfg.Listing.CacheTTL, m, logger)

	mux := http.NewServeMux()
	handler.NewGatewayHandler(gatewayService, directory, listing, logger).RegisterRoutes(mux)
	handler.NewSystemHandler(doc, promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).RegisterRoutes(mux)

	router := middleware.Chain(otelhttp.NewHandler(mux, "payout-gateway"),
		middleware.Timeout(cfg.Server.RequestTimeout),
		middleware.Logging(logger),
		middleware.Recovery(logger),
	)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	warmer := worker.NewDirectoryWarmer(directory, cfg.Directory.WarmInterval, logger)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go warmer.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	if err := tp.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to flush traces", "error", err)
	}

	logger.Info("server exited")
}
