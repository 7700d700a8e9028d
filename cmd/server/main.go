package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nemanja-m/gosum/internal/api/grpc"
	"github.com/nemanja-m/gosum/internal/api/rest"
	"github.com/nemanja-m/gosum/internal/service"
	"github.com/nemanja-m/gosum/internal/shared/config"
	"github.com/nemanja-m/gosum/internal/shared/logging"
	"github.com/nemanja-m/gosum/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.LoadServer(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		slog.Error("Failed to create logger", "error", err)
		os.Exit(1)
	}

	store := storage.NewInMemoryReportStore()
	benchmarkService := service.NewBenchmarkService(store, cfg.Limits, logger)

	restServer := rest.NewServer(cfg.REST, cfg.Limits, benchmarkService, logger)
	grpcServer := grpc.NewServer(cfg.GRPC, cfg.Limits, benchmarkService, logger)

	go func() {
		logger.Info("Starting REST API server", "addr", cfg.REST.Addr)
		if err := restServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("REST server error", "error", err)
		}
	}()

	go func() {
		logger.Info("Starting gRPC server", "addr", cfg.GRPC.Addr)
		if err := grpcServer.Start(); err != nil {
			logger.Fatal("gRPC server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down servers...")

	// Give servers 30 seconds to finish serving ongoing requests
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := restServer.Shutdown(ctx); err != nil {
		logger.Error("REST server forced to shutdown", "error", err)
	}
	// Cancels running benchmarks, including synchronous gRPC runs.
	benchmarkService.Close()
	if err := grpcServer.Shutdown(ctx); err != nil {
		logger.Error("gRPC server forced to shutdown", "error", err)
	}

	logger.Info("Servers stopped")
}
