package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/miradorstack/scalegate/internal/api"
	"github.com/miradorstack/scalegate/internal/config"
	"github.com/miradorstack/scalegate/internal/metrics"
	"github.com/miradorstack/scalegate/internal/services"
	"github.com/miradorstack/scalegate/internal/utils"
)

func main() {
	var (
		configPath string
		check      bool
	)
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.BoolVar(&check, "check", false, "Validate the evaluation block of the configuration and exit")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.Any("error", err))
		os.Exit(1)
	}

	// Logs go to stderr in check mode so the report owns stdout.
	logOut := os.Stdout
	if check {
		logOut = os.Stderr
	}
	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON, logOut)

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	service := services.NewScaleService(logger)

	if check {
		os.Exit(runCheck(logger, service, cfg.Evaluation))
	}

	logger.Info("starting scalegate",
		slog.String("address", cfg.Server.Address),
		slog.String("http_address", cfg.Server.HTTPAddress))

	server, err := api.NewServer(cfg.Server, api.NewGRPCHandler(service))
	if err != nil {
		logger.Error("failed to create gRPC server", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var httpServer *http.Server
	if cfg.Server.HTTPAddress != "" {
		httpServer = &http.Server{
			Addr:         cfg.Server.HTTPAddress,
			Handler:      api.NewRouter(service, logger),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logger.Info("http gateway listening", slog.String("address", cfg.Server.HTTPAddress))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http gateway exited", slog.Any("error", err))
				stop()
			}
		}()
	}

	go func() {
		if serveErr := server.Start(); serveErr != nil {
			logger.Error("gRPC server exited", slog.Any("error", serveErr))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.GracefulTimeout())
	defer cancel()
	server.Shutdown(shutdownCtx)

	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("http gateway shutdown", slog.Any("error", err))
		}
	}

	logger.Info("scalegate stopped")
}

// runCheck validates the configured evaluation once and prints the report.
// The exit code is 1 when the report holds an ERROR, 2 when the
// configuration cannot be validated at all.
func runCheck(logger *slog.Logger, service *services.ScaleService, eval config.EvaluationConfig) int {
	req, err := eval.ValidationRequest()
	if err != nil {
		logger.Error("invalid evaluation block", slog.Any("error", err))
		return 2
	}

	report, err := service.Validate(context.Background(), req)
	if err != nil && !errors.Is(err, services.ErrRescalingFailure) {
		logger.Error("validation failed", slog.Any("error", err))
		return 2
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(api.ToValidateResponse(report)); encErr != nil {
		logger.Error("write report", slog.Any("error", encErr))
		return 2
	}
	if err != nil {
		return 1
	}
	return 0
}
