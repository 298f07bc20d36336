package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"cardioml/config"
	qhttp "cardioml/http"
	"cardioml/logging"
	"cardioml/ml"
	"cardioml/monitoring"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// 2. Load the model once; an empty holder keeps serving with 500s
	holder := ml.Load(cfg.ML, logger)
	defer holder.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.ML.Watch && holder.Loaded() {
		go func() {
			if err := ml.WatchArtifact(ctx, cfg.ML.ModelPath, logger); err != nil {
				logger.Warn("artifact watcher stopped", zap.Error(err))
			}
		}()
	}

	// 3. Start HTTP server
	server := qhttp.NewServer(qhttp.ServerConfig{
		Addr:           cfg.Addr(),
		Timeout:        cfg.Http.Timeout,
		AllowedOrigins: cfg.Http.AllowedOrigins,
		MaxBodyBytes:   cfg.Http.MaxBodyBytes,
	}, holder, monitoring.NewMetricsCollector(), logger)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 4. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	if err := server.Stop(); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Exiting")
}
