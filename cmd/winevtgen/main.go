package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/internal/application/orchestrator"
	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/internal/config"
	catalogmemory "github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/adapters/catalog/memory"
	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/adapters/metrics/prometheus"
	sinkmemory "github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/adapters/sink/memory"
	sinkredis "github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/adapters/sink/redis"
	storagememory "github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/adapters/storage/memory"
	storageredis "github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/adapters/storage/redis"
	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/api/grpc"
	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/api/http"
	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/api/websocket"
	"github.com/yosbd117/windows-event-generator-tvwfhl-sub002/pkg/ports"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting Windows event generator",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	// Initialize storage and sink adapters. Redis is optional; the
	// in-memory adapters make a single-process deployment work with
	// no external services.
	var (
		store       ports.ScenarioStore
		sink        ports.LogSink
		redisClient *goredis.Client
	)
	if cfg.Redis.Enabled {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		// Test Redis connection
		ctx := context.Background()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

		store = storageredis.NewScenarioStore(redisClient, cfg.Redis.ScenarioTTL, logger)
		sink = sinkredis.NewStreamSink(redisClient, cfg.Redis.EventStream, cfg.Redis.EventStreamMaxLen, logger)
	} else {
		store = storagememory.NewScenarioStore()
		sink = sinkmemory.NewSink()
	}

	catalog := catalogmemory.NewBuiltinCatalog()
	metricsCollector := prometheus.NewCollector()

	// Initialize application components
	validator := orchestrator.NewValidator(catalog)
	broker := orchestrator.NewProgressBroker(logger)

	coordinator := orchestrator.NewCoordinator(
		catalog,
		sink,
		broker,
		metricsCollector,
		logger,
	)

	service := orchestrator.NewService(
		store,
		catalog,
		validator,
		coordinator,
		metricsCollector,
		logger,
		orchestrator.ValidationOptions{
			StrictTemplateValidation: cfg.Engine.StrictTemplateValidation,
			ValidateMitreReferences:  cfg.Engine.ValidateMitreReferences,
		},
	)

	monitor := orchestrator.NewMonitor(coordinator, cfg.Engine.MonitorInterval, logger)
	monitor.Start()

	// Initialize API servers
	httpServer := http.NewServer(&http.Config{
		Port:    cfg.HTTPPort,
		Service: service,
		Logger:  logger,
	})

	// Add WebSocket handler to HTTP server
	wsHandler := websocket.NewHandler(broker, logger)
	httpServer.SetupWebSocket(wsHandler)

	grpcServer, err := grpc.NewServer(&grpc.Config{
		Port:    cfg.GRPCPort,
		Service: service,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("failed to create gRPC server", zap.Error(err))
	}

	// Start servers
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	go func() {
		if err := grpcServer.Start(); err != nil {
			logger.Fatal("gRPC server failed", zap.Error(err))
		}
	}()

	logger.Info("Windows event generator started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.Int("grpc_port", cfg.GRPCPort),
		zap.Bool("redis_enabled", cfg.Redis.Enabled))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ShutdownTimeout)
	defer cancel()

	// Shutdown components
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := grpcServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("gRPC server shutdown error", zap.Error(err))
	}

	monitor.Stop()

	if err := coordinator.Shutdown(shutdownCtx); err != nil {
		logger.Error("coordinator shutdown error", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}

	logger.Info("Windows event generator shut down complete")
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
