package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sony/gobreaker"

	// Application
	"github.com/dreschagin/rai-dashboard/internal/app"

	// Infrastructure
	redisCache "github.com/dreschagin/rai-dashboard/internal/infrastructure/cache/redis"
	natsInfra "github.com/dreschagin/rai-dashboard/internal/infrastructure/messaging/nats"
	wsInfra "github.com/dreschagin/rai-dashboard/internal/infrastructure/notification/websocket"
	"github.com/dreschagin/rai-dashboard/internal/infrastructure/observability/cloudwatch"
	"github.com/dreschagin/rai-dashboard/internal/infrastructure/observability/metrics"
	dynamodbRepo "github.com/dreschagin/rai-dashboard/internal/infrastructure/persistence/dynamodb"
	"github.com/dreschagin/rai-dashboard/internal/infrastructure/persistence/postgres"
	s3storage "github.com/dreschagin/rai-dashboard/internal/infrastructure/storage/s3"

	// Interfaces
	httpInterface "github.com/dreschagin/rai-dashboard/internal/interfaces/http"
	"github.com/dreschagin/rai-dashboard/internal/interfaces/http/handler"
	"github.com/dreschagin/rai-dashboard/internal/interfaces/http/middleware"

	// Shared
	"github.com/dreschagin/rai-dashboard/pkg/config"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

func main() {
	// 1. Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Инициализируем logger
	log := logger.NewWithFormat(cfg.Logger.Level, cfg.Logger.Format)
	defer func() { _ = log.Sync() }()
	log.Info("Starting RAI Dashboard")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Метрики Prometheus
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	dashboardMetrics := metrics.New(registry)

	// 4. CloudWatch Logs
	var logsPublisher *cloudwatch.LogsPublisher
	if cfg.CloudWatch.LogsEnabled {
		logsPublisher, err = cloudwatch.NewLogsPublisher(ctx, cloudwatch.LogsPublisherConfig{
			LogGroupName:    cfg.CloudWatch.LogGroup,
			LogStreamName:   cfg.CloudWatch.LogStream,
			Region:          cfg.CloudWatch.Region,
			Endpoint:        cfg.CloudWatch.Endpoint,
			AccessKeyID:     cfg.CloudWatch.AccessKeyID,
			SecretAccessKey: cfg.CloudWatch.SecretAccessKey,
			BufferSize:      cfg.CloudWatch.LogsBufferSize,
			FlushInterval:   cfg.CloudWatch.LogsFlushInterval,
			AutoCreate:      cfg.CloudWatch.LogsAutoCreate,
		})
		if err != nil {
			log.Error("Failed to initialize CloudWatch logs publisher", err)
			os.Exit(1)
		}
		log.SetPublisher(logsPublisher)
		log.Info("CloudWatch logs publisher initialized", "group", cfg.CloudWatch.LogGroup)
	} else {
		log.Warn("CloudWatch logs publishing is disabled")
	}

	// 5. Dependency Injection - Infrastructure Layer
	deps := app.Deps{Metrics: dashboardMetrics}
	var checks []readyCheck

	// Redis кэш истории расходов
	if cfg.Redis.Enabled {
		cache, initErr := redisCache.NewRedisCache(redisCache.Options{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			TTL:          cfg.Redis.TTL,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if initErr != nil {
			log.Warn("Failed to connect to Redis, continuing without cache", "error", initErr.Error())
		} else {
			defer cache.Close()
			deps.Cache = cache
			checks = append(checks, readyCheck{"redis", cache.Ping})
			log.Info("Redis cache initialized", "host", cfg.Redis.Host)
		}
	} else {
		log.Warn("Redis cache is disabled")
	}

	// NATS публикация смен раздела
	if cfg.NATS.Enabled {
		publisher, initErr := natsInfra.NewNATSPublisher(natsInfra.Options{
			URL:                cfg.NATS.URL,
			Stream:             cfg.NATS.Stream,
			Subject:            cfg.NATS.Subject,
			BreakerMaxRequests: cfg.NATS.BreakerMaxRequests,
			BreakerInterval:    cfg.NATS.BreakerInterval,
			BreakerTimeout:     cfg.NATS.BreakerTimeout,
			BreakerFailures:    cfg.NATS.BreakerFailures,
			OnBreakerState: func(name string, state gobreaker.State) {
				dashboardMetrics.SetBreakerState(name, int(state))
			},
		}, log)
		if initErr != nil {
			log.Warn("Failed to connect to NATS, continuing without event publishing", "error", initErr.Error())
		} else {
			defer publisher.Close()
			deps.Events = publisher
			log.Info("NATS event publisher initialized", "url", cfg.NATS.URL)
		}
	} else {
		log.Warn("NATS event publishing is disabled")
	}

	// PostgreSQL журнал смен раздела
	var db *sql.DB
	if cfg.Database.Enabled {
		db, err = postgres.Open(ctx, cfg.Database.DSN(),
			cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime)
		if err != nil {
			log.Error("Failed to connect to database", err)
			os.Exit(1)
		}
		defer db.Close()
		db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

		repo := postgres.NewPostgresSectionChangeRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Error("Failed to prepare database schema", err)
			os.Exit(1)
		}
		deps.Changes = repo
		checks = append(checks, readyCheck{"postgres", db.PingContext})
		log.Info("Database connected successfully")
	} else {
		log.Warn("Database is disabled, section changes are kept in memory")
	}

	// S3 хранилище снимков
	if cfg.S3.Enabled {
		storage, initErr := s3storage.NewSnapshotStorage(ctx, s3storage.Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
			URLMode:         s3storage.URLMode(cfg.S3.URLMode),
			PresignedTTL:    cfg.S3.PresignedTTL,
		})
		if initErr != nil {
			log.Error("Failed to initialize snapshot storage", initErr)
			os.Exit(1)
		}
		deps.Snapshots = storage
	} else {
		log.Warn("S3 storage is disabled, snapshot uploads will fail")
	}

	// DynamoDB индекс снимков
	if cfg.Dynamo.Enabled {
		index, initErr := dynamodbRepo.NewSnapshotIndex(ctx, dynamodbRepo.Config{
			TableName:       cfg.Dynamo.Table,
			Region:          cfg.Dynamo.Region,
			Endpoint:        cfg.Dynamo.Endpoint,
			AccessKeyID:     cfg.Dynamo.AccessKeyID,
			SecretAccessKey: cfg.Dynamo.SecretAccessKey,
		})
		if initErr != nil {
			log.Error("Failed to initialize snapshot index", initErr)
			os.Exit(1)
		}
		deps.Index = index
		log.Info("Snapshot index initialized", "provider", "dynamodb")
	} else {
		log.Warn("DynamoDB snapshot index is disabled, using S3 listing mode")
	}

	// CloudWatch публикация оценок
	var scorePublisher *cloudwatch.ScorePublisher
	if cfg.CloudWatch.MetricsEnabled {
		scorePublisher, err = cloudwatch.NewScorePublisher(ctx, cloudwatch.ScorePublisherConfig{
			Namespace:         cfg.CloudWatch.Namespace,
			Region:            cfg.CloudWatch.Region,
			Endpoint:          cfg.CloudWatch.Endpoint,
			AccessKeyID:       cfg.CloudWatch.AccessKeyID,
			SecretAccessKey:   cfg.CloudWatch.SecretAccessKey,
			DefaultDimensions: cfg.CloudWatch.Dimensions,
			BufferSize:        cfg.CloudWatch.BufferSize,
			FlushInterval:     cfg.CloudWatch.FlushInterval,
			StorageResolution: cfg.CloudWatch.StorageResolution,
		})
		if err != nil {
			log.Error("Failed to initialize CloudWatch score publisher", err)
			os.Exit(1)
		}
		deps.Scores = scorePublisher
		log.Info("CloudWatch score publisher initialized", "namespace", cfg.CloudWatch.Namespace)
	} else {
		log.Warn("CloudWatch score publishing is disabled")
	}

	// WebSocket Hub
	hub := wsInfra.NewHub(log.Named("ws"))
	hub.OnClientCount(dashboardMetrics.SetWebSocketClients)
	deps.Notifier = hub

	// 6. Dependency Injection - Application Layer (Use Cases)
	dashboard, err := app.Build(cfg, deps, log)
	if err != nil {
		log.Error("Failed to build dashboard", err)
		os.Exit(1)
	}
	hub.SetCommandHandler(handler.NavigationCommands(dashboard.Navigate))

	// 7. Dependency Injection - Interfaces Layer (HTTP Handlers)
	authConfig := middleware.AuthConfig{
		Enabled:     cfg.Security.AuthEnabled,
		BearerToken: cfg.Security.AuthToken,
	}
	handlers := httpInterface.Handlers{
		Dashboard: handler.NewDashboardHandler(dashboard.Navigate, dashboard.Pages, dashboard.Policies, log),
		Sections:  handler.NewSectionAPIHandler(dashboard.Pages, dashboard.Navigate, log),
		Navigation: handler.NewNavigationAPIHandler(
			dashboard.Navigate,
			dashboard.Interaction,
			dashboard.History,
			log,
		),
		Reports: handler.NewReportAPIHandler(
			dashboard.RAIScore,
			dashboard.ESG,
			dashboard.CostHistory,
			dashboard.Policies,
			cfg.Dashboard.CostHistorySamples,
			log,
		),
		Snapshots: handler.NewSnapshotAPIHandler(dashboard.SaveSnapshot, dashboard.ListSnapshots, log),
		Auth:      handler.NewAuthAPIHandler(authConfig, log),
		WebSocket: handler.NewWebSocketHandler(hub, cfg.Security.AllowedOrigins, authConfig, log),
	}

	opts := []httpInterface.RouterOption{
		httpInterface.WithMetrics(dashboardMetrics, registry),
		httpInterface.WithRateLimiter(middleware.NewIPRateLimiter(ctx, cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)),
	}
	for _, check := range checks {
		opts = append(opts, httpInterface.WithReadyCheck(check.name, check.fn))
	}
	router := httpInterface.NewRouter(handlers, cfg.Security, log, opts...)

	// 8. Запускаем фоновые процессы
	go hub.Run(ctx)
	log.Info("WebSocket hub started")

	go dashboard.PublishScores.Run(ctx, cfg.Dashboard.ScorePublishInterval)
	go dashboard.LiveEvents.Run(ctx, cfg.Dashboard.LiveEventInterval)

	// 9. Настраиваем HTTP сервер
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// 10. Ожидаем сигнал для graceful shutdown
	select {
	case <-sigChan:
		log.Info("Shutdown signal received, starting graceful shutdown...")
	case err := <-serverErr:
		log.Error("HTTP server failed", err)
	}

	// Останавливаем фоновые процессы
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", err)
	}

	if scorePublisher != nil {
		log.Info("Flushing CloudWatch score buffer...")
		if err := scorePublisher.Close(shutdownCtx); err != nil {
			log.Error("Failed to flush CloudWatch scores", err)
		}
	}

	log.Info("Server stopped gracefully")

	if logsPublisher != nil {
		if err := logsPublisher.Close(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to flush CloudWatch logs: %v\n", err)
		}
	}
}

type readyCheck struct {
	name string
	fn   httpInterface.ReadyCheck
}
