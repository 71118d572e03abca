package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joel-u410/namada-indexer/internal/alert"
	namadarpc "github.com/joel-u410/namada-indexer/internal/chain/namada/rpc"
	"github.com/joel-u410/namada-indexer/internal/chain/ratelimit"
	"github.com/joel-u410/namada-indexer/internal/checksum"
	"github.com/joel-u410/namada-indexer/internal/circuitbreaker"
	"github.com/joel-u410/namada-indexer/internal/config"
	"github.com/joel-u410/namada-indexer/internal/domain/model"
	"github.com/joel-u410/namada-indexer/internal/metrics"
	"github.com/joel-u410/namada-indexer/internal/pipeline"
	"github.com/joel-u410/namada-indexer/internal/pipeline/classifier"
	"github.com/joel-u410/namada-indexer/internal/pipeline/fetcher"
	"github.com/joel-u410/namada-indexer/internal/pipeline/ibc"
	"github.com/joel-u410/namada-indexer/internal/pipeline/ingester"
	"github.com/joel-u410/namada-indexer/internal/store/postgres"
	redisstore "github.com/joel-u410/namada-indexer/internal/store/redis"
	"github.com/joel-u410/namada-indexer/internal/tracing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

const (
	serviceName = "namada-indexer"

	// dbPoolExhaustionPct is the in-use share of MaxOpenConns that raises an alert.
	dbPoolExhaustionPct = 80
)

type dbStatsProvider interface {
	Stats() sql.DBStats
}

type dbPoolStatsGauges struct {
	open         prometheus.Gauge
	inUse        prometheus.Gauge
	idle         prometheus.Gauge
	waitCount    prometheus.Gauge
	waitDuration prometheus.Gauge
}

func collectDBPoolStats(db dbStatsProvider, gauges dbPoolStatsGauges) (stats sql.DBStats, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("db pool stats collection panicked: %v", r)
		}
	}()
	if db == nil {
		return stats, fmt.Errorf("db stats provider is nil")
	}

	stats = db.Stats()
	gauges.open.Set(float64(stats.OpenConnections))
	gauges.inUse.Set(float64(stats.InUse))
	gauges.idle.Set(float64(stats.Idle))
	gauges.waitCount.Set(float64(stats.WaitCount))
	gauges.waitDuration.Set(stats.WaitDuration.Seconds())
	return stats, nil
}

// poolExhausted reports whether in-use connections reached the alert share of
// a bounded pool.
func poolExhausted(stats sql.DBStats) bool {
	if stats.MaxOpenConnections <= 0 {
		return false
	}
	return stats.InUse*100 >= stats.MaxOpenConnections*dbPoolExhaustionPct
}

func runDBPoolStatsPump(
	ctx context.Context,
	db dbStatsProvider,
	interval time.Duration,
	gauges dbPoolStatsGauges,
	alerter alert.Alerter,
	crawler string,
	logger *slog.Logger,
) error {
	if db == nil || interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sample := func() {
		stats, err := collectDBPoolStats(db, gauges)
		if err != nil {
			logger.Warn("failed to collect db pool stats", "error", err)
			return
		}
		if !poolExhausted(stats) {
			return
		}
		a := alert.Alert{
			Type:    alert.AlertTypeDBPool,
			Crawler: crawler,
			Title:   "DB connection pool near exhaustion",
			Message: fmt.Sprintf("%d of %d connections in use", stats.InUse, stats.MaxOpenConnections),
			Fields: map[string]string{
				"in_use":     fmt.Sprint(stats.InUse),
				"max_open":   fmt.Sprint(stats.MaxOpenConnections),
				"wait_count": fmt.Sprint(stats.WaitCount),
			},
		}
		if err := alerter.Send(ctx, a); err != nil {
			logger.Warn("db pool alert failed", "error", err)
		}
	}

	sample()
	for {
		select {
		case <-ctx.Done():
			logger.Info("db pool stats sampler stopped", "cause", "context_done")
			return nil
		case <-ticker.C:
			sample()
		}
	}
}

func defaultDBPoolGauges() dbPoolStatsGauges {
	return dbPoolStatsGauges{
		open:         metrics.DBPoolOpen,
		inUse:        metrics.DBPoolInUse,
		idle:         metrics.DBPoolIdle,
		waitCount:    metrics.DBPoolWaitCount,
		waitDuration: metrics.DBPoolWaitDurationSeconds,
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// maskCredentials hides the password of a connection URL for logging.
func maskCredentials(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}

func buildAlerter(cfg config.AlertConfig, logger *slog.Logger) alert.Alerter {
	var channels []alert.Alerter
	if cfg.SlackWebhookURL != "" {
		channels = append(channels, alert.NewSlackAlerter(cfg.SlackWebhookURL))
	}
	if cfg.WebhookURL != "" {
		channels = append(channels, alert.NewWebhookAlerter(cfg.WebhookURL))
	}
	if len(channels) == 0 {
		return alert.NoopAlerter{}
	}
	return alert.NewMultiAlerter(cfg.Cooldown, logger, channels...)
}

func buildSeedSource(cfg config.ChecksumsConfig, client checksum.ChecksumFetcher) checksum.SeedSource {
	if cfg.SeedFile != "" {
		return checksum.NewFileSeedSource(cfg.SeedFile)
	}
	return checksum.NewRPCSeedSource(client)
}

func loadFallback(network string) (map[string]string, error) {
	if network == "" {
		return checksum.LoadFallback()
	}
	return checksum.LoadFallback(model.Network(network))
}

func newNodeClient(cfg config.NodeConfig, logger *slog.Logger) *namadarpc.Client {
	client := namadarpc.NewClient(cfg.RPCURL, cfg.Timeout, logger)
	endpoint := maskCredentials(cfg.RPCURL)
	client.SetRateLimiter(ratelimit.NewLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, endpoint))
	client.SetCircuitBreaker(circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.BreakerFailures,
		SuccessThreshold: cfg.BreakerSuccesses,
		OpenTimeout:      cfg.BreakerOpenTimeout,
		IsFailure:        namadarpc.IsNodeFailure,
		OnStateChange: func(from, to circuitbreaker.State) {
			metrics.RPCCircuitState.WithLabelValues(endpoint).Set(float64(to))
			logger.Warn("node circuit breaker state changed", "endpoint", endpoint, "from", from.String(), "to", to.String())
		},
	}))
	return client
}

type pinger interface {
	PingContext(ctx context.Context) error
}

type healthResponse struct {
	Status   string                  `json:"status"`
	Database string                  `json:"database"`
	Crawler  pipeline.HealthSnapshot `json:"crawler"`
}

// newHealthHandler serves /healthz (crawler health plus a DB ping) and
// /metrics.
func newHealthHandler(health *pipeline.PipelineHealth, db pinger, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok", Database: "ok", Crawler: health.Snapshot()}
		code := http.StatusOK

		if db == nil {
			resp.Database = "unconfigured"
			resp.Status = "unavailable"
			code = http.StatusServiceUnavailable
		} else {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			err := db.PingContext(ctx)
			cancel()
			if err != nil {
				resp.Database = err.Error()
				resp.Status = "unavailable"
				code = http.StatusServiceUnavailable
			}
		}
		if !health.Healthy() {
			resp.Status = "unhealthy"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Warn("failed to write health response", "error", err)
		}
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func runHealthServer(ctx context.Context, port int, handler http.Handler, logger *slog.Logger) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("health server shutdown error", "error", err)
		}
	}()

	logger.Info("health server started", "port", port)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("health server: %w", err)
	}
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(cfg.Log.Level)})).
		With("run_id", uuid.NewString())
	slog.SetDefault(logger)

	logger.Info("starting namada-indexer",
		"node_rpc", maskCredentials(cfg.Node.RPCURL),
		"db", maskCredentials(cfg.DB.URL),
		"crawler", cfg.Crawler.Name,
		"from_height", cfg.Crawler.FromHeight,
		"checksum_seed_file", cfg.Checksums.SeedFile,
		"checksum_network", cfg.Checksums.Network,
		"redis_enabled", cfg.Redis.URL != "",
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, serviceName, cfg.Tracing.Endpoint, cfg.Tracing.Insecure, cfg.Tracing.SampleRatio)
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracing shutdown error", "error", err)
		}
	}()
	if cfg.Tracing.Endpoint != "" {
		logger.Info("tracing enabled", "endpoint", cfg.Tracing.Endpoint, "sample_ratio", cfg.Tracing.SampleRatio)
	}

	db, err := postgres.New(postgres.Config{
		URL:                cfg.DB.URL,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetime:    cfg.DB.ConnMaxLifetime,
		StatementTimeoutMS: cfg.DB.StatementTimeoutMS,
	})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	if err := db.RunMigrations(ctx, cfg.DB.MigrationsDir); err != nil {
		logger.Error("failed to run migrations", "dir", cfg.DB.MigrationsDir, "error", err)
		os.Exit(1)
	}

	client := newNodeClient(cfg.Node, logger)

	fallback, err := loadFallback(cfg.Checksums.Network)
	if err != nil {
		logger.Error("failed to load fallback checksums", "network", cfg.Checksums.Network, "error", err)
		os.Exit(1)
	}
	registry := checksum.NewRegistry(fallback)

	var seederOpts []checksum.SeederOption
	if cfg.Redis.URL != "" {
		snapshots, err := redisstore.NewSnapshotStore(cfg.Redis.URL)
		if err != nil {
			logger.Warn("checksum snapshot cache unavailable; continuing without it",
				"redis_url", maskCredentials(cfg.Redis.URL), "error", err)
		} else {
			defer snapshots.Close()
			seederOpts = append(seederOpts, checksum.WithSnapshotStore(snapshots))
		}
	}
	seeder := checksum.NewSeeder(registry, buildSeedSource(cfg.Checksums, client), logger, seederOpts...)
	if err := seeder.Seed(ctx); err != nil {
		logger.Error("failed to seed checksums", "error", err)
		os.Exit(1)
	}

	crawler := model.CrawlerName(cfg.Crawler.Name)
	alerter := buildAlerter(cfg.Alert, logger)

	fetch := fetcher.New(client, logger,
		fetcher.WithBlockCache(postgres.NewBlockCacheRepo(db)),
		fetcher.WithMemoryCacheSize(cfg.Crawler.BlockCacheSize),
		fetcher.WithRetryConfig(cfg.Crawler.FetchRetryMaxAttempts, cfg.Crawler.FetchBackoffInitial, cfg.Crawler.FetchBackoffMax),
	)
	checkpointer := ingester.New(
		db,
		postgres.NewTransactionRepo(db),
		postgres.NewIbcRepo(db),
		postgres.NewGasRepo(db),
		postgres.NewCrawlerStateRepo(db),
		crawler,
		logger,
		ingester.WithRetryConfig(cfg.Crawler.CommitRetryMaxAttempts, cfg.Crawler.CommitRetryDelayInit, cfg.Crawler.CommitRetryDelayMax),
	)
	crawlerPipeline := pipeline.New(
		pipeline.Config{
			Crawler:            crawler,
			FromHeight:         cfg.Crawler.FromHeight,
			PollInterval:       cfg.Crawler.PollInterval,
			UnhealthyThreshold: cfg.Crawler.UnhealthyThreshold,
		},
		fetch,
		classifier.New(registry, cfg.Crawler.ClassifierWorkers, logger),
		ibc.New(logger),
		checkpointer,
		logger,
		pipeline.WithAlerter(alerter),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
			return nil
		case <-gCtx.Done():
			return nil
		}
	})

	g.Go(func() error {
		return runHealthServer(gCtx, cfg.Server.HealthPort, newHealthHandler(crawlerPipeline.Health(), db, logger), logger)
	})

	g.Go(func() error {
		return ignoreCanceled(seeder.Run(gCtx, cfg.Checksums.RefreshInterval))
	})

	g.Go(func() error {
		interval := time.Duration(cfg.DB.PoolStatsIntervalMS) * time.Millisecond
		return runDBPoolStatsPump(gCtx, db.DB, interval, defaultDBPoolGauges(), alerter, crawler.String(), logger)
	})

	g.Go(func() error {
		return ignoreCanceled(crawlerPipeline.Run(gCtx))
	})

	if err := g.Wait(); err != nil {
		logger.Error("indexer exited with error", "error", err)
		os.Exit(1)
	}

	logger.Info("indexer shut down gracefully")
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
