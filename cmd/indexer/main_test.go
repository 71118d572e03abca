package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/joel-u410/namada-indexer/internal/alert"
	"github.com/joel-u410/namada-indexer/internal/checksum"
	"github.com/joel-u410/namada-indexer/internal/config"
	"github.com/joel-u410/namada-indexer/internal/domain/model"
	"github.com/joel-u410/namada-indexer/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type fakeChecksumFetcher struct{}

func (fakeChecksumFetcher) Checksums(context.Context, []string) (map[string]string, error) {
	return map[string]string{"tx_bond.wasm": "abc"}, nil
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel("info"))
	assert.Equal(t, slog.LevelInfo, parseLogLevel(""))
}

func TestMaskCredentials(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "postgres://indexer:secret@db:5432/namada?sslmode=disable", want: "postgres://indexer:xxxxx@db:5432/namada?sslmode=disable"},
		{in: "redis://:hunter2@redis:6379/0", want: "redis://:xxxxx@redis:6379/0"},
		{in: "http://localhost:26657", want: "http://localhost:26657"},
		{in: "postgres://indexer@db/namada", want: "postgres://indexer@db/namada"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, maskCredentials(tt.in))
		})
	}
}

func TestBuildAlerter(t *testing.T) {
	assert.IsType(t, alert.NoopAlerter{}, buildAlerter(config.AlertConfig{}, slog.Default()))
	assert.IsType(t, &alert.MultiAlerter{}, buildAlerter(config.AlertConfig{WebhookURL: "http://hooks.example"}, slog.Default()))
}

func TestBuildSeedSource(t *testing.T) {
	assert.IsType(t, &checksum.FileSeedSource{}, buildSeedSource(config.ChecksumsConfig{SeedFile: "checksums.yaml"}, fakeChecksumFetcher{}))

	src := buildSeedSource(config.ChecksumsConfig{}, fakeChecksumFetcher{})
	require.IsType(t, &checksum.RPCSeedSource{}, src)
	seed, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", seed["tx_bond.wasm"])
}

func TestLoadFallback(t *testing.T) {
	all, err := loadFallback("")
	require.NoError(t, err)
	assert.NotEmpty(t, all)

	_, err = loadFallback("no-such-network")
	assert.Error(t, err)
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		db         pinger
		failures   int
		wantCode   int
		wantStatus string
	}{
		{name: "healthy", db: fakePinger{}, wantCode: http.StatusOK, wantStatus: "ok"},
		{name: "database down", db: fakePinger{err: errors.New("connection refused")}, wantCode: http.StatusServiceUnavailable, wantStatus: "unavailable"},
		{name: "database unconfigured", db: nil, wantCode: http.StatusServiceUnavailable, wantStatus: "unavailable"},
		{name: "crawler unhealthy", db: fakePinger{}, failures: pipeline.DefaultUnhealthyThreshold, wantCode: http.StatusServiceUnavailable, wantStatus: "unhealthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			health := pipeline.NewPipelineHealth(model.CrawlerNameTransactions)
			for i := 0; i < tt.failures; i++ {
				health.RecordFailure()
			}
			handler := newHealthHandler(health, tt.db, slog.Default())

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			var body healthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, "transactions", body.Crawler.Crawler)
		})
	}
}

func TestHealthHandler_ServesMetrics(t *testing.T) {
	handler := newHealthHandler(pipeline.NewPipelineHealth(model.CrawlerNameTransactions), fakePinger{}, slog.Default())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "indexer_")
}

func TestRunHealthServer_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runHealthServer(ctx, 0, http.NotFoundHandler(), slog.Default())
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("health server did not stop")
	}
}

func TestIgnoreCanceled(t *testing.T) {
	assert.NoError(t, ignoreCanceled(context.Canceled))
	assert.NoError(t, ignoreCanceled(nil))
	boom := errors.New("boom")
	assert.Equal(t, boom, ignoreCanceled(boom))
}

func TestNewNodeClient(t *testing.T) {
	client := newNodeClient(config.NodeConfig{
		RPCURL:          "http://user:pw@localhost:26657",
		Timeout:         time.Second,
		RateLimitRPS:    10,
		RateLimitBurst:  1,
		BreakerFailures: 3,
	}, slog.Default())
	assert.NotNil(t, client)
}
