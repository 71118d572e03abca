package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	namadarpc "github.com/joel-u410/namada-indexer/internal/chain/namada/rpc"
	"github.com/joel-u410/namada-indexer/internal/cache"
	"github.com/joel-u410/namada-indexer/internal/domain/event"
	"github.com/joel-u410/namada-indexer/internal/metrics"
	"github.com/joel-u410/namada-indexer/internal/pipeline/retry"
	"github.com/joel-u410/namada-indexer/internal/store"
	"github.com/joel-u410/namada-indexer/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	otelTrace "go.opentelemetry.io/otel/trace"
)

const (
	defaultRetryMaxAttempts = 4
	defaultBackoffInitial   = 200 * time.Millisecond
	defaultBackoffMax       = 3 * time.Second
	defaultMemoryCacheSize  = 64
)

// ErrBlockNotAvailable is returned for heights beyond the node tip.
var ErrBlockNotAvailable = namadarpc.ErrBlockNotAvailable

// BlockSource is the node side of the fetcher.
type BlockSource interface {
	LatestHeight(ctx context.Context) (int64, error)
	FetchBlock(ctx context.Context, height int64) (*event.RawBlock, error)
}

// Fetcher returns raw block payloads, preferring the in-process cache, then
// the persisted block cache, then the node.
type Fetcher struct {
	source    BlockSource
	blockRepo store.BlockCacheRepository
	memory    *cache.LRU[int64, event.RawBlock]
	logger    *slog.Logger

	retryMaxAttempts int
	backoffInitial   time.Duration
	backoffMax       time.Duration
	sleepFn          func(ctx context.Context, d time.Duration) error
}

type Option func(*Fetcher)

// WithBlockCache persists fetched payloads and reads them back before
// calling the node.
func WithBlockCache(repo store.BlockCacheRepository) Option {
	return func(f *Fetcher) {
		f.blockRepo = repo
	}
}

func WithMemoryCacheSize(size int) Option {
	return func(f *Fetcher) {
		if size > 0 {
			f.memory = cache.NewLRU[int64, event.RawBlock](size, 0)
		}
	}
}

func WithRetryConfig(maxAttempts int, backoffInitial, backoffMax time.Duration) Option {
	return func(f *Fetcher) {
		f.retryMaxAttempts = maxAttempts
		f.backoffInitial = backoffInitial
		f.backoffMax = backoffMax
	}
}

func New(source BlockSource, logger *slog.Logger, opts ...Option) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Fetcher{
		source: source,
		memory: cache.NewLRU[int64, event.RawBlock](defaultMemoryCacheSize, 0),
		logger: logger.With("component", "fetcher"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// LatestHeight returns the node tip, retrying transient failures.
func (f *Fetcher) LatestHeight(ctx context.Context) (int64, error) {
	var height int64
	err := f.withRetry(ctx, "fetcher.latest_height", func() error {
		var err error
		height, err = f.source.LatestHeight(ctx)
		return err
	})
	return height, err
}

// Fetch returns the payloads of height. ErrBlockNotAvailable is returned
// unretried so the caller can wait at the tip.
func (f *Fetcher) Fetch(ctx context.Context, height int64) (*event.RawBlock, error) {
	if raw, ok := f.memory.Get(height); ok {
		metrics.FetcherBlocksFetched.WithLabelValues("memory").Inc()
		return &raw, nil
	}

	if f.blockRepo != nil {
		raw, err := f.blockRepo.Get(ctx, height)
		switch {
		case err != nil:
			f.logger.Warn("block cache read failed; fetching from node", "height", height, "error", err)
		case raw != nil:
			metrics.FetcherBlocksFetched.WithLabelValues("store").Inc()
			f.memory.Put(height, *raw)
			return raw, nil
		}
	}

	spanCtx, span := tracing.Tracer("fetcher").Start(ctx, "fetcher.fetchBlock",
		otelTrace.WithAttributes(attribute.Int64("height", height)),
	)
	start := time.Now()
	var raw *event.RawBlock
	err := f.withRetry(spanCtx, "fetcher.fetch_block", func() error {
		var err error
		raw, err = f.source.FetchBlock(spanCtx, height)
		return err
	})
	tracing.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	metrics.FetcherLatency.Observe(time.Since(start).Seconds())
	metrics.FetcherBlocksFetched.WithLabelValues("node").Inc()

	if f.blockRepo != nil {
		if err := f.blockRepo.Put(ctx, *raw); err != nil {
			metrics.FetcherCacheWriteErrors.Inc()
			f.logger.Warn("block cache write failed", "height", height, "error", err)
		}
	}
	f.memory.Put(height, *raw)
	return raw, nil
}

// Forget drops height from the in-process cache once it is committed.
func (f *Fetcher) Forget(height int64) {
	f.memory.Remove(height)
}

func (f *Fetcher) withRetry(ctx context.Context, stage string, fn func() error) error {
	attempts := f.effectiveRetryMaxAttempts()

	var lastErr error
	lastDecision := retry.Decision{
		Class:  retry.ClassTerminal,
		Reason: "unset",
	}
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrBlockNotAvailable) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		lastErr = err
		lastDecision = retry.Classify(err)
		if !lastDecision.IsTransient() {
			return fmt.Errorf("terminal_failure stage=%s attempt=%d reason=%s: %w", stage, attempt, lastDecision.Reason, err)
		}
		if attempt == attempts {
			break
		}

		f.logger.Warn("node call failed; retrying",
			"stage", stage,
			"classification", lastDecision.Class,
			"classification_reason", lastDecision.Reason,
			"attempt", attempt,
			"max_attempts", attempts,
			"error", err,
		)
		if sleepErr := f.sleep(ctx, f.retryDelay(attempt)); sleepErr != nil {
			return sleepErr
		}
	}

	return fmt.Errorf("transient_recovery_exhausted stage=%s attempts=%d reason=%s: %w", stage, attempts, lastDecision.Reason, lastErr)
}

func (f *Fetcher) retryDelay(attempt int) time.Duration {
	base := f.effectiveBackoffInitial()
	max := f.effectiveBackoffMax()
	if max < base {
		max = base
	}

	delay := base
	for i := 1; i < attempt; i++ {
		if delay >= max/2 {
			return max
		}
		delay *= 2
	}
	if delay > max {
		return max
	}
	return delay
}

func (f *Fetcher) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	if f.sleepFn != nil {
		return f.sleepFn(ctx, d)
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Fetcher) effectiveRetryMaxAttempts() int {
	if f.retryMaxAttempts <= 0 {
		return defaultRetryMaxAttempts
	}
	return f.retryMaxAttempts
}

func (f *Fetcher) effectiveBackoffInitial() time.Duration {
	if f.backoffInitial <= 0 {
		return defaultBackoffInitial
	}
	return f.backoffInitial
}

func (f *Fetcher) effectiveBackoffMax() time.Duration {
	if f.backoffMax <= 0 {
		return defaultBackoffMax
	}
	return f.backoffMax
}
