package ingester

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/joel-u410/namada-indexer/internal/domain/event"
	"github.com/joel-u410/namada-indexer/internal/domain/model"
	"github.com/joel-u410/namada-indexer/internal/metrics"
	"github.com/joel-u410/namada-indexer/internal/pipeline/retry"
	"github.com/joel-u410/namada-indexer/internal/store"
	"github.com/joel-u410/namada-indexer/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	otelTrace "go.opentelemetry.io/otel/trace"
)

const (
	defaultRetryMaxAttempts  = 5
	defaultRetryDelayInitial = 200 * time.Millisecond
	defaultRetryDelayMax     = 5 * time.Second
)

// Checkpointer persists one processed block and advances the crawler
// checkpoint in the same database transaction.
type Checkpointer struct {
	db               store.TxBeginner
	txRepo           store.TransactionRepository
	ibcRepo          store.IbcRepository
	gasRepo          store.GasRepository
	stateRepo        store.CrawlerStateRepository
	crawler          model.CrawlerName
	logger           *slog.Logger
	retryMaxAttempts int
	retryDelayStart  time.Duration
	retryDelayMax    time.Duration
	sleepFn          func(context.Context, time.Duration) error
	nowFn            func() time.Time
}

type Option func(*Checkpointer)

func WithRetryConfig(maxAttempts int, delayInitial, delayMax time.Duration) Option {
	return func(c *Checkpointer) {
		c.retryMaxAttempts = maxAttempts
		c.retryDelayStart = delayInitial
		c.retryDelayMax = delayMax
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Checkpointer) {
		c.nowFn = now
	}
}

func New(
	db store.TxBeginner,
	txRepo store.TransactionRepository,
	ibcRepo store.IbcRepository,
	gasRepo store.GasRepository,
	stateRepo store.CrawlerStateRepository,
	crawler model.CrawlerName,
	logger *slog.Logger,
	opts ...Option,
) *Checkpointer {
	c := &Checkpointer{
		db:               db,
		txRepo:           txRepo,
		ibcRepo:          ibcRepo,
		gasRepo:          gasRepo,
		stateRepo:        stateRepo,
		crawler:          crawler,
		logger:           logger.With("component", "checkpointer", "crawler", crawler.String()),
		retryMaxAttempts: defaultRetryMaxAttempts,
		retryDelayStart:  defaultRetryDelayInitial,
		retryDelayMax:    defaultRetryDelayMax,
		sleepFn:          sleepContext,
		nowFn:            time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// LastCheckpoint returns the stored crawler state, or nil before the first
// commit.
func (c *Checkpointer) LastCheckpoint(ctx context.Context) (*model.CrawlerState, error) {
	state, err := c.stateRepo.Get(ctx, c.crawler)
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}
	return state, nil
}

// Touch refreshes the checkpoint timestamp without moving the height.
func (c *Checkpointer) Touch(ctx context.Context) error {
	return c.stateRepo.Touch(ctx, c.crawler, c.nowFn().UTC())
}

// Commit writes block and its checkpoint atomically. Transient failures
// retry the whole transaction; anything else is returned as terminal.
func (c *Checkpointer) Commit(ctx context.Context, block *event.ProcessedBlock) error {
	crawler := c.crawler.String()
	spanCtx, span := tracing.Tracer("ingester").Start(ctx, "ingester.commitBlock",
		otelTrace.WithAttributes(
			attribute.Int64("height", block.Height),
			attribute.Int("wrapper_count", len(block.Transactions)),
		),
	)

	start := time.Now()
	err := c.commitWithRetry(spanCtx, block)
	tracing.EndSpan(span, err)
	metrics.IngesterLatency.WithLabelValues(crawler).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.IngesterErrors.WithLabelValues(crawler).Inc()
		return err
	}
	metrics.IngesterBlocksCommitted.WithLabelValues(crawler).Inc()
	return nil
}

func (c *Checkpointer) commitWithRetry(ctx context.Context, block *event.ProcessedBlock) error {
	const stage = "ingester.commit_block"

	maxAttempts := c.effectiveRetryMaxAttempts()
	var lastErr error
	lastDecision := retry.Decision{
		Class:  retry.ClassTerminal,
		Reason: "unset",
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := c.commitOnce(ctx, block)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		lastErr = err
		lastDecision = retry.Classify(err)
		if !lastDecision.IsTransient() {
			return fmt.Errorf("terminal_failure stage=%s attempt=%d reason=%s: %w", stage, attempt, lastDecision.Reason, err)
		}
		if attempt == maxAttempts {
			break
		}

		metrics.IngesterRetries.WithLabelValues(c.crawler.String(), lastDecision.Reason).Inc()
		c.logger.Warn("commit attempt failed; retrying",
			"stage", stage,
			"classification", lastDecision.Class,
			"classification_reason", lastDecision.Reason,
			"height", block.Height,
			"attempt", attempt,
			"max_attempts", maxAttempts,
			"error", err,
		)
		if err := c.sleep(ctx, c.retryDelay(attempt)); err != nil {
			return err
		}
	}

	return fmt.Errorf("transient_recovery_exhausted stage=%s attempts=%d reason=%s: %w", stage, maxAttempts, lastDecision.Reason, lastErr)
}

func (c *Checkpointer) commitOnce(ctx context.Context, block *event.ProcessedBlock) error {
	committed := false

	dbTx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if committed {
			return
		}
		if rbErr := dbTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			c.logger.Warn("rollback failed", "height", block.Height, "error", rbErr)
		}
	}()

	if err := c.writeTx(ctx, dbTx, block); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		if c.reconcileAmbiguousCommit(ctx, block.Height, err) {
			committed = true
			return nil
		}
		return fmt.Errorf("commit height %d: %w", block.Height, err)
	}
	committed = true
	return nil
}

func (c *Checkpointer) writeTx(ctx context.Context, dbTx *sql.Tx, block *event.ProcessedBlock) error {
	if wrappers := block.Wrappers(); len(wrappers) > 0 {
		if err := c.txRepo.InsertWrappersTx(ctx, dbTx, wrappers); err != nil {
			return fmt.Errorf("insert wrappers: %w", err)
		}
		metrics.IngesterRowsWritten.WithLabelValues("wrapper_transactions").Add(float64(len(wrappers)))
	}
	if inners := block.Inners(); len(inners) > 0 {
		if err := c.txRepo.UpsertInnersTx(ctx, dbTx, inners); err != nil {
			return fmt.Errorf("upsert inners: %w", err)
		}
		metrics.IngesterRowsWritten.WithLabelValues("inner_transactions").Add(float64(len(inners)))
	}
	if len(block.Sequences) > 0 {
		if err := c.ibcRepo.InsertSequencesTx(ctx, dbTx, block.Sequences); err != nil {
			return fmt.Errorf("insert ibc sequences: %w", err)
		}
		metrics.IngesterRowsWritten.WithLabelValues("ibc_ack").Add(float64(len(block.Sequences)))
	}
	if len(block.Acks) > 0 {
		if err := c.ibcRepo.UpdateAcksTx(ctx, dbTx, block.Acks); err != nil {
			return fmt.Errorf("update ibc acks: %w", err)
		}
	}
	if len(block.TokenFlows) > 0 {
		if err := c.ibcRepo.InsertTokenFlowsTx(ctx, dbTx, block.TokenFlows); err != nil {
			return fmt.Errorf("insert ibc token flows: %w", err)
		}
		metrics.IngesterRowsWritten.WithLabelValues("ibc_token_flows").Add(float64(len(block.TokenFlows)))
	}
	if len(block.GasEstimates) > 0 {
		if err := c.gasRepo.InsertEstimationsTx(ctx, dbTx, block.GasEstimates); err != nil {
			return fmt.Errorf("insert gas estimations: %w", err)
		}
		metrics.IngesterRowsWritten.WithLabelValues("gas_estimations").Add(float64(len(block.GasEstimates)))
	}

	state := model.CrawlerState{
		Name:               c.crawler,
		LastProcessedBlock: block.Height,
		Timestamp:          c.nowFn().UTC(),
	}
	if err := c.stateRepo.UpsertTx(ctx, dbTx, state); err != nil {
		return fmt.Errorf("upsert crawler state: %w", err)
	}
	return nil
}

// reconcileAmbiguousCommit handles a commit whose acknowledgement was lost:
// if the checkpoint already reached height, the transaction did commit.
func (c *Checkpointer) reconcileAmbiguousCommit(ctx context.Context, height int64, commitErr error) bool {
	if !retry.Classify(commitErr).IsTransient() {
		return false
	}
	state, err := c.stateRepo.Get(ctx, c.crawler)
	if err != nil || state == nil || state.LastProcessedBlock < height {
		return false
	}
	c.logger.Warn("commit outcome reconciled as committed",
		"height", height,
		"commit_error", commitErr,
	)
	return true
}

func (c *Checkpointer) effectiveRetryMaxAttempts() int {
	if c.retryMaxAttempts <= 0 {
		return 1
	}
	return c.retryMaxAttempts
}

func (c *Checkpointer) retryDelay(attempt int) time.Duration {
	delay := c.retryDelayStart
	if delay <= 0 {
		return 0
	}
	for i := 1; i < attempt; i++ {
		delay *= 2
		if c.retryDelayMax > 0 && delay >= c.retryDelayMax {
			break
		}
	}
	if c.retryDelayMax > 0 && delay > c.retryDelayMax {
		delay = c.retryDelayMax
	}

	// 0-25% jitter.
	if quarter := int64(delay) / 4; quarter > 0 {
		delay += time.Duration(rand.Int64N(quarter))
	}
	return delay
}

func (c *Checkpointer) sleep(ctx context.Context, delay time.Duration) error {
	if c.sleepFn == nil {
		c.sleepFn = sleepContext
	}
	return c.sleepFn(ctx, delay)
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
