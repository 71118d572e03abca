package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/joel-u410/namada-indexer/internal/alert"
	"github.com/joel-u410/namada-indexer/internal/domain/event"
	"github.com/joel-u410/namada-indexer/internal/domain/model"
	"github.com/joel-u410/namada-indexer/internal/metrics"
	"github.com/joel-u410/namada-indexer/internal/pipeline/fetcher"
	"github.com/joel-u410/namada-indexer/internal/pipeline/gas"
	"github.com/joel-u410/namada-indexer/internal/pipeline/ibc"
	"github.com/joel-u410/namada-indexer/internal/pipeline/retry"
	"github.com/joel-u410/namada-indexer/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	otelTrace "go.opentelemetry.io/otel/trace"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultFromHeight   = 1
	alertSendTimeout    = 10 * time.Second
)

type Config struct {
	Crawler            model.CrawlerName
	FromHeight         int64
	PollInterval       time.Duration
	UnhealthyThreshold int
}

// BlockFetcher returns raw payloads for a height. Heights past the tip fail
// with fetcher.ErrBlockNotAvailable.
type BlockFetcher interface {
	LatestHeight(ctx context.Context) (int64, error)
	Fetch(ctx context.Context, height int64) (*event.RawBlock, error)
	Forget(height int64)
}

type BlockClassifier interface {
	ClassifyBlock(ctx context.Context, block *event.Block) ([]model.WrapperWithInners, error)
}

type Checkpointer interface {
	LastCheckpoint(ctx context.Context) (*model.CrawlerState, error)
	Touch(ctx context.Context) error
	Commit(ctx context.Context, block *event.ProcessedBlock) error
}

// Pipeline is the transactions crawler: it walks heights in order and
// checkpoints each block together with everything derived from it.
type Pipeline struct {
	cfg          Config
	fetcher      BlockFetcher
	classifier   BlockClassifier
	correlator   *ibc.Correlator
	checkpointer Checkpointer
	logger       *slog.Logger
	health       *PipelineHealth
	alerter      alert.Alerter
	sleepFn      func(ctx context.Context, d time.Duration) error
}

type Option func(*Pipeline)

// WithAlerter reports unhealthy, recovered and halted transitions.
func WithAlerter(a alert.Alerter) Option {
	return func(p *Pipeline) {
		if a != nil {
			p.alerter = a
		}
	}
}

func New(
	cfg Config,
	fetch BlockFetcher,
	classifier BlockClassifier,
	correlator *ibc.Correlator,
	checkpointer Checkpointer,
	logger *slog.Logger,
	opts ...Option,
) *Pipeline {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.FromHeight <= 0 {
		cfg.FromHeight = defaultFromHeight
	}
	health := NewPipelineHealth(cfg.Crawler)
	if cfg.UnhealthyThreshold > 0 {
		health.unhealthyThreshold = cfg.UnhealthyThreshold
	}
	p := &Pipeline{
		cfg:          cfg,
		fetcher:      fetch,
		classifier:   classifier,
		correlator:   correlator,
		checkpointer: checkpointer,
		logger:       logger.With("component", "pipeline", "crawler", cfg.Crawler),
		health:       health,
		alerter:      alert.NoopAlerter{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Health returns the crawler's health tracker.
func (p *Pipeline) Health() *PipelineHealth { return p.health }

// Run crawls until ctx is canceled or a block fails terminally.
func (p *Pipeline) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline panic: %v\n%s", r, debug.Stack())
		}
	}()

	next, err := p.startHeight(ctx)
	if err != nil {
		return err
	}
	p.logger.Info("crawler starting", "from_height", next)

	var tip int64
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if next > tip {
			tip, err = p.fetcher.LatestHeight(ctx)
			if err != nil {
				if stop := p.handleFailure(ctx, "latest_height", next, err); stop != nil {
					return stop
				}
				continue
			}
			metrics.PipelineChainTipHeight.WithLabelValues(string(p.cfg.Crawler)).Set(float64(tip))
			if next > tip {
				if err := p.idle(ctx); err != nil {
					return err
				}
				continue
			}
		}

		err := p.processHeight(ctx, next)
		switch {
		case err == nil:
			next++
		case errors.Is(err, fetcher.ErrBlockNotAvailable):
			// The node reported a tip it cannot serve yet.
			tip = next - 1
			if err := p.idle(ctx); err != nil {
				return err
			}
		default:
			if stop := p.handleFailure(ctx, "process_block", next, err); stop != nil {
				return stop
			}
		}
	}
}

func (p *Pipeline) startHeight(ctx context.Context) (int64, error) {
	state, err := p.checkpointer.LastCheckpoint(ctx)
	if err != nil {
		return 0, fmt.Errorf("load checkpoint: %w", err)
	}
	if state == nil {
		return p.cfg.FromHeight, nil
	}
	metrics.PipelineLastProcessedHeight.WithLabelValues(string(p.cfg.Crawler)).Set(float64(state.LastProcessedBlock))
	return state.LastProcessedBlock + 1, nil
}

// handleFailure returns a non-nil error when the crawler must stop. Transient
// failures that outlived their stage retries are retried after a poll
// interval, on the same height.
func (p *Pipeline) handleFailure(ctx context.Context, stage string, height int64, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	metrics.PipelineErrors.WithLabelValues(string(p.cfg.Crawler), stage).Inc()
	if p.health.RecordFailure() {
		p.logger.Error("crawler became unhealthy", "height", height, "error", err)
		p.sendAlert(ctx, alert.AlertTypeUnhealthy, "Crawler unhealthy", height, err)
	}

	decision := retry.Classify(err)
	if !decision.IsTransient() {
		p.logger.Error("crawler halted",
			"stage", stage,
			"height", height,
			"classification_reason", decision.Reason,
			"error", err,
		)
		p.sendAlert(ctx, alert.AlertTypeHalted, "Crawler halted", height, err)
		return err
	}

	p.logger.Warn("block attempt failed; retrying after poll interval",
		"stage", stage,
		"height", height,
		"classification_reason", decision.Reason,
		"error", err,
	)
	return p.sleep(ctx, p.cfg.PollInterval)
}

func (p *Pipeline) idle(ctx context.Context) error {
	p.health.RecordIdle()
	if err := p.checkpointer.Touch(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.logger.Warn("crawler timestamp touch failed", "error", err)
	}
	return p.sleep(ctx, p.cfg.PollInterval)
}

func (p *Pipeline) processHeight(ctx context.Context, height int64) (err error) {
	start := time.Now()
	ctx, span := tracing.Tracer("pipeline").Start(ctx, "pipeline.processBlock",
		otelTrace.WithAttributes(
			attribute.String("crawler", string(p.cfg.Crawler)),
			attribute.Int64("height", height),
		),
	)
	defer func() { tracing.EndSpan(span, err) }()

	raw, err := p.fetcher.Fetch(ctx, height)
	if err != nil {
		return err
	}

	processed, err := p.process(ctx, *raw)
	if err != nil {
		return err
	}

	if err := p.checkpointer.Commit(ctx, processed); err != nil {
		return err
	}
	p.fetcher.Forget(height)

	latency := time.Since(start)
	crawler := string(p.cfg.Crawler)
	metrics.PipelineBlocksProcessed.WithLabelValues(crawler).Inc()
	metrics.PipelineBlockLatency.WithLabelValues(crawler).Observe(latency.Seconds())
	metrics.PipelineLastProcessedHeight.WithLabelValues(crawler).Set(float64(height))
	if p.health.RecordSuccess(height, latency) {
		p.logger.Info("crawler recovered", "height", height)
		p.sendAlert(ctx, alert.AlertTypeRecovery, "Crawler recovered", height, nil)
	}

	p.logger.Debug("block committed",
		"height", height,
		"wrappers", len(processed.Transactions),
		"ibc_sequences", len(processed.Sequences),
		"ibc_acks", len(processed.Acks),
		"duration_ms", latency.Milliseconds(),
	)
	return nil
}

// process derives everything persisted for one block. It does no I/O.
func (p *Pipeline) process(ctx context.Context, raw event.RawBlock) (*event.ProcessedBlock, error) {
	block, result, err := event.Decode(raw)
	if err != nil {
		return nil, retry.Terminal(err)
	}

	txs, err := p.classifier.ClassifyBlock(ctx, block)
	if err != nil {
		return nil, fmt.Errorf("classify block %d: %w", block.Height, err)
	}

	sequences, err := p.correlator.Packets(result, txs)
	if err != nil {
		return nil, retry.Terminal(err)
	}

	var inners []model.InnerTransaction
	for _, tx := range txs {
		inners = append(inners, tx.Inners...)
	}

	return &event.ProcessedBlock{
		Height:       block.Height,
		Time:         block.Time,
		Transactions: txs,
		Sequences:    sequences,
		Acks:         p.correlator.Acks(inners),
		TokenFlows:   p.correlator.TokenFlows(result),
		GasEstimates: gas.Estimate(txs),
	}, nil
}

func (p *Pipeline) sendAlert(ctx context.Context, typ alert.AlertType, title string, height int64, cause error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), alertSendTimeout)
	defer cancel()

	a := alert.Alert{
		Type:    typ,
		Crawler: string(p.cfg.Crawler),
		Title:   title,
		Message: fmt.Sprintf("height %d", height),
		Fields:  map[string]string{"height": fmt.Sprint(height)},
	}
	if cause != nil {
		a.Message = fmt.Sprintf("height %d: %v", height, cause)
		a.Fields["error"] = cause.Error()
	}
	if err := p.alerter.Send(ctx, a); err != nil {
		p.logger.Warn("alert delivery failed", "type", typ, "error", err)
	}
}

func (p *Pipeline) sleep(ctx context.Context, d time.Duration) error {
	if p.sleepFn != nil {
		return p.sleepFn(ctx, d)
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
