package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Crawler stage counters and histograms, partitioned by crawler name.

var (
	// Pipeline
	PipelineBlocksProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "pipeline",
		Name:      "blocks_processed_total",
		Help:      "Total blocks committed by the crawler",
	}, []string{"crawler"})

	PipelineErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "pipeline",
		Name:      "errors_total",
		Help:      "Total pipeline errors by stage",
	}, []string{"crawler", "stage"})

	PipelineBlockLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "indexer",
		Subsystem: "pipeline",
		Name:      "block_duration_seconds",
		Help:      "Wall time from fetch to checkpoint for one block",
		Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"crawler"})

	PipelineLastProcessedHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "pipeline",
		Name:      "last_processed_height",
		Help:      "Height of the last checkpointed block",
	}, []string{"crawler"})

	PipelineChainTipHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "pipeline",
		Name:      "chain_tip_height",
		Help:      "Latest block height reported by the node",
	}, []string{"crawler"})

	PipelineHealthStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "pipeline",
		Name:      "health_status",
		Help:      "Pipeline health: 0=unknown 1=healthy 2=degraded 3=unhealthy",
	}, []string{"crawler"})

	PipelineConsecutiveFailures = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "pipeline",
		Name:      "consecutive_failures",
		Help:      "Consecutive failed block attempts",
	}, []string{"crawler"})

	// Fetcher
	FetcherBlocksFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "fetcher",
		Name:      "blocks_fetched_total",
		Help:      "Blocks obtained, by source (memory, store, node)",
	}, []string{"source"})

	FetcherLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "indexer",
		Subsystem: "fetcher",
		Name:      "fetch_duration_seconds",
		Help:      "Node fetch duration for one block",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	FetcherCacheWriteErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "fetcher",
		Name:      "cache_write_errors_total",
		Help:      "Failed writes to the block payload cache",
	})

	// Classifier
	InnerTxClassifiedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "classifier",
		Name:      "inner_transactions_total",
		Help:      "Inner transactions classified, by kind",
	}, []string{"kind"})

	UndecodablePayloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "classifier",
		Name:      "undecodable_payloads_total",
		Help:      "Resolved inner transactions whose payload could not be decoded",
	}, []string{"code_name"})

	// IBC
	IbcPacketsCorrelated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "ibc",
		Name:      "packets_correlated_total",
		Help:      "Sent packets attributed to a transaction, by attribution source",
	}, []string{"source"})

	IbcAcksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "ibc",
		Name:      "acks_total",
		Help:      "Packet resolutions observed, by status",
	}, []string{"status"})

	IbcTokenFlowsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "ibc",
		Name:      "token_flows_dropped_total",
		Help:      "Token flows skipped because the denom could not be rewritten",
	})

	// Ingester
	IngesterBlocksCommitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "ingester",
		Name:      "blocks_committed_total",
		Help:      "Blocks persisted together with their checkpoint",
	}, []string{"crawler"})

	IngesterRowsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "ingester",
		Name:      "rows_written_total",
		Help:      "Rows submitted to the store, by table",
	}, []string{"table"})

	IngesterErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "ingester",
		Name:      "errors_total",
		Help:      "Total ingester errors (after retry exhaustion)",
	}, []string{"crawler"})

	IngesterRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "ingester",
		Name:      "retries_total",
		Help:      "Transient commit failures that were retried",
	}, []string{"crawler", "reason"})

	IngesterLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "indexer",
		Subsystem: "ingester",
		Name:      "commit_duration_seconds",
		Help:      "Checkpoint transaction duration",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"crawler"})

	// Checksums
	ChecksumsRegistered = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "checksum",
		Name:      "registered",
		Help:      "Code hashes in the current checksum table",
	})

	ChecksumRefreshErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "checksum",
		Name:      "refresh_errors_total",
		Help:      "Failed checksum table refreshes",
	})

	// RPC
	RPCCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "rpc",
		Name:      "calls_total",
		Help:      "Node gateway calls by method and outcome",
	}, []string{"method", "status"})

	RPCRateLimitWaits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "rpc",
		Name:      "rate_limit_waits_total",
		Help:      "Calls delayed by the client-side rate limiter",
	}, []string{"endpoint"})

	RPCCircuitState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "rpc",
		Name:      "circuit_state",
		Help:      "Circuit breaker state: 0=closed 1=open 2=half-open",
	}, []string{"endpoint"})

	// Database pool
	DBPoolOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "postgres",
		Name:      "db_pool_open",
		Help:      "Open connections in the pool",
	})

	DBPoolInUse = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "postgres",
		Name:      "db_pool_in_use",
		Help:      "Connections currently in use",
	})

	DBPoolIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "postgres",
		Name:      "db_pool_idle",
		Help:      "Idle connections in the pool",
	})

	DBPoolWaitCount = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "postgres",
		Name:      "db_pool_wait_count",
		Help:      "Total connections waited for",
	})

	DBPoolWaitDurationSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "indexer",
		Subsystem: "postgres",
		Name:      "db_pool_wait_duration_seconds",
		Help:      "Total time blocked waiting for a connection",
	})

	// Alerts
	AlertsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "alert",
		Name:      "sent_total",
		Help:      "Alerts delivered, by channel and type",
	}, []string{"channel", "type"})

	AlertsCooldownSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indexer",
		Subsystem: "alert",
		Name:      "cooldown_skipped_total",
		Help:      "Alerts suppressed by the per-type cooldown",
	}, []string{"channel", "type"})
)
