package pipeline

import (
	"slices"
	"sync"
	"time"

	"github.com/joel-u410/namada-indexer/internal/domain/model"
	"github.com/joel-u410/namada-indexer/internal/metrics"
)

// HealthStatus represents the health state of a crawler.
type HealthStatus string

const (
	HealthStatusUnknown   HealthStatus = "UNKNOWN"
	HealthStatusHealthy   HealthStatus = "HEALTHY"
	HealthStatusDegraded  HealthStatus = "DEGRADED"
	HealthStatusUnhealthy HealthStatus = "UNHEALTHY"

	// DefaultUnhealthyThreshold is the number of consecutive failed block
	// attempts before a crawler is considered unhealthy.
	DefaultUnhealthyThreshold = 5

	// DefaultDegradedLatencyThreshold is the P95 block latency above which a
	// crawler is considered degraded.
	DefaultDegradedLatencyThreshold = 5 * time.Second

	latencyWindowSize = 10
)

func (s HealthStatus) gaugeValue() float64 {
	switch s {
	case HealthStatusHealthy:
		return 1
	case HealthStatusDegraded:
		return 2
	case HealthStatusUnhealthy:
		return 3
	default:
		return 0
	}
}

// PipelineHealth tracks the health state of a single crawler.
type PipelineHealth struct {
	mu                       sync.RWMutex
	crawler                  model.CrawlerName
	status                   HealthStatus
	consecutiveFailures      int
	lastSuccessAt            *time.Time
	lastFailureAt            *time.Time
	lastHeight               int64
	unhealthyThreshold       int
	recentLatencies          []time.Duration
	degradedLatencyThreshold time.Duration
	now                      func() time.Time
}

func NewPipelineHealth(crawler model.CrawlerName) *PipelineHealth {
	return &PipelineHealth{
		crawler:                  crawler,
		status:                   HealthStatusUnknown,
		unhealthyThreshold:       DefaultUnhealthyThreshold,
		recentLatencies:          make([]time.Duration, 0, latencyWindowSize),
		degradedLatencyThreshold: DefaultDegradedLatencyThreshold,
		now:                      time.Now,
	}
}

// RecordSuccess records a committed block. It returns true if the crawler
// recovered from an unhealthy state.
func (h *PipelineHealth) RecordSuccess(height int64, latency time.Duration) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := h.now()
	wasUnhealthy := h.status == HealthStatusUnhealthy
	h.consecutiveFailures = 0
	h.lastSuccessAt = &now
	h.lastHeight = height

	if len(h.recentLatencies) >= latencyWindowSize {
		h.recentLatencies = h.recentLatencies[1:]
	}
	h.recentLatencies = append(h.recentLatencies, latency)

	if h.isLatencyDegraded() {
		h.setStatus(HealthStatusDegraded)
	} else {
		h.setStatus(HealthStatusHealthy)
	}
	return wasUnhealthy
}

// RecordIdle marks the crawler healthy while it waits at the chain tip.
func (h *PipelineHealth) RecordIdle() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.status == HealthStatusUnknown {
		h.setStatus(HealthStatusHealthy)
	}
}

// RecordFailure records a failed block attempt. Returns true if the crawler
// transitioned to unhealthy on this call.
func (h *PipelineHealth) RecordFailure() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := h.now()
	h.consecutiveFailures++
	h.lastFailureAt = &now
	metrics.PipelineConsecutiveFailures.WithLabelValues(string(h.crawler)).Set(float64(h.consecutiveFailures))
	if h.consecutiveFailures >= h.unhealthyThreshold && h.status != HealthStatusUnhealthy {
		h.setStatus(HealthStatusUnhealthy)
		return true
	}
	return false
}

// Healthy reports whether the crawler is serving; degraded still counts.
func (h *PipelineHealth) Healthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status != HealthStatusUnhealthy
}

// Must be called with mu held.
func (h *PipelineHealth) setStatus(status HealthStatus) {
	h.status = status
	metrics.PipelineHealthStatus.WithLabelValues(string(h.crawler)).Set(status.gaugeValue())
	if status != HealthStatusUnhealthy {
		metrics.PipelineConsecutiveFailures.WithLabelValues(string(h.crawler)).Set(float64(h.consecutiveFailures))
	}
}

// Must be called with mu held.
func (h *PipelineHealth) isLatencyDegraded() bool {
	if len(h.recentLatencies) < 2 {
		return false
	}
	return h.percentileLatency(95) > h.degradedLatencyThreshold
}

// Must be called with mu held.
func (h *PipelineHealth) percentileLatency(pct int) time.Duration {
	n := len(h.recentLatencies)
	if n == 0 {
		return 0
	}
	sorted := slices.Clone(h.recentLatencies)
	slices.Sort(sorted)
	idx := (pct*n - 1) / 100
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx]
}

// Snapshot returns the current health state.
func (h *PipelineHealth) Snapshot() HealthSnapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return HealthSnapshot{
		Crawler:             string(h.crawler),
		Status:              string(h.status),
		LastProcessedHeight: h.lastHeight,
		ConsecutiveFailures: h.consecutiveFailures,
		LastSuccessAt:       h.lastSuccessAt,
		LastFailureAt:       h.lastFailureAt,
	}
}

// HealthSnapshot is a point-in-time view of crawler health (JSON-safe).
type HealthSnapshot struct {
	Crawler             string     `json:"crawler"`
	Status              string     `json:"status"`
	LastProcessedHeight int64      `json:"last_processed_height"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	LastSuccessAt       *time.Time `json:"last_success_at,omitempty"`
	LastFailureAt       *time.Time `json:"last_failure_at,omitempty"`
}
