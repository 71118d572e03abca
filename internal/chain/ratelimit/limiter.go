package ratelimit

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/joel-u410/namada-indexer/internal/circuitbreaker"
	"github.com/joel-u410/namada-indexer/internal/metrics"
	"golang.org/x/time/rate"
)

// Limiter is a token bucket shared by every call to one node endpoint.
type Limiter struct {
	limiter  *rate.Limiter
	endpoint string
}

// NewLimiter allows rps calls per second with a burst of burst. A
// non-positive rps disables limiting.
func NewLimiter(rps float64, burst int, endpoint string) *Limiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		limiter:  rate.NewLimiter(limit, burst),
		endpoint: endpoint,
	}
}

// Wait blocks until one token is available or ctx is done. Exactly one token
// is consumed per successful call.
func (l *Limiter) Wait(ctx context.Context) error {
	r := l.limiter.Reserve()
	if !r.OK() {
		return errors.New("rate: cannot reserve token")
	}
	delay := r.Delay()
	if delay <= 0 {
		return nil
	}

	metrics.RPCRateLimitWaits.WithLabelValues(l.endpoint).Inc()
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}

// RecordRPCCall counts one node call by method and outcome class.
func RecordRPCCall(method string, err error) {
	metrics.RPCCallsTotal.WithLabelValues(method, ClassifyRPCError(err)).Inc()
}

// ClassifyRPCError buckets an RPC error for metrics labels.
func ClassifyRPCError(err error) string {
	if err == nil {
		return "ok"
	}
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return "circuit_open"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded"):
		return "timeout"
	case strings.Contains(lower, "rate limit") || strings.Contains(lower, "429") || strings.Contains(lower, "too many requests"):
		return "rate_limited"
	case strings.Contains(lower, "500") || strings.Contains(lower, "502") || strings.Contains(lower, "503") || strings.Contains(lower, "internal server error"):
		return "server_error"
	case strings.Contains(lower, "connection refused") || strings.Contains(lower, "connection reset") ||
		strings.Contains(lower, "network is unreachable") || strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "broken pipe") || strings.Contains(lower, "eof"):
		return "network_error"
	default:
		return "client_error"
	}
}
