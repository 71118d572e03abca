package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/joel-u410/namada-indexer/internal/chain/ratelimit"
	"github.com/joel-u410/namada-indexer/internal/circuitbreaker"
	"github.com/joel-u410/namada-indexer/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
)

const defaultTimeout = 30 * time.Second

// Client talks JSON-RPC to the block decoding gateway in front of a node.
type Client struct {
	httpClient *http.Client
	rpcURL     string
	requestID  atomic.Int64
	logger     *slog.Logger
	limiter    *ratelimit.Limiter
	breaker    *circuitbreaker.Breaker
}

func NewClient(rpcURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		rpcURL:     rpcURL,
		logger:     logger.With("component", "namada_rpc"),
	}
}

func (c *Client) SetRateLimiter(l *ratelimit.Limiter) {
	c.limiter = l
}

// SetCircuitBreaker guards calls with b. Build b with IsNodeFailure so that
// request errors do not trip it.
func (c *Client) SetCircuitBreaker(b *circuitbreaker.Breaker) {
	c.breaker = b
}

// IsNodeFailure reports whether err says the node or the transport is
// unhealthy, as opposed to the request being rejected.
func IsNodeFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return (rpcErr.Code <= -32000 && rpcErr.Code >= -32099) || rpcErr.Code == -32603
	}
	return true
}

func (c *Client) call(ctx context.Context, method string, params []interface{}) (result json.RawMessage, err error) {
	ctx, span := tracing.Tracer("namada_rpc").Start(ctx, "rpc."+method)
	span.SetAttributes(attribute.String("rpc.method", method))
	defer func() {
		ratelimit.RecordRPCCall(method, err)
		tracing.EndSpan(span, err)
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	if c.breaker == nil {
		return c.do(ctx, method, params)
	}
	err = c.breaker.Do(func() error {
		var callErr error
		result, callErr = c.do(ctx, method, params)
		return callErr
	})
	return result, err
}

func (c *Client) do(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	if params == nil {
		params = []interface{}{}
	}
	req := Request{
		JSONRPC: "2.0",
		ID:      int(c.requestID.Add(1)),
		Method:  method,
		Params:  params,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http status %d: %s", resp.StatusCode, truncate(respBody, 256))
	}

	var rpcResp Response
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}

	return rpcResp.Result, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
