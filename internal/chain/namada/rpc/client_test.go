package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/joel-u410/namada-indexer/internal/chain/ratelimit"
	"github.com/joel-u410/namada-indexer/internal/circuitbreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestClient(handler func(*http.Request) (*http.Response, error)) *Client {
	client := NewClient("http://gateway.local", time.Second, slog.Default())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(handler),
	}
	return client
}

func jsonHTTPResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

// resultHandler answers every call with result, echoing the request id.
func resultHandler(t *testing.T, wantMethod string, result string) func(*http.Request) (*http.Response, error) {
	return func(r *http.Request) (*http.Response, error) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req Request
		require.NoError(t, json.Unmarshal(body, &req))
		if wantMethod != "" {
			assert.Equal(t, wantMethod, req.Method)
		}

		raw, err := json.Marshal(Response{JSONRPC: "2.0", ID: req.ID, Result: json.RawMessage(result)})
		require.NoError(t, err)
		return jsonHTTPResponse(http.StatusOK, string(raw)), nil
	}
}

func TestCall_Success(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var req Request
		require.NoError(t, json.Unmarshal(body, &req))

		assert.Equal(t, "2.0", req.JSONRPC)
		assert.Equal(t, "status", req.Method)
		assert.Equal(t, []interface{}{}, req.Params)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		return jsonHTTPResponse(http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":"ok"}`), nil
	})

	result, err := client.call(context.Background(), "status", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `"ok"`, string(result))
}

func TestCall_RPCError(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		return jsonHTTPResponse(http.StatusOK,
			`{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"node syncing"}}`), nil
	})

	_, err := client.call(context.Background(), "block", []interface{}{int64(5)})
	require.Error(t, err)

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32000, rpcErr.Code)
	assert.Equal(t, "rpc error -32000: node syncing", rpcErr.Error())
}

func TestCall_HTTPStatusError(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		return jsonHTTPResponse(http.StatusBadGateway, strings.Repeat("x", 1024)), nil
	})

	_, err := client.call(context.Background(), "status", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http status 502")
	assert.Less(t, len(err.Error()), 400, "body must be truncated")
}

func TestCall_InvalidJSON(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		return jsonHTTPResponse(http.StatusOK, `{not json`), nil
	})

	_, err := client.call(context.Background(), "status", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal response")
}

func TestCall_RateLimiterCanceled(t *testing.T) {
	client := newTestClient(resultHandler(t, "", `"ok"`))
	client.SetRateLimiter(ratelimit.NewLimiter(0.001, 1, "test"))

	_, err := client.call(context.Background(), "status", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.call(ctx, "status", nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "rate limiter")
}

func TestCall_CircuitBreakerOpensOnTransportFailures(t *testing.T) {
	calls := 0
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		calls++
		return nil, errors.New("connection refused")
	})
	client.SetCircuitBreaker(circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 2,
		OpenTimeout:      time.Hour,
		IsFailure:        IsNodeFailure,
	}))

	for i := 0; i < 2; i++ {
		_, err := client.call(context.Background(), "status", nil)
		require.Error(t, err)
	}
	_, err := client.call(context.Background(), "status", nil)
	require.ErrorIs(t, err, circuitbreaker.ErrCircuitOpen)
	assert.Equal(t, 2, calls)
}

func TestCall_CircuitBreakerIgnoresRequestErrors(t *testing.T) {
	client := newTestClient(func(r *http.Request) (*http.Response, error) {
		return jsonHTTPResponse(http.StatusOK,
			`{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"invalid params"}}`), nil
	})
	breaker := circuitbreaker.New(circuitbreaker.Config{FailureThreshold: 1, IsFailure: IsNodeFailure})
	client.SetCircuitBreaker(breaker)

	for i := 0; i < 3; i++ {
		_, err := client.call(context.Background(), "block", nil)
		var rpcErr *RPCError
		require.ErrorAs(t, err, &rpcErr)
	}
	assert.Equal(t, circuitbreaker.StateClosed, breaker.GetState())
}

func TestIsNodeFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"transport", errors.New("connection reset"), true},
		{"server range", &RPCError{Code: -32001}, true},
		{"internal error", &RPCError{Code: -32603}, true},
		{"invalid params", &RPCError{Code: -32602}, false},
		{"method not found", &RPCError{Code: -32601}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNodeFailure(tt.err))
		})
	}
}
