package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"

	namadarpc "github.com/joel-u410/namada-indexer/internal/chain/namada/rpc"
	"github.com/joel-u410/namada-indexer/internal/domain/event"
	"github.com/joel-u410/namada-indexer/internal/pipeline/ibc"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify_ExplicitMarkers(t *testing.T) {
	transient := Classify(Transient(errors.New("rpc timed out")))
	assert.Equal(t, ClassTransient, transient.Class)
	assert.Equal(t, "explicit_transient", transient.Reason)

	terminal := Classify(Terminal(errors.New("invalid params")))
	assert.Equal(t, ClassTerminal, terminal.Class)
	assert.Equal(t, "explicit_terminal", terminal.Reason)

	assert.Nil(t, Transient(nil))
	assert.Nil(t, Terminal(nil))
}

func TestClassify_NilError(t *testing.T) {
	d := Classify(nil)
	assert.Equal(t, ClassTerminal, d.Class)
	assert.Equal(t, "nil_error", d.Reason)
}

func TestClassify_RepresentativeRuntimeErrors(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedClass  Class
		expectedReason string
	}{
		{
			name:           "grpc unavailable transient",
			err:            status.Error(codes.Unavailable, "node unavailable"),
			expectedClass:  ClassTransient,
			expectedReason: "grpc_unavailable",
		},
		{
			name:           "grpc invalid argument terminal",
			err:            status.Error(codes.InvalidArgument, "bad"),
			expectedClass:  ClassTerminal,
			expectedReason: "grpc_invalidargument",
		},
		{
			name:           "context deadline transient",
			err:            fmt.Errorf("fetch block: %w", context.DeadlineExceeded),
			expectedClass:  ClassTransient,
			expectedReason: "context_deadline_exceeded",
		},
		{
			name:           "context canceled terminal",
			err:            context.Canceled,
			expectedClass:  ClassTerminal,
			expectedReason: "context_canceled",
		},
		{
			name:           "net timeout transient",
			err:            fmt.Errorf("dial: %w", timeoutErr{}),
			expectedClass:  ClassTransient,
			expectedReason: "net_timeout",
		},
		{
			name:           "malformed block terminal",
			err:            fmt.Errorf("%w: height 7: decode block: eof", event.ErrMalformedBlock),
			expectedClass:  ClassTerminal,
			expectedReason: "malformed_block",
		},
		{
			name:           "legacy cursor exhausted terminal",
			err:            fmt.Errorf("height 9: %w", ibc.ErrLegacyCursorExhausted),
			expectedClass:  ClassTerminal,
			expectedReason: "legacy_cursor_exhausted",
		},
		{
			name:           "jsonrpc internal error transient",
			err:            fmt.Errorf("block: %w", &namadarpc.RPCError{Code: -32603, Message: "internal"}),
			expectedClass:  ClassTransient,
			expectedReason: "jsonrpc_server_transient",
		},
		{
			name:           "jsonrpc server range transient",
			err:            &namadarpc.RPCError{Code: -32010, Message: "busy"},
			expectedClass:  ClassTransient,
			expectedReason: "jsonrpc_server_range",
		},
		{
			name:           "jsonrpc invalid params terminal",
			err:            &namadarpc.RPCError{Code: -32602, Message: "height must be less than or equal to the current blockchain height"},
			expectedClass:  ClassTerminal,
			expectedReason: "jsonrpc_terminal",
		},
		{
			name:           "transient message token",
			err:            errors.New("http status 503"),
			expectedClass:  ClassTransient,
			expectedReason: "message_transient",
		},
		{
			name:           "terminal message token wins",
			err:            errors.New("method not found: timeout"),
			expectedClass:  ClassTerminal,
			expectedReason: "message_terminal",
		},
		{
			name:           "unknown defaults terminal",
			err:            errors.New("unexpected failure"),
			expectedClass:  ClassTerminal,
			expectedReason: "unknown_terminal_default",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			decision := Classify(tc.err)
			assert.Equal(t, tc.expectedClass, decision.Class)
			assert.Equal(t, tc.expectedReason, decision.Reason)
			assert.Equal(t, tc.expectedClass == ClassTransient, decision.IsTransient())
		})
	}
}

func TestClassify_Postgres(t *testing.T) {
	testCases := []struct {
		code          pq.ErrorCode
		expectedClass Class
	}{
		{code: "40001", expectedClass: ClassTransient},
		{code: "40P01", expectedClass: ClassTransient},
		{code: "08006", expectedClass: ClassTransient},
		{code: "57P01", expectedClass: ClassTransient},
		{code: "57014", expectedClass: ClassTransient},
		{code: "23505", expectedClass: ClassTerminal},
		{code: "42601", expectedClass: ClassTerminal},
	}

	for _, tc := range testCases {
		t.Run(string(tc.code), func(t *testing.T) {
			err := fmt.Errorf("insert inner tx: %w", &pq.Error{Code: tc.code, Message: "x"})
			assert.Equal(t, tc.expectedClass, Classify(err).Class)
		})
	}
}
