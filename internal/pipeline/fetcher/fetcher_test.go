package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/joel-u410/namada-indexer/internal/domain/event"
	storemocks "github.com/joel-u410/namada-indexer/internal/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeSource struct {
	tip     int64
	blocks  map[int64]event.RawBlock
	errs    []error
	fetches int
}

func (s *fakeSource) LatestHeight(context.Context) (int64, error) {
	return s.tip, nil
}

func (s *fakeSource) FetchBlock(_ context.Context, height int64) (*event.RawBlock, error) {
	s.fetches++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	if height > s.tip {
		return nil, fmt.Errorf("block %d: %w", height, ErrBlockNotAvailable)
	}
	raw, ok := s.blocks[height]
	if !ok {
		raw = event.RawBlock{Height: height, Block: json.RawMessage(`{}`), BlockResult: json.RawMessage(`{}`)}
	}
	return &raw, nil
}

func newTestFetcher(source BlockSource, opts ...Option) *Fetcher {
	f := New(source, slog.Default(), opts...)
	f.sleepFn = func(context.Context, time.Duration) error { return nil }
	return f
}

func TestFetch_NodeThenMemory(t *testing.T) {
	source := &fakeSource{tip: 10}
	f := newTestFetcher(source)

	raw, err := f.Fetch(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), raw.Height)

	_, err = f.Fetch(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 1, source.fetches, "second fetch served from memory")

	f.Forget(5)
	_, err = f.Fetch(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 2, source.fetches)
}

func TestFetch_BlockCacheHitSkipsNode(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := storemocks.NewMockBlockCacheRepository(ctrl)
	source := &fakeSource{tip: 10}
	f := newTestFetcher(source, WithBlockCache(repo))

	cached := &event.RawBlock{Height: 7, Block: json.RawMessage(`{"height":7}`)}
	repo.EXPECT().Get(gomock.Any(), int64(7)).Return(cached, nil)

	raw, err := f.Fetch(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, cached, raw)
	assert.Zero(t, source.fetches)
}

func TestFetch_BlockCacheMissStoresNodePayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := storemocks.NewMockBlockCacheRepository(ctrl)
	source := &fakeSource{tip: 10}
	f := newTestFetcher(source, WithBlockCache(repo))

	repo.EXPECT().Get(gomock.Any(), int64(3)).Return(nil, nil)
	repo.EXPECT().Put(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, raw event.RawBlock) error {
			assert.Equal(t, int64(3), raw.Height)
			return nil
		})

	_, err := f.Fetch(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 1, source.fetches)
}

func TestFetch_BlockCacheErrorsAreNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := storemocks.NewMockBlockCacheRepository(ctrl)
	source := &fakeSource{tip: 10}
	f := newTestFetcher(source, WithBlockCache(repo))

	repo.EXPECT().Get(gomock.Any(), int64(4)).Return(nil, errors.New("connection refused"))
	repo.EXPECT().Put(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	raw, err := f.Fetch(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), raw.Height)
}

func TestFetch_BeyondTipIsNotRetried(t *testing.T) {
	source := &fakeSource{tip: 10}
	f := newTestFetcher(source)

	_, err := f.Fetch(context.Background(), 11)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBlockNotAvailable)
	assert.Equal(t, 1, source.fetches)
}

func TestFetch_TransientErrorRetried(t *testing.T) {
	source := &fakeSource{tip: 10, errs: []error{errors.New("connection reset by peer"), nil}}
	f := newTestFetcher(source)

	raw, err := f.Fetch(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), raw.Height)
	assert.Equal(t, 2, source.fetches)
}

func TestFetch_TerminalErrorStopsImmediately(t *testing.T) {
	malformed := fmt.Errorf("header: %w", event.ErrMalformedBlock)
	source := &fakeSource{tip: 10, errs: []error{malformed}}
	f := newTestFetcher(source)

	_, err := f.Fetch(context.Background(), 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, event.ErrMalformedBlock)
	assert.Contains(t, err.Error(), "terminal_failure stage=fetcher.fetch_block attempt=1")
	assert.Equal(t, 1, source.fetches)
}

func TestFetch_TransientExhausted(t *testing.T) {
	timeout := errors.New("i/o timeout")
	source := &fakeSource{tip: 10, errs: []error{timeout, timeout, timeout}}
	f := newTestFetcher(source, WithRetryConfig(3, time.Millisecond, time.Millisecond))

	_, err := f.Fetch(context.Background(), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transient_recovery_exhausted stage=fetcher.fetch_block attempts=3")
	assert.Equal(t, 3, source.fetches)
}

func TestFetch_ContextCanceledDuringBackoff(t *testing.T) {
	source := &fakeSource{tip: 10, errs: []error{errors.New("i/o timeout")}}
	f := New(source, slog.Default())
	ctx, cancel := context.WithCancel(context.Background())
	f.sleepFn = func(context.Context, time.Duration) error {
		cancel()
		return context.Canceled
	}

	_, err := f.Fetch(ctx, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLatestHeight(t *testing.T) {
	f := newTestFetcher(&fakeSource{tip: 42})
	tip, err := f.LatestHeight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), tip)
}

func TestRetryDelay(t *testing.T) {
	f := New(&fakeSource{}, nil, WithRetryConfig(5, 100*time.Millisecond, 350*time.Millisecond))
	assert.Equal(t, 100*time.Millisecond, f.retryDelay(1))
	assert.Equal(t, 200*time.Millisecond, f.retryDelay(2))
	assert.Equal(t, 350*time.Millisecond, f.retryDelay(3))
	assert.Equal(t, 350*time.Millisecond, f.retryDelay(9))
}

func TestDefaults(t *testing.T) {
	f := New(&fakeSource{}, nil, WithRetryConfig(0, 0, 0))
	assert.Equal(t, defaultRetryMaxAttempts, f.effectiveRetryMaxAttempts())
	assert.Equal(t, defaultBackoffInitial, f.effectiveBackoffInitial())
	assert.Equal(t, defaultBackoffMax, f.effectiveBackoffMax())
}
