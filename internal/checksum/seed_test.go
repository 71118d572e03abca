package checksum

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	seed  map[string]string
	err   error
	calls int
}

func (s *stubSource) Load(context.Context) (map[string]string, error) {
	s.calls++
	return s.seed, s.err
}

type memorySnapshots struct {
	saved   map[string]string
	saves   int
	loadErr error
	saveErr error
}

func (m *memorySnapshots) SaveChecksums(_ context.Context, seed map[string]string) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = seed
	return nil
}

func (m *memorySnapshots) LoadChecksums(context.Context) (map[string]string, error) {
	return m.saved, m.loadErr
}

type stubFetcher struct {
	paths []string
	out   map[string]string
	err   error
}

func (f *stubFetcher) Checksums(_ context.Context, codePaths []string) (map[string]string, error) {
	f.paths = codePaths
	return f.out, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSeeder_SeedSavesSnapshot(t *testing.T) {
	reg := NewRegistry(nil)
	src := &stubSource{seed: map[string]string{"tx_transfer.wasm": "aaaa"}}
	snaps := &memorySnapshots{}

	s := NewSeeder(reg, src, testLogger(), WithSnapshotStore(snaps))
	require.NoError(t, s.Seed(context.Background()))

	name, ok := reg.Resolve("aaaa")
	require.True(t, ok)
	assert.Equal(t, "tx_transfer", name)
	assert.Equal(t, src.seed, snaps.saved)
}

func TestSeeder_SeedFallsBackToSnapshot(t *testing.T) {
	reg := NewRegistry(nil)
	src := &stubSource{err: errors.New("connection refused")}
	snaps := &memorySnapshots{saved: map[string]string{"tx_ibc.wasm": "bbbb"}}

	s := NewSeeder(reg, src, testLogger(), WithSnapshotStore(snaps))
	require.NoError(t, s.Seed(context.Background()))

	name, ok := reg.Resolve("bbbb")
	require.True(t, ok)
	assert.Equal(t, "tx_ibc", name)
}

func TestSeeder_SeedFailsWithoutUsableSnapshot(t *testing.T) {
	srcErr := errors.New("connection refused")

	t.Run("no snapshot store", func(t *testing.T) {
		s := NewSeeder(NewRegistry(nil), &stubSource{err: srcErr}, testLogger())
		err := s.Seed(context.Background())
		require.ErrorIs(t, err, srcErr)
	})

	t.Run("empty snapshot", func(t *testing.T) {
		s := NewSeeder(NewRegistry(nil), &stubSource{err: srcErr}, testLogger(), WithSnapshotStore(&memorySnapshots{}))
		err := s.Seed(context.Background())
		require.ErrorIs(t, err, srcErr)
	})

	t.Run("snapshot load error", func(t *testing.T) {
		snaps := &memorySnapshots{loadErr: errors.New("redis down")}
		s := NewSeeder(NewRegistry(nil), &stubSource{err: srcErr}, testLogger(), WithSnapshotStore(snaps))
		err := s.Seed(context.Background())
		require.ErrorIs(t, err, srcErr)
		assert.Contains(t, err.Error(), "redis down")
	})
}

func TestSeeder_SnapshotSaveErrorIsNotFatal(t *testing.T) {
	reg := NewRegistry(nil)
	src := &stubSource{seed: map[string]string{"tx_bond.wasm": "cccc"}}
	snaps := &memorySnapshots{saveErr: errors.New("read only")}

	s := NewSeeder(reg, src, testLogger(), WithSnapshotStore(snaps))
	require.NoError(t, s.Seed(context.Background()))
	assert.Equal(t, 1, reg.Len())
}

func TestSeeder_RejectedSeedKeepsSnapshot(t *testing.T) {
	good := map[string]string{"tx_bond.wasm": "aaaa"}
	snaps := &memorySnapshots{saved: good}

	s := NewSeeder(NewRegistry(nil), &stubSource{seed: map[string]string{"tx_bond": "bbbb"}}, testLogger(), WithSnapshotStore(snaps))
	err := s.Seed(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".wasm")
	assert.Equal(t, good, snaps.saved)
	assert.Zero(t, snaps.saves)

	// A later start with the node down still recovers from the snapshot.
	reg := NewRegistry(nil)
	s = NewSeeder(reg, &stubSource{err: errors.New("connection refused")}, testLogger(), WithSnapshotStore(snaps))
	require.NoError(t, s.Seed(context.Background()))
	name, ok := reg.Resolve("aaaa")
	require.True(t, ok)
	assert.Equal(t, "tx_bond", name)
}

func TestSeeder_SnapshotFallbackIsNotSavedBack(t *testing.T) {
	snaps := &memorySnapshots{saved: map[string]string{"tx_ibc.wasm": "bbbb"}}

	s := NewSeeder(NewRegistry(nil), &stubSource{err: errors.New("timeout")}, testLogger(), WithSnapshotStore(snaps))
	require.NoError(t, s.Seed(context.Background()))
	assert.Zero(t, snaps.saves)
}

func TestSeeder_RunKeepsTableOnRefreshError(t *testing.T) {
	reg := NewRegistry(nil)
	reg.RegisterWithExt("tx_bond", "h1")
	src := &stubSource{err: errors.New("timeout")}

	s := NewSeeder(reg, src, testLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := s.Run(ctx, 5*time.Millisecond)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, src.calls, 0)

	name, ok := reg.Resolve("h1")
	require.True(t, ok)
	assert.Equal(t, "tx_bond", name)
}

func TestRPCSeedSource_RequestsCodePaths(t *testing.T) {
	fetcher := &stubFetcher{out: map[string]string{"tx_transfer.wasm": "aaaa"}}
	seed, err := NewRPCSeedSource(fetcher).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fetcher.out, seed)
	assert.Equal(t, CodePaths(), fetcher.paths)

	fetcher.err = errors.New("boom")
	_, err = NewRPCSeedSource(fetcher).Load(context.Background())
	require.Error(t, err)
}

func TestFileSeedSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "checksums.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tx_transfer.wasm: aaaa\ntx_ibc.wasm: bbbb\n"), 0o600))

	seed, err := NewFileSeedSource(path).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"tx_transfer.wasm": "aaaa", "tx_ibc.wasm": "bbbb"}, seed)

	jsonPath := filepath.Join(dir, "checksums.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"tx_bond.wasm":"cccc"}`), 0o600))
	seed, err = NewFileSeedSource(jsonPath).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cccc", seed["tx_bond.wasm"])

	_, err = NewFileSeedSource(filepath.Join(dir, "missing.yaml")).Load(context.Background())
	require.Error(t, err)
}
