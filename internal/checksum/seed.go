package checksum

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joel-u410/namada-indexer/internal/metrics"
	"gopkg.in/yaml.v3"
)

// SeedSource produces the current code table: file name (with suffix) -> hash.
type SeedSource interface {
	Load(ctx context.Context) (map[string]string, error)
}

// SnapshotStore keeps the last successfully loaded seed so startup can
// proceed while the node is unreachable.
type SnapshotStore interface {
	SaveChecksums(ctx context.Context, seed map[string]string) error
	LoadChecksums(ctx context.Context) (map[string]string, error)
}

// ChecksumFetcher is implemented by the node client.
type ChecksumFetcher interface {
	Checksums(ctx context.Context, codePaths []string) (map[string]string, error)
}

// RPCSeedSource asks the node for the hashes of CodePaths.
type RPCSeedSource struct {
	client ChecksumFetcher
}

func NewRPCSeedSource(client ChecksumFetcher) *RPCSeedSource {
	return &RPCSeedSource{client: client}
}

func (s *RPCSeedSource) Load(ctx context.Context) (map[string]string, error) {
	seed, err := s.client.Checksums(ctx, CodePaths())
	if err != nil {
		return nil, fmt.Errorf("fetch checksums: %w", err)
	}
	return seed, nil
}

// FileSeedSource reads a YAML (or JSON) mapping of file name to hash.
type FileSeedSource struct {
	path string
}

func NewFileSeedSource(path string) *FileSeedSource {
	return &FileSeedSource{path: path}
}

func (s *FileSeedSource) Load(_ context.Context) (map[string]string, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read checksum file %s: %w", s.path, err)
	}
	seed := make(map[string]string)
	if err := yaml.Unmarshal(content, &seed); err != nil {
		return nil, fmt.Errorf("parse checksum file %s: %w", s.path, err)
	}
	return seed, nil
}

// Seeder loads the current table into a Registry and keeps it fresh.
type Seeder struct {
	registry  *Registry
	source    SeedSource
	snapshots SnapshotStore
	logger    *slog.Logger
}

type SeederOption func(*Seeder)

func WithSnapshotStore(store SnapshotStore) SeederOption {
	return func(s *Seeder) {
		s.snapshots = store
	}
}

func NewSeeder(registry *Registry, source SeedSource, logger *slog.Logger, opts ...SeederOption) *Seeder {
	s := &Seeder{
		registry: registry,
		source:   source,
		logger:   logger.With("component", "checksum_seeder"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Seed loads the table once. When the source fails and a snapshot exists,
// the snapshot is used instead.
func (s *Seeder) Seed(ctx context.Context) error {
	seed, err := s.source.Load(ctx)
	fromSource := err == nil
	if err != nil {
		if s.snapshots == nil {
			return err
		}
		cached, cacheErr := s.snapshots.LoadChecksums(ctx)
		if cacheErr != nil {
			return fmt.Errorf("%w (snapshot: %v)", err, cacheErr)
		}
		if len(cached) == 0 {
			return fmt.Errorf("%w (snapshot empty)", err)
		}
		s.logger.Warn("checksum source unavailable; using snapshot", "error", err, "entries", len(cached))
		seed = cached
	}

	if err := s.registry.Replace(seed); err != nil {
		return err
	}

	// Only a table the registry accepted may become the next snapshot.
	if fromSource && s.snapshots != nil {
		if err := s.snapshots.SaveChecksums(ctx, seed); err != nil {
			s.logger.Warn("failed to save checksum snapshot", "error", err)
		}
	}
	metrics.ChecksumsRegistered.Set(float64(s.registry.Len()))
	s.logger.Info("checksums loaded", "entries", s.registry.Len())
	return nil
}

// Run refreshes the table every interval until ctx is done. Refresh failures
// keep the previous table.
func (s *Seeder) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.Seed(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				metrics.ChecksumRefreshErrors.Inc()
				s.logger.Warn("checksum refresh failed", "error", err)
			}
		}
	}
}
