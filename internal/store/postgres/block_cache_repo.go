package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/joel-u410/namada-indexer/internal/domain/event"
)

// BlockCacheRepo keeps raw node payloads so a reindex does not hit the node.
type BlockCacheRepo struct {
	db *DB
}

func NewBlockCacheRepo(db *DB) *BlockCacheRepo {
	return &BlockCacheRepo{db: db}
}

// Get returns nil when height is not cached.
func (r *BlockCacheRepo) Get(ctx context.Context, height int64) (*event.RawBlock, error) {
	ctx, cancel := withTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	var (
		b           event.RawBlock
		block       []byte
		blockResult []byte
		epoch       sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, encoded_block, encoded_block_result, epoch
		FROM cometbft_block
		WHERE id = $1
	`, height).Scan(&b.Height, &block, &blockResult, &epoch)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached block %d: %w", height, err)
	}
	b.Block = block
	b.BlockResult = blockResult
	if epoch.Valid {
		b.Epoch = &epoch.Int64
	}
	return &b, nil
}

func (r *BlockCacheRepo) Put(ctx context.Context, block event.RawBlock) error {
	ctx, cancel := withTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cometbft_block (id, encoded_block, encoded_block_result, epoch)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`, block.Height, []byte(block.Block), []byte(block.BlockResult), block.Epoch)
	if err != nil {
		return fmt.Errorf("cache block %d: %w", block.Height, err)
	}
	return nil
}
