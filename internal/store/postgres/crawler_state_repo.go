package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/joel-u410/namada-indexer/internal/domain/model"
)

type CrawlerStateRepo struct {
	db *DB
}

func NewCrawlerStateRepo(db *DB) *CrawlerStateRepo {
	return &CrawlerStateRepo{db: db}
}

// Get returns nil when the crawler has never checkpointed.
func (r *CrawlerStateRepo) Get(ctx context.Context, name model.CrawlerName) (*model.CrawlerState, error) {
	ctx, cancel := withTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	var s model.CrawlerState
	err := r.db.QueryRowContext(ctx, `
		SELECT name, last_processed_block, timestamp
		FROM crawler_state
		WHERE name = $1
	`, name).Scan(&s.Name, &s.LastProcessedBlock, &s.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get crawler state: %w", err)
	}
	return &s, nil
}

func (r *CrawlerStateRepo) UpsertTx(ctx context.Context, tx *sql.Tx, state model.CrawlerState) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO crawler_state (name, last_processed_block, timestamp)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET
			last_processed_block = EXCLUDED.last_processed_block,
			timestamp = EXCLUDED.timestamp
	`, state.Name, state.LastProcessedBlock, state.Timestamp)
	if err != nil {
		return fmt.Errorf("upsert crawler state: %w", err)
	}
	return nil
}

// Touch refreshes the timestamp only. It is a no-op before the first checkpoint.
func (r *CrawlerStateRepo) Touch(ctx context.Context, name model.CrawlerName, ts time.Time) error {
	ctx, cancel := withTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		UPDATE crawler_state SET timestamp = $2 WHERE name = $1
	`, name, ts)
	if err != nil {
		return fmt.Errorf("touch crawler state: %w", err)
	}
	return nil
}
