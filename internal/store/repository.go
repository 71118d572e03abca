package store

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/joel-u410/namada-indexer/internal/domain/event"
	"github.com/joel-u410/namada-indexer/internal/domain/model"
)

// TxBeginner abstracts the ability to begin a database transaction.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// TransactionRepository writes wrapper and inner transactions.
type TransactionRepository interface {
	// InsertWrappersTx never rewrites an existing wrapper.
	InsertWrappersTx(ctx context.Context, tx *sql.Tx, wrappers []model.WrapperTransaction) error
	// UpsertInnersTx rewrites only kind and data of existing rows.
	UpsertInnersTx(ctx context.Context, tx *sql.Tx, inners []model.InnerTransaction) error
}

// CrawlerStateRepository stores crawler checkpoints.
type CrawlerStateRepository interface {
	Get(ctx context.Context, name model.CrawlerName) (*model.CrawlerState, error)
	UpsertTx(ctx context.Context, tx *sql.Tx, state model.CrawlerState) error
	Touch(ctx context.Context, name model.CrawlerName, ts time.Time) error
}

// IbcRepository stores packet lifecycles and token flows.
type IbcRepository interface {
	InsertSequencesTx(ctx context.Context, tx *sql.Tx, sequences []model.IbcSequence) error
	UpdateAcksTx(ctx context.Context, tx *sql.Tx, acks []model.IbcAck) error
	InsertTokenFlowsTx(ctx context.Context, tx *sql.Tx, flows []model.IbcTokenFlow) error
}

// GasRepository stores per-wrapper gas estimations.
type GasRepository interface {
	InsertEstimationsTx(ctx context.Context, tx *sql.Tx, estimations []model.GasEstimation) error
}

// BlockCacheRepository caches raw node payloads by height.
type BlockCacheRepository interface {
	Get(ctx context.Context, height int64) (*event.RawBlock, error)
	Put(ctx context.Context, block event.RawBlock) error
}

// QueryRepository provides read access to indexed data.
type QueryRepository interface {
	FindWrapperTx(ctx context.Context, id string) (*model.WrapperTransaction, error)
	FindInnerTx(ctx context.Context, id string) (*model.InnerTransaction, error)
	FindInnersByWrapperTx(ctx context.Context, wrapperID string) ([]model.InnerTransaction, error)
	FindTxsByBlockHeight(ctx context.Context, height int64) ([]model.WrapperWithInners, error)
	FindMostRecentTransactions(ctx context.Context, offset, size uint64) ([]model.WrapperTransaction, error)
	FindRecentMatchingWrappers(ctx context.Context, kinds []model.KindName, offset, size uint64) ([]model.WrapperTransaction, error)
	FindAckByTxID(ctx context.Context, txID string) ([]model.IbcAckRecord, error)
	FindGasEstimate(ctx context.Context, wrapperID string) (*model.GasEstimation, error)
}
