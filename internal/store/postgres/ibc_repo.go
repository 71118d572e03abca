package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/joel-u410/namada-indexer/internal/domain/model"
)

type IbcRepo struct {
	db *DB
}

func NewIbcRepo(db *DB) *IbcRepo {
	return &IbcRepo{db: db}
}

// InsertSequencesTx records sent packets with status unknown. A packet that
// is already recorded keeps its row, including any resolved status.
func (r *IbcRepo) InsertSequencesTx(ctx context.Context, tx *sql.Tx, sequences []model.IbcSequence) error {
	for _, chunk := range chunks(sequences, maxRowsPerInsert) {
		q := psql.Insert("ibc_ack").
			Columns("id", "tx_hash", "timeout", "status").
			Suffix("ON CONFLICT (id) DO NOTHING")
		for _, s := range chunk {
			q = q.Values(s.ID(), s.TxID, s.Timeout, model.IbcAckStatusUnknown)
		}
		if _, err := q.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("insert ibc sequences: %w", err)
		}
	}
	return nil
}

// UpdateAcksTx sets the status of previously sent packets. Acks for packets
// this chain never recorded are ignored.
func (r *IbcRepo) UpdateAcksTx(ctx context.Context, tx *sql.Tx, acks []model.IbcAck) error {
	for _, ack := range acks {
		_, err := tx.ExecContext(ctx, `
			UPDATE ibc_ack SET status = $2, updated_at = now()
			WHERE id = $1
		`, ack.ID(), ack.Status)
		if err != nil {
			return fmt.Errorf("update ibc ack %s: %w", ack.ID(), err)
		}
	}
	return nil
}

func (r *IbcRepo) InsertTokenFlowsTx(ctx context.Context, tx *sql.Tx, flows []model.IbcTokenFlow) error {
	for _, chunk := range chunks(flows, maxRowsPerInsert) {
		q := psql.Insert("ibc_token_flows").
			Columns("block_height", "event_index", "action", "denom", "amount").
			Suffix("ON CONFLICT (block_height, event_index) DO NOTHING")
		for _, f := range chunk {
			q = q.Values(f.BlockHeight, f.EventIndex, f.Action, f.Denom, f.Amount)
		}
		if _, err := q.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("insert ibc token flows: %w", err)
		}
	}
	return nil
}
