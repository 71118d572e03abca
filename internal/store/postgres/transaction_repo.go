package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/joel-u410/namada-indexer/internal/domain/model"
)

type TransactionRepo struct {
	db *DB
}

func NewTransactionRepo(db *DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

// InsertWrappersTx inserts wrappers; rows that already exist are left as is.
func (r *TransactionRepo) InsertWrappersTx(ctx context.Context, tx *sql.Tx, wrappers []model.WrapperTransaction) error {
	for _, chunk := range chunks(wrappers, maxRowsPerInsert) {
		q := psql.Insert("wrapper_transactions").
			Columns("id", "fee_payer", "fee_token", "gas_limit", "gas_used", "amount_per_gas_unit",
				"atomic", "exit_code", "block_height", "tx_index", "total_signatures", "size").
			Suffix("ON CONFLICT (id) DO NOTHING")
		for _, w := range chunk {
			q = q.Values(w.ID, w.Fee.GasPayer, w.Fee.GasToken, w.Fee.GasLimit, w.Fee.GasUsed, w.Fee.AmountPerGasUnit,
				w.Atomic, w.ExitCode, w.BlockHeight, w.Index, w.TotalSignatures, w.Size)
		}
		if _, err := q.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("insert wrapper transactions: %w", err)
		}
	}
	return nil
}

// UpsertInnersTx inserts inner transactions. On conflict only kind and data
// are rewritten, so a reindex with a newer checksum table reclassifies rows
// without touching anything else.
func (r *TransactionRepo) UpsertInnersTx(ctx context.Context, tx *sql.Tx, inners []model.InnerTransaction) error {
	for _, chunk := range chunks(inners, maxRowsPerInsert) {
		q := psql.Insert("inner_transactions").
			Columns("id", "wrapper_id", "tx_index", "kind", "data", "memo", "notes", "exit_code").
			Suffix(`ON CONFLICT (id) DO UPDATE SET
				kind = EXCLUDED.kind,
				data = EXCLUDED.data,
				updated_at = now()`)
		for _, in := range chunk {
			if in.Kind == nil {
				return fmt.Errorf("upsert inner transaction %s: kind not set", in.ID)
			}
			data, err := model.EncodeKindData(in.Kind)
			if err != nil {
				return fmt.Errorf("upsert inner transaction %s: %w", in.ID, err)
			}
			q = q.Values(in.ID, in.WrapperID, in.Index, string(in.Kind.Name()), data, in.Memo, in.Notes, in.ExitCode)
		}
		if _, err := q.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("upsert inner transactions: %w", err)
		}
	}

	if err := insertSectionsTx(ctx, tx, inners); err != nil {
		return err
	}
	return nil
}

type sectionRow struct {
	innerID string
	hash    string
	body    []byte
}

func insertSectionsTx(ctx context.Context, tx *sql.Tx, inners []model.InnerTransaction) error {
	var rows []sectionRow
	for _, in := range inners {
		hashes := make([]string, 0, len(in.ExtraSections))
		for hash := range in.ExtraSections {
			hashes = append(hashes, hash)
		}
		sort.Strings(hashes)
		for _, hash := range hashes {
			rows = append(rows, sectionRow{innerID: in.ID, hash: hash, body: in.ExtraSections[hash]})
		}
	}

	for _, chunk := range chunks(rows, maxRowsPerInsert) {
		q := psql.Insert("inner_transaction_sections").
			Columns("inner_id", "section_hash", "body").
			Suffix("ON CONFLICT (inner_id, section_hash) DO NOTHING")
		for _, row := range chunk {
			q = q.Values(row.innerID, row.hash, row.body)
		}
		if _, err := q.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("insert extra sections: %w", err)
		}
	}
	return nil
}
