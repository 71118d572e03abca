package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/joel-u410/namada-indexer/internal/domain/model"
	"github.com/lib/pq"
)

var wrapperColumns = []string{
	"w.id", "w.fee_payer", "w.fee_token", "w.gas_limit", "w.gas_used", "w.amount_per_gas_unit",
	"w.atomic", "w.exit_code", "w.block_height", "w.tx_index", "w.total_signatures", "w.size",
}

var innerColumns = []string{
	"i.id", "i.wrapper_id", "i.tx_index", "i.kind", "i.data", "i.memo", "i.notes", "i.exit_code",
}

// QueryRepo serves the read side of the indexed tables.
type QueryRepo struct {
	db *DB
}

func NewQueryRepo(db *DB) *QueryRepo {
	return &QueryRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWrapper(row rowScanner) (model.WrapperTransaction, error) {
	var w model.WrapperTransaction
	err := row.Scan(&w.ID, &w.Fee.GasPayer, &w.Fee.GasToken, &w.Fee.GasLimit, &w.Fee.GasUsed, &w.Fee.AmountPerGasUnit,
		&w.Atomic, &w.ExitCode, &w.BlockHeight, &w.Index, &w.TotalSignatures, &w.Size)
	return w, err
}

func scanInner(row rowScanner) (model.InnerTransaction, error) {
	var (
		in   model.InnerTransaction
		kind string
		data []byte
	)
	if err := row.Scan(&in.ID, &in.WrapperID, &in.Index, &kind, &data, &in.Memo, &in.Notes, &in.ExitCode); err != nil {
		return in, err
	}
	decoded, err := model.DecodeKind(model.KindName(kind), data)
	if err != nil {
		return in, fmt.Errorf("inner transaction %s: %w", in.ID, err)
	}
	in.Kind = decoded
	in.Data = data
	return in, nil
}

func (r *QueryRepo) FindWrapperTx(ctx context.Context, id string) (*model.WrapperTransaction, error) {
	ctx, cancel := withTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	query, args, err := psql.Select(wrapperColumns...).
		From("wrapper_transactions w").
		Where(sq.Eq{"w.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find wrapper query: %w", err)
	}

	w, err := scanWrapper(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find wrapper transaction: %w", err)
	}
	return &w, nil
}

func (r *QueryRepo) FindInnerTx(ctx context.Context, id string) (*model.InnerTransaction, error) {
	ctx, cancel := withTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	query, args, err := psql.Select(innerColumns...).
		From("inner_transactions i").
		Where(sq.Eq{"i.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find inner query: %w", err)
	}

	in, err := scanInner(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find inner transaction: %w", err)
	}

	sections, err := r.findSections(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	in.ExtraSections = sections
	return &in, nil
}

func (r *QueryRepo) findSections(ctx context.Context, innerID string) (map[string][]byte, error) {
	rows, err := psql.Select("section_hash", "body").
		From("inner_transaction_sections").
		Where(sq.Eq{"inner_id": innerID}).
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("find extra sections: %w", err)
	}
	defer rows.Close()

	var out map[string][]byte
	for rows.Next() {
		var (
			hash string
			body []byte
		)
		if err := rows.Scan(&hash, &body); err != nil {
			return nil, fmt.Errorf("scan extra section: %w", err)
		}
		if out == nil {
			out = make(map[string][]byte)
		}
		out[hash] = body
	}
	return out, rows.Err()
}

func (r *QueryRepo) FindInnersByWrapperTx(ctx context.Context, wrapperID string) ([]model.InnerTransaction, error) {
	ctx, cancel := withTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	return r.findInners(ctx, sq.Eq{"i.wrapper_id": wrapperID})
}

func (r *QueryRepo) findInners(ctx context.Context, where sq.Sqlizer) ([]model.InnerTransaction, error) {
	rows, err := psql.Select(innerColumns...).
		From("inner_transactions i").
		Where(where).
		OrderBy("i.wrapper_id", "i.tx_index").
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("find inner transactions: %w", err)
	}
	defer rows.Close()

	var out []model.InnerTransaction
	for rows.Next() {
		in, err := scanInner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inner transaction: %w", err)
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *QueryRepo) findWrappers(ctx context.Context, q sq.SelectBuilder) ([]model.WrapperTransaction, error) {
	rows, err := q.RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("find wrapper transactions: %w", err)
	}
	defer rows.Close()

	var out []model.WrapperTransaction
	for rows.Next() {
		w, err := scanWrapper(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wrapper transaction: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// FindTxsByBlockHeight returns the wrappers of a block in block order, each
// with its inner transactions in batch order.
func (r *QueryRepo) FindTxsByBlockHeight(ctx context.Context, height int64) ([]model.WrapperWithInners, error) {
	ctx, cancel := withTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	wrappers, err := r.findWrappers(ctx, psql.Select(wrapperColumns...).
		From("wrapper_transactions w").
		Where(sq.Eq{"w.block_height": height}).
		OrderBy("w.tx_index"))
	if err != nil {
		return nil, err
	}
	if len(wrappers) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(wrappers))
	for _, w := range wrappers {
		ids = append(ids, w.ID)
	}
	inners, err := r.findInners(ctx, sq.Eq{"i.wrapper_id": ids})
	if err != nil {
		return nil, err
	}

	byWrapper := make(map[string][]model.InnerTransaction, len(wrappers))
	for _, in := range inners {
		byWrapper[in.WrapperID] = append(byWrapper[in.WrapperID], in)
	}

	out := make([]model.WrapperWithInners, 0, len(wrappers))
	for _, w := range wrappers {
		out = append(out, model.WrapperWithInners{Wrapper: w, Inners: byWrapper[w.ID]})
	}
	return out, nil
}

func (r *QueryRepo) FindMostRecentTransactions(ctx context.Context, offset, size uint64) ([]model.WrapperTransaction, error) {
	ctx, cancel := withTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	return r.findWrappers(ctx, psql.Select(wrapperColumns...).
		From("wrapper_transactions w").
		OrderBy("w.block_height DESC", "w.tx_index").
		Offset(offset).
		Limit(size))
}

// FindRecentMatchingWrappers pages through wrappers that carry at least one
// inner transaction of the given kinds.
func (r *QueryRepo) FindRecentMatchingWrappers(ctx context.Context, kinds []model.KindName, offset, size uint64) ([]model.WrapperTransaction, error) {
	if len(kinds) == 0 {
		return r.FindMostRecentTransactions(ctx, offset, size)
	}

	ctx, cancel := withTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, string(k))
	}

	return r.findWrappers(ctx, psql.Select(wrapperColumns...).
		From("wrapper_transactions w").
		Where(sq.Expr(
			"EXISTS (SELECT 1 FROM inner_transactions i WHERE i.wrapper_id = w.id AND i.kind = ANY(?))",
			pq.Array(names),
		)).
		OrderBy("w.block_height DESC", "w.tx_index").
		Offset(offset).
		Limit(size))
}

func (r *QueryRepo) FindAckByTxID(ctx context.Context, txID string) ([]model.IbcAckRecord, error) {
	ctx, cancel := withTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	rows, err := psql.Select("id", "tx_hash", "timeout", "status").
		From("ibc_ack").
		Where(sq.Eq{"tx_hash": txID}).
		OrderBy("id").
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("find ibc ack: %w", err)
	}
	defer rows.Close()

	var out []model.IbcAckRecord
	for rows.Next() {
		var rec model.IbcAckRecord
		if err := rows.Scan(&rec.ID, &rec.TxHash, &rec.Timeout, &rec.Status); err != nil {
			return nil, fmt.Errorf("scan ibc ack: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *QueryRepo) FindGasEstimate(ctx context.Context, wrapperID string) (*model.GasEstimation, error) {
	ctx, cancel := withTimeout(ctx, DefaultQueryTimeout)
	defer cancel()

	query, args, err := psql.Select(gasColumns...).
		From("gas_estimations").
		Where(sq.Eq{"wrapper_id": wrapperID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find gas estimate query: %w", err)
	}

	g, err := scanGasEstimation(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find gas estimate: %w", err)
	}
	return &g, nil
}
