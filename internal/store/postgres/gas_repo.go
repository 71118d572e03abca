package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/joel-u410/namada-indexer/internal/domain/model"
)

var gasColumns = []string{
	"wrapper_id", "signatures", "size",
	"transparent_transfer", "shielded_transfer", "shielding_transfer", "unshielding_transfer", "mixed_transfer",
	"ibc_transparent_transfer", "ibc_shielding_transfer", "ibc_unshielding_transfer",
	"bond", "redelegation", "unbond", "withdraw", "claim_rewards", "vote", "reveal_pk",
}

type GasRepo struct {
	db *DB
}

func NewGasRepo(db *DB) *GasRepo {
	return &GasRepo{db: db}
}

func (r *GasRepo) InsertEstimationsTx(ctx context.Context, tx *sql.Tx, estimations []model.GasEstimation) error {
	for _, chunk := range chunks(estimations, maxRowsPerInsert) {
		q := psql.Insert("gas_estimations").
			Columns(gasColumns...).
			Suffix("ON CONFLICT (wrapper_id) DO NOTHING")
		for _, g := range chunk {
			q = q.Values(g.WrapperID, g.Signatures, g.Size,
				g.TransparentTransfer, g.ShieldedTransfer, g.ShieldingTransfer, g.UnshieldingTransfer, g.MixedTransfer,
				g.IbcTransparentTransfer, g.IbcShieldingTransfer, g.IbcUnshieldingTransfer,
				g.Bond, g.Redelegation, g.Unbond, g.Withdraw, g.ClaimRewards, g.Vote, g.RevealPk)
		}
		if _, err := q.RunWith(tx).ExecContext(ctx); err != nil {
			return fmt.Errorf("insert gas estimations: %w", err)
		}
	}
	return nil
}

func scanGasEstimation(row interface{ Scan(...any) error }) (model.GasEstimation, error) {
	var g model.GasEstimation
	err := row.Scan(&g.WrapperID, &g.Signatures, &g.Size,
		&g.TransparentTransfer, &g.ShieldedTransfer, &g.ShieldingTransfer, &g.UnshieldingTransfer, &g.MixedTransfer,
		&g.IbcTransparentTransfer, &g.IbcShieldingTransfer, &g.IbcUnshieldingTransfer,
		&g.Bond, &g.Redelegation, &g.Unbond, &g.Withdraw, &g.ClaimRewards, &g.Vote, &g.RevealPk)
	return g, err
}
