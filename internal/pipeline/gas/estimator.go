package gas

import (
	"fmt"

	"github.com/joel-u410/namada-indexer/internal/domain/model"
)

// Estimate builds one GasEstimation per wrapper whose whole batch applied.
// Partially failed batches say nothing reliable about cost and are skipped.
func Estimate(txs []model.WrapperWithInners) []model.GasEstimation {
	var out []model.GasEstimation
	for i := range txs {
		wrapper := &txs[i].Wrapper
		if !allSuccessful(wrapper, txs[i].Inners) {
			continue
		}

		est := model.NewGasEstimation(wrapper.ID)
		est.Signatures = wrapper.TotalSignatures
		est.Size = wrapper.Size
		for _, inner := range txs[i].Inners {
			accumulate(&est, inner)
		}
		out = append(out, est)
	}
	return out
}

func allSuccessful(wrapper *model.WrapperTransaction, inners []model.InnerTransaction) bool {
	for i := range inners {
		if !inners[i].WasSuccessful(wrapper) {
			return false
		}
	}
	return true
}

func accumulate(est *model.GasEstimation, inner model.InnerTransaction) {
	notes := inner.Notes

	switch inner.Kind.(type) {
	case model.TransparentTransfer:
		est.IncreaseTransparentTransfer()
	case model.ShieldedTransfer:
		est.IncreaseShieldedTransfer(notes)
	case model.ShieldingTransfer:
		est.IncreaseShieldingTransfer(notes)
	case model.UnshieldingTransfer:
		est.IncreaseUnshieldingTransfer(notes)
	case model.MixedTransfer:
		est.IncreaseMixedTransfer(notes)
	case model.IbcSendTransparentTransfer, model.IbcRecvTransparentTransfer:
		est.IncreaseIbcTransparentTransfer()
	case model.IbcShieldingTransfer:
		est.IncreaseIbcShieldingTransfer(notes)
	case model.IbcUnshieldingTransfer:
		est.IncreaseIbcUnshieldingTransfer(notes)
	case model.Bond:
		est.IncreaseBond()
	case model.Redelegation:
		est.IncreaseRedelegation()
	case model.Unbond:
		est.IncreaseUnbond()
	case model.Withdraw:
		est.IncreaseWithdraw()
	case model.ClaimRewards:
		est.IncreaseClaimRewards()
	case model.ProposalVote:
		est.IncreaseVote()
	case model.RevealPk:
		est.IncreaseRevealPk()
	case model.IbcMsg,
		model.InitProposal,
		model.MetadataChange,
		model.CommissionChange,
		model.ChangeConsensusKey,
		model.BecomeValidator,
		model.DeactivateValidator,
		model.ReactivateValidator,
		model.UnjailValidator,
		model.InitAccount,
		model.UpdateAccount,
		model.Unknown:
	default:
		panic(fmt.Sprintf("gas: unhandled transaction kind %T", inner.Kind))
	}
}
