package model

// GasEstimation is the cost profile of one fully applied wrapper batch.
type GasEstimation struct {
	WrapperID              string `db:"wrapper_id"`
	Signatures             uint64 `db:"signatures"`
	Size                   uint64 `db:"size"`
	TransparentTransfer    uint64 `db:"transparent_transfer"`
	ShieldedTransfer       uint64 `db:"shielded_transfer"`
	ShieldingTransfer      uint64 `db:"shielding_transfer"`
	UnshieldingTransfer    uint64 `db:"unshielding_transfer"`
	MixedTransfer          uint64 `db:"mixed_transfer"`
	IbcTransparentTransfer uint64 `db:"ibc_transparent_transfer"`
	IbcShieldingTransfer   uint64 `db:"ibc_shielding_transfer"`
	IbcUnshieldingTransfer uint64 `db:"ibc_unshielding_transfer"`
	Bond                   uint64 `db:"bond"`
	Redelegation           uint64 `db:"redelegation"`
	Unbond                 uint64 `db:"unbond"`
	Withdraw               uint64 `db:"withdraw"`
	ClaimRewards           uint64 `db:"claim_rewards"`
	Vote                   uint64 `db:"vote"`
	RevealPk               uint64 `db:"reveal_pk"`
}

func NewGasEstimation(wrapperID string) GasEstimation {
	return GasEstimation{WrapperID: wrapperID}
}

func (g *GasEstimation) IncreaseTransparentTransfer()    { g.TransparentTransfer++ }
func (g *GasEstimation) IncreaseIbcTransparentTransfer() { g.IbcTransparentTransfer++ }
func (g *GasEstimation) IncreaseBond()                   { g.Bond++ }
func (g *GasEstimation) IncreaseRedelegation()           { g.Redelegation++ }
func (g *GasEstimation) IncreaseUnbond()                 { g.Unbond++ }
func (g *GasEstimation) IncreaseWithdraw()               { g.Withdraw++ }
func (g *GasEstimation) IncreaseClaimRewards()           { g.ClaimRewards++ }
func (g *GasEstimation) IncreaseVote()                   { g.Vote++ }
func (g *GasEstimation) IncreaseRevealPk()               { g.RevealPk++ }

// Shielded-pool operations are weighted by the number of MASP notes.

func (g *GasEstimation) IncreaseShieldedTransfer(notes uint64)    { g.ShieldedTransfer += notes }
func (g *GasEstimation) IncreaseShieldingTransfer(notes uint64)   { g.ShieldingTransfer += notes }
func (g *GasEstimation) IncreaseUnshieldingTransfer(notes uint64) { g.UnshieldingTransfer += notes }
func (g *GasEstimation) IncreaseMixedTransfer(notes uint64)       { g.MixedTransfer += notes }
func (g *GasEstimation) IncreaseIbcShieldingTransfer(notes uint64) {
	g.IbcShieldingTransfer += notes
}
func (g *GasEstimation) IncreaseIbcUnshieldingTransfer(notes uint64) {
	g.IbcUnshieldingTransfer += notes
}
