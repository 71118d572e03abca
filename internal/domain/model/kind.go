package model

import "encoding/json"

// KindName is the persisted discriminator of a TransactionKind.
type KindName string

const (
	KindTransparentTransfer    KindName = "transparent_transfer"
	KindShieldedTransfer       KindName = "shielded_transfer"
	KindShieldingTransfer      KindName = "shielding_transfer"
	KindUnshieldingTransfer    KindName = "unshielding_transfer"
	KindMixedTransfer          KindName = "mixed_transfer"
	KindIbcTransparentTransfer KindName = "ibc_transparent_transfer"
	KindIbcShieldingTransfer   KindName = "ibc_shielding_transfer"
	KindIbcUnshieldingTransfer KindName = "ibc_unshielding_transfer"
	KindIbcMsg                 KindName = "ibc_msg"
	KindBond                   KindName = "bond"
	KindRedelegation           KindName = "redelegation"
	KindUnbond                 KindName = "unbond"
	KindWithdraw               KindName = "withdraw"
	KindClaimRewards           KindName = "claim_rewards"
	KindVoteProposal           KindName = "vote_proposal"
	KindInitProposal           KindName = "init_proposal"
	KindChangeMetadata         KindName = "change_metadata"
	KindChangeCommission       KindName = "change_commission"
	KindChangeConsensusKey     KindName = "change_consensus_key"
	KindRevealPk               KindName = "reveal_pk"
	KindBecomeValidator        KindName = "become_validator"
	KindDeactivateValidator    KindName = "deactivate_validator"
	KindReactivateValidator    KindName = "reactivate_validator"
	KindUnjailValidator        KindName = "unjail_validator"
	KindInitAccount            KindName = "init_account"
	KindUpdateAccount          KindName = "update_account"
	KindUnknown                KindName = "unknown"
)

func (k KindName) String() string {
	return string(k)
}

// TransactionKind is the closed set of classified inner transaction kinds.
// Only types in this package implement it.
type TransactionKind interface {
	Name() KindName
	isTransactionKind()
}

type TransparentTransfer struct{ Data TransferData }
type ShieldedTransfer struct{ Data TransferData }
type ShieldingTransfer struct{ Data TransferData }
type UnshieldingTransfer struct{ Data TransferData }
type MixedTransfer struct{ Data TransferData }

type IbcSendTransparentTransfer struct{ Data IbcTransferData }
type IbcRecvTransparentTransfer struct{ Data IbcTransferData }
type IbcShieldingTransfer struct{ Data IbcTransferData }
type IbcUnshieldingTransfer struct{ Data IbcTransferData }

// IbcMsg carries a raw IBC envelope. Message is nil when the envelope could
// not be decoded.
type IbcMsg struct{ Message *IbcMessage }

type Bond struct {
	Validator string  `json:"validator"`
	Source    *string `json:"source,omitempty"`
	Amount    string  `json:"amount"`
}

type Redelegation struct {
	SrcValidator  string `json:"src_validator"`
	DestValidator string `json:"dest_validator"`
	Owner         string `json:"owner"`
	Amount        string `json:"amount"`
}

type Unbond struct {
	Validator string  `json:"validator"`
	Source    *string `json:"source,omitempty"`
	Amount    string  `json:"amount"`
}

type Withdraw struct {
	Validator string  `json:"validator"`
	Source    *string `json:"source,omitempty"`
}

type ClaimRewards struct {
	Validator string  `json:"validator"`
	Source    *string `json:"source,omitempty"`
	Receiver  *string `json:"receiver,omitempty"`
}

type ProposalVote struct {
	ID    uint64 `json:"id"`
	Vote  string `json:"vote"`
	Voter string `json:"voter"`
}

type InitProposal struct {
	ID               *uint64         `json:"id,omitempty"`
	Author           string          `json:"author"`
	Type             json.RawMessage `json:"type,omitempty"`
	Content          string          `json:"content"`
	VotingStartEpoch uint64          `json:"voting_start_epoch"`
	VotingEndEpoch   uint64          `json:"voting_end_epoch"`
	ActivationEpoch  uint64          `json:"activation_epoch"`
}

type MetadataChange struct {
	Validator      string  `json:"validator"`
	Email          *string `json:"email,omitempty"`
	Description    *string `json:"description,omitempty"`
	Website        *string `json:"website,omitempty"`
	DiscordHandle  *string `json:"discord_handle,omitempty"`
	Avatar         *string `json:"avatar,omitempty"`
	ValidatorName  *string `json:"name,omitempty"`
	CommissionRate *string `json:"commission_rate,omitempty"`
}

type CommissionChange struct {
	Validator string `json:"validator"`
	NewRate   string `json:"new_rate"`
}

type ChangeConsensusKey struct {
	Validator    string `json:"validator"`
	ConsensusKey string `json:"consensus_key"`
}

type RevealPk struct {
	PublicKey string `json:"public_key"`
}

type BecomeValidator struct {
	Address                 string  `json:"address"`
	ConsensusKey            string  `json:"consensus_key"`
	ProtocolKey             string  `json:"protocol_key"`
	CommissionRate          string  `json:"commission_rate"`
	MaxCommissionRateChange string  `json:"max_commission_rate_change"`
	Email                   string  `json:"email"`
	Description             *string `json:"description,omitempty"`
	Website                 *string `json:"website,omitempty"`
	DiscordHandle           *string `json:"discord_handle,omitempty"`
	Avatar                  *string `json:"avatar,omitempty"`
	ValidatorName           *string `json:"name,omitempty"`
}

type DeactivateValidator struct {
	Address string `json:"address"`
}

type ReactivateValidator struct {
	Address string `json:"address"`
}

type UnjailValidator struct {
	Address string `json:"address"`
}

type InitAccount struct {
	PublicKeys []string `json:"public_keys"`
	VpCodeHash string   `json:"vp_code_hash"`
	Threshold  uint8    `json:"threshold"`
}

type UpdateAccount struct {
	Address    string   `json:"addr"`
	VpCodeHash *string  `json:"vp_code_hash,omitempty"`
	PublicKeys []string `json:"public_keys"`
	Threshold  *uint8   `json:"threshold,omitempty"`
}

// Unknown keeps the undecoded payload so a later run can reclassify it.
type Unknown struct{ Raw []byte }

func (TransparentTransfer) Name() KindName        { return KindTransparentTransfer }
func (ShieldedTransfer) Name() KindName           { return KindShieldedTransfer }
func (ShieldingTransfer) Name() KindName          { return KindShieldingTransfer }
func (UnshieldingTransfer) Name() KindName        { return KindUnshieldingTransfer }
func (MixedTransfer) Name() KindName              { return KindMixedTransfer }
func (IbcSendTransparentTransfer) Name() KindName { return KindIbcTransparentTransfer }
func (IbcRecvTransparentTransfer) Name() KindName { return KindIbcTransparentTransfer }
func (IbcShieldingTransfer) Name() KindName       { return KindIbcShieldingTransfer }
func (IbcUnshieldingTransfer) Name() KindName     { return KindIbcUnshieldingTransfer }
func (IbcMsg) Name() KindName                     { return KindIbcMsg }
func (Bond) Name() KindName                       { return KindBond }
func (Redelegation) Name() KindName               { return KindRedelegation }
func (Unbond) Name() KindName                     { return KindUnbond }
func (Withdraw) Name() KindName                   { return KindWithdraw }
func (ClaimRewards) Name() KindName               { return KindClaimRewards }
func (ProposalVote) Name() KindName               { return KindVoteProposal }
func (InitProposal) Name() KindName               { return KindInitProposal }
func (MetadataChange) Name() KindName             { return KindChangeMetadata }
func (CommissionChange) Name() KindName           { return KindChangeCommission }
func (ChangeConsensusKey) Name() KindName         { return KindChangeConsensusKey }
func (RevealPk) Name() KindName                   { return KindRevealPk }
func (BecomeValidator) Name() KindName            { return KindBecomeValidator }
func (DeactivateValidator) Name() KindName        { return KindDeactivateValidator }
func (ReactivateValidator) Name() KindName        { return KindReactivateValidator }
func (UnjailValidator) Name() KindName            { return KindUnjailValidator }
func (InitAccount) Name() KindName                { return KindInitAccount }
func (UpdateAccount) Name() KindName              { return KindUpdateAccount }
func (Unknown) Name() KindName                    { return KindUnknown }

func (TransparentTransfer) isTransactionKind()        {}
func (ShieldedTransfer) isTransactionKind()           {}
func (ShieldingTransfer) isTransactionKind()          {}
func (UnshieldingTransfer) isTransactionKind()        {}
func (MixedTransfer) isTransactionKind()              {}
func (IbcSendTransparentTransfer) isTransactionKind() {}
func (IbcRecvTransparentTransfer) isTransactionKind() {}
func (IbcShieldingTransfer) isTransactionKind()       {}
func (IbcUnshieldingTransfer) isTransactionKind()     {}
func (IbcMsg) isTransactionKind()                     {}
func (Bond) isTransactionKind()                       {}
func (Redelegation) isTransactionKind()               {}
func (Unbond) isTransactionKind()                     {}
func (Withdraw) isTransactionKind()                   {}
func (ClaimRewards) isTransactionKind()               {}
func (ProposalVote) isTransactionKind()               {}
func (InitProposal) isTransactionKind()               {}
func (MetadataChange) isTransactionKind()             {}
func (CommissionChange) isTransactionKind()           {}
func (ChangeConsensusKey) isTransactionKind()         {}
func (RevealPk) isTransactionKind()                   {}
func (BecomeValidator) isTransactionKind()            {}
func (DeactivateValidator) isTransactionKind()        {}
func (ReactivateValidator) isTransactionKind()        {}
func (UnjailValidator) isTransactionKind()            {}
func (InitAccount) isTransactionKind()                {}
func (UpdateAccount) isTransactionKind()              {}
func (Unknown) isTransactionKind()                    {}

// AllKinds returns the zero value of every TransactionKind variant. Tests use
// it to check that switches over kinds are exhaustive.
func AllKinds() []TransactionKind {
	return []TransactionKind{
		TransparentTransfer{},
		ShieldedTransfer{},
		ShieldingTransfer{},
		UnshieldingTransfer{},
		MixedTransfer{},
		IbcSendTransparentTransfer{},
		IbcRecvTransparentTransfer{},
		IbcShieldingTransfer{},
		IbcUnshieldingTransfer{},
		IbcMsg{},
		Bond{},
		Redelegation{},
		Unbond{},
		Withdraw{},
		ClaimRewards{},
		ProposalVote{},
		InitProposal{},
		MetadataChange{},
		CommissionChange{},
		ChangeConsensusKey{},
		RevealPk{},
		BecomeValidator{},
		DeactivateValidator{},
		ReactivateValidator{},
		UnjailValidator{},
		InitAccount{},
		UpdateAccount{},
		Unknown{},
	}
}

// ParseKindName maps a persisted discriminator back to a KindName.
func ParseKindName(raw string) (KindName, bool) {
	for _, k := range AllKinds() {
		if string(k.Name()) == raw {
			return k.Name(), true
		}
	}
	return "", false
}
