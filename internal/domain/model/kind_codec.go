package model

import (
	"encoding/json"
	"fmt"
)

const (
	ibcDirectionSend = "send"
	ibcDirectionRecv = "recv"
)

// ibcTransparentPayload carries the direction of a transparent IBC transfer,
// since both directions are stored under the same kind name.
type ibcTransparentPayload struct {
	IbcTransferData
	Direction string `json:"direction,omitempty"`
}

// EncodeKindData returns the persisted payload of kind. Unknown keeps its raw
// bytes; every other kind is stored as JSON.
func EncodeKindData(kind TransactionKind) ([]byte, error) {
	var v any
	switch k := kind.(type) {
	case nil:
		return nil, fmt.Errorf("encode kind: nil kind")
	case Unknown:
		return k.Raw, nil
	case TransparentTransfer:
		v = k.Data
	case ShieldedTransfer:
		v = k.Data
	case ShieldingTransfer:
		v = k.Data
	case UnshieldingTransfer:
		v = k.Data
	case MixedTransfer:
		v = k.Data
	case IbcSendTransparentTransfer:
		v = ibcTransparentPayload{IbcTransferData: k.Data, Direction: ibcDirectionSend}
	case IbcRecvTransparentTransfer:
		v = ibcTransparentPayload{IbcTransferData: k.Data, Direction: ibcDirectionRecv}
	case IbcShieldingTransfer:
		v = k.Data
	case IbcUnshieldingTransfer:
		v = k.Data
	case IbcMsg:
		if k.Message == nil {
			return nil, nil
		}
		v = k.Message
	default:
		v = k
	}
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind.Name(), err)
	}
	return out, nil
}

// DecodeKind rebuilds a TransactionKind from its persisted name and payload.
// Inbound and outbound transparent IBC transfers share a name and are told
// apart by the stored direction. Payloads without one are treated as
// outbound when a source is a local non-internal address.
func DecodeKind(name KindName, data []byte) (TransactionKind, error) {
	switch name {
	case KindUnknown:
		return Unknown{Raw: data}, nil
	case KindIbcMsg:
		if len(data) == 0 {
			return IbcMsg{}, nil
		}
		var msg IbcMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		return IbcMsg{Message: &msg}, nil
	case KindTransparentTransfer, KindShieldedTransfer, KindShieldingTransfer,
		KindUnshieldingTransfer, KindMixedTransfer:
		var d TransferData
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		switch name {
		case KindShieldedTransfer:
			return ShieldedTransfer{Data: d}, nil
		case KindShieldingTransfer:
			return ShieldingTransfer{Data: d}, nil
		case KindUnshieldingTransfer:
			return UnshieldingTransfer{Data: d}, nil
		case KindMixedTransfer:
			return MixedTransfer{Data: d}, nil
		default:
			return TransparentTransfer{Data: d}, nil
		}
	case KindIbcShieldingTransfer, KindIbcUnshieldingTransfer:
		var d IbcTransferData
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		if name == KindIbcShieldingTransfer {
			return IbcShieldingTransfer{Data: d}, nil
		}
		return IbcUnshieldingTransfer{Data: d}, nil
	case KindIbcTransparentTransfer:
		var p ibcTransparentPayload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		switch p.Direction {
		case ibcDirectionSend:
			return IbcSendTransparentTransfer{Data: p.IbcTransferData}, nil
		case ibcDirectionRecv:
			return IbcRecvTransparentTransfer{Data: p.IbcTransferData}, nil
		case "":
		default:
			return nil, fmt.Errorf("decode %s: unknown direction %q", name, p.Direction)
		}
		if hasLocalSource(p.Transfer.Sources) {
			return IbcSendTransparentTransfer{Data: p.IbcTransferData}, nil
		}
		return IbcRecvTransparentTransfer{Data: p.IbcTransferData}, nil
	case KindBond:
		return decodeStruct[Bond](name, data)
	case KindRedelegation:
		return decodeStruct[Redelegation](name, data)
	case KindUnbond:
		return decodeStruct[Unbond](name, data)
	case KindWithdraw:
		return decodeStruct[Withdraw](name, data)
	case KindClaimRewards:
		return decodeStruct[ClaimRewards](name, data)
	case KindVoteProposal:
		return decodeStruct[ProposalVote](name, data)
	case KindInitProposal:
		return decodeStruct[InitProposal](name, data)
	case KindChangeMetadata:
		return decodeStruct[MetadataChange](name, data)
	case KindChangeCommission:
		return decodeStruct[CommissionChange](name, data)
	case KindChangeConsensusKey:
		return decodeStruct[ChangeConsensusKey](name, data)
	case KindRevealPk:
		return decodeStruct[RevealPk](name, data)
	case KindBecomeValidator:
		return decodeStruct[BecomeValidator](name, data)
	case KindDeactivateValidator:
		return decodeStruct[DeactivateValidator](name, data)
	case KindReactivateValidator:
		return decodeStruct[ReactivateValidator](name, data)
	case KindUnjailValidator:
		return decodeStruct[UnjailValidator](name, data)
	case KindInitAccount:
		return decodeStruct[InitAccount](name, data)
	case KindUpdateAccount:
		return decodeStruct[UpdateAccount](name, data)
	default:
		return nil, fmt.Errorf("decode kind: unknown kind name %q", name)
	}
}

func decodeStruct[T TransactionKind](name KindName, data []byte) (TransactionKind, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return v, nil
}

func hasLocalSource(sources []AccountAmount) bool {
	for _, src := range sources {
		addr, err := ParseAddress(src.Owner)
		if err == nil && !addr.IsInternal() {
			return true
		}
	}
	return false
}
