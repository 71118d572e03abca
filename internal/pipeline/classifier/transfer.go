package classifier

import "github.com/joel-u410/namada-indexer/internal/domain/model"

func transferKind(data model.TransferData) model.TransactionKind {
	if data.ShieldedSectionHash == nil {
		return model.TransparentTransfer{Data: data}
	}

	allSrc, anySrc := maspOwners(data.Sources)
	allTgt, anyTgt := maspOwners(data.Targets)

	switch {
	case allSrc && allTgt:
		return model.ShieldedTransfer{Data: data}
	case allSrc && !anyTgt:
		return model.UnshieldingTransfer{Data: data}
	case !anySrc && allTgt:
		return model.ShieldingTransfer{Data: data}
	case !anySrc && !anyTgt:
		return model.TransparentTransfer{Data: data}
	default:
		return model.MixedTransfer{Data: data}
	}
}

// maspOwners reports whether every owner (and at least one) is the MASP
// address, and whether any owner is.
func maspOwners(entries []model.AccountAmount) (allMasp, anyMasp bool) {
	allMasp = len(entries) > 0
	for _, e := range entries {
		if model.IsMaspAddress(e.Owner) {
			anyMasp = true
		} else {
			allMasp = false
		}
	}
	return allMasp, anyMasp
}

func ibcKind(msg model.IbcMessage) model.TransactionKind {
	switch msg.Type {
	case model.IbcMessageTransfer:
		if msg.Transfer == nil || msg.Transfer.Transfer == nil {
			break
		}
		data := model.IbcTransferData{
			Token:    ibcToken(msg, msg.Transfer.Packet.Denom),
			Transfer: *msg.Transfer.Transfer,
		}
		allSrc, _ := maspOwners(data.Transfer.Sources)
		if data.Transfer.ShieldedSectionHash != nil || allSrc {
			return model.IbcUnshieldingTransfer{Data: data}
		}
		return model.IbcSendTransparentTransfer{Data: data}

	case model.IbcMessageRecvPacket:
		if msg.Recv == nil {
			break
		}
		denom := ""
		if msg.Packet != nil {
			if ft, ok := msg.Packet.FungibleTokenPacket(); ok {
				denom = ft.Denom
			}
		}
		data := model.IbcTransferData{
			Token:    ibcToken(msg, denom),
			Transfer: *msg.Recv,
		}
		allTgt, _ := maspOwners(data.Transfer.Targets)
		if data.Transfer.ShieldedSectionHash != nil || allTgt {
			return model.IbcShieldingTransfer{Data: data}
		}
		return model.IbcRecvTransparentTransfer{Data: data}
	}

	m := msg
	return model.IbcMsg{Message: &m}
}

func ibcToken(msg model.IbcMessage, denom string) model.Token {
	if msg.Token != nil {
		return *msg.Token
	}
	return model.Token{Address: denom}
}
