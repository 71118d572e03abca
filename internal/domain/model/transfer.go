package model

// AccountAmount is one side of a transfer: an owner moving an amount of a token.
type AccountAmount struct {
	Owner  string `json:"owner"`
	Token  string `json:"token"`
	Amount string `json:"amount"`
}

// TransferData is the decoded payload shared by every transfer kind.
type TransferData struct {
	Sources             []AccountAmount `json:"sources"`
	Targets             []AccountAmount `json:"targets"`
	ShieldedSectionHash *string         `json:"shielded_section_hash,omitempty"`
}

// Token identifies the asset of an IBC transfer. Trace is set for tokens that
// arrived over IBC.
type Token struct {
	Address string  `json:"address"`
	Trace   *string `json:"trace,omitempty"`
}

// IbcTransferData is the payload of the IBC transfer kinds.
type IbcTransferData struct {
	Token    Token        `json:"token"`
	Transfer TransferData `json:"transfer"`
}
