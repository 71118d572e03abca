package model

import (
	"encoding/hex"
	"fmt"
	"strings"
)

type Fee struct {
	GasLimit         string  `json:"gas_limit"`
	AmountPerGasUnit string  `json:"amount_per_gas_unit"`
	GasToken         string  `json:"gas_token"`
	GasPayer         string  `json:"gas_payer"`
	GasUsed          *string `json:"gas_used,omitempty"`
}

// WrapperTransaction is the signed, fee-paying envelope. Rows are write-once.
type WrapperTransaction struct {
	ID              string     `db:"id"`
	Fee             Fee        `db:"fee"`
	Atomic          bool       `db:"atomic"`
	ExitCode        ExitStatus `db:"exit_code"`
	BlockHeight     int64      `db:"block_height"`
	Index           int        `db:"index"`
	TotalSignatures uint64     `db:"total_signatures"`
	Size            uint64     `db:"size"`
}

// InnerTransaction is one operation of a wrapper batch. Only Kind and Data
// are rewritten after the first insert.
type InnerTransaction struct {
	ID            string            `db:"id"`
	WrapperID     string            `db:"wrapper_id"`
	Index         int               `db:"index"`
	Kind          TransactionKind   `db:"kind"`
	Data          []byte            `db:"data"`
	ExtraSections map[string][]byte `db:"extra_sections"`
	Memo          *string           `db:"memo"`
	Notes         uint64            `db:"notes"`
	ExitCode      ExitStatus        `db:"exit_code"`
}

// WasSuccessful reports whether the inner transaction and its wrapper were
// both applied.
func (tx *InnerTransaction) WasSuccessful(wrapper *WrapperTransaction) bool {
	return tx.ExitCode == ExitStatusApplied && wrapper.ExitCode == ExitStatusApplied
}

// IsSentIbc reports whether the transaction sends an IBC packet.
func (tx *InnerTransaction) IsSentIbc() bool {
	switch tx.Kind.(type) {
	case IbcSendTransparentTransfer, IbcUnshieldingTransfer:
		return true
	default:
		return false
	}
}

// WrapperWithInners is one wrapper and its batch, in batch order.
type WrapperWithInners struct {
	Wrapper WrapperTransaction
	Inners  []InnerTransaction
}

// NormalizeTxID validates a transaction hash (64 hex chars) and returns it lowercased.
func NormalizeTxID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if len(id) != 64 {
		return "", fmt.Errorf("invalid tx id %q: expected 64 hex characters, got %d", id, len(id))
	}
	if _, err := hex.DecodeString(id); err != nil {
		return "", fmt.Errorf("invalid tx id %q: %w", id, err)
	}
	return strings.ToLower(id), nil
}
