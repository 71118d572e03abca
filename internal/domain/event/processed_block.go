package event

import (
	"time"

	"github.com/joel-u410/namada-indexer/internal/domain/model"
)

// ProcessedBlock contains everything derived from one block, ready to be
// committed together with the checkpoint.
type ProcessedBlock struct {
	Height       int64
	Time         time.Time
	Transactions []model.WrapperWithInners
	Sequences    []model.IbcSequence
	Acks         []model.IbcAck
	TokenFlows   []model.IbcTokenFlow
	GasEstimates []model.GasEstimation
}

func (b *ProcessedBlock) Wrappers() []model.WrapperTransaction {
	out := make([]model.WrapperTransaction, 0, len(b.Transactions))
	for _, t := range b.Transactions {
		out = append(out, t.Wrapper)
	}
	return out
}

func (b *ProcessedBlock) Inners() []model.InnerTransaction {
	var out []model.InnerTransaction
	for _, t := range b.Transactions {
		out = append(out, t.Inners...)
	}
	return out
}
