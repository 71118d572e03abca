package ibc

import (
	"fmt"

	"github.com/joel-u410/namada-indexer/internal/domain/model"
)

// LegacyCursor hands out the successful outbound IBC transactions of a block
// in block order. Older nodes omit inner_tx_hash on send_packet events; the
// n-th such event belongs to the n-th successful send.
type LegacyCursor struct {
	sends []model.InnerTransaction
	next  int
}

func NewLegacyCursor(txs []model.WrapperWithInners) *LegacyCursor {
	c := &LegacyCursor{}
	for i := range txs {
		wrapper := &txs[i].Wrapper
		for _, inner := range txs[i].Inners {
			if inner.IsSentIbc() && inner.WasSuccessful(wrapper) {
				c.sends = append(c.sends, inner)
			}
		}
	}
	return c
}

func (c *LegacyCursor) Next() (model.InnerTransaction, error) {
	if c.next >= len(c.sends) {
		return model.InnerTransaction{}, fmt.Errorf("%w: %d sends consumed", ErrLegacyCursorExhausted, len(c.sends))
	}
	tx := c.sends[c.next]
	c.next++
	return tx, nil
}

func (c *LegacyCursor) Remaining() int {
	return len(c.sends) - c.next
}
