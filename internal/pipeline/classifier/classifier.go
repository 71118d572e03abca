package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/joel-u410/namada-indexer/internal/domain/event"
	"github.com/joel-u410/namada-indexer/internal/domain/model"
	"github.com/joel-u410/namada-indexer/internal/metrics"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

// Resolver maps a code hash to the code name it was registered under.
type Resolver interface {
	Resolve(hash string) (string, bool)
}

// Classifier turns inner transaction payloads into typed kinds.
type Classifier struct {
	resolver Resolver
	workers  int
	logger   *slog.Logger
}

func New(resolver Resolver, workers int, logger *slog.Logger) *Classifier {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Classifier{
		resolver: resolver,
		workers:  workers,
		logger:   logger.With("component", "classifier"),
	}
}

// Classify decodes data according to the resolved code name. Payloads that
// cannot be decoded are kept verbatim as Unknown.
func (c *Classifier) Classify(kindName string, resolved bool, data []byte) model.TransactionKind {
	if !resolved {
		return model.Unknown{Raw: data}
	}

	kind, err := decode(kindName, data)
	if err != nil {
		c.logger.Warn("undecodable transaction payload",
			"code_name", kindName,
			"payload_bytes", len(data),
			"error", err,
		)
		metrics.UndecodablePayloadsTotal.WithLabelValues(kindName).Inc()
		return model.Unknown{Raw: data}
	}
	return kind
}

// ClassifyBlock classifies every inner transaction of block. Output order
// matches block order.
func (c *Classifier) ClassifyBlock(ctx context.Context, block *event.Block) ([]model.WrapperWithInners, error) {
	out := make([]model.WrapperWithInners, len(block.Transactions))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, tx := range block.Transactions {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			out[i] = c.classifyWrapper(tx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("classify block %d: %w", block.Height, err)
	}

	for _, tx := range out {
		for _, inner := range tx.Inners {
			metrics.InnerTxClassifiedTotal.WithLabelValues(string(inner.Kind.Name())).Inc()
		}
	}
	return out, nil
}

func (c *Classifier) classifyWrapper(tx event.BlockTx) model.WrapperWithInners {
	inners := make([]model.InnerTransaction, 0, len(tx.Inners))
	for _, payload := range tx.Inners {
		inner := payload.Tx
		name, ok := c.resolver.Resolve(payload.CodeHash)
		inner.Kind = c.Classify(name, ok, inner.Data)
		inners = append(inners, inner)
	}
	return model.WrapperWithInners{Wrapper: tx.Wrapper, Inners: inners}
}

func decode(kindName string, data []byte) (model.TransactionKind, error) {
	switch kindName {
	case "tx_transfer":
		var transfer model.TransferData
		if err := unmarshal(data, &transfer); err != nil {
			return nil, err
		}
		return transferKind(transfer), nil
	case "tx_ibc":
		var msg model.IbcMessage
		if err := unmarshal(data, &msg); err != nil {
			return nil, err
		}
		return ibcKind(msg), nil
	case "tx_bond":
		return decodeInto[model.Bond](data)
	case "tx_redelegate":
		return decodeInto[model.Redelegation](data)
	case "tx_unbond":
		return decodeInto[model.Unbond](data)
	case "tx_withdraw":
		return decodeInto[model.Withdraw](data)
	case "tx_claim_rewards":
		return decodeInto[model.ClaimRewards](data)
	case "tx_vote_proposal":
		return decodeInto[model.ProposalVote](data)
	case "tx_init_proposal":
		return decodeInto[model.InitProposal](data)
	case "tx_change_validator_metadata":
		return decodeInto[model.MetadataChange](data)
	case "tx_change_validator_commission":
		return decodeInto[model.CommissionChange](data)
	case "tx_become_validator":
		return decodeInto[model.BecomeValidator](data)
	case "tx_init_account":
		return decodeInto[model.InitAccount](data)
	case "tx_update_account":
		return decodeInto[model.UpdateAccount](data)
	case "tx_unjail_validator":
		return decodeAddress(data, func(addr string) model.TransactionKind { return model.UnjailValidator{Address: addr} })
	case "tx_deactivate_validator":
		return decodeAddress(data, func(addr string) model.TransactionKind { return model.DeactivateValidator{Address: addr} })
	case "tx_reactivate_validator":
		return decodeAddress(data, func(addr string) model.TransactionKind { return model.ReactivateValidator{Address: addr} })
	case "tx_change_consensus_key":
		return decodeInto[model.ChangeConsensusKey](data)
	case "tx_reveal_pk":
		return decodeRevealPk(data)
	default:
		return model.Unknown{Raw: data}, nil
	}
}

type kindPayload interface {
	model.Bond | model.Redelegation | model.Unbond | model.Withdraw |
		model.ClaimRewards | model.ProposalVote | model.InitProposal |
		model.MetadataChange | model.CommissionChange | model.BecomeValidator |
		model.InitAccount | model.UpdateAccount | model.ChangeConsensusKey
}

func decodeInto[T kindPayload](data []byte) (model.TransactionKind, error) {
	var v T
	if err := unmarshal(data, &v); err != nil {
		return nil, err
	}
	return any(v).(model.TransactionKind), nil
}

// Validator lifecycle payloads are either a bare address string or an object
// with an address field.
func decodeAddress(data []byte, build func(string) model.TransactionKind) (model.TransactionKind, error) {
	var addr string
	if err := unmarshal(data, &addr); err == nil {
		if addr == "" {
			return nil, fmt.Errorf("empty address")
		}
		return build(addr), nil
	}
	var obj struct {
		Address string `json:"address"`
	}
	if err := unmarshal(data, &obj); err != nil {
		return nil, err
	}
	if obj.Address == "" {
		return nil, fmt.Errorf("empty address")
	}
	return build(obj.Address), nil
}

func decodeRevealPk(data []byte) (model.TransactionKind, error) {
	var pk string
	if err := unmarshal(data, &pk); err == nil {
		if pk == "" {
			return nil, fmt.Errorf("empty public key")
		}
		return model.RevealPk{PublicKey: pk}, nil
	}
	var v model.RevealPk
	if err := unmarshal(data, &v); err != nil {
		return nil, err
	}
	if v.PublicKey == "" {
		return nil, fmt.Errorf("empty public key")
	}
	return v, nil
}

func unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("empty payload")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
