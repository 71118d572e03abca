package ibc

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/joel-u410/namada-indexer/internal/domain/event"
	"github.com/joel-u410/namada-indexer/internal/domain/model"
	"github.com/joel-u410/namada-indexer/internal/metrics"
)

// ErrLegacyCursorExhausted means a block emitted more send_packet events than
// it has successful IBC sends to attribute them to. The block cannot be
// indexed consistently.
var ErrLegacyCursorExhausted = errors.New("legacy ibc cursor exhausted")

// Correlator links IBC packet events to the transactions that caused them.
type Correlator struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Correlator {
	return &Correlator{logger: logger.With("component", "ibc_correlator")}
}

// Packets returns one IbcSequence per send_packet event of result, in event
// order. txs must be the classified transactions of the same block.
func (c *Correlator) Packets(result *event.BlockResult, txs []model.WrapperWithInners) ([]model.IbcSequence, error) {
	cursor := NewLegacyCursor(txs)

	var out []model.IbcSequence
	for i, ev := range result.EndEvents {
		if ev.Kind != event.EventKindSendPacket || ev.Packet == nil {
			continue
		}
		txID, err := c.sendTxID(ev, cursor)
		if err != nil {
			return nil, fmt.Errorf("height %d: send_packet event %d (%s): %w", result.Height, i, ev.Packet.ID(), err)
		}
		out = append(out, model.IbcSequence{
			SequenceNumber: ev.Packet.Sequence,
			SourcePort:     ev.Packet.SourcePort,
			SourceChannel:  ev.Packet.SourceChannel,
			DestPort:       ev.Packet.DestPort,
			DestChannel:    ev.Packet.DestChannel,
			Timeout:        ev.Packet.TimeoutTimestamp,
			TxID:           txID,
		})
	}
	return out, nil
}

func (c *Correlator) sendTxID(ev event.Event, cursor *LegacyCursor) (string, error) {
	if ev.InnerTxHash != nil && *ev.InnerTxHash != "" {
		metrics.IbcPacketsCorrelated.WithLabelValues("inner_tx_hash").Inc()
		return *ev.InnerTxHash, nil
	}

	// Sends issued by protocol accounts (e.g. PGF funding) have no inner tx.
	if data, ok := ev.Packet.FungibleTokenPacket(); ok && model.IsInternalAddress(data.Sender) {
		metrics.IbcPacketsCorrelated.WithLabelValues("synthetic").Inc()
		return SyntheticTxID(*ev.Packet), nil
	}

	tx, err := cursor.Next()
	if err != nil {
		return "", err
	}
	metrics.IbcPacketsCorrelated.WithLabelValues("legacy_cursor").Inc()
	return tx.ID, nil
}

// SyntheticTxID is the stand-in transaction id for packets sent by internal
// addresses: the lowercase hex sha256 of the packet id.
func SyntheticTxID(p model.IbcPacket) string {
	sum := sha256.Sum256([]byte(p.ID()))
	return hex.EncodeToString(sum[:])
}

// Acks derives packet resolutions from the IBC envelopes of inners.
func (c *Correlator) Acks(inners []model.InnerTransaction) []model.IbcAck {
	var out []model.IbcAck
	for _, inner := range inners {
		msg, ok := inner.Kind.(model.IbcMsg)
		if !ok || msg.Message == nil || msg.Message.Packet == nil {
			continue
		}

		var status model.IbcAckStatus
		switch msg.Message.Type {
		case model.IbcMessageAckPacket:
			status = AckStatus(msg.Message.Acknowledgement)
		case model.IbcMessageTimeout, model.IbcMessageTimeoutOnClose:
			status = model.IbcAckStatusTimeout
		default:
			continue
		}

		metrics.IbcAcksTotal.WithLabelValues(string(status)).Inc()
		p := msg.Message.Packet
		out = append(out, model.IbcAck{
			SequenceNumber: p.Sequence,
			SourcePort:     p.SourcePort,
			SourceChannel:  p.SourceChannel,
			DestPort:       p.DestPort,
			DestChannel:    p.DestChannel,
			Status:         status,
		})
	}
	return out
}

// AckStatus decodes an ICS-20 acknowledgement: {"result":...} is success,
// {"error":...} is failure.
func AckStatus(raw string) model.IbcAckStatus {
	var ack map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &ack); err != nil {
		return model.IbcAckStatusUnknown
	}
	if _, ok := ack["result"]; ok {
		return model.IbcAckStatusSuccess
	}
	if _, ok := ack["error"]; ok {
		return model.IbcAckStatusFail
	}
	return model.IbcAckStatusUnknown
}

// TokenFlows extracts ICS-20 token movements from the packet events of result.
func (c *Correlator) TokenFlows(result *event.BlockResult) []model.IbcTokenFlow {
	var out []model.IbcTokenFlow
	for i, ev := range result.EndEvents {
		if ev.Packet == nil {
			continue
		}

		var action model.IbcTokenAction
		switch ev.Kind {
		case event.EventKindSendPacket:
			action = model.IbcTokenActionWithdraw
		case event.EventKindRecvPacket:
			action = model.IbcTokenActionDeposit
		default:
			continue
		}

		data, ok := ev.Packet.FungibleTokenPacket()
		if !ok {
			continue
		}

		var (
			denom string
			err   error
		)
		if action == model.IbcTokenActionWithdraw {
			denom, err = DenomSent(data.Denom)
		} else {
			p := ev.Packet
			denom, err = DenomReceived(data.Denom, p.SourcePort, p.SourceChannel, p.DestPort, p.DestChannel)
		}
		if err != nil {
			metrics.IbcTokenFlowsDropped.Inc()
			c.logger.Debug("skipping ibc token flow",
				"height", result.Height,
				"event_index", i,
				"packet_id", ev.Packet.ID(),
				"error", err,
			)
			continue
		}

		out = append(out, model.IbcTokenFlow{
			BlockHeight: result.Height,
			EventIndex:  i,
			Action:      action,
			Denom:       denom,
			Amount:      data.Amount,
		})
	}
	return out
}
