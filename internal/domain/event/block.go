package event

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/joel-u410/namada-indexer/internal/domain/model"
)

// ErrMalformedBlock marks payloads that cannot be decoded. Processing must halt
// on these rather than skip the block.
var ErrMalformedBlock = errors.New("malformed block payload")

type EventKind string

const (
	EventKindSendPacket           EventKind = "send_packet"
	EventKindRecvPacket           EventKind = "recv_packet"
	EventKindWriteAcknowledgement EventKind = "write_acknowledgement"
	EventKindAcknowledgePacket    EventKind = "acknowledge_packet"
	EventKindTimeoutPacket        EventKind = "timeout_packet"
	EventKindFungibleTokenPacket  EventKind = "fungible_token_packet"
)

// IsPacket reports whether events of this kind carry packet_* attributes.
func (k EventKind) IsPacket() bool {
	switch k {
	case EventKindSendPacket, EventKindRecvPacket, EventKindWriteAcknowledgement,
		EventKindAcknowledgePacket, EventKindTimeoutPacket:
		return true
	}
	return false
}

// Event is an end-of-block event. Packet is set for packet events.
type Event struct {
	Kind        EventKind
	InnerTxHash *string
	Attributes  map[string]string
	Packet      *model.IbcPacket
}

// Block is a decoded block with its transactions joined to their results.
type Block struct {
	Height       int64
	Hash         string
	Time         time.Time
	Epoch        *int64
	Transactions []BlockTx
}

// BlockTx is a wrapper and its batch before classification.
type BlockTx struct {
	Wrapper model.WrapperTransaction
	Inners  []InnerTxPayload
}

// InnerTxPayload is an inner transaction skeleton plus the code hash used to
// classify it.
type InnerTxPayload struct {
	Tx       model.InnerTransaction
	CodeHash string
}

// BlockResult holds the end-of-block events.
type BlockResult struct {
	Height    int64
	EndEvents []Event
}

type blockJSON struct {
	Height       int64           `json:"height"`
	Hash         string          `json:"hash"`
	Time         time.Time       `json:"time"`
	Epoch        *int64          `json:"epoch,omitempty"`
	Transactions []wrapperTxJSON `json:"transactions"`
}

type wrapperTxJSON struct {
	ID         string        `json:"id"`
	Index      int           `json:"index"`
	Fee        model.Fee     `json:"fee"`
	Atomic     bool          `json:"atomic"`
	Signatures uint64        `json:"signatures"`
	Size       uint64        `json:"size"`
	Inner      []innerTxJSON `json:"inner"`
}

type innerTxJSON struct {
	ID            string            `json:"id"`
	Index         int               `json:"index"`
	CodeHash      string            `json:"code_hash"`
	Data          json.RawMessage   `json:"data"`
	Memo          *string           `json:"memo,omitempty"`
	ExtraSections map[string]string `json:"extra_sections,omitempty"`
	Notes         uint64            `json:"notes"`
}

type blockResultJSON struct {
	Height    int64                   `json:"height"`
	EndEvents []eventJSON             `json:"end_events"`
	TxResults map[string]txResultJSON `json:"tx_results"`
}

type eventJSON struct {
	Kind        string            `json:"kind"`
	InnerTxHash *string           `json:"inner_tx_hash,omitempty"`
	Attributes  map[string]string `json:"attributes"`
}

type txResultJSON struct {
	ExitCode string            `json:"exit_code"`
	Inner    map[string]string `json:"inner"`
}

// Decode parses both payloads of a RawBlock. Every failure wraps
// ErrMalformedBlock.
func Decode(raw RawBlock) (*Block, *BlockResult, error) {
	var bj blockJSON
	if err := json.Unmarshal(raw.Block, &bj); err != nil {
		return nil, nil, fmt.Errorf("%w: height %d: decode block: %v", ErrMalformedBlock, raw.Height, err)
	}
	var rj blockResultJSON
	if err := json.Unmarshal(raw.BlockResult, &rj); err != nil {
		return nil, nil, fmt.Errorf("%w: height %d: decode block results: %v", ErrMalformedBlock, raw.Height, err)
	}
	if bj.Height != raw.Height {
		return nil, nil, fmt.Errorf("%w: block height %d does not match requested %d", ErrMalformedBlock, bj.Height, raw.Height)
	}
	if rj.Height != 0 && rj.Height != raw.Height {
		return nil, nil, fmt.Errorf("%w: block results height %d does not match requested %d", ErrMalformedBlock, rj.Height, raw.Height)
	}

	block := &Block{
		Height: bj.Height,
		Hash:   bj.Hash,
		Time:   bj.Time,
		Epoch:  bj.Epoch,
	}
	if block.Epoch == nil {
		block.Epoch = raw.Epoch
	}

	for _, w := range bj.Transactions {
		if w.ID == "" {
			return nil, nil, fmt.Errorf("%w: height %d: wrapper at index %d has no id", ErrMalformedBlock, raw.Height, w.Index)
		}
		result, ok := rj.TxResults[w.ID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: height %d: no result for wrapper %s", ErrMalformedBlock, raw.Height, w.ID)
		}

		tx := BlockTx{
			Wrapper: model.WrapperTransaction{
				ID:              w.ID,
				Fee:             w.Fee,
				Atomic:          w.Atomic,
				ExitCode:        model.ParseExitStatus(result.ExitCode),
				BlockHeight:     bj.Height,
				Index:           w.Index,
				TotalSignatures: w.Signatures,
				Size:            w.Size,
			},
			Inners: make([]InnerTxPayload, 0, len(w.Inner)),
		}

		for _, in := range w.Inner {
			if in.ID == "" {
				return nil, nil, fmt.Errorf("%w: height %d: inner tx %d of wrapper %s has no id", ErrMalformedBlock, raw.Height, in.Index, w.ID)
			}
			sections, err := decodeSections(in.ExtraSections)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: height %d: inner tx %s: %v", ErrMalformedBlock, raw.Height, in.ID, err)
			}
			// Inner results are absent for batches the protocol never executed.
			exit := model.ExitStatusRejected
			if code, ok := result.Inner[in.ID]; ok {
				exit = model.ParseExitStatus(code)
			}
			var data []byte
			if len(in.Data) > 0 && string(in.Data) != "null" {
				data = []byte(in.Data)
			}
			tx.Inners = append(tx.Inners, InnerTxPayload{
				CodeHash: in.CodeHash,
				Tx: model.InnerTransaction{
					ID:            in.ID,
					WrapperID:     w.ID,
					Index:         in.Index,
					Data:          data,
					ExtraSections: sections,
					Memo:          in.Memo,
					Notes:         in.Notes,
					ExitCode:      exit,
				},
			})
		}
		block.Transactions = append(block.Transactions, tx)
	}

	result := &BlockResult{Height: raw.Height}
	for i, ej := range rj.EndEvents {
		ev := Event{
			Kind:        EventKind(ej.Kind),
			InnerTxHash: ej.InnerTxHash,
			Attributes:  ej.Attributes,
		}
		if ev.Kind.IsPacket() {
			packet, err := parsePacketAttributes(ej.Attributes)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: height %d: end event %d (%s): %v", ErrMalformedBlock, raw.Height, i, ej.Kind, err)
			}
			ev.Packet = packet
		}
		result.EndEvents = append(result.EndEvents, ev)
	}

	return block, result, nil
}

func decodeSections(raw map[string]string) (map[string][]byte, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string][]byte, len(raw))
	for hash, body := range raw {
		decoded, err := hex.DecodeString(body)
		if err != nil {
			return nil, fmt.Errorf("extra section %s: %w", hash, err)
		}
		out[hash] = decoded
	}
	return out, nil
}

func parsePacketAttributes(attrs map[string]string) (*model.IbcPacket, error) {
	required := []string{
		"packet_sequence",
		"packet_src_port",
		"packet_src_channel",
		"packet_dst_port",
		"packet_dst_channel",
	}
	for _, key := range required {
		if attrs[key] == "" {
			return nil, fmt.Errorf("missing attribute %s", key)
		}
	}

	var timeout uint64
	if raw := attrs["packet_timeout_timestamp"]; raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("packet_timeout_timestamp: %w", err)
		}
		timeout = v
	}

	return &model.IbcPacket{
		Sequence:         attrs["packet_sequence"],
		SourcePort:       attrs["packet_src_port"],
		SourceChannel:    attrs["packet_src_channel"],
		DestPort:         attrs["packet_dst_port"],
		DestChannel:      attrs["packet_dst_channel"],
		TimeoutTimestamp: timeout,
		TimeoutHeight:    attrs["packet_timeout_height"],
		Data:             attrs["packet_data"],
	}, nil
}
