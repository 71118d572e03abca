package model

import (
	"encoding/json"
	"fmt"
)

// PacketID formats the identity of a packet as
// "{source_port}/{source_channel}/{dest_port}/{dest_channel}/{sequence}".
func PacketID(sourcePort, sourceChannel, destPort, destChannel, sequence string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", sourcePort, sourceChannel, destPort, destChannel, sequence)
}

// IbcPacket is a packet as carried by block events and IBC envelopes.
type IbcPacket struct {
	Sequence         string `json:"sequence"`
	SourcePort       string `json:"source_port"`
	SourceChannel    string `json:"source_channel"`
	DestPort         string `json:"dest_port"`
	DestChannel      string `json:"dest_channel"`
	TimeoutTimestamp uint64 `json:"timeout_timestamp"`
	TimeoutHeight    string `json:"timeout_height"`
	Data             string `json:"data"`
}

func (p IbcPacket) ID() string {
	return PacketID(p.SourcePort, p.SourceChannel, p.DestPort, p.DestChannel, p.Sequence)
}

// FungibleTokenPacketData is the ICS-20 packet payload.
type FungibleTokenPacketData struct {
	Denom    string `json:"denom"`
	Amount   string `json:"amount"`
	Sender   string `json:"sender"`
	Receiver string `json:"receiver"`
	Memo     string `json:"memo,omitempty"`
}

// FungibleTokenPacket decodes the packet data as an ICS-20 payload. It
// returns false for non-token packets.
func (p IbcPacket) FungibleTokenPacket() (FungibleTokenPacketData, bool) {
	var data FungibleTokenPacketData
	if p.Data == "" {
		return data, false
	}
	if err := json.Unmarshal([]byte(p.Data), &data); err != nil {
		return data, false
	}
	if data.Denom == "" || data.Amount == "" {
		return data, false
	}
	return data, true
}

type IbcMessageType string

const (
	IbcMessageTransfer       IbcMessageType = "transfer"
	IbcMessageRecvPacket     IbcMessageType = "recv_packet"
	IbcMessageAckPacket      IbcMessageType = "ack_packet"
	IbcMessageTimeout        IbcMessageType = "timeout_packet"
	IbcMessageTimeoutOnClose IbcMessageType = "timeout_on_close"
)

// IbcTransferMsg is an outbound ICS-20 transfer submitted on this chain.
type IbcTransferMsg struct {
	SourcePort    string                  `json:"source_port"`
	SourceChannel string                  `json:"source_channel"`
	Packet        FungibleTokenPacketData `json:"packet_data"`
	Transfer      *TransferData           `json:"transfer,omitempty"`
}

// IbcMessage is the decoded envelope of a tx_ibc inner transaction. Types
// other than the constants above are kept and classified as IbcMsg.
type IbcMessage struct {
	Type            IbcMessageType  `json:"type"`
	Packet          *IbcPacket      `json:"packet,omitempty"`
	Acknowledgement string          `json:"acknowledgement,omitempty"`
	Transfer        *IbcTransferMsg `json:"transfer,omitempty"`
	Token           *Token          `json:"token,omitempty"`
	Recv            *TransferData   `json:"recv_transfer,omitempty"`
}

type IbcAckStatus string

const (
	IbcAckStatusSuccess IbcAckStatus = "success"
	IbcAckStatusFail    IbcAckStatus = "fail"
	IbcAckStatusUnknown IbcAckStatus = "unknown"
	IbcAckStatusTimeout IbcAckStatus = "timeout"
)

// IbcSequence is one outbound packet send and the transaction that caused it.
type IbcSequence struct {
	SequenceNumber string `db:"sequence_number"`
	SourcePort     string `db:"source_port"`
	SourceChannel  string `db:"source_channel"`
	DestPort       string `db:"dest_port"`
	DestChannel    string `db:"dest_channel"`
	Timeout        uint64 `db:"timeout"`
	TxID           string `db:"tx_id"`
}

func (s IbcSequence) ID() string {
	return PacketID(s.SourcePort, s.SourceChannel, s.DestPort, s.DestChannel, s.SequenceNumber)
}

// IbcAck is the resolution of a previously sent packet.
type IbcAck struct {
	SequenceNumber string       `db:"sequence_number"`
	SourcePort     string       `db:"source_port"`
	SourceChannel  string       `db:"source_channel"`
	DestPort       string       `db:"dest_port"`
	DestChannel    string       `db:"dest_channel"`
	Status         IbcAckStatus `db:"status"`
}

func (a IbcAck) ID() string {
	return PacketID(a.SourcePort, a.SourceChannel, a.DestPort, a.DestChannel, a.SequenceNumber)
}

// IbcAckRecord is a persisted packet lifecycle row.
type IbcAckRecord struct {
	ID      string       `db:"id"`
	TxHash  string       `db:"tx_hash"`
	Timeout uint64       `db:"timeout"`
	Status  IbcAckStatus `db:"status"`
}

type IbcTokenAction string

const (
	IbcTokenActionWithdraw IbcTokenAction = "withdraw"
	IbcTokenActionDeposit  IbcTokenAction = "deposit"
)

// IbcTokenFlow is a fungible token moving across the chain boundary.
type IbcTokenFlow struct {
	BlockHeight int64          `db:"block_height"`
	EventIndex  int            `db:"event_index"`
	Action      IbcTokenAction `db:"action"`
	Denom       string         `db:"denom"`
	Amount      string         `db:"amount"`
}
