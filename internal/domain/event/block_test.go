package event

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/joel-u410/namada-indexer/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadRawBlock(t *testing.T, height int64) RawBlock {
	t.Helper()
	block, err := os.ReadFile(filepath.Join("testdata", "block_100.json"))
	require.NoError(t, err)
	results, err := os.ReadFile(filepath.Join("testdata", "block_results_100.json"))
	require.NoError(t, err)
	return RawBlock{Height: height, Block: block, BlockResult: results}
}

func TestDecode_Fixture(t *testing.T) {
	block, result, err := Decode(loadRawBlock(t, 100))
	require.NoError(t, err)

	assert.Equal(t, int64(100), block.Height)
	assert.Equal(t, "A1B2C3", block.Hash)
	require.NotNil(t, block.Epoch)
	assert.Equal(t, int64(7), *block.Epoch)
	require.Len(t, block.Transactions, 1)

	wrapper := block.Transactions[0].Wrapper
	assert.Equal(t, model.ExitStatusApplied, wrapper.ExitCode)
	assert.Equal(t, uint64(2), wrapper.TotalSignatures)
	assert.Equal(t, uint64(812), wrapper.Size)
	assert.Equal(t, int64(100), wrapper.BlockHeight)
	assert.True(t, wrapper.Atomic)
	assert.Equal(t, "tnam1payer", wrapper.Fee.GasPayer)

	inners := block.Transactions[0].Inners
	require.Len(t, inners, 2)
	assert.Equal(t, "cafe", inners[0].CodeHash)
	assert.Equal(t, wrapper.ID, inners[0].Tx.WrapperID)
	assert.Equal(t, model.ExitStatusApplied, inners[0].Tx.ExitCode)
	assert.JSONEq(t, `{"validator":"tnam1validator","amount":"10"}`, string(inners[0].Tx.Data))
	assert.Equal(t, []byte{0x00, 0xff}, inners[0].Tx.ExtraSections["abcd"])
	require.NotNil(t, inners[0].Tx.Memo)
	assert.Equal(t, "hello", *inners[0].Tx.Memo)

	assert.Nil(t, inners[1].Tx.Data)
	assert.Equal(t, model.ExitStatusRejected, inners[1].Tx.ExitCode)
	assert.Equal(t, uint64(2), inners[1].Tx.Notes)

	require.Len(t, result.EndEvents, 2)
	send := result.EndEvents[0]
	assert.Equal(t, EventKindSendPacket, send.Kind)
	require.NotNil(t, send.InnerTxHash)
	require.NotNil(t, send.Packet)
	assert.Equal(t, "transfer/channel-0/transfer/channel-9/5", send.Packet.ID())
	assert.Equal(t, uint64(1733050000000000000), send.Packet.TimeoutTimestamp)
	assert.Nil(t, result.EndEvents[1].Packet)
}

func TestDecode_Malformed(t *testing.T) {
	good := loadRawBlock(t, 100)

	tests := []struct {
		name   string
		mutate func(raw *RawBlock)
	}{
		{
			name:   "block not json",
			mutate: func(raw *RawBlock) { raw.Block = json.RawMessage(`{`) },
		},
		{
			name:   "results not json",
			mutate: func(raw *RawBlock) { raw.BlockResult = json.RawMessage(`[1,2`) },
		},
		{
			name:   "height mismatch",
			mutate: func(raw *RawBlock) { raw.Height = 101 },
		},
		{
			name: "missing wrapper result",
			mutate: func(raw *RawBlock) {
				raw.BlockResult = json.RawMessage(`{"height":100,"end_events":[],"tx_results":{}}`)
			},
		},
		{
			name: "send packet without sequence",
			mutate: func(raw *RawBlock) {
				var doc map[string]any
				require.NoError(t, json.Unmarshal(raw.BlockResult, &doc))
				events := doc["end_events"].([]any)
				attrs := events[0].(map[string]any)["attributes"].(map[string]any)
				delete(attrs, "packet_sequence")
				out, err := json.Marshal(doc)
				require.NoError(t, err)
				raw.BlockResult = out
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := good
			tt.mutate(&raw)
			_, _, err := Decode(raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedBlock)
		})
	}
}

func TestProcessedBlock_Flatten(t *testing.T) {
	pb := ProcessedBlock{
		Transactions: []model.WrapperWithInners{
			{Wrapper: model.WrapperTransaction{ID: "w1"}, Inners: []model.InnerTransaction{{ID: "i1"}, {ID: "i2"}}},
			{Wrapper: model.WrapperTransaction{ID: "w2"}, Inners: []model.InnerTransaction{{ID: "i3"}}},
		},
	}
	assert.Len(t, pb.Wrappers(), 2)
	inners := pb.Inners()
	require.Len(t, inners, 3)
	assert.Equal(t, "i3", inners[2].ID)
}
