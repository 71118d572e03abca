package event

import "encoding/json"

// RawBlock contains the block and block-results payloads fetched for one height.
type RawBlock struct {
	Height      int64
	Epoch       *int64
	Block       json.RawMessage // decoded block JSON from the node gateway
	BlockResult json.RawMessage // block_results JSON from the node gateway
}
