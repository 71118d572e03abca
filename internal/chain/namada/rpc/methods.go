package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/joel-u410/namada-indexer/internal/domain/event"
)

// ErrBlockNotAvailable is returned for heights the node has not produced yet.
var ErrBlockNotAvailable = errors.New("block not available")

func (c *Client) Status(ctx context.Context) (*Status, error) {
	result, err := c.call(ctx, "status", nil)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	var status Status
	if err := json.Unmarshal(result, &status); err != nil {
		return nil, fmt.Errorf("unmarshal status: %w", err)
	}
	return &status, nil
}

func (c *Client) LatestHeight(ctx context.Context) (int64, error) {
	status, err := c.Status(ctx)
	if err != nil {
		return 0, err
	}
	return status.LatestBlockHeight, nil
}

// Block returns the decoded block JSON at height.
func (c *Client) Block(ctx context.Context, height int64) (json.RawMessage, error) {
	result, err := c.call(ctx, "block", []interface{}{height})
	if err != nil {
		return nil, fmt.Errorf("block(%d): %w", height, err)
	}
	if isNull(result) {
		return nil, fmt.Errorf("block(%d): %w", height, ErrBlockNotAvailable)
	}
	return result, nil
}

// BlockResults returns the end events and per-transaction results at height.
func (c *Client) BlockResults(ctx context.Context, height int64) (json.RawMessage, error) {
	result, err := c.call(ctx, "block_results", []interface{}{height})
	if err != nil {
		return nil, fmt.Errorf("block_results(%d): %w", height, err)
	}
	if isNull(result) {
		return nil, fmt.Errorf("block_results(%d): %w", height, ErrBlockNotAvailable)
	}
	return result, nil
}

// FetchBlock fetches both payloads of height. The epoch is taken from the
// block header when present.
func (c *Client) FetchBlock(ctx context.Context, height int64) (*event.RawBlock, error) {
	block, err := c.Block(ctx, height)
	if err != nil {
		return nil, err
	}
	results, err := c.BlockResults(ctx, height)
	if err != nil {
		return nil, err
	}

	var header blockHeader
	if err := json.Unmarshal(block, &header); err != nil {
		return nil, fmt.Errorf("%w: height %d: decode block header: %v", event.ErrMalformedBlock, height, err)
	}

	return &event.RawBlock{
		Height:      height,
		Epoch:       header.Epoch,
		Block:       block,
		BlockResult: results,
	}, nil
}

// Checksums asks the node for the code hash of each code file name. Names
// the node does not know are omitted from the result.
func (c *Client) Checksums(ctx context.Context, codePaths []string) (map[string]string, error) {
	result, err := c.call(ctx, "checksums", []interface{}{codePaths})
	if err != nil {
		return nil, fmt.Errorf("checksums: %w", err)
	}

	var raw map[string]*string
	if err := json.Unmarshal(result, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal checksums: %w", err)
	}

	out := make(map[string]string, len(raw))
	for name, hash := range raw {
		if hash == nil || *hash == "" {
			continue
		}
		out[name] = *hash
	}
	return out, nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
