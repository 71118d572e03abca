package checksum

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/joel-u410/namada-indexer/internal/domain/model"
)

// fallback.json maps network -> retired code hash -> kind name. Append new
// entries there when a chain upgrade retires code.
//
//go:embed fallback.json
var fallbackJSON []byte

// LoadFallback returns the historical hash -> name table for the given
// networks. With no networks, every network's entries are merged.
func LoadFallback(networks ...model.Network) (map[string]string, error) {
	var all map[string]map[string]string
	if err := json.Unmarshal(fallbackJSON, &all); err != nil {
		return nil, fmt.Errorf("decode fallback checksums: %w", err)
	}

	if len(networks) == 0 {
		for network := range all {
			networks = append(networks, model.Network(network))
		}
		sort.Slice(networks, func(i, j int) bool { return networks[i] < networks[j] })
	}

	out := make(map[string]string)
	for _, network := range networks {
		entries, ok := all[network.String()]
		if !ok {
			return nil, fmt.Errorf("no fallback checksums for network %q", network)
		}
		for hash, name := range entries {
			if existing, dup := out[hash]; dup && existing != name {
				return nil, fmt.Errorf("fallback hash %s maps to both %s and %s", hash, existing, name)
			}
			out[hash] = name
		}
	}
	return out, nil
}
