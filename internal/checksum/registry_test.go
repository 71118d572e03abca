package checksum

import (
	"testing"

	"github.com/joel-u410/namada-indexer/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterStripsSuffix(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("tx_transfer.wasm", "AAAA")

	name, ok := r.Resolve("aaaa")
	require.True(t, ok)
	assert.Equal(t, "tx_transfer", name)

	hash, ok := r.HashOf("tx_transfer")
	require.True(t, ok)
	assert.Equal(t, "aaaa", hash)

	_, ok = r.HashOf("tx_transfer.wasm")
	assert.False(t, ok)
}

func TestRegistry_RegisterPanicsWithoutSuffix(t *testing.T) {
	r := NewRegistry(nil)
	assert.Panics(t, func() { r.Register("tx_transfer", "aaaa") })
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_RegisterWithExtKeepsName(t *testing.T) {
	r := NewRegistry(nil)
	r.RegisterWithExt("tx_bond.wasm", "bbbb")

	name, ok := r.Resolve("bbbb")
	require.True(t, ok)
	assert.Equal(t, "tx_bond.wasm", name)
}

func TestRegistry_Bijection(t *testing.T) {
	tests := []struct {
		name       string
		register   [][2]string
		wantHashes map[string]string
		gone       []string
	}{
		{
			name:       "new hash for existing name drops old hash",
			register:   [][2]string{{"tx_bond", "h1"}, {"tx_bond", "h2"}},
			wantHashes: map[string]string{"tx_bond": "h2"},
			gone:       []string{"h1"},
		},
		{
			name:       "existing hash under new name drops old name",
			register:   [][2]string{{"tx_bond", "h1"}, {"tx_unbond", "h1"}},
			wantHashes: map[string]string{"tx_unbond": "h1"},
		},
		{
			name:       "re-registering the same pair is a no-op",
			register:   [][2]string{{"tx_bond", "h1"}, {"tx_bond", "h1"}},
			wantHashes: map[string]string{"tx_bond": "h1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(nil)
			for _, pair := range tt.register {
				r.RegisterWithExt(pair[0], pair[1])
			}
			assert.Equal(t, len(tt.wantHashes), r.Len())
			for name, hash := range tt.wantHashes {
				got, ok := r.HashOf(name)
				require.True(t, ok, name)
				assert.Equal(t, hash, got)
				resolved, ok := r.Resolve(hash)
				require.True(t, ok, hash)
				assert.Equal(t, name, resolved)
			}
			for _, hash := range tt.gone {
				_, ok := r.Resolve(hash)
				assert.False(t, ok, hash)
			}
		})
	}
}

func TestRegistry_FallbackUsedOnlyWhenCurrentMisses(t *testing.T) {
	r := NewRegistry(map[string]string{
		"old": "tx_transfer",
		"cur": "tx_stale",
	})
	r.RegisterWithExt("tx_ibc", "cur")

	name, ok := r.Resolve("old")
	require.True(t, ok)
	assert.Equal(t, "tx_transfer", name)

	name, ok = r.Resolve("cur")
	require.True(t, ok)
	assert.Equal(t, "tx_ibc", name)

	_, ok = r.Resolve("missing")
	assert.False(t, ok)

	// fallback entries are never part of the current table
	_, ok = r.HashOf("tx_transfer")
	assert.False(t, ok)
}

func TestRegistry_Replace(t *testing.T) {
	r := NewRegistry(nil)
	r.RegisterWithExt("tx_old", "zzzz")

	err := r.Replace(map[string]string{
		"tx_transfer.wasm": " AAAA ",
		"tx_ibc.wasm":      "bbbb",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, r.Len())
	_, ok := r.Resolve("zzzz")
	assert.False(t, ok)
	name, ok := r.Resolve("aaaa")
	require.True(t, ok)
	assert.Equal(t, "tx_transfer", name)

	assert.Equal(t, map[string]string{
		"tx_transfer.wasm": "aaaa",
		"tx_ibc.wasm":      "bbbb",
	}, r.Snapshot())
}

func TestRegistry_ReplaceRejectsInvalidSeed(t *testing.T) {
	tests := []struct {
		name string
		seed map[string]string
	}{
		{name: "missing suffix", seed: map[string]string{"tx_transfer": "aaaa"}},
		{name: "empty hash", seed: map[string]string{"tx_transfer.wasm": "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(nil)
			r.RegisterWithExt("tx_bond", "h1")

			require.Error(t, r.Replace(tt.seed))

			name, ok := r.Resolve("h1")
			require.True(t, ok)
			assert.Equal(t, "tx_bond", name)
		})
	}
}

func TestLoadFallback(t *testing.T) {
	mainnet, err := LoadFallback(model.NetworkMainnet)
	require.NoError(t, err)
	assert.Equal(t, "tx_transfer", mainnet["6d753db0390e7cec16729fc405bfe41384c93bd79f42b8b8be41b22edbbf1b7c"])

	all, err := LoadFallback()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(all), len(mainnet))
	for hash, name := range mainnet {
		assert.Equal(t, name, all[hash])
	}

	_, err = LoadFallback(model.Network("unknownnet"))
	require.Error(t, err)
}

func TestCodePaths_AllCarrySuffix(t *testing.T) {
	seen := make(map[string]bool)
	for _, path := range CodePaths() {
		assert.True(t, len(path) > len(CodeSuffix), path)
		assert.Equal(t, CodeSuffix, path[len(path)-len(CodeSuffix):], path)
		assert.False(t, seen[path], "duplicate %s", path)
		seen[path] = true
	}
}
