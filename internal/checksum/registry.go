package checksum

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// CodeSuffix is stripped from code file names before they are stored.
const CodeSuffix = ".wasm"

// Registry resolves code hashes to transaction kind names. The current table
// is a bijection between names and hashes; the fallback table holds hashes of
// code retired by past upgrades and is never modified.
type Registry struct {
	mu         sync.RWMutex
	nameToHash map[string]string
	hashToName map[string]string
	fallback   map[string]string
}

// NewRegistry creates a registry with an empty current table.
func NewRegistry(fallback map[string]string) *Registry {
	fb := make(map[string]string, len(fallback))
	for hash, name := range fallback {
		fb[hash] = name
	}
	return &Registry{
		nameToHash: make(map[string]string),
		hashToName: make(map[string]string),
		fallback:   fb,
	}
}

// Resolve returns the kind name for hash, checking the current table first.
func (r *Registry) Resolve(hash string) (string, bool) {
	hash = strings.ToLower(hash)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name, ok := r.hashToName[hash]; ok {
		return name, true
	}
	name, ok := r.fallback[hash]
	return name, ok
}

// HashOf returns the current hash registered for name.
func (r *Registry) HashOf(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hash, ok := r.nameToHash[name]
	return hash, ok
}

// Register stores hash under name with the ".wasm" suffix removed. A name
// without the suffix is a caller bug and panics.
func (r *Registry) Register(nameWithSuffix, hash string) {
	name, ok := strings.CutSuffix(nameWithSuffix, CodeSuffix)
	if !ok {
		panic(fmt.Sprintf("checksum: code name %q does not end in %q", nameWithSuffix, CodeSuffix))
	}
	r.RegisterWithExt(name, hash)
}

// RegisterWithExt stores hash under name as given. Any existing pair sharing
// the name or the hash is removed first so both directions stay in sync.
func (r *Registry) RegisterWithExt(name, hash string) {
	hash = strings.ToLower(hash)
	r.mu.Lock()
	defer r.mu.Unlock()
	insertPair(r.nameToHash, r.hashToName, name, hash)
}

// Replace swaps the current table for seed (file name with suffix -> hash).
// The table is left untouched if any entry is invalid.
func (r *Registry) Replace(seed map[string]string) error {
	nameToHash := make(map[string]string, len(seed))
	hashToName := make(map[string]string, len(seed))

	files := make([]string, 0, len(seed))
	for file := range seed {
		files = append(files, file)
	}
	sort.Strings(files)

	for _, file := range files {
		name, ok := strings.CutSuffix(file, CodeSuffix)
		if !ok {
			return fmt.Errorf("checksum seed entry %q does not end in %q", file, CodeSuffix)
		}
		hash := strings.ToLower(strings.TrimSpace(seed[file]))
		if hash == "" {
			return fmt.Errorf("checksum seed entry %q has an empty hash", file)
		}
		insertPair(nameToHash, hashToName, name, hash)
	}

	r.mu.Lock()
	r.nameToHash = nameToHash
	r.hashToName = hashToName
	r.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current table keyed by file name.
func (r *Registry) Snapshot() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.nameToHash))
	for name, hash := range r.nameToHash {
		out[name+CodeSuffix] = hash
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nameToHash)
}

func insertPair(nameToHash, hashToName map[string]string, name, hash string) {
	if oldHash, ok := nameToHash[name]; ok {
		delete(hashToName, oldHash)
	}
	if oldName, ok := hashToName[hash]; ok {
		delete(nameToHash, oldName)
	}
	nameToHash[name] = hash
	hashToName[hash] = name
}

// CodePaths lists the code files whose hashes the node publishes for the
// transaction kinds this indexer understands.
func CodePaths() []string {
	return []string{
		"tx_ibc.wasm",
		"tx_reveal_pk.wasm",
		"tx_transfer.wasm",
		"tx_bond.wasm",
		"tx_redelegate.wasm",
		"tx_unbond.wasm",
		"tx_withdraw.wasm",
		"tx_claim_rewards.wasm",
		"tx_vote_proposal.wasm",
		"tx_init_proposal.wasm",
		"tx_change_validator_metadata.wasm",
		"tx_change_validator_commission.wasm",
		"tx_become_validator.wasm",
		"tx_init_account.wasm",
		"tx_unjail_validator.wasm",
		"tx_deactivate_validator.wasm",
		"tx_reactivate_validator.wasm",
		"tx_update_account.wasm",
		"tx_bridge_pool.wasm",
		"tx_change_consensus_key.wasm",
		"tx_resign_steward.wasm",
		"tx_update_steward_commission.wasm",
	}
}
