// Copyright 2025 Certen Protocol
//
// Contract-state snapshot persistence: lets a long-running validator
// daemon resume a contract's evolving state across restarts instead of
// replaying every witness from genesis. Grounded on the teacher's
// pkg/ledger KV interface and key-prefix-constant layout, backed by the
// cometbft-db adapter pkg/kvdb wraps.

package store

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/certen/contract-validator/pkg/contract"
	"github.com/certen/contract-validator/pkg/validator"
)

// KV defines the key-value store interface this package depends on;
// pkg/kvdb.KVAdapter implements it.
type KV interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
}

// ErrNotFound is returned when no snapshot exists for a contract id.
var ErrNotFound = errors.New("store: no snapshot for this contract id")

var keyContractStatePrefix = []byte("certen:contractstate:")

func contractStateKey(id contract.ContractId) []byte {
	b := id.Bytes()
	encoded := hex.EncodeToString(b[:])
	return append(append([]byte{}, keyContractStatePrefix...), encoded...)
}

// ContractStateStore persists ContractState snapshots keyed by ContractId.
//
// CONCURRENCY: ContractStateStore assumes single-writer
// access; a validator run owns its ContractState exclusively while
// Extend walks the operation graph, and Save is expected to be called
// only after a run completes.
type ContractStateStore struct {
	kv KV
}

// NewContractStateStore creates a ContractStateStore over the given KV backend.
func NewContractStateStore(kv KV) *ContractStateStore {
	return &ContractStateStore{kv: kv}
}

// Save persists a contract's full state as a single snapshot value.
func (s *ContractStateStore) Save(state *validator.ContractState) error {
	if err := s.kv.Set(contractStateKey(state.ContractId), state.MarshalSnapshot()); err != nil {
		return fmt.Errorf("store: save contract state %s: %w", state.ContractId, err)
	}
	return nil
}

// Load retrieves a previously saved contract state. It returns ErrNotFound
// if no snapshot has ever been saved for this contract id.
func (s *ContractStateStore) Load(id contract.ContractId) (*validator.ContractState, error) {
	b, err := s.kv.Get(contractStateKey(id))
	if err != nil {
		return nil, fmt.Errorf("store: load contract state %s: %w", id, err)
	}
	if len(b) == 0 {
		return nil, ErrNotFound
	}
	state, err := validator.UnmarshalSnapshot(b)
	if err != nil {
		return nil, fmt.Errorf("store: decode contract state %s: %w", id, err)
	}
	return state, nil
}
