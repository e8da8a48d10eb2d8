// Copyright 2025 Certen Protocol
//
// KVAdapter wraps CometBFT's dbm.DB to implement pkg/store.KV, the narrow
// key-value interface ContractStateStore depends on.

package kvdb

import (
	dbm "github.com/cometbft/cometbft-db"
)

// KVAdapter wraps a CometBFT dbm.DB and exposes pkg/store's KV interface,
// letting ContractStateStore use CometBFT's persistent storage directly.
type KVAdapter struct {
	db dbm.DB
}

// NewKVAdapter creates a new KVAdapter for the given underlying DB.
func NewKVAdapter(db dbm.DB) *KVAdapter {
	return &KVAdapter{db: db}
}

// Get implements store.KV.Get.
func (a *KVAdapter) Get(key []byte) ([]byte, error) {
	if a.db == nil {
		return nil, nil
	}

	// v may be nil if the key isn't present; store.KV treats nil as "not present".
	v, err := a.db.Get(key)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Set implements store.KV.Set.
func (a *KVAdapter) Set(key, value []byte) error {
	if a.db == nil {
		return nil
	}

	// SetSync for durable writes at commit time.
	return a.db.SetSync(key, value)
}