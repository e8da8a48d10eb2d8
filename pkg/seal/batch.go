// Copyright 2025 Certen Protocol

package seal

import "github.com/google/uuid"

// BatchID correlates one witness's bundle of transitions across a daemon's
// log lines and metrics, the way the teacher correlates attestation rounds
// with a uuid (pkg/attestation/strategy).
type BatchID uuid.UUID

func (b BatchID) String() string { return uuid.UUID(b).String() }

// NewBatchID mints a fresh correlation id for one witness/bundle pair.
func NewBatchID() BatchID { return BatchID(uuid.New()) }
