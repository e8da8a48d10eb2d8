// Copyright 2025 Certen Protocol
//
// ContractState is the validator's sole mutable state: the FIFO-windowed
// global-state history and the unspent map (spec section 4.7). It is
// owned exclusively by the validator during a run: Extend updates the
// caller's *ContractState in place (design notes, "global mutable state").

package validator

import (
	"github.com/certen/contract-validator/pkg/contract"
	"github.com/certen/contract-validator/pkg/schema"
	"github.com/certen/contract-validator/pkg/types"
)

// MaxUnspent is the hard cap on the unspent map's size (spec section 4.7):
// exceeding it reports FailureTooManyUnspent, on the assumption that a
// contract this large is expected to compress its state via zk-STARK
// before reaching the bound.
const MaxUnspent = 1 << 24

type globalRecord struct {
	opid     contract.OpId
	position int
	value    contract.GlobalValue
}

// ContractState is the contract's evolving state as the validator walks
// its operation graph: the FIFO-windowed global-state history and the
// Opout -> Assignment unspent map.
type ContractState struct {
	ContractId contract.ContractId
	SchemaId   contract.SchemaId

	global       map[types.GlobalStateType][]globalRecord
	globalLimits map[types.GlobalStateType]uint32

	unspent      map[contract.Opout]contract.Assignment
	unspentOrder map[types.OwnedStateType][]contract.Opout
}

// NewStateFromGenesis builds the initial contract state from a genesis
// operation and the schema's declared global-state retention caps. The
// genesis operation itself is not applied here: Extend applies it via
// ProcessOperation, mirroring the pseudocode's explicit
// `process_state(genesis)` step.
func NewStateFromGenesis(genesis *contract.Genesis, schemaId contract.SchemaId, sch *schema.Schema) *ContractState {
	limits := make(map[types.GlobalStateType]uint32)
	for ty, spec := range sch.Genesis.Globals {
		limits[ty] = spec.MaxRetained
	}
	for _, op := range sch.Transitions {
		for ty, spec := range op.Globals {
			if _, exists := limits[ty]; !exists {
				limits[ty] = spec.MaxRetained
			}
		}
	}
	for _, op := range sch.Extensions {
		for ty, spec := range op.Globals {
			if _, exists := limits[ty]; !exists {
				limits[ty] = spec.MaxRetained
			}
		}
	}

	return &ContractState{
		ContractId:   contract.ContractIdFromGenesis(genesis.OpId()),
		SchemaId:     schemaId,
		global:       make(map[types.GlobalStateType][]globalRecord),
		globalLimits: limits,
		unspent:      make(map[contract.Opout]contract.Assignment),
		unspentOrder: make(map[types.OwnedStateType][]contract.Opout),
	}
}

// UnspentLen returns the total number of live entries in the unspent map,
// the quantity MaxUnspent bounds.
func (s *ContractState) UnspentLen() int { return len(s.unspent) }

// LookupUnspent resolves an Opout against the unspent map.
func (s *ContractState) LookupUnspent(o contract.Opout) (contract.Assignment, bool) {
	a, ok := s.unspent[o]
	return a, ok
}

// CountUnspent implements vm.ContractStateReader: the number of live
// unspent assignments of the given output type.
func (s *ContractState) CountUnspent(ty types.OwnedStateType) int {
	n := 0
	for _, o := range s.unspentOrder[ty] {
		if _, live := s.unspent[o]; live {
			n++
		}
	}
	return n
}

// LoadUnspent implements vm.ContractStateReader: the position-th live
// unspent assignment of the given output type, in insertion order.
func (s *ContractState) LoadUnspent(ty types.OwnedStateType, position int) (contract.Assignment, bool) {
	if position < 0 {
		return contract.Assignment{}, false
	}
	i := 0
	for _, o := range s.unspentOrder[ty] {
		a, live := s.unspent[o]
		if !live {
			continue
		}
		if i == position {
			return a, true
		}
		i++
	}
	return contract.Assignment{}, false
}

// CountGlobal implements vm.ContractStateReader.
func (s *ContractState) CountGlobal(ty types.GlobalStateType) int {
	return len(s.global[ty])
}

// LoadGlobal implements vm.ContractStateReader.
func (s *ContractState) LoadGlobal(ty types.GlobalStateType, position int) (contract.GlobalValue, bool) {
	records := s.global[ty]
	if position < 0 || position >= len(records) {
		return contract.GlobalValue{}, false
	}
	return records[position].value, true
}

// ProcessOperation applies an operation's effects to the state:
// FIFO-truncates and appends each global-state field, then inserts every
// assignment into the unspent map (spec section 4.7's `process_state`).
func (s *ContractState) ProcessOperation(ref contract.OpRef) {
	opid := ref.OpId()

	for ty, values := range ref.Globals() {
		bound, declared := s.globalLimits[ty]
		existing := s.global[ty]
		if declared {
			overflow := len(existing) + len(values) - int(bound)
			if overflow > 0 {
				if overflow >= len(existing) {
					existing = nil
				} else {
					existing = append([]globalRecord(nil), existing[overflow:]...)
				}
			}
		}
		for i, v := range values {
			existing = append(existing, globalRecord{opid: opid, position: i, value: v})
		}
		s.global[ty] = existing
	}

	for ty, group := range ref.Assignments() {
		for i, a := range group {
			o := contract.Opout{OpId: opid, Type: ty, Index: uint16(i)}
			if _, exists := s.unspent[o]; !exists {
				s.unspentOrder[ty] = append(s.unspentOrder[ty], o)
			}
			s.unspent[o] = a
		}
	}
}

// RemoveUnspent deletes a consumed input from the unspent map. Its entry
// in unspentOrder is left in place as a tombstone, filtered out by
// CountUnspent/LoadUnspent; this mirrors the Bundle package's
// insertion-order-plus-lookup-map pattern rather than paying for a slice
// compaction on every consumed input.
func (s *ContractState) RemoveUnspent(o contract.Opout) {
	delete(s.unspent, o)
}
