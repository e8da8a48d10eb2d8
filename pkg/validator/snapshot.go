// Copyright 2025 Certen Protocol
//
// Canonical snapshot encoding for ContractState: enough to resume
// validation exactly where a prior run left off, without replaying every
// witness from genesis. Grounded on the same canonical byte encoding (spec
// section 6.1) pkg/contract's commitment inputs use, extended here with a
// full round-trip (the commitment encoders are one-way).

package validator

import (
	"fmt"

	"github.com/certen/contract-validator/pkg/contract"
	"github.com/certen/contract-validator/pkg/encoding"
	"github.com/certen/contract-validator/pkg/types"
)

// MarshalSnapshot renders the full contract state: contract id, schema id,
// the global-state FIFO history (with originating OpId/position per
// entry), and the unspent map.
func (s *ContractState) MarshalSnapshot() []byte {
	w := encoding.NewWriter()
	w.WriteFixed32(s.ContractId.Bytes())
	w.WriteFixed32(s.SchemaId.Bytes())

	globalTypes := sortedGlobalTypes(s.global)
	w.WriteU16(uint16(len(globalTypes)))
	for _, ty := range globalTypes {
		records := s.global[ty]
		w.WriteU16(uint16(ty))
		w.WriteU32(s.globalLimits[ty])
		w.WriteU16(uint16(len(records)))
		for _, rec := range records {
			w.WriteFixed32(rec.opid.Bytes())
			w.WriteU16(uint16(rec.position))
			w.WriteU16(uint16(rec.value.SemanticType))
			w.WriteBytes(rec.value.Payload)
		}
	}

	ownedTypes := sortedOwnedTypes(s.unspentOrder)
	entries := make([]struct {
		o contract.Opout
		a contract.Assignment
	}, 0, len(s.unspent))
	for _, ty := range ownedTypes {
		for _, o := range s.unspentOrder[ty] {
			a, live := s.unspent[o]
			if !live {
				continue
			}
			entries = append(entries, struct {
				o contract.Opout
				a contract.Assignment
			}{o, a})
		}
	}
	w.WriteU32(uint32(len(entries)))
	for _, e := range entries {
		w.WriteFixed32(e.o.OpId.Bytes())
		w.WriteU16(uint16(e.o.Type))
		w.WriteU16(e.o.Index)
		w.WriteBytes(contract.EncodeAssignment(e.a))
	}

	return w.Bytes()
}

// UnmarshalSnapshot parses a snapshot previously written by MarshalSnapshot.
func UnmarshalSnapshot(data []byte) (*ContractState, error) {
	r := encoding.NewReader(data)

	contractIdBytes, err := r.ReadFixed32()
	if err != nil {
		return nil, fmt.Errorf("validator: snapshot contract id: %w", err)
	}
	schemaIdBytes, err := r.ReadFixed32()
	if err != nil {
		return nil, fmt.Errorf("validator: snapshot schema id: %w", err)
	}

	state := &ContractState{
		ContractId:   contract.ContractId(contractIdBytes),
		SchemaId:     contract.SchemaId(schemaIdBytes),
		global:       make(map[types.GlobalStateType][]globalRecord),
		globalLimits: make(map[types.GlobalStateType]uint32),
		unspent:      make(map[contract.Opout]contract.Assignment),
		unspentOrder: make(map[types.OwnedStateType][]contract.Opout),
	}

	globalTypeCount, err := r.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("validator: snapshot global type count: %w", err)
	}
	for i := uint16(0); i < globalTypeCount; i++ {
		tyRaw, err := r.ReadU16()
		if err != nil {
			return nil, fmt.Errorf("validator: snapshot global type: %w", err)
		}
		limit, err := r.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("validator: snapshot global limit: %w", err)
		}
		recordCount, err := r.ReadU16()
		if err != nil {
			return nil, fmt.Errorf("validator: snapshot global record count: %w", err)
		}
		ty := types.GlobalStateType(tyRaw)
		state.globalLimits[ty] = limit
		records := make([]globalRecord, 0, recordCount)
		for j := uint16(0); j < recordCount; j++ {
			opidBytes, err := r.ReadFixed32()
			if err != nil {
				return nil, fmt.Errorf("validator: snapshot global record opid: %w", err)
			}
			position, err := r.ReadU16()
			if err != nil {
				return nil, fmt.Errorf("validator: snapshot global record position: %w", err)
			}
			semanticType, err := r.ReadU16()
			if err != nil {
				return nil, fmt.Errorf("validator: snapshot global record semantic type: %w", err)
			}
			payload, err := r.ReadBytes(^uint16(0))
			if err != nil {
				return nil, fmt.Errorf("validator: snapshot global record payload: %w", err)
			}
			records = append(records, globalRecord{
				opid:     contract.OpId(opidBytes),
				position: int(position),
				value:    contract.GlobalValue{SemanticType: types.SemanticType(semanticType), Payload: payload},
			})
		}
		state.global[ty] = records
	}

	entryCount, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("validator: snapshot unspent count: %w", err)
	}
	for i := uint32(0); i < entryCount; i++ {
		opidBytes, err := r.ReadFixed32()
		if err != nil {
			return nil, fmt.Errorf("validator: snapshot unspent opid: %w", err)
		}
		ownedType, err := r.ReadU16()
		if err != nil {
			return nil, fmt.Errorf("validator: snapshot unspent type: %w", err)
		}
		index, err := r.ReadU16()
		if err != nil {
			return nil, fmt.Errorf("validator: snapshot unspent index: %w", err)
		}
		assignmentBytes, err := r.ReadBytes(^uint16(0))
		if err != nil {
			return nil, fmt.Errorf("validator: snapshot unspent assignment: %w", err)
		}
		assignment, err := contract.DecodeAssignment(encoding.NewReader(assignmentBytes))
		if err != nil {
			return nil, fmt.Errorf("validator: snapshot unspent assignment decode: %w", err)
		}
		o := contract.Opout{OpId: contract.OpId(opidBytes), Type: types.OwnedStateType(ownedType), Index: index}
		state.unspent[o] = assignment
		state.unspentOrder[o.Type] = append(state.unspentOrder[o.Type], o)
	}

	return state, nil
}

func sortedGlobalTypes(m map[types.GlobalStateType][]globalRecord) []types.GlobalStateType {
	keys := make([]types.GlobalStateType, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

func sortedOwnedTypes(m map[types.OwnedStateType][]contract.Opout) []types.OwnedStateType {
	keys := make([]types.OwnedStateType, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}
