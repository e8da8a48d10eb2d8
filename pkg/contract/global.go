// Copyright 2025 Certen Protocol
//
// Global state: a map from GlobalStateType to an ordered sequence of
// values, bounded per type by the schema (spec section 3.4). This package
// only models the per-operation slice a Genesis/Transition/Extension
// carries; the FIFO-windowed accumulation across the whole contract lives
// in pkg/validator, which owns the bound.

package contract

import (
	"github.com/certen/contract-validator/pkg/encoding"
	"github.com/certen/contract-validator/pkg/types"
)

// GlobalValue is one opaque, semantic-typed global-state value.
type GlobalValue struct {
	SemanticType types.SemanticType
	Payload      []byte
}

func (v GlobalValue) encode(w *encoding.Writer) {
	w.WriteU16(uint16(v.SemanticType))
	w.WriteBytes(v.Payload)
}

func decodeGlobalValue(r *encoding.Reader) (GlobalValue, error) {
	st, err := r.ReadU16()
	if err != nil {
		return GlobalValue{}, err
	}
	payload, err := r.ReadBytes(^uint16(0))
	if err != nil {
		return GlobalValue{}, err
	}
	return GlobalValue{SemanticType: types.SemanticType(st), Payload: payload}, nil
}

// GlobalState is the map an operation carries from GlobalStateType to the
// ordered sequence of values it contributes.
type GlobalState map[types.GlobalStateType][]GlobalValue

// EncodeGlobalState renders a global-state map to its canonical bytes: u16
// field count, then per field (ascending key) a u16 key, u16 value count,
// then each value.
func EncodeGlobalState(g GlobalState) []byte {
	keys := sortedGlobalKeys(g)
	w := encoding.NewWriter()
	w.WriteU16(uint16(len(keys)))
	for _, k := range keys {
		values := g[k]
		w.WriteU16(uint16(k))
		w.WriteU16(uint16(len(values)))
		for _, v := range values {
			v.encode(w)
		}
	}
	return w.Bytes()
}

// DecodeGlobalState parses a global-state map previously written by EncodeGlobalState.
func DecodeGlobalState(data []byte) (GlobalState, error) {
	r := encoding.NewReader(data)
	fieldCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	out := make(GlobalState, fieldCount)
	for i := uint16(0); i < fieldCount; i++ {
		key, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		valueCount, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		values := make([]GlobalValue, 0, valueCount)
		for j := uint16(0); j < valueCount; j++ {
			v, err := decodeGlobalValue(r)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		out[types.GlobalStateType(key)] = values
	}
	return out, nil
}

func sortedGlobalKeys(g GlobalState) []types.GlobalStateType {
	keys := make([]types.GlobalStateType, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}
