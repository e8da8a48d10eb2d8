// Copyright 2025 Certen Protocol
//
// Metadata slot encoding: a MetaType maps to an ordered list of typed
// values (u8/u16/u32/u64/i8/i16/i32/i64/f32/f64/bytes/string), matching the
// reference fixture in spec section "Testable properties" scenario 1
// (metadata round-trip) and scenario 2 (truncation fault).

package encoding

import "fmt"

// MetaValueKind tags the wire type of one metadata value.
type MetaValueKind uint8

const (
	MetaU8 MetaValueKind = iota
	MetaU16
	MetaU32
	MetaU64
	MetaI8
	MetaI16
	MetaI32
	MetaI64
	MetaF32
	MetaF64
	MetaBytes
	MetaString
)

// MetaValue is one tagged value within a metadata field's value list.
type MetaValue struct {
	Kind   MetaValueKind
	U      uint64
	I      int64
	F      float64
	Bytes  []byte
	String string
}

func MetaU8Value(v uint8) MetaValue     { return MetaValue{Kind: MetaU8, U: uint64(v)} }
func MetaU16Value(v uint16) MetaValue   { return MetaValue{Kind: MetaU16, U: uint64(v)} }
func MetaU32Value(v uint32) MetaValue   { return MetaValue{Kind: MetaU32, U: uint64(v)} }
func MetaU64Value(v uint64) MetaValue   { return MetaValue{Kind: MetaU64, U: v} }
func MetaI8Value(v int8) MetaValue      { return MetaValue{Kind: MetaI8, I: int64(v)} }
func MetaI16Value(v int16) MetaValue    { return MetaValue{Kind: MetaI16, I: int64(v)} }
func MetaI32Value(v int32) MetaValue    { return MetaValue{Kind: MetaI32, I: int64(v)} }
func MetaI64Value(v int64) MetaValue    { return MetaValue{Kind: MetaI64, I: v} }
func MetaF32Value(v float32) MetaValue  { return MetaValue{Kind: MetaF32, F: float64(v)} }
func MetaF64Value(v float64) MetaValue  { return MetaValue{Kind: MetaF64, F: v} }
func MetaBytesValue(v []byte) MetaValue { return MetaValue{Kind: MetaBytes, Bytes: v} }
func MetaStringValue(v string) MetaValue {
	return MetaValue{Kind: MetaString, String: v}
}

func (v MetaValue) encode(w *Writer) {
	w.WriteU8(uint8(v.Kind))
	switch v.Kind {
	case MetaU8:
		w.WriteU8(uint8(v.U))
	case MetaU16:
		w.WriteU16(uint16(v.U))
	case MetaU32:
		w.WriteU32(uint32(v.U))
	case MetaU64:
		w.WriteU64(v.U)
	case MetaI8:
		w.WriteI8(int8(v.I))
	case MetaI16:
		w.WriteI16(int16(v.I))
	case MetaI32:
		w.WriteI32(int32(v.I))
	case MetaI64:
		w.WriteI64(v.I)
	case MetaF32:
		w.WriteF32(float32(v.F))
	case MetaF64:
		w.WriteF64(v.F)
	case MetaBytes:
		w.WriteBytes(v.Bytes)
	case MetaString:
		w.WriteString(v.String)
	}
}

func decodeMetaValue(r *Reader) (MetaValue, error) {
	kindByte, err := r.ReadU8()
	if err != nil {
		return MetaValue{}, err
	}
	kind := MetaValueKind(kindByte)
	switch kind {
	case MetaU8:
		v, err := r.ReadU8()
		return MetaU8Value(v), err
	case MetaU16:
		v, err := r.ReadU16()
		return MetaU16Value(v), err
	case MetaU32:
		v, err := r.ReadU32()
		return MetaU32Value(v), err
	case MetaU64:
		v, err := r.ReadU64()
		return MetaU64Value(v), err
	case MetaI8:
		v, err := r.ReadI8()
		return MetaI8Value(v), err
	case MetaI16:
		v, err := r.ReadI16()
		return MetaI16Value(v), err
	case MetaI32:
		v, err := r.ReadI32()
		return MetaI32Value(v), err
	case MetaI64:
		v, err := r.ReadI64()
		return MetaI64Value(v), err
	case MetaF32:
		v, err := r.ReadF32()
		return MetaF32Value(v), err
	case MetaF64:
		v, err := r.ReadF64()
		return MetaF64Value(v), err
	case MetaBytes:
		v, err := r.ReadBytes(^uint16(0))
		return MetaBytesValue(v), err
	case MetaString:
		v, err := r.ReadString(^uint16(0))
		return MetaStringValue(v), err
	default:
		return MetaValue{}, fmt.Errorf("encoding: unknown meta value kind %d", kindByte)
	}
}

// MetaTypeKey is the numeric key identifying one metadata field; defined
// here rather than imported from pkg/types to keep this package dependency-free.
type MetaTypeKey = uint16

// MetadataMap is a MetaType -> ordered value list, encoded with keys in
// ascending order per the canonical map encoding.
type MetadataMap map[MetaTypeKey][]MetaValue

// EncodeMetadata writes a metadata map: u16 field count, then per field
// (ascending key order) a u16 key, u16 value count, then each value.
func EncodeMetadata(m MetadataMap) []byte {
	keys := sortedKeys(m)
	w := NewWriter()
	w.WriteU16(uint16(len(keys)))
	for _, k := range keys {
		values := m[k]
		w.WriteU16(k)
		w.WriteU16(uint16(len(values)))
		for _, v := range values {
			v.encode(w)
		}
	}
	return w.Bytes()
}

// DecodeMetadata parses a metadata map previously written by EncodeMetadata.
func DecodeMetadata(data []byte) (MetadataMap, error) {
	r := NewReader(data)
	fieldCount, err := r.ReadU16()
	if err != nil {
		return nil, err
	}
	out := make(MetadataMap, fieldCount)
	for i := uint16(0); i < fieldCount; i++ {
		key, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		valueCount, err := r.ReadU16()
		if err != nil {
			return nil, err
		}
		values := make([]MetaValue, 0, valueCount)
		for j := uint16(0); j < valueCount; j++ {
			v, err := decodeMetaValue(r)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		out[key] = values
	}
	return out, nil
}

func sortedKeys(m MetadataMap) []MetaTypeKey {
	keys := make([]MetaTypeKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Small, fixed field counts in practice; insertion sort avoids pulling in "sort" for one call site.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

// U8Values returns every u8 value stored under field.
func (m MetadataMap) U8Values(field MetaTypeKey) []uint8 {
	var out []uint8
	for _, v := range m[field] {
		if v.Kind == MetaU8 {
			out = append(out, uint8(v.U))
		}
	}
	return out
}

func (m MetadataMap) U16Values(field MetaTypeKey) []uint16 {
	var out []uint16
	for _, v := range m[field] {
		if v.Kind == MetaU16 {
			out = append(out, uint16(v.U))
		}
	}
	return out
}

func (m MetadataMap) I16Values(field MetaTypeKey) []int16 {
	var out []int16
	for _, v := range m[field] {
		if v.Kind == MetaI16 {
			out = append(out, int16(v.I))
		}
	}
	return out
}

func (m MetadataMap) F32Values(field MetaTypeKey) []float32 {
	var out []float32
	for _, v := range m[field] {
		if v.Kind == MetaF32 {
			out = append(out, float32(v.F))
		}
	}
	return out
}

func (m MetadataMap) BytesValues(field MetaTypeKey) [][]byte {
	var out [][]byte
	for _, v := range m[field] {
		if v.Kind == MetaBytes {
			out = append(out, v.Bytes)
		}
	}
	return out
}

func (m MetadataMap) StringValues(field MetaTypeKey) []string {
	var out []string
	for _, v := range m[field] {
		if v.Kind == MetaString {
			out = append(out, v.String)
		}
	}
	return out
}
