// Copyright 2025 Certen Protocol
//
// The three operation variants: Genesis, Transition, and Extension (spec
// section 3.2), and the read-only OpRef sum type accessors share (design
// notes, "trait objects for polymorphic operations").

package contract

import (
	"errors"

	"github.com/certen/contract-validator/pkg/commitment"
	"github.com/certen/contract-validator/pkg/encoding"
	"github.com/certen/contract-validator/pkg/types"
)

// ErrUnsupportedFFV names an operation whose forward-feature version
// exceeds what this validator supports. No function in this module returns it.
var ErrUnsupportedFFV = errors.New("contract: unsupported future feature version")

// SupportedFFV is the forward-feature version this validator implements.
// Neither conformance nor the graph walker compares an operation's ffv
// against it, so an operation with a higher ffv is not rejected for that.
const SupportedFFV = 1

// Metadata is the MetaType -> ordered value list an operation carries.
type Metadata = encoding.MetadataMap

// Assignments groups owned-state assignments by their output type, ordered
// within each group by output index.
type Assignments map[types.OwnedStateType][]Assignment

// Valencies is the set of named capabilities an operation grants for a
// later Extension to redeem.
type Valencies map[types.ValencyType]bool

// Genesis is the root operation; its OpId reinterpreted is the ContractId.
type Genesis struct {
	Ffv         uint16
	SchemaId    SchemaId
	Timestamp   int64
	Issuer      []byte
	ChainNet    string
	Metadata    Metadata
	Globals     GlobalState
	Assignments Assignments
	Valencies   Valencies
}

// Transition consumes prior assignments and/or extension valencies and
// produces new assignments.
type Transition struct {
	Ffv            uint16
	ContractId     ContractId
	Nonce          uint64
	TransitionType types.TransitionType
	Metadata       Metadata
	Globals        GlobalState
	Inputs         []Opout
	Assignments    Assignments
	Valencies      Valencies
}

// Extension consumes valencies granted by earlier operations instead of seals.
type Extension struct {
	Ffv           uint16
	ContractId    ContractId
	ExtensionType types.ExtensionType
	Metadata      Metadata
	Globals       GlobalState
	Assignments   Assignments
	Redeemed      map[types.ValencyType]OpId
	Valencies     Valencies
}

func (g Genesis) commitBytes() []byte {
	w := encoding.NewWriter()
	w.WriteU16(g.Ffv)
	w.WriteFixed32(g.SchemaId.Bytes())
	w.WriteI64(g.Timestamp)
	w.WriteBytes(g.Issuer)
	w.WriteString(g.ChainNet)
	w.WriteBytes(encoding.EncodeMetadata(g.Metadata))
	w.WriteBytes(EncodeGlobalState(g.Globals))
	w.WriteBytes(encodeAssignments(g.Assignments))
	return w.Bytes()
}

func (t Transition) commitBytes() []byte {
	w := encoding.NewWriter()
	w.WriteU16(t.Ffv)
	w.WriteFixed32(t.ContractId.Bytes())
	w.WriteU64(t.Nonce)
	w.WriteU16(uint16(t.TransitionType))
	w.WriteBytes(encoding.EncodeMetadata(t.Metadata))
	w.WriteBytes(EncodeGlobalState(t.Globals))
	w.WriteBytes(encodeInputs(t.Inputs))
	w.WriteBytes(encodeAssignments(t.Assignments))
	return w.Bytes()
}

func (e Extension) commitBytes() []byte {
	w := encoding.NewWriter()
	w.WriteU16(e.Ffv)
	w.WriteFixed32(e.ContractId.Bytes())
	w.WriteU16(uint16(e.ExtensionType))
	w.WriteBytes(encoding.EncodeMetadata(e.Metadata))
	w.WriteBytes(EncodeGlobalState(e.Globals))
	w.WriteBytes(encodeAssignments(e.Assignments))
	return w.Bytes()
}

// OpId computes the genesis operation's content-addressed identifier.
func (g Genesis) OpId() OpId {
	return OpId(commitment.HashTagged(TagOpIdGenesis, g.commitBytes()))
}

// OpId computes the transition's content-addressed identifier.
func (t Transition) OpId() OpId {
	return OpId(commitment.HashTagged(TagOpIdTransition, t.commitBytes()))
}

// OpId computes the extension's content-addressed identifier.
func (e Extension) OpId() OpId {
	return OpId(commitment.HashTagged(TagOpIdExtension, e.commitBytes()))
}

func encodeAssignments(a Assignments) []byte {
	keys := sortedOwnedKeys(a)
	w := encoding.NewWriter()
	w.WriteU16(uint16(len(keys)))
	for _, k := range keys {
		group := a[k]
		w.WriteU16(uint16(k))
		w.WriteU16(uint16(len(group)))
		for _, assignment := range group {
			c := assignment.Commit()
			w.WriteFixed32([32]byte(c))
		}
	}
	return w.Bytes()
}

func encodeInputs(inputs []Opout) []byte {
	w := encoding.NewWriter()
	w.WriteU16(uint16(len(inputs)))
	for _, in := range inputs {
		w.WriteFixed32(in.OpId.Bytes())
		w.WriteU16(uint16(in.Type))
		w.WriteU16(in.Index)
	}
	return w.Bytes()
}

func sortedOwnedKeys(a Assignments) []types.OwnedStateType {
	keys := make([]types.OwnedStateType, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

// OpRef is a read-only sum-type view over the three operation variants,
// used by code that needs to treat genesis/transition/extension uniformly
// without allocating an interface (design notes, "trait objects for
// polymorphic operations").
type OpRef struct {
	genesis    *Genesis
	transition *Transition
	extension  *Extension
}

// RefGenesis wraps a Genesis as an OpRef.
func RefGenesis(g *Genesis) OpRef { return OpRef{genesis: g} }

// RefTransition wraps a Transition as an OpRef.
func RefTransition(t *Transition) OpRef { return OpRef{transition: t} }

// RefExtension wraps an Extension as an OpRef.
func RefExtension(e *Extension) OpRef { return OpRef{extension: e} }

// OpId dispatches to whichever variant is wrapped.
func (r OpRef) OpId() OpId {
	switch {
	case r.genesis != nil:
		return r.genesis.OpId()
	case r.transition != nil:
		return r.transition.OpId()
	default:
		return r.extension.OpId()
	}
}

// Metadata dispatches to whichever variant is wrapped.
func (r OpRef) Metadata() Metadata {
	switch {
	case r.genesis != nil:
		return r.genesis.Metadata
	case r.transition != nil:
		return r.transition.Metadata
	default:
		return r.extension.Metadata
	}
}

// Globals dispatches to whichever variant is wrapped.
func (r OpRef) Globals() GlobalState {
	switch {
	case r.genesis != nil:
		return r.genesis.Globals
	case r.transition != nil:
		return r.transition.Globals
	default:
		return r.extension.Globals
	}
}

// Assignments dispatches to whichever variant is wrapped.
func (r OpRef) Assignments() Assignments {
	switch {
	case r.genesis != nil:
		return r.genesis.Assignments
	case r.transition != nil:
		return r.transition.Assignments
	default:
		return r.extension.Assignments
	}
}

// Inputs returns the transition's inputs, or nil for genesis/extension
// (which have no seal-bound inputs).
func (r OpRef) Inputs() []Opout {
	if r.transition != nil {
		return r.transition.Inputs
	}
	return nil
}

// IsGenesis reports whether this ref wraps a Genesis.
func (r OpRef) IsGenesis() bool { return r.genesis != nil }

// IsTransition reports whether this ref wraps a Transition, returning it if so.
func (r OpRef) IsTransition() (*Transition, bool) { return r.transition, r.transition != nil }

// IsExtension reports whether this ref wraps an Extension, returning it if so.
func (r OpRef) IsExtension() (*Extension, bool) { return r.extension, r.extension != nil }
