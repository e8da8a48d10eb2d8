// Copyright 2025 Certen Protocol
//
// Package schema holds the declarative per-contract rules a contract
// repository supplies: recognized type catalogs, per-operation sub-schemata
// (metadata/global/input/output tables and occurrence bounds), the
// verifier tag chosen per transition type, and an entry-point table naming
// one VM routine per validatable phase (spec section 4.2).
//
// Grounded on the teacher's pkg/strategy/registry.go pattern (a
// sync.RWMutex-guarded registry of named routines, looked up by a typed
// key) generalized here to a static, schema-authored table rather than a
// runtime-mutable registry: a schema's entry points are fixed at load time,
// not registered incrementally by callers.

package schema

import (
	"fmt"
	"sort"

	"github.com/certen/contract-validator/pkg/commitment"
	"github.com/certen/contract-validator/pkg/contract"
	"github.com/certen/contract-validator/pkg/types"
)

// OpSchema is the per-operation-type sub-schema: occurrence bounds and
// declared payload types for metadata, global state, inputs (transitions
// only), and assignments.
type OpSchema struct {
	Metadata    map[types.MetaType]MetaSpec
	Globals     map[types.GlobalStateType]GlobalSpec
	Inputs      map[types.OwnedStateType]types.Occurs
	Assignments map[types.OwnedStateType]OwnedSpec
	Verifier    types.Verifier
}

// MetaSpec names the occurrence bound and semantic value kind for one
// metadata slot.
type MetaSpec struct {
	Occurs       types.Occurs
	SemanticType types.SemanticType
}

// GlobalSpec names the occurrence bound, absolute retention cap, and
// semantic value kind for one global-state slot.
type GlobalSpec struct {
	Occurs       types.Occurs
	MaxRetained  uint32
	SemanticType types.SemanticType
}

// OwnedSpec names the occurrence bound, declared state kind, and (for
// structured/attachment payloads) the semantic type or media-type tag an
// owned-state slot's assignments must match.
type OwnedSpec struct {
	Occurs       types.Occurs
	Kind         types.StateKind
	SemanticType types.SemanticType
	MediaType    string
	NumericKind  FungibleKind
}

// FungibleKind names the declared numeric width of a fungible slot. The
// validator core itself only ever deals in uint64 amounts, and schema
// conformance does not compare the declared kind against an assignment
// (design notes: asset-class semantics live in downstream schemata, not
// here).
type FungibleKind uint8

const (
	FungibleUnspecified FungibleKind = iota
	FungibleU64
)

// Schema is the full declarative rule set for one contract.
type Schema struct {
	Name        string
	Genesis     OpSchema
	Transitions map[types.TransitionType]OpSchema
	Extensions  map[types.ExtensionType]OpSchema

	// EntryPoints names, for each validatable phase, the VM routine that
	// evaluates it. The routine name is opaque to this package; pkg/vm
	// resolves it against Libs.
	EntryPoints map[types.EntryPointKey]string

	// Libs holds the schema-declared VM library bytecode, keyed by library name.
	Libs map[string][]byte

	// BlankTransition, if set, is the sub-schema a transition of the
	// reserved type types.BlankTransitionType is validated against. A nil
	// value means this schema does not recognize that type.
	BlankTransition *OpSchema
}

// ErrDanglingReference is returned by Validate when a schema refers to a
// type id it never declares a specification for.
type ErrDanglingReference struct {
	Context string
	Type    uint16
}

func (e *ErrDanglingReference) Error() string {
	return fmt.Sprintf("schema: dangling reference to type %d in %s", e.Type, e.Context)
}

// Validate checks part of the schema's internal consistency: every
// transition entry point names a declared transition type (or
// types.BlankTransitionType), every extension entry point names a declared
// extension type, and every assignment spec carries a known state kind.
// Global-state, owned-state and genesis entry points are not checked
// against any declaration, and no other type reference is resolved. Type
// ids are u16 by their Go types; Validate does no range check of its own.
func (s *Schema) Validate() error {
	for key := range s.EntryPoints {
		switch key.Kind {
		case types.EntryTransition:
			if _, ok := s.Transitions[types.TransitionType(key.Type)]; !ok && types.TransitionType(key.Type) != types.BlankTransitionType {
				return &ErrDanglingReference{Context: "entry point transition", Type: key.Type}
			}
		case types.EntryExtension:
			if _, ok := s.Extensions[types.ExtensionType(key.Type)]; !ok {
				return &ErrDanglingReference{Context: "entry point extension", Type: key.Type}
			}
		case types.EntryGlobalState, types.EntryOwnedState, types.EntryGenesis:
			// Global/owned/genesis entry points are accepted without a
			// check against declared types.
		}
	}
	for tt, op := range s.Transitions {
		if err := op.validateReferences(fmt.Sprintf("transition %d", tt)); err != nil {
			return err
		}
	}
	for et, op := range s.Extensions {
		if err := op.validateReferences(fmt.Sprintf("extension %d", et)); err != nil {
			return err
		}
	}
	return nil
}

func (op OpSchema) validateReferences(context string) error {
	for t, spec := range op.Assignments {
		if spec.Kind > types.StateAttachment {
			return &ErrDanglingReference{Context: context, Type: uint16(t)}
		}
	}
	return nil
}

// Id computes the schema's SchemaId: the tagged Merkle root of the declared
// transition type ids followed by the declared extension type ids, each
// group in ascending order (spec section 4.1 — all higher-level
// commitments reuse the same Merkle/tagged-hash primitive with distinct tags).
// Sub-schema contents, entry points, libraries and the blank-transition
// sub-schema are not committed to.
func (s *Schema) Id() contract.SchemaId {
	transitionTypes := make([]types.TransitionType, 0, len(s.Transitions))
	for tt := range s.Transitions {
		transitionTypes = append(transitionTypes, tt)
	}
	sort.Slice(transitionTypes, func(i, j int) bool { return transitionTypes[i] < transitionTypes[j] })
	extensionTypes := make([]types.ExtensionType, 0, len(s.Extensions))
	for et := range s.Extensions {
		extensionTypes = append(extensionTypes, et)
	}
	sort.Slice(extensionTypes, func(i, j int) bool { return extensionTypes[i] < extensionTypes[j] })

	leaves := make([][]byte, 0, len(s.Transitions)+len(s.Extensions))
	for _, tt := range transitionTypes {
		leaves = append(leaves, []byte{byte(tt), byte(tt >> 8)})
	}
	for _, et := range extensionTypes {
		leaves = append(leaves, []byte{byte(et), byte(et >> 8)})
	}
	root := commitment.MapRoot("certen:schema:node", "certen:schema:leaf", leaves)
	return contract.SchemaId(root)
}

// OpSchemaFor returns the sub-schema governing op, dispatching on its kind,
// and whether the transition/extension type was recognized (a blank
// transition's type — types.BlankTransitionType — resolves to
// BlankTransition if configured).
func (s *Schema) OpSchemaFor(ref contract.OpRef) (OpSchema, bool) {
	if ref.IsGenesis() {
		return s.Genesis, true
	}
	if t, ok := ref.IsTransition(); ok {
		if op, found := s.Transitions[t.TransitionType]; found {
			return op, true
		}
		if t.TransitionType == types.BlankTransitionType && s.BlankTransition != nil {
			return *s.BlankTransition, true
		}
		return OpSchema{}, false
	}
	if e, ok := ref.IsExtension(); ok {
		op, found := s.Extensions[e.ExtensionType]
		return op, found
	}
	return OpSchema{}, false
}
