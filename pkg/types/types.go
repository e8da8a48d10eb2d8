// Copyright 2025 Certen Protocol
//
// Package types holds the scalar identifier and enumeration types shared
// by the schema and data-model layers, kept in their own leaf package so
// that pkg/schema and pkg/contract can both depend on them without
// depending on each other.

package types

import "fmt"

// GlobalStateType identifies a kind of global state value declared by a schema.
type GlobalStateType uint16

// OwnedStateType identifies a kind of owned-state assignment declared by a schema.
type OwnedStateType uint16

// MetaType identifies a metadata slot declared by a schema.
type MetaType uint16

// ValencyType identifies a named capability an Extension can redeem.
type ValencyType uint16

// TransitionType identifies a state-transition kind declared by a schema.
type TransitionType uint16

// ExtensionType identifies a state-extension kind declared by a schema.
type ExtensionType uint16

// SemanticType identifies the structured-payload/meta value type a schema binds to a slot.
type SemanticType uint16

// BlankTransitionType is the reserved transition type for blank transitions. This
// implementation synthesizes no blank transition; a transition carrying this type is
// validated against Schema.BlankTransition when the schema sets one, and is otherwise
// an unknown type — see DESIGN.md.
const BlankTransitionType TransitionType = 0xFFFF

// StateKind enumerates the four owned-state payload variants.
type StateKind uint8

const (
	StateDeclarative StateKind = iota
	StateFungible
	StateStructured
	StateAttachment
)

func (k StateKind) String() string {
	switch k {
	case StateDeclarative:
		return "declarative"
	case StateFungible:
		return "fungible"
	case StateStructured:
		return "structured"
	case StateAttachment:
		return "attachment"
	default:
		return fmt.Sprintf("StateKind(%d)", uint8(k))
	}
}

// Occurs is an occurrence bound {min, max} over u16 counts.
type Occurs struct {
	Min uint16
	Max uint16
}

// Once requires exactly one occurrence.
func Once() Occurs { return Occurs{Min: 1, Max: 1} }

// NoneOrOnce allows zero or one occurrence.
func NoneOrOnce() Occurs { return Occurs{Min: 0, Max: 1} }

// NoneOrMore allows any number of occurrences, including zero.
func NoneOrMore() Occurs { return Occurs{Min: 0, Max: ^uint16(0)} }

// OnceOrMore requires at least one occurrence, with no upper bound.
func OnceOrMore() Occurs { return Occurs{Min: 1, Max: ^uint16(0)} }

// NoneOrUpTo allows zero to n occurrences.
func NoneOrUpTo(n uint16) Occurs { return Occurs{Min: 0, Max: n} }

// OnceOrUpTo requires at least one, up to n occurrences.
func OnceOrUpTo(n uint16) Occurs { return Occurs{Min: 1, Max: n} }

// Exactly requires exactly n occurrences.
func Exactly(n uint16) Occurs { return Occurs{Min: n, Max: n} }

// Range requires between a and b occurrences, inclusive.
func Range(a, b uint16) Occurs { return Occurs{Min: a, Max: b} }

// OccurrenceError reports a found count outside of [Min, Max].
type OccurrenceError struct {
	Min, Max, Found uint16
}

func (e *OccurrenceError) Error() string {
	return fmt.Sprintf("occurrence mismatch: expected [%d, %d], found %d", e.Min, e.Max, e.Found)
}

// Check validates found against the bound, returning an *OccurrenceError on mismatch.
func (o Occurs) Check(found uint16) error {
	if found < o.Min || found > o.Max {
		return &OccurrenceError{Min: o.Min, Max: o.Max, Found: found}
	}
	return nil
}

// VerifierKind selects one of the consensus-critical built-in transition predicates.
type VerifierKind uint8

const (
	VerifierNone VerifierKind = iota
	VerifierEqSums
	VerifierEqVals
	VerifierCheckSigEcdsa
)

func (k VerifierKind) String() string {
	switch k {
	case VerifierNone:
		return "None"
	case VerifierEqSums:
		return "EqSums"
	case VerifierEqVals:
		return "EqVals"
	case VerifierCheckSigEcdsa:
		return "CheckSigEcdsa"
	default:
		return fmt.Sprintf("VerifierKind(%d)", uint8(k))
	}
}

// Verifier is the schema-declared built-in predicate tag for a transition type.
type Verifier struct {
	Kind VerifierKind

	// StateType is used by EqSums and EqVals.
	StateType OwnedStateType

	// GlobalType is the genesis global-state slot holding the public key, used by CheckSigEcdsa.
	GlobalType GlobalStateType

	// MetaType is the metadata slot holding the signature, used by CheckSigEcdsa.
	MetaType MetaType
}

// EntryPointKind distinguishes the phase a VM entry point validates.
type EntryPointKind uint8

const (
	EntryGenesis EntryPointKind = iota
	EntryTransition
	EntryExtension
	EntryGlobalState
	EntryOwnedState
)

// EntryPointKey names one schema-declared validatable phase: genesis, a transition
// type, an extension type, a global-state type, or an owned-state type.
type EntryPointKey struct {
	Kind EntryPointKind
	Type uint16
}

func TransitionEntry(t TransitionType) EntryPointKey {
	return EntryPointKey{Kind: EntryTransition, Type: uint16(t)}
}

func ExtensionEntry(t ExtensionType) EntryPointKey {
	return EntryPointKey{Kind: EntryExtension, Type: uint16(t)}
}

func GlobalEntry(t GlobalStateType) EntryPointKey {
	return EntryPointKey{Kind: EntryGlobalState, Type: uint16(t)}
}

func OwnedEntry(t OwnedStateType) EntryPointKey {
	return EntryPointKey{Kind: EntryOwnedState, Type: uint16(t)}
}

var GenesisEntry = EntryPointKey{Kind: EntryGenesis}
