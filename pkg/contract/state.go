// Copyright 2025 Certen Protocol
//
// Owned-state payload variants: declarative, fungible, structured, and
// attachment, each with a conceal operation (spec section 3.3).

package contract

import (
	"math/big"

	"github.com/certen/contract-validator/pkg/commitment"
	"github.com/certen/contract-validator/pkg/confidential"
	"github.com/certen/contract-validator/pkg/encoding"
	"github.com/certen/contract-validator/pkg/types"
)

// DeclarativeState carries no payload beyond its presence.
type DeclarativeState struct{}

func (DeclarativeState) encode() []byte { return nil }

// RevealedFungible is a scalar amount with a blinding factor, in the clear.
type RevealedFungible struct {
	Amount   uint64
	Blinding uint64
}

func (f RevealedFungible) encode() []byte {
	w := encoding.NewWriter()
	w.WriteU64(f.Amount)
	w.WriteU64(f.Blinding)
	return w.Bytes()
}

func (f RevealedFungible) conceal() confidential.Commitment {
	var blinding big.Int
	blinding.SetUint64(f.Blinding)
	return confidential.Commit(f.Amount, &blinding)
}

// FungibleState is the sum over a fungible payload's revealed and
// confidential forms: revealed carries the amount and blinding in the
// clear, confidential carries only the Pedersen commitment plus an
// out-of-band range proof tag verified by an external RangeProofVerifier.
type FungibleState struct {
	revealed   *RevealedFungible
	commitment confidential.Commitment
	rangeProof []byte
}

// NewRevealedFungible wraps a clear-text fungible amount.
func NewRevealedFungible(amount, blinding uint64) FungibleState {
	f := RevealedFungible{Amount: amount, Blinding: blinding}
	return FungibleState{revealed: &f}
}

// NewConfidentialFungible wraps a commitment and its range proof tag,
// concealing the amount entirely.
func NewConfidentialFungible(c confidential.Commitment, rangeProof []byte) FungibleState {
	return FungibleState{commitment: c, rangeProof: rangeProof}
}

// IsRevealed reports whether the amount is known in the clear.
func (f FungibleState) IsRevealed() bool { return f.revealed != nil }

// Revealed returns the clear-text amount and blinding, or false if this
// state is only known in its confidential form.
func (f FungibleState) Revealed() (RevealedFungible, bool) {
	if f.revealed == nil {
		return RevealedFungible{}, false
	}
	return *f.revealed, true
}

// Commitment returns the Pedersen commitment, computing it from the
// revealed amount if necessary.
func (f FungibleState) Commitment() confidential.Commitment {
	if f.revealed != nil {
		return f.revealed.conceal()
	}
	return f.commitment
}

// VerifyRange checks the paired range proof using v, required only when the
// state is confidential; revealed amounts carry no range proof to check.
func (f FungibleState) VerifyRange(v confidential.RangeProofVerifier) error {
	if f.revealed != nil {
		return nil
	}
	return v.VerifyRange(f.commitment, f.rangeProof)
}

func (f FungibleState) conceal() []byte {
	c := f.Commitment()
	return c[:]
}

// StructuredState is opaque typed bytes whose semantic type is declared by
// the schema, not interpreted by the validator core itself.
type StructuredState struct {
	SemanticType types.SemanticType
	Payload      []byte
}

func (s StructuredState) encode() []byte {
	w := encoding.NewWriter()
	w.WriteU16(uint16(s.SemanticType))
	w.WriteBytes(s.Payload)
	return w.Bytes()
}

// AttachmentState is a content hash plus a media-type tag.
type AttachmentState struct {
	ContentHash [32]byte
	MediaType   string
}

func (a AttachmentState) encode() []byte {
	w := encoding.NewWriter()
	w.WriteFixed32(a.ContentHash)
	w.WriteString(a.MediaType)
	return w.Bytes()
}

// AssignmentState is the sum over the four owned-state payload kinds.
// Exactly one field is meaningful, selected by Kind.
type AssignmentState struct {
	Kind        types.StateKind
	Declarative DeclarativeState
	Fungible    FungibleState
	Structured  StructuredState
	Attachment  AttachmentState
}

// NewDeclarativeState builds a declarative (no-payload) state.
func NewDeclarativeState() AssignmentState {
	return AssignmentState{Kind: types.StateDeclarative}
}

// NewFungibleAssignmentState wraps a fungible payload as an AssignmentState.
func NewFungibleAssignmentState(f FungibleState) AssignmentState {
	return AssignmentState{Kind: types.StateFungible, Fungible: f}
}

// NewStructuredAssignmentState wraps a structured payload as an AssignmentState.
func NewStructuredAssignmentState(s StructuredState) AssignmentState {
	return AssignmentState{Kind: types.StateStructured, Structured: s}
}

// NewAttachmentAssignmentState wraps an attachment payload as an AssignmentState.
func NewAttachmentAssignmentState(a AttachmentState) AssignmentState {
	return AssignmentState{Kind: types.StateAttachment, Attachment: a}
}

// commitBytes returns the canonical encoding fed to the state-commitment tagged hash.
func (s AssignmentState) commitBytes() []byte {
	switch s.Kind {
	case types.StateDeclarative:
		return s.Declarative.encode()
	case types.StateFungible:
		return s.Fungible.conceal()
	case types.StateStructured:
		return s.Structured.encode()
	case types.StateAttachment:
		return s.Attachment.encode()
	default:
		return nil
	}
}

// ConfidentialState is the concealed commitment of an AssignmentState.
type ConfidentialState commitment.ID

// ConcealState computes the concealed commitment of a state payload.
// Concealing is idempotent: a declarative, structured, or attachment state's
// commitment bytes are themselves already fully determined by their content,
// and a revealed fungible state's commitment equals its Pedersen commitment,
// so re-concealing never changes the result.
func (s AssignmentState) ConcealState() ConfidentialState {
	return ConfidentialState(commitment.HashTagged("certen:state", s.commitBytes()))
}

// Equal reports whether two declarative states carry the same (empty)
// payload, used by the EqVals built-in verifier to compare multisets.
func (DeclarativeState) Equal(other DeclarativeState) bool { return true }
