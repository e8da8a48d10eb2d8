// Copyright 2025 Certen Protocol
//
// Single-use-seal definitions: a revealed seal names an explicit base-chain
// outpoint and blinding factor; a concealed seal is the tagged hash of that
// same data. A revealed seal may additionally be vout-only (no txid yet) for
// genesis-produced assignments, materializing against the witness txid that
// first confirms them (spec sections 3.3 and 4.5).

package contract

import (
	"errors"

	"github.com/certen/contract-validator/pkg/commitment"
	"github.com/certen/contract-validator/pkg/encoding"
)

// ErrMismatchedReveal is returned when a candidate revealed seal does not
// conceal to the commitment already recorded for a confidential seal.
var ErrMismatchedReveal = errors.New("contract: revealed seal does not match confidential commitment")

// Outpoint identifies a base-chain transaction output.
type Outpoint struct {
	Txid [32]byte
	Vout uint32
}

// HasTxid reports whether this outpoint names a concrete transaction, as
// opposed to a vout-only placeholder awaiting materialization.
func (o Outpoint) HasTxid() bool {
	return o.Txid != [32]byte{}
}

// RevealedSeal is an explicit single-use-seal definition: an outpoint (or,
// for genesis-style assignments, a vout-only placeholder) plus a blinding
// factor that randomizes the seal's concealed form.
type RevealedSeal struct {
	Outpoint Outpoint
	Blinding uint64
}

// WithTxid returns a copy of s materialized against txid, used when a
// vout-only genesis seal's producing witness is confirmed.
func (s RevealedSeal) WithTxid(txid [32]byte) RevealedSeal {
	s.Outpoint.Txid = txid
	return s
}

func (s RevealedSeal) encode() []byte {
	w := encoding.NewWriter()
	w.WriteFixed32(s.Outpoint.Txid)
	w.WriteU32(s.Outpoint.Vout)
	w.WriteU64(s.Blinding)
	return w.Bytes()
}

// ConfidentialSeal is the concealed form of a RevealedSeal: a tagged hash
// that commits to the outpoint and blinding without revealing either.
type ConfidentialSeal commitment.ID

func (c ConfidentialSeal) IsZero() bool { return commitment.ID(c).IsZero() }

// Conceal returns the confidential form of a revealed seal. Concealing is
// idempotent under re-application in the sense that it always yields the
// same commitment for the same (outpoint, blinding) pair.
func (s RevealedSeal) Conceal() ConfidentialSeal {
	return ConfidentialSeal(commitment.HashTagged("certen:seal", s.encode()))
}

// Seal is the sum type over a seal's revealed and confidential forms
// (spec section 3.3 and design note on confidential/revealed variants).
// Exactly one of Revealed/Concealed is meaningful, selected by IsRevealed.
type Seal struct {
	revealed  *RevealedSeal
	concealed ConfidentialSeal
}

// NewRevealedSeal wraps an explicit seal definition.
func NewRevealedSeal(s RevealedSeal) Seal {
	return Seal{revealed: &s}
}

// NewConfidentialSeal wraps an already-concealed seal commitment.
func NewConfidentialSeal(c ConfidentialSeal) Seal {
	return Seal{concealed: c}
}

// IsRevealed reports whether the underlying outpoint and blinding factor are known.
func (s Seal) IsRevealed() bool { return s.revealed != nil }

// Revealed returns the underlying RevealedSeal and true, or the zero value
// and false if this seal is only known in its confidential form.
func (s Seal) Revealed() (RevealedSeal, bool) {
	if s.revealed == nil {
		return RevealedSeal{}, false
	}
	return *s.revealed, true
}

// Conceal returns the confidential form of this seal, computing it from the
// revealed form if necessary. Conceal is idempotent: concealing an already
// confidential seal returns it unchanged.
func (s Seal) Conceal() ConfidentialSeal {
	if s.revealed != nil {
		return s.revealed.Conceal()
	}
	return s.concealed
}

// Reveal merges an externally-supplied revealed seal into s, per the
// reveal-dominates-conceal rule: if s is already revealed, it is returned
// unchanged; if s is confidential, candidate is accepted only if it conceals
// to the same commitment, otherwise an error is returned.
func (s Seal) Reveal(candidate RevealedSeal) (Seal, error) {
	if s.revealed != nil {
		return s, nil
	}
	if candidate.Conceal() != s.concealed {
		return Seal{}, ErrMismatchedReveal
	}
	return NewRevealedSeal(candidate), nil
}

// Materialize fills in a vout-only revealed seal's txid from the witness
// that confirmed the producing operation. Concealed seals and seals that
// already carry a txid are returned unchanged.
func (s Seal) Materialize(witnessTxid [32]byte) Seal {
	if s.revealed == nil || s.revealed.Outpoint.HasTxid() {
		return s
	}
	materialized := s.revealed.WithTxid(witnessTxid)
	return NewRevealedSeal(materialized)
}
