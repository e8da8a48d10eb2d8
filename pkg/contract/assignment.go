// Copyright 2025 Certen Protocol
//
// Assignment pairs a seal with a state value: the unit of ownership
// transfer (spec section 3.3 and glossary). Conceal is idempotent and
// preserves commitment identity; merging two views of the same assignment
// follows the reveal-dominates-conceal rule from the design notes.

package contract

import (
	"github.com/certen/contract-validator/pkg/commitment"
	"github.com/certen/contract-validator/pkg/types"
)

// Assignment is a seal bound to a state value.
type Assignment struct {
	Seal  Seal
	State AssignmentState
}

// NewAssignment pairs a seal with a state value.
func NewAssignment(seal Seal, state AssignmentState) Assignment {
	return Assignment{Seal: seal, State: state}
}

// ConcealSeal returns a copy of the assignment with only its seal concealed;
// the state payload is untouched.
func (a Assignment) ConcealSeal() Assignment {
	return Assignment{
		Seal:  NewConfidentialSeal(a.Seal.Conceal()),
		State: a.State,
	}
}

// ConcealState returns a copy of the assignment with only its state
// concealed; the seal is untouched. For fungible state this drops the
// revealed amount and blinding, keeping only the Pedersen commitment; the
// concealed value carries no range proof tag. Declarative, structured, and attachment states have no
// partially-revealed form, so they pass through unchanged: their commitment
// already depends only on their full content.
func (a Assignment) ConcealState() Assignment {
	state := a.State
	if state.Kind == types.StateFungible && state.Fungible.IsRevealed() {
		state.Fungible = NewConfidentialFungible(state.Fungible.Commitment(), nil)
	}
	return Assignment{Seal: a.Seal, State: state}
}

// Commit computes the assignment's commitment identity: the tagged hash of
// its concealed seal and concealed state. This value is what is fed into the
// assignment-leaf Merkle aggregation and is stable under either conceal
// operation (spec invariant: conceal does not change OpId).
func (a Assignment) Commit() commitment.ID {
	sealC := a.Seal.Conceal()
	stateC := a.State.ConcealState()
	buf := make([]byte, 0, 64)
	buf = append(buf, sealC[:]...)
	buf = append(buf, stateC[:]...)
	return commitment.HashTagged(TagAssignLeaf, buf)
}

// Merge combines two views of the same assignment (e.g. from overlapping
// consignments) under the reveal-dominates-conceal rule: whichever side
// carries a revealed seal or a revealed fungible state wins on that axis;
// Merge returns an error if both sides reveal conflicting values.
func (a Assignment) Merge(other Assignment) (Assignment, error) {
	mergedSeal := a.Seal
	if aRevealed, ok := mergedSeal.Revealed(); ok {
		if otherRevealed, ok := other.Seal.Revealed(); ok && otherRevealed != aRevealed {
			return Assignment{}, ErrMismatchedReveal
		}
	} else {
		if revealed, ok := other.Seal.Revealed(); ok {
			merged, err := mergedSeal.Reveal(revealed)
			if err != nil {
				return Assignment{}, err
			}
			mergedSeal = merged
		}
	}

	mergedState := a.State
	if aRevealed, ok := mergedState.Fungible.Revealed(); ok && mergedState.Kind == types.StateFungible {
		if otherRevealed, ok := other.State.Fungible.Revealed(); ok && otherRevealed != aRevealed {
			return Assignment{}, ErrMismatchedReveal
		}
	} else if mergedState.Kind == types.StateFungible {
		if revealed, ok := other.State.Fungible.Revealed(); ok {
			candidate := NewRevealedFungible(revealed.Amount, revealed.Blinding)
			if candidate.Commitment() != mergedState.Fungible.Commitment() {
				return Assignment{}, ErrMismatchedReveal
			}
			mergedState.Fungible = candidate
		}
	}

	return Assignment{Seal: mergedSeal, State: mergedState}, nil
}
