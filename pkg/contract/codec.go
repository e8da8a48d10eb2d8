// Copyright 2025 Certen Protocol
//
// Full round-trip wire codec for seals, owned-state payloads, and
// assignments: the commitBytes encoders elsewhere in this package only
// ever feed a one-way tagged hash, but a repository or a state snapshot
// store needs to read an Assignment back, not just commit to one (spec
// section 6.1's canonical encoding applies at every boundary a value
// crosses, not only the commitment inputs).

package contract

import (
	"fmt"

	"github.com/certen/contract-validator/pkg/confidential"
	"github.com/certen/contract-validator/pkg/encoding"
	"github.com/certen/contract-validator/pkg/types"
)

// EncodeSeal renders a seal's full round-trip form: a one-byte variant tag
// (1 = revealed, 0 = confidential) followed by the variant's payload.
func EncodeSeal(s Seal) []byte {
	w := encoding.NewWriter()
	if revealed, ok := s.Revealed(); ok {
		w.WriteU8(1)
		w.WriteFixed32(revealed.Outpoint.Txid)
		w.WriteU32(revealed.Outpoint.Vout)
		w.WriteU64(revealed.Blinding)
		return w.Bytes()
	}
	w.WriteU8(0)
	c := s.Conceal()
	w.WriteFixed32([32]byte(c))
	return w.Bytes()
}

// DecodeSeal parses a seal previously written by EncodeSeal.
func DecodeSeal(r *encoding.Reader) (Seal, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return Seal{}, err
	}
	switch tag {
	case 1:
		txid, err := r.ReadFixed32()
		if err != nil {
			return Seal{}, err
		}
		vout, err := r.ReadU32()
		if err != nil {
			return Seal{}, err
		}
		blinding, err := r.ReadU64()
		if err != nil {
			return Seal{}, err
		}
		return NewRevealedSeal(RevealedSeal{Outpoint: Outpoint{Txid: txid, Vout: vout}, Blinding: blinding}), nil
	case 0:
		raw, err := r.ReadFixed32()
		if err != nil {
			return Seal{}, err
		}
		return NewConfidentialSeal(ConfidentialSeal(raw)), nil
	default:
		return Seal{}, fmt.Errorf("contract: unknown seal tag %d", tag)
	}
}

// EncodeAssignmentState renders an owned-state payload's full round-trip
// form: a one-byte StateKind tag, then for fungible state a second tag
// distinguishing revealed from confidential, followed by the variant's
// payload.
func EncodeAssignmentState(s AssignmentState) []byte {
	w := encoding.NewWriter()
	w.WriteU8(uint8(s.Kind))
	switch s.Kind {
	case types.StateDeclarative:
	case types.StateFungible:
		if revealed, ok := s.Fungible.Revealed(); ok {
			w.WriteU8(1)
			w.WriteU64(revealed.Amount)
			w.WriteU64(revealed.Blinding)
		} else {
			w.WriteU8(0)
			c := s.Fungible.Commitment()
			w.WriteFixed32([32]byte(c))
			w.WriteBytes(s.Fungible.rangeProof)
		}
	case types.StateStructured:
		w.WriteU16(uint16(s.Structured.SemanticType))
		w.WriteBytes(s.Structured.Payload)
	case types.StateAttachment:
		w.WriteFixed32(s.Attachment.ContentHash)
		w.WriteString(s.Attachment.MediaType)
	}
	return w.Bytes()
}

// DecodeAssignmentState parses a payload previously written by
// EncodeAssignmentState.
func DecodeAssignmentState(r *encoding.Reader) (AssignmentState, error) {
	kindByte, err := r.ReadU8()
	if err != nil {
		return AssignmentState{}, err
	}
	kind := types.StateKind(kindByte)
	switch kind {
	case types.StateDeclarative:
		return NewDeclarativeState(), nil
	case types.StateFungible:
		tag, err := r.ReadU8()
		if err != nil {
			return AssignmentState{}, err
		}
		if tag == 1 {
			amount, err := r.ReadU64()
			if err != nil {
				return AssignmentState{}, err
			}
			blinding, err := r.ReadU64()
			if err != nil {
				return AssignmentState{}, err
			}
			return NewFungibleAssignmentState(NewRevealedFungible(amount, blinding)), nil
		}
		raw, err := r.ReadFixed32()
		if err != nil {
			return AssignmentState{}, err
		}
		rangeProof, err := r.ReadBytes(^uint16(0))
		if err != nil {
			return AssignmentState{}, err
		}
		return NewFungibleAssignmentState(NewConfidentialFungible(confidential.Commitment(raw), rangeProof)), nil
	case types.StateStructured:
		st, err := r.ReadU16()
		if err != nil {
			return AssignmentState{}, err
		}
		payload, err := r.ReadBytes(^uint16(0))
		if err != nil {
			return AssignmentState{}, err
		}
		return NewStructuredAssignmentState(StructuredState{SemanticType: types.SemanticType(st), Payload: payload}), nil
	case types.StateAttachment:
		hash, err := r.ReadFixed32()
		if err != nil {
			return AssignmentState{}, err
		}
		mediaType, err := r.ReadString(^uint16(0))
		if err != nil {
			return AssignmentState{}, err
		}
		return NewAttachmentAssignmentState(AttachmentState{ContentHash: hash, MediaType: mediaType}), nil
	default:
		return AssignmentState{}, fmt.Errorf("contract: unknown state kind %d", kindByte)
	}
}

// assignmentReservedBytes is the width of the forward-compatibility
// reserved field following an assignment's seal and state: a future
// revision can add per-assignment flags here without breaking decoders
// that predate them, since a non-zero value fails closed instead of being
// silently misinterpreted (spec section 6.1's canonical encoding).
const assignmentReservedBytes = 2

// EncodeAssignment renders a seal+state pair's full round-trip form.
func EncodeAssignment(a Assignment) []byte {
	w := encoding.NewWriter()
	w.WriteBytes(EncodeSeal(a.Seal))
	w.WriteBytes(EncodeAssignmentState(a.State))
	w.WriteReserved(assignmentReservedBytes)
	return w.Bytes()
}

// DecodeAssignment parses an assignment previously written by EncodeAssignment.
func DecodeAssignment(r *encoding.Reader) (Assignment, error) {
	sealBytes, err := r.ReadBytes(^uint16(0))
	if err != nil {
		return Assignment{}, err
	}
	seal, err := DecodeSeal(encoding.NewReader(sealBytes))
	if err != nil {
		return Assignment{}, err
	}
	stateBytes, err := r.ReadBytes(^uint16(0))
	if err != nil {
		return Assignment{}, err
	}
	state, err := DecodeAssignmentState(encoding.NewReader(stateBytes))
	if err != nil {
		return Assignment{}, err
	}
	if err := r.ReadReserved(assignmentReservedBytes); err != nil {
		return Assignment{}, err
	}
	return Assignment{Seal: seal, State: state}, nil
}
