package contract

import (
	"errors"
	"testing"

	"github.com/certen/contract-validator/pkg/encoding"
	"github.com/certen/contract-validator/pkg/types"
)

func TestSealRoundTripRevealed(t *testing.T) {
	s := NewRevealedSeal(RevealedSeal{Outpoint: Outpoint{Txid: [32]byte{1, 2, 3}, Vout: 7}, Blinding: 42})
	decoded, err := DecodeSeal(encoding.NewReader(EncodeSeal(s)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	revealed, ok := decoded.Revealed()
	if !ok {
		t.Fatal("expected decoded seal to be revealed")
	}
	if revealed.Outpoint.Vout != 7 || revealed.Blinding != 42 {
		t.Fatalf("round-trip mismatch: %+v", revealed)
	}
}

func TestSealRoundTripConfidential(t *testing.T) {
	s := NewConfidentialSeal(NewRevealedSeal(RevealedSeal{Outpoint: Outpoint{Vout: 3}, Blinding: 9}).Conceal())
	decoded, err := DecodeSeal(encoding.NewReader(EncodeSeal(s)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.IsRevealed() {
		t.Fatal("expected decoded seal to remain confidential")
	}
	if decoded.Conceal() != s.Conceal() {
		t.Fatal("expected concealed commitment to round-trip")
	}
}

func TestAssignmentStateRoundTripFungibleRevealed(t *testing.T) {
	s := NewFungibleAssignmentState(NewRevealedFungible(100, 5))
	decoded, err := DecodeAssignmentState(encoding.NewReader(EncodeAssignmentState(s)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	revealed, ok := decoded.Fungible.Revealed()
	if !ok || revealed.Amount != 100 || revealed.Blinding != 5 {
		t.Fatalf("round-trip mismatch: %+v ok=%v", revealed, ok)
	}
}

func TestAssignmentStateRoundTripStructured(t *testing.T) {
	s := NewStructuredAssignmentState(StructuredState{SemanticType: 7, Payload: []byte("hello")})
	decoded, err := DecodeAssignmentState(encoding.NewReader(EncodeAssignmentState(s)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Kind != types.StateStructured || decoded.Structured.SemanticType != 7 || string(decoded.Structured.Payload) != "hello" {
		t.Fatalf("round-trip mismatch: %+v", decoded)
	}
}

func TestAssignmentRoundTrip(t *testing.T) {
	a := NewAssignment(
		NewRevealedSeal(RevealedSeal{Outpoint: Outpoint{Txid: [32]byte{9}, Vout: 1}, Blinding: 2}),
		NewDeclarativeState(),
	)
	decoded, err := DecodeAssignment(encoding.NewReader(EncodeAssignment(a)))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Commit() != a.Commit() {
		t.Fatal("expected commitment identity to round-trip through the codec")
	}
}

func TestAssignmentRejectsNonZeroReservedTrailer(t *testing.T) {
	a := NewAssignment(
		NewRevealedSeal(RevealedSeal{Outpoint: Outpoint{Txid: [32]byte{9}, Vout: 1}, Blinding: 2}),
		NewDeclarativeState(),
	)
	encoded := EncodeAssignment(a)
	encoded[len(encoded)-1] = 0x01

	if _, err := DecodeAssignment(encoding.NewReader(encoded)); !errors.Is(err, encoding.ErrReservedNonZero) {
		t.Fatalf("expected ErrReservedNonZero, got %v", err)
	}
}
