package seal

import (
	"errors"
	"fmt"
	"testing"

	"github.com/certen/contract-validator/pkg/contract"
)

type stubWitness struct {
	id         WitnessId
	order      Order
	txid       [32]byte
	verifyErr  error
	gotOutputs []contract.Outpoint
}

func (w *stubWitness) WitnessID() WitnessId { return w.id }
func (w *stubWitness) Order() Order         { return w.order }
func (w *stubWitness) Txid() [32]byte       { return w.txid }
func (w *stubWitness) VerifyManySeals(outpoints []contract.Outpoint, contractId contract.ContractId, opid contract.OpId) error {
	w.gotOutputs = outpoints
	return w.verifyErr
}

func TestCheckMaterializesVoutOnlySeals(t *testing.T) {
	voutOnly := contract.RevealedSeal{Outpoint: contract.Outpoint{Vout: 3}, Blinding: 1}
	a := contract.NewAssignment(contract.NewRevealedSeal(voutOnly), contract.NewDeclarativeState())

	w := &stubWitness{txid: [32]byte{7, 7, 7}}
	c := NewChecker()
	if err := c.Check(w, contract.ContractId{}, contract.OpId{}, []contract.Assignment{a}); err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(w.gotOutputs) != 1 || w.gotOutputs[0].Txid != w.txid {
		t.Fatalf("expected materialized outpoint with witness txid, got %+v", w.gotOutputs)
	}
}

func TestCheckRejectsConfidentialSeal(t *testing.T) {
	confidential := contract.NewConfidentialSeal(contract.NewRevealedSeal(sampleSeal()).Conceal())
	a := contract.NewAssignment(confidential, contract.NewDeclarativeState())

	w := &stubWitness{}
	c := NewChecker()
	if err := c.Check(w, contract.ContractId{}, contract.OpId{}, []contract.Assignment{a}); err == nil {
		t.Fatal("expected error requiring a revealed seal")
	}
}

func TestCheckDiscriminatesSealNotSpent(t *testing.T) {
	a := contract.NewAssignment(contract.NewRevealedSeal(sampleSeal()), contract.NewDeclarativeState())
	w := &stubWitness{verifyErr: fmt.Errorf("wrap: %w", ErrSealNotSpent)}
	c := NewChecker()
	err := c.Check(w, contract.ContractId{}, contract.OpId{}, []contract.Assignment{a})
	if !errors.Is(err, ErrSealNotSpent) {
		t.Fatalf("expected ErrSealNotSpent, got %v", err)
	}
}

func TestCheckDiscriminatesBadWitnessCommitment(t *testing.T) {
	a := contract.NewAssignment(contract.NewRevealedSeal(sampleSeal()), contract.NewDeclarativeState())
	w := &stubWitness{verifyErr: fmt.Errorf("wrap: %w", ErrBadWitnessCommitment)}
	c := NewChecker()
	err := c.Check(w, contract.ContractId{}, contract.OpId{}, []contract.Assignment{a})
	if !errors.Is(err, ErrBadWitnessCommitment) {
		t.Fatalf("expected ErrBadWitnessCommitment, got %v", err)
	}
}

func sampleSeal() contract.RevealedSeal {
	return contract.RevealedSeal{Outpoint: contract.Outpoint{Txid: [32]byte{1}, Vout: 0}, Blinding: 5}
}

func TestAssertNonDecreasingOrder(t *testing.T) {
	if err := AssertNonDecreasingOrder(5, 5); err != nil {
		t.Fatalf("equal orders must be permitted: %v", err)
	}
	if err := AssertNonDecreasingOrder(5, 6); err != nil {
		t.Fatalf("increasing order must be permitted: %v", err)
	}
	if err := AssertNonDecreasingOrder(6, 5); err == nil {
		t.Fatal("expected error for a strict decrease in witness order")
	}
}
