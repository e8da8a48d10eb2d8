// Copyright 2025 Certen Protocol
//
// Package seal implements the single-use-seal checker: given a witness, a
// contract id, an operation id, and a list of seal definitions, verify that
// the witness closes every seal and carries a valid commitment to the
// operation (spec section 4.5).

package seal

import (
	"errors"
	"fmt"

	"github.com/certen/contract-validator/pkg/contract"
)

// ErrConfidentialSeal is returned when a revealed seal is required but only
// a confidential (concealed) form is available.
var ErrConfidentialSeal = errors.New("seal: seal is confidential, revealed outpoint required")

// ErrSealNotSpent is the sentinel a Witness implementation's
// VerifyManySeals should wrap when the witness transaction simply does not
// spend one of the outpoints it was asked to close.
var ErrSealNotSpent = errors.New("seal: witness does not spend one of the closed outpoints")

// ErrBadWitnessCommitment is the sentinel a Witness implementation's
// VerifyManySeals should wrap when the witness carries a multi-protocol
// commitment proof that fails to verify against (contractId, opid).
var ErrBadWitnessCommitment = errors.New("seal: witness commitment does not verify for this operation")

// WitnessId identifies a base-chain witness transaction.
type WitnessId [32]byte

// Order is an opaque, totally-preordered witness priority (e.g.
// confirmation height then position within block); witnesses must be
// yielded by the repository in non-decreasing Order (spec section 4.5.3).
// Per the open question on ordering totality, equal orders for two
// distinct witnesses are permitted; only a strict decrease is fatal.
type Order uint64

// Less reports whether o sorts strictly before other.
func (o Order) Less(other Order) bool { return o < other }

// Witness is a base-chain transaction plus a multi-protocol-commitment
// proof binding it to a specific operation (spec section 6.4).
type Witness interface {
	WitnessID() WitnessId
	Order() Order
	// VerifyManySeals checks that the witness's base-chain transaction
	// spends every outpoint named by seals as one of its inputs, and that
	// the witness's commitment carries a valid multi-protocol-commitment
	// proof under contractId committing to opid. Implementations should
	// wrap ErrSealNotSpent for the former failure and ErrBadWitnessCommitment
	// for the latter so Checker.Check can discriminate them; any other
	// error is recorded as a generic seal-closing failure.
	VerifyManySeals(seals []contract.Outpoint, contractId contract.ContractId, opid contract.OpId) error
	// Txid returns the witness transaction's id, used to materialize
	// vout-only genesis seals.
	Txid() [32]byte
}

// Checker verifies that a set of assignments' seals are closed by witness.
type Checker struct{}

// NewChecker returns a seal Checker.
func NewChecker() *Checker { return &Checker{} }

// Check verifies every seal among assignments is revealed (materializing
// vout-only seals against witness's txid first) and that witness closes
// all of their outpoints while committing to (contractId, opid).
func (c *Checker) Check(witness Witness, contractId contract.ContractId, opid contract.OpId, assignments []contract.Assignment) error {
	outpoints := make([]contract.Outpoint, 0, len(assignments))
	for i, a := range assignments {
		materialized := a.Seal.Materialize(witness.Txid())
		revealed, ok := materialized.Revealed()
		if !ok {
			return fmt.Errorf("seal %d: %w", i, ErrConfidentialSeal)
		}
		outpoints = append(outpoints, revealed.Outpoint)
	}
	return witness.VerifyManySeals(outpoints, contractId, opid)
}

// AssertNonDecreasingOrder enforces spec 4.5.3's ordering contract across
// successive witnesses yielded by a repository. A violation is fatal: the
// caller must treat the consignment as adversarial and abort the whole run.
func AssertNonDecreasingOrder(prev, next Order) error {
	if next < prev {
		return fmt.Errorf("seal: witness order %d is less than previous order %d: adversarial consignment", next, prev)
	}
	return nil
}
