// Copyright 2025 Certen Protocol
//
// Package confidential implements the Pedersen-style blinded commitment used
// to conceal a fungible state's amount: commitment = amount*G + blinding*H
// over the bn254 G1 group. Full zero-knowledge range-proof verification
// (proving the committed amount is non-negative and within range without
// revealing it) is named by spec section 3.3 as an external collaborator;
// this package only checks structural well-formedness of a commitment and
// exposes a RangeProofVerifier seam a caller can plug a real prover into.
//
// Grounded on github.com/consensys/gnark-crypto, already a teacher
// dependency via pkg/crypto/bls_zkp and pkg/crypto/bls (BLS12-381 there;
// bn254 here is the same library's sibling curve, chosen because its G1
// arithmetic is the simplest Pedersen-commitment substrate the pack
// offers without pulling in a dedicated secp256k1-zkp binding).
//
// H, the commitment's second generator, is derived from G by a
// hash-to-scalar multiplication with a fixed domain tag. This package makes
// no binding guarantee beyond "well-formed curve point" — see
// RangeProofVerifier — so H need not be a nothing-up-my-sleeve point; it
// only has to be a fixed, reproducible generator every validator agrees on.

package confidential

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
)

// ErrInvalidCommitment is returned when a commitment point is not on the curve
// or does not decompress to a valid bn254 G1 point.
var ErrInvalidCommitment = errors.New("confidential: invalid commitment point")

// ErrMissingRangeProof is returned when a confidential value carries no proof tag.
var ErrMissingRangeProof = errors.New("confidential: missing range proof tag")

var hGenerator = deriveH()

func deriveH() bn254.G1Affine {
	_, _, g, _ := bn254.Generators()
	digest := sha256.Sum256([]byte("certen-contract-validator/confidential/H"))
	var scalar big.Int
	scalar.SetBytes(digest[:])

	var jG bn254.G1Jac
	jG.FromAffine(&g)
	jG.ScalarMultiplication(&jG, &scalar)

	var h bn254.G1Affine
	h.FromJacobian(&jG)
	return h
}

// Commitment is a Pedersen commitment point, serialized compressed (32 bytes).
type Commitment [32]byte

// Commit computes commitment = amount*G + blinding*H.
func Commit(amount uint64, blinding *big.Int) Commitment {
	_, _, g, _ := bn254.Generators()

	var aScalar big.Int
	aScalar.SetUint64(amount)

	var aG bn254.G1Jac
	aG.FromAffine(&g)
	aG.ScalarMultiplication(&aG, &aScalar)

	var bH bn254.G1Jac
	bH.FromAffine(&hGenerator)
	bH.ScalarMultiplication(&bH, blinding)

	aG.AddAssign(&bH)

	var result bn254.G1Affine
	result.FromJacobian(&aG)

	compressed := result.Bytes()
	var out Commitment
	copy(out[:], compressed[:])
	return out
}

// Verify checks that the commitment decompresses to a valid curve point. It
// does not and cannot check what amount is committed to — that is the job of
// the paired range proof, verified by a caller-supplied RangeProofVerifier.
func (c Commitment) Verify() error {
	var p bn254.G1Affine
	if _, err := p.SetBytes(c[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCommitment, err)
	}
	return nil
}

// Add homomorphically combines two commitments:
// Commit(a,r1).Add(Commit(b,r2)) == Commit(a+b, r1+r2).
func (c Commitment) Add(other Commitment) (Commitment, error) {
	var p, q bn254.G1Affine
	if _, err := p.SetBytes(c[:]); err != nil {
		return Commitment{}, fmt.Errorf("%w: %v", ErrInvalidCommitment, err)
	}
	if _, err := q.SetBytes(other[:]); err != nil {
		return Commitment{}, fmt.Errorf("%w: %v", ErrInvalidCommitment, err)
	}

	var jp, jq bn254.G1Jac
	jp.FromAffine(&p)
	jq.FromAffine(&q)
	jp.AddAssign(&jq)

	var sum bn254.G1Affine
	sum.FromJacobian(&jp)
	b := sum.Bytes()
	var out Commitment
	copy(out[:], b[:])
	return out, nil
}

// RangeProofVerifier verifies that a commitment's concealed amount lies in a
// valid range without revealing it. The validator core never implements
// this itself (spec section 1 names range-proof libraries as an external
// collaborator); it only calls whatever implementation the caller supplies.
type RangeProofVerifier interface {
	VerifyRange(commitment Commitment, proof []byte) error
}

// AcceptAllRangeProofVerifier is a stub that only checks the commitment is
// well-formed and a proof tag is present, used as the default when a caller
// does not wire in a real prover.
type AcceptAllRangeProofVerifier struct{}

func (AcceptAllRangeProofVerifier) VerifyRange(commitment Commitment, proof []byte) error {
	if err := commitment.Verify(); err != nil {
		return err
	}
	if len(proof) == 0 {
		return ErrMissingRangeProof
	}
	return nil
}
