// Copyright 2025 Certen Protocol
//
// Package verify implements the built-in, consensus-critical transition
// predicates evaluated after schema conformance but before the VM runs
// (spec section 4.4): None, EqSums(t), EqVals(t), and CheckSigEcdsa(gty, mty).
//
// CheckSigEcdsa is grounded on github.com/ethereum/go-ethereum's secp256k1
// binding, already a teacher dependency (pkg/ethereum uses go-ethereum for
// transaction construction; here the same library verifies a compact
// signature instead).

package verify

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/certen/contract-validator/pkg/contract"
	"github.com/certen/contract-validator/pkg/types"
)

// ErrSumOverflow is returned by EqSums when summing revealed amounts
// overflows uint64; spec section 4.4 treats overflow as a failure, not a
// silently-wrapping success.
var ErrSumOverflow = errors.New("verify: fungible sum overflow")

// Inputs bundles what a built-in verifier needs: the transition under
// check plus the previously-unspent assignments its inputs resolved to, in
// input order, and the genesis globals (for CheckSigEcdsa's public key).
type Inputs struct {
	Transition     *contract.Transition
	InputValues    []contract.Assignment
	GenesisGlobals contract.GlobalState
}

// Run evaluates the verifier declared for a transition's type and reports
// whether it passed, along with a human-readable reason on failure.
func Run(v types.Verifier, in Inputs) (bool, string) {
	switch v.Kind {
	case types.VerifierNone:
		return true, ""
	case types.VerifierEqSums:
		return eqSums(v.StateType, in)
	case types.VerifierEqVals:
		return eqVals(v.StateType, in)
	case types.VerifierCheckSigEcdsa:
		return checkSigEcdsa(v.GlobalType, v.MetaType, in)
	default:
		return false, fmt.Sprintf("unknown verifier kind %v", v.Kind)
	}
}

func eqSums(ty types.OwnedStateType, in Inputs) (bool, string) {
	inSum, err := sumRevealedFungible(ty, in.InputValues)
	if err != nil {
		return false, err.Error()
	}
	outSum, err := sumRevealedFungible(ty, outputsOf(ty, in.Transition))
	if err != nil {
		return false, err.Error()
	}
	if inSum != outSum {
		return false, fmt.Sprintf("input sum %d != output sum %d for type %d", inSum, outSum, ty)
	}
	return true, ""
}

func sumRevealedFungible(ty types.OwnedStateType, assignments []contract.Assignment) (uint64, error) {
	var sum uint64
	for _, a := range assignments {
		if a.State.Kind != types.StateFungible {
			continue
		}
		revealed, ok := a.State.Fungible.Revealed()
		if !ok {
			continue
		}
		next := sum + revealed.Amount
		if next < sum {
			return 0, ErrSumOverflow
		}
		sum = next
	}
	return sum, nil
}

func outputsOf(ty types.OwnedStateType, t *contract.Transition) []contract.Assignment {
	if t == nil {
		return nil
	}
	return t.Assignments[ty]
}

func eqVals(ty types.OwnedStateType, in Inputs) (bool, string) {
	inCount := countDeclarative(ty, in.InputValues)
	outCount := countDeclarative(ty, outputsOf(ty, in.Transition))
	if inCount != outCount {
		return false, fmt.Sprintf("input declarative count %d != output count %d for type %d", inCount, outCount, ty)
	}
	return true, ""
}

func countDeclarative(ty types.OwnedStateType, assignments []contract.Assignment) int {
	n := 0
	for _, a := range assignments {
		if a.State.Kind == types.StateDeclarative {
			n++
		}
	}
	return n
}

func checkSigEcdsa(gty types.GlobalStateType, mty types.MetaType, in Inputs) (bool, string) {
	pubkeyValues := in.GenesisGlobals[gty]
	if len(pubkeyValues) == 0 {
		return false, fmt.Sprintf("no public key in genesis global %d", gty)
	}
	pubkey := pubkeyValues[0].Payload

	sigValues := in.Transition.Metadata[mty]
	if len(sigValues) == 0 {
		return false, fmt.Sprintf("no signature in metadata slot %d", mty)
	}
	sig := sigValues[0].Bytes
	if len(sig) != 64 {
		return false, fmt.Sprintf("signature length %d, want 64 (compact ECDSA)", len(sig))
	}

	opid := in.Transition.OpId()
	msg := opid.Bytes()
	if !crypto.VerifySignature(pubkey, msg[:], sig) {
		return false, "signature does not verify"
	}
	return true, ""
}
