package verify

import (
	"testing"

	"github.com/certen/contract-validator/pkg/contract"
	"github.com/certen/contract-validator/pkg/types"
)

func fungibleAssignment(amount uint64) contract.Assignment {
	return contract.NewAssignment(contract.Seal{}, contract.NewFungibleAssignmentState(contract.NewRevealedFungible(amount, 1)))
}

func TestEqSumsPasses(t *testing.T) {
	tr := &contract.Transition{
		Assignments: contract.Assignments{4000: {fungibleAssignment(60), fungibleAssignment(40)}},
	}
	in := Inputs{Transition: tr, InputValues: []contract.Assignment{fungibleAssignment(100)}}

	ok, reason := Run(types.Verifier{Kind: types.VerifierEqSums, StateType: 4000}, in)
	if !ok {
		t.Fatalf("expected EqSums to pass, got reason: %s", reason)
	}
}

func TestEqSumsFailsOnMismatch(t *testing.T) {
	tr := &contract.Transition{
		Assignments: contract.Assignments{4000: {fungibleAssignment(99)}},
	}
	in := Inputs{Transition: tr, InputValues: []contract.Assignment{fungibleAssignment(100)}}

	ok, reason := Run(types.Verifier{Kind: types.VerifierEqSums, StateType: 4000}, in)
	if ok {
		t.Fatal("expected EqSums to fail for 100 in vs 99 out")
	}
	if reason == "" {
		t.Fatal("expected a non-empty failure reason")
	}
}

func TestEqValsComparesDeclarativeCounts(t *testing.T) {
	tr := &contract.Transition{
		Assignments: contract.Assignments{
			7: {
				contract.NewAssignment(contract.Seal{}, contract.NewDeclarativeState()),
				contract.NewAssignment(contract.Seal{}, contract.NewDeclarativeState()),
			},
		},
	}
	in := Inputs{
		Transition: tr,
		InputValues: []contract.Assignment{
			contract.NewAssignment(contract.Seal{}, contract.NewDeclarativeState()),
			contract.NewAssignment(contract.Seal{}, contract.NewDeclarativeState()),
		},
	}
	ok, reason := Run(types.Verifier{Kind: types.VerifierEqVals, StateType: 7}, in)
	if !ok {
		t.Fatalf("expected EqVals to pass, got reason: %s", reason)
	}
}

func TestNoneAlwaysPasses(t *testing.T) {
	ok, _ := Run(types.Verifier{Kind: types.VerifierNone}, Inputs{})
	if !ok {
		t.Fatal("expected None verifier to always pass")
	}
}
