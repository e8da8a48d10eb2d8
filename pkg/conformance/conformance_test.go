package conformance

import (
	"testing"

	"github.com/certen/contract-validator/pkg/contract"
	"github.com/certen/contract-validator/pkg/encoding"
	"github.com/certen/contract-validator/pkg/schema"
	"github.com/certen/contract-validator/pkg/status"
	"github.com/certen/contract-validator/pkg/types"
)

func TestMetadataOccurrenceMismatchReportsFailure(t *testing.T) {
	op := schema.OpSchema{
		Metadata: map[types.MetaType]schema.MetaSpec{
			1: {Occurs: types.NoneOrOnce(), SemanticType: 0},
		},
		Globals:     map[types.GlobalStateType]schema.GlobalSpec{},
		Assignments: map[types.OwnedStateType]schema.OwnedSpec{},
	}
	g := contract.Genesis{
		Metadata: contract.Metadata{
			1: {encoding.MetaU8Value(1), encoding.MetaU8Value(2)},
		},
	}
	st := status.New()
	Check(st, op, contract.RefGenesis(&g), nil)

	if len(st.Failures) != 1 {
		t.Fatalf("expected exactly one failure, got %d: %+v", len(st.Failures), st.Failures)
	}
	if st.Failures[0].Kind != status.FailureOccurrenceMismatch {
		t.Fatalf("failure kind = %v, want FailureOccurrenceMismatch", st.Failures[0].Kind)
	}
}

func TestUndeclaredMetadataKeyIsUnknownType(t *testing.T) {
	op := schema.OpSchema{
		Metadata:    map[types.MetaType]schema.MetaSpec{},
		Globals:     map[types.GlobalStateType]schema.GlobalSpec{},
		Assignments: map[types.OwnedStateType]schema.OwnedSpec{},
	}
	g := contract.Genesis{
		Metadata: contract.Metadata{9: {encoding.MetaU8Value(1)}},
	}
	st := status.New()
	Check(st, op, contract.RefGenesis(&g), nil)

	if len(st.Failures) != 1 || st.Failures[0].Kind != status.FailureUnknownType {
		t.Fatalf("expected a single UnknownType failure, got %+v", st.Failures)
	}
}

func TestInputOccurrenceBound(t *testing.T) {
	op := schema.OpSchema{
		Metadata:    map[types.MetaType]schema.MetaSpec{},
		Globals:     map[types.GlobalStateType]schema.GlobalSpec{},
		Assignments: map[types.OwnedStateType]schema.OwnedSpec{},
		Inputs: map[types.OwnedStateType]types.Occurs{
			1: types.Once(),
		},
	}
	tr := contract.Transition{}
	st := status.New()
	Check(st, op, contract.RefTransition(&tr), map[types.OwnedStateType]int{1: 2})

	if len(st.Failures) != 1 || st.Failures[0].Kind != status.FailureOccurrenceMismatch {
		t.Fatalf("expected a single OccurrenceMismatch failure for 2 inputs against Once(), got %+v", st.Failures)
	}
}

func TestAssignmentKindMismatchIsSchemaMismatch(t *testing.T) {
	op := schema.OpSchema{
		Metadata: map[types.MetaType]schema.MetaSpec{},
		Globals:  map[types.GlobalStateType]schema.GlobalSpec{},
		Assignments: map[types.OwnedStateType]schema.OwnedSpec{
			1: {Occurs: types.Once(), Kind: types.StateDeclarative},
		},
	}
	g := contract.Genesis{
		Assignments: contract.Assignments{
			1: {contract.NewAssignment(contract.Seal{}, contract.NewFungibleAssignmentState(contract.NewRevealedFungible(1, 1)))},
		},
	}
	st := status.New()
	Check(st, op, contract.RefGenesis(&g), nil)

	if len(st.Failures) != 1 || st.Failures[0].Kind != status.FailureSchemaMismatch {
		t.Fatalf("expected a single SchemaMismatch failure, got %+v", st.Failures)
	}
}

func TestCleanOperationHasNoFailures(t *testing.T) {
	op := schema.OpSchema{
		Metadata: map[types.MetaType]schema.MetaSpec{},
		Globals:  map[types.GlobalStateType]schema.GlobalSpec{},
		Assignments: map[types.OwnedStateType]schema.OwnedSpec{
			1: {Occurs: types.Once(), Kind: types.StateDeclarative},
		},
	}
	g := contract.Genesis{
		Assignments: contract.Assignments{
			1: {contract.NewAssignment(contract.Seal{}, contract.NewDeclarativeState())},
		},
	}
	st := status.New()
	Check(st, op, contract.RefGenesis(&g), nil)

	if len(st.Failures) != 0 {
		t.Fatalf("expected no failures, got %+v", st.Failures)
	}
}
