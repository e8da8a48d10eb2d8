package schema

import (
	"testing"

	"github.com/certen/contract-validator/pkg/contract"
	"github.com/certen/contract-validator/pkg/types"
)

const sampleYAML = `
name: test-asset-schema
genesis:
  metadata: {}
  globals:
    1:
      occurs: {min: 1, max: 1}
      semantic_type: 1
  assignments:
    1:
      occurs: {min: 1, max: 65535}
      kind: fungible
      numeric_kind: u64
  verifier:
    kind: None
transitions:
  1:
    metadata: {}
    globals: {}
    inputs:
      1: {min: 1, max: 65535}
    assignments:
      1:
        occurs: {min: 1, max: 65535}
        kind: fungible
        numeric_kind: u64
    verifier:
      kind: EqSums
      state_type: 1
extensions: {}
`

func TestLoadParsesAndValidates(t *testing.T) {
	s, err := Load([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Name != "test-asset-schema" {
		t.Fatalf("name = %q", s.Name)
	}
	op, ok := s.Transitions[1]
	if !ok {
		t.Fatal("expected transition type 1 to be present")
	}
	if op.Verifier.Kind != types.VerifierEqSums {
		t.Fatalf("verifier kind = %v, want EqSums", op.Verifier.Kind)
	}
	if op.Assignments[1].Kind != types.StateFungible {
		t.Fatalf("assignment kind = %v, want fungible", op.Assignments[1].Kind)
	}
}

func TestValidateRejectsDanglingEntryPoint(t *testing.T) {
	s := &Schema{
		EntryPoints: map[types.EntryPointKey]string{
			types.TransitionEntry(99): "routine",
		},
		Transitions: map[types.TransitionType]OpSchema{},
		Extensions:  map[types.ExtensionType]OpSchema{},
	}
	if err := s.Validate(); err == nil {
		t.Fatal("expected dangling-reference error for an undeclared transition type")
	}
}

func TestOpSchemaForDispatchesByKind(t *testing.T) {
	s, err := Load([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	g := contract.Genesis{}
	if _, ok := s.OpSchemaFor(contract.RefGenesis(&g)); !ok {
		t.Fatal("expected genesis sub-schema to resolve")
	}

	tr := contract.Transition{TransitionType: 1}
	if _, ok := s.OpSchemaFor(contract.RefTransition(&tr)); !ok {
		t.Fatal("expected transition type 1 sub-schema to resolve")
	}

	unknown := contract.Transition{TransitionType: 42}
	if _, ok := s.OpSchemaFor(contract.RefTransition(&unknown)); ok {
		t.Fatal("expected unknown transition type to fail resolution")
	}
}
