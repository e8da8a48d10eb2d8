package validator

import (
	"testing"

	"github.com/certen/contract-validator/pkg/contract"
	"github.com/certen/contract-validator/pkg/schema"
	"github.com/certen/contract-validator/pkg/types"
)

func TestProcessOperationAppliesFIFOGlobalEviction(t *testing.T) {
	sch := &schema.Schema{
		Genesis: schema.OpSchema{
			Globals: map[types.GlobalStateType]schema.GlobalSpec{1: {MaxRetained: 2}},
		},
	}
	genesis := &contract.Genesis{}
	state := NewStateFromGenesis(genesis, contract.SchemaId{}, sch)

	state.ProcessOperation(contract.RefGenesis(&contract.Genesis{
		Globals: contract.GlobalState{1: {{Payload: []byte("a")}, {Payload: []byte("b")}}},
	}))
	if state.CountGlobal(1) != 2 {
		t.Fatalf("expected 2 retained globals, got %d", state.CountGlobal(1))
	}

	state.ProcessOperation(contract.RefGenesis(&contract.Genesis{
		Globals: contract.GlobalState{1: {{Payload: []byte("c")}}},
	}))
	if state.CountGlobal(1) != 2 {
		t.Fatalf("expected FIFO window to stay at 2, got %d", state.CountGlobal(1))
	}
	first, ok := state.LoadGlobal(1, 0)
	if !ok || string(first.Payload) != "b" {
		t.Fatalf("expected oldest entry evicted, first retained is %+v", first)
	}
	second, ok := state.LoadGlobal(1, 1)
	if !ok || string(second.Payload) != "c" {
		t.Fatalf("expected newest entry retained, got %+v", second)
	}
}

func TestUnspentInsertCountLoadRemove(t *testing.T) {
	sch := &schema.Schema{}
	state := NewStateFromGenesis(&contract.Genesis{}, contract.SchemaId{}, sch)

	genesis := &contract.Genesis{
		Assignments: contract.Assignments{
			1: {
				contract.NewAssignment(contract.Seal{}, contract.NewDeclarativeState()),
				contract.NewAssignment(contract.Seal{}, contract.NewDeclarativeState()),
			},
		},
	}
	ref := contract.RefGenesis(genesis)
	state.ProcessOperation(ref)

	if got := state.CountUnspent(1); got != 2 {
		t.Fatalf("expected 2 unspent entries, got %d", got)
	}

	first := contract.Opout{OpId: genesis.OpId(), Type: 1, Index: 0}
	second := contract.Opout{OpId: genesis.OpId(), Type: 1, Index: 1}
	if _, ok := state.LookupUnspent(first); !ok {
		t.Fatal("expected first opout to resolve")
	}

	state.RemoveUnspent(first)
	if got := state.CountUnspent(1); got != 1 {
		t.Fatalf("expected 1 unspent entry after removal, got %d", got)
	}
	loaded, ok := state.LoadUnspent(1, 0)
	if !ok {
		t.Fatal("expected position 0 to still resolve to the surviving entry")
	}
	if _, stillThere := state.LookupUnspent(second); !stillThere {
		t.Fatal("expected second opout to remain unspent")
	}
	_ = loaded
}
