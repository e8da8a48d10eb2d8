package store

import (
	"testing"

	"github.com/certen/contract-validator/pkg/contract"
	"github.com/certen/contract-validator/pkg/schema"
	"github.com/certen/contract-validator/pkg/validator"
)

type memKV struct {
	data map[string][]byte
}

func newMemKV() *memKV { return &memKV{data: make(map[string][]byte)} }

func (m *memKV) Get(key []byte) ([]byte, error) { return m.data[string(key)], nil }
func (m *memKV) Set(key, value []byte) error {
	m.data[string(key)] = append([]byte{}, value...)
	return nil
}

func TestSaveLoadRoundTrip(t *testing.T) {
	genesis := &contract.Genesis{
		Assignments: contract.Assignments{
			1: {contract.NewAssignment(
				contract.NewRevealedSeal(contract.RevealedSeal{Outpoint: contract.Outpoint{Vout: 0}, Blinding: 3}),
				contract.NewDeclarativeState(),
			)},
		},
	}
	sch := &schema.Schema{}
	state := validator.NewStateFromGenesis(genesis, contract.SchemaId{5}, sch)
	state.ProcessOperation(contract.RefGenesis(genesis))

	st := NewContractStateStore(newMemKV())
	if err := st.Save(state); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := st.Load(state.ContractId)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ContractId != state.ContractId {
		t.Fatalf("expected contract id to round-trip, got %s want %s", loaded.ContractId, state.ContractId)
	}
	if loaded.CountUnspent(1) != 1 {
		t.Fatalf("expected 1 unspent entry, got %d", loaded.CountUnspent(1))
	}
}

func TestLoadReturnsNotFoundForUnknownContract(t *testing.T) {
	st := NewContractStateStore(newMemKV())
	_, err := st.Load(contract.ContractId{9, 9, 9})
	if err == nil {
		t.Fatal("expected an error for an unknown contract id")
	}
}
