package validator

import (
	"testing"

	"github.com/certen/contract-validator/pkg/contract"
	"github.com/certen/contract-validator/pkg/schema"
	"github.com/certen/contract-validator/pkg/seal"
	"github.com/certen/contract-validator/pkg/status"
	"github.com/certen/contract-validator/pkg/types"
)

type stubWitness struct {
	order seal.Order
	txid  [32]byte
}

func (w stubWitness) WitnessID() seal.WitnessId { return seal.WitnessId{} }
func (w stubWitness) Order() seal.Order         { return w.order }
func (w stubWitness) Txid() [32]byte            { return w.txid }
func (w stubWitness) VerifyManySeals(outpoints []contract.Outpoint, contractId contract.ContractId, opid contract.OpId) error {
	return nil
}

type memIterator struct {
	witnesses []seal.Witness
	bundles   []*contract.Bundle
	idx       int
}

func (it *memIterator) Next() (seal.Witness, *contract.Bundle, bool) {
	if it.idx >= len(it.witnesses) {
		return nil, nil, false
	}
	w, b := it.witnesses[it.idx], it.bundles[it.idx]
	it.idx++
	return w, b, true
}

type memRepo struct {
	sch     *schema.Schema
	genesis *contract.Genesis
	it      *memIterator
}

func (m *memRepo) Schema() *schema.Schema                               { return m.sch }
func (m *memRepo) Genesis() *contract.Genesis                           { return m.genesis }
func (m *memRepo) Transitions() Iterator                                { return m.it }
func (m *memRepo) Extension(id contract.OpId) (*contract.Extension, bool) { return nil, false }
func (m *memRepo) Libs() map[string][]byte                              { return nil }

func buildSchema() *schema.Schema {
	return &schema.Schema{
		Genesis: schema.OpSchema{
			Assignments: map[types.OwnedStateType]schema.OwnedSpec{
				1: {Occurs: types.Once(), Kind: types.StateDeclarative},
			},
		},
		Transitions: map[types.TransitionType]schema.OpSchema{
			1: {
				Inputs: map[types.OwnedStateType]types.Occurs{1: types.Once()},
				Assignments: map[types.OwnedStateType]schema.OwnedSpec{
					1: {Occurs: types.Once(), Kind: types.StateDeclarative},
				},
				Verifier: types.Verifier{Kind: types.VerifierNone},
			},
		},
	}
}

func TestExtendHappyPathConsumesInputAndProducesOutput(t *testing.T) {
	sch := buildSchema()
	genesis := &contract.Genesis{
		Ffv:      1,
		SchemaId: sch.Id(),
		Assignments: contract.Assignments{
			1: {contract.NewAssignment(
				contract.NewRevealedSeal(contract.RevealedSeal{Outpoint: contract.Outpoint{Vout: 0}, Blinding: 1}),
				contract.NewDeclarativeState(),
			)},
		},
	}

	transition := &contract.Transition{
		Ffv:            1,
		ContractId:     contract.ContractIdFromGenesis(genesis.OpId()),
		TransitionType: 1,
		Inputs:         []contract.Opout{{OpId: genesis.OpId(), Type: 1, Index: 0}},
		Assignments: contract.Assignments{
			1: {contract.NewAssignment(
				contract.NewRevealedSeal(contract.RevealedSeal{Outpoint: contract.Outpoint{Txid: [32]byte{9}, Vout: 1}, Blinding: 2}),
				contract.NewDeclarativeState(),
			)},
		},
	}

	bundle := contract.NewBundle()
	bundle.Add(transition)

	witness := stubWitness{order: 1, txid: [32]byte{9}}
	repo := &memRepo{
		sch:     sch,
		genesis: genesis,
		it:      &memIterator{witnesses: []seal.Witness{witness}, bundles: []*contract.Bundle{bundle}},
	}

	state := NewStateFromGenesis(genesis, contract.SchemaId{}, sch)
	st, err := Extend(state, sch, NewCheckedRepository(repo), EmbeddedVM{}, seal.NewChecker())
	if err != nil {
		t.Fatalf("extend: %v", err)
	}
	if st.Validity() != status.Valid {
		t.Fatalf("expected Valid, got %v: failures=%v warnings=%v", st.Validity(), st.Failures, st.Warnings)
	}
	if state.UnspentLen() != 1 {
		t.Fatalf("expected exactly 1 unspent entry after consuming genesis's output, got %d", state.UnspentLen())
	}
	genesisOutpoint := contract.Opout{OpId: genesis.OpId(), Type: 1, Index: 0}
	if _, stillUnspent := state.LookupUnspent(genesisOutpoint); stillUnspent {
		t.Fatal("expected genesis output to be consumed")
	}
}

func TestExtendAbortsOnDecreasingWitnessOrder(t *testing.T) {
	sch := buildSchema()
	genesis := &contract.Genesis{
		Assignments: contract.Assignments{
			1: {contract.NewAssignment(contract.NewRevealedSeal(contract.RevealedSeal{Outpoint: contract.Outpoint{Vout: 0}}), contract.NewDeclarativeState())},
		},
	}
	bundle := contract.NewBundle()

	repo := &memRepo{
		sch:     sch,
		genesis: genesis,
		it: &memIterator{
			witnesses: []seal.Witness{stubWitness{order: 5, txid: [32]byte{1}}, stubWitness{order: 2, txid: [32]byte{2}}},
			bundles:   []*contract.Bundle{bundle, bundle},
		},
	}

	state := NewStateFromGenesis(genesis, contract.SchemaId{}, sch)
	_, err := Extend(state, sch, NewCheckedRepository(repo), EmbeddedVM{}, seal.NewChecker())
	if err == nil {
		t.Fatal("expected a fatal error for decreasing witness order")
	}
}

type lyingExtensionRepo struct {
	memRepo
}

func (r *lyingExtensionRepo) Extension(id contract.OpId) (*contract.Extension, bool) {
	return &contract.Extension{ExtensionType: 99}, true
}

func TestCheckedRepositoryDetectsLyingExtension(t *testing.T) {
	inner := &lyingExtensionRepo{}
	checked := NewCheckedRepository(inner)

	_, _ = checked.Extension(contract.OpId{1, 2, 3})
	if checked.Err() == nil {
		t.Fatal("expected lying-repository error to be recorded")
	}
	_, ok := checked.Extension(contract.OpId{1, 2, 3})
	if ok {
		t.Fatal("expected Extension to keep returning false once poisoned")
	}
}
