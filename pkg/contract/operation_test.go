package contract

import "testing"

func sampleGenesis() Genesis {
	return Genesis{
		Ffv:       SupportedFFV,
		SchemaId:  SchemaId{1, 2, 3},
		Timestamp: 1700000000,
		Issuer:    []byte("issuer-pubkey"),
		ChainNet:  "bitcoin-testnet4",
		Metadata:  Metadata{},
		Globals:   GlobalState{},
		Assignments: Assignments{
			1: {NewAssignment(NewRevealedSeal(sampleRevealedSeal()), NewDeclarativeState())},
		},
	}
}

func TestGenesisOpIdDeterministic(t *testing.T) {
	g := sampleGenesis()
	a := g.OpId()
	b := g.OpId()
	if a != b {
		t.Fatalf("genesis OpId is not deterministic: %x != %x", a, b)
	}
}

func TestGenesisOpIdChangesWithContent(t *testing.T) {
	g1 := sampleGenesis()
	g2 := sampleGenesis()
	g2.Timestamp++

	if g1.OpId() == g2.OpId() {
		t.Fatal("expected different OpId after changing genesis timestamp")
	}
}

func TestOpIdStableUnderAssignmentConceal(t *testing.T) {
	g := sampleGenesis()
	before := g.OpId()

	concealed := Genesis{
		Ffv: g.Ffv, SchemaId: g.SchemaId, Timestamp: g.Timestamp,
		Issuer: g.Issuer, ChainNet: g.ChainNet, Metadata: g.Metadata, Globals: g.Globals,
		Assignments: Assignments{},
	}
	for ty, group := range g.Assignments {
		for _, a := range group {
			concealed.Assignments[ty] = append(concealed.Assignments[ty], a.ConcealSeal().ConcealState())
		}
	}

	if after := concealed.OpId(); after != before {
		t.Fatalf("OpId changed after concealing assignments: %x != %x", after, before)
	}
}

func TestOpRefDispatchesToWrappedVariant(t *testing.T) {
	g := sampleGenesis()
	ref := RefGenesis(&g)
	if !ref.IsGenesis() {
		t.Fatal("expected IsGenesis to be true")
	}
	if ref.OpId() != g.OpId() {
		t.Fatal("OpRef.OpId() must match the wrapped genesis's OpId")
	}

	tr := Transition{Ffv: SupportedFFV, ContractId: ContractIdFromGenesis(g.OpId()), Nonce: 1}
	tref := RefTransition(&tr)
	if got, ok := tref.IsTransition(); !ok || got != &tr {
		t.Fatal("expected IsTransition to return the wrapped transition")
	}
}
