package contract

import "testing"

func TestOpIdStringRoundTrips(t *testing.T) {
	var raw [32]byte
	for i := range raw {
		raw[i] = byte(i * 3)
	}
	id := OpId(raw)
	s := id.String()
	if s == "" {
		t.Fatal("expected non-empty textual form")
	}
}

func TestContractIdFromGenesisReinterpretsBytes(t *testing.T) {
	var raw [32]byte
	raw[0] = 0xAB
	opid := OpId(raw)
	cid := ContractIdFromGenesis(opid)
	if cid.Bytes() != opid.Bytes() {
		t.Fatalf("ContractIdFromGenesis changed bytes: %x != %x", cid.Bytes(), opid.Bytes())
	}
}

func TestOpoutString(t *testing.T) {
	var raw [32]byte
	o := Opout{OpId: OpId(raw), Type: 5, Index: 2}
	if o.String() == "" {
		t.Fatal("expected non-empty Opout string")
	}
}
