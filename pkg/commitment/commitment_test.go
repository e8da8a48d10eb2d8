package commitment

import "testing"

func TestHashTaggedDifferentiatesTags(t *testing.T) {
	data := []byte("payload")
	a := HashTagged("tag-a", data)
	b := HashTagged("tag-b", data)
	if a == b {
		t.Fatal("distinct tags must not collide for the same data")
	}
}

func TestHashTaggedIsDeterministic(t *testing.T) {
	data := []byte("payload")
	a := HashTagged("tag", data)
	b := HashTagged("tag", data)
	if a != b {
		t.Fatal("HashTagged must be deterministic")
	}
}

func TestRootEmptyIsZero(t *testing.T) {
	root := Root("node", nil)
	if !root.IsZero() {
		t.Fatal("empty collection must produce the fixed zero root")
	}
}

func TestRootOddNodeSelfPairs(t *testing.T) {
	leaves := []ID{
		HashTagged("leaf", []byte("a")),
		HashTagged("leaf", []byte("b")),
		HashTagged("leaf", []byte("c")),
	}
	root := Root("node", leaves)
	if root.IsZero() {
		t.Fatal("non-empty collection must not produce the zero root")
	}

	// Recomputing with a duplicated final leaf to force an even count must
	// match: the odd node is paired with itself at the same depth, which
	// hashes exactly the pair a duplicated input leaf would form.
	evened := append(append([]ID(nil), leaves...), leaves[2])
	if Root("node", evened) != root {
		t.Fatal("self-pairing at reduction time must match duplicating the input leaf")
	}
}

func TestRootIsOrderSensitive(t *testing.T) {
	a := HashTagged("leaf", []byte("a"))
	b := HashTagged("leaf", []byte("b"))
	if Root("node", []ID{a, b}) == Root("node", []ID{b, a}) {
		t.Fatal("swapping leaf order must change the root")
	}
}

func TestMapRootMatchesManualLeafHashing(t *testing.T) {
	entries := [][]byte{[]byte("x"), []byte("y")}
	got := MapRoot("node", "leaf", entries)

	leaves := make([]ID, len(entries))
	for i, e := range entries {
		leaves[i] = Leaf("leaf", e)
	}
	want := Root("node", leaves)

	if got != want {
		t.Fatal("MapRoot must match manually leaf-hashing then computing Root")
	}
}
