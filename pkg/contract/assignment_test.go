package contract

import "testing"

func TestAssignmentCommitStableUnderConceal(t *testing.T) {
	seal := NewRevealedSeal(sampleRevealedSeal())
	state := NewFungibleAssignmentState(NewRevealedFungible(100, 7))
	a := NewAssignment(seal, state)

	want := a.Commit()

	if got := a.ConcealSeal().Commit(); got != want {
		t.Fatalf("ConcealSeal changed commit identity: %x != %x", got, want)
	}
	if got := a.ConcealState().Commit(); got != want {
		t.Fatalf("ConcealState changed commit identity: %x != %x", got, want)
	}
	bothConcealed := a.ConcealSeal().ConcealState()
	if got := bothConcealed.Commit(); got != want {
		t.Fatalf("fully concealed assignment changed commit identity: %x != %x", got, want)
	}
}

func TestAssignmentMergeRevealDominatesConceal(t *testing.T) {
	seal := sampleRevealedSeal()
	concealedView := NewAssignment(
		NewConfidentialSeal(NewRevealedSeal(seal).Conceal()),
		NewFungibleAssignmentState(NewRevealedFungible(50, 3)),
	)
	revealedView := NewAssignment(
		NewRevealedSeal(seal),
		NewFungibleAssignmentState(NewRevealedFungible(50, 3)),
	)

	merged, err := concealedView.Merge(revealedView)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if !merged.Seal.IsRevealed() {
		t.Fatal("merge should reveal a concealed seal when the other side has it revealed")
	}
	got, _ := merged.Seal.Revealed()
	if got != seal {
		t.Fatalf("merged seal = %+v, want %+v", got, seal)
	}
}

func TestAssignmentMergeRejectsConflictingReveal(t *testing.T) {
	seal := sampleRevealedSeal()
	concealedView := NewAssignment(
		NewConfidentialSeal(NewRevealedSeal(seal).Conceal()),
		NewDeclarativeState(),
	)
	wrongSeal := seal
	wrongSeal.Blinding++
	conflicting := NewAssignment(NewRevealedSeal(wrongSeal), NewDeclarativeState())

	if _, err := concealedView.Merge(conflicting); err == nil {
		t.Fatal("expected merge to reject a conflicting revealed seal")
	}
}

func TestFungibleConcealRevealCommitmentMatches(t *testing.T) {
	fungible := NewRevealedFungible(1234, 9)
	commitment := fungible.Commitment()

	confidentialOnly := NewConfidentialFungible(commitment, []byte{0x01})
	if confidentialOnly.Commitment() != commitment {
		t.Fatal("confidential-only fungible state must keep the same commitment")
	}
}
