package status

import (
	"testing"

	"github.com/certen/contract-validator/pkg/contract"
)

func TestValidityPriorityOrder(t *testing.T) {
	var opid contract.OpId

	empty := New()
	if got := empty.Validity(); got != Valid {
		t.Fatalf("empty status validity = %v, want Valid", got)
	}

	unmined := New()
	unmined.AddWarning(WarningUnminedTerminal, opid, "terminal not yet mined")
	if got := unmined.Validity(); got != UnminedTerminals {
		t.Fatalf("validity = %v, want UnminedTerminals", got)
	}

	unresolved := New()
	unresolved.AddWarning(WarningUnminedTerminal, opid, "terminal not yet mined")
	unresolved.MarkUnresolvedTransaction()
	if got := unresolved.Validity(); got != UnresolvedTransactions {
		t.Fatalf("validity = %v, want UnresolvedTransactions (higher priority than UnminedTerminals)", got)
	}

	invalid := New()
	invalid.AddWarning(WarningUnminedTerminal, opid, "terminal not yet mined")
	invalid.MarkUnresolvedTransaction()
	invalid.AddFailure(FailureVMFailure, opid, "vm returned false")
	if got := invalid.Validity(); got != Invalid {
		t.Fatalf("validity = %v, want Invalid (highest priority)", got)
	}
}

func TestStatusOnlyGrows(t *testing.T) {
	var opid contract.OpId
	s := New()
	s.AddFailure(FailureSchemaMismatch, opid, "bad shape")
	s.AddWarning(WarningExcessiveTransition, opid, "too many transitions")
	s.AddInfo(InfoConfidentialStateUnverified, opid, "could not re-verify")

	if len(s.Failures) != 1 || len(s.Warnings) != 1 || len(s.Info) != 1 {
		t.Fatalf("expected one entry per stream, got %d/%d/%d", len(s.Failures), len(s.Warnings), len(s.Info))
	}
}
