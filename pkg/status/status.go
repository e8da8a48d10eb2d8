// Copyright 2025 Certen Protocol
//
// Package status accumulates the three disjoint validation result streams
// — failures (consensus-blocking), warnings (non-blocking), and info
// (purely informational) — and computes an overall Validity verdict by
// lexicographic priority of the failing conditions (spec section 4.8).
//
// Grounded on the teacher's sentinel-error style (pkg/execution/errors.go,
// pkg/database/errors.go): enumerated, named conditions rather than ad-hoc
// strings, so callers can switch on a FailureKind the way the teacher
// switches on a sentinel error value.

package status

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/certen/contract-validator/pkg/contract"
)

// FailureKind enumerates the consensus-blocking conditions a validation
// run can report (spec section 4.8, non-exhaustive grouped list).
type FailureKind uint8

const (
	FailureSchemaMismatch FailureKind = iota
	FailureUnknownType
	FailureMetadataShape
	FailureGlobalStateOverflow
	FailureOccurrenceMismatch
	FailureMissingSeal
	FailureConfidentialSeal
	FailureBadWitnessCommitment
	FailureBadSealClosing
	FailureVMFailure
	FailureVerifierFailure
	FailureInvalidInputReference
	FailureContractIdMismatch
	FailureTooManyUnspent
	FailureUnsupportedFFV
)

func (k FailureKind) String() string {
	switch k {
	case FailureSchemaMismatch:
		return "SchemaMismatch"
	case FailureUnknownType:
		return "UnknownType"
	case FailureMetadataShape:
		return "MetadataShape"
	case FailureGlobalStateOverflow:
		return "GlobalStateOverflow"
	case FailureOccurrenceMismatch:
		return "OccurrenceMismatch"
	case FailureMissingSeal:
		return "MissingSeal"
	case FailureConfidentialSeal:
		return "ConfidentialSeal"
	case FailureBadWitnessCommitment:
		return "BadWitnessCommitment"
	case FailureBadSealClosing:
		return "BadSealClosing"
	case FailureVMFailure:
		return "VMFailure"
	case FailureVerifierFailure:
		return "VerifierFailure"
	case FailureInvalidInputReference:
		return "InvalidInputReference"
	case FailureContractIdMismatch:
		return "ContractIdMismatch"
	case FailureTooManyUnspent:
		return "TooManyUnspent"
	case FailureUnsupportedFFV:
		return "UnsupportedFFV"
	default:
		return fmt.Sprintf("FailureKind(%d)", uint8(k))
	}
}

// Failure is one consensus-blocking condition recorded against a specific operation.
type Failure struct {
	Kind    FailureKind
	OpId    contract.OpId
	Message string
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s at %s: %s", f.Kind, f.OpId, f.Message)
}

// WarningKind enumerates the non-blocking conditions a validation run can report.
type WarningKind uint8

const (
	WarningUnminedTerminal WarningKind = iota
	WarningEndpointSealNotFound
	WarningExcessiveTransition
)

func (k WarningKind) String() string {
	switch k {
	case WarningUnminedTerminal:
		return "UnminedTerminal"
	case WarningEndpointSealNotFound:
		return "EndpointSealNotFound"
	case WarningExcessiveTransition:
		return "ExcessiveTransition"
	default:
		return fmt.Sprintf("WarningKind(%d)", uint8(k))
	}
}

// Warning is one non-blocking condition recorded against a specific operation.
type Warning struct {
	Kind    WarningKind
	OpId    contract.OpId
	Message string
}

// InfoKind enumerates purely informational conditions.
type InfoKind uint8

const (
	InfoConfidentialStateUnverified InfoKind = iota
)

func (k InfoKind) String() string {
	switch k {
	case InfoConfidentialStateUnverified:
		return "ConfidentialStateUnverified"
	default:
		return fmt.Sprintf("InfoKind(%d)", uint8(k))
	}
}

// Info is one purely informational entry recorded against a specific operation.
type Info struct {
	Kind    InfoKind
	OpId    contract.OpId
	Message string
}

// Validity is the overall verdict a Status resolves to.
type Validity uint8

const (
	Valid Validity = iota
	UnminedTerminals
	UnresolvedTransactions
	Invalid
)

func (v Validity) String() string {
	switch v {
	case Valid:
		return "Valid"
	case UnminedTerminals:
		return "UnminedTerminals"
	case UnresolvedTransactions:
		return "UnresolvedTransactions"
	case Invalid:
		return "Invalid"
	default:
		return fmt.Sprintf("Validity(%d)", uint8(v))
	}
}

// Status accumulates validation results for one validation run. A Status
// is created fresh per call and only ever grows (spec invariant 3.5.6's
// surrounding lifecycle note, section 3.6).
type Status struct {
	// RunID identifies this validation run for correlation in logs and
	// metrics; it plays no part in the verdict itself.
	RunID uuid.UUID

	Failures []Failure
	Warnings []Warning
	Info     []Info

	unresolvedTransactions bool
}

// New returns an empty status stamped with a fresh run id.
func New() *Status {
	return &Status{RunID: uuid.New()}
}

// AddFailure records a consensus-blocking condition.
func (s *Status) AddFailure(kind FailureKind, opid contract.OpId, message string) {
	s.Failures = append(s.Failures, Failure{Kind: kind, OpId: opid, Message: message})
}

// AddWarning records a non-blocking condition.
func (s *Status) AddWarning(kind WarningKind, opid contract.OpId, message string) {
	s.Warnings = append(s.Warnings, Warning{Kind: kind, OpId: opid, Message: message})
}

// AddInfo records a purely informational entry.
func (s *Status) AddInfo(kind InfoKind, opid contract.OpId, message string) {
	s.Info = append(s.Info, Info{Kind: kind, OpId: opid, Message: message})
}

// MarkUnresolvedTransaction records that some transition's input could not
// be resolved and was skipped (spec section 7: "that transition is skipped
// entirely"). This does not by itself add a Failure or a Warning; the flag
// alone demotes an otherwise-Valid status to UnresolvedTransactions.
// pkg/validator does not call it: Extend records an unresolved input as
// FailureInvalidInputReference.
func (s *Status) MarkUnresolvedTransaction() {
	s.unresolvedTransactions = true
}

// Validity resolves the overall verdict by lexicographic priority: any
// Failure makes the run Invalid; absent that, an unresolved transaction
// input makes it UnresolvedTransactions; absent that, an unmined-terminal
// warning makes it UnminedTerminals; otherwise Valid.
func (s *Status) Validity() Validity {
	if len(s.Failures) > 0 {
		return Invalid
	}
	if s.unresolvedTransactions {
		return UnresolvedTransactions
	}
	for _, w := range s.Warnings {
		if w.Kind == WarningUnminedTerminal {
			return UnminedTerminals
		}
	}
	return Valid
}
