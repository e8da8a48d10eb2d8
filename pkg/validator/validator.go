// Copyright 2025 Certen Protocol
//
// Extend implements the graph walker: the conceptual algorithm of spec
// section 4.7, applied as new witness+bundle pairs arrive from a
// CheckedRepository. It is strictly single-threaded and synchronous (spec
// section 5): no goroutines, no channels, no cancellation.

package validator

import (
	"errors"
	"fmt"

	"github.com/certen/contract-validator/pkg/conformance"
	"github.com/certen/contract-validator/pkg/contract"
	"github.com/certen/contract-validator/pkg/schema"
	"github.com/certen/contract-validator/pkg/seal"
	"github.com/certen/contract-validator/pkg/status"
	"github.com/certen/contract-validator/pkg/types"
	"github.com/certen/contract-validator/pkg/verify"
	"github.com/certen/contract-validator/pkg/vm"
)

// VMRunner executes one VM entry point's bytecode. EmbeddedVM is the
// production implementation; tests may substitute a stub (design notes,
// "keep the VM behind a narrow trait").
type VMRunner interface {
	Run(bytecode []byte, ctx *vm.Context) (bool, error)
}

// EmbeddedVM runs bytecode through pkg/vm's register-based interpreter.
type EmbeddedVM struct{}

// Run implements VMRunner.
func (EmbeddedVM) Run(bytecode []byte, ctx *vm.Context) (bool, error) {
	return vm.Run(bytecode, ctx)
}

// Extend walks every witness+bundle pair repo yields, validating and
// folding each operation into state. It returns the accumulated Status on
// every path except the two fatal conditions spec section 7 names
// (adversarial witness ordering, a lying repository), in which case the
// error return is non-nil and the Status reflects only what was processed
// before the abort.
func Extend(state *ContractState, sch *schema.Schema, repo *CheckedRepository, vmRunner VMRunner, sealChecker *seal.Checker) (*status.Status, error) {
	st := status.New()

	genesis := repo.Genesis()
	genesisRef := contract.RefGenesis(genesis)
	runGenesis(st, sch, repo, vmRunner, state, genesisRef)
	state.ProcessOperation(genesisRef)

	var prevOrder *seal.Order
	it := repo.Transitions()
	for {
		witness, bundle, ok := it.Next()
		if !ok {
			break
		}
		order := witness.Order()
		if prevOrder != nil {
			if err := seal.AssertNonDecreasingOrder(*prevOrder, order); err != nil {
				return st, err
			}
		}
		prevOrder = &order

		for _, t := range bundle.Known() {
			processTransition(st, sch, repo, vmRunner, sealChecker, state, witness, t)
			if err := repo.Err(); err != nil {
				return st, err
			}
		}
	}

	return st, nil
}

func runGenesis(st *status.Status, sch *schema.Schema, repo *CheckedRepository, vmRunner VMRunner, state *ContractState, ref contract.OpRef) {
	opid := ref.OpId()
	if genesis := repo.Genesis(); genesis.SchemaId != sch.Id() {
		st.AddFailure(status.FailureSchemaMismatch, opid, fmt.Sprintf("genesis declares schema %s, loaded schema is %s", genesis.SchemaId, sch.Id()))
	}
	opSchema, found := sch.OpSchemaFor(ref)
	if !found {
		st.AddFailure(status.FailureSchemaMismatch, opid, "no genesis sub-schema declared")
	} else {
		conformance.Check(st, opSchema, ref, nil)
	}
	runEntryPoint(st, sch, repo, vmRunner, state, ref, nil, types.GenesisEntry)
}

func processTransition(st *status.Status, sch *schema.Schema, repo *CheckedRepository, vmRunner VMRunner, sealChecker *seal.Checker, state *ContractState, witness seal.Witness, t *contract.Transition) {
	ref := contract.RefTransition(t)
	opid := t.OpId()

	if t.ContractId != state.ContractId {
		st.AddFailure(status.FailureContractIdMismatch, opid, fmt.Sprintf("transition contract id %s does not match state %s", t.ContractId, state.ContractId))
		return
	}

	inputValues := make([]contract.Assignment, 0, len(t.Inputs))
	inputTypesByGroup := make(map[types.OwnedStateType]int, len(t.Inputs))
	inputsByType := make(map[types.OwnedStateType][]contract.Assignment, len(t.Inputs))
	for _, in := range t.Inputs {
		a, resolved := state.LookupUnspent(in)
		if !resolved {
			if ext, found := repo.Extension(in.OpId); found {
				extRef := contract.RefExtension(ext)
				if extOpSchema, extFound := sch.OpSchemaFor(extRef); extFound {
					conformance.Check(st, extOpSchema, extRef, nil)
				} else {
					st.AddFailure(status.FailureUnknownType, ext.OpId(), fmt.Sprintf("extension type %d not declared by schema", ext.ExtensionType))
				}
				runEntryPoint(st, sch, repo, vmRunner, state, extRef, nil, types.ExtensionEntry(ext.ExtensionType))
				state.ProcessOperation(extRef)
				a, resolved = state.LookupUnspent(in)
			}
			if repo.Err() != nil {
				return
			}
		}
		if !resolved {
			st.AddFailure(status.FailureInvalidInputReference, opid, fmt.Sprintf("input %s references no unspent assignment and no extension resolves it", in))
			return
		}
		inputValues = append(inputValues, a)
		inputTypesByGroup[in.Type]++
		inputsByType[in.Type] = append(inputsByType[in.Type], a)
	}

	if err := sealChecker.Check(witness, state.ContractId, opid, inputValues); err != nil {
		switch {
		case errors.Is(err, seal.ErrConfidentialSeal):
			st.AddFailure(status.FailureConfidentialSeal, opid, err.Error())
		case errors.Is(err, seal.ErrSealNotSpent):
			st.AddFailure(status.FailureMissingSeal, opid, err.Error())
		case errors.Is(err, seal.ErrBadWitnessCommitment):
			st.AddFailure(status.FailureBadWitnessCommitment, opid, err.Error())
		default:
			st.AddFailure(status.FailureBadSealClosing, opid, err.Error())
		}
		return
	}

	opSchema, found := sch.OpSchemaFor(ref)
	if !found {
		st.AddFailure(status.FailureUnknownType, opid, fmt.Sprintf("transition type %d not declared by schema", t.TransitionType))
	} else {
		conformance.Check(st, opSchema, ref, inputTypesByGroup)
		if ok, reason := verify.Run(opSchema.Verifier, verify.Inputs{
			Transition:     t,
			InputValues:    inputValues,
			GenesisGlobals: repo.Genesis().Globals,
		}); !ok {
			st.AddFailure(status.FailureVerifierFailure, opid, reason)
		}
	}

	runEntryPoint(st, sch, repo, vmRunner, state, ref, inputsByType, types.TransitionEntry(t.TransitionType))

	state.ProcessOperation(ref)
	for _, in := range t.Inputs {
		state.RemoveUnspent(in)
	}
	if state.UnspentLen() > MaxUnspent {
		st.AddFailure(status.FailureTooManyUnspent, opid, fmt.Sprintf("unspent map exceeds %d entries", MaxUnspent))
	}
}

func runEntryPoint(st *status.Status, sch *schema.Schema, repo *CheckedRepository, vmRunner VMRunner, state *ContractState, ref contract.OpRef, inputsByType map[types.OwnedStateType][]contract.Assignment, key types.EntryPointKey) {
	routine, declared := sch.EntryPoints[key]
	if !declared {
		return
	}
	bytecode, found := sch.Libs[routine]
	if !found {
		st.AddFailure(status.FailureVMFailure, ref.OpId(), fmt.Sprintf("entry point %q names an undeclared library", routine))
		return
	}
	ctx := &vm.Context{
		Op:           ref,
		InputsByType: inputsByType,
		State:        state,
		Libs:         repo.Libs(),
	}
	ok, err := vmRunner.Run(bytecode, ctx)
	if err != nil {
		st.AddFailure(status.FailureVMFailure, ref.OpId(), err.Error())
		return
	}
	if !ok {
		st.AddFailure(status.FailureVMFailure, ref.OpId(), fmt.Sprintf("entry point %q returned false", routine))
	}
}
