// Copyright 2025 Certen Protocol
//
// Package vm implements the register-based VM adapter: a stateless VM
// whose instruction set includes contract-introspection opcodes (Count,
// Load) over a reserved, forward-compatible opcode space (spec section
// 4.6). Count opcodes tally global/input/output/contract-state entries of
// a given type into a count register; Load opcodes load one entry (global,
// input, output, contract-state, or metadata), indexed by (type, position),
// into a single string register that later opcodes consult. For each
// registered entry point the VM runs with access to the operation being
// validated, the inputs' previous state, the entire contract state so far,
// and the schema-provided libraries, and returns a boolean.
//
// Grounded on the design note "the VM is a pure function over (operation,
// contract_state, schema_libs); keep it behind a narrow interface so the
// core can be unit-tested with a stub VM" — ContractStateReader is that
// narrow interface, satisfied structurally by pkg/validator's contract
// state without either package importing the other.

package vm

import (
	"errors"
	"fmt"

	"github.com/certen/contract-validator/pkg/contract"
	"github.com/certen/contract-validator/pkg/types"
)

// Opcode is one instruction in the VM's bytecode stream.
type Opcode uint8

const (
	OpHalt Opcode = iota
	OpCountGlobal
	OpCountInput
	OpCountOutput
	OpCountState
	OpLoadGlobal
	OpLoadInput
	OpLoadOutput
	OpLoadState
	OpLoadMetadata
	OpJumpIfZero
	OpReturnCountNonZero
	OpReturnTrue
	OpReturnFalse
	OpJumpIfStringEmpty
	OpReturnStringNonEmpty

	// opcodeReservedStart marks the first opcode value in the
	// forward-compatibility reserved range: any encoding with an opcode at
	// or beyond this value evaluates to failure rather than being
	// interpreted, so that a future VM revision can add instructions
	// without this implementation silently misinterpreting them.
	opcodeReservedStart Opcode = 64
)

// ErrReservedOpcode is returned when bytecode uses an opcode in the
// reserved, not-yet-allocated range.
var ErrReservedOpcode = errors.New("vm: reserved opcode, forward-compatibility guard")

// ErrTruncatedBytecode is returned when an opcode's operands run past the
// end of the bytecode stream.
var ErrTruncatedBytecode = errors.New("vm: truncated bytecode")

// ContractStateReader is the narrow view of contract state the VM needs
// for its introspection opcodes, satisfied structurally by
// pkg/validator's state type.
type ContractStateReader interface {
	CountUnspent(ty types.OwnedStateType) int
	LoadUnspent(ty types.OwnedStateType, position int) (contract.Assignment, bool)
	CountGlobal(ty types.GlobalStateType) int
	LoadGlobal(ty types.GlobalStateType, position int) (contract.GlobalValue, bool)
}

// Context is everything one VM invocation can introspect. InputsByType
// groups the operation's resolved input assignments by the owned-state type
// each one was declared under, since an Assignment carries no type of its
// own (spec section 3.3): the caller (pkg/validator) groups them from the
// transition's Opout references before constructing a Context.
type Context struct {
	Op           contract.OpRef
	InputsByType map[types.OwnedStateType][]contract.Assignment
	State        ContractStateReader
	Libs         map[string][]byte
}

func (ctx *Context) countGlobal(ty types.GlobalStateType) int {
	return len(ctx.Op.Globals()[ty])
}

func (ctx *Context) loadGlobal(ty types.GlobalStateType, position int) ([]byte, bool) {
	values := ctx.Op.Globals()[ty]
	if position < 0 || position >= len(values) {
		return nil, false
	}
	return values[position].Payload, true
}

func (ctx *Context) countInput(ty types.OwnedStateType) int {
	return len(ctx.InputsByType[ty])
}

func (ctx *Context) loadInput(ty types.OwnedStateType, position int) ([]byte, bool) {
	group := ctx.InputsByType[ty]
	if position < 0 || position >= len(group) {
		return nil, false
	}
	return assignmentPayload(group[position]), true
}

func (ctx *Context) countOutput(ty types.OwnedStateType) int {
	return len(ctx.Op.Assignments()[ty])
}

func (ctx *Context) loadOutput(ty types.OwnedStateType, position int) ([]byte, bool) {
	group := ctx.Op.Assignments()[ty]
	if position < 0 || position >= len(group) {
		return nil, false
	}
	return assignmentPayload(group[position]), true
}

func (ctx *Context) loadMetadata(ty types.MetaType, position int) ([]byte, bool) {
	values := ctx.Op.Metadata()[uint16(ty)]
	if position < 0 || position >= len(values) {
		return nil, false
	}
	return values[position].Bytes, true
}

func (ctx *Context) loadState(ty types.OwnedStateType, position int) ([]byte, bool) {
	a, ok := ctx.State.LoadUnspent(ty, position)
	if !ok {
		return nil, false
	}
	return assignmentPayload(a), true
}

func assignmentPayload(a contract.Assignment) []byte {
	switch a.State.Kind {
	case types.StateStructured:
		return a.State.Structured.Payload
	case types.StateAttachment:
		return a.State.Attachment.ContentHash[:]
	default:
		return nil
	}
}

// Run interprets bytecode against ctx and returns the VM's boolean result.
// Any opcode at or past the reserved range fails closed.
func Run(bytecode []byte, ctx *Context) (bool, error) {
	pos := 0
	var countReg uint64
	var strReg []byte

	readByte := func() (byte, error) {
		if pos >= len(bytecode) {
			return 0, ErrTruncatedBytecode
		}
		b := bytecode[pos]
		pos++
		return b, nil
	}
	readU16 := func() (uint16, error) {
		if pos+2 > len(bytecode) {
			return 0, ErrTruncatedBytecode
		}
		v := uint16(bytecode[pos]) | uint16(bytecode[pos+1])<<8
		pos += 2
		return v, nil
	}

	for {
		opByte, err := readByte()
		if err != nil {
			return false, err
		}
		op := Opcode(opByte)
		if op >= opcodeReservedStart {
			return false, fmt.Errorf("%w: opcode %d", ErrReservedOpcode, op)
		}

		switch op {
		case OpHalt, OpReturnFalse:
			return false, nil
		case OpReturnTrue:
			return true, nil
		case OpReturnCountNonZero:
			return countReg != 0, nil
		case OpCountGlobal:
			ty, err := readU16()
			if err != nil {
				return false, err
			}
			countReg = uint64(ctx.countGlobal(types.GlobalStateType(ty)))
		case OpCountInput:
			ty, err := readU16()
			if err != nil {
				return false, err
			}
			countReg = uint64(ctx.countInput(types.OwnedStateType(ty)))
		case OpCountOutput:
			ty, err := readU16()
			if err != nil {
				return false, err
			}
			countReg = uint64(ctx.countOutput(types.OwnedStateType(ty)))
		case OpCountState:
			ty, err := readU16()
			if err != nil {
				return false, err
			}
			countReg = uint64(ctx.State.CountUnspent(types.OwnedStateType(ty)))
		case OpLoadGlobal, OpLoadInput, OpLoadOutput, OpLoadState, OpLoadMetadata:
			ty, err := readU16()
			if err != nil {
				return false, err
			}
			position, err := readU16()
			if err != nil {
				return false, err
			}
			var ok bool
			switch op {
			case OpLoadGlobal:
				strReg, ok = ctx.loadGlobal(types.GlobalStateType(ty), int(position))
			case OpLoadInput:
				strReg, ok = ctx.loadInput(types.OwnedStateType(ty), int(position))
			case OpLoadOutput:
				strReg, ok = ctx.loadOutput(types.OwnedStateType(ty), int(position))
			case OpLoadState:
				strReg, ok = ctx.loadState(types.OwnedStateType(ty), int(position))
			case OpLoadMetadata:
				strReg, ok = ctx.loadMetadata(types.MetaType(ty), int(position))
			}
			if !ok {
				strReg = nil
			}
		case OpJumpIfZero:
			target, err := readU16()
			if err != nil {
				return false, err
			}
			if countReg == 0 {
				pos = int(target)
			}
		case OpJumpIfStringEmpty:
			target, err := readU16()
			if err != nil {
				return false, err
			}
			if len(strReg) == 0 {
				pos = int(target)
			}
		case OpReturnStringNonEmpty:
			return len(strReg) != 0, nil
		default:
			return false, fmt.Errorf("%w: opcode %d", ErrReservedOpcode, op)
		}
	}
}
