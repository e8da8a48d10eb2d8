// Copyright 2025 Certen Protocol
//
// Repository is the caller-supplied boundary the validator walks (spec
// section 6.3): a schema, a genesis, an iterator of witness+bundle pairs,
// extension lookup by OpId, and the schema-declared VM library set.
// CheckedRepository wraps any Repository and enforces that an extension
// returned for a given OpId actually carries that OpId — the one
// programming-error condition spec section 6.3 permits aborting on.

package validator

import (
	"errors"
	"fmt"

	"github.com/certen/contract-validator/pkg/contract"
	"github.com/certen/contract-validator/pkg/schema"
	"github.com/certen/contract-validator/pkg/seal"
)

// Iterator yields (witness, bundle) pairs in the repository's own order.
// Next returns ok=false once exhausted.
type Iterator interface {
	Next() (seal.Witness, *contract.Bundle, bool)
}

// Repository is the caller-supplied data source a validation run walks.
type Repository interface {
	Schema() *schema.Schema
	Genesis() *contract.Genesis
	Transitions() Iterator
	Extension(id contract.OpId) (*contract.Extension, bool)
	Libs() map[string][]byte
}

// ErrLyingRepository is recorded when a repository returns an extension
// under an OpId different from the one requested. Per spec section 6.3
// this is a programming error on the repository's part; aborting the run
// is permitted.
var ErrLyingRepository = errors.New("validator: repository returned an operation under the wrong OpId")

// CheckedRepository wraps a Repository and enforces OpId integrity on
// every Extension lookup. Once a violation is observed, Err reports it and
// every subsequent Extension call returns (nil, false) without
// re-consulting the inner repository.
type CheckedRepository struct {
	inner Repository
	err   error
}

// NewCheckedRepository wraps inner with the OpId-integrity check.
func NewCheckedRepository(inner Repository) *CheckedRepository {
	return &CheckedRepository{inner: inner}
}

func (c *CheckedRepository) Schema() *schema.Schema        { return c.inner.Schema() }
func (c *CheckedRepository) Genesis() *contract.Genesis    { return c.inner.Genesis() }
func (c *CheckedRepository) Transitions() Iterator         { return c.inner.Transitions() }
func (c *CheckedRepository) Libs() map[string][]byte       { return c.inner.Libs() }

// Extension looks up an extension by OpId, verifying the returned
// operation's own OpId matches what was requested.
func (c *CheckedRepository) Extension(id contract.OpId) (*contract.Extension, bool) {
	if c.err != nil {
		return nil, false
	}
	e, ok := c.inner.Extension(id)
	if !ok {
		return nil, false
	}
	if e.OpId() != id {
		c.err = fmt.Errorf("%w: requested %s, got %s", ErrLyingRepository, id, e.OpId())
		return nil, false
	}
	return e, true
}

// Err reports the first OpId-integrity violation observed, if any.
func (c *CheckedRepository) Err() error { return c.err }
