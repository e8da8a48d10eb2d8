// Copyright 2025 Certen Protocol
//
// Content-addressed identifiers: OpId, ContractId, SchemaId, and the Opout
// output pointer. Grounded on pkg/commitment's tagged-hash primitive and
// pkg/idcodec's textual rendering, both already built for this module.

package contract

import (
	"fmt"

	"github.com/certen/contract-validator/pkg/commitment"
	"github.com/certen/contract-validator/pkg/idcodec"
	"github.com/certen/contract-validator/pkg/types"
)

// Domain-separation tags for every content-addressed type this package
// commits to. One tag per structure, fixed forever, so that no two distinct
// structures can collide by construction (spec section 4.1).
const (
	TagOpIdGenesis    = "certen:opid:genesis"
	TagOpIdTransition = "certen:opid:transition"
	TagOpIdExtension  = "certen:opid:extension"
	TagSchemaId       = "certen:schema"
	TagMetadataLeaf   = "certen:leaf:metadata"
	TagMetadataNode   = "certen:node:metadata"
	TagGlobalLeaf     = "certen:leaf:global"
	TagGlobalNode     = "certen:node:global"
	TagAssignLeaf     = "certen:leaf:assignment"
	TagAssignNode     = "certen:node:assignment"
	TagInputLeaf      = "certen:leaf:input"
	TagInputNode      = "certen:node:input"
	TagValencyLeaf    = "certen:leaf:valency"
	TagValencyNode    = "certen:node:valency"
)

// OpId is the 32-byte tagged-hash identifier of one operation's canonical
// commitment serialization.
type OpId commitment.ID

func (id OpId) IsZero() bool   { return commitment.ID(id).IsZero() }
func (id OpId) Bytes() [32]byte { return [32]byte(id) }
func (id OpId) String() string  { return idcodec.Encode([32]byte(id)) }

// ContractId is genesis's OpId reinterpreted: the same 32 bytes, a distinct
// Go type so the two identifier spaces cannot be confused at compile time.
type ContractId commitment.ID

func (id ContractId) IsZero() bool    { return commitment.ID(id).IsZero() }
func (id ContractId) Bytes() [32]byte { return [32]byte(id) }
func (id ContractId) String() string  { return idcodec.Encode([32]byte(id)) }

// ContractIdFromGenesis reinterprets a genesis OpId as the contract id it
// doubles as (spec section 3.1).
func ContractIdFromGenesis(genesisOpId OpId) ContractId {
	return ContractId(genesisOpId)
}

// SchemaId is the 32-byte tagged hash of a schema's canonical commitment.
type SchemaId commitment.ID

func (id SchemaId) IsZero() bool    { return commitment.ID(id).IsZero() }
func (id SchemaId) Bytes() [32]byte { return [32]byte(id) }
func (id SchemaId) String() string  { return idcodec.Encode([32]byte(id)) }

// Opout is a fully-qualified pointer to one output of one operation: the
// sole key type for the unspent map (spec section 3.1).
type Opout struct {
	OpId  OpId
	Type  types.OwnedStateType
	Index uint16
}

func (o Opout) String() string {
	return fmt.Sprintf("%s/%d/%d", o.OpId, o.Type, o.Index)
}
