// Copyright 2025 Certen Protocol
//
// Package consignment implements the on-disk/stdin ingestion format
// cmd/contractd reads before calling validator.Extend: a JSON document
// naming a genesis, the witness-ordered bundles of transitions that extend
// it, and the extensions those transitions may resolve valencies against.
// Verifying that a witness's declared spent outpoints actually appear on a
// live base chain is out of scope (spec.md's Non-goals exclude "defining
// base-chain semantics"), so Load's Witness trusts the document's own
// declaration rather than consulting a chain client.

package consignment

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/certen/contract-validator/pkg/commitment"
	"github.com/certen/contract-validator/pkg/contract"
	"github.com/certen/contract-validator/pkg/encoding"
	"github.com/certen/contract-validator/pkg/schema"
	"github.com/certen/contract-validator/pkg/seal"
	"github.com/certen/contract-validator/pkg/types"
	"github.com/certen/contract-validator/pkg/validator"
)

// Doc is the ingestion document's JSON shape.
type Doc struct {
	Genesis    GenesisDoc     `json:"genesis"`
	Bundles    []BundleDoc    `json:"bundles,omitempty"`
	Extensions []ExtensionDoc `json:"extensions,omitempty"`
}

// GenesisDoc is the JSON rendering of a contract.Genesis.
type GenesisDoc struct {
	Ffv         uint16          `json:"ffv"`
	SchemaId    string          `json:"schema_id,omitempty"` // hex
	Timestamp   int64           `json:"timestamp"`
	Issuer      string          `json:"issuer,omitempty"` // hex
	ChainNet    string          `json:"chain_net"`
	Metadata    []MetaDoc       `json:"metadata,omitempty"`
	Globals     []GlobalDoc     `json:"globals,omitempty"`
	Assignments []AssignmentDoc `json:"assignments,omitempty"`
	Valencies   []uint16        `json:"valencies,omitempty"`
}

// TransitionDoc is the JSON rendering of a contract.Transition.
type TransitionDoc struct {
	Ffv            uint16          `json:"ffv"`
	Nonce          uint64          `json:"nonce"`
	TransitionType uint16          `json:"transition_type"`
	Metadata       []MetaDoc       `json:"metadata,omitempty"`
	Globals        []GlobalDoc     `json:"globals,omitempty"`
	Inputs         []InputDoc      `json:"inputs,omitempty"`
	Assignments    []AssignmentDoc `json:"assignments,omitempty"`
	Valencies      []uint16        `json:"valencies,omitempty"`
}

// ExtensionDoc is the JSON rendering of a contract.Extension.
type ExtensionDoc struct {
	Ffv           uint16            `json:"ffv"`
	ExtensionType uint16            `json:"extension_type"`
	Metadata      []MetaDoc         `json:"metadata,omitempty"`
	Globals       []GlobalDoc       `json:"globals,omitempty"`
	Assignments   []AssignmentDoc   `json:"assignments,omitempty"`
	Redeemed      map[string]string `json:"redeemed,omitempty"` // valency type (decimal) -> opid hex
	Valencies     []uint16          `json:"valencies,omitempty"`
}

// BundleDoc is one witness and the transitions it closes.
type BundleDoc struct {
	WitnessTxid    string        `json:"witness_txid"`
	Order          uint64        `json:"order"`
	SpentOutpoints []OutpointDoc `json:"spent_outpoints,omitempty"`
	Transitions    []TransitionDoc `json:"transitions"`
}

// OutpointDoc is the JSON rendering of a contract.Outpoint.
type OutpointDoc struct {
	Txid string `json:"txid"`
	Vout uint32 `json:"vout"`
}

// InputDoc is the JSON rendering of a contract.Opout.
type InputDoc struct {
	OpId  string `json:"op_id"`
	Type  uint16 `json:"type"`
	Index uint16 `json:"index"`
}

// GlobalDoc is the JSON rendering of a contract.GlobalValue, plus the
// GlobalStateType slot it belongs to.
type GlobalDoc struct {
	Type         uint16 `json:"type"`
	SemanticType uint16 `json:"semantic_type"`
	Payload      string `json:"payload,omitempty"` // hex
}

// MetaDoc is the JSON rendering of one encoding.MetaValue, plus the
// MetaType slot it belongs to. Exactly one of String/U64/Bytes should be
// set; Bytes is the fallback if none are.
type MetaDoc struct {
	Type   uint16  `json:"type"`
	String string  `json:"string,omitempty"`
	U64    *uint64 `json:"u64,omitempty"`
	Bytes  string  `json:"bytes,omitempty"` // hex
}

// AssignmentDoc is the JSON rendering of a contract.Assignment, plus the
// OwnedStateType slot it belongs to.
type AssignmentDoc struct {
	Type  uint16   `json:"type"`
	Seal  SealDoc  `json:"seal"`
	State StateDoc `json:"state"`
}

// SealDoc is the JSON rendering of a contract.Seal. Setting Concealed
// renders a confidential seal; otherwise Txid/Vout/Blinding render a
// revealed one (Txid empty means vout-only, materialized once a witness
// confirms the producing operation).
type SealDoc struct {
	Txid      string `json:"txid,omitempty"` // hex
	Vout      uint32 `json:"vout,omitempty"`
	Blinding  uint64 `json:"blinding,omitempty"`
	Concealed string `json:"concealed,omitempty"` // hex
}

// StateDoc is the JSON rendering of a contract.AssignmentState. Only the
// fields relevant to Kind are read. Confidential fungible state is not
// representable by this ingestion format (the Pedersen commitment has no
// convenient textual form here); submit a RevealedFungible amount instead.
type StateDoc struct {
	Kind         string `json:"kind"` // declarative|fungible|structured|attachment
	Amount       uint64 `json:"amount,omitempty"`
	Blinding     uint64 `json:"blinding,omitempty"`
	SemanticType uint16 `json:"semantic_type,omitempty"`
	Payload      string `json:"payload,omitempty"`      // hex, for structured
	ContentHash  string `json:"content_hash,omitempty"` // hex, for attachment
	MediaType    string `json:"media_type,omitempty"`
}

func hexBytes(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return hex.DecodeString(s)
}

func hexFixed32(s string, what string) ([32]byte, error) {
	var out [32]byte
	if s == "" {
		return out, nil
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, fmt.Errorf("%s: %w", what, err)
	}
	if len(b) != 32 {
		return out, fmt.Errorf("%s: expected 32 bytes, got %d", what, len(b))
	}
	copy(out[:], b)
	return out, nil
}

func (d SealDoc) toContract() (contract.Seal, error) {
	if d.Concealed != "" {
		raw, err := hexFixed32(d.Concealed, "concealed seal")
		if err != nil {
			return contract.Seal{}, err
		}
		return contract.NewConfidentialSeal(contract.ConfidentialSeal(commitment.ID(raw))), nil
	}
	txid, err := hexFixed32(d.Txid, "seal txid")
	if err != nil {
		return contract.Seal{}, err
	}
	return contract.NewRevealedSeal(contract.RevealedSeal{
		Outpoint: contract.Outpoint{Txid: txid, Vout: d.Vout},
		Blinding: d.Blinding,
	}), nil
}

func (d StateDoc) toContract() (contract.AssignmentState, error) {
	switch d.Kind {
	case "", "declarative":
		return contract.NewDeclarativeState(), nil
	case "fungible":
		return contract.NewFungibleAssignmentState(contract.NewRevealedFungible(d.Amount, d.Blinding)), nil
	case "structured":
		payload, err := hexBytes(d.Payload)
		if err != nil {
			return contract.AssignmentState{}, fmt.Errorf("structured payload: %w", err)
		}
		return contract.NewStructuredAssignmentState(contract.StructuredState{
			SemanticType: types.SemanticType(d.SemanticType),
			Payload:      payload,
		}), nil
	case "attachment":
		hash, err := hexFixed32(d.ContentHash, "attachment content hash")
		if err != nil {
			return contract.AssignmentState{}, err
		}
		return contract.NewAttachmentAssignmentState(contract.AttachmentState{
			ContentHash: hash,
			MediaType:   d.MediaType,
		}), nil
	default:
		return contract.AssignmentState{}, fmt.Errorf("unknown state kind %q", d.Kind)
	}
}

func (d AssignmentDoc) toContract() (types.OwnedStateType, contract.Assignment, error) {
	s, err := d.Seal.toContract()
	if err != nil {
		return 0, contract.Assignment{}, err
	}
	state, err := d.State.toContract()
	if err != nil {
		return 0, contract.Assignment{}, err
	}
	return types.OwnedStateType(d.Type), contract.NewAssignment(s, state), nil
}

func toAssignments(docs []AssignmentDoc) (contract.Assignments, error) {
	out := make(contract.Assignments, len(docs))
	for i, d := range docs {
		ty, a, err := d.toContract()
		if err != nil {
			return nil, fmt.Errorf("assignment %d: %w", i, err)
		}
		out[ty] = append(out[ty], a)
	}
	return out, nil
}

func toGlobalState(docs []GlobalDoc) (contract.GlobalState, error) {
	out := make(contract.GlobalState, len(docs))
	for i, d := range docs {
		payload, err := hexBytes(d.Payload)
		if err != nil {
			return nil, fmt.Errorf("global %d payload: %w", i, err)
		}
		out[types.GlobalStateType(d.Type)] = append(out[types.GlobalStateType(d.Type)], contract.GlobalValue{
			SemanticType: types.SemanticType(d.SemanticType),
			Payload:      payload,
		})
	}
	return out, nil
}

func toMetadata(docs []MetaDoc) (contract.Metadata, error) {
	out := make(contract.Metadata, len(docs))
	for i, d := range docs {
		var v encoding.MetaValue
		switch {
		case d.U64 != nil:
			v = encoding.MetaU64Value(*d.U64)
		case d.String != "":
			v = encoding.MetaStringValue(d.String)
		default:
			b, err := hexBytes(d.Bytes)
			if err != nil {
				return nil, fmt.Errorf("metadata %d: %w", i, err)
			}
			v = encoding.MetaBytesValue(b)
		}
		out[encoding.MetaTypeKey(d.Type)] = append(out[encoding.MetaTypeKey(d.Type)], v)
	}
	return out, nil
}

func toValencies(vs []uint16) contract.Valencies {
	if len(vs) == 0 {
		return nil
	}
	out := make(contract.Valencies, len(vs))
	for _, v := range vs {
		out[types.ValencyType(v)] = true
	}
	return out
}

func (d GenesisDoc) toContract() (*contract.Genesis, error) {
	schemaId, err := hexFixed32(d.SchemaId, "genesis schema id")
	if err != nil {
		return nil, err
	}
	issuer, err := hexBytes(d.Issuer)
	if err != nil {
		return nil, fmt.Errorf("genesis issuer: %w", err)
	}
	metadata, err := toMetadata(d.Metadata)
	if err != nil {
		return nil, fmt.Errorf("genesis: %w", err)
	}
	globals, err := toGlobalState(d.Globals)
	if err != nil {
		return nil, fmt.Errorf("genesis: %w", err)
	}
	assignments, err := toAssignments(d.Assignments)
	if err != nil {
		return nil, fmt.Errorf("genesis: %w", err)
	}
	return &contract.Genesis{
		Ffv:         d.Ffv,
		SchemaId:    contract.SchemaId(schemaId),
		Timestamp:   d.Timestamp,
		Issuer:      issuer,
		ChainNet:    d.ChainNet,
		Metadata:    metadata,
		Globals:     globals,
		Assignments: assignments,
		Valencies:   toValencies(d.Valencies),
	}, nil
}

func (d TransitionDoc) toContract(contractId contract.ContractId) (*contract.Transition, error) {
	metadata, err := toMetadata(d.Metadata)
	if err != nil {
		return nil, fmt.Errorf("transition: %w", err)
	}
	globals, err := toGlobalState(d.Globals)
	if err != nil {
		return nil, fmt.Errorf("transition: %w", err)
	}
	assignments, err := toAssignments(d.Assignments)
	if err != nil {
		return nil, fmt.Errorf("transition: %w", err)
	}
	inputs := make([]contract.Opout, len(d.Inputs))
	for i, in := range d.Inputs {
		opid, err := hexFixed32(in.OpId, "input op id")
		if err != nil {
			return nil, fmt.Errorf("transition input %d: %w", i, err)
		}
		inputs[i] = contract.Opout{OpId: contract.OpId(opid), Type: types.OwnedStateType(in.Type), Index: in.Index}
	}
	return &contract.Transition{
		Ffv:            d.Ffv,
		ContractId:     contractId,
		Nonce:          d.Nonce,
		TransitionType: types.TransitionType(d.TransitionType),
		Metadata:       metadata,
		Globals:        globals,
		Inputs:         inputs,
		Assignments:    assignments,
		Valencies:      toValencies(d.Valencies),
	}, nil
}

func (d ExtensionDoc) toContract(contractId contract.ContractId) (*contract.Extension, error) {
	metadata, err := toMetadata(d.Metadata)
	if err != nil {
		return nil, fmt.Errorf("extension: %w", err)
	}
	globals, err := toGlobalState(d.Globals)
	if err != nil {
		return nil, fmt.Errorf("extension: %w", err)
	}
	assignments, err := toAssignments(d.Assignments)
	if err != nil {
		return nil, fmt.Errorf("extension: %w", err)
	}
	redeemed := make(map[types.ValencyType]contract.OpId, len(d.Redeemed))
	for k, v := range d.Redeemed {
		var vt uint16
		if _, err := fmt.Sscanf(k, "%d", &vt); err != nil {
			return nil, fmt.Errorf("extension redeemed key %q: %w", k, err)
		}
		opid, err := hexFixed32(v, "redeemed op id")
		if err != nil {
			return nil, fmt.Errorf("extension redeemed %q: %w", k, err)
		}
		redeemed[types.ValencyType(vt)] = contract.OpId(opid)
	}
	return &contract.Extension{
		Ffv:           d.Ffv,
		ContractId:    contractId,
		ExtensionType: types.ExtensionType(d.ExtensionType),
		Metadata:      metadata,
		Globals:       globals,
		Assignments:   assignments,
		Redeemed:      redeemed,
		Valencies:     toValencies(d.Valencies),
	}, nil
}

// declaredWitness implements seal.Witness by trusting a consignment
// document's own declaration of which outpoints a witness transaction
// spends, since checking that against a live base chain is out of scope
// here (spec.md's Non-goals exclude "defining base-chain semantics").
type declaredWitness struct {
	txid  [32]byte
	order seal.Order
	spent map[contract.Outpoint]bool
}

func (w *declaredWitness) WitnessID() seal.WitnessId { return seal.WitnessId(w.txid) }
func (w *declaredWitness) Order() seal.Order         { return w.order }
func (w *declaredWitness) Txid() [32]byte            { return w.txid }

func (w *declaredWitness) VerifyManySeals(outpoints []contract.Outpoint, contractId contract.ContractId, opid contract.OpId) error {
	for _, o := range outpoints {
		if !w.spent[o] {
			return fmt.Errorf("witness %x does not list outpoint %x/%d as spent: %w", w.txid, o.Txid, o.Vout, seal.ErrSealNotSpent)
		}
	}
	return nil
}

func (d BundleDoc) toWitness() (*declaredWitness, error) {
	txid, err := hexFixed32(d.WitnessTxid, "bundle witness txid")
	if err != nil {
		return nil, err
	}
	spent := make(map[contract.Outpoint]bool, len(d.SpentOutpoints))
	for i, o := range d.SpentOutpoints {
		outpointTxid, err := hexFixed32(o.Txid, "spent outpoint txid")
		if err != nil {
			return nil, fmt.Errorf("spent outpoint %d: %w", i, err)
		}
		spent[contract.Outpoint{Txid: outpointTxid, Vout: o.Vout}] = true
	}
	return &declaredWitness{txid: txid, order: seal.Order(d.Order), spent: spent}, nil
}

type decodedBundle struct {
	witness *declaredWitness
	bundle  *contract.Bundle
}

// bundleIterator implements validator.Iterator over a decoded document's bundles.
type bundleIterator struct {
	bundles []decodedBundle
	pos     int
}

func (it *bundleIterator) Next() (seal.Witness, *contract.Bundle, bool) {
	if it.pos >= len(it.bundles) {
		return nil, nil, false
	}
	b := it.bundles[it.pos]
	it.pos++
	return b.witness, b.bundle, true
}

// Repository adapts a decoded Doc into a validator.Repository, backed by a
// schema and the document's own genesis, bundles, and extensions.
type Repository struct {
	sch        *schema.Schema
	genesis    *contract.Genesis
	bundles    []decodedBundle
	extensions map[contract.OpId]*contract.Extension
}

// Load decodes a consignment document against sch, producing a Repository
// ready to hand to validator.Extend.
func Load(sch *schema.Schema, data []byte) (*Repository, error) {
	var doc Doc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("consignment: decode: %w", err)
	}

	genesis, err := doc.Genesis.toContract()
	if err != nil {
		return nil, fmt.Errorf("consignment: %w", err)
	}
	contractId := contract.ContractIdFromGenesis(genesis.OpId())

	extensions := make(map[contract.OpId]*contract.Extension, len(doc.Extensions))
	for i, ed := range doc.Extensions {
		ext, err := ed.toContract(contractId)
		if err != nil {
			return nil, fmt.Errorf("consignment: extension %d: %w", i, err)
		}
		extensions[ext.OpId()] = ext
	}

	bundles := make([]decodedBundle, 0, len(doc.Bundles))
	for i, bd := range doc.Bundles {
		w, err := bd.toWitness()
		if err != nil {
			return nil, fmt.Errorf("consignment: bundle %d: %w", i, err)
		}
		bundle := contract.NewBundle()
		for j, td := range bd.Transitions {
			t, err := td.toContract(contractId)
			if err != nil {
				return nil, fmt.Errorf("consignment: bundle %d transition %d: %w", i, j, err)
			}
			bundle.Add(t)
		}
		bundles = append(bundles, decodedBundle{witness: w, bundle: bundle})
	}

	return &Repository{sch: sch, genesis: genesis, bundles: bundles, extensions: extensions}, nil
}

func (r *Repository) Schema() *schema.Schema         { return r.sch }
func (r *Repository) Genesis() *contract.Genesis      { return r.genesis }
func (r *Repository) Libs() map[string][]byte         { return r.sch.Libs }
func (r *Repository) Transitions() validator.Iterator { return &bundleIterator{bundles: r.bundles} }

func (r *Repository) Extension(id contract.OpId) (*contract.Extension, bool) {
	e, ok := r.extensions[id]
	return e, ok
}

// OperationCount returns the genesis plus every transition across every
// bundle of this repository. Extensions are not counted, including any that
// Extend resolves while walking.
// Intended for logging/metrics at the ingestion boundary.
func (r *Repository) OperationCount() int {
	n := 1
	for _, b := range r.bundles {
		n += b.bundle.Len()
	}
	return n
}
