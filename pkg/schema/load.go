// Copyright 2025 Certen Protocol
//
// YAML schema authoring format and loader. Grounded on the teacher's use of
// gopkg.in/yaml.v3 for its pkg/config environment-profile files, here
// repurposed to load a contract's declarative rule set instead of service
// configuration.

package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/certen/contract-validator/pkg/types"
)

// yamlOccurs mirrors types.Occurs for YAML (de)serialization.
type yamlOccurs struct {
	Min uint16 `yaml:"min"`
	Max uint16 `yaml:"max"`
}

func (o yamlOccurs) toOccurs() types.Occurs {
	return types.Occurs{Min: o.Min, Max: o.Max}
}

type yamlMetaSpec struct {
	Occurs       yamlOccurs `yaml:"occurs"`
	SemanticType uint16     `yaml:"semantic_type"`
}

type yamlGlobalSpec struct {
	Occurs       yamlOccurs `yaml:"occurs"`
	MaxRetained  uint32     `yaml:"max_retained"`
	SemanticType uint16     `yaml:"semantic_type"`
}

type yamlOwnedSpec struct {
	Occurs       yamlOccurs `yaml:"occurs"`
	Kind         string     `yaml:"kind"`
	SemanticType uint16     `yaml:"semantic_type,omitempty"`
	MediaType    string     `yaml:"media_type,omitempty"`
	NumericKind  string     `yaml:"numeric_kind,omitempty"`
}

type yamlVerifier struct {
	Kind       string `yaml:"kind"`
	StateType  uint16 `yaml:"state_type,omitempty"`
	GlobalType uint16 `yaml:"global_type,omitempty"`
	MetaType   uint16 `yaml:"meta_type,omitempty"`
}

type yamlOpSchema struct {
	Metadata    map[uint16]yamlMetaSpec   `yaml:"metadata"`
	Globals     map[uint16]yamlGlobalSpec `yaml:"globals"`
	Inputs      map[uint16]yamlOccurs     `yaml:"inputs,omitempty"`
	Assignments map[uint16]yamlOwnedSpec  `yaml:"assignments"`
	Verifier    yamlVerifier              `yaml:"verifier"`
}

type yamlSchema struct {
	Name            string                  `yaml:"name"`
	Genesis         yamlOpSchema            `yaml:"genesis"`
	Transitions     map[uint16]yamlOpSchema `yaml:"transitions"`
	Extensions      map[uint16]yamlOpSchema `yaml:"extensions"`
	BlankTransition *yamlOpSchema           `yaml:"blank_transition,omitempty"`
}

// Load parses a schema authored in the YAML format above. VM library
// bytecode and entry-point routine names are not part of the YAML form
// (bytecode is opaque binary); callers attach them afterward via
// Schema.Libs and Schema.EntryPoints.
func Load(data []byte) (*Schema, error) {
	var y yamlSchema
	if err := yaml.Unmarshal(data, &y); err != nil {
		return nil, fmt.Errorf("schema: parse yaml: %w", err)
	}

	s := &Schema{
		Name:        y.Name,
		Genesis:     convertOpSchema(y.Genesis),
		Transitions: make(map[types.TransitionType]OpSchema, len(y.Transitions)),
		Extensions:  make(map[types.ExtensionType]OpSchema, len(y.Extensions)),
		EntryPoints: make(map[types.EntryPointKey]string),
		Libs:        make(map[string][]byte),
	}
	for tt, op := range y.Transitions {
		s.Transitions[types.TransitionType(tt)] = convertOpSchema(op)
	}
	for et, op := range y.Extensions {
		s.Extensions[types.ExtensionType(et)] = convertOpSchema(op)
	}
	if y.BlankTransition != nil {
		converted := convertOpSchema(*y.BlankTransition)
		s.BlankTransition = &converted
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func convertOpSchema(y yamlOpSchema) OpSchema {
	op := OpSchema{
		Metadata:    make(map[types.MetaType]MetaSpec, len(y.Metadata)),
		Globals:     make(map[types.GlobalStateType]GlobalSpec, len(y.Globals)),
		Assignments: make(map[types.OwnedStateType]OwnedSpec, len(y.Assignments)),
	}
	for k, v := range y.Metadata {
		op.Metadata[types.MetaType(k)] = MetaSpec{
			Occurs:       v.Occurs.toOccurs(),
			SemanticType: types.SemanticType(v.SemanticType),
		}
	}
	for k, v := range y.Globals {
		op.Globals[types.GlobalStateType(k)] = GlobalSpec{
			Occurs:       v.Occurs.toOccurs(),
			MaxRetained:  v.MaxRetained,
			SemanticType: types.SemanticType(v.SemanticType),
		}
	}
	if len(y.Inputs) > 0 {
		op.Inputs = make(map[types.OwnedStateType]types.Occurs, len(y.Inputs))
		for k, v := range y.Inputs {
			op.Inputs[types.OwnedStateType(k)] = v.toOccurs()
		}
	}
	for k, v := range y.Assignments {
		op.Assignments[types.OwnedStateType(k)] = OwnedSpec{
			Occurs:       v.Occurs.toOccurs(),
			Kind:         parseStateKind(v.Kind),
			SemanticType: types.SemanticType(v.SemanticType),
			MediaType:    v.MediaType,
			NumericKind:  parseFungibleKind(v.NumericKind),
		}
	}
	op.Verifier = convertVerifier(y.Verifier)
	return op
}

func parseStateKind(s string) types.StateKind {
	switch s {
	case "fungible":
		return types.StateFungible
	case "structured":
		return types.StateStructured
	case "attachment":
		return types.StateAttachment
	default:
		return types.StateDeclarative
	}
}

func parseFungibleKind(s string) FungibleKind {
	if s == "u64" {
		return FungibleU64
	}
	return FungibleUnspecified
}

func convertVerifier(y yamlVerifier) types.Verifier {
	v := types.Verifier{
		StateType:  types.OwnedStateType(y.StateType),
		GlobalType: types.GlobalStateType(y.GlobalType),
		MetaType:   types.MetaType(y.MetaType),
	}
	switch y.Kind {
	case "EqSums":
		v.Kind = types.VerifierEqSums
	case "EqVals":
		v.Kind = types.VerifierEqVals
	case "CheckSigEcdsa":
		v.Kind = types.VerifierCheckSigEcdsa
	default:
		v.Kind = types.VerifierNone
	}
	return v
}
