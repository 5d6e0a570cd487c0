package schema

import (
	"fmt"

	"github.com/mcncl/treegen/internal/generator"
	"github.com/mcncl/treegen/internal/models"
)

// Draft is the JSON Schema dialect Describe declares.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// Bounds of generated scalars.
const (
	minStringLength = 3
	numberLimit     = 1000
	stringPattern   = "^[A-Za-z0-9]+$"
)

// Describe returns a schema that every document generated with opts
// satisfies. Each nesting level gets one "value<depth>" definition.
func Describe(opts generator.Options) (*Schema, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	defs := make(map[string]*Schema, opts.MaxDepth+1)
	for depth := 0; depth <= opts.MaxDepth; depth++ {
		defs[valueDef(depth)] = valueSchema(opts, depth)
	}

	root := objectSchema(opts, 0)
	root.Schema = Draft
	root.Title = "Generated document"
	root.Description = fmt.Sprintf("Random document with %d fields, nesting up to %d levels", opts.Fields, opts.MaxDepth)
	root.MinProperties = intPtr(opts.Fields)
	root.Required = make([]string, opts.Fields)
	for i := range root.Required {
		root.Required[i] = generator.KeyName(i)
	}
	root.Defs = defs
	return root, nil
}

func valueDef(depth int) string {
	return fmt.Sprintf("value%d", depth)
}

func valueRef(depth int) *Schema {
	return &Schema{Ref: "#/$defs/" + valueDef(depth)}
}

// valueSchema covers the kinds a value at depth may take. Containers are
// excluded at the depth limit; with nothing left, values are strings.
func valueSchema(opts generator.Options, depth int) *Schema {
	kinds := opts.Kinds
	if depth >= opts.MaxDepth {
		kinds = kinds.Remove(models.KindArray).Remove(models.KindObject)
	}
	if kinds.IsEmpty() {
		kinds = models.NewKindSet(models.KindString)
	}

	var alternatives []*Schema
	for _, k := range kinds.Kinds() {
		alternatives = append(alternatives, kindSchema(opts, k, depth))
	}
	if len(alternatives) == 1 {
		return alternatives[0]
	}
	return &Schema{AnyOf: alternatives}
}

func kindSchema(opts generator.Options, k models.Kind, depth int) *Schema {
	switch k {
	case models.KindString:
		return &Schema{
			Type:      SchemaType{"string"},
			MinLength: intPtr(minStringLength),
			MaxLength: intPtr(opts.MaxStringLength + minStringLength - 1),
			Pattern:   stringPattern,
		}
	case models.KindNumber:
		return &Schema{
			Type:             SchemaType{"number"},
			Minimum:          floatPtr(0),
			ExclusiveMaximum: floatPtr(numberLimit),
		}
	case models.KindBoolean:
		return &Schema{Type: SchemaType{"boolean"}}
	case models.KindNull:
		return &Schema{Type: SchemaType{"null"}}
	case models.KindArray:
		return &Schema{
			Type:     SchemaType{"array"},
			Items:    valueRef(depth + 1),
			MinItems: intPtr(1),
			MaxItems: intPtr(opts.MaxArrayLength),
		}
	case models.KindObject:
		s := objectSchema(opts, depth+1)
		s.MinProperties = intPtr(1)
		return s
	default:
		panic(fmt.Sprintf("schema: unhandled kind %v", k))
	}
}

// objectSchema describes a mapping whose values are generated at depth
func objectSchema(opts generator.Options, depth int) *Schema {
	props := make(map[string]*Schema, opts.Fields)
	for i := 0; i < opts.Fields; i++ {
		props[generator.KeyName(i)] = valueRef(depth)
	}
	return &Schema{
		Type:                 SchemaType{"object"},
		Properties:           props,
		AdditionalProperties: &AdditionalProperties{Allowed: false},
		MaxProperties:        intPtr(opts.Fields),
	}
}

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }
