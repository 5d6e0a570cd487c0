package parser

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/mcncl/treegen/internal/errors"
	"github.com/mcncl/treegen/internal/models"
	"gopkg.in/yaml.v3"
)

// maxAliasDepth bounds alias expansion so recursive anchors cannot loop forever.
const maxAliasDepth = 64

func parseYAML(reader io.Reader) (models.Value, error) {
	decoder := yaml.NewDecoder(reader)

	var doc yaml.Node
	if err := decoder.Decode(&doc); err != nil {
		if stderrors.Is(err, io.EOF) {
			return models.Value{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return models.Value{}, errors.NewParsingError(fmt.Sprintf("YAML syntax error: %v", err), errors.ErrInvalidData)
	}

	var extra yaml.Node
	if err := decoder.Decode(&extra); err == nil {
		return models.Value{}, errors.NewParsingError("multiple YAML documents found", errors.ErrMultipleDocuments)
	} else if !stderrors.Is(err, io.EOF) {
		return models.Value{}, errors.NewParsingError(fmt.Sprintf("invalid trailing data: %v", err), errors.ErrInvalidData)
	}

	return convertNode(&doc, 0)
}

// convertNode maps a yaml.v3 node onto a value tree.
func convertNode(node *yaml.Node, aliasDepth int) (models.Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return models.Null(), nil
		}
		return convertNode(node.Content[0], aliasDepth)
	case yaml.AliasNode:
		if aliasDepth >= maxAliasDepth || node.Alias == nil {
			return models.Value{}, errors.NewParsingError(fmt.Sprintf("alias %q cannot be resolved (line %d)", node.Value, node.Line), errors.ErrInvalidData)
		}
		return convertNode(node.Alias, aliasDepth+1)
	case yaml.ScalarNode:
		return convertScalar(node)
	case yaml.SequenceNode:
		items := make([]models.Value, 0, len(node.Content))
		for _, child := range node.Content {
			item, err := convertNode(child, aliasDepth)
			if err != nil {
				return models.Value{}, err
			}
			items = append(items, item)
		}
		return models.Sequence(items...), nil
	case yaml.MappingNode:
		return convertMapping(node, aliasDepth)
	default:
		return models.Value{}, fmt.Errorf("unexpected YAML node kind: %v", node.Kind)
	}
}

// convertMapping keeps keys in document order. Merge keys ("<<: *base")
// splice in the fields of the referenced mappings; keys written in the
// mapping itself win over merged ones, and earlier merge sources win over
// later ones.
func convertMapping(node *yaml.Node, aliasDepth int) (models.Value, error) {
	fields := make([]models.Field, 0, len(node.Content)/2)
	explicit := make(map[string]struct{}, len(node.Content)/2)
	present := make(map[string]struct{}, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := resolveAlias(node.Content[i])
		if keyNode.Kind == yaml.ScalarNode && !isMergeKey(keyNode) {
			explicit[keyNode.Value] = struct{}{}
		}
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := resolveAlias(node.Content[i]), node.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return models.Value{}, errors.NewParsingError(fmt.Sprintf("non-scalar key at line %d", keyNode.Line), errors.ErrUnsupportedKey)
		}

		if isMergeKey(keyNode) {
			merged, err := mergeSources(valueNode, aliasDepth)
			if err != nil {
				return models.Value{}, err
			}
			for _, f := range merged {
				if _, ok := explicit[f.Key]; ok {
					continue
				}
				if _, ok := present[f.Key]; ok {
					continue
				}
				present[f.Key] = struct{}{}
				fields = append(fields, f)
			}
			continue
		}

		key := keyNode.Value
		if _, dup := present[key]; dup {
			return models.Value{}, errors.NewParsingError(fmt.Sprintf("duplicate key %q at line %d", key, keyNode.Line), errors.ErrDuplicateKey)
		}
		present[key] = struct{}{}

		value, err := convertNode(valueNode, aliasDepth)
		if err != nil {
			return models.Value{}, err
		}
		fields = append(fields, models.Field{Key: key, Value: value})
	}
	return models.Mapping(fields...), nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		return node.Alias
	}
	return node
}

func isMergeKey(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!merge"
}

// mergeSources returns the fields a merge key contributes, in precedence
// order. The value must be a mapping or a sequence of mappings.
func mergeSources(node *yaml.Node, aliasDepth int) ([]models.Field, error) {
	value, err := convertNode(node, aliasDepth)
	if err != nil {
		return nil, err
	}

	switch value.Kind {
	case models.KindObject:
		return value.Fields, nil
	case models.KindArray:
		var fields []models.Field
		for _, item := range value.Items {
			if item.Kind != models.KindObject {
				return nil, mergeError(node)
			}
			fields = append(fields, item.Fields...)
		}
		return fields, nil
	default:
		return nil, mergeError(node)
	}
}

func mergeError(node *yaml.Node) error {
	return errors.NewParsingError(fmt.Sprintf("merge key at line %d must reference a mapping or a list of mappings", node.Line), errors.ErrInvalidData)
}

func convertScalar(node *yaml.Node) (models.Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return models.Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return models.Value{}, scalarError(node, err)
		}
		return models.Bool(b), nil
	case "!!int":
		var n int64
		if err := node.Decode(&n); err == nil {
			return models.Int(n), nil
		}
		// Out of int64 range.
		var f float64
		if err := node.Decode(&f); err != nil {
			return models.Value{}, scalarError(node, err)
		}
		return models.Float(f), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return models.Value{}, scalarError(node, err)
		}
		return models.Float(f), nil
	default:
		// Strings, timestamps, binary and custom tags keep their text.
		return models.String(node.Value), nil
	}
}

func scalarError(node *yaml.Node, err error) error {
	return errors.NewParsingError(fmt.Sprintf("invalid %s value %q at line %d: %v", node.ShortTag(), node.Value, node.Line, err), errors.ErrInvalidData)
}
