package formatter

import (
	"bytes"
	"fmt"
	"math"

	"github.com/mcncl/treegen/internal/models"
	"gopkg.in/yaml.v3"
)

const (
	tagStr   = "!!str"
	tagInt   = "!!int"
	tagFloat = "!!float"
	tagBool  = "!!bool"
	tagNull  = "!!null"
	tagSeq   = "!!seq"
	tagMap   = "!!map"
)

func formatYAML(v models.Value, compact bool) (string, error) {
	node, err := yamlNode(v, compact)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(Indent)
	if err := enc.Encode(node); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// yamlNode converts v into a yaml.v3 node. Scalars carry explicit tags so the
// encoder quotes strings that would otherwise resolve to another type.
func yamlNode(v models.Value, compact bool) (*yaml.Node, error) {
	var style yaml.Style
	if compact {
		style = yaml.FlowStyle
	}

	switch v.Kind {
	case models.KindString:
		return scalarNode(tagStr, v.Text), nil
	case models.KindNumber:
		if v.IsInt {
			s, _ := formatNumber(v)
			return scalarNode(tagInt, s), nil
		}
		return scalarNode(tagFloat, yamlFloat(v.Num)), nil
	case models.KindBoolean:
		if v.Bool {
			return scalarNode(tagBool, "true"), nil
		}
		return scalarNode(tagBool, "false"), nil
	case models.KindNull:
		return scalarNode(tagNull, "null"), nil
	case models.KindArray:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: tagSeq, Style: style}
		for i, item := range v.Items {
			child, err := yamlNode(item, compact)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case models.KindObject:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: tagMap, Style: style}
		for _, field := range v.Fields {
			child, err := yamlNode(field.Value, compact)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", field.Key, err)
			}
			node.Content = append(node.Content, scalarNode(tagStr, field.Key), child)
		}
		return node, nil
	default:
		return nil, fmt.Errorf("unexpected value kind: %v", v.Kind)
	}
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s, _ := formatFloat(f)
	return s
}
