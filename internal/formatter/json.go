package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mcncl/treegen/internal/models"
)

func formatJSON(v models.Value, compact bool) (string, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return "", err
	}

	if compact {
		buf.WriteByte('\n')
		return buf.String(), nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", strings.Repeat(" ", Indent)); err != nil {
		return "", err
	}
	out.WriteByte('\n')
	return out.String(), nil
}

// writeJSON writes v in compact form, keeping mapping order.
func writeJSON(buf *bytes.Buffer, v models.Value) error {
	switch v.Kind {
	case models.KindString:
		return writeJSONString(buf, v.Text)
	case models.KindNumber:
		s, err := formatNumber(v)
		if err != nil {
			return err
		}
		buf.WriteString(s)
	case models.KindBoolean:
		if v.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case models.KindNull:
		buf.WriteString("null")
	case models.KindArray:
		buf.WriteByte('[')
		for i, item := range v.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case models.KindObject:
		buf.WriteByte('{')
		for i, field := range v.Fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, field.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, field.Value); err != nil {
				return fmt.Errorf("field %q: %w", field.Key, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unexpected value kind: %v", v.Kind)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode appends a newline.
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
