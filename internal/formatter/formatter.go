package formatter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mcncl/treegen/internal/errors"
	"github.com/mcncl/treegen/internal/models"
)

// Indent is the number of spaces per nesting level in block layout.
const Indent = 2

// Formatter serializes value trees to text
type Formatter struct{}

// NewFormatter creates a new Formatter instance
func NewFormatter() *Formatter {
	return &Formatter{}
}

// Format serializes v. Compact selects flow layout (YAML) or a single line (JSON).
func (f *Formatter) Format(v models.Value, format models.Format, compact bool) (string, error) {
	var (
		out string
		err error
	)
	switch format {
	case models.FormatYAML:
		out, err = formatYAML(v, compact)
	case models.FormatJSON:
		out, err = formatJSON(v, compact)
	default:
		return "", errors.NewFormatError(fmt.Sprintf("unsupported format %v", format), errors.ErrUnknownFormat)
	}
	if err != nil {
		return "", errors.NewFormatError(fmt.Sprintf("failed to serialize %s", format), err)
	}
	return out, nil
}

// Format serializes v with a default Formatter.
func Format(v models.Value, format models.Format, compact bool) (string, error) {
	return NewFormatter().Format(v, format, compact)
}

// formatFloat renders f so that it always reads back as a float: it never
// uses an exponent and always carries a decimal point.
func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("cannot represent %v", f)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s, nil
}

// formatNumber renders a number scalar.
func formatNumber(v models.Value) (string, error) {
	if v.IsInt {
		return strconv.FormatInt(v.Int64(), 10), nil
	}
	return formatFloat(v.Num)
}
