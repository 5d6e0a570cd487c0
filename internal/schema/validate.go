package schema

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mcncl/treegen/internal/errors"
	"github.com/mcncl/treegen/internal/models"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// resourceURL names the compiled document. Relative references resolve
// against it, so "#/$defs/x" stays local.
const resourceURL = "treegen-schema.json"

var printer = message.NewPrinter(language.English)

// Validator checks value trees against one compiled schema
type Validator struct {
	compiled *jsonschema.Schema
}

// Compile builds a Validator from a JSON Schema document. Schemas that do not
// compile (bad JSON, unresolvable $ref, invalid pattern) are reported as
// ErrInvalidSchema.
func Compile(data []byte) (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to parse JSON Schema: %v", err), errors.ErrInvalidSchema)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(resourceURL, doc); err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to load JSON Schema: %v", err), errors.ErrInvalidSchema)
	}
	compiled, err := c.Compile(resourceURL)
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to compile JSON Schema: %v", err), errors.ErrInvalidSchema)
	}
	return &Validator{compiled: compiled}, nil
}

// CompileFile reads a JSON or YAML schema file and compiles it as written,
// keywords the Schema type does not model included.
func CompileFile(path string) (*Validator, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Compile(data)
}

// NewValidator compiles s
func NewValidator(s *Schema) (*Validator, error) {
	data, err := Marshal(s)
	if err != nil {
		return nil, err
	}
	return Compile(data)
}

// Validate reports every place where doc violates the schema, each
// prefixed with its path in the document ("$.items[2].id").
func (v *Validator) Validate(doc models.Value) error {
	instance, err := toInstance(doc, "$")
	if err != nil {
		return violations([]error{err})
	}

	err = v.compiled.Validate(instance)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !stderrors.As(err, &ve) {
		return errors.NewAnalysisError("schema validation failed", err)
	}
	return violations(collect(ve, doc, nil))
}

// Validate checks doc against s
func Validate(s *Schema, doc models.Value) error {
	v, err := NewValidator(s)
	if err != nil {
		return err
	}
	return v.Validate(doc)
}

func violations(errs []error) error {
	result := multierror.Append(&multierror.Error{}, errs...)
	return errors.NewAnalysisError(
		fmt.Sprintf("%d schema violation(s)", len(errs)),
		fmt.Errorf("%w: %v", errors.ErrSchemaViolation, result),
	)
}

// collect flattens the error tree to its leaves. anyOf and oneOf failures
// are reported once instead of once per alternative.
func collect(ve *jsonschema.ValidationError, doc models.Value, out []error) []error {
	if len(ve.Causes) == 0 || isAlternative(ve.ErrorKind) {
		msg := "validation failed"
		if ve.ErrorKind != nil {
			msg = ve.ErrorKind.LocalizedString(printer)
		}
		return append(out, fmt.Errorf("%s: %s", instancePath(doc, ve.InstanceLocation), msg))
	}
	for _, cause := range ve.Causes {
		out = collect(cause, doc, out)
	}
	return out
}

func isAlternative(kind jsonschema.ErrorKind) bool {
	if kind == nil {
		return false
	}
	path := kind.KeywordPath()
	if len(path) == 0 {
		return false
	}
	switch path[len(path)-1] {
	case "anyOf", "oneOf":
		return true
	}
	return false
}

// instancePath renders a JSON pointer location as "$.a[0].b", using doc to
// tell sequence indexes from mapping keys.
func instancePath(doc models.Value, location []string) string {
	var b strings.Builder
	b.WriteString("$")
	cur := doc
	for _, token := range location {
		if cur.Kind == models.KindArray {
			if i, err := strconv.Atoi(token); err == nil && i >= 0 && i < len(cur.Items) {
				fmt.Fprintf(&b, "[%d]", i)
				cur = cur.Items[i]
				continue
			}
		}
		b.WriteString("." + token)
		cur, _ = cur.Lookup(token)
	}
	return b.String()
}

// toInstance converts val to the shapes the validator accepts. Numbers
// become json.Number so integers keep every digit.
func toInstance(val models.Value, path string) (any, error) {
	switch val.Kind {
	case models.KindString:
		return val.Text, nil
	case models.KindNumber:
		if val.IsInt {
			return json.Number(strconv.FormatInt(val.Int, 10)), nil
		}
		if math.IsNaN(val.Num) || math.IsInf(val.Num, 0) {
			return nil, fmt.Errorf("%s: %v is not a JSON number", path, val.Num)
		}
		return json.Number(strconv.FormatFloat(val.Num, 'g', -1, 64)), nil
	case models.KindBoolean:
		return val.Bool, nil
	case models.KindNull:
		return nil, nil
	case models.KindArray:
		items := make([]any, len(val.Items))
		for i, item := range val.Items {
			v, err := toInstance(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return items, nil
	case models.KindObject:
		fields := make(map[string]any, len(val.Fields))
		for _, f := range val.Fields {
			v, err := toInstance(f.Value, path+"."+f.Key)
			if err != nil {
				return nil, err
			}
			fields[f.Key] = v
		}
		return fields, nil
	default:
		return nil, fmt.Errorf("%s: unexpected value kind %v", path, val.Kind)
	}
}
