package generator

import (
	"fmt"

	"github.com/mcncl/treegen/internal/models"
)

const (
	alphanumeric    = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	minStringLength = 3
	numberRange     = 1000
)

// Generator builds random value trees. It keeps no state between calls
// besides its options and source.
type Generator struct {
	opts Options
	src  Source
}

// NewGenerator creates a Generator. A nil src selects GlobalSource.
func NewGenerator(opts Options, src Source) *Generator {
	if src == nil {
		src = GlobalSource()
	}
	return &Generator{opts: opts, src: src}
}

// Options returns the options the generator was created with.
func (g *Generator) Options() Options {
	return g.opts
}

// Generate returns a fresh random tree whose root is a mapping with exactly
// Options.Fields fields.
func (g *Generator) Generate() (models.Value, error) {
	if err := g.opts.Validate(); err != nil {
		return models.Value{}, err
	}
	return g.mapping(0), nil
}

// Generate builds a tree with the global random source.
func Generate(opts Options) (models.Value, error) {
	return NewGenerator(opts, nil).Generate()
}

func (g *Generator) mapping(depth int) models.Value {
	width := g.opts.Fields
	if depth > 0 {
		width = g.src.IntN(g.opts.Fields) + 1
	}

	fields := make([]models.Field, width)
	for i := range fields {
		fields[i] = models.Field{Key: KeyName(i), Value: g.value(depth)}
	}
	return models.Mapping(fields...)
}

func (g *Generator) sequence(depth int) models.Value {
	length := g.src.IntN(g.opts.MaxArrayLength) + 1

	items := make([]models.Value, length)
	for i := range items {
		items[i] = g.value(depth)
	}
	return models.Sequence(items...)
}

// candidates returns the kinds a value at depth may take, in canonical order.
func (g *Generator) candidates(depth int) []models.Kind {
	kinds := g.opts.Kinds
	if depth >= g.opts.MaxDepth {
		kinds = kinds.Remove(models.KindArray).Remove(models.KindObject)
	}
	return kinds.Kinds()
}

func (g *Generator) value(depth int) models.Value {
	candidates := g.candidates(depth)
	// Only container kinds are enabled and the depth limit is reached.
	if len(candidates) == 0 {
		return models.String(g.randomString())
	}

	kind := candidates[g.src.IntN(len(candidates))]
	switch kind {
	case models.KindString:
		return models.String(g.randomString())
	case models.KindNumber:
		return g.randomNumber()
	case models.KindBoolean:
		return models.Bool(g.src.IntN(2) == 1)
	case models.KindNull:
		return models.Null()
	case models.KindArray:
		return g.sequence(depth + 1)
	case models.KindObject:
		return g.mapping(depth + 1)
	default:
		panic(fmt.Sprintf("generator: unhandled kind %v", kind))
	}
}

func (g *Generator) randomString() string {
	length := g.src.IntN(g.opts.MaxStringLength) + minStringLength

	buf := make([]byte, length)
	for i := range buf {
		buf[i] = alphanumeric[g.src.IntN(len(alphanumeric))]
	}
	return string(buf)
}

func (g *Generator) randomNumber() models.Value {
	if g.src.IntN(2) == 0 {
		return models.Int(int64(g.src.IntN(numberRange)))
	}
	return models.Float(g.src.Float64() * numberRange)
}
