package generator

import (
	"fmt"
	"math"

	"github.com/hashicorp/go-multierror"
	"github.com/mcncl/treegen/internal/errors"
	"github.com/mcncl/treegen/internal/models"
)

// Options controls the shape of generated trees.
type Options struct {
	// Fields is the exact width of the root mapping and the upper bound
	// for the width of every nested mapping.
	Fields int
	// MaxDepth is the deepest container level below the root. Zero yields
	// a flat mapping of scalars.
	MaxDepth int
	// MaxArrayLength is the inclusive upper bound for sequence length.
	MaxArrayLength int
	// MaxStringLength bounds string length; strings are between 3 and
	// MaxStringLength+2 characters long.
	MaxStringLength int
	// Kinds is the set of kinds the generator may produce.
	Kinds models.KindSet
	// Compact selects flow layout in the serializer. The generator ignores it.
	Compact bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Fields:          5,
		MaxDepth:        2,
		MaxArrayLength:  5,
		MaxStringLength: 10,
		Kinds:           models.AllKindsSet(),
	}
}

// Validate reports every constraint the options violate.
func (o Options) Validate() error {
	var result *multierror.Error

	if o.Fields < 1 {
		result = multierror.Append(result, fmt.Errorf("fields must be at least 1, got %d: %w", o.Fields, errors.ErrInvalidBound))
	}
	if o.MaxDepth < 0 {
		result = multierror.Append(result, fmt.Errorf("max depth must not be negative, got %d: %w", o.MaxDepth, errors.ErrInvalidBound))
	}
	if o.MaxArrayLength < 1 {
		result = multierror.Append(result, fmt.Errorf("max array length must be at least 1, got %d: %w", o.MaxArrayLength, errors.ErrInvalidBound))
	}
	if o.MaxStringLength < 1 {
		result = multierror.Append(result, fmt.Errorf("max string length must be at least 1, got %d: %w", o.MaxStringLength, errors.ErrInvalidBound))
	}
	if o.Kinds.IsEmpty() {
		result = multierror.Append(result, errors.ErrNoKinds)
	}

	if err := result.ErrorOrNil(); err != nil {
		return errors.NewConfigError("invalid generator options", err)
	}
	return nil
}

// MaxNodes returns an upper bound on the number of values a tree generated
// with these options can contain. The result saturates at math.MaxInt64.
func (o Options) MaxNodes() int64 {
	if o.Fields < 1 || o.MaxArrayLength < 1 || o.MaxDepth < 0 {
		return 0
	}

	containers := o.Kinds.Has(models.KindArray) || o.Kinds.Has(models.KindObject)
	width := int64(o.Fields)
	if o.Kinds.Has(models.KindArray) && int64(o.MaxArrayLength) > width {
		width = int64(o.MaxArrayLength)
	}

	// slot is the largest subtree a single value position at the current
	// level can hold; walk up from the deepest level.
	slot := int64(1)
	if containers {
		for level := o.MaxDepth; level > 0; level-- {
			slot = satAdd(1, satMul(width, slot))
		}
	}
	return satAdd(1, satMul(int64(o.Fields), slot))
}

func satMul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt64/b {
		return math.MaxInt64
	}
	return a * b
}

func satAdd(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}
