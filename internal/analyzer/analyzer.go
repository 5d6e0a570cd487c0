package analyzer

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/mcncl/treegen/internal/errors"
	"github.com/mcncl/treegen/internal/generator"
	"github.com/mcncl/treegen/internal/models"
)

// minGeneratedString is the shortest string the generator produces.
const minGeneratedString = 3

// Analyzer walks a value tree and collects shape statistics
type Analyzer struct {
	stats models.TreeStats
	// dupes tracks duplicate keys already reported
	dupes map[string]struct{}
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze returns statistics for the tree rooted at root.
func (a *Analyzer) Analyze(root models.Value) (models.TreeStats, error) {
	a.stats = models.TreeStats{
		ByKind:     make(map[models.Kind]int),
		MaxNesting: -1,
		RootKind:   root.Kind,
	}
	a.dupes = make(map[string]struct{})

	switch root.Kind {
	case models.KindObject:
		a.stats.RootWidth = len(root.Fields)
	case models.KindArray:
		a.stats.RootWidth = len(root.Items)
	}

	if err := a.analyzeNode(root, 0, true); err != nil {
		return models.TreeStats{}, fmt.Errorf("failed to analyze tree: %w", err)
	}

	sort.Strings(a.stats.DuplicateKeys)
	return a.stats, nil
}

// Analyze is a convenience wrapper around a fresh Analyzer.
func Analyze(root models.Value) (models.TreeStats, error) {
	return NewAnalyzer().Analyze(root)
}

// analyzeNode records node, found at container level `level`, and recurses into it.
func (a *Analyzer) analyzeNode(node models.Value, level int, isRoot bool) error {
	a.stats.Nodes++
	a.stats.ByKind[node.Kind]++

	switch node.Kind {
	case models.KindString:
		a.observeString(len(node.Text))
		return nil
	case models.KindNumber, models.KindBoolean, models.KindNull:
		return nil
	case models.KindArray:
		a.observeLevel(level)
		a.stats.MinSequenceLength, a.stats.MaxSequenceLength = widen(
			a.stats.MinSequenceLength, a.stats.MaxSequenceLength, len(node.Items), a.stats.ByKind[models.KindArray] == 1)
		for i, item := range node.Items {
			if err := a.analyzeNode(item, level+1, false); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
		return nil
	case models.KindObject:
		a.observeLevel(level)
		if !isRoot {
			nested := a.stats.ByKind[models.KindObject]
			if a.stats.RootKind == models.KindObject {
				nested--
			}
			first := nested == 1
			a.stats.MinMappingWidth, a.stats.MaxMappingWidth = widen(
				a.stats.MinMappingWidth, a.stats.MaxMappingWidth, len(node.Fields), first)
		}
		seen := make(map[string]struct{}, len(node.Fields))
		for _, field := range node.Fields {
			if _, ok := seen[field.Key]; ok {
				a.recordDuplicate(field.Key)
			}
			seen[field.Key] = struct{}{}
			if err := a.analyzeNode(field.Value, level+1, false); err != nil {
				return fmt.Errorf("field %q: %w", field.Key, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("unexpected value kind: %v", node.Kind)
	}
}

func (a *Analyzer) observeLevel(level int) {
	if level > a.stats.MaxNesting {
		a.stats.MaxNesting = level
	}
}

func (a *Analyzer) observeString(n int) {
	first := a.stats.ByKind[models.KindString] == 1
	a.stats.MinStringLength, a.stats.MaxStringLength = widen(a.stats.MinStringLength, a.stats.MaxStringLength, n, first)
}

func (a *Analyzer) recordDuplicate(key string) {
	if _, ok := a.dupes[key]; ok {
		return
	}
	a.dupes[key] = struct{}{}
	a.stats.DuplicateKeys = append(a.stats.DuplicateKeys, key)
}

// widen extends the [lo, hi] range to include n. The first observation
// replaces the zero range.
func widen(lo, hi, n int, first bool) (int, int) {
	if first {
		return n, n
	}
	if n < lo {
		lo = n
	}
	if n > hi {
		hi = n
	}
	return lo, hi
}

// Check verifies that stats describe a tree the generator could have produced
// with opts. Every violation is reported.
func Check(stats models.TreeStats, opts generator.Options) error {
	var result *multierror.Error

	if stats.RootKind != models.KindObject {
		result = multierror.Append(result, fmt.Errorf("root is a %s, want a mapping", stats.RootKind))
	} else if stats.RootWidth != opts.Fields {
		result = multierror.Append(result, fmt.Errorf("root mapping has %d fields, want %d", stats.RootWidth, opts.Fields))
	}

	if stats.MaxNesting > opts.MaxDepth {
		result = multierror.Append(result, fmt.Errorf("nesting depth %d exceeds %d", stats.MaxNesting, opts.MaxDepth))
	}

	if stats.Count(models.KindObject) > 1 {
		if stats.MinMappingWidth < 1 || stats.MaxMappingWidth > opts.Fields {
			result = multierror.Append(result, fmt.Errorf("mapping widths [%d, %d] outside [1, %d]",
				stats.MinMappingWidth, stats.MaxMappingWidth, opts.Fields))
		}
	}

	if stats.Count(models.KindArray) > 0 {
		if stats.MinSequenceLength < 1 || stats.MaxSequenceLength > opts.MaxArrayLength {
			result = multierror.Append(result, fmt.Errorf("sequence lengths [%d, %d] outside [1, %d]",
				stats.MinSequenceLength, stats.MaxSequenceLength, opts.MaxArrayLength))
		}
	}

	if stats.Count(models.KindString) > 0 {
		if stats.MinStringLength < minGeneratedString || stats.MaxStringLength > opts.MaxStringLength+2 {
			result = multierror.Append(result, fmt.Errorf("string lengths [%d, %d] outside [%d, %d]",
				stats.MinStringLength, stats.MaxStringLength, minGeneratedString, opts.MaxStringLength+2))
		}
	}

	if len(stats.DuplicateKeys) > 0 {
		result = multierror.Append(result, fmt.Errorf("duplicate keys %v: %w", stats.DuplicateKeys, errors.ErrDuplicateKey))
	}

	for _, kind := range models.AllKinds() {
		if stats.Count(kind) == 0 || opts.Kinds.Has(kind) {
			continue
		}
		// The root mapping is always present; strings are the depth-limit fallback.
		if kind == models.KindObject && stats.Count(kind) == 1 {
			continue
		}
		if kind == models.KindString && fallbackAllowed(opts) {
			continue
		}
		result = multierror.Append(result, fmt.Errorf("found %d %s values but the kind is disabled", stats.Count(kind), kind))
	}

	if err := result.ErrorOrNil(); err != nil {
		return errors.NewAnalysisError("tree violates generator options", err)
	}
	return nil
}

// fallbackAllowed reports whether opts can force the string fallback: only
// container kinds are enabled, so values at the depth limit have no candidate.
func fallbackAllowed(opts generator.Options) bool {
	scalars := opts.Kinds.Remove(models.KindArray).Remove(models.KindObject)
	return scalars.IsEmpty()
}
