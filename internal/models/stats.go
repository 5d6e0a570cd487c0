package models

// TreeStats summarizes the shape of a value tree.
type TreeStats struct {
	Nodes  int          // total number of values, root included
	ByKind map[Kind]int // values per kind, root included

	// MaxNesting is the deepest container level; the root container is level 0.
	// A scalar root has nesting -1.
	MaxNesting int

	RootKind  Kind
	RootWidth int // fields of a root mapping or items of a root sequence

	// Width bounds of non-root mappings. Zero when there are none.
	MinMappingWidth int
	MaxMappingWidth int

	// Length bounds of sequences. Zero when there are none.
	MinSequenceLength int
	MaxSequenceLength int

	// Length bounds of string scalars, in bytes. Zero when there are none.
	MinStringLength int
	MaxStringLength int

	// DuplicateKeys lists keys repeated within one mapping.
	DuplicateKeys []string
}

// Count returns the number of values of kind k.
func (s TreeStats) Count(k Kind) int {
	return s.ByKind[k]
}
