package models

import "strings"

// Kind identifies the variant a Value holds.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBoolean
	KindNull
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindString:  "string",
	KindNumber:  "number",
	KindBoolean: "boolean",
	KindNull:    "null",
	KindArray:   "array",
	KindObject:  "object",
}

// AllKinds returns every kind in canonical order.
func AllKinds() []Kind {
	return []Kind{KindString, KindNumber, KindBoolean, KindNull, KindArray, KindObject}
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// IsContainer reports whether values of this kind hold other values.
func (k Kind) IsContainer() bool {
	return k == KindArray || k == KindObject
}

// IsScalar reports whether k is one of the four scalar kinds.
func (k Kind) IsScalar() bool {
	return k >= KindString && k <= KindNull
}

// KindSet is a set of kinds.
type KindSet uint8

// NewKindSet returns a set containing kinds.
func NewKindSet(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s = s.Add(k)
	}
	return s
}

// AllKindsSet returns a set containing every kind.
func AllKindsSet() KindSet {
	return NewKindSet(AllKinds()...)
}

// Has reports whether k is in the set.
func (s KindSet) Has(k Kind) bool {
	if k < 0 || int(k) >= len(kindNames) {
		return false
	}
	return s&(1<<uint(k)) != 0
}

// Add returns the set with k added.
func (s KindSet) Add(k Kind) KindSet {
	if k < 0 || int(k) >= len(kindNames) {
		return s
	}
	return s | 1<<uint(k)
}

// Remove returns the set with k removed.
func (s KindSet) Remove(k Kind) KindSet {
	if k < 0 || int(k) >= len(kindNames) {
		return s
	}
	return s &^ (1 << uint(k))
}

// IsEmpty reports whether no kind is in the set.
func (s KindSet) IsEmpty() bool {
	return s == 0
}

// Len returns the number of kinds in the set.
func (s KindSet) Len() int {
	n := 0
	for _, k := range AllKinds() {
		if s.Has(k) {
			n++
		}
	}
	return n
}

// Kinds returns the members of the set in canonical order.
func (s KindSet) Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames))
	for _, k := range AllKinds() {
		if s.Has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

func (s KindSet) String() string {
	names := make([]string, 0, len(kindNames))
	for _, k := range s.Kinds() {
		names = append(names, k.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}
