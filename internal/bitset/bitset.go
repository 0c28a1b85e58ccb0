// Package bitset provides immutable, arbitrary-precision protein
// membership sets used by the count-propagation engine. A Set's bit i
// means "protein with dense index i belongs to this set". Values are
// never mutated in place once returned from a constructor, so callers
// may share a Set across goroutines without locking.
package bitset

import "math/big"

// Set is an immutable membership set over dense integer indices.
type Set struct {
	bits big.Int
}

// Empty is the empty Set.
var Empty = Set{}

// New returns a Set containing exactly the given indices.
func New(indices ...int) Set {
	var s Set
	for _, i := range indices {
		s.bits.SetBit(&s.bits, i, 1)
	}
	return s
}

// Has reports whether i is a member of s.
func (s Set) Has(i int) bool {
	return s.bits.Bit(i) == 1
}

// Len returns the number of members in s.
func (s Set) Len() int {
	n := 0
	words := s.bits.Bits()
	for _, w := range words {
		n += popcount(uint(w))
	}
	return n
}

// Union returns a new Set containing the members of s and t.
func (s Set) Union(t Set) Set {
	var r Set
	r.bits.Or(&s.bits, &t.bits)
	return r
}

// Intersect returns a new Set containing members present in both s and t.
func (s Set) Intersect(t Set) Set {
	var r Set
	r.bits.And(&s.bits, &t.bits)
	return r
}

// Without returns a new Set containing the members of s that are not in t.
func (s Set) Without(t Set) Set {
	var r Set
	r.bits.AndNot(&s.bits, &t.bits)
	return r
}

// Add returns a new Set with i added to the members of s.
func (s Set) Add(i int) Set {
	var r Set
	r.bits.SetBit(&s.bits, i, 1)
	return r
}

// Equal reports whether s and t contain the same members.
func (s Set) Equal(t Set) bool {
	return s.bits.Cmp(&t.bits) == 0
}

// IsEmpty reports whether s has no members.
func (s Set) IsEmpty() bool {
	return len(s.bits.Bits()) == 0
}

// Indices returns the sorted member indices of s.
func (s Set) Indices() []int {
	idx := make([]int, 0, s.Len())
	for i := 0; i < s.bits.BitLen(); i++ {
		if s.bits.Bit(i) == 1 {
			idx = append(idx, i)
		}
	}
	return idx
}

func popcount(w uint) int {
	n := 0
	for w != 0 {
		w &= w - 1
		n++
	}
	return n
}
