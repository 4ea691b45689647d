package errors

import (
	"sort"
	"strings"
)

// CodeSet is an unordered, deduplicated collection of codes.
type CodeSet map[Code]struct{}

// NewCodeSet returns a set holding codes.
func NewCodeSet(codes ...Code) CodeSet {
	s := make(CodeSet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

// CodeSetFromWire translates wire tokens into a set.
func CodeSetFromWire(tokens ...string) CodeSet {
	s := make(CodeSet, len(tokens))
	for _, t := range tokens {
		s[CodeFromWire(t)] = struct{}{}
	}
	return s
}

// Add inserts c. The set must be non-nil.
func (s CodeSet) Add(c Code) {
	s[c] = struct{}{}
}

// Contains reports whether c is in the set.
func (s CodeSet) Contains(c Code) bool {
	_, ok := s[c]
	return ok
}

// Len returns the number of distinct codes.
func (s CodeSet) Len() int {
	return len(s)
}

// Clone returns an independent copy; a nil set clones to nil.
func (s CodeSet) Clone() CodeSet {
	if s == nil {
		return nil
	}
	out := make(CodeSet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}

// Slice returns the codes ordered by wire token.
func (s CodeSet) Slice() []Code {
	out := make([]Code, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Wire() < out[j].Wire()
	})
	return out
}

// Wire returns the wire tokens ordered alphabetically.
func (s CodeSet) Wire() []string {
	codes := s.Slice()
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = c.Wire()
	}
	return out
}

func (s CodeSet) String() string {
	return strings.Join(s.Wire(), ", ")
}
