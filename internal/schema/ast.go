// Package schema parses keyforge's restricted regex-like DSL (spec.md
// §4.1) into an expression tree and, for each node, computes its exact
// cardinality and materializes the i-th matching string under a fixed
// enumeration order (spec.md §4.2). The two concerns live in one Go
// package on purpose: the AST sum type and the Size/GenAt operations
// over it are inseparable — the bijection invariant depends on both
// being defined together, the way a compiler keeps a node type and its
// visitor methods in the same package.
package schema

import "github.com/aledsdavies/keyforge/internal/words"

// Node is any element of the schema AST. Every node can report its
// cardinality and materialize the string at a given index.
type Node interface {
	// Size returns the exact cardinality of the node's matching set.
	Size() (Size, error)
	// GenAt returns the string for index idx, 0 <= idx < Size().
	GenAt(idx Size) (string, error)
}

// Literal matches exactly one fixed string. Cardinality 1.
type Literal struct {
	Value string
}

// CharClass matches any one scalar from a sorted, deduplicated set.
type CharClass struct {
	// Set is sorted ascending and contains no duplicates — the parser
	// is responsible for this invariant (spec.md §4.1: "[aa] MUST be
	// treated as [a]").
	Set []rune
}

// WordCase selects how WordClass transforms the chosen dictionary word.
type WordCase int

const (
	// Lower emits the dictionary word unchanged.
	Lower WordCase = iota
	// Title uppercases the first scalar of the dictionary word.
	Title
)

// WordClass matches one word from the configured word list.
type WordClass struct {
	Case WordCase
	Words *words.List
}

// Group is the concatenation of its children, in AST order.
type Group struct {
	Children []Node
}

// Count is n back-to-back copies of Child (spec.md §3: n=0 yields the
// empty string with cardinality 1).
type Count struct {
	Child Node
	N     uint64
}
