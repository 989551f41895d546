package schema

import (
	"strconv"

	"github.com/aledsdavies/keyforge/internal/bigint256"
	"github.com/aledsdavies/keyforge/internal/errkind"
	"github.com/aledsdavies/keyforge/internal/invariant"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Size is the cardinality of a node's matching set: an unsigned
// integer in [0, 2**256], per spec.md §3's bound and §4.3's
// representation.
type Size = bigint256.Int

var titleCaser = cases.Upper(language.Und)

// Size returns 1: a Literal matches exactly one string.
func (l *Literal) Size() (Size, error) { return bigint256.One(), nil }

// GenAt returns l.Value for idx 0; any other index is a programmer
// error (the caller must have checked Size() first).
func (l *Literal) GenAt(idx Size) (string, error) {
	invariant.Precondition(idx.IsZero(), "literal index must be 0, got %s", idx.String())
	return l.Value, nil
}

// Size returns the number of distinct scalars in the class.
func (c *CharClass) Size() (Size, error) {
	if len(c.Set) == 0 {
		return bigint256.Zero(), errkind.New(errkind.SchemaEmpty, "character class is empty")
	}
	return bigint256.FromUint64(uint64(len(c.Set))), nil
}

// GenAt returns the idx-th scalar of the sorted, deduplicated set.
func (c *CharClass) GenAt(idx Size) (string, error) {
	i, ok := idx.Uint64()
	invariant.Invariant(ok && i < uint64(len(c.Set)), "char class index out of range")
	return string(c.Set[i]), nil
}

// Size returns the number of words in the configured word list.
func (w *WordClass) Size() (Size, error) {
	n := w.Words.Len()
	if n == 0 {
		return bigint256.Zero(), errkind.New(errkind.SchemaEmpty, "word list is empty")
	}
	return bigint256.FromUint64(uint64(n)), nil
}

// GenAt returns the idx-th word, case-transformed per w.Case.
func (w *WordClass) GenAt(idx Size) (string, error) {
	i, ok := idx.Uint64()
	invariant.Invariant(ok && i < uint64(w.Words.Len()), "word class index out of range")
	word := w.Words.At(int(i))
	if w.Case == Lower {
		return word, nil
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word, nil
	}
	return titleCaser.String(string(runes[0])) + string(runes[1:]), nil
}

// Size returns the product of the children's cardinalities, checked
// against the 2**256 ceiling (spec.md §3).
func (g *Group) Size() (Size, error) {
	total := bigint256.One()
	for _, child := range g.Children {
		s, err := child.Size()
		if err != nil {
			return bigint256.Zero(), err
		}
		total, err = bigint256.Mul(total, s)
		if err != nil {
			return bigint256.Zero(), err
		}
	}
	return total, nil
}

// GenAt decodes idx into one remainder per child via mixed-radix
// division, least-significant-child-first (spec.md §4.2 property 3):
// the first child in AST order consumes the lowest-order digit.
func (g *Group) GenAt(idx Size) (string, error) {
	out := make([]string, len(g.Children))
	q := idx
	for i, child := range g.Children {
		s, err := child.Size()
		if err != nil {
			return "", err
		}
		var r Size
		q, r = bigint256.DivMod(q, s)
		part, err := child.GenAt(r)
		if err != nil {
			return "", err
		}
		out[i] = part
	}
	invariant.Postcondition(q.IsZero(), "mixed-radix decode left a nonzero quotient; index was out of range")
	result := ""
	for _, p := range out {
		result += p
	}
	return result, nil
}

// Size returns Child's cardinality raised to the n-th power, checked
// against the 2**256 ceiling. n=0 yields cardinality 1 (the empty
// string), per spec.md §3.
func (c *Count) Size() (Size, error) {
	if c.N == 0 {
		return bigint256.One(), nil
	}
	childSize, err := c.Child.Size()
	if err != nil {
		return bigint256.Zero(), err
	}
	total := bigint256.One()
	for i := uint64(0); i < c.N; i++ {
		total, err = bigint256.Mul(total, childSize)
		if err != nil {
			return bigint256.Zero(), errkind.New(errkind.SchemaOverflow,
				"count of "+strconv.FormatUint(c.N, 10)+" copies overflows 256 bits")
		}
	}
	return total, nil
}

// GenAt treats Count as Group([Child, Child, ..., Child]) with n
// copies, decoded the same least-significant-child-first way.
func (c *Count) GenAt(idx Size) (string, error) {
	if c.N == 0 {
		invariant.Precondition(idx.IsZero(), "count-of-zero index must be 0")
		return "", nil
	}
	childSize, err := c.Child.Size()
	if err != nil {
		return "", err
	}
	out := make([]string, c.N)
	q := idx
	for i := uint64(0); i < c.N; i++ {
		var r Size
		q, r = bigint256.DivMod(q, childSize)
		part, err := c.Child.GenAt(r)
		if err != nil {
			return "", err
		}
		out[i] = part
	}
	invariant.Postcondition(q.IsZero(), "mixed-radix decode left a nonzero quotient; index was out of range")
	result := ""
	for _, p := range out {
		result += p
	}
	return result, nil
}
