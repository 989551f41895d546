package schema

import (
	"regexp"
	"testing"

	"github.com/aledsdavies/keyforge/internal/bigint256"
	"github.com/aledsdavies/keyforge/internal/words"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// schemaCorpus pairs a schema with an equivalent Go regexp used only to
// check "all outputs match" (spec.md §8 property 2); it is not used by
// the implementation itself.
var schemaCorpus = []struct {
	schema string
	regexp string
}{
	{`[0-9]{3}`, `^[0-9]{3}$`},
	{`[A-Za-z0-9]{2}`, `^[A-Za-z0-9]{2}$`},
	{`(ab){2}`, `^(ab){2}$`},
	{`x[0-3]y`, `^x[0-3]y$`},
	{`[:word:]-[0-9]`, `^[a-z ]+-[0-9]$`},
}

func TestCardinalityMatchesEnumeration(t *testing.T) {
	for _, tc := range schemaCorpus {
		tc := tc
		t.Run(tc.schema, func(t *testing.T) {
			node, err := Parse(tc.schema, words.Default())
			require.NoError(t, err)
			size, err := node.Size()
			require.NoError(t, err)
			n, ok := size.Uint64()
			require.True(t, ok)
			require.Less(t, n, uint64(10000), "keep the test corpus small")

			seen := make(map[string]bool, n)
			for i := uint64(0); i < n; i++ {
				s, err := node.GenAt(bigint256.FromUint64(i))
				require.NoError(t, err)
				require.False(t, seen[s], "duplicate output %q at index %d for schema %q", s, i, tc.schema)
				seen[s] = true
			}
			assert.Len(t, seen, int(n), "enumeration must produce exactly N distinct strings")
		})
	}
}

func TestAllOutputsMatchRegexp(t *testing.T) {
	for _, tc := range schemaCorpus {
		tc := tc
		t.Run(tc.schema, func(t *testing.T) {
			node, err := Parse(tc.schema, words.Default())
			require.NoError(t, err)
			re := regexp.MustCompile(tc.regexp)
			size, err := node.Size()
			require.NoError(t, err)
			n, ok := size.Uint64()
			require.True(t, ok)
			limit := n
			if limit > 10000 {
				limit = 10000
			}
			for i := uint64(0); i < limit; i++ {
				s, err := node.GenAt(bigint256.FromUint64(i))
				require.NoError(t, err)
				assert.True(t, re.MatchString(s), "output %q does not match %s", s, tc.regexp)
			}
		})
	}
}

func TestMixedRadixEndianness(t *testing.T) {
	// Group([A, B]) where A has size 2 and B has size 3: the first
	// child (A) must consume the lowest-order digit (spec.md §4.2
	// property 3). Index 1 should select A's second value with B's
	// first value, not the reverse.
	a := &CharClass{Set: []rune{'x', 'y'}}
	b := &CharClass{Set: []rune{'0', '1', '2'}}
	g := &Group{Children: []Node{a, b}}

	s, err := g.GenAt(bigint256.FromUint64(1))
	require.NoError(t, err)
	assert.Equal(t, "y0", s, "index 1 must advance the first child, not the second")

	s, err = g.GenAt(bigint256.FromUint64(2))
	require.NoError(t, err)
	assert.Equal(t, "x1", s, "index 2 must wrap the first child and advance the second")
}

func TestGroupSizeOverflow(t *testing.T) {
	big := &CharClass{Set: make([]rune, 256)}
	for i := range big.Set {
		big.Set[i] = rune(i)
	}
	count := &Count{Child: big, N: 32} // 256**32 == 2**256, exactly at the ceiling
	size, err := count.Size()
	require.NoError(t, err)
	assert.Equal(t, 0, size.Cmp(bigint256.Max()))

	tooBig := &Count{Child: big, N: 33}
	_, err = tooBig.Size()
	require.Error(t, err)
}
