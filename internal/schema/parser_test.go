package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/keyforge/internal/bigint256"
	"github.com/aledsdavies/keyforge/internal/errkind"
	"github.com/aledsdavies/keyforge/internal/words"
)

func mustParse(t *testing.T, src string) Node {
	t.Helper()
	node, err := Parse(src, words.Default())
	require.NoError(t, err, "schema: %q", src)
	return node
}

func TestParseLiteralCoalescing(t *testing.T) {
	node := mustParse(t, "abc")
	lit, ok := node.(*Literal)
	require.True(t, ok, "expected coalesced literal, got %T", node)
	assert.Equal(t, "abc", lit.Value)
}

func TestParseCharClassDedupAndSort(t *testing.T) {
	node := mustParse(t, "[ba a]")
	cc, ok := node.(*CharClass)
	require.True(t, ok)
	assert.Equal(t, []rune{' ', 'a', 'b'}, cc.Set)
}

func TestParseCharClassRange(t *testing.T) {
	node := mustParse(t, "[0-9]")
	cc, ok := node.(*CharClass)
	require.True(t, ok)
	assert.Len(t, cc.Set, 10)
	assert.Equal(t, '0', cc.Set[0])
	assert.Equal(t, '9', cc.Set[9])
}

func TestParseNestedNamedClass(t *testing.T) {
	node := mustParse(t, "[[:digit:]]")
	cc, ok := node.(*CharClass)
	require.True(t, ok)
	assert.Len(t, cc.Set, 10)
}

func TestParseWordAtomLowerAndTitle(t *testing.T) {
	node := mustParse(t, "[:word:]")
	wc, ok := node.(*WordClass)
	require.True(t, ok)
	assert.Equal(t, Lower, wc.Case)

	node = mustParse(t, "[:Word:]")
	wc, ok = node.(*WordClass)
	require.True(t, ok)
	assert.Equal(t, Title, wc.Case)
}

func TestParseWordInsideBracketIsError(t *testing.T) {
	_, err := Parse("[[:word:]]", words.Default())
	require.Error(t, err)
	assert.True(t, errkind.Is(err, errkind.SchemaParse))
}

func TestParseGroupAndCount(t *testing.T) {
	node := mustParse(t, "[0-9]{4}")
	count, ok := node.(*Count)
	require.True(t, ok)
	assert.Equal(t, uint64(4), count.N)
	size, err := count.Size()
	require.NoError(t, err)
	v, ok := size.Uint64()
	require.True(t, ok)
	assert.Equal(t, uint64(10000), v)
}

func TestParseWordJoinedSchema(t *testing.T) {
	// S5: [:word:](-[:word:]){4}
	node := mustParse(t, "[:word:](-[:word:]){4}")
	group, ok := node.(*Group)
	require.True(t, ok)
	assert.Len(t, group.Children, 2)
}

func TestParseEmptyClassIsParseError(t *testing.T) {
	_, err := Parse("[]", words.Default())
	require.Error(t, err)
	assert.True(t, errkind.Is(err, errkind.SchemaParse))
}

func TestParseAlternationIsError(t *testing.T) {
	for _, src := range []string{"a|b", "a*", "a+", "a?"} {
		_, err := Parse(src, words.Default())
		require.Error(t, err, "schema: %q", src)
		assert.True(t, errkind.Is(err, errkind.SchemaParse), "schema: %q", src)
	}
}

func TestParseCountZeroSucceedsEmpty(t *testing.T) {
	node := mustParse(t, "[:word:]{0}")
	size, err := node.Size()
	require.NoError(t, err)
	v, ok := size.Uint64()
	require.True(t, ok)
	assert.Equal(t, uint64(1), v)
	s, err := node.GenAt(bigint256.Zero())
	require.NoError(t, err)
	assert.Equal(t, "", s)
}

func TestParseOverflowingCountFails(t *testing.T) {
	// A class of 62 chars raised to the 250th power overflows 2**256
	// (2**256 has roughly 77 decimal digits; 62**250 has roughly 448).
	node, err := Parse("[0-9A-Za-z]{250}", words.Default())
	require.NoError(t, err)
	_, err = node.Size()
	require.Error(t, err)
	assert.True(t, errkind.Is(err, errkind.SchemaOverflow))
}

func TestParseUnterminatedGroupFails(t *testing.T) {
	_, err := Parse("(abc", words.Default())
	require.Error(t, err)
}

func TestParseStrayCloseParenFails(t *testing.T) {
	_, err := Parse("abc)", words.Default())
	require.Error(t, err)
}

func TestParseEscapedMetacharLiteral(t *testing.T) {
	node := mustParse(t, `\[\]\(\)`)
	lit, ok := node.(*Literal)
	require.True(t, ok)
	assert.Equal(t, "[]()", lit.Value)
}

// TestParseProducesExpectedTree checks the full shape of a parsed AST
// with go-cmp, rather than asserting on individual fields, for a
// schema complex enough that a field-by-field check would miss a
// misplaced child.
func TestParseProducesExpectedTree(t *testing.T) {
	got := mustParse(t, "x[0-2]")
	want := &Group{Children: []Node{
		&Literal{Value: "x"},
		&CharClass{Set: []rune{'0', '1', '2'}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("parsed tree mismatch (-want +got):\n%s", diff)
	}
}
