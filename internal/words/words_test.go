package words

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsStableAndNonEmpty(t *testing.T) {
	l := Default()
	require.Greater(t, l.Len(), 0)
	a := l.At(0)
	b := Default().At(0)
	assert.Equal(t, a, b, "embedded word list order must be stable across loads")
}

func TestLoadTrimsAndFiltersBlankLines(t *testing.T) {
	r := strings.NewReader("  alpha  \n\nbeta\n   \ngamma\n")
	l, err := Load(r)
	require.NoError(t, err)
	require.Equal(t, 3, l.Len())
	assert.Equal(t, "alpha", l.At(0))
	assert.Equal(t, "beta", l.At(1))
	assert.Equal(t, "gamma", l.At(2))
}

func TestLoadPreservesOrder(t *testing.T) {
	r := strings.NewReader("zebra\napple\nmango\n")
	l, err := Load(r)
	require.NoError(t, err)
	assert.Equal(t, "zebra", l.At(0))
	assert.Equal(t, "apple", l.At(1))
	assert.Equal(t, "mango", l.At(2))
}

func TestHashDiffersOnOrderAndContent(t *testing.T) {
	a, err := Load(strings.NewReader("zebra\napple\n"))
	require.NoError(t, err)
	b, err := Load(strings.NewReader("apple\nzebra\n"))
	require.NoError(t, err)
	c, err := Load(strings.NewReader("zebra\napple\n"))
	require.NoError(t, err)

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	hc, err := c.Hash()
	require.NoError(t, err)

	assert.NotEqual(t, ha, hb, "word order must affect the hash")
	assert.Equal(t, ha, hc, "identical content and order must hash identically")
}
