package secretbuf

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWipeZeroesBuffer(t *testing.T) {
	data := []byte("correct horse battery staple")
	b := New(data)
	b.Wipe()
	for i, c := range data {
		require.Equal(t, byte(0), c, "byte %d was not wiped", i)
	}
	assert.True(t, b.Wiped())
}

func TestWipeIsIdempotent(t *testing.T) {
	b := New([]byte("secret"))
	b.Wipe()
	assert.NotPanics(t, func() { b.Wipe() })
}

func TestBytesPanicsAfterWipe(t *testing.T) {
	b := New([]byte("secret"))
	b.Wipe()
	assert.Panics(t, func() { b.Bytes() })
}

func TestFormatNeverLeaksSecret(t *testing.T) {
	b := New([]byte("correct horse battery staple"))
	defer b.Wipe()
	out := fmt.Sprintf("%v|%s|%#v", b, b, b)
	assert.NotContains(t, out, "correct horse battery staple")
}

func TestEqualConstantTime(t *testing.T) {
	a := New([]byte("abcdef"))
	defer a.Wipe()
	b := New([]byte("abcdef"))
	defer b.Wipe()
	c := New([]byte("abcxyz"))
	defer c.Wipe()

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
