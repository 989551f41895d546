package redact

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrubberRedactsWholeSecret(t *testing.T) {
	var out bytes.Buffer
	s := New(&out)
	s.RegisterSecret([]byte("correct horse battery staple"))

	_, err := s.Write([]byte("seed=correct horse battery staple end"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.NotContains(t, out.String(), "correct horse battery staple")
	assert.Contains(t, out.String(), "<redacted>")
}

func TestScrubberRedactsAcrossWriteBoundary(t *testing.T) {
	var out bytes.Buffer
	s := New(&out)
	secret := "supersecretkeybytes"
	s.RegisterSecret([]byte(secret))

	half := len(secret) / 2
	_, err := s.Write([]byte("prefix-" + secret[:half]))
	require.NoError(t, err)
	_, err = s.Write([]byte(secret[half:] + "-suffix"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.NotContains(t, out.String(), secret)
}

func TestScrubberPassesThroughNonSecretText(t *testing.T) {
	var out bytes.Buffer
	s := New(&out)
	s.RegisterSecret([]byte("abc123"))

	_, err := s.Write([]byte("nothing secret here"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.Equal(t, "nothing secret here", out.String())
}
