package siteconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)
	return cfg
}

func TestLookupExactKeyMatch(t *testing.T) {
	cfg := sampleConfig(t)
	site, found := cfg.Lookup("example.com")
	require.True(t, found)
	assert.Equal(t, "alice", site.Username)
}

func TestLookupByCanonicalURL(t *testing.T) {
	cfg := sampleConfig(t)
	site, found := cfg.Lookup("https://example.com/")
	require.True(t, found)
	assert.Equal(t, "alice", site.Username)
}

func TestLookupByAlias(t *testing.T) {
	cfg := sampleConfig(t)
	site, found := cfg.Lookup("example.org")
	require.True(t, found)
	assert.Equal(t, "alice", site.Username)
}

func TestLookupFallsBackForUnknownSite(t *testing.T) {
	cfg := sampleConfig(t)
	site, found := cfg.Lookup("totally-unconfigured.test")
	require.False(t, found)
	assert.Equal(t, "totally-unconfigured.test", site.Host)
	assert.Equal(t, uint64(0), site.Increment)
	assert.Equal(t, "", site.Username)
}

func TestSuggestRanksCloseMatches(t *testing.T) {
	cfg := sampleConfig(t)
	suggestions := cfg.Suggest("exmple.com", 5)
	assert.Contains(t, suggestions, "example.com")
}

func TestSuggestExcludesArchivedSites(t *testing.T) {
	cfg := sampleConfig(t)
	suggestions := cfg.Suggest("archived.example.com", 5)
	assert.NotContains(t, suggestions, "archived.example.com")
}
