package siteconfig

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/aledsdavies/keyforge/internal/urlcanon"
)

// Lookup resolves key (a hostname, URL, or bare site name) against cfg
// in the order spec.md §6 describes: exact key match, then a match on
// each entry's canonical URL or alias list, then a zero-value fallback
// built from key itself (default schema, increment 0, no username) so
// that an unconfigured site still generates a password.
//
// found reports whether an actual config entry was matched, as opposed
// to the synthesized fallback.
func (c *Config) Lookup(key string) (site Site, found bool) {
	if s, ok := c.Sites[key]; ok {
		return s, true
	}

	canonicalKey, err := urlcanon.Canonicalize(key, "")
	if err == nil {
		for _, s := range c.Sites {
			if s.Archived {
				continue
			}
			if canonicalHost, err := urlcanon.Canonicalize(s.Host, ""); err == nil && canonicalHost == canonicalKey {
				return s, true
			}
			for _, alias := range s.Aliases {
				if canonicalAlias, err := urlcanon.Canonicalize(alias, ""); err == nil && canonicalAlias == canonicalKey {
					return s, true
				}
			}
		}
	}

	return Site{Host: key, Schema: c.DefaultSchema}, false
}

// Suggest returns up to limit configured site keys that fuzzy-match
// key, ranked best-first, for a "did you mean" prompt when Lookup
// falls through to the synthesized fallback.
func (c *Config) Suggest(key string, limit int) []string {
	candidates := make([]string, 0, len(c.Sites))
	for name, s := range c.Sites {
		if s.Archived {
			continue
		}
		candidates = append(candidates, name)
	}
	sort.Strings(candidates) // stable input order before ranking

	ranks := fuzzy.RankFindFold(key, candidates)
	sort.Sort(ranks)

	out := make([]string, 0, limit)
	for _, r := range ranks {
		if len(out) >= limit {
			break
		}
		out = append(out, r.Target)
	}
	return out
}
