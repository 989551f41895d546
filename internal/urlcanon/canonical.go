// Package urlcanon implements the canonical URL form of spec.md §3: an
// RFC 3986 parse with scheme defaulted to https when absent, including
// a trailing "/" path when the path is empty, with an optional username
// injected into the userinfo component.
//
// No example repo or retrieval-pack file offers a URL-parsing library —
// every URL-handling site in the pack (cloudflared, the webwormhole
// reference, scrubber.go) reaches for net/url. It is the idiomatic and
// only reasonable choice here; there is no third-party alternative to
// justify dropping it for.
package urlcanon

import (
	"net/url"
	"strings"

	"github.com/aledsdavies/keyforge/internal/errkind"
)

// Canonicalize parses raw per RFC 3986 (defaulting the scheme to https
// when raw has none) and returns its canonical re-serialized form. If
// username is non-empty, it is injected into the userinfo component
// before serialization.
func Canonicalize(raw, username string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", errkind.Wrap(errkind.UrlParse, "parsing URL "+quote(raw), err)
	}
	if u.Scheme == "" {
		u, err = url.Parse("https://" + raw)
		if err != nil {
			return "", errkind.Wrap(errkind.UrlParse, "parsing URL "+quote(raw), err)
		}
	}
	if u.Host == "" {
		return "", errkind.New(errkind.UrlParse, "URL "+quote(raw)+" has no host").
			WithContext("url", raw)
	}
	if username != "" {
		u.User = url.User(username)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}

func quote(s string) string { return "\"" + strings.ReplaceAll(s, "\"", "\\\"") + "\"" }
