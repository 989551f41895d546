// Package version pins the cryptosystem version string that spec.md §6
// ties to the generation pipeline's parameters (KDF algorithm, CSPRNG,
// salt construction). Bumping any of those requires bumping Current and
// is a breaking change for anyone who generated passwords under the old
// version.
package version

import "golang.org/x/mod/semver"

// Current is the cryptosystem version implemented by this module:
// Argon2id + ChaCha20 counter-mode, salt = decimal(increment) + "," +
// canonical_url, schema excluded from the salt (spec.md's Design Notes
// resolve both of its Open Questions this way for v1).
const Current = "v1.0.0"

// Compatible reports whether a password generated under cryptosystemVersion
// can be reproduced by this build. Only the major version need match:
// minor/patch bumps are reserved for non-breaking internal changes.
func Compatible(cryptosystemVersion string) bool {
	if !semver.IsValid(cryptosystemVersion) {
		return false
	}
	return semver.Major(cryptosystemVersion) == semver.Major(Current)
}
