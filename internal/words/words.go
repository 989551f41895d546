// Package words provides the ordered dictionary word list consulted by
// schema.WordClass nodes (spec.md §3). Order is semantically
// meaningful — it defines the WordClass bijection — so every loader in
// this package preserves the order it read words in.
package words

import (
	"bufio"
	_ "embed"
	"io"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/aledsdavies/keyforge/internal/errkind"
)

// embeddedWords is the default word list: 512 English words
// deduplicated and stably ordered, adapted from saljam/webwormhole's
// EFF-short-wordlist-derived enWords table (see DESIGN.md). A full
// 7776-word EFF large list can be supplied at runtime via words_path.
//
//go:embed words.txt
var embeddedWords string

// List is a finite, ordered, immutable sequence of dictionary words.
type List struct {
	words []string
}

// Default returns the embedded word list.
func Default() *List {
	return parseList(embeddedWords)
}

// Load reads a word list from r: one word per line, trimmed, blank
// lines filtered, order preserved (spec.md §3).
func Load(r io.Reader) (*List, error) {
	var b strings.Builder
	sc := bufio.NewScanner(r)
	// Reasonably-sized line buffer: dictionary words are short, but a
	// custom file could have long lines we shouldn't choke on.
	buf := make([]byte, 0, 64*1024)
	sc.Buffer(buf, 1024*1024)
	for sc.Scan() {
		b.WriteString(sc.Text())
		b.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, errkind.Wrap(errkind.IoError, "reading word list", err)
	}
	return parseList(b.String()), nil
}

func parseList(raw string) *List {
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return &List{words: out}
}

// Len returns the number of words in the list.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.words)
}

// At returns the i-th word, 0 <= i < Len().
func (l *List) At(i int) string {
	return l.words[i]
}

// Hash returns the BLAKE2b-256 digest of the word list's contents and
// order, used to key schemacache entries against the word list that
// produced them: the same schema text against two different word lists
// must never share a cache entry.
func (l *List) Hash() ([32]byte, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return [32]byte{}, errkind.Wrap(errkind.IoError, "initializing word list hasher", err)
	}
	for _, w := range l.words {
		io.WriteString(h, w)
		h.Write([]byte{0})
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}
