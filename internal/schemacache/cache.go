// Package schemacache caches a schema's computed cardinality, keyed by
// the BLAKE2b-256 hash of the schema source and word-list identity. The
// parsed AST itself is not cached: callers still parse the schema on
// every run and use a cache hit only in place of sizing it.
//
// The on-disk framing (magic + version + flags preamble, length-prefixed
// body) follows the same shape as a compiled build plan's binary format:
// a short fixed header a reader can validate before touching the
// variable-length body. The frame carries no content hash; the BLAKE2b
// key appears only in the entry's file name.
package schemacache

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/aledsdavies/keyforge/internal/errkind"
	"github.com/aledsdavies/keyforge/internal/invariant"
	"github.com/aledsdavies/keyforge/internal/version"
)

const (
	// Magic identifies a schema cache entry file.
	Magic = "KFSC"

	// Version is the cache entry format version (uint16, little-endian).
	Version uint16 = 0x0001
)

// Entry is the cached result of parsing and sizing one schema string
// against one word list. Cardinality is stored as a decimal string because
// bigint256.Int has no CBOR encoding of its own and re-deriving one
// would duplicate the canonical decimal representation.
type Entry struct {
	SchemaSource string   `cbor:"schema_source"`
	WordListHash [32]byte `cbor:"word_list_hash"`
	Cardinality  string   `cbor:"cardinality"`

	// CryptosystemVersion is stamped with version.Current when the
	// entry is written. LoadEntry treats an entry whose version is no
	// longer version.Compatible as a miss rather than trusting a
	// cardinality computed under rules that may since have changed.
	CryptosystemVersion string `cbor:"cryptosystem_version"`
}

// Key returns the cache lookup key: BLAKE2b-256 of the schema source
// concatenated with the word-list hash, so the same schema text cached
// against two different word lists never collides.
func Key(schemaSource string, wordListHash [32]byte) ([32]byte, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return [32]byte{}, errkind.Wrap(errkind.IoError, "initializing cache key hasher", err)
	}
	if _, err := h.Write([]byte(schemaSource)); err != nil {
		return [32]byte{}, errkind.Wrap(errkind.IoError, "hashing schema source", err)
	}
	if _, err := h.Write(wordListHash[:]); err != nil {
		return [32]byte{}, errkind.Wrap(errkind.IoError, "hashing word list identity", err)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

// WordListHash hashes the contents of a word list for use as a cache
// key component.
func WordListHash(words []string) ([32]byte, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return [32]byte{}, errkind.Wrap(errkind.IoError, "initializing word list hasher", err)
	}
	for _, w := range words {
		if _, err := io.WriteString(h, w); err != nil {
			return [32]byte{}, errkind.Wrap(errkind.IoError, "hashing word list", err)
		}
		if _, err := h.Write([]byte{0}); err != nil {
			return [32]byte{}, errkind.Wrap(errkind.IoError, "hashing word list", err)
		}
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

// Write encodes e as CBOR and frames it as MAGIC(4) | VERSION(2) |
// FLAGS(2, reserved, always zero) | BODY_LEN(4) | BODY.
func Write(w io.Writer, e Entry) error {
	body, err := cbor.Marshal(e)
	if err != nil {
		return errkind.Wrap(errkind.IoError, "encoding cache entry", err)
	}
	invariant.Invariant(len(body) <= 0xFFFFFFFF, "cache entry body must fit in a uint32 length prefix")

	var buf bytes.Buffer
	buf.WriteString(Magic)
	binary.Write(&buf, binary.LittleEndian, Version)
	binary.Write(&buf, binary.LittleEndian, uint16(0)) // flags, reserved
	binary.Write(&buf, binary.LittleEndian, uint32(len(body)))
	buf.Write(body)

	if _, err := w.Write(buf.Bytes()); err != nil {
		return errkind.Wrap(errkind.IoError, "writing cache entry", err)
	}
	return nil
}

// Read decodes a cache entry previously written by Write.
func Read(r io.Reader) (Entry, error) {
	var preamble [12]byte
	if _, err := io.ReadFull(r, preamble[:]); err != nil {
		return Entry{}, errkind.Wrap(errkind.IoError, "reading cache entry preamble", err)
	}
	if string(preamble[:4]) != Magic {
		return Entry{}, errkind.New(errkind.IoError, "cache entry has wrong magic number")
	}
	version := binary.LittleEndian.Uint16(preamble[4:6])
	if version != Version {
		return Entry{}, errkind.New(errkind.IoError, fmt.Sprintf("cache entry has unsupported version %d", version))
	}
	bodyLen := binary.LittleEndian.Uint32(preamble[8:12])

	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return Entry{}, errkind.Wrap(errkind.IoError, "reading cache entry body", err)
	}

	var e Entry
	if err := cbor.Unmarshal(body, &e); err != nil {
		return Entry{}, errkind.Wrap(errkind.IoError, "decoding cache entry", err)
	}
	return e, nil
}

// path returns the on-disk location of the entry for key within dir,
// one file per key so concurrent CLI invocations against different
// schemas never contend on the same file.
func path(dir string, key [32]byte) string {
	return filepath.Join(dir, hex.EncodeToString(key[:])+".kfsc")
}

// LoadEntry reads the cache entry for key from dir, returning
// (Entry{}, false, nil) on a clean miss: no file, or a file whose
// stamped CryptosystemVersion is no longer version.Compatible with
// version.Current. Any other read/decode failure is returned as an
// error rather than silently treated as a miss, since it usually means
// the cache directory is corrupt rather than merely cold.
func LoadEntry(dir string, key [32]byte) (Entry, bool, error) {
	f, err := os.Open(path(dir, key))
	if os.IsNotExist(err) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, errkind.Wrap(errkind.IoError, "opening cache entry", err)
	}
	defer f.Close()

	e, err := Read(f)
	if err != nil {
		return Entry{}, false, err
	}
	if !version.Compatible(e.CryptosystemVersion) {
		return Entry{}, false, nil
	}
	return e, true, nil
}

// StoreEntry stamps e with version.Current and writes it to dir, keyed
// by key. dir is created if it does not yet exist.
func StoreEntry(dir string, key [32]byte, e Entry) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errkind.Wrap(errkind.IoError, "creating cache directory", err)
	}
	e.CryptosystemVersion = version.Current

	f, err := os.Create(path(dir, key))
	if err != nil {
		return errkind.Wrap(errkind.IoError, "creating cache entry", err)
	}
	defer f.Close()

	return Write(f, e)
}
