// Package driver composes the pipeline spec.md §4.5 describes: parse
// the schema, derive a key from the seed and salt, seed a CSPRNG from
// that key, draw a uniform index in [0, cardinality), and materialize
// the password at that index. Every secret buffer created along the
// way is wiped on every exit path, including error returns.
package driver

import (
	"strconv"

	"github.com/aledsdavies/keyforge/internal/bigint256"
	"github.com/aledsdavies/keyforge/internal/errkind"
	"github.com/aledsdavies/keyforge/internal/kdf"
	"github.com/aledsdavies/keyforge/internal/schema"
	"github.com/aledsdavies/keyforge/internal/schemacache"
	"github.com/aledsdavies/keyforge/internal/secretbuf"
	"github.com/aledsdavies/keyforge/internal/urlcanon"
	"github.com/aledsdavies/keyforge/internal/words"
)

// Request is everything the driver needs to generate one password.
type Request struct {
	// Seed is the master secret. The driver does not take ownership of
	// wiping it — the caller (cmd/keyforge, via keyring.Keyring) owns
	// its lifecycle.
	Seed *secretbuf.Buffer

	// Site and Username build the canonical URL salt component.
	Site     string
	Username string

	// Increment lets the caller mint a new password for the same site
	// without changing the seed (spec.md §3).
	Increment uint64

	// Schema is the DSL program to enumerate (spec.md §4.1).
	Schema string

	// Words backs any [:word:]/[:Word:] atoms in Schema. Default() is
	// used if nil.
	Words *words.List

	// CachePath, if non-empty, names a directory used to cache a
	// schema's computed cardinality across invocations
	// (internal/schemacache), so repeated runs against the same
	// schema and word list skip re-deriving it.
	CachePath string
}

// Result is the generated password plus the entropy figure spec.md
// §6's --verbose flag reports.
type Result struct {
	Password   *secretbuf.Buffer
	Cardinality bigint256.Int
}

// Generate runs the full pipeline for req.
func Generate(req Request) (Result, error) {
	wordList := req.Words
	if wordList == nil {
		wordList = words.Default()
	}

	ast, err := schema.Parse(req.Schema, wordList)
	if err != nil {
		return Result{}, err
	}

	cardinality, err := sizeWithCache(req.CachePath, req.Schema, wordList, ast)
	if err != nil {
		return Result{}, err
	}
	if cardinality.IsZero() {
		return Result{}, errkind.New(errkind.SchemaEmpty, "schema has zero cardinality: "+req.Schema)
	}

	canonicalURL, err := urlcanon.Canonicalize(req.Site, req.Username)
	if err != nil {
		return Result{}, err
	}
	salt := []byte(strconv.FormatUint(req.Increment, 10) + "," + canonicalURL)

	key := kdf.DeriveKey(req.Seed, salt)
	defer key.Wipe()

	stream, err := kdf.NewStream(key)
	if err != nil {
		return Result{}, err
	}
	defer stream.Wipe()

	index, err := kdf.SampleUniform(stream, cardinality)
	if err != nil {
		return Result{}, err
	}

	password, err := ast.GenAt(index)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Password:    secretbuf.New([]byte(password)),
		Cardinality: cardinality,
	}, nil
}

// sizeWithCache returns ast.Size(), consulting cacheDir first when it
// is non-empty. A cache miss (cold, corrupt-free-to-ignore, or stamped
// with an incompatible cryptosystem version) falls through to
// recomputing and, on success, restamping the entry.
func sizeWithCache(cacheDir, schemaSource string, wordList *words.List, ast schema.Node) (bigint256.Int, error) {
	if cacheDir == "" {
		return ast.Size()
	}

	wlHash, err := wordList.Hash()
	if err != nil {
		return bigint256.Int{}, err
	}
	key, err := schemacache.Key(schemaSource, wlHash)
	if err != nil {
		return bigint256.Int{}, err
	}

	if entry, found, err := schemacache.LoadEntry(cacheDir, key); err == nil && found {
		if cardinality, err := bigint256.FromDecimalString(entry.Cardinality); err == nil {
			return cardinality, nil
		}
	}

	cardinality, err := ast.Size()
	if err != nil {
		return bigint256.Int{}, err
	}

	// Caching is an optimization, not a correctness requirement: a
	// write failure (read-only cache dir, full disk) must not fail
	// generation.
	_ = schemacache.StoreEntry(cacheDir, key, schemacache.Entry{
		SchemaSource: schemaSource,
		WordListHash: wlHash,
		Cardinality:  cardinality.String(),
	})

	return cardinality, nil
}
