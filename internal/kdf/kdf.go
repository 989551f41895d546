// Package kdf implements spec.md §4.4's key derivation: Argon2id over
// (seed, salt) produces a 32-byte key that seeds a ChaCha20
// counter-mode stream, which §4.3's rejection sampler draws from to
// produce a uniform index in [0, N).
package kdf

import (
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20"

	"github.com/aledsdavies/keyforge/internal/bigint256"
	"github.com/aledsdavies/keyforge/internal/errkind"
	"github.com/aledsdavies/keyforge/internal/secretbuf"
)

// maxSampleAttempts bounds the rejection-sampling loop in SampleUniform.
// Each draw's rejection probability is (2**256 mod n)/2**256, which is
// below 1/2 for every n and vanishingly small for any n far below
// 2**255, so the expected number of draws is at most two (spec.md
// §4.3); this cap only guards against a CSPRNG that is somehow never
// producing an in-range draw.
const maxSampleAttempts = 1000

// Parameter set pinned for cryptosystem version v1 (internal/version).
// Changing any of these is a breaking change per spec.md §6.
const (
	ArgonTime    uint32 = 1
	ArgonMemory  uint32 = 64 * 1024 // KiB
	ArgonThreads uint8  = 4
	KeyLen       uint32 = 32
)

// DeriveKey computes Argon2id(seed, salt) -> 32-byte key. The caller
// owns the returned Buffer and must Wipe it once the CSPRNG has been
// seeded (spec.md §4.5 step 4).
func DeriveKey(seed *secretbuf.Buffer, salt []byte) *secretbuf.Buffer {
	key := argon2.IDKey(seed.Bytes(), salt, ArgonTime, ArgonMemory, ArgonThreads, KeyLen)
	return secretbuf.New(key)
}

// Stream is the ChaCha20 counter-mode keystream seeded by a derived
// key: zero nonce, zero counter (spec.md §4.4), producing consecutive
// non-overlapping 32-byte windows for the rejection sampler.
type Stream struct {
	cipher *chacha20.Cipher
}

// NewStream seeds a Stream from key. key must be exactly 32 bytes.
func NewStream(key *secretbuf.Buffer) (*Stream, error) {
	nonce := make([]byte, chacha20.NonceSize) // all-zero, per spec.md §4.4
	c, err := chacha20.NewUnauthenticatedCipher(key.Bytes(), nonce)
	if err != nil {
		return nil, errkind.Wrap(errkind.KdfFailure, "seeding ChaCha20 CSPRNG", err)
	}
	return &Stream{cipher: c}, nil
}

// Draw32 returns the next 32-byte window of the keystream.
//
// Known limitation (documented, not hidden): golang.org/x/crypto/chacha20
// does not expose the cipher's internal block-counter state for manual
// zeroization, so Wipe below can only drop the reference and let the GC
// reclaim it — it cannot overwrite the keystream's internal buffer the
// way secretbuf.Buffer.Wipe overwrites a plain byte slice.
func (s *Stream) Draw32() [32]byte {
	var zero, out [32]byte
	s.cipher.XORKeyStream(out[:], zero[:])
	return out
}

// Wipe drops the Stream's reference to its cipher state.
func (s *Stream) Wipe() { s.cipher = nil }

// SampleUniform draws a uniformly distributed index in [0, n) from
// stream via rejection sampling (spec.md §4.3): draws MUST read 32
// bytes from the CSPRNG in little-endian order. n must be non-zero.
func SampleUniform(stream *Stream, n bigint256.Int) (bigint256.Int, error) {
	if n.IsZero() {
		return bigint256.Int{}, errkind.New(errkind.SchemaEmpty, "cannot sample from a zero-cardinality schema")
	}

	// threshold = 2**256 - (2**256 mod n): draws at or above this are
	// rejected so that the accepted range divides evenly by n, keeping
	// every index in [0, n) equally likely.
	r := bigint256.Mod(bigint256.Max(), n)
	threshold, err := bigint256.Sub(bigint256.Max(), r)
	if err != nil {
		return bigint256.Int{}, errkind.Wrap(errkind.KdfFailure, "computing rejection-sampling threshold", err)
	}

	for attempt := 0; attempt < maxSampleAttempts; attempt++ {
		draw := stream.Draw32()
		x := bigint256.FromBytesLE(draw[:])
		if x.LessThan(threshold) {
			return bigint256.Mod(x, n), nil
		}
	}
	return bigint256.Int{}, errkind.New(errkind.KdfFailure, "rejection sampling did not converge")
}
