// Package secretbuf implements the zeroizing buffers of spec.md §3/§5:
// secret-bearing byte buffers whose backing memory is overwritten by
// Wipe. Owners call Wipe via defer so it runs on every exit path
// (normal return or error); there is no finalizer, so a Buffer that is
// never wiped is not cleared when the GC collects it.
package secretbuf

import (
	"crypto/subtle"
	"fmt"
	"runtime"

	"github.com/aledsdavies/keyforge/internal/invariant"
)

// Buffer owns a secret byte slice (seed bytes, a derived key, a
// generated password) for the scope of one acquisition. Callers must call Wipe on
// every exit path; New attempts to mlock the backing pages so the
// secret is less likely to be swapped to disk while live.
type Buffer struct {
	data  []byte
	wiped bool
}

// New takes ownership of data — callers must not retain their own
// reference to it — and returns a Buffer wrapping it.
func New(data []byte) *Buffer {
	b := &Buffer{data: data}
	lockMemory(b.data)
	return b
}

// Bytes returns the live secret bytes. Panics if the buffer has already
// been wiped: reading after Wipe is a programming error, the same way
// use-after-free is.
func (b *Buffer) Bytes() []byte {
	invariant.Precondition(!b.wiped, "secretbuf: read after Wipe")
	return b.data
}

// Len returns the buffer's length, which remains readable after Wipe
// (the length itself is not secret; only the content is).
func (b *Buffer) Len() int { return len(b.data) }

// Wiped reports whether Wipe has already run.
func (b *Buffer) Wiped() bool { return b.wiped }

// Wipe overwrites the backing array with zero bytes and releases any
// memory lock. Safe to call more than once. The explicit loop plus
// runtime.KeepAlive (rather than a single slice-clear idiom) matches
// spec.md §5's requirement that "the compiler cannot elide the wipe":
// KeepAlive pins data past the loop so the write cannot be proven dead
// and removed.
func (b *Buffer) Wipe() {
	if b.wiped {
		return
	}
	for i := range b.data {
		b.data[i] = 0
	}
	runtime.KeepAlive(b.data)
	unlockMemory(b.data)
	b.wiped = true
}

// Equal performs a constant-time comparison of two live buffers.
func (b *Buffer) Equal(other *Buffer) bool {
	invariant.NotNil(other, "other")
	invariant.Precondition(!b.wiped && !other.wiped, "secretbuf: Equal on a wiped buffer")
	if len(b.data) != len(other.data) {
		return false
	}
	return subtle.ConstantTimeCompare(b.data, other.data) == 1
}

// String never returns the secret value, wiped or not — it exists only
// so accidentally passing a *Buffer to fmt/log functions fails safe
// instead of leaking.
func (b *Buffer) String() string { return "<secretbuf: redacted>" }

// Format implements fmt.Formatter so every verb (%v, %s, %#v, ...)
// renders the same redacted placeholder; there is no verb that bypasses
// it.
func (b *Buffer) Format(f fmt.State, verb rune) {
	_, _ = fmt.Fprint(f, b.String())
}
