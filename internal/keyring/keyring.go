// Package keyring defines the seam spec.md §6 draws around platform
// secret storage: the driver needs a master seed from somewhere, but
// how that seed is stored (OS keychain, biometric vault, a password
// manager) is explicitly out of scope for this module. Keyring is the
// boundary a real integration would implement against.
package keyring

import (
	"sync"

	"github.com/aledsdavies/keyforge/internal/errkind"
)

// Keyring retrieves and stores the master seed used to derive
// passwords. Real implementations (OS keychain, hardware token) live
// outside this module; only the interface and an in-memory stub live
// here.
type Keyring interface {
	// Get returns the seed stored under (service, account), or
	// (nil, false) if none is stored.
	Get(service, account string) ([]byte, bool)

	// Set stores seed under (service, account), overwriting any
	// previous value.
	Set(service, account string, seed []byte) error
}

// Memory is an in-process Keyring backed by a map, used by tests and by
// cmd/keyforge's -k flag. It provides no persistence and no OS-level
// protection: a value stored in one process is gone in the next. It
// exists to let the rest of the pipeline be exercised without a real
// keychain integration.
type Memory struct {
	mu    sync.Mutex
	store map[string][]byte
}

// NewMemory returns an empty in-memory Keyring.
func NewMemory() *Memory {
	return &Memory{store: make(map[string][]byte)}
}

func key(service, account string) string { return service + "\x00" + account }

// Get implements Keyring.
func (m *Memory) Get(service, account string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.store[key(service, account)]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true
}

// Set implements Keyring.
func (m *Memory) Set(service, account string, seed []byte) error {
	if len(seed) == 0 {
		return errkind.New(errkind.SeedUnavailable, "refusing to store an empty seed")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(seed))
	copy(cp, seed)
	m.store[key(service, account)] = cp
	return nil
}
