//go:build !unix

package secretbuf

// lockMemory is a no-op on platforms without mlock (e.g. Windows);
// wiping on release is still performed regardless.
func lockMemory(b []byte) {}

// unlockMemory is a no-op on platforms without mlock.
func unlockMemory(b []byte) {}
