//go:build unix

package secretbuf

import "golang.org/x/sys/unix"

// lockMemory best-effort mlocks the secret's backing pages so they are
// less likely to be written to swap while live. Failure is ignored:
// mlock commonly fails under an unprivileged RLIMIT_MEMLOCK, and a
// missing lock is strictly less bad than refusing to generate a
// password because the host's ulimits are tight.
func lockMemory(b []byte) {
	if len(b) == 0 {
		return
	}
	_ = unix.Mlock(b)
}

// unlockMemory releases a lock acquired by lockMemory, if any.
func unlockMemory(b []byte) {
	if len(b) == 0 {
		return
	}
	_ = unix.Munlock(b)
}
