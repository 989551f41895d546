// Package redact guards debug/verbose CLI output against accidentally
// printing secret material, in the style of a streaming redactor
// sitting between a log writer and its destination. keyforge's core
// never writes to stdout itself (spec.md §5: the driver returns a
// password string to its caller), but the CLI writes --verbose
// diagnostics and error messages to stderr, and a Scrubber sitting
// between that output and os.Stderr means a future line that
// stringifies a registered secret comes out redacted instead of leaked.
package redact

import (
	"bytes"
	"io"
	"sync"
)

const placeholder = "<redacted>"

// Scrubber wraps an io.Writer and redacts any registered secret pattern
// from bytes written through it.
type Scrubber struct {
	mu      sync.Mutex
	out     io.Writer
	secrets [][]byte
	maxLen  int
	carry   []byte
}

// New creates a Scrubber writing to w.
func New(w io.Writer) *Scrubber {
	return &Scrubber{out: w}
}

// RegisterSecret adds a byte pattern to redact from all future writes.
// Call this with the seed and the derived key as soon as they exist,
// before any debug logging that might reference them.
func (s *Scrubber) RegisterSecret(secret []byte) {
	if len(secret) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(secret))
	copy(cp, secret)
	s.secrets = append(s.secrets, cp)
	if len(cp) > s.maxLen {
		s.maxLen = len(cp)
	}
}

// Write scrubs p for registered secrets and forwards the result to the
// wrapped writer. A tail of up to maxLen-1 bytes is carried to the next
// call so a secret split across two writes is still caught.
func (s *Scrubber) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := append(s.carry, p...)
	s.carry = nil

	scrubbed := s.scrub(buf)

	// Hold back a tail that could be the prefix of a split secret.
	keep := s.maxLen - 1
	if keep > 0 && len(scrubbed) > keep {
		flush := scrubbed[:len(scrubbed)-keep]
		s.carry = append(s.carry, scrubbed[len(scrubbed)-keep:]...)
		if _, err := s.out.Write(flush); err != nil {
			return 0, err
		}
	} else if keep <= 0 {
		if _, err := s.out.Write(scrubbed); err != nil {
			return 0, err
		}
	} else {
		s.carry = append(s.carry, scrubbed...)
	}
	return len(p), nil
}

// Close flushes any held-back carry bytes (scrubbed) to the underlying
// writer. Callers must call Close when done logging to avoid losing
// the tail.
func (s *Scrubber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.carry) == 0 {
		return nil
	}
	_, err := s.out.Write(s.carry)
	s.carry = nil
	return err
}

func (s *Scrubber) scrub(buf []byte) []byte {
	for _, secret := range s.secrets {
		buf = bytes.ReplaceAll(buf, secret, []byte(placeholder))
	}
	return buf
}
