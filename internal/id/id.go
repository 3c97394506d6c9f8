// Package id generates session and message identifiers.
package id

import (
	"crypto/rand"
	"encoding/hex"
)

// Session returns a random 6-character hex ID naming a chat session.
func Session() string {
	b := make([]byte, 3)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Sequence hands out increasing message IDs.
type Sequence struct {
	last int64
}

// NewSequence returns a sequence whose first ID is after+1.
func NewSequence(after int64) *Sequence {
	return &Sequence{last: after}
}

// Next returns the next ID.
func (s *Sequence) Next() int64 {
	s.last++
	return s.last
}

// Observe advances the sequence past an ID allocated elsewhere.
func (s *Sequence) Observe(v int64) {
	if v > s.last {
		s.last = v
	}
}
