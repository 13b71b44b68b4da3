package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces identities for labels and tracks that arrive without one.
type Generator interface {
	NewID() string
}

// UUID generates random version 4 UUIDs. Safe for concurrent use.
type UUID struct{}

func (UUID) NewID() string {
	return uuid.NewString()
}

// Uint32 returns values 1,2,3... up to 2^32-1, then wraps around to 1.
// Zero is never generated.
type Uint32 struct {
	next atomic.Uint32
}

func (u *Uint32) Next() uint32 {
	n := u.next.Add(1)
	if n == 0 {
		n = u.next.Add(1)
	}
	return n
}

// Sequence generates Prefix+"1", Prefix+"2", ...
// Useful in tests, where identities must be predictable.
type Sequence struct {
	Prefix string
	n      Uint32
}

func NewSequence(prefix string) *Sequence {
	return &Sequence{Prefix: prefix}
}

func (s *Sequence) NewID() string {
	return s.Prefix + strconv.FormatUint(uint64(s.n.Next()), 10)
}
