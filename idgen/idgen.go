// Package idgen issues surrogate identifiers for users, books and user-book bindings.
//
// The in-process allocator keeps one counter per space and restarts from the
// configured start value on every process start, so identifiers are unique only
// for the lifetime of the process. Use the Redis allocator when identifiers must
// survive restarts.
package idgen

import (
	"context"
	"fmt"
	"sync/atomic"
)

// DefaultStart is the first identifier of every space.
const DefaultStart int64 = 100_000

type Space int

const (
	SpaceUser Space = iota
	SpaceBook
	SpaceBinding
	spaceCount
)

func (s Space) String() string {
	switch s {
	case SpaceUser:
		return "user"
	case SpaceBook:
		return "book"
	case SpaceBinding:
		return "user_book"
	default:
		return fmt.Sprintf("space(%d)", int(s))
	}
}

type Allocator interface {
	// Next returns the current value of space and advances it by one.
	Next(ctx context.Context, space Space) (int64, error)
}

type atomicAllocator struct {
	counters [spaceCount]atomic.Int64
}

// NewAtomic returns a process-local allocator whose three spaces all start at start.
func NewAtomic(start int64) Allocator {
	a := &atomicAllocator{}
	for i := range a.counters {
		a.counters[i].Store(start)
	}
	return a
}

func (a *atomicAllocator) Next(_ context.Context, space Space) (int64, error) {
	if space < 0 || space >= spaceCount {
		return 0, fmt.Errorf("idgen: unknown space %d", int(space))
	}
	return a.counters[space].Add(1) - 1, nil
}
