package expr

import "sync/atomic"

// Lease guards views of a buffer the garbage collector does not own, such as a
// memory-mapped snapshot. Every View accessor checks its lease and panics with
// a *LifetimeError once the lease was released. Heap buffers need no lease.
//
// Release must happen after all readers are done; the check turns sequential
// use-after-release into a deterministic panic instead of a fault.
type Lease struct {
	owner    string
	released atomic.Bool
}

// NewLease returns a live lease. owner names the resource in panic messages.
func NewLease(owner string) *Lease {
	return &Lease{owner: owner}
}

// Release marks the lease dead. It is idempotent.
func (l *Lease) Release() {
	l.released.Store(true)
}

// Released reports whether Release was called.
func (l *Lease) Released() bool {
	return l.released.Load()
}

func (l *Lease) check() {
	if l != nil && l.released.Load() {
		panic(&LifetimeError{Owner: l.owner})
	}
}
