// Package reconcile provides a two-slot value for state that is mutated
// optimistically on the client and periodically overwritten by an
// authoritative server snapshot. The pattern recurs for the score and
// the game meta, so it lives here once.
package reconcile

// Optimistic holds a local (optimistic) and an authoritative
// (server-confirmed) copy of a value. The merge rule is fixed: the
// authoritative side wins on divergence.
type Optimistic[T comparable] struct {
	local         T
	authoritative T
}

// New seeds both slots with the same initial value.
func New[T comparable](initial T) *Optimistic[T] {
	return &Optimistic[T]{local: initial, authoritative: initial}
}

// Local returns the optimistic value shown to the user.
func (o *Optimistic[T]) Local() T { return o.local }

// Authoritative returns the last server-confirmed value.
func (o *Optimistic[T]) Authoritative() T { return o.authoritative }

// Mutate applies an optimistic local edit.
func (o *Optimistic[T]) Mutate(fn func(T) T) {
	o.local = fn(o.local)
}

// Confirm records an authoritative value and overwrites the local copy
// when the two diverge. Returns true when the local copy changed.
func (o *Optimistic[T]) Confirm(v T) bool {
	o.authoritative = v
	if o.local != v {
		o.local = v
		return true
	}
	return false
}

// Diverged reports whether the local copy is ahead of (or away from)
// the last confirmed value.
func (o *Optimistic[T]) Diverged() bool {
	return o.local != o.authoritative
}
