// Package entitystore holds the per-entity client state: the last fetched
// list, the entity being viewed or edited, and the lifecycle phase of the
// requests that produced them. State only changes through events.
package entitystore

import (
	"maps"
	"slices"
)

// Phase is the lifecycle stage of a container.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseUpdating
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseUpdating:
		return "updating"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// State is an immutable snapshot. The zero value is the initial state.
type State[T any] struct {
	entities      []T
	entity        T
	phase         Phase
	err           error
	updateSuccess bool

	// pending maps the sequence number of every in-flight request to its op.
	pending map[uint64]Op
	// last applied settlement per field; older settlements are dropped
	listSeq   uint64
	entitySeq uint64
}

// Entities returns a copy of the last applied list, in server order.
func (s State[T]) Entities() []T { return slices.Clone(s.entities) }

// Entity returns the current entity, or the zero T when none is loaded.
func (s State[T]) Entity() T { return s.entity }

func (s State[T]) Phase() Phase { return s.phase }

// Loading reports a read in flight with no write in flight.
func (s State[T]) Loading() bool { return s.phase == PhaseLoading }

// Updating reports a write in flight.
func (s State[T]) Updating() bool { return s.phase == PhaseUpdating }

// Err is the failure of the last settled request, if it failed.
func (s State[T]) Err() error { return s.err }

// ErrorMessage is Err as text; empty when absent.
func (s State[T]) ErrorMessage() string {
	if s.err == nil {
		return ""
	}
	return s.err.Error()
}

// UpdateSuccess reports that the last write succeeded.
func (s State[T]) UpdateSuccess() bool { return s.updateSuccess }

// InFlight is the number of requests started but not yet settled.
func (s State[T]) InFlight() int { return len(s.pending) }

// Apply returns the state that results from e. s is left unchanged.
func (s State[T]) Apply(e Event[T]) State[T] {
	switch e.Kind {
	case EventReset:
		return State[T]{listSeq: s.listSeq, entitySeq: s.entitySeq}
	case EventStart:
		return s.start(e)
	case EventSuccess, EventFailure:
		if _, ok := s.pending[e.Seq]; !ok {
			// unknown, already settled, or issued before a reset
			return s
		}
		return s.settle(e)
	}
	return s
}

func (s State[T]) start(e Event[T]) State[T] {
	next := s
	next.pending = maps.Clone(s.pending)
	if next.pending == nil {
		next.pending = make(map[uint64]Op)
	}
	next.pending[e.Seq] = e.Op
	next.err = nil
	if e.Op.IsWrite() || !e.AfterWrite {
		next.updateSuccess = false
	}
	next.phase = next.derivePhase()
	return next
}

func (s State[T]) settle(e Event[T]) State[T] {
	next := s
	next.pending = maps.Clone(s.pending)
	delete(next.pending, e.Seq)

	stale := false
	if e.Op == OpList {
		stale = e.Seq < s.listSeq
		if !stale {
			next.listSeq = e.Seq
		}
	} else {
		stale = e.Seq < s.entitySeq
		if !stale {
			next.entitySeq = e.Seq
		}
	}

	switch {
	case e.Kind == EventFailure:
		// a failed write is always reported, even behind a newer read
		if !stale || e.Op.IsWrite() {
			next.err = e.Err
			next.updateSuccess = false
		}
	case e.Op == OpList:
		if !stale {
			next.entities = slices.Clone(e.Entities)
		}
	case e.Op == OpDelete:
		if !stale {
			var zero T
			next.entity = zero
		}
		next.updateSuccess = true
	default:
		if !stale {
			next.entity = e.Entity
		}
		if e.Op.IsWrite() {
			next.updateSuccess = true
		}
	}
	next.phase = next.derivePhase()
	return next
}

func (s State[T]) derivePhase() Phase {
	reading := false
	for _, op := range s.pending {
		if op.IsWrite() {
			return PhaseUpdating
		}
		reading = true
	}
	switch {
	case reading:
		return PhaseLoading
	case s.err != nil:
		return PhaseFailed
	}
	return PhaseLoaded
}
