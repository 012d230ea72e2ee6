package entitystore

import (
	"fmt"
	"sort"
	"sync"
)

// Container owns the State of one entity type. Dispatch is the only way
// to change it.
type Container[T any] struct {
	mu        sync.Mutex
	state     State[T]
	seq       uint64
	listeners map[int]func(State[T])
	nextID    int
}

func NewContainer[T any]() *Container[T] {
	return &Container[T]{listeners: make(map[int]func(State[T]))}
}

// Begin allocates a sequence number and applies the start event for it.
func (c *Container[T]) Begin(op Op, afterWrite bool) uint64 {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state = c.state.Apply(Started[T](op, seq, afterWrite))
	state, listeners := c.state, c.snapshotListeners()
	c.mu.Unlock()

	notify(listeners, state)
	return seq
}

// Dispatch applies e and notifies subscribers with the resulting state.
func (c *Container[T]) Dispatch(e Event[T]) State[T] {
	c.mu.Lock()
	c.state = c.state.Apply(e)
	state, listeners := c.state, c.snapshotListeners()
	c.mu.Unlock()

	notify(listeners, state)
	return state
}

func (c *Container[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers fn to run after every change. The returned func
// removes it.
func (c *Container[T]) Subscribe(fn func(State[T])) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// caller holds the lock
func (c *Container[T]) snapshotListeners() []func(State[T]) {
	if len(c.listeners) == 0 {
		return nil
	}
	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(State[T]), 0, len(ids))
	for _, id := range ids {
		out = append(out, c.listeners[id])
	}
	return out
}

func notify[T any](listeners []func(State[T]), state State[T]) {
	for _, fn := range listeners {
		fn(state)
	}
}

// Store is the application-wide registry of containers keyed by entity
// name, e.g. "vaccine".
type Store struct {
	mu         sync.RWMutex
	containers map[string]any
}

func NewStore() *Store {
	return &Store{containers: make(map[string]any)}
}

// Register returns the container for name, creating it on first use. It
// fails when name is already bound to a different type.
func Register[T any](s *Store, name string) (*Container[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.containers[name]; ok {
		c, ok := existing.(*Container[T])
		if !ok {
			return nil, fmt.Errorf("entitystore: %q is registered with type %T", name, existing)
		}
		return c, nil
	}
	c := NewContainer[T]()
	s.containers[name] = c
	return c, nil
}

// Lookup returns the container registered under name with type T.
func Lookup[T any](s *Store, name string) (*Container[T], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.containers[name].(*Container[T])
	return c, ok
}

// Snapshot reads the current state of name without holding on to the
// container.
func Snapshot[T any](s *Store, name string) (State[T], bool) {
	c, ok := Lookup[T](s, name)
	if !ok {
		return State[T]{}, false
	}
	return c.Snapshot(), true
}

// Names lists the registered entity names in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.containers))
	for name := range s.containers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
