// Package state holds reducer driven state containers.
package state

import "sync"

type Action interface {
	Type() string
}

// Reducer must be pure: it returns a new state and never mutates the slices or
// maps reachable from the state it receives.
type Reducer[S any] func(state S, action Action) S

// Container owns the current state of one view. Dispatches are serialized and
// subscribers are notified in dispatch order. Subscribers must not dispatch
// synchronously from their callback.
type Container[S any] struct {
	dispatchMu  sync.Mutex
	mu          sync.Mutex
	state       S
	reducer     Reducer[S]
	subscribers map[int]func(S)
	nextID      int
	closed      bool
}

func New[S any](initial S, reducer Reducer[S]) *Container[S] {
	return &Container[S]{
		state:       initial,
		reducer:     reducer,
		subscribers: make(map[int]func(S)),
	}
}

func (c *Container[S]) State() S {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dispatch reduces action into the current state. It reports false when the
// container is closed and the action was dropped.
func (c *Container[S]) Dispatch(action Action) bool {
	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}

	c.state = c.reducer(c.state, action)
	next := c.state
	subscribers := make([]func(S), 0, len(c.subscribers))
	for id := 0; id < c.nextID; id++ {
		if fn, ok := c.subscribers[id]; ok {
			subscribers = append(subscribers, fn)
		}
	}
	c.mu.Unlock()

	for _, fn := range subscribers {
		fn(next)
	}
	return true
}

func (c *Container[S]) Subscribe(fn func(S)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.subscribers[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// Close detaches the container from its view. Responses that arrive later are
// dropped instead of being applied to a state nobody renders.
func (c *Container[S]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.subscribers = make(map[int]func(S))
}

func (c *Container[S]) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
