// AngelaMos | 2026
// invocation.go

package aspect

import (
	"slices"
	"sync"
	"time"
)

type State int

const (
	StatePending State = iota
	StateValidating
	StateAuthorizing
	StateExecuting
	StateSucceeded
	StateFailed
	StateLogged
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateValidating:
		return "validating"
	case StateAuthorizing:
		return "authorizing"
	case StateExecuting:
		return "executing"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateLogged:
		return "logged"
	default:
		return "unknown"
	}
}

func (s State) terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateLogged
}

// Invocation is the per-call record that travels through an operation chain.
type Invocation struct {
	Operation string
	Input     any
	StartedAt time.Time

	mu      sync.Mutex
	state   State
	history []State
}

func NewInvocation(operation string, input any) *Invocation {
	return &Invocation{
		Operation: operation,
		Input:     input,
		StartedAt: time.Now(),
		state:     StatePending,
		history:   []State{StatePending},
	}
}

func (i *Invocation) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

// History returns every state the invocation has passed through, in order.
func (i *Invocation) History() []State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return slices.Clone(i.history)
}

// Enter moves the invocation into an in-flight state. It is a no-op once
// the invocation has finished.
func (i *Invocation) Enter(s State) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state.terminal() {
		return
	}
	i.set(s)
}

// Fail marks the invocation failed. Later failures on the way out are
// ignored so the first one is kept.
func (i *Invocation) Fail() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state.terminal() {
		return
	}
	i.set(StateFailed)
}

func (i *Invocation) succeed() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state.terminal() {
		return
	}
	i.set(StateSucceeded)
}

func (i *Invocation) finish(err error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.state.terminal() {
		if err != nil {
			i.set(StateFailed)
		} else {
			i.set(StateSucceeded)
		}
	}
	i.set(StateLogged)
}

func (i *Invocation) set(s State) {
	i.state = s
	i.history = append(i.history, s)
}
