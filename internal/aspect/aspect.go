// AngelaMos | 2026
// aspect.go

// Package aspect wraps service operations in ordered, strictly nested
// behaviors: validation, authorization, exception logging, timing, logging
// and tracing.
package aspect

import (
	"context"
)

// Handler is one link of an operation chain.
type Handler func(ctx context.Context, inv *Invocation) (any, error)

// Aspect wraps a Handler. Aspects with a lower priority run further out.
type Aspect interface {
	Name() string
	Priority() int
	Intercept(next Handler) Handler
}

const (
	PriorityTracing      = 0
	PriorityExceptionLog = 10
	PriorityLog          = 20
	PriorityValidation   = 30
	PrioritySecured      = 40
	PriorityPerformance  = 50
)

type prioritized struct {
	Aspect
	priority int
}

func (p prioritized) Priority() int {
	return p.priority
}

// WithPriority returns a copy of a that sorts at priority.
func WithPriority(a Aspect, priority int) Aspect {
	if inner, ok := a.(prioritized); ok {
		a = inner.Aspect
	}
	return prioritized{Aspect: a, priority: priority}
}

// Compose nests aspects around final. aspects[0] is the outermost wrapper.
func Compose(aspects []Aspect, final Handler) Handler {
	h := final
	for i := len(aspects) - 1; i >= 0; i-- {
		h = aspects[i].Intercept(h)
	}
	return h
}

type funcAspect struct {
	name      string
	priority  int
	intercept func(next Handler) Handler
}

func (f funcAspect) Name() string                   { return f.name }
func (f funcAspect) Priority() int                  { return f.priority }
func (f funcAspect) Intercept(next Handler) Handler { return f.intercept(next) }

// New builds an Aspect from a function.
func New(name string, priority int, intercept func(next Handler) Handler) Aspect {
	return funcAspect{name: name, priority: priority, intercept: intercept}
}
