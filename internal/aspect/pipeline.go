// AngelaMos | 2026
// pipeline.go

package aspect

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/carterperez-dev/templates/user-backend/internal/logging"
)

const DefaultPerformanceThreshold = 5 * time.Second

// Pipeline resolves the behaviors around each registered operation. Every
// operation gets exception logging, timing and logging in addition to what
// it declares.
type Pipeline struct {
	sink      *logging.Sink
	threshold time.Duration
	now       func() time.Time
}

type Option func(*Pipeline)

func WithThreshold(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.threshold = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

func NewPipeline(sink *logging.Sink, opts ...Option) *Pipeline {
	if sink == nil {
		sink = logging.Discard()
	}

	p := &Pipeline{
		sink:      sink,
		threshold: DefaultPerformanceThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) Sink() *logging.Sink {
	return p.sink
}

// Select merges class-level and method-level aspects with the pipeline
// defaults and orders them by priority. Equal priorities keep declaration
// order.
func (p *Pipeline) Select(class, method []Aspect) []Aspect {
	all := make([]Aspect, 0, len(class)+len(method)+3)
	all = append(all, class...)
	all = append(all, method...)
	all = append(all,
		ExceptionLog(p.sink),
		Performance(p.sink, p.threshold, p.now),
		Log(p.sink),
	)

	slices.SortStableFunc(all, func(a, b Aspect) int {
		return cmp.Compare(a.Priority(), b.Priority())
	})
	return all
}

// Spec declares one operation: its owner, its name and the aspects it
// carries beyond the defaults.
type Spec struct {
	Type    string
	Method  string
	Class   []Aspect
	Aspects []Aspect
}

func (s Spec) Name() string {
	if s.Type == "" {
		return s.Method
	}
	return s.Type + "." + s.Method
}

// Operation is a service method bound to its resolved aspect chain.
type Operation[In, Out any] struct {
	name    string
	aspects []Aspect
	chain   Handler
}

// Register resolves the aspects for spec once and binds them around fn.
func Register[In, Out any](
	p *Pipeline,
	spec Spec,
	fn func(ctx context.Context, in In) (Out, error),
) *Operation[In, Out] {
	final := func(ctx context.Context, inv *Invocation) (any, error) {
		inv.Enter(StateExecuting)

		in, _ := inv.Input.(In)
		out, err := fn(ctx, in)
		if err != nil {
			inv.Fail()
			return out, err
		}

		inv.succeed()
		return out, nil
	}

	aspects := p.Select(spec.Class, spec.Aspects)

	return &Operation[In, Out]{
		name:    spec.Name(),
		aspects: aspects,
		chain:   Compose(aspects, final),
	}
}

func (o *Operation[In, Out]) Name() string {
	return o.name
}

// Aspects returns the resolved chain, outermost first.
func (o *Operation[In, Out]) Aspects() []Aspect {
	return slices.Clone(o.aspects)
}

func (o *Operation[In, Out]) Invoke(ctx context.Context, in In) (Out, error) {
	out, _, err := o.Trace(ctx, in)
	return out, err
}

// Trace runs the operation and also returns its Invocation record.
func (o *Operation[In, Out]) Trace(
	ctx context.Context,
	in In,
) (Out, *Invocation, error) {
	inv := NewInvocation(o.name, in)

	res, err := o.chain(ctx, inv)
	inv.finish(err)

	out, _ := res.(Out)
	return out, inv, err
}
