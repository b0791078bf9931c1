// AngelaMos | 2026
// engine.go

// Package validation runs named rule sets against operation inputs.
package validation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/user-backend/internal/core"
)

var (
	ErrUnknownRuleSet = errors.New("unknown rule set")
	ErrTypeMismatch   = errors.New("rule set does not accept input type")
)

// Check is an extra rule evaluated after struct tags pass.
type Check[T any] func(in T) []core.FieldError

type ruleFunc func(v *validator.Validate, instance any) ([]core.FieldError, error)

// Engine holds rule sets by id. Registration happens at startup; Validate
// is safe for concurrent use.
type Engine struct {
	validate *validator.Validate
	mu       sync.RWMutex
	rules    map[string]ruleFunc
}

func NewEngine() *Engine {
	return &Engine{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		rules:    make(map[string]ruleFunc),
	}
}

// Register binds id to the struct tags of T plus any extra checks. Inputs
// of type T or *T are accepted.
func Register[T any](e *Engine, id string, checks ...Check[T]) {
	fn := func(v *validator.Validate, instance any) ([]core.FieldError, error) {
		in, ok := asType[T](instance)
		if !ok {
			return nil, fmt.Errorf(
				"%s: %w: %T",
				id,
				ErrTypeMismatch,
				instance,
			)
		}

		if err := v.Struct(in); err != nil {
			var invalid *validator.InvalidValidationError
			if errors.As(err, &invalid) {
				return nil, fmt.Errorf("%s: %w", id, err)
			}
			return core.FieldErrors(err), nil
		}

		var fields []core.FieldError
		for _, check := range checks {
			fields = append(fields, check(in)...)
		}
		return fields, nil
	}

	e.mu.Lock()
	e.rules[id] = fn
	e.mu.Unlock()
}

// Validate runs rule set id against instance. A nil error with no field
// errors means the input is valid.
func (e *Engine) Validate(id string, instance any) ([]core.FieldError, error) {
	e.mu.RLock()
	fn, ok := e.rules[id]
	e.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRuleSet, id)
	}

	return fn(e.validate, instance)
}

func (e *Engine) Has(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.rules[id]
	return ok
}

func asType[T any](instance any) (T, bool) {
	if in, ok := instance.(T); ok {
		return in, true
	}
	if ptr, ok := instance.(*T); ok && ptr != nil {
		return *ptr, true
	}
	var zero T
	return zero, false
}
