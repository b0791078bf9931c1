// AngelaMos | 2026
// behaviors.go

package aspect

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/carterperez-dev/templates/user-backend/internal/authctx"
	"github.com/carterperez-dev/templates/user-backend/internal/core"
	"github.com/carterperez-dev/templates/user-backend/internal/logging"
)

// Validator runs a named rule set. *validation.Engine satisfies it.
type Validator interface {
	Validate(ruleSet string, instance any) ([]core.FieldError, error)
}

// Validation rejects the call with a *core.ValidationError before it
// proceeds when the input breaks ruleSet.
func Validation(v Validator, ruleSet string) Aspect {
	return New("validation:"+ruleSet, PriorityValidation, func(next Handler) Handler {
		return func(ctx context.Context, inv *Invocation) (any, error) {
			inv.Enter(StateValidating)

			fields, err := v.Validate(ruleSet, inv.Input)
			if err != nil {
				inv.Fail()
				return nil, fmt.Errorf("validate %s: %w", ruleSet, err)
			}
			if len(fields) > 0 {
				inv.Fail()
				return nil, core.NewValidationError(ruleSet, fields)
			}

			return next(ctx, inv)
		}
	})
}

// Secured requires the caller to hold at least one of roles.
func Secured(roles ...string) Aspect {
	name := "secured:" + strings.Join(roles, ",")

	return New(name, PrioritySecured, func(next Handler) Handler {
		return func(ctx context.Context, inv *Invocation) (any, error) {
			inv.Enter(StateAuthorizing)

			p, ok := authctx.From(ctx)
			if !ok || !p.HasAnyClaim(roles...) {
				inv.Fail()
				return nil, fmt.Errorf(
					"%s requires role %s: %w",
					inv.Operation,
					strings.Join(roles, " or "),
					core.ErrUnauthorized,
				)
			}

			return next(ctx, inv)
		}
	})
}

// ExceptionLog records any failure and hands back the same error.
func ExceptionLog(sink *logging.Sink) Aspect {
	return New("exception_log", PriorityExceptionLog, func(next Handler) Handler {
		return func(ctx context.Context, inv *Invocation) (any, error) {
			res, err := next(ctx, inv)
			if err != nil {
				sink.WriteError(ctx, err, "operation failed",
					"operation", inv.Operation,
					"user_id", authctx.UserID(ctx),
				)
			}
			return res, err
		}
	})
}

// Performance warns when a call runs longer than threshold, whether it
// succeeded or not.
func Performance(
	sink *logging.Sink,
	threshold time.Duration,
	now func() time.Time,
) Aspect {
	if now == nil {
		now = time.Now
	}

	return New("performance", PriorityPerformance, func(next Handler) Handler {
		return func(ctx context.Context, inv *Invocation) (any, error) {
			start := now()
			res, err := next(ctx, inv)
			elapsed := now().Sub(start)

			if elapsed > threshold {
				sink.WriteWarn(ctx, "operation exceeded performance threshold",
					"operation", inv.Operation,
					"elapsed", elapsed,
					"threshold", threshold,
					"failed", err != nil,
				)
			}
			return res, err
		}
	})
}

// Log records the operation and its input before the call and the result
// or failure after it. Inputs that implement slog.LogValuer log through it.
func Log(sink *logging.Sink) Aspect {
	return New("log", PriorityLog, func(next Handler) Handler {
		return func(ctx context.Context, inv *Invocation) (any, error) {
			sink.WriteInfo(ctx, "operation started",
				"operation", inv.Operation,
				"input", inv.Input,
			)

			res, err := next(ctx, inv)
			if err != nil {
				sink.WriteInfo(ctx, "operation finished",
					"operation", inv.Operation,
					"outcome", StateFailed.String(),
					"error", err,
				)
				return res, err
			}

			sink.WriteInfo(ctx, "operation finished",
				"operation", inv.Operation,
				"outcome", StateSucceeded.String(),
				"result", res,
			)
			return res, nil
		}
	})
}

// Tracing opens one span per call.
func Tracing(tracer trace.Tracer) Aspect {
	return New("tracing", PriorityTracing, func(next Handler) Handler {
		return func(ctx context.Context, inv *Invocation) (any, error) {
			ctx, span := tracer.Start(ctx, inv.Operation,
				trace.WithAttributes(attribute.String("operation", inv.Operation)),
			)
			defer span.End()

			res, err := next(ctx, inv)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			return res, err
		}
	})
}
