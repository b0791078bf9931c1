// AngelaMos | 2026
// behaviors_test.go

package aspect

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	otelcodes "go.opentelemetry.io/otel/codes"

	"github.com/carterperez-dev/templates/user-backend/internal/authctx"
	"github.com/carterperez-dev/templates/user-backend/internal/core"
	"github.com/carterperez-dev/templates/user-backend/internal/logging"
	"github.com/carterperez-dev/templates/user-backend/internal/validation"
)

type registerInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func newValidatedOp(t *testing.T, called *bool) *Operation[registerInput, string] {
	t.Helper()

	engine := validation.NewEngine()
	validation.Register[registerInput](engine, "register")

	p := NewPipeline(logging.Discard())
	return Register(p, Spec{
		Type:    "Auth",
		Method:  "Register",
		Aspects: []Aspect{Validation(engine, "register")},
	}, func(_ context.Context, in registerInput) (string, error) {
		*called = true
		return in.Email, nil
	})
}

func TestValidation_ShortCircuits(t *testing.T) {
	var called bool
	op := newValidatedOp(t, &called)

	_, inv, err := op.Trace(context.Background(), registerInput{Email: "bad", Password: "x"})
	require.Error(t, err)
	assert.False(t, called)
	assert.ErrorIs(t, err, core.ErrValidationFailed)

	var verr *core.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "register", verr.RuleSet)
	assert.Len(t, verr.Fields, 2)

	assert.Equal(t, []State{
		StatePending,
		StateValidating,
		StateFailed,
		StateLogged,
	}, inv.History())
}

func TestValidation_Passes(t *testing.T) {
	var called bool
	op := newValidatedOp(t, &called)

	out, err := op.Invoke(context.Background(), registerInput{Email: "a@example.com", Password: "longpassword"})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "a@example.com", out)
}

func TestValidation_EngineError(t *testing.T) {
	engine := validation.NewEngine()
	h := Validation(engine, "missing").Intercept(func(context.Context, *Invocation) (any, error) {
		t.Fatal("next must not run")
		return nil, nil
	})

	_, err := h(context.Background(), NewInvocation("op", registerInput{}))
	assert.ErrorIs(t, err, validation.ErrUnknownRuleSet)
}

func securedOp(called *bool) *Operation[string, string] {
	p := NewPipeline(logging.Discard())
	return Register(p, Spec{
		Type:    "User",
		Method:  "DeleteByID",
		Aspects: []Aspect{Secured("admin")},
	}, func(_ context.Context, id string) (string, error) {
		*called = true
		return id, nil
	})
}

func TestSecured(t *testing.T) {
	tests := []struct {
		name      string
		principal *authctx.Principal
		wantErr   bool
	}{
		{"anonymous", nil, true},
		{"no admin claim", &authctx.Principal{UserID: "u", Claims: []string{"user"}}, true},
		{"admin", &authctx.Principal{UserID: "u", Claims: []string{"user", "admin"}}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var called bool
			op := securedOp(&called)

			ctx := context.Background()
			if tc.principal != nil {
				ctx = authctx.With(ctx, tc.principal)
			}

			_, inv, err := op.Trace(ctx, "id-1")
			if tc.wantErr {
				assert.ErrorIs(t, err, core.ErrUnauthorized)
				assert.False(t, called)
				assert.Contains(t, inv.History(), StateAuthorizing)
				assert.NotContains(t, inv.History(), StateExecuting)
				return
			}
			require.NoError(t, err)
			assert.True(t, called)
		})
	}
}

func TestValidationRunsBeforeSecured(t *testing.T) {
	engine := validation.NewEngine()
	validation.Register[registerInput](engine, "register")

	p := NewPipeline(logging.Discard())
	op := Register(p, Spec{
		Method:  "Both",
		Aspects: []Aspect{Secured("admin"), Validation(engine, "register")},
	}, func(context.Context, registerInput) (int, error) { return 1, nil })

	_, err := op.Invoke(context.Background(), registerInput{})
	assert.ErrorIs(t, err, core.ErrValidationFailed)
}

func TestTracing_RecordsSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	p := NewPipeline(logging.Discard())
	op := Register(p, Spec{
		Type:   "User",
		Method: "GetByID",
		Class:  []Aspect{Tracing(tp.Tracer("test"))},
	}, func(context.Context, string) (int, error) {
		return 0, errors.New("lookup failed")
	})

	_, err := op.Invoke(context.Background(), "x")
	require.Error(t, err)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "User.GetByID", spans[0].Name())
	assert.Equal(t, otelcodes.Error, spans[0].Status().Code)
	assert.Equal(t, PriorityTracing, op.Aspects()[0].Priority())
}
