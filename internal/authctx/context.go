// AngelaMos | 2026
// context.go

// Package authctx carries the authenticated principal through a request
// context. Transport middleware stores it; aspects and handlers read it.
package authctx

import (
	"context"
	"errors"
	"slices"
)

type contextKey struct{}

var principalKey = contextKey{}

var ErrNoPrincipal = errors.New("authctx: no principal in context")

// Principal is the caller identity recovered from a verified access token.
type Principal struct {
	UserID string
	Email  string
	Claims []string
}

func (p *Principal) HasClaim(name string) bool {
	return p != nil && slices.Contains(p.Claims, name)
}

// HasAnyClaim reports whether the principal holds at least one of names.
// An empty names list is satisfied by any principal.
func (p *Principal) HasAnyClaim(names ...string) bool {
	if p == nil {
		return false
	}
	if len(names) == 0 {
		return true
	}
	for _, n := range names {
		if slices.Contains(p.Claims, n) {
			return true
		}
	}
	return false
}

func With(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

func From(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	if !ok || p == nil {
		return nil, false
	}
	return p, true
}

func FromOrError(ctx context.Context) (*Principal, error) {
	p, ok := From(ctx)
	if !ok {
		return nil, ErrNoPrincipal
	}
	return p, nil
}

func UserID(ctx context.Context) string {
	if p, ok := From(ctx); ok {
		return p.UserID
	}
	return ""
}
