package accounts

import (
	"context"
)

// Principal is the authenticated identity resolved for the current request.
// It is rebuilt from token claims on every request and never persisted.
type Principal struct {
	SubjectID string
	Role      Role
}

// PrincipalFromClaims maps validated claims into a Principal. It returns
// false when the identity claims are incomplete.
func PrincipalFromClaims(claims AuthClaims) (Principal, bool) {
	if claims == nil {
		return Principal{}, false
	}

	id := claims.UserID()
	role := claims.Role()
	if id == "" || role == "" {
		return Principal{}, false
	}

	return Principal{SubjectID: id, Role: role}, true
}

var principalCtxKey = &contextKey{"principal"}

type contextKey struct {
	name string
}

// WithPrincipal sets the Principal in the given context
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, p)
}

// PrincipalFromContext finds the Principal from the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalCtxKey).(Principal)
	return p, ok
}
