package accounts

import (
	"context"
	"errors"
	"net/http"

	"github.com/goliatone/go-accounts/middleware/guard"
	"github.com/goliatone/go-router"
)

// guardMissingPrincipal fires when a handler behind the guard finds no
// principal in its context, which means the route was mounted without the
// middleware.
var guardMissingPrincipal = errors.New("missing principal in request context")

// guardValidator adapts the accounts TokenValidator to the guard package's
// mirror interface.
type guardValidator struct {
	tokens TokenValidator
}

func (v guardValidator) Validate(tokenString string) (guard.AuthClaims, error) {
	claims, err := v.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ContextEnricherAdapter resolves a Principal from validated claims and
// stores it in the standard context for downstream use cases.
func ContextEnricherAdapter(c context.Context, claims guard.AuthClaims) context.Context {
	authClaims, ok := claims.(AuthClaims)
	if !ok {
		return c
	}

	if principal, ok := PrincipalFromClaims(authClaims); ok {
		return WithPrincipal(c, principal)
	}

	return c
}

// ProtectedRoute builds the middleware applied to every capability that
// needs an authenticated, USER-scoped identity.
func ProtectedRoute(cfg Config, tokens TokenValidator, errorHandler router.ErrorHandler) router.MiddlewareFunc {
	if errorHandler == nil {
		errorHandler = AuthErrorHandler
	}
	return guard.New(guard.Config{
		ErrorHandler:    errorHandler,
		TokenValidator:  guardValidator{tokens: tokens},
		RequiredRole:    RoleUser,
		ContextKey:      cfg.GetContextKey(),
		AuthScheme:      cfg.GetAuthScheme(),
		ContextEnricher: ContextEnricherAdapter,
	})
}

// AuthErrorHandler renders guard rejections. The body stays generic on
// purpose: clients learn whether they are unauthenticated or forbidden,
// never why.
func AuthErrorHandler(c router.Context, err error) error {
	if errors.Is(err, guard.ErrInsufficientRole) {
		return c.JSON(http.StatusForbidden, map[string]string{
			"error": "forbidden",
		})
	}

	return c.JSON(http.StatusUnauthorized, map[string]string{
		"error": "unauthenticated",
	})
}
