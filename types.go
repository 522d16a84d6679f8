package accounts

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	ID() string
	Name() string
	Email() string
	Role() string
}

// Config holds service options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	GetTokenTTL() time.Duration
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
	GetBcryptCost() int
}

// TokenService issues and validates session tokens
type TokenService interface {
	Generate(identity Identity) (string, error)
	SignClaims(claims *JWTClaims) (string, error)
	Validate(tokenString string) (AuthClaims, error)
}

// TokenValidator validates tokens and extracts claims without tying callers
// to a specific signing implementation.
type TokenValidator interface {
	Validate(tokenString string) (AuthClaims, error)
}

// PasswordAuthenticator hashes and verifies passwords
type PasswordAuthenticator interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// Directory is the narrow persistence boundary the account service uses
type Directory interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	CreateRecord(ctx context.Context, user *User) (*User, error)
	UpdateRecord(ctx context.Context, user *User) (*User, error)
	DeleteByID(ctx context.Context, id string) error
	ListPage(ctx context.Context, page, perPage int) (int, []*User, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] ACCOUNTS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] ACCOUNTS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
