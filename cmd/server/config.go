package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/goliatone/go-accounts"
)

// ServerConfig is loaded once at startup from the environment and treated
// as immutable afterwards.
type ServerConfig struct {
	DSN           string
	Addr          string
	SigningKey    string
	SigningMethod string
	ContextKey    string
	AuthScheme    string
	Issuer        string
	Audience      []string
	TokenTTL      time.Duration
	BcryptCost    int
	Debug         bool
}

var _ accounts.Config = (*ServerConfig)(nil)

// LoadConfig reads the server configuration from environment variables.
// ACCOUNTS_SIGNING_KEY is required; everything else has a default.
func LoadConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{
		DSN:           envOr("ACCOUNTS_DSN", "file:accounts.db?cache=shared"),
		Addr:          envOr("ACCOUNTS_ADDR", ":8572"),
		SigningKey:    os.Getenv("ACCOUNTS_SIGNING_KEY"),
		SigningMethod: envOr("ACCOUNTS_SIGNING_METHOD", "HS256"),
		ContextKey:    envOr("ACCOUNTS_CONTEXT_KEY", "user"),
		AuthScheme:    envOr("ACCOUNTS_AUTH_SCHEME", "Bearer"),
		Issuer:        envOr("ACCOUNTS_ISSUER", "go-accounts"),
		TokenTTL:      accounts.DefaultTokenTTL,
		BcryptCost:    14,
		Debug:         os.Getenv("ACCOUNTS_DEBUG") == "true",
	}

	if cfg.SigningKey == "" {
		return nil, fmt.Errorf("missing required environment variable ACCOUNTS_SIGNING_KEY")
	}

	if raw := os.Getenv("ACCOUNTS_TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid ACCOUNTS_TOKEN_TTL %q: %w", raw, err)
		}
		cfg.TokenTTL = ttl
	}

	if raw := os.Getenv("ACCOUNTS_BCRYPT_COST"); raw != "" {
		cost, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid ACCOUNTS_BCRYPT_COST %q: %w", raw, err)
		}
		cfg.BcryptCost = cost
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func (c *ServerConfig) GetSigningKey() string { return c.SigningKey }

func (c *ServerConfig) GetSigningMethod() string { return c.SigningMethod }

func (c *ServerConfig) GetContextKey() string { return c.ContextKey }

func (c *ServerConfig) GetTokenTTL() time.Duration { return c.TokenTTL }

func (c *ServerConfig) GetAuthScheme() string { return c.AuthScheme }

func (c *ServerConfig) GetIssuer() string { return c.Issuer }

func (c *ServerConfig) GetAudience() []string { return c.Audience }

func (c *ServerConfig) GetBcryptCost() int { return c.BcryptCost }
