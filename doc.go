// Package accounts implements a small user-account service: registration,
// password login, and self-scoped record management guarded by signed
// session tokens.
//
// Core pieces:
//   - PasswordHasher wraps bcrypt for one-way credential storage. The cost
//     factor is injected at construction so deployments (and race-enabled
//     test runs) can tune CPU spend.
//   - TokenService signs and validates compact HS256 session tokens. Every
//     validation failure collapses into ErrTokenInvalid so callers cannot
//     tell a bad signature from an expired token.
//   - middleware/guard mounts the authorization check on protected routes
//     and yields a Principal for the request context.
//
// Persistence goes through Users, a Bun-backed repository, and the thin
// Service type orchestrates the use cases on top of it.
package accounts
