package accounts

import (
	"golang.org/x/crypto/bcrypt"
)

// maxPasswordLength is bcrypt's input ceiling; longer secrets are silently
// truncated by some implementations, so we reject them outright. Boundary
// validation caps passwords at 32 chars well below this.
const maxPasswordLength = 72

// PasswordHasher hashes and verifies passwords with bcrypt. The cost factor
// is fixed at construction; the zero value is not usable.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the given bcrypt cost. Costs
// outside bcrypt's supported range fall back to the package default.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = defaultHashCost()
	}
	return &PasswordHasher{cost: cost}
}

// Hash generates a salted password hash
func (h *PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	if len(password) > maxPasswordLength {
		return "", ErrPasswordTooLong
	}

	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	return string(out), err
}

// Verify validates the given cleartext password against the hashed password.
// Any failure, including a malformed stored hash, reports
// ErrMismatchedHashAndPassword so callers see one rejection.
func (h *PasswordHasher) Verify(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrMismatchedHashAndPassword
	}
	return nil
}

var _ PasswordAuthenticator = (*PasswordHasher)(nil)
