package accounts

import (
	"net/http"

	"github.com/goliatone/go-errors"
)

// Text codes surfaced in error payloads so clients can branch without
// string-matching messages.
const (
	TextCodeInvalidCreds    = "INVALID_CREDENTIALS"
	TextCodeTokenInvalid    = "TOKEN_INVALID"
	TextCodeForbidden       = "INSUFFICIENT_ROLE"
	TextCodeDuplicateEmail  = "DUPLICATE_EMAIL"
	TextCodeAccountNotFound = "ACCOUNT_NOT_FOUND"
	TextCodeEmptyPassword   = "EMPTY_PASSWORD"
	TextCodePasswordTooLong = "PASSWORD_TOO_LONG"
)

// ErrMismatchedHashAndPassword is returned when a password does not verify
// against the stored hash. Malformed stored hashes map here too so the
// failure mode is uniform.
var ErrMismatchedHashAndPassword = errors.New("invalid credentials", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCreds)

// ErrInvalidCredentials is the single login rejection. Unknown email and
// wrong password both resolve here to prevent account enumeration.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeInvalidCreds)

// ErrTokenInvalid is the uniform token rejection: malformed, bad signature,
// wrong algorithm, and expired all collapse into this value.
var ErrTokenInvalid = errors.New("invalid or expired token", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode(TextCodeTokenInvalid)

// ErrInsufficientRole is returned when a valid token carries the wrong role
// or is missing identity claims. Distinct from ErrTokenInvalid: the caller
// authenticated but is not allowed.
var ErrInsufficientRole = errors.New("insufficient role", errors.CategoryAuthz).
	WithCode(errors.CodeForbidden).
	WithTextCode(TextCodeForbidden)

// ErrDuplicateEmail rejects registration against an existing email.
var ErrDuplicateEmail = errors.New("email already registered", errors.CategoryConflict).
	WithCode(errors.CodeConflict).
	WithTextCode(TextCodeDuplicateEmail)

// ErrAccountNotFound is the lookup miss for directory reads.
var ErrAccountNotFound = errors.New("account not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode(TextCodeAccountNotFound)

// ErrNoEmptyString rejects empty passwords before bcrypt runs.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodeEmptyPassword)

// ErrPasswordTooLong rejects secrets beyond bcrypt's 72 byte ceiling.
var ErrPasswordTooLong = errors.New("password exceeds maximum length", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest).
	WithTextCode(TextCodePasswordTooLong)

// HTTPStatus maps an error to a response status using its category. Unknown
// errors are treated as internal.
func HTTPStatus(err error) int {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return http.StatusInternalServerError
	}

	switch richErr.Category {
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryAuthz:
		return http.StatusForbidden
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusBadRequest
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
