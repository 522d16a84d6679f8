package accounts

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Service orchestrates the account use cases: register, login, lookup,
// update, paginate, delete. It owns no state beyond its collaborators.
type Service struct {
	repo   RepositoryManager
	hasher PasswordAuthenticator
	tokens TokenService
	logger Logger
}

// NewService creates an account service
func NewService(repo RepositoryManager, hasher PasswordAuthenticator, tokens TokenService) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (s *Service) WithLogger(logger Logger) *Service {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Register creates a new account. A duplicate email is a validation error
// and leaves the existing record untouched.
func (s *Service) Register(ctx context.Context, name, email, password, memo string) (*User, error) {
	if _, err := s.repo.Users().GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.IsNotFound(err) {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to check for existing account")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		ID:           recordID(email),
		Name:         name,
		Email:        email,
		Role:         RoleUser,
		PasswordHash: hash,
		Memo:         memo,
	}
	touch(user)

	err = s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err = s.repo.Users().CreateRecordTx(ctx, tx, user)
		return err
	})

	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "user registration transaction failed")
	}

	return user, nil
}

// Login verifies the credentials and mints a session token. Unknown email
// and wrong password produce the same rejection.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", ErrInvalidCredentials
		}
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during login")
	}

	if err := s.hasher.Verify(password, user.PasswordHash); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(NewIdentityFromUser(user))
	if err != nil {
		s.logger.Error("Login failed to generate token", "error", err)
		return "", err
	}

	return token, nil
}

// Get looks up an account by email.
func (s *Service) Get(ctx context.Context, email string) (*User, error) {
	return s.repo.Users().GetByEmail(ctx, email)
}

// List returns one page of accounts plus the total count.
func (s *Service) List(ctx context.Context, page, perPage int) (int, []*User, error) {
	return s.repo.Users().ListPage(ctx, page, perPage)
}

// Update mutates the principal's own record. Empty name or password leave
// the current value in place.
func (s *Service) Update(ctx context.Context, principal Principal, name, password string) (*User, error) {
	user, err := s.repo.Users().FindByID(ctx, principal.SubjectID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}

	if password != "" {
		hash, err := s.hasher.Hash(password)
		if err != nil {
			var richErr *errors.Error
			if errors.As(err, &richErr) {
				return nil, richErr
			}
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
		}
		user.PasswordHash = hash
	}

	return s.repo.Users().UpdateRecord(ctx, user)
}

// Delete removes the principal's own record.
func (s *Service) Delete(ctx context.Context, principal Principal) error {
	return s.repo.Users().DeleteByID(ctx, principal.SubjectID)
}

// recordID derives a stable id from the email so re-registration of the
// same address after deletion maps to the same record identity.
func recordID(email string) uuid.UUID {
	if id, err := hashid.NewUUID(email); err == nil {
		return id
	}
	return uuid.New()
}

// touch is kept close to the model so tests can pin timestamp behavior.
func touch(user *User) {
	now := time.Now()
	if user.CreatedAt == nil {
		user.CreatedAt = &now
	}
	user.UpdatedAt = &now
}
