package accounts

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the account directory backed by Bun
type Users interface {
	repository.Repository[*User]

	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByIDTx(ctx context.Context, tx bun.IDB, id string) (*User, error)
	CreateRecord(ctx context.Context, user *User) (*User, error)
	CreateRecordTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	UpdateRecord(ctx context.Context, user *User) (*User, error)
	UpdateRecordTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByIDTx(ctx context.Context, tx bun.IDB, id string) error
	ListPage(ctx context.Context, page, perPage int) (int, []*User, error)
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
	_ Directory                    = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	record := &User{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", normalizeEmail(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to query user by email")
	}

	return record, nil
}

func (a *users) FindByID(ctx context.Context, id string) (*User, error) {
	return a.FindByIDTx(ctx, a.db, id)
}

func (a *users) FindByIDTx(ctx context.Context, tx bun.IDB, id string) (*User, error) {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrAccountNotFound
	}

	record := &User{}

	err = tx.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", uid).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, ErrAccountNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to query user by id")
	}

	return record, nil
}

func (a *users) CreateRecord(ctx context.Context, user *User) (*User, error) {
	return a.CreateRecordTx(ctx, a.db, user)
}

func (a *users) CreateRecordTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	user.Email = normalizeEmail(user.Email)

	record, err := a.CreateTx(ctx, tx, user)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryConflict, "could not create user")
	}

	return record, nil
}

func (a *users) UpdateRecord(ctx context.Context, user *User) (*User, error) {
	return a.UpdateRecordTx(ctx, a.db, user)
}

func (a *users) UpdateRecordTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	now := time.Now()
	user.UpdatedAt = &now

	res, err := tx.NewUpdate().
		Model(user).
		Column("name", "password_hash", "updated_at").
		WherePK().
		Exec(ctx)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update user")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, ErrAccountNotFound
	}

	return user, nil
}

func (a *users) DeleteByID(ctx context.Context, id string) error {
	return a.DeleteByIDTx(ctx, a.db, id)
}

func (a *users) DeleteByIDTx(ctx context.Context, tx bun.IDB, id string) error {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return ErrAccountNotFound
	}

	// Hard delete so the unique email (and the derived record id) can be
	// registered again.
	_, err = tx.NewDelete().
		Model((*User)(nil)).
		Where("?TableAlias.id = ?", uid).
		ForceDelete().
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete user")
	}

	return nil
}

// ListPage returns one page of users plus the total count across all pages.
// Pages are 1-indexed; out of range values are clamped. Named apart from the
// embedded repository List, which pages by criteria.
func (a *users) ListPage(ctx context.Context, page, perPage int) (int, []*User, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	var records []*User

	total, err := a.db.NewSelect().
		Model(&records).
		Order("created_at ASC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		ScanAndCount(ctx)

	if err != nil {
		return 0, nil, errors.Wrap(err, errors.CategoryInternal, "failed to list users")
	}

	return total, records, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
