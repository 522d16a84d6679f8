package accounts_test

import (
	"context"
	"database/sql"

	"github.com/goliatone/go-accounts"
	"github.com/uptrace/bun"
)

// mockUsers overrides only the directory methods a test needs; the embedded
// interface panics on anything unexpected.
type mockUsers struct {
	accounts.Users

	getByEmail   func(ctx context.Context, email string) (*accounts.User, error)
	getByID      func(ctx context.Context, id string) (*accounts.User, error)
	createTx     func(ctx context.Context, tx bun.IDB, user *accounts.User) (*accounts.User, error)
	updateRecord func(ctx context.Context, user *accounts.User) (*accounts.User, error)
	deleteByID   func(ctx context.Context, id string) error
	list         func(ctx context.Context, page, perPage int) (int, []*accounts.User, error)
}

func (m *mockUsers) GetByEmail(ctx context.Context, email string) (*accounts.User, error) {
	return m.getByEmail(ctx, email)
}

func (m *mockUsers) FindByID(ctx context.Context, id string) (*accounts.User, error) {
	return m.getByID(ctx, id)
}

func (m *mockUsers) CreateRecordTx(ctx context.Context, tx bun.IDB, user *accounts.User) (*accounts.User, error) {
	return m.createTx(ctx, tx, user)
}

func (m *mockUsers) UpdateRecord(ctx context.Context, user *accounts.User) (*accounts.User, error) {
	return m.updateRecord(ctx, user)
}

func (m *mockUsers) DeleteByID(ctx context.Context, id string) error {
	return m.deleteByID(ctx, id)
}

func (m *mockUsers) ListPage(ctx context.Context, page, perPage int) (int, []*accounts.User, error) {
	return m.list(ctx, page, perPage)
}

type mockRepoManager struct {
	users accounts.Users
}

func (m *mockRepoManager) Validate() error { return nil }
func (m *mockRepoManager) MustValidate()   {}

func (m *mockRepoManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

func (m *mockRepoManager) Users() accounts.Users { return m.users }
