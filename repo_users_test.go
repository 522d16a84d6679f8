package accounts_test

import (
	"context"
	"database/sql"
	"io/fs"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupUsersRepo(t *testing.T) (accounts.Users, *bun.DB) {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())

	migrations := accounts.GetMigrationsFS()
	var files []string
	err = fs.WalkDir(migrations, "data/sql/migrations", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(files)

	for _, file := range files {
		content, err := fs.ReadFile(migrations, file)
		require.NoError(t, err)
		_, err = bunDB.Exec(string(content))
		require.NoError(t, err)
	}

	t.Cleanup(func() {
		_ = bunDB.Close()
		_ = sqldb.Close()
	})

	return accounts.NewUsersRepository(bunDB), bunDB
}

func seedUser(t *testing.T, repo accounts.Users, email, name string, createdAt time.Time) *accounts.User {
	t.Helper()

	user := &accounts.User{
		ID:           accountID(t, email),
		Name:         name,
		Email:        email,
		Role:         accounts.RoleUser,
		PasswordHash: "hash-" + email,
		CreatedAt:    &createdAt,
		UpdatedAt:    &createdAt,
	}

	created, err := repo.CreateRecord(context.Background(), user)
	require.NoError(t, err)
	return created
}

func TestUsersRepositoryCreateAndGet(t *testing.T) {
	repo, _ := setupUsersRepo(t)
	ctx := context.Background()

	created := seedUser(t, repo, "Mixed.Case@Example.com", "Mixed Case", time.Now())

	// Stored email is normalized on write.
	assert.Equal(t, "mixed.case@example.com", created.Email)

	t.Run("By email, any casing", func(t *testing.T) {
		found, err := repo.GetByEmail(ctx, "  MIXED.CASE@EXAMPLE.COM  ")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "Mixed Case", found.Name)
	})

	t.Run("By id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, created.ID.String())
		require.NoError(t, err)
		assert.Equal(t, created.Email, found.Email)
	})

	// The embedded repository surface stays reachable next to the
	// directory additions.
	t.Run("Promoted identifier lookup", func(t *testing.T) {
		found, err := repo.GetByIdentifier(ctx, "mixed.case@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)

		byID, err := repo.GetByIdentifier(ctx, created.ID.String())
		require.NoError(t, err)
		assert.Equal(t, created.Email, byID.Email)
	})

	t.Run("Unknown email", func(t *testing.T) {
		_, err := repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, accounts.ErrAccountNotFound)
	})

	t.Run("Malformed id", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, accounts.ErrAccountNotFound)
	})
}

func TestUsersRepositoryDuplicateEmail(t *testing.T) {
	repo, _ := setupUsersRepo(t)
	ctx := context.Background()

	seedUser(t, repo, "dupe@example.com", "First", time.Now())

	_, err := repo.CreateRecord(ctx, &accounts.User{
		ID:           accountID(t, "other-id@example.com"),
		Name:         "Second",
		Email:        "dupe@example.com",
		Role:         accounts.RoleUser,
		PasswordHash: "hash",
	})

	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, accounts.HTTPStatus(err))
}

func TestUsersRepositoryUpdate(t *testing.T) {
	repo, _ := setupUsersRepo(t)
	ctx := context.Background()

	created := seedUser(t, repo, "update@example.com", "Before", time.Now())

	created.Name = "After"
	created.PasswordHash = "new-hash"

	updated, err := repo.UpdateRecord(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Name)

	found, err := repo.GetByEmail(ctx, "update@example.com")
	require.NoError(t, err)
	assert.Equal(t, "After", found.Name)
	assert.Equal(t, "new-hash", found.PasswordHash)

	t.Run("Missing record", func(t *testing.T) {
		ghost := &accounts.User{
			ID:           accountID(t, "ghost@example.com"),
			Name:         "Ghost",
			PasswordHash: "hash",
		}
		_, err := repo.UpdateRecord(ctx, ghost)
		assert.ErrorIs(t, err, accounts.ErrAccountNotFound)
	})
}

func TestUsersRepositoryDelete(t *testing.T) {
	repo, _ := setupUsersRepo(t)
	ctx := context.Background()

	created := seedUser(t, repo, "delete@example.com", "Doomed", time.Now())

	require.NoError(t, repo.DeleteByID(ctx, created.ID.String()))

	_, err := repo.GetByEmail(ctx, "delete@example.com")
	assert.ErrorIs(t, err, accounts.ErrAccountNotFound)

	// The row is gone for real: the same address can register again even
	// though its derived id is identical.
	again := seedUser(t, repo, "delete@example.com", "Back", time.Now())
	assert.Equal(t, created.ID, again.ID)
}

func TestUsersRepositoryList(t *testing.T) {
	repo, _ := setupUsersRepo(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	emails := []string{
		"a@example.com",
		"b@example.com",
		"c@example.com",
		"d@example.com",
		"e@example.com",
	}
	for i, email := range emails {
		seedUser(t, repo, email, email, base.Add(time.Duration(i)*time.Minute))
	}

	t.Run("First page", func(t *testing.T) {
		total, records, err := repo.ListPage(ctx, 1, 2)
		require.NoError(t, err)

		assert.Equal(t, 5, total)
		require.Len(t, records, 2)
		assert.Equal(t, "a@example.com", records[0].Email)
		assert.Equal(t, "b@example.com", records[1].Email)
	})

	t.Run("Last partial page", func(t *testing.T) {
		total, records, err := repo.ListPage(ctx, 3, 2)
		require.NoError(t, err)

		assert.Equal(t, 5, total)
		require.Len(t, records, 1)
		assert.Equal(t, "e@example.com", records[0].Email)
	})

	t.Run("Past the end", func(t *testing.T) {
		total, records, err := repo.ListPage(ctx, 9, 2)
		require.NoError(t, err)

		assert.Equal(t, 5, total)
		assert.Empty(t, records)
	})

	t.Run("Clamped arguments", func(t *testing.T) {
		total, records, err := repo.ListPage(ctx, 0, 0)
		require.NoError(t, err)

		assert.Equal(t, 5, total)
		assert.Len(t, records, 5)
	})
}
