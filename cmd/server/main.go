package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-accounts"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type App struct {
	config *ServerConfig
	bunDB  *bun.DB
	repo   accounts.RepositoryManager
	svc    *accounts.Service
	tokens accounts.TokenService
	srv    router.Server[*fiber.App]
}

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	app := &App{config: cfg}

	ctx := context.Background()

	if err := WithPersistence(ctx, app); err != nil {
		log.Fatal(err)
	}

	WithAccountService(app)
	WithHTTPServer(app)

	if cfg.Debug {
		fmt.Println(print.MaybeHighlightJSON(map[string]any{
			"addr":   cfg.Addr,
			"issuer": cfg.Issuer,
			"ttl":    cfg.TokenTTL.String(),
		}))
	}

	app.srv.Serve(cfg.Addr)

	WaitExitSignal()
}

// WithPersistence opens the sqlite database and applies the embedded
// migrations in lexical order.
func WithPersistence(ctx context.Context, app *App) error {
	db, err := sql.Open(sqliteshim.ShimName, app.config.DSN)
	if err != nil {
		return err
	}

	bunDB := bun.NewDB(db, sqlitedialect.New())

	if err := runMigrations(ctx, bunDB); err != nil {
		return err
	}

	app.bunDB = bunDB
	app.repo = accounts.NewRepositoryManager(bunDB)
	app.repo.MustValidate()

	return nil
}

func runMigrations(ctx context.Context, db *bun.DB) error {
	migrations, err := fs.Sub(accounts.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return err
	}

	entries, err := fs.ReadDir(migrations, ".")
	if err != nil {
		return err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		stmt, err := fs.ReadFile(migrations, name)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, string(stmt)); err != nil {
			return fmt.Errorf("migration %s failed: %w", name, err)
		}
	}

	return nil
}

func WithAccountService(app *App) {
	cfg := app.config

	hasher := accounts.NewPasswordHasher(cfg.GetBcryptCost())

	app.tokens = accounts.NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenTTL(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		nil,
	)

	app.svc = accounts.NewService(app.repo, hasher, app.tokens)
}

func WithHTTPServer(app *App) {
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:  true,
			StrictRouting: false,
		}))
	})

	protected := accounts.ProtectedRoute(app.config, app.tokens, nil)

	controller := accounts.NewAccountController(app.svc, func(c *accounts.AccountController) *accounts.AccountController {
		c.Debug = app.config.Debug
		return c
	})

	accounts.RegisterAccountRoutes(srv.Router(), controller, protected)

	app.srv = srv
}

func WaitExitSignal() os.Signal {
	ch := make(chan os.Signal, 3)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	return <-ch
}
