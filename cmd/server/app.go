package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/shopping-list-api/internal/config"
	"github.com/phrazzld/shopping-list-api/internal/listquery"
	"github.com/phrazzld/shopping-list-api/internal/platform/memory"
	"github.com/phrazzld/shopping-list-api/internal/platform/postgres"
	"github.com/phrazzld/shopping-list-api/internal/redact"
	"github.com/phrazzld/shopping-list-api/internal/service"
	"github.com/phrazzld/shopping-list-api/internal/service/auth"
	"github.com/phrazzld/shopping-list-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil when running on the memory driver.
	db *sql.DB

	userStore store.UserStore
	itemStore store.ShoppingItemStore
	tx        store.Transactor

	jwtService          auth.JWTService
	passwordVerifier    auth.PasswordVerifier
	userService         service.UserService
	shoppingListService service.ShoppingListService
	listQueries         *listquery.Service
}

// newApplicationFromConfig opens the storage selected by cfg.Database.Driver
// and builds the application on top of it.
func newApplicationFromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	if cfg.Database.Driver == "memory" {
		logger.Warn("using in-memory storage; data is lost on shutdown")
		return newApplication(cfg, logger, nil)
	}

	db, err := setupAppDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	app, err := newApplication(cfg, logger, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

// newApplication wires stores, services and auth. A nil db selects the
// in-memory stores.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes),
		slog.Int("refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes))

	app.passwordVerifier = auth.NewBcryptVerifier()

	if db != nil {
		app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost)
		app.itemStore = postgres.NewPostgresShoppingItemStore(db, logger)
		app.tx = store.NewSQLTransactor(db)
	} else {
		app.userStore = memory.NewUserStore(cfg.Auth.BCryptCost)
		app.itemStore = memory.NewShoppingItemStore()
		app.tx = memory.NewTransactor()
	}

	app.userService, err = service.NewUserService(
		app.userStore,
		app.tx,
		app.jwtService,
		app.passwordVerifier,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.shoppingListService, err = service.NewShoppingListService(app.itemStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create shopping list service: %w", err)
	}

	app.listQueries, err = listquery.NewService(app.itemStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create list query service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *application) Run(ctx context.Context) error {
	router, err := app.setupRouter()
	if err != nil {
		return fmt.Errorf("failed to set up router: %w", err)
	}

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", redact.ErrorAttr(err))
		}
	}
	app.logger.Info("application shutdown completed")
}
