package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/shopping-list-api/internal/api"
	apiMiddleware "github.com/phrazzld/shopping-list-api/internal/api/middleware"
	"github.com/phrazzld/shopping-list-api/internal/pagination"
	"github.com/phrazzld/shopping-list-api/internal/redact"
)

// setupRouter creates the router with all middleware and routes.
func (app *application) setupRouter() (http.Handler, error) {
	authHandler := api.NewAuthHandler(app.userService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	listHandler, err := api.NewShoppingListHandler(
		app.shoppingListService,
		app.listQueries,
		pagination.New(app.config.Pagination.DefaultPageSize, app.config.Pagination.MaxPageSize),
		app.logger,
	)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(corsOptions(app.config.Server.CORSAllowedOrigins)))
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	// Every route is served with and without the trailing slash.
	route := func(r chi.Router, method, path string, h http.HandlerFunc) {
		r.Method(method, path, h)
		r.Method(method, path+"/", h)
	}

	route(r, http.MethodPost, "/create", authHandler.Register)
	route(r, http.MethodPost, "/login", authHandler.Login)
	route(r, http.MethodPost, "/token/refresh", authHandler.RefreshToken)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		route(r, http.MethodPost, "/shopping-list", listHandler.CreateItem)
		route(r, http.MethodGet, "/shopping-list", listHandler.ListItems)
		route(r, http.MethodPatch, "/shopping-list", listHandler.UpdateItem)
		route(r, http.MethodPut, "/shopping-list", listHandler.ReplaceItem)
		route(r, http.MethodDelete, "/shopping-list", listHandler.DeleteItem)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", redact.ErrorAttr(err))
		}
	})

	return r, nil
}

// corsOptions allows the configured origins. go-chi/cors treats an empty
// origin list as "*", so no origins means an explicit deny.
func corsOptions(origins []string) cors.Options {
	opts := cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", apiMiddleware.TraceHeader},
		ExposedHeaders:   []string{apiMiddleware.TraceHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}
	if len(origins) == 0 {
		opts.AllowOriginFunc = func(*http.Request, string) bool { return false }
	}
	return opts
}
