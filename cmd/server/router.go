package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tasklist/internal/api"
	apiMiddleware "github.com/phrazzld/tasklist/internal/api/middleware"
)

// setupRouter creates the application router with middleware and all routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	api.RegisterRoutes(r, api.NewTaskHandler(app.controller, app.logger))

	return r
}
