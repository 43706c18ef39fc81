// Package app contains the application setup for the POS front end.
package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ndavydov/gopos/internal/billing"
	"github.com/ndavydov/gopos/internal/config"
	"github.com/ndavydov/gopos/internal/pos"
	"github.com/ndavydov/gopos/internal/transport/rest"
	"github.com/ndavydov/gopos/pkg/server"
)

type Dependencies struct {
	POSService *pos.Service
	Billing    *billing.Client
	Sessions   *pos.Manager
	Logger     *slog.Logger
}

func SetupDependencies(billingClient *billing.Client, logger *slog.Logger) *Dependencies {
	return &Dependencies{
		POSService: pos.NewService(billingClient, logger),
		Billing:    billingClient,
		Sessions:   pos.NewManager(),
		Logger:     logger,
	}
}

// SetupHttpHandler initializes the router and routes for the POS front end.
// Also used by handler-level tests to assemble the full middleware chain.
func SetupHttpHandler(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps, cfg)
	return mux
}

// wireRoutes sets up the HTTP routes for the POS front end.
func wireRoutes(mux *chi.Mux, deps *Dependencies, cfg *config.Config) {
	handler := rest.NewHandler(deps.POSService, deps.Billing, deps.Sessions,
		cfg.Session.CookieName, cfg.Session.LoginURL, deps.Logger)
	handler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures the HTTP server for the POS front end.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps, cfg)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}
