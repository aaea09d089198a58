// Package server assembles the drift application: global middleware, the
// public auth routes and the guarded vault routes.
package server

import (
	"log/slog"
	"net/http"

	"github.com/dimitrije/securevault-api/internal/config"
	"github.com/dimitrije/securevault-api/internal/handlers"
	authmw "github.com/dimitrije/securevault-api/internal/middleware"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
)

type Deps struct {
	Config   *config.Config
	Logger   *slog.Logger
	Identity handlers.IdentityServiceInterface
	Vault    handlers.VaultServiceInterface
	Guard    authmw.Authenticator
	// Limiter guards /api/auth. Nil disables rate limiting.
	Limiter authmw.RateLimiter
}

func NewHandler(d Deps) http.Handler {
	app := drift.New()

	if d.Config.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(authmw.RequestLogger(d.Logger, d.Config.TrustedProxies))
	app.Use(middleware.SecureWithConfig(securityHeaders(d.Config.IsProduction())))
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: d.Config.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	authHandler := handlers.NewAuthHandler(d.Identity, d.Logger)
	vaultHandler := handlers.NewVaultHandler(d.Vault, d.Logger, d.Config.Vault.StrictDelete)

	app.Get("/", handlers.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	if d.Limiter != nil {
		auth.Use(authmw.RateLimit(d.Limiter, d.Config.TrustedProxies, d.Logger))
	}
	auth.Post("/register", authHandler.Register)
	auth.Post("/signup", authHandler.Register)
	auth.Post("/verify", authHandler.Verify)
	auth.Post("/resend", authHandler.Resend)
	auth.Post("/resend-otp", authHandler.Resend)
	auth.Post("/login", authHandler.Login)

	me := auth.Group("")
	me.Use(authmw.Auth(d.Guard, d.Logger))
	me.Get("/me", authHandler.Me)

	protected := api.Group("")
	protected.Use(authmw.Auth(d.Guard, d.Logger))
	protected.Get("/passwords", vaultHandler.List)
	protected.Post("/passwords", vaultHandler.Create)
	protected.Put("/passwords/:id", vaultHandler.Update)
	protected.Patch("/passwords/:id", vaultHandler.Update)
	protected.Delete("/passwords/:id", vaultHandler.Delete)

	return app
}

// securityHeaders mirrors helmet's defaults for a JSON API. HSTS is only
// sent in production, where the server sits behind TLS.
func securityHeaders(production bool) middleware.SecurityConfig {
	cfg := middleware.SecurityConfig{
		XSSProtection:         "0",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		ReferrerPolicy:        "no-referrer",
		HSTSMaxAge:            -1,
	}
	if production {
		cfg.HSTSMaxAge = 15552000
		cfg.HSTSIncludeSubdomains = true
	}
	return cfg
}
