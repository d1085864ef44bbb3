package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sfinpay/backoffice/internal/api/http/handlers"
	"github.com/sfinpay/backoffice/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Contact        *handlers.ContactHandler
	AdminAuth      *handlers.AdminAuthHandler
	AdminInquiries *handlers.AdminInquiriesHandler
	Slack          *handlers.SlackHandler
	Pages          *handlers.PagesHandler
	Guard          *auth.AccessGuard
	AuthMiddleware *auth.AuthMiddleware
	Metrics        fiber.Handler
}

// RegisterRoutes wires HTTP routes. The access guard runs ahead of every route.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Guard.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics)
	}

	api := app.Group("/api")
	api.Post("/contact", cfg.Contact.Create)
	api.Get("/contact/list", cfg.Contact.List)

	api.Post("/slack/actions", cfg.Slack.Actions)
	api.Post("/slack", cfg.Slack.Actions)

	admin := api.Group("/admin")
	admin.Post("/login", cfg.AdminAuth.Login)
	admin.Post("/verify-otp", cfg.AdminAuth.VerifyOTP)
	admin.Post("/logout", cfg.AdminAuth.Logout)

	session := cfg.AuthMiddleware.Handle
	admin.Get("/inquiries", session, cfg.AdminInquiries.List)
	admin.Get("/inquiries/export", session, cfg.AdminInquiries.Export)
	admin.Post("/update-status", session, cfg.AdminInquiries.UpdateStatus)

	if cfg.Pages != nil {
		app.Get(auth.LoginPath, cfg.Pages.Login)
		app.Get(auth.VerifyOTPPath, cfg.Pages.VerifyOTP)
		app.Get(auth.DashboardPath, cfg.Pages.Inquiries)
	}
}
