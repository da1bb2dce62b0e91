package router

import (
	"guestroom/config"
	"guestroom/internal/handlers/auditlog"
	"guestroom/internal/handlers/auth"
	"guestroom/internal/handlers/booking"
	"guestroom/internal/handlers/dashboard"
	"guestroom/internal/handlers/enquiry"
	"guestroom/internal/handlers/hostel"
	"guestroom/internal/handlers/user"
	"guestroom/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "guestroom/docs" // swagger spec
)

type DomainHandlers struct {
	Auth      auth.Handler
	User      user.Handler
	Hostel    hostel.Handler
	Booking   booking.Handler
	Enquiry   enquiry.Handler
	Dashboard dashboard.Handler
	Auditlog  auditlog.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	App            middleware.AppMiddleware
	AuthRole       middleware.AuthRole
	Config         *config.Config
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(r.App.Tracing)
	router.Use(r.App.RequestLogger)

	if cfg := r.Config.App.CORS; cfg.Enable {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   cfg.AllowedMethods,
			AllowedHeaders:   cfg.AllowedHeaders,
			AllowCredentials: cfg.AllowCredentials,
			MaxAge:           cfg.MaxAgeSeconds,
		}))
	}

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.App.RateLimit())
		routerGroup.Use(r.AuthRole.APIKey)
		routerGroup.Use(r.AuthRole.Auth)
		routerGroup.Use(r.AuthRole.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Hostel.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Enquiry.Router(routerGroup)
		r.DomainHandlers.Dashboard.Router(routerGroup)
		r.DomainHandlers.Auditlog.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, app middleware.AppMiddleware, authRole middleware.AuthRole, cfg *config.Config) Router {
	return Router{
		DomainHandlers: domainHandlers,
		App:            app,
		AuthRole:       authRole,
		Config:         cfg,
	}
}
