package router

import (
	"prestige/internal/handlers/addon"
	"prestige/internal/handlers/auth"
	"prestige/internal/handlers/booking"
	"prestige/internal/handlers/review"
	"prestige/internal/handlers/user"
	"prestige/internal/handlers/vehicle"
	"prestige/internal/handlers/vehicleimage"
	"prestige/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Auth         auth.Handler
	User         user.Handler
	Vehicle      vehicle.Handler
	Addon        addon.Handler
	Booking      booking.Handler
	Review       review.Handler
	VehicleImage vehicleimage.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	App            middleware.AppMiddleware
	AuthRole       middleware.AuthRole
}

// SetupRoutes mounts the versioned API. Auth and RBAC run on every /v1 route
// and consult the permission table for public routes and allowed roles.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.App.Tracing)
		routerGroup.Use(r.App.RateLimit())
		routerGroup.Use(r.AuthRole.APIKey)
		routerGroup.Use(r.AuthRole.Auth)
		routerGroup.Use(r.AuthRole.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Addon.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Review.Router(routerGroup)
		r.DomainHandlers.VehicleImage.Router(routerGroup)

		routerGroup.Route("/vehicles", func(vehicles chi.Router) {
			r.DomainHandlers.Vehicle.Router(vehicles)

			vehicles.Route("/{id}/services", r.DomainHandlers.Addon.VehicleRouter)
			vehicles.Route("/{id}/images", r.DomainHandlers.VehicleImage.VehicleRouter)
		})
	})
}

func New(domainHandlers DomainHandlers, app middleware.AppMiddleware, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		App:            app,
		AuthRole:       authRole,
	}
}
