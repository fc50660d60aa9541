// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"hallbooking/internal/config"
	"hallbooking/internal/handler"
	"hallbooking/internal/middleware"
	"hallbooking/internal/model"
)

// Deps bundles everything the route table needs.
type Deps struct {
	Cfg      config.Config
	Redis    *redis.Client // nil disables rate limiting and caching
	Accounts middleware.AccountSource

	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Bookings *handler.BookingHandler
	Halls    *handler.HallHandler
	Shifts   *handler.ShiftHandler
	Services *handler.ServiceHandler
}

// Register wires the full route table. Reads on the catalog are public
// and cached; everything touching bookings or accounts sits behind the
// JWT middleware, with per-route role gates.
func Register(e *echo.Echo, d Deps) {
	rl := middleware.RateLimit(config.LoadRateLimitConfig(), d.Redis)
	cache := middleware.ResponseCache(config.LoadCacheConfig(), d.Redis)
	jwt := middleware.JWTAuth(d.Cfg.JWTSecret, d.Accounts)

	adminOnly := middleware.RequireRole(model.RoleAdmin)
	staffOrAdmin := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)
	customerOrAdmin := middleware.RequireRole(model.RoleCustomer, model.RoleAdmin)
	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleStaff, model.RoleCustomer)

	e.Use(rl)

	e.GET("/healthz", handler.Health)

	// Session endpoints. Logout authenticates inside the handler: a
	// refresh token in the body revokes just that token, a bearer
	// access token revokes the whole account's sessions.
	auth := e.Group("/v1/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)

	e.GET("/v1/me", d.Auth.Me, jwt, anyRole)

	// Account management.
	e.GET("/v1/users", d.Users.List, jwt, adminOnly)
	e.PUT("/v1/users/:id", d.Users.Update, jwt, anyRole)
	e.DELETE("/v1/users/:id", d.Users.Deactivate, jwt, adminOnly)

	// Catalog reads are public so guests can browse before registering.
	e.GET("/v1/halls", d.Halls.List, cache)
	e.GET("/v1/halls/:id", d.Halls.Get, cache)
	e.GET("/v1/shifts", d.Shifts.List, cache)
	e.GET("/v1/shifts/:id", d.Shifts.Get, cache)
	e.GET("/v1/services", d.Services.List, cache)
	e.GET("/v1/services/:id", d.Services.Get, cache)
	e.GET("/v1/availability", d.Bookings.Availability)

	// Catalog mutations.
	e.POST("/v1/halls", d.Halls.Create, jwt, staffOrAdmin)
	e.PUT("/v1/halls/:id", d.Halls.Update, jwt, staffOrAdmin)
	e.DELETE("/v1/halls/:id", d.Halls.Delete, jwt, staffOrAdmin)
	e.POST("/v1/shifts", d.Shifts.Create, jwt, staffOrAdmin)
	e.PUT("/v1/shifts/:id", d.Shifts.Update, jwt, staffOrAdmin)
	e.DELETE("/v1/shifts/:id", d.Shifts.Delete, jwt, staffOrAdmin)
	e.POST("/v1/services", d.Services.Create, jwt, staffOrAdmin)
	e.PUT("/v1/services/:id", d.Services.Update, jwt, staffOrAdmin)
	e.DELETE("/v1/services/:id", d.Services.Delete, jwt, staffOrAdmin)

	// Booking engine. Creation is open to customers (and admins acting
	// for them); modification and cancellation are admin operations.
	e.POST("/v1/bookings", d.Bookings.Create, jwt, customerOrAdmin)
	e.GET("/v1/bookings", d.Bookings.List, jwt, anyRole)
	e.GET("/v1/bookings/:id", d.Bookings.Get, jwt, anyRole)
	e.PATCH("/v1/bookings/:id", d.Bookings.Modify, jwt, adminOnly)
	e.DELETE("/v1/bookings/:id", d.Bookings.Cancel, jwt, adminOnly)

	// Service attachments.
	e.POST("/v1/bookings/:id/services", d.Bookings.AttachService, jwt, customerOrAdmin)
	e.GET("/v1/bookings/:id/services", d.Bookings.ListServices, jwt, anyRole)
	e.DELETE("/v1/booking-services/:id", d.Bookings.DetachService, jwt, adminOnly)
}
