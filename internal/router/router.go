// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-reservation/internal/config"
	"github.com/iliyamo/movie-reservation/internal/handler"
	"github.com/iliyamo/movie-reservation/internal/middleware"
	"github.com/iliyamo/movie-reservation/internal/model"
)

// RegisterRoutes registers routes that need no authentication at all.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth mounts the session endpoints under /v1/auth.  Logout
// additionally accepts a bearer token so a client can revoke all its
// sessions, hence the extra JWT-wrapped route.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	e.POST("/v1/logout", a.Logout, middleware.JWTAuth(jwtSecret))
}

// RegisterPublic mounts the unauthenticated browse endpoints.  When a
// Redis client is available the responses are cached per route and
// query string.
func RegisterPublic(e *echo.Echo, cat *handler.CatalogHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	cache := middleware.NewRedisCache(cacheCfg, rdb)

	e.GET("/v1/movies", cat.ListMovies, cache)
	e.GET("/v1/showtimes", cat.ListShowtimes, cache)
	e.GET("/v1/movies/:movie_id/available-showtimes", cat.AvailableShowtimes, cache)
	// Seat availability changes with every booking, so it bypasses the cache.
	e.GET("/v1/movies/:movie_id/showtimes/:showtime_id/seats", cat.AvailableSeats)
}

// RegisterCustomer mounts the endpoints reachable with any valid
// session: booking, cancellation and the profile page.
func RegisterCustomer(e *echo.Echo, res *handler.ReservationHandler, prof *handler.ProfileHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer, model.RoleAdmin),
	)
	g.POST("/reservations", res.Create)
	g.DELETE("/reservations/:id", res.Cancel)
	g.GET("/my-reservations", res.ListMine)
	g.GET("/profile", prof.Get)
}

// RegisterAdmin mounts catalog management under /v1, restricted to the
// ADMIN role.
func RegisterAdmin(e *echo.Echo, adm *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.POST("/movies", adm.CreateMovie)
	g.POST("/screens", adm.CreateScreen)
	g.POST("/showtimes", adm.CreateShowtime)
}
