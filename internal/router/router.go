package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/mihirt/rollcall/internal/handler"    // import the handlers that implement the endpoints
	"github.com/mihirt/rollcall/internal/middleware" // import middleware for JWT authentication
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the operator auth endpoints.  Unauthenticated
// operations live under /v1/auth; the protected /v1/me endpoint applies
// the JWT middleware.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterCheckIn registers the event, roster and check-in endpoints.
// All of them require a valid access token: the service assumes a
// single authenticated operator session.
func RegisterCheckIn(e *echo.Echo, ev *handler.EventHandler, at *handler.AttendeeHandler, ro *handler.RosterHandler, ci *handler.CheckInHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))

	// Event management and the active-event selection.
	g.POST("/events", ev.CreateEvent)
	g.GET("/events", ev.ListEvents)
	g.GET("/events/active", ev.ActiveEvent)
	g.DELETE("/events/:id", ev.DeleteEvent)
	g.POST("/events/:id/select", ev.SelectEvent)
	g.GET("/events/:id/stats", ev.EventStats)

	// Roster import and attendee views.
	g.POST("/events/:id/roster", ro.ImportRoster)
	g.GET("/events/:id/attendees", at.ListAttendees)
	g.GET("/attendees/:id/qr.png", at.AttendeeQR)

	// Code resolution against the active event.
	g.POST("/checkin", ci.CheckIn)
}
