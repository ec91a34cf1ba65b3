/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for kiosk and admin frontends

ROUTE GROUPS:
  /api/checkins/*       Check-in ingest and audit
  /api/employees/*      Employee records, day views, reports
  /api/issues/*         Absence issues
  /api/schedules/*      Product-line schedules
  /api/holidays/*       Holiday calendar
  /api/policies/*       Policy documents
  /api/notifications/*  In-app inbox
  /api/admin/*          Manual sweep trigger

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.
  Deploy behind the gateway that owns identity.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Check-in routes
		r.Route("/checkins", func(r chi.Router) {
			r.Post("/", h.SubmitCheckIn)
			r.Post("/{id}/comment", h.AddComment)
			r.Get("/{id}/actions", h.ListCheckInActions)
		})

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Get("/{id}", h.GetEmployee)
			r.Put("/{id}", h.PutEmployee)
			r.Get("/{id}/checkins", h.ListDayCheckIns)
			r.Get("/{id}/report", h.GetAttendanceReport)
		})

		// Issue routes
		r.Route("/issues", func(r chi.Router) {
			r.Get("/", h.ListIssues)
			r.Post("/{id}/resolve", h.ResolveIssue)
		})

		// Schedule routes
		r.Route("/schedules", func(r chi.Router) {
			r.Get("/{line}", h.GetSchedule)
			r.Put("/{line}", h.PutSchedule)
		})

		// Holiday routes
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
			r.Delete("/{id}", h.DeleteHoliday)
		})

		// Policy routes
		r.Route("/policies", func(r chi.Router) {
			r.Get("/{scope}", h.GetPolicyDoc)
			r.Put("/{scope}", h.PutPolicyDoc)
			r.Get("/{scope}/effective", h.GetEffectivePolicy)
		})

		// Notification routes. Both params share a name; chi keys its trie
		// on the segment position.
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/{id}", h.ListNotifications)
			r.Post("/{id}/read", h.MarkNotificationRead)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/sweep", h.TriggerSweep)
		})
	})

	return r
}
