package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires the public read side, the auth endpoints and the
// admin-gated write surface.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/projects", handlers.projectHandler.getAllProjects())
		r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
		r.Get("/activities", handlers.activityHandler.getAllActivities())

		r.Post("/auth/login", handlers.authHandler.login())
		r.Post("/auth/access-code", handlers.authHandler.accessCode())
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.requireAuth)

		r.Get("/auth/me", handlers.authHandler.me())
		r.Post("/manage/roles", handlers.roleHandler.manageRoles())
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.requireAuth)
		r.Use(authMiddleware.requireAdmin)

		r.Post("/manage/projects", handlers.projectHandler.manageProjects())
		r.Post("/manage/activities", handlers.activityHandler.manageActivities())

		r.Post("/process-content", handlers.contentHandler.processContent())
		r.Post("/uploads", handlers.uploadHandler.uploadImages())

		// Import wizard sessions
		r.Post("/import/sessions", handlers.importHandler.createSession())
		r.Get("/import/sessions/{sessionID}", handlers.importHandler.getSession())
		r.Delete("/import/sessions/{sessionID}", handlers.importHandler.deleteSession())
		r.Delete("/import/sessions/{sessionID}/entries/{entryID}", handlers.importHandler.removeEntry())
		r.Patch("/import/sessions/{sessionID}/entries/{entryID}", handlers.importHandler.updateEntry())
		r.Post("/import/sessions/{sessionID}/entries/{entryID}/files", handlers.importHandler.attachFiles())
		r.Delete("/import/sessions/{sessionID}/entries/{entryID}/files/{fileIndex}", handlers.importHandler.removeFile())
		r.Post("/import/sessions/{sessionID}/details", handlers.importHandler.beginDetails())
		r.Post("/import/sessions/{sessionID}/next", handlers.importHandler.next())
		r.Post("/import/sessions/{sessionID}/skip", handlers.importHandler.skip())
		r.Post("/import/sessions/{sessionID}/back", handlers.importHandler.back())
		r.Post("/import/sessions/{sessionID}/save", handlers.importHandler.save())
	})
}
