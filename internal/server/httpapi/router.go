// Package httpapi assembles the server's HTTP surface: account routes,
// authenticated record routes and the health probe the client connectivity
// monitor polls.
package httpapi

import (
	"net/http"

	"github.com/dkraev/mycolog/internal/logging"
	"github.com/dkraev/mycolog/internal/server/services"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(users *services.UserService, records *services.RecordService, logger logging.Logger) http.Handler {
	usersHandler := NewUsersHandler(users, logger)
	recordsHandler := NewRecordsHandler(records, logger)

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Post("/auth/register", usersHandler.Register)
		r.Post("/auth/login", usersHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(users))
			r.Get("/records", recordsHandler.List)
			r.Get("/records/lookup", recordsHandler.Lookup)
			r.Post("/records", recordsHandler.Create)
			r.Put("/records/{id}", recordsHandler.Update)
		})
	})

	return r
}
