package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/rbenavente/cargas-api/internal/auth"
	"github.com/rbenavente/cargas-api/internal/batch"
	"github.com/rbenavente/cargas-api/internal/employee"
	"github.com/rbenavente/cargas-api/internal/notification"
	"github.com/rbenavente/cargas-api/internal/registration"
	"github.com/rbenavente/cargas-api/internal/transport/middleware"
	"github.com/rbenavente/cargas-api/internal/transport/swagger"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth         *auth.Handler
	Employee     *employee.Handler
	Registration *registration.Handler
	Notification *notification.Handler
	Batch        *batch.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logging(logger))

	// OpenAPI spec and Swagger UI live outside the API prefix
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Post("/auth/login", h.Auth.Login)

		// worker-facing self-service routes
		r.Post("/workers/validate", h.Employee.ValidateWorker)
		r.Get("/workers/{rut}/registration", h.Registration.GetWorkerRegistration)
		r.Post("/registrations", h.Registration.CreateRegistration)
		r.Post("/registrations/{id}/dependents", h.Registration.AddDependent)
		r.Post("/registrations/{id}/deactivate", h.Registration.DeactivateRegistration)
		r.Delete("/dependents/{id}", h.Registration.RemoveDependent)

		// backoffice routes behind the admin session
		r.Route("/admin", func(ar chi.Router) {
			ar.Use(h.Auth.RequireAdmin)

			ar.Get("/registrations", h.Registration.ListRegistrations)
			ar.Get("/registrations/{id}", h.Registration.GetRegistration)
			ar.Get("/stats", h.Registration.GetStatistics)

			ar.Get("/employees", h.Employee.ListEmployees)
			ar.Post("/employees", h.Employee.CreateEmployee)
			ar.Get("/employees/{rut}", h.Employee.GetEmployee)
			ar.Post("/employees/import", h.Employee.ImportEmployees)

			ar.Get("/notifications", h.Notification.ListNotifications)
			ar.Post("/notifications/{id}/read", h.Notification.MarkRead)
			ar.Post("/notifications/read-all", h.Notification.MarkAllRead)

			ar.Get("/export", h.Batch.ExportAll)
			ar.Get("/batch/pending", h.Batch.ListPending)
			ar.Post("/batch/send", h.Batch.SendBatch)
			ar.Post("/batch/reset", h.Batch.ResetSubmission)
		})
	})
}
