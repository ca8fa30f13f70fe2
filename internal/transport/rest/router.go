package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/employee-records/internal/employee"
	"github.com/frahmantamala/employee-records/internal/transport/middleware"
	"github.com/frahmantamala/employee-records/internal/transport/swagger"
	"github.com/go-chi/chi"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, employeeHandler *employee.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if employeeHandler != nil {
			r.Route("/employees", func(er chi.Router) {
				er.Post("/", employeeHandler.CreateEmployee)
				er.Get("/", employeeHandler.SearchEmployees)
				er.Post("/delete", employeeHandler.DeleteEmployees)
				er.Get("/{id}", employeeHandler.GetEmployee)
				er.Patch("/{id}/id-proof", employeeHandler.UpdateIDProof)
				er.Get("/{id}/id-proof", employeeHandler.DownloadIDProof)
			})
		}
	})
}
