package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes registers all endpoints under the /api/v1 prefix.
func SetupRoutes(router *mux.Router, handlers *Handlers) {
	api := router.PathPrefix("/api/v1").Subrouter()

	refinements := api.PathPrefix("/refinements").Subrouter()
	refinements.HandleFunc("", handlers.SubmitRefinement).Methods("POST")
	refinements.HandleFunc("/{jobId}", handlers.GetJob).Methods("GET")
	refinements.HandleFunc("/{jobId}", handlers.CancelJob).Methods("DELETE")
	refinements.HandleFunc("/{jobId}/result", handlers.GetResult).Methods("GET")

	api.HandleFunc("/health", handlers.HealthCheck).Methods("GET")
}
