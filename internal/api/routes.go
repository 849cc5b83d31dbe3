package api

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes and wraps the whole router in mw, so
// unmatched paths and methods pass through the middleware too. The first
// middleware listed runs outermost, inside panic recovery and request IDs.
func SetupRoutes(handler *Handler, mw ...func(http.Handler) http.Handler) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// Position routes
	api.HandleFunc("/positions", handler.ListPositions).Methods("GET")
	api.HandleFunc("/positions", handler.CreatePosition).Methods("POST")
	api.HandleFunc("/positions", handler.UpdatePosition).Methods("PUT")
	api.HandleFunc("/positions", handler.PatchPositions).Methods("PATCH")
	api.HandleFunc("/positions/patch-multiple", handler.PatchMultiple).Methods("PATCH")
	api.HandleFunc("/positions/delete-multiple", handler.DeleteMultiple).Methods("POST")
	api.HandleFunc("/positions/{id}", handler.GetPosition).Methods("GET")
	api.HandleFunc("/positions/{id}", handler.DeletePosition).Methods("DELETE")
	api.HandleFunc("/positions/{id}/duplicate", handler.DuplicatePosition).Methods("POST")
	api.HandleFunc("/positions/{id}/scenarios", handler.GetScenarios).Methods("GET")

	// Preview rendering of unsaved inputs
	api.HandleFunc("/render", handler.RenderPreview).Methods("POST")

	// Editor reference data
	api.HandleFunc("/tax-rates", handler.TaxRates).Methods("GET")

	chain := append([]func(http.Handler) http.Handler{
		middleware.Recoverer, middleware.RequestID, middleware.RealIP,
	}, mw...)
	var h http.Handler = r
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	return h
}

// WithCORS wraps the router so preflight requests are answered before route
// matching
func WithCORS(next http.Handler, origins []string) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	})(next)
}
