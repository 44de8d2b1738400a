package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Position routes
	api.HandleFunc("/positions", handler.ListPositions).Methods("GET")
	api.HandleFunc("/positions", handler.OpenPosition).Methods("POST")
	api.HandleFunc("/positions/{id}", handler.ReplacePosition).Methods("PUT")
	api.HandleFunc("/positions/{id}", handler.DeletePosition).Methods("DELETE")
	api.HandleFunc("/positions/{id}/status", handler.UpdateStatus).Methods("PATCH")

	// Quote routes
	api.HandleFunc("/quotes", handler.GetQuotes).Methods("GET")
	api.HandleFunc("/quotes/{symbol}", handler.GetQuote).Methods("GET")
	api.HandleFunc("/refresh", handler.Refresh).Methods("POST")

	// Analytics routes
	api.HandleFunc("/analytics/summary", handler.GetSummary).Methods("GET")
	api.HandleFunc("/analytics/sectors", handler.GetSectorAllocation).Methods("GET")
	api.HandleFunc("/analytics/tiers", handler.GetTierBreakdown).Methods("GET")
	api.HandleFunc("/analytics/tickers", handler.GetTickerPerformance).Methods("GET")
	api.HandleFunc("/valuations", handler.GetValuations).Methods("GET")

	return r
}
