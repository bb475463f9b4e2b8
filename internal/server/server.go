// Package server exposes the bill and payment services over JSON HTTP.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mmynk/billminder/internal/auth"
	"github.com/mmynk/billminder/internal/metrics"
	"github.com/mmynk/billminder/internal/middleware"
	"github.com/mmynk/billminder/internal/service"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Bills    *service.BillService
	Payments *service.PaymentService
	Resolver auth.OwnerResolver

	// Metrics may be nil, in which case /metrics is not served.
	Metrics *metrics.Collector

	// PrincipalHeader is allowed through CORS preflight.
	PrincipalHeader string
}

// Server routes HTTP requests to the services.
type Server struct {
	deps Deps
}

// New creates a Server.
func New(deps Deps) *Server {
	if deps.PrincipalHeader == "" {
		deps.PrincipalHeader = auth.DefaultPrincipalHeader
	}
	return &Server{deps: deps}
}

// Handler builds the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Logging(s.deps.Metrics))
	r.Use(middleware.Recover)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	if s.deps.Metrics != nil {
		r.Handle("/metrics", s.deps.Metrics.Handler()).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.RequireOwner(s.deps.Resolver, s.deps.Metrics))
	api.HandleFunc("/bills", s.handleListBills).Methods(http.MethodGet)
	api.HandleFunc("/bills", s.handleSaveBill).Methods(http.MethodPost)
	api.HandleFunc("/payments", s.handleLogPayment).Methods(http.MethodPost)
	api.HandleFunc("/payments/history", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "Not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "Method not allowed"})
	})

	return middleware.CORS(s.deps.PrincipalHeader)(r)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
