// Package handler implements the HTTP handlers for the tour expansion API.
// All handlers are methods on Server. Methods are split into resource files
// (health.go, expansion.go, tour.go, export.go) but share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/tourgen/internal/domain"
	"github.com/pkordes/tourgen/spec"
)

// TourServicer defines the business operations the tour handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TourServicer interface {
	ExpandMandatory(ctx context.Context, persons []domain.Person) (domain.ExpansionResult, error)
	ExpandNonMandatory(ctx context.Context, choices []domain.Choice) (domain.ExpansionResult, error)
	ExpandAtWorkSubtours(ctx context.Context, choices []domain.Choice) (domain.ExpansionResult, error)
	ExpandJoint(ctx context.Context, choices []domain.Choice) (domain.ExpansionResult, error)
	Get(ctx context.Context, space domain.IDSpace, id int64) (domain.Tour, error)
	List(ctx context.Context, f domain.TourFilter, p domain.PaginationParams) ([]domain.Tour, int64, error)
	Runs(ctx context.Context) ([]domain.ExpansionRun, error)
}

// ExportServicer defines the operation the export handler depends on.
type ExportServicer interface {
	Export(ctx context.Context) ([]domain.Tour, error)
}

// Server serves every API endpoint.
type Server struct {
	tours  TourServicer
	export ExportServicer
	log    *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default.
func NewServer(tours TourServicer, export ExportServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{tours: tours, export: export, log: log}
}

// Handler returns a chi router with every route registered. Mount it under
// the middleware stack built in main.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/expansions", func(r chi.Router) {
		r.Post("/mandatory", s.ExpandMandatory)
		r.Post("/non-mandatory", s.ExpandNonMandatory)
		r.Post("/subtours", s.ExpandSubtours)
		r.Post("/joint", s.ExpandJoint)
	})

	r.Get("/tours", s.ListTours)
	r.Get("/tours/{space}/{id}", s.GetTour)
	r.Get("/runs", s.ListRuns)
	r.Get("/export", s.GetExport)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, notFoundBody("route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method_not_allowed", "method not allowed"))
	})
	return r
}

// GetOpenAPI handles GET /openapi.yaml.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(spec.OpenAPI)
}
