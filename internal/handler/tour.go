package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/tourgen/internal/domain"
)

// Pagination describes the page returned by a list endpoint.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// TourList is the body of GET /tours.
type TourList struct {
	Data       []domain.Tour `json:"data"`
	Pagination Pagination    `json:"pagination"`
}

// ListToursParams are the query parameters of GET /tours.
type ListToursParams struct {
	Space    *string `json:"space,omitempty"`
	Category *string `json:"category,omitempty"`
	OwnerID  *int64  `json:"owner_id,omitempty"`
	Page     *int    `json:"page,omitempty"`
	Limit    *int    `json:"limit,omitempty"`
}

// bindListToursParams binds the optional form-style query parameters the way
// generated oapi-codegen servers do.
func bindListToursParams(r *http.Request) (ListToursParams, error) {
	var p ListToursParams
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "space", q, &p.Space); err != nil {
		return p, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "category", q, &p.Category); err != nil {
		return p, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "owner_id", q, &p.OwnerID); err != nil {
		return p, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &p.Page); err != nil {
		return p, err
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &p.Limit); err != nil {
		return p, err
	}
	return p, nil
}

// ListTours handles GET /tours.
// Supports ?space=, ?category=, ?owner_id=, ?page= and ?limit= query
// parameters (defaults: page=1, limit=100, max=1000).
func (s *Server) ListTours(w http.ResponseWriter, r *http.Request) {
	params, err := bindListToursParams(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	var f domain.TourFilter
	if params.Space != nil {
		f.Space = domain.IDSpace(*params.Space)
	}
	if params.Category != nil {
		c := domain.Category(*params.Category)
		f.Category = &c
	}
	f.OwnerID = params.OwnerID

	page := domain.NewPaginationParams(params.Page, params.Limit)
	tours, total, err := s.tours.List(r.Context(), f, page)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if tours == nil {
		tours = []domain.Tour{}
	}
	writeJSON(w, http.StatusOK, TourList{
		Data: tours,
		Pagination: Pagination{
			Page:  page.Page,
			Limit: page.Limit,
			Total: int(total),
		},
	})
}

// GetTour handles GET /tours/{space}/{id}.
func (s *Server) GetTour(w http.ResponseWriter, r *http.Request) {
	var (
		space string
		id    int64
	)
	opts := runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true}
	if err := runtime.BindStyledParameterWithOptions("simple", "space", chi.URLParam(r, "space"), &space, opts); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}
	if err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id, opts); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	tour, err := s.tours.Get(r.Context(), domain.IDSpace(space), id)
	if err != nil {
		s.writeError(w, r, err, "tour not found")
		return
	}
	writeJSON(w, http.StatusOK, tour)
}

// ListRuns handles GET /runs.
func (s *Server) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.tours.Runs(r.Context())
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if runs == nil {
		runs = []domain.ExpansionRun{}
	}
	writeJSON(w, http.StatusOK, runs)
}
