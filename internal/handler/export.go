package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/tourgen/internal/domain"
	"github.com/pkordes/tourgen/internal/tourcsv"
)

// Export formats accepted by GET /export.
const (
	formatJSON = "json"
	formatCSV  = "csv"
)

// GetExport handles GET /export.
// It returns every stored tour as a flat table.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	var format *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}
	f := formatJSON
	if format != nil {
		f = *format
	}
	if f != formatJSON && f != formatCSV {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("format must be json or csv"))
		return
	}

	tours, err := s.export.Export(r.Context())
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	if f == formatCSV {
		s.writeCSV(w, r, tours)
		return
	}
	if tours == nil {
		tours = []domain.Tour{}
	}
	writeJSON(w, http.StatusOK, tours)
}

// writeCSV buffers the whole export so an encoding failure can still be
// reported with a proper status code.
func (s *Server) writeCSV(w http.ResponseWriter, r *http.Request, tours []domain.Tour) {
	var buf bytes.Buffer
	if err := tourcsv.WriteTours(&buf, tours); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="tours.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
