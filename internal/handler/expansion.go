package handler

import (
	"context"
	"net/http"

	"github.com/pkordes/tourgen/internal/domain"
)

// MandatoryRequest is the body of POST /expansions/mandatory.
type MandatoryRequest struct {
	Persons []domain.Person `json:"persons"`
}

// ChoicesRequest is the body of the expansion endpoints that take a choice
// series. For subtours each owner_id is the tour id of a parent work tour.
type ChoicesRequest struct {
	Choices []domain.Choice `json:"choices"`
}

// ExpansionResponse reports a stored run and the tours it generated.
type ExpansionResponse struct {
	Run   domain.ExpansionRun `json:"run"`
	Tours []domain.Tour       `json:"tours"`
}

// ExpandMandatory handles POST /expansions/mandatory.
func (s *Server) ExpandMandatory(w http.ResponseWriter, r *http.Request) {
	var body MandatoryRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Persons == nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("persons is required"))
		return
	}

	res, err := s.tours.ExpandMandatory(r.Context(), body.Persons)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, toExpansionResponse(res))
}

// ExpandNonMandatory handles POST /expansions/non-mandatory.
func (s *Server) ExpandNonMandatory(w http.ResponseWriter, r *http.Request) {
	s.expandChoices(w, r, s.tours.ExpandNonMandatory)
}

// ExpandSubtours handles POST /expansions/subtours.
// A choice naming an unknown parent tour is a validation error.
func (s *Server) ExpandSubtours(w http.ResponseWriter, r *http.Request) {
	s.expandChoices(w, r, s.tours.ExpandAtWorkSubtours)
}

// ExpandJoint handles POST /expansions/joint.
func (s *Server) ExpandJoint(w http.ResponseWriter, r *http.Request) {
	s.expandChoices(w, r, s.tours.ExpandJoint)
}

type expandFunc func(ctx context.Context, choices []domain.Choice) (domain.ExpansionResult, error)

func (s *Server) expandChoices(w http.ResponseWriter, r *http.Request, expand expandFunc) {
	var body ChoicesRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Choices == nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("choices is required"))
		return
	}

	res, err := expand(r.Context(), body.Choices)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, toExpansionResponse(res))
}

func toExpansionResponse(res domain.ExpansionResult) ExpansionResponse {
	out := ExpansionResponse{Run: res.Run, Tours: res.Tours}
	if out.Tours == nil {
		out.Tours = []domain.Tour{}
	}
	return out
}
