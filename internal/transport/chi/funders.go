package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// createFunder handles POST /funders.
func (s *Server) createFunder(w http.ResponseWriter, r *http.Request) {
	var req funderRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	f, err := s.funders.Create(r.Context(), IdentityFromContext(r.Context()), req.ID, req.Name, req.Country)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.renderFunder(f))
}

// readFunder handles GET /funders/{id}.
func (s *Server) readFunder(w http.ResponseWriter, r *http.Request) {
	f, err := s.funders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.renderFunder(f))
}
