package chi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/vocabdex/internal/domain"
	awarduc "github.com/kailas-cloud/vocabdex/internal/usecase/award"
)

// searchAwards handles GET /awards.
func (s *Server) searchAwards(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := intParam(q.Get("page"), "page")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	size, err := intParam(q.Get("size"), "size")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	params := awarduc.SearchParams{
		Query:   q.Get("q"),
		Suggest: q.Get("suggest"),
		Sort:    q.Get("sort"),
		Page:    page,
		Size:    size,
		Funders: q["funders"],
	}
	res, err := s.awards.Search(r.Context(), IdentityFromContext(r.Context()), params)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.renderSearch(res, params.Funders))
}

// readAward handles GET /awards/{id}.
func (s *Server) readAward(w http.ResponseWriter, r *http.Request) {
	a, err := s.awards.Read(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("ETag", etag(a.Revision()))
	writeJSON(w, http.StatusOK, s.renderAward(a))
}

// createAward handles POST /awards.
func (s *Server) createAward(w http.ResponseWriter, r *http.Request) {
	if err := requireCredentials(r); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	var req awardRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	a, err := s.awards.Create(r.Context(), IdentityFromContext(r.Context()), req.draft())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("ETag", etag(a.Revision()))
	w.Header().Set("Location", s.awardSelf(a.PID()))
	writeJSON(w, http.StatusCreated, s.renderAward(a))
}

// updateAward handles PUT /awards/{id}.
func (s *Server) updateAward(w http.ResponseWriter, r *http.Request) {
	if err := requireCredentials(r); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	expected, err := ifMatch(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	var req awardRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	a, err := s.awards.Update(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"), req.draft(), expected)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("ETag", etag(a.Revision()))
	writeJSON(w, http.StatusOK, s.renderAward(a))
}

// deleteAward handles DELETE /awards/{id}.
func (s *Server) deleteAward(w http.ResponseWriter, r *http.Request) {
	if err := requireCredentials(r); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	expected, err := ifMatch(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if _, err := s.awards.Delete(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "id"), expected); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// requireCredentials rejects anonymous writes before the body is read.
func requireCredentials(r *http.Request) error {
	if IdentityFromContext(r.Context()).IsAnonymous() {
		return fmt.Errorf("authentication required: %w", domain.ErrPermissionDenied)
	}
	return nil
}

// decodeBody reads a JSON body into v, answering 400 on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// ifMatch parses the If-Match header into an expected revision.
// A missing header or "*" means no precondition (0).
func ifMatch(r *http.Request) (int, error) {
	v := strings.TrimSpace(r.Header.Get("If-Match"))
	if v == "" || v == "*" {
		return 0, nil
	}
	v = strings.TrimPrefix(v, "W/")
	if unq, err := strconv.Unquote(v); err == nil {
		v = unq
	}
	rev, err := strconv.Atoi(v)
	if err != nil || rev <= 0 {
		return 0, fmt.Errorf("If-Match must carry a revision id: %w", domain.ErrValidation)
	}
	return rev, nil
}

func intParam(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer: %w", name, domain.ErrValidation)
	}
	return n, nil
}
