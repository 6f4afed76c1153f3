package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/foxzi/eventmail/internal/composer"
	"github.com/foxzi/eventmail/internal/content"
	"github.com/foxzi/eventmail/internal/event"
	"github.com/foxzi/eventmail/internal/template"
)

// HealthResponse is the response for GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Events  int    `json:"events"`
}

// ContentTypesResponse is the response for GET /content-types
type ContentTypesResponse struct {
	ContentTypes []content.TypeInfo `json:"content_types"`
}

// ErrorResponse is the error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: Version,
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
		Events:  len(s.composer.ListEvents()),
	})
}

// handleContentTypes handles GET /api/v1/content-types
func (s *Server) handleContentTypes(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, ContentTypesResponse{ContentTypes: content.Types()})
}

// sendJSON sends a JSON response
func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(w http.ResponseWriter, status int, message string) {
	s.sendJSON(w, status, ErrorResponse{Error: message})
}

// sendDomainError maps pipeline errors to HTTP status codes
func (s *Server) sendDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, event.ErrMissingRequiredField),
		errors.Is(err, content.ErrUnknownContentType),
		errors.Is(err, composer.ErrMissingSelection):
		s.sendError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, event.ErrDuplicateSlug):
		s.sendError(w, http.StatusConflict, err.Error())
	case errors.Is(err, composer.ErrMissingEvent):
		s.sendError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, template.ErrTemplateSyntax),
		errors.Is(err, composer.ErrNoTemplate):
		s.sendError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		s.sendError(w, http.StatusInternalServerError, "internal error")
	}
}
