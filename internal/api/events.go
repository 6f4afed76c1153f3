package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foxzi/eventmail/internal/content"
	"github.com/foxzi/eventmail/internal/event"
)

// GenerateRequest is the request body for generate and preview
type GenerateRequest struct {
	ContentType string `json:"content_type"`
	Topic       string `json:"topic,omitempty"`
}

// EventsResponse is the response for GET /events
type EventsResponse struct {
	Events []event.Event `json:"events"`
	Total  int           `json:"total"`
}

// RenderRequest is the request body for POST /render
type RenderRequest struct {
	Template string          `json:"template"`
	Email    *content.Output `json:"email"`
}

// RenderResponse is the response for POST /render
type RenderResponse struct {
	HTML string `json:"html"`
}

// handleListEvents handles GET /api/v1/events
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events := s.composer.ListEvents()
	s.sendJSON(w, http.StatusOK, EventsResponse{Events: events, Total: len(events)})
}

// handleCreateEvent handles POST /api/v1/events
func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var d event.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		s.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ev, err := s.composer.AddEvent(d)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}

	s.sendJSON(w, http.StatusCreated, ev)
}

// handleGetEvent handles GET /api/v1/events/{id}
func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := s.composer.GetEvent(chi.URLParam(r, "id"))
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, ev)
}

// handleGenerate handles POST /api/v1/events/{id}/generate
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, ct, ok := s.decodeGenerate(w, r)
	if !ok {
		return
	}

	out, err := s.composer.GenerateEmail(chi.URLParam(r, "id"), ct, req.Topic)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, out)
}

// handlePreview handles POST /api/v1/events/{id}/preview
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, ct, ok := s.decodeGenerate(w, r)
	if !ok {
		return
	}

	p, err := s.composer.Preview(chi.URLParam(r, "id"), ct, req.Topic)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, p)
}

// handleRender handles POST /api/v1/render
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == nil {
		s.sendError(w, http.StatusBadRequest, "email is required")
		return
	}

	html, err := s.composer.RenderTemplate(req.Template, req.Email)
	if err != nil {
		s.sendDomainError(w, err)
		return
	}
	s.sendJSON(w, http.StatusOK, RenderResponse{HTML: html})
}

func (s *Server) decodeGenerate(w http.ResponseWriter, r *http.Request) (GenerateRequest, content.ContentType, bool) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "Invalid request body")
		return req, "", false
	}

	ct, err := content.ParseContentType(req.ContentType)
	if err != nil {
		s.sendDomainError(w, err)
		return req, "", false
	}
	return req, ct, true
}
