package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/foxzi/eventmail/internal/composer"
	"github.com/foxzi/eventmail/internal/config"
	"github.com/foxzi/eventmail/internal/content"
	"github.com/foxzi/eventmail/internal/event"
	"github.com/foxzi/eventmail/internal/template"
)

func setupTestServer(apiKey string, opts ...event.Option) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := composer.New(
		event.NewStore(opts...),
		content.NewGenerator("https://events.test"),
		template.NewRenderer(),
		logger,
	)
	cfg := &config.APIConfig{
		ListenAddr: ":8080",
		APIKey:     apiKey,
	}
	return NewServer(c, cfg, logger)
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func createEvent(t *testing.T, s *Server, body string) event.Event {
	t.Helper()
	w := doRequest(s, "POST", "/api/v1/events", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create event: status = %d, body = %s", w.Code, w.Body.String())
	}
	var ev event.Event
	if err := json.NewDecoder(w.Body).Decode(&ev); err != nil {
		t.Fatalf("Failed to decode event: %v", err)
	}
	return ev
}

func TestHealthEndpoint(t *testing.T) {
	s := setupTestServer("secret")

	w := doRequest(s, "GET", "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("Status = %q, want %q", resp.Status, "ok")
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header should be set")
	}
}

func TestRequestIDEchoed(t *testing.T) {
	s := setupTestServer("")

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want %q", got, "abc-123")
	}
}

func TestContentTypesEndpoint(t *testing.T) {
	s := setupTestServer("")

	w := doRequest(s, "GET", "/api/v1/content-types", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d", w.Code)
	}

	var resp ContentTypesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(resp.ContentTypes) != 5 {
		t.Fatalf("got %d content types, want 5", len(resp.ContentTypes))
	}
	if resp.ContentTypes[0].Type != content.TypeAnnounce {
		t.Errorf("first type = %q, want announce", resp.ContentTypes[0].Type)
	}
}

func TestEventEndpoints(t *testing.T) {
	s := setupTestServer("")

	ev := createEvent(t, s, `{"name":"Conf","slug":"conf","date":"1 May","program":"A,B"}`)
	if ev.ID == "" {
		t.Fatal("event ID should not be empty")
	}

	w := doRequest(s, "GET", "/api/v1/events/"+ev.ID, "")
	if w.Code != http.StatusOK {
		t.Errorf("get event: status = %d", w.Code)
	}

	w = doRequest(s, "GET", "/api/v1/events/unknown", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("get unknown event: status = %d, want 404", w.Code)
	}

	createEvent(t, s, `{"name":"Meetup","slug":"meetup"}`)

	w = doRequest(s, "GET", "/api/v1/events", "")
	var list EventsResponse
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatalf("Failed to decode list: %v", err)
	}
	if list.Total != 2 || list.Events[0].Slug != "conf" || list.Events[1].Slug != "meetup" {
		t.Errorf("list = %+v", list)
	}
}

func TestCreateEventValidation(t *testing.T) {
	tests := []struct {
		name   string
		unique bool
		body   string
		want   int
	}{
		{"missing name", false, `{"slug":"x"}`, http.StatusBadRequest},
		{"missing slug", false, `{"name":"X"}`, http.StatusBadRequest},
		{"invalid json", false, `{invalid}`, http.StatusBadRequest},
		{"duplicate slug allowed", false, `{"name":"X","slug":"taken"}`, http.StatusCreated},
		{"duplicate slug rejected", true, `{"name":"X","slug":"taken"}`, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []event.Option
			if tt.unique {
				opts = append(opts, event.WithUniqueSlugs())
			}
			s := setupTestServer("", opts...)
			createEvent(t, s, `{"name":"Taken","slug":"taken"}`)

			w := doRequest(s, "POST", "/api/v1/events", tt.body)
			if w.Code != tt.want {
				t.Errorf("Status = %d, want %d. Body: %s", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestGenerateEndpoint(t *testing.T) {
	s := setupTestServer("")
	ev := createEvent(t, s, `{"name":"Conf","slug":"conf","date":"1 May","program":"A(10:00),B(14:00),C(16:00)"}`)

	w := doRequest(s, "POST", "/api/v1/events/"+ev.ID+"/generate", `{"content_type":"announce"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, body = %s", w.Code, w.Body.String())
	}

	body := w.Body.String()
	if !strings.Contains(body, `"errors":[]`) {
		t.Errorf("errors should serialize as an empty array: %s", body)
	}
	if strings.Contains(body, "pain_point") {
		t.Errorf("pain_point should be omitted for announce: %s", body)
	}

	var out content.Output
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("Failed to decode output: %v", err)
	}
	if out.Subject != "Conf — 1 May" {
		t.Errorf("Subject = %q", out.Subject)
	}
	if out.UTMParams.Campaign != "conf" || out.UTMParams.Content != "announce" {
		t.Errorf("UTMParams = %+v", out.UTMParams)
	}
}

func TestGenerateEndpointErrors(t *testing.T) {
	s := setupTestServer("")
	ev := createEvent(t, s, `{"name":"Conf","slug":"conf"}`)

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"unknown type", "/api/v1/events/" + ev.ID + "/generate", `{"content_type":"promo"}`, http.StatusBadRequest},
		{"missing type", "/api/v1/events/" + ev.ID + "/generate", `{}`, http.StatusBadRequest},
		{"invalid json", "/api/v1/events/" + ev.ID + "/generate", `nope`, http.StatusBadRequest},
		{"unknown event", "/api/v1/events/missing/generate", `{"content_type":"sale"}`, http.StatusNotFound},
		{"preview without template", "/api/v1/events/" + ev.ID + "/preview", `{"content_type":"sale"}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(s, "POST", tt.path, tt.body)
			if w.Code != tt.want {
				t.Errorf("Status = %d, want %d. Body: %s", w.Code, tt.want, w.Body.String())
			}

			var resp ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil || resp.Error == "" {
				t.Errorf("expected JSON error body, got err=%v resp=%+v", err, resp)
			}
		})
	}
}

func TestGenerateWithValidationErrors(t *testing.T) {
	s := setupTestServer("")
	ev := createEvent(t, s, `{"name":"Conf","slug":"conf"}`)

	w := doRequest(s, "POST", "/api/v1/events/"+ev.ID+"/generate", `{"content_type":"digest"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, validation errors must not fail the request", w.Code)
	}

	var out content.Output
	json.Unmarshal(w.Body.Bytes(), &out)
	if len(out.Errors) != 1 || out.Errors[0].Slot != "program" || out.Errors[0].Reason != content.ReasonMissingRequiredFact {
		t.Errorf("Errors = %+v", out.Errors)
	}
}

func TestPreviewEndpoint(t *testing.T) {
	s := setupTestServer("")
	ev := createEvent(t, s, `{"name":"Conf","slug":"conf","program":"A","html_template":"<h1>{{headline}}</h1><!--IF:pain_point--><p>{{pain_point}}</p><!--ENDIF-->"}`)

	w := doRequest(s, "POST", "/api/v1/events/"+ev.ID+"/preview", `{"content_type":"reminder"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, body = %s", w.Code, w.Body.String())
	}

	var p composer.Preview
	if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
		t.Fatalf("Failed to decode preview: %v", err)
	}
	if p.HTML != "<h1>See you tomorrow</h1>" {
		t.Errorf("HTML = %q", p.HTML)
	}
	if p.Email == nil || p.Email.CTAText == "" {
		t.Errorf("Email = %+v", p.Email)
	}

	broken := createEvent(t, s, `{"name":"B","slug":"b","html_template":"<!--IF:headline-->open"}`)
	w = doRequest(s, "POST", "/api/v1/events/"+broken.ID+"/preview", `{"content_type":"reminder"}`)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("broken template: status = %d, want 422", w.Code)
	}
}

func TestRenderEndpoint(t *testing.T) {
	s := setupTestServer("")

	tests := []struct {
		name     string
		body     string
		want     int
		wantHTML string
	}{
		{
			name:     "placeholder and block",
			body:     `{"template":"<b>{{subject}}</b><!--IF:pain_point-->x<!--ENDIF-->","email":{"subject":"Hi","errors":[]}}`,
			want:     http.StatusOK,
			wantHTML: "<b>Hi</b>",
		},
		{
			name:     "present pain point",
			body:     `{"template":"<!--IF:pain_point-->[{{pain_point}}]<!--ENDIF-->","email":{"pain_point":"ouch"}}`,
			want:     http.StatusOK,
			wantHTML: "[ouch]",
		},
		{"syntax error", `{"template":"<!--ENDIF-->","email":{}}`, http.StatusUnprocessableEntity, ""},
		{"missing email", `{"template":"x"}`, http.StatusBadRequest, ""},
		{"invalid json", `{`, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(s, "POST", "/api/v1/render", tt.body)
			if w.Code != tt.want {
				t.Fatalf("Status = %d, want %d. Body: %s", w.Code, tt.want, w.Body.String())
			}
			if tt.want != http.StatusOK {
				return
			}
			var resp RenderResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.HTML != tt.wantHTML {
				t.Errorf("HTML = %q, want %q", resp.HTML, tt.wantHTML)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := setupTestServer("secret-key")

	tests := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"no auth", "", "", http.StatusUnauthorized},
		{"wrong key", "Authorization", "Bearer wrong-key", http.StatusUnauthorized},
		{"correct key", "Authorization", "Bearer secret-key", http.StatusOK},
		{"x-api-key header", "X-API-Key", "secret-key", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/events", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			w := httptest.NewRecorder()

			s.Handler().ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("Status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestAllowedIPs(t *testing.T) {
	s := setupTestServer("")
	s.config.AllowedIPs = []string{"10.0.0.0/8"}
	s.router = chi.NewRouter()
	s.setupRoutes()

	tests := []struct {
		name       string
		path       string
		remoteAddr string
		want       int
	}{
		{"allowed network", "/api/v1/events", "10.1.2.3:5000", http.StatusOK},
		{"other network", "/api/v1/events", "192.0.2.1:5000", http.StatusForbidden},
		{"health is not filtered", "/health", "192.0.2.1:5000", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			req.RemoteAddr = tt.remoteAddr
			w := httptest.NewRecorder()

			s.Handler().ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("Status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
