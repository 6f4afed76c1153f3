package composer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/foxzi/eventmail/internal/content"
	"github.com/foxzi/eventmail/internal/event"
	"github.com/foxzi/eventmail/internal/metrics"
	"github.com/foxzi/eventmail/internal/template"
)

var (
	// ErrMissingSelection is returned when no event ID is supplied
	ErrMissingSelection = errors.New("no event selected")
	// ErrMissingEvent is returned when the event ID does not resolve
	ErrMissingEvent = errors.New("event not found")
	// ErrNoTemplate is returned when previewing an event without an HTML template
	ErrNoTemplate = errors.New("event has no html template")
)

// Preview is a generated email merged into the event's template
type Preview struct {
	HTML  string          `json:"html"`
	Email *content.Output `json:"email"`
}

// Composer runs the event → email → HTML pipeline
type Composer struct {
	store     *event.Store
	generator *content.Generator
	renderer  *template.Renderer
	logger    *slog.Logger
}

// New creates a composer over the given components
func New(store *event.Store, generator *content.Generator, renderer *template.Renderer, logger *slog.Logger) *Composer {
	return &Composer{
		store:     store,
		generator: generator,
		renderer:  renderer,
		logger:    logger,
	}
}

// AddEvent creates an event from a draft
func (c *Composer) AddEvent(d event.Draft) (event.Event, error) {
	ev, err := c.store.Add(d)
	if err != nil {
		reason := "missing_required_field"
		if errors.Is(err, event.ErrDuplicateSlug) {
			reason = "duplicate_slug"
		}
		metrics.IncEventsRejected(reason)
		c.logger.Warn("event rejected", "slug", d.Slug, "error", err)
		return event.Event{}, err
	}

	metrics.IncEventsAdded(c.store.Len())
	c.logger.Info("event added", "id", ev.ID, "slug", ev.Slug)
	return ev, nil
}

// ListEvents returns all events in insertion order
func (c *Composer) ListEvents() []event.Event {
	return c.store.List()
}

// GetEvent returns one event by ID
func (c *Composer) GetEvent(id string) (event.Event, error) {
	if id == "" {
		return event.Event{}, ErrMissingSelection
	}
	ev, ok := c.store.Get(id)
	if !ok {
		return event.Event{}, fmt.Errorf("%w: %s", ErrMissingEvent, id)
	}
	return ev, nil
}

// GenerateEmail generates the email of the given content type for an event
func (c *Composer) GenerateEmail(id string, ct content.ContentType, topic string) (*content.Output, error) {
	ev, err := c.GetEvent(id)
	if err != nil {
		return nil, err
	}

	out, err := c.generator.Generate(ev, ct, topic)
	if err != nil {
		return nil, err
	}

	metrics.IncEmailsGenerated(string(ct))
	for _, e := range out.Errors {
		metrics.IncValidationErrors(e.Slot, e.Reason)
	}

	c.logger.Info("email generated",
		"event_id", ev.ID,
		"content_type", ct,
		"validation_errors", len(out.Errors),
	)
	return out, nil
}

// RenderTemplate merges a generated email into an HTML template
func (c *Composer) RenderTemplate(tmpl string, out *content.Output) (string, error) {
	html, err := c.renderer.Render(tmpl, out)
	if err != nil {
		metrics.IncTemplateRenders("syntax_error")
		c.logger.Debug("template render failed", "error", err)
		return "", err
	}
	metrics.IncTemplateRenders("ok")
	return html, nil
}

// Preview generates an email and renders it with the event's stored template
func (c *Composer) Preview(id string, ct content.ContentType, topic string) (*Preview, error) {
	out, err := c.GenerateEmail(id, ct, topic)
	if err != nil {
		return nil, err
	}

	ev, _ := c.store.Get(id)
	if ev.HTMLTemplate == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoTemplate, id)
	}

	html, err := c.RenderTemplate(ev.HTMLTemplate, out)
	if err != nil {
		return nil, err
	}

	return &Preview{HTML: html, Email: out}, nil
}
