package content

import (
	"fmt"
	"strings"

	"github.com/foxzi/eventmail/internal/event"
)

// DefaultBaseURL is used for CTA links when no base URL is configured
const DefaultBaseURL = "https://example.com"

// GeneratorOption configures a Generator
type GeneratorOption func(*Generator)

// WithRules replaces the baseline validation rules
func WithRules(rules ...Rule) GeneratorOption {
	return func(g *Generator) {
		g.validator = NewValidator(rules...)
	}
}

// WithStrategy registers or overrides the strategy for a content type
func WithStrategy(ct ContentType, s Strategy) GeneratorOption {
	return func(g *Generator) {
		g.strategies[ct] = s
	}
}

// Generator fills email slots from event data
type Generator struct {
	baseURL    string
	strategies map[ContentType]Strategy
	validator  *Validator
}

// NewGenerator creates a generator whose CTA links point at baseURL
func NewGenerator(baseURL string, opts ...GeneratorOption) *Generator {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	g := &Generator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		strategies: make(map[ContentType]Strategy, len(Strategies)),
		validator:  NewValidator(),
	}
	for ct, s := range Strategies {
		g.strategies[ct] = s
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate builds the email for the event. The same inputs always give the
// same output. Validation problems are reported in Output.Errors.
func (g *Generator) Generate(ev event.Event, ct ContentType, topic string) (*Output, error) {
	strategy, ok := g.strategies[ct]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownContentType, ct)
	}

	c := strategy(ev)
	if topic = strings.TrimSpace(topic); topic != "" {
		c.Intro += " Focus: " + topic + "."
	}

	out := &Output{
		Subject:          truncate(c.Subject, MaxSubjectLen),
		Preheader:        truncate(c.Preheader, MaxPreheaderLen),
		Headline:         c.Headline,
		Intro:            c.Intro,
		PainPoint:        c.PainPoint,
		ValueProposition: c.ValueProposition,
		AgendaBlock:      optional(ev.Program),
		SpeakersBlock:    optional(ev.Speakers),
		Offer:            c.Offer,
		CTAText:          c.CTAText,
		CTAURL:           g.baseURL + "/events/" + ev.Slug,
		UTMParams: UTMParams{
			Source:   UTMSource,
			Medium:   UTMMedium,
			Campaign: ev.Slug,
			Content:  string(ct),
		},
	}
	out.Errors = g.validator.Validate(ev, ct, out)

	return out, nil
}

// truncate cuts s to at most n characters
func truncate(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
