package template

import (
	"html"
	"regexp"
	"strings"

	"github.com/foxzi/eventmail/internal/content"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Option configures a Renderer
type Option func(*Renderer)

// WithUTMFields exposes utm_source, utm_medium, utm_campaign and
// utm_content as top-level placeholders
func WithUTMFields() Option {
	return func(r *Renderer) {
		r.utmFields = true
	}
}

// WithoutEscaping inserts field values as raw HTML
func WithoutEscaping() Option {
	return func(r *Renderer) {
		r.escape = false
	}
}

// Renderer merges generated emails into HTML templates
type Renderer struct {
	utmFields bool
	escape    bool
}

// NewRenderer creates a new renderer
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{escape: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render resolves conditional blocks, then substitutes placeholders.
// Unknown or absent fields render as empty strings.
func (r *Renderer) Render(tmpl string, out *content.Output) (string, error) {
	blocks, err := parse(tmpl)
	if err != nil {
		return "", err
	}

	fields := r.Fields(out)

	var b strings.Builder
	b.Grow(len(tmpl))
	for _, blk := range blocks {
		if blk.conditional && fields[blk.slot] == "" {
			continue
		}
		b.WriteString(blk.text)
	}

	return placeholderRe.ReplaceAllStringFunc(b.String(), func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		v := fields[name]
		if r.escape {
			return html.EscapeString(v)
		}
		return v
	}), nil
}

// Validate checks the conditional block structure of a template
func (r *Renderer) Validate(tmpl string) error {
	_, err := parse(tmpl)
	return err
}

// Placeholders returns the distinct field names referenced by a template
// in order of first appearance
func (r *Renderer) Placeholders(tmpl string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(tmpl, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Fields returns the string form of every present output field
func (r *Renderer) Fields(out *content.Output) map[string]string {
	if out == nil {
		return map[string]string{}
	}

	fields := map[string]string{
		"subject":           out.Subject,
		"preheader":         out.Preheader,
		"headline":          out.Headline,
		"intro":             out.Intro,
		"value_proposition": out.ValueProposition,
		"offer":             out.Offer,
		"cta_text":          out.CTAText,
		"cta_url":           out.CTAURL,
		"utm_params":        out.UTMParams.Query(),
	}

	optional := map[string]*string{
		"pain_point":     out.PainPoint,
		"agenda_block":   out.AgendaBlock,
		"speakers_block": out.SpeakersBlock,
	}
	for name, v := range optional {
		if v != nil {
			fields[name] = *v
		}
	}

	if len(out.Errors) > 0 {
		parts := make([]string, len(out.Errors))
		for i, e := range out.Errors {
			parts[i] = e.String()
		}
		fields["errors"] = strings.Join(parts, ", ")
	}

	if r.utmFields {
		fields["utm_source"] = out.UTMParams.Source
		fields["utm_medium"] = out.UTMParams.Medium
		fields["utm_campaign"] = out.UTMParams.Campaign
		fields["utm_content"] = out.UTMParams.Content
	}

	return fields
}
