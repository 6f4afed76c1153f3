package event

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingRequiredField is returned when a draft has no name or slug
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrDuplicateSlug is returned by stores created with WithUniqueSlugs
	ErrDuplicateSlug = errors.New("slug already exists")
)

// Event is a marketing event. Events are never modified after creation.
type Event struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Slug         string `json:"slug" yaml:"slug"`
	Date         string `json:"date" yaml:"date"`
	Program      string `json:"program" yaml:"program"`   // Comma-separated sessions
	Speakers     string `json:"speakers" yaml:"speakers"` // Comma-separated speakers
	Pains        string `json:"pains" yaml:"pains"`       // Comma-separated audience pains
	RAGLinks     string `json:"rag_links" yaml:"rag_links"`
	HTMLTemplate string `json:"html_template" yaml:"html_template"`
}

// Draft holds the user-supplied fields of a new event
type Draft struct {
	Name         string `json:"name" yaml:"name"`
	Slug         string `json:"slug" yaml:"slug"`
	Date         string `json:"date,omitempty" yaml:"date"`
	Program      string `json:"program,omitempty" yaml:"program"`
	Speakers     string `json:"speakers,omitempty" yaml:"speakers"`
	Pains        string `json:"pains,omitempty" yaml:"pains"`
	RAGLinks     string `json:"rag_links,omitempty" yaml:"rag_links"`
	HTMLTemplate string `json:"html_template,omitempty" yaml:"html_template"`
}

// Validate checks that the draft carries the fields required to create an event
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("%w: name", ErrMissingRequiredField)
	}
	if strings.TrimSpace(d.Slug) == "" {
		return fmt.Errorf("%w: slug", ErrMissingRequiredField)
	}
	return nil
}

// ProgramItems returns the program split into sessions
func (e Event) ProgramItems() []string { return SplitList(e.Program) }

// SpeakerItems returns the speakers split into entries
func (e Event) SpeakerItems() []string { return SplitList(e.Speakers) }

// PainItems returns the audience pains split into entries
func (e Event) PainItems() []string { return SplitList(e.Pains) }

// SplitList splits a comma-separated field on every literal comma.
// There is no escaping, so an item that itself contains a comma is split
// in two. Empty segments are kept: SplitList("") returns [""].
func SplitList(s string) []string {
	return strings.Split(s, ",")
}
