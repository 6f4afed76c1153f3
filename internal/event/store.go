package event

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Option configures a Store
type Option func(*Store)

// WithUniqueSlugs rejects drafts whose slug is already used by another event
func WithUniqueSlugs() Option {
	return func(s *Store) {
		s.uniqueSlugs = true
	}
}

// Store keeps events in memory for the lifetime of the process
type Store struct {
	mu          sync.RWMutex
	byID        map[string]Event
	order       []string
	uniqueSlugs bool
	newID       func() string
}

// NewStore creates an empty event store
func NewStore(opts ...Option) *Store {
	s := &Store{
		byID:  make(map[string]Event),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add creates a new event from the draft
func (s *Store) Add(d Draft) (Event, error) {
	if err := d.Validate(); err != nil {
		return Event{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.uniqueSlugs {
		for _, id := range s.order {
			if s.byID[id].Slug == d.Slug {
				return Event{}, fmt.Errorf("%w: %s", ErrDuplicateSlug, d.Slug)
			}
		}
	}

	ev := Event{
		ID:           s.newID(),
		Name:         d.Name,
		Slug:         d.Slug,
		Date:         d.Date,
		Program:      d.Program,
		Speakers:     d.Speakers,
		Pains:        d.Pains,
		RAGLinks:     d.RAGLinks,
		HTMLTemplate: d.HTMLTemplate,
	}

	s.byID[ev.ID] = ev
	s.order = append(s.order, ev.ID)
	return ev, nil
}

// List returns all events in insertion order
func (s *Store) List() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]Event, 0, len(s.order))
	for _, id := range s.order {
		events = append(events, s.byID[id])
	}
	return events
}

// Get returns the event with the given ID
func (s *Store) Get(id string) (Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.byID[id]
	return ev, ok
}

// Len returns the number of stored events
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
