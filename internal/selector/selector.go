// Package selector implements the typeahead pickers used to choose a
// book or a student. A selector owns the text the operator typed, the
// bounded suggestion list, and the committed selection, and guarantees
// the three never disagree.
package selector

import "sync"

// State of the suggestion dropdown.
type State int

const (
	// Closed: no query in flight, dropdown hidden.
	Closed State = iota
	// Typing: operator is editing the query, dropdown shows suggestions.
	Typing
	// Selected: a suggestion was committed; the query mirrors its label.
	Selected
)

func (s State) String() string {
	switch s {
	case Typing:
		return "typing"
	case Selected:
		return "selected"
	default:
		return "closed"
	}
}

// Search produces the bounded suggestion list for a query.
type Search[T any] func(query string) []T

// Label renders the line shown for a committed suggestion.
type Label[T any] func(T) string

// Selector is a typeahead picker over one entity kind. It is safe for
// concurrent use; eligibility probes read the selection from another
// goroutine.
type Selector[T any] struct {
	search Search[T]
	label  Label[T]

	mu          sync.Mutex
	state       State
	query       string
	suggestions []T
	selection   *T
	onChange    func(*T)
}

func New[T any](search Search[T], label Label[T]) *Selector[T] {
	return &Selector[T]{search: search, label: label}
}

// OnChange registers a callback fired whenever the committed selection
// changes, including when it is cleared. The callback runs outside the
// selector's lock.
func (s *Selector[T]) OnChange(fn func(*T)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Type replaces the query. Any committed selection is cleared, because
// edited text no longer describes the committed entity. An empty query
// closes the dropdown.
func (s *Selector[T]) Type(query string) {
	s.mu.Lock()
	cleared := s.selection != nil
	s.selection = nil
	s.query = query
	if query == "" {
		s.state = Closed
		s.suggestions = nil
	} else {
		s.state = Typing
		s.suggestions = s.search(query)
	}
	fn := s.onChange
	s.mu.Unlock()

	if cleared && fn != nil {
		fn(nil)
	}
}

// Choose commits the suggestion at index i. The query becomes the
// suggestion's label and the dropdown closes. Out-of-range indexes are
// ignored.
func (s *Selector[T]) Choose(i int) {
	s.mu.Lock()
	if s.state != Typing || i < 0 || i >= len(s.suggestions) {
		s.mu.Unlock()
		return
	}
	chosen := s.suggestions[i]
	s.selection = &chosen
	s.query = s.label(chosen)
	s.state = Selected
	s.suggestions = nil
	fn := s.onChange
	s.mu.Unlock()

	if fn != nil {
		fn(&chosen)
	}
}

// Blur closes the dropdown without committing. Typed text that never
// became a selection stays visible but selects nothing.
func (s *Selector[T]) Blur() {
	s.mu.Lock()
	if s.state == Typing {
		s.state = Closed
		s.suggestions = nil
	}
	s.mu.Unlock()
}

// Focus reopens the dropdown for a non-empty uncommitted query.
func (s *Selector[T]) Focus() {
	s.mu.Lock()
	if s.state == Closed && s.selection == nil && s.query != "" {
		s.state = Typing
		s.suggestions = s.search(s.query)
	}
	s.mu.Unlock()
}

// Reset clears everything back to the initial state.
func (s *Selector[T]) Reset() {
	s.mu.Lock()
	cleared := s.selection != nil
	s.state = Closed
	s.query = ""
	s.suggestions = nil
	s.selection = nil
	fn := s.onChange
	s.mu.Unlock()

	if cleared && fn != nil {
		fn(nil)
	}
}

// Selection returns the committed entity, or nil when nothing is
// committed.
func (s *Selector[T]) Selection() *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection == nil {
		return nil
	}
	v := *s.selection
	return &v
}

func (s *Selector[T]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Selector[T]) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Suggestions returns the current dropdown contents.
func (s *Selector[T]) Suggestions() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.suggestions))
	copy(out, s.suggestions)
	return out
}
