// Package directory keeps a session-scoped snapshot of the books and
// students known to the library service, so typeahead lookups never hit
// the network mid-keystroke.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/biblioteca-app/circ/internal/domain"
	"github.com/biblioteca-app/circ/internal/normalize"
)

// Source is the slice of the service client the directory needs.
type Source interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)
	ListStudents(ctx context.Context) ([]domain.Student, error)
}

// Directory caches the full book and student collections for the
// lifetime of a session. Both collections load together or not at all.
type Directory struct {
	source     Source
	logger     *slog.Logger
	maxResults int

	mu       sync.RWMutex
	loaded   bool
	books    []domain.Book
	students []domain.Student
}

// New builds a directory over the given source. maxResults bounds
// every search; zero or negative falls back to DefaultMaxResults.
func New(source Source, maxResults int, logger *slog.Logger) *Directory {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Directory{
		source:     source,
		logger:     logger.With("component", "directory"),
		maxResults: maxResults,
	}
}

// Load fetches both collections in parallel. If either fetch fails the
// cache stays in its previous state, loaded or not.
func (d *Directory) Load(ctx context.Context) error {
	var (
		books    []domain.Book
		students []domain.Student
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		books, err = d.source.ListBooks(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		students, err = d.source.ListStudents(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		d.logger.Warn("directory load failed", "error", err)
		return fmt.Errorf("loading directory: %w", err)
	}

	d.mu.Lock()
	d.books = books
	d.students = students
	d.loaded = true
	d.mu.Unlock()

	d.logger.Info("directory loaded", "books", len(books), "students", len(students))
	return nil
}

// Reload is Load under a name that reads better at call sites that
// refresh after a mutation.
func (d *Directory) Reload(ctx context.Context) error {
	return d.Load(ctx)
}

// Invalidate drops the snapshot. The next search reports an unloaded
// directory until Load succeeds again.
func (d *Directory) Invalidate() {
	d.mu.Lock()
	d.loaded = false
	d.books = nil
	d.students = nil
	d.mu.Unlock()
}

func (d *Directory) Loaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loaded
}

// Books returns the cached book collection in catalog order.
func (d *Directory) Books() []domain.Book {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]domain.Book, len(d.books))
	copy(out, d.books)
	return out
}

// Students returns the cached student collection in catalog order.
func (d *Directory) Students() []domain.Student {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]domain.Student, len(d.students))
	copy(out, d.students)
	return out
}

// DefaultMaxResults bounds searches so the typeahead dropdown stays
// scannable.
const DefaultMaxResults = 8

// SearchBooks returns a bounded list of books whose searchable text
// contains the query, compared case-insensitively and ignoring
// diacritics. Results keep catalog order. An empty query matches
// nothing.
func (d *Directory) SearchBooks(query string) []domain.Book {
	q := normalize.SearchText(query)
	if q == "" {
		return nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []domain.Book
	for _, b := range d.books {
		if strings.Contains(normalize.SearchText(b.SearchText()), q) {
			out = append(out, b)
			if len(out) == d.maxResults {
				break
			}
		}
	}
	return out
}

// SearchStudents mirrors SearchBooks over the student collection.
func (d *Directory) SearchStudents(query string) []domain.Student {
	q := normalize.SearchText(query)
	if q == "" {
		return nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []domain.Student
	for _, s := range d.students {
		if strings.Contains(normalize.SearchText(s.SearchText()), q) {
			out = append(out, s)
			if len(out) == d.maxResults {
				break
			}
		}
	}
	return out
}
