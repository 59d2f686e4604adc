// Package service composes the circulation components into the
// operations the terminal front invokes. Services validate input
// locally, call the remote library service, and keep the session
// directory in sync after mutations.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/biblioteca-app/circ/internal/api"
	"github.com/biblioteca-app/circ/internal/directory"
	"github.com/biblioteca-app/circ/internal/domain"
	"github.com/biblioteca-app/circ/internal/validation"
)

// CatalogService manages the book catalog and student roster.
type CatalogService struct {
	client    *api.Client
	validator *validation.Validator
	directory *directory.Directory
	logger    *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(client *api.Client, validator *validation.Validator, dir *directory.Directory, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		client:    client,
		validator: validator,
		directory: dir,
		logger:    logger,
	}
}

// Books returns the cached catalog, loading it on first use.
func (s *CatalogService) Books(ctx context.Context) ([]domain.Book, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.directory.Books(), nil
}

// Students returns the cached roster, loading it on first use.
func (s *CatalogService) Students(ctx context.Context) ([]domain.Student, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.directory.Students(), nil
}

func (s *CatalogService) ensureLoaded(ctx context.Context) error {
	if s.directory.Loaded() {
		return nil
	}
	return s.directory.Load(ctx)
}

// BookDetail fetches one book with its current availability.
func (s *CatalogService) BookDetail(ctx context.Context, isbn string) (*domain.Book, *api.BookAvailabilityDetail, error) {
	book, err := s.client.GetBook(ctx, isbn)
	if err != nil {
		return nil, nil, fmt.Errorf("get book: %w", err)
	}
	avail, err := s.client.BookAvailability(ctx, isbn)
	if err != nil {
		// Availability is display-only; the book itself is the answer.
		s.logger.Warn("availability lookup failed", "isbn", isbn, "error", err)
		return book, nil, nil
	}
	return book, avail, nil
}

// CreateBook validates and registers a new catalog entry, then refreshes
// the session directory so typeahead sees it immediately.
func (s *CatalogService) CreateBook(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	if err := s.validator.Validate(book); err != nil {
		return nil, err
	}
	created, err := s.client.CreateBook(ctx, book)
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	s.logger.Info("book created", "isbn", created.ISBN, "title", created.Title)
	s.reloadDirectory(ctx)
	return created, nil
}

// ImportBooks registers a batch. Per-row failures come back in the
// result rather than failing the whole import.
func (s *CatalogService) ImportBooks(ctx context.Context, books []domain.Book) (*api.BatchResult, error) {
	for i := range books {
		if err := s.validator.Validate(&books[i]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	result, err := s.client.CreateBooksBatch(ctx, books)
	if err != nil {
		return nil, fmt.Errorf("import books: %w", err)
	}
	s.logger.Info("books imported", "created", result.Created, "failed", result.Failed)
	s.reloadDirectory(ctx)
	return result, nil
}

// UpdateBook validates and updates a catalog entry.
func (s *CatalogService) UpdateBook(ctx context.Context, isbn string, book *domain.Book) (*domain.Book, error) {
	if err := s.validator.Validate(book); err != nil {
		return nil, err
	}
	updated, err := s.client.UpdateBook(ctx, isbn, book)
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	s.reloadDirectory(ctx)
	return updated, nil
}

// DeleteBook removes a catalog entry. The service refuses books with
// open loans; that error passes through untouched.
func (s *CatalogService) DeleteBook(ctx context.Context, isbn string) error {
	if err := s.client.DeleteBook(ctx, isbn); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	s.logger.Info("book deleted", "isbn", isbn)
	s.reloadDirectory(ctx)
	return nil
}

// CreateStudent validates and registers a new student.
func (s *CatalogService) CreateStudent(ctx context.Context, student *domain.Student) (*domain.Student, error) {
	if err := s.validator.Validate(student); err != nil {
		return nil, err
	}
	created, err := s.client.CreateStudent(ctx, student)
	if err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	s.logger.Info("student created", "matricula", created.Matricula)
	s.reloadDirectory(ctx)
	return created, nil
}

// ImportStudents registers a batch of students.
func (s *CatalogService) ImportStudents(ctx context.Context, students []domain.Student) (*api.BatchResult, error) {
	for i := range students {
		if err := s.validator.Validate(&students[i]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	result, err := s.client.CreateStudentsBatch(ctx, students)
	if err != nil {
		return nil, fmt.Errorf("import students: %w", err)
	}
	s.reloadDirectory(ctx)
	return result, nil
}

// UpdateStudent validates and updates a student record.
func (s *CatalogService) UpdateStudent(ctx context.Context, matricula string, student *domain.Student) (*domain.Student, error) {
	if err := s.validator.Validate(student); err != nil {
		return nil, err
	}
	updated, err := s.client.UpdateStudent(ctx, matricula, student)
	if err != nil {
		return nil, fmt.Errorf("update student: %w", err)
	}
	s.reloadDirectory(ctx)
	return updated, nil
}

// DeleteStudent removes a student record.
func (s *CatalogService) DeleteStudent(ctx context.Context, matricula string) error {
	if err := s.client.DeleteStudent(ctx, matricula); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	s.logger.Info("student deleted", "matricula", matricula)
	s.reloadDirectory(ctx)
	return nil
}

// reloadDirectory refreshes the typeahead snapshot after a mutation.
// Failure leaves the previous snapshot in place, which is no worse than
// not reloading.
func (s *CatalogService) reloadDirectory(ctx context.Context) {
	if err := s.directory.Reload(ctx); err != nil {
		s.logger.Warn("directory reload failed", "error", err)
	}
}
