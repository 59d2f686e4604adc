package api

import (
	"context"
	"net/url"

	"github.com/biblioteca-app/circ/internal/domain"
)

// BookAvailabilityDetail is the catalog-side availability report for one
// book, richer than the loan-side boolean check.
type BookAvailabilityDetail struct {
	BookISBN    string `json:"bookIsbn"`
	BookTitle   string `json:"bookTitle"`
	BookAuthor  string `json:"bookAuthor"`
	Quantity    int    `json:"quantity"`
	IsAvailable bool   `json:"isAvailable"`
}

// BatchResult reports how a batch create fared per record.
type BatchResult struct {
	Created int      `json:"created"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// ListBooks fetches the full catalog.
func (c *Client) ListBooks(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	if err := c.get(ctx, "/books", &books); err != nil {
		return nil, err
	}
	return books, nil
}

// GetBook fetches one book by ISBN.
func (c *Client) GetBook(ctx context.Context, isbn string) (*domain.Book, error) {
	var book domain.Book
	if err := c.get(ctx, "/books/"+url.PathEscape(isbn), &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// CreateBook registers a new catalog entry.
func (c *Client) CreateBook(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	var created domain.Book
	if err := c.post(ctx, "/books", book, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateBooksBatch registers several books in one call.
func (c *Client) CreateBooksBatch(ctx context.Context, books []domain.Book) (*BatchResult, error) {
	var result BatchResult
	if err := c.post(ctx, "/books/batch", books, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateBook replaces a book's attributes.
func (c *Client) UpdateBook(ctx context.Context, isbn string, book *domain.Book) (*domain.Book, error) {
	var updated domain.Book
	if err := c.put(ctx, "/books/"+url.PathEscape(isbn), book, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteBook removes a book from the catalog.
func (c *Client) DeleteBook(ctx context.Context, isbn string) error {
	return c.delete(ctx, "/books/"+url.PathEscape(isbn))
}

// BookAvailability fetches the detailed availability record for one book.
func (c *Client) BookAvailability(ctx context.Context, isbn string) (*BookAvailabilityDetail, error) {
	var detail BookAvailabilityDetail
	if err := c.get(ctx, "/books/"+url.PathEscape(isbn)+"/availability", &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}
