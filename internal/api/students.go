package api

import (
	"context"
	"net/url"

	"github.com/biblioteca-app/circ/internal/domain"
)

// ListStudents fetches all registered students.
func (c *Client) ListStudents(ctx context.Context) ([]domain.Student, error) {
	var students []domain.Student
	if err := c.get(ctx, "/students", &students); err != nil {
		return nil, err
	}
	return students, nil
}

// GetStudent fetches one student by matricula.
func (c *Client) GetStudent(ctx context.Context, matricula string) (*domain.Student, error) {
	var student domain.Student
	if err := c.get(ctx, "/students/"+url.PathEscape(matricula), &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// CreateStudent registers a new student. The service rejects duplicate
// matricula, CPF, or email with a conflict.
func (c *Client) CreateStudent(ctx context.Context, student *domain.Student) (*domain.Student, error) {
	var created domain.Student
	if err := c.post(ctx, "/students", student, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateStudentsBatch registers several students in one call.
func (c *Client) CreateStudentsBatch(ctx context.Context, students []domain.Student) (*BatchResult, error) {
	var result BatchResult
	if err := c.post(ctx, "/students/batch", students, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateStudent replaces a student's attributes.
func (c *Client) UpdateStudent(ctx context.Context, matricula string, student *domain.Student) (*domain.Student, error) {
	var updated domain.Student
	if err := c.put(ctx, "/students/"+url.PathEscape(matricula), student, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteStudent removes a student record.
func (c *Client) DeleteStudent(ctx context.Context, matricula string) error {
	return c.delete(ctx, "/students/"+url.PathEscape(matricula))
}
