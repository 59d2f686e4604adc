package service

import (
	"context"
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biblioteca-app/circ/internal/api"
	"github.com/biblioteca-app/circ/internal/config"
	"github.com/biblioteca-app/circ/internal/directory"
	"github.com/biblioteca-app/circ/internal/domain"
	"github.com/biblioteca-app/circ/internal/errors"
	"github.com/biblioteca-app/circ/internal/sequencer"
	"github.com/biblioteca-app/circ/internal/validation"
)

// fakeLibrary is an in-memory stand-in for the remote service, just
// rich enough for the flows under test.
type fakeLibrary struct {
	mu       sync.Mutex
	books    []domain.Book
	students []domain.Student
	loans    map[int64]*domain.Loan
	calls    []string
}

func newFakeLibrary() *fakeLibrary {
	return &fakeLibrary{
		books: []domain.Book{
			{ISBN: "111", Title: "Dom Casmurro", Author: "Machado de Assis", Quantity: 2},
			{ISBN: "222", Title: "Memórias Póstumas de Brás Cubas", Author: "Machado de Assis", Quantity: 1},
			{ISBN: "333", Title: "O Cortiço", Author: "Aluísio Azevedo", Quantity: 1},
		},
		students: []domain.Student{
			{Matricula: "2024001", Name: "Ana Souza", CPF: "12345678901", Email: "ana@escola.br"},
			{Matricula: "2024002", Name: "José Oliveira", CPF: "98765432109", Email: "jose@escola.br"},
		},
		loans: make(map[int64]*domain.Loan),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	data, _ := json.Marshal(v)
	w.Write(data)
}

func (f *fakeLibrary) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/books", func(w http.ResponseWriter, _ *http.Request) {
		f.record("list-books")
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, f.books)
	})
	mux.HandleFunc("GET /api/students", func(w http.ResponseWriter, _ *http.Request) {
		f.record("list-students")
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, f.students)
	})
	mux.HandleFunc("GET /api/loans/books/{isbn}/availability", func(w http.ResponseWriter, r *http.Request) {
		f.record("availability/" + r.PathValue("isbn"))
		writeJSON(w, true)
	})
	mux.HandleFunc("GET /api/loans/students/{matricula}/can-borrow", func(w http.ResponseWriter, r *http.Request) {
		f.record("can-borrow/" + r.PathValue("matricula"))
		writeJSON(w, true)
	})
	mux.HandleFunc("POST /api/loans", func(w http.ResponseWriter, r *http.Request) {
		f.record("create-loan")
		var req api.CreateLoanRequest
		if err := json.UnmarshalRead(r.Body, &req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		id := int64(len(f.loans) + 1)
		loan := &domain.Loan{
			ID:               id,
			StudentMatricula: req.StudentMatricula,
			BookISBN:         req.BookISBN,
			Status:           domain.LoanActive,
		}
		f.loans[id] = loan
		writeJSON(w, loan)
	})
	mux.HandleFunc("PUT /api/loans/{id}/fine/paid", func(w http.ResponseWriter, r *http.Request) {
		f.record("fine-paid/" + r.PathValue("id"))
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("PUT /api/loans/{id}/fine/forgiven", func(w http.ResponseWriter, r *http.Request) {
		f.record("fine-forgiven/" + r.PathValue("id"))
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("PUT /api/loans/{id}/return", func(w http.ResponseWriter, r *http.Request) {
		f.record("return/" + r.PathValue("id"))
		writeJSON(w, domain.Loan{ID: 1, StudentMatricula: "m", BookISBN: "i", Status: domain.LoanReturned})
	})
	mux.HandleFunc("GET /api/loans/check-overdue", func(w http.ResponseWriter, _ *http.Request) {
		f.record("sweep")
		writeJSON(w, "0 loans marked overdue")
	})
	mux.HandleFunc("GET /api/loans/overdue", func(w http.ResponseWriter, _ *http.Request) {
		f.record("list-overdue")
		writeJSON(w, []domain.Loan{{ID: 9, Status: domain.LoanOverdue, OverdueDays: 4}})
	})
	mux.HandleFunc("DELETE /api/reservations/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.record("cancel/" + r.PathValue("id"))
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/reservations/book/{isbn}", func(w http.ResponseWriter, r *http.Request) {
		f.record("queue/" + r.PathValue("isbn"))
		writeJSON(w, []domain.Reservation{
			{ID: 5, BookISBN: r.PathValue("isbn"), QueuePosition: 1, Status: domain.ReservationActive},
		})
	})
	mux.HandleFunc("POST /api/books", func(w http.ResponseWriter, r *http.Request) {
		f.record("create-book")
		var b domain.Book
		if err := json.UnmarshalRead(r.Body, &b); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.books = append(f.books, b)
		f.mu.Unlock()
		writeJSON(w, b)
	})
	mux.HandleFunc("POST /api/books/batch", func(w http.ResponseWriter, r *http.Request) {
		f.record("create-books-batch")
		var books []domain.Book
		if err := json.UnmarshalRead(r.Body, &books); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		f.books = append(f.books, books...)
		f.mu.Unlock()
		writeJSON(w, api.BatchResult{Created: len(books)})
	})
	mux.HandleFunc("GET /api/reservations/student/{matricula}", func(w http.ResponseWriter, r *http.Request) {
		f.record("student-reservations/" + r.PathValue("matricula"))
		writeJSON(w, []domain.Reservation{
			{ID: 8, BookISBN: "222", StudentMatricula: r.PathValue("matricula"), QueuePosition: 1, Status: domain.ReservationActive},
		})
	})

	return mux
}

func (f *fakeLibrary) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeLibrary) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

type fixture struct {
	lib    *fakeLibrary
	client *api.Client
	dir    *directory.Directory
}

func setupTest(t *testing.T) *fixture {
	t.Helper()
	lib := newFakeLibrary()
	srv := httptest.NewServer(lib.handler())
	t.Cleanup(srv.Close)

	logger := slog.New(slog.DiscardHandler)
	client := api.New(config.ServiceConfig{
		BaseURL:           srv.URL + "/api",
		Timeout:           5 * time.Second,
		RequestsPerSecond: 1000,
		Burst:             100,
	}, logger)

	return &fixture{
		lib:    lib,
		client: client,
		dir:    directory.New(client, 0, logger),
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never became true")
}

func TestNewLoanFlow(t *testing.T) {
	fx := setupTest(t)
	logger := slog.New(slog.DiscardHandler)
	svc := NewCirculationService(fx.client, fx.dir, logger)

	require.NoError(t, svc.Start(context.Background()))

	// Operator types "machado", picks Dom Casmurro.
	svc.Books().Type("machado")
	suggestions := svc.Books().Suggestions()
	require.Len(t, suggestions, 2)
	assert.Equal(t, "Dom Casmurro", suggestions[0].Title)
	svc.Books().Choose(0)

	// Picking starts the advisory availability probe.
	waitFor(t, func() bool {
		r := svc.BookEligibility()
		return !r.Unknown && r.Key == "111"
	})
	assert.True(t, svc.BookEligibility().Eligible)

	svc.Students().Type("ana")
	svc.Students().Choose(0)
	waitFor(t, func() bool {
		r := svc.StudentEligibility()
		return !r.Unknown && r.Key == "2024001"
	})

	loan, err := svc.SubmitLoan(context.Background(), domain.Time{})
	require.NoError(t, err)
	assert.Equal(t, "111", loan.BookISBN)
	assert.Equal(t, "2024001", loan.StudentMatricula)

	// Submission resets both pickers for the next loan.
	assert.Nil(t, svc.Books().Selection())
	assert.Nil(t, svc.Students().Selection())
}

func TestSubmitLoanRequiresBothSelections(t *testing.T) {
	fx := setupTest(t)
	svc := NewCirculationService(fx.client, fx.dir, slog.New(slog.DiscardHandler))
	require.NoError(t, svc.Start(context.Background()))

	svc.Books().Type("machado")
	svc.Books().Choose(0)

	_, err := svc.SubmitLoan(context.Background(), domain.Time{})
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestReturnWithFineSettlesBeforeReturn(t *testing.T) {
	fx := setupTest(t)
	logger := slog.New(slog.DiscardHandler)
	seq := sequencer.New(fx.client, logger)
	svc := NewLoanService(fx.client, seq, logger)

	loan := domain.Loan{ID: 1, BookISBN: "111", FineAmount: 1250, FineStatus: domain.FinePending}
	returned, err := svc.Return(context.Background(), loan, true)

	require.NoError(t, err)
	assert.Equal(t, domain.LoanReturned, returned.Status)
	assert.Equal(t, []string{"fine-paid/1", "return/1"}, fx.lib.callLog())
}

func TestReturnForgivingFine(t *testing.T) {
	fx := setupTest(t)
	logger := slog.New(slog.DiscardHandler)
	seq := sequencer.New(fx.client, logger)
	svc := NewLoanService(fx.client, seq, logger)

	loan := domain.Loan{ID: 1, BookISBN: "111", FineAmount: 5000, FineStatus: domain.FinePending}
	_, err := svc.Return(context.Background(), loan, false)

	require.NoError(t, err)
	assert.Equal(t, []string{"fine-forgiven/1", "return/1"}, fx.lib.callLog())
}

func TestOverdueSweepsThenLists(t *testing.T) {
	fx := setupTest(t)
	logger := slog.New(slog.DiscardHandler)
	svc := NewLoanService(fx.client, sequencer.New(fx.client, logger), logger)

	report, err := svc.Overdue(context.Background())

	require.NoError(t, err)
	assert.NoError(t, report.SweepErr)
	require.Len(t, report.Loans, 1)
	assert.Equal(t, 4, report.Loans[0].OverdueDays)
	assert.Equal(t, []string{"sweep", "list-overdue"}, fx.lib.callLog())
}

func TestCancelReservationRefreshesQueue(t *testing.T) {
	fx := setupTest(t)
	logger := slog.New(slog.DiscardHandler)
	svc := NewReservationService(fx.client, sequencer.New(fx.client, logger), logger)

	queue, err := svc.Cancel(context.Background(), 4, "111")

	require.NoError(t, err)
	assert.Equal(t, []string{"cancel/4", "queue/111"}, fx.lib.callLog())
	require.Len(t, queue, 1)
	assert.Equal(t, 1, queue[0].QueuePosition)
}

func TestCreateBookValidatesLocally(t *testing.T) {
	fx := setupTest(t)
	logger := slog.New(slog.DiscardHandler)
	svc := NewCatalogService(fx.client, validation.New(), fx.dir, logger)

	_, err := svc.CreateBook(context.Background(), &domain.Book{Title: "Sem ISBN"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.Contains(t, err.Error(), "isbn")
	assert.NotContains(t, fx.lib.callLog(), "create-book")
}

func TestCreateBookRefreshesDirectory(t *testing.T) {
	fx := setupTest(t)
	logger := slog.New(slog.DiscardHandler)
	svc := NewCatalogService(fx.client, validation.New(), fx.dir, logger)
	require.NoError(t, fx.dir.Load(context.Background()))

	_, err := svc.CreateBook(context.Background(), &domain.Book{
		ISBN:   "444",
		Title:  "Vidas Secas",
		Author: "Graciliano Ramos",
	})

	require.NoError(t, err)
	assert.Len(t, fx.dir.SearchBooks("vidas secas"), 1)
}

func TestImportBooksBatchValidatesEveryRow(t *testing.T) {
	fx := setupTest(t)
	logger := slog.New(slog.DiscardHandler)
	svc := NewCatalogService(fx.client, validation.New(), fx.dir, logger)

	_, err := svc.ImportBooks(context.Background(), []domain.Book{
		{ISBN: "444", Title: "Vidas Secas", Author: "Graciliano Ramos"},
		{Title: "Sem ISBN"},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.NotContains(t, fx.lib.callLog(), "create-books-batch")
}

func TestImportBooksBatchReportsPerRowOutcome(t *testing.T) {
	fx := setupTest(t)
	logger := slog.New(slog.DiscardHandler)
	svc := NewCatalogService(fx.client, validation.New(), fx.dir, logger)

	result, err := svc.ImportBooks(context.Background(), []domain.Book{
		{ISBN: "444", Title: "Vidas Secas", Author: "Graciliano Ramos"},
		{ISBN: "555", Title: "Capitães da Areia", Author: "Jorge Amado"},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Contains(t, fx.lib.callLog(), "create-books-batch")
}

func TestStudentReservations(t *testing.T) {
	fx := setupTest(t)
	logger := slog.New(slog.DiscardHandler)
	svc := NewReservationService(fx.client, sequencer.New(fx.client, logger), logger)

	reservations, err := svc.ForStudent(context.Background(), "2024001")

	require.NoError(t, err)
	require.Len(t, reservations, 1)
	assert.Equal(t, "2024001", reservations[0].StudentMatricula)
}

func TestCreateStudentValidatesCPFAndEmail(t *testing.T) {
	fx := setupTest(t)
	svc := NewCatalogService(fx.client, validation.New(), fx.dir, slog.New(slog.DiscardHandler))

	_, err := svc.CreateStudent(context.Background(), &domain.Student{
		Matricula: "2024003",
		Name:      "Novo Aluno",
		CPF:       "123",
		Email:     "not-an-email",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cpf")
	assert.Contains(t, err.Error(), "email")
}
