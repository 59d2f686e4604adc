package sequencer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biblioteca-app/circ/internal/domain"
	"github.com/biblioteca-app/circ/internal/errors"
)

// fakeAPI records the call order so tests can assert step sequencing.
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	sweepErr    error
	overdue     []domain.Loan
	overdueErr  error
	finePaidErr error
	forgivenErr error
	returnErr   error
	returned    *domain.Loan
	cancelErr   error
	queue       []domain.Reservation
	queueErr    error

	returnStarted chan struct{}
	returnRelease chan struct{}
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeAPI) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeAPI) SweepOverdue(context.Context) error {
	f.record("sweep")
	return f.sweepErr
}

func (f *fakeAPI) ListOverdueLoans(context.Context) ([]domain.Loan, error) {
	f.record("list-overdue")
	return f.overdue, f.overdueErr
}

func (f *fakeAPI) MarkFinePaid(_ context.Context, id int64) error {
	f.record(fmt.Sprintf("fine-paid/%d", id))
	return f.finePaidErr
}

func (f *fakeAPI) MarkFineForgiven(_ context.Context, id int64) error {
	f.record(fmt.Sprintf("fine-forgiven/%d", id))
	return f.forgivenErr
}

func (f *fakeAPI) ReturnLoan(_ context.Context, id int64, _ domain.Time) (*domain.Loan, error) {
	f.record(fmt.Sprintf("return/%d", id))
	if f.returnStarted != nil {
		f.returnStarted <- struct{}{}
		<-f.returnRelease
	}
	if f.returnErr != nil {
		return nil, f.returnErr
	}
	if f.returned != nil {
		return f.returned, nil
	}
	return &domain.Loan{ID: id, Status: domain.LoanReturned}, nil
}

func (f *fakeAPI) CancelReservation(_ context.Context, id int64) error {
	f.record(fmt.Sprintf("cancel/%d", id))
	return f.cancelErr
}

func (f *fakeAPI) ListBookReservations(_ context.Context, isbn string) ([]domain.Reservation, error) {
	f.record("queue/" + isbn)
	return f.queue, f.queueErr
}

func newSequencer(api API) *Sequencer {
	return New(api, slog.New(slog.DiscardHandler))
}

func TestRefreshOverdueSweepsBeforeListing(t *testing.T) {
	api := &fakeAPI{overdue: []domain.Loan{{ID: 1, Status: domain.LoanOverdue}}}
	s := newSequencer(api)

	report, err := s.RefreshOverdue(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"sweep", "list-overdue"}, api.callLog())
	assert.Len(t, report.Loans, 1)
	assert.NoError(t, report.SweepErr)
}

func TestRefreshOverdueSweepFailureStillLists(t *testing.T) {
	api := &fakeAPI{
		sweepErr: fmt.Errorf("sweep exploded"),
		overdue:  []domain.Loan{{ID: 1}, {ID: 2}},
	}
	s := newSequencer(api)

	report, err := s.RefreshOverdue(context.Background())

	require.NoError(t, err)
	assert.Error(t, report.SweepErr)
	assert.Len(t, report.Loans, 2)
	assert.Equal(t, []string{"sweep", "list-overdue"}, api.callLog())
}

func TestRefreshOverdueListFailure(t *testing.T) {
	api := &fakeAPI{overdueErr: fmt.Errorf("list down")}
	s := newSequencer(api)

	_, err := s.RefreshOverdue(context.Background())
	assert.Error(t, err)
}

func TestReturnWithoutFineSkipsSettlement(t *testing.T) {
	api := &fakeAPI{}
	s := newSequencer(api)

	loan := domain.Loan{ID: 7, BookISBN: "111"}
	returned, err := s.ReturnWithSettlement(context.Background(), loan, SettleNone, domain.Time{})

	require.NoError(t, err)
	assert.Equal(t, domain.LoanReturned, returned.Status)
	assert.Equal(t, []string{"return/7"}, api.callLog())
}

func TestReturnSettlesPaidFineFirst(t *testing.T) {
	api := &fakeAPI{}
	s := newSequencer(api)

	loan := domain.Loan{ID: 7, FineAmount: 1250, FineStatus: domain.FinePending}
	_, err := s.ReturnWithSettlement(context.Background(), loan, SettlePaid, domain.Time{})

	require.NoError(t, err)
	assert.Equal(t, []string{"fine-paid/7", "return/7"}, api.callLog())
}

func TestReturnForgivesLargeFineFirst(t *testing.T) {
	api := &fakeAPI{}
	s := newSequencer(api)

	loan := domain.Loan{ID: 9, FineAmount: 5000, FineStatus: domain.FinePending}
	_, err := s.ReturnWithSettlement(context.Background(), loan, SettleForgiven, domain.Time{})

	require.NoError(t, err)
	assert.Equal(t, []string{"fine-forgiven/9", "return/9"}, api.callLog())
}

func TestSettlementFailureBlocksReturn(t *testing.T) {
	api := &fakeAPI{finePaidErr: fmt.Errorf("payment endpoint down")}
	s := newSequencer(api)

	loan := domain.Loan{ID: 7, FineAmount: 10, FineStatus: domain.FinePending}
	_, err := s.ReturnWithSettlement(context.Background(), loan, SettlePaid, domain.Time{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settling fine on loan 7")
	assert.Equal(t, []string{"fine-paid/7"}, api.callLog())
}

func TestUnsettledFineWithoutChoiceRejected(t *testing.T) {
	api := &fakeAPI{}
	s := newSequencer(api)

	loan := domain.Loan{ID: 7, FineAmount: 10, FineStatus: domain.FinePending}
	_, err := s.ReturnWithSettlement(context.Background(), loan, SettleNone, domain.Time{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPrecondition))
	assert.Empty(t, api.callLog())
}

func TestAlreadySettledFineReturnsDirectly(t *testing.T) {
	api := &fakeAPI{}
	s := newSequencer(api)

	loan := domain.Loan{ID: 7, FineAmount: 10, FineStatus: domain.FinePaid}
	_, err := s.ReturnWithSettlement(context.Background(), loan, SettleNone, domain.Time{})

	require.NoError(t, err)
	assert.Equal(t, []string{"return/7"}, api.callLog())
}

func TestConcurrentReturnOfSameLoanRejected(t *testing.T) {
	api := &fakeAPI{
		returnStarted: make(chan struct{}, 1),
		returnRelease: make(chan struct{}),
	}
	s := newSequencer(api)
	loan := domain.Loan{ID: 7}

	done := make(chan error, 1)
	go func() {
		_, err := s.ReturnWithSettlement(context.Background(), loan, SettleNone, domain.Time{})
		done <- err
	}()
	<-api.returnStarted

	_, err := s.ReturnWithSettlement(context.Background(), loan, SettleNone, domain.Time{})
	assert.True(t, errors.Is(err, errors.ErrConflict))

	close(api.returnRelease)
	require.NoError(t, <-done)
}

func TestCancelReservationRefetchesQueue(t *testing.T) {
	api := &fakeAPI{
		queue: []domain.Reservation{
			{ID: 2, QueuePosition: 1},
			{ID: 3, QueuePosition: 2},
		},
	}
	s := newSequencer(api)

	queue, err := s.CancelReservation(context.Background(), 1, "111")

	require.NoError(t, err)
	assert.Equal(t, []string{"cancel/1", "queue/111"}, api.callLog())
	require.Len(t, queue, 2)
	assert.Equal(t, 1, queue[0].QueuePosition)
}

func TestCancelFailureStillRefetchesQueue(t *testing.T) {
	api := &fakeAPI{
		cancelErr: errors.NotFound("reservation gone"),
		queue:     []domain.Reservation{{ID: 2, QueuePosition: 1}},
	}
	s := newSequencer(api)

	queue, err := s.CancelReservation(context.Background(), 1, "111")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
	assert.Equal(t, []string{"cancel/1", "queue/111"}, api.callLog())
	assert.Len(t, queue, 1)
}
