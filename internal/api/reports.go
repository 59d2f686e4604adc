package api

import "context"

// AvailabilityReport summarizes catalog stock.
type AvailabilityReport struct {
	TotalBooks             int64   `json:"totalBooks"`
	AvailableBooks         int64   `json:"availableBooks"`
	UnavailableBooks       int64   `json:"unavailableBooks"`
	AvailabilityPercentage float64 `json:"availabilityPercentage"`
	TotalCopiesInStock     int64   `json:"totalCopiesInStock"`
	TotalCopiesAvailable   int64   `json:"totalCopiesAvailable"`
}

// StudentMetricsReport summarizes borrower activity.
type StudentMetricsReport struct {
	TotalStudents                int64   `json:"totalStudents"`
	StudentsWithActiveLoans      int64   `json:"studentsWithActiveLoans"`
	StudentsWithOverdueLoans     int64   `json:"studentsWithOverdueLoans"`
	StudentsWithoutLoans         int64   `json:"studentsWithoutLoans"`
	AverageLoansPerStudent       float64 `json:"averageLoansPerStudent"`
	AverageOverdueDaysPerStudent float64 `json:"averageOverdueDaysPerStudent"`
	TotalActiveLoans             int64   `json:"totalActiveLoans"`
	TotalOverdueLoans            int64   `json:"totalOverdueLoans"`
}

// LoanStatisticsReport summarizes circulation volume and fines.
type LoanStatisticsReport struct {
	TotalLoans              int64   `json:"totalLoans"`
	ActiveLoans             int64   `json:"activeLoans"`
	ReturnedLoans           int64   `json:"returnedLoans"`
	OverdueLoans            int64   `json:"overdueLoans"`
	ActiveLoansPercentage   float64 `json:"activeLoansPercentage"`
	ReturnedLoansPercentage float64 `json:"returnedLoansPercentage"`
	OverdueLoansPercentage  float64 `json:"overdueLoansPercentage"`
	AverageOverdueValue     float64 `json:"averageOverdueValue"`
	TotalFinesCollected     int64   `json:"totalFinesCollected"`
	AverageLoanDurationDays float64 `json:"averageLoanDurationDays"`
}

// ReservationAnalyticsReport summarizes queue behavior.
type ReservationAnalyticsReport struct {
	TotalReservations        int64   `json:"totalReservations"`
	ActiveReservations       int64   `json:"activeReservations"`
	FulfilledReservations    int64   `json:"fulfilledReservations"`
	CancelledReservations    int64   `json:"cancelledReservations"`
	FulfillmentRate          float64 `json:"fulfillmentRate"`
	AverageQueuePosition     float64 `json:"averageQueuePosition"`
	BooksWithReservations    int64   `json:"booksWithReservations"`
	BooksWithFullQueue       int64   `json:"booksWithFullQueue"`
	AverageWaitTimeInDays    float64 `json:"averageWaitTimeInDays"`
	StudentsWithReservations int64   `json:"studentsWithReservations"`
}

// GetAvailabilityReport fetches the stock summary.
func (c *Client) GetAvailabilityReport(ctx context.Context) (*AvailabilityReport, error) {
	var report AvailabilityReport
	if err := c.get(ctx, "/reports/availability", &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetStudentMetrics fetches the borrower summary.
func (c *Client) GetStudentMetrics(ctx context.Context) (*StudentMetricsReport, error) {
	var report StudentMetricsReport
	if err := c.get(ctx, "/reports/student-metrics", &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetLoanStatistics fetches the circulation summary.
func (c *Client) GetLoanStatistics(ctx context.Context) (*LoanStatisticsReport, error) {
	var report LoanStatisticsReport
	if err := c.get(ctx, "/reports/loan-statistics", &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// GetReservationAnalytics fetches the queue summary.
func (c *Client) GetReservationAnalytics(ctx context.Context) (*ReservationAnalyticsReport, error) {
	var report ReservationAnalyticsReport
	if err := c.get(ctx, "/reports/reservation-analytics", &report); err != nil {
		return nil, err
	}
	return &report, nil
}
