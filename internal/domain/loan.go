package domain

import "time"

// Loan links a borrower (student matricule) to one reserved unit of a
// materiel for a period. A loan is open while ReturnTime is unset; an open
// loan holds exactly one reserved unit on its materiel, a closed loan
// holds none.
type Loan struct {
	ID                 int32      `json:"id"`
	Matricule          string     `json:"matricule"`
	BorrowerName       string     `json:"borrower_name"`
	Level              string     `json:"level"`
	MaterielID         int32      `json:"materiel_id"`
	CheckoutDate       time.Time  `json:"checkout_date"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty"`
	CheckoutTime       string     `json:"checkout_time"`
	ReturnTime         *string    `json:"return_time,omitempty"`
	ActualReturnDate   *time.Time `json:"actual_return_date,omitempty"`
	CreatedOn          string     `json:"created_on"`
	UpdatedOn          string     `json:"updated_on"`
}

// Open reports whether the loan still holds its reservation.
func (l *Loan) Open() bool {
	return l.ReturnTime == nil
}

// LoanStatus values accepted by the search filters.
const (
	LoanStatusOpen   = "open"
	LoanStatusClosed = "closed"
)

// LoanFilters narrows List/Search results. Zero values mean "no filter".
type LoanFilters struct {
	Matricule    string
	BorrowerName string
	Status       string // open | closed | ""
	MaterielID   int32
	CheckoutFrom *time.Time
	CheckoutTo   *time.Time
}

// LoanStats summarizes loan activity for the dashboard endpoints.
type LoanStats struct {
	TotalLoans  int32 `json:"total_loans"`
	OpenLoans   int32 `json:"open_loans"`
	ClosedLoans int32 `json:"closed_loans"`
	OverdueNow  int32 `json:"overdue_now"`
}

// DaysOverdue returns the calendar-day distance between the loan's
// expected return date and now, both normalized to midnight UTC. Loans
// without an expected return date, closed loans, and loans not yet past
// their expected date report 0.
func (l *Loan) DaysOverdue(now time.Time) int32 {
	if l.ExpectedReturnDate == nil || !l.Open() {
		return 0
	}
	days := int32(midnight(now).Sub(midnight(*l.ExpectedReturnDate)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func midnight(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
