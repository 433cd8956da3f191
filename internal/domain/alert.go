package domain

import "time"

type AlertStatus string

const (
	AlertStatusActive   AlertStatus = "ACTIVE"
	AlertStatusResolved AlertStatus = "RESOLVED"
)

// OverdueAlert materializes one loan's overdue condition. At most one
// alert exists per loan (loan_id is unique). Borrower and materiel fields
// are snapshots copied at creation time so the alert stays readable even
// if the underlying records change later.
type OverdueAlert struct {
	ID                 int32        `json:"id"`
	LoanID             int32        `json:"loan_id"`
	Matricule          string       `json:"matricule"`
	BorrowerName       string       `json:"borrower_name"`
	MaterielName       string       `json:"materiel_name"`
	ExpectedReturnDate time.Time    `json:"expected_return_date"`
	DaysOverdue        int32        `json:"days_overdue"`
	Status             AlertStatus  `json:"status"`
	History            []AlertEvent `json:"history"`
	CreatedOn          time.Time    `json:"created_on"`
	UpdatedOn          time.Time    `json:"updated_on"`
	ResolvedOn         *time.Time   `json:"resolved_on,omitempty"`
}

// AlertEvent is one entry in the alert's audit history, appended on every
// status or day-count change.
type AlertEvent struct {
	At          time.Time   `json:"at"`
	Status      AlertStatus `json:"status"`
	DaysOverdue int32       `json:"days_overdue"`
	Note        string      `json:"note,omitempty"`
}
