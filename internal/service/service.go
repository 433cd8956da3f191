package service

import (
	"context"
	"time"

	"materiel-lending-backend/internal/domain"
)

type MaterielService interface {
	CreateMateriel(ctx context.Context, m *domain.Materiel) error
	GetMateriel(ctx context.Context, id int32) (*domain.Materiel, error)
	UpdateMateriel(ctx context.Context, m *domain.Materiel) error
	DeleteMateriel(ctx context.Context, id int32) error
	ListMateriels(ctx context.Context) ([]domain.Materiel, error)
	GetMaterielStats(ctx context.Context) (*domain.MaterielStats, error)
}

// LoanUpdate carries a partial loan update. Nil pointers leave the field
// untouched; the Clear flags distinguish "set to null" from "not provided"
// for the nullable fields.
type LoanUpdate struct {
	Matricule           *string
	BorrowerName        *string
	Level               *string
	MaterielID          *int32
	CheckoutDate        *time.Time
	CheckoutTime        *string
	ExpectedReturnDate  *time.Time
	ClearExpectedReturn bool
	ReturnTime          *string
	ClearReturnTime     bool
	ActualReturnDate    *time.Time
}

type LoanService interface {
	CreateLoan(ctx context.Context, l *domain.Loan) error
	GetLoan(ctx context.Context, id int32) (*domain.Loan, error)
	UpdateLoan(ctx context.Context, id int32, upd LoanUpdate) (*domain.Loan, error)
	MarkReturned(ctx context.Context, id int32, returnTime string, returnDate *time.Time) (*domain.Loan, error)
	DeleteLoan(ctx context.Context, id int32) error
	ListLoans(ctx context.Context, f domain.LoanFilters, page, pageSize int32) ([]domain.Loan, int32, error)
	CountLoans(ctx context.Context) (int32, error)
	GetLoanStats(ctx context.Context) (*domain.LoanStats, error)
}

type AlertService interface {
	// DetectionPass walks the open loans and reconciles the alert table,
	// returning the number of loans currently overdue.
	DetectionPass(ctx context.Context) (int, error)
	Resolve(ctx context.Context, loanID int32) error
	ListActive(ctx context.Context) ([]domain.OverdueAlert, error)
	RetentionSweep(ctx context.Context) (int64, error)
}

type EmailService interface {
	SendOverdueAlertNotification(ctx context.Context, to, borrowerName, matricule, materielName string, daysOverdue int32) error
	SendLowStockNotification(ctx context.Context, to, materielName string, unitsLeft int32) error
}
