package repository

import (
	"context"
	"time"

	"materiel-lending-backend/internal/domain"
)

type MaterielRepository interface {
	Create(ctx context.Context, m *domain.Materiel) error
	GetByID(ctx context.Context, id int32) (*domain.Materiel, error)
	Update(ctx context.Context, m *domain.Materiel) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context) ([]domain.Materiel, error)
	Stats(ctx context.Context) (*domain.MaterielStats, error)

	// Inventory ledger. Both are single conditional statements so that
	// concurrent callers on the same materiel cannot over-commit units.
	ReserveUnit(ctx context.Context, id int32) error
	ReleaseUnit(ctx context.Context, id int32) error
}

type LoanRepository interface {
	Create(ctx context.Context, l *domain.Loan) error
	GetByID(ctx context.Context, id int32) (*domain.Loan, error)
	Update(ctx context.Context, l *domain.Loan) error

	// Close sets the return fields only if the loan is still open and
	// reports whether this call performed the transition, along with the
	// materiel the loan held at close time. A false result on an existing
	// loan means it was already closed.
	Close(ctx context.Context, id int32, returnTime string, actualReturnDate time.Time) (materielID int32, closed bool, err error)

	// Delete removes the loan and reports whether it was still open, along
	// with the materiel it referenced at delete time.
	Delete(ctx context.Context, id int32) (materielID int32, wasOpen bool, err error)

	List(ctx context.Context, f domain.LoanFilters, page, pageSize int32) ([]domain.Loan, int32, error)
	Count(ctx context.Context) (int32, error)
	CountOpenByMateriel(ctx context.Context, materielID int32) (int32, error)
	Stats(ctx context.Context, overdueCutoff time.Time) (*domain.LoanStats, error)

	// ListOverdueCandidates returns the open loans that have an expected
	// return date, the detection pass's working set.
	ListOverdueCandidates(ctx context.Context) ([]domain.Loan, error)
}

type AlertRepository interface {
	Create(ctx context.Context, a *domain.OverdueAlert) error
	GetByLoanID(ctx context.Context, loanID int32) (*domain.OverdueAlert, error)
	Update(ctx context.Context, a *domain.OverdueAlert) error
	ListActive(ctx context.Context) ([]domain.OverdueAlert, error)

	// Resolve marks every non-resolved alert for the loan as resolved and
	// returns the number of alerts transitioned.
	Resolve(ctx context.Context, loanID int32, at time.Time) (int64, error)

	DeleteByLoanID(ctx context.Context, loanID int32) error

	// PurgeResolved permanently removes alerts resolved before the cutoff.
	PurgeResolved(ctx context.Context, olderThan time.Time) (int64, error)
}
