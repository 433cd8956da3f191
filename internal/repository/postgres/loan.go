package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"materiel-lending-backend/internal/domain"
	"materiel-lending-backend/internal/repository"
)

type loanRepository struct {
	db *sql.DB
}

func NewLoanRepository(db *sql.DB) repository.LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `id, matricule, borrower_name, level, materiel_id, checkout_date, expected_return_date, checkout_time, return_time, actual_return_date, created_on, updated_on`

func (r *loanRepository) Create(ctx context.Context, l *domain.Loan) error {
	query := `INSERT INTO loans (matricule, borrower_name, level, materiel_id, checkout_date, expected_return_date, checkout_time, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, l.Matricule, l.BorrowerName, l.Level, l.MaterielID, l.CheckoutDate, l.ExpectedReturnDate, l.CheckoutTime, now, now).Scan(&l.ID)
}

func (r *loanRepository) GetByID(ctx context.Context, id int32) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	l, err := scanLoan(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return l, err
}

func (r *loanRepository) Update(ctx context.Context, l *domain.Loan) error {
	query := `UPDATE loans SET matricule=$1, borrower_name=$2, level=$3, materiel_id=$4, checkout_date=$5, expected_return_date=$6, checkout_time=$7, return_time=$8, actual_return_date=$9, updated_on=$10 WHERE id=$11`
	result, err := r.db.ExecContext(ctx, query, l.Matricule, l.BorrowerName, l.Level, l.MaterielID, l.CheckoutDate, l.ExpectedReturnDate, l.CheckoutTime, l.ReturnTime, l.ActualReturnDate, time.Now(), l.ID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Close records the return only if the loan is still open. The guard in
// the WHERE clause makes close-then-release at-most-once under concurrent
// return attempts, and RETURNING hands back the materiel whose unit the
// loan was holding at close time.
func (r *loanRepository) Close(ctx context.Context, id int32, returnTime string, actualReturnDate time.Time) (int32, bool, error) {
	query := `UPDATE loans SET return_time=$2, actual_return_date=$3, updated_on=$4
	          WHERE id=$1 AND return_time IS NULL RETURNING materiel_id`
	var materielID int32
	err := r.db.QueryRowContext(ctx, query, id, returnTime, actualReturnDate, time.Now()).Scan(&materielID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return materielID, true, nil
}

func (r *loanRepository) Delete(ctx context.Context, id int32) (int32, bool, error) {
	query := `DELETE FROM loans WHERE id = $1 RETURNING materiel_id, return_time IS NULL`
	var materielID int32
	var wasOpen bool
	err := r.db.QueryRowContext(ctx, query, id).Scan(&materielID, &wasOpen)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, domain.ErrNotFound
	}
	if err != nil {
		return 0, false, err
	}
	return materielID, wasOpen, nil
}

func (r *loanRepository) List(ctx context.Context, f domain.LoanFilters, page, pageSize int32) ([]domain.Loan, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + loanColumns + ` FROM loans WHERE 1=1`

	var args []interface{}
	argIdx := 1
	if f.Matricule != "" {
		query += fmt.Sprintf(" AND matricule = $%d", argIdx)
		args = append(args, f.Matricule)
		argIdx++
	}
	if f.BorrowerName != "" {
		query += fmt.Sprintf(" AND borrower_name ILIKE '%%' || $%d || '%%'", argIdx)
		args = append(args, f.BorrowerName)
		argIdx++
	}
	if f.MaterielID != 0 {
		query += fmt.Sprintf(" AND materiel_id = $%d", argIdx)
		args = append(args, f.MaterielID)
		argIdx++
	}
	switch f.Status {
	case domain.LoanStatusOpen:
		query += " AND return_time IS NULL"
	case domain.LoanStatusClosed:
		query += " AND return_time IS NOT NULL"
	}
	if f.CheckoutFrom != nil {
		query += fmt.Sprintf(" AND checkout_date >= $%d", argIdx)
		args = append(args, *f.CheckoutFrom)
		argIdx++
	}
	if f.CheckoutTo != nil {
		query += fmt.Sprintf(" AND checkout_date <= $%d", argIdx)
		args = append(args, *f.CheckoutTo)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY checkout_date DESC, id DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, 0, err
		}
		loans = append(loans, *l)
	}
	return loans, count, rows.Err()
}

func (r *loanRepository) Count(ctx context.Context) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM loans`).Scan(&count)
	return count, err
}

func (r *loanRepository) CountOpenByMateriel(ctx context.Context, materielID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM loans WHERE materiel_id = $1 AND return_time IS NULL`, materielID).Scan(&count)
	return count, err
}

func (r *loanRepository) Stats(ctx context.Context, overdueCutoff time.Time) (*domain.LoanStats, error) {
	query := `SELECT count(*),
	                 count(*) FILTER (WHERE return_time IS NULL),
	                 count(*) FILTER (WHERE return_time IS NOT NULL),
	                 count(*) FILTER (WHERE return_time IS NULL AND expected_return_date IS NOT NULL AND expected_return_date <= $1)
	          FROM loans`
	st := &domain.LoanStats{}
	err := r.db.QueryRowContext(ctx, query, overdueCutoff).Scan(&st.TotalLoans, &st.OpenLoans, &st.ClosedLoans, &st.OverdueNow)
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (r *loanRepository) ListOverdueCandidates(ctx context.Context) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE return_time IS NULL AND expected_return_date IS NOT NULL ORDER BY expected_return_date ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, *l)
	}
	return loans, rows.Err()
}

func scanLoan(row rowScanner) (*domain.Loan, error) {
	l := &domain.Loan{}
	var createdOn, updatedOn time.Time
	if err := row.Scan(&l.ID, &l.Matricule, &l.BorrowerName, &l.Level, &l.MaterielID, &l.CheckoutDate, &l.ExpectedReturnDate, &l.CheckoutTime, &l.ReturnTime, &l.ActualReturnDate, &createdOn, &updatedOn); err != nil {
		return nil, err
	}
	l.CreatedOn = createdOn.Format("2006-01-02")
	l.UpdatedOn = updatedOn.Format("2006-01-02")
	return l, nil
}
