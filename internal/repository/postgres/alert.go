package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"materiel-lending-backend/internal/domain"
	"materiel-lending-backend/internal/repository"
)

type alertRepository struct {
	db *sql.DB
}

func NewAlertRepository(db *sql.DB) repository.AlertRepository {
	return &alertRepository{db: db}
}

const alertColumns = `id, loan_id, matricule, borrower_name, materiel_name, expected_return_date, days_overdue, status, history, created_on, updated_on, resolved_on`

func (r *alertRepository) Create(ctx context.Context, a *domain.OverdueAlert) error {
	history, err := json.Marshal(a.History)
	if err != nil {
		return err
	}
	query := `INSERT INTO overdue_alerts (loan_id, matricule, borrower_name, materiel_name, expected_return_date, days_overdue, status, history, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	now := time.Now()
	a.CreatedOn = now
	a.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query, a.LoanID, a.Matricule, a.BorrowerName, a.MaterielName, a.ExpectedReturnDate, a.DaysOverdue, a.Status, history, now, now).Scan(&a.ID)
}

func (r *alertRepository) GetByLoanID(ctx context.Context, loanID int32) (*domain.OverdueAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM overdue_alerts WHERE loan_id = $1`
	a, err := scanAlert(r.db.QueryRowContext(ctx, query, loanID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return a, err
}

func (r *alertRepository) Update(ctx context.Context, a *domain.OverdueAlert) error {
	history, err := json.Marshal(a.History)
	if err != nil {
		return err
	}
	query := `UPDATE overdue_alerts SET days_overdue=$1, status=$2, history=$3, updated_on=$4, resolved_on=$5 WHERE id=$6`
	result, err := r.db.ExecContext(ctx, query, a.DaysOverdue, a.Status, history, time.Now(), a.ResolvedOn, a.ID)
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

func (r *alertRepository) ListActive(ctx context.Context) ([]domain.OverdueAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM overdue_alerts WHERE status = $1 ORDER BY days_overdue DESC, created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, domain.AlertStatusActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []domain.OverdueAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *a)
	}
	return alerts, rows.Err()
}

// Resolve transitions every non-resolved alert for the loan in one
// statement, appending the audit entry to the history column in place.
func (r *alertRepository) Resolve(ctx context.Context, loanID int32, at time.Time) (int64, error) {
	event, err := json.Marshal([]domain.AlertEvent{{
		At:     at,
		Status: domain.AlertStatusResolved,
		Note:   "loan closed",
	}})
	if err != nil {
		return 0, err
	}
	query := `UPDATE overdue_alerts
	          SET status=$2, resolved_on=$3, updated_on=$3, history = history || $4::jsonb
	          WHERE loan_id=$1 AND status <> $2`
	result, err := r.db.ExecContext(ctx, query, loanID, domain.AlertStatusResolved, at, event)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *alertRepository) DeleteByLoanID(ctx context.Context, loanID int32) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM overdue_alerts WHERE loan_id = $1`, loanID)
	return err
}

func (r *alertRepository) PurgeResolved(ctx context.Context, olderThan time.Time) (int64, error) {
	query := `DELETE FROM overdue_alerts WHERE status = $1 AND resolved_on < $2`
	result, err := r.db.ExecContext(ctx, query, domain.AlertStatusResolved, olderThan)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanAlert(row rowScanner) (*domain.OverdueAlert, error) {
	a := &domain.OverdueAlert{}
	var history []byte
	if err := row.Scan(&a.ID, &a.LoanID, &a.Matricule, &a.BorrowerName, &a.MaterielName, &a.ExpectedReturnDate, &a.DaysOverdue, &a.Status, &history, &a.CreatedOn, &a.UpdatedOn, &a.ResolvedOn); err != nil {
		return nil, err
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &a.History); err != nil {
			return nil, err
		}
	}
	return a, nil
}
