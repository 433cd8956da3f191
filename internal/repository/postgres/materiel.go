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

type materielRepository struct {
	db *sql.DB
}

func NewMaterielRepository(db *sql.DB) repository.MaterielRepository {
	return &materielRepository{db: db}
}

const materielColumns = `id, name, materiel_type, available_units, low_stock_threshold, specs, created_on, updated_on`

func (r *materielRepository) Create(ctx context.Context, m *domain.Materiel) error {
	specs, err := json.Marshal(m.Specs)
	if err != nil {
		return err
	}
	query := `INSERT INTO materiels (name, materiel_type, available_units, low_stock_threshold, specs, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, m.Name, m.MaterielType, m.AvailableUnits, m.LowStockThreshold, specs, now, now).Scan(&m.ID)
}

func (r *materielRepository) GetByID(ctx context.Context, id int32) (*domain.Materiel, error) {
	query := `SELECT ` + materielColumns + ` FROM materiels WHERE id = $1`
	m, err := scanMateriel(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return m, err
}

func (r *materielRepository) Update(ctx context.Context, m *domain.Materiel) error {
	specs, err := json.Marshal(m.Specs)
	if err != nil {
		return err
	}
	// available_units is deliberately absent: the counter belongs to
	// ReserveUnit/ReleaseUnit.
	query := `UPDATE materiels SET name=$1, materiel_type=$2, low_stock_threshold=$3, specs=$4, updated_on=$5 WHERE id=$6`
	result, err := r.db.ExecContext(ctx, query, m.Name, m.MaterielType, m.LowStockThreshold, specs, time.Now(), m.ID)
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

func (r *materielRepository) Delete(ctx context.Context, id int32) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM materiels WHERE id = $1`, id)
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

func (r *materielRepository) List(ctx context.Context) ([]domain.Materiel, error) {
	query := `SELECT ` + materielColumns + ` FROM materiels ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var materiels []domain.Materiel
	for rows.Next() {
		m, err := scanMateriel(rows)
		if err != nil {
			return nil, err
		}
		materiels = append(materiels, *m)
	}
	return materiels, rows.Err()
}

func (r *materielRepository) Stats(ctx context.Context) (*domain.MaterielStats, error) {
	query := `SELECT count(*),
	                 COALESCE(sum(available_units), 0),
	                 count(*) FILTER (WHERE available_units <= low_stock_threshold)
	          FROM materiels`
	st := &domain.MaterielStats{}
	err := r.db.QueryRowContext(ctx, query).Scan(&st.TotalMateriels, &st.TotalUnits, &st.LowStockCount)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// ReserveUnit decrements available_units by one. The stock guard in the
// WHERE clause makes the check-and-decrement a single atomic statement, so
// two concurrent reservations can never drive the counter negative.
func (r *materielRepository) ReserveUnit(ctx context.Context, id int32) error {
	query := `UPDATE materiels SET available_units = available_units - 1, updated_on = $2
	          WHERE id = $1 AND available_units > 0`
	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM materiels WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

// ReleaseUnit increments available_units by one. Callers must release at
// most once per reservation; the loan's conditional close/delete is that
// gate.
func (r *materielRepository) ReleaseUnit(ctx context.Context, id int32) error {
	query := `UPDATE materiels SET available_units = available_units + 1, updated_on = $2 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, time.Now())
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMateriel(row rowScanner) (*domain.Materiel, error) {
	m := &domain.Materiel{}
	var specs []byte
	var createdOn, updatedOn time.Time
	if err := row.Scan(&m.ID, &m.Name, &m.MaterielType, &m.AvailableUnits, &m.LowStockThreshold, &specs, &createdOn, &updatedOn); err != nil {
		return nil, err
	}
	m.CreatedOn = createdOn.Format("2006-01-02")
	m.UpdatedOn = updatedOn.Format("2006-01-02")
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &m.Specs); err != nil {
			return nil, err
		}
	}
	return m, nil
}
