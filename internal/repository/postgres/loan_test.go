package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"materiel-lending-backend/internal/domain"
)

func newLoanMockDB(t *testing.T) (sqlmock.Sqlmock, *loanRepository, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	repo := &loanRepository{db: db}
	return mock, repo, func() { db.Close() }
}

func loanRows(loans ...domain.Loan) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "matricule", "borrower_name", "level", "materiel_id",
		"checkout_date", "expected_return_date", "checkout_time",
		"return_time", "actual_return_date", "created_on", "updated_on",
	})
	now := time.Now()
	for _, l := range loans {
		rows.AddRow(l.ID, l.Matricule, l.BorrowerName, l.Level, l.MaterielID,
			l.CheckoutDate, l.ExpectedReturnDate, l.CheckoutTime,
			l.ReturnTime, l.ActualReturnDate, now, now)
	}
	return rows
}

func TestLoanRepository_Create(t *testing.T) {
	mock, repo, cleanup := newLoanMockDB(t)
	defer cleanup()

	expected := time.Now().AddDate(0, 0, 14)
	l := &domain.Loan{
		Matricule:          "ET-2024-001",
		BorrowerName:       "Rakoto Jean",
		Level:              "L2",
		MaterielID:         5,
		CheckoutDate:       time.Now(),
		ExpectedReturnDate: &expected,
		CheckoutTime:       "08:30",
	}

	mock.ExpectQuery(`INSERT INTO loans`).
		WithArgs(l.Matricule, l.BorrowerName, l.Level, l.MaterielID, l.CheckoutDate, l.ExpectedReturnDate, l.CheckoutTime, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int32(42)))

	require.NoError(t, repo.Create(context.Background(), l))
	assert.Equal(t, int32(42), l.ID)
}

func TestLoanRepository_Close(t *testing.T) {
	ctx := context.Background()

	t.Run("Open Loan Closed", func(t *testing.T) {
		mock, repo, cleanup := newLoanMockDB(t)
		defer cleanup()

		mock.ExpectQuery(`UPDATE loans SET return_time=\$2`).
			WithArgs(int32(1), "17:05", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"materiel_id"}).AddRow(int32(5)))

		materielID, closed, err := repo.Close(ctx, 1, "17:05", time.Now())
		require.NoError(t, err)
		assert.True(t, closed)
		assert.Equal(t, int32(5), materielID)
	})

	t.Run("Already Closed", func(t *testing.T) {
		mock, repo, cleanup := newLoanMockDB(t)
		defer cleanup()

		// No row matches when return_time is already set.
		mock.ExpectQuery(`UPDATE loans SET return_time=\$2`).
			WithArgs(int32(1), "17:05", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"materiel_id"}))

		_, closed, err := repo.Close(ctx, 1, "17:05", time.Now())
		require.NoError(t, err)
		assert.False(t, closed)
	})
}

func TestLoanRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Open Loan", func(t *testing.T) {
		mock, repo, cleanup := newLoanMockDB(t)
		defer cleanup()

		mock.ExpectQuery(`DELETE FROM loans WHERE id = \$1 RETURNING`).
			WithArgs(int32(1)).
			WillReturnRows(sqlmock.NewRows([]string{"materiel_id", "was_open"}).AddRow(int32(5), true))

		materielID, wasOpen, err := repo.Delete(ctx, 1)
		require.NoError(t, err)
		assert.True(t, wasOpen)
		assert.Equal(t, int32(5), materielID)
	})

	t.Run("Closed Loan", func(t *testing.T) {
		mock, repo, cleanup := newLoanMockDB(t)
		defer cleanup()

		mock.ExpectQuery(`DELETE FROM loans WHERE id = \$1 RETURNING`).
			WithArgs(int32(2)).
			WillReturnRows(sqlmock.NewRows([]string{"materiel_id", "was_open"}).AddRow(int32(5), false))

		_, wasOpen, err := repo.Delete(ctx, 2)
		require.NoError(t, err)
		assert.False(t, wasOpen)
	})

	t.Run("Not Found", func(t *testing.T) {
		mock, repo, cleanup := newLoanMockDB(t)
		defer cleanup()

		mock.ExpectQuery(`DELETE FROM loans WHERE id = \$1 RETURNING`).
			WithArgs(int32(404)).
			WillReturnRows(sqlmock.NewRows([]string{"materiel_id", "was_open"}))

		_, _, err := repo.Delete(ctx, 404)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestLoanRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock, repo, cleanup := newLoanMockDB(t)
		defer cleanup()

		expected := time.Now().AddDate(0, 0, 7)
		mock.ExpectQuery(`SELECT (.+) FROM loans WHERE id = \$1`).
			WithArgs(int32(1)).
			WillReturnRows(loanRows(domain.Loan{
				ID: 1, Matricule: "ET-2024-001", BorrowerName: "Rakoto Jean",
				Level: "L2", MaterielID: 5, CheckoutDate: time.Now(),
				ExpectedReturnDate: &expected, CheckoutTime: "08:30",
			}))

		l, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "ET-2024-001", l.Matricule)
		assert.True(t, l.Open())
	})

	t.Run("Not Found", func(t *testing.T) {
		mock, repo, cleanup := newLoanMockDB(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT (.+) FROM loans WHERE id = \$1`).
			WithArgs(int32(404)).
			WillReturnRows(loanRows())

		_, err := repo.GetByID(ctx, 404)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestLoanRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Filters And Pagination", func(t *testing.T) {
		mock, repo, cleanup := newLoanMockDB(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT count\(\*\) FROM \(`).
			WithArgs("ET-2024-001").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int32(1)))
		mock.ExpectQuery(`SELECT (.+) FROM loans WHERE 1=1 AND matricule = \$1 AND return_time IS NULL ORDER BY`).
			WithArgs("ET-2024-001", int32(20), int32(0)).
			WillReturnRows(loanRows(domain.Loan{ID: 1, Matricule: "ET-2024-001", MaterielID: 5, CheckoutDate: time.Now()}))

		loans, count, err := repo.List(ctx, domain.LoanFilters{Matricule: "ET-2024-001", Status: domain.LoanStatusOpen}, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int32(1), count)
		require.Len(t, loans, 1)
		assert.Equal(t, "ET-2024-001", loans[0].Matricule)
	})

	t.Run("Empty Result", func(t *testing.T) {
		mock, repo, cleanup := newLoanMockDB(t)
		defer cleanup()

		mock.ExpectQuery(`SELECT count\(\*\) FROM \(`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int32(0)))
		mock.ExpectQuery(`SELECT (.+) FROM loans WHERE 1=1 ORDER BY`).
			WithArgs(int32(20), int32(0)).
			WillReturnRows(loanRows())

		loans, count, err := repo.List(ctx, domain.LoanFilters{}, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int32(0), count)
		assert.Empty(t, loans)
	})
}

func TestLoanRepository_ListOverdueCandidates(t *testing.T) {
	mock, repo, cleanup := newLoanMockDB(t)
	defer cleanup()

	expected := time.Now().AddDate(0, 0, -12)
	mock.ExpectQuery(`SELECT (.+) FROM loans WHERE return_time IS NULL AND expected_return_date IS NOT NULL`).
		WillReturnRows(loanRows(domain.Loan{
			ID: 1, Matricule: "ET-2024-001", MaterielID: 5,
			CheckoutDate: expected.AddDate(0, 0, -14), ExpectedReturnDate: &expected,
		}))

	loans, err := repo.ListOverdueCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.NotNil(t, loans[0].ExpectedReturnDate)
}

func TestLoanRepository_Stats(t *testing.T) {
	mock, repo, cleanup := newLoanMockDB(t)
	defer cleanup()

	cutoff := time.Now().AddDate(0, 0, -10)
	mock.ExpectQuery(`SELECT count\(\*\)`).
		WithArgs(cutoff).
		WillReturnRows(sqlmock.NewRows([]string{"total", "open", "closed", "overdue"}).AddRow(int32(10), int32(4), int32(6), int32(2)))

	st, err := repo.Stats(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int32(10), st.TotalLoans)
	assert.Equal(t, int32(4), st.OpenLoans)
	assert.Equal(t, int32(6), st.ClosedLoans)
	assert.Equal(t, int32(2), st.OverdueNow)
}
