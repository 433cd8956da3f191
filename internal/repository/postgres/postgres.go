package postgres

import (
	"database/sql"

	"materiel-lending-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.MaterielRepository
	repository.LoanRepository
	repository.AlertRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                 db,
		MaterielRepository: NewMaterielRepository(db),
		LoanRepository:     NewLoanRepository(db),
		AlertRepository:    NewAlertRepository(db),
	}
}
