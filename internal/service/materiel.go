package service

import (
	"context"
	"fmt"

	"materiel-lending-backend/internal/domain"
	"materiel-lending-backend/internal/logger"
	"materiel-lending-backend/internal/repository"
)

type materielService struct {
	materielRepo repository.MaterielRepository
	loanRepo     repository.LoanRepository
}

func NewMaterielService(materielRepo repository.MaterielRepository, loanRepo repository.LoanRepository) MaterielService {
	return &materielService{
		materielRepo: materielRepo,
		loanRepo:     loanRepo,
	}
}

func (s *materielService) CreateMateriel(ctx context.Context, m *domain.Materiel) error {
	if err := validateMateriel(m); err != nil {
		return err
	}
	if err := s.materielRepo.Create(ctx, m); err != nil {
		return fmt.Errorf("failed to create materiel: %w", err)
	}
	logger.Info("Materiel created", "materiel_id", m.ID, "name", m.Name, "units", m.AvailableUnits)
	return nil
}

func (s *materielService) GetMateriel(ctx context.Context, id int32) (*domain.Materiel, error) {
	return s.materielRepo.GetByID(ctx, id)
}

func (s *materielService) UpdateMateriel(ctx context.Context, m *domain.Materiel) error {
	if err := validateMateriel(m); err != nil {
		return err
	}
	return s.materielRepo.Update(ctx, m)
}

// DeleteMateriel refuses to remove an item that still backs open loans,
// which would strand their reservations.
func (s *materielService) DeleteMateriel(ctx context.Context, id int32) error {
	open, err := s.loanRepo.CountOpenByMateriel(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count open loans: %w", err)
	}
	if open > 0 {
		return fmt.Errorf("%d open loans reference this materiel: %w", open, domain.ErrConflict)
	}
	if err := s.materielRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("Materiel deleted", "materiel_id", id)
	return nil
}

func (s *materielService) ListMateriels(ctx context.Context) ([]domain.Materiel, error) {
	return s.materielRepo.List(ctx)
}

func (s *materielService) GetMaterielStats(ctx context.Context) (*domain.MaterielStats, error) {
	return s.materielRepo.Stats(ctx)
}

func validateMateriel(m *domain.Materiel) error {
	if m.Name == "" {
		return domain.NewValidationError("name", "is required")
	}
	if m.MaterielType == "" {
		return domain.NewValidationError("materiel_type", "is required")
	}
	if m.AvailableUnits < 0 {
		return domain.NewValidationError("available_units", "must not be negative")
	}
	if m.LowStockThreshold < 0 {
		return domain.NewValidationError("low_stock_threshold", "must not be negative")
	}
	return nil
}
