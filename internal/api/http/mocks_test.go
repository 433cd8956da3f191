package http

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"materiel-lending-backend/internal/domain"
	"materiel-lending-backend/internal/service"
)

// MockMaterielService
type MockMaterielService struct {
	mock.Mock
}

func (m *MockMaterielService) CreateMateriel(ctx context.Context, mt *domain.Materiel) error {
	args := m.Called(ctx, mt)
	return args.Error(0)
}
func (m *MockMaterielService) GetMateriel(ctx context.Context, id int32) (*domain.Materiel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Materiel), args.Error(1)
}
func (m *MockMaterielService) UpdateMateriel(ctx context.Context, mt *domain.Materiel) error {
	args := m.Called(ctx, mt)
	return args.Error(0)
}
func (m *MockMaterielService) DeleteMateriel(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockMaterielService) ListMateriels(ctx context.Context) ([]domain.Materiel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Materiel), args.Error(1)
}
func (m *MockMaterielService) GetMaterielStats(ctx context.Context) (*domain.MaterielStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaterielStats), args.Error(1)
}

// MockLoanService
type MockLoanService struct {
	mock.Mock
}

func (m *MockLoanService) CreateLoan(ctx context.Context, l *domain.Loan) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}
func (m *MockLoanService) GetLoan(ctx context.Context, id int32) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) UpdateLoan(ctx context.Context, id int32, upd service.LoanUpdate) (*domain.Loan, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) MarkReturned(ctx context.Context, id int32, returnTime string, returnDate *time.Time) (*domain.Loan, error) {
	args := m.Called(ctx, id, returnTime, returnDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanService) DeleteLoan(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockLoanService) ListLoans(ctx context.Context, f domain.LoanFilters, page, pageSize int32) ([]domain.Loan, int32, error) {
	args := m.Called(ctx, f, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Loan), args.Get(1).(int32), args.Error(2)
}
func (m *MockLoanService) CountLoans(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockLoanService) GetLoanStats(ctx context.Context) (*domain.LoanStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanStats), args.Error(1)
}

// MockAlertService
type MockAlertService struct {
	mock.Mock
}

func (m *MockAlertService) DetectionPass(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *MockAlertService) Resolve(ctx context.Context, loanID int32) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}
func (m *MockAlertService) ListActive(ctx context.Context) ([]domain.OverdueAlert, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OverdueAlert), args.Error(1)
}
func (m *MockAlertService) RetentionSweep(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
