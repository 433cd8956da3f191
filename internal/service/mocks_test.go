package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"materiel-lending-backend/internal/domain"
)

// MockMaterielRepo
type MockMaterielRepo struct {
	mock.Mock
}

func (m *MockMaterielRepo) Create(ctx context.Context, mt *domain.Materiel) error {
	args := m.Called(ctx, mt)
	return args.Error(0)
}
func (m *MockMaterielRepo) GetByID(ctx context.Context, id int32) (*domain.Materiel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Materiel), args.Error(1)
}
func (m *MockMaterielRepo) Update(ctx context.Context, mt *domain.Materiel) error {
	args := m.Called(ctx, mt)
	return args.Error(0)
}
func (m *MockMaterielRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockMaterielRepo) List(ctx context.Context) ([]domain.Materiel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Materiel), args.Error(1)
}
func (m *MockMaterielRepo) Stats(ctx context.Context) (*domain.MaterielStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MaterielStats), args.Error(1)
}
func (m *MockMaterielRepo) ReserveUnit(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockMaterielRepo) ReleaseUnit(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLoanRepo
type MockLoanRepo struct {
	mock.Mock
}

func (m *MockLoanRepo) Create(ctx context.Context, l *domain.Loan) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}
func (m *MockLoanRepo) GetByID(ctx context.Context, id int32) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) Update(ctx context.Context, l *domain.Loan) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}
func (m *MockLoanRepo) Close(ctx context.Context, id int32, returnTime string, actualReturnDate time.Time) (int32, bool, error) {
	args := m.Called(ctx, id, returnTime, actualReturnDate)
	return args.Get(0).(int32), args.Bool(1), args.Error(2)
}
func (m *MockLoanRepo) Delete(ctx context.Context, id int32) (int32, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int32), args.Bool(1), args.Error(2)
}
func (m *MockLoanRepo) List(ctx context.Context, f domain.LoanFilters, page, pageSize int32) ([]domain.Loan, int32, error) {
	args := m.Called(ctx, f, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Loan), args.Get(1).(int32), args.Error(2)
}
func (m *MockLoanRepo) Count(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockLoanRepo) CountOpenByMateriel(ctx context.Context, materielID int32) (int32, error) {
	args := m.Called(ctx, materielID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockLoanRepo) Stats(ctx context.Context, overdueCutoff time.Time) (*domain.LoanStats, error) {
	args := m.Called(ctx, overdueCutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanStats), args.Error(1)
}
func (m *MockLoanRepo) ListOverdueCandidates(ctx context.Context) ([]domain.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Loan), args.Error(1)
}

// MockAlertRepo
type MockAlertRepo struct {
	mock.Mock
}

func (m *MockAlertRepo) Create(ctx context.Context, a *domain.OverdueAlert) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockAlertRepo) GetByLoanID(ctx context.Context, loanID int32) (*domain.OverdueAlert, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OverdueAlert), args.Error(1)
}
func (m *MockAlertRepo) Update(ctx context.Context, a *domain.OverdueAlert) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}
func (m *MockAlertRepo) ListActive(ctx context.Context) ([]domain.OverdueAlert, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OverdueAlert), args.Error(1)
}
func (m *MockAlertRepo) Resolve(ctx context.Context, loanID int32, at time.Time) (int64, error) {
	args := m.Called(ctx, loanID, at)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockAlertRepo) DeleteByLoanID(ctx context.Context, loanID int32) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}
func (m *MockAlertRepo) PurgeResolved(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
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

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendOverdueAlertNotification(ctx context.Context, to, borrowerName, matricule, materielName string, daysOverdue int32) error {
	args := m.Called(ctx, to, borrowerName, matricule, materielName, daysOverdue)
	return args.Error(0)
}
func (m *MockEmailService) SendLowStockNotification(ctx context.Context, to, materielName string, unitsLeft int32) error {
	args := m.Called(ctx, to, materielName, unitsLeft)
	return args.Error(0)
}
