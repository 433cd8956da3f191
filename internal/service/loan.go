package service

import (
	"context"
	"fmt"
	"time"

	"materiel-lending-backend/internal/domain"
	"materiel-lending-backend/internal/logger"
	"materiel-lending-backend/internal/repository"
)

type loanService struct {
	loanRepo      repository.LoanRepository
	materielRepo  repository.MaterielRepository
	alertSvc      AlertService
	emailSvc      EmailService
	thresholdDays int
	notifyEmail   string
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	materielRepo repository.MaterielRepository,
	alertSvc AlertService,
	emailSvc EmailService,
	thresholdDays int,
	notifyEmail string,
) LoanService {
	return &loanService{
		loanRepo:      loanRepo,
		materielRepo:  materielRepo,
		alertSvc:      alertSvc,
		emailSvc:      emailSvc,
		thresholdDays: thresholdDays,
		notifyEmail:   notifyEmail,
	}
}

// CreateLoan reserves one unit of the materiel and opens the loan. The
// reservation happens first because it is the operation that can fail on
// business grounds; if the insert fails afterwards the unit is released
// again so stock is never committed without its loan.
func (s *loanService) CreateLoan(ctx context.Context, l *domain.Loan) error {
	if err := validateLoan(l); err != nil {
		return err
	}

	if err := s.materielRepo.ReserveUnit(ctx, l.MaterielID); err != nil {
		return err
	}

	if err := s.loanRepo.Create(ctx, l); err != nil {
		if relErr := s.materielRepo.ReleaseUnit(ctx, l.MaterielID); relErr != nil {
			logger.Error("Failed to release unit after loan create failure", "materiel_id", l.MaterielID, "error", relErr)
		}
		return fmt.Errorf("failed to create loan: %w", err)
	}

	logger.Info("Loan created", "loan_id", l.ID, "matricule", l.Matricule, "materiel_id", l.MaterielID)
	s.checkLowStock(ctx, l.MaterielID)
	return nil
}

func (s *loanService) GetLoan(ctx context.Context, id int32) (*domain.Loan, error) {
	return s.loanRepo.GetByID(ctx, id)
}

// UpdateLoan applies a partial update. When the materiel reference changes
// on an open loan, the new unit is reserved before anything else so an
// out-of-stock target aborts the whole update, and the old unit is only
// released once the loan row has been persisted.
func (s *loanService) UpdateLoan(ctx context.Context, id int32, upd LoanUpdate) (*domain.Loan, error) {
	cur, err := s.loanRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *cur
	applyLoanUpdate(&next, cur, upd)
	if err := validateLoan(&next); err != nil {
		return nil, err
	}

	openBefore := cur.Open()
	openAfter := next.Open()
	materielChanged := next.MaterielID != cur.MaterielID

	needReserve := openAfter && (!openBefore || materielChanged)
	needRelease := openBefore && (!openAfter || materielChanged)

	if needReserve {
		if err := s.materielRepo.ReserveUnit(ctx, next.MaterielID); err != nil {
			return nil, err
		}
	}

	if err := s.loanRepo.Update(ctx, &next); err != nil {
		if needReserve {
			if relErr := s.materielRepo.ReleaseUnit(ctx, next.MaterielID); relErr != nil {
				logger.Error("Failed to release unit after loan update failure", "materiel_id", next.MaterielID, "error", relErr)
			}
		}
		return nil, fmt.Errorf("failed to update loan: %w", err)
	}

	if needRelease {
		if err := s.materielRepo.ReleaseUnit(ctx, cur.MaterielID); err != nil {
			logger.Error("Failed to release unit after loan update", "loan_id", id, "materiel_id", cur.MaterielID, "error", err)
			return nil, fmt.Errorf("loan updated but unit release failed: %w", err)
		}
	}

	// A loan closed through update resolves its alert the same way an
	// explicit return does.
	if openBefore && !openAfter {
		s.resolveAlert(ctx, id)
	}

	if needReserve {
		s.checkLowStock(ctx, next.MaterielID)
	}

	logger.Info("Loan updated", "loan_id", id, "open", openAfter, "materiel_id", next.MaterielID)
	return &next, nil
}

// MarkReturned closes the loan and gives its unit back. The conditional
// close is the at-most-once gate: a second return attempt finds the loan
// already closed and fails with a conflict, without touching stock.
func (s *loanService) MarkReturned(ctx context.Context, id int32, returnTime string, returnDate *time.Time) (*domain.Loan, error) {
	if _, err := s.loanRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	now := time.Now()
	if returnTime == "" {
		returnTime = now.Format("15:04")
	}
	actualDate := now
	if returnDate != nil {
		actualDate = *returnDate
	}

	materielID, closed, err := s.loanRepo.Close(ctx, id, returnTime, actualDate)
	if err != nil {
		return nil, fmt.Errorf("failed to close loan: %w", err)
	}
	if !closed {
		return nil, fmt.Errorf("loan %d is already returned: %w", id, domain.ErrConflict)
	}

	var releaseErr error
	if err := s.materielRepo.ReleaseUnit(ctx, materielID); err != nil {
		logger.Error("Failed to release unit on return", "loan_id", id, "materiel_id", materielID, "error", err)
		releaseErr = fmt.Errorf("loan closed but unit release failed: %w", err)
	}

	// The close has committed; alert resolution failures must not undo it.
	s.resolveAlert(ctx, id)

	if releaseErr != nil {
		return nil, releaseErr
	}

	logger.Info("Loan returned", "loan_id", id, "materiel_id", materielID, "return_time", returnTime)
	return s.loanRepo.GetByID(ctx, id)
}

// DeleteLoan removes the loan, releasing its unit if it was still open.
// The delete statement reports the open state atomically, so a return
// racing with the delete cannot cause a double release.
func (s *loanService) DeleteLoan(ctx context.Context, id int32) error {
	materielID, wasOpen, err := s.loanRepo.Delete(ctx, id)
	if err != nil {
		return err
	}

	if wasOpen {
		if err := s.materielRepo.ReleaseUnit(ctx, materielID); err != nil {
			logger.Error("Failed to release unit on loan delete", "loan_id", id, "materiel_id", materielID, "error", err)
			return fmt.Errorf("loan deleted but unit release failed: %w", err)
		}
	}

	s.resolveAlert(ctx, id)

	logger.Info("Loan deleted", "loan_id", id, "was_open", wasOpen)
	return nil
}

func (s *loanService) ListLoans(ctx context.Context, f domain.LoanFilters, page, pageSize int32) ([]domain.Loan, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	return s.loanRepo.List(ctx, f, page, pageSize)
}

func (s *loanService) CountLoans(ctx context.Context) (int32, error) {
	return s.loanRepo.Count(ctx)
}

func (s *loanService) GetLoanStats(ctx context.Context) (*domain.LoanStats, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.thresholdDays)
	return s.loanRepo.Stats(ctx, cutoff)
}

func (s *loanService) resolveAlert(ctx context.Context, loanID int32) {
	if err := s.alertSvc.Resolve(ctx, loanID); err != nil {
		logger.Error("Failed to resolve alert for closed loan", "loan_id", loanID, "error", err)
	}
}

func (s *loanService) checkLowStock(ctx context.Context, materielID int32) {
	m, err := s.materielRepo.GetByID(ctx, materielID)
	if err != nil {
		logger.Warn("Failed to check stock level", "materiel_id", materielID, "error", err)
		return
	}
	if !m.LowStock() {
		return
	}
	logger.Warn("Materiel stock is low", "materiel_id", m.ID, "name", m.Name, "units_left", m.AvailableUnits)
	if s.notifyEmail == "" || s.emailSvc == nil {
		return
	}
	if err := s.emailSvc.SendLowStockNotification(ctx, s.notifyEmail, m.Name, m.AvailableUnits); err != nil {
		logger.Warn("Failed to send low stock notification", "materiel_id", m.ID, "error", err)
	}
}

func applyLoanUpdate(next *domain.Loan, cur *domain.Loan, upd LoanUpdate) {
	if upd.Matricule != nil {
		next.Matricule = *upd.Matricule
	}
	if upd.BorrowerName != nil {
		next.BorrowerName = *upd.BorrowerName
	}
	if upd.Level != nil {
		next.Level = *upd.Level
	}
	if upd.MaterielID != nil {
		next.MaterielID = *upd.MaterielID
	}
	if upd.CheckoutDate != nil {
		next.CheckoutDate = *upd.CheckoutDate
	}
	if upd.CheckoutTime != nil {
		next.CheckoutTime = *upd.CheckoutTime
	}
	if upd.ClearExpectedReturn {
		next.ExpectedReturnDate = nil
	} else if upd.ExpectedReturnDate != nil {
		d := *upd.ExpectedReturnDate
		next.ExpectedReturnDate = &d
	}
	if upd.ActualReturnDate != nil {
		d := *upd.ActualReturnDate
		next.ActualReturnDate = &d
	}
	if upd.ClearReturnTime {
		next.ReturnTime = nil
		next.ActualReturnDate = nil
	} else if upd.ReturnTime != nil {
		t := *upd.ReturnTime
		next.ReturnTime = &t
		// First-time return without an explicit date defaults to today.
		if cur.ReturnTime == nil && upd.ActualReturnDate == nil {
			today := time.Now()
			next.ActualReturnDate = &today
		}
	}
}

func validateLoan(l *domain.Loan) error {
	if l.Matricule == "" {
		return domain.NewValidationError("matricule", "is required")
	}
	if l.BorrowerName == "" {
		return domain.NewValidationError("borrower_name", "is required")
	}
	if l.MaterielID == 0 {
		return domain.NewValidationError("materiel_id", "is required")
	}
	if l.CheckoutDate.IsZero() {
		return domain.NewValidationError("checkout_date", "is required")
	}
	if l.CheckoutTime == "" {
		return domain.NewValidationError("checkout_time", "is required")
	}
	return nil
}
