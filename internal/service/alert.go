package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"materiel-lending-backend/internal/domain"
	"materiel-lending-backend/internal/logger"
	"materiel-lending-backend/internal/repository"
)

type alertService struct {
	alertRepo     repository.AlertRepository
	loanRepo      repository.LoanRepository
	materielRepo  repository.MaterielRepository
	emailSvc      EmailService
	thresholdDays int
	retentionDays int
	notifyEmail   string
}

func NewAlertService(
	alertRepo repository.AlertRepository,
	loanRepo repository.LoanRepository,
	materielRepo repository.MaterielRepository,
	emailSvc EmailService,
	thresholdDays int,
	retentionDays int,
	notifyEmail string,
) AlertService {
	return &alertService{
		alertRepo:     alertRepo,
		loanRepo:      loanRepo,
		materielRepo:  materielRepo,
		emailSvc:      emailSvc,
		thresholdDays: thresholdDays,
		retentionDays: retentionDays,
		notifyEmail:   notifyEmail,
	}
}

// DetectionPass reconciles the alert table against the open loans: loans at
// or past the threshold get an alert created or refreshed, and active
// alerts whose loan is no longer overdue (expected date edited forward, or
// the loan quietly closed) are deleted rather than left stale. Per-loan
// failures are logged and skipped so one bad record cannot block the pass.
func (s *alertService) DetectionPass(ctx context.Context) (int, error) {
	loans, err := s.loanRepo.ListOverdueCandidates(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list overdue candidates: %w", err)
	}

	now := time.Now()
	overdue := make(map[int32]bool)
	for i := range loans {
		l := &loans[i]
		days := l.DaysOverdue(now)
		if int(days) < s.thresholdDays {
			continue
		}
		overdue[l.ID] = true
		if err := s.upsertAlert(ctx, l, days, now); err != nil {
			logger.Error("Failed to upsert alert", "loan_id", l.ID, "error", err)
		}
	}

	// Drop active alerts for loans that have fallen back under the
	// threshold.
	active, err := s.alertRepo.ListActive(ctx)
	if err != nil {
		logger.Error("Failed to list active alerts for cleanup", "error", err)
	} else {
		for i := range active {
			a := &active[i]
			if overdue[a.LoanID] {
				continue
			}
			if err := s.alertRepo.DeleteByLoanID(ctx, a.LoanID); err != nil {
				logger.Error("Failed to delete stale alert", "loan_id", a.LoanID, "error", err)
			} else {
				logger.Info("Deleted stale alert", "loan_id", a.LoanID, "alert_id", a.ID)
			}
		}
	}

	logger.Info("Overdue detection pass completed", "overdue_loans", len(overdue))
	return len(overdue), nil
}

func (s *alertService) upsertAlert(ctx context.Context, l *domain.Loan, days int32, now time.Time) error {
	existing, err := s.alertRepo.GetByLoanID(ctx, l.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	if existing == nil {
		materielName := fmt.Sprintf("materiel #%d", l.MaterielID)
		if m, err := s.materielRepo.GetByID(ctx, l.MaterielID); err == nil {
			materielName = m.Name
		}
		alert := &domain.OverdueAlert{
			LoanID:             l.ID,
			Matricule:          l.Matricule,
			BorrowerName:       l.BorrowerName,
			MaterielName:       materielName,
			ExpectedReturnDate: *l.ExpectedReturnDate,
			DaysOverdue:        days,
			Status:             domain.AlertStatusActive,
			History: []domain.AlertEvent{{
				At:          now,
				Status:      domain.AlertStatusActive,
				DaysOverdue: days,
				Note:        "alert created",
			}},
		}
		if err := s.alertRepo.Create(ctx, alert); err != nil {
			return err
		}
		logger.Info("Overdue alert created", "loan_id", l.ID, "alert_id", alert.ID, "days_overdue", days)
		s.notify(ctx, alert)
		return nil
	}

	if existing.DaysOverdue == days && existing.Status == domain.AlertStatusActive {
		return nil
	}

	note := "day count refreshed"
	if existing.Status != domain.AlertStatusActive {
		note = "reactivated"
	}
	existing.DaysOverdue = days
	existing.Status = domain.AlertStatusActive
	existing.ResolvedOn = nil
	existing.History = append(existing.History, domain.AlertEvent{
		At:          now,
		Status:      domain.AlertStatusActive,
		DaysOverdue: days,
		Note:        note,
	})
	if err := s.alertRepo.Update(ctx, existing); err != nil {
		return err
	}
	logger.Info("Overdue alert updated", "loan_id", l.ID, "alert_id", existing.ID, "days_overdue", days)
	return nil
}

// Resolve closes out any non-resolved alert for the loan. A loan without
// an alert resolves to a no-op, not an error.
func (s *alertService) Resolve(ctx context.Context, loanID int32) error {
	n, err := s.alertRepo.Resolve(ctx, loanID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to resolve alerts for loan %d: %w", loanID, err)
	}
	if n > 0 {
		logger.Info("Alert resolved", "loan_id", loanID, "alerts", n)
	}
	return nil
}

func (s *alertService) ListActive(ctx context.Context) ([]domain.OverdueAlert, error) {
	return s.alertRepo.ListActive(ctx)
}

// RetentionSweep permanently removes alerts that have sat resolved past
// the retention window.
func (s *alertService) RetentionSweep(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	n, err := s.alertRepo.PurgeResolved(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge resolved alerts: %w", err)
	}
	if n > 0 {
		logger.Info("Purged resolved alerts", "count", n, "older_than", cutoff.Format("2006-01-02"))
	}
	return n, nil
}

func (s *alertService) notify(ctx context.Context, a *domain.OverdueAlert) {
	if s.notifyEmail == "" || s.emailSvc == nil {
		return
	}
	err := s.emailSvc.SendOverdueAlertNotification(ctx, s.notifyEmail, a.BorrowerName, a.Matricule, a.MaterielName, a.DaysOverdue)
	if err != nil {
		logger.Warn("Failed to send overdue alert notification", "loan_id", a.LoanID, "error", err)
	}
}
