package jobs

import (
	"context"

	"materiel-lending-backend/internal/logger"
)

// DetectOverdueLoans runs the overdue detection pass: open loans past the
// threshold get alerts created or refreshed, stale alerts are dropped.
func (jr *JobRunner) DetectOverdueLoans() {
	jr.runWithRecovery("DetectOverdueLoans", func() {
		ctx := context.Background()

		count, err := jr.services.Alert.DetectionPass(ctx)
		if err != nil {
			logger.Error("Overdue detection pass failed", "error", err)
			return
		}
		logger.Info("Overdue loans detected", "count", count)
	})
}

// PurgeResolvedAlerts removes alerts resolved past the retention window.
func (jr *JobRunner) PurgeResolvedAlerts() {
	jr.runWithRecovery("PurgeResolvedAlerts", func() {
		ctx := context.Background()

		n, err := jr.services.Alert.RetentionSweep(ctx)
		if err != nil {
			logger.Error("Alert retention sweep failed", "error", err)
			return
		}
		logger.Info("Resolved alerts purged", "count", n)
	})
}
