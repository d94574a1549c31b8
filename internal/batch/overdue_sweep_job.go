package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"loan-marketplace/internal/domain/loan"
	"loan-marketplace/internal/pkg/apperrors"
)

// OverdueSweepJob re-derives overdue flags and loan statuses for every
// open loan. It runs nightly so the listing endpoints never have to
// compute overdue state on the read path.
type OverdueSweepJob struct {
	loanRepo loan.Repository
	ledger   loan.LedgerService
	logger   *slog.Logger
}

func NewOverdueSweepJob(loanRepo loan.Repository, ledger loan.LedgerService, logger *slog.Logger) *OverdueSweepJob {
	if loanRepo == nil || ledger == nil || logger == nil {
		panic("OverdueSweepJob dependencies cannot be nil")
	}
	return &OverdueSweepJob{
		loanRepo: loanRepo,
		ledger:   ledger,
		logger:   logger.With("job", "OverdueSweep"),
	}
}

func (j *OverdueSweepJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting daily overdue sweep job.")

	openLoanIDs, err := j.loanRepo.GetOpenLoanIDs(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to get open loan IDs, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to get open loans: %w", err)
	}
	j.logger.InfoContext(ctx, "Fetched open loan IDs.", slog.Int("count", len(openLoanIDs)))

	if len(openLoanIDs) == 0 {
		j.logger.InfoContext(ctx, "No open loans found to process.")
		j.logger.InfoContext(ctx, "Overdue sweep job finished.", slog.Duration("duration", time.Since(startTime)))
		return nil
	}

	var wg sync.WaitGroup
	var processedCount, overdueCount, errorCount atomic.Int32

	for _, loanID := range openLoanIDs {
		wg.Add(1)
		go func(currentLoanID int64) {
			defer wg.Done()

			logCtx := j.logger.With(slog.Int64("loanID", currentLoanID))

			status, refreshErr := j.ledger.RefreshLoanStatus(ctx, currentLoanID)
			if refreshErr != nil {
				if errors.Is(refreshErr, apperrors.ErrNotFound) {
					logCtx.WarnContext(ctx, "Loan disappeared during sweep", slog.Any("error", refreshErr))
				} else {
					logCtx.ErrorContext(ctx, "Failed to refresh loan status", slog.Any("error", refreshErr))
					errorCount.Add(1)
				}
				return
			}

			if status == loan.StatusOverdue {
				overdueCount.Add(1)
			}
			processedCount.Add(1)
			logCtx.DebugContext(ctx, "Loan status refreshed.", slog.String("status", string(status)))
		}(loanID)
	}

	wg.Wait()
	duration := time.Since(startTime)
	summaryLog := j.logger.With(
		slog.Duration("duration", duration),
		slog.Int("total_open_loans", len(openLoanIDs)),
		slog.Int("loans_processed", int(processedCount.Load())),
		slog.Int("loans_overdue", int(overdueCount.Load())),
		slog.Int("errors_encountered", int(errorCount.Load())),
	)
	if errorCount.Load() > 0 {
		summaryLog.WarnContext(ctx, "Overdue sweep job finished with errors.")
	} else {
		summaryLog.InfoContext(ctx, "Overdue sweep job finished successfully.")
	}

	if n := errorCount.Load(); n > 0 {
		return fmt.Errorf("job completed with %d errors", n)
	}
	return nil
}
