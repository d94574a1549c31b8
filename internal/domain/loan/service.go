package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"loan-marketplace/internal/domain/notification"
	"loan-marketplace/internal/event"
	"loan-marketplace/internal/infrastructure/monitoring"
	"loan-marketplace/internal/pkg/apperrors"
	"loan-marketplace/internal/pkg/clock"
)

// Summary aggregates a loan's payment progress for read endpoints.
type Summary struct {
	LoanID       int64        `json:"loanId"`
	Status       Status       `json:"status"`
	TotalPaid    float64      `json:"totalPaid"`
	TotalPending float64      `json:"totalPending"`
	PaidCount    int          `json:"paidCount"`
	PendingCount int          `json:"pendingCount"`
	OverdueCount int          `json:"overdueCount"`
	NextDue      *Installment `json:"nextDue,omitempty"`
}

// LedgerService tracks a loan from creation to payoff or default:
// installment payments, arrears detection and status derivation.
type LedgerService interface {
	PayInstallment(ctx context.Context, installmentID int64) (*Installment, error)

	GetLoan(ctx context.Context, loanID int64) (*Loan, error)

	GetLoansByDebtor(ctx context.Context, debtorID int64) ([]Loan, error)

	GetLoansByCreditor(ctx context.Context, creditorID int64) ([]Loan, error)

	GetInstallments(ctx context.Context, loanID int64) ([]Installment, error)

	// Arrears returns unpaid installments whose due date already
	// passed. Read-only.
	Arrears(ctx context.Context, loanID int64) ([]Installment, error)

	GetSummary(ctx context.Context, loanID int64) (*Summary, error)

	// RefreshLoanStatus re-derives overdue flags and the loan status
	// and persists them. Used by the daily sweep.
	RefreshLoanStatus(ctx context.Context, loanID int64) (Status, error)
}

type ledgerService struct {
	repo   Repository
	sink   notification.Sink
	events event.Publisher
	clock  clock.Clock
	logger *slog.Logger
}

func NewLedgerService(repo Repository, sink notification.Sink, events event.Publisher, clk clock.Clock, logger *slog.Logger) LedgerService {
	if repo == nil || sink == nil || events == nil || clk == nil {
		panic("ledger service dependencies cannot be nil")
	}
	return &ledgerService{
		repo:   repo,
		sink:   sink,
		events: events,
		clock:  clk,
		logger: logger.With(slog.String("component", "ledgerService")),
	}
}

func (s *ledgerService) PayInstallment(ctx context.Context, installmentID int64) (p *Installment, err error) {
	s.logger.InfoContext(ctx, "Recording installment payment", "installmentID", installmentID)

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: could not begin transaction: %v", apperrors.ErrInternalServer, err)
	}
	defer func() {
		status := "success"
		switch {
		case errors.Is(err, apperrors.ErrConflict):
			status = "failure_already_paid"
		case errors.Is(err, apperrors.ErrNotFound):
			status = "failure_not_found"
		case err != nil:
			status = "failure_internal"
		}
		monitoring.RecordPayment(status)
		if err != nil {
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	entry, err := s.repo.FindInstallmentForUpdate(ctx, tx, installmentID)
	if err != nil {
		return nil, err
	}
	if entry.Paid {
		return nil, fmt.Errorf("%w: installment %d is already paid", apperrors.ErrConflict, installmentID)
	}

	now := s.clock.Now()
	entry.Paid = true
	entry.Overdue = false
	entry.PaymentDate = &now
	entry.UpdatedAt = now
	if err = s.repo.UpdateInstallmentInTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	l, err := s.repo.GetLoanWithScheduleInTx(ctx, tx, entry.LoanID)
	if err != nil {
		return nil, err
	}
	l.DeriveStatus(now)
	if err = s.repo.UpdateLoanDerivedInTx(ctx, tx, l.ID, l.PaidInstallments, l.Status); err != nil {
		return nil, err
	}

	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return nil, err
	}

	s.notifyPayment(ctx, l, entry)
	s.logger.InfoContext(ctx, "Installment paid",
		"loanID", l.ID, "installment", entry.Number, "loanStatus", string(l.Status))
	return entry, nil
}

func (s *ledgerService) notifyPayment(ctx context.Context, l *Loan, entry *Installment) {
	if l.Status == StatusPaid {
		_ = s.sink.Notify(ctx, notification.Notification{
			RecipientType: notification.RecipientCreditor,
			RecipientID:   l.CreditorID,
			Kind:          notification.KindLoanPaidOff,
			Title:         "Loan Paid Off",
			Message:       fmt.Sprintf("The loan of %.2f has been fully paid.", l.TotalValue),
			ReferenceID:   fmt.Sprintf("%d", l.ID),
			ReferenceType: notification.RefLoan,
		})
		_ = s.sink.Notify(ctx, notification.Notification{
			RecipientType: notification.RecipientDebtor,
			RecipientID:   l.DebtorID,
			Kind:          notification.KindLoanPaidOff,
			Title:         "Loan Paid Off",
			Message:       fmt.Sprintf("Congratulations! Your loan of %.2f is fully paid.", l.TotalValue),
			ReferenceID:   fmt.Sprintf("%d", l.ID),
			ReferenceType: notification.RefLoan,
		})
		if pubErr := s.events.PublishLoanPaidOff(ctx, event.LoanPaidOffEvent{
			LoanID: l.ID, CreditorID: l.CreditorID, DebtorID: l.DebtorID,
			TotalValue: l.TotalValue, Timestamp: s.clock.Now(),
		}); pubErr != nil {
			s.logger.WarnContext(ctx, "Failed to publish loan.paid_off event", slog.Any("error", pubErr))
		}
		return
	}

	_ = s.sink.Notify(ctx, notification.Notification{
		RecipientType: notification.RecipientCreditor,
		RecipientID:   l.CreditorID,
		Kind:          notification.KindInstallmentPaid,
		Title:         "Installment Paid",
		Message: fmt.Sprintf("Installment %d/%d of %.2f was paid.",
			entry.Number, l.Installments, entry.Value),
		ReferenceID:   fmt.Sprintf("%d", entry.ID),
		ReferenceType: notification.RefInstallment,
	})
	if pubErr := s.events.PublishInstallmentPaid(ctx, event.InstallmentPaidEvent{
		LoanID: l.ID, InstallmentID: entry.ID, Number: entry.Number,
		Value: entry.Value, PaidAt: *entry.PaymentDate, Timestamp: s.clock.Now(),
	}); pubErr != nil {
		s.logger.WarnContext(ctx, "Failed to publish installment_paid event", slog.Any("error", pubErr))
	}
}

func (s *ledgerService) GetLoan(ctx context.Context, loanID int64) (*Loan, error) {
	l, err := s.repo.GetLoanByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	schedule, err := s.repo.GetInstallments(ctx, loanID)
	if err != nil {
		return nil, err
	}
	l.Schedule = schedule
	l.RefreshOverdue(s.clock.Now())
	return l, nil
}

func (s *ledgerService) GetLoansByDebtor(ctx context.Context, debtorID int64) ([]Loan, error) {
	return s.repo.GetLoansByDebtor(ctx, debtorID)
}

func (s *ledgerService) GetLoansByCreditor(ctx context.Context, creditorID int64) ([]Loan, error) {
	return s.repo.GetLoansByCreditor(ctx, creditorID)
}

func (s *ledgerService) GetInstallments(ctx context.Context, loanID int64) ([]Installment, error) {
	if _, err := s.repo.GetLoanByID(ctx, loanID); err != nil {
		return nil, err
	}
	schedule, err := s.repo.GetInstallments(ctx, loanID)
	if err != nil {
		return nil, err
	}
	today := s.clock.Now()
	for i := range schedule {
		if !schedule[i].Paid && schedule[i].DueDate.Before(today) {
			schedule[i].Overdue = true
		}
	}
	return schedule, nil
}

func (s *ledgerService) Arrears(ctx context.Context, loanID int64) ([]Installment, error) {
	schedule, err := s.GetInstallments(ctx, loanID)
	if err != nil {
		return nil, err
	}
	arrears := make([]Installment, 0)
	for _, p := range schedule {
		if !p.Paid && p.Overdue {
			arrears = append(arrears, p)
		}
	}
	return arrears, nil
}

func (s *ledgerService) GetSummary(ctx context.Context, loanID int64) (*Summary, error) {
	l, err := s.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	paid := decimal.Zero
	pending := decimal.Zero
	sum := &Summary{LoanID: l.ID, Status: l.Status}
	for i := range l.Schedule {
		p := l.Schedule[i]
		v := decimal.NewFromFloat(p.Value)
		if p.Paid {
			paid = paid.Add(v)
			sum.PaidCount++
			continue
		}
		pending = pending.Add(v)
		sum.PendingCount++
		if p.Overdue {
			sum.OverdueCount++
		}
		if sum.NextDue == nil || p.DueDate.Before(sum.NextDue.DueDate) {
			next := p
			sum.NextDue = &next
		}
	}
	sum.TotalPaid = paid.InexactFloat64()
	sum.TotalPending = pending.InexactFloat64()
	return sum, nil
}

func (s *ledgerService) RefreshLoanStatus(ctx context.Context, loanID int64) (status Status, err error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: could not begin transaction: %v", apperrors.ErrInternalServer, err)
	}
	defer func() {
		if err != nil {
			_ = s.repo.RollbackTx(ctx, tx)
		}
	}()

	l, err := s.repo.GetLoanWithScheduleInTx(ctx, tx, loanID)
	if err != nil {
		return "", err
	}

	now := s.clock.Now()
	before := l.Status
	l.DeriveStatus(now)

	if _, err = s.repo.UpdateOverdueFlagsInTx(ctx, tx, loanID, now); err != nil {
		return "", err
	}
	if err = s.repo.UpdateLoanDerivedInTx(ctx, tx, loanID, l.PaidInstallments, l.Status); err != nil {
		return "", err
	}
	if err = s.repo.CommitTx(ctx, tx); err != nil {
		return "", err
	}

	if before != l.Status {
		s.logger.InfoContext(ctx, "Loan status changed",
			"loanID", loanID, "from", string(before), "to", string(l.Status))
	}
	return l.Status, nil
}
