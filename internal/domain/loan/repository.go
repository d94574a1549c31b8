package loan

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

type Repository interface {
	// CreateLoanInTx inserts the loan and its installments inside the
	// caller's transaction and returns the stored loan with ids filled.
	CreateLoanInTx(ctx context.Context, tx pgx.Tx, l *Loan) (*Loan, error)

	GetLoanByID(ctx context.Context, loanID int64) (*Loan, error)

	GetLoansByDebtor(ctx context.Context, debtorID int64) ([]Loan, error)

	GetLoansByCreditor(ctx context.Context, creditorID int64) ([]Loan, error)

	GetInstallments(ctx context.Context, loanID int64) ([]Installment, error)

	GetInstallmentByID(ctx context.Context, installmentID int64) (*Installment, error)

	// FindInstallmentForUpdate locks the installment row for the
	// duration of the payment transaction.
	FindInstallmentForUpdate(ctx context.Context, tx pgx.Tx, installmentID int64) (*Installment, error)

	// GetLoanWithScheduleInTx loads the loan and its full schedule
	// under the caller's transaction, locking the loan row.
	GetLoanWithScheduleInTx(ctx context.Context, tx pgx.Tx, loanID int64) (*Loan, error)

	UpdateInstallmentInTx(ctx context.Context, tx pgx.Tx, p *Installment) error

	// UpdateLoanDerivedInTx persists the recomputed paid counter and
	// status.
	UpdateLoanDerivedInTx(ctx context.Context, tx pgx.Tx, loanID int64, paidInstallments int, status Status) error

	// UpdateOverdueFlagsInTx marks unpaid installments past asOf as
	// overdue and returns how many rows changed.
	UpdateOverdueFlagsInTx(ctx context.Context, tx pgx.Tx, loanID int64, asOf time.Time) (int64, error)

	GetOpenLoanIDs(ctx context.Context) ([]int64, error)

	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error
}
