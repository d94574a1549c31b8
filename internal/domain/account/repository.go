package account

import (
	"context"

	"github.com/jackc/pgx/v5"
)

type CreditorRepository interface {
	Create(ctx context.Context, c *Creditor) error

	FindByID(ctx context.Context, id int64) (*Creditor, error)

	FindByEmail(ctx context.Context, email string) (*Creditor, error)

	// Deposit atomically increases the balance.
	Deposit(ctx context.Context, id int64, amount float64) (*Creditor, error)

	// DebitBalanceInTx decreases the balance by amount inside tx,
	// failing with ErrPreconditionFailed when the balance would go
	// negative. The conditional update is the overdraft guard; callers
	// never check-then-write the balance themselves.
	DebitBalanceInTx(ctx context.Context, tx pgx.Tx, id int64, amount float64) error
}

type DebtorRepository interface {
	Create(ctx context.Context, d *Debtor) error

	FindByID(ctx context.Context, id int64) (*Debtor, error)

	FindByEmail(ctx context.Context, email string) (*Debtor, error)

	UpdateProfile(ctx context.Context, d *Debtor) error
}
