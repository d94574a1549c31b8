package account_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"loan-marketplace/internal/domain/account"
	"loan-marketplace/internal/pkg/apperrors"
)

func setupAccountTest() (*account.MockCreditorRepository, *account.MockDebtorRepository, account.Service) {
	mockCreditors := new(account.MockCreditorRepository)
	mockDebtors := new(account.MockDebtorRepository)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := account.NewService(mockCreditors, mockDebtors, logger)
	return mockCreditors, mockDebtors, service
}

func TestService_RegisterCreditor(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockCreditors, _, service := setupAccountTest()

		mockCreditors.On("FindByEmail", ctx, "lender@example.com").Return(nil, apperrors.ErrNotFound).Once()
		mockCreditors.On("Create", ctx, mock.MatchedBy(func(c *account.Creditor) bool {
			if c.Name != "Lender" || c.Email != "lender@example.com" {
				return false
			}
			// The stored hash must verify against the original password.
			if bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte("s3cretpass")) != nil {
				return false
			}
			c.ID = 1
			return true
		})).Return(nil).Once()

		created, err := service.RegisterCreditor(ctx, &account.Creditor{
			Name:  "  Lender ",
			Email: " Lender@Example.COM ",
		}, "s3cretpass")

		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
		assert.Equal(t, "Lender", created.Name)
		assert.Equal(t, "lender@example.com", created.Email)
		assert.NotEqual(t, "s3cretpass", created.PasswordHash)
		mockCreditors.AssertExpectations(t)
	})

	t.Run("Error - Email already registered", func(t *testing.T) {
		mockCreditors, _, service := setupAccountTest()

		mockCreditors.On("FindByEmail", ctx, "lender@example.com").
			Return(&account.Creditor{ID: 7, Email: "lender@example.com"}, nil).Once()

		_, err := service.RegisterCreditor(ctx, &account.Creditor{
			Name:  "Lender",
			Email: "lender@example.com",
		}, "s3cretpass")

		assert.ErrorIs(t, err, apperrors.ErrConflict)
		mockCreditors.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error - Short password", func(t *testing.T) {
		mockCreditors, _, service := setupAccountTest()

		_, err := service.RegisterCreditor(ctx, &account.Creditor{
			Name:  "Lender",
			Email: "lender@example.com",
		}, "short")

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		mockCreditors.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error - Malformed email", func(t *testing.T) {
		_, _, service := setupAccountTest()

		_, err := service.RegisterCreditor(ctx, &account.Creditor{
			Name:  "Lender",
			Email: "not-an-email",
		}, "s3cretpass")

		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("Error - Empty name", func(t *testing.T) {
		_, _, service := setupAccountTest()

		_, err := service.RegisterCreditor(ctx, &account.Creditor{
			Name:  "   ",
			Email: "lender@example.com",
		}, "s3cretpass")

		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestService_RegisterDebtor(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		_, mockDebtors, service := setupAccountTest()

		mockDebtors.On("FindByEmail", ctx, "borrower@example.com").Return(nil, apperrors.ErrNotFound).Once()
		mockDebtors.On("Create", ctx, mock.MatchedBy(func(d *account.Debtor) bool {
			match := d.Name == "Borrower" && d.Email == "borrower@example.com"
			if match {
				d.ID = 2
			}
			return match
		})).Return(nil).Once()

		created, err := service.RegisterDebtor(ctx, &account.Debtor{
			Name:  "Borrower",
			Email: "borrower@example.com",
		}, "s3cretpass")

		require.NoError(t, err)
		assert.Equal(t, int64(2), created.ID)
		assert.False(t, created.ProfileComplete(), "a fresh debtor has no address data yet")
		mockDebtors.AssertExpectations(t)
	})

	t.Run("Error - Email already registered", func(t *testing.T) {
		_, mockDebtors, service := setupAccountTest()

		mockDebtors.On("FindByEmail", ctx, "borrower@example.com").
			Return(&account.Debtor{ID: 9}, nil).Once()

		_, err := service.RegisterDebtor(ctx, &account.Debtor{
			Name:  "Borrower",
			Email: "borrower@example.com",
		}, "s3cretpass")

		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cretpass"), bcrypt.MinCost)
	require.NoError(t, err)

	t.Run("Success - Creditor", func(t *testing.T) {
		mockCreditors, _, service := setupAccountTest()

		mockCreditors.On("FindByEmail", ctx, "lender@example.com").
			Return(&account.Creditor{ID: 1, Email: "lender@example.com", PasswordHash: string(hash)}, nil).Once()

		acct, err := service.Authenticate(ctx, account.RoleCreditor, " Lender@Example.com ", "s3cretpass")

		require.NoError(t, err)
		assert.Equal(t, int64(1), acct.AccountID())
		assert.Equal(t, account.RoleCreditor, acct.AccountRole())
		mockCreditors.AssertExpectations(t)
	})

	t.Run("Success - Debtor", func(t *testing.T) {
		_, mockDebtors, service := setupAccountTest()

		mockDebtors.On("FindByEmail", ctx, "borrower@example.com").
			Return(&account.Debtor{ID: 2, Email: "borrower@example.com", PasswordHash: string(hash)}, nil).Once()

		acct, err := service.Authenticate(ctx, account.RoleDebtor, "borrower@example.com", "s3cretpass")

		require.NoError(t, err)
		assert.Equal(t, account.RoleDebtor, acct.AccountRole())
	})

	t.Run("Error - Wrong password", func(t *testing.T) {
		mockCreditors, _, service := setupAccountTest()

		mockCreditors.On("FindByEmail", ctx, "lender@example.com").
			Return(&account.Creditor{ID: 1, PasswordHash: string(hash)}, nil).Once()

		_, err := service.Authenticate(ctx, account.RoleCreditor, "lender@example.com", "wrongpass")
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("Error - Unknown account maps to unauthorized", func(t *testing.T) {
		mockCreditors, _, service := setupAccountTest()

		mockCreditors.On("FindByEmail", ctx, "ghost@example.com").Return(nil, apperrors.ErrNotFound).Once()

		_, err := service.Authenticate(ctx, account.RoleCreditor, "ghost@example.com", "s3cretpass")
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		assert.NotErrorIs(t, err, apperrors.ErrNotFound, "login must not leak account existence")
	})

	t.Run("Error - Unknown role", func(t *testing.T) {
		_, _, service := setupAccountTest()

		_, err := service.Authenticate(ctx, account.Role("ADMIN"), "x@example.com", "s3cretpass")
		assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
	})
}

func TestService_Deposit(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockCreditors, _, service := setupAccountTest()

		mockCreditors.On("Deposit", ctx, int64(1), 250.00).
			Return(&account.Creditor{ID: 1, Balance: 1250.00}, nil).Once()

		c, err := service.Deposit(ctx, 1, 250.00)

		require.NoError(t, err)
		assert.InDelta(t, 1250.00, c.Balance, 0.001)
		mockCreditors.AssertExpectations(t)
	})

	t.Run("Error - Non-positive amount", func(t *testing.T) {
		mockCreditors, _, service := setupAccountTest()

		_, err := service.Deposit(ctx, 1, 0)
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		_, err = service.Deposit(ctx, 1, -10)
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		mockCreditors.AssertNotCalled(t, "Deposit", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_UpdateDebtorProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		_, mockDebtors, service := setupAccountTest()

		mockDebtors.On("FindByID", ctx, int64(2)).Return(&account.Debtor{ID: 2, Name: "Borrower"}, nil).Once()
		mockDebtors.On("UpdateProfile", ctx, mock.MatchedBy(func(d *account.Debtor) bool {
			return d.Address == "1 Main St" && d.City == "Springfield" && d.State == "SP" && d.ZipCode == "12345"
		})).Return(nil).Once()

		d, err := service.UpdateDebtorProfile(ctx, 2, " 1 Main St ", "Springfield", "SP", "12345")

		require.NoError(t, err)
		assert.True(t, d.ProfileComplete())
		mockDebtors.AssertExpectations(t)
	})

	t.Run("Error - Incomplete profile", func(t *testing.T) {
		_, mockDebtors, service := setupAccountTest()

		mockDebtors.On("FindByID", ctx, int64(2)).Return(&account.Debtor{ID: 2}, nil).Once()

		_, err := service.UpdateDebtorProfile(ctx, 2, "1 Main St", "", "SP", "12345")

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		mockDebtors.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything)
	})

	t.Run("Error - Debtor not found", func(t *testing.T) {
		_, mockDebtors, service := setupAccountTest()

		mockDebtors.On("FindByID", ctx, int64(99)).Return(nil, apperrors.ErrNotFound).Once()

		_, err := service.UpdateDebtorProfile(ctx, 99, "1 Main St", "Springfield", "SP", "12345")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
