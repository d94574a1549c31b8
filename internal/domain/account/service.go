package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"loan-marketplace/internal/pkg/apperrors"
)

type Service interface {
	RegisterCreditor(ctx context.Context, c *Creditor, password string) (*Creditor, error)

	RegisterDebtor(ctx context.Context, d *Debtor, password string) (*Debtor, error)

	// Authenticate verifies the password for the account registered
	// under email in the given role and returns the matching variant.
	Authenticate(ctx context.Context, role Role, email, password string) (Account, error)

	GetCreditor(ctx context.Context, id int64) (*Creditor, error)

	GetDebtor(ctx context.Context, id int64) (*Debtor, error)

	// Deposit adds funds to a creditor's available balance.
	Deposit(ctx context.Context, creditorID int64, amount float64) (*Creditor, error)

	UpdateDebtorProfile(ctx context.Context, id int64, address, city, state, zipCode string) (*Debtor, error)
}

type service struct {
	creditors CreditorRepository
	debtors   DebtorRepository
	logger    *slog.Logger
}

func NewService(creditors CreditorRepository, debtors DebtorRepository, logger *slog.Logger) Service {
	if creditors == nil || debtors == nil {
		panic("account repositories cannot be nil")
	}
	return &service{
		creditors: creditors,
		debtors:   debtors,
		logger:    logger.With(slog.String("component", "accountService")),
	}
}

func (s *service) RegisterCreditor(ctx context.Context, c *Creditor, password string) (*Creditor, error) {
	if err := validateIdentity(c.Name, c.Email, password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	c.Name = strings.TrimSpace(c.Name)
	c.Email = normalizeEmail(c.Email)
	c.PasswordHash = hash
	if c.Balance < 0 {
		return nil, apperrors.NewValidationError("balance", "initial balance cannot be negative")
	}

	if existing, err := s.creditors.FindByEmail(ctx, c.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrConflict)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if err := s.creditors.Create(ctx, c); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save creditor", slog.Any("error", err))
		return nil, err
	}
	s.logger.InfoContext(ctx, "Creditor registered", slog.Int64("creditorID", c.ID))
	return c, nil
}

func (s *service) RegisterDebtor(ctx context.Context, d *Debtor, password string) (*Debtor, error) {
	if err := validateIdentity(d.Name, d.Email, password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	d.Name = strings.TrimSpace(d.Name)
	d.Email = normalizeEmail(d.Email)
	d.PasswordHash = hash

	if existing, err := s.debtors.FindByEmail(ctx, d.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrConflict)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if err := s.debtors.Create(ctx, d); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save debtor", slog.Any("error", err))
		return nil, err
	}
	s.logger.InfoContext(ctx, "Debtor registered", slog.Int64("debtorID", d.ID))
	return d, nil
}

func (s *service) Authenticate(ctx context.Context, role Role, email, password string) (Account, error) {
	email = normalizeEmail(email)

	var acct Account
	var err error
	switch role {
	case RoleCreditor:
		acct, err = s.creditors.FindByEmail(ctx, email)
	case RoleDebtor:
		acct, err = s.debtors.FindByEmail(ctx, email)
	default:
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrInvalidArgument, role)
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.HashedPassword()), []byte(password)); err != nil {
		s.logger.WarnContext(ctx, "Authentication failed", slog.String("role", string(role)))
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}
	return acct, nil
}

func (s *service) GetCreditor(ctx context.Context, id int64) (*Creditor, error) {
	return s.creditors.FindByID(ctx, id)
}

func (s *service) GetDebtor(ctx context.Context, id int64) (*Debtor, error) {
	return s.debtors.FindByID(ctx, id)
}

func (s *service) Deposit(ctx context.Context, creditorID int64, amount float64) (*Creditor, error) {
	if amount <= 0 {
		return nil, apperrors.NewValidationError("amount", "deposit amount must be positive")
	}
	c, err := s.creditors.Deposit(ctx, creditorID, amount)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Balance deposited",
		slog.Int64("creditorID", creditorID), slog.Float64("amount", amount))
	return c, nil
}

func (s *service) UpdateDebtorProfile(ctx context.Context, id int64, address, city, state, zipCode string) (*Debtor, error) {
	d, err := s.debtors.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	d.Address = strings.TrimSpace(address)
	d.City = strings.TrimSpace(city)
	d.State = strings.TrimSpace(state)
	d.ZipCode = strings.TrimSpace(zipCode)
	if !d.ProfileComplete() {
		return nil, apperrors.NewValidationError("address", "address, city, state and zip code are all required")
	}

	if err := s.debtors.UpdateProfile(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func validateIdentity(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.NewValidationError("name", "name cannot be empty")
	}
	if !strings.Contains(email, "@") {
		return apperrors.NewValidationError("email", "email is malformed")
	}
	if len(password) < 8 {
		return apperrors.NewValidationError("password", "password must have at least 8 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%w: hashing password: %w", apperrors.ErrInternalServer, err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
