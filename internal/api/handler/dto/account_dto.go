package dto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"loan-marketplace/internal/domain/account"
)

type RegisterCreditorRequest struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterCreditorRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("invalid email address")
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

type RegisterDebtorRequest struct {
	Name      string `json:"name"`
	Document  string `json:"document"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	ZipCode   string `json:"zipCode,omitempty"`
	BirthDate string `json:"birthDate,omitempty"`
}

func (r *RegisterDebtorRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("invalid email address")
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if r.BirthDate != "" {
		if _, err := time.Parse(time.RFC3339[:10], r.BirthDate); err != nil {
			return fmt.Errorf("invalid birthDate format (use YYYY-MM-DD): %w", err)
		}
	}
	return nil
}

type LoginRequest struct {
	Role     string `json:"role"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	if r.Role != string(account.RoleCreditor) && r.Role != string(account.RoleDebtor) {
		return fmt.Errorf("role must be CREDITOR or DEBTOR")
	}
	if r.Email == "" || r.Password == "" {
		return fmt.Errorf("email and password are required")
	}
	return nil
}

type DepositRequest struct {
	Amount string `json:"amount"`
}

func (r *DepositRequest) Validate() error {
	d, err := decimal.NewFromString(r.Amount)
	if err != nil || r.Amount == "" {
		return fmt.Errorf("invalid deposit amount: %w", err)
	}
	if !d.IsPositive() {
		return fmt.Errorf("deposit amount must be greater than zero")
	}
	return nil
}

type UpdateDebtorProfileRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	BirthDate string `json:"birthDate,omitempty"`
}

func (r *UpdateDebtorProfileRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if r.BirthDate != "" {
		if _, err := time.Parse(time.RFC3339[:10], r.BirthDate); err != nil {
			return fmt.Errorf("invalid birthDate format (use YYYY-MM-DD): %w", err)
		}
	}
	return nil
}

type CreditorResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewCreditorResponse(c *account.Creditor) CreditorResponse {
	return CreditorResponse{
		ID:        strconv.FormatInt(c.ID, 10),
		Name:      c.Name,
		Document:  c.Document,
		Phone:     c.Phone,
		Email:     c.Email,
		Balance:   decimal.NewFromFloat(c.Balance).StringFixed(2),
		CreatedAt: c.CreatedAt,
	}
}

type DebtorResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Document        string    `json:"document,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Email           string    `json:"email"`
	Address         string    `json:"address,omitempty"`
	City            string    `json:"city,omitempty"`
	State           string    `json:"state,omitempty"`
	ZipCode         string    `json:"zipCode,omitempty"`
	BirthDate       string    `json:"birthDate,omitempty"`
	ProfileComplete bool      `json:"profileComplete"`
	CreatedAt       time.Time `json:"createdAt"`
}

func NewDebtorResponse(d *account.Debtor) DebtorResponse {
	resp := DebtorResponse{
		ID:              strconv.FormatInt(d.ID, 10),
		Name:            d.Name,
		Document:        d.Document,
		Phone:           d.Phone,
		Email:           d.Email,
		Address:         d.Address,
		City:            d.City,
		State:           d.State,
		ZipCode:         d.ZipCode,
		ProfileComplete: d.ProfileComplete(),
		CreatedAt:       d.CreatedAt,
	}
	if d.BirthDate != nil {
		resp.BirthDate = d.BirthDate.Format(time.RFC3339[:10])
	}
	return resp
}

type TokenResponse struct {
	Token     string `json:"token"`
	AccountID string `json:"accountId"`
	Role      string `json:"role"`
}
