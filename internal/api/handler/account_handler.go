package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"loan-marketplace/internal/api/handler/dto"
	"loan-marketplace/internal/domain/account"
	"loan-marketplace/internal/pkg/apperrors"
)

type AccountHandler struct {
	accounts account.Service
	logger   *slog.Logger
}

func NewAccountHandler(accounts account.Service, l *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		logger:   l.With("component", "AccountHandler"),
	}
}

// GetCreditorProfile returns the authenticated creditor.
//
// @Summary Retrieve the authenticated creditor
// @Tags Accounts
// @Produce json
// @Success 200 {object} dto.CreditorResponse "Creditor successfully retrieved"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Failure 404 {object} dto.ErrorResponse "Creditor not found"
// @Router /creditors/me [get]
// @Security BearerAuth
func (h *AccountHandler) GetCreditorProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := callerIdentity(r)
	if err != nil {
		respondError(w, err)
		return
	}

	c, err := h.accounts.GetCreditor(r.Context(), identity.AccountID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewCreditorResponse(c))
}

// Deposit adds funds to the authenticated creditor's balance.
//
// @Summary Deposit into the creditor balance
// @Description Credits the amount to the balance available for funding loans.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body dto.DepositRequest true "Deposit payload"
// @Success 200 {object} dto.CreditorResponse "Balance successfully credited"
// @Failure 400 {object} dto.ErrorResponse "Invalid deposit amount"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Router /creditors/me/deposits [post]
// @Security BearerAuth
func (h *AccountHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	identity, err := callerIdentity(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.DepositRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	amountDecimal, _ := decimal.NewFromString(req.Amount)
	amount, _ := amountDecimal.Float64()

	c, err := h.accounts.Deposit(r.Context(), identity.AccountID, amount)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewCreditorResponse(c))
}

// GetDebtorProfile returns the authenticated debtor.
//
// @Summary Retrieve the authenticated debtor
// @Tags Accounts
// @Produce json
// @Success 200 {object} dto.DebtorResponse "Debtor successfully retrieved"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Failure 404 {object} dto.ErrorResponse "Debtor not found"
// @Router /debtors/me [get]
// @Security BearerAuth
func (h *AccountHandler) GetDebtorProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := callerIdentity(r)
	if err != nil {
		respondError(w, err)
		return
	}

	d, err := h.accounts.GetDebtor(r.Context(), identity.AccountID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewDebtorResponse(d))
}

// UpdateDebtorProfile completes or updates the debtor address data.
//
// @Summary Update the debtor profile
// @Description Address, city, state and zip code must all be present; the complete profile is a precondition for expressing interest in proposals.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param request body dto.UpdateDebtorProfileRequest true "Profile payload"
// @Success 200 {object} dto.DebtorResponse "Profile successfully updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid or incomplete profile data"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid credentials"
// @Router /debtors/me/profile [put]
// @Security BearerAuth
func (h *AccountHandler) UpdateDebtorProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := callerIdentity(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.UpdateDebtorProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	d, err := h.accounts.UpdateDebtorProfile(r.Context(), identity.AccountID, req.Address, req.City, req.State, req.ZipCode)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewDebtorResponse(d))
}
